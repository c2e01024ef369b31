package detector

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// datasetEntry is the stored form of one baseline: the packed silhouette,
// zlib-compressed then base64-encoded, plus the average color.
type datasetEntry struct {
	Img    string `json:"img"`
	Avg    [3]int `json:"avg"`
	Ignore bool   `json:"ignore,omitempty"`
}

// Load reads the dataset at path. A missing file yields an empty detector.
func Load(path string, log *zap.Logger) (*Detector, error) {
	d := New(path, log)
	if err := d.reload(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Detector) reload() error {
	data, err := os.ReadFile(d.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read dataset %s: %w", d.path, err)
	}

	var entries map[string]datasetEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse dataset %s: %w", d.path, err)
	}

	dataset := make(map[string]*Sprite, len(entries))
	ignored := make(map[string]bool)
	for name, entry := range entries {
		sprite, err := decodeSprite(entry)
		if err != nil {
			return fmt.Errorf("dataset entry %q: %w", name, err)
		}
		dataset[name] = sprite
		if entry.Ignore {
			ignored[name] = true
		}
	}

	d.mu.Lock()
	d.dataset = dataset
	d.ignored = ignored
	d.mu.Unlock()
	return nil
}

// Save writes the dataset to its file.
func (d *Detector) Save() error {
	d.mu.RLock()
	entries := make(map[string]datasetEntry, len(d.dataset))
	for name, sprite := range d.dataset {
		entries[name] = encodeSprite(sprite, d.ignored[name])
	}
	d.mu.RUnlock()

	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(d.path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset %s: %w", d.path, err)
	}
	return nil
}

// Dump writes every baseline as a PNG into a directory, for eyeballing
// what the detector actually matches against.
func (d *Detector) Dump(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for name, sprite := range d.dataset {
		img := image.NewGray(image.Rect(0, 0, reducedSize, reducedSize))
		for y := 0; y < reducedSize; y++ {
			for x := 0; x < reducedSize; x++ {
				if sprite.Bit(x, y) {
					img.SetGray(x, y, color.Gray{Y: 255})
				}
			}
		}
		out := filepath.Join(dir, name+".png")
		if err := imaging.Save(img, out); err != nil {
			return fmt.Errorf("dump %q: %w", name, err)
		}
	}
	return nil
}

// Watch hot-reloads the dataset whenever its file changes, until ctx ends.
func (d *Detector) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch dataset: %w", err)
	}
	// watch the directory: editors and Save both replace the file
	if err := watcher.Add(filepath.Dir(d.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(d.path), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(d.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := d.reload(); err != nil {
					d.log.Warn("dataset reload failed", zap.Error(err))
					continue
				}
				d.log.Info("dataset reloaded", zap.Int("baselines", len(d.Names())))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.log.Warn("dataset watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

func encodeSprite(s *Sprite, ignore bool) datasetEntry {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(s.Bits[:])
	_ = w.Close()
	return datasetEntry{
		Img:    base64.StdEncoding.EncodeToString(buf.Bytes()),
		Avg:    s.Avg,
		Ignore: ignore,
	}
}

func decodeSprite(entry datasetEntry) (*Sprite, error) {
	compressed, err := base64.StdEncoding.DecodeString(entry.Img)
	if err != nil {
		return nil, err
	}
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw) != bitmapBytes {
		return nil, fmt.Errorf("bitmap is %d bytes, want %d", len(raw), bitmapBytes)
	}
	s := &Sprite{Avg: entry.Avg}
	copy(s.Bits[:], raw)
	return s, nil
}
