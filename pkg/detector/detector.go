// Package detector identifies monsters in a battle screenshot by comparing
// their silhouettes against a baseline dataset.
package detector

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// DefaultDataset is the baseline file kept next to the binary.
const DefaultDataset = "monsters.json"

// Detector matches screenshot sprites against named baselines. Safe for
// concurrent use; the dataset can be hot-reloaded while identification runs.
type Detector struct {
	mu      sync.RWMutex
	path    string
	dataset map[string]*Sprite
	ignored map[string]bool
	log     *zap.Logger
}

// New returns an empty detector that will persist to path.
func New(path string, log *zap.Logger) *Detector {
	return &Detector{
		path:    path,
		dataset: make(map[string]*Sprite),
		ignored: make(map[string]bool),
		log:     log,
	}
}

// AddBaseline reduces an image file into the dataset under a monster name.
// Ignored baselines (UI sprites like the cursor) still match but are
// dropped from identification results.
func (d *Detector) AddBaseline(file, name string, ignore bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.dataset[name]; exists {
		return fmt.Errorf("conflicting baseline name %q", name)
	}
	img, err := imaging.Open(file)
	if err != nil {
		return fmt.Errorf("baseline %q: %w", name, err)
	}
	d.dataset[name] = Reduce(img)
	if ignore {
		d.ignored[name] = true
	}
	return nil
}

// Names lists the baseline names in the dataset.
func (d *Detector) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.dataset))
	for name := range d.dataset {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Identify splits a battle screenshot and returns the nearest baseline name
// for each monster found, skipping ignored baselines.
func (d *Detector) Identify(img image.Image) []string {
	crops := Split(img)
	d.log.Debug("identifying sprites", zap.Int("count", len(crops)))

	d.mu.RLock()
	defer d.mu.RUnlock()
	var monsters []string
	for _, crop := range crops {
		name := d.findNearest(Reduce(crop))
		if name == "" {
			continue
		}
		if d.ignored[name] {
			d.log.Debug("ignoring sprite", zap.String("name", name))
			continue
		}
		monsters = append(monsters, name)
	}
	return monsters
}

// findNearest returns the baseline with the highest silhouette agreement.
// Callers hold at least a read lock.
func (d *Detector) findNearest(s *Sprite) string {
	bestScore := 0.0
	bestName := ""
	for name, baseline := range d.dataset {
		score := s.Similarity(baseline)
		if score == 1.0 {
			return name
		}
		if score > bestScore {
			bestScore = score
			bestName = name
		}
	}
	return bestName
}
