// Package ocr captures a screen region and turns it into deduplicated,
// normalized battle-text lines.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"regexp"
	"strings"

	"github.com/kbinani/screenshot"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// Known OCR artifacts from UI chrome that should never be treated as
// battle text.
var ignoreRe = regexp.MustCompile(`^(meal\)|Sa 0\))`)

// minLineLen drops fragments too short to be a battle sentence.
const minLineLen = 5

// Box is the captured screen rectangle.
type Box struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func (b Box) rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Reader polls a screen region and yields new battle lines. Not safe for
// concurrent use; the tracker loop is the only caller.
type Reader struct {
	box    Box
	client *gosseract.Client
	log    *zap.Logger

	prevText string
	prevLine string
}

// NewReader prepares a tesseract client for the given region.
func NewReader(box Box, log *zap.Logger) (*Reader, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("set language: %w", err)
	}
	return &Reader{box: box, client: client, log: log}, nil
}

// Close releases the tesseract client.
func (r *Reader) Close() error {
	return r.client.Close()
}

// SetBox re-points the capture region.
func (r *Reader) SetBox(box Box) {
	r.box = box
}

// Box returns the current capture region.
func (r *Reader) Box() Box {
	return r.box
}

// Capture grabs a screen region.
func Capture(box Box) (image.Image, error) {
	img, err := screenshot.CaptureRect(box.rect())
	if err != nil {
		return nil, fmt.Errorf("capture %+v: %w", box, err)
	}
	return img, nil
}

// Text captures the region and runs OCR over the preprocessed image.
func (r *Reader) Text() (string, error) {
	img, err := Capture(r.box)
	if err != nil {
		return "", err
	}
	pre := Preprocess(img)
	var buf bytes.Buffer
	if err := png.Encode(&buf, pre); err != nil {
		return "", fmt.Errorf("encode capture: %w", err)
	}
	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return text, nil
}

// Lines captures once and returns the battle lines not yet seen.
func (r *Reader) Lines() ([]string, error) {
	raw, err := r.Text()
	if err != nil {
		return nil, err
	}
	return r.dedup(raw), nil
}

// dedup filters one capture's worth of OCR text. A capture identical to the
// previous one yields nothing, and the last emitted line is suppressed so a
// slow-scrolling text box is not double counted.
func (r *Reader) dedup(raw string) []string {
	text := foldASCII(strings.TrimSpace(raw))
	if text == r.prevText {
		return nil
	}
	r.prevText = text

	var lines []string
	for _, line := range SplitLines(text) {
		if line == r.prevLine {
			continue
		}
		r.prevLine = line
		r.log.Debug("ocr line", zap.String("line", line))
		lines = append(lines, line)
	}
	return lines
}

// SplitLines normalizes raw OCR output into candidate battle lines.
func SplitLines(text string) []string {
	var out []string
	for _, s := range strings.Split(text, "\n") {
		s = strings.TrimSpace(s)
		if len(s) <= minLineLen || ignoreRe.MatchString(s) {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out
}
