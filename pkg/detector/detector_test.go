package detector

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blob draws a filled rectangle of one color onto a black canvas.
func blob(w, h int, c color.NRGBA) image.Image {
	return shape(w, h, c, func(x, y int) bool { return true })
}

// ring draws only the rectangle border, giving a hollow silhouette.
func ring(w, h int, c color.NRGBA) image.Image {
	return shape(w, h, c, func(x, y int) bool {
		return x == 0 || y == 0 || x == w-1 || y == h-1
	})
}

// diag draws the main diagonal.
func diag(n int, c color.NRGBA) image.Image {
	return shape(n, n, c, func(x, y int) bool { return x == y })
}

func shape(w, h int, c color.NRGBA, lit func(x, y int) bool) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if lit(x, y) {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

func pngEncode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// scene places sprites onto a black battle backdrop separated by blank
// columns, the way the game lays monsters out.
func scene(sprites ...image.Image) image.Image {
	const pad = 8
	width, height := pad, 64
	for _, s := range sprites {
		width += s.Bounds().Dx() + pad
	}
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	x := pad
	for _, s := range sprites {
		b := s.Bounds()
		for sy := 0; sy < b.Dy(); sy++ {
			for sx := 0; sx < b.Dx(); sx++ {
				out.Set(x+sx, 16+sy, s.At(b.Min.X+sx, b.Min.Y+sy))
			}
		}
		x += b.Dx() + pad
	}
	return out
}

var (
	red   = color.NRGBA{R: 200, A: 255}
	green = color.NRGBA{G: 200, A: 255}
)

func TestSplitFindsRuns(t *testing.T) {
	crops := Split(scene(blob(10, 12, red), blob(20, 8, green)))
	require.Len(t, crops, 2)
	assert.Equal(t, 10, crops[0].Bounds().Dx())
	assert.Equal(t, 12, crops[0].Bounds().Dy())
	assert.Equal(t, 20, crops[1].Bounds().Dx())
}

func TestSplitSpriteTouchingRightEdge(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 4; y < 12; y++ {
		for x := 10; x < 16; x++ {
			img.SetNRGBA(x, y, red)
		}
	}
	crops := Split(img)
	require.Len(t, crops, 1)
	assert.Equal(t, 6, crops[0].Bounds().Dx())
}

func TestReduceAndSimilarity(t *testing.T) {
	square := Reduce(blob(16, 16, red))
	// a full square lights the whole silhouette
	assert.Equal(t, 1.0, square.Similarity(square))
	assert.Equal(t, [3]int{200, 0, 0}, square.Avg)

	empty := &Sprite{}
	assert.Equal(t, 0.0, square.Similarity(empty))
}

func TestIdentifyNearestBaseline(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, img image.Image) string {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, pngEncode(f, img))
		require.NoError(t, f.Close())
		return path
	}

	d := New(filepath.Join(dir, "monsters.json"), zap.NewNop())
	require.NoError(t, d.AddBaseline(write("square.png", blob(16, 16, red)), "square", false))
	require.NoError(t, d.AddBaseline(write("ring.png", ring(16, 16, green)), "ring", false))
	require.NoError(t, d.AddBaseline(write("cursor.png", diag(16, red)), "cursor", true))

	got := d.Identify(scene(blob(16, 16, red), ring(16, 16, green), diag(16, red)))
	assert.Equal(t, []string{"square", "ring"}, got)
}

func TestAddBaselineConflict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, pngEncode(f, blob(8, 8, red)))
	require.NoError(t, f.Close())

	d := New(filepath.Join(dir, "monsters.json"), zap.NewNop())
	require.NoError(t, d.AddBaseline(path, "dup", false))
	assert.Error(t, d.AddBaseline(path, "dup", false))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, pngEncode(f, blob(16, 16, red)))
	require.NoError(t, f.Close())

	datasetPath := filepath.Join(dir, "monsters.json")
	d := New(datasetPath, zap.NewNop())
	require.NoError(t, d.AddBaseline(path, "square", false))
	require.NoError(t, d.AddBaseline(path, "cursor", true))
	require.NoError(t, d.Save())

	loaded, err := Load(datasetPath, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"cursor", "square"}, loaded.Names())
	assert.True(t, loaded.ignored["cursor"])
	assert.Equal(t, 1.0, loaded.dataset["square"].Similarity(d.dataset["square"]))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "none.json"), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, d.Names())
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "b.png")
	f, err := os.Create(imgPath)
	require.NoError(t, err)
	require.NoError(t, pngEncode(f, blob(16, 16, red)))
	require.NoError(t, f.Close())

	datasetPath := filepath.Join(dir, "monsters.json")
	builder := New(datasetPath, zap.NewNop())
	require.NoError(t, builder.AddBaseline(imgPath, "square", false))
	require.NoError(t, builder.Save())

	watching, err := Load(datasetPath, zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watching.Watch(ctx))

	require.NoError(t, builder.AddBaseline(imgPath, "second", false))
	require.NoError(t, builder.Save())

	deadline := time.After(3 * time.Second)
	for len(watching.Names()) != 2 {
		select {
		case <-deadline:
			t.Fatalf("dataset not reloaded, names=%v", watching.Names())
		case <-time.After(20 * time.Millisecond):
		}
	}
}
