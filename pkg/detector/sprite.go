package detector

import (
	"image"
	"math/bits"

	"github.com/disintegration/imaging"
)

// Sprites are compared as 32x32 1-bit silhouettes.
const (
	reducedSize = 32
	rowBytes    = reducedSize / 8
	bitmapBytes = reducedSize * rowBytes
)

// Sprite is a reduced monster image: a packed silhouette bitmap (rows of 4
// bytes, most significant bit first) plus the average color of the lit
// pixels. The packing matches the historical dataset files.
type Sprite struct {
	Bits [bitmapBytes]byte
	Avg  [3]int
}

func (s *Sprite) setBit(x, y int) {
	s.Bits[y*rowBytes+x/8] |= 0x80 >> (x % 8)
}

// Bit reports whether the silhouette pixel at (x, y) is lit.
func (s *Sprite) Bit(x, y int) bool {
	return s.Bits[y*rowBytes+x/8]&(0x80>>(x%8)) != 0
}

// Similarity is the fraction of silhouette pixels two sprites agree on.
func (s *Sprite) Similarity(o *Sprite) float64 {
	matches := 0
	for i := range s.Bits {
		matches += 8 - bits.OnesCount8(s.Bits[i]^o.Bits[i])
	}
	return float64(matches) / float64(reducedSize*reducedSize)
}

// Reduce shrinks a monster crop to its comparable sprite form.
func Reduce(img image.Image) *Sprite {
	small := imaging.Resize(img, reducedSize, reducedSize, imaging.NearestNeighbor)
	s := &Sprite{}
	var sum [3]int
	lit := 0
	for y := 0; y < reducedSize; y++ {
		for x := 0; x < reducedSize; x++ {
			c := small.NRGBAAt(x, y)
			if c.A == 0 || (c.R == 0 && c.G == 0 && c.B == 0) {
				continue
			}
			s.setBit(x, y)
			sum[0] += int(c.R)
			sum[1] += int(c.G)
			sum[2] += int(c.B)
			lit++
		}
	}
	if lit > 0 {
		s.Avg = [3]int{sum[0] / lit, sum[1] / lit, sum[2] / lit}
	}
	return s
}

// Split cuts a battle screenshot with a black background into one crop per
// monster by finding runs of columns that contain non-black pixels.
func Split(img image.Image) []image.Image {
	b := img.Bounds()
	var crops []image.Image

	runStart := -1
	yLo, yHi := -1, -1
	flush := func(end int) {
		if runStart < 0 || yLo < 0 {
			return
		}
		r := image.Rect(runStart, yLo, end, yHi+1)
		crops = append(crops, imaging.Crop(img, r))
		runStart, yLo, yHi = -1, -1, -1
	}

	for x := b.Min.X; x < b.Max.X; x++ {
		found := false
		for y := b.Min.Y; y < b.Max.Y; y++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r|g|bl != 0 {
				found = true
				if runStart < 0 {
					runStart = x
				}
				if yLo < 0 || y < yLo {
					yLo = y
				}
				if y > yHi {
					yHi = y
				}
			}
		}
		if !found {
			flush(x)
		}
	}
	flush(b.Max.X)
	return crops
}
