package ocr

import (
	"image"
	"unicode"

	"github.com/disintegration/imaging"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Preprocess prepares a game capture for tesseract. Battle text is light on
// a dark panel; inverting gives dark-on-light, and a slight blur smooths the
// pixel-font edges that otherwise fragment glyphs.
func Preprocess(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	out = imaging.Invert(out)
	out = imaging.Blur(out, 0.8)
	return out
}

// foldASCII strips diacritics tesseract sometimes hallucinates on pixel
// fonts, leaving plain ASCII for the parsers.
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldASCII(s string) string {
	folded, _, err := transform.String(foldTransform, s)
	if err != nil {
		return s
	}
	return folded
}
