package ocr

import (
	"fmt"
	"strconv"
	"strings"
)

// digitGarbles maps the characters tesseract consistently misreads in the
// game's number font onto the digits they actually are.
var digitGarbles = strings.NewReplacer(
	"o", "0",
	"l", "1",
	"i", "1",
	"s", "5",
	"&", "6",
	"y", "7",
	"?", "7",
)

// ParseInt decodes an integer from OCR text, undoing known digit garbles.
func ParseInt(s string) (int, error) {
	// "psu" is a weird but fully consistent misread of 20.
	if s == "psu" {
		return 20, nil
	}
	n, err := strconv.Atoi(digitGarbles.Replace(s))
	if err != nil {
		return 0, fmt.Errorf("unreadable number %q", s)
	}
	return n, nil
}
