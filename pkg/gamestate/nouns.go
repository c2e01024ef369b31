package gamestate

import (
	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"
)

// Nouns further than this from every known name are passed through
// unchanged rather than force-matched.
const maxNounDistance = 4

// Corrector snaps OCR-mangled names onto the known player/monster
// vocabulary by edit distance. Lookups are memoized; the memo resets
// whenever the vocabulary changes.
type Corrector struct {
	known map[string]struct{}
	cache map[string]string
	log   *zap.Logger
}

func NewCorrector(log *zap.Logger) *Corrector {
	return &Corrector{
		known: make(map[string]struct{}),
		cache: make(map[string]string),
		log:   log,
	}
}

// Add registers known names and invalidates the memo.
func (c *Corrector) Add(nouns ...string) {
	for _, n := range nouns {
		c.known[n] = struct{}{}
	}
	c.cache = make(map[string]string)
}

// Remove forgets names and invalidates the memo.
func (c *Corrector) Remove(nouns ...string) {
	for _, n := range nouns {
		delete(c.known, n)
	}
	c.cache = make(map[string]string)
}

// Correct returns the nearest known name within the distance bound, or s
// itself when nothing is close enough.
func (c *Corrector) Correct(s string) string {
	if hit, ok := c.cache[s]; ok {
		return hit
	}
	best := s
	bestDist := maxNounDistance
	for noun := range c.known {
		if d := levenshtein.ComputeDistance(s, noun); d < bestDist {
			bestDist = d
			best = noun
		}
	}
	c.cache[s] = best
	if best != s {
		c.log.Debug("corrected noun", zap.String("from", s), zap.String("to", best))
	}
	return best
}
