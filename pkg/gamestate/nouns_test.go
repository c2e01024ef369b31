package gamestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCorrectorSnapsToNearest(t *testing.T) {
	c := NewCorrector(zap.NewNop())
	c.Add("lizard", "goblin grunt")

	assert.Equal(t, "lizard", c.Correct("lizerd"))
	assert.Equal(t, "goblin grunt", c.Correct("gobiin grunt"))
	// too far from everything known
	assert.Equal(t, "cave bat", c.Correct("cave bat"))
}

func TestCorrectorMemoInvalidation(t *testing.T) {
	c := NewCorrector(zap.NewNop())

	// the miss is memoized
	assert.Equal(t, "lizerd", c.Correct("lizerd"))
	assert.Equal(t, "lizerd", c.Correct("lizerd"))

	// growing the vocabulary must re-correct the cached miss
	c.Add("lizard")
	assert.Equal(t, "lizard", c.Correct("lizerd"))

	// and shrinking it must forget the cached hit
	c.Remove("lizard")
	assert.Equal(t, "lizerd", c.Correct("lizerd"))
}
