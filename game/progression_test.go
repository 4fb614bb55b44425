package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressionCarriesRemainder(t *testing.T) {
	p := NewProgression(3)
	p.CurrentExp = 2

	assert.True(t, p.Add(5))
	p.LevelUp()
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 4, p.CurrentExp)
	assert.Equal(t, 6, p.ExpToNext)
	assert.False(t, p.Ready())
}

func TestProgressionThresholds(t *testing.T) {
	p := NewProgression(0)
	assert.Equal(t, 1, p.Level)

	var thresholds []int
	for i := 0; i < 4; i++ {
		thresholds = append(thresholds, p.ExpToNext)
		p.Add(p.ExpToNext)
		p.LevelUp()
	}
	assert.Equal(t, []int{3, 6, 10, 15}, thresholds)
	assert.Equal(t, 5, p.Level)
	assert.Zero(t, p.CurrentExp)
}

func TestProgressionIgnoresNegativeExp(t *testing.T) {
	p := NewProgression(3)
	assert.False(t, p.Add(-4))
	assert.Zero(t, p.CurrentExp)
}
