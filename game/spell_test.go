package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpellConfigCurves(t *testing.T) {
	ice := DefaultSpells()[SpellIce]

	tests := []struct {
		level    int
		cooldown time.Duration
		duration time.Duration
	}{
		{0, 8000 * time.Millisecond, 3000 * time.Millisecond},
		{1, 8000 * time.Millisecond, 3750 * time.Millisecond},
		{2, 7000 * time.Millisecond, 4500 * time.Millisecond},
		{7, 2000 * time.Millisecond, 8250 * time.Millisecond},
		{9, 2000 * time.Millisecond, 9750 * time.Millisecond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.cooldown, ice.CooldownAt(tt.level), "cooldown at level %d", tt.level)
		assert.Equal(t, tt.duration, ice.DurationAt(tt.level), "duration at level %d", tt.level)
	}
}

func TestSpellReadyIsStrict(t *testing.T) {
	s := NewSpell(SpellIce, DefaultSpells()[SpellIce])
	assert.False(t, s.Ready(time.Hour), "unlearned spells never cast")

	s.Upgrade()
	assert.Equal(t, 1, s.Level)
	assert.False(t, s.Ready(8000*time.Millisecond), "cooldown must be strictly exceeded")
	assert.True(t, s.Ready(8001*time.Millisecond))

	s.LastCast = 10 * time.Second
	assert.False(t, s.Ready(18*time.Second))
	assert.InDelta(t, 0.5, s.CooldownProgress(14*time.Second), 0.0001)
	assert.Equal(t, 1.0, s.CooldownProgress(time.Minute))
}

func TestSpellBookUpgrade(t *testing.T) {
	book := NewSpellBook(DefaultSpells())

	choices := book.Choices()
	require.Len(t, choices, 1)
	assert.Equal(t, UpgradeChoice{
		Spell:     SpellIce,
		Name:      "Ice Blast",
		NextLevel: 1,
		Cooldown:  8000 * time.Millisecond,
		Duration:  3750 * time.Millisecond,
	}, choices[0])

	s, err := book.Upgrade(SpellIce)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 2, book.Choices()[0].NextLevel)

	_, err = book.Upgrade("fire")
	assert.ErrorIs(t, err, ErrUnknownSpell)
}
