package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mathwizard/game"
	"mathwizard/store"
)

func TestPrintGrid(t *testing.T) {
	attempts := []game.Attempt{
		{Num1: 1, Num2: 1, Op: game.OpMultiply, Correct: true, TimeTaken: time.Second},
		{Num1: 1, Num2: 2, Op: game.OpMultiply, Correct: true, TimeTaken: 9 * time.Second},
		{Num1: 1, Num2: 3, Op: game.OpMultiply, Correct: false},
	}
	var buf bytes.Buffer
	printGrid(&buf, game.BuildFactGrid(attempts, 3*time.Second), 3*time.Second)

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 12)
	assert.Equal(t, "  1  F  s  X  .  .  .  .  .  .  .", lines[1])
	assert.Contains(t, buf.String(), "F fast (mean <= 3s): 1   s slow: 1   X missed: 1   . not asked: 97")
}

func TestPrintSessions(t *testing.T) {
	var buf bytes.Buffer
	printSessions(&buf, nil)
	assert.Equal(t, "No games played yet.\n", buf.String())

	buf.Reset()
	printSessions(&buf, []store.SessionRow{{
		ID:         2,
		Tables:     []int{3, 4},
		Difficulty: 1.5,
		Score:      120,
		Wave:       6,
		Level:      3,
		EndedAt:    time.Date(2026, 10, 19, 14, 30, 0, 0, time.Local),
	}})
	out := buf.String()
	assert.Contains(t, out, "2026-10-19 14:30:00")
	assert.Contains(t, out, "3,4")
	assert.Contains(t, out, " 1.50    120     6     3")
}
