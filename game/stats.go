package game

import "time"

// FactCategory grades how well a multiplication fact is known
type FactCategory string

const (
	FactNone      FactCategory = "none"      // never asked
	FactIncorrect FactCategory = "incorrect" // answered wrong at least once
	FactFast      FactCategory = "fast"      // always right, quick on average
	FactSlow      FactCategory = "slow"      // always right, slow on average
)

// FactStat aggregates the attempts at one fact
type FactStat struct {
	Attempts         int
	Errors           int
	CorrectCount     int
	TotalTimeCorrect time.Duration
	Category         FactCategory
}

// MeanCorrectTime returns the average time of correct answers
func (s FactStat) MeanCorrectTime() time.Duration {
	if s.CorrectCount == 0 {
		return 0
	}
	return s.TotalTimeCorrect / time.Duration(s.CorrectCount)
}

// FactGrid holds stats for n1 × n2 facts, 1..10 each. Index as grid[n1-1][n2-1].
type FactGrid [10][10]FactStat

// BuildFactGrid aggregates multiplication attempts. Other operators and
// operands outside 1..10 are skipped.
func BuildFactGrid(attempts []Attempt, fastThreshold time.Duration) FactGrid {
	var grid FactGrid
	for _, a := range attempts {
		if a.Op != OpMultiply || a.Num1 < 1 || a.Num1 > 10 || a.Num2 < 1 || a.Num2 > 10 {
			continue
		}
		s := &grid[a.Num1-1][a.Num2-1]
		s.Attempts++
		if a.Correct {
			s.CorrectCount++
			s.TotalTimeCorrect += a.TimeTaken
		} else {
			s.Errors++
		}
	}

	for i := range grid {
		for j := range grid[i] {
			s := &grid[i][j]
			switch {
			case s.Attempts == 0:
				s.Category = FactNone
			case s.Errors > 0:
				s.Category = FactIncorrect
			case s.MeanCorrectTime() <= fastThreshold:
				s.Category = FactFast
			default:
				s.Category = FactSlow
			}
		}
	}
	return grid
}

// Fact returns the stat for n1 × n2
func (g *FactGrid) Fact(n1, n2 int) (FactStat, bool) {
	if n1 < 1 || n1 > 10 || n2 < 1 || n2 > 10 {
		return FactStat{}, false
	}
	return g[n1-1][n2-1], true
}

// Counts tallies facts per category
func (g *FactGrid) Counts() map[FactCategory]int {
	out := make(map[FactCategory]int, 4)
	for i := range g {
		for j := range g[i] {
			out[g[i][j].Category]++
		}
	}
	return out
}
