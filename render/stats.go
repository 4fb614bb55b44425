package render

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"mathwizard/game"
)

// StatsView is the post-game fact grid. It can flip between the last game
// and every stored attempt.
type StatsView struct {
	Tables      []int
	Fast        time.Duration
	ShowAllTime bool

	session game.FactGrid
	allTime *game.FactGrid
}

// NewStatsView grades the finished session and, when history is given, all stored attempts
func NewStatsView(h game.StatsHandoff, history []game.Attempt, fast time.Duration) *StatsView {
	v := &StatsView{
		Tables:  h.Tables,
		Fast:    fast,
		session: game.BuildFactGrid(h.Session, fast),
	}
	if history != nil {
		grid := game.BuildFactGrid(history, fast)
		v.allTime = &grid
	}
	return v
}

// Grid returns the grid on display
func (v *StatsView) Grid() *game.FactGrid {
	if v.ShowAllTime && v.allTime != nil {
		return v.allTime
	}
	return &v.session
}

// Toggle switches between the session and all-time grids; it does nothing without history
func (v *StatsView) Toggle() {
	if v.allTime != nil {
		v.ShowAllTime = !v.ShowAllTime
	}
}

// HasHistory reports whether an all-time grid is available
func (v *StatsView) HasHistory() bool { return v.allTime != nil }

func (v *StatsView) selected(n int) bool {
	for _, t := range v.Tables {
		if t == n {
			return true
		}
	}
	return false
}

// categoryColor is the cell color for a fact grade
func categoryColor(c game.FactCategory) color.NRGBA {
	switch c {
	case game.FactFast:
		return color.NRGBA{R: 0x00, G: 0xcc, B: 0x44, A: 0xff}
	case game.FactSlow:
		return color.NRGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}
	case game.FactIncorrect:
		return color.NRGBA{R: 0xcc, G: 0x44, B: 0x44, A: 0xff}
	default:
		return color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	}
}

const (
	gridCell = 42
	gridX    = 190
	gridY    = 100
)

// Draw renders the grid, its legend and the key hints
func (v *StatsView) Draw(screen *ebiten.Image) {
	screen.Fill(colorSky)
	w := float64(screen.Bounds().Dx())

	title := "MULTIPLICATION FACTS - THIS GAME"
	if v.ShowAllTime && v.allTime != nil {
		title = "MULTIPLICATION FACTS - ALL TIME"
	}
	drawText(screen, title, w/2, 24, 2, colorGold, text.AlignCenter)

	grid := v.Grid()
	for i := 1; i <= 10; i++ {
		label := fmt.Sprint(i)
		clr := colorDim
		if v.selected(i) {
			clr = colorGold
		}
		drawText(screen, label, gridX-14, gridY+float64(i-1)*gridCell+14, 1, clr, text.AlignEnd)
		drawText(screen, label, gridX+float64(i-1)*gridCell+gridCell/2, gridY-18, 1, colorDim, text.AlignCenter)
	}

	for n1 := 1; n1 <= 10; n1++ {
		for n2 := 1; n2 <= 10; n2++ {
			stat, _ := grid.Fact(n1, n2)
			x := float32(gridX + (n2-1)*gridCell)
			y := float32(gridY + (n1-1)*gridCell)
			vector.DrawFilledRect(screen, x+1, y+1, gridCell-2, gridCell-2, categoryColor(stat.Category), false)
			if v.selected(n1) {
				vector.StrokeRect(screen, x+1, y+1, gridCell-2, gridCell-2, 1, colorWhite, false)
			}
			if stat.Attempts == 0 {
				continue
			}
			cell := fmt.Sprint(n1 * n2)
			if mean := stat.MeanCorrectTime(); mean > 0 {
				cell = fmt.Sprintf("%.1f", mean.Seconds())
			}
			drawText(screen, cell, float64(x)+gridCell/2, float64(y)+gridCell/2-6, 1, colorWhite, text.AlignCenter)
		}
	}

	counts := grid.Counts()
	legend := []struct {
		cat   game.FactCategory
		label string
	}{
		{game.FactFast, fmt.Sprintf("fast under %s (%d)", seconds(v.Fast), counts[game.FactFast])},
		{game.FactSlow, fmt.Sprintf("slow (%d)", counts[game.FactSlow])},
		{game.FactIncorrect, fmt.Sprintf("missed (%d)", counts[game.FactIncorrect])},
		{game.FactNone, fmt.Sprintf("not asked (%d)", counts[game.FactNone])},
	}
	ly := float32(gridY + 10*gridCell + 20)
	lx := float32(60)
	for _, l := range legend {
		vector.DrawFilledRect(screen, lx, ly, 14, 14, categoryColor(l.cat), false)
		drawText(screen, l.label, float64(lx)+20, float64(ly)+1, 1, colorWhite, text.AlignStart)
		lx += 180
	}

	hint := "[R] Play again    [Q] Quit"
	if v.allTime != nil {
		hint = "[TAB] This game / all time    " + hint
	}
	drawText(screen, hint, w/2, float64(ly)+34, 1.5, colorDim, text.AlignCenter)
}
