package render

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"mathwizard/game"
)

var uiFace = text.NewGoXFace(basicfont.Face7x13)

var (
	colorSky       = color.NRGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	colorGround    = color.NRGBA{R: 0x2e, G: 0x4d, B: 0x2e, A: 0xff}
	colorGroundTop = color.NRGBA{R: 0x4c, G: 0x7a, B: 0x3c, A: 0xff}
	colorDanger    = color.NRGBA{R: 0xff, G: 0x30, B: 0x30, A: 0x50}
	colorGold      = color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
	colorWhite     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorDim       = color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
	colorRed       = color.NRGBA{R: 0xff, G: 0x44, B: 0x44, A: 0xff}
	colorExp       = color.NRGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff}
	colorBarBack   = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	colorIce       = color.NRGBA{R: 0x88, G: 0xcc, B: 0xff, A: 0xff}
	colorPanel     = color.NRGBA{R: 0x11, G: 0x11, B: 0x44, A: 0xf0}
	colorShade     = color.NRGBA{A: 0xcc}
)

const wizardScale = 1.5

// drawText draws s with its top edge at y. Scale multiplies the 7x13 font.
func drawText(dst *ebiten.Image, s string, x, y, scale float64, clr color.Color, align text.Align) {
	op := &text.DrawOptions{}
	op.PrimaryAlign = align
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, uiFace, op)
}

// displayText maps glyphs the bitmap font lacks to ASCII
func displayText(s string) string {
	return strings.ReplaceAll(s, "×", "x")
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func (f *Frontend) drawBackground(screen *ebiten.Image, cfg game.Config, ox, oy float64) {
	w, h := float32(cfg.ScreenWidth), float32(cfg.ScreenHeight)
	screen.Fill(colorSky)

	ground := float32(cfg.GroundY() + oy)
	vector.DrawFilledRect(screen, 0, ground, w, h-ground, colorGround, false)
	vector.DrawFilledRect(screen, 0, ground, w, 4, colorGroundTop, false)

	// Dashed damage line
	x := float32(cfg.DamageLineX + ox)
	for y := float32(0); y < ground; y += 16 {
		vector.StrokeLine(screen, x, y, x, y+8, 2, colorDanger, false)
	}
}

func (f *Frontend) drawWizard(screen *ebiten.Image, g *game.Game, ox, oy float64) {
	img := f.sprites.Get("wizard")
	if img == nil {
		return
	}
	cfg := g.Config()
	b := img.Bounds()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy()))
	op.GeoM.Scale(wizardScale, wizardScale)
	op.GeoM.Translate(cfg.WizardX+ox, cfg.GroundY()+oy)

	if f.fx.Hurt() {
		op.ColorScale.Scale(1, 0.5, 0.5, 1)
	}
	// Blink during the grace period
	if g.Invulnerable() && (g.Now()/(100*time.Millisecond))%2 == 0 {
		op.ColorScale.ScaleAlpha(0.4)
	}
	screen.DrawImage(img, op)
}

func (f *Frontend) drawEnemies(screen *ebiten.Image, g *game.Game, ox, oy float64) {
	for _, e := range g.Enemies() {
		if !e.Alive() {
			continue
		}
		img := f.sprites.Enemy(e.Kind)
		if img == nil {
			continue
		}
		b := img.Bounds()
		scale := e.Scale
		if scale <= 0 {
			scale = 1
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy()))
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(e.X+ox, e.Y+oy)
		switch {
		case f.fx.Flashing(e.ID):
			op.ColorScale.Scale(2, 2, 2, 1)
		case e.Frozen():
			op.ColorScale.Scale(0.55, 0.8, 1.3, 1)
		}
		screen.DrawImage(img, op)

		if e.MaxHitPoints > 1 {
			top := e.Y + oy - float64(b.Dy())*scale - 8
			for i := 0; i < e.MaxHitPoints; i++ {
				clr := colorBarBack
				if i < e.HitPoints {
					clr = colorRed
				}
				x := e.X + ox - float64(e.MaxHitPoints)*6 + float64(i)*12
				vector.DrawFilledRect(screen, float32(x), float32(top), 10, 4, clr, false)
			}
		}
	}
}

func (f *Frontend) drawDroplets(screen *ebiten.Image, g *game.Game, ox, oy float64) {
	img := f.sprites.Get("droplet")
	for _, d := range g.Droplets() {
		if !d.Active {
			continue
		}
		if img == nil {
			vector.DrawFilledCircle(screen, float32(d.X+ox), float32(d.Y+oy), 6, colorExp, true)
			continue
		}
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(d.X+ox-float64(b.Dx())/2, d.Y+oy-float64(b.Dy())/2)
		screen.DrawImage(img, op)
	}
}

// drawQuestion floats the question above the target with a ring at its feet
func (f *Frontend) drawQuestion(screen *ebiten.Image, g *game.Game, ox, oy float64) {
	target, ok := g.Target()
	if !ok {
		return
	}
	q, ok := g.Question()
	if !ok {
		return
	}

	height := 32.0
	if img := f.sprites.Enemy(target.Kind); img != nil {
		height = float64(img.Bounds().Dy())
	}
	scale := target.Scale
	if scale <= 0 {
		scale = 1
	}

	x := target.X + ox
	top := target.Y + oy - height*scale - 44
	label := displayText(q.Text())
	w := float64(len(label))*7*2 + 16
	vector.DrawFilledRect(screen, float32(x-w/2), float32(top-4), float32(w), 34, colorShade, false)
	vector.StrokeRect(screen, float32(x-w/2), float32(top-4), float32(w), 34, 1, colorGold, false)
	drawText(screen, label, x, top, 2, colorWhite, text.AlignCenter)

	vector.StrokeCircle(screen, float32(x), float32(target.Y+oy), 18, 2, colorGold, true)
}

func (f *Frontend) drawHUD(screen *ebiten.Image, g *game.Game) {
	cfg := g.Config()
	w := float64(cfg.ScreenWidth)

	heart := f.sprites.Get("heart")
	for i := 0; i < g.Hearts(); i++ {
		x := 16 + float64(i)*28
		if heart == nil {
			vector.DrawFilledCircle(screen, float32(x+12), 28, 10, colorRed, true)
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x, 16)
		screen.DrawImage(heart, op)
	}

	drawText(screen, fmt.Sprintf("SCORE %d", g.Score()), w-16, 14, 2, colorWhite, text.AlignEnd)
	drawText(screen, fmt.Sprintf("WAVE %d", g.Wave()), w-16, 44, 1.5, colorDim, text.AlignEnd)

	// Level and EXP bar
	p := g.Progress()
	drawText(screen, fmt.Sprintf("LV %d", p.Level), 16, 50, 1.5, colorExp, text.AlignStart)
	const barX, barY, barW, barH = 70, 54, 160, 10
	vector.DrawFilledRect(screen, barX, barY, barW, barH, colorBarBack, false)
	if p.ExpToNext > 0 {
		ratio := float32(p.CurrentExp) / float32(p.ExpToNext)
		if ratio > 1 {
			ratio = 1
		}
		vector.DrawFilledRect(screen, barX, barY, barW*ratio, barH, colorExp, false)
	}

	f.drawSpell(screen, g)
	f.drawAnswer(screen, g)

	if f.fx.Banner != "" {
		drawText(screen, f.fx.Banner, w/2, 150, 4, colorGold, text.AlignCenter)
	}
}

func (f *Frontend) drawSpell(screen *ebiten.Image, g *game.Game) {
	spell, ok := g.Spell(game.SpellIce)
	if !ok {
		return
	}
	cfg := g.Config()
	const size = 40
	x, y := float32(16), float32(cfg.ScreenHeight)-size-16

	vector.DrawFilledRect(screen, x, y, size, size, colorBarBack, false)
	if spell.Level == 0 {
		vector.StrokeRect(screen, x, y, size, size, 1, colorDim, false)
		drawText(screen, spell.Name()+" (level up to learn)", float64(x)+size+10, float64(y)+12, 1, colorDim, text.AlignStart)
		return
	}

	progress := float32(spell.CooldownProgress(g.Now()))
	fill := size * progress
	vector.DrawFilledRect(screen, x, y+size-fill, size, fill, colorIce, false)
	border := colorDim
	if spell.Ready(g.Now()) {
		border = colorWhite
	}
	vector.StrokeRect(screen, x, y, size, size, 2, border, false)

	label := fmt.Sprintf("[SPACE] %s Lv %d", spell.Name(), spell.Level)
	drawText(screen, label, float64(x)+size+10, float64(y)+12, 1, colorWhite, text.AlignStart)
}

func (f *Frontend) drawAnswer(screen *ebiten.Image, g *game.Game) {
	cfg := g.Config()
	clr := colorGold
	if f.fx.WrongAnswer() {
		clr = colorRed
	}
	answer := g.AnswerText()
	if _, ok := g.Question(); ok && (g.Now()/(400*time.Millisecond))%2 == 0 {
		answer += "_"
	}
	drawText(screen, "ANSWER: "+answer, float64(cfg.ScreenWidth)/2, float64(cfg.ScreenHeight)-50, 3, clr, text.AlignCenter)
}

// panel draws a centered box and returns its top-left corner
func panel(screen *ebiten.Image, w, h float64, fill, border color.Color) (float64, float64) {
	sw, sh := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	x, y := (sw-w)/2, (sh-h)/2
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), fill, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 2, border, false)
	return x, y
}

func (f *Frontend) drawLevelUp(screen *ebiten.Image, g *game.Game) {
	x, y := panel(screen, 440, 240, colorPanel, colorGold)
	cx := x + 220

	drawText(screen, "LEVEL UP!", cx, y+20, 3, colorGold, text.AlignCenter)
	drawText(screen, fmt.Sprintf("You reached level %d", g.Progress().Level), cx, y+66, 1.5, colorWhite, text.AlignCenter)

	for i, c := range g.UpgradeChoices() {
		row := y + 110 + float64(i)*48
		drawText(screen, fmt.Sprintf("[%d] %s -> Lv %d", i+1, c.Name, c.NextLevel), x+30, row, 2, colorIce, text.AlignStart)
		detail := fmt.Sprintf("cooldown %s   freeze %s", seconds(c.Cooldown), seconds(c.Duration))
		drawText(screen, detail, x+54, row+28, 1, colorDim, text.AlignStart)
	}
	drawText(screen, "Press a number to choose", cx, y+210, 1, colorDim, text.AlignCenter)
}

func (f *Frontend) drawPaused(screen *ebiten.Image) {
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	vector.DrawFilledRect(screen, 0, 0, w, h, color.NRGBA{A: 0x80}, false)
	drawText(screen, "PAUSED", float64(w)/2, float64(h)/2-40, 4, colorWhite, text.AlignCenter)
	drawText(screen, "Press P to resume", float64(w)/2, float64(h)/2+20, 1.5, colorDim, text.AlignCenter)
}

func (f *Frontend) drawGameOver(screen *ebiten.Image, g *game.Game) {
	s := g.Summary()
	if s == nil {
		return
	}
	x, y := panel(screen, 460, 280, colorShade, colorRed)
	cx := x + 230

	drawText(screen, "GAME OVER", cx, y+20, 4, colorRed, text.AlignCenter)
	drawText(screen, fmt.Sprintf("Score %d", s.Score), cx, y+84, 2.5, colorGold, text.AlignCenter)
	if s.NewHighScore {
		drawText(screen, "NEW HIGH SCORE!", cx, y+126, 2, colorGold, text.AlignCenter)
	} else {
		drawText(screen, fmt.Sprintf("Best %d", s.HighScore), cx, y+126, 2, colorDim, text.AlignCenter)
	}
	line := fmt.Sprintf("Wave %d   Level %d   %d/%d correct", s.Wave, s.Level, s.Correct, s.Attempts)
	drawText(screen, line, cx, y+170, 1.5, colorWhite, text.AlignCenter)
	drawText(screen, "[R] Play again    [S] Statistics", cx, y+230, 1.5, colorDim, text.AlignCenter)
}

func waveBanner(n int) string {
	return fmt.Sprintf("WAVE %d", n)
}
