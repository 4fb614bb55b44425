package render

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"mathwizard/game"
)

// Options configures the front end
type Options struct {
	Config game.Config
	Setup  game.Setup

	// Seed fixes the random source; zero seeds from the clock
	Seed int64

	Waves      game.WaveProfiler
	HighScores game.HighScores
	Sessions   game.SessionStore

	// Spectators receives every event next to the front end, e.g. the live hub
	Spectators game.EventSink

	// History loads every stored attempt for the all-time statistics grid
	History func() ([]game.Attempt, error)

	Profile bool
	Mute    bool
}

type screenKind int

const (
	screenPlaying screenKind = iota
	screenStats
)

// Frontend runs the core inside ebiten: it feeds keyboard input in, plays the
// events that come out and draws the world.
type Frontend struct {
	opts Options
	rng  *rand.Rand

	game   *game.Game
	events *game.EventLog
	input  *KeyboardInput

	sprites *Sprites
	sounds  *Sounds
	fx      *Effects

	screen screenKind
	stats  *StatsView

	debug    *DebugState
	profiler *Profiler
	watch    *FrameWatch
}

// NewFrontend loads assets and starts the first game
func NewFrontend(opts Options) (*Frontend, error) {
	if opts.Config.ScreenWidth == 0 {
		opts.Config = game.DefaultConfig()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sprites, err := LoadSprites()
	if err != nil {
		return nil, fmt.Errorf("load sprites: %w", err)
	}

	f := &Frontend{
		opts:    opts,
		rng:     rng,
		input:   NewKeyboardInput(),
		sprites: sprites,
		fx:      NewEffects(rand.New(rand.NewSource(seed + 1))),
		debug:   GetDebugState(),
	}
	if !opts.Mute {
		f.sounds = NewSounds()
	}
	if opts.Profile {
		f.profiler = NewProfiler("profiles")
		f.watch = NewFrameWatch()
	}

	f.startGame(opts.Setup)
	return f, nil
}

// Game returns the running game
func (f *Frontend) Game() *game.Game { return f.game }

func (f *Frontend) startGame(setup game.Setup) {
	f.events = &game.EventLog{}
	sinks := game.MultiSink{f.events}
	if f.opts.Spectators != nil {
		sinks = append(sinks, f.opts.Spectators)
	}

	f.game = game.NewGame(game.Options{
		Config:     f.opts.Config,
		Setup:      setup,
		RNG:        f.rng,
		Events:     sinks,
		Input:      f.input,
		HighScores: f.opts.HighScores,
		Sessions:   f.opts.Sessions,
		Waves:      f.opts.Waves,
	})
	f.fx.Reset()
	f.screen = screenPlaying
	f.stats = nil
}

func (f *Frontend) openStats() {
	var history []game.Attempt
	if f.opts.History != nil {
		h, err := f.opts.History()
		if err != nil {
			log.Printf("Failed to load attempt history: %v", err)
		} else {
			history = h
			if history == nil {
				history = []game.Attempt{}
			}
		}
	}
	f.stats = NewStatsView(f.game.Statistics(), history, f.opts.Config.FastAnswer)
	f.screen = screenStats
}

// Update is called every tick (1/60 [s] by default)
func (f *Frontend) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())

	if fps := ebiten.ActualFPS(); f.watch != nil && f.watch.Observe(fps, dt) {
		if err := f.profiler.CaptureProfile(snapshotOf(f.game, f.fx, fps)); err == nil {
			log.Printf("FPS dropped to %.1f in wave %d, capturing profile", fps, f.game.Wave())
		}
	}

	if pressedAny(ebiten.KeyF1) {
		f.debug.Toggle()
	}
	if pressedAny(ebiten.KeyM) && f.sounds != nil {
		f.sounds.Muted = !f.sounds.Muted
	}

	switch f.screen {
	case screenStats:
		return f.updateStats()
	default:
		f.updatePlaying(dt)
	}
	return nil
}

func (f *Frontend) updatePlaying(dt time.Duration) {
	f.input.Poll()
	g := f.game

	switch {
	case g.Over():
		if pressedAny(ebiten.KeyR, ebiten.KeyEnter) {
			f.startGame(g.Restart())
			return
		}
		if pressedAny(ebiten.KeyS) {
			f.openStats()
			return
		}
	case g.Reason() == game.SuspendLevelUp:
		if i, ok := choicePressed(len(g.UpgradeChoices())); ok {
			if err := g.SelectUpgrade(g.UpgradeChoices()[i].Spell); err != nil {
				log.Printf("Upgrade failed: %v", err)
			}
			// The number key must not land in the answer
			f.dispatch(f.events.Drain())
			return
		}
	}

	g.Update(dt)
	f.dispatch(f.events.Drain())

	if g.Reason() == game.Running {
		f.fx.Update(dt)
	} else {
		f.fx.Settle(dt)
	}
}

// dispatch hands the frame's events to the effects and the sound bank
func (f *Frontend) dispatch(events []game.Event) {
	for _, ev := range events {
		f.fx.Handle(ev)
		f.sounds.Play(ev.Sound)
	}
}

func (f *Frontend) updateStats() error {
	switch {
	case pressedAny(ebiten.KeyTab):
		f.stats.Toggle()
	case pressedAny(ebiten.KeyR, ebiten.KeyEnter):
		f.startGame(f.game.Restart())
	case pressedAny(ebiten.KeyQ, ebiten.KeyEscape):
		return ebiten.Termination
	}
	return nil
}

// choicePressed maps the number keys to an upgrade choice index
func choicePressed(n int) (int, bool) {
	digits := []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4}
	numpad := []ebiten.Key{ebiten.KeyNumpad1, ebiten.KeyNumpad2, ebiten.KeyNumpad3, ebiten.KeyNumpad4}
	for i := 0; i < n && i < len(digits); i++ {
		if pressedAny(digits[i], numpad[i]) {
			return i, true
		}
	}
	return 0, false
}

// Draw draws the game screen
func (f *Frontend) Draw(screen *ebiten.Image) {
	if f.screen == screenStats && f.stats != nil {
		f.stats.Draw(screen)
		return
	}

	g := f.game
	cfg := g.Config()
	ox, oy := f.fx.ShakeOffset(float64(cfg.ScreenWidth), float64(cfg.ScreenHeight))

	f.drawBackground(screen, cfg, ox, oy)
	f.drawWizard(screen, g, ox, oy)
	f.drawEnemies(screen, g, ox, oy)
	f.drawDroplets(screen, g, ox, oy)
	f.fx.DrawWorld(screen, ox, oy)
	f.drawQuestion(screen, g, ox, oy)
	f.fx.DrawScreen(screen)
	f.drawHUD(screen, g)

	switch g.Reason() {
	case game.SuspendLevelUp:
		f.drawLevelUp(screen, g)
	case game.SuspendManual:
		f.drawPaused(screen)
	case game.SuspendGameOver:
		f.drawGameOver(screen, g)
	}

	f.drawDebug(screen, g)
}

func (f *Frontend) drawDebug(screen *ebiten.Image, g *game.Game) {
	cfg := g.Config()
	if f.debug.ShowHitboxes {
		half := float32(cfg.WizardSize / 2)
		wx, wy := float32(cfg.WizardX), float32(cfg.GroundY())
		vector.StrokeRect(screen, wx-half, wy-half, 2*half, 2*half, 1, colorExp, false)

		for _, d := range g.Droplets() {
			if d.Active {
				x0, y0, x1, y1 := d.Box()
				vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, colorExp, false)
			}
		}

		minX := float32(cfg.DamageLineX + cfg.MinTargetDistance)
		vector.StrokeLine(screen, minX, 0, minX, float32(cfg.ScreenHeight), 1, colorGold, false)
	}

	if f.debug.ShowStats {
		snap := snapshotOf(g, f.fx, ebiten.ActualFPS())
		msg := fmt.Sprintf("FPS %.1f  TPS %.1f\nclock %s  state %s\nenemies %d  droplets %d  particles %d",
			snap.FPS, ebiten.ActualTPS(), snap.Clock.Truncate(time.Millisecond), snap.State, snap.Enemies, snap.Droplets, snap.Particles)
		ebitenutil.DebugPrintAt(screen, msg, 8, 80)
	}
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size
func (f *Frontend) Layout(outsideWidth, outsideHeight int) (int, int) {
	return f.opts.Config.ScreenWidth, f.opts.Config.ScreenHeight
}
