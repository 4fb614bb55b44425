package render

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"mathwizard/game"
)

// Particle is a single spark
type Particle struct {
	x, y     float64
	vx, vy   float64
	age      float64 // seconds
	lifetime float64 // seconds
	color    color.NRGBA
	size     float64
}

// IsAlive returns true if the particle is still alive
func (p *Particle) IsAlive() bool {
	return p.age < p.lifetime
}

// burstConfig describes a one-shot particle emission
type burstConfig struct {
	count                    int
	velocityMin, velocityMax float64
	lifetimeMin, lifetimeMax float64
	sizeMin, sizeMax         float64
	lift                     float64 // upward kick added to every spark
	colorBase                color.NRGBA
	colorVariation           color.NRGBA
}

var (
	defeatBurst = burstConfig{
		count:       16,
		velocityMin: 60, velocityMax: 180,
		lifetimeMin: 0.3, lifetimeMax: 0.7,
		sizeMin: 2, sizeMax: 4,
		lift:           50,
		colorBase:      color.NRGBA{R: 200, G: 160, B: 255, A: 255},
		colorVariation: color.NRGBA{R: 55, G: 60, B: 0},
	}
	pickupBurst = burstConfig{
		count:       8,
		velocityMin: 30, velocityMax: 90,
		lifetimeMin: 0.2, lifetimeMax: 0.4,
		sizeMin: 1.5, sizeMax: 2.5,
		colorBase:      color.NRGBA{R: 0, G: 230, B: 255, A: 255},
		colorVariation: color.NRGBA{R: 0, G: 25, B: 0},
	}
	iceBurst = burstConfig{
		count:       40,
		velocityMin: 150, velocityMax: 400,
		lifetimeMin: 0.4, lifetimeMax: 0.8,
		sizeMin: 2, sizeMax: 5,
		colorBase:      color.NRGBA{R: 170, G: 220, B: 255, A: 255},
		colorVariation: color.NRGBA{R: 40, G: 30, B: 0},
	}
)

// Bolt is a jagged lightning polyline that fades out
type Bolt struct {
	Points   [][2]float64
	age      float64
	lifetime float64
}

const (
	boltSegments = 8
	boltJitter   = 14.0
	boltLifetime = 0.2
	hitFlashTime = 0.12
	bannerTime   = 1.5
)

// Effects turns core events into short-lived visuals. It holds no game state.
type Effects struct {
	rng *rand.Rand

	particles []Particle
	bolts     []Bolt

	shakeLeft      float64
	shakeIntensity float64

	// enemy id -> remaining white flash
	hitFlash map[game.EnemyID]float64

	hurtLeft  float64
	wrongLeft float64
	iceLeft   float64

	Banner     string
	bannerLeft float64
}

// NewEffects creates an empty effect set
func NewEffects(rng *rand.Rand) *Effects {
	return &Effects{
		rng:      rng,
		hitFlash: make(map[game.EnemyID]float64),
	}
}

// Handle reacts to one core event
func (fx *Effects) Handle(ev game.Event) {
	switch ev.Kind {
	case game.EventLightning:
		fx.bolts = append(fx.bolts, fx.newBolt(ev.X, ev.Y, ev.ToX, ev.ToY))
	case game.EventEnemyDamaged:
		fx.hitFlash[ev.Enemy] = hitFlashTime
	case game.EventEnemyDefeated:
		delete(fx.hitFlash, ev.Enemy)
		fx.burst(ev.X, ev.Y-24, defeatBurst)
	case game.EventDropletReleased:
		fx.burst(ev.X, ev.Y, pickupBurst)
	case game.EventSpellCast:
		fx.burst(ev.X, ev.Y, iceBurst)
		fx.iceLeft = 0.3
	case game.EventCameraShake:
		// A stronger shake replaces a weaker one still running
		if ev.Intensity >= fx.shakeIntensity || fx.shakeLeft <= 0 {
			fx.shakeIntensity = ev.Intensity
			fx.shakeLeft = ev.Duration.Seconds()
		}
	case game.EventPlayerHit:
		fx.hurtLeft = ev.Duration.Seconds()
	case game.EventAnswerWrong:
		fx.wrongLeft = 0.3
	case game.EventWaveStarted:
		fx.showBanner(waveBanner(ev.Value))
	}
}

func (fx *Effects) showBanner(text string) {
	fx.Banner = text
	fx.bannerLeft = bannerTime
}

// Update ages every effect by dt
func (fx *Effects) Update(dt time.Duration) {
	fx.Settle(dt)

	s := dt.Seconds()
	for id, left := range fx.hitFlash {
		if left-s <= 0 {
			delete(fx.hitFlash, id)
		} else {
			fx.hitFlash[id] = left - s
		}
	}
	fx.shakeLeft = math.Max(0, fx.shakeLeft-s)
	fx.hurtLeft = math.Max(0, fx.hurtLeft-s)
	fx.wrongLeft = math.Max(0, fx.wrongLeft-s)
	fx.iceLeft = math.Max(0, fx.iceLeft-s)
	fx.bannerLeft = math.Max(0, fx.bannerLeft-s)
	if fx.bannerLeft == 0 {
		fx.Banner = ""
	}
}

// Settle ages particles and bolts only, so sparks die out behind a pause panel
func (fx *Effects) Settle(dt time.Duration) {
	s := dt.Seconds()
	for i := len(fx.particles) - 1; i >= 0; i-- {
		p := &fx.particles[i]
		p.age += s
		p.x += p.vx * s
		p.y += p.vy * s
		if !p.IsAlive() {
			fx.particles = append(fx.particles[:i], fx.particles[i+1:]...)
		}
	}
	for i := len(fx.bolts) - 1; i >= 0; i-- {
		fx.bolts[i].age += s
		if fx.bolts[i].age >= fx.bolts[i].lifetime {
			fx.bolts = append(fx.bolts[:i], fx.bolts[i+1:]...)
		}
	}
}

// Reset drops every running effect
func (fx *Effects) Reset() {
	fx.particles = nil
	fx.bolts = nil
	fx.hitFlash = make(map[game.EnemyID]float64)
	fx.shakeLeft, fx.shakeIntensity = 0, 0
	fx.hurtLeft, fx.wrongLeft, fx.iceLeft = 0, 0, 0
	fx.Banner, fx.bannerLeft = "", 0
}

// ShakeOffset returns the camera offset for a w x h view. Intensity is a
// fraction of the view size.
func (fx *Effects) ShakeOffset(w, h float64) (float64, float64) {
	if fx.shakeLeft <= 0 {
		return 0, 0
	}
	dx := (fx.rng.Float64()*2 - 1) * fx.shakeIntensity * w
	dy := (fx.rng.Float64()*2 - 1) * fx.shakeIntensity * h
	return dx, dy
}

// Flashing reports whether an enemy was hit a moment ago
func (fx *Effects) Flashing(id game.EnemyID) bool {
	_, ok := fx.hitFlash[id]
	return ok
}

// Hurt reports whether the wizard hit tint is showing
func (fx *Effects) Hurt() bool { return fx.hurtLeft > 0 }

// WrongAnswer reports whether the answer text should flash red
func (fx *Effects) WrongAnswer() bool { return fx.wrongLeft > 0 }

// Particles returns the live particle count
func (fx *Effects) Particles() int { return len(fx.particles) }

// Bolts returns the live lightning bolts
func (fx *Effects) Bolts() []Bolt { return fx.bolts }

func (fx *Effects) newBolt(x0, y0, x1, y1 float64) Bolt {
	points := make([][2]float64, 0, boltSegments+1)
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	nx, ny := 0.0, 0.0
	if length > 0 {
		nx, ny = -dy/length, dx/length
	}
	for i := 0; i <= boltSegments; i++ {
		t := float64(i) / boltSegments
		x := x0 + dx*t
		y := y0 + dy*t
		if i > 0 && i < boltSegments {
			off := (fx.rng.Float64()*2 - 1) * boltJitter
			x += nx * off
			y += ny * off
		}
		points = append(points, [2]float64{x, y})
	}
	return Bolt{Points: points, lifetime: boltLifetime}
}

func (fx *Effects) burst(x, y float64, cfg burstConfig) {
	for i := 0; i < cfg.count; i++ {
		angle := fx.rng.Float64() * 2 * math.Pi
		speed := cfg.velocityMin + fx.rng.Float64()*(cfg.velocityMax-cfg.velocityMin)
		fx.particles = append(fx.particles, Particle{
			x:        x,
			y:        y,
			vx:       math.Cos(angle) * speed,
			vy:       math.Sin(angle)*speed - cfg.lift,
			lifetime: cfg.lifetimeMin + fx.rng.Float64()*(cfg.lifetimeMax-cfg.lifetimeMin),
			size:     cfg.sizeMin + fx.rng.Float64()*(cfg.sizeMax-cfg.sizeMin),
			color:    fx.vary(cfg.colorBase, cfg.colorVariation),
		})
	}
}

func (fx *Effects) vary(base, variation color.NRGBA) color.NRGBA {
	v := func(b, r uint8) uint8 {
		return uint8(clamp(float64(b)+fx.rng.Float64()*float64(r)*2-float64(r), 0, 255))
	}
	return color.NRGBA{
		R: v(base.R, variation.R),
		G: v(base.G, variation.G),
		B: v(base.B, variation.B),
		A: base.A,
	}
}

// DrawWorld renders particles and bolts offset by the camera shake
func (fx *Effects) DrawWorld(screen *ebiten.Image, ox, oy float64) {
	for _, b := range fx.bolts {
		alpha := 1 - b.age/b.lifetime
		glow := color.NRGBA{R: 120, G: 180, B: 255, A: uint8(120 * alpha)}
		core := color.NRGBA{R: 255, G: 255, B: 255, A: uint8(255 * alpha)}
		for i := 1; i < len(b.Points); i++ {
			p0, p1 := b.Points[i-1], b.Points[i]
			x0, y0 := float32(p0[0]+ox), float32(p0[1]+oy)
			x1, y1 := float32(p1[0]+ox), float32(p1[1]+oy)
			vector.StrokeLine(screen, x0, y0, x1, y1, 6, glow, true)
			vector.StrokeLine(screen, x0, y0, x1, y1, 2, core, true)
		}
	}

	for _, p := range fx.particles {
		alpha := math.Max(0, math.Min(1, 1-p.age/p.lifetime))
		c := p.color
		c.A = uint8(float64(c.A) * alpha)
		vector.DrawFilledCircle(screen, float32(p.x+ox), float32(p.y+oy), float32(p.size), c, true)
	}
}

// DrawScreen renders full-screen tints: the ice flash and the damage vignette
func (fx *Effects) DrawScreen(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if fx.iceLeft > 0 {
		a := uint8(90 * fx.iceLeft / 0.3)
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), color.NRGBA{R: 160, G: 210, B: 255, A: a}, false)
	}
	if fx.hurtLeft > 0 {
		a := uint8(math.Min(1, fx.hurtLeft) * 70)
		red := color.NRGBA{R: 255, A: a}
		vector.StrokeRect(screen, 0, 0, float32(w), float32(h), 24, red, false)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
