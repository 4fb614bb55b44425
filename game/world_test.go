package game

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireDropletReusesFreeEntries(t *testing.T) {
	w := NewWorld(DefaultConfig())

	a := w.AcquireDroplet(400, 300, 1)
	assert.Equal(t, 1, w.collisions.Bodies())

	w.ReleaseDroplet(a)
	w.ReleaseDroplet(a)
	assert.Equal(t, 0, w.collisions.Bodies())
	assert.Equal(t, 0, w.ActiveDroplets())

	b := w.AcquireDroplet(500, 200, 2)
	assert.Same(t, a, b)
	assert.Len(t, w.DropletPool, 1)
	assert.Equal(t, 2, b.Value)
	assert.Equal(t, 1, w.collisions.Bodies())

	w.AcquireDroplet(100, 100, 1)
	assert.Len(t, w.DropletPool, 2)
	assert.Equal(t, 2, w.ActiveDroplets())
}

func TestDropletBoxIsCentered(t *testing.T) {
	w := NewWorld(DefaultConfig())
	d := w.AcquireDroplet(200, 300, 1)

	x0, y0, x1, y1 := d.Box()
	assert.InDelta(t, 194, x0, 1e-9)
	assert.InDelta(t, 294, y0, 1e-9)
	assert.InDelta(t, 206, x1, 1e-9)
	assert.InDelta(t, 306, y1, 1e-9)

	d.X, d.Y = 250, 310
	w.collisions.Move(d)
	x0, y0, _, _ = d.Box()
	assert.InDelta(t, 244, x0, 1e-9)
	assert.InDelta(t, 304, y0, 1e-9)
}

func TestTouchingWizardEdges(t *testing.T) {
	// The wizard's box spans [76,124]x[496,544] with the default config
	w := NewWorld(DefaultConfig())

	overlapLeft := w.AcquireDroplet(71, 520, 1) // [65,77]
	gapRight := w.AcquireDroplet(131, 520, 1)   // [125,137]
	belowCorner := w.AcquireDroplet(133, 550, 1)

	hits := w.collisions.TouchingWizard()
	require.Len(t, hits, 1)
	assert.Same(t, overlapLeft, hits[0])

	w.ReleaseDroplet(overlapLeft)
	assert.Empty(t, w.collisions.TouchingWizard())

	gapRight.X = 129
	w.collisions.Move(gapRight)
	hits = w.collisions.TouchingWizard()
	require.Len(t, hits, 1)
	assert.Same(t, gapRight, hits[0])
	assert.True(t, belowCorner.Active)
}

func TestReleasedDropletIsNeverCollected(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	d := w.AcquireDroplet(cfg.WizardX, cfg.GroundY(), 1)
	require.Len(t, w.collisions.TouchingWizard(), 1)

	w.ReleaseDroplet(d)
	assert.Empty(t, w.collisions.TouchingWizard())
	assert.Empty(t, w.UpdateDroplets(frame))
}

func TestStrayDropletIsRecycled(t *testing.T) {
	w := NewWorld(DefaultConfig())
	d := w.AcquireDroplet(-50, 300, 1)
	d.VX = -1000

	assert.Empty(t, w.UpdateDroplets(40*time.Millisecond))
	assert.True(t, d.Active, "still inside the margin at x=-90")

	w.UpdateDroplets(20 * time.Millisecond)
	assert.False(t, d.Active)
	assert.Equal(t, 0, w.collisions.Bodies())
}

func TestDropletsHoldDuringLevelUp(t *testing.T) {
	tg := newTestGame(t)
	cfg := tg.Config()
	d := tg.world.AcquireDroplet(400, 300, 1)
	d.AimAt(cfg.WizardX, cfg.GroundY(), cfg.DropletSpeed)

	tg.PauseForLevelUp()
	assert.Zero(t, d.VX)
	assert.Zero(t, d.VY)
	tg.run(500 * time.Millisecond)
	assert.Equal(t, 400.0, d.X)
	assert.Equal(t, 300.0, d.Y)

	require.NoError(t, tg.SelectUpgrade(SpellIce))
	assert.Less(t, d.VX, 0.0)
	assert.Greater(t, d.VY, 0.0)
	assert.InDelta(t, cfg.DropletSpeed, math.Hypot(d.VX, d.VY), 1e-9)

	tg.step()
	assert.Less(t, d.X, 400.0)
	assert.Greater(t, d.Y, 300.0)
}
