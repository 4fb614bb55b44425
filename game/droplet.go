package game

import (
	"math"
	"time"

	"github.com/solarlune/resolv"
)

// Droplet is a pooled EXP pickup flying toward the wizard
type Droplet struct {
	// Position of the droplet's center
	X, Y float64

	// Velocity in pixels per second
	VX, VY float64

	// EXP granted on pickup
	Value int

	// Whether this droplet is in play (used for pooling)
	Active bool

	size  float64
	shape resolv.IShape
}

// Reset prepares a pooled droplet for reuse at (x, y)
func (d *Droplet) Reset(x, y float64, value int) {
	d.X, d.Y = x, y
	d.VX, d.VY = 0, 0
	d.Value = value
	d.Active = true
}

// AimAt sets the velocity toward (tx, ty) at speed
func (d *Droplet) AimAt(tx, ty, speed float64) {
	dx := tx - d.X
	dy := ty - d.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		d.VX, d.VY = 0, 0
		return
	}
	d.VX = dx / dist * speed
	d.VY = dy / dist * speed
}

// Update moves an active droplet
func (d *Droplet) Update(dt time.Duration) {
	if !d.Active {
		return
	}
	d.X += d.VX * dt.Seconds()
	d.Y += d.VY * dt.Seconds()
}

// Stop zeroes the velocity
func (d *Droplet) Stop() {
	d.VX, d.VY = 0, 0
}
