package game

import "github.com/solarlune/resolv"

var (
	tagWizard  = resolv.NewTag("wizard")
	tagDroplet = resolv.NewTag("droplet")
)

// CollisionSystem owns the resolv space used for pickups.
// Shape positions are centers, matching Droplet.X/Y and the wizard's anchor.
type CollisionSystem struct {
	space  *resolv.Space
	wizard resolv.IShape
	owners map[resolv.IShape]*Droplet
}

// NewCollisionSystem creates the space and places the wizard's body in it
func NewCollisionSystem(config Config) *CollisionSystem {
	space := resolv.NewSpace(config.ScreenWidth, config.ScreenHeight, 32, 32)

	wizard := resolv.NewRectangle(config.WizardX, config.GroundY(), config.WizardSize, config.WizardSize)
	wizard.Tags().Set(tagWizard)
	space.Add(wizard)

	return &CollisionSystem{
		space:  space,
		wizard: wizard,
		owners: make(map[resolv.IShape]*Droplet),
	}
}

// Enable puts a droplet's body into the space
func (c *CollisionSystem) Enable(d *Droplet) {
	if d.shape == nil {
		body := resolv.NewRectangle(d.X, d.Y, d.size, d.size)
		body.Tags().Set(tagDroplet)
		d.shape = body
	}
	if _, ok := c.owners[d.shape]; ok {
		return
	}
	d.shape.SetPosition(d.X, d.Y)
	c.space.Add(d.shape)
	c.owners[d.shape] = d
}

// Disable removes a droplet's body so it can no longer be collected
func (c *CollisionSystem) Disable(d *Droplet) {
	if d.shape == nil {
		return
	}
	if _, ok := c.owners[d.shape]; !ok {
		return
	}
	c.space.Remove(d.shape)
	delete(c.owners, d.shape)
}

// Move syncs a droplet's body with its position
func (c *CollisionSystem) Move(d *Droplet) {
	if d.shape != nil {
		d.shape.SetPosition(d.X, d.Y)
	}
}

// Box returns the droplet's collision box as min and max corners
func (d *Droplet) Box() (minX, minY, maxX, maxY float64) {
	if d.shape == nil {
		h := d.size / 2
		return d.X - h, d.Y - h, d.X + h, d.Y + h
	}
	b := d.shape.Bounds()
	return b.Min.X, b.Min.Y, b.Max.X, b.Max.Y
}

// Bodies returns the number of droplet bodies in the space
func (c *CollisionSystem) Bodies() int {
	return len(c.owners)
}

// TouchingWizard returns the active droplets overlapping the wizard
func (c *CollisionSystem) TouchingWizard() []*Droplet {
	var hits []*Droplet
	c.wizard.IntersectionTest(resolv.IntersectionTestSettings{
		TestAgainst: c.wizard.SelectTouchingCells(0).FilterShapes().ByTags(tagDroplet),
		OnIntersect: func(set resolv.IntersectionSet) bool {
			if d, ok := c.owners[set.OtherShape]; ok && d.Active {
				hits = append(hits, d)
			}
			return true
		},
	})
	return hits
}
