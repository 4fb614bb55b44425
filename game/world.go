package game

import "time"

// World tracks live enemies and the EXP droplet pool
type World struct {
	Config Config

	// Live enemies in spawn order
	Enemies []*Enemy

	// Droplet pool for reuse; inactive entries are free
	DropletPool []*Droplet

	collisions *CollisionSystem
	byID       map[EnemyID]*Enemy
	nextID     EnemyID
}

// NewWorld creates an empty world
func NewWorld(config Config) *World {
	return &World{
		Config:      config,
		Enemies:     make([]*Enemy, 0, 32),
		DropletPool: make([]*Droplet, 0, 32),
		collisions:  NewCollisionSystem(config),
		byID:        make(map[EnemyID]*Enemy),
	}
}

// NextEnemyID reserves an enemy ID
func (w *World) NextEnemyID() EnemyID {
	w.nextID++
	return w.nextID
}

// RegisterEnemy adds an enemy to the live set. onRemoved runs after the world forgets it.
func (w *World) RegisterEnemy(e *Enemy, onRemoved func(e *Enemy, reason RemovalReason)) {
	e.onRemoved = func(e *Enemy, reason RemovalReason) {
		w.unregisterEnemy(e)
		if onRemoved != nil {
			onRemoved(e, reason)
		}
	}
	w.Enemies = append(w.Enemies, e)
	w.byID[e.ID] = e
}

func (w *World) unregisterEnemy(e *Enemy) {
	delete(w.byID, e.ID)
	for i, other := range w.Enemies {
		if other == e {
			w.Enemies = append(w.Enemies[:i], w.Enemies[i+1:]...)
			break
		}
	}
}

// Enemy looks up a live enemy
func (w *World) Enemy(id EnemyID) (*Enemy, bool) {
	e, ok := w.byID[id]
	if !ok || !e.Alive() {
		return nil, false
	}
	return e, true
}

// LiveEnemies returns a snapshot of the live set, safe to iterate while enemies die
func (w *World) LiveEnemies() []*Enemy {
	out := make([]*Enemy, len(w.Enemies))
	copy(out, w.Enemies)
	return out
}

// AcquireDroplet takes a free droplet from the pool (growing it if needed) and enables its body
func (w *World) AcquireDroplet(x, y float64, value int) *Droplet {
	var d *Droplet
	for _, candidate := range w.DropletPool {
		if !candidate.Active {
			d = candidate
			break
		}
	}
	if d == nil {
		d = &Droplet{size: w.Config.DropletSize}
		w.DropletPool = append(w.DropletPool, d)
	}
	d.Reset(x, y, value)
	w.collisions.Enable(d)
	return d
}

// ReleaseDroplet returns a droplet to the pool. Releasing twice is a no-op.
func (w *World) ReleaseDroplet(d *Droplet) {
	if !d.Active {
		return
	}
	d.Active = false
	d.Stop()
	w.collisions.Disable(d)
}

// ActiveDroplets counts droplets in play
func (w *World) ActiveDroplets() int {
	n := 0
	for _, d := range w.DropletPool {
		if d.Active {
			n++
		}
	}
	return n
}

// UpdateDroplets moves droplets, recycles strays and returns the ones touching the wizard
func (w *World) UpdateDroplets(dt time.Duration) []*Droplet {
	margin := w.Config.DropletMargin
	maxX := float64(w.Config.ScreenWidth) + margin
	maxY := float64(w.Config.ScreenHeight) + margin
	for _, d := range w.DropletPool {
		if !d.Active {
			continue
		}
		d.Update(dt)
		if d.X < -margin || d.X > maxX || d.Y < -margin || d.Y > maxY {
			w.ReleaseDroplet(d)
			continue
		}
		w.collisions.Move(d)
	}
	return w.collisions.TouchingWizard()
}

// HaltDroplets stops every droplet in place
func (w *World) HaltDroplets() {
	for _, d := range w.DropletPool {
		if d.Active {
			d.Stop()
		}
	}
}

// AimDroplets points every droplet at (x, y)
func (w *World) AimDroplets(x, y, speed float64) {
	for _, d := range w.DropletPool {
		if d.Active {
			d.AimAt(x, y, speed)
		}
	}
}
