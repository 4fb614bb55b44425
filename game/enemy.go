package game

import "time"

// EnemyID identifies an enemy for its whole life. IDs are never reused within a game.
type EnemyID uint64

// EnemyState is the externally visible state of an enemy
type EnemyState int

const (
	EnemyActive EnemyState = iota
	EnemyPaused
	EnemyFrozen
	EnemyDead
)

func (s EnemyState) String() string {
	switch s {
	case EnemyActive:
		return "active"
	case EnemyPaused:
		return "paused"
	case EnemyFrozen:
		return "frozen"
	default:
		return "dead"
	}
}

// RemovalReason says why an enemy left the live set
type RemovalReason int

const (
	RemovedDefeated    RemovalReason = iota // Killed by answers; drops EXP
	RemovedCrossedLine                      // Reached the wizard
	RemovedOffscreen                        // Walked past the left edge
)

// Enemy is a walker moving left toward the damage line
type Enemy struct {
	ID    EnemyID
	Kind  EnemyKind
	Loner bool
	Scale float64

	// Position of the enemy's feet
	X, Y float64

	HitPoints    int
	MaxHitPoints int

	// Speed is the current horizontal speed in px/s (zero while frozen)
	Speed float64

	// speed restored when a freeze ends
	originalSpeed float64

	paused bool
	frozen bool
	dead   bool

	freezeTask TaskID

	sched     *Scheduler
	events    EventSink
	onRemoved func(e *Enemy, reason RemovalReason)
}

// NewEnemy creates a live enemy of the given kind
func NewEnemy(id EnemyID, kind EnemyKind, cfg EnemyKindConfig, difficulty, x, y float64, sched *Scheduler, events EventSink) *Enemy {
	speed := cfg.SpeedAt(difficulty)
	if events == nil {
		events = NopSink{}
	}
	return &Enemy{
		ID:            id,
		Kind:          kind,
		Loner:         cfg.Loner,
		Scale:         cfg.Scale,
		X:             x,
		Y:             y,
		HitPoints:     cfg.HitPoints,
		MaxHitPoints:  cfg.HitPoints,
		Speed:         speed,
		originalSpeed: speed,
		sched:         sched,
		events:        events,
	}
}

// Alive reports whether the enemy is still in play
func (e *Enemy) Alive() bool {
	return e != nil && !e.dead
}

// State reports the dominant state; paused wins over frozen
func (e *Enemy) State() EnemyState {
	switch {
	case e.dead:
		return EnemyDead
	case e.paused:
		return EnemyPaused
	case e.frozen:
		return EnemyFrozen
	default:
		return EnemyActive
	}
}

// Paused reports whether the enemy is halted by a world suspend
func (e *Enemy) Paused() bool { return e.paused }

// Frozen reports whether the enemy is under a freeze spell
func (e *Enemy) Frozen() bool { return e.frozen }

// FreezeRemaining reports the time left on the freeze, if any
func (e *Enemy) FreezeRemaining() time.Duration {
	if !e.frozen {
		return 0
	}
	d, _ := e.sched.Remaining(e.freezeTask)
	return d
}

// TakeDamage subtracts hit points and reports whether the hit was lethal.
// Damaging a dead enemy does nothing.
func (e *Enemy) TakeDamage(amount int) bool {
	if e.dead {
		return false
	}
	e.HitPoints -= amount
	e.events.Emit(Event{
		Kind:      EventEnemyDamaged,
		At:        e.sched.Now(),
		Enemy:     e.ID,
		EnemyKind: e.Kind,
		X:         e.X,
		Y:         e.Y,
		Value:     amount,
	})
	if e.HitPoints <= 0 {
		e.remove(RemovedDefeated)
		return true
	}
	return false
}

// Freeze stops the enemy for d. An enemy already frozen keeps its current freeze.
func (e *Enemy) Freeze(d time.Duration) {
	if e.frozen || e.dead {
		return
	}
	e.frozen = true
	e.originalSpeed = e.Speed
	e.Speed = 0

	e.sched.Cancel(e.freezeTask)
	e.freezeTask = e.sched.After(PurposeFreeze, d, e.Unfreeze)
	if e.paused {
		e.sched.Pause(e.freezeTask)
	}

	e.events.Emit(Event{
		Kind:      EventEnemyFrozen,
		At:        e.sched.Now(),
		Enemy:     e.ID,
		EnemyKind: e.Kind,
		X:         e.X,
		Y:         e.Y,
		Duration:  d,
	})
}

// Unfreeze restores the speed the enemy had before it was frozen
func (e *Enemy) Unfreeze() {
	if !e.frozen || e.dead {
		return
	}
	e.frozen = false
	e.Speed = e.originalSpeed
	e.sched.Cancel(e.freezeTask)
	e.freezeTask = 0

	e.events.Emit(Event{
		Kind:      EventEnemyThawed,
		At:        e.sched.Now(),
		Enemy:     e.ID,
		EnemyKind: e.Kind,
		X:         e.X,
		Y:         e.Y,
	})
}

// Pause halts movement and the freeze countdown
func (e *Enemy) Pause() {
	if e.paused || e.dead {
		return
	}
	e.paused = true
	if e.freezeTask != 0 {
		e.sched.Pause(e.freezeTask)
	}
}

// Resume undoes Pause. A frozen enemy stays frozen for the rest of its freeze.
func (e *Enemy) Resume() {
	if !e.paused || e.dead {
		return
	}
	e.paused = false
	if e.freezeTask != 0 {
		e.sched.Resume(e.freezeTask)
	}
}

// Update moves the enemy left. Enemies that walk past despawnX remove themselves.
func (e *Enemy) Update(dt time.Duration, despawnX float64) {
	if e.dead || e.paused || e.frozen {
		return
	}
	e.X -= e.Speed * dt.Seconds()
	if e.X < despawnX {
		e.remove(RemovedOffscreen)
	}
}

// Destroy removes the enemy without a kill (no EXP is dropped)
func (e *Enemy) Destroy(reason RemovalReason) {
	if e.dead {
		return
	}
	e.remove(reason)
}

func (e *Enemy) remove(reason RemovalReason) {
	e.dead = true
	if e.freezeTask != 0 {
		e.sched.Cancel(e.freezeTask)
		e.freezeTask = 0
	}
	if e.onRemoved != nil {
		e.onRemoved(e, reason)
	}
}
