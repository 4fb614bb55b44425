package game

// SuspendReason says why the game is not running. Higher values win.
type SuspendReason int

const (
	Running SuspendReason = iota
	SuspendManual
	SuspendLevelUp
	SuspendGameOver
)

func (r SuspendReason) String() string {
	switch r {
	case SuspendManual:
		return "paused"
	case SuspendLevelUp:
		return "level-up"
	case SuspendGameOver:
		return "game-over"
	default:
		return "running"
	}
}

// Suspension is the set of active suspend reasons
type Suspension struct {
	active [SuspendGameOver + 1]bool
}

// Current returns the highest-precedence active reason
func (s *Suspension) Current() SuspendReason {
	for r := SuspendGameOver; r > Running; r-- {
		if s.active[r] {
			return r
		}
	}
	return Running
}

// Running reports whether no reason is active
func (s *Suspension) Running() bool {
	return s.Current() == Running
}

// Has reports whether reason is active
func (s *Suspension) Has(reason SuspendReason) bool {
	if reason <= Running || reason > SuspendGameOver {
		return false
	}
	return s.active[reason]
}

// Enter activates reason and returns the resulting current reason
func (s *Suspension) Enter(reason SuspendReason) SuspendReason {
	if reason > Running && reason <= SuspendGameOver {
		s.active[reason] = true
	}
	return s.Current()
}

// Leave deactivates reason and returns the next-lower active reason (or Running)
func (s *Suspension) Leave(reason SuspendReason) SuspendReason {
	if reason > Running && reason <= SuspendGameOver {
		s.active[reason] = false
	}
	return s.Current()
}
