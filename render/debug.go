package render

// DebugState holds global debug flags that persist across game restarts
type DebugState struct {
	ShowHitboxes bool // Collision boxes, damage line and targeting line
	ShowStats    bool // FPS, TPS, entity counts and game clock
}

// Global debug state instance (persists across game restarts)
var globalDebugState = &DebugState{}

// GetDebugState returns the global debug state
func GetDebugState() *DebugState {
	return globalDebugState
}

// Toggle flips every overlay together, the way F1 does
func (d *DebugState) Toggle() {
	on := !(d.ShowHitboxes || d.ShowStats)
	d.ShowHitboxes = on
	d.ShowStats = on
}
