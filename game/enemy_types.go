package game

// EnemyKind names a data-driven enemy variant
type EnemyKind string

const (
	EnemyGhost  EnemyKind = "ghost"  // Slow walker, arrives in groups
	EnemyShadow EnemyKind = "shadow" // Fast loner
	EnemyPlant  EnemyKind = "plant"  // Tough, slow loner
)

// EnemyKindConfig holds configuration for each enemy kind
type EnemyKindConfig struct {
	HitPoints int     `yaml:"hit_points"`
	Speed     float64 `yaml:"speed"` // px/s before difficulty scaling

	// ScaleWithDifficulty multiplies Speed by the game difficulty
	ScaleWithDifficulty bool `yaml:"scale_with_difficulty"`

	// Loner enemies stretch the gap before the next spawn
	Loner bool `yaml:"loner"`

	// Scale is the sprite scale the front end draws with
	Scale float64 `yaml:"scale"`
}

// SpeedAt returns the movement speed for a difficulty
func (c EnemyKindConfig) SpeedAt(difficulty float64) float64 {
	if c.ScaleWithDifficulty {
		return c.Speed * difficulty
	}
	return c.Speed
}

// DefaultEnemyKinds returns the stock roster
func DefaultEnemyKinds() map[EnemyKind]EnemyKindConfig {
	return map[EnemyKind]EnemyKindConfig{
		EnemyGhost: {
			HitPoints: 1,
			Speed:     40,
			Scale:     2,
		},
		EnemyShadow: {
			HitPoints:           1,
			Speed:               80,
			ScaleWithDifficulty: true,
			Loner:               true,
			Scale:               2,
		},
		EnemyPlant: {
			HitPoints:           2,
			Speed:               25,
			ScaleWithDifficulty: true,
			Loner:               true,
			Scale:               2,
		},
	}
}
