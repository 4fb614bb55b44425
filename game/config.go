package game

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds game tuning. Zero-valued fields in a loaded file keep their defaults.
type Config struct {
	// ScreenWidth is the playfield width in pixels
	ScreenWidth int `yaml:"screen_width"`

	// ScreenHeight is the playfield height in pixels
	ScreenHeight int `yaml:"screen_height"`

	// WizardX is the horizontal position of the wizard
	WizardX float64 `yaml:"wizard_x"`

	// GroundOffset is the distance from the bottom edge to the lane enemies walk on
	GroundOffset float64 `yaml:"ground_offset"`

	// DamageLineX is the line enemies must not cross
	DamageLineX float64 `yaml:"damage_line_x"`

	// MinTargetDistance is how far right of the damage line an enemy must be to be targeted
	MinTargetDistance float64 `yaml:"min_target_distance"`

	// DespawnX is where enemies that walked off the left edge are discarded
	DespawnX float64 `yaml:"despawn_x"`

	// SpawnOffsetMin and SpawnOffsetMax bound the spawn distance past the right edge
	SpawnOffsetMin float64 `yaml:"spawn_offset_min"`
	SpawnOffsetMax float64 `yaml:"spawn_offset_max"`

	MaxHearts        int           `yaml:"max_hearts"`
	InvulnerableFor  time.Duration `yaml:"invulnerable_for"`
	InitialExpToNext int           `yaml:"initial_exp_to_next"`
	PointsPerCorrect int           `yaml:"points_per_correct"`
	PointsPerDefeat  int           `yaml:"points_per_defeat"`

	// DropletSpeed is how fast EXP droplets fly toward the wizard (px/s)
	DropletSpeed float64 `yaml:"droplet_speed"`

	// DropletValue is the EXP granted per droplet
	DropletValue int `yaml:"droplet_value"`

	// DropletSize and WizardSize are the collision box edges
	DropletSize float64 `yaml:"droplet_size"`
	WizardSize  float64 `yaml:"wizard_size"`

	// DropletMargin is how far off-screen a droplet may drift before it is recycled
	DropletMargin float64 `yaml:"droplet_margin"`

	// RetargetDelay is the pause after a kill before the next question
	RetargetDelay time.Duration `yaml:"retarget_delay"`

	// FindTargetDelay is the retry interval while no enemy is targetable
	FindTargetDelay time.Duration `yaml:"find_target_delay"`

	// FirstWaveDelay applies at difficulty 1 or below; harder games start immediately
	FirstWaveDelay time.Duration `yaml:"first_wave_delay"`

	// LonerDelayFactor stretches the spawn gap after a loner enemy
	LonerDelayFactor float64 `yaml:"loner_delay_factor"`

	// MaxAnswerLength caps typed answer digits
	MaxAnswerLength int `yaml:"max_answer_length"`

	// FastAnswer is the mean time under which a fact counts as mastered
	FastAnswer time.Duration `yaml:"fast_answer"`

	Enemies map[EnemyKind]EnemyKindConfig `yaml:"enemies"`
	Spells  map[SpellID]SpellConfig       `yaml:"spells"`
	Phases  []PhaseConfig                 `yaml:"phases"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		ScreenWidth:       800,
		ScreenHeight:      600,
		WizardX:           100,
		GroundOffset:      80,
		DamageLineX:       150,
		MinTargetDistance: 100,
		DespawnX:          -100,
		SpawnOffsetMin:    50,
		SpawnOffsetMax:    100,
		MaxHearts:         3,
		InvulnerableFor:   1500 * time.Millisecond,
		InitialExpToNext:  3,
		PointsPerCorrect:  10,
		PointsPerDefeat:   10,
		DropletSpeed:      250,
		DropletValue:      1,
		DropletSize:       12,
		WizardSize:        48,
		DropletMargin:     100,
		RetargetDelay:     750 * time.Millisecond,
		FindTargetDelay:   500 * time.Millisecond,
		FirstWaveDelay:    3000 * time.Millisecond,
		LonerDelayFactor:  2.5,
		MaxAnswerLength:   3,
		FastAnswer:        3500 * time.Millisecond,
		Enemies:           DefaultEnemyKinds(),
		Spells:            DefaultSpells(),
		Phases:            DefaultPhases(),
	}
}

// GroundY returns the lane enemies and the wizard stand on
func (c Config) GroundY() float64 {
	return float64(c.ScreenHeight) - c.GroundOffset
}

// LoadConfig reads a YAML file over the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Merge(data); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Merge overlays YAML onto c. Map entries are merged per key; a phases list replaces the default one.
func (c *Config) Merge(data []byte) error {
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	setInt(&c.ScreenWidth, overlay.ScreenWidth)
	setInt(&c.ScreenHeight, overlay.ScreenHeight)
	setFloat(&c.WizardX, overlay.WizardX)
	setFloat(&c.GroundOffset, overlay.GroundOffset)
	setFloat(&c.DamageLineX, overlay.DamageLineX)
	setFloat(&c.MinTargetDistance, overlay.MinTargetDistance)
	setFloat(&c.DespawnX, overlay.DespawnX)
	setFloat(&c.SpawnOffsetMin, overlay.SpawnOffsetMin)
	setFloat(&c.SpawnOffsetMax, overlay.SpawnOffsetMax)
	setInt(&c.MaxHearts, overlay.MaxHearts)
	setDuration(&c.InvulnerableFor, overlay.InvulnerableFor)
	setInt(&c.InitialExpToNext, overlay.InitialExpToNext)
	setInt(&c.PointsPerCorrect, overlay.PointsPerCorrect)
	setInt(&c.PointsPerDefeat, overlay.PointsPerDefeat)
	setFloat(&c.DropletSpeed, overlay.DropletSpeed)
	setInt(&c.DropletValue, overlay.DropletValue)
	setFloat(&c.DropletSize, overlay.DropletSize)
	setFloat(&c.WizardSize, overlay.WizardSize)
	setFloat(&c.DropletMargin, overlay.DropletMargin)
	setDuration(&c.RetargetDelay, overlay.RetargetDelay)
	setDuration(&c.FindTargetDelay, overlay.FindTargetDelay)
	setDuration(&c.FirstWaveDelay, overlay.FirstWaveDelay)
	setFloat(&c.LonerDelayFactor, overlay.LonerDelayFactor)
	setInt(&c.MaxAnswerLength, overlay.MaxAnswerLength)
	setDuration(&c.FastAnswer, overlay.FastAnswer)

	for kind, kc := range overlay.Enemies {
		if kc.HitPoints <= 0 || kc.Speed <= 0 {
			return fmt.Errorf("enemy %q: hit_points and speed must be positive", kind)
		}
		c.Enemies[kind] = kc
	}
	for id, sc := range overlay.Spells {
		c.Spells[id] = sc
	}
	if len(overlay.Phases) > 0 {
		for i, p := range overlay.Phases {
			if len(p.Kinds) == 0 {
				return fmt.Errorf("phase %d: no enemy kinds", i)
			}
			for _, k := range p.Kinds {
				if _, ok := c.Enemies[k.Kind]; !ok {
					return fmt.Errorf("phase %d: unknown enemy kind %q", i, k.Kind)
				}
			}
		}
		c.Phases = overlay.Phases
	}
	return nil
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
