package game

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrUnknownSpell is returned when an upgrade names a spell the wizard does not have
	ErrUnknownSpell = errors.New("unknown spell")
	// ErrNotLevelingUp is returned when an upgrade is chosen outside a level-up
	ErrNotLevelingUp = errors.New("not waiting for an upgrade")
)

// SpellID names a spell
type SpellID string

// SpellIce freezes every enemy on screen
const SpellIce SpellID = "ice"

// SpellConfig holds the tuning for one spell. For level >= 1:
//
//	cooldown = max(CooldownFloor, CooldownStart - level*CooldownStep)
//	duration = BaseDuration + level*DurationStep
type SpellConfig struct {
	Name          string        `yaml:"name"`
	BaseCooldown  time.Duration `yaml:"base_cooldown"`
	BaseDuration  time.Duration `yaml:"base_duration"`
	CooldownStart time.Duration `yaml:"cooldown_start"`
	CooldownStep  time.Duration `yaml:"cooldown_step"`
	CooldownFloor time.Duration `yaml:"cooldown_floor"`
	DurationStep  time.Duration `yaml:"duration_step"`
}

// DefaultSpells returns the stock spell list
func DefaultSpells() map[SpellID]SpellConfig {
	return map[SpellID]SpellConfig{
		SpellIce: {
			Name:          "Ice Blast",
			BaseCooldown:  8000 * time.Millisecond,
			BaseDuration:  3000 * time.Millisecond,
			CooldownStart: 9000 * time.Millisecond,
			CooldownStep:  1000 * time.Millisecond,
			CooldownFloor: 2000 * time.Millisecond,
			DurationStep:  750 * time.Millisecond,
		},
	}
}

// CooldownAt returns the cooldown for a spell level
func (c SpellConfig) CooldownAt(level int) time.Duration {
	if level <= 0 {
		return c.BaseCooldown
	}
	cd := c.CooldownStart - time.Duration(level)*c.CooldownStep
	if cd < c.CooldownFloor {
		cd = c.CooldownFloor
	}
	return cd
}

// DurationAt returns the effect duration for a spell level
func (c SpellConfig) DurationAt(level int) time.Duration {
	if level <= 0 {
		return c.BaseDuration
	}
	return c.BaseDuration + time.Duration(level)*c.DurationStep
}

// Spell is a castable ability. Level 0 means not learned yet.
type Spell struct {
	ID       SpellID
	Level    int
	Cooldown time.Duration
	Duration time.Duration

	// LastCast is the game time of the last cast
	LastCast time.Duration

	config SpellConfig
}

// NewSpell creates an unlearned spell
func NewSpell(id SpellID, config SpellConfig) *Spell {
	return &Spell{
		ID:       id,
		Cooldown: config.CooldownAt(0),
		Duration: config.DurationAt(0),
		config:   config,
	}
}

// Name returns the display name
func (s *Spell) Name() string {
	if s.config.Name != "" {
		return s.config.Name
	}
	return string(s.ID)
}

// Upgrade raises the level and recomputes cooldown and duration
func (s *Spell) Upgrade() {
	s.Level++
	s.Cooldown = s.config.CooldownAt(s.Level)
	s.Duration = s.config.DurationAt(s.Level)
}

// Ready reports whether the spell can be cast at game time now
func (s *Spell) Ready(now time.Duration) bool {
	return s.Level > 0 && now-s.LastCast > s.Cooldown
}

// CooldownProgress returns how far the cooldown has run, 0..1
func (s *Spell) CooldownProgress(now time.Duration) float64 {
	if s.Cooldown <= 0 {
		return 1
	}
	p := float64(now-s.LastCast) / float64(s.Cooldown)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// UpgradeChoice describes what picking a spell at level-up would give
type UpgradeChoice struct {
	Spell     SpellID       `msgpack:"id"`
	Name      string        `msgpack:"name"`
	NextLevel int           `msgpack:"lvl"`
	Cooldown  time.Duration `msgpack:"cd"`
	Duration  time.Duration `msgpack:"dur"`
}

// NextUpgrade previews the next level
func (s *Spell) NextUpgrade() UpgradeChoice {
	next := s.Level + 1
	return UpgradeChoice{
		Spell:     s.ID,
		Name:      s.Name(),
		NextLevel: next,
		Cooldown:  s.config.CooldownAt(next),
		Duration:  s.config.DurationAt(next),
	}
}

// SpellBook holds the wizard's spells in a stable order
type SpellBook struct {
	spells map[SpellID]*Spell
	order  []SpellID
}

// NewSpellBook creates unlearned spells from configs
func NewSpellBook(configs map[SpellID]SpellConfig) *SpellBook {
	b := &SpellBook{spells: make(map[SpellID]*Spell, len(configs))}
	for id, cfg := range configs {
		b.spells[id] = NewSpell(id, cfg)
		b.order = append(b.order, id)
	}
	sort.Slice(b.order, func(i, j int) bool { return b.order[i] < b.order[j] })
	return b
}

// Get returns a spell by id
func (b *SpellBook) Get(id SpellID) (*Spell, bool) {
	s, ok := b.spells[id]
	return s, ok
}

// Choices previews every available upgrade
func (b *SpellBook) Choices() []UpgradeChoice {
	out := make([]UpgradeChoice, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.spells[id].NextUpgrade())
	}
	return out
}

// Upgrade levels up a spell
func (b *SpellBook) Upgrade(id SpellID) (*Spell, error) {
	s, ok := b.spells[id]
	if !ok {
		return nil, ErrUnknownSpell
	}
	s.Upgrade()
	return s, nil
}
