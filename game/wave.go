package game

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"
)

// KindWeight is one entry of a phase's enemy allow-list
type KindWeight struct {
	Kind   EnemyKind `yaml:"kind" json:"kind"`
	Weight int       `yaml:"weight" json:"weight"`
}

// PhaseConfig describes a band of waves. The last phase (ThroughWave 0) is open-ended.
//
//	enemies = BaseEnemies + floor((wave-WaveOffset)/GrowthEvery) * difficulty
//	break   = (max(BreakFloor, BreakStart - (wave-WaveOffset)*BreakStep) + rand[0,BreakJitter]) / difficulty
//	gap     = SpawnGap / difficulty
type PhaseConfig struct {
	ThroughWave int          `yaml:"through_wave"`
	Kinds       []KindWeight `yaml:"kinds"`
	BaseEnemies int          `yaml:"base_enemies"`
	WaveOffset  int          `yaml:"wave_offset"`
	GrowthEvery int          `yaml:"growth_every"`

	BreakStart  time.Duration `yaml:"break_start"`
	BreakStep   time.Duration `yaml:"break_step"`
	BreakFloor  time.Duration `yaml:"break_floor"`
	BreakJitter time.Duration `yaml:"break_jitter"`
	SpawnGap    time.Duration `yaml:"spawn_gap"`
}

// DefaultPhases returns the three stock difficulty bands
func DefaultPhases() []PhaseConfig {
	return []PhaseConfig{
		{
			// Waves 1-4: ghosts only, long breaks
			ThroughWave: 4,
			Kinds:       []KindWeight{{EnemyGhost, 1}},
			BaseEnemies: 1,
			GrowthEvery: 2,
			BreakStart:  13000 * time.Millisecond,
			BreakJitter: 2000 * time.Millisecond,
			SpawnGap:    1500 * time.Millisecond,
		},
		{
			// Waves 5-9: shadows join
			ThroughWave: 9,
			Kinds:       []KindWeight{{EnemyGhost, 1}, {EnemyShadow, 1}},
			BaseEnemies: 2,
			WaveOffset:  4,
			GrowthEvery: 2,
			BreakStart:  12000 * time.Millisecond,
			BreakStep:   400 * time.Millisecond,
			BreakFloor:  5000 * time.Millisecond,
			SpawnGap:    1200 * time.Millisecond,
		},
		{
			// Waves 10+: everything
			Kinds:       []KindWeight{{EnemyGhost, 3}, {EnemyShadow, 4}, {EnemyPlant, 3}},
			BaseEnemies: 3,
			WaveOffset:  9,
			GrowthEvery: 2,
			BreakStart:  9000 * time.Millisecond,
			BreakStep:   300 * time.Millisecond,
			BreakFloor:  3000 * time.Millisecond,
			SpawnGap:    1000 * time.Millisecond,
		},
	}
}

// WaveProfile is the fixed plan for one wave
type WaveProfile struct {
	Number             int
	Kinds              Weighted[EnemyKind]
	EnemiesPerWave     int
	TimeBetweenWaves   time.Duration
	TimeBetweenEnemies time.Duration
}

// WaveProfiler derives the plan for a wave number
type WaveProfiler interface {
	Profile(wave int, difficulty float64, rng *rand.Rand) (WaveProfile, error)
}

// PhaseTable is the default profiler, driven by PhaseConfig bands
type PhaseTable []PhaseConfig

// PhaseFor returns the band covering wave
func (t PhaseTable) PhaseFor(wave int) (PhaseConfig, bool) {
	for _, p := range t {
		if p.ThroughWave == 0 || wave <= p.ThroughWave {
			return p, true
		}
	}
	if len(t) == 0 {
		return PhaseConfig{}, false
	}
	return t[len(t)-1], true
}

// Profile computes the wave plan
func (t PhaseTable) Profile(wave int, difficulty float64, rng *rand.Rand) (WaveProfile, error) {
	phase, ok := t.PhaseFor(wave)
	if !ok {
		return WaveProfile{}, fmt.Errorf("no phase configured for wave %d", wave)
	}
	if difficulty <= 0 {
		difficulty = 1
	}

	growthEvery := phase.GrowthEvery
	if growthEvery <= 0 {
		growthEvery = 1
	}
	steps := (wave - phase.WaveOffset) / growthEvery
	enemies := int(math.Ceil(float64(phase.BaseEnemies) + float64(steps)*difficulty))
	if enemies < 1 {
		enemies = 1
	}

	brk := phase.BreakStart - time.Duration(wave-phase.WaveOffset)*phase.BreakStep
	if brk < phase.BreakFloor {
		brk = phase.BreakFloor
	}
	if phase.BreakJitter > 0 {
		brk += time.Duration(rng.Int63n(int64(phase.BreakJitter/time.Millisecond)+1)) * time.Millisecond
	}

	entries := make([]WeightedEntry[EnemyKind], 0, len(phase.Kinds))
	for _, k := range phase.Kinds {
		entries = append(entries, WeightedEntry[EnemyKind]{Value: k.Kind, Weight: k.Weight})
	}

	return WaveProfile{
		Number:             wave,
		Kinds:              NewWeighted(entries...),
		EnemiesPerWave:     enemies,
		TimeBetweenWaves:   scaleDuration(brk, difficulty),
		TimeBetweenEnemies: scaleDuration(phase.SpawnGap, difficulty),
	}, nil
}

func scaleDuration(d time.Duration, difficulty float64) time.Duration {
	return time.Duration(float64(d) / difficulty)
}

// WaveDirector runs the spawn cadence: a quota of enemies per wave, spaced
// by the wave's gap, followed by a break before the next wave.
type WaveDirector struct {
	profiler   WaveProfiler
	fallback   PhaseTable
	sched      *Scheduler
	rng        *rand.Rand
	events     EventSink
	difficulty float64
	lonerDelay float64

	number  int
	current WaveProfile
	spawned int

	spawnTask TaskID
	nextTask  TaskID

	// Spawn creates an enemy of kind and returns it (nil if it could not)
	Spawn func(kind EnemyKind) *Enemy

	// Blocked reports whether waves must not advance (game over or suspended)
	Blocked func() bool
	// Over reports whether the game has ended
	Over func() bool
}

// NewWaveDirector creates a director. A nil profiler uses the fallback table.
func NewWaveDirector(profiler WaveProfiler, fallback PhaseTable, sched *Scheduler, rng *rand.Rand, difficulty, lonerDelay float64, events EventSink) *WaveDirector {
	if profiler == nil {
		profiler = fallback
	}
	if events == nil {
		events = NopSink{}
	}
	if lonerDelay <= 0 {
		lonerDelay = 1
	}
	return &WaveDirector{
		profiler:   profiler,
		fallback:   fallback,
		sched:      sched,
		rng:        rng,
		events:     events,
		difficulty: difficulty,
		lonerDelay: lonerDelay,
	}
}

// Number returns the current wave number (0 before the first wave)
func (d *WaveDirector) Number() int { return d.number }

// Current returns the active wave plan
func (d *WaveDirector) Current() WaveProfile { return d.current }

// Spawned returns how many enemies of the current wave have been spawned
func (d *WaveDirector) Spawned() int { return d.spawned }

// Start schedules the first wave after delay
func (d *WaveDirector) Start(delay time.Duration) {
	d.nextTask = d.sched.After(PurposeNextWave, delay, d.StartNextWave)
}

// Stop cancels all pending wave work
func (d *WaveDirector) Stop() {
	d.sched.CancelPurpose(PurposeWaveSpawn)
	d.sched.CancelPurpose(PurposeNextWave)
	d.spawnTask, d.nextTask = 0, 0
}

// StartNextWave advances the wave counter and begins spawning
func (d *WaveDirector) StartNextWave() {
	if d.Blocked != nil && d.Blocked() {
		return
	}
	d.number++

	profile, err := d.profiler.Profile(d.number, d.difficulty, d.rng)
	if err != nil || profile.Kinds.Len() == 0 {
		if err == nil {
			err = fmt.Errorf("wave %d: empty enemy allow-list", d.number)
		}
		log.Printf("Wave profile failed, using phase table: %v", err)
		profile, err = d.fallback.Profile(d.number, d.difficulty, d.rng)
		if err != nil {
			log.Printf("Phase table failed: %v", err)
			return
		}
	}
	profile.Number = d.number
	d.current = profile
	d.spawned = 0

	log.Printf("Starting wave %d: %d enemies, gap %v, break %v",
		d.number, profile.EnemiesPerWave, profile.TimeBetweenEnemies, profile.TimeBetweenWaves)
	d.events.Emit(Event{
		Kind:  EventWaveStarted,
		At:    d.sched.Now(),
		Value: d.number,
	})

	d.scheduleNextEnemySpawn(0)
}

// scheduleNextEnemySpawn spawns the count-th enemy of the wave, or schedules
// the next wave once the quota is met
func (d *WaveDirector) scheduleNextEnemySpawn(count int) {
	if d.Over != nil && d.Over() {
		return
	}
	if count >= d.current.EnemiesPerWave {
		d.spawnTask = 0
		d.nextTask = d.sched.After(PurposeNextWave, d.current.TimeBetweenWaves, d.StartNextWave)
		return
	}

	delay := d.current.TimeBetweenEnemies
	if kind, ok := d.current.Kinds.Pick(d.rng); ok && d.Spawn != nil {
		if e := d.Spawn(kind); e != nil && e.Loner {
			delay = time.Duration(float64(delay) * d.lonerDelay)
		}
	}
	d.spawned = count + 1

	d.spawnTask = d.sched.After(PurposeWaveSpawn, delay, func() {
		d.scheduleNextEnemySpawn(count + 1)
	})
}
