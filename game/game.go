package game

import (
	"log"
	"math/rand"
	"time"
)

// HighScoreKey is the storage key of the persisted best score
const HighScoreKey = "mathGameHighScore"

// gameplayPurposes are the scheduler groups frozen by any suspend
var gameplayPurposes = []Purpose{PurposeWaveSpawn, PurposeNextWave, PurposeFreeze, PurposeInvulnerable, PurposeRetarget}

// HighScores persists the best score
type HighScores interface {
	HighScore() (int, error)
	SaveHighScore(score int) error
}

// SessionStore persists finished games
type SessionStore interface {
	SaveSession(rec SessionRecord) error
}

// SessionRecord is a finished game as stored
type SessionRecord struct {
	Tables     []int
	Difficulty float64
	Score      int
	Wave       int
	Level      int
	Attempts   []Attempt
	EndedAt    time.Time
}

// Setup is what the level-select screen hands to a new game
type Setup struct {
	Tables     []int
	Difficulty float64
}

// Normalized fixes up invalid tables and difficulty
func (s Setup) Normalized() Setup {
	d := s.Difficulty
	if d <= 0 {
		d = 1
	}
	return Setup{Tables: NormalizeTables(s.Tables), Difficulty: d}
}

// StatsHandoff is what the statistics screen receives after a game
type StatsHandoff struct {
	Session []Attempt
	Tables  []int
}

// GameOverSummary is shown on the game-over panel
type GameOverSummary struct {
	Score        int  `msgpack:"score"`
	HighScore    int  `msgpack:"high"`
	NewHighScore bool `msgpack:"new"`
	Wave         int  `msgpack:"wave"`
	Level        int  `msgpack:"level"`
	Attempts     int  `msgpack:"attempts"`
	Correct      int  `msgpack:"correct"`
}

// Options wires a game to its collaborators. Nil collaborators are replaced by no-ops.
type Options struct {
	Config     Config
	Setup      Setup
	RNG        *rand.Rand
	Events     EventSink
	Input      Input
	HighScores HighScores
	Sessions   SessionStore

	// Waves overrides the configured phase table
	Waves WaveProfiler
}

// Game is the orchestrator: it owns every subsystem and runs the per-frame tick
type Game struct {
	config Config
	setup  Setup
	rng    *rand.Rand

	sched     *Scheduler
	world     *World
	targeting *Targeting
	waves     *WaveDirector
	spells    *SpellBook
	progress  Progression
	suspend   Suspension
	answer    *AnswerBuffer

	events   EventSink
	input    Input
	scores   HighScores
	sessions SessionStore

	hearts       int
	invulnerable bool
	invulnTask   TaskID
	score        int
	halted       bool

	summary *GameOverSummary
}

// NewGame creates a game and schedules its first wave
func NewGame(opts Options) *Game {
	config := opts.Config
	if config.ScreenWidth == 0 {
		config = DefaultConfig()
	}
	setup := opts.Setup.Normalized()
	rng := opts.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	events := opts.Events
	if events == nil {
		events = NopSink{}
	}
	input := opts.Input
	if input == nil {
		input = NoInput{}
	}

	sched := NewScheduler()
	world := NewWorld(config)

	g := &Game{
		config:    config,
		setup:     setup,
		rng:       rng,
		sched:     sched,
		world:     world,
		targeting: NewTargeting(world, sched, rng, NewQuestionGenerator(rng, setup.Tables), events),
		spells:    NewSpellBook(config.Spells),
		progress:  NewProgression(config.InitialExpToNext),
		answer:    NewAnswerBuffer(config.MaxAnswerLength),
		events:    events,
		input:     input,
		scores:    opts.HighScores,
		sessions:  opts.Sessions,
		hearts:    config.MaxHearts,
	}

	g.waves = NewWaveDirector(opts.Waves, PhaseTable(config.Phases), sched, rng, setup.Difficulty, config.LonerDelayFactor, events)
	g.waves.Spawn = g.spawnEnemy
	g.waves.Blocked = func() bool { return !g.suspend.Running() }
	g.waves.Over = func() bool { return g.suspend.Has(SuspendGameOver) }

	firstWave := config.FirstWaveDelay
	if setup.Difficulty > 1 {
		firstWave = 0
	}
	g.waves.Start(firstWave)

	log.Printf("New game: tables %v, difficulty %.2f", setup.Tables, setup.Difficulty)
	return g
}

// Update advances the game by one frame
func (g *Game) Update(dt time.Duration) {
	if g.suspend.Has(SuspendGameOver) {
		return
	}

	if g.input.JustPressed(KeyPause) && !g.suspend.Has(SuspendLevelUp) {
		g.TogglePause()
	}
	if !g.suspend.Running() {
		return
	}

	g.handleAnswerKeys()

	g.sched.Advance(dt)
	if !g.suspend.Running() {
		return
	}

	g.updateEnemies(dt)
	if !g.suspend.Running() {
		return
	}

	g.updateDroplets(dt)
	if !g.suspend.Running() {
		return
	}

	if g.input.JustPressed(KeySpell) {
		g.CastSpell(SpellIce)
	}

	g.targeting.Refresh(g.config.FindTargetDelay)
}

func (g *Game) handleAnswerKeys() {
	changed := false
	for _, r := range g.input.TypedDigits() {
		if g.answer.Type(r) {
			changed = true
		}
	}
	if g.input.JustPressed(KeyBackspace) && g.answer.Backspace() {
		changed = true
	}
	if changed {
		g.emit(Event{Kind: EventAnswerTyped, Text: g.answer.String()})
	}
	if g.input.JustPressed(KeySubmit) && !g.answer.Empty() {
		text := g.answer.String()
		g.answer.Clear()
		g.SubmitAnswer(text)
	}
}

func (g *Game) updateEnemies(dt time.Duration) {
	for _, e := range g.world.LiveEnemies() {
		e.Update(dt, g.config.DespawnX)
		if e.Alive() && e.X < g.config.DamageLineX && !g.invulnerable {
			g.playerTakeDamage(e)
			if g.suspend.Has(SuspendGameOver) {
				return
			}
		}
	}
}

func (g *Game) updateDroplets(dt time.Duration) {
	for _, d := range g.world.UpdateDroplets(dt) {
		if !g.suspend.Running() {
			// Remaining pickups wait until the game resumes
			return
		}
		if !d.Active {
			continue
		}
		value := d.Value
		g.world.ReleaseDroplet(d)
		g.emit(Event{Kind: EventDropletReleased, X: d.X, Y: d.Y})
		g.GainExp(value)
	}
}

// wand returns where spells and lightning leave the wizard
func (g *Game) wand() (float64, float64) {
	return g.config.WizardX + 20, g.config.GroundY() - 60
}

func (g *Game) spawnEnemy(kind EnemyKind) *Enemy {
	cfg, ok := g.config.Enemies[kind]
	if !ok {
		log.Printf("Unknown enemy kind %q, skipping spawn", kind)
		return nil
	}
	spread := int(g.config.SpawnOffsetMax - g.config.SpawnOffsetMin)
	offset := g.config.SpawnOffsetMin
	if spread > 0 {
		offset += float64(g.rng.Intn(spread + 1))
	}
	x := float64(g.config.ScreenWidth) + offset
	y := g.config.GroundY()

	e := NewEnemy(g.world.NextEnemyID(), kind, cfg, g.setup.Difficulty, x, y, g.sched, g.events)
	g.world.RegisterEnemy(e, g.onEnemyRemoved)
	if g.halted {
		e.Pause()
	}

	g.emit(Event{Kind: EventEnemySpawned, Enemy: e.ID, EnemyKind: kind, X: x, Y: y, Value: e.HitPoints})
	return e
}

func (g *Game) onEnemyRemoved(e *Enemy, reason RemovalReason) {
	if reason != RemovedDefeated {
		g.emit(Event{Kind: EventEnemyRemoved, Enemy: e.ID, EnemyKind: e.Kind, X: e.X, Y: e.Y, Value: int(reason)})
		return
	}

	g.emit(Event{Kind: EventEnemyDefeated, Enemy: e.ID, EnemyKind: e.Kind, X: e.X, Y: e.Y, Sound: SoundEnemyHit})

	// The droplet rises from the enemy's middle
	d := g.world.AcquireDroplet(e.X, e.Y-24, g.config.DropletValue)
	if g.halted {
		d.Stop()
	} else {
		d.AimAt(g.config.WizardX, g.config.GroundY(), g.config.DropletSpeed)
	}
	g.emit(Event{Kind: EventDropletSpawned, X: d.X, Y: d.Y, Value: d.Value})
}

func (g *Game) playerTakeDamage(e *Enemy) {
	if g.suspend.Has(SuspendGameOver) || g.invulnerable {
		return
	}

	g.hearts--
	g.invulnerable = true
	g.sched.Cancel(g.invulnTask)
	g.invulnTask = g.sched.After(PurposeInvulnerable, g.config.InvulnerableFor, func() {
		g.invulnerable = false
	})

	g.emit(Event{Kind: EventPlayerHit, Enemy: e.ID, Value: g.hearts, Duration: g.config.InvulnerableFor, Sound: SoundWrong})
	g.emit(Event{Kind: EventCameraShake, Duration: 150 * time.Millisecond, Intensity: 0.008})

	e.Destroy(RemovedCrossedLine)

	if g.hearts <= 0 {
		g.triggerGameOver()
	}
}

// SubmitAnswer resolves an answer against the current question
func (g *Game) SubmitAnswer(input string) AnswerOutcome {
	if !g.suspend.Running() {
		return AnswerIgnored
	}
	fromX, fromY := g.wand()
	outcome := g.targeting.Submit(input, 1, fromX, fromY)
	switch outcome {
	case AnswerHit:
		g.score += g.config.PointsPerCorrect
	case AnswerDefeated:
		g.score += g.config.PointsPerCorrect + g.config.PointsPerDefeat
		g.targeting.AfterDefeat(g.config.RetargetDelay)
	}
	return outcome
}

// GainExp banks EXP and starts a level-up when the threshold is reached
func (g *Game) GainExp(amount int) {
	if g.suspend.Has(SuspendGameOver) || g.suspend.Has(SuspendLevelUp) {
		return
	}
	g.progress.Add(amount)
	g.emit(Event{Kind: EventExpGained, Value: amount})
	if g.progress.Ready() {
		g.levelUp()
	}
}

func (g *Game) levelUp() {
	g.progress.LevelUp()
	log.Printf("Level up! Now level %d, next at %d EXP", g.progress.Level, g.progress.ExpToNext)
	g.PauseForLevelUp()
	g.emit(Event{Kind: EventLevelUp, Value: g.progress.Level, Upgrades: g.spells.Choices()})
}

// SelectUpgrade applies the upgrade picked on the level-up panel and resumes play
func (g *Game) SelectUpgrade(id SpellID) error {
	if g.suspend.Current() != SuspendLevelUp {
		return ErrNotLevelingUp
	}
	s, err := g.spells.Upgrade(id)
	if err != nil {
		return err
	}
	g.emit(Event{Kind: EventUpgradeChosen, Text: string(id), Value: s.Level, Duration: s.Duration})
	g.ResumeAfterLevelUp()

	// Banked EXP may already cover the next level
	if g.progress.Ready() {
		g.levelUp()
	}
	return nil
}

// CastSpell casts a learned spell if its cooldown has run out
func (g *Game) CastSpell(id SpellID) bool {
	if !g.suspend.Running() {
		return false
	}
	s, ok := g.spells.Get(id)
	if !ok || !s.Ready(g.sched.Now()) {
		return false
	}
	s.LastCast = g.sched.Now()

	frozen := 0
	for _, e := range g.world.LiveEnemies() {
		if e.Alive() && !e.Frozen() {
			e.Freeze(s.Duration)
			frozen++
		}
	}
	x, y := g.wand()
	g.emit(Event{Kind: EventSpellCast, Text: string(id), X: x, Y: y, Value: frozen, Duration: s.Duration, Sound: SoundCast})
	return true
}

// PauseForLevelUp halts the world for the upgrade choice, overriding a manual pause
func (g *Game) PauseForLevelUp() {
	if g.suspend.Has(SuspendGameOver) {
		return
	}
	g.suspend.Leave(SuspendManual)
	g.suspend.Enter(SuspendLevelUp)
	g.haltWorld()
}

// ResumeAfterLevelUp ends the level-up pause
func (g *Game) ResumeAfterLevelUp() {
	if !g.suspend.Has(SuspendLevelUp) {
		return
	}
	if g.suspend.Leave(SuspendLevelUp) == Running {
		g.resumeWorld()
		g.emit(Event{Kind: EventResumed})
	}
}

// PauseGame is the manual pause. It is refused during level-up or after game over.
func (g *Game) PauseGame() bool {
	if !g.suspend.Running() {
		return false
	}
	g.suspend.Enter(SuspendManual)
	g.haltWorld()
	g.emit(Event{Kind: EventPaused})
	return true
}

// ResumeGame ends a manual pause
func (g *Game) ResumeGame() bool {
	if g.suspend.Current() != SuspendManual {
		return false
	}
	if g.suspend.Leave(SuspendManual) == Running {
		g.resumeWorld()
		g.emit(Event{Kind: EventResumed})
	}
	return true
}

// TogglePause flips the manual pause
func (g *Game) TogglePause() bool {
	if g.suspend.Current() == SuspendManual {
		return g.ResumeGame()
	}
	return g.PauseGame()
}

func (g *Game) haltWorld() {
	if g.halted {
		return
	}
	g.halted = true
	g.sched.Hold(gameplayPurposes...)
	for _, e := range g.world.Enemies {
		e.Pause()
	}
	g.world.HaltDroplets()
}

func (g *Game) resumeWorld() {
	if !g.halted {
		return
	}
	g.halted = false
	g.sched.Release(gameplayPurposes...)
	for _, e := range g.world.Enemies {
		e.Resume()
	}
	g.world.AimDroplets(g.config.WizardX, g.config.GroundY(), g.config.DropletSpeed)
}

func (g *Game) triggerGameOver() {
	if g.suspend.Has(SuspendGameOver) {
		return
	}
	g.suspend.Enter(SuspendGameOver)
	g.waves.Stop()
	g.haltWorld()
	g.targeting.Clear()

	summary := &GameOverSummary{
		Score:    g.score,
		Wave:     g.waves.Number(),
		Level:    g.progress.Level,
		Attempts: len(g.targeting.Session),
	}
	for _, a := range g.targeting.Session {
		if a.Correct {
			summary.Correct++
		}
	}

	if g.scores != nil {
		best, err := g.scores.HighScore()
		if err != nil {
			log.Printf("Failed to read high score: %v", err)
		}
		summary.HighScore = best
		if g.score > best {
			summary.HighScore = g.score
			summary.NewHighScore = true
			if err := g.scores.SaveHighScore(g.score); err != nil {
				log.Printf("Failed to save high score: %v", err)
			}
		}
	}

	if g.sessions != nil {
		rec := SessionRecord{
			Tables:     g.setup.Tables,
			Difficulty: g.setup.Difficulty,
			Score:      g.score,
			Wave:       g.waves.Number(),
			Level:      g.progress.Level,
			Attempts:   g.Session(),
			EndedAt:    time.Now(),
		}
		if err := g.sessions.SaveSession(rec); err != nil {
			log.Printf("Failed to save session: %v", err)
		}
	}

	g.summary = summary
	log.Printf("Game over: score %d (best %d), wave %d, %d/%d correct",
		summary.Score, summary.HighScore, summary.Wave, summary.Correct, summary.Attempts)
	g.emit(Event{Kind: EventGameOver, Value: g.score, Sound: SoundGameOver, Summary: summary})
	g.emit(Event{Kind: EventCameraShake, Duration: 300 * time.Millisecond, Intensity: 0.015})
}

// Restart returns the setup for a fresh game with the same tables and difficulty
func (g *Game) Restart() Setup {
	return Setup{
		Tables:     append([]int(nil), g.setup.Tables...),
		Difficulty: g.setup.Difficulty,
	}
}

// Statistics returns the hand-off for the statistics screen
func (g *Game) Statistics() StatsHandoff {
	return StatsHandoff{
		Session: g.Session(),
		Tables:  append([]int(nil), g.setup.Tables...),
	}
}

func (g *Game) emit(ev Event) {
	ev.At = g.sched.Now()
	g.events.Emit(ev)
}

// Config returns the tuning in use
func (g *Game) Config() Config { return g.config }

// Setup returns the normalized setup
func (g *Game) Setup() Setup { return g.setup }

// Now returns the game clock
func (g *Game) Now() time.Duration { return g.sched.Now() }

// Reason returns the current suspend reason
func (g *Game) Reason() SuspendReason { return g.suspend.Current() }

// Over reports whether the game has ended
func (g *Game) Over() bool { return g.suspend.Has(SuspendGameOver) }

// Score returns the current score
func (g *Game) Score() int { return g.score }

// Hearts returns the remaining hearts
func (g *Game) Hearts() int { return g.hearts }

// Invulnerable reports whether the wizard is in its post-hit grace period
func (g *Game) Invulnerable() bool { return g.invulnerable }

// Progress returns the level and EXP state
func (g *Game) Progress() Progression { return g.progress }

// Wave returns the current wave number
func (g *Game) Wave() int { return g.waves.Number() }

// Enemies returns the live enemies
func (g *Game) Enemies() []*Enemy { return g.world.Enemies }

// Droplets returns the droplet pool; check Active before drawing
func (g *Game) Droplets() []*Droplet { return g.world.DropletPool }

// Target returns the current target, if alive
func (g *Game) Target() (*Enemy, bool) { return g.targeting.Target() }

// Question returns the question on screen, if any
func (g *Game) Question() (Question, bool) { return g.targeting.Question() }

// AnswerText returns the digits typed so far
func (g *Game) AnswerText() string { return g.answer.String() }

// Spell returns a spell by id
func (g *Game) Spell(id SpellID) (*Spell, bool) { return g.spells.Get(id) }

// UpgradeChoices previews the upgrades offered at level-up
func (g *Game) UpgradeChoices() []UpgradeChoice { return g.spells.Choices() }

// Summary returns the game-over summary (nil while playing)
func (g *Game) Summary() *GameOverSummary { return g.summary }

// Session returns a copy of the attempt log
func (g *Game) Session() []Attempt {
	return append([]Attempt(nil), g.targeting.Session...)
}
