package game

import "time"

// EventKind identifies a presentation cue emitted by the core
type EventKind string

const (
	EventWaveStarted     EventKind = "wave_started"
	EventEnemySpawned    EventKind = "enemy_spawned"
	EventEnemyDamaged    EventKind = "enemy_damaged"
	EventEnemyDefeated   EventKind = "enemy_defeated"
	EventEnemyFrozen     EventKind = "enemy_frozen"
	EventEnemyThawed     EventKind = "enemy_thawed"
	EventEnemyRemoved    EventKind = "enemy_removed"
	EventPlayerHit       EventKind = "player_hit"
	EventQuestionShown   EventKind = "question_shown"
	EventQuestionCleared EventKind = "question_cleared"
	EventAnswerTyped     EventKind = "answer_typed"
	EventAnswerCorrect   EventKind = "answer_correct"
	EventAnswerWrong     EventKind = "answer_wrong"
	EventLightning       EventKind = "lightning"
	EventCameraShake     EventKind = "camera_shake"
	EventDropletSpawned  EventKind = "droplet_spawned"
	EventDropletReleased EventKind = "droplet_released"
	EventExpGained       EventKind = "exp_gained"
	EventLevelUp         EventKind = "level_up"
	EventUpgradeChosen   EventKind = "upgrade_chosen"
	EventSpellCast       EventKind = "spell_cast"
	EventPaused          EventKind = "paused"
	EventResumed         EventKind = "resumed"
	EventGameOver        EventKind = "game_over"
)

// Sound names understood by the front end
const (
	SoundCorrect  = "correctSound"
	SoundWrong    = "wrongSound"
	SoundCast     = "castSound"
	SoundEnemyHit = "enemyHitSound"
	SoundGameOver = "gameOverSound"
)

// Event is one presentation cue. Fields that do not apply to a kind are left zero.
type Event struct {
	Kind EventKind     `msgpack:"k"`
	At   time.Duration `msgpack:"t"`

	Enemy     EnemyID   `msgpack:"e,omitempty"`
	EnemyKind EnemyKind `msgpack:"ek,omitempty"`

	X   float64 `msgpack:"x,omitempty"`
	Y   float64 `msgpack:"y,omitempty"`
	ToX float64 `msgpack:"tx,omitempty"`
	ToY float64 `msgpack:"ty,omitempty"`

	// Value carries the kind-specific number: damage, EXP, score, hearts, level or wave
	Value int    `msgpack:"v,omitempty"`
	Text  string `msgpack:"s,omitempty"`
	Sound string `msgpack:"snd,omitempty"`

	Duration  time.Duration `msgpack:"d,omitempty"`
	Intensity float64       `msgpack:"i,omitempty"`

	Upgrades []UpgradeChoice  `msgpack:"u,omitempty"`
	Summary  *GameOverSummary `msgpack:"g,omitempty"`
}

// EventSink receives every event the core emits
type EventSink interface {
	Emit(Event)
}

// MultiSink fans events out to several sinks in order
type MultiSink []EventSink

// Emit forwards ev to every sink
func (m MultiSink) Emit(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ev)
		}
	}
}

// NopSink discards events
type NopSink struct{}

// Emit does nothing
func (NopSink) Emit(Event) {}

// EventLog keeps events in memory; the front end drains it once per frame
type EventLog struct {
	events []Event
}

// Emit appends ev
func (l *EventLog) Emit(ev Event) {
	l.events = append(l.events, ev)
}

// Drain returns the buffered events and empties the log
func (l *EventLog) Drain() []Event {
	out := l.events
	l.events = nil
	return out
}

// Events returns the buffered events without draining
func (l *EventLog) Events() []Event {
	return l.events
}
