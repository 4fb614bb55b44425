package game

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Attempt records one submitted answer
type Attempt struct {
	Num1          int           `json:"num1"`
	Num2          int           `json:"num2"`
	Op            Operator      `json:"op"`
	AnswerGiven   string        `json:"answerGiven"`
	CorrectAnswer int           `json:"correctAnswer"`
	TimeTaken     time.Duration `json:"timeTaken"`
	Correct       bool          `json:"correct"`
}

// AnswerOutcome is the result of submitting an answer
type AnswerOutcome int

const (
	AnswerIgnored  AnswerOutcome = iota // No question on screen
	AnswerWrong                         // Logged, question stays
	AnswerStale                         // Target died before the answer arrived
	AnswerHit                           // Correct, target survived
	AnswerDefeated                      // Correct, target killed
)

// Correct reports whether the outcome came from a right answer on a live target
func (o AnswerOutcome) Correct() bool {
	return o == AnswerHit || o == AnswerDefeated
}

// Targeting binds the current question to one live enemy
type Targeting struct {
	world  *World
	sched  *Scheduler
	rng    *rand.Rand
	gen    *QuestionGenerator
	events EventSink

	target   EnemyID
	question *Question
	shownAt  time.Duration

	retryTask TaskID

	// Session is every attempt made this game, in order
	Session []Attempt
}

// NewTargeting creates the protocol over world's enemies
func NewTargeting(world *World, sched *Scheduler, rng *rand.Rand, gen *QuestionGenerator, events EventSink) *Targeting {
	if events == nil {
		events = NopSink{}
	}
	return &Targeting{
		world:  world,
		sched:  sched,
		rng:    rng,
		gen:    gen,
		events: events,
	}
}

// Target returns the current target if it is still alive
func (t *Targeting) Target() (*Enemy, bool) {
	if t.target == 0 {
		return nil, false
	}
	return t.world.Enemy(t.target)
}

// Question returns the question on screen, if any
func (t *Targeting) Question() (Question, bool) {
	if t.question == nil {
		return Question{}, false
	}
	return *t.question, true
}

// SelectTarget binds a new question to a random enemy far enough from the damage line.
// It does nothing while the current target is alive.
func (t *Targeting) SelectTarget() {
	if _, ok := t.Target(); ok {
		return
	}

	minX := t.world.Config.DamageLineX + t.world.Config.MinTargetDistance
	var candidates []*Enemy
	for _, e := range t.world.Enemies {
		if e.Alive() && e.X > minX {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		t.Clear()
		return
	}

	chosen := candidates[t.rng.Intn(len(candidates))]
	q := t.gen.Next()
	t.target = chosen.ID
	t.question = &q
	t.shownAt = t.sched.Now()

	t.events.Emit(Event{
		Kind:      EventQuestionShown,
		At:        t.shownAt,
		Enemy:     chosen.ID,
		EnemyKind: chosen.Kind,
		X:         chosen.X,
		Y:         chosen.Y,
		Text:      q.Text(),
	})
}

// Clear drops the target and hides the question
func (t *Targeting) Clear() {
	hadQuestion := t.question != nil
	t.target = 0
	t.question = nil
	if hadQuestion {
		t.events.Emit(Event{Kind: EventQuestionCleared, At: t.sched.Now()})
	}
}

// Submit resolves typed input against the current question
func (t *Targeting) Submit(input string, damage int, fromX, fromY float64) AnswerOutcome {
	if t.question == nil {
		return AnswerIgnored
	}
	q := *t.question

	given := strings.TrimSpace(input)
	value, err := strconv.Atoi(given)
	correct := err == nil && value == q.Answer

	t.Session = append(t.Session, Attempt{
		Num1:          q.Num1,
		Num2:          q.Num2,
		Op:            q.Op,
		AnswerGiven:   input,
		CorrectAnswer: q.Answer,
		TimeTaken:     t.sched.Now() - t.shownAt,
		Correct:       correct,
	})

	target, alive := t.Target()
	if !alive {
		t.Clear()
		t.SelectTarget()
		return AnswerStale
	}

	if !correct {
		t.events.Emit(Event{
			Kind:  EventAnswerWrong,
			At:    t.sched.Now(),
			Enemy: target.ID,
			Text:  input,
			Sound: SoundWrong,
		})
		t.events.Emit(Event{
			Kind:      EventCameraShake,
			At:        t.sched.Now(),
			Duration:  150 * time.Millisecond,
			Intensity: 0.008,
		})
		return AnswerWrong
	}

	t.events.Emit(Event{
		Kind:  EventAnswerCorrect,
		At:    t.sched.Now(),
		Enemy: target.ID,
		Text:  input,
		Sound: SoundCorrect,
	})
	t.events.Emit(Event{
		Kind:  EventLightning,
		At:    t.sched.Now(),
		Enemy: target.ID,
		X:     fromX,
		Y:     fromY,
		ToX:   target.X,
		ToY:   target.Y,
	})

	if !target.TakeDamage(damage) {
		return AnswerHit
	}
	return AnswerDefeated
}

// AfterDefeat clears the question and schedules the next one after delay
func (t *Targeting) AfterDefeat(delay time.Duration) {
	t.Clear()
	t.sched.Cancel(t.retryTask)
	t.retryTask = t.sched.After(PurposeRetarget, delay, t.SelectTarget)
}

// Refresh runs once per frame: drops a dead target and keeps a retry pending
// while enemies exist but none is targetable yet.
func (t *Targeting) Refresh(retryDelay time.Duration) {
	if _, ok := t.Target(); ok {
		return
	}
	if t.target != 0 {
		t.Clear()
		t.SelectTarget()
		return
	}
	if len(t.world.Enemies) > 0 && !t.sched.Pending(t.retryTask) {
		t.retryTask = t.sched.After(PurposeRetarget, retryDelay, t.SelectTarget)
	}
}
