package game

import (
	"math/rand"
	"testing"
	"time"
)

// frame is the fixed test step; 10ms keeps task deadlines exact
const frame = 10 * time.Millisecond

// testRNG returns a seeded RNG for deterministic tests
func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

// scriptedInput reports the keys queued for the next frame only
type scriptedInput struct {
	pressed map[Key]bool
	digits  []rune
}

func newScriptedInput() *scriptedInput {
	return &scriptedInput{pressed: make(map[Key]bool)}
}

func (s *scriptedInput) JustPressed(k Key) bool { return s.pressed[k] }
func (s *scriptedInput) TypedDigits() []rune    { return s.digits }

func (s *scriptedInput) press(k Key) { s.pressed[k] = true }
func (s *scriptedInput) typeText(text string) {
	s.digits = append(s.digits, []rune(text)...)
}
func (s *scriptedInput) clear() {
	s.pressed = make(map[Key]bool)
	s.digits = nil
}

type memoryScores struct {
	best  int
	saves int
}

func (m *memoryScores) HighScore() (int, error) { return m.best, nil }
func (m *memoryScores) SaveHighScore(score int) error {
	m.best = score
	m.saves++
	return nil
}

type memorySessions struct {
	records []SessionRecord
}

func (m *memorySessions) SaveSession(rec SessionRecord) error {
	m.records = append(m.records, rec)
	return nil
}

type testGame struct {
	*Game
	log      *EventLog
	input    *scriptedInput
	scores   *memoryScores
	sessions *memorySessions
}

// newTestGame returns a game with its wave timers cancelled, so tests place enemies by hand
func newTestGame(t *testing.T) *testGame {
	t.Helper()
	log := &EventLog{}
	input := newScriptedInput()
	scores := &memoryScores{}
	sessions := &memorySessions{}
	g := NewGame(Options{
		Config:     DefaultConfig(),
		Setup:      Setup{Tables: []int{3, 4}, Difficulty: 1},
		RNG:        testRNG(),
		Events:     log,
		Input:      input,
		HighScores: scores,
		Sessions:   sessions,
	})
	g.waves.Stop()
	return &testGame{Game: g, log: log, input: input, scores: scores, sessions: sessions}
}

// step runs one frame with the queued input, then clears it
func (tg *testGame) step() {
	tg.Update(frame)
	tg.input.clear()
}

// run advances d of game time in fixed frames
func (tg *testGame) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		tg.step()
	}
}

// place spawns an enemy of kind at x
func (tg *testGame) place(kind EnemyKind, x float64) *Enemy {
	e := tg.spawnEnemy(kind)
	e.X = x
	return e
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
