package game

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type targetingFixture struct {
	world     *World
	sched     *Scheduler
	log       *EventLog
	targeting *Targeting
}

func newTargetingFixture() *targetingFixture {
	world := NewWorld(DefaultConfig())
	sched := NewScheduler()
	log := &EventLog{}
	rng := testRNG()
	return &targetingFixture{
		world:     world,
		sched:     sched,
		log:       log,
		targeting: NewTargeting(world, sched, rng, NewQuestionGenerator(rng, []int{3}), log),
	}
}

func (f *targetingFixture) add(kind EnemyKind, x float64) *Enemy {
	e := NewEnemy(f.world.NextEnemyID(), kind, DefaultEnemyKinds()[kind], 1, x, 520, f.sched, f.log)
	f.world.RegisterEnemy(e, nil)
	return e
}

func TestSelectTargetSkipsEnemiesNearTheLine(t *testing.T) {
	f := newTargetingFixture()
	f.add(EnemyGhost, 240) // damage line 150 + min distance 100 = 250
	f.targeting.SelectTarget()

	_, ok := f.targeting.Question()
	assert.False(t, ok, "no enemy beyond the minimum distance")

	far := f.add(EnemyGhost, 600)
	f.targeting.SelectTarget()
	target, ok := f.targeting.Target()
	require.True(t, ok)
	assert.Equal(t, far.ID, target.ID)
	assert.Equal(t, 1, countEvents(f.log.Events(), EventQuestionShown))
}

func TestSelectTargetKeepsLiveTarget(t *testing.T) {
	f := newTargetingFixture()
	f.add(EnemyGhost, 600)
	f.add(EnemyGhost, 700)
	f.targeting.SelectTarget()
	first, _ := f.targeting.Target()
	q1, _ := f.targeting.Question()

	f.targeting.SelectTarget()
	second, _ := f.targeting.Target()
	q2, _ := f.targeting.Question()
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, q1, q2)
}

func TestSubmitWrongAnswerKeepsQuestion(t *testing.T) {
	f := newTargetingFixture()
	e := f.add(EnemyGhost, 600)
	f.targeting.SelectTarget()
	q, _ := f.targeting.Question()

	f.sched.Advance(2 * time.Second)
	outcome := f.targeting.Submit(strconv.Itoa(q.Answer+1), 1, 120, 460)
	assert.Equal(t, AnswerWrong, outcome)
	assert.Equal(t, 1, e.HitPoints)

	still, ok := f.targeting.Question()
	assert.True(t, ok)
	assert.Equal(t, q, still)

	require.Len(t, f.targeting.Session, 1)
	a := f.targeting.Session[0]
	assert.False(t, a.Correct)
	assert.Equal(t, q.Answer, a.CorrectAnswer)
	assert.Equal(t, 2*time.Second, a.TimeTaken)
}

func TestSubmitInvalidInputIsIncorrect(t *testing.T) {
	for _, input := range []string{"", "abc", "1.5"} {
		f := newTargetingFixture()
		f.add(EnemyGhost, 600)
		f.targeting.SelectTarget()

		assert.Equal(t, AnswerWrong, f.targeting.Submit(input, 1, 0, 0), "input %q", input)
		require.Len(t, f.targeting.Session, 1)
		assert.Equal(t, input, f.targeting.Session[0].AnswerGiven)
	}
}

func TestSubmitCorrectAnswerDamagesTarget(t *testing.T) {
	f := newTargetingFixture()
	plant := f.add(EnemyPlant, 600)
	f.targeting.SelectTarget()
	q, _ := f.targeting.Question()

	assert.Equal(t, AnswerHit, f.targeting.Submit(strconv.Itoa(q.Answer), 1, 0, 0))
	assert.Equal(t, 1, plant.HitPoints)
	again, ok := f.targeting.Question()
	assert.True(t, ok)
	assert.Equal(t, q, again, "a surviving target keeps its question")

	assert.Equal(t, AnswerDefeated, f.targeting.Submit(strconv.Itoa(q.Answer), 1, 0, 0))
	assert.False(t, plant.Alive())
	assert.Equal(t, 2, countEvents(f.log.Events(), EventLightning))
}

func TestSubmitWithoutQuestionIsIgnored(t *testing.T) {
	f := newTargetingFixture()
	assert.Equal(t, AnswerIgnored, f.targeting.Submit("12", 1, 0, 0))
	assert.Empty(t, f.targeting.Session)
}

func TestSubmitAgainstDeadTargetRetargets(t *testing.T) {
	f := newTargetingFixture()
	first := f.add(EnemyGhost, 600)
	f.targeting.SelectTarget()
	q, _ := f.targeting.Question()

	first.Destroy(RemovedCrossedLine)
	other := f.add(EnemyGhost, 700)

	assert.Equal(t, AnswerStale, f.targeting.Submit(strconv.Itoa(q.Answer), 1, 0, 0))
	target, ok := f.targeting.Target()
	require.True(t, ok)
	assert.Equal(t, other.ID, target.ID)
	assert.Equal(t, 1, other.HitPoints, "stale answers deal no damage")
}

func TestRefreshSchedulesRetry(t *testing.T) {
	f := newTargetingFixture()
	e := f.add(EnemyGhost, 200) // too close to target

	f.targeting.Refresh(500 * time.Millisecond)
	f.targeting.Refresh(500 * time.Millisecond)
	assert.Equal(t, 1, f.sched.Count(PurposeRetarget), "only one retry pending")

	e.X = 600
	f.sched.Advance(500 * time.Millisecond)
	_, ok := f.targeting.Target()
	assert.True(t, ok)
}

func TestRefreshDropsDeadTarget(t *testing.T) {
	f := newTargetingFixture()
	e := f.add(EnemyGhost, 600)
	f.targeting.SelectTarget()

	e.Destroy(RemovedOffscreen)
	f.targeting.Refresh(500 * time.Millisecond)

	_, ok := f.targeting.Question()
	assert.False(t, ok)
	assert.Equal(t, 1, countEvents(f.log.Events(), EventQuestionCleared))
}
