package game

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answerCurrent picks a target and returns the right answer to its question
func (tg *testGame) answerCurrent(t *testing.T) string {
	t.Helper()
	tg.targeting.SelectTarget()
	q, ok := tg.Question()
	require.True(t, ok, "expected a question on screen")
	return strconv.Itoa(q.Answer)
}

func TestFirstWaveDelay(t *testing.T) {
	g := NewGame(Options{Setup: Setup{Tables: []int{3}, Difficulty: 1}, RNG: testRNG()})
	for i := 0; i < 299; i++ {
		g.Update(frame)
	}
	assert.Equal(t, 0, g.Wave())
	g.Update(frame)
	assert.Equal(t, 1, g.Wave())
	assert.Len(t, g.Enemies(), 1)

	hard := NewGame(Options{Setup: Setup{Tables: []int{3}, Difficulty: 2}, RNG: testRNG()})
	hard.Update(frame)
	assert.Equal(t, 1, hard.Wave(), "harder games start immediately")
}

func TestSetupIsNormalized(t *testing.T) {
	g := NewGame(Options{Setup: Setup{Tables: []int{42}, Difficulty: -1}, RNG: testRNG()})
	assert.Equal(t, Setup{Tables: []int{3}, Difficulty: 1}, g.Setup())
}

func TestEnemyCrossingLineCostsHeart(t *testing.T) {
	tg := newTestGame(t)

	a := tg.place(EnemyGhost, 150.2)
	tg.step()
	assert.Equal(t, 2, tg.Hearts())
	assert.True(t, tg.Invulnerable())
	assert.False(t, a.Alive(), "the enemy is destroyed on contact")
	assert.Equal(t, 1, countEvents(tg.log.Events(), EventPlayerHit))

	// A second enemy past the line waits out the grace period
	b := tg.place(EnemyGhost, 149)
	tg.run(1490 * time.Millisecond)
	assert.Equal(t, 2, tg.Hearts())
	assert.True(t, b.Alive())

	tg.step()
	assert.Equal(t, 1, tg.Hearts())
	assert.False(t, b.Alive())
}

func TestGameOverSavesNewHighScore(t *testing.T) {
	tg := newTestGame(t)
	tg.place(EnemyGhost, 600)

	assert.Equal(t, AnswerDefeated, tg.SubmitAnswer(tg.answerCurrent(t)))
	assert.Equal(t, 20, tg.Score())

	tg.hearts = 1
	tg.place(EnemyGhost, 150.2)
	tg.step()

	require.True(t, tg.Over())
	assert.Equal(t, SuspendGameOver, tg.Reason())
	summary := tg.Summary()
	require.NotNil(t, summary)
	assert.Equal(t, 20, summary.Score)
	assert.Equal(t, 20, summary.HighScore)
	assert.True(t, summary.NewHighScore)
	assert.Equal(t, 1, summary.Attempts)
	assert.Equal(t, 1, summary.Correct)
	assert.Equal(t, 20, tg.scores.best)
	assert.Equal(t, 1, tg.scores.saves)

	require.Len(t, tg.sessions.records, 1)
	rec := tg.sessions.records[0]
	assert.Equal(t, []int{3, 4}, rec.Tables)
	assert.Len(t, rec.Attempts, 1)

	// Nothing moves after the end
	now := tg.Now()
	tg.run(time.Second)
	assert.Equal(t, now, tg.Now())
	assert.Equal(t, 1, countEvents(tg.log.Events(), EventGameOver))
}

func TestGameOverKeepsBetterHighScore(t *testing.T) {
	tg := newTestGame(t)
	tg.scores.best = 100
	tg.hearts = 1

	tg.place(EnemyGhost, 150.2)
	tg.step()

	require.True(t, tg.Over())
	assert.Equal(t, 100, tg.Summary().HighScore)
	assert.False(t, tg.Summary().NewHighScore)
	assert.Zero(t, tg.scores.saves)
}

func TestDefeatDropsExpDroplet(t *testing.T) {
	tg := newTestGame(t)
	tg.place(EnemyGhost, 300)

	assert.Equal(t, AnswerDefeated, tg.SubmitAnswer(tg.answerCurrent(t)))
	_, ok := tg.Question()
	assert.False(t, ok, "question clears on defeat")
	assert.Equal(t, 1, tg.world.ActiveDroplets())
	assert.Equal(t, 1, countEvents(tg.log.Events(), EventDropletSpawned))

	tg.run(time.Second)
	assert.Equal(t, 0, tg.world.ActiveDroplets())
	assert.Equal(t, 1, tg.Progress().CurrentExp)
	assert.Equal(t, 1, tg.Progress().Level)
	assert.Equal(t, 1, countEvents(tg.log.Events(), EventDropletReleased))
}

func TestPlantNeedsTwoAnswers(t *testing.T) {
	tg := newTestGame(t)
	tg.place(EnemyPlant, 600)
	answer := tg.answerCurrent(t)

	assert.Equal(t, AnswerHit, tg.SubmitAnswer(answer))
	assert.Equal(t, 10, tg.Score())
	assert.Equal(t, AnswerDefeated, tg.SubmitAnswer(answer))
	assert.Equal(t, 30, tg.Score())
}

func TestWrongAnswerKeepsTarget(t *testing.T) {
	tg := newTestGame(t)
	e := tg.place(EnemyGhost, 600)
	answer, _ := strconv.Atoi(tg.answerCurrent(t))

	assert.Equal(t, AnswerWrong, tg.SubmitAnswer(strconv.Itoa(answer+1)))
	target, ok := tg.Target()
	require.True(t, ok)
	assert.Equal(t, e.ID, target.ID)
	assert.Zero(t, tg.Score())
	assert.Equal(t, 1, countEvents(tg.log.Events(), EventCameraShake))
}

func TestLevelUpPausesAndRefusesManualPause(t *testing.T) {
	tg := newTestGame(t)
	tg.place(EnemyGhost, 600)

	tg.progress.CurrentExp = 2
	tg.GainExp(1)
	assert.Equal(t, SuspendLevelUp, tg.Reason())
	assert.Equal(t, 2, tg.Progress().Level)

	events := tg.log.Events()
	var levelUp Event
	for _, ev := range events {
		if ev.Kind == EventLevelUp {
			levelUp = ev
		}
	}
	require.Len(t, levelUp.Upgrades, 1)
	assert.Equal(t, 1, levelUp.Upgrades[0].NextLevel)

	now := tg.Now()
	tg.input.press(KeyPause)
	tg.step()
	assert.Equal(t, SuspendLevelUp, tg.Reason(), "pause key is ignored during level-up")
	assert.False(t, tg.PauseGame())
	tg.run(time.Second)
	assert.Equal(t, now, tg.Now())

	tg.GainExp(50)
	assert.Equal(t, 0, tg.Progress().CurrentExp, "EXP is not banked during level-up")

	require.NoError(t, tg.SelectUpgrade(SpellIce))
	assert.Equal(t, Running, tg.Reason())
	ice, ok := tg.Spell(SpellIce)
	require.True(t, ok)
	assert.Equal(t, 1, ice.Level)
	assert.Equal(t, 8000*time.Millisecond, ice.Cooldown)
	assert.Equal(t, 3750*time.Millisecond, ice.Duration)

	assert.ErrorIs(t, tg.SelectUpgrade(SpellIce), ErrNotLevelingUp)
}

func TestLevelUpOverridesManualPause(t *testing.T) {
	tg := newTestGame(t)
	require.True(t, tg.PauseGame())

	tg.PauseForLevelUp()
	assert.Equal(t, SuspendLevelUp, tg.Reason())

	tg.ResumeAfterLevelUp()
	assert.Equal(t, Running, tg.Reason(), "the manual pause was replaced, not stacked")
}

func TestBankedExpTriggersRepeatedLevelUps(t *testing.T) {
	tg := newTestGame(t)
	tg.GainExp(20)

	picks := 0
	for tg.Reason() == SuspendLevelUp {
		require.NoError(t, tg.SelectUpgrade(SpellIce))
		picks++
		require.Less(t, picks, 10)
	}

	assert.Equal(t, 3, picks)
	assert.Equal(t, 4, tg.Progress().Level)
	assert.Equal(t, 1, tg.Progress().CurrentExp)
	assert.Equal(t, 15, tg.Progress().ExpToNext)
	ice, _ := tg.Spell(SpellIce)
	assert.Equal(t, 3, ice.Level)
	assert.Equal(t, 3, countEvents(tg.log.Events(), EventLevelUp))
}

func TestUpgradeUnknownSpell(t *testing.T) {
	tg := newTestGame(t)
	tg.GainExp(3)
	assert.ErrorIs(t, tg.SelectUpgrade("fire"), ErrUnknownSpell)
	assert.Equal(t, SuspendLevelUp, tg.Reason())
}

func TestManualPauseFreezesEverything(t *testing.T) {
	tg := newTestGame(t)
	e := tg.place(EnemyGhost, 600)
	tg.step()
	x := e.X
	now := tg.Now()

	tg.input.press(KeyPause)
	tg.step()
	assert.Equal(t, SuspendManual, tg.Reason())
	assert.Equal(t, EnemyPaused, e.State())

	tg.run(2 * time.Second)
	assert.Equal(t, x, e.X, "no teleport after a long pause")
	assert.Equal(t, now, tg.Now())
	assert.Equal(t, AnswerIgnored, tg.SubmitAnswer("9"))

	tg.input.press(KeyPause)
	tg.step()
	assert.Equal(t, Running, tg.Reason())
	assert.InDelta(t, x-0.4, e.X, 0.0001)
	assert.Equal(t, 1, countEvents(tg.log.Events(), EventPaused))
	assert.Equal(t, 1, countEvents(tg.log.Events(), EventResumed))
}

func TestIceFreezeSurvivesPause(t *testing.T) {
	tg := newTestGame(t)
	tg.GainExp(3)
	require.NoError(t, tg.SelectUpgrade(SpellIce))

	assert.False(t, tg.CastSpell(SpellIce), "still cooling down")
	tg.run(8010 * time.Millisecond)

	e := tg.place(EnemyGhost, 700)
	tg.input.press(KeySpell)
	tg.step()
	require.True(t, e.Frozen())
	assert.Equal(t, 1, countEvents(tg.log.Events(), EventSpellCast))

	tg.input.press(KeyPause)
	tg.step()
	tg.run(5 * time.Second)
	assert.True(t, e.Frozen())
	assert.Equal(t, 3750*time.Millisecond, e.FreezeRemaining())

	tg.input.press(KeyPause)
	tg.step()
	tg.run(4 * time.Second)
	assert.False(t, e.Frozen())
	assert.Equal(t, 40.0, e.Speed)
}

func TestAnswerKeysFillBuffer(t *testing.T) {
	tg := newTestGame(t)
	tg.place(EnemyGhost, 600)
	answer := tg.answerCurrent(t)

	tg.input.typeText("1234")
	tg.step()
	assert.Equal(t, "123", tg.AnswerText(), "input is capped at three digits")

	tg.input.press(KeyBackspace)
	tg.step()
	assert.Equal(t, "12", tg.AnswerText())

	tg.input.press(KeyBackspace)
	tg.input.press(KeyBackspace)
	tg.step()
	assert.Equal(t, "1", tg.AnswerText(), "one backspace per frame")

	tg.input.press(KeyBackspace)
	tg.step()
	tg.input.typeText(answer)
	tg.input.press(KeySubmit)
	tg.step()

	assert.Empty(t, tg.AnswerText())
	assert.Equal(t, 20, tg.Score())
	require.Len(t, tg.Session(), 1)
	assert.True(t, tg.Session()[0].Correct)
}

func TestSubmitWithEmptyBufferDoesNothing(t *testing.T) {
	tg := newTestGame(t)
	tg.place(EnemyGhost, 600)
	tg.answerCurrent(t)

	tg.input.press(KeySubmit)
	tg.step()
	assert.Empty(t, tg.Session())
}

func TestRestartAndStatistics(t *testing.T) {
	tg := newTestGame(t)
	tg.place(EnemyGhost, 600)
	answer, _ := strconv.Atoi(tg.answerCurrent(t))
	tg.SubmitAnswer(strconv.Itoa(answer + 1))

	setup := tg.Restart()
	assert.Equal(t, Setup{Tables: []int{3, 4}, Difficulty: 1}, setup)

	stats := tg.Statistics()
	assert.Equal(t, []int{3, 4}, stats.Tables)
	require.Len(t, stats.Session, 1)
	assert.False(t, stats.Session[0].Correct)

	stats.Session[0].Correct = true
	assert.False(t, tg.Session()[0].Correct, "hand-off is a copy")
}

func TestTargetRetriesUntilEnemyIsFarEnough(t *testing.T) {
	tg := newTestGame(t)
	tg.place(EnemyGhost, 1000)

	tg.step()
	_, ok := tg.Question()
	assert.False(t, ok, "the first pick waits for the retry delay")

	tg.run(500 * time.Millisecond)
	_, ok = tg.Question()
	assert.True(t, ok)
}

func TestCurrentTargetCrossingLineIsReplaced(t *testing.T) {
	tg := newTestGame(t)
	near := tg.place(EnemyGhost, 600)
	tg.answerCurrent(t)
	far := tg.place(EnemyGhost, 700)

	near.X = 150.2
	tg.step()

	assert.False(t, near.Alive())
	target, ok := tg.Target()
	require.True(t, ok, "a new target is chosen on the same tick")
	assert.Equal(t, far.ID, target.ID)
}

func TestThreeHitsEndTheGameOnce(t *testing.T) {
	tg := newTestGame(t)
	tg.place(EnemyGhost, 600)
	answer := tg.answerCurrent(t)
	n, _ := strconv.Atoi(answer)

	assert.Equal(t, AnswerWrong, tg.SubmitAnswer(strconv.Itoa(n+1)))
	assert.Equal(t, AnswerDefeated, tg.SubmitAnswer(answer))

	for i := 0; i < 3; i++ {
		tg.place(EnemyGhost, 150.2)
		tg.run(1600 * time.Millisecond)
	}
	require.True(t, tg.Over())
	assert.Equal(t, 0, tg.Hearts())

	tg.playerTakeDamage(tg.place(EnemyGhost, 100))
	assert.Equal(t, 0, tg.Hearts(), "damage after the end is ignored")
	assert.Equal(t, AnswerIgnored, tg.SubmitAnswer(answer))

	assert.Equal(t, 1, countEvents(tg.log.Events(), EventGameOver))
	assert.Equal(t, 3, countEvents(tg.log.Events(), EventPlayerHit))
	require.Len(t, tg.sessions.records, 1)
	assert.Len(t, tg.sessions.records[0].Attempts, 2)
	assert.Equal(t, 2, tg.Summary().Attempts)
}
