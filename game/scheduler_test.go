package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFiresInDueOrder(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.After(PurposeNextWave, 300*time.Millisecond, func() { order = append(order, "c") })
	s.After(PurposeWaveSpawn, 100*time.Millisecond, func() { order = append(order, "a") })
	s.After(PurposeRetarget, 100*time.Millisecond, func() { order = append(order, "b") })

	s.Advance(50 * time.Millisecond)
	assert.Empty(t, order)

	s.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 1050*time.Millisecond, s.Now())
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	fired := false
	id := s.After(PurposeRetarget, 100*time.Millisecond, func() { fired = true })

	assert.True(t, s.Cancel(id))
	assert.False(t, s.Cancel(id), "second cancel is a no-op")

	s.Advance(time.Second)
	assert.False(t, fired)
}

func TestSchedulerCancelFromEarlierCallback(t *testing.T) {
	s := NewScheduler()
	fired := false
	var second TaskID
	s.After(PurposeWaveSpawn, 10*time.Millisecond, func() { s.Cancel(second) })
	second = s.After(PurposeWaveSpawn, 20*time.Millisecond, func() { fired = true })

	s.Advance(time.Second)
	assert.False(t, fired)
}

func TestSchedulerPausePreservesRemaining(t *testing.T) {
	s := NewScheduler()
	fired := false
	id := s.After(PurposeFreeze, 3000*time.Millisecond, func() { fired = true })

	s.Advance(1000 * time.Millisecond)
	s.Pause(id)
	s.Advance(10 * time.Second)

	remaining, ok := s.Remaining(id)
	require.True(t, ok)
	assert.Equal(t, 2000*time.Millisecond, remaining)
	assert.False(t, fired)

	s.Resume(id)
	s.Advance(1999 * time.Millisecond)
	assert.False(t, fired)
	s.Advance(time.Millisecond)
	assert.True(t, fired)
	assert.False(t, s.Pending(id))
}

func TestSchedulerHoldByPurpose(t *testing.T) {
	s := NewScheduler()
	var waves, retargets int
	s.After(PurposeNextWave, 100*time.Millisecond, func() { waves++ })
	s.After(PurposeRetarget, 100*time.Millisecond, func() { retargets++ })

	s.Hold(PurposeNextWave)
	s.Advance(time.Second)
	assert.Equal(t, 0, waves)
	assert.Equal(t, 1, retargets)
	assert.Equal(t, 1, s.Count(PurposeNextWave))

	s.Release(PurposeNextWave)
	s.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, waves)
}

func TestSchedulerTasksAddedDuringAdvanceWait(t *testing.T) {
	s := NewScheduler()
	var fired int
	s.After(PurposeWaveSpawn, 10*time.Millisecond, func() {
		s.After(PurposeWaveSpawn, 0, func() { fired++ })
	})

	s.Advance(time.Second)
	assert.Equal(t, 0, fired, "a task registered by a callback waits for the next advance")

	s.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
}

func TestSchedulerCancelPurpose(t *testing.T) {
	s := NewScheduler()
	s.After(PurposeWaveSpawn, time.Second, func() {})
	s.After(PurposeWaveSpawn, time.Second, func() {})
	s.After(PurposeFreeze, time.Second, func() {})

	assert.Equal(t, 2, s.CancelPurpose(PurposeWaveSpawn))
	assert.Equal(t, 0, s.Count(PurposeWaveSpawn))
	assert.Equal(t, 1, s.Count(PurposeFreeze))
}
