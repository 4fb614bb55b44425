package game

import (
	"sort"
	"time"
)

// Purpose groups scheduled tasks so they can be held, released or cancelled together
type Purpose string

const (
	PurposeWaveSpawn    Purpose = "wave.spawn"
	PurposeNextWave     Purpose = "wave.next"
	PurposeFreeze       Purpose = "enemy.freeze"
	PurposeInvulnerable Purpose = "player.invulnerable"
	PurposeRetarget     Purpose = "target.retarget"
)

// TaskID identifies a scheduled task. The zero value never refers to a task.
type TaskID uint64

type task struct {
	id        TaskID
	purpose   Purpose
	remaining time.Duration
	fn        func()
	paused    bool // paused individually (e.g. by its owning enemy)
	held      bool // held by a world suspend
}

// Scheduler is the registry of delayed callbacks for the game.
// Time only moves when Advance is called, so the orchestrator controls the game clock.
type Scheduler struct {
	now    time.Duration
	nextID TaskID
	tasks  map[TaskID]*task
}

// NewScheduler creates an empty scheduler at game time zero
func NewScheduler() *Scheduler {
	return &Scheduler{
		tasks: make(map[TaskID]*task),
	}
}

// Now returns the game clock
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After registers fn to run once delay of unpaused game time has elapsed
func (s *Scheduler) After(purpose Purpose, delay time.Duration, fn func()) TaskID {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	s.tasks[s.nextID] = &task{
		id:        s.nextID,
		purpose:   purpose,
		remaining: delay,
		fn:        fn,
	}
	return s.nextID
}

// Cancel removes a task. Cancelling an unknown or already fired task is a no-op.
func (s *Scheduler) Cancel(id TaskID) bool {
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// CancelPurpose removes every task registered under purpose
func (s *Scheduler) CancelPurpose(purpose Purpose) int {
	n := 0
	for id, t := range s.tasks {
		if t.purpose == purpose {
			delete(s.tasks, id)
			n++
		}
	}
	return n
}

// Pause stops a single task's countdown, keeping its remaining time
func (s *Scheduler) Pause(id TaskID) {
	if t, ok := s.tasks[id]; ok {
		t.paused = true
	}
}

// Resume restarts a single task's countdown
func (s *Scheduler) Resume(id TaskID) {
	if t, ok := s.tasks[id]; ok {
		t.paused = false
	}
}

// Hold suspends every task of the given purposes. Held tasks are released by Release.
func (s *Scheduler) Hold(purposes ...Purpose) {
	for _, t := range s.tasks {
		if hasPurpose(purposes, t.purpose) {
			t.held = true
		}
	}
}

// Release undoes Hold for the given purposes
func (s *Scheduler) Release(purposes ...Purpose) {
	for _, t := range s.tasks {
		if hasPurpose(purposes, t.purpose) {
			t.held = false
		}
	}
}

// Remaining reports how much game time is left before the task fires
func (s *Scheduler) Remaining(id TaskID) (time.Duration, bool) {
	t, ok := s.tasks[id]
	if !ok {
		return 0, false
	}
	return t.remaining, true
}

// Pending reports whether the task is still registered
func (s *Scheduler) Pending(id TaskID) bool {
	_, ok := s.tasks[id]
	return ok
}

// Count returns the number of registered tasks for purpose
func (s *Scheduler) Count(purpose Purpose) int {
	n := 0
	for _, t := range s.tasks {
		if t.purpose == purpose {
			n++
		}
	}
	return n
}

// Advance moves the game clock forward and fires due tasks in due order (ties by creation).
// Callbacks may register or cancel tasks; tasks registered during Advance wait for the next call.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	s.now += dt

	var due []*task
	for _, t := range s.tasks {
		if t.paused || t.held {
			continue
		}
		t.remaining -= dt
		if t.remaining <= 0 {
			due = append(due, t)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].remaining != due[j].remaining {
			return due[i].remaining < due[j].remaining
		}
		return due[i].id < due[j].id
	})

	for _, t := range due {
		// An earlier callback in this batch may have cancelled it
		if _, ok := s.tasks[t.id]; !ok {
			continue
		}
		delete(s.tasks, t.id)
		t.fn()
	}
}

func hasPurpose(purposes []Purpose, p Purpose) bool {
	for _, candidate := range purposes {
		if candidate == p {
			return true
		}
	}
	return false
}
