package game

import (
	"sync"
	"time"
)

type Timer interface {
	Stop() bool
}

// Clock is the time source behind the Scheduler. Tests swap in a manual clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

func NewRealClock() Clock {
	return realClock{}
}

type scheduledTask struct {
	token uint64
	timer Timer
}

// Scheduler runs delayed callbacks identified by a key. Scheduling a key again
// replaces the earlier task, and a replaced or cancelled task never runs.
type Scheduler struct {
	clock     Clock
	mu        sync.Mutex
	tasks     map[string]scheduledTask
	lastToken uint64
}

func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Scheduler{
		clock: clock,
		tasks: map[string]scheduledTask{},
	}
}

func (s *Scheduler) Schedule(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.tasks[key]; ok {
		prev.timer.Stop()
	}

	s.lastToken++
	token := s.lastToken
	timer := s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		cur, ok := s.tasks[key]
		if !ok || cur.token != token {
			s.mu.Unlock()
			return
		}
		delete(s.tasks, key)
		s.mu.Unlock()

		fn()
	})
	s.tasks[key] = scheduledTask{token: token, timer: timer}
}

func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task, ok := s.tasks[key]; ok {
		task.timer.Stop()
		delete(s.tasks, key)
	}
}

func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, task := range s.tasks {
		task.timer.Stop()
		delete(s.tasks, key)
	}
}

func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tasks[key]
	return ok
}

func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}
