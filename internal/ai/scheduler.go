package ai

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler arms one pending bot move per game. Re-arming or
// cancelling a game stops the previous timer, so a human action that
// lands before the delay elapses preempts the bot cleanly.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*scheduled
	log    *logrus.Logger
}

type scheduled struct {
	timer *time.Timer
	turn  int
}

func NewScheduler(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		timers: make(map[string]*scheduled),
		log:    log,
	}
}

// Schedule arms move to run after delay, replacing any pending move
// for the same game. turn is the log length the move was computed
// against; a reschedule for a different turn invalidates the old one.
func (s *Scheduler) Schedule(gameID string, turn int, delay time.Duration, move func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.timers[gameID]; ok {
		prev.timer.Stop()
	}

	entry := &scheduled{turn: turn}
	entry.timer = time.AfterFunc(delay, func() {
		// Verify this timer is still the armed one before moving, so a
		// stale callback racing a reschedule does nothing.
		s.mu.Lock()
		current, ok := s.timers[gameID]
		if !ok || current != entry {
			s.mu.Unlock()
			s.log.WithFields(logrus.Fields{
				"game": gameID,
				"turn": turn,
			}).Debug("stale bot timer fired, ignoring")
			return
		}
		delete(s.timers, gameID)
		s.mu.Unlock()

		s.log.WithFields(logrus.Fields{
			"game": gameID,
			"turn": turn,
		}).Debug("bot timer fired")
		move()
	})
	s.timers[gameID] = entry
}

// Cancel drops the pending move for a game, if any.
func (s *Scheduler) Cancel(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.timers[gameID]; ok {
		prev.timer.Stop()
		delete(s.timers, gameID)
	}
}

// Stop cancels every pending move. Called on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, id)
	}
}
