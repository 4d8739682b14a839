// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import (
	"sync"

	"github.com/nowbar/nowbar/logger"
)

// StatusStore owns the one mutable status value of a session behind a mutex.
// Exactly one pump goroutine calls Apply; Snapshot may be called from any
// goroutine at any time. The lock is only ever held for a single fold or a
// single copy, never across channel operations or I/O.
type StatusStore struct {
	mu     sync.Mutex
	status status
	clock  Clock
	logger logger.LoggerInterface
}

func NewStatusStore(clk Clock, log logger.LoggerInterface) *StatusStore {
	return &StatusStore{
		clock:  clk,
		logger: log,
	}
}

// Apply folds one event into the status. A panic escaping the fold is
// recovered here so that the previous status survives and readers keep
// getting last-known-good values instead of a crash.
func (s *StatusStore) Apply(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("status: recovered from apply panic: %v", r)
		}
	}()
	s.status = fold(s.status, ev, s.clock.Now())
}

// Snapshot copies the current status, with the position anchor resolved
// against the clock, into an independently owned value.
func (s *StatusStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	return Snapshot{
		Connected:     st.Connected,
		State:         st.State,
		PositionMs:    positionAt(st, s.clock.Now()),
		DurationMs:    st.Track.DurationMs,
		Volume:        st.Volume,
		Shuffle:       st.Shuffle,
		RepeatContext: st.RepeatContext,
		RepeatTrack:   st.RepeatTrack,
		Track:         st.Track,
	}
}
