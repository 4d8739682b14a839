// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowbar/nowbar/logger"
)

func TestSnapshotResolvesPosition(t *testing.T) {
	clk := &fakeClock{now: t0}
	store := NewStatusStore(clk, logger.Init())

	store.Apply(Playing{Track: trackA, PositionMs: 1000})
	clk.Advance(2 * time.Second)

	snap := store.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, int64(3000), snap.PositionMs)
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	clk := &fakeClock{now: t0}
	store := NewStatusStore(clk, logger.Init())

	store.Apply(Playing{Track: trackA, PositionMs: 0})
	store.Apply(TrackChanged{Item: itemFor(trackA)})

	snap := store.Snapshot()
	store.Apply(Loading{Track: trackB, PositionMs: 0})

	// the earlier snapshot still describes track A
	assert.Equal(t, trackA.URI, snap.Track.URI)
	assert.Equal(t, "Title", snap.Track.Title)
}

// A panic inside the locked region must leave the store usable with its
// last-known-good value.
type panicOnceClock struct {
	fired bool
	now   time.Time
}

func (c *panicOnceClock) Now() time.Time {
	if !c.fired {
		c.fired = true
		panic("clock failure")
	}
	return c.now
}

func TestApplyRecoversFromPanic(t *testing.T) {
	log := logger.Init()
	store := NewStatusStore(&panicOnceClock{now: t0}, log)

	require.NotPanics(t, func() {
		store.Apply(VolumeChanged{Volume: 123})
	})

	// the panicked apply changed nothing
	snap := store.Snapshot()
	assert.Equal(t, uint16(0), snap.Volume)

	// and the store still works
	store.Apply(VolumeChanged{Volume: 456})
	assert.Equal(t, uint16(456), store.Snapshot().Volume)

	select {
	case s := <-log.Prints:
		assert.Contains(t, s, "recovered")
	default:
		t.Fatal("expected a log line about the recovered panic")
	}
}

// 1000 events against 50 snapshotting readers: every observed snapshot must
// correspond to exactly one applied event, never a torn mixture.
func TestConcurrentSnapshotsAreNeverTorn(t *testing.T) {
	clk := &fakeClock{now: t0}
	store := NewStatusStore(clk, logger.Init())

	const events = 1000
	const readers = 50

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(readers)

	for r := 0; r < readers; r++ {
		go func() {
			defer wg.Done()
			for {
				snap := store.Snapshot()
				if snap.Track.Title != "" {
					// title and duration are written by the same event
					want := fmt.Sprintf("track-%d", snap.DurationMs)
					assert.Equal(t, want, snap.Track.Title)
				}
				if snap.DurationMs > 0 {
					assert.LessOrEqual(t, snap.PositionMs, snap.DurationMs)
				}
				select {
				case <-done:
					return
				default:
				}
			}
		}()
	}

	store.Apply(Playing{Track: trackA, PositionMs: 0})
	for i := 1; i <= events; i++ {
		item := itemFor(trackA)
		item.Name = fmt.Sprintf("track-%d", i)
		item.DurationMs = int64(i)
		store.Apply(TrackChanged{Item: item})
	}
	close(done)
	wg.Wait()

	final := store.Snapshot()
	assert.Equal(t, fmt.Sprintf("track-%d", events), final.Track.Title)
	assert.Equal(t, int64(events), final.DurationMs)
}

// Full clamp property over a mixed event sequence.
func TestClampInvariantHoldsAcrossSequences(t *testing.T) {
	clk := &fakeClock{now: t0}
	store := NewStatusStore(clk, logger.Init())

	seq := []Event{
		Loading{Track: trackA, PositionMs: 0},
		Playing{Track: trackA, PositionMs: 0},
		TrackChanged{Item: itemFor(trackA)}, // duration 180000
		Seeked{Track: trackA, PositionMs: 200000},
		Paused{Track: trackA, PositionMs: 179000},
		Playing{Track: trackA, PositionMs: 179000},
	}

	for _, ev := range seq {
		store.Apply(ev)
		clk.Advance(3 * time.Second)

		snap := store.Snapshot()
		if snap.DurationMs > 0 {
			assert.LessOrEqual(t, snap.PositionMs, snap.DurationMs, "after %T", ev)
		}
	}
}
