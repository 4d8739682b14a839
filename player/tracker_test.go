// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowbar/nowbar/logger"
)

func newTestTracker(t *testing.T) (chan Event, *fakeClock, *Tracker) {
	t.Helper()
	events := make(chan Event)
	clk := &fakeClock{now: t0}
	tracker := NewTracker(events, clk, logger.Init())
	return events, clk, tracker
}

func TestTrackerAppliesEventsInOrder(t *testing.T) {
	events, _, tracker := newTestTracker(t)

	for _, v := range []uint16{10, 20, 30, 65535} {
		events <- VolumeChanged{Volume: v}
	}
	events <- Playing{Track: trackA, PositionMs: 42}
	close(events)

	select {
	case <-tracker.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("pump did not terminate on end of stream")
	}

	snap := tracker.Snapshot()
	assert.Equal(t, uint16(65535), snap.Volume)
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, trackA.URI, snap.Track.URI)
}

func TestTrackerCloseStopsPump(t *testing.T) {
	events, _, tracker := newTestTracker(t)

	events <- VolumeChanged{Volume: 7}

	closed := make(chan struct{})
	go func() {
		tracker.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not stop the pump")
	}

	// reads still work after shutdown
	assert.Equal(t, uint16(7), tracker.Volume())
}

func TestTrackerCloseIsIdempotent(t *testing.T) {
	events, _, tracker := newTestTracker(t)
	close(events)

	tracker.Close()
	require.NotPanics(t, func() { tracker.Close() })
}

func TestTrackerAccessors(t *testing.T) {
	events, _, tracker := newTestTracker(t)

	// before any event every optional string is explicitly absent
	_, ok := tracker.TrackID()
	assert.False(t, ok)
	_, ok = tracker.Title()
	assert.False(t, ok)
	assert.Equal(t, StateStopped, tracker.State())
	assert.False(t, tracker.Connected())

	events <- Connected{}
	events <- Playing{Track: trackA, PositionMs: 1000}
	events <- TrackChanged{Item: itemFor(trackA)}
	events <- ShuffleChanged{Shuffle: true}
	events <- RepeatChanged{Context: true, Track: false}
	events <- VolumeChanged{Volume: 65535}
	close(events)
	<-tracker.Done()

	assert.True(t, tracker.Connected())
	assert.Equal(t, StatePlaying, tracker.State())
	assert.Equal(t, int64(180000), tracker.DurationMs())
	assert.Equal(t, uint16(65535), tracker.Volume())
	assert.True(t, tracker.Shuffle())
	assert.True(t, tracker.RepeatContext())
	assert.False(t, tracker.RepeatTrack())

	id, ok := tracker.TrackID()
	assert.True(t, ok)
	assert.Equal(t, trackA.TrackID, id)

	uri, ok := tracker.TrackURI()
	assert.True(t, ok)
	assert.Equal(t, trackA.URI, uri)

	title, ok := tracker.Title()
	assert.True(t, ok)
	assert.Equal(t, "Title", title)

	artist, ok := tracker.Artist()
	assert.True(t, ok)
	assert.Equal(t, "Artist One, Artist Two", artist)

	album, ok := tracker.Album()
	assert.True(t, ok)
	assert.Equal(t, "Album", album)

	artwork, ok := tracker.ArtworkURL()
	assert.True(t, ok)
	assert.Equal(t, "https://i.scdn.co/image/cover", artwork)
}

func TestTrackerPositionUsesClock(t *testing.T) {
	events, clk, tracker := newTestTracker(t)

	events <- Playing{Track: trackA, PositionMs: 0}
	close(events)
	<-tracker.Done()

	clk.Advance(5 * time.Second)
	assert.Equal(t, int64(5000), tracker.PositionMs())
}
