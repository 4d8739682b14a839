// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import (
	"context"

	"github.com/nowbar/nowbar/logger"
)

// Tracker is the session-scoped playback status tracker: one StatusStore plus
// the single pump goroutine that feeds it from the upstream event channel.
//
// The pump terminates when the channel is closed (normal end of stream) or
// when Close is called. Nothing besides the pump ever applies events.
type Tracker struct {
	store  *StatusStore
	cancel context.CancelFunc
	done   chan struct{}
	logger logger.LoggerInterface
}

// NewTracker starts tracking the given ordered event stream. The caller keeps
// ownership of the channel; closing it shuts the tracker down cleanly.
func NewTracker(events <-chan Event, clk Clock, log logger.LoggerInterface) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Tracker{
		store:  NewStatusStore(clk, log),
		cancel: cancel,
		done:   make(chan struct{}),
		logger: log,
	}
	go t.pump(ctx, events)
	return t
}

// pump applies events in delivery order until end-of-stream or cancellation.
// Events still queued at cancellation are dropped; that truncation is part of
// the shutdown contract, not an error.
func (t *Tracker) pump(ctx context.Context, events <-chan Event) {
	defer close(t.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				t.logger.Print("status: event stream closed")
				return
			}
			t.store.Apply(ev)
		}
	}
}

// Close cancels the pump and waits for it to exit. Safe to call more than
// once.
func (t *Tracker) Close() {
	t.cancel()
	<-t.done
}

// Done is closed once the pump has exited, whether by cancellation or because
// the upstream stream ended.
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}

// Snapshot returns a self-consistent copy of the current playback status.
func (t *Tracker) Snapshot() Snapshot {
	return t.store.Snapshot()
}

// Connected reports whether the session link is up.
func (t *Tracker) Connected() bool {
	return t.store.Snapshot().Connected
}

func (t *Tracker) State() PlaybackState {
	return t.store.Snapshot().State
}

// PositionMs returns the current playback position, extrapolated while
// playing.
func (t *Tracker) PositionMs() int64 {
	return t.store.Snapshot().PositionMs
}

func (t *Tracker) DurationMs() int64 {
	return t.store.Snapshot().DurationMs
}

func (t *Tracker) Volume() uint16 {
	return t.store.Snapshot().Volume
}

func (t *Tracker) Shuffle() bool {
	return t.store.Snapshot().Shuffle
}

func (t *Tracker) RepeatContext() bool {
	return t.store.Snapshot().RepeatContext
}

func (t *Tracker) RepeatTrack() bool {
	return t.store.Snapshot().RepeatTrack
}

// The string accessors report ok=false while the field has not been reported
// by the transport, which is distinct from an empty value.

func (t *Tracker) TrackID() (string, bool) {
	return optional(t.store.Snapshot().Track.ID)
}

func (t *Tracker) TrackURI() (string, bool) {
	return optional(t.store.Snapshot().Track.URI)
}

func (t *Tracker) Artist() (string, bool) {
	return optional(t.store.Snapshot().Track.Artist)
}

func (t *Tracker) Album() (string, bool) {
	return optional(t.store.Snapshot().Track.Album)
}

func (t *Tracker) ArtworkURL() (string, bool) {
	return optional(t.store.Snapshot().Track.ArtworkURL)
}

func (t *Tracker) Title() (string, bool) {
	return optional(t.store.Snapshot().Track.Title)
}

func optional(s string) (string, bool) {
	return s, s != ""
}
