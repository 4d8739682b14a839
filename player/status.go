// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import "time"

type PlaybackState int

const (
	StateStopped PlaybackState = iota
	StateLoading
	StatePlaying
	StatePaused
)

func (s PlaybackState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "invalid"
}

// TrackMetadata holds identity and descriptive fields for the current track.
// Empty string means the field has not been reported yet.
type TrackMetadata struct {
	ID         string
	URI        string
	Artist     string
	Album      string
	ArtworkURL string
	Title      string
	DurationMs int64
}

// status is the mutable per-session playback status. It is owned by a
// StatusStore and only ever modified by fold under the store's lock.
//
// Invariant: positionStamp is non-zero iff State == StatePlaying. While
// playing, the current position is PositionMs plus the elapsed time since
// the stamp.
type status struct {
	Connected     bool
	State         PlaybackState
	PositionMs    int64
	positionStamp time.Time
	Volume        uint16
	Shuffle       bool
	RepeatContext bool
	RepeatTrack   bool
	Track         TrackMetadata
}

// Snapshot is an immutable copy of the playback status with the position
// anchor already resolved. It shares no storage with the live status and is
// safe to keep and read without any locking.
type Snapshot struct {
	Connected     bool
	State         PlaybackState
	PositionMs    int64
	DurationMs    int64
	Volume        uint16
	Shuffle       bool
	RepeatContext bool
	RepeatTrack   bool
	Track         TrackMetadata
}
