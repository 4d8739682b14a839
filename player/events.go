// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import "strings"

// TrackRef identifies a track as reported by the transport: the stable item
// id plus the canonical URI. Identity comparisons use the URI.
type TrackRef struct {
	TrackID string
	URI     string
}

// MediaItem is the descriptive metadata record carried by TrackChanged.
// Tracks carry Artists and Album; podcast episodes carry Show instead.
type MediaItem struct {
	TrackID    string
	URI        string
	Name       string
	DurationMs int64
	Artists    []string
	Album      string
	Show       string
	Covers     []string
}

// ArtistLine joins the artist names for display, deduplicated and in order.
// Episodes have no artist list; the show name stands in.
func (m MediaItem) ArtistLine() string {
	seen := make(map[string]struct{}, len(m.Artists))
	var names []string
	for _, a := range m.Artists {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		names = append(names, a)
	}
	if len(names) == 0 {
		return m.Show
	}
	return strings.Join(names, ", ")
}

// AlbumLine returns the album name, or the show name for episodes.
func (m MediaItem) AlbumLine() string {
	if m.Album != "" {
		return m.Album
	}
	return m.Show
}

// ArtworkURL returns the first usable cover URL.
func (m MediaItem) ArtworkURL() string {
	for _, c := range m.Covers {
		if c != "" {
			return c
		}
	}
	return ""
}

// Event is one message from the upstream player/transport component. The set
// of variants is closed; folding is total over it and ignores variants that
// carry nothing the status cares about.
type Event interface {
	playerEvent()
}

// Connected reports that the session link is up.
type Connected struct{}

// Disconnected reports that the session link dropped.
type Disconnected struct{}

// TrackChanged delivers descriptive metadata for the current item.
type TrackChanged struct {
	Item MediaItem
}

// Loading reports that a track started loading at the given position.
type Loading struct {
	Track      TrackRef
	PositionMs int64
}

// Playing reports active playback from the given position.
type Playing struct {
	Track      TrackRef
	PositionMs int64
}

// PositionCorrection is a position report during playback; it folds exactly
// like Playing.
type PositionCorrection struct {
	Track      TrackRef
	PositionMs int64
}

// Paused reports playback paused at the given position.
type Paused struct {
	Track      TrackRef
	PositionMs int64
}

// Seeked reports a position jump within the current state.
type Seeked struct {
	Track      TrackRef
	PositionMs int64
}

// Stopped reports that playback ended.
type Stopped struct {
	Track TrackRef
}

// VolumeChanged reports the mixer volume in the transport's 0-65535 range.
type VolumeChanged struct {
	Volume uint16
}

// ShuffleChanged reports the shuffle flag.
type ShuffleChanged struct {
	Shuffle bool
}

// RepeatChanged reports the repeat-context and repeat-track flags.
type RepeatChanged struct {
	Context bool
	Track   bool
}

// Preloading, EndOfTrack and Unavailable are delivered by the transport but
// carry nothing the status tracks; they fold to no-ops.
type Preloading struct {
	Track TrackRef
}

type EndOfTrack struct {
	Track TrackRef
}

type Unavailable struct {
	Track TrackRef
}

func (Connected) playerEvent()          {}
func (Disconnected) playerEvent()       {}
func (TrackChanged) playerEvent()       {}
func (Loading) playerEvent()            {}
func (Playing) playerEvent()            {}
func (PositionCorrection) playerEvent() {}
func (Paused) playerEvent()             {}
func (Seeked) playerEvent()             {}
func (Stopped) playerEvent()            {}
func (VolumeChanged) playerEvent()      {}
func (ShuffleChanged) playerEvent()     {}
func (RepeatChanged) playerEvent()      {}
func (Preloading) playerEvent()         {}
func (EndOfTrack) playerEvent()         {}
func (Unavailable) playerEvent()        {}
