// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import "time"

// fold applies one transport event to the previous status and returns the
// next one. It is pure and total: variants that carry nothing the status
// tracks return the previous value unchanged. All locking lives in
// StatusStore; all domain logic lives here.
func fold(st status, ev Event, now time.Time) status {
	switch ev := ev.(type) {
	case Connected:
		st.Connected = true

	case Disconnected:
		st.Connected = false

	case TrackChanged:
		item := ev.Item
		st.Track.Title = item.Name
		st.Track.Artist = item.ArtistLine()
		st.Track.Album = item.AlbumLine()
		st.Track.ArtworkURL = item.ArtworkURL()
		st.Track.DurationMs = item.DurationMs
		if item.DurationMs > 0 && st.PositionMs > item.DurationMs {
			st.PositionMs = item.DurationMs
		}

	case Loading:
		st.State = StateLoading
		st = applyTrackRef(st, ev.Track)
		// The anchor is deliberately not clamped here: duration may still
		// belong to the previous track until its TrackChanged arrives, and
		// the transient is preferred over clamping against stale data.
		st.PositionMs = ev.PositionMs
		st.positionStamp = time.Time{}

	case Playing:
		st = foldPlaying(st, ev.Track, ev.PositionMs, now)

	case PositionCorrection:
		st = foldPlaying(st, ev.Track, ev.PositionMs, now)

	case Paused:
		st.State = StatePaused
		st = applyTrackRef(st, ev.Track)
		st.PositionMs = ev.PositionMs
		st.positionStamp = time.Time{}

	case Seeked:
		st = applyTrackRef(st, ev.Track)
		st.PositionMs = ev.PositionMs
		if st.Track.DurationMs > 0 && st.PositionMs > st.Track.DurationMs {
			st.PositionMs = st.Track.DurationMs
		}
		if st.State == StatePlaying {
			st.positionStamp = now
		} else {
			st.positionStamp = time.Time{}
		}

	case Stopped:
		st.State = StateStopped
		st = applyTrackRef(st, ev.Track)
		st.PositionMs = 0
		st.positionStamp = time.Time{}

	case VolumeChanged:
		st.Volume = ev.Volume

	case ShuffleChanged:
		st.Shuffle = ev.Shuffle

	case RepeatChanged:
		st.RepeatContext = ev.Context
		st.RepeatTrack = ev.Track
	}

	return st
}

func foldPlaying(st status, track TrackRef, positionMs int64, now time.Time) status {
	st.State = StatePlaying
	st = applyTrackRef(st, track)
	st.PositionMs = positionMs
	st.positionStamp = now
	return st
}

// applyTrackRef adopts the track identity carried by an event. When the
// canonical URI differs from the stored one, every descriptive field is
// cleared first so that stale metadata from the previous track is never shown
// against the new identity.
func applyTrackRef(st status, track TrackRef) status {
	if track.URI != st.Track.URI {
		st.Track = TrackMetadata{}
	}
	st.Track.ID = track.TrackID
	st.Track.URI = track.URI
	return st
}
