// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import (
	"math"
	"time"
)

// Clock supplies timestamps for position anchoring. Injected so tests can
// advance time without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// positionAt resolves the position anchor to a concrete position at the given
// instant. While playing, the time elapsed since the anchor timestamp is
// added (never negative, saturating); the result is clamped to the track
// duration when one is known.
func positionAt(st status, now time.Time) int64 {
	pos := st.PositionMs
	if st.State == StatePlaying && !st.positionStamp.IsZero() {
		if elapsed := now.Sub(st.positionStamp).Milliseconds(); elapsed > 0 {
			pos += elapsed
			if pos < 0 {
				// overflow; pin to the far end
				pos = math.MaxInt64
			}
		}
	}
	if st.Track.DurationMs > 0 && pos > st.Track.DurationMs {
		pos = st.Track.DurationMs
	}
	return pos
}
