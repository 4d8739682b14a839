// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"strings"

	"github.com/nowbar/nowbar/player"
)

func secondsToMinAndSec(seconds int64) (int, int) {
	minutes := int(seconds / 60)
	remainingSeconds := int(seconds % 60)
	return minutes, remainingSeconds
}

func formatTrackLine(snap player.Snapshot) string {
	if snap.Track.Title == "" {
		if snap.Track.URI != "" {
			return snap.Track.URI
		}
		return "nothing playing"
	}
	if snap.Track.Artist == "" {
		return snap.Track.Title
	}
	return fmt.Sprintf("%s - %s", snap.Track.Artist, snap.Track.Title)
}

// formatStatusLine renders one plain-text status line for headless mode,
// e.g. "playing Tony Allen - Afro Disco Beat [02:35/04:10] vol:57% shuffle".
func formatStatusLine(snap player.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-7s %s", snap.State.String(), formatTrackLine(snap))

	posMin, posSec := secondsToMinAndSec(snap.PositionMs / 1000)
	durMin, durSec := secondsToMinAndSec(snap.DurationMs / 1000)
	fmt.Fprintf(&b, " [%02d:%02d/%02d:%02d]", posMin, posSec, durMin, durSec)

	fmt.Fprintf(&b, " vol:%d%%", volumePercent(snap.Volume))

	if snap.Shuffle {
		b.WriteString(" shuffle")
	}
	if snap.RepeatTrack {
		b.WriteString(" repeat-track")
	} else if snap.RepeatContext {
		b.WriteString(" repeat")
	}
	if !snap.Connected {
		b.WriteString(" (disconnected)")
	}

	return b.String()
}

func volumePercent(volume uint16) int {
	return int((int64(volume)*100 + 65535/2) / 65535)
}
