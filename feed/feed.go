// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package feed turns a JSON-lines stream of transport events into
// player.Event values. The tracker itself has no wire format; this adapter
// exists so the nowbar binary (and its tests) can replay an ordered event
// stream from a pipe or file.
package feed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nowbar/nowbar/logger"
	"github.com/nowbar/nowbar/player"
)

// envelope covers every event variant; which fields matter depends on Event.
type envelope struct {
	Event         string    `json:"event"`
	TrackID       string    `json:"track_id"`
	URI           string    `json:"uri"`
	PositionMs    int64     `json:"position_ms"`
	Volume        uint16    `json:"volume"`
	Shuffle       bool      `json:"shuffle"`
	RepeatContext bool      `json:"repeat_context"`
	RepeatTrack   bool      `json:"repeat_track"`
	Item          *itemJSON `json:"item"`
}

type itemJSON struct {
	TrackID    string   `json:"track_id"`
	URI        string   `json:"uri"`
	Name       string   `json:"name"`
	DurationMs int64    `json:"duration_ms"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	Show       string   `json:"show"`
	Covers     []string `json:"covers"`
}

func (e envelope) trackRef() player.TrackRef {
	return player.TrackRef{TrackID: e.TrackID, URI: e.URI}
}

func decode(line []byte) (player.Event, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, err
	}

	switch env.Event {
	case "connected":
		return player.Connected{}, nil
	case "disconnected":
		return player.Disconnected{}, nil
	case "track_changed":
		if env.Item == nil {
			return nil, fmt.Errorf("track_changed without item")
		}
		return player.TrackChanged{Item: player.MediaItem{
			TrackID:    env.Item.TrackID,
			URI:        env.Item.URI,
			Name:       env.Item.Name,
			DurationMs: env.Item.DurationMs,
			Artists:    env.Item.Artists,
			Album:      env.Item.Album,
			Show:       env.Item.Show,
			Covers:     env.Item.Covers,
		}}, nil
	case "loading":
		return player.Loading{Track: env.trackRef(), PositionMs: env.PositionMs}, nil
	case "playing":
		return player.Playing{Track: env.trackRef(), PositionMs: env.PositionMs}, nil
	case "position_correction":
		return player.PositionCorrection{Track: env.trackRef(), PositionMs: env.PositionMs}, nil
	case "paused":
		return player.Paused{Track: env.trackRef(), PositionMs: env.PositionMs}, nil
	case "seeked":
		return player.Seeked{Track: env.trackRef(), PositionMs: env.PositionMs}, nil
	case "stopped":
		return player.Stopped{Track: env.trackRef()}, nil
	case "volume_changed":
		return player.VolumeChanged{Volume: env.Volume}, nil
	case "shuffle_changed":
		return player.ShuffleChanged{Shuffle: env.Shuffle}, nil
	case "repeat_changed":
		return player.RepeatChanged{Context: env.RepeatContext, Track: env.RepeatTrack}, nil
	case "preloading":
		return player.Preloading{Track: env.trackRef()}, nil
	case "end_of_track":
		return player.EndOfTrack{Track: env.trackRef()}, nil
	case "unavailable":
		return player.Unavailable{Track: env.trackRef()}, nil
	}
	return nil, fmt.Errorf("unknown event %q", env.Event)
}

// Stream decodes events from r in order and delivers them on the returned
// channel, which is closed at EOF. Undecodable lines are logged and skipped
// so one bad line cannot kill the stream.
func Stream(r io.Reader, log logger.LoggerInterface) <-chan player.Event {
	events := make(chan player.Event, 16)

	go func() {
		defer close(events)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			ev, err := decode(line)
			if err != nil {
				log.PrintError("feed", err)
				continue
			}
			events <- ev
		}
		if err := scanner.Err(); err != nil {
			log.PrintError("feed read", err)
		}
	}()

	return events
}
