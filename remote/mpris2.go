// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"errors"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/nowbar/nowbar/logger"
	"github.com/nowbar/nowbar/player"
)

// MprisPlayer exposes the tracker's status over D-Bus as a read-only MPRIS2
// media player. Desktop widgets and playerctl can read what is playing; the
// control methods are exported because the interface requires them, but this
// is a monitor, so they do nothing.
type MprisPlayer struct {
	dbus    *dbus.Conn
	source  StatusSource
	logger  logger.LoggerInterface
	props   *prop.Properties
	lastURI string
}

func RegisterMprisPlayer(name string, source StatusSource, logger_ logger.LoggerInterface) (mpp *MprisPlayer, err error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return
	}

	mpp = &MprisPlayer{
		dbus:   conn,
		source: source,
		logger: logger_,
	}

	err = conn.ExportAll(mpp, "/org/mpris/MediaPlayer2", "org.mpris.MediaPlayer2.Player")
	if err != nil {
		return
	}

	snap := source.Snapshot()

	var mprisPlayer = map[string]*prop.Prop{
		"CanControl":     {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoNext":      {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoPrevious":  {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPause":       {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPlay":        {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanSeek":        {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Metadata":       {Value: metadataFor(snap), Writable: false, Emit: prop.EmitTrue, Callback: nil},
		"Position":       {Value: snap.PositionMs * 1000, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Volume":         {Value: volumeFor(snap), Writable: false, Emit: prop.EmitTrue, Callback: nil},
		"Shuffle":        {Value: snap.Shuffle, Writable: false, Emit: prop.EmitTrue, Callback: nil},
		"LoopStatus":     {Value: loopStatusFor(snap), Writable: false, Emit: prop.EmitTrue, Callback: nil},
		"PlaybackStatus": {Value: playbackStatusFor(snap), Writable: false, Emit: prop.EmitTrue, Callback: nil},
	}

	var mediaPlayer = map[string]*prop.Prop{
		"CanQuit":             {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Identity":            {Value: name, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedUriSchemes": {Value: "", Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedMimeTypes":  {Value: "", Writable: false, Emit: prop.EmitFalse, Callback: nil},
	}

	props, err := prop.Export(
		conn,
		"/org/mpris/MediaPlayer2",
		map[string]map[string]*prop.Prop{
			"org.mpris.MediaPlayer2":        mediaPlayer,
			"org.mpris.MediaPlayer2.Player": mprisPlayer,
		},
	)
	if err != nil {
		return
	}
	mpp.props = props

	n := &introspect.Node{
		Name: "/org/mpris/MediaPlayer2",
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       "org.mpris.MediaPlayer2.Player",
				Methods:    introspect.Methods(mpp),
				Properties: props.Introspection("org.mpris.MediaPlayer2.Player"),
			},
		},
	}
	err = conn.Export(introspect.NewIntrospectable(n), "/org/mpris/MediaPlayer2", "org.freedesktop.DBus.Introspectable")
	if err != nil {
		return
	}

	busName := "org.mpris.MediaPlayer2." + name
	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		err = errors.New("name already owned")
		return
	}
	return
}

func (m *MprisPlayer) Close() {
	if err := m.dbus.Close(); err != nil {
		m.logger.PrintError("mpp Close", err)
	}
}

// Update publishes the current snapshot. Called periodically by the owner;
// a track identity change additionally announces the new metadata.
func (m *MprisPlayer) Update() {
	snap := m.source.Snapshot()

	iface := "org.mpris.MediaPlayer2.Player"
	m.props.SetMust(iface, "PlaybackStatus", playbackStatusFor(snap))
	m.props.SetMust(iface, "Position", snap.PositionMs*1000)
	m.props.SetMust(iface, "Volume", volumeFor(snap))
	m.props.SetMust(iface, "Shuffle", snap.Shuffle)
	m.props.SetMust(iface, "LoopStatus", loopStatusFor(snap))

	if snap.Track.URI != m.lastURI {
		m.lastURI = snap.Track.URI
		metadata := metadataFor(snap)
		m.props.SetMust(iface, "Metadata", metadata)

		err := m.dbus.Emit("/org/mpris/MediaPlayer2", "org.freedesktop.DBus.Properties.PropertiesChanged",
			iface, map[string]map[string]interface{}{
				"Metadata": metadata,
			}, []string{})
		if err != nil {
			m.logger.PrintError("mpris: Emit PropertiesChanged", err)
		}
	}
}

func metadataFor(snap player.Snapshot) map[string]interface{} {
	artists := []string{}
	if snap.Track.Artist != "" {
		artists = []string{snap.Track.Artist}
	}
	return map[string]interface{}{
		"mpris:trackid": snap.Track.ID,
		"mpris:length":  snap.DurationMs * 1000, // microseconds
		"mpris:artUrl":  snap.Track.ArtworkURL,
		"xesam:album":   snap.Track.Album,
		"xesam:artist":  artists,
		"xesam:title":   snap.Track.Title,
		"xesam:url":     snap.Track.URI,
	}
}

func playbackStatusFor(snap player.Snapshot) string {
	switch snap.State {
	case player.StatePlaying, player.StateLoading:
		// MPRIS has no loading state
		return "Playing"
	case player.StatePaused:
		return "Paused"
	}
	return "Stopped"
}

func loopStatusFor(snap player.Snapshot) string {
	if snap.RepeatTrack {
		return "Track"
	}
	if snap.RepeatContext {
		return "Playlist"
	}
	return "None"
}

func volumeFor(snap player.Snapshot) float64 {
	return float64(snap.Volume) / 65535.0
}

// Mandatory interface methods; nowbar only observes the session, so these
// log and do nothing.
func (m *MprisPlayer) Play()      { m.logger.Print("mpris: Play ignored (monitor)") }
func (m *MprisPlayer) Pause()     { m.logger.Print("mpris: Pause ignored (monitor)") }
func (m *MprisPlayer) PlayPause() { m.logger.Print("mpris: PlayPause ignored (monitor)") }
func (m *MprisPlayer) Stop()      { m.logger.Print("mpris: Stop ignored (monitor)") }
func (m *MprisPlayer) Next()      { m.logger.Print("mpris: Next ignored (monitor)") }
func (m *MprisPlayer) Previous()  { m.logger.Print("mpris: Previous ignored (monitor)") }

func (m *MprisPlayer) Seek(int64)                         {}
func (m *MprisPlayer) SetPosition(dbus.ObjectPath, int64) {}
func (m *MprisPlayer) OpenUri(string)                     {}
