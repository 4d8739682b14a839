// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nowbar/nowbar/logger"
	"github.com/nowbar/nowbar/player"
	"github.com/nowbar/nowbar/remote"
)

// struct contains all the updatable elements of the Ui
type Ui struct {
	app *tview.Application

	// top bar
	nowPlaying   *tview.TextView
	playerStatus *tview.TextView

	// log view
	logList *tview.TextView

	tracker     *player.Tracker
	mprisPlayer *remote.MprisPlayer
	logger      *logger.Logger
}

func InitGui(tracker *player.Tracker, mprisPlayer *remote.MprisPlayer, logger *logger.Logger) (ui *Ui) {
	ui = &Ui{
		tracker:     tracker,
		mprisPlayer: mprisPlayer,
		logger:      logger,
	}

	ui.app = tview.NewApplication()

	// now-playing text at the top left
	statusLeft := fmt.Sprintf("[::b]%s[::-] v%s", Name, Version)
	ui.nowPlaying = tview.NewTextView().SetText(statusLeft).
		SetTextAlign(tview.AlignLeft).
		SetDynamicColors(true).
		SetScrollable(false)

	// position/volume at the top right
	ui.playerStatus = tview.NewTextView().
		SetTextAlign(tview.AlignRight).
		SetDynamicColors(true).
		SetScrollable(false)

	ui.logList = tview.NewTextView().
		SetScrollable(true)
	ui.logList.SetBorder(true).SetTitle(" log ")

	topRow := tview.NewFlex().
		AddItem(ui.nowPlaying, 0, 2, false).
		AddItem(ui.playerStatus, 0, 1, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 1, 0, false).
		AddItem(ui.logList, 0, 1, true)

	ui.app.SetRoot(layout, true)
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			ui.app.Stop()
			return nil
		}
		return event
	})

	go ui.guiEventLoop()
	return
}

func (ui *Ui) Run() error {
	return ui.app.Run()
}

// guiEventLoop refreshes the status widgets on a timer and appends log lines
// as they arrive. It outlives the feed so the last status stays visible until
// the user quits.
func (ui *Ui) guiEventLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case s := <-ui.logger.Prints:
			ui.app.QueueUpdateDraw(func() {
				fmt.Fprintln(ui.logList, s)
			})
		case <-ticker.C:
			if ui.mprisPlayer != nil {
				ui.mprisPlayer.Update()
			}
			ui.app.QueueUpdateDraw(ui.refreshStatus)
		}
	}
}

func (ui *Ui) refreshStatus() {
	snap := ui.tracker.Snapshot()

	link := ""
	if !snap.Connected {
		link = " [red]offline[-]"
	}
	ui.nowPlaying.SetText(fmt.Sprintf("[::b]%s[::-]%s %s", snap.State.String(), link,
		tview.Escape(formatTrackLine(snap))))
	ui.playerStatus.SetText(formatPlayerStatus(snap))
}

func formatPlayerStatus(snap player.Snapshot) string {
	posMin, posSec := secondsToMinAndSec(snap.PositionMs / 1000)
	durMin, durSec := secondsToMinAndSec(snap.DurationMs / 1000)

	flags := ""
	if snap.Shuffle {
		flags += "S"
	}
	if snap.RepeatContext {
		flags += "R"
	}
	if snap.RepeatTrack {
		flags += "r"
	}
	if flags != "" {
		flags = " [" + flags + "]"
	}

	return fmt.Sprintf("[::b][%02d:%02d/%02d:%02d][::-] vol:%d%%%s",
		posMin, posSec, durMin, durSec, volumePercent(snap.Volume), flags)
}
