// Copyright 2024 The Nowbar Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/viper"

	"github.com/nowbar/nowbar/feed"
	"github.com/nowbar/nowbar/logger"
	"github.com/nowbar/nowbar/player"
	"github.com/nowbar/nowbar/remote"
)

var osExit = os.Exit  // A variable to allow mocking os.Exit in tests
var headlessMode bool // This can be set to true during tests

const DEVELOPMENT = "development"

// Name is the client name, also used as the MPRIS identity default
var Name string = "nowbar"

// Version is the program version; usually set from BuildInfo
var Version string = DEVELOPMENT

func readConfig(configFile *string) error {
	if configFile != nil && *configFile != "" {
		// use custom config file
		viper.SetConfigFile(*configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("config file error: %s", err)
		}
		return nil
	}

	// lookup default dirs; running without a config file is fine
	viper.SetConfigName("nowbar")
	viper.SetConfigType("toml")
	viper.AddConfigPath("$HOME/.config/nowbar")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config file error: %s", err)
		}
	}
	return nil
}

// return codes:
// 0 - OK
// 1 - generic errors
// 2 - config errors
func main() {
	help := flag.Bool("help", false, "Print usage")
	enableMpris := flag.Bool("mpris", false, "Expose playback status over MPRIS2")
	headless := flag.Bool("headless", false, "Print status lines instead of running the TUI")
	configFile := flag.String("config", "", "use config `file`")
	version := flag.Bool("version", false, "print the nowbar version and exit")

	flag.Parse()
	if *help {
		fmt.Printf("USAGE: %s <args>\n", os.Args[0])
		fmt.Println("Reads a player event stream (stdin by default, see feed.path) and")
		fmt.Println("tracks what is currently playing.")
		flag.Usage()
		osExit(0)
		return
	}
	if Version == DEVELOPMENT {
		if bi, ok := debug.ReadBuildInfo(); ok {
			Version = bi.Main.Version
		}
	}
	if *version {
		fmt.Printf("%s %s\n", Name, Version)
		osExit(0)
		return
	}

	viper.SetDefault("device.name", Name)
	viper.SetDefault("feed.path", "-")

	if err := readConfig(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read configuration: %v\n", err)
		osExit(2)
		return
	}

	if *headless || viper.GetBool("ui.headless") {
		headlessMode = true
	}

	logger := logger.Init()

	// event source: stdin or a file/pipe named in the config
	var in io.Reader = os.Stdin
	if path := viper.GetString("feed.path"); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open event feed: %v\n", err)
			osExit(1)
			return
		}
		defer f.Close()
		in = f
	}

	events := feed.Stream(in, logger)
	tracker := player.NewTracker(events, player.SystemClock{}, logger)
	defer tracker.Close()

	var mprisPlayer *remote.MprisPlayer
	// MPRIS2 status export (linux only but fails gracefully on other systems)
	if *enableMpris || viper.GetBool("mpris.enabled") {
		var err error
		mprisPlayer, err = remote.RegisterMprisPlayer(viper.GetString("device.name"), tracker, logger)
		if err != nil {
			fmt.Printf("Unable to register MPRIS with DBUS: %s\n", err)
			fmt.Println("Try running without MPRIS")
			osExit(1)
			return
		}
		defer mprisPlayer.Close()
	}

	if headlessMode {
		runHeadless(tracker, mprisPlayer, logger)
		return
	}

	ui := InitGui(tracker, mprisPlayer, logger)
	if err := ui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running UI: %v\n", err)
		osExit(1)
	}
}

// runHeadless prints one status line per second until the feed ends.
func runHeadless(tracker *player.Tracker, mprisPlayer *remote.MprisPlayer, logger *logger.Logger) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-tracker.Done():
			fmt.Println(formatStatusLine(tracker.Snapshot()))
			return
		case s := <-logger.Prints:
			fmt.Fprintln(os.Stderr, s)
		case <-ticker.C:
			if mprisPlayer != nil {
				mprisPlayer.Update()
			}
			fmt.Println(formatStatusLine(tracker.Snapshot()))
		}
	}
}
