package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/prestontjones/GravitySim/config"
	"github.com/prestontjones/GravitySim/core"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	debugFlag  = flag.Bool("debug", false, "Write a debug log")
	recordDir  = flag.String("record", "", "Record frames and collisions to this directory")
	noAudio    = flag.Bool("no-audio", false, "Disable collision sounds")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *noAudio {
		cfg.Audio.Enabled = false
	}

	if logFile := setupLoggingIn(cfg.Logging.Dir, *debugFlag || cfg.Logging.Debug); logFile != nil {
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	core.SetCrashCleanup(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	app, err := NewApp(screen, cfg, *recordDir)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	app.Run()

	app.Close()
	screen.Fini()
}
