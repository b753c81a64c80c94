package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/sirupsen/logrus"
)

// The following program runs the locomotion controller against a small box world, either from a
// scripted scenario or interactively in the terminal.
func main() {
	settingsPath := flag.String("settings", "locomotion.toml", "settings file, created with defaults if missing")
	scenarioPath := flag.String("scenario", "", "scenario file to run")
	play := flag.Bool("play", false, "play interactively in the terminal")
	async := flag.Bool("async", false, "cast probes in the background while playing")
	stats := flag.Bool("stats", false, "serve runtime statistics on localhost:8080")
	recordPath := flag.String("record", "", "write emitted frames to this file as JSON lines")
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}

	if _, err := os.Stat(*settingsPath); errors.Is(err, os.ErrNotExist) {
		if err := settings.SaveDefault(*settingsPath); err != nil {
			log.Fatalf("error creating settings: %v", err)
		}
	}
	s, err := settings.Load(*settingsPath)
	if err != nil {
		log.Fatalf("error loading settings: %v", err)
	}
	lvl, _ := s.LogLevel()
	log.Level = lvl

	if s.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         s.Sentry.DSN,
			Environment: s.Sentry.Environment,
		}); err != nil {
			log.Fatalf("sentry.Init: %v", err)
		}
		defer sentry.Flush(time.Second * 2)
		defer sentry.Recover()
	}

	if *stats || os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	sc := playground()
	if *scenarioPath != "" {
		if sc, err = loadScenario(*scenarioPath); err != nil {
			log.Fatalf("error loading scenario: %v", err)
		}
	}

	if *play {
		runPlay(log, s, sc, *settingsPath, *async)
		return
	}

	rec, err := newRecorder(*recordPath)
	if err != nil {
		log.Fatalf("error creating recorder: %v", err)
	}
	defer rec.Close()
	if _, err := runScenario(log, s, sc, rec, reportPanic(log, sc.Name)); err != nil {
		log.Errorf("error running scenario: %v", err)
	}
}

func runPlay(log *logrus.Logger, s settings.Settings, sc scenario, settingsPath string, async bool) {
	w, err := settings.NewWatcher(settingsPath)
	if err != nil {
		log.Fatalf("error watching settings: %v", err)
	}
	defer w.Close()

	// The terminal belongs to the session while it runs.
	log.SetOutput(io.Discard)
	screen, err := tcell.NewScreen()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("error opening terminal: %v", err)
	}
	g, err := newSession(log, screen, s, sc, async, reportPanic(log, sc.Name))
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("error starting sandbox: %v", err)
	}
	defer g.cleanup()
	g.run(w.Reloads, w.Errors)
}

// reportPanic returns a function that reports a panic recovered from the controller to sentry.
func reportPanic(log *logrus.Logger, scenario string) func(v any) {
	return func(v any) {
		log.Errorf("controller panic: %v", v)
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("scenario", scenario)
		})

		hub.Recover(oerror.New("%v", v))
		hub.Flush(time.Second * 5)
	}
}
