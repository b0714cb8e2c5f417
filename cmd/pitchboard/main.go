package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/igniteclubhq/pitchboard/internal/clock"
	"github.com/igniteclubhq/pitchboard/internal/config"
	"github.com/igniteclubhq/pitchboard/internal/dispatcher"
	"github.com/igniteclubhq/pitchboard/internal/influx"
	"github.com/igniteclubhq/pitchboard/internal/logging"
	"github.com/igniteclubhq/pitchboard/internal/match"
	"github.com/igniteclubhq/pitchboard/internal/model"
	"github.com/igniteclubhq/pitchboard/internal/monitor"
	"github.com/igniteclubhq/pitchboard/internal/notify"
	"github.com/igniteclubhq/pitchboard/internal/pitch"
	"github.com/igniteclubhq/pitchboard/internal/plan"
	"github.com/igniteclubhq/pitchboard/internal/storage"
)

var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

func main() {
	var (
		configDir   = flag.String("config", ".", "directory containing pitchboard.cfg.json")
		rosterPath  = flag.String("roster", "", "roster JSON file")
		doGenerate  = flag.Bool("generate", false, "generate a plan and print the forecast")
		doMonitor   = flag.Bool("monitor", false, "run the live monitor against a local match timer")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("pitchboard %s (built %s)\n", Version, BuildDate)
		return
	}

	if err := config.Load(*configDir); err != nil {
		// Missing config file is fine; defaults cover a local run.
		config.SetDefaults()
	}

	matchCtx := match.NewContext()
	logManager := logging.NewSlogManager()
	logManager.SetPhaseProvider(matchCtx.Attrs)
	var logWriter io.Writer
	if f, err := openLogFile(config.GetString("logsDir")); err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
	} else {
		logWriter = f
		defer f.Close()
	}
	var extras []slog.Handler
	if gl, err := config.GetGraylog(); err == nil && gl.Enabled {
		if h, err := logging.NewGelfHandler(gl.Address, config.GetString("logLevel")); err == nil {
			extras = append(extras, h)
		}
	}
	logManager.Setup(logWriter, config.GetString("logLevel"), extras...)
	logger := logManager.Logger()

	if !*doGenerate && !*doMonitor {
		flag.Usage()
		os.Exit(2)
	}

	players, err := loadRoster(*rosterPath)
	if err != nil {
		logger.Error("Failed to load roster", "error", err)
		os.Exit(1)
	}

	matchCfg, err := config.GetMatch()
	if err != nil {
		logger.Error("Bad match config", "error", err)
		os.Exit(1)
	}

	// Rosters without explicit placements get a default formation.
	if model.CountOnField(players) == 0 {
		if err := pitch.PlaceFormation(players, matchCfg.TeamSize); err != nil {
			logger.Error("Failed to place starting formation", "error", err)
			os.Exit(1)
		}
	}

	if *doGenerate {
		runGenerate(players, matchCfg)
		return
	}
	if err := runMonitor(logger, matchCtx, players, matchCfg); err != nil {
		logger.Error("Monitor run failed", "error", err)
		os.Exit(1)
	}
}

func openLogFile(logsDir string) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, err
	}
	return os.Create(logging.LogFilePath(logsDir, time.Now()))
}

func loadRoster(path string) ([]model.Player, error) {
	if path == "" {
		return nil, fmt.Errorf("no roster file given, use -roster")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	players, err := model.ParseRoster(data)
	if err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	return players, nil
}

func runGenerate(players []model.Player, matchCfg config.MatchConfig) {
	events := plan.Generate(players, plan.GenerateOptions{
		TeamSize:             matchCfg.TeamSize,
		HalfDurationSeconds:  matchCfg.MinutesPerHalf * 60,
		RotationSpeed:        plan.RotationSpeed(matchCfg.RotationSpeed),
		DisablePositionSwaps: matchCfg.DisablePositionSwaps,
		DisableBatchSubs:     matchCfg.DisableBatchSubs,
	})

	if len(events) == 0 {
		fmt.Println("Nothing to schedule: no bench players or invalid match parameters.")
		return
	}

	fmt.Printf("Plan (%d events):\n", len(events))
	for i, e := range events {
		line := fmt.Sprintf("  %2d. H%d %2d:%02d  %s -> off, %s -> on",
			i+1, e.Half, e.Time/60, e.Time%60, e.PlayerOutID, e.PlayerInID)
		if e.PositionSwap != nil {
			line += fmt.Sprintf("  (%s moves %s -> %s)",
				e.PositionSwap.PlayerID, e.PositionSwap.FromPosition, e.PositionSwap.ToPosition)
		}
		fmt.Println(line)
	}

	fmt.Println("\nForecast:")
	for _, f := range plan.Forecast(players, events, matchCfg.MinutesPerHalf) {
		start := "bench"
		if f.StartsOnPitch {
			start = "starts"
		}
		fmt.Printf("  %-20s %5.1f min  %3d%%  (%s)\n", f.Name, f.PredictedMinutes, f.PercentOfGame, start)
	}
}

func runMonitor(logger *slog.Logger, matchCtx *match.Context, players []model.Player, matchCfg config.MatchConfig) error {
	storageCfg, err := config.GetStorage()
	if err != nil {
		return err
	}
	zlog := logging.NewZerolog(config.GetString("logLevel"))
	store, err := storage.NewBackend(storageCfg, zlog)
	if err != nil {
		return err
	}
	if err := store.Init(); err != nil {
		return err
	}
	defer store.Close()

	var telemetry monitor.Telemetry
	if influxCfg, err := config.GetInflux(); err == nil && influxCfg.Enabled {
		mgr := influx.NewManager(zlog)
		if err := mgr.Connect(); err == nil {
			telemetry = mgr
			defer mgr.Close()
		}
	}

	events := plan.Generate(players, plan.GenerateOptions{
		TeamSize:             matchCfg.TeamSize,
		HalfDurationSeconds:  matchCfg.MinutesPerHalf * 60,
		RotationSpeed:        plan.RotationSpeed(matchCfg.RotationSpeed),
		DisablePositionSwaps: matchCfg.DisablePositionSwaps,
		DisableBatchSubs:     matchCfg.DisableBatchSubs,
	})
	if err := store.WritePitchState(&model.PitchState{
		Players:    players,
		Plan:       events,
		PlanActive: true,
	}); err != nil {
		return err
	}

	timer := clock.NewTimer(matchCfg.MinutesPerHalf)
	matchCtx.SetClock(timer)
	notifier := notify.NewSlogNotifier(logger)

	monitorCfg, err := config.GetMonitor()
	if err != nil {
		return err
	}
	svc, err := monitor.NewService(monitor.Dependencies{
		Store:          store,
		Clock:          timer,
		Notifier:       notifier,
		Logger:         logger,
		Telemetry:      telemetry,
		PollInterval:   time.Duration(monitorCfg.PollIntervalSeconds) * time.Second,
		SnoozeDuration: time.Duration(monitorCfg.SnoozeSeconds) * time.Second,
	})
	if err != nil {
		return err
	}
	timer.AddListener(svc.Poke)

	d, err := dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return err
	}
	registerActions(d, svc, store, timer, matchCfg)

	if err := svc.Start(); err != nil {
		return err
	}
	defer svc.Stop()
	timer.Start()

	fmt.Println("Match running. Commands: accept, skip, snooze, pause, resume, regen, half2, status, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return nil
		}
		if line == "status" {
			printStatus(svc, timer)
			continue
		}
		name, args := parseCommand(line)
		if !d.HasHandler(name) {
			fmt.Printf("unknown command %q\n", line)
			continue
		}
		if _, err := d.Dispatch(dispatcher.Action{Name: name, Args: args, Timestamp: time.Now()}); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
	return scanner.Err()
}

func parseCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "accept":
		return dispatcher.ActionAccept, fields[1:]
	case "skip":
		return dispatcher.ActionSkip, fields[1:]
	case "snooze":
		return dispatcher.ActionSnooze, fields[1:]
	case "pause":
		return dispatcher.ActionPause, nil
	case "resume":
		return dispatcher.ActionResume, nil
	case "regen":
		return dispatcher.ActionRegenerate, nil
	case "half2":
		return "clock:half2", nil
	default:
		return fields[0], fields[1:]
	}
}

func registerActions(d *dispatcher.Dispatcher, svc *monitor.Service, store storage.Backend, timer *clock.Timer, matchCfg config.MatchConfig) {
	pendingIndex := func() (int, error) {
		p := svc.Poll()
		if p == nil || !p.Due {
			return 0, fmt.Errorf("no substitution due")
		}
		return p.Index, nil
	}

	d.Register(dispatcher.ActionAccept, func(a dispatcher.Action) (any, error) {
		idx, err := pendingIndex()
		if err != nil {
			return nil, err
		}
		return nil, svc.Accept(idx)
	}, dispatcher.Logged())

	d.Register(dispatcher.ActionSkip, func(a dispatcher.Action) (any, error) {
		idx, err := pendingIndex()
		if err != nil {
			return nil, err
		}
		return nil, svc.Skip(idx)
	}, dispatcher.Logged())

	d.Register(dispatcher.ActionSnooze, func(a dispatcher.Action) (any, error) {
		var dur time.Duration
		if len(a.Args) > 0 {
			secs, err := strconv.Atoi(a.Args[0])
			if err != nil {
				return nil, fmt.Errorf("bad snooze seconds %q", a.Args[0])
			}
			dur = time.Duration(secs) * time.Second
		}
		svc.Snooze(dur)
		return nil, nil
	})

	d.Register(dispatcher.ActionRegenerate, func(a dispatcher.Action) (any, error) {
		state, err := store.ReadPitchState()
		if err != nil || state == nil {
			return nil, fmt.Errorf("no pitch state")
		}
		var kept []model.SubstitutionEvent
		for _, e := range state.Plan {
			if e.Executed {
				kept = append(kept, e)
			}
		}
		fresh := plan.Generate(state.Players, plan.GenerateOptions{
			TeamSize:             matchCfg.TeamSize,
			HalfDurationSeconds:  matchCfg.MinutesPerHalf * 60,
			RotationSpeed:        plan.RotationSpeed(matchCfg.RotationSpeed),
			DisablePositionSwaps: matchCfg.DisablePositionSwaps,
			DisableBatchSubs:     matchCfg.DisableBatchSubs,
		})
		state.Plan = append(kept, fresh...)
		model.SortPlan(state.Plan)
		if err := store.WritePitchState(state); err != nil {
			return nil, err
		}
		return len(state.Plan), nil
	}, dispatcher.Logged())

	d.Register(dispatcher.ActionPause, func(a dispatcher.Action) (any, error) {
		return nil, setPlanPaused(store, true)
	})
	d.Register(dispatcher.ActionResume, func(a dispatcher.Action) (any, error) {
		return nil, setPlanPaused(store, false)
	})
	d.Register("clock:half2", func(a dispatcher.Action) (any, error) {
		timer.StartSecondHalf()
		timer.Start()
		return nil, nil
	})
}

func setPlanPaused(store storage.Backend, paused bool) error {
	state, err := store.ReadPitchState()
	if err != nil || state == nil {
		return fmt.Errorf("no pitch state")
	}
	state.PlanPaused = paused
	return store.WritePitchState(state)
}

func printStatus(svc *monitor.Service, timer *clock.Timer) {
	snap, _ := timer.ReadClock()
	if snap != nil {
		total := snap.TotalSeconds(time.Now())
		fmt.Printf("H%d %02d:%02d", snap.CurrentHalf, (total%snap.HalfDurationSeconds())/60, total%60)
	}
	if p := svc.Poll(); p != nil {
		if p.Due {
			fmt.Printf("  DUE: %s off, %s on\n", p.Event.PlayerOutID, p.Event.PlayerInID)
		} else {
			fmt.Printf("  next in %ds: %s off, %s on\n", p.CountdownSeconds, p.Event.PlayerOutID, p.Event.PlayerInID)
		}
	} else {
		fmt.Println("  nothing pending")
	}
}
