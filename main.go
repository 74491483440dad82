package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/scene"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	debug := flag.Bool("debug", false, "Log every synthesis pass")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds of sim time (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Ocean seed; patch i gets seed+i (0 = use config)")
	preset := flag.String("preset", "", "Apply a named ocean preset from the config")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *seed != 0 {
		cfg.OverrideSeed(*seed)
	}
	if *preset != "" {
		if err := cfg.ApplyPreset(*preset); err != nil {
			slog.Error("failed to apply preset", "error", err, "available", cfg.PresetNames())
			os.Exit(1)
		}
	}

	synth, err := ocean.NewSynthesizerFromConfig(cfg, ocean.WithLogger(logger))
	if err != nil {
		slog.Error("failed to create synthesizer", "error", err)
		os.Exit(1)
	}

	opts := scene.Options{
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Logger:         logger,
	}

	if *headless {
		// Headless mode - pure CPU synthesis, no raylib needed
		s, err := scene.New(cfg, synth, opts)
		if err != nil {
			slog.Error("failed to create scene", "error", err)
			os.Exit(1)
		}
		defer s.Close()

		slog.Info("starting headless run",
			"grid_m", cfg.Derived.M,
			"grid_n", cfg.Derived.N,
			"patches", s.PatchCount(),
			"transform", cfg.Ocean.Transform,
			"max_frames", *maxFrames,
		)

		for {
			if err := s.Step(); err != nil {
				slog.Error("synthesis failed", "error", err, "frame", s.Frame())
				return
			}

			if *maxFrames > 0 && s.Frame() >= *maxFrames {
				slog.Info("max frames reached", "frame", s.Frame(), "sim_time", s.Time())
				if *snapshotDir != "" {
					if _, err := s.SaveSnapshots(); err != nil {
						slog.Error("failed to save snapshots", "error", err)
					}
				}
				return
			}
		}
	} else {
		// Graphical mode
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Swell")
		defer rl.CloseWindow()

		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		s, err := scene.New(cfg, synth, opts)
		if err != nil {
			slog.Error("failed to create scene", "error", err)
			return
		}
		defer s.Close()

		v := newViewer(s, *preset)
		for !rl.WindowShouldClose() {
			v.handleInput()
			if err := s.Step(); err != nil {
				slog.Error("synthesis failed", "error", err, "frame", s.Frame())
				break
			}
			v.draw()

			if *maxFrames > 0 && s.Frame() >= *maxFrames {
				break
			}
		}
	}
}
