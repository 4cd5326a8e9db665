package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/eiannone/keyboard"

	"elevsim/src/config"
	"elevsim/src/elev"
	"elevsim/src/report"
	"elevsim/src/simulator"
)

func main() {
	os.Exit(run())
}

// run returns the exit code, so deferred cleanup happens before os.Exit.
func run() int {
	configPath := flag.String("config", "", "YAML or legacy text config file")
	envFile := flag.String("env", ".env", "dotenv file with ELEVSIM_* overrides")
	logFile := flag.String("log", "", "also write diagnostics to this file")
	keys := flag.Bool("keys", false, "press q to abort the run")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return 1
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	closer, err := elev.InitLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		slog.Error("Failed to init logger", "error", err)
		return 1
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *keys {
		ctx = watchKeys(ctx)
	}

	sim, err := simulator.New(cfg, os.Stdout)
	if err != nil {
		slog.Error("Invalid config", "error", err)
		return 1
	}
	runErr := sim.Run(ctx)

	summary := report.Take(cfg.RunID, sim.Clock().Now(), sim.Coordinator(), sim.Cabs())
	if err := summary.Write(os.Stdout); err != nil {
		slog.Error("Failed to write report", "error", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("Simulation failed", "error", runErr)
		return 1
	}
	return 0
}

// loadConfig reads path (defaults if empty), applies env overrides and
// names the run if nothing else did.
func loadConfig(path, envFile string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	cfg, err := config.ApplyEnv(cfg, envFile)
	if err != nil {
		return cfg, err
	}
	if cfg.RunID == "" {
		cfg.RunID = config.NewRunID()
	}
	return cfg, cfg.Validate()
}

// watchKeys cancels the returned context when q or Ctrl+C is pressed.
func watchKeys(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		for ctx.Err() == nil {
			char, key, err := keyboard.GetSingleKey()
			if err != nil {
				slog.Warn("Keyboard unavailable, abort with Ctrl+C instead", "error", err)
				return
			}
			if char == 'q' || char == 'Q' || key == keyboard.KeyCtrlC {
				slog.Info("Abort requested from keyboard")
				cancel()
				return
			}
		}
	}()
	return ctx
}
