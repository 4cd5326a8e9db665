package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvHorizon     = "ELEVSIM_HORIZON"
	EnvTick        = "ELEVSIM_TICK"
	EnvFloors      = "ELEVSIM_FLOORS"
	EnvElevators   = "ELEVSIM_ELEVATORS"
	EnvLogLevel    = "ELEVSIM_LOG_LEVEL"
	EnvTraceFormat = "ELEVSIM_TRACE_FORMAT"
	EnvRunID       = "ELEVSIM_RUN_ID"
)

// ApplyEnv overrides cfg from envFile (if it exists) and then from the
// process environment, which wins over the file.
func ApplyEnv(cfg Config, envFile string) (Config, error) {
	values := map[string]string{}
	if envFile != "" {
		fileValues, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("read %s: %w", envFile, err)
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}
	for _, key := range []string{EnvHorizon, EnvTick, EnvFloors, EnvElevators, EnvLogLevel, EnvTraceFormat, EnvRunID} {
		if v, ok := os.LookupEnv(key); ok {
			values[key] = v
		}
	}
	return applyValues(cfg, values)
}

func applyValues(cfg Config, values map[string]string) (Config, error) {
	atoi := func(key string, dst *int) error {
		v, ok := values[key]
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	if err := atoi(EnvFloors, &cfg.NumFloors); err != nil {
		return cfg, err
	}
	if err := atoi(EnvElevators, &cfg.NumElevators); err != nil {
		return cfg, err
	}
	if v, ok := values[EnvHorizon]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvHorizon, err)
		}
		cfg.Horizon = n
	}
	if v, ok := values[EnvTick]; ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvTick, err)
		}
		cfg.TickDuration = d
	}
	if v, ok := values[EnvLogLevel]; ok {
		cfg.LogLevel = v
	}
	if v, ok := values[EnvTraceFormat]; ok {
		cfg.TraceFormat = v
	}
	if v, ok := values[EnvRunID]; ok {
		cfg.RunID = v
	}
	return cfg, nil
}
