package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestApplyEnvFromFile(t *testing.T) {
	envFile := writeFile(t, ".env", "ELEVSIM_HORIZON=40\nELEVSIM_TICK=10ms\nELEVSIM_ELEVATORS=2\nELEVSIM_TRACE_FORMAT=json\n")
	cfg, err := ApplyEnv(Default(), envFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Horizon != 40 || cfg.TickDuration != 10*time.Millisecond || cfg.NumElevators != 2 || cfg.TraceFormat != TraceJSON {
		t.Errorf("got %+v", cfg)
	}
	if cfg.NumFloors != NumFloors {
		t.Errorf("floors changed to %d without an override", cfg.NumFloors)
	}
}

func TestApplyEnvProcessWins(t *testing.T) {
	envFile := writeFile(t, ".env", "ELEVSIM_FLOORS=8\nELEVSIM_RUN_ID=fromfile\n")
	t.Setenv(EnvFloors, "3")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := ApplyEnv(Default(), envFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumFloors != 3 {
		t.Errorf("floors = %d, want the process value 3", cfg.NumFloors)
	}
	if cfg.RunID != "fromfile" || cfg.LogLevel != "debug" {
		t.Errorf("run id %q level %q", cfg.RunID, cfg.LogLevel)
	}
}

func TestApplyEnvMissingFile(t *testing.T) {
	cfg, err := ApplyEnv(Default(), filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("missing env file: %v", err)
	}
	if cfg.Horizon != Horizon {
		t.Errorf("horizon = %d", cfg.Horizon)
	}
}

func TestApplyEnvBadValue(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvHorizon, "forever"},
		{EnvTick, "5"},
		{EnvElevators, "two"},
	}
	for _, tt := range tests {
		if _, err := applyValues(Default(), map[string]string{tt.key: tt.value}); err == nil {
			t.Errorf("%s=%q: expected error", tt.key, tt.value)
		}
	}
}
