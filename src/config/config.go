package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	NumFloors      = 5
	NumElevators   = 5
	TraversalTicks = 5
	LoadTicks      = 10
	Horizon        = 100
	TickDuration   = 100 * time.Millisecond
	RunIDLength    = 8
)

const (
	TraceConsole = "console"
	TraceJSON    = "json"
)

// Arrival is one recurring passenger batch spawned on a floor.
type Arrival struct {
	Count       int `yaml:"count"`
	Destination int `yaml:"destination"`
	Period      int `yaml:"period"`
}

// Config holds every setting of a simulation run.
type Config struct {
	RunID          string        `yaml:"run_id"`
	NumFloors      int           `yaml:"floors"`
	NumElevators   int           `yaml:"elevators"`
	TraversalTicks int           `yaml:"traversal_ticks"`
	LoadTicks      int           `yaml:"load_ticks"`
	Horizon        int64         `yaml:"horizon"`
	TickDuration   time.Duration `yaml:"tick"`
	LogLevel       string        `yaml:"log_level"`
	TraceFormat    string        `yaml:"trace_format"`
	LogFile        string        `yaml:"log_file"`
	// Arrivals is indexed by origin floor.
	Arrivals [][]Arrival `yaml:"arrivals"`
}

// Default returns a config with the stock building and no arrivals.
func Default() Config {
	return Config{
		NumFloors:      NumFloors,
		NumElevators:   NumElevators,
		TraversalTicks: TraversalTicks,
		LoadTicks:      LoadTicks,
		Horizon:        Horizon,
		TickDuration:   TickDuration,
		LogLevel:       "info",
		TraceFormat:    TraceConsole,
	}
}

var ErrInvalid = errors.New("invalid config")

func (cfg Config) Validate() error {
	switch {
	case cfg.NumFloors < 2:
		return fmt.Errorf("%w: need at least 2 floors, got %d", ErrInvalid, cfg.NumFloors)
	case cfg.NumElevators < 1:
		return fmt.Errorf("%w: need at least 1 elevator, got %d", ErrInvalid, cfg.NumElevators)
	case cfg.TraversalTicks < 1:
		return fmt.Errorf("%w: traversal ticks must be positive, got %d", ErrInvalid, cfg.TraversalTicks)
	case cfg.LoadTicks < 0:
		return fmt.Errorf("%w: load ticks must not be negative, got %d", ErrInvalid, cfg.LoadTicks)
	case cfg.Horizon < 0:
		return fmt.Errorf("%w: horizon must not be negative, got %d", ErrInvalid, cfg.Horizon)
	case cfg.TickDuration < 0:
		return fmt.Errorf("%w: tick duration must not be negative, got %s", ErrInvalid, cfg.TickDuration)
	case cfg.TraceFormat != TraceConsole && cfg.TraceFormat != TraceJSON:
		return fmt.Errorf("%w: unknown trace format %q", ErrInvalid, cfg.TraceFormat)
	case len(cfg.Arrivals) > cfg.NumFloors:
		return fmt.Errorf("%w: arrivals given for %d floors, building has %d", ErrInvalid, len(cfg.Arrivals), cfg.NumFloors)
	}
	for floor, arrivals := range cfg.Arrivals {
		for _, a := range arrivals {
			switch {
			case a.Count < 1:
				return fmt.Errorf("%w: floor %d: batch size must be positive, got %d", ErrInvalid, floor, a.Count)
			case a.Period < 1:
				return fmt.Errorf("%w: floor %d: period must be positive, got %d", ErrInvalid, floor, a.Period)
			case a.Destination < 0 || a.Destination >= cfg.NumFloors:
				return fmt.Errorf("%w: floor %d: destination %d out of range", ErrInvalid, floor, a.Destination)
			case a.Destination == floor:
				return fmt.Errorf("%w: floor %d: destination equals origin", ErrInvalid, floor)
			}
		}
	}
	return nil
}
