package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xyproto/randomstring"
	"gopkg.in/yaml.v3"
)

// Load reads a simulation config. YAML files are decoded over the defaults,
// anything else is read as the legacy ElevatorConfig.txt layout.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = decodeYAML(file)
	default:
		cfg, err = decodeLegacy(file)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// NewRunID returns a fresh identifier for a run whose config names none.
func NewRunID() string {
	return randomstring.EnglishFrequencyString(RunIDLength)
}

func decodeYAML(r io.Reader) (Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

// decodeLegacy parses
//
//	<horizon ticks>
//	<milliseconds per tick>
//	<count dest period>;<count dest period>   (one line per floor)
func decodeLegacy(r io.Reader) (Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNo := 0

	readInt := func(what string) (int, error) {
		if !scanner.Scan() {
			return 0, fmt.Errorf("missing %s line", what)
		}
		lineNo++
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return 0, fmt.Errorf("line %d: %s: %w", lineNo, what, err)
		}
		return n, nil
	}

	horizon, err := readInt("horizon")
	if err != nil {
		return Config{}, err
	}
	millis, err := readInt("tick rate")
	if err != nil {
		return Config{}, err
	}
	cfg.Horizon = int64(horizon)
	cfg.TickDuration = time.Duration(millis) * time.Millisecond

	// Blank lines between floors are floors without arrivals; blank lines
	// after the last floor are not floors.
	floors := 0
	for scanner.Scan() {
		lineNo++
		arrivals, err := parseArrivalLine(scanner.Text())
		if err != nil {
			return Config{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		cfg.Arrivals = append(cfg.Arrivals, arrivals)
		if strings.TrimSpace(scanner.Text()) != "" {
			floors = len(cfg.Arrivals)
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("read legacy config: %w", err)
	}
	cfg.Arrivals = cfg.Arrivals[:floors]
	if floors == 0 {
		cfg.Arrivals = nil
	}
	return cfg, nil
}

func parseArrivalLine(line string) ([]Arrival, error) {
	var arrivals []Arrival
	for _, group := range strings.Split(line, ";") {
		fields := strings.Fields(group)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("arrival %q: want \"count destination period\"", strings.TrimSpace(group))
		}
		var nums [3]int
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("arrival %q: %w", strings.TrimSpace(group), err)
			}
			nums[i] = n
		}
		arrivals = append(arrivals, Arrival{Count: nums[0], Destination: nums[1], Period: nums[2]})
	}
	return arrivals, nil
}
