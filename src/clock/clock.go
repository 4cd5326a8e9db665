// Package clock provides the shared simulation clock and its ordered trace journal.
package clock

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// SimClock is the discrete tick counter shared by the driver and all cabs.
// Only the driver calls Tick; Now and Log are safe from any goroutine.
type SimClock struct {
	now atomic.Int64

	mu    sync.Mutex // serializes journal lines
	lines uint64
	trace zerolog.Logger
	json  bool
}

// New returns a clock at tick 0 writing its journal to w, one JSON object
// per line if json is set and plain numbered lines otherwise.
func New(w io.Writer, json bool, runID string) *SimClock {
	return &SimClock{
		trace: newTraceLogger(w, json, runID),
		json:  json,
	}
}

func newTraceLogger(w io.Writer, json bool, runID string) zerolog.Logger {
	if json {
		return zerolog.New(w).With().Str("run", runID).Logger()
	}
	out := zerolog.ConsoleWriter{
		Out:           w,
		NoColor:       true,
		PartsOrder:    []string{zerolog.MessageFieldName},
		FieldsExclude: []string{"run", "seq", "tick"},
	}
	return zerolog.New(out).With().Str("run", runID).Logger()
}

func (c *SimClock) Tick() {
	c.now.Add(1)
}

func (c *SimClock) Now() int64 {
	return c.now.Load()
}

// Log writes one numbered journal line stamped with the current tick.
func (c *SimClock) Log(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines++
	tick := c.now.Load()
	if !c.json {
		msg = fmt.Sprintf("[%d] Time %d: %s", c.lines, tick, msg)
	}
	c.trace.Log().
		Uint64("seq", c.lines).
		Int64("tick", tick).
		Msg(msg)
}

func (c *SimClock) Logf(format string, args ...any) {
	c.Log(fmt.Sprintf(format, args...))
}

// Lines returns how many journal lines have been written.
func (c *SimClock) Lines() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lines
}
