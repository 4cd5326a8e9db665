// Package simulator drives the clock, the arrival schedule and the cabs.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"elevsim/src/clock"
	"elevsim/src/config"
	"elevsim/src/dispatcher"
	"elevsim/src/elev"
	"elevsim/src/schedule"
	"elevsim/src/timer"
	"elevsim/src/types"
)

type Simulator struct {
	cfg      config.Config
	clock    *clock.SimClock
	coord    *dispatcher.Coordinator
	cabs     []*elev.Cab
	schedule *schedule.Schedule
	pacer    *timer.Pacer
	spawned  int
}

// New builds a simulation from cfg, writing the tick journal to journal.
func New(cfg config.Config, journal io.Writer) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clk := clock.New(journal, cfg.TraceFormat == config.TraceJSON, cfg.RunID)
	coord := dispatcher.New(cfg.NumFloors, cfg.NumElevators, clk)
	timing := types.Timing{Traversal: int64(cfg.TraversalTicks), Load: int64(cfg.LoadTicks)}

	sim := &Simulator{
		cfg:      cfg,
		clock:    clk,
		coord:    coord,
		cabs:     make([]*elev.Cab, cfg.NumElevators),
		schedule: schedule.New(cfg.Arrivals),
		pacer:    timer.NewPacer(cfg.TickDuration),
	}
	for id := range sim.cabs {
		sim.cabs[id] = elev.NewCab(id, cfg.NumFloors, timing, clk, coord)
	}
	return sim, nil
}

func (sim *Simulator) Clock() *clock.SimClock               { return sim.clock }
func (sim *Simulator) Coordinator() *dispatcher.Coordinator { return sim.coord }
func (sim *Simulator) Cabs() []*elev.Cab                    { return sim.cabs }

// Spawned returns how many passengers the schedule has produced.
func (sim *Simulator) Spawned() int { return sim.spawned }

// Run simulates ticks 0 through the horizon, then stops every cab and waits
// for them. A cancelled ctx ends the run early with ctx's error.
func (sim *Simulator) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	steps := make([]chan int64, len(sim.cabs))
	acks := make(chan int, len(sim.cabs))
	for i, cab := range sim.cabs {
		steps[i] = make(chan int64)
		g.Go(func() error {
			return cab.Run(gctx, steps[i], acks)
		})
	}

	slog.Info("Simulation started", "run", sim.cfg.RunID, "horizon", sim.cfg.Horizon,
		"floors", sim.cfg.NumFloors, "elevators", sim.cfg.NumElevators)
	driveErr := sim.drive(gctx, steps, acks)

	for _, ch := range steps {
		close(ch)
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("cab: %w", err)
	}
	if driveErr != nil {
		if errors.Is(driveErr, context.Canceled) {
			slog.Warn("Simulation aborted", "tick", sim.clock.Now())
		}
		return driveErr
	}
	requested, waiting, arrived := sim.coord.Totals()
	slog.Info("Simulation finished", "tick", sim.clock.Now(), "spawned", sim.spawned,
		"requested", requested, "waiting", waiting, "delivered", arrived, "lines", sim.clock.Lines())
	return nil
}

// drive is the per-tick loop: spawn due batches, step every due cab and wait
// for all of them, then let real time pass and tick.
func (sim *Simulator) drive(ctx context.Context, steps []chan int64, acks <-chan int) error {
	for now := sim.clock.Now(); now <= sim.cfg.Horizon; now = sim.clock.Now() {
		sim.spawned += sim.schedule.Fire(now, sim.coord)

		dispatched := 0
		for i, cab := range sim.cabs {
			if !cab.Due(now) {
				continue
			}
			select {
			case steps[i] <- now:
				dispatched++
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		for ; dispatched > 0; dispatched-- {
			select {
			case <-acks:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if !sim.pacer.Wait(ctx) {
			return ctx.Err()
		}
		sim.clock.Tick()
	}
	return nil
}
