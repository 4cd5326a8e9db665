// Package report prints the end-of-run building and elevator summary.
package report

import (
	"fmt"
	"io"

	"elevsim/src/dispatcher"
	"elevsim/src/elev"
	"elevsim/src/utils"
)

// Summary is a copy of the simulation state taken once the run is over.
type Summary struct {
	RunID  string
	Tick   int64
	Floors []dispatcher.FloorSnapshot
	Cabs   []elev.CabState
}

// Take copies the state of coord and cabs. The copies are deep, so the
// simulation may keep running while the summary is printed.
func Take(runID string, tick int64, coord *dispatcher.Coordinator, cabs []*elev.Cab) Summary {
	s := Summary{
		RunID:  runID,
		Tick:   tick,
		Floors: coord.Snapshot(),
		Cabs:   make([]elev.CabState, len(cabs)),
	}
	for i, cab := range cabs {
		s.Cabs[i] = cab.Stats()
	}
	return s
}

func (s Summary) Write(w io.Writer) error {
	p := &printer{w: w}
	p.linef("Run %s stopped at time %d", s.RunID, s.Tick)
	p.linef("---------------BUILDING STATE---------------")
	for i, floor := range s.Floors {
		p.linef("Floor %d", i)
		p.linef("Total Number of Passengers Requesting Elevator Access: %d", utils.Sum(floor.DestinationRequestTotals))
		p.linef("Total Number of Passengers that Exited On This Floor: %d", utils.Sum(floor.ArrivedPassengers))
		p.linef("Current Number of Passengers Waiting for Elevator On This Floor: %d", floor.Waiting())
		p.linef("Elevator coming for passenger pickup: %d", floor.ApproachingElevator)
		p.linef("")
	}

	p.linef("---------------ELEVATOR STATE---------------")
	for _, cab := range s.Cabs {
		p.linef("Elevator #%d", cab.ID)
		p.linef("Total Number of Passengers that Entered Elevator: %d", cab.TotalLoaded)
		p.linef("Total Number of Passengers that Exited Elevator: %d", cab.TotalUnloaded)
		p.linef("Current Number of Passengers in Elevator: %d", cab.Carried)
		if len(cab.MoveQueue) > 0 {
			p.linef("Pending moves: %s", elev.FormatQueue(cab.MoveQueue))
		}
		p.linef("")
	}
	return p.err
}

// printer keeps the first write error so Write can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) linef(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}
