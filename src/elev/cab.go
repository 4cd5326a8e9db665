package elev

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tiendc/go-deepcopy"

	"elevsim/src/types"
)

func NewCab(id, numFloors int, timing types.Timing, clock Clock, coord Coordinator) *Cab {
	cab := &Cab{
		state: CabState{
			ID:                id,
			Behaviour:         types.Idle,
			DestinationCounts: make([]int, numFloors),
		},
		timing: timing,
		clock:  clock,
		coord:  coord,
		logger: slog.Default().With("cab", id),
	}
	cab.logger.Debug("Cab initialized", "floor", cab.state.Floor)
	return cab
}

// Run steps the cab once for every tick received on steps and acknowledges
// each with the cab id. It returns when steps is closed or ctx is done.
func (cab *Cab) Run(ctx context.Context, steps <-chan int64, acks chan<- int) error {
	for {
		select {
		case <-ctx.Done():
			cab.logger.Debug("Cab cancelled")
			return nil
		case tick, ok := <-steps:
			if !ok {
				return nil
			}
			if now := cab.clock.Now(); now != tick {
				return fmt.Errorf("cab %d: stepped for tick %d at tick %d", cab.state.ID, tick, now)
			}
			cab.Step()
			select {
			case acks <- cab.state.ID:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Step evaluates the state machine at the current tick until no transition
// applies.
func (cab *Cab) Step() {
	cab.mu.Lock()
	defer cab.mu.Unlock()

	now := cab.clock.Now()
	for cab.advance(now) {
		cab.checkInvariants()
	}
	cab.checkInvariants()
}

// Due reports whether the cab has anything to do at tick now: idle cabs look
// for a floor every tick, busy cabs only on their next event's tick.
func (cab *Cab) Due(now int64) bool {
	cab.mu.Lock()
	defer cab.mu.Unlock()
	if len(cab.state.MoveQueue) == 0 {
		return true
	}
	return cab.state.MoveQueue[0].ArrivalTick == now
}

// Stats returns a deep copy of the cab state.
func (cab *Cab) Stats() CabState {
	cab.mu.Lock()
	defer cab.mu.Unlock()
	var stats CabState
	if err := deepcopy.Copy(&stats, &cab.state); err != nil {
		panic(err)
	}
	return stats
}

func (cab *Cab) ID() int {
	return cab.state.ID
}

func (cab *Cab) advance(now int64) bool {
	switch cab.state.Behaviour {
	case types.Idle:
		return cab.requestPickup(now)
	case types.EnRoutePickup:
		if cab.state.MoveQueue[0].ArrivalTick != now {
			return false
		}
		cab.loadPassengers(now)
		return true
	case types.Loaded:
		if cab.state.MoveQueue[0].ArrivalTick != now {
			return false
		}
		cab.unloadPassengers()
		return true
	}
	panic(fmt.Sprintf("cab %d: unknown behaviour %v", cab.state.ID, cab.state.Behaviour))
}

// requestPickup asks the dispatcher for a floor and heads there.
func (cab *Cab) requestPickup(now int64) bool {
	claim, ok := cab.coord.Claim(cab.state.ID)
	if !ok {
		return false
	}
	cab.claim = claim
	floor := claim.Floor()
	distance := int64(types.Abs(floor - cab.state.Floor))
	cab.enqueue(types.MoveEvent{
		Destination: floor,
		ArrivalTick: now + distance*cab.timing.Traversal + cab.timing.Load,
	})
	cab.state.Behaviour = types.EnRoutePickup
	cab.clock.Logf("Elevator %d is heading to Floor %d to pick up passengers.", cab.state.ID, floor)
	return true
}

// loadPassengers runs on arrival at the claimed floor. Passengers going up
// are served first; only if there are none are those going down taken.
func (cab *Cab) loadPassengers(now int64) {
	ev := cab.pop()
	cab.state.Floor = ev.Destination
	claim := cab.claim
	cab.claim = nil
	if claim == nil || claim.Floor() != cab.state.Floor {
		panic(fmt.Sprintf("cab %d: arrived for pickup at floor %d without its claim", cab.state.ID, cab.state.Floor))
	}
	cab.clock.Logf("Elevator %d has arrived at Floor %d and has loaded passengers.", cab.state.ID, cab.state.Floor)

	pending := claim.PendingRequests()
	for floor := cab.state.Floor + 1; floor < len(pending); floor++ {
		if pending[floor] > 0 {
			cab.createDropoff(now, floor, claim.TakePassengers(floor))
		}
	}
	if len(cab.state.MoveQueue) == 0 {
		for floor := cab.state.Floor - 1; floor >= 0; floor-- {
			if pending[floor] > 0 {
				cab.createDropoff(now, floor, claim.TakePassengers(floor))
			}
		}
	}
	claim.Release()

	if len(cab.state.MoveQueue) == 0 {
		cab.logger.Debug("Pickup floor already drained", "floor", cab.state.Floor)
		cab.state.Behaviour = types.Idle
		return
	}
	cab.state.Behaviour = types.Loaded
}

// createDropoff boards passengers for floor and schedules the stop. Each
// stop already queued delays it by one more load time.
func (cab *Cab) createDropoff(now int64, floor, passengers int) {
	if passengers == 0 {
		return
	}
	cab.clock.Logf("There are %d passengers in Elevator %d requesting to go to Floor %d.", passengers, cab.state.ID, floor)
	cab.state.DestinationCounts[floor] = passengers
	cab.state.Carried += passengers
	cab.state.TotalLoaded += passengers

	distance := int64(types.Abs(floor - cab.state.Floor))
	queued := int64(len(cab.state.MoveQueue))
	cab.enqueue(types.MoveEvent{
		Destination: floor,
		ArrivalTick: now + distance*cab.timing.Traversal + cab.timing.Load + cab.timing.Load*queued,
	})
}

func (cab *Cab) unloadPassengers() {
	ev := cab.pop()
	cab.state.Floor = ev.Destination
	leaving := cab.state.DestinationCounts[cab.state.Floor]
	cab.state.TotalUnloaded += leaving
	cab.state.Carried -= leaving
	cab.coord.UpdateArrivedPassengers(cab.state.Floor, cab.state.ID, leaving)
	cab.clock.Logf("Elevator %d has arrived at Floor %d and has unloaded %d passengers.", cab.state.ID, cab.state.Floor, leaving)
	cab.state.DestinationCounts[cab.state.Floor] = 0

	if len(cab.state.MoveQueue) == 0 {
		cab.state.Behaviour = types.Idle
	}
}

func (cab *Cab) enqueue(ev types.MoveEvent) {
	cab.state.MoveQueue = append(cab.state.MoveQueue, ev)
	cab.logger.Debug("Event queued", "event", ev, "queue", len(cab.state.MoveQueue))
}

func (cab *Cab) pop() types.MoveEvent {
	ev := cab.state.MoveQueue[0]
	cab.state.MoveQueue = cab.state.MoveQueue[1:]
	return ev
}

// checkInvariants panics on any state that only a synchronization defect
// could produce.
func (cab *Cab) checkInvariants() {
	s := &cab.state
	total := 0
	for floor, n := range s.DestinationCounts {
		if n < 0 {
			panic(fmt.Sprintf("cab %d: %d passengers bound for floor %d", s.ID, n, floor))
		}
		total += n
	}
	if total != s.Carried {
		panic(fmt.Sprintf("cab %d: carrying %d but destinations sum to %d", s.ID, s.Carried, total))
	}

	var ok bool
	switch s.Behaviour {
	case types.Idle:
		ok = len(s.MoveQueue) == 0 && s.Carried == 0 && cab.claim == nil
	case types.EnRoutePickup:
		ok = len(s.MoveQueue) == 1 && s.Carried == 0 && cab.claim != nil
	case types.Loaded:
		ok = len(s.MoveQueue) > 0 && s.Carried > 0 && cab.claim == nil
	}
	if !ok {
		panic(fmt.Sprintf("cab %d: inconsistent %v state: carried=%d queue=%v", s.ID, s.Behaviour, s.Carried, s.MoveQueue))
	}
}
