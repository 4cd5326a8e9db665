// Package dispatcher owns the building's floors and coordinates which cab
// serves which floor. It is the only state shared between cabs.
package dispatcher

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"elevsim/src/types"
	"elevsim/src/utils"
)

type Coordinator struct {
	floors       []*floorState
	numElevators int
	journal      Journal

	// claimMu covers the whole scan-and-claim of RequestFloorAccess.
	claimMu sync.Mutex
}

func New(numFloors, numElevators int, journal Journal) *Coordinator {
	c := &Coordinator{
		floors:       make([]*floorState, numFloors),
		numElevators: numElevators,
		journal:      journal,
	}
	for i := range c.floors {
		c.floors[i] = newFloorState(numFloors, numElevators)
	}
	return c
}

func (c *Coordinator) NumFloors() int    { return len(c.floors) }
func (c *Coordinator) NumElevators() int { return c.numElevators }

// SpawnPassengers adds count passengers waiting on floor for destination.
func (c *Coordinator) SpawnPassengers(floor, destination, count int) {
	c.checkFloor(floor)
	c.checkFloor(destination)
	if count <= 0 {
		panic(fmt.Sprintf("dispatcher: spawn of %d passengers on floor %d", count, floor))
	}
	if floor == destination {
		panic(fmt.Sprintf("dispatcher: spawn on floor %d with itself as destination", floor))
	}

	f := c.floors[floor]
	f.mu.Lock()
	f.state.PendingRequests[destination] += count
	f.state.DestinationRequestTotals[destination] += count
	f.mu.Unlock()

	c.journal.Logf("There are %d passengers on Floor %d requesting to go to Floor %d.", count, floor, destination)
}

// RequestFloorAccess claims the lowest floor that has waiting passengers and
// no approaching elevator. It returns types.NoFloor if there is none.
func (c *Coordinator) RequestFloorAccess(elevatorID int) int {
	c.checkElevator(elevatorID)

	c.claimMu.Lock()
	defer c.claimMu.Unlock()

	for floor, f := range c.floors {
		f.mu.Lock()
		if f.state.Waiting() != 0 && f.state.ApproachingElevator == types.NoElevator {
			f.state.ApproachingElevator = elevatorID
			f.mu.Unlock()
			slog.Debug("Floor claimed", "floor", floor, "elevator", elevatorID)
			return floor
		}
		f.mu.Unlock()
	}
	return types.NoFloor
}

// Claim is RequestFloorAccess returning a handle that is the only way to
// collect the claimed floor's passengers.
func (c *Coordinator) Claim(elevatorID int) (*FloorClaim, bool) {
	floor := c.RequestFloorAccess(elevatorID)
	if floor == types.NoFloor {
		return nil, false
	}
	return &FloorClaim{coord: c, floor: floor, elevatorID: elevatorID}, true
}

// ClearApproachingElevator releases the claim on floor. The caller must be
// the elevator holding it; this is not checked here.
func (c *Coordinator) ClearApproachingElevator(floor int) {
	c.checkFloor(floor)
	f := c.floors[floor]
	f.mu.Lock()
	f.state.ApproachingElevator = types.NoElevator
	f.mu.Unlock()
}

// releaseIfHeld clears the claim on floor if elevatorID holds it, in one
// critical section. It returns the holder it found.
func (c *Coordinator) releaseIfHeld(floor, elevatorID int) (int, bool) {
	c.checkFloor(floor)
	f := c.floors[floor]
	f.mu.Lock()
	defer f.mu.Unlock()
	holder := f.state.ApproachingElevator
	if holder != elevatorID {
		return holder, false
	}
	f.state.ApproachingElevator = types.NoElevator
	return holder, true
}

// ClearPassengerRequests zeroes the waiting count on floor for destination.
func (c *Coordinator) ClearPassengerRequests(floor, destination int) {
	c.takePassengerRequests(floor, destination)
}

// takePassengerRequests zeroes a pending count and returns what it held, in
// one critical section so a concurrent spawn is either taken or kept whole.
func (c *Coordinator) takePassengerRequests(floor, destination int) int {
	c.checkFloor(floor)
	c.checkFloor(destination)
	f := c.floors[floor]
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.state.PendingRequests[destination]
	if n < 0 {
		panic(fmt.Sprintf("dispatcher: negative pending count %d on floor %d for %d", n, floor, destination))
	}
	f.state.PendingRequests[destination] = 0
	return n
}

// UpdateArrivedPassengers credits elevatorID with count passengers dropped off on floor.
func (c *Coordinator) UpdateArrivedPassengers(floor, elevatorID, count int) {
	c.checkFloor(floor)
	c.checkElevator(elevatorID)
	if count < 0 {
		panic(fmt.Sprintf("dispatcher: elevator %d dropped off %d passengers on floor %d", elevatorID, count, floor))
	}
	f := c.floors[floor]
	f.mu.Lock()
	f.state.ArrivedPassengers[elevatorID] += count
	f.mu.Unlock()
}

func (c *Coordinator) PendingRequests(floor int) []int {
	return c.read(floor, func(s *FloorSnapshot) []int { return slices.Clone(s.PendingRequests) })
}

func (c *Coordinator) DestinationRequestTotals(floor int) []int {
	return c.read(floor, func(s *FloorSnapshot) []int { return slices.Clone(s.DestinationRequestTotals) })
}

func (c *Coordinator) ArrivedPassengers(floor int) []int {
	return c.read(floor, func(s *FloorSnapshot) []int { return slices.Clone(s.ArrivedPassengers) })
}

func (c *Coordinator) ApproachingElevator(floor int) int {
	c.checkFloor(floor)
	f := c.floors[floor]
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.ApproachingElevator
}

// Snapshot deep-copies every floor. Each floor is copied under its own lock,
// so the result is consistent per floor, not across floors.
func (c *Coordinator) Snapshot() []FloorSnapshot {
	snaps := make([]FloorSnapshot, len(c.floors))
	for i, f := range c.floors {
		f.mu.Lock()
		err := deepcopy.Copy(&snaps[i], &f.state)
		f.mu.Unlock()
		if err != nil {
			panic(err)
		}
	}
	return snaps
}

// Totals sums the counters of every floor: passengers ever requested,
// passengers still waiting and passengers dropped off.
func (c *Coordinator) Totals() (requested, waiting, arrived int) {
	var totals, pending, drops [][]int
	for _, floor := range c.Snapshot() {
		totals = append(totals, floor.DestinationRequestTotals)
		pending = append(pending, floor.PendingRequests)
		drops = append(drops, floor.ArrivedPassengers)
	}
	utils.ForEachCount(totals, func(_, _, n int) { requested += n })
	utils.ForEachCount(pending, func(_, _, n int) { waiting += n })
	utils.ForEachCount(drops, func(_, _, n int) { arrived += n })
	return requested, waiting, arrived
}

func (c *Coordinator) read(floor int, get func(*FloorSnapshot) []int) []int {
	c.checkFloor(floor)
	f := c.floors[floor]
	f.mu.Lock()
	defer f.mu.Unlock()
	return get(&f.state)
}

func (c *Coordinator) checkFloor(floor int) {
	if floor < 0 || floor >= len(c.floors) {
		panic(fmt.Sprintf("dispatcher: floor %d out of range [0,%d)", floor, len(c.floors)))
	}
}

func (c *Coordinator) checkElevator(id int) {
	if id < 0 || id >= c.numElevators {
		panic(fmt.Sprintf("dispatcher: elevator %d out of range [0,%d)", id, c.numElevators))
	}
}
