package dispatcher

import (
	"sync"

	"elevsim/src/types"
	"elevsim/src/utils"
)

// Journal receives the coordinator's console messages.
type Journal interface {
	Logf(format string, args ...any)
}

// FloorSnapshot is a copy of one floor's counters.
type FloorSnapshot struct {
	// PendingRequests holds waiting passengers by destination floor.
	PendingRequests []int
	// DestinationRequestTotals never decreases.
	DestinationRequestTotals []int
	// ArrivedPassengers is indexed by the elevator that dropped them off.
	ArrivedPassengers   []int
	ApproachingElevator int
}

func (s FloorSnapshot) Waiting() int {
	return utils.Sum(s.PendingRequests)
}

// floorState is a single floor's counters behind its own lock.
type floorState struct {
	mu    sync.Mutex
	state FloorSnapshot
}

func newFloorState(numFloors, numElevators int) *floorState {
	return &floorState{
		state: FloorSnapshot{
			PendingRequests:          make([]int, numFloors),
			DestinationRequestTotals: make([]int, numFloors),
			ArrivedPassengers:        make([]int, numElevators),
			ApproachingElevator:      types.NoElevator,
		},
	}
}
