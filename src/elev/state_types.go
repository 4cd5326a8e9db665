// State types are defined in elev package to make method receivers possible in cab.go.
package elev

import (
	"log/slog"
	"sync"

	"elevsim/src/dispatcher"
	"elevsim/src/types"
)

// CabState is everything a cab knows about itself.
type CabState struct {
	ID        int
	Floor     int
	Behaviour types.CabBehaviour
	Carried   int
	// DestinationCounts holds how many carried passengers leave at each floor.
	DestinationCounts []int
	MoveQueue         []types.MoveEvent
	TotalLoaded       int
	TotalUnloaded     int
}

// Clock is the part of the simulation clock a cab reads and logs through.
type Clock interface {
	Now() int64
	Logf(format string, args ...any)
}

// Coordinator is the part of the dispatcher a cab talks to.
type Coordinator interface {
	Claim(elevatorID int) (*dispatcher.FloorClaim, bool)
	UpdateArrivedPassengers(floor, elevatorID, count int)
}

// Cab is one elevator. Step is called by the cab's own goroutine; the mutex
// only lets Stats and Due read it from elsewhere.
type Cab struct {
	mu     sync.Mutex
	state  CabState
	claim  *dispatcher.FloorClaim
	timing types.Timing
	clock  Clock
	coord  Coordinator
	logger *slog.Logger
}
