package types

import "fmt"

const (
	NoFloor    = -1
	NoElevator = -1
)

// MoveEvent is a scheduled cab arrival. It is consumed exactly once, on the
// tick equal to ArrivalTick.
type MoveEvent struct {
	Destination int
	ArrivalTick int64
}

func (ev MoveEvent) String() string {
	return fmt.Sprintf("Floor %d @ %d", ev.Destination, ev.ArrivalTick)
}

type CabBehaviour int

const (
	Idle CabBehaviour = iota
	EnRoutePickup
	Loaded
)

func (b CabBehaviour) String() string {
	switch b {
	case Idle:
		return "Idle"
	case EnRoutePickup:
		return "EnRoutePickup"
	case Loaded:
		return "Loaded"
	}
	return fmt.Sprintf("CabBehaviour(%d)", int(b))
}

// Timing holds the tick costs used to schedule MoveEvents.
type Timing struct {
	Traversal int64 // per floor travelled
	Load      int64 // per stop, loading or unloading
}

// Abs is used for floor distances.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
