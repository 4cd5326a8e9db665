package dispatcher

import (
	"fmt"
	"slices"
)

// FloorClaim is held by the one cab approaching a floor. It grants access
// to that floor's waiting passengers until Release.
type FloorClaim struct {
	coord      *Coordinator
	floor      int
	elevatorID int
	released   bool
}

func (fc *FloorClaim) Floor() int      { return fc.floor }
func (fc *FloorClaim) ElevatorID() int { return fc.elevatorID }

// PendingRequests returns the waiting counts on the claimed floor by destination.
func (fc *FloorClaim) PendingRequests() []int {
	fc.mustHold()
	return fc.coord.read(fc.floor, func(s *FloorSnapshot) []int { return slices.Clone(s.PendingRequests) })
}

// TakePassengers removes and returns the passengers waiting for destination.
func (fc *FloorClaim) TakePassengers(destination int) int {
	fc.mustHold()
	return fc.coord.takePassengerRequests(fc.floor, destination)
}

// Release hands the floor back. A released claim can no longer be used.
func (fc *FloorClaim) Release() {
	fc.mustHold()
	if holder, ok := fc.coord.releaseIfHeld(fc.floor, fc.elevatorID); !ok {
		panic(fmt.Sprintf("dispatcher: elevator %d releasing floor %d held by %d", fc.elevatorID, fc.floor, holder))
	}
	fc.released = true
}

func (fc *FloorClaim) mustHold() {
	if fc.released {
		panic(fmt.Sprintf("dispatcher: elevator %d used released claim on floor %d", fc.elevatorID, fc.floor))
	}
}
