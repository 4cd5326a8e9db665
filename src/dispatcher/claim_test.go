package dispatcher

import (
	"sync"
	"testing"

	"elevsim/src/types"
)

func TestClaimTakeAndRelease(t *testing.T) {
	c := New(5, 2, &journal{})
	c.SpawnPassengers(0, 3, 3)

	claim, ok := c.Claim(1)
	if !ok {
		t.Fatal("no claim with passengers waiting")
	}
	if claim.Floor() != 0 || claim.ElevatorID() != 1 {
		t.Fatalf("claim = floor %d elevator %d", claim.Floor(), claim.ElevatorID())
	}
	if _, ok := c.Claim(0); ok {
		t.Fatal("second elevator claimed an already claimed floor")
	}

	if got := claim.PendingRequests()[3]; got != 3 {
		t.Errorf("pending through claim = %d, want 3", got)
	}
	if got := claim.TakePassengers(3); got != 3 {
		t.Errorf("TakePassengers = %d, want 3", got)
	}
	if got := claim.TakePassengers(3); got != 0 {
		t.Errorf("second TakePassengers = %d, want 0", got)
	}
	claim.Release()
	if got := c.ApproachingElevator(0); got != types.NoElevator {
		t.Errorf("floor still approached by %d after release", got)
	}
}

func TestReleasedClaimIsRevoked(t *testing.T) {
	c := New(3, 1, &journal{})
	c.SpawnPassengers(1, 0, 1)
	claim, _ := c.Claim(0)
	claim.Release()

	expectPanic(t, "PendingRequests", func() { claim.PendingRequests() })
	expectPanic(t, "TakePassengers", func() { claim.TakePassengers(0) })
	expectPanic(t, "Release", func() { claim.Release() })
}

func TestReleaseByNonHolderPanics(t *testing.T) {
	c := New(3, 2, &journal{})
	c.SpawnPassengers(1, 0, 1)
	claim, _ := c.Claim(0)

	c.ClearApproachingElevator(1)
	c.RequestFloorAccess(1)
	expectPanic(t, "stolen floor", func() { claim.Release() })
}

// Spawns racing with a cab that is emptying the floor are either taken or
// left pending, never lost.
func TestTakeRacingSpawnLosesNothing(t *testing.T) {
	const spawns = 200
	c := New(2, 1, &journal{})
	c.SpawnPassengers(0, 1, 1)
	claim, _ := c.Claim(0)

	taken := 0
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range spawns {
			c.SpawnPassengers(0, 1, 1)
		}
	}()
	for range spawns {
		taken += claim.TakePassengers(1)
	}
	wg.Wait()
	taken += claim.TakePassengers(1)
	claim.Release()

	if taken != spawns+1 {
		t.Errorf("took %d passengers, want %d", taken, spawns+1)
	}
	if got := c.DestinationRequestTotals(0)[1]; got != spawns+1 {
		t.Errorf("totals = %d, want %d", got, spawns+1)
	}
}

func TestReleaseIfHeld(t *testing.T) {
	c := New(3, 2, &journal{})
	c.SpawnPassengers(1, 0, 1)
	c.RequestFloorAccess(1)

	if holder, ok := c.releaseIfHeld(1, 0); ok || holder != 1 {
		t.Fatalf("non-holder release = %d, %v, want 1, false", holder, ok)
	}
	if got := c.ApproachingElevator(1); got != 1 {
		t.Fatalf("failed release changed the holder to %d", got)
	}
	if _, ok := c.releaseIfHeld(1, 1); !ok {
		t.Fatal("holder could not release")
	}
	if got := c.ApproachingElevator(1); got != types.NoElevator {
		t.Errorf("floor still held by %d", got)
	}
	if holder, ok := c.releaseIfHeld(1, 1); ok || holder != types.NoElevator {
		t.Errorf("second release = %d, %v, want none, false", holder, ok)
	}
}

// Racing releases of the same floor: only the holder's succeeds.
func TestConcurrentReleaseHasOneWinner(t *testing.T) {
	for round := range 50 {
		c := New(2, 4, &journal{})
		c.SpawnPassengers(0, 1, 1)
		c.RequestFloorAccess(2)

		var wg sync.WaitGroup
		results := make([]bool, 4)
		for id := range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, results[id] = c.releaseIfHeld(0, id)
			}()
		}
		wg.Wait()
		for id, ok := range results {
			if ok != (id == 2) {
				t.Fatalf("round %d: elevator %d release = %v", round, id, ok)
			}
		}
	}
}
