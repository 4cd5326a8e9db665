// Package schedule decides when passenger batches appear on each floor.
package schedule

import "elevsim/src/config"

// Batch is a group of passengers due to appear now.
type Batch struct {
	Floor       int
	Destination int
	Count       int
}

type entry struct {
	arrival config.Arrival
	next    int64
}

// Schedule fires each arrival first at tick == Period and then every Period
// ticks. It is used by the driver goroutine only.
type Schedule struct {
	floors [][]entry
}

func New(arrivals [][]config.Arrival) *Schedule {
	s := &Schedule{floors: make([][]entry, len(arrivals))}
	for floor, list := range arrivals {
		for _, a := range list {
			s.floors[floor] = append(s.floors[floor], entry{arrival: a, next: int64(a.Period)})
		}
	}
	return s
}

// Due returns the batches firing at tick now, floor by floor in config
// order, and moves each of them to its next period.
func (s *Schedule) Due(now int64) []Batch {
	var batches []Batch
	for floor := range s.floors {
		for i := range s.floors[floor] {
			e := &s.floors[floor][i]
			if e.next != now {
				continue
			}
			batches = append(batches, Batch{Floor: floor, Destination: e.arrival.Destination, Count: e.arrival.Count})
			e.next += int64(e.arrival.Period)
		}
	}
	return batches
}

// Spawner is what batches are delivered to.
type Spawner interface {
	SpawnPassengers(floor, destination, count int)
}

// Fire delivers the batches due at now and returns how many passengers spawned.
func (s *Schedule) Fire(now int64, spawner Spawner) int {
	spawned := 0
	for _, b := range s.Due(now) {
		spawner.SpawnPassengers(b.Floor, b.Destination, b.Count)
		spawned += b.Count
	}
	return spawned
}
