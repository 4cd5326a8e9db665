package timer

import (
	"context"
	"time"
)

// Pacer spaces simulation ticks out in real time.
type Pacer struct {
	period time.Duration
	timer  *time.Timer
}

func NewPacer(period time.Duration) *Pacer {
	p := &Pacer{period: period}
	if period > 0 {
		p.timer = time.NewTimer(period)
		p.timer.Stop()
	}
	return p
}

// Wait blocks for one tick period. It returns false if ctx ends first.
func (p *Pacer) Wait(ctx context.Context) bool {
	if p.timer == nil {
		return ctx.Err() == nil
	}
	resetTimer(p.timer, p.period)
	select {
	case <-ctx.Done():
		p.timer.Stop()
		return false
	case <-p.timer.C:
		return true
	}
}

// Stops the timer and resets it.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
