package dispatch

import "time"

// Backoff computes the delay before the next retry of a failed delivery.
// The delay doubles with each failed attempt and is capped at Max.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

func NewBackoff(base, max time.Duration) Backoff {
	return Backoff{Base: base, Max: max}
}

// Delay returns Base * 2^(attempt-1), capped at Max. Attempt is the
// number of the delivery attempt that just failed, starting at 1.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := b.Base
	for i := 1; i < attempt; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}

	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}
