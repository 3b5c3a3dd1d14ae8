package ergast

import (
	"math/rand"
	"time"
)

// RetryPolicy bounds how often a single rate-limited page request is
// re-attempted. The same policy applies to paginated and single-resource
// fetches; it is not duplicated per call site.
type RetryPolicy struct {
	MaxRetries int           // additional attempts after the first
	BaseDelay  time.Duration // doubles on each attempt
	MaxJitter  time.Duration // random extra delay on top of backoff
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		MaxJitter:  250 * time.Millisecond,
	}
}

// Delay returns the backoff before retry number attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay << (attempt - 1)
	if p.MaxJitter > 0 {
		d += time.Duration(rand.Int63n(int64(p.MaxJitter)))
	}
	return d
}
