package httpclient

import (
	"math/rand"
	"time"
)

// Default retry pacing. The upstream rate limiter answers 429 well before
// a one second pause is harmful, and four seconds is as long as a batch run
// should ever stall on a single call.
const (
	DefaultRetryWaitMin = 1 * time.Second
	DefaultRetryWaitMax = 4 * time.Second
)

// retriableStatuses are the transient status codes worth another attempt.
var retriableStatuses = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// RetryPolicy decides, per attempt, whether and how long to wait before
// retrying. It is a plain value so the policy can be unit tested without a
// network or a live client.
type RetryPolicy struct {
	Total   int
	WaitMin time.Duration
	WaitMax time.Duration
}

// NewRetryPolicy builds a policy with the given attempt budget and default pacing.
func NewRetryPolicy(total int) RetryPolicy {
	return RetryPolicy{
		Total:   total,
		WaitMin: DefaultRetryWaitMin,
		WaitMax: DefaultRetryWaitMax,
	}
}

// Retriable reports whether the status code is a transient condition.
func Retriable(status int) bool { return retriableStatuses[status] }

// Next returns the delay before retry number attempt (1-based) and whether a
// retry is allowed at all. The delay doubles per attempt, capped at WaitMax,
// with up to 25% random jitter to keep workers from retrying in lockstep.
func (p RetryPolicy) Next(attempt int) (time.Duration, bool) {
	if attempt > p.Total {
		return 0, false
	}

	wait := p.WaitMin
	if wait <= 0 {
		wait = DefaultRetryWaitMin
	}
	max := p.WaitMax
	if max <= 0 {
		max = DefaultRetryWaitMax
	}

	for i := 1; i < attempt; i++ {
		wait *= 2
		if wait >= max {
			wait = max
			break
		}
	}

	jitter := time.Duration(rand.Int63n(int64(wait)/4 + 1))
	return wait + jitter, true
}
