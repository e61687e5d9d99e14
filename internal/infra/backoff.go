package infra

import (
	"time"
)

const (
	// Delays for re-dialing the trading endpoint between runs.
	baseDelay = 2 * time.Second
	maxDelay  = 30 * time.Second
)

// CalculateBackoff returns the exponential backoff duration for a given retry
// count: baseDelay * 2^retryCount, capped at maxDelay.
// A negative retryCount yields baseDelay.
func CalculateBackoff(retryCount int) time.Duration {
	if retryCount < 0 {
		return baseDelay
	}

	// 2^30 seconds is already far beyond maxDelay; cap early to avoid
	// shifting past the int64 range.
	if retryCount > 30 {
		return maxDelay
	}

	backoff := baseDelay * time.Duration(1<<retryCount)

	if backoff > maxDelay {
		return maxDelay
	}

	return backoff
}
