// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package queue

import "time"

// RatedSweep is the countdown of the forced rated arena update. The sweep catches
// queues that received no join and would otherwise never widen their rating window.
// It is not safe for concurrent use; only the tick loop advances it.
type RatedSweep struct {
	interval            time.Duration
	maxRatingDifference uint32
	remaining           time.Duration
}

func NewRatedSweep(interval time.Duration, maxRatingDifference uint32) *RatedSweep {
	return &RatedSweep{
		interval:            interval,
		maxRatingDifference: maxRatingDifference,
		remaining:           interval,
	}
}

// Enabled requires both a rating difference and an interval.
func (r *RatedSweep) Enabled() bool {
	return r.maxRatingDifference != 0 && r.interval != 0
}

// Advance counts elapsed down and reports whether the sweep is due. It fires once the
// remaining time is strictly below elapsed and resets to the full interval without
// carrying the overshoot, so the effective period is the interval plus one tick.
func (r *RatedSweep) Advance(elapsed time.Duration) bool {
	if !r.Enabled() {
		return false
	}
	if r.remaining < elapsed {
		r.remaining = r.interval
		return true
	}
	r.remaining -= elapsed
	return false
}

// Remaining returns the time left before the next sweep.
func (r *RatedSweep) Remaining() time.Duration {
	return r.remaining
}
