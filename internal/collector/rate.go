package collector

import "time"

// counterRate computes a per-second rate from two readings of a cumulative
// counter. Returns nil when the counter moved backwards (wrap or reset) or
// the elapsed time is not positive: the rate is unknown, never negative.
func counterRate(prev, cur int64, elapsed time.Duration) *float64 {
	if elapsed <= 0 {
		return nil
	}
	delta := cur - prev
	if delta < 0 {
		return nil
	}
	rate := float64(delta) / elapsed.Seconds()
	return &rate
}

// networkRates derives aggregate rx/tx rates from two /proc/net/dev readings.
// Interfaces are summed individually so one resetting interface marks the
// whole aggregate unknown rather than producing a silently wrong total.
func networkRates(first, second *netReading, elapsed time.Duration) NetworkMetrics {
	var m NetworkMetrics

	rx := sumRates(first.rxBytes, second.rxBytes, elapsed)
	tx := sumRates(first.txBytes, second.txBytes, elapsed)

	m.RxBytesPerSec = rx
	m.TxBytesPerSec = tx
	return m
}

// sumRates sums per-interface counter rates. Interfaces present in only one
// reading are skipped (hotplug between readings); a negative delta on any
// shared interface makes the sum unknown.
func sumRates(prev, cur map[string]int64, elapsed time.Duration) *float64 {
	total := 0.0
	counted := 0

	for name, prevVal := range prev {
		curVal, ok := cur[name]
		if !ok {
			continue
		}
		rate := counterRate(prevVal, curVal, elapsed)
		if rate == nil {
			return nil
		}
		total += *rate
		counted++
	}

	if counted == 0 {
		return nil
	}
	return &total
}

// cpuPercent derives CPU usage from the jiffies delta between two readings.
// Falls back to the cumulative since-boot percentage when the delta is
// unusable (counter reset or no time passed between readings).
func cpuPercent(first, second *cpuReading) float64 {
	totalDelta := second.total - first.total
	idleDelta := second.idle - first.idle

	if totalDelta > 0 && idleDelta >= 0 && idleDelta <= totalDelta {
		return float64(totalDelta-idleDelta) / float64(totalDelta) * 100
	}

	return second.cumulativePercent()
}
