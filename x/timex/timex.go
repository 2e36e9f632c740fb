package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}

// Elapsed returns now-since, computed with unsigned modular subtraction so a
// free-running millisecond counter that wraps past 2^32 never produces a
// negative or absurdly large duration (§5).
func Elapsed(now, since uint32) uint32 { return now - since }

// Since reports whether at least d has elapsed since `since`, as of `now`.
func Since(now, since uint32, d uint32) bool { return Elapsed(now, since) >= d }
