package usage

// Totals are the per-token counters after an increment. Counters are
// monotonically non-decreasing, created lazily on first use, and live for the
// process lifetime; there is no decay or periodic reset.
type Totals struct {
	Reads  int64
	Writes int64
	Bytes  int64
}
