package timeseries

import "bridge-tvl/internal/domain"

// Range is a single provider call window.
type Range struct {
	Start domain.UnixTime
	End   domain.UnixTime
}

// CallRanges splits [from, to] into contiguous sub-ranges of at most maxSpan
// seconds each. Sub-ranges share boundary timestamps with their neighbors;
// the final end is clamped to to. Used for hourly-granularity queries, where
// the provider bounds the span of a single call.
func CallRanges(from, to domain.UnixTime, maxSpan int64) []Range {
	var ranges []Range
	for start := from; start < to; start = start.Add(maxSpan) {
		end := start.Add(maxSpan)
		if end > to {
			end = to
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges
}
