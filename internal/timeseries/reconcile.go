package timeseries

import (
	"sort"

	"bridge-tvl/internal/domain"
)

// PickPrices assigns the nearest source price to every target timestamp.
// Targets must be ascending (grid output satisfies this); points may be
// unsorted, duplicated, or sparse and are not modified. The sort is stable,
// and the cursor steps through equal-distance points, so for duplicated
// timestamps the later-supplied point wins.
//
// The sweep keeps a monotone cursor into the sorted points and advances it
// while the next point is at least as close to the target, which breaks
// exact-equidistance ties toward the later point. The cursor never moves
// backward, so consecutive targets may resolve to the same point: values are
// manufactured for every grid point across any gap, before the first point
// and past the last one. DeltaSeconds records the signed distance and is the
// caller's data-quality signal; no staleness bound is enforced here.
//
// An empty source yields an empty result, a known degenerate case the caller
// must treat as missing data rather than an error.
func PickPrices(points []domain.PricePoint, targets []domain.UnixTime) []domain.PriceHistoryPoint {
	if len(points) == 0 {
		return nil
	}

	sorted := make([]domain.PricePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	delta := func(j int, target domain.UnixTime) int64 {
		return sorted[j].Timestamp.Seconds() - target.Seconds()
	}

	result := make([]domain.PriceHistoryPoint, 0, len(targets))
	j := 0
	for _, target := range targets {
		for j+1 < len(sorted) && abs(delta(j, target)) >= abs(delta(j+1, target)) {
			j++
		}
		result = append(result, domain.PriceHistoryPoint{
			Timestamp:    target,
			Value:        sorted[j].Price,
			DeltaSeconds: delta(j, target),
		})
	}
	return result
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
