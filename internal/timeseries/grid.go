// Package timeseries provides the pure time-grid algorithms the pricing and
// reporting pipeline is built on: aligned timestamp grids, nearest-neighbor
// price reconciliation, and provider call-range batching.
package timeseries

import (
	"errors"

	"bridge-tvl/internal/domain"
)

// ErrInvalidRange is returned when a grid is requested with from > to.
var ErrInvalidRange = errors.New("from cannot be greater than to")

// Timestamps generates every granularity-aligned timestamp inside [from, to],
// strictly ascending. The start is from rounded up to the granularity step,
// the end is to rounded down; the result is empty when they cross.
func Timestamps(from, to domain.UnixTime, g domain.Granularity) ([]domain.UnixTime, error) {
	if from > to {
		return nil, ErrInvalidRange
	}

	step := g.Step()
	start := from.RoundUp(step)
	end := to.StartOf(step)

	var result []domain.UnixTime
	for t := start; t <= end; t = t.Add(step) {
		result = append(result, t)
	}
	return result, nil
}
