package coingecko

import (
	"encoding/json"
	"fmt"

	"bridge-tvl/internal/domain"
)

// MarketChartRange holds the provider's price, market cap, and volume series
// for one coin over one time range. Points come back in provider order, which
// is not guaranteed to be sorted or deduplicated.
type MarketChartRange struct {
	Prices       []domain.PricePoint
	MarketCaps   []domain.PricePoint
	TotalVolumes []domain.PricePoint
}

// CoinListEntry is one coin from the provider's coin index. Platforms maps
// platform name to contract address and is populated only when the list is
// requested with platform data.
type CoinListEntry struct {
	ID        domain.CoinID     `json:"id"`
	Symbol    string            `json:"symbol"`
	Name      string            `json:"name"`
	Platforms map[string]string `json:"platforms"`
}

// marketChartRangeResult is the raw wire format: arrays of [ms, value] pairs.
type marketChartRangeResult struct {
	Prices       [][2]json.Number `json:"prices"`
	MarketCaps   [][2]json.Number `json:"market_caps"`
	TotalVolumes [][2]json.Number `json:"total_volumes"`
}

func (r marketChartRangeResult) toData() (*MarketChartRange, error) {
	prices, err := toPricePoints(r.Prices)
	if err != nil {
		return nil, fmt.Errorf("parse prices: %w", err)
	}
	marketCaps, err := toPricePoints(r.MarketCaps)
	if err != nil {
		return nil, fmt.Errorf("parse market caps: %w", err)
	}
	totalVolumes, err := toPricePoints(r.TotalVolumes)
	if err != nil {
		return nil, fmt.Errorf("parse total volumes: %w", err)
	}
	return &MarketChartRange{
		Prices:       prices,
		MarketCaps:   marketCaps,
		TotalVolumes: totalVolumes,
	}, nil
}

func toPricePoints(pairs [][2]json.Number) ([]domain.PricePoint, error) {
	result := make([]domain.PricePoint, 0, len(pairs))
	for _, pair := range pairs {
		ms, err := pair[0].Int64()
		if err != nil {
			// Provider occasionally emits fractional milliseconds.
			f, ferr := pair[0].Float64()
			if ferr != nil {
				return nil, fmt.Errorf("timestamp %q: %w", pair[0], err)
			}
			ms = int64(f)
		}
		timestamp, err := domain.FromMilliseconds(ms)
		if err != nil {
			return nil, fmt.Errorf("timestamp %d: %w", ms, err)
		}
		value, err := pair[1].Float64()
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", pair[1], err)
		}
		result = append(result, domain.PricePoint{Timestamp: timestamp, Price: value})
	}
	return result, nil
}
