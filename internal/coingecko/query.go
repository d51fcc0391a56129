package coingecko

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bridge-tvl/internal/domain"
	"bridge-tvl/internal/observability"
	"bridge-tvl/internal/storage"
	"bridge-tvl/internal/timeseries"
)

// HourlyMaxSpan is the widest range the provider serves with hourly
// resolution in a single call. Longer hourly queries are split into
// sub-ranges fetched concurrently.
const HourlyMaxSpan = 80 * domain.SecondsPerDay

// Range widening applied before fetching, so boundary grid points still get
// nearby source data. The daily offsets are asymmetric; that matches the
// observed behavior of the existing system and downstream consumers depend
// on it, so do not change without product sign-off.
const (
	hourlyWidening    = 30 * domain.SecondsPerMinute
	dailyWideningPre  = 7 * domain.SecondsPerDay
	dailyWideningPost = 7 * domain.SecondsPerHour
)

// MarketDataSource is the provider surface QueryService depends on.
type MarketDataSource interface {
	GetCoinMarketChartRange(ctx context.Context, coinID domain.CoinID, vsCurrency string, from, to domain.UnixTime) (*MarketChartRange, error)
	GetCoinList(ctx context.Context, includePlatform bool) ([]CoinListEntry, error)
}

// QueryService answers "price of coin X at each point of grid G" by batching
// provider calls, widening the fetched range, and reconciling the returned
// sparse series onto the grid. Fetch failures propagate to the caller; retry
// policy lives in the client.
type QueryService struct {
	source MarketDataSource
	prices storage.PriceStore // optional write-through archive
}

// NewQueryService creates a new QueryService.
func NewQueryService(source MarketDataSource) *QueryService {
	return &QueryService{source: source}
}

// WithPriceStore archives every fetched price point to the given store.
// Archiving failures are returned, aborting the query.
func (s *QueryService) WithPriceStore(store storage.PriceStore) *QueryService {
	s.prices = store
	return s
}

// GetUSDPriceHistory returns one reconciled price per grid point of the
// [from, to] grid at the given granularity.
func (s *QueryService) GetUSDPriceHistory(ctx context.Context, coinID domain.CoinID, from, to domain.UnixTime, granularity domain.Granularity) ([]domain.PriceHistoryPoint, error) {
	grid, err := timeseries.Timestamps(from, to, granularity)
	if err != nil {
		return nil, err
	}

	start, end := widen(from, to, granularity)

	points, err := s.queryPrices(ctx, coinID, start, end, granularity)
	if err != nil {
		return nil, fmt.Errorf("query prices for %s: %w", coinID, err)
	}
	observability.RecordPricePoints(len(points))

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})

	if s.prices != nil && len(points) > 0 {
		records := make([]domain.PriceRecord, len(points))
		for i, p := range points {
			records[i] = domain.PriceRecord{CoinID: coinID, Timestamp: p.Timestamp, PriceUSD: p.Price}
		}
		if err := s.prices.AddOrUpdate(ctx, records); err != nil {
			return nil, fmt.Errorf("archive prices for %s: %w", coinID, err)
		}
	}

	return timeseries.PickPrices(points, grid), nil
}

// queryPrices fetches raw points for the widened range: one call for daily,
// a concurrent fan-out over max-span sub-ranges for hourly. Sub-range results
// are concatenated only after all calls complete; boundary duplicates are
// expected and tolerated by reconciliation.
func (s *QueryService) queryPrices(ctx context.Context, coinID domain.CoinID, from, to domain.UnixTime, granularity domain.Granularity) ([]domain.PricePoint, error) {
	if granularity == domain.GranularityDaily {
		data, err := s.source.GetCoinMarketChartRange(ctx, coinID, "usd", from, to)
		if err != nil {
			return nil, err
		}
		return data.Prices, nil
	}

	ranges := timeseries.CallRanges(from, to, HourlyMaxSpan)
	results := make([]*MarketChartRange, len(ranges))
	errs := make([]error, len(ranges))

	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, r timeseries.Range) {
			defer wg.Done()
			results[i], errs[i] = s.source.GetCoinMarketChartRange(ctx, coinID, "usd", r.Start, r.End)
		}(i, r)
	}
	wg.Wait()

	var points []domain.PricePoint
	for i := range ranges {
		if errs[i] != nil {
			return nil, errs[i]
		}
		points = append(points, results[i].Prices...)
	}
	return points, nil
}

// GetCoinIDs maps ethereum contract addresses to provider coin ids.
func (s *QueryService) GetCoinIDs(ctx context.Context) (map[domain.EthereumAddress]domain.CoinID, error) {
	coins, err := s.source.GetCoinList(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("fetch coin list: %w", err)
	}

	result := make(map[domain.EthereumAddress]domain.CoinID)
	for _, coin := range coins {
		if address := coin.Platforms["ethereum"]; address != "" {
			result[domain.NewEthereumAddress(address)] = coin.ID
		}
	}
	return result, nil
}

// widen aligns the range to the granularity and pads it so sparse provider
// data near the boundaries still reconciles cleanly.
func widen(from, to domain.UnixTime, granularity domain.Granularity) (domain.UnixTime, domain.UnixTime) {
	step := granularity.Step()
	start := from.RoundUp(step)
	end := to.StartOf(step)

	if granularity == domain.GranularityHourly {
		return start.Add(-hourlyWidening), end.Add(hourlyWidening)
	}
	return start.Add(-dailyWideningPre), end.Add(dailyWideningPost)
}
