package report

import (
	"context"
	"fmt"

	"bridge-tvl/internal/domain"
)

// ReferenceCoin prices the ETH leg of every report entry.
const ReferenceCoin = domain.CoinID("ethereum")

// PriceHistorySource is the pricing surface the pipeline depends on.
type PriceHistorySource interface {
	GetUSDPriceHistory(ctx context.Context, coinID domain.CoinID, from, to domain.UnixTime, granularity domain.Granularity) ([]domain.PriceHistoryPoint, error)
}

// InjectSyntheticTokens adds the value of configured synthetic tokens to the
// aggregated entries. A synthetic token has no balance records of its own; its
// fixed balance is priced via a canonical provider coin, with the USD value
// converted to ETH at that day's reference price. Runs after aggregation so
// the aggregation loop stays free of pricing concerns.
//
// Entries are modified in place. Days with no canonical price data are left
// untouched, a reportable gap rather than an error.
func InjectSyntheticTokens(ctx context.Context, entries []domain.DailyReportEntry, projects []domain.ProjectInfo, prices PriceHistorySource) error {
	if len(entries) == 0 {
		return nil
	}

	byProject := make(map[domain.ProjectID][]int)
	from, to := entries[0].Timestamp, entries[0].Timestamp
	for i, e := range entries {
		byProject[e.ProjectID] = append(byProject[e.ProjectID], i)
		if e.Timestamp < from {
			from = e.Timestamp
		}
		if e.Timestamp > to {
			to = e.Timestamp
		}
	}

	var ethByDay map[domain.UnixTime]float64

	for _, p := range projects {
		indexes := byProject[p.ProjectID]
		if len(p.SyntheticTokens) == 0 || len(indexes) == 0 {
			continue
		}

		if ethByDay == nil {
			history, err := prices.GetUSDPriceHistory(ctx, ReferenceCoin, from, to, domain.GranularityDaily)
			if err != nil {
				return fmt.Errorf("fetch %s price history: %w", ReferenceCoin, err)
			}
			ethByDay = priceByDay(history)
		}

		for _, token := range p.SyntheticTokens {
			history, err := prices.GetUSDPriceHistory(ctx, token.CoinID, from, to, domain.GranularityDaily)
			if err != nil {
				return fmt.Errorf("fetch %s price history: %w", token.CoinID, err)
			}
			tokenByDay := priceByDay(history)

			for _, i := range indexes {
				price, ok := tokenByDay[entries[i].Timestamp]
				if !ok {
					continue
				}
				usd := token.Balance * price
				entries[i].USDTVL += usd
				if ethPrice := ethByDay[entries[i].Timestamp]; ethPrice > 0 {
					entries[i].ETHTVL += usd / ethPrice
				}
			}
		}
	}
	return nil
}

func priceByDay(history []domain.PriceHistoryPoint) map[domain.UnixTime]float64 {
	result := make(map[domain.UnixTime]float64, len(history))
	for _, p := range history {
		result[p.Timestamp] = p.Value
	}
	return result
}
