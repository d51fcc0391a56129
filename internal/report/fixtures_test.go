package report

import (
	"context"

	"bridge-tvl/internal/domain"
)

// day returns the midnight timestamp of the nth day since epoch.
func day(n int64) domain.UnixTime {
	return domain.UnixTime(n * domain.SecondsPerDay)
}

func testProjects() []domain.ProjectInfo {
	return []domain.ProjectInfo{
		{
			Name:      "Arbitrum",
			ProjectID: "arbitrum",
			Bridges: []domain.BridgeInfo{
				{
					Address:    "0xaaaa000000000000000000000000000000000001",
					SinceBlock: 100,
					Tokens: []domain.TokenInfo{
						{AssetID: "eth", CoinID: "ethereum"},
						{AssetID: "dai", CoinID: "dai"},
					},
				},
			},
		},
		{
			Name:      "ZkSync",
			ProjectID: "zksync",
			Bridges: []domain.BridgeInfo{
				{
					Address:    "0xbbbb000000000000000000000000000000000002",
					SinceBlock: 200,
					Tokens: []domain.TokenInfo{
						{AssetID: "eth", CoinID: "ethereum"},
					},
				},
			},
		},
	}
}

func record(block int64, ts domain.UnixTime, bridge domain.EthereumAddress, asset domain.AssetID, usd, eth float64) domain.BalanceRecord {
	return domain.BalanceRecord{
		BlockNumber:   block,
		Timestamp:     ts,
		BridgeAddress: bridge,
		AssetID:       asset,
		Balance:       usd,
		USDValue:      usd,
		ETHValue:      eth,
	}
}

// fakePrices serves daily price histories from a fixed table and records
// which coins were requested.
type fakePrices struct {
	table map[domain.CoinID]map[domain.UnixTime]float64
	calls []domain.CoinID
	err   error
}

func (f *fakePrices) GetUSDPriceHistory(_ context.Context, coinID domain.CoinID, from, to domain.UnixTime, _ domain.Granularity) ([]domain.PriceHistoryPoint, error) {
	f.calls = append(f.calls, coinID)
	if f.err != nil {
		return nil, f.err
	}
	var history []domain.PriceHistoryPoint
	for ts, price := range f.table[coinID] {
		if ts >= from && ts <= to {
			history = append(history, domain.PriceHistoryPoint{Timestamp: ts, Value: price})
		}
	}
	return history, nil
}
