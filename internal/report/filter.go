// Package report turns raw balance records into the cached daily TVL report.
// The pipeline stages are free functions so each is independently testable:
// fetch -> filter -> sync filter -> aggregate -> price merge -> output.
package report

import "bridge-tvl/internal/domain"

type bridgeAsset struct {
	bridge domain.EthereumAddress
	asset  domain.AssetID
}

// FilterByProjects keeps only records whose (bridge, asset) pair belongs to a
// currently configured project. Records from decommissioned or unknown
// bridges are dropped. Input order is preserved.
func FilterByProjects(records []domain.BalanceRecord, projects []domain.ProjectInfo) []domain.BalanceRecord {
	tracked := make(map[bridgeAsset]bool)
	for _, p := range projects {
		for _, b := range p.Bridges {
			for _, token := range b.Tokens {
				tracked[bridgeAsset{bridge: b.Address, asset: token.AssetID}] = true
			}
		}
	}

	var result []domain.BalanceRecord
	for _, r := range records {
		if tracked[bridgeAsset{bridge: r.BridgeAddress, asset: r.AssetID}] {
			result = append(result, r)
		}
	}
	return result
}
