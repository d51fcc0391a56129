package report

import (
	"sort"

	"bridge-tvl/internal/domain"
)

// AggregateDaily groups filtered records by (project, day) and sums USD and
// ETH values across all bridges and assets of the project. Records from
// bridges that map to no configured project are ignored. The result is
// ordered by day ascending, then project id.
func AggregateDaily(records []domain.BalanceRecord, projects []domain.ProjectInfo) []domain.DailyReportEntry {
	projectByBridge := make(map[domain.EthereumAddress]domain.ProjectID)
	for _, p := range projects {
		for _, b := range p.Bridges {
			projectByBridge[b.Address] = p.ProjectID
		}
	}

	type key struct {
		project domain.ProjectID
		day     domain.UnixTime
	}
	totals := make(map[key]*domain.DailyReportEntry)

	for _, r := range records {
		project, ok := projectByBridge[r.BridgeAddress]
		if !ok {
			continue
		}
		k := key{project: project, day: r.Timestamp.StartOf(domain.SecondsPerDay)}
		entry, ok := totals[k]
		if !ok {
			entry = &domain.DailyReportEntry{ProjectID: k.project, Timestamp: k.day}
			totals[k] = entry
		}
		entry.USDTVL += r.USDValue
		entry.ETHTVL += r.ETHValue
	}

	result := make([]domain.DailyReportEntry, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].ProjectID < result[j].ProjectID
	})
	return result
}
