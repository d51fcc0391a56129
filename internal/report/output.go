package report

import (
	"sort"

	"bridge-tvl/internal/domain"
)

// BuildOutput turns per-project daily entries into the servable report:
// an aggregate chart summing every project per day, plus one chart per
// project. Charts are ordered by day ascending.
func BuildOutput(entries []domain.DailyReportEntry, generatedAt domain.UnixTime) *domain.ReportOutput {
	aggregate := make(map[domain.UnixTime]*domain.ChartPoint)
	projects := make(map[domain.ProjectID][]domain.ChartPoint)

	for _, e := range entries {
		point, ok := aggregate[e.Timestamp]
		if !ok {
			point = &domain.ChartPoint{Timestamp: e.Timestamp}
			aggregate[e.Timestamp] = point
		}
		point.USD += e.USDTVL
		point.ETH += e.ETHTVL

		projects[e.ProjectID] = append(projects[e.ProjectID], domain.ChartPoint{
			Timestamp: e.Timestamp,
			USD:       e.USDTVL,
			ETH:       e.ETHTVL,
		})
	}

	aggregateChart := make([]domain.ChartPoint, 0, len(aggregate))
	for _, point := range aggregate {
		aggregateChart = append(aggregateChart, *point)
	}
	sort.Slice(aggregateChart, func(i, j int) bool {
		return aggregateChart[i].Timestamp < aggregateChart[j].Timestamp
	})

	for _, chart := range projects {
		sort.Slice(chart, func(i, j int) bool {
			return chart[i].Timestamp < chart[j].Timestamp
		})
	}

	changes := make(map[domain.ProjectID]float64)
	for id, chart := range projects {
		if delta, ok := sevenDayChange(chart); ok {
			changes[id] = delta
		}
	}

	output := &domain.ReportOutput{
		GeneratedAt:    generatedAt,
		Aggregate:      aggregateChart,
		Projects:       projects,
		SevenDayChange: changes,
	}
	if delta, ok := sevenDayChange(aggregateChart); ok {
		output.AggregateDelta = delta
	}
	return output
}

// sevenDayChange computes the relative USD change between the last chart
// day and the day one week earlier. Charts without the week-old day, or
// with a zero baseline, have no defined change.
func sevenDayChange(chart []domain.ChartPoint) (float64, bool) {
	if len(chart) == 0 {
		return 0, false
	}
	latest := chart[len(chart)-1]
	weekAgo := latest.Timestamp.Add(-7 * domain.SecondsPerDay)
	for _, p := range chart {
		if p.Timestamp == weekAgo && p.USD != 0 {
			return (latest.USD - p.USD) / p.USD, true
		}
	}
	return 0, false
}
