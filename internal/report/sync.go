package report

import "bridge-tvl/internal/domain"

// DefaultSyncAllowance is how many blocks a record may lag behind the most
// synced record at the same timestamp before it is considered stale.
const DefaultSyncAllowance int64 = 100

// SufficientlySynced drops records whose block height lags materially behind
// the highest block height seen at the same timestamp. An under-synced bridge
// would understate TVL for that day, so its records are excluded entirely
// rather than reported low. Input order is preserved.
func SufficientlySynced(records []domain.BalanceRecord, allowance int64) []domain.BalanceRecord {
	highest := make(map[domain.UnixTime]int64)
	for _, r := range records {
		if r.BlockNumber > highest[r.Timestamp] {
			highest[r.Timestamp] = r.BlockNumber
		}
	}

	var result []domain.BalanceRecord
	for _, r := range records {
		if highest[r.Timestamp]-r.BlockNumber <= allowance {
			result = append(result, r)
		}
	}
	return result
}
