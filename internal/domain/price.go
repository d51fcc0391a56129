package domain

// PricePoint is a single raw price observation from the external provider.
// Provider data may be unsorted, duplicated, or sparse.
type PricePoint struct {
	Timestamp UnixTime
	Price     float64
}

// PriceHistoryPoint is a price assigned to one grid timestamp.
// DeltaSeconds is the signed distance to the source point that supplied the
// value; negative means the source point is earlier than the grid point.
// Large magnitudes signal gap-filled, low-quality data.
type PriceHistoryPoint struct {
	Timestamp    UnixTime
	Value        float64
	DeltaSeconds int64
}

// PriceRecord is a persisted provider price, keyed (CoinID, Timestamp).
type PriceRecord struct {
	CoinID    CoinID
	Timestamp UnixTime
	PriceUSD  float64
}
