package domain

// BalanceRecord is a per-bridge-per-asset balance snapshot taken at a block.
// Rows are keyed (BlockNumber, BridgeAddress, AssetID); re-ingesting the same
// key overwrites the previous values.
type BalanceRecord struct {
	BlockNumber   int64
	Timestamp     UnixTime
	BridgeAddress EthereumAddress
	AssetID       AssetID
	Balance       float64
	USDValue      float64
	ETHValue      float64
}

// IsDaily reports whether the snapshot is midnight-aligned and therefore
// part of the daily report input.
func (r BalanceRecord) IsDaily() bool {
	return r.Timestamp.IsExact(SecondsPerDay)
}

// BlockNumberRecord maps a block number to the timestamp it was mined at.
type BlockNumberRecord struct {
	BlockNumber int64
	Timestamp   UnixTime
}
