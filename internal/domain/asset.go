package domain

import "strings"

// AssetID identifies a tracked token, e.g. "eth" or "dai".
type AssetID string

// EthereumAddress is a lowercase hex contract or bridge address.
type EthereumAddress string

// NewEthereumAddress normalizes an address to its canonical lowercase form.
func NewEthereumAddress(s string) EthereumAddress {
	return EthereumAddress(strings.ToLower(s))
}

// CoinID identifies an asset on the external price provider, e.g. "ethereum".
type CoinID string

// ProjectID identifies a tracked project, e.g. "optimism".
type ProjectID string
