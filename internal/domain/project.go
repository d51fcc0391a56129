package domain

// TokenInfo describes one token tracked inside a bridge.
type TokenInfo struct {
	AssetID AssetID         `json:"assetId"`
	Address EthereumAddress `json:"address"`
	CoinID  CoinID          `json:"coinId"`
}

// BridgeInfo describes one bridge contract belonging to a project.
type BridgeInfo struct {
	Address    EthereumAddress `json:"address"`
	SinceBlock int64           `json:"sinceBlock"`
	Tokens     []TokenInfo     `json:"tokens"`
}

// SyntheticToken is a token without direct provider pricing whose value is
// derived from a canonical coin, e.g. a wrapped variant tracking the
// underlying asset. Balance is a fixed, externally known token amount.
type SyntheticToken struct {
	AssetID AssetID `json:"assetId"`
	CoinID  CoinID  `json:"coinId"`
	Balance float64 `json:"balance"`
}

// ProjectInfo is the static configuration of a tracked project.
// Loaded once at startup and read-only afterwards.
type ProjectInfo struct {
	Name            string           `json:"name"`
	ProjectID       ProjectID        `json:"projectId"`
	Bridges         []BridgeInfo     `json:"bridges"`
	SyntheticTokens []SyntheticToken `json:"syntheticTokens,omitempty"`
}

// TracksPair reports whether the project tracks the given bridge/asset pair.
func (p ProjectInfo) TracksPair(bridge EthereumAddress, asset AssetID) bool {
	for _, b := range p.Bridges {
		if b.Address != bridge {
			continue
		}
		for _, t := range b.Tokens {
			if t.AssetID == asset {
				return true
			}
		}
	}
	return false
}
