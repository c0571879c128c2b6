package models

import "encoding/json"

// BalanceRecord is the token balance of a single address, derived from its coins
type BalanceRecord struct {
	Address string          `json:"address"`
	TokenID string          `json:"tokenid"`
	Balance string          `json:"balance"` // exact decimal sum of coin amounts
	UTXOs   json.RawMessage `json:"utxos"`   // coin list as returned by the node
}
