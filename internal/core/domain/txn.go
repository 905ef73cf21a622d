package domain

// Transaction represents a native value transfer inside a block.
// From and To are lowercase; either may be empty (contract creation, null sender).
type Transaction struct {
	Hash        string `json:"hash"`
	BlockNumber uint64 `json:"block_number"`
	Index       int    `json:"index"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"` // raw hex quantity as returned by the node
}
