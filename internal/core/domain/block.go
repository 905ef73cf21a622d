package domain

// Block represents a blockchain block fetched with its transaction bodies.
type Block struct {
	Number       uint64
	Hash         string
	ParentHash   string
	Timestamp    uint64
	Transactions []*Transaction
}
