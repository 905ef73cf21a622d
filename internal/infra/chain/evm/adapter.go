package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vietddude/addrwatch/internal/core/domain"
	"github.com/vietddude/addrwatch/internal/infra/rpc"
)

// Adapter reads blocks and transactions from an EVM JSON-RPC endpoint.
type Adapter struct {
	client rpc.Caller
	log    *slog.Logger
}

func NewAdapter(client rpc.Caller, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{client: client, log: log}
}

// GetLatestBlock returns the current chain height.
func (a *Adapter) GetLatestBlock(ctx context.Context) (uint64, error) {
	result, err := a.client.Call(ctx, "eth_blockNumber", nil)
	if err != nil {
		return 0, fmt.Errorf("eth_blockNumber failed: %w", err)
	}

	var blockHex string
	if err := json.Unmarshal(result, &blockHex); err != nil {
		return 0, fmt.Errorf("invalid block number response: %w", err)
	}

	return parseQuantity(blockHex)
}

type rawTransaction struct {
	Hash             string  `json:"hash"`
	From             *string `json:"from"`
	To               *string `json:"to"`
	Value            string  `json:"value"`
	TransactionIndex string  `json:"transactionIndex"`
}

type rawBlock struct {
	Number       string            `json:"number"`
	Hash         string            `json:"hash"`
	ParentHash   string            `json:"parentHash"`
	Timestamp    string            `json:"timestamp"`
	Transactions []json.RawMessage `json:"transactions"`
}

// GetBlock fetches a block with full transaction objects.
// A nil block with nil error means the node does not have it yet.
func (a *Adapter) GetBlock(ctx context.Context, blockNumber uint64) (*domain.Block, error) {
	blockHex := hexutil.EncodeUint64(blockNumber)
	result, err := a.client.Call(ctx, "eth_getBlockByNumber", []any{blockHex, true})
	if err != nil {
		return nil, fmt.Errorf("eth_getBlockByNumber %s failed: %w", blockHex, err)
	}
	if len(result) == 0 || string(result) == "null" {
		return nil, nil
	}

	var raw rawBlock
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("invalid block format: %w", err)
	}

	return a.parseBlock(blockNumber, &raw), nil
}

func (a *Adapter) parseBlock(requested uint64, raw *rawBlock) *domain.Block {
	number, err := parseQuantity(raw.Number)
	if err != nil {
		number = requested
	}
	timestamp, _ := parseQuantity(raw.Timestamp)

	block := &domain.Block{
		Number:       number,
		Hash:         raw.Hash,
		ParentHash:   raw.ParentHash,
		Timestamp:    timestamp,
		Transactions: make([]*domain.Transaction, 0, len(raw.Transactions)),
	}

	for i, data := range raw.Transactions {
		var rtx rawTransaction
		if err := json.Unmarshal(data, &rtx); err != nil {
			// Hash-only entries carry nothing to match on.
			a.log.Debug("skip non-object transaction", "block", number, "index", i, "error", err)
			continue
		}
		block.Transactions = append(block.Transactions, parseTransaction(&rtx, number, i))
	}

	return block
}

func parseTransaction(raw *rawTransaction, blockNumber uint64, position int) *domain.Transaction {
	index := position
	if v, err := parseQuantity(raw.TransactionIndex); err == nil {
		index = int(v)
	}

	return &domain.Transaction{
		Hash:        raw.Hash,
		BlockNumber: blockNumber,
		Index:       index,
		From:        normalizeAddress(raw.From),
		To:          normalizeAddress(raw.To),
		Value:       raw.Value,
	}
}

func normalizeAddress(addr *string) string {
	if addr == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*addr))
}
