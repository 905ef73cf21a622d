package evm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/vietddude/addrwatch/internal/infra/rpc"
)

// MockProvider implements rpc.Caller for testing
type MockProvider struct {
	CallFunc func(ctx context.Context, method string, params []any) (any, error)
}

func (m *MockProvider) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if m.CallFunc == nil {
		return json.RawMessage("null"), nil
	}
	result, err := m.CallFunc(ctx, method, params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

func TestAdapter_GetLatestBlock(t *testing.T) {
	mock := &MockProvider{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			if method == "eth_blockNumber" {
				return "0x12d687", nil // 1234567 in hex
			}
			return nil, nil
		},
	}

	adapter := NewAdapter(mock, nil)
	height, err := adapter.GetLatestBlock(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if height != 1234567 {
		t.Errorf("expected height 1234567, got %d", height)
	}
}

func TestAdapter_GetLatestBlock_Error(t *testing.T) {
	rpcErr := &rpc.NetworkError{Kind: rpc.KindTimeout, Message: "timed out"}
	mock := &MockProvider{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			return nil, rpcErr
		},
	}

	_, err := NewAdapter(mock, nil).GetLatestBlock(context.Background())
	if !errors.Is(err, rpcErr) {
		t.Fatalf("expected wrapped rpc error, got %v", err)
	}
	if !rpc.IsTimeout(err) {
		t.Errorf("expected timeout kind to survive wrapping")
	}
}

func TestAdapter_GetLatestBlock_BadPayload(t *testing.T) {
	mock := &MockProvider{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			return "not-hex", nil
		},
	}

	if _, err := NewAdapter(mock, nil).GetLatestBlock(context.Background()); err == nil {
		t.Fatal("expected error for invalid height")
	}
}

func TestAdapter_GetBlock(t *testing.T) {
	var gotParams []any
	mock := &MockProvider{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			if method != "eth_getBlockByNumber" {
				t.Fatalf("unexpected method %s", method)
			}
			gotParams = params
			return map[string]any{
				"number":     "0x12d687",
				"hash":       "0xabc123",
				"parentHash": "0xabc122",
				"timestamp":  "0x65678900",
				"transactions": []any{
					map[string]any{
						"hash":             "0xtx1",
						"from":             "0xAAAA000000000000000000000000000000000001",
						"to":               "0xBBBB000000000000000000000000000000000002",
						"value":            "0xde0b6b3a7640000",
						"transactionIndex": "0x0",
					},
					map[string]any{
						"hash":             "0xtx2",
						"from":             "0xaaaa000000000000000000000000000000000001",
						"to":               nil,
						"value":            "0x0",
						"transactionIndex": "0x1",
					},
				},
			}, nil
		},
	}

	adapter := NewAdapter(mock, nil)
	block, err := adapter.GetBlock(context.Background(), 1234567)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gotParams) != 2 || gotParams[0] != "0x12d687" || gotParams[1] != true {
		t.Errorf("unexpected params %v", gotParams)
	}
	if block.Number != 1234567 {
		t.Errorf("expected block 1234567, got %d", block.Number)
	}
	if block.Hash != "0xabc123" {
		t.Errorf("expected hash 0xabc123, got %s", block.Hash)
	}
	if block.Timestamp != 0x65678900 {
		t.Errorf("unexpected timestamp %d", block.Timestamp)
	}
	if len(block.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(block.Transactions))
	}

	tx := block.Transactions[0]
	if tx.From != "0xaaaa000000000000000000000000000000000001" {
		t.Errorf("expected lowercase from, got %s", tx.From)
	}
	if tx.To != "0xbbbb000000000000000000000000000000000002" {
		t.Errorf("expected lowercase to, got %s", tx.To)
	}
	if tx.Value != "0xde0b6b3a7640000" {
		t.Errorf("expected raw value preserved, got %s", tx.Value)
	}
	if block.Transactions[1].To != "" {
		t.Errorf("expected null to decoded as empty, got %q", block.Transactions[1].To)
	}
	if block.Transactions[1].Index != 1 {
		t.Errorf("expected index 1, got %d", block.Transactions[1].Index)
	}
}

func TestAdapter_GetBlock_NotFound(t *testing.T) {
	mock := &MockProvider{}

	block, err := NewAdapter(mock, nil).GetBlock(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if block != nil {
		t.Errorf("expected nil block, got %+v", block)
	}
}

func TestAdapter_GetBlock_HashOnlyTransactions(t *testing.T) {
	mock := &MockProvider{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			return map[string]any{
				"number":       "0xa",
				"hash":         "0xabc",
				"transactions": []any{"0xtx1", "0xtx2"},
			}, nil
		},
	}

	block, err := NewAdapter(mock, nil).GetBlock(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(block.Transactions) != 0 {
		t.Errorf("expected hash-only transactions to be skipped, got %d", len(block.Transactions))
	}
}
