package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vietddude/addrwatch/internal/indexing/metrics"
)

// DefaultTimeout bounds every call.
const DefaultTimeout = 8 * time.Second

// HealthStatus is the client's view of how its calls have been going.
type HealthStatus struct {
	Available           bool          `json:"available"`
	LastSuccessAt       time.Time     `json:"last_success_at"`
	LastFailureAt       time.Time     `json:"last_failure_at"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	SuccessCount        int           `json:"success_count"`
	FailureCount        int           `json:"failure_count"`
	AvgLatency          time.Duration `json:"avg_latency"`
}

// Client makes JSON-RPC 2.0 calls over HTTP.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	nextID     atomic.Int64

	mu           sync.RWMutex
	health       HealthStatus
	totalLatency time.Duration
}

// NewClient creates a client whose calls are bounded by timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		timeout: timeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		health: HealthStatus{Available: true},
	}
	c.nextID.Store(time.Now().UnixMilli())
	return c
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int64  `json:"id"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Call posts a single JSON-RPC request to endpoint and returns the raw result.
func (c *Client) Call(ctx context.Context, endpoint, apiKey, method string, params []any) (json.RawMessage, error) {
	start := time.Now()
	metrics.RPCCallsTotal.WithLabelValues(method).Inc()

	result, err := c.do(ctx, endpoint, apiKey, method, params)

	latency := time.Since(start)
	metrics.RPCLatency.WithLabelValues(method).Observe(latency.Seconds())
	if err != nil {
		metrics.RPCErrorsTotal.WithLabelValues(method, string(KindOf(err))).Inc()
		c.recordFailure()
		return nil, err
	}
	c.recordSuccess(latency)
	return result, nil
}

func (c *Client) do(ctx context.Context, endpoint, apiKey, method string, params []any) (json.RawMessage, error) {
	url := NormalizeEndpoint(endpoint, apiKey)
	if url == "" {
		return nil, newError(KindTransport, method, 0, nil, "rpc endpoint is empty")
	}
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return nil, newError(KindMalformed, method, 0, err, "marshal request: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newError(KindTransport, method, 0, err, "create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isDeadline(ctx, err) {
			return nil, newError(KindTimeout, method, 0, err, "rpc call %s timed out after %s", method, c.timeout)
		}
		return nil, newError(KindTransport, method, 0, err, "rpc call: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isDeadline(ctx, err) {
			return nil, newError(KindTimeout, method, 0, err, "rpc call %s timed out after %s", method, c.timeout)
		}
		return nil, newError(KindTransport, method, resp.StatusCode, err, "read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(KindTransport, method, resp.StatusCode, nil, "HTTP %d", resp.StatusCode)
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return nil, newError(KindMalformed, method, 0, err, "parse response: %v", err)
	}
	if rpcResp.Error != nil {
		msg := rpcResp.Error.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, newError(KindProtocol, method, rpcResp.Error.Code, nil, "%s", msg)
	}

	return rpcResp.Result, nil
}

func isDeadline(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) recordSuccess(latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.health.SuccessCount++
	c.health.ConsecutiveFailures = 0
	c.health.LastSuccessAt = time.Now()
	c.health.Available = true
	c.totalLatency += latency
	c.health.AvgLatency = c.totalLatency / time.Duration(c.health.SuccessCount)
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.health.FailureCount++
	c.health.ConsecutiveFailures++
	c.health.LastFailureAt = time.Now()
	if c.health.ConsecutiveFailures >= 3 {
		c.health.Available = false
	}
}

// Health returns a copy of the client's call statistics.
func (c *Client) Health() HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health
}

