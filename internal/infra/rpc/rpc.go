// Package rpc provides the JSON-RPC 2.0 client used to talk to the chain.
//
// A Client is stateless with respect to the endpoint: every Call names the
// endpoint and API key explicitly, so configuration changes take effect on the
// very next request. Components that only need "the current endpoint" get a
// Caller from Bind, which resolves the endpoint through an EndpointSource on
// each call.
//
//	client := rpc.NewClient(rpc.DefaultTimeout)
//	caller := client.Bind(func() rpc.Endpoint {
//	    cfg := store.Current()
//	    return rpc.Endpoint{URL: cfg.RPCEndpoint, APIKey: cfg.APIKey}
//	})
//	raw, err := caller.Call(ctx, "eth_blockNumber", nil)
//
// Every failure is a *NetworkError; use errors.As or IsTimeout to inspect it.
package rpc

import (
	"context"
	"encoding/json"
)

// Caller performs a single JSON-RPC call against an implied endpoint.
type Caller interface {
	Call(ctx context.Context, method string, params []any) (json.RawMessage, error)
}

// Endpoint is the RPC URL plus its optional API key.
type Endpoint struct {
	URL    string
	APIKey string
}

// EndpointSource returns the endpoint to use for the next call.
type EndpointSource func() Endpoint

// CallerFunc adapts a function to the Caller interface.
type CallerFunc func(ctx context.Context, method string, params []any) (json.RawMessage, error)

// Call implements Caller.
func (f CallerFunc) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	return f(ctx, method, params)
}

type boundCaller struct {
	client *Client
	source EndpointSource
}

func (b *boundCaller) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	ep := b.source()
	return b.client.Call(ctx, ep.URL, ep.APIKey, method, params)
}

// Bind returns a Caller that resolves the endpoint from src on every call.
func (c *Client) Bind(src EndpointSource) Caller {
	return &boundCaller{client: c, source: src}
}
