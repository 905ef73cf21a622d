package rpc

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed RPC call.
type ErrorKind string

const (
	// KindTimeout means the request hit its deadline.
	KindTimeout ErrorKind = "timeout"
	// KindTransport covers connection failures and non-2xx HTTP responses.
	KindTransport ErrorKind = "transport"
	// KindProtocol means the node answered with a JSON-RPC error member.
	KindProtocol ErrorKind = "protocol"
	// KindMalformed means the response body could not be decoded.
	KindMalformed ErrorKind = "malformed"
)

// NetworkError is returned for every failed call.
// Code is only meaningful for KindProtocol (JSON-RPC error code) and
// KindTransport (HTTP status, 0 when the request never got a response).
type NetworkError struct {
	Kind    ErrorKind
	Method  string
	Code    int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, method string, code int, err error, format string, args ...any) *NetworkError {
	return &NetworkError{
		Kind:    kind,
		Method:  method,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// KindOf returns the kind of err, or "" when err is not a NetworkError.
func KindOf(err error) ErrorKind {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Kind
	}
	return ""
}

// IsTimeout reports whether err is a timed out RPC call.
func IsTimeout(err error) bool {
	return KindOf(err) == KindTimeout
}
