package types

import "context"

//go:generate moq -rm -out ../test/transport_mock.go . Transport

// Payload is a flat mapping from remote key to scalar value.
type Payload map[string]any

// Transport performs authenticated calls against the remote service and returns
// raw JSON response bodies. Any non-success outcome is reported as an error.
type Transport interface {
	Get(ctx context.Context, path string, queryOptions map[string]string) ([]byte, error)
	Post(ctx context.Context, path string, payload Payload) ([]byte, error)
	Put(ctx context.Context, path string, payload Payload) ([]byte, error)
	Delete(ctx context.Context, path string) error
}
