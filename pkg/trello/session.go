package trello

import (
	"context"
	"fmt"
	"sync"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/trello-client/pkg/trello/client"
	"github.com/diwise/trello-client/pkg/trello/models"
	"github.com/diwise/trello-client/pkg/trello/types"
	"github.com/diwise/trello-client/pkg/trello/types/resources"
)

var ErrSessionClosed = fmt.Errorf("session closed")

// Session carries the transport that finders and factories use when no other
// transport is given. It replaces a process wide default client.
type Session struct {
	mu        sync.RWMutex
	transport types.Transport
}

// NewSession creates a session backed by an HTTP transport built from cfg. A
// nil cfg is read from the environment.
func NewSession(ctx context.Context, cfg *client.Config) *Session {
	if cfg == nil {
		cfg = client.ConfigFromEnvironment(ctx)
	}

	logging.GetFromContext(ctx).Debug("trello session opened", "base_url", cfg.BaseURL)

	return NewSessionWithTransport(client.NewClientFromConfig(cfg))
}

func NewSessionWithTransport(transport types.Transport) *Session {
	return &Session{transport: transport}
}

// Transport returns the session transport, or nil after Close.
func (s *Session) Transport() types.Transport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transport
}

// Close detaches the transport. Resources created through the session keep
// the transport they were created with.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transport = nil
}

// Find looks up a resource of the named kind, e.g. "label".
func (s *Session) Find(ctx context.Context, kindName, id string, queryOptions map[string]string) (*resources.Resource, error) {
	kind, transport, err := s.prepare(kindName)
	if err != nil {
		return nil, err
	}

	return resources.Find(ctx, transport, kind, id, queryOptions)
}

// Create creates a resource of the named kind from options keyed by local
// attribute names.
func (s *Session) Create(ctx context.Context, kindName string, options map[string]any) (*resources.Resource, error) {
	kind, transport, err := s.prepare(kindName)
	if err != nil {
		return nil, err
	}

	return resources.Create(ctx, transport, kind, options)
}

func (s *Session) Label(ctx context.Context, id string) (*models.Label, error) {
	transport := s.Transport()
	if transport == nil {
		return nil, ErrSessionClosed
	}
	return models.FindLabel(ctx, transport, id)
}

func (s *Session) Board(ctx context.Context, id string) (*models.Board, error) {
	transport := s.Transport()
	if transport == nil {
		return nil, ErrSessionClosed
	}
	return models.FindBoard(ctx, transport, id)
}

func (s *Session) List(ctx context.Context, id string) (*models.List, error) {
	transport := s.Transport()
	if transport == nil {
		return nil, ErrSessionClosed
	}
	return models.FindList(ctx, transport, id)
}

func (s *Session) Card(ctx context.Context, id string) (*models.Card, error) {
	transport := s.Transport()
	if transport == nil {
		return nil, ErrSessionClosed
	}
	return models.FindCard(ctx, transport, id)
}

func (s *Session) prepare(kindName string) (*resources.Kind, types.Transport, error) {
	transport := s.Transport()
	if transport == nil {
		return nil, nil, ErrSessionClosed
	}

	kind, ok := models.KindNamed(kindName)
	if !ok {
		return nil, nil, fmt.Errorf("unknown resource kind %q", kindName)
	}

	return kind, transport, nil
}
