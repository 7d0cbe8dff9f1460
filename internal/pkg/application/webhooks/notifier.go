package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

type Notifier interface {
	Start() error
	Stop() error

	Notify(ctx context.Context, action ActionType, kind string, obj map[string]any)
}

// Action is the notification body posted to the webhook endpoint.
type Action struct {
	ID   string         `json:"id"`
	Type string         `json:"type"`
	Date string         `json:"date"`
	Data map[string]any `json:"data"`
}

type Notification struct {
	Action Action `json:"action"`
}

// NewNotification wraps obj in an action named after what happened to it,
// e.g. createLabel or deleteCard.
func NewNotification(action ActionType, kind string, obj map[string]any) Notification {
	name := kind
	if len(name) > 0 {
		name = strings.ToUpper(name[:1]) + name[1:]
	}

	return Notification{
		Action: Action{
			ID:   uuid.NewString(),
			Type: string(action) + name,
			Date: time.Now().UTC().Format(time.RFC3339),
			Data: map[string]any{kind: obj},
		},
	}
}

var tracer = otel.Tracer("trello-stub/notifier")

type action func()

type notifier struct {
	mu       sync.RWMutex
	started  bool
	endpoint string

	httpClient http.Client
	queue      chan action
}

// NewNotifier returns a notifier posting to endpoint. An empty endpoint gives a
// notifier that drops every notification.
func NewNotifier(ctx context.Context, endpoint string) (Notifier, error) {
	return &notifier{
		endpoint: endpoint,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}, nil
}

func (n *notifier) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.started {
		return fmt.Errorf("already started")
	}

	n.queue = make(chan action, 32)
	n.started = true

	go n.run(n.queue)

	return nil
}

// Stop waits for queued notifications to be posted. Notifications arriving
// after Stop are dropped.
func (n *notifier) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.started {
		resultChan := make(chan bool)

		n.queue <- func() {
			close(n.queue)
			resultChan <- true
		}

		<-resultChan
		n.started = false
	}
	return nil
}

func (n *notifier) Notify(ctx context.Context, actionType ActionType, kind string, obj map[string]any) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if !n.started || n.endpoint == "" {
		return
	}

	var err error

	logger := logging.GetFromContext(ctx)

	ctx, span := tracer.Start(
		tracing.ExtractHeaders(context.Background(), tracing.InjectHeaders(ctx)),
		"post-notification",
	)

	notification := NewNotification(actionType, kind, obj)

	n.queue <- func() {
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		err = n.post(ctx, notification)
		if err != nil {
			logger.Error("failed to post notification", "action", notification.Action.Type, "err", err.Error())
		}
	}
}

func (n *notifier) post(ctx context.Context, notification Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshalling error (%w)", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("unable to create new request (%w)", err)
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request (%w)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook endpoint responded with status code %d", resp.StatusCode)
	}

	return nil
}

func (n *notifier) run(queue chan action) {
	for action := range queue {
		if action == nil {
			return
		}

		action()
	}
}
