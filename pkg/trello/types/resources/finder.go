package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	trelloerrors "github.com/diwise/trello-client/pkg/trello/errors"
	"github.com/diwise/trello-client/pkg/trello/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Find retrieves a single resource by identifier. A missing resource is
// reported as a NotFoundError, any other failure is returned as is.
func Find(ctx context.Context, transport types.Transport, kind *Kind, id string, queryOptions map[string]string) (*Resource, error) {
	var err error

	ctx, span := tracer.Start(ctx, "find-resource",
		trace.WithAttributes(attribute.String(TraceAttributeResourceKind, kind.name)),
		trace.WithAttributes(attribute.String(TraceAttributeResourceID, id)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	payload, err := fetch(ctx, transport, kind, id, queryOptions)
	if err != nil {
		return nil, err
	}

	return New(transport, kind, payload), nil
}

// FindAll retrieves every resource of kind listed at path, e.g. the labels
// nested below a board.
func FindAll(ctx context.Context, transport types.Transport, kind *Kind, path string, queryOptions map[string]string) ([]*Resource, error) {
	var err error

	ctx, span := tracer.Start(ctx, "find-resources",
		trace.WithAttributes(attribute.String(TraceAttributeResourceKind, kind.name)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := transport.Get(ctx, path, orEmpty(queryOptions))
	if err != nil {
		return nil, err
	}

	payloads, err := decode[[]map[string]any](http.MethodGet, path, body)
	if err != nil {
		return nil, err
	}

	result := make([]*Resource, 0, len(payloads))
	for _, p := range payloads {
		result = append(result, New(transport, kind, p))
	}

	logging.GetFromContext(ctx).Debug("resources found", "kind", kind.name, "path", path, "count", len(result))

	return result, nil
}

// Create hydrates a new resource from options keyed by local attribute names
// and saves it.
func Create(ctx context.Context, transport types.Transport, kind *Kind, options map[string]any) (*Resource, error) {
	return NewFromOptions(transport, kind, options).Save(ctx)
}

func fetch(ctx context.Context, transport types.Transport, kind *Kind, id string, queryOptions map[string]string) (map[string]any, error) {
	if id == "" {
		return nil, trelloerrors.NewNotFoundError(kind.name, id, nil)
	}

	path := kind.ItemPath(id)

	body, err := transport.Get(ctx, path, orEmpty(queryOptions))
	if err != nil {
		if errors.Is(err, trelloerrors.ErrNotFound) {
			var nf *trelloerrors.NotFoundError
			if !errors.As(err, &nf) {
				err = trelloerrors.NewNotFoundError(kind.name, id, err)
			}
		}
		return nil, err
	}

	return decodeObject(http.MethodGet, path, body)
}

func decode[T any](method, path string, body []byte) (T, error) {
	var result T

	err := json.Unmarshal(body, &result)
	if err != nil {
		return result, badResponse(method, path, body, err)
	}

	return result, nil
}

func decodeObject(method, path string, body []byte) (map[string]any, error) {
	object, err := decode[map[string]any](method, path, body)
	if err == nil && object == nil {
		err = badResponse(method, path, body, fmt.Errorf("expected an object"))
	}
	return object, err
}

func badResponse(method, path string, body []byte, cause error) error {
	return &trelloerrors.TransportError{
		Method: method,
		Path:   path,
		Body:   body,
		Err:    fmt.Errorf("%w: %s", trelloerrors.ErrBadResponse, cause.Error()),
	}
}

func orEmpty(queryOptions map[string]string) map[string]string {
	if queryOptions == nil {
		return map[string]string{}
	}
	return queryOptions
}
