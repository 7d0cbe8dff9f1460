package stub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/diwise/trello-client/internal/pkg/application/webhooks"
	"github.com/diwise/trello-client/internal/pkg/infrastructure/storage"
	"github.com/diwise/trello-client/pkg/trello/models"
	"github.com/diwise/trello-client/pkg/trello/types/attributes"
	"github.com/diwise/trello-client/pkg/trello/types/resources"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	yaml "gopkg.in/yaml.v2"
)

// App answers requests for boards, labels, lists and cards the way the remote
// service does, backed by a Store.
type App interface {
	Retrieve(ctx context.Context, collection, id string) (storage.Object, error)
	Create(ctx context.Context, collection string, body map[string]any) (storage.Object, error)
	Update(ctx context.Context, collection, id string, body map[string]any) (storage.Object, error)
	Delete(ctx context.Context, collection, id string) error
	ListRelated(ctx context.Context, collection, id, related string) ([]storage.Object, error)

	Seed(ctx context.Context, data io.Reader) error
}

const (
	TraceAttributeCollection string = "collection"
	TraceAttributeObjectID   string = "object-id"
)

var tracer = otel.Tracer("trello-stub/app")

type app struct {
	store    storage.Store
	notifier webhooks.Notifier
}

func New(store storage.Store, notifier webhooks.Notifier) App {
	return &app{
		store:    store,
		notifier: notifier,
	}
}

func (a *app) Retrieve(ctx context.Context, collection, id string) (storage.Object, error) {
	var err error

	ctx, span := tracer.Start(ctx, "retrieve-object",
		trace.WithAttributes(attribute.String(TraceAttributeCollection, collection)),
		trace.WithAttributes(attribute.String(TraceAttributeObjectID, id)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if _, err = kindFor(collection); err != nil {
		return nil, err
	}

	obj, err := a.get(ctx, collection, id)
	return obj, err
}

func (a *app) Create(ctx context.Context, collection string, body map[string]any) (storage.Object, error) {
	var err error

	ctx, span := tracer.Start(ctx, "create-object",
		trace.WithAttributes(attribute.String(TraceAttributeCollection, collection)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	kind, err := kindFor(collection)
	if err != nil {
		return nil, err
	}

	obj := storage.Object{}

	err = a.merge(ctx, kind, obj, body)
	if err != nil {
		return nil, err
	}

	if missing := missingKeys(kind, obj); len(missing) > 0 {
		err = NewBadRequestDataError(fmt.Sprintf("invalid value for %s", strings.Join(missing, ", ")))
		return nil, err
	}

	id := NewID()
	obj["id"] = id

	err = a.derive(ctx, kind, obj)
	if err != nil {
		return nil, err
	}

	err = a.store.Put(ctx, collection, id, obj)
	if err != nil {
		return nil, err
	}

	logging.GetFromContext(ctx).Debug("object created", "collection", collection, "id", id)
	a.notifier.Notify(ctx, webhooks.ActionCreate, kind.Name(), obj)

	return obj, nil
}

func (a *app) Update(ctx context.Context, collection, id string, body map[string]any) (storage.Object, error) {
	var err error

	ctx, span := tracer.Start(ctx, "update-object",
		trace.WithAttributes(attribute.String(TraceAttributeCollection, collection)),
		trace.WithAttributes(attribute.String(TraceAttributeObjectID, id)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	kind, err := kindFor(collection)
	if err != nil {
		return nil, err
	}

	obj, err := a.get(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	err = a.merge(ctx, kind, obj, body)
	if err != nil {
		return nil, err
	}

	err = a.derive(ctx, kind, obj)
	if err != nil {
		return nil, err
	}

	err = a.store.Put(ctx, collection, id, obj)
	if err != nil {
		return nil, err
	}

	a.notifier.Notify(ctx, webhooks.ActionUpdate, kind.Name(), obj)

	return obj, nil
}

func (a *app) Delete(ctx context.Context, collection, id string) error {
	var err error

	ctx, span := tracer.Start(ctx, "delete-object",
		trace.WithAttributes(attribute.String(TraceAttributeCollection, collection)),
		trace.WithAttributes(attribute.String(TraceAttributeObjectID, id)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	kind, err := kindFor(collection)
	if err != nil {
		return err
	}

	err = a.store.Delete(ctx, collection, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = NewNotFoundError("The requested resource was not found.")
		}
		return err
	}

	a.notifier.Notify(ctx, webhooks.ActionDelete, kind.Name(), map[string]any{"id": id})

	return nil
}

func (a *app) ListRelated(ctx context.Context, collection, id, related string) ([]storage.Object, error) {
	var err error

	ctx, span := tracer.Start(ctx, "list-related-objects",
		trace.WithAttributes(attribute.String(TraceAttributeCollection, collection)),
		trace.WithAttributes(attribute.String(TraceAttributeObjectID, id)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	owner, err := kindFor(collection)
	if err != nil {
		return nil, err
	}

	rel, ok := owner.Relation(related)
	if !ok || !rel.Many {
		err = NewNotFoundError(fmt.Sprintf("Cannot GET /1/%s/%s/%s", collection, id, related))
		return nil, err
	}

	if _, err = a.get(ctx, collection, id); err != nil {
		return nil, err
	}

	key, ok := foreignKeyTowards(rel.Kind, owner)
	if !ok {
		err = fmt.Errorf("%s has no reference to %s", rel.Kind.Name(), owner.Name())
		return nil, err
	}

	found, err := a.store.Find(ctx, rel.Kind.Collection(), key, id)
	return found, err
}

// Seed loads objects from YAML keyed by collection name. Seeded objects keep
// the identifiers they are given.
func (a *app) Seed(ctx context.Context, data io.Reader) error {
	buf, err := io.ReadAll(data)
	if err != nil {
		return err
	}

	seed := map[string][]map[string]any{}
	err = yaml.Unmarshal(buf, &seed)
	if err != nil {
		return fmt.Errorf("failed to parse seed data: %w", err)
	}

	for collection, objects := range seed {
		kind, err := kindFor(collection)
		if err != nil {
			return fmt.Errorf("seed data contains unknown collection %q", collection)
		}

		for _, o := range objects {
			obj := seedObject(kind, o)

			id, ok := obj["id"].(string)
			if !ok || id == "" {
				id = NewID()
				obj["id"] = id
			}

			err = a.store.Put(ctx, collection, id, obj)
			if err != nil {
				return err
			}
		}

		logging.GetFromContext(ctx).Info("seeded collection", "collection", collection, "count", len(objects))
	}

	return nil
}

// NewID returns a 24 character hex identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func (a *app) get(ctx context.Context, collection, id string) (storage.Object, error) {
	obj, err := a.store.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NewNotFoundError("The requested resource was not found.")
		}
		return nil, err
	}
	return obj, nil
}

// merge copies every writable attribute in body into obj. Unknown and read
// only keys are dropped.
func (a *app) merge(ctx context.Context, kind *resources.Kind, obj storage.Object, body map[string]any) error {
	registry := kind.Registry()

	for key, value := range body {
		name, ok := registry.LocalNameFor(key)
		if !ok || registry.IsReadOnly(name) {
			continue
		}

		if !registry.Allows(name, value) {
			return NewBadRequestDataError(fmt.Sprintf("invalid value for %s", key))
		}

		obj[key] = value
	}

	var err error

	kind.ForEachRelation(func(r resources.Relation) {
		if err != nil || r.Many || registry.IsReadOnly(r.ForeignKey) {
			return
		}

		key, _ := registry.RemoteKeyFor(r.ForeignKey)
		ref, ok := obj[key].(string)
		if !ok || ref == "" {
			return
		}

		if _, getErr := a.store.Get(ctx, r.Kind.Collection(), ref); getErr != nil {
			err = NewBadRequestDataError(fmt.Sprintf("invalid value for %s", key))
		}
	})

	return err
}

// derive fills in the read only values the remote service computes.
func (a *app) derive(ctx context.Context, kind *resources.Kind, obj storage.Object) error {
	id, _ := obj["id"].(string)

	switch kind {
	case models.Boards:
		obj["url"] = "https://trello.com/b/" + shortID(id)
		if _, ok := obj["closed"]; !ok {
			obj["closed"] = false
		}
	case models.Labels:
		if _, ok := obj["uses"]; !ok {
			obj["uses"] = 0
		}
	case models.Lists:
		if _, ok := obj["closed"]; !ok {
			obj["closed"] = false
		}
	case models.Cards:
		if listID, ok := obj["idList"].(string); ok {
			list, err := a.store.Get(ctx, models.Lists.Collection(), listID)
			if err != nil {
				return NewBadRequestDataError("invalid value for idList")
			}
			obj["idBoard"] = list["idBoard"]
		}
		obj["shortUrl"] = "https://trello.com/c/" + shortID(id)
		obj["url"] = "https://trello.com/c/" + shortID(id)
	}

	return nil
}

func shortID(id string) string {
	return id[:min(8, len(id))]
}

// seedObject keeps the identifier and the known remote keys of a seeded
// object. Read only keys are kept so that seed data can describe them.
func seedObject(kind *resources.Kind, o map[string]any) storage.Object {
	registry := kind.Registry()
	obj := storage.Object{}

	for key, value := range o {
		if _, known := registry.LocalNameFor(key); known || key == "id" {
			obj[key] = jsonValue(value)
		}
	}

	if id, ok := obj["id"]; ok && id != nil {
		if _, isString := id.(string); !isString {
			obj["id"] = fmt.Sprint(id)
		}
	}

	return obj
}

// jsonValue converts the map[interface{}]interface{} values yaml.v2 produces
// into values encoding/json can marshal.
func jsonValue(value any) any {
	switch v := value.(type) {
	case map[any]any:
		m := make(map[string]any, len(v))
		for key, val := range v {
			m[fmt.Sprint(key)] = jsonValue(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(v))
		for key, val := range v {
			m[key] = jsonValue(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = jsonValue(val)
		}
		return l
	}

	return value
}

func kindFor(collection string) (*resources.Kind, error) {
	kind, ok := models.KindForCollection(collection)
	if !ok {
		return nil, NewNotFoundError(fmt.Sprintf("unknown collection %q", collection))
	}
	return kind, nil
}

func missingKeys(kind *resources.Kind, obj storage.Object) []string {
	missing := []string{}

	kind.Registry().ForEach(func(a attributes.Attribute) {
		if !a.Required {
			return
		}

		value, ok := obj[a.Key]
		if !ok || value == nil || value == "" {
			missing = append(missing, a.Key)
		}
	})

	return missing
}

func foreignKeyTowards(kind, owner *resources.Kind) (string, bool) {
	names := []string{}

	kind.ForEachRelation(func(r resources.Relation) {
		if !r.Many && r.Kind == owner {
			names = append(names, r.ForeignKey)
		}
	})

	if len(names) == 0 {
		return "", false
	}

	slices.Sort(names)

	return kind.Registry().RemoteKeyFor(names[0])
}
