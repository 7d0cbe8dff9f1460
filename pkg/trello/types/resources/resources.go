package resources

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	trelloerrors "github.com/diwise/trello-client/pkg/trello/errors"
	"github.com/diwise/trello-client/pkg/trello/types"
	"github.com/diwise/trello-client/pkg/trello/types/attributes"
	"github.com/diwise/trello-client/pkg/trello/types/changes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceAttributeResourceKind string = "resource-kind"
	TraceAttributeResourceID   string = "resource-id"
)

var tracer = otel.Tracer("trello-client/resources")

// Resource is the local representation of one remote object. It holds the
// current attribute values, tracks changes made since the last sync and talks
// to the remote service through the transport it was created with.
//
// A Resource is not safe for concurrent use.
type Resource struct {
	kind      *Kind
	transport types.Transport

	id      string
	values  map[string]any
	changes *changes.Tracker
	related map[string]*Resource
}

func newResource(transport types.Transport, kind *Kind) *Resource {
	return &Resource{
		kind:      kind,
		transport: transport,
		values:    map[string]any{},
		changes:   changes.NewTracker(),
		related:   map[string]*Resource{},
	}
}

// New returns a resource hydrated from a remote shaped payload without
// contacting the remote service.
func New(transport types.Transport, kind *Kind, payload map[string]any) *Resource {
	r := newResource(transport, kind)
	r.id = identifierFrom(payload)
	r.assign(payload, kind.registry.LocalNameFor)
	return r
}

// NewFromOptions returns a resource hydrated from a payload keyed by local
// attribute names. Options never carry an identifier.
func NewFromOptions(transport types.Transport, kind *Kind, options map[string]any) *Resource {
	r := newResource(transport, kind)
	r.assign(options, localName(kind))
	return r
}

func (r *Resource) ID() string {
	return r.id
}

func (r *Resource) Kind() *Kind {
	return r.kind
}

func (r *Resource) Transport() types.Transport {
	return r.transport
}

// HydrateFull assigns every value in payload whose key is a known remote key
// and makes the result the new synced baseline. Unknown keys are ignored.
func (r *Resource) HydrateFull(payload map[string]any) error {
	if err := r.checkIdentifier(payload); err != nil {
		return err
	}

	r.assign(payload, r.kind.registry.LocalNameFor)
	return nil
}

// HydrateOptions is like HydrateFull for payloads keyed by local names. An id
// entry in options is ignored.
func (r *Resource) HydrateOptions(options map[string]any) {
	r.assign(options, localName(r.kind))
}

func (r *Resource) assign(payload map[string]any, mapping func(string) (string, bool)) {
	for key, value := range payload {
		if name, ok := mapping(key); ok {
			r.values[name] = value
		}
	}

	r.changes.Sync(r.values)
}

func (r *Resource) checkIdentifier(payload map[string]any) error {
	id := identifierFrom(payload)
	if id == "" {
		return nil
	}

	if r.id != "" && r.id != id {
		return fmt.Errorf("%w: identifier %s does not match %s %s", trelloerrors.ErrBadResponse, id, r.kind.name, r.id)
	}

	r.id = id
	return nil
}

func (r *Resource) Get(name string) any {
	return r.values[name]
}

func (r *Resource) String(name string) string {
	str, _ := r.values[name].(string)
	return str
}

func (r *Resource) Bool(name string) bool {
	b, _ := r.values[name].(bool)
	return b
}

func (r *Resource) Float(name string) float64 {
	switch v := r.values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (r *Resource) Strings(name string) []string {
	switch v := r.values[name].(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return nil
}

// Set assigns a value to an attribute. Names that are unknown to the kind, or
// that belong to read only attributes, are ignored and never mark the resource
// as changed.
func (r *Resource) Set(name string, value any) {
	a, ok := r.kind.registry.Attribute(name)
	if !ok || a.ReadOnly {
		return
	}

	r.changes.MarkChanged(name, value, r.values[name])
	r.values[name] = value
}

// UpdateFields calls Set for every entry in fields. Keys may be local names or
// remote keys, local names taking precedence when both refer to the same
// attribute. Unknown keys are ignored.
func (r *Resource) UpdateFields(fields map[string]any) {
	for key, value := range fields {
		if _, ok := r.kind.registry.Attribute(key); ok {
			continue
		}

		if name, ok := r.kind.registry.LocalNameFor(key); ok {
			if _, shadowed := fields[name]; !shadowed {
				r.Set(name, value)
			}
		}
	}

	for key, value := range fields {
		if _, ok := r.kind.registry.Attribute(key); ok {
			r.Set(key, value)
		}
	}
}

func (r *Resource) IsDirty() bool {
	return r.changes.IsDirty()
}

func (r *Resource) DirtyFields() []string {
	return r.changes.DirtyFields()
}

// IsValid reports whether every required attribute holds a non-empty value.
func (r *Resource) IsValid() bool {
	return len(r.missing()) == 0
}

// Errors lists everything that is wrong with the current attribute values,
// including values outside an attribute's fixed set. It returns nil when there
// is nothing to report.
func (r *Resource) Errors() []error {
	var errs []error

	for _, name := range r.missing() {
		errs = append(errs, fmt.Errorf("%s is required", name))
	}

	for _, name := range r.kind.registry.Names() {
		if value, ok := r.values[name]; ok && !r.kind.registry.Allows(name, value) {
			errs = append(errs, fmt.Errorf("%v is not a valid value for %s", value, name))
		}
	}

	return errs
}

func (r *Resource) missing() []string {
	missing := []string{}

	for _, name := range r.kind.registry.Names() {
		if r.kind.registry.IsRequired(name) && isEmpty(r.values[name]) {
			missing = append(missing, name)
		}
	}

	return missing
}

// Payload returns a remote shaped copy of all assigned attribute values.
func (r *Resource) Payload() types.Payload {
	payload := types.Payload{}

	if r.id != "" {
		payload["id"] = r.id
	}

	for name, value := range r.values {
		key, _ := r.kind.registry.RemoteKeyFor(name)
		payload[key] = value
	}

	return payload
}

func (r *Resource) createPayload() types.Payload {
	payload := types.Payload{}

	r.kind.registry.ForEach(func(a attributes.Attribute) {
		if value, ok := r.values[a.Name]; ok && !a.ReadOnly {
			payload[a.Key] = value
		}
	})

	return payload
}

func (r *Resource) updatePayload() types.Payload {
	payload := types.Payload{}

	for _, name := range r.changes.DirtyFields() {
		key, _ := r.kind.registry.RemoteKeyFor(name)
		payload[key] = r.values[name]
	}

	return payload
}

// Save creates the resource remotely when it has no identifier and updates it
// otherwise. Updates only send changed attributes, and nothing at all is sent
// when no attribute has changed. The resource is hydrated from the response.
func (r *Resource) Save(ctx context.Context) (*Resource, error) {
	var err error

	ctx, span := tracer.Start(ctx, "save-resource",
		trace.WithAttributes(attribute.String(TraceAttributeResourceKind, r.kind.name)),
		trace.WithAttributes(attribute.String(TraceAttributeResourceID, r.id)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if r.id == "" {
		err = r.create(ctx)
	} else {
		err = r.update(ctx)
	}

	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Resource) create(ctx context.Context) error {
	if missing := r.missing(); len(missing) > 0 {
		return trelloerrors.NewValidationError(r.kind.name, missing)
	}

	path := r.kind.CollectionPath()

	body, err := r.transport.Post(ctx, path, r.createPayload())
	if err != nil {
		return trelloerrors.NewPersistenceError("create", r.kind.name, "", err)
	}

	err = r.hydrateFromResponse(http.MethodPost, path, body)
	if err != nil {
		return trelloerrors.NewPersistenceError("create", r.kind.name, "", err)
	}

	if r.id == "" {
		err = badResponse(http.MethodPost, path, body, fmt.Errorf("response carries no identifier"))
		return trelloerrors.NewPersistenceError("create", r.kind.name, "", err)
	}

	logging.GetFromContext(ctx).Debug("resource created", "kind", r.kind.name, "id", r.id)

	return nil
}

func (r *Resource) update(ctx context.Context) error {
	if !r.changes.IsDirty() {
		return nil
	}

	path := r.kind.ItemPath(r.id)
	fields := r.changes.DirtyFields()

	body, err := r.transport.Put(ctx, path, r.updatePayload())
	if err != nil {
		return trelloerrors.NewPersistenceError("update", r.kind.name, r.id, err)
	}

	err = r.hydrateFromResponse(http.MethodPut, path, body)
	if err != nil {
		return trelloerrors.NewPersistenceError("update", r.kind.name, r.id, err)
	}

	logging.GetFromContext(ctx).Debug("resource updated", "kind", r.kind.name, "id", r.id, "fields", fields)

	return nil
}

func (r *Resource) hydrateFromResponse(method, path string, body []byte) error {
	payload, err := decodeObject(method, path, body)
	if err != nil {
		return err
	}

	err = r.HydrateFull(payload)
	if err != nil {
		return &trelloerrors.TransportError{Method: method, Path: path, Body: body, Err: err}
	}

	return nil
}

// Delete removes the resource from the remote service. The local instance
// should not be used afterwards.
func (r *Resource) Delete(ctx context.Context) error {
	var err error

	ctx, span := tracer.Start(ctx, "delete-resource",
		trace.WithAttributes(attribute.String(TraceAttributeResourceKind, r.kind.name)),
		trace.WithAttributes(attribute.String(TraceAttributeResourceID, r.id)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if r.id == "" {
		err = trelloerrors.NewValidationErrorWithReason(r.kind.name, "cannot delete a resource without identifier")
		return err
	}

	err = r.transport.Delete(ctx, r.kind.ItemPath(r.id))
	if err != nil {
		err = trelloerrors.NewPersistenceError("delete", r.kind.name, r.id, err)
		return err
	}

	logging.GetFromContext(ctx).Debug("resource deleted", "kind", r.kind.name, "id", r.id)

	return nil
}

// Reload replaces all attribute values with the current remote state and
// forgets every resolved association. Unsaved changes are lost.
func (r *Resource) Reload(ctx context.Context) error {
	var err error

	ctx, span := tracer.Start(ctx, "reload-resource",
		trace.WithAttributes(attribute.String(TraceAttributeResourceKind, r.kind.name)),
		trace.WithAttributes(attribute.String(TraceAttributeResourceID, r.id)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if r.id == "" {
		err = trelloerrors.NewNotFoundError(r.kind.name, "", nil)
		return err
	}

	path := r.kind.ItemPath(r.id)

	payload, err := fetch(ctx, r.transport, r.kind, r.id, nil)
	if err != nil {
		return err
	}

	if id := identifierFrom(payload); id != "" && id != r.id {
		err = badResponse(http.MethodGet, path, nil, fmt.Errorf("identifier %s does not match %s %s", id, r.kind.name, r.id))
		return err
	}

	r.values = map[string]any{}
	r.related = map[string]*Resource{}
	r.assign(payload, r.kind.registry.LocalNameFor)

	return nil
}

func localName(kind *Kind) func(string) (string, bool) {
	return func(name string) (string, bool) {
		_, ok := kind.registry.Attribute(name)
		return name, ok
	}
}

func identifierFrom(payload map[string]any) string {
	switch id := payload["id"].(type) {
	case nil:
		return ""
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}

	if str, ok := value.(string); ok {
		return str == ""
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	}

	return false
}
