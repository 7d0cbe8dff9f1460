package attributes

import (
	"fmt"
	"slices"
)

// Attribute declares one field of a resource kind.
type Attribute struct {
	Name     string
	Key      string
	Required bool
	ReadOnly bool
	Values   []string
}

type AttributeDecoratorFunc func(a *Attribute)

// New declares an attribute with a local name and the key used by the remote
// service for the same field.
func New(name, key string, decorators ...AttributeDecoratorFunc) Attribute {
	a := Attribute{Name: name, Key: key}

	for _, decorator := range decorators {
		decorator(&a)
	}

	return a
}

func Required() AttributeDecoratorFunc {
	return func(a *Attribute) { a.Required = true }
}

// ReadOnly marks an attribute that is hydrated from the remote service but
// never assigned locally or sent back.
func ReadOnly() AttributeDecoratorFunc {
	return func(a *Attribute) { a.ReadOnly = true }
}

// OneOf constrains an attribute to a fixed set of string values.
func OneOf(values ...string) AttributeDecoratorFunc {
	return func(a *Attribute) { a.Values = values }
}

// Registry is the fixed attribute table of a resource kind.
type Registry struct {
	attributes []Attribute
	byName     map[string]int
	byKey      map[string]int
}

func NewRegistry(attrs ...Attribute) (*Registry, error) {
	r := &Registry{
		attributes: make([]Attribute, 0, len(attrs)),
		byName:     make(map[string]int, len(attrs)),
		byKey:      make(map[string]int, len(attrs)),
	}

	for _, a := range attrs {
		if a.Name == "" || a.Key == "" {
			return nil, fmt.Errorf("attribute declaration %q -> %q is incomplete", a.Name, a.Key)
		}

		if _, exists := r.byName[a.Name]; exists {
			return nil, fmt.Errorf("attribute %q is declared more than once", a.Name)
		}

		if _, exists := r.byKey[a.Key]; exists {
			return nil, fmt.Errorf("remote key %q is mapped by more than one attribute", a.Key)
		}

		r.byName[a.Name] = len(r.attributes)
		r.byKey[a.Key] = len(r.attributes)
		r.attributes = append(r.attributes, a)
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on a bad declaration. It is meant
// for package level kind declarations so that mistakes surface at program start.
func MustRegistry(attrs ...Attribute) *Registry {
	r, err := NewRegistry(attrs...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Attribute(name string) (Attribute, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Attribute{}, false
	}
	return r.attributes[idx], true
}

func (r *Registry) RemoteKeyFor(name string) (string, bool) {
	a, ok := r.Attribute(name)
	return a.Key, ok
}

func (r *Registry) LocalNameFor(key string) (string, bool) {
	idx, ok := r.byKey[key]
	if !ok {
		return "", false
	}
	return r.attributes[idx].Name, true
}

func (r *Registry) IsRequired(name string) bool {
	a, ok := r.Attribute(name)
	return ok && a.Required
}

func (r *Registry) IsReadOnly(name string) bool {
	a, ok := r.Attribute(name)
	return ok && a.ReadOnly
}

// Allows reports whether value is acceptable for an attribute with a fixed set
// of values. Unconstrained attributes and empty values are always allowed.
func (r *Registry) Allows(name string, value any) bool {
	a, ok := r.Attribute(name)
	if !ok || len(a.Values) == 0 || value == nil {
		return true
	}

	str, ok := value.(string)
	if !ok {
		return false
	}

	return str == "" || slices.Contains(a.Values, str)
}

// Names returns the local attribute names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.attributes))
	for _, a := range r.attributes {
		names = append(names, a.Name)
	}
	return names
}

func (r *Registry) ForEach(callback func(a Attribute)) {
	for _, a := range r.attributes {
		callback(a)
	}
}
