package resources

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/diwise/trello-client/pkg/trello/types/attributes"
)

// Relation describes how a resource kind refers to another kind. A belongs-to
// relation is backed by a foreign key attribute on the owner, a has-many relation
// by a nested collection path below the owner's item path.
type Relation struct {
	Name       string
	ForeignKey string
	Kind       *Kind
	Many       bool
}

// Kind is a category of remote resources sharing one attribute registry.
type Kind struct {
	name       string
	collection string
	registry   *attributes.Registry
	relations  map[string]Relation
}

type KindDecoratorFunc func(k *Kind)

func NewKind(name string, registry *attributes.Registry, decorators ...KindDecoratorFunc) *Kind {
	k := &Kind{
		name:       name,
		collection: strings.ToLower(name) + "s",
		registry:   registry,
		relations:  map[string]Relation{},
	}

	for _, decorator := range decorators {
		decorator(k)
	}

	return k
}

// Collection overrides the default plural collection name.
func Collection(collection string) KindDecoratorFunc {
	return func(k *Kind) {
		k.collection = collection
	}
}

func (k *Kind) Name() string {
	return k.name
}

func (k *Kind) Collection() string {
	return k.collection
}

func (k *Kind) Registry() *attributes.Registry {
	return k.registry
}

func (k *Kind) CollectionPath() string {
	return "/" + k.collection
}

func (k *Kind) ItemPath(id string) string {
	return "/" + k.collection + "/" + url.PathEscape(id)
}

func (k *Kind) Relation(name string) (Relation, bool) {
	r, ok := k.relations[name]
	return r, ok
}

func (k *Kind) ForEachRelation(callback func(r Relation)) {
	for _, r := range k.relations {
		callback(r)
	}
}

// BelongsTo declares that the attribute foreignKey holds the identifier of a
// related resource of kind related. It panics on a declaration that would
// shadow an attribute or that refers to an unknown attribute.
func (k *Kind) BelongsTo(name, foreignKey string, related *Kind) *Kind {
	if _, ok := k.registry.Attribute(foreignKey); !ok {
		panic(fmt.Sprintf("relation %s.%s refers to unknown attribute %q", k.name, name, foreignKey))
	}

	k.addRelation(Relation{Name: name, ForeignKey: foreignKey, Kind: related})
	return k
}

// HasMany declares a nested collection of related resources.
func (k *Kind) HasMany(name string, related *Kind) *Kind {
	k.addRelation(Relation{Name: name, Kind: related, Many: true})
	return k
}

func (k *Kind) addRelation(r Relation) {
	if r.Kind == nil {
		panic(fmt.Sprintf("relation %s.%s has no related kind", k.name, r.Name))
	}

	if _, ok := k.registry.Attribute(r.Name); ok {
		panic(fmt.Sprintf("relation %s.%s collides with an attribute of the same name", k.name, r.Name))
	}

	if _, ok := k.relations[r.Name]; ok {
		panic(fmt.Sprintf("relation %s.%s is declared more than once", k.name, r.Name))
	}

	k.relations[r.Name] = r
}
