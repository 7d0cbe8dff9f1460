package changes

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"slices"
)

// Tracker records which attributes of a single resource differ from the values
// last synced with the remote service. It is not safe for concurrent use.
type Tracker struct {
	synced map[string]any
	dirty  map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		synced: map[string]any{},
		dirty:  map[string]struct{}{},
	}
}

// Sync makes values the new baseline and empties the dirty set.
func (t *Tracker) Sync(values map[string]any) {
	t.synced = maps.Clone(values)
	if t.synced == nil {
		t.synced = map[string]any{}
	}
	t.Clear()
}

// MarkChanged records an assignment of newValue to an attribute currently
// holding currentValue. Assigning the current value is a no-op. Otherwise the
// attribute is dirty for as long as it differs from the synced baseline.
func (t *Tracker) MarkChanged(name string, newValue, currentValue any) {
	if Equal(newValue, currentValue) {
		return
	}

	if Equal(newValue, t.synced[name]) {
		delete(t.dirty, name)
		return
	}

	t.dirty[name] = struct{}{}
}

func (t *Tracker) IsDirty() bool {
	return len(t.dirty) > 0
}

// DirtyFields returns the names of all changed attributes in sorted order.
func (t *Tracker) DirtyFields() []string {
	return slices.Sorted(maps.Keys(t.dirty))
}

func (t *Tracker) Clear() {
	t.dirty = map[string]struct{}{}
}

// Equal compares two attribute values by their wire form. Values decoded from
// JSON are float64 and []any, so 3 equals float64(3) and []string{"a"} equals
// []any{"a"}.
func Equal(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}

	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}

	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}

	return bytes.Equal(ja, jb)
}
