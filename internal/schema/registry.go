// Package schema maps field names to declared value types.
//
// The registry is populated once, single-threaded, at index construction
// and then serves concurrent resolve calls for the life of the searcher.
// A field with no binding is not an error: downstream callers treat an
// absent type as "produce no query fragment".
package schema

import (
	"sort"
	"sync"

	"github.com/structsearch/structsearch/internal/valuetype"
)

// Factory produces a per-field value type instance. Multiple fields may
// share one descriptor; the factory closes over per-type configuration
// (store flag, date resolution) and binds each instance to its field name.
type Factory func(field string) valuetype.ValueType

// Descriptor declares a value type available for binding to fields.
type Descriptor struct {
	// Key is the type key as written in schema declarations ("text",
	// "int", "date", ...).
	Key string

	// New produces an instance bound to the given field name.
	New Factory
}

// FieldDefinition is an immutable field-to-type binding.
type FieldDefinition struct {
	Name    string
	TypeKey string
}

// Registry holds the field-to-value-type bindings for one index.
type Registry struct {
	mu    sync.RWMutex
	types map[string]valuetype.ValueType
	defs  map[string]FieldDefinition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]valuetype.ValueType),
		defs:  make(map[string]FieldDefinition),
	}
}

// Register binds a field name to a value type descriptor. Duplicate
// registration for the same name overwrites the previous binding.
func (r *Registry) Register(field string, d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[field] = d.New(field)
	r.defs[field] = FieldDefinition{Name: field, TypeKey: d.Key}
}

// Resolve returns the value type bound to field. ok=false means the field
// has no declared type and must contribute nothing to queries.
func (r *Registry) Resolve(field string) (valuetype.ValueType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vt, ok := r.types[field]
	return vt, ok
}

// Fields returns all registered field names in sorted order.
func (r *Registry) Fields() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fields := make([]string, 0, len(r.types))
	for f := range r.types {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Definitions returns the registered field definitions sorted by name.
func (r *Registry) Definitions() []FieldDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]FieldDefinition, 0, len(r.defs))
	for _, d := range r.defs {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Len returns the number of registered fields.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
