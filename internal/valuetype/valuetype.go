// Package valuetype implements the pluggable per-field value types that own
// coercion and backend query construction for structured document search.
//
// A value type instance is bound to exactly one field name for its lifetime.
// Coercion never fails loudly: TryCoerce returns ok=false and the caller
// treats the value as contributing nothing to the query. Range support and
// sort support are optional capabilities expressed as separate interfaces.
package valuetype

import (
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2/search/query"
)

// SortFieldPrefix names the shadow backend field that holds the normalized
// sortable form of a range-capable field. The indexing pipeline must emit
// this second field for every sortable type; OrderBy clauses resolve to it.
const SortFieldPrefix = "sort_"

// Kind is the backend mapping hint for a value type.
type Kind string

const (
	KindText    Kind = "text"
	KindKeyword Kind = "keyword"
	KindNumeric Kind = "numeric"
	KindDate    Kind = "date"
)

// ValueType is the pluggable unit owning coercion and query construction
// for one field's declared data kind.
type ValueType interface {
	// Field returns the field name this instance is bound to.
	Field() string

	// Kind returns the backend mapping hint.
	Kind() Kind

	// Store reports whether the field value is stored for retrieval.
	Store() bool

	// TryCoerce converts a raw attribute value into the typed representation.
	// ok=false means the value cannot be represented and must contribute
	// nothing to a query or an indexed document.
	TryCoerce(raw any) (any, bool)

	// EqualityQuery builds a term-level query fragment matching a coerced value.
	EqualityQuery(v any) query.Query

	// IndexValue returns the backend representation emitted at index time
	// for a coerced value.
	IndexValue(v any) any
}

// RangeCapable is implemented by value types that can bound a field between
// two values. Either bound may be nil, meaning unbounded on that side.
// Bounds are coerced values.
type RangeCapable interface {
	RangeQuery(lower, upper any, lowerInclusive, upperInclusive bool) query.Query
}

// Sortable is implemented by value types that emit a shadow sort field
// alongside the primary field.
type Sortable interface {
	// SortField returns the shadow backend field name.
	SortField() string

	// SortValue returns the normalized sortable form of a coerced value.
	SortValue(v any) any
}

// Text is the analyzed full-text value type. It is not range-capable.
type Text struct {
	field string
	store bool
}

// NewText creates a text value type bound to field.
func NewText(field string, store bool) *Text {
	return &Text{field: field, store: store}
}

func (t *Text) Field() string { return t.field }
func (t *Text) Kind() Kind    { return KindText }
func (t *Text) Store() bool   { return t.store }

// TryCoerce accepts strings and stringifiable scalars.
func (t *Text) TryCoerce(raw any) (any, bool) {
	return coerceString(raw)
}

// EqualityQuery builds an analyzed match query against the field.
func (t *Text) EqualityQuery(v any) query.Query {
	mq := query.NewMatchQuery(v.(string))
	mq.SetField(t.field)
	return mq
}

func (t *Text) IndexValue(v any) any { return v }

// Keyword is the exact-match text value type. Values are matched verbatim
// (keyword analyzer), which makes it the natural type for facet fields.
type Keyword struct {
	field string
	store bool
}

// NewKeyword creates a keyword value type bound to field.
func NewKeyword(field string, store bool) *Keyword {
	return &Keyword{field: field, store: store}
}

func (k *Keyword) Field() string { return k.field }
func (k *Keyword) Kind() Kind    { return KindKeyword }
func (k *Keyword) Store() bool   { return k.store }

func (k *Keyword) TryCoerce(raw any) (any, bool) {
	return coerceString(raw)
}

// EqualityQuery builds a verbatim term query against the field.
func (k *Keyword) EqualityQuery(v any) query.Query {
	tq := query.NewTermQuery(v.(string))
	tq.SetField(k.field)
	return tq
}

func (k *Keyword) IndexValue(v any) any { return v }

// coerceString renders scalars to their canonical string form.
// Composite values (maps, slices) are rejected.
func coerceString(raw any) (any, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case bool:
		return strconv.FormatBool(v), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), true
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return nil, false
	}
}

// Interface checks.
var (
	_ ValueType = (*Text)(nil)
	_ ValueType = (*Keyword)(nil)
)
