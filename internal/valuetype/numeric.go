package valuetype

import (
	"math"
	"strconv"

	"github.com/blevesearch/bleve/v2/search/query"
)

// Integer is the whole-number value type. The 32-bit variant rejects values
// outside the int32 range during coercion; the 64-bit variant accepts the
// full int64 range. Both index as backend numerics and are range-capable
// and sortable.
type Integer struct {
	field string
	store bool
	wide  bool
}

// NewInt creates a 32-bit integer value type bound to field.
func NewInt(field string, store bool) *Integer {
	return &Integer{field: field, store: store}
}

// NewLong creates a 64-bit integer value type bound to field.
func NewLong(field string, store bool) *Integer {
	return &Integer{field: field, store: store, wide: true}
}

func (n *Integer) Field() string { return n.field }
func (n *Integer) Kind() Kind    { return KindNumeric }
func (n *Integer) Store() bool   { return n.store }

// TryCoerce accepts integral Go numerics, floats with no fractional part,
// and decimal strings. The coerced representation is int64.
func (n *Integer) TryCoerce(raw any) (any, bool) {
	v, ok := coerceInt64(raw)
	if !ok {
		return nil, false
	}
	if !n.wide && (v < math.MinInt32 || v > math.MaxInt32) {
		return nil, false
	}
	return v, true
}

// EqualityQuery matches the exact numeric value via a degenerate
// inclusive range [v, v].
func (n *Integer) EqualityQuery(v any) query.Query {
	f := float64(v.(int64))
	return numericRange(n.field, &f, &f, true, true)
}

// RangeQuery bounds the field between two coerced values.
func (n *Integer) RangeQuery(lower, upper any, lowerInclusive, upperInclusive bool) query.Query {
	var lo, hi *float64
	if lower != nil {
		f := float64(lower.(int64))
		lo = &f
	}
	if upper != nil {
		f := float64(upper.(int64))
		hi = &f
	}
	return numericRange(n.field, lo, hi, lowerInclusive, upperInclusive)
}

func (n *Integer) IndexValue(v any) any { return v.(int64) }

// SortField returns the shadow sort field name.
func (n *Integer) SortField() string { return SortFieldPrefix + n.field }

// SortValue returns the value itself; integers are already sortable.
func (n *Integer) SortValue(v any) any { return v.(int64) }

// Float is the floating-point value type. The 32-bit variant narrows values
// through float32 precision during coercion. Range-capable and sortable.
type Float struct {
	field string
	store bool
	wide  bool
}

// NewFloat creates a single-precision float value type bound to field.
func NewFloat(field string, store bool) *Float {
	return &Float{field: field, store: store}
}

// NewDouble creates a double-precision float value type bound to field.
func NewDouble(field string, store bool) *Float {
	return &Float{field: field, store: store, wide: true}
}

func (n *Float) Field() string { return n.field }
func (n *Float) Kind() Kind    { return KindNumeric }
func (n *Float) Store() bool   { return n.store }

// TryCoerce accepts Go numerics and decimal strings. The coerced
// representation is float64.
func (n *Float) TryCoerce(raw any) (any, bool) {
	v, ok := coerceFloat64(raw)
	if !ok {
		return nil, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	if !n.wide {
		v = float64(float32(v))
	}
	return v, true
}

func (n *Float) EqualityQuery(v any) query.Query {
	f := v.(float64)
	return numericRange(n.field, &f, &f, true, true)
}

func (n *Float) RangeQuery(lower, upper any, lowerInclusive, upperInclusive bool) query.Query {
	var lo, hi *float64
	if lower != nil {
		f := lower.(float64)
		lo = &f
	}
	if upper != nil {
		f := upper.(float64)
		hi = &f
	}
	return numericRange(n.field, lo, hi, lowerInclusive, upperInclusive)
}

func (n *Float) IndexValue(v any) any { return v.(float64) }

func (n *Float) SortField() string { return SortFieldPrefix + n.field }

func (n *Float) SortValue(v any) any { return v.(float64) }

// numericRange builds a bleve numeric range fragment.
func numericRange(field string, lo, hi *float64, loIncl, hiIncl bool) query.Query {
	q := query.NewNumericRangeInclusiveQuery(lo, hi, &loIncl, &hiIncl)
	q.SetField(field)
	return q
}

// coerceInt64 converts integral representations to int64.
func coerceInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// floatToInt64 accepts floats that carry an integral value. JSON decoding
// hands over numbers as float64, so this path is common for attribute bags.
func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// coerceFloat64 converts numeric representations to float64.
func coerceFloat64(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Interface checks.
var (
	_ ValueType    = (*Integer)(nil)
	_ RangeCapable = (*Integer)(nil)
	_ Sortable     = (*Integer)(nil)
	_ ValueType    = (*Float)(nil)
	_ RangeCapable = (*Float)(nil)
	_ Sortable     = (*Float)(nil)
)
