package criteria

import (
	"log/slog"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/structsearch/structsearch/internal/schema"
	"github.com/structsearch/structsearch/internal/valuetype"
)

// Dispatcher fans a managed query out over target fields. For each field it
// resolves the declared value type and asks it to produce a fragment;
// fields with no registered type, failed coercions, and missing range
// capability are skipped. Per-field fragments combine with Or.
//
// The dispatcher performs no I/O and is deterministic: identical inputs
// yield structurally identical trees.
type Dispatcher struct {
	reg *schema.Registry
}

// NewDispatcher creates a dispatcher resolving against reg.
func NewDispatcher(reg *schema.Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Equality builds the Or-combined equality fragments for raw across fields.
// A nil or empty field list targets all registered fields. Returns nil when
// no field contributed a fragment.
func (d *Dispatcher) Equality(raw any, fields []string, params ManagedParams) query.Query {
	if d.reg == nil {
		return nil
	}
	if len(fields) == 0 {
		fields = d.reg.Fields()
	}

	var frags []query.Query
	for _, field := range fields {
		vt, ok := d.reg.Resolve(field)
		if !ok {
			slog.Debug("managed_query_field_skipped",
				slog.String("field", field),
				slog.String("reason", "no registered value type"))
			continue
		}
		cv, ok := vt.TryCoerce(raw)
		if !ok {
			slog.Debug("managed_query_coercion_failed",
				slog.String("field", field))
			continue
		}
		frags = append(frags, applyParams(vt.EqualityQuery(cv), params))
	}
	return disjoin(frags)
}

// Range builds the Or-combined range fragments for the given bounds across
// fields. Nil bounds are unbounded. Fields whose value type lacks the range
// capability are skipped, as are fields where a provided bound fails to
// coerce. Returns nil when no field contributed a fragment.
func (d *Dispatcher) Range(lower, upper any, fields []string, lowerInclusive, upperInclusive bool, params ManagedParams) query.Query {
	if d.reg == nil {
		return nil
	}
	if len(fields) == 0 {
		fields = d.reg.Fields()
	}

	var frags []query.Query
	for _, field := range fields {
		vt, ok := d.reg.Resolve(field)
		if !ok {
			slog.Debug("managed_range_field_skipped",
				slog.String("field", field),
				slog.String("reason", "no registered value type"))
			continue
		}
		rc, ok := vt.(valuetype.RangeCapable)
		if !ok {
			slog.Debug("managed_range_field_skipped",
				slog.String("field", field),
				slog.String("reason", "value type not range-capable"))
			continue
		}
		lo, hi, ok := coerceBounds(vt, lower, upper)
		if !ok {
			slog.Debug("managed_range_coercion_failed",
				slog.String("field", field))
			continue
		}
		frags = append(frags, applyParams(rc.RangeQuery(lo, hi, lowerInclusive, upperInclusive), params))
	}
	return disjoin(frags)
}

// coerceBounds coerces each provided bound through the field's value type.
// A nil bound stays nil (unbounded); a bound that fails coercion rejects
// the whole fragment.
func coerceBounds(vt valuetype.ValueType, lower, upper any) (lo, hi any, ok bool) {
	if lower != nil {
		lo, ok = vt.TryCoerce(lower)
		if !ok {
			return nil, nil, false
		}
	}
	if upper != nil {
		hi, ok = vt.TryCoerce(upper)
		if !ok {
			return nil, nil, false
		}
	}
	return lo, hi, true
}

// disjoin Or-combines fragments, avoiding a wrapper for single fragments.
func disjoin(frags []query.Query) query.Query {
	switch len(frags) {
	case 0:
		return nil
	case 1:
		return frags[0]
	default:
		return query.NewDisjunctionQuery(frags)
	}
}

// applyParams passes managed-query hints through to the fragment where the
// fragment kind supports them.
func applyParams(q query.Query, params ManagedParams) query.Query {
	if params.Fuzziness > 0 {
		if mq, ok := q.(*query.MatchQuery); ok {
			mq.SetFuzziness(params.Fuzziness)
		}
	}
	if params.Boost > 0 {
		if bq, ok := q.(query.BoostableQuery); ok {
			bq.SetBoost(params.Boost)
		}
	}
	return q
}
