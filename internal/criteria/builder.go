package criteria

import (
	"fmt"

	"github.com/structsearch/structsearch/internal/errors"
	"github.com/structsearch/structsearch/internal/schema"
)

// Builder accumulates clauses into a query tree. Every chainable call
// returns the builder, so further clauses may always be appended; the tree
// is finalized only when Compile hands it to the backend executor.
//
// A builder is owned by one goroutine for the duration of one build; it
// performs no I/O and needs no locking.
type Builder struct {
	reg       *schema.Registry
	defaultOp BooleanOp
	pending   *BooleanOp
	clauses   []Clause
	err       error
}

// New creates a builder whose sibling clauses combine with And unless an
// explicit combinator is chained in between.
func New(reg *schema.Registry) *Builder {
	return &Builder{reg: reg, defaultOp: And}
}

// newScoped creates a nested builder scope with its own default combinator.
func newScoped(reg *schema.Registry, defaultOp BooleanOp) *Builder {
	return &Builder{reg: reg, defaultOp: defaultOp}
}

// Registry returns the field-type registry the builder resolves against.
func (b *Builder) Registry() *schema.Registry { return b.reg }

// Err returns the first configuration error recorded during building,
// or nil. Data-dependent mismatches never set it.
func (b *Builder) Err() error { return b.err }

// Clauses returns a copy of the accumulated clause list.
func (b *Builder) Clauses() []Clause {
	out := make([]Clause, len(b.clauses))
	copy(out, b.clauses)
	return out
}

// And makes the next clause combine conjunctively.
func (b *Builder) And() *Builder {
	op := And
	b.pending = &op
	return b
}

// Or makes the next clause combine disjunctively.
func (b *Builder) Or() *Builder {
	op := Or
	b.pending = &op
	return b
}

// Not makes the next clause exclude its matches.
func (b *Builder) Not() *Builder {
	op := Not
	b.pending = &op
	return b
}

// nextOp consumes the pending combinator, falling back to the scope default.
func (b *Builder) nextOp() BooleanOp {
	if b.pending != nil {
		op := *b.pending
		b.pending = nil
		return op
	}
	return b.defaultOp
}

func (b *Builder) append(c Clause) *Builder {
	c.Op = b.nextOp()
	b.clauses = append(b.clauses, c)
	return b
}

// Field appends an equality match on one field. The field's declared value
// type owns coercion and fragment construction; an unregistered field falls
// back to a generic term equality rather than failing.
func (b *Builder) Field(name string, value any) *Builder {
	return b.append(Clause{Kind: KindField, Field: name, Value: value})
}

// Range appends a range match on one field. Nil bounds are unbounded on
// that side. Fields whose type is not range-capable contribute nothing.
func (b *Builder) Range(name string, lower, upper any, lowerInclusive, upperInclusive bool) *Builder {
	return b.append(Clause{
		Kind:      KindRange,
		Field:     name,
		Lower:     lower,
		Upper:     upper,
		LowerIncl: lowerInclusive,
		UpperIncl: upperInclusive,
	})
}

// MatchAll appends a clause matching every document.
func (b *Builder) MatchAll() *Builder {
	return b.append(Clause{Kind: KindMatchAll})
}

// OrderBy appends a sort directive on a field. Sortable value types resolve
// to their shadow sort field; other fields sort on the primary field.
func (b *Builder) OrderBy(field string, descending bool) *Builder {
	return b.append(Clause{Kind: KindOrderBy, Field: field, Descending: descending})
}

// Group creates a nested builder scope, populates it through fn, and wraps
// the resulting subtree as a single clause. defaultOp applies to clauses
// within the group that don't chain their own combinator.
func (b *Builder) Group(fn func(*Builder), defaultOp BooleanOp) *Builder {
	inner := newScoped(b.reg, defaultOp)
	fn(inner)
	if inner.err != nil && b.err == nil {
		b.err = inner.err
	}
	return b.append(Clause{Kind: KindGroup, Sub: inner.clauses})
}

// GroupedAnd appends equality matches over a field set, conjunctively
// combined within the group.
func (b *Builder) GroupedAnd(fields []string, values ...any) *Builder {
	return b.grouped(And, fields, values)
}

// GroupedOr appends equality matches over a field set, disjunctively
// combined within the group.
func (b *Builder) GroupedOr(fields []string, values ...any) *Builder {
	return b.grouped(Or, fields, values)
}

// GroupedNot appends equality matches over a field set, each excluded.
func (b *Builder) GroupedNot(fields []string, values ...any) *Builder {
	return b.grouped(Not, fields, values)
}

// grouped zips fields and values into one grouped clause. A single value
// broadcasts over all fields; otherwise pairs zip to the shorter length.
func (b *Builder) grouped(op BooleanOp, fields []string, values []any) *Builder {
	if len(fields) == 0 {
		return b
	}
	vals := broadcast(fields, values)
	ops := make([]BooleanOp, len(fields))
	for i := range ops {
		ops[i] = op
	}
	return b.append(Clause{Kind: KindGrouped, Fields: fields, Values: vals, Ops: ops})
}

// GroupedFlexible appends equality matches over a field set with an
// explicit per-field operator sequence. The three slices must run parallel;
// a length mismatch is a programming mistake and fails fast.
func (b *Builder) GroupedFlexible(fields []string, ops []BooleanOp, values ...any) *Builder {
	if len(ops) != len(fields) || len(values) != len(fields) {
		if b.err == nil {
			b.err = errors.ArityError(fmt.Sprintf(
				"flexible group wants parallel slices: %d fields, %d operators, %d values",
				len(fields), len(ops), len(values)))
		}
		return b
	}
	if len(fields) == 0 {
		return b
	}
	opsCopy := make([]BooleanOp, len(ops))
	copy(opsCopy, ops)
	return b.append(Clause{Kind: KindGrouped, Fields: fields, Values: values, Ops: opsCopy})
}

// ManagedQuery appends a query expressed as a plain value against named
// fields, resolved through each field's value type. A nil or empty field
// list targets all registered fields.
func (b *Builder) ManagedQuery(value any, fields []string, params ManagedParams) *Builder {
	return b.append(Clause{Kind: KindManaged, Value: value, Fields: fields, Params: params})
}

// ManagedRangeQuery appends a range expressed as plain bounds against named
// fields. Fields lacking the range capability are skipped.
func (b *Builder) ManagedRangeQuery(lower, upper any, fields []string, lowerInclusive, upperInclusive bool, params ManagedParams) *Builder {
	return b.append(Clause{
		Kind:      KindManagedRange,
		Lower:     lower,
		Upper:     upper,
		Fields:    fields,
		LowerIncl: lowerInclusive,
		UpperIncl: upperInclusive,
		Params:    params,
	})
}

// broadcast expands a single value over all fields, or zips pairwise,
// truncating to the shorter side.
func broadcast(fields []string, values []any) []any {
	if len(values) == 1 && len(fields) > 1 {
		out := make([]any, len(fields))
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	if len(values) > len(fields) {
		return values[:len(fields)]
	}
	return values
}
