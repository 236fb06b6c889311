package criteria

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/structsearch/structsearch/internal/schema"
	"github.com/structsearch/structsearch/internal/valuetype"
)

// Compiled is the finalized backend form of a criteria tree. It is handed
// by value to the executor and read-only from then on.
type Compiled struct {
	// Query is the composed backend query tree.
	Query query.Query

	// SortBy lists backend sort specs in OrderBy declaration order,
	// "-"-prefixed for descending.
	SortBy []string
}

// Compile folds the accumulated clauses left-to-right into a backend query
// tree. Clauses that contributed nothing are absent from the tree; a tree
// with zero contributed fragments compiles to a match-none query rather
// than an error.
func (b *Builder) Compile() (*Compiled, error) {
	if b.err != nil {
		return nil, b.err
	}
	d := NewDispatcher(b.reg)
	q, sorts := compileClauses(b.clauses, b.reg, d)
	if q == nil {
		q = query.NewMatchNoneQuery()
	}
	return &Compiled{Query: q, SortBy: sorts}, nil
}

func compileClauses(clauses []Clause, reg *schema.Registry, d *Dispatcher) (query.Query, []string) {
	var acc query.Query
	var sorts []string
	for _, c := range clauses {
		if c.Kind == KindOrderBy {
			sorts = append(sorts, sortSpec(reg, c))
			continue
		}
		frag, subSorts := compileClause(c, reg, d)
		sorts = append(sorts, subSorts...)
		acc = combine(acc, frag, c.Op)
	}
	return acc, sorts
}

func compileClause(c Clause, reg *schema.Registry, d *Dispatcher) (query.Query, []string) {
	switch c.Kind {
	case KindField:
		return fieldEquality(reg, c.Field, c.Value), nil

	case KindRange:
		return fieldRange(reg, c), nil

	case KindGrouped:
		var acc query.Query
		n := len(c.Fields)
		if len(c.Values) < n {
			n = len(c.Values)
		}
		for i := 0; i < n; i++ {
			frag := fieldEquality(reg, c.Fields[i], c.Values[i])
			acc = combine(acc, frag, c.Ops[i])
		}
		return acc, nil

	case KindGroup:
		return compileClauses(c.Sub, reg, d)

	case KindMatchAll:
		return query.NewMatchAllQuery(), nil

	case KindManaged:
		return d.Equality(c.Value, c.Fields, c.Params), nil

	case KindManagedRange:
		return d.Range(c.Lower, c.Upper, c.Fields, c.LowerIncl, c.UpperIncl, c.Params), nil

	default:
		return nil, nil
	}
}

// fieldEquality builds an equality fragment through the field's declared
// value type, falling back to a generic analyzed term match when the field
// has no registered type. Coercion failure contributes nothing.
func fieldEquality(reg *schema.Registry, field string, value any) query.Query {
	if reg != nil {
		if vt, ok := reg.Resolve(field); ok {
			cv, ok := vt.TryCoerce(value)
			if !ok {
				return nil
			}
			return vt.EqualityQuery(cv)
		}
	}
	mq := query.NewMatchQuery(fmt.Sprintf("%v", value))
	mq.SetField(field)
	return mq
}

// fieldRange builds a range fragment through the field's declared value
// type. Unregistered fields and non-range-capable types contribute nothing.
func fieldRange(reg *schema.Registry, c Clause) query.Query {
	if reg == nil {
		return nil
	}
	vt, ok := reg.Resolve(c.Field)
	if !ok {
		return nil
	}
	rc, ok := vt.(valuetype.RangeCapable)
	if !ok {
		return nil
	}
	lo, hi, ok := coerceBounds(vt, c.Lower, c.Upper)
	if !ok {
		return nil
	}
	return rc.RangeQuery(lo, hi, c.LowerIncl, c.UpperIncl)
}

// combine folds one fragment into the accumulated tree. Nil fragments leave
// the tree untouched: every call site handles "no contribution" here.
func combine(acc, frag query.Query, op BooleanOp) query.Query {
	if frag == nil {
		return acc
	}
	switch op {
	case Or:
		if acc == nil {
			return frag
		}
		return query.NewDisjunctionQuery([]query.Query{acc, frag})
	case Not:
		if acc == nil {
			acc = query.NewMatchAllQuery()
		}
		return query.NewBooleanQuery([]query.Query{acc}, nil, []query.Query{frag})
	default:
		if acc == nil {
			return frag
		}
		return query.NewConjunctionQuery([]query.Query{acc, frag})
	}
}

// sortSpec resolves an OrderBy clause to its backend sort spec. Sortable
// value types sort on their shadow field; everything else sorts on the
// primary field.
func sortSpec(reg *schema.Registry, c Clause) string {
	field := c.Field
	if reg != nil {
		if vt, ok := reg.Resolve(c.Field); ok {
			if s, ok := vt.(valuetype.Sortable); ok {
				field = s.SortField()
			}
		}
	}
	if c.Descending {
		return "-" + field
	}
	return field
}
