// Package criteria implements the fluent query-criteria builder and the
// managed-query dispatcher that translate typed field criteria into a
// backend query tree.
//
// Clause ordering is significant: boolean combinators apply left-to-right
// to the accumulated tree. Data-dependent mismatches (unregistered field,
// failed coercion, missing range capability) contribute nothing to the
// tree; only builder-construction mistakes are hard errors.
package criteria

// BooleanOp combines a clause with the preceding clauses in its scope.
type BooleanOp int

const (
	And BooleanOp = iota
	Or
	Not
)

// String returns the operator name for logging and error messages.
func (op BooleanOp) String() string {
	switch op {
	case Or:
		return "or"
	case Not:
		return "not"
	default:
		return "and"
	}
}

// ClauseKind tags a clause node.
type ClauseKind int

const (
	KindField ClauseKind = iota
	KindRange
	KindGrouped
	KindGroup
	KindOrderBy
	KindMatchAll
	KindManaged
	KindManagedRange
)

// ManagedParams carries backend-specific hints passed through unmodified
// to value-type query construction.
type ManagedParams struct {
	// Fuzziness is the edit-distance allowance for analyzed text fragments.
	Fuzziness int

	// Boost scales the scoring weight of every produced fragment.
	// Zero means backend default.
	Boost float64
}

// Clause is one node of the composed query tree. Op states how the clause
// combines with the preceding clause in its parent list; the remaining
// members are populated per Kind.
type Clause struct {
	Op   BooleanOp
	Kind ClauseKind

	// Field equality / range / order-by.
	Field      string
	Value      any
	Lower      any
	Upper      any
	LowerIncl  bool
	UpperIncl  bool
	Descending bool

	// Grouped field sets. Ops is populated for flexible groups only and
	// runs parallel to Fields.
	Fields []string
	Values []any
	Ops    []BooleanOp

	// Nested sub-group.
	Sub []Clause

	// Managed queries.
	Params ManagedParams
}
