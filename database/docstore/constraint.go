package docstore

import (
	"fmt"
	"reflect"
)

// Op is a where-clause operator.
type Op string

const (
	OpEqual            Op = "=="
	OpIn               Op = "in"
	OpArrayContains    Op = "array-contains"
	OpArrayContainsAny Op = "array-contains-any"
)

// Direction of an orderBy constraint.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// ConstraintKind tells which part of a query a Constraint configures.
type ConstraintKind int

const (
	KindWhere ConstraintKind = iota
	KindOrderBy
	KindLimit
)

// Constraint is one element of a query: a where triple, an ordering or a cap.
type Constraint struct {
	Kind      ConstraintKind
	Field     string
	Op        Op
	Value     any
	Direction Direction
	N         int
}

func Where(field string, op Op, value any) Constraint {
	return Constraint{Kind: KindWhere, Field: field, Op: op, Value: value}
}

func OrderBy(field string, dir Direction) Constraint {
	return Constraint{Kind: KindOrderBy, Field: field, Direction: dir}
}

func Limit(n int) Constraint {
	return Constraint{Kind: KindLimit, N: n}
}

// Disjunctive reports whether the where constraint matches on any of several values.
func (c Constraint) Disjunctive() bool {
	return c.Op == OpIn || c.Op == OpArrayContainsAny
}

func (c Constraint) String() string {
	switch c.Kind {
	case KindOrderBy:
		dir := "asc"
		if c.Direction == Desc {
			dir = "desc"
		}
		return fmt.Sprintf("orderBy(%s %s)", c.Field, dir)
	case KindLimit:
		return fmt.Sprintf("limit(%d)", c.N)
	default:
		return fmt.Sprintf("where(%s %s %v)", c.Field, c.Op, c.Value)
	}
}

// Query is the compiled form of a constraint list.
type Query struct {
	Filters []Constraint
	Orders  []Constraint
	// Limit is 0 when uncapped.
	Limit int
}

// Compile validates constraints and splits them by kind. A later limit
// replaces an earlier one.
func Compile(constraints []Constraint) (Query, error) {
	var q Query
	for _, c := range constraints {
		switch c.Kind {
		case KindWhere:
			if c.Field == "" {
				return Query{}, fmt.Errorf("docstore: where constraint without field")
			}
			switch c.Op {
			case OpEqual, OpArrayContains:
			case OpIn, OpArrayContainsAny:
				values, ok := toSlice(c.Value)
				if !ok {
					return Query{}, fmt.Errorf("docstore: %s on %q needs a list value, got %T", c.Op, c.Field, c.Value)
				}
				if len(values) == 0 {
					return Query{}, fmt.Errorf("docstore: %s on %q needs at least one value", c.Op, c.Field)
				}
			default:
				return Query{}, fmt.Errorf("docstore: unsupported operator %q", c.Op)
			}
			q.Filters = append(q.Filters, c)
		case KindOrderBy:
			if c.Field == "" {
				return Query{}, fmt.Errorf("docstore: orderBy constraint without field")
			}
			q.Orders = append(q.Orders, c)
		case KindLimit:
			if c.N < 0 {
				return Query{}, fmt.Errorf("docstore: negative limit %d", c.N)
			}
			q.Limit = c.N
		default:
			return Query{}, fmt.Errorf("docstore: unknown constraint kind %d", c.Kind)
		}
	}
	return q, nil
}

// toSlice flattens any slice or array value into []any.
func toSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
