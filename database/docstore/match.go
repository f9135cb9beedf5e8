package docstore

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Lookup resolves a dotted field path inside rec.
func Lookup(rec Record, path string) (any, bool) {
	var cur any = map[string]any(rec)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	}
	return nil, false
}

// Matches evaluates a single where constraint against rec in memory.
func Matches(rec Record, c Constraint) bool {
	field, ok := Lookup(rec, c.Field)
	if !ok {
		return false
	}
	switch c.Op {
	case OpEqual:
		return valuesEqual(field, c.Value)
	case OpIn:
		values, _ := toSlice(c.Value)
		for _, v := range values {
			if valuesEqual(field, v) {
				return true
			}
		}
	case OpArrayContains:
		elems, _ := toSlice(field)
		for _, e := range elems {
			if valuesEqual(e, c.Value) {
				return true
			}
		}
	case OpArrayContainsAny:
		elems, _ := toSlice(field)
		values, _ := toSlice(c.Value)
		for _, e := range elems {
			for _, v := range values {
				if valuesEqual(e, v) {
					return true
				}
			}
		}
	}
	return false
}

// MatchesAll reports whether rec satisfies every filter.
func MatchesAll(rec Record, filters []Constraint) bool {
	for _, f := range filters {
		if !Matches(rec, f) {
			return false
		}
	}
	return true
}

// SortRecords orders records by the orderBy constraints, breaking ties by
// document id ascending.
func SortRecords(records []Record, orders []Constraint) {
	slices.SortStableFunc(records, func(a, b Record) int {
		for _, o := range orders {
			av, _ := Lookup(a, o.Field)
			bv, _ := Lookup(b, o.Field)
			c := compareValues(av, bv)
			if o.Direction == Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID(), b.ID())
	})
}

func number(v any) (float64, bool) {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return cast.ToFloat64(v), true
	}
	return 0, false
}

func valuesEqual(a, b any) bool {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders nil first, then numbers, times, strings and booleans
// by value; anything else falls back to its printed form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
