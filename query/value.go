package query

import (
	"strconv"
	"strings"
)

// ValueKind identifies the runtime type of a Value
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueList
)

// Value is a closed tagged union of the result cell types: null, string,
// number, boolean, or list of strings.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []string
}

// Null returns the null value
func Null() Value { return Value{Kind: ValueNull} }

// Str returns a string value
func Str(s string) Value { return Value{Kind: ValueString, Str: s} }

// Num returns a number value
func Num(f float64) Value { return Value{Kind: ValueNumber, Num: f} }

// Int returns a number value from an integer
func Int(i int64) Value { return Value{Kind: ValueNumber, Num: float64(i)} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// List returns a list value
func List(items []string) Value { return Value{Kind: ValueList, List: items} }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return v.Kind == ValueNull }

// Text renders the value for display. Null renders empty, whole numbers
// render without a fraction, lists join with ", ".
func (v Value) Text() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		if v.Num == float64(int64(v.Num)) {
			return strconv.FormatInt(int64(v.Num), 10)
		}
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueList:
		return strings.Join(v.List, ", ")
	default:
		return ""
	}
}

// ResultSet is an ordered column list plus rows of values aligned to it.
type ResultSet struct {
	Columns []string
	Rows    [][]Value
}

// ColumnIndex returns the position of a column label, or -1 if absent
func (rs *ResultSet) ColumnIndex(label string) int {
	for i, col := range rs.Columns {
		if col == label {
			return i
		}
	}
	return -1
}
