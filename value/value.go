// Package value implements the typed value model shared by the catalog,
// resolver, predicate evaluator and query executor: INT, CHAR(n), DATE and
// NULL, with literal parsing, insert-time coercion, and comparability rules.
package value

import (
	"fmt"
	"time"
)

// Kind is a column/value's declared data type.
type Kind int

const (
	KindInt Kind = iota
	KindChar
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "INT"
	case KindChar:
		return "CHAR"
	case KindDate:
		return "DATE"
	default:
		return "UNKNOWN"
	}
}

// Type is a column's full declared type: a Kind plus, for CHAR, its
// declared maximum length.
type Type struct {
	Kind Kind
	Len  int // only meaningful when Kind == KindChar
}

func Int() Type        { return Type{Kind: KindInt} }
func Date() Type       { return Type{Kind: KindDate} }
func Char(n int) Type  { return Type{Kind: KindChar, Len: n} }
func (t Type) String() string {
	if t.Kind == KindChar {
		return fmt.Sprintf("CHAR(%d)", t.Len)
	}
	return t.Kind.String()
}

const dateLayout = "2006-01-02"

// CalendarDate is a calendar date with day granularity, ordered lexically
// the same way its YYYY-MM-DD text form is.
type CalendarDate struct {
	t time.Time
}

func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return CalendarDate{t: t}, nil
}

func (d CalendarDate) String() string { return d.t.Format(dateLayout) }
func (d CalendarDate) Before(o CalendarDate) bool { return d.t.Before(o.t) }
func (d CalendarDate) Equal(o CalendarDate) bool  { return d.t.Equal(o.t) }

// Value is a single typed, possibly-null tuple slot.
type Value struct {
	null bool
	kind Kind
	i    int64
	s    string
	d    CalendarDate
}

func Null(kind Kind) Value    { return Value{null: true, kind: kind} }
func NewInt(i int64) Value    { return Value{kind: KindInt, i: i} }
func NewChar(s string) Value  { return Value{kind: KindChar, s: s} }
func NewDate(d CalendarDate) Value { return Value{kind: KindDate, d: d} }

func (v Value) IsNull() bool { return v.null }
func (v Value) Kind() Kind   { return v.kind }
func (v Value) Int() int64   { return v.i }
func (v Value) Str() string  { return v.s }
func (v Value) Date() CalendarDate { return v.d }

// Render formats a value the way the output formatter displays it: dates
// as YYYY-MM-DD, nulls as the literal string "NULL".
func (v Value) Render() string {
	if v.null {
		return "NULL"
	}
	switch v.kind {
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindChar:
		return v.s
	case KindDate:
		return v.d.String()
	}
	return ""
}
