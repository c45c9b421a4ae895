package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Type is the declared type of a record field.
// The set is closed: every Value carries one of these.
type Type int

const (
	// Integer is a 32-bit signed integer.
	Integer Type = iota + 1
	// Boolean is a true/false flag.
	Boolean
	// Text is an arbitrary string.
	Text
	// Timestamp is an absolute instant.
	Timestamp
	// Float is an IEEE-754 double.
	Float
)

// String returns the lower-case name of the type.
func (t Type) String() string {
	switch t {
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case Text:
		return "text"
	case Timestamp:
		return "timestamp"
	case Float:
		return "floating-point"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// Ordered reports whether gt/lt are defined for the type.
func (t Type) Ordered() bool {
	return t == Integer || t == Float || t == Timestamp
}

// Operator is a comparison key inside a Clause.
type Operator string

const (
	// Eq matches when the field equals the value.
	Eq Operator = "eq"
	// Gt matches when the field is strictly greater than the value.
	Gt Operator = "gt"
	// Lt matches when the field is strictly less than the value.
	Lt Operator = "lt"
	// Like matches when the text field contains the value (ordinal, case-sensitive).
	Like Operator = "like"
	// In matches when the field equals any element of the value sequence.
	In Operator = "in"
)

// Known reports whether the operator is part of the supported set.
func (o Operator) Known() bool {
	switch o {
	case Eq, Gt, Lt, Like, In:
		return true
	}
	return false
}

// Clause maps operator keys to raw values for a single field.
//
// Example:
//
//	filter.Clause{"gt": 1, "lt": 3}
type Clause map[string]any

// Model is the request-side description of a filter: field name -> Clause.
// A Model is read-only once decoded.
//
// Example:
//
//	filter.Model{
//	    "id":        {"gt": 1, "lt": 3},
//	    "completed": {"eq": true},
//	}
type Model map[string]Clause

// ParseModel decodes a JSON filter body. Numbers are kept as json.Number so
// integers survive without a float round-trip.
func ParseModel(data []byte) (Model, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m Model
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode filter: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to decode filter: trailing data after object")
	}
	return m, nil
}

// Value is a coerced, typed scalar. Values are comparable and can be used as
// map keys. Timestamps are held as Unix seconds plus a nanosecond remainder,
// truncated to microseconds, so equal instants are equal Values regardless of
// the location they were parsed in and any time.Time round-trips through
// Postgres or MariaDB unchanged.
type Value struct {
	typ  Type
	i    int64
	nsec int32
	f    float64
	s    string
	b    bool
}

// IntValue builds an Integer value.
func IntValue(v int32) Value { return Value{typ: Integer, i: int64(v)} }

// BoolValue builds a Boolean value.
func BoolValue(v bool) Value { return Value{typ: Boolean, b: v} }

// TextValue builds a Text value.
func TextValue(v string) Value { return Value{typ: Text, s: v} }

// TimeValue builds a Timestamp value. Precision below a microsecond is dropped,
// matching what the SQL stores keep.
func TimeValue(v time.Time) Value {
	v = v.Truncate(time.Microsecond)
	return Value{typ: Timestamp, i: v.Unix(), nsec: int32(v.Nanosecond())}
}

// FloatValue builds a Float value.
func FloatValue(v float64) Value { return Value{typ: Float, f: v} }

// Type returns the declared type the value was coerced to.
func (v Value) Type() Type { return v.typ }

// Any returns the value as a plain Go value: int32, bool, string, time.Time or float64.
// Used for SQL arguments and logging.
func (v Value) Any() any {
	switch v.typ {
	case Integer:
		return int32(v.i)
	case Boolean:
		return v.b
	case Text:
		return v.s
	case Timestamp:
		return v.instant()
	case Float:
		return v.f
	}
	return nil
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.typ {
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Boolean:
		return strconv.FormatBool(v.b)
	case Text:
		return strconv.Quote(v.s)
	case Timestamp:
		return v.instant().Format(time.RFC3339Nano)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return "<invalid>"
}

// compare orders two values of the same ordered type: -1, 0 or +1.
func (v Value) compare(o Value) int {
	switch v.typ {
	case Integer, Timestamp:
		switch {
		case v.i < o.i:
			return -1
		case v.i > o.i:
			return 1
		case v.nsec < o.nsec:
			return -1
		case v.nsec > o.nsec:
			return 1
		}
		return 0
	case Float:
		switch {
		case v.f < o.f:
			return -1
		case v.f > o.f:
			return 1
		}
		return 0
	}
	return 0
}

func (v Value) instant() time.Time {
	return time.Unix(v.i, int64(v.nsec)).UTC()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
