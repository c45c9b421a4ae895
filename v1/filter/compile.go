package filter

import (
	"errors"
	"fmt"
)

// SkipReason says why a part of a Model was ignored.
type SkipReason int

const (
	// UnknownField means the field name did not resolve against the schema.
	UnknownField SkipReason = iota + 1
	// UnknownOperator means the operator key is not one of eq, gt, lt, like, in.
	UnknownOperator
)

func (r SkipReason) String() string {
	switch r {
	case UnknownField:
		return "unknown field"
	case UnknownOperator:
		return "unknown operator"
	}
	return "unknown"
}

// Skip records a tolerated part of the request. Operator is empty when the
// whole clause was skipped.
type Skip struct {
	Field    string
	Operator string
	Reason   SkipReason
}

func (s Skip) String() string {
	if s.Operator == "" {
		return fmt.Sprintf("%s %q", s.Reason, s.Field)
	}
	return fmt.Sprintf("%s %q on field %q", s.Reason, s.Operator, s.Field)
}

// Condition is one compiled atomic test. Value is set for single-value
// operators; Set holds the de-duplicated members for In.
type Condition struct {
	Field    string
	Column   string
	Type     Type
	Operator Operator
	Value    Value
	Set      []Value
}

type condition[T any] struct {
	Condition
	get     func(T) Value
	members map[Value]struct{}
}

// Compiled is a validated, typed filter ready to be evaluated against records
// of type T or pushed down to SQL. It is immutable and safe for concurrent use.
type Compiled[T any] struct {
	schema  *Schema[T]
	conds   []condition[T]
	skipped []Skip
}

// Compile validates a Model against a schema and turns it into a Compiled filter.
//
// Unknown fields and unknown operators are skipped and reported by Skipped.
// Every other problem is a hard error: all of them are collected as
// *ConditionError values and returned together via errors.Join, ordered by
// field name and then operator key.
func Compile[T any](schema *Schema[T], model Model) (*Compiled[T], error) {
	if schema == nil {
		return nil, errors.New("filter: nil schema")
	}

	c := &Compiled[T]{schema: schema}
	var errs []error

	for _, fieldName := range sortedKeys(model) {
		field, ok := schema.Resolve(fieldName)
		if !ok {
			c.skipped = append(c.skipped, Skip{Field: fieldName, Reason: UnknownField})
			continue
		}

		clauseMap := model[fieldName]
		for _, key := range sortedKeys(clauseMap) {
			op := Operator(key)
			if !op.Known() {
				c.skipped = append(c.skipped, Skip{Field: fieldName, Operator: key, Reason: UnknownOperator})
				continue
			}

			cond, err := compileCondition(field, op, clauseMap[key])
			if err != nil {
				err.Field = fieldName
				err.Operator = key
				errs = append(errs, err)
				continue
			}
			c.conds = append(c.conds, cond)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// MustCompile is like Compile but panics on error. Intended for static filters
// in tests and fixtures.
func MustCompile[T any](schema *Schema[T], model Model) *Compiled[T] {
	c, err := Compile(schema, model)
	if err != nil {
		panic(err)
	}
	return c
}

func compileCondition[T any](field Field[T], op Operator, raw any) (condition[T], *ConditionError) {
	fail := func(sentinel, cause error) *ConditionError {
		return &ConditionError{Type: field.Type, Err: sentinel, Cause: cause}
	}

	if !typeSupported(field.Type) {
		return condition[T]{}, fail(ErrUnsupportedType, nil)
	}
	switch op {
	case Gt, Lt:
		if !field.Type.Ordered() {
			return condition[T]{}, fail(ErrIncomparableOperator, nil)
		}
	case Like:
		if field.Type != Text {
			return condition[T]{}, fail(ErrInapplicableOperator, nil)
		}
	}

	cond := condition[T]{
		Condition: Condition{
			Field:    field.Name,
			Column:   field.Column,
			Type:     field.Type,
			Operator: op,
		},
		get: field.get,
	}

	if op == In {
		set, err := CoerceSet(raw, field.Type)
		if err != nil {
			return condition[T]{}, coercionFailure(field.Type, err)
		}
		cond.Set = set
		cond.members = make(map[Value]struct{}, len(set))
		for _, v := range set {
			cond.members[v] = struct{}{}
		}
		return cond, nil
	}

	v, err := Coerce(raw, field.Type)
	if err != nil {
		return condition[T]{}, coercionFailure(field.Type, err)
	}
	cond.Value = v
	return cond, nil
}

// coercionFailure splits an error from Coerce or CoerceSet into sentinel and cause.
func coercionFailure(typ Type, err error) *ConditionError {
	var ce *coercionError
	if errors.As(err, &ce) {
		return &ConditionError{Type: typ, Err: ErrCoercion, Cause: ce.cause}
	}
	return &ConditionError{Type: typ, Err: err}
}

// Conditions returns the compiled tests in evaluation order.
func (c *Compiled[T]) Conditions() []Condition {
	out := make([]Condition, len(c.conds))
	for i, cond := range c.conds {
		out[i] = cond.Condition
	}
	return out
}

// Skipped returns the parts of the Model that were ignored.
func (c *Compiled[T]) Skipped() []Skip {
	return append([]Skip(nil), c.skipped...)
}

// Empty reports whether the filter accepts every record.
func (c *Compiled[T]) Empty() bool {
	return c == nil || len(c.conds) == 0
}

// Schema returns the schema the filter was compiled against.
func (c *Compiled[T]) Schema() *Schema[T] { return c.schema }
