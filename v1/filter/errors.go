package filter

import (
	"errors"
	"fmt"
)

// Hard errors raised while compiling a Model. Unknown fields and unknown
// operators are not errors; they are reported through Compiled.Skipped.
var (
	// ErrCoercion is returned when a raw value cannot be converted to the field's declared type.
	ErrCoercion = errors.New("value cannot be coerced to the field type")

	// ErrUnsupportedType is returned when a schema declares a type outside the supported set.
	// It points at a broken schema, not at a bad request.
	ErrUnsupportedType = errors.New("unsupported field type")

	// ErrIncomparableOperator is returned when gt/lt target a field without a total order.
	ErrIncomparableOperator = errors.New("operator requires an ordered field type")

	// ErrInapplicableOperator is returned when like targets a non-text field.
	ErrInapplicableOperator = errors.New("operator is not applicable to the field type")
)

// ConditionError describes a single field/operator pair that failed to compile.
type ConditionError struct {
	// Field is the field name as written in the request.
	Field string
	// Operator is the operator key as written in the request.
	Operator string
	// Type is the declared type of the resolved field.
	Type Type
	// Err is one of the package sentinels.
	Err error
	// Cause is the underlying parse error, if any.
	Cause error
}

func (e *ConditionError) Error() string {
	msg := fmt.Sprintf("filter %q/%q (%s): %v", e.Field, e.Operator, e.Type, e.Err)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *ConditionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// coercionError carries the reason a raw value did not fit its type.
type coercionError struct {
	cause error
}

func (e *coercionError) Error() string {
	return ErrCoercion.Error() + ": " + e.cause.Error()
}

func (e *coercionError) Unwrap() []error {
	return []error{ErrCoercion, e.cause}
}

// IsRequestError reports whether err was caused by the filter request itself
// (as opposed to a schema fault such as ErrUnsupportedType).
func IsRequestError(err error) bool {
	if err == nil || errors.Is(err, ErrUnsupportedType) {
		return false
	}
	return errors.Is(err, ErrCoercion) ||
		errors.Is(err, ErrIncomparableOperator) ||
		errors.Is(err, ErrInapplicableOperator)
}
