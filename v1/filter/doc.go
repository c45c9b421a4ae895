// Package filter provides a type-safe, declarative filter engine that turns a
// client-supplied filter model into a predicate over typed records.
//
// A filter model maps field names to clauses, and each clause maps an operator
// key to a raw value:
//
//	{
//	  "id":        {"gt": 1, "lt": 3},
//	  "completed": {"eq": true},
//	  "name":      {"like": "milk"}
//	}
//
// # Architecture
//
// Fields are declared once per record type in a Schema. There is no reflection:
// each Field carries its declared Type, its SQL column and a typed accessor.
//
//	var Schema = filter.NewSchema("todo",
//		filter.IntField("id", func(t Todo) int32 { return int32(t.ID) }),
//		filter.TextField("name", func(t Todo) string { return t.Name }),
//		filter.BoolField("completed", func(t Todo) bool { return t.Completed }),
//	)
//
// Compile resolves field names case-insensitively, coerces every raw value to
// the field's declared Type and checks that the operator applies to it. The
// result is a Compiled filter which can be evaluated in memory (Match, Apply,
// ApplyParallel) or pushed down to a gorm query (Scope). Both paths select the
// same records.
//
// # Operators
//
//   - eq: equality, any type
//   - gt, lt: strict ordering, integer, floating-point and timestamp only
//   - like: ordinal, case-sensitive substring, text only
//   - in: membership in a sequence of values, any type
//
// All conditions are combined with AND. An empty model matches everything.
//
// # Error Handling
//
// Unknown fields and unknown operators are tolerated; they are reported by
// Compiled.Skipped so callers can log them. Everything else fails compilation
// with one *ConditionError per offending field/operator, joined with errors.Join:
//
//	compiled, err := filter.Compile(todo.Schema, model)
//	switch {
//	case filter.IsRequestError(err):
//		// 400: ErrCoercion, ErrIncomparableOperator, ErrInapplicableOperator
//	case err != nil:
//		// 500: ErrUnsupportedType means the schema itself is broken
//	}
//
// # Thread Safety
//
// Schema and Compiled are immutable after construction and safe for concurrent use.
package filter
