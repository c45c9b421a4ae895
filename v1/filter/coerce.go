package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order for string timestamps. Layouts without a
// zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamps are limited to the years 0001 through 9999, the range ISO-8601
// and the SQL stores can represent.
var (
	minTimestamp = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxTimestamp = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

// Coerce converts a raw request value to the given declared type.
// It returns ErrUnsupportedType for types outside the closed set and an error
// wrapping ErrCoercion for any value that does not fit the type.
func Coerce(raw any, typ Type) (Value, error) {
	v, err := coerceScalar(raw, typ)
	if err != nil {
		return Value{}, asCoercionError(err)
	}
	return v, nil
}

// CoerceSet converts a raw sequence element by element. Duplicates collapse.
func CoerceSet(raw any, typ Type) ([]Value, error) {
	vals, err := coerceSequence(raw, typ)
	if err != nil {
		return nil, asCoercionError(err)
	}
	return vals, nil
}

func asCoercionError(err error) error {
	if errors.Is(err, ErrUnsupportedType) {
		return err
	}
	return &coercionError{cause: err}
}

// coerceSequence returns plain cause errors; Coerce and CoerceSet attach ErrCoercion.
func coerceSequence(raw any, typ Type) ([]Value, error) {
	if !typeSupported(typ) {
		return nil, ErrUnsupportedType
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a sequence, got %s", describe(raw))
	}

	seen := make(map[Value]struct{}, len(items))
	out := make([]Value, 0, len(items))
	for i, item := range items {
		v, err := coerceScalar(item, typ)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

func typeSupported(typ Type) bool {
	switch typ {
	case Integer, Boolean, Text, Timestamp, Float:
		return true
	}
	return false
}

// coerceScalar dispatches on the declared type. Errors other than
// ErrUnsupportedType describe why the value did not fit.
func coerceScalar(raw any, typ Type) (Value, error) {
	if !typeSupported(typ) {
		return Value{}, ErrUnsupportedType
	}
	if raw == nil {
		return Value{}, errors.New("null is not a valid filter value")
	}
	if _, isSeq := raw.([]any); isSeq {
		return Value{}, errors.New("expected a single value, got a sequence")
	}

	switch typ {
	case Integer:
		return toInteger(raw)
	case Boolean:
		return toBoolean(raw)
	case Text:
		return toText(raw)
	case Timestamp:
		return toTimestamp(raw)
	default:
		return toFloat(raw)
	}
}

func toInteger(raw any) (Value, error) {
	switch v := raw.(type) {
	case json.Number:
		return parseInt32(string(v))
	case string:
		return parseInt32(v)
	case float64:
		return floatToInt32(v)
	case float32:
		return floatToInt32(float64(v))
	case int:
		return int64ToInt32(int64(v))
	case int8:
		return IntValue(int32(v)), nil
	case int16:
		return IntValue(int32(v)), nil
	case int32:
		return IntValue(v), nil
	case int64:
		return int64ToInt32(v)
	case uint8:
		return IntValue(int32(v)), nil
	case uint16:
		return IntValue(int32(v)), nil
	case uint32:
		if v > math.MaxInt32 {
			return Value{}, fmt.Errorf("%d overflows a 32-bit integer", v)
		}
		return IntValue(int32(v)), nil
	}
	return Value{}, fmt.Errorf("expected an integer, got %s", describe(raw))
}

func parseInt32(s string) (Value, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return Value{}, fmt.Errorf("%q overflows a 32-bit integer", s)
		}
		return Value{}, fmt.Errorf("%q is not an integer", s)
	}
	return IntValue(int32(n)), nil
}

func floatToInt32(f float64) (Value, error) {
	if !isFinite(f) || f != math.Trunc(f) {
		return Value{}, fmt.Errorf("%v is not an integer", f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return Value{}, fmt.Errorf("%v overflows a 32-bit integer", f)
	}
	return IntValue(int32(f)), nil
}

func int64ToInt32(n int64) (Value, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return Value{}, fmt.Errorf("%d overflows a 32-bit integer", n)
	}
	return IntValue(int32(n)), nil
}

func toBoolean(raw any) (Value, error) {
	switch v := raw.(type) {
	case bool:
		return BoolValue(v), nil
	case string:
		switch {
		case strings.EqualFold(v, "true"):
			return BoolValue(true), nil
		case strings.EqualFold(v, "false"):
			return BoolValue(false), nil
		}
		return Value{}, fmt.Errorf("%q is not a boolean", v)
	}
	return Value{}, fmt.Errorf("expected a boolean, got %s", describe(raw))
}

func toText(raw any) (Value, error) {
	if s, ok := raw.(string); ok {
		return TextValue(s), nil
	}
	return Value{}, fmt.Errorf("expected a string, got %s", describe(raw))
}

func toTimestamp(raw any) (Value, error) {
	switch v := raw.(type) {
	case time.Time:
		return checkedTime(v)
	case string:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return checkedTime(t)
			}
		}
		return Value{}, fmt.Errorf("%q is not an ISO-8601 timestamp", v)
	case json.Number:
		if n, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return epochSeconds(float64(n), n, true)
		}
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not an epoch timestamp", string(v))
		}
		return epochSeconds(f, 0, false)
	case float64:
		return epochSeconds(v, 0, false)
	case int:
		return epochSeconds(float64(v), int64(v), true)
	case int32:
		return epochSeconds(float64(v), int64(v), true)
	case int64:
		return epochSeconds(float64(v), v, true)
	}
	return Value{}, fmt.Errorf("expected a timestamp, got %s", describe(raw))
}

// epochSeconds interprets a number as seconds since the Unix epoch. Whole
// seconds use the exact integer path; fractional seconds keep nanosecond precision.
func epochSeconds(f float64, whole int64, exact bool) (Value, error) {
	if !isFinite(f) {
		return Value{}, fmt.Errorf("%v is not an epoch timestamp", f)
	}
	if f < float64(minTimestamp.Unix()) || f > float64(maxTimestamp.Unix()) {
		return Value{}, fmt.Errorf("epoch %v is out of range", f)
	}
	if exact {
		return checkedTime(time.Unix(whole, 0))
	}
	sec, frac := math.Modf(f)
	return checkedTime(time.Unix(int64(sec), int64(frac*1e9)))
}

func checkedTime(t time.Time) (Value, error) {
	if t.Before(minTimestamp) || t.After(maxTimestamp) {
		return Value{}, fmt.Errorf("timestamp %s is out of range", t.Format(time.RFC3339))
	}
	return TimeValue(t), nil
}

func toFloat(raw any) (Value, error) {
	var f float64
	switch v := raw.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a number", string(v))
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a number", v)
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return Value{}, fmt.Errorf("expected a number, got %s", describe(raw))
	}
	if !isFinite(f) {
		return Value{}, fmt.Errorf("%v is not a finite number", f)
	}
	return FloatValue(f), nil
}

// describe names the JSON shape of a raw value for error messages.
func describe(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float32, float64, int, int8, int16, int32, int64, uint8, uint16, uint32:
		return "number"
	case []any:
		return "sequence"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", raw)
}
