package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileJSON(t *testing.T, body string) (*Compiled[item], error) {
	t.Helper()
	model, err := ParseModel([]byte(body))
	require.NoError(t, err)
	return Compile(itemSchema, model)
}

func mustCompileJSON(t *testing.T, body string) *Compiled[item] {
	t.Helper()
	c, err := compileJSON(t, body)
	require.NoError(t, err)
	return c
}

func TestCompile_EmptyModelIsIdentity(t *testing.T) {
	for _, body := range []string{`{}`, `null`} {
		c := mustCompileJSON(t, body)
		assert.True(t, c.Empty())
		assert.Equal(t, sampleItems(), c.Apply(sampleItems()), body)
	}
}

func TestCompile_UnknownFieldIsNoop(t *testing.T) {
	with := mustCompileJSON(t, `{"id":{"gt":1},"colour":{"eq":"red"}}`)
	without := mustCompileJSON(t, `{"id":{"gt":1}}`)

	assert.Equal(t, without.Apply(sampleItems()), with.Apply(sampleItems()))
	assert.Equal(t, []Skip{{Field: "colour", Reason: UnknownField}}, with.Skipped())
}

func TestCompile_UnknownOperatorIsSkipped(t *testing.T) {
	c := mustCompileJSON(t, `{"id":{"gte":1,"EQ":2,"eq":3}}`)

	assert.Equal(t, []int{3}, ids(c.Apply(sampleItems())))
	assert.Equal(t, []Skip{
		{Field: "id", Operator: "EQ", Reason: UnknownOperator},
		{Field: "id", Operator: "gte", Reason: UnknownOperator},
	}, c.Skipped())
}

func TestCompile_FieldNamesAreCaseInsensitive(t *testing.T) {
	c := mustCompileJSON(t, `{"ID":{"eq":2},"CreatedAT":{"gt":"2024-03-01T12:00:00Z"}}`)
	assert.Equal(t, []int{2}, ids(c.Apply(sampleItems())))
}

func TestCompile_Operators(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []int
	}{
		{"eq integer", `{"id":{"eq":1}}`, []int{1}},
		{"eq text", `{"name":{"eq":"apple"}}`, []int{2}},
		{"eq boolean", `{"completed":{"eq":true}}`, []int{1, 3}},
		{"eq boolean string", `{"completed":{"eq":"FALSE"}}`, []int{2, 4}},
		{"eq float", `{"score":{"eq":2.5}}`, []int{2}},
		{"eq timestamp", `{"createdAt":{"eq":"2024-03-01T13:00:00+01:00"}}`, []int{1}},
		{"gt excludes boundary", `{"id":{"gt":1}}`, []int{2, 3, 4}},
		{"lt excludes boundary", `{"id":{"lt":2}}`, []int{1}},
		{"gt float", `{"score":{"gt":1.5}}`, []int{2, 4}},
		{"lt timestamp epoch", `{"createdAt":{"lt":1709298000}}`, []int{1}},
		{"like is case sensitive", `{"name":{"like":"a"}}`, []int{1, 2, 4}},
		{"like upper", `{"name":{"like":"CA"}}`, []int{3}},
		{"like wildcard is literal", `{"name":{"like":"%"}}`, []int{4}},
		{"like underscore is literal", `{"name":{"like":"_s"}}`, []int{4}},
		{"in", `{"id":{"in":[1,3]}}`, []int{1, 3}},
		{"in with duplicates", `{"id":{"in":[3,3,1]}}`, []int{1, 3}},
		{"in empty matches nothing", `{"id":{"in":[]}}`, []int{}},
		{"in text", `{"name":{"in":["cat","CAT"]}}`, []int{1, 3}},
		{"and within field", `{"id":{"gt":1,"lt":3}}`, []int{2}},
		{"and across fields", `{"id":{"eq":1},"completed":{"eq":true}}`, []int{1}},
		{"and across fields no match", `{"id":{"eq":2},"completed":{"eq":true}}`, []int{}},
		{"no match is not an error", `{"name":{"eq":"dog"}}`, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustCompileJSON(t, tt.body)
			assert.Equal(t, tt.want, ids(c.Apply(sampleItems())))
		})
	}
}

func TestCompile_EqKeepsOnlyMatchingRecord(t *testing.T) {
	records := []item{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	c := mustCompileJSON(t, `{"id":{"eq":1}}`)
	assert.Equal(t, []item{{ID: 1, Name: "a"}}, c.Apply(records))
}

func TestCompile_CoercionFailureIsHardError(t *testing.T) {
	c, err := compileJSON(t, `{"id":{"eq":"not-a-number"}}`)

	require.Error(t, err)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrCoercion)
	assert.True(t, IsRequestError(err))

	var condErr *ConditionError
	require.ErrorAs(t, err, &condErr)
	assert.Equal(t, "id", condErr.Field)
	assert.Equal(t, "eq", condErr.Operator)
	assert.Equal(t, Integer, condErr.Type)
}

func TestCompile_HardErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"fraction for integer", `{"id":{"eq":1.5}}`, ErrCoercion},
		{"integer overflow", `{"id":{"eq":2147483648}}`, ErrCoercion},
		{"number for text", `{"name":{"eq":1}}`, ErrCoercion},
		{"null", `{"name":{"eq":null}}`, ErrCoercion},
		{"sequence for eq", `{"id":{"eq":[1,2]}}`, ErrCoercion},
		{"scalar for in", `{"id":{"in":1}}`, ErrCoercion},
		{"bad element in set", `{"id":{"in":[1,"x"]}}`, ErrCoercion},
		{"bad timestamp", `{"createdAt":{"gt":"yesterday"}}`, ErrCoercion},
		{"bad boolean", `{"completed":{"eq":"yes"}}`, ErrCoercion},
		{"gt on boolean", `{"completed":{"gt":true}}`, ErrIncomparableOperator},
		{"lt on text", `{"name":{"lt":"b"}}`, ErrIncomparableOperator},
		{"like on integer", `{"id":{"like":"1"}}`, ErrInapplicableOperator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileJSON(t, tt.body)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsRequestError(err))
		})
	}
}

func TestCompile_JoinsAllErrorsInOrder(t *testing.T) {
	_, err := compileJSON(t, `{"name":{"lt":"x"},"id":{"lt":"a","eq":"b"}}`)
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)

	var got [][2]string
	for _, e := range joined.Unwrap() {
		var condErr *ConditionError
		require.True(t, errors.As(e, &condErr))
		got = append(got, [2]string{condErr.Field, condErr.Operator})
	}
	assert.Equal(t, [][2]string{{"id", "eq"}, {"id", "lt"}, {"name", "lt"}}, got)
}

func TestCompile_UnsupportedTypeIsNotRequestError(t *testing.T) {
	broken := NewSchema("broken",
		NewField("blob", Type(99), func(i item) Value { return Value{} }),
	)

	_, err := Compile(broken, Model{"blob": {"eq": "x"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.False(t, IsRequestError(err))
}

func TestCompile_IsIdempotent(t *testing.T) {
	c := mustCompileJSON(t, `{"id":{"in":[1,2,4]},"name":{"like":"a"}}`)
	records := sampleItems()

	first := c.Apply(records)
	second := c.Apply(records)
	assert.Equal(t, first, second)
	assert.Equal(t, sampleItems(), records)
}

func TestCompile_Conditions(t *testing.T) {
	c := mustCompileJSON(t, `{"Name":{"like":"a"},"id":{"in":[2,1,2]}}`)

	assert.Equal(t, []Condition{
		{Field: "name", Column: "name", Type: Text, Operator: Like, Value: TextValue("a")},
		{Field: "id", Column: "id", Type: Integer, Operator: In, Set: []Value{IntValue(2), IntValue(1)}},
	}, c.Conditions())
}

func TestNewSchema_PanicsOnDuplicateField(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("dup",
			IntField("id", func(i item) int32 { return int32(i.ID) }),
			IntField("ID", func(i item) int32 { return int32(i.ID) }),
		)
	})
}

func TestSchema_FieldsKeepDeclarationOrder(t *testing.T) {
	var names, columns []string
	for _, f := range itemSchema.Fields() {
		names = append(names, f.Name)
		columns = append(columns, f.Column)
	}
	assert.Equal(t, []string{"id", "name", "completed", "score", "createdAt"}, names)
	assert.Equal(t, []string{"id", "name", "completed", "score", "created_at"}, columns)
}

func TestParseModel(t *testing.T) {
	m, err := ParseModel([]byte(`{"id":{"eq":12345678901}}`))
	require.NoError(t, err)
	assert.Equal(t, "12345678901", m["id"]["eq"].(interface{ String() string }).String())

	_, err = ParseModel([]byte(`{"id":{"eq":1}} {}`))
	assert.Error(t, err)

	_, err = ParseModel([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestCompile_TimestampsOutsideNanosecondRange(t *testing.T) {
	records := []item{
		{ID: 1, CreatedAt: time.Time{}},
		{ID: 2, CreatedAt: time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, CreatedAt: baseTime},
	}

	tests := []struct {
		name string
		body string
		want []int
	}{
		{"lt", `{"createdAt":{"lt":"2024-01-01T00:00:00Z"}}`, []int{1}},
		{"gt", `{"createdAt":{"gt":"2024-01-01T00:00:00Z"}}`, []int{2, 3}},
		{"gt early date", `{"createdAt":{"gt":"1500-01-01T00:00:00Z"}}`, []int{2, 3}},
		{"eq zero time", `{"createdAt":{"eq":"0001-01-01T00:00:00Z"}}`, []int{1}},
		{"eq far future", `{"createdAt":{"eq":"3000-01-01T00:00:00Z"}}`, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustCompileJSON(t, tt.body)
			assert.Equal(t, tt.want, ids(c.Apply(records)))
		})
	}
}

func TestCompile_TimestampsCompareAtMicrosecondPrecision(t *testing.T) {
	records := []item{
		{ID: 1, CreatedAt: baseTime.Add(1500 * time.Nanosecond)},
		{ID: 2, CreatedAt: baseTime.Add(time.Microsecond)},
		{ID: 3, CreatedAt: baseTime.Add(2 * time.Microsecond)},
	}

	c := mustCompileJSON(t, `{"createdAt":{"eq":"2024-03-01T12:00:00.000001999Z"}}`)
	assert.Equal(t, []int{1, 2}, ids(c.Apply(records)))
	assert.Equal(t, baseTime.Add(time.Microsecond), c.Conditions()[0].Value.Any())

	c = mustCompileJSON(t, `{"createdAt":{"lt":"2024-03-01T12:00:00.000001999Z"}}`)
	assert.Empty(t, c.Apply(records))
}

func TestCompile_CoercionErrorKeepsCause(t *testing.T) {
	_, err := compileJSON(t, `{"id":{"eq":"abc"}}`)
	require.Error(t, err)

	var condErr *ConditionError
	require.True(t, errors.As(err, &condErr))
	assert.Equal(t, ErrCoercion, condErr.Err)
	require.Error(t, condErr.Cause)
	assert.NotErrorIs(t, condErr.Cause, ErrCoercion)
	assert.Equal(t, `filter "id"/"eq" (integer): value cannot be coerced to the field type: "abc" is not an integer`, err.Error())
}
