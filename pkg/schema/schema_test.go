package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/quasar/pkg/qerrors"
)

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		fields  []Field
		wantErr bool
	}{
		{
			name: "valid mixed types",
			fields: []Field{
				{Name: "x", Type: Float64},
				{Name: "n", Type: Int64},
				{Name: "flag", Type: Bool},
				{Name: "raw", Type: String},
			},
		},
		{
			name:    "empty schema",
			fields:  nil,
			wantErr: true,
		},
		{
			name: "duplicate field name",
			fields: []Field{
				{Name: "x", Type: Float64},
				{Name: "x", Type: Bool},
			},
			wantErr: true,
		},
		{
			name: "empty field name",
			fields: []Field{
				{Name: "", Type: Float64},
			},
			wantErr: true,
		},
		{
			name: "binary column has no numeric mapping",
			fields: []Field{
				{Name: "x", Type: Float64},
				{Name: "payload", Type: Binary},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.fields...).Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, qerrors.IsType(err, qerrors.ErrorTypeSchema))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchemaOrder(t *testing.T) {
	s := New(
		Field{Name: "b", Type: Float64},
		Field{Name: "a", Type: Bool},
	)
	// Declared order wins; no sorting for explicit schemas.
	assert.Equal(t, []string{"b", "a"}, s.Names())
	assert.Equal(t, 2, s.Len())
}

func TestInfer(t *testing.T) {
	s := Infer(map[string]interface{}{
		"y":    true,
		"x":    1.5,
		"n":    int64(7),
		"note": "3.14",
	})

	// Inferred schemas sort names for determinism.
	assert.Equal(t, []string{"n", "note", "x", "y"}, s.Names())
	assert.Equal(t, Int64, s.Fields()[0].Type)
	assert.Equal(t, String, s.Fields()[1].Type)
	assert.Equal(t, Float64, s.Fields()[2].Type)
	assert.Equal(t, Bool, s.Fields()[3].Type)
	assert.NoError(t, s.Validate())
}

func TestCoerce(t *testing.T) {
	one := 1.25
	yes := true
	var absent *float64

	tests := []struct {
		name     string
		in       interface{}
		want     float64
		degraded bool
	}{
		{"float64", 2.5, 2.5, false},
		{"float32", float32(0.5), 0.5, false},
		{"int", 7, 7.0, false},
		{"int64", int64(-3), -3.0, false},
		{"uint32", uint32(9), 9.0, false},
		{"true", true, 1.0, false},
		{"false", false, 0.0, false},
		{"numeric string", "3.5", 3.5, false},
		{"float pointer", &one, 1.25, false},
		{"bool pointer", &yes, 1.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, degraded := Coerce(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.degraded, degraded)
		})
	}

	degradedInputs := []struct {
		name string
		in   interface{}
	}{
		{"nil", nil},
		{"nil float pointer", absent},
		{"unparseable string", "not-a-number"},
		{"struct value", struct{}{}},
		{"byte slice", []byte{1, 2}},
	}
	for _, tt := range degradedInputs {
		t.Run(tt.name, func(t *testing.T) {
			got, degraded := Coerce(tt.in)
			assert.True(t, math.IsNaN(got))
			assert.True(t, degraded)
		})
	}
}

func TestNaNRoundTrip(t *testing.T) {
	cell, degraded := Coerce(nil)
	require.True(t, degraded)
	require.True(t, IsMissing(cell))
	assert.Nil(t, FromCell(cell))

	cell, degraded = Coerce(4.0)
	require.False(t, degraded)
	assert.Equal(t, 4.0, FromCell(cell))
}
