package spopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	o := New()
	assert.Equal(t, Axis{Dim: 0, Grow: true}, *o.Row)
	assert.Equal(t, Axis{Dim: 0, Grow: true}, *o.Column)
	assert.Equal(t, Value{AllowNegative: true, IncludeZero: false}, *o.Value)
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		row    Axis
		column Axis
		value  Value
	}{
		{
			name:   "Noop",
			opts:   []Option{Noop},
			row:    Axis{Grow: true},
			column: Axis{Grow: true},
			value:  Value{AllowNegative: true},
		},
		{
			name:   "FixedDim",
			opts:   []Option{FixedDim(3, 4)},
			row:    Axis{Dim: 3},
			column: Axis{Dim: 4},
			value:  Value{AllowNegative: true},
		},
		{
			name:   "FixedRowsMinColumns",
			opts:   []Option{FixedRows(2), MinColumns(5)},
			row:    Axis{Dim: 2},
			column: Axis{Dim: 5, Grow: true},
			value:  Value{AllowNegative: true},
		},
		{
			name:   "MinRowsFixedColumns",
			opts:   []Option{MinRows(2), FixedColumns(5)},
			row:    Axis{Dim: 2, Grow: true},
			column: Axis{Dim: 5},
			value:  Value{AllowNegative: true},
		},
		{
			name:   "MinDim",
			opts:   []Option{MinDim(6, 7)},
			row:    Axis{Dim: 6, Grow: true},
			column: Axis{Dim: 7, Grow: true},
			value:  Value{AllowNegative: true},
		},
		{
			name:   "Values",
			opts:   []Option{IncludeZero, DisallowNegative},
			row:    Axis{Grow: true},
			column: Axis{Grow: true},
			value:  Value{IncludeZero: true},
		},
		{
			name: "ValuesSetTo",
			opts: []Option{
				IncludeZeroSetTo(true), ExcludeZero,
				AllowNegativeSetTo(false), AllowNegative,
			},
			row:    Axis{Grow: true},
			column: Axis{Grow: true},
			value:  Value{AllowNegative: true},
		},
		{
			name: "WithOptions",
			opts: []Option{WithOptions(&Set{
				Row:    &Axis{Dim: 1},
				Column: &Axis{Dim: 2},
				Value:  &Value{IncludeZero: true},
			})},
			row:    Axis{Dim: 1},
			column: Axis{Dim: 2},
			value:  Value{IncludeZero: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(tt.opts...)
			assert.Equal(t, tt.row, *o.Row)
			assert.Equal(t, tt.column, *o.Column)
			assert.Equal(t, tt.value, *o.Value)
		})
	}
}

func TestSet_Reset(t *testing.T) {
	o := New(FixedDim(3, 3), IncludeZero)
	o.Reset()
	assert.Equal(t, *New(), *o)
}
