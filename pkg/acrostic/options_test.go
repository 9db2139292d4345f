package acrostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/acrostic/pkg/errors"
)

func TestOptionsSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	assert.Equal(t, DefaultMinLineChars, opts.MinLineChars)
	assert.Equal(t, DefaultMaxLineChars, opts.MaxLineChars)
	assert.Equal(t, DefaultTopK, opts.TopK)
	assert.Equal(t, DefaultExtensions, opts.Extensions)
	require.NotNil(t, opts.Logger)
	assert.NoError(t, opts.Validate())

	custom := Options{MinLineChars: 4, MaxLineChars: 30, TopK: 2}
	custom.SetDefaults()
	assert.Equal(t, 4, custom.MinLineChars)
	assert.Equal(t, 30, custom.MaxLineChars)
	assert.Equal(t, 2, custom.TopK)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative min", Options{MinLineChars: -1}},
		{"negative max", Options{MaxLineChars: -24}},
		{"zero cap", Options{CapSchedule: []int{24, 0}}},
		{"negative top k", Options{TopK: -1}},
		{"negative extensions", Options{Extensions: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.SetDefaults()
			err := opts.Validate()
			assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestSchedule(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []int
	}{
		{"default", Options{}, []int{24, 32, 40, 48, 120}},
		{"from max line chars", Options{MaxLineChars: 16}, []int{16, 24, 32, 40, 120}},
		{"final cap grows past floor", Options{MaxLineChars: 100}, []int{100, 108, 116, 124, 132}},
		{"custom sorted and deduplicated", Options{CapSchedule: []int{40, 24, 40}}, []int{24, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.SetDefaults()
			assert.Equal(t, tt.want, opts.Schedule())
		})
	}
}

func TestScheduleDoesNotModifyOptions(t *testing.T) {
	opts := Options{CapSchedule: []int{40, 24}}
	_ = opts.Schedule()
	assert.Equal(t, []int{40, 24}, opts.CapSchedule)
}
