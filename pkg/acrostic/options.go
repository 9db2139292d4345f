package acrostic

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/acrostic/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMinLineChars is the soft lower bound on rendered line length.
	DefaultMinLineChars = 8

	// DefaultMaxLineChars is the first cap of the default schedule.
	DefaultMaxLineChars = 24

	// DefaultTopK is the number of best-scoring candidates kept per state,
	// in addition to the anchor-alone candidates.
	DefaultTopK = 8

	// DefaultExtensions is the number of extended endings tried per anchor
	// word: the first ending that reaches the minimum length and the
	// following ones.
	DefaultExtensions = 3

	// DefaultFinalCap is the floor of the last, most generous cap.
	DefaultFinalCap = 120

	// capStep is the widening applied between default schedule entries.
	capStep = 8
)

// Options configures the layout synthesizer.
// Zero values are replaced by the defaults, so Options{} is valid.
type Options struct {
	// MinLineChars is the soft lower bound on line length.
	MinLineChars int `json:"min_line_chars,omitempty" toml:"min_line_chars" yaml:"min_line_chars"`

	// MaxLineChars is the first cap. Lines are scored against the cap in
	// force, so wider caps do not penalize longer lines.
	MaxLineChars int `json:"max_line_chars,omitempty" toml:"max_line_chars" yaml:"max_line_chars"`

	// CapSchedule lists the hard line-length caps tried in order. When
	// empty it is derived from MaxLineChars (see DefaultSchedule).
	CapSchedule []int `json:"cap_schedule,omitempty" toml:"cap_schedule" yaml:"cap_schedule"`

	// TopK bounds the candidates kept per state.
	TopK int `json:"top_k,omitempty" toml:"top_k" yaml:"top_k"`

	// Extensions bounds the extended endings tried per anchor word.
	Extensions int `json:"extensions,omitempty" toml:"extensions" yaml:"extensions"`

	// Logger receives debug output for each cap attempt. Nil discards.
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`
}

// SetDefaults fills zero-valued fields with their defaults.
func (o *Options) SetDefaults() {
	if o.MinLineChars == 0 {
		o.MinLineChars = DefaultMinLineChars
	}
	if o.MaxLineChars == 0 {
		o.MaxLineChars = DefaultMaxLineChars
	}
	if o.TopK == 0 {
		o.TopK = DefaultTopK
	}
	if o.Extensions == 0 {
		o.Extensions = DefaultExtensions
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks option ranges. It should be called after SetDefaults.
func (o *Options) Validate() error {
	if err := errs.ValidateLineBounds(o.MinLineChars, o.MaxLineChars, o.CapSchedule); err != nil {
		return err
	}
	if o.TopK < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "top k must be at least 1 (got %d)", o.TopK)
	}
	if o.Extensions < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "extensions must be at least 1 (got %d)", o.Extensions)
	}
	return nil
}

// Schedule returns the ascending, duplicate-free list of caps to try.
func (o *Options) Schedule() []int {
	if len(o.CapSchedule) == 0 {
		first := o.MaxLineChars
		if first == 0 {
			first = DefaultMaxLineChars
		}
		return DefaultSchedule(first)
	}
	caps := slices.Clone(o.CapSchedule)
	slices.Sort(caps)
	return slices.Compact(caps)
}

// DefaultSchedule derives the cap schedule from a maximum line length:
// max, max+8, max+16, max+24 and a final cap of at least DefaultFinalCap.
func DefaultSchedule(maxChars int) []int {
	caps := make([]int, 0, 5)
	for i := 0; i < 4; i++ {
		caps = append(caps, maxChars+i*capStep)
	}
	return append(caps, max(DefaultFinalCap, maxChars+4*capStep))
}
