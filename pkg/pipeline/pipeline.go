// Package pipeline provides the layout pipeline shared by the CLI and the
// HTTP API.
//
// This package wraps the acrostic solver with everything an entry point
// needs around it: input validation, normalization, caching, metrics hooks
// and logging. Centralizing this keeps the CLI and the server consistent.
//
// # Architecture
//
// A run has three stages:
//
//  1. Normalize: clean the lyrics and band name into words and letters
//  2. Arrange: search the cap schedule for the best layout
//  3. Render: format the layout (text, JSON) or the search lattice (DOT, SVG)
//
// The arrange stage is cached by a key derived from the normalized words,
// the letters and every layout option, so lyrics that differ only in
// punctuation or case share a cache entry.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Text:  lyrics,
//	    Token: "alice",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Layout)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/acrostic/pkg/acrostic"
	"github.com/matzehuels/acrostic/pkg/cache"
	errs "github.com/matzehuels/acrostic/pkg/errors"
)

// Format constants for rendered outputs.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported layout output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
}

// ValidLatticeFormats is the set of supported lattice output formats.
var ValidLatticeFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Text  string `json:"text"`
	Token string `json:"token"`

	// Layout options. Zero values select the acrostic defaults.
	MinLineChars int   `json:"min_line_chars,omitempty"`
	MaxLineChars int   `json:"max_line_chars,omitempty"`
	CapSchedule  []int `json:"cap_schedule,omitempty"`
	TopK         int   `json:"top_k,omitempty"`
	Extensions   int   `json:"extensions,omitempty"`

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the rendered acrostic.
	Layout *acrostic.Layout

	// Key is the cache key the layout is stored under.
	Key string

	// TextHash is the content hash of the normalized words.
	TextHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the layout came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Words      int
	Letters    int
	States     int // optimizer states summed over all attempts
	ArrangeDur time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a layout output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: text, json)", format)
	}
	return nil
}

// ValidateLatticeFormat checks that a lattice output format is valid.
func ValidateLatticeFormat(format string) error {
	if !ValidLatticeFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid lattice format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the inputs and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errs.ValidateLyrics(o.Text); err != nil {
		return err
	}
	if err := errs.ValidateToken(o.Token); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.layoutOptions().Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills zero-valued layout options.
func (o *Options) SetLayoutDefaults() {
	if o.MinLineChars == 0 {
		o.MinLineChars = acrostic.DefaultMinLineChars
	}
	if o.MaxLineChars == 0 {
		o.MaxLineChars = acrostic.DefaultMaxLineChars
	}
	if o.TopK == 0 {
		o.TopK = acrostic.DefaultTopK
	}
	if o.Extensions == 0 {
		o.Extensions = acrostic.DefaultExtensions
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions returns the solver options.
func (o *Options) LayoutOptions() acrostic.Options {
	return *o.layoutOptions()
}

func (o *Options) layoutOptions() *acrostic.Options {
	return &acrostic.Options{
		MinLineChars: o.MinLineChars,
		MaxLineChars: o.MaxLineChars,
		CapSchedule:  o.CapSchedule,
		TopK:         o.TopK,
		Extensions:   o.Extensions,
		Logger:       o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for layout computation. The cap
// schedule is resolved so that an explicit default schedule and an empty
// one share a key.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MinLineChars: o.MinLineChars,
		MaxLineChars: o.MaxLineChars,
		CapSchedule:  o.layoutOptions().Schedule(),
		TopK:         o.TopK,
		Extensions:   o.Extensions,
	}
}

// String describes the options for log output.
func (o *Options) String() string {
	return fmt.Sprintf("min=%d max=%d caps=%v top_k=%d ext=%d",
		o.MinLineChars, o.MaxLineChars, o.layoutOptions().Schedule(), o.TopK, o.Extensions)
}
