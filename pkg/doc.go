// Package pkg provides the core libraries for acrostic lyric layouts.
//
// # Overview
//
// Acrostic arranges song lyrics into lines so that the letters of a band
// name sit in one vertical column, reading top to bottom. The pkg directory
// is organized into three areas:
//
//  1. [acrostic] and [clean] - Domain logic (normalization, candidate lines,
//     the cap-by-cap optimizer, rendering and verification)
//  2. [cache], [observability], [errors] - Infrastructure (layout cache,
//     metrics hooks, structured error codes)
//  3. [pipeline] - Orchestration (normalize → arrange → render) shared by the
//     CLI and the HTTP API
//
// # Architecture
//
// The typical data flow:
//
//	lyrics text + band name
//	         ↓
//	    [clean] package (NFKC, punctuation joined or stripped, case-folded)
//	         ↓
//	    [acrostic] package (candidates per state, optimizer per cap)
//	         ↓
//	    [acrostic.Layout] (aligned lines, cost, cap)
//	         ↓
//	    text / JSON / lattice DOT / SVG
//
// # Quick Start
//
//	out := acrostic.ArrangeString("Sometimes under the sun", "tus", acrostic.Options{})
//	fmt.Println(out)
//	// someTimes
//	//     Under
//	// the Sun
//
// With caching and metrics hooks:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Text: lyrics, Token: "abba"})
//
// # Main Packages
//
// [acrostic] - The layout engine. Candidate lines are enumerated per
// (letter, start word) state, pruned to the best few, and chained by a
// memoized optimizer. Caps widen on a schedule until a chain exists.
//
// [clean] - Text normalization. Punctuation inside a word is dropped
// ("can't" becomes "cant"), punctuation between words separates them, and
// the result is NFKC-normalized and case-folded.
//
// [pipeline] - The runner used by every entry point: validation, cache
// lookup, observability hooks and output formats.
//
// [cache] - Cache interface with file (CLI), Redis (shared server) and null
// backends, plus content-addressed layout keys.
//
// [observability] - Pipeline, cache and HTTP hooks with a Prometheus
// implementation.
//
// [errors] - Structured error codes and input validation.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/acrostic/...           # Specific package
//
// [acrostic]: https://pkg.go.dev/github.com/matzehuels/acrostic/pkg/acrostic
// [acrostic.Layout]: https://pkg.go.dev/github.com/matzehuels/acrostic/pkg/acrostic#Layout
// [clean]: https://pkg.go.dev/github.com/matzehuels/acrostic/pkg/clean
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/acrostic/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/acrostic/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/acrostic/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/acrostic/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/acrostic/pkg/buildinfo
package pkg
