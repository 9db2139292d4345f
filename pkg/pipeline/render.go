package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/acrostic/pkg/acrostic"
)

// RenderLayout formats a layout. Text output is the layout block followed
// by a newline; JSON output is the indented Layout structure.
func RenderLayout(layout *acrostic.Layout, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(layout, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode layout: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return []byte(layout.String() + "\n"), nil
	}
}

// Lattice builds the search lattice for opts and renders it as DOT, SVG or
// JSON. It is a debugging aid and is not cached.
func (r *Runner) Lattice(ctx context.Context, opts Options, format string) ([]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ValidateLatticeFormat(format); err != nil {
		return nil, err
	}

	l, err := acrostic.BuildLattice(opts.Text, opts.Token, opts.LayoutOptions())
	if err != nil {
		return nil, fmt.Errorf("lattice: %w", err)
	}
	r.Logger.Debug("built lattice",
		"cap", l.Cap,
		"feasible", l.Feasible,
		"nodes", len(l.Nodes),
		"edges", len(l.Edges))

	switch format {
	case FormatDOT:
		return []byte(l.ToDOT()), nil
	case FormatSVG:
		svg, err := l.RenderSVG(ctx)
		if err != nil {
			return nil, fmt.Errorf("render lattice: %w", err)
		}
		return svg, nil
	default:
		data, err := json.MarshalIndent(l, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode lattice: %w", err)
		}
		return append(data, '\n'), nil
	}
}
