package acrostic

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/acrostic/pkg/clean"
)

// LatticeNode is an optimizer state: letter index and start word.
type LatticeNode struct {
	Letter   int  `json:"letter"`
	Word     int  `json:"word"`
	Feasible bool `json:"feasible"` // a chain completes from this state
}

// LatticeEdge is one candidate line leaving a state.
type LatticeEdge struct {
	From      LatticeNode `json:"from"`
	Candidate Candidate   `json:"candidate"`
	Text      string      `json:"text"`   // unpadded line with the anchor uppercased
	Chosen    bool        `json:"chosen"` // part of the winning chain
}

// Lattice is the graph the optimizer searched at one cap: states connected
// by candidate lines, with the winning chain marked. It is a debugging aid
// for understanding why a layout was chosen or why none exists.
type Lattice struct {
	Words    []string      `json:"words"`
	Token    string        `json:"token"` // normalized target letters
	Cap      int           `json:"cap"`
	Feasible bool          `json:"feasible"`
	Nodes    []LatticeNode `json:"nodes"`
	Edges    []LatticeEdge `json:"edges"`
}

// BuildLattice searches like Arrange and returns the lattice of the first
// feasible cap, or of the last cap when none is feasible.
func BuildLattice(text, token string, opts Options) (*Lattice, error) {
	words, letters := clean.Words(text), clean.Letters(token)

	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkInput(words, letters); err != nil {
		return nil, err
	}

	in := newInput(words, letters)
	schedule := opts.Schedule()

	var (
		s       *solver
		lineCap int
		chain   Chain
		ok      bool
	)
	for _, lineCap = range schedule {
		s = newSolver(in, &opts, lineCap)
		if chain, ok = s.best(); ok {
			break
		}
	}

	// Keyed by letter too: a repeated letter can reach the same start word
	// from two states and offer identical candidates.
	chosen := make(map[chosenEdge]bool, len(chain.Candidates))
	for i, c := range chain.Candidates {
		chosen[chosenEdge{i, c}] = true
	}

	l := &Lattice{Words: words, Token: string(letters), Cap: lineCap, Feasible: ok}
	m := len(letters)
	seen := make(map[[2]int]bool)
	var queue [][2]int
	for p, w := range in.runes {
		if slices.Contains(w, letters[0]) {
			queue = append(queue, [2]int{0, p})
			seen[[2]int{0, p}] = true
		}
	}

	for len(queue) > 0 {
		st := queue[0]
		queue = queue[1:]
		node := LatticeNode{Letter: st[0], Word: st[1], Feasible: s.solve(st[0], st[1]).ok}
		l.Nodes = append(l.Nodes, node)

		for _, c := range s.gen.candidates(st[0], st[1]) {
			l.Edges = append(l.Edges, LatticeEdge{
				From:      node,
				Candidate: c,
				Text:      lineText(words, c.Start, c.End, c.Anchor, c.Offset),
				Chosen:    chosen[chosenEdge{st[0], c}],
			})
			next := [2]int{st[0] + 1, c.End + 1}
			if next[0] < m && !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return l, nil
}

// ToDOT returns a Graphviz DOT representation of the lattice.
//
// States are boxes labeled with their letter and start word; states from
// which no chain completes are dashed. Edges are candidate lines labeled
// with their text and score; edges of the winning chain are drawn bold.
// Lines for the last letter lead to a single terminal node.
func (l *Lattice) ToDOT() string {
	letters := []rune(l.Token)

	var buf bytes.Buffer
	buf.WriteString("digraph Lattice {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [fontname=\"SF Mono, Menlo, monospace\", fontsize=10];\n\n")

	for _, n := range l.Nodes {
		style := "filled,rounded"
		if !n.Feasible {
			style = "dashed,rounded"
		}
		word := "(end of text)"
		if n.Word < len(l.Words) {
			word = l.Words[n.Word]
		}
		label := fmt.Sprintf("%c @ %d\n%s", letters[n.Letter], n.Word, word)
		fmt.Fprintf(&buf, "  %s [label=%q, shape=box, style=%q];\n", nodeID(n.Letter, n.Word), label, style)
	}
	fmt.Fprintf(&buf, "  done [label=%q, shape=doublecircle];\n\n", fmt.Sprintf("cap %d", l.Cap))

	last := len(letters) - 1
	for _, e := range l.Edges {
		to := "done"
		if e.From.Letter < last {
			to = nodeID(e.From.Letter+1, e.Candidate.End+1)
		}
		label := fmt.Sprintf("%s (%.1f)", e.Text, e.Candidate.Score)
		attrs := fmt.Sprintf("label=%q", label)
		if e.Chosen {
			attrs += ", color=\"#c0392b\", penwidth=2.5"
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", nodeID(e.From.Letter, e.From.Word), to, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders the lattice as an SVG image using Graphviz.
func (l *Lattice) RenderSVG(ctx context.Context) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(l.ToDOT()))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

type chosenEdge struct {
	letter    int
	candidate Candidate
}

func nodeID(letter, word int) string {
	return fmt.Sprintf("s%d_%d", letter, word)
}
