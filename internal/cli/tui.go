package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/acrostic/pkg/acrostic"
	"github.com/matzehuels/acrostic/pkg/pipeline"
)

// List styles
var (
	listDimStyle       = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	previewStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	previewLetterStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// firstLineWidth bounds the first-line column of the table.
const firstLineWidth = 32

// defaultBrowseLimit is the number of alternatives offered by browse.
const defaultBrowseLimit = 20

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		lf    layoutFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:   "browse <band-name> [lyrics-file|-]",
		Short: "Pick one of the alternative layouts interactively",
		Long: `Browse alternative layouts, one per start word, best first.

The table lists each alternative with its first line and cost, and the box
below previews the highlighted layout. Press enter to print the chosen
layout to stdout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(c.config(), args[0])
			if err != nil {
				return err
			}
			source := lyricsPath(args)
			text, err := readLyrics(cmd.InOrStdin(), source)
			if err != nil {
				return err
			}
			opts.Text = text

			ctx := cmd.Context()
			runner := pipeline.NewRunner(nil, nil, c.Logger)

			spinner := newSpinnerWithContext(ctx, "Finding alternatives...")
			spinner.Start()
			layouts, err := runner.Alternatives(ctx, opts, limit)
			spinner.Stop()
			if err != nil {
				return err
			}

			printSuccess("Found %d alternative layouts", len(layouts))
			printNewline()

			selected, err := pickLayout(ctx, layouts, source == stdinArg)
			if err != nil {
				return err
			}
			if selected == nil {
				printDetail("No selection made")
				return nil
			}
			_, err = io.WriteString(cmd.OutOrStdout(), selected.String()+"\n")
			return err
		},
	}

	lf.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultBrowseLimit, "maximum number of alternatives")

	return cmd
}

// pickLayout runs the picker and returns the chosen layout, or nil. When
// the lyrics came from stdin the picker reads keys from the terminal.
func pickLayout(ctx context.Context, layouts []*acrostic.Layout, ttyInput bool) (*acrostic.Layout, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(os.Stderr)}
	if ttyInput {
		opts = append(opts, tea.WithInputTTY())
	}

	finalModel, err := tea.NewProgram(NewLayoutListModel(layouts), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil, nil
		}
		return nil, err
	}

	fm, ok := finalModel.(LayoutListModel)
	if !ok {
		return nil, nil
	}
	return fm.Selected, nil
}

// =============================================================================
// LayoutListModel - Interactive layout selection
// =============================================================================

// LayoutListModel is the bubbletea model for picking an alternative layout.
type LayoutListModel struct {
	Layouts  []*acrostic.Layout
	Cursor   int
	Selected *acrostic.Layout
	Height   int
	Offset   int
}

// NewLayoutListModel creates a new layout list model.
func NewLayoutListModel(layouts []*acrostic.Layout) LayoutListModel {
	return LayoutListModel{
		Layouts: layouts,
		Height:  8,
	}
}

func (m LayoutListModel) Init() tea.Cmd {
	return nil
}

func (m LayoutListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Layouts)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Layouts) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Layouts[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leave room for the header and a preview of the current layout.
		preview := 0
		if len(m.Layouts) > 0 {
			preview = len(m.Layouts[m.Cursor].Lines) + 2
		}
		m.Height = max(3, msg.Height-10-preview)
	}
	return m, nil
}

func (m LayoutListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Layouts) == 0 {
		b.WriteString(listDimStyle.Render("  no layouts"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Layouts))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		l := m.Layouts[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i+1),
			truncate(strings.TrimSpace(l.Lines[0].Text), firstLineWidth),
			fmt.Sprintf("%d-%d", l.FirstWord, l.LastWord),
			fmt.Sprintf("%.1f", l.Cost),
			fmt.Sprintf("%d", l.Cap),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "First line", "Words", "Cost", "Cap").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(previewStyle.Render(previewLayout(m.Layouts[m.Cursor])))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Layouts))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// previewLayout renders a layout with its letter column highlighted.
func previewLayout(l *acrostic.Layout) string {
	lines := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		rs := []rune(line.Text)
		if l.Column >= len(rs) {
			lines[i] = line.Text
			continue
		}
		lines[i] = string(rs[:l.Column]) +
			previewLetterStyle.Render(string(rs[l.Column])) +
			string(rs[l.Column+1:])
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
