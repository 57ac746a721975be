// Package render formats metadata and comparison results for a terminal
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/richinsley/pnginfo/differ"
	"github.com/richinsley/pnginfo/metadata"
)

// Side selects which value of a diff entry is rendered
type Side int

const (
	Left Side = iota
	Right
)

// Options configures a Renderer
type Options struct {
	// NoColor replaces styling with plain text markers
	NoColor bool
	// Inline shows character level changes for whole value differences
	Inline bool
	// Width of each column in side by side output, 0 for automatic
	Width int
}

// Renderer turns metadata and diff entries into text
type Renderer struct {
	opts      Options
	label     lipgloss.Style
	different lipgloss.Style
	onlyLeft  lipgloss.Style
	onlyRight lipgloss.Style
	column    lipgloss.Style
}

func New(opts Options) *Renderer {
	return &Renderer{
		opts:      opts,
		label:     lipgloss.NewStyle().Bold(true),
		different: lipgloss.NewStyle().Background(lipgloss.Color("#FFEB3B")).Foreground(lipgloss.Color("#000000")),
		onlyLeft:  lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935")).Underline(true),
		onlyRight: lipgloss.NewStyle().Foreground(lipgloss.Color("#43A047")).Underline(true),
		column:    lipgloss.NewStyle().PaddingRight(2),
	}
}

func (r *Renderer) styled(style lipgloss.Style, text string) string {
	if r.opts.NoColor {
		return text
	}
	return style.Render(text)
}

func (r *Renderer) fieldLabel(name string) string {
	return r.styled(r.label, name+":")
}

// Metadata renders one "Name: value" line per field
func (r *Renderer) Metadata(fields []metadata.Field) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(r.fieldLabel(f.Name))
		b.WriteString(" ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	return b.String()
}

// Entry renders one side of a comparison entry
func (r *Renderer) Entry(e differ.Entry, side Side) string {
	value := e.Left
	if side == Right {
		value = e.Right
	}

	var body string
	switch e.Kind {
	case differ.TokenDiff:
		body = r.tokens(value, e, side)
	case differ.Different:
		if r.opts.Inline {
			body = r.inline(e, side)
		} else if r.opts.NoColor {
			body = ">> " + value
		} else {
			body = r.different.Render(value)
		}
	default:
		body = value
	}
	return r.fieldLabel(e.Field) + " " + body
}

func (r *Renderer) tokens(value string, e differ.Entry, side Side) string {
	exclusive, style, pre, post := e.OnlyLeft, r.onlyLeft, "[-", "-]"
	if side == Right {
		exclusive, style, pre, post = e.OnlyRight, r.onlyRight, "{+", "+}"
	}

	var b strings.Builder
	for _, span := range differ.Segment(value, exclusive) {
		switch {
		case !span.Highlight:
			b.WriteString(span.Text)
		case r.opts.NoColor:
			b.WriteString(pre + span.Text + post)
		default:
			b.WriteString(style.Render(span.Text))
		}
	}
	return b.String()
}

// character changes of the side: deletions on the left, insertions on the right
func (r *Renderer) inline(e differ.Entry, side Side) string {
	var b strings.Builder
	for _, span := range differ.Inline(e.Left, e.Right) {
		switch span.Op {
		case differ.OpEqual:
			b.WriteString(span.Text)
		case differ.OpDelete:
			if side == Left {
				b.WriteString(r.marked(r.onlyLeft, "[-", "-]", span.Text))
			}
		case differ.OpInsert:
			if side == Right {
				b.WriteString(r.marked(r.onlyRight, "{+", "+}", span.Text))
			}
		}
	}
	return b.String()
}

func (r *Renderer) marked(style lipgloss.Style, pre, post, text string) string {
	if r.opts.NoColor {
		return pre + text + post
	}
	return style.Render(text)
}

// Diff renders one side of a comparison, one line per entry
func (r *Renderer) Diff(entries []differ.Entry, side Side) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(r.Entry(e, side))
		b.WriteString("\n")
	}
	return b.String()
}

// SideBySide renders both sides of a comparison next to each other
func (r *Renderer) SideBySide(entries []differ.Entry, leftTitle, rightTitle string) string {
	column := r.column
	if r.opts.Width > 0 {
		column = column.Width(r.opts.Width)
	}
	left := r.styled(r.label, leftTitle) + "\n" + r.Diff(entries, Left)
	right := r.styled(r.label, rightTitle) + "\n" + r.Diff(entries, Right)
	return lipgloss.JoinHorizontal(lipgloss.Top, column.Render(left), column.Render(right))
}
