package differ

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// TokenSpan is a piece of a token field value. Highlight is set on tokens exclusive to its side.
type TokenSpan struct {
	Text      string
	Highlight bool
}

// Segment cuts value into spans for display, keeping separators and original spacing.
// Tokens listed in exclusive are marked for highlighting.
func Segment(value string, exclusive []string) []TokenSpan {
	marked := toSet(exclusive)
	retv := make([]TokenSpan, 0)
	parts := strings.Split(value, ",")
	for i, part := range parts {
		if i > 0 {
			retv = appendSpan(retv, ",", false)
		}
		tok := strings.TrimSpace(part)
		if tok == "" {
			retv = appendSpan(retv, part, false)
			continue
		}
		start := strings.Index(part, tok)
		_, hl := marked[tok]
		retv = appendSpan(retv, part[:start], false)
		retv = appendSpan(retv, tok, hl)
		retv = appendSpan(retv, part[start+len(tok):], false)
	}
	return retv
}

// adjacent plain spans are merged
func appendSpan(spans []TokenSpan, text string, highlight bool) []TokenSpan {
	if text == "" {
		return spans
	}
	if n := len(spans); n > 0 && !highlight && !spans[n-1].Highlight {
		spans[n-1].Text += text
		return spans
	}
	return append(spans, TokenSpan{Text: text, Highlight: highlight})
}

// Op is the role of an InlineSpan
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

// InlineSpan is a character level difference between two whole values
type InlineSpan struct {
	Op   Op
	Text string
}

// Inline returns a character level diff turning left into right, cleaned up to word like
// boundaries. It is an optional refinement for rendering Different entries.
func Inline(left, right string) []InlineSpan {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(left, right, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	retv := make([]InlineSpan, 0, len(diffs))
	for _, d := range diffs {
		span := InlineSpan{Text: d.Text}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			span.Op = OpDelete
		case diffmatchpatch.DiffInsert:
			span.Op = OpInsert
		default:
			span.Op = OpEqual
		}
		retv = append(retv, span)
	}
	return retv
}
