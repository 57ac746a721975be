package differ

import (
	"strings"

	"github.com/richinsley/pnginfo/metadata"
)

// Kind is the comparison outcome of one field
type Kind int

const (
	// Equal means both values are byte equal
	Equal Kind = iota
	// Different means the values differ and are highlighted as a whole
	Different
	// TokenDiff means the value is compared as a set of comma separated tokens
	TokenDiff
)

func (k Kind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Different:
		return "different"
	case TokenDiff:
		return "token_diff"
	}
	return "unknown"
}

// MarshalText lets Kind serialize as its name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// TokenFields are compared token by token instead of as whole values
var TokenFields = []string{metadata.FieldPrompt, metadata.FieldNegativePrompt}

// DefaultDisplayFields is the field list shown for a single image
var DefaultDisplayFields = []string{
	"Prompt", "Negative prompt", "Steps", "Sampler", "CFG scale",
	"Seed", "Size", "Model", "VAE",
	"Denoising strength", "Clip skip",
}

// DefaultCompareFields is the field list shown when comparing two images
var DefaultCompareFields = []string{
	"Prompt", "Negative prompt", "Steps", "Sampler", "CFG scale",
	"Seed", "Size", "Model hash", "Model", "VAE hash", "VAE",
	"Denoising strength", "Clip skip", "Version",
}

// Entry is the comparison result of one field
type Entry struct {
	Field string `json:"field"`
	Left  string `json:"left"`
	Right string `json:"right"`
	Kind  Kind   `json:"kind"`
	// OnlyLeft and OnlyRight are set for TokenDiff entries, ordered by first appearance
	OnlyLeft  []string `json:"only_left,omitempty"`
	OnlyRight []string `json:"only_right,omitempty"`
}

// Highlighted reports whether any part of the entry differs
func (e Entry) Highlighted() bool {
	switch e.Kind {
	case Different:
		return true
	case TokenDiff:
		return len(e.OnlyLeft) > 0 || len(e.OnlyRight) > 0
	}
	return false
}

// Compare compares the given fields of left and right in the order of fields.
// A missing field compares as the empty string.
func Compare(left, right *metadata.Map, fields []string) []Entry {
	retv := make([]Entry, 0, len(fields))
	for _, field := range fields {
		l := left.Value(field)
		r := right.Value(field)

		entry := Entry{Field: field, Left: l, Right: r}
		switch {
		case IsTokenField(field):
			entry.Kind = TokenDiff
			entry.OnlyLeft, entry.OnlyRight = tokenDifference(Tokens(l), Tokens(r))
		case l == r:
			entry.Kind = Equal
		default:
			entry.Kind = Different
		}
		retv = append(retv, entry)
	}
	return retv
}

// IsTokenField reports whether field is compared token by token
func IsTokenField(field string) bool {
	for _, f := range TokenFields {
		if f == field {
			return true
		}
	}
	return false
}

// Tokens splits value on commas, trims each token and drops empty ones
func Tokens(value string) []string {
	retv := make([]string, 0)
	for _, tok := range strings.Split(value, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			retv = append(retv, tok)
		}
	}
	return retv
}

func tokenDifference(left, right []string) ([]string, []string) {
	leftSet := toSet(left)
	rightSet := toSet(right)
	return subtract(left, rightSet), subtract(right, leftSet)
}

func toSet(tokens []string) map[string]struct{} {
	retv := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		retv[t] = struct{}{}
	}
	return retv
}

// tokens of a not in b, without duplicates
func subtract(a []string, b map[string]struct{}) []string {
	retv := make([]string, 0)
	seen := make(map[string]struct{})
	for _, t := range a {
		if _, ok := b[t]; ok {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		retv = append(retv, t)
	}
	return retv
}

// Select returns the fields of m named in fields that are present, in the order of fields
func Select(m *metadata.Map, fields []string) []metadata.Field {
	retv := make([]metadata.Field, 0, len(fields))
	for _, f := range fields {
		if v, ok := m.Get(f); ok {
			retv = append(retv, metadata.Field{Name: f, Value: v})
		}
	}
	return retv
}

// Stats counts the entries of a comparison by outcome
type Stats struct {
	Equal       int
	Different   int
	TokenDiffs  int
	Highlighted int
}

// Summarize counts entries by kind
func Summarize(entries []Entry) Stats {
	var s Stats
	for _, e := range entries {
		switch e.Kind {
		case Equal:
			s.Equal++
		case Different:
			s.Different++
		case TokenDiff:
			s.TokenDiffs++
		}
		if e.Highlighted() {
			s.Highlighted++
		}
	}
	return s
}
