package navigator

import (
	"regexp"
	"strings"
)

// Filter decides whether a prompt passes filtered navigation
type Filter interface {
	Match(prompt string) bool
}

// FilterFunc adapts a function to Filter
type FilterFunc func(prompt string) bool

func (f FilterFunc) Match(prompt string) bool {
	return f(prompt)
}

// PromptFilter matches a case-sensitive, unanchored expression anywhere in the prompt
type PromptFilter struct {
	expr    string
	pattern *regexp.Regexp
}

// NewPromptFilter returns a filter for expr. An empty expr returns nil, meaning no filter.
// expr is used as a regular expression when it compiles, otherwise as a literal substring.
func NewPromptFilter(expr string) Filter {
	if expr == "" {
		return nil
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return &PromptFilter{expr: expr}
	}
	return &PromptFilter{expr: expr, pattern: pattern}
}

func (f *PromptFilter) Match(prompt string) bool {
	if f.pattern != nil {
		return f.pattern.MatchString(prompt)
	}
	return strings.Contains(prompt, f.expr)
}

func (f *PromptFilter) String() string {
	return f.expr
}
