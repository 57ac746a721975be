package metadata

import (
	"strings"
)

const (
	negativePromptMarker = "Negative prompt:"
	stepsMarker          = "Steps:"
)

// ParseParameterText parses the single string "parameters" format:
//
//	<prompt>
//	Negative prompt: <negative prompt>
//	Steps: 20, Sampler: Euler, Seed: 12345, ...
//
// Text containing neither marker yields an empty Map. The parameter tail is split on
// every comma, so a value that itself contains a comma is split as well.
func ParseParameterText(text string) (*Map, error) {
	retv := NewMap()

	anchor := strings.Index(text, negativePromptMarker)
	if anchor == -1 {
		anchor = strings.Index(text, stepsMarker)
	}
	if anchor == -1 {
		return retv, nil
	}

	retv.set(FieldPrompt, strings.TrimSpace(text[:anchor]))

	remaining := text[anchor:]
	steps := strings.Index(remaining, stepsMarker)
	if steps == -1 {
		steps = len(remaining)
	}

	negative := strings.Replace(remaining[:steps], negativePromptMarker, "", 1)
	retv.set(FieldNegativePrompt, strings.TrimSpace(negative))

	tail := remaining[steps:]
	if tail == "" {
		return retv, nil
	}

	for i, param := range strings.Split(tail, ",") {
		key, value, found := strings.Cut(param, ":")
		if !found {
			return nil, &MalformedFragmentError{Fragment: param, Index: i}
		}
		retv.set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	return retv, nil
}

// FormatParameterTail joins the non prompt fields of m back into "key: value, ..." form
func FormatParameterTail(m *Map) string {
	parts := make([]string, 0, m.Len())
	for _, f := range m.Entries() {
		if f.Name == FieldPrompt || f.Name == FieldNegativePrompt {
			continue
		}
		parts = append(parts, f.Name+": "+f.Value)
	}
	return strings.Join(parts, ", ")
}
