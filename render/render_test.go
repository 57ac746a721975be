package render

import (
	"strings"
	"testing"

	"github.com/richinsley/pnginfo/differ"
	"github.com/richinsley/pnginfo/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(t *testing.T) []differ.Entry {
	t.Helper()
	left, err := metadata.ParseParameterText("cat, red, large\nNegative prompt: blurry\nSteps: 20, Seed: 1")
	require.NoError(t, err)
	right, err := metadata.ParseParameterText("cat, blue, large\nNegative prompt: blurry\nSteps: 20, Seed: 2")
	require.NoError(t, err)
	return differ.Compare(left, right, []string{"Prompt", "Steps", "Seed"})
}

func TestEntry_TokenMarkers(t *testing.T) {
	r := New(Options{NoColor: true})
	e := entries(t)

	assert.Equal(t, "Prompt: cat, [-red-], large", r.Entry(e[0], Left))
	assert.Equal(t, "Prompt: cat, {+blue+}, large", r.Entry(e[0], Right))
	assert.Equal(t, "Steps: 20", r.Entry(e[1], Left))
	assert.Equal(t, "Seed: >> 2", r.Entry(e[2], Right))
}

func TestEntry_Inline(t *testing.T) {
	r := New(Options{NoColor: true, Inline: true})
	e := differ.Entry{Field: "Sampler", Left: "Euler a", Right: "Euler", Kind: differ.Different}

	assert.Equal(t, "Sampler: Euler[- a-]", r.Entry(e, Left))
	assert.Equal(t, "Sampler: Euler", r.Entry(e, Right))
}

func TestMetadata(t *testing.T) {
	r := New(Options{NoColor: true})
	out := r.Metadata([]metadata.Field{{Name: "Prompt", Value: "a"}, {Name: "Seed", Value: "1"}})
	assert.Equal(t, "Prompt: a\nSeed: 1\n", out)
}

func TestSideBySide(t *testing.T) {
	r := New(Options{NoColor: true, Width: 40})
	out := r.SideBySide(entries(t), "a.png", "b.png")

	lines := strings.Split(out, "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "a.png")
	assert.Contains(t, lines[0], "b.png")
	assert.Contains(t, out, "[-red-]")
	assert.Contains(t, out, "{+blue+}")
}

func TestColorOutputKeepsText(t *testing.T) {
	r := New(Options{})
	out := r.Diff(entries(t), Left)
	assert.Contains(t, out, "red")
	assert.Contains(t, out, "large")
}
