package viewer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/pnginfo/differ"
	"github.com/richinsley/pnginfo/metadata"
	"github.com/richinsley/pnginfo/navigator"
	"github.com/richinsley/pnginfo/source"
	"github.com/richinsley/pnginfo/source/sourcetest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(prompt, seed string) sourcetest.Chunk {
	return sourcetest.Parameters(prompt + "\nNegative prompt: blurry\nSteps: 20, Seed: " + seed)
}

func newTestViewer(t *testing.T) (*Viewer, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "day1")
	require.NoError(t, os.Mkdir(dir, 0o755))
	sourcetest.WritePNG(t, dir, "a.png", params("cat, red, large", "1"))
	sourcetest.WritePNG(t, dir, "b.png", params("dog, park", "2"))
	sourcetest.WritePNG(t, dir, "c.png", params("cat, blue, large", "3"))

	other := filepath.Join(root, "day2")
	require.NoError(t, os.Mkdir(other, 0o755))
	sourcetest.WritePNG(t, other, "z.png", params("bird", "9"))

	src := source.New(zerolog.Nop())
	nav := navigator.New(navigator.OSLister{}, src, zerolog.Nop())
	return New(src, nav, zerolog.Nop()), dir
}

func TestViewer_OpenSingleAndStep(t *testing.T) {
	vw, dir := newTestViewer(t)
	require.NoError(t, vw.OpenSingle(dir))

	v := vw.Single
	assert.Equal(t, filepath.Join(dir, "a.png"), v.Path())
	assert.Equal(t, "1", v.Metadata().Value("Seed"))
	assert.NotEmpty(t, v.ID)

	path, err := v.Step(navigator.Forward, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.png"), path)
	assert.Equal(t, 1, v.State().LastIndex)

	path, err = v.Step(navigator.Forward, navigator.NewPromptFilter("cat"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "c.png"), path)
	assert.Equal(t, "3", v.Metadata().Value("Seed"))
}

type countingExtractor struct {
	*source.Source
	calls map[string]int
}

func (c *countingExtractor) Extract(path string) (*metadata.Map, error) {
	c.calls[filepath.Base(path)]++
	return c.Source.Extract(path)
}

func TestView_FilteredStepExtractsOnce(t *testing.T) {
	_, dir := newTestViewer(t)
	ex := &countingExtractor{Source: source.New(zerolog.Nop()), calls: map[string]int{}}
	nav := navigator.New(navigator.OSLister{}, ex, zerolog.Nop())
	v := NewView(ex, nav, zerolog.Nop())
	require.NoError(t, v.Load(filepath.Join(dir, "a.png")))

	path, err := v.Step(navigator.Forward, navigator.NewPromptFilter("cat"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "c.png"), path)
	assert.Equal(t, "3", v.Metadata().Value("Seed"))
	assert.Equal(t, 1, ex.calls["c.png"])
}

func TestView_StepNoMatchKeepsState(t *testing.T) {
	vw, dir := newTestViewer(t)
	require.NoError(t, vw.OpenSingle(dir))
	before := vw.Single.State()

	_, err := vw.Single.Step(navigator.Forward, navigator.NewPromptFilter("unicorn"))
	assert.True(t, errors.Is(err, ErrNoMatch))
	assert.Equal(t, before, vw.Single.State())
	assert.Equal(t, "1", vw.Single.Metadata().Value("Seed"))
}

func TestView_StepAfterCurrentDeleted(t *testing.T) {
	vw, dir := newTestViewer(t)
	require.NoError(t, vw.Single.Load(filepath.Join(dir, "b.png")))
	require.NoError(t, os.Remove(filepath.Join(dir, "b.png")))

	path, err := vw.Single.Step(navigator.Forward, nil)
	require.NoError(t, err)
	// the cached index 1 now points at c.png, so the walk starts after it
	assert.Equal(t, filepath.Join(dir, "a.png"), path)
}

func TestView_StepWithoutFolder(t *testing.T) {
	vw, _ := newTestViewer(t)
	_, err := vw.Single.Step(navigator.Forward, nil)
	assert.True(t, errors.Is(err, ErrNoFolder))
	_, err = vw.Single.StepFolder(navigator.Forward)
	assert.True(t, errors.Is(err, ErrNoFolder))
}

func TestView_StepFolder(t *testing.T) {
	vw, dir := newTestViewer(t)
	require.NoError(t, vw.OpenSingle(dir))

	path, err := vw.Single.StepFolder(navigator.Forward)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(dir), "day2", "z.png"), path)
	assert.Equal(t, "bird", vw.Single.Metadata().Value(metadata.FieldPrompt))
}

func TestView_LoadMalformedKeepsPrevious(t *testing.T) {
	vw, dir := newTestViewer(t)
	require.NoError(t, vw.OpenSingle(dir))
	bad := sourcetest.WritePNG(t, dir, "bad.png", sourcetest.Parameters("p\nNegative prompt: n\nSteps: 1, junk"))

	err := vw.Single.Load(bad)
	assert.True(t, errors.Is(err, metadata.ErrMalformedParameterFragment))
	assert.Equal(t, filepath.Join(dir, "a.png"), vw.Single.Path())
}

func TestCompareView_Diff(t *testing.T) {
	vw, dir := newTestViewer(t)
	require.NoError(t, vw.OpenCompare(dir))
	require.True(t, vw.Compare.Ready())

	// move the right side from b.png to c.png
	_, err := vw.Compare.Right.Step(navigator.Forward, nil)
	require.NoError(t, err)

	entries := vw.Compare.Diff([]string{"Prompt", "Negative prompt", "Seed"})
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"red"}, entries[0].OnlyLeft)
	assert.Equal(t, []string{"blue"}, entries[0].OnlyRight)
	assert.False(t, entries[1].Highlighted())
	assert.Equal(t, differ.Different, entries[2].Kind)
}

func TestViewer_OpenCompareSingleImage(t *testing.T) {
	vw, dir := newTestViewer(t)
	only := filepath.Join(filepath.Dir(dir), "day2")

	require.NoError(t, vw.OpenCompare(only))
	assert.True(t, vw.Compare.Left.Loaded())
	assert.False(t, vw.Compare.Right.Loaded())
	assert.False(t, vw.Compare.Ready())
}

func TestView_Fields(t *testing.T) {
	vw, dir := newTestViewer(t)
	require.NoError(t, vw.OpenSingle(dir))

	fields := vw.Single.Fields(differ.DefaultDisplayFields)
	require.Len(t, fields, 4)
	assert.Equal(t, "Seed", fields[3].Name)
}
