// Package viewer holds the per view state of an image metadata viewer and connects the
// metadata source, the navigator and the differ. A GUI drives one View per pane.
package viewer

import (
	"errors"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/richinsley/pnginfo/differ"
	"github.com/richinsley/pnginfo/metadata"
	"github.com/richinsley/pnginfo/navigator"
	"github.com/rs/zerolog"
)

var (
	// ErrNoMatch is returned when a step found no file matching the filter
	ErrNoMatch = errors.New("no matching file")
	// ErrNoFolder is returned when a view is navigated before anything was loaded
	ErrNoFolder = errors.New("no folder loaded")
)

// Extractor reads image metadata
type Extractor interface {
	Extract(path string) (*metadata.Map, error)
}

// View is one image pane. Only the goroutine that owns the view may use it.
type View struct {
	ID       string
	state    navigator.State
	metadata *metadata.Map
	source   Extractor
	nav      *navigator.Navigator
	logger   zerolog.Logger
}

// NewView creates an empty view
func NewView(source Extractor, nav *navigator.Navigator, logger zerolog.Logger) *View {
	id := uuid.New().String()
	return &View{
		ID:       id,
		metadata: metadata.NewMap(),
		source:   source,
		nav:      nav,
		logger:   logger.With().Str("view", id).Logger(),
	}
}

// State returns the view's navigation state
func (v *View) State() navigator.State {
	return v.state
}

// Metadata returns the metadata of the loaded file, empty when nothing is loaded
func (v *View) Metadata() *metadata.Map {
	return v.metadata
}

// Path returns the loaded file, or ""
func (v *View) Path() string {
	return v.state.Path()
}

// Loaded reports whether the view shows a file
func (v *View) Loaded() bool {
	return v.state.Current != ""
}

// Load reads the metadata of path and makes it the view's current file.
// The view is unchanged when the metadata cannot be parsed.
func (v *View) Load(path string) error {
	m, err := v.source.Extract(path)
	if err != nil {
		v.logger.Warn().Err(err).Str("path", path).Msg("cannot load metadata")
		return err
	}

	state := navigator.StateForFile(path)
	if err := v.nav.Locate(&state); err != nil {
		v.logger.Debug().Err(err).Str("folder", state.Folder).Msg("cannot locate file in folder")
	}
	v.state = state
	v.metadata = m
	v.logger.Debug().Str("path", path).Int("fields", m.Len()).Msg("loaded")
	return nil
}

// Step moves to the next file in dir that passes filter and loads it.
// ErrNoMatch is returned, and the view left as it was, when no file matched in a full cycle.
func (v *View) Step(dir navigator.Direction, filter navigator.Filter) (string, error) {
	if v.state.Folder == "" {
		return "", ErrNoFolder
	}

	state := v.state
	name, m, ok, err := v.nav.StepMetadata(&state, dir, filter)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoMatch
	}

	path := filepath.Join(state.Folder, name)
	if m == nil {
		m, err = v.source.Extract(path)
		if err != nil {
			return "", err
		}
	}
	v.state = state
	v.metadata = m
	return path, nil
}

// StepFolder moves to the sibling folder in dir and loads its first image
func (v *View) StepFolder(dir navigator.Direction) (string, error) {
	if v.state.Folder == "" {
		return "", ErrNoFolder
	}
	folder, err := v.nav.NextSibling(v.state.Folder, dir)
	if err != nil {
		return "", err
	}
	first, err := v.nav.First(folder)
	if err != nil {
		return "", err
	}
	path := filepath.Join(folder, first)
	if err := v.Load(path); err != nil {
		return "", err
	}
	return path, nil
}

// Fields returns the loaded metadata restricted to fields, for single image display
func (v *View) Fields(fields []string) []metadata.Field {
	return differ.Select(v.metadata, fields)
}

// CompareView shows two views side by side
type CompareView struct {
	Left  *View
	Right *View
}

// Ready reports whether both sides show a file
func (c *CompareView) Ready() bool {
	return c.Left.Loaded() && c.Right.Loaded()
}

// Diff compares the two sides over fields
func (c *CompareView) Diff(fields []string) []differ.Entry {
	return differ.Compare(c.Left.Metadata(), c.Right.Metadata(), fields)
}

// Viewer owns the single view and the compare view
type Viewer struct {
	Single  *View
	Compare *CompareView
	nav     *navigator.Navigator
}

// New creates a viewer with empty views
func New(source Extractor, nav *navigator.Navigator, logger zerolog.Logger) *Viewer {
	return &Viewer{
		Single: NewView(source, nav, logger),
		Compare: &CompareView{
			Left:  NewView(source, nav, logger),
			Right: NewView(source, nav, logger),
		},
		nav: nav,
	}
}

// OpenSingle loads the first image of folder into the single view
func (vw *Viewer) OpenSingle(folder string) error {
	first, err := vw.nav.First(folder)
	if err != nil {
		return err
	}
	return vw.Single.Load(filepath.Join(folder, first))
}

// OpenCompare loads the first two images of folder into the compare view.
// With a single image only the left side is loaded.
func (vw *Viewer) OpenCompare(folder string) error {
	first, second, err := vw.nav.FirstPair(folder)
	if err != nil {
		return err
	}
	if err := vw.Compare.Left.Load(filepath.Join(folder, first)); err != nil {
		return err
	}
	if second == "" {
		return nil
	}
	return vw.Compare.Right.Load(filepath.Join(folder, second))
}
