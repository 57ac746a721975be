package navigator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/richinsley/pnginfo/metadata"
	"github.com/rs/zerolog"
)

// Direction is the direction of a navigation step
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

func (d Direction) step() int {
	if d == Backward {
		return -1
	}
	return 1
}

// ImageExtension is the extension of files taking part in navigation, matched case-insensitively
const ImageExtension = ".png"

var (
	// ErrSiblingFolderNotFound is returned when a folder is missing from its parent's listing
	ErrSiblingFolderNotFound = errors.New("folder not found among its siblings")
	// ErrEmptyFolder is returned when a folder holds no image files
	ErrEmptyFolder = errors.New("folder contains no images")
)

// SiblingNotFoundError names the folder that could not be located in its parent
type SiblingNotFoundError struct {
	Folder string
	Parent string
}

func (e *SiblingNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q in %q", ErrSiblingFolderNotFound.Error(), filepath.Base(e.Folder), e.Parent)
}

func (e *SiblingNotFoundError) Unwrap() error {
	return ErrSiblingFolderNotFound
}

// Extractor reads the metadata of an image file
type Extractor interface {
	Extract(path string) (*metadata.Map, error)
}

// Lister lists directory contents
type Lister interface {
	// Images returns the names of the image files in folder, in any order
	Images(folder string) ([]string, error)
	// Dirs returns the names of the subdirectories of folder, in any order
	Dirs(folder string) ([]string, error)
}

// OSLister lists the local file system
type OSLister struct{}

func (OSLister) Images(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	retv := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ImageExtension) {
			retv = append(retv, e.Name())
		}
	}
	return retv, nil
}

func (OSLister) Dirs(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	retv := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() {
			retv = append(retv, e.Name())
		}
	}
	return retv, nil
}

// Navigator walks the image files of a folder and the folders next to it.
// Every call lists the directory again, so results follow changes on disk.
type Navigator struct {
	lister    Lister
	extractor Extractor
	logger    zerolog.Logger
}

// New creates a Navigator. extractor is only used for filtered navigation.
func New(lister Lister, extractor Extractor, logger zerolog.Logger) *Navigator {
	if lister == nil {
		lister = OSLister{}
	}
	return &Navigator{
		lister:    lister,
		extractor: extractor,
		logger:    logger.With().Str("component", "navigator").Logger(),
	}
}

// List returns the image files of folder sorted by name, the traversal order of every
// navigation call
func (n *Navigator) List(folder string) ([]string, error) {
	files, err := n.lister.Images(folder)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}
	sort.Strings(files)
	return files, nil
}

// FindNext returns the name of the next file after the state's current file that passes filter.
// A nil filter accepts every file. The walk visits each file at most once, wrapping around the
// end of the listing; ok is false when nothing matched in a full cycle.
func (n *Navigator) FindNext(state State, dir Direction, filter Filter) (name string, ok bool, err error) {
	found, ok, err := n.findNext(state, dir, filter)
	return found.name, ok, err
}

// match is an accepted candidate. metadata is set when the filter had to extract it.
type match struct {
	name     string
	index    int
	metadata *metadata.Map
}

func (n *Navigator) findNext(state State, dir Direction, filter Filter) (match, bool, error) {
	files, err := n.List(state.Folder)
	if err != nil {
		return match{}, false, err
	}
	count := len(files)
	if count == 0 {
		return match{}, false, nil
	}

	current := n.currentIndex(files, state)
	for i := 1; i <= count; i++ {
		idx := mod(current+i*dir.step(), count)
		candidate := files[idx]
		if filter == nil {
			return match{name: candidate, index: idx}, true, nil
		}
		if m, ok := n.matches(filepath.Join(state.Folder, candidate), filter); ok {
			return match{name: candidate, index: idx, metadata: m}, true, nil
		}
	}

	n.logger.Debug().Str("folder", state.Folder).Int("files", count).Msg("no file matched the filter")
	return match{}, false, nil
}

// position of the current file, or the cached index when the file is gone
func (n *Navigator) currentIndex(files []string, state State) int {
	if state.Current != "" {
		if idx := sort.SearchStrings(files, state.Current); idx < len(files) && files[idx] == state.Current {
			return idx
		}
		n.logger.Debug().Str("file", state.Current).Int("last_index", state.LastIndex).Msg("current file missing, using last index")
	}
	return mod(state.LastIndex, len(files))
}

func (n *Navigator) matches(path string, filter Filter) (*metadata.Map, bool) {
	if n.extractor == nil {
		return nil, false
	}
	m, err := n.extractor.Extract(path)
	if err != nil {
		n.logger.Warn().Err(err).Str("path", path).Msg("skipping file with unreadable metadata")
		return nil, false
	}
	prompt, ok := m.Get(metadata.FieldPrompt)
	if !ok || !filter.Match(prompt) {
		return nil, false
	}
	return m, true
}

// First returns the first image of folder
func (n *Navigator) First(folder string) (string, error) {
	files, err := n.List(folder)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", ErrEmptyFolder
	}
	return files[0], nil
}

// FirstPair returns the first two images of folder for a side by side comparison.
// second is empty when the folder holds a single image.
func (n *Navigator) FirstPair(folder string) (first string, second string, err error) {
	files, err := n.List(folder)
	if err != nil {
		return "", "", err
	}
	if len(files) == 0 {
		return "", "", ErrEmptyFolder
	}
	if len(files) > 1 {
		second = files[1]
	}
	return files[0], second, nil
}

// NextSibling returns the path of the folder next to folder in its parent, sorted by name
// with wraparound
func (n *Navigator) NextSibling(folder string, dir Direction) (string, error) {
	folder = filepath.Clean(folder)
	parent := filepath.Dir(folder)
	base := filepath.Base(folder)

	dirs, err := n.lister.Dirs(parent)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", parent, err)
	}
	sort.Strings(dirs)

	idx := sort.SearchStrings(dirs, base)
	if idx >= len(dirs) || dirs[idx] != base {
		return "", &SiblingNotFoundError{Folder: folder, Parent: parent}
	}
	next := mod(idx+dir.step(), len(dirs))
	return filepath.Join(parent, dirs[next]), nil
}

func mod(a, b int) int {
	return ((a % b) + b) % b
}
