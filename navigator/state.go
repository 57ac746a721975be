package navigator

import (
	"path/filepath"

	"github.com/richinsley/pnginfo/metadata"
)

// State is the navigation position of one view.
// LastIndex is only consulted when Current is no longer in the listing.
type State struct {
	Folder    string
	Current   string
	LastIndex int
}

// StateForFile returns the state of a view that just loaded path
func StateForFile(path string) State {
	return State{
		Folder:  filepath.Dir(path),
		Current: filepath.Base(path),
	}
}

// Path returns the full path of the current file, or "" when unset
func (s State) Path() string {
	if s.Current == "" {
		return ""
	}
	return filepath.Join(s.Folder, s.Current)
}

// Commit records a successful load of name at index of the folder listing
func (s *State) Commit(name string, index int) {
	s.Current = name
	s.LastIndex = index
}

// Step finds the next matching file and commits it to s. s is left untouched when nothing matched.
func (n *Navigator) Step(s *State, dir Direction, filter Filter) (string, bool, error) {
	name, _, ok, err := n.StepMetadata(s, dir, filter)
	return name, ok, err
}

// StepMetadata is Step that also returns the metadata the filter extracted from the accepted
// file. m is nil when filter is nil, since nothing was extracted.
func (n *Navigator) StepMetadata(s *State, dir Direction, filter Filter) (name string, m *metadata.Map, ok bool, err error) {
	found, ok, err := n.findNext(*s, dir, filter)
	if err != nil || !ok {
		return "", nil, ok, err
	}
	s.Commit(found.name, found.index)
	return found.name, found.metadata, true, nil
}

// Locate commits the position of the state's current file in the listing, refreshing LastIndex
func (n *Navigator) Locate(s *State) error {
	files, err := n.List(s.Folder)
	if err != nil {
		return err
	}
	for i, f := range files {
		if f == s.Current {
			s.LastIndex = i
			return nil
		}
	}
	return nil
}
