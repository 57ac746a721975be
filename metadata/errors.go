package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedParameterFragment is returned when a parameter fragment has no colon
	ErrMalformedParameterFragment = errors.New("malformed parameter fragment")
	// ErrInvalidGraph is returned when graph metadata is not a JSON object of nodes
	ErrInvalidGraph = errors.New("invalid graph metadata")
)

// MalformedFragmentError carries the fragment that could not be split into key and value
type MalformedFragmentError struct {
	Fragment string
	Index    int
}

func (e *MalformedFragmentError) Error() string {
	return fmt.Sprintf("%s %d: %q has no ':'", ErrMalformedParameterFragment.Error(), e.Index, e.Fragment)
}

func (e *MalformedFragmentError) Unwrap() error {
	return ErrMalformedParameterFragment
}
