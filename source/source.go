package source

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/richinsley/pnginfo/metadata"
	"github.com/rs/zerolog"
)

// chunk keywords, compared case-insensitively
const (
	ParametersKey = "parameters"
	PromptKey     = "prompt"
)

// Opener opens a file for reading
type Opener func(path string) (io.ReadCloser, error)

func osOpen(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Source reads the embedded generation metadata of image files
type Source struct {
	logger zerolog.Logger
	graph  *metadata.GraphParser
	open   Opener
}

// Option configures a Source
type Option func(*Source)

// WithTextEncoderClass sets the class_type treated as the prompt text encoder in graph metadata
func WithTextEncoderClass(class string) Option {
	return func(s *Source) {
		s.graph = metadata.NewGraphParser(class)
	}
}

// WithOpener replaces the function used to open files
func WithOpener(open Opener) Option {
	return func(s *Source) {
		if open != nil {
			s.open = open
		}
	}
}

// New creates a Source
func New(logger zerolog.Logger, opts ...Option) *Source {
	s := &Source{
		logger: logger.With().Str("component", "source").Logger(),
		graph:  metadata.NewGraphParser(metadata.DefaultTextEncoderClass),
		open:   osOpen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract returns the metadata of the file at path.
// Files that cannot be read, are not a supported image type, or carry no recognized metadata
// yield an empty Map and no error. The only error returned is a malformed parameter text.
func (s *Source) Extract(path string) (*metadata.Map, error) {
	f, err := s.open(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("cannot open file")
		return metadata.NewMap(), nil
	}
	defer f.Close()

	m, err := s.ExtractReader(f)
	if err != nil {
		return nil, &ExtractError{Path: path, Err: err}
	}
	return m, nil
}

// ExtractReader is Extract for an already opened stream
func (s *Source) ExtractReader(r io.Reader) (*metadata.Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		s.logger.Warn().Err(err).Msg("cannot read image data")
		return metadata.NewMap(), nil
	}

	chunks, err := ReadTextChunks(bytes.NewReader(data))
	if errors.Is(err, ErrNotPNG) {
		return s.extractEXIF(data)
	}
	if err != nil {
		if len(chunks) == 0 {
			s.logger.Warn().Err(err).Msg("cannot decode PNG chunks")
			return metadata.NewMap(), nil
		}
		s.logger.Warn().Err(err).Int("chunks", len(chunks)).Msg("damaged PNG, using the text chunks read before the damage")
	}
	return s.dispatch(chunks)
}

// Chunks returns the raw text chunks of the PNG file at path. On a damaged file the chunks read
// before the damage are returned with the error.
func (s *Source) Chunks(path string) ([]TextChunk, error) {
	f, err := s.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTextChunks(f)
}

func (s *Source) dispatch(chunks []TextChunk) (*metadata.Map, error) {
	if text, ok := findChunk(chunks, ParametersKey); ok {
		return metadata.ParseParameterText(text)
	}
	if text, ok := findChunk(chunks, PromptKey); ok {
		m, err := s.graph.Parse(text)
		if err != nil {
			s.logger.Warn().Err(err).Msg("cannot parse graph metadata")
			return metadata.NewMap(), nil
		}
		return m, nil
	}
	s.logger.Debug().Int("chunks", len(chunks)).Msg("no recognized metadata chunk")
	return metadata.NewMap(), nil
}

func (s *Source) extractEXIF(data []byte) (*metadata.Map, error) {
	comment, err := ReadUserComment(bytes.NewReader(data))
	if err != nil {
		s.logger.Debug().Err(err).Msg("no embedded metadata")
		return metadata.NewMap(), nil
	}
	return metadata.ParseParameterText(comment)
}

func findChunk(chunks []TextChunk, key string) (string, bool) {
	for _, c := range chunks {
		if strings.EqualFold(c.Keyword, key) {
			return c.Text, true
		}
	}
	return "", false
}

// ExtractError reports the file whose metadata could not be parsed
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
