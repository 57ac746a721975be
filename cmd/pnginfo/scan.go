package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/richinsley/pnginfo/metadata"
	"github.com/richinsley/pnginfo/navigator"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// recursivePattern matches png files at any depth, extension case-insensitive
const recursivePattern = "**/*.[pP][nN][gG]"

// scanFiles returns the images of root as paths relative to root, sorted
func scanFiles(root string, recursive bool) ([]string, error) {
	if !recursive {
		return app.nav.List(root)
	}
	matches, err := doublestar.Glob(os.DirFS(root), recursivePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	sort.Strings(matches)
	return matches, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]
	files, err := scanFiles(root, recursive)
	if err != nil {
		return err
	}

	var barOut io.Writer = cmd.ErrOrStderr()
	if quiet {
		barOut = io.Discard
	}
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(barOut),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	f := filter()
	var matched []string
	var malformed int
	for _, name := range files {
		path := filepath.Join(root, name)
		m, err := app.source.Extract(path)
		_ = bar.Add(1)
		if errors.Is(err, metadata.ErrMalformedParameterFragment) {
			malformed++
			app.logger.Warn().Err(err).Str("path", path).Msg("skipping image with malformed parameters")
			continue
		}
		if err != nil {
			return err
		}
		if !accept(m, f) {
			continue
		}
		matched = append(matched, path)
	}
	_ = bar.Finish()

	out := cmd.OutOrStdout()
	for _, path := range matched {
		fmt.Fprintln(out, path)
	}
	app.logger.Info().
		Int("scanned", len(files)).
		Int("matched", len(matched)).
		Int("malformed", malformed).
		Msg("scan finished")
	return nil
}

// accept applies f the same way navigation does: no filter accepts everything,
// a missing prompt never matches
func accept(m *metadata.Map, f navigator.Filter) bool {
	if f == nil {
		return true
	}
	prompt, ok := m.Get(metadata.FieldPrompt)
	return ok && f.Match(prompt)
}
