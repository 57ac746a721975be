package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/richinsley/pnginfo/config"
	"github.com/richinsley/pnginfo/differ"
	"github.com/richinsley/pnginfo/logger"
	"github.com/richinsley/pnginfo/navigator"
	"github.com/richinsley/pnginfo/render"
	"github.com/richinsley/pnginfo/source"
	"github.com/richinsley/pnginfo/viewer"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// application is the state shared by all commands, built once per invocation
type application struct {
	cfg      *config.Config
	logger   zerolog.Logger
	source   *source.Source
	nav      *navigator.Navigator
	viewer   *viewer.Viewer
	renderer *render.Renderer
}

var app *application

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogConfig.LogLevel = logLevel
	}
	if noColor {
		cfg.RenderConfig.NoColor = true
	}

	log, err := logger.NewWithWriter(cfg.LogConfig, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	src := source.New(log, source.WithTextEncoderClass(cfg.ViewerConfig.TextEncoderClass))
	nav := navigator.New(navigator.OSLister{}, src, log)
	app = &application{
		cfg:    cfg,
		logger: log,
		source: src,
		nav:    nav,
		viewer: viewer.New(src, nav, log),
		renderer: render.New(render.Options{
			NoColor: cfg.RenderConfig.NoColor,
			Inline:  cfg.RenderConfig.InlineDiff,
			Width:   cfg.RenderConfig.Width,
		}),
	}
	return nil
}

// direction reads the --backward flag
func direction() navigator.Direction {
	if backward {
		return navigator.Backward
	}
	return navigator.Forward
}

// filter returns the --filter flag, falling back to the configured default filter
func filter() navigator.Filter {
	expr := filterExpr
	if expr == "" {
		expr = app.cfg.ViewerConfig.Filter
	}
	return navigator.NewPromptFilter(expr)
}

func runShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if showRaw {
		chunks, err := app.source.Chunks(args[0])
		if err != nil && len(chunks) == 0 {
			return err
		}
		if err != nil {
			app.logger.Warn().Err(err).Str("path", args[0]).Msg("damaged PNG, showing the chunks read before the damage")
		}
		for _, c := range chunks {
			fmt.Fprintf(out, "[%s] %s\n%s\n", c.Type, c.Keyword, c.Text)
		}
		return nil
	}

	view := app.viewer.Single
	if err := view.Load(args[0]); err != nil {
		return err
	}

	if showJSON {
		data, err := json.MarshalIndent(view.Metadata(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fields := view.Metadata().Entries()
	if !showAll {
		fields = view.Fields(app.cfg.ViewerConfig.DisplayFields)
	}
	if len(fields) == 0 {
		fmt.Fprintln(out, "No generation metadata found.")
		return nil
	}
	fmt.Fprint(out, app.renderer.Metadata(fields))
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cv := app.viewer.Compare
	if err := cv.Left.Load(args[0]); err != nil {
		return err
	}
	if err := cv.Right.Load(args[1]); err != nil {
		return err
	}

	fields := fieldsFlag
	if len(fields) == 0 {
		fields = app.cfg.ViewerConfig.CompareFields
	}
	renderer := app.renderer
	if inlineDiff {
		renderer = render.New(render.Options{
			NoColor: app.cfg.RenderConfig.NoColor,
			Inline:  true,
			Width:   app.cfg.RenderConfig.Width,
		})
	}

	entries := cv.Diff(fields)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderer.SideBySide(entries, filepath.Base(args[0]), filepath.Base(args[1])))

	stats := differ.Summarize(entries)
	fmt.Fprintf(out, "%d fields: %d equal, %d different, %d with prompt changes\n",
		len(entries), stats.Equal, stats.Different, stats.TokenDiffs)
	return nil
}

func runNext(cmd *cobra.Command, args []string) error {
	view := app.viewer.Single
	if err := view.Load(args[0]); err != nil {
		return err
	}

	path, err := view.Step(direction(), filter())
	if errors.Is(err, viewer.ErrNoMatch) {
		return fmt.Errorf("no image in %s matches the filter", view.State().Folder)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, path)
	fmt.Fprint(out, app.renderer.Metadata(view.Fields(app.cfg.ViewerConfig.DisplayFields)))
	return nil
}

func runSibling(cmd *cobra.Command, args []string) error {
	folder, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	next, err := app.nav.NextSibling(folder, direction())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, next)
	first, err := app.nav.First(next)
	if errors.Is(err, navigator.ErrEmptyFolder) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, filepath.Join(next, first))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	m, err := app.source.Extract(args[0])
	if err != nil {
		return err
	}
	seed, ok := m.Seed()
	if !ok {
		return fmt.Errorf("%s has no seed", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), seed)
	return nil
}
