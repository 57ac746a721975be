// Package main provides the pnginfo CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "pnginfo",
	Short:             "Inspect, compare and browse the generation metadata of PNG images",
	Long:              `pnginfo reads the generation parameters embedded in PNG images by Stable Diffusion front ends (A1111 "parameters" text or ComfyUI "prompt" graphs), compares them field by field and walks folders of images.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var showCmd = &cobra.Command{
	Use:   "show <image>",
	Short: "Show the metadata of an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var compareCmd = &cobra.Command{
	Use:   "compare <left-image> <right-image>",
	Short: "Compare the metadata of two images",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

var nextCmd = &cobra.Command{
	Use:   "next <image>",
	Short: "Find the next image in the same folder, optionally filtered by prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runNext,
}

var siblingCmd = &cobra.Command{
	Use:   "sibling <folder>",
	Short: "Find the neighbouring folder and its first image",
	Args:  cobra.ExactArgs(1),
	RunE:  runSibling,
}

var seedCmd = &cobra.Command{
	Use:   "seed <image>",
	Short: "Print the seed of an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

var scanCmd = &cobra.Command{
	Use:   "scan <folder>",
	Short: "List the images of a folder whose prompt matches a filter",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

var (
	configPath string
	logLevel   string
	noColor    bool

	showRaw    bool
	showJSON   bool
	showAll    bool
	inlineDiff bool
	fieldsFlag []string
	backward   bool
	filterExpr string
	recursive  bool
	quiet      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a pnginfo.yaml or pnginfo.json configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the raw PNG text chunks")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showAll, "all", false, "Show every field instead of the display fields")

	compareCmd.Flags().BoolVar(&inlineDiff, "inline", false, "Show character changes of differing values")
	compareCmd.Flags().StringSliceVar(&fieldsFlag, "fields", nil, "Fields to compare (default: configured compare fields)")

	for _, c := range []*cobra.Command{nextCmd, siblingCmd} {
		c.Flags().BoolVarP(&backward, "backward", "b", false, "Move backward instead of forward")
	}
	for _, c := range []*cobra.Command{nextCmd, scanCmd} {
		c.Flags().StringVarP(&filterExpr, "filter", "f", "", "Prompt filter, a regular expression or a literal substring")
	}

	scanCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Scan subfolders too")
	scanCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(siblingCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(scanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
