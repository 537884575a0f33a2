package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mend/internal/diagfmt"
	"mend/internal/driver"
)

func newTreeCmd() *cobra.Command {
	treeCmd := &cobra.Command{
		Use:   "tree [flags] file.mnd",
		Short: "Parse a .mnd source file and print its syntax tree",
		Long:  `Tree parses a .mnd source file and prints the concrete syntax tree the fix providers edit`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTree,
	}
	treeCmd.Flags().String("format", "outline", "output format (outline|ascii|json)")
	return treeCmd
}

func runTree(cmd *cobra.Command, args []string) (err error) {
	finish, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = finish(err) }()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(cmd.Context(), args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		color, colorErr := useColor(cmd, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   color,
			Context: 2,
		})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "outline":
		return diagfmt.FormatTreeOutline(out, result.Tree)
	case "ascii":
		return diagfmt.FormatTreeASCII(out, result.Tree, result.FileSet)
	case "json":
		return diagfmt.FormatTreeJSON(out, result.Tree, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
