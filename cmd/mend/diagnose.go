package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mend/internal/codefix"
	"mend/internal/diag"
	"mend/internal/diagfmt"
	"mend/internal/driver"
	"mend/internal/fix"
	"mend/internal/observ"
	"mend/internal/source"
	"mend/internal/workspace"
)

func newDiagCmd() *cobra.Command {
	diagCmd := &cobra.Command{
		Use:   "diag [flags] <file.mnd|directory>",
		Short: "Run diagnostics on a .mnd source file or directory",
		Long:  `Run the parser and the lint analyzers over a .mnd file or every *.mnd file below a directory`,
		Args:  cobra.ExactArgs(1),
		RunE:  runDiagnose,
	}
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagCmd.Flags().String("stages", "all", "diagnostic stages to run (syntax|lint|all)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0=[fix].jobs or auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "show the lines each suggested fix would change")
	diagCmd.Flags().Bool("unnecessary", false, "also show faded diagnostics that mark removable code")
	diagCmd.Flags().String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
	diagCmd.Flags().Uint8("width", 0, "clip source lines to this many columns (0 = off)")
	addCacheFlags(diagCmd)
	return diagCmd
}

type diagFlags struct {
	format           string
	stage            driver.Stage
	noWarnings       bool
	warningsAsErrors bool
	jobs             int
	withNotes        bool
	suggest          bool
	preview          bool
	unnecessary      bool
	pathMode         diagfmt.PathMode
	width            uint8
	maxDiagnostics   int
	timings          bool
	cache            cacheFlags
}

func readDiagFlags(cmd *cobra.Command) (diagFlags, error) {
	var f diagFlags
	var err error

	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "json", "short":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}

	stagesStr, err := cmd.Flags().GetString("stages")
	if err != nil {
		return f, fmt.Errorf("failed to get stages flag: %w", err)
	}
	if f.stage, err = driver.ParseStage(stagesStr); err != nil {
		return f, err
	}

	if f.noWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return f, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.noWarnings && f.warningsAsErrors {
		return f, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return f, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if f.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return f, fmt.Errorf("failed to get preview flag: %w", err)
	}
	// превью без подсказок бессмысленно
	if f.preview {
		f.suggest = true
	}
	if f.unnecessary, err = cmd.Flags().GetBool("unnecessary"); err != nil {
		return f, fmt.Errorf("failed to get unnecessary flag: %w", err)
	}

	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if f.pathMode, ok = diagfmt.ParsePathMode(pathModeStr); !ok {
		return f, fmt.Errorf("unknown path-mode: %s", pathModeStr)
	}
	if f.width, err = cmd.Flags().GetUint8("width"); err != nil {
		return f, fmt.Errorf("failed to get width flag: %w", err)
	}

	if f.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.cache, err = readCacheFlags(cmd); err != nil {
		return f, err
	}
	return f, nil
}

// runDiagnose executes the "diag" command: it loads the target, runs the
// requested stages and prints the result in the chosen format. Error
// diagnostics make the command fail with errFindings.
func runDiagnose(cmd *cobra.Command, args []string) (err error) {
	finish, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = finish(err) }()

	flags, err := readDiagFlags(cmd)
	if err != nil {
		return err
	}

	target := args[0]
	manifest, err := loadManifest(cmd, target)
	if err != nil {
		return err
	}
	sol, err := loadSolution(cmd, target, manifest, flags.maxDiagnostics)
	if err != nil {
		return err
	}
	cache, err := openCache(flags.cache, manifest)
	if err != nil {
		return err
	}

	jobs := flags.jobs
	if jobs == 0 {
		jobs = manifest.Config.Fix.Jobs
	}
	opts := driver.Options{
		Stage:            flags.stage,
		Rules:            manifest.Config.RuleSet(),
		Jobs:             jobs,
		MaxDiagnostics:   flags.maxDiagnostics,
		IgnoreWarnings:   flags.noWarnings,
		WarningsAsErrors: flags.warningsAsErrors,
		EnableTimings:    flags.timings,
		Cache:            cache,
	}
	result, err := driver.Diagnose(cmd.Context(), sol, opts)
	if err != nil {
		return fmt.Errorf("diagnose failed: %w", err)
	}

	var lookup diagfmt.FixLookup
	if flags.suggest {
		reg, regErr := codefix.NewRegistry()
		if regErr != nil {
			return regErr
		}
		lookup = fixLookup(cmd, sol, reg, flags.preview)
	}

	out := cmd.OutOrStdout()
	fs := sol.FileSet()
	switch flags.format {
	case "pretty":
		color, colorErr := useColor(cmd, os.Stdout)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(out, result.Bag, fs, diagfmt.PrettyOpts{
			Color:           color,
			Context:         2,
			PathMode:        flags.pathMode,
			Width:           flags.width,
			ShowNotes:       flags.withNotes,
			ShowFixes:       flags.suggest,
			ShowPreview:     flags.preview,
			ShowUnnecessary: flags.unnecessary,
			Fixes:           lookup,
		})
		if result.Timer != nil {
			fmt.Fprint(cmd.ErrOrStderr(), result.Timer.Summary())
		}
	case "json":
		var report *observ.Report
		if result.Timer != nil {
			r := result.Timer.Report()
			report = &r
		}
		err = diagfmt.JSON(out, result.Bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         flags.pathMode,
			IncludeNotes:     flags.withNotes,
			IncludeFixes:     flags.suggest,
			IncludePreviews:  flags.preview,
			Fixes:            lookup,
			Timings:          report,
		})
	case "short":
		err = diagfmt.Short(out, result.Bag, fs, flags.withNotes)
	}
	if err != nil {
		return err
	}

	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet && flags.format == "pretty" {
		printDiagSummary(cmd, result)
	}
	if result.Bag.HasErrors() {
		return errFindings
	}
	return nil
}

func printDiagSummary(cmd *cobra.Command, result *driver.Result) {
	var errs, warns, infos int
	for _, d := range result.Diagnostics() {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warns++
		default:
			infos++
		}
	}
	parts := []string{
		plural(len(result.Documents), "file"),
		plural(errs, "error"),
		plural(warns, "warning"),
	}
	if infos > 0 {
		parts = append(parts, plural(infos, "info"))
	}
	if result.CacheHits > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", result.CacheHits))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), strings.Join(parts, ", "))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// fixLookup offers the registry's actions for every diagnostic. With preview
// each action is applied to a scratch copy of its document.
func fixLookup(cmd *cobra.Command, sol *workspace.Solution, reg *fix.Registry, preview bool) diagfmt.FixLookup {
	byFile := make(map[source.FileID]*workspace.Document)
	for _, doc := range sol.Documents() {
		byFile[doc.FileID()] = doc
	}
	return func(d diag.Diagnostic) []diagfmt.FixHint {
		doc, ok := byFile[d.Primary.File]
		if !ok {
			return nil
		}
		actions := reg.Actions(doc, d)
		hints := make([]diagfmt.FixHint, 0, len(actions))
		for _, a := range actions {
			h := diagfmt.FixHint{
				ID:            fix.FixID(doc, d),
				Title:         a.Title,
				Applicability: a.Applicability.String(),
			}
			if preview {
				if fixed, err := a.Apply(cmd.Context(), doc); err == nil {
					h.Before, h.After = doc.Text(), fixed.Text()
				}
			}
			hints = append(hints, h)
		}
		return hints
	}
}
