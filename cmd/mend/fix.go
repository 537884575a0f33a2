package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	udiff "github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"mend/internal/codefix"
	"mend/internal/diag"
	"mend/internal/driver"
	"mend/internal/fix"
	"mend/internal/project"
	"mend/internal/ui"
	"mend/internal/workspace"
)

func newFixCmd() *cobra.Command {
	fixCmd := &cobra.Command{
		Use:   "fix [flags] <file.mnd|directory>",
		Short: "Apply available fixes to a source file or directory",
		Long: `Run diagnostics, pick fixes according to the chosen strategy and apply them.
Fixes of one provider in one document share a single edit session; a failing
batch leaves every file untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: runFix,
	}
	fixCmd.Flags().Bool("all", false, "apply all safe fixes, repeating until nothing changes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().String("provider", "", "run one provider's fix-all over the whole solution")
	fixCmd.Flags().Int("passes", 8, "max diagnose/apply rounds for --all")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers (0=[fix].jobs or auto)")
	fixCmd.Flags().Bool("dry-run", false, "compute fixes without writing files")
	fixCmd.Flags().Bool("diff", false, "print a unified diff of every changed file")
	fixCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	addCacheFlags(fixCmd)
	return fixCmd
}

type fixFlags struct {
	mode     fix.ApplyMode
	targetID string
	provider string
	passes   int
	jobs     int
	dryRun   bool
	diff     bool
	ui       uiMode
	quiet    bool
	cache    cacheFlags
}

func readFixFlags(cmd *cobra.Command, cfg project.Config) (fixFlags, error) {
	var f fixFlags

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return f, err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return f, err
	}
	if f.targetID, err = cmd.Flags().GetString("id"); err != nil {
		return f, err
	}
	if f.provider, err = cmd.Flags().GetString("provider"); err != nil {
		return f, err
	}

	if f.targetID != "" && (applyAll || applyOnce) {
		return f, fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return f, fmt.Errorf("--all and --once are mutually exclusive")
	}
	if f.provider != "" && (f.targetID != "" || applyOnce) {
		return f, fmt.Errorf("--provider cannot be combined with --id or --once")
	}

	// без флагов режим берётся из [fix].mode
	switch {
	case f.targetID != "":
		f.mode = fix.ApplyModeID
	case applyAll:
		f.mode = fix.ApplyModeAll
	case applyOnce:
		f.mode = fix.ApplyModeOnce
	default:
		if f.mode, err = fix.ParseApplyMode(cfg.Fix.Mode); err != nil {
			return f, err
		}
	}

	if f.passes, err = cmd.Flags().GetInt("passes"); err != nil {
		return f, err
	}
	if f.passes < 1 {
		return f, fmt.Errorf("--passes must be at least 1")
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, err
	}
	if f.jobs == 0 {
		f.jobs = cfg.Fix.Jobs
	}
	if f.dryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return f, err
	}
	if f.diff, err = cmd.Flags().GetBool("diff"); err != nil {
		return f, err
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	if f.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return f, err
	}
	if f.cache, err = readCacheFlags(cmd); err != nil {
		return f, err
	}
	return f, nil
}

// fixOutcome is what one `mend fix` run did. Final is nil when nothing
// changed.
type fixOutcome struct {
	Base    *workspace.Solution
	Final   *workspace.Solution
	Applied []fix.AppliedFix
	Skipped []fix.SkippedFix
	Written []*workspace.Document
	Passes  int
}

// Changed lists documents of Final that differ from Base.
func (o *fixOutcome) Changed() []*workspace.Document {
	if o == nil || o.Final == nil {
		return nil
	}
	return o.Final.ChangedDocuments(o.Base)
}

func runFix(cmd *cobra.Command, args []string) (err error) {
	finish, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = finish(err) }()

	target := args[0]
	manifest, err := loadManifest(cmd, target)
	if err != nil {
		return err
	}
	flags, err := readFixFlags(cmd, manifest.Config)
	if err != nil {
		return err
	}
	base, err := loadSolution(cmd, target, manifest, 0)
	if err != nil {
		return err
	}
	reg, err := codefix.NewRegistry()
	if err != nil {
		return err
	}
	cache, err := openCache(flags.cache, manifest)
	if err != nil {
		return err
	}

	docs := base.Documents()
	dopts := driver.Options{
		Stage:  driver.StageLint,
		Rules:  manifest.Config.RuleSet(),
		Jobs:   flags.jobs,
		Cache:  cache,
		Memory: driver.NewMemCache(len(docs)),
	}

	work := func(ctx context.Context, sink progressSink) (*fixOutcome, error) {
		var (
			out *fixOutcome
			err error
		)
		if flags.provider != "" {
			out, err = fixWithProvider(ctx, base, reg, flags, dopts, sink)
		} else {
			out, err = fixWithPasses(ctx, base, reg, flags, dopts, sink)
		}
		if err != nil {
			return out, err
		}
		return out, saveOutcome(ctx, out, flags.dryRun, sink)
	}

	var outcome *fixOutcome
	if shouldUseTUI(flags.ui) && !flags.diff && len(docs) > 0 {
		files := make([]string, 0, len(docs))
		for _, doc := range docs {
			files = append(files, string(doc.ID()))
		}
		outcome, err = runFixWithUI(cmd.Context(), cmd.OutOrStdout(), "mend fix", files, work)
	} else {
		outcome, err = work(cmd.Context(), progressSink{})
	}
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	out := cmd.OutOrStdout()
	if flags.diff {
		if err := printDiffs(out, outcome); err != nil {
			return err
		}
	}
	if flags.quiet {
		return nil
	}
	return printFixSummary(out, outcome, flags)
}

// fixWithPasses alternates diagnose and fix.Apply. In all-mode the loop runs
// until no fix applies or the pass budget is spent, so fixes skipped for
// overlapping an earlier batch land in a later pass.
func fixWithPasses(ctx context.Context, base *workspace.Solution, reg *fix.Registry, flags fixFlags, dopts driver.Options, sink progressSink) (*fixOutcome, error) {
	out := &fixOutcome{Base: base}
	passes := 1
	if flags.mode == fix.ApplyModeAll {
		passes = flags.passes
	}

	cur := base
	for pass := 0; pass < passes; pass++ {
		for _, doc := range cur.Documents() {
			sink.emit(ui.Event{File: string(doc.ID()), Stage: ui.StageDiagnose, Status: ui.StatusWorking})
		}
		res, err := driver.Diagnose(ctx, cur, dopts)
		if err != nil {
			return out, err
		}
		var ds []diag.Diagnostic
		for _, dr := range res.Documents {
			ds = append(ds, dr.Diagnostics...)
		}

		applied, err := fix.Apply(ctx, cur, ds, fix.ApplyOptions{
			Mode:     flags.mode,
			TargetID: flags.targetID,
			Registry: reg,
		})
		if applied != nil {
			out.Skipped = applied.Skipped
		}
		if errors.Is(err, fix.ErrNoFixes) {
			break
		}
		if err != nil {
			return out, err
		}
		out.Applied = append(out.Applied, applied.Applied...)
		for _, ch := range applied.Changes {
			sink.emit(ui.Event{File: string(ch.Document), Stage: ui.StageFix, Status: ui.StatusWorking, Fixed: ch.Fixes})
		}
		cur = applied.Solution
		out.Final = cur
		out.Passes++
	}
	return out, nil
}

// fixWithProvider runs one provider's fix-all across the solution, taking
// diagnostics straight from the driver.
func fixWithProvider(ctx context.Context, base *workspace.Solution, reg *fix.Registry, flags fixFlags, dopts driver.Options, sink progressSink) (*fixOutcome, error) {
	p, ok := reg.Provider(flags.provider)
	if !ok {
		names := make([]string, 0)
		for _, q := range reg.Providers() {
			names = append(names, q.Name())
		}
		slices.Sort(names)
		return nil, fmt.Errorf("unknown provider %q (known: %s)", flags.provider, strings.Join(names, ", "))
	}

	bf := &fix.BatchFixer{
		Progress: func(done, total int, id workspace.DocumentID) {
			sink.emit(ui.Event{File: string(id), Stage: ui.StageFix, Status: ui.StatusWorking})
		},
	}
	next, err := bf.FixAll(ctx, fix.FixAllContext{
		Scope:    fix.ScopeSolution,
		Solution: base,
		Provider: p,
		Source:   driver.NewSource(dopts),
		Jobs:     dopts.Jobs,
	})
	if err != nil {
		return nil, err
	}
	out := &fixOutcome{Base: base, Passes: 1}
	if len(next.ChangedDocuments(base)) > 0 {
		out.Final = next
	}
	return out, nil
}

// saveOutcome writes changed documents unless dryRun and reports the final
// state of every document.
func saveOutcome(ctx context.Context, out *fixOutcome, dryRun bool, sink progressSink) error {
	changed := make(map[workspace.DocumentID]bool)
	for _, doc := range out.Changed() {
		changed[doc.ID()] = true
		sink.emit(ui.Event{File: string(doc.ID()), Stage: ui.StageWrite, Status: ui.StatusWorking})
	}
	if !dryRun && out.Final != nil {
		written, err := out.Final.Save(ctx, out.Base)
		out.Written = written
		if err != nil {
			for id := range changed {
				sink.emit(ui.Event{File: string(id), Stage: ui.StageWrite, Status: ui.StatusError})
			}
			return err
		}
	}
	for _, doc := range out.Base.Documents() {
		status := ui.StatusUnchanged
		if changed[doc.ID()] {
			status = ui.StatusDone
		}
		sink.emit(ui.Event{File: string(doc.ID()), Stage: ui.StageWrite, Status: status})
	}
	return nil
}

func printDiffs(w io.Writer, out *fixOutcome) error {
	for _, doc := range out.Changed() {
		before, ok := out.Base.Document(doc.ID())
		if !ok {
			continue
		}
		id := string(doc.ID())
		if _, err := io.WriteString(w, udiff.Unified("a/"+id, "b/"+id, before.Text(), doc.Text())); err != nil {
			return err
		}
	}
	return nil
}

func printFixSummary(w io.Writer, out *fixOutcome, flags fixFlags) error {
	var printErr error
	pf := func(format string, args ...any) {
		if printErr == nil {
			_, printErr = fmt.Fprintf(w, format, args...)
		}
	}

	if len(out.Applied) > 0 {
		pf("Applied %d fix(es):\n", len(out.Applied))
		for _, item := range out.Applied {
			pf("  %s [%s] in %s (%s)\n", item.Title, item.ID, item.Document, item.Applicability)
		}
	}

	changed := out.Changed()
	if len(changed) > 0 {
		if flags.dryRun {
			pf("Would update files:\n")
		} else {
			pf("Updated files:\n")
		}
		for _, doc := range changed {
			pf("  %s\n", doc.ID())
		}
	}

	if len(out.Skipped) > 0 {
		pf("Skipped fixes:\n")
		for _, skip := range out.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				pf("  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				pf("  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	switch {
	case len(changed) == 0 && len(out.Applied) == 0:
		pf("No applicable fixes found.\n")
	case flags.mode == fix.ApplyModeAll && out.Passes >= flags.passes && flags.provider == "":
		pf("Reached the --passes limit (%d); more fixes may remain.\n", out.Passes)
	}
	return printErr
}
