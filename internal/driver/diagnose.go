package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"mend/internal/diag"
	"mend/internal/lint"
	"mend/internal/observ"
	"mend/internal/project"
	"mend/internal/trace"
	"mend/internal/workspace"
)

// Stage определяет уровень диагностики
type Stage string

const (
	StageSyntax Stage = "syntax"
	StageLint   Stage = "lint"
)

// ParseStage accepts "syntax", "lint" and "all" (same as lint).
func ParseStage(s string) (Stage, error) {
	switch s {
	case "", "all", string(StageLint):
		return StageLint, nil
	case string(StageSyntax):
		return StageSyntax, nil
	}
	return StageLint, fmt.Errorf("invalid stage %q (expected: syntax|lint|all)", s)
}

// Options содержит опции для диагностики
type Options struct {
	Stage     Stage
	Rules     project.RuleSet
	Analyzers []*lint.Analyzer // nil: lint.All()
	Jobs      int              // 0: GOMAXPROCS

	MaxDiagnostics   int
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool

	Cache    *DiskCache
	Memory   *MemCache
	Observer PhaseObserver
}

func (o *Options) stage() Stage {
	if o.Stage == "" {
		return StageLint
	}
	return o.Stage
}

func (o *Options) analyzers() []*lint.Analyzer {
	if o.Analyzers == nil {
		return lint.All()
	}
	return o.Analyzers
}

func (o *Options) jobs(n int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// DocumentResult holds the diagnostics of one document, before the
// IgnoreWarnings / WarningsAsErrors post-processing.
type DocumentResult struct {
	Document    *workspace.Document
	Diagnostics []diag.Diagnostic
	Cached      bool
}

type Result struct {
	Solution  *workspace.Solution
	Documents []DocumentResult
	Bag       *diag.Bag // отсортировано, после пост-обработки
	Timer     *observ.Timer
	CacheHits int
}

// Diagnostics returns everything, sorted, post-processed and capped at
// MaxDiagnostics.
func (r *Result) Diagnostics() []diag.Diagnostic {
	return r.Bag.Items()
}

// Raw returns the diagnostics of doc as analyzers produced them.
func (r *Result) Raw(id workspace.DocumentID) []diag.Diagnostic {
	for _, dr := range r.Documents {
		if dr.Document.ID() == id {
			return dr.Diagnostics
		}
	}
	return nil
}

// Diagnose parses and lints every document of sol. Documents are processed
// in parallel, bounded by Jobs; a cancelled ctx aborts the run.
func Diagnose(ctx context.Context, sol *workspace.Solution, opts Options) (*Result, error) {
	if sol == nil {
		return nil, errors.New("driver: nil solution")
	}
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	ctx, span := trace.Start(ctx, trace.ScopePass, "diagnose")
	defer span.End("")

	docs := sol.Documents()
	span.WithExtra("documents", fmt.Sprint(len(docs)))
	res := &Result{
		Solution:  sol,
		Documents: make([]DocumentResult, len(docs)),
		Timer:     timer,
	}

	ph := opts.begin(timer, "cache")
	pending := make([]int, 0, len(docs))
	for i, doc := range docs {
		res.Documents[i].Document = doc
		if ds, ok := opts.lookup(ctx, doc); ok {
			res.Documents[i].Diagnostics = ds
			res.Documents[i].Cached = true
			res.CacheHits++
			continue
		}
		pending = append(pending, i)
	}
	ph.end(fmt.Sprintf("%d/%d hits", res.CacheHits, len(docs)))

	ph = opts.begin(timer, "parse")
	err := opts.each(ctx, pending, func(ctx context.Context, i int) error {
		ds, err := opts.parseDocument(ctx, docs[i])
		res.Documents[i].Diagnostics = ds
		return err
	})
	ph.end(fmt.Sprintf("%d documents", len(pending)))
	if err != nil {
		return nil, err
	}

	if opts.stage() == StageLint {
		ph = opts.begin(timer, "lint")
		err = opts.each(ctx, pending, func(ctx context.Context, i int) error {
			ds, err := opts.lintDocument(ctx, docs[i])
			res.Documents[i].Diagnostics = append(res.Documents[i].Diagnostics, ds...)
			return err
		})
		ph.end(fmt.Sprintf("%d analyzers", len(opts.analyzers())))
		if err != nil {
			return nil, err
		}
	}

	for _, i := range pending {
		opts.store(ctx, docs[i], res.Documents[i].Diagnostics)
	}

	ph = opts.begin(timer, "collect")
	res.Bag = diag.NewBag(opts.MaxDiagnostics)
	for _, dr := range res.Documents {
		for _, d := range dr.Diagnostics {
			if d, keep := opts.postprocess(d); keep {
				res.Bag.Add(d)
			}
		}
	}
	res.Bag.Sort()
	ph.end(fmt.Sprintf("%d diagnostics", res.Bag.Len()))
	return res, nil
}

// each runs fn for every index in idx with at most Jobs goroutines.
func (o *Options) each(ctx context.Context, idx []int, fn func(context.Context, int) error) error {
	if len(idx) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.jobs(len(idx)))
	for _, i := range idx {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("driver: %w", err)
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

func (o *Options) parseDocument(ctx context.Context, doc *workspace.Document) ([]diag.Diagnostic, error) {
	parsed, err := doc.ParseDiagnostics(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]diag.Diagnostic, 0, len(parsed))
	for _, d := range parsed {
		if d, keep := o.Rules.Apply(d); keep {
			out = append(out, d)
		}
	}
	return out, nil
}

func (o *Options) lintDocument(ctx context.Context, doc *workspace.Document) ([]diag.Diagnostic, error) {
	tree, err := doc.SyntaxTree(ctx)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(0)
	err = lint.Run(ctx, tree, lint.Options{
		Rules:     o.Rules,
		Reporter:  diag.BagReporter{Bag: bag},
		Analyzers: o.analyzers(),
	})
	if err != nil {
		return nil, fmt.Errorf("driver: %s: %w", doc.ID(), err)
	}
	return bag.Items(), nil
}

// analyze is the whole per-document pipeline, cache included.
func (o *Options) analyze(ctx context.Context, doc *workspace.Document) ([]diag.Diagnostic, error) {
	if ds, ok := o.lookup(ctx, doc); ok {
		return ds, nil
	}
	ds, err := o.parseDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	if o.stage() == StageLint {
		linted, err := o.lintDocument(ctx, doc)
		if err != nil {
			return nil, err
		}
		ds = append(ds, linted...)
	}
	o.store(ctx, doc, ds)
	return ds, nil
}

// lookup: сначала память, потом диск. Битый файл кеша — это промах.
func (o *Options) lookup(ctx context.Context, doc *workspace.Document) ([]diag.Diagnostic, bool) {
	if o.Memory == nil && o.Cache == nil {
		return nil, false
	}
	f := doc.File()
	if f == nil {
		return nil, false
	}
	key := documentKey(f, o)
	if ds, ok := o.Memory.Get(key, f.ID); ok {
		return ds, true
	}
	var payload DiskPayload
	ok, err := o.Cache.Get(key, &payload)
	if err != nil {
		trace.Point(ctx, trace.ScopeDocument, "cache-error", err.Error())
		return nil, false
	}
	if !ok {
		return nil, false
	}
	ds := diskPayloadToDiagnostics(&payload, f.ID)
	o.Memory.Put(key, ds)
	return ds, true
}

func (o *Options) store(ctx context.Context, doc *workspace.Document, ds []diag.Diagnostic) {
	if o.Memory == nil && o.Cache == nil {
		return
	}
	f := doc.File()
	if f == nil {
		return
	}
	key := documentKey(f, o)
	o.Memory.Put(key, ds)
	if err := o.Cache.Put(key, diagnosticsToDiskPayload(f.Path, ds)); err != nil {
		trace.Point(ctx, trace.ScopeDocument, "cache-error", err.Error())
	}
}

func (o *Options) postprocess(d diag.Diagnostic) (diag.Diagnostic, bool) {
	if o.IgnoreWarnings && d.Severity < diag.SevError {
		return d, false
	}
	if o.WarningsAsErrors && d.Severity == diag.SevWarning {
		d = d.WithSeverity(diag.SevError)
	}
	return d, true
}

type phase struct {
	timer *observ.Timer
	obs   PhaseObserver
	name  string
	idx   int
	start time.Time
}

func (o *Options) begin(timer *observ.Timer, name string) phase {
	o.Observer.emit(PhaseEvent{Name: name, Status: PhaseStart})
	return phase{timer: timer, obs: o.Observer, name: name, idx: timer.Begin(name), start: time.Now()}
}

func (p phase) end(note string) {
	p.timer.End(p.idx, note)
	p.obs.emit(PhaseEvent{Name: p.name, Status: PhaseEnd, Elapsed: time.Since(p.start), Note: note})
}

// Source adapts the driver to fix.DiagnosticSource: a fix-all run asks for
// the diagnostics of each document it visits.
type Source struct {
	opts Options
}

// NewSource uses opts for every document. Post-processing options are
// ignored: fixes need the codes whatever their severity.
func NewSource(opts Options) *Source {
	if opts.Memory == nil {
		opts.Memory = NewMemCache(16)
	}
	return &Source{opts: opts}
}

func (s *Source) DocumentDiagnostics(ctx context.Context, doc *workspace.Document) ([]diag.Diagnostic, error) {
	return s.opts.analyze(ctx, doc)
}
