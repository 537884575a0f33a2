package lint

import (
	"context"
	"fmt"

	"mend/internal/diag"
	"mend/internal/project"
	"mend/internal/syntax"
)

// Analyzer checks one node at a time.
type Analyzer struct {
	Code diag.Code
	Doc  string
	// Visit inspects n and reports through p.
	Visit func(p *Pass, id syntax.NodeID, n *syntax.Node)
}

func (a *Analyzer) Name() string { return a.Code.Rule() }

// Pass carries one run over one tree.
type Pass struct {
	Tree     *syntax.Tree
	analyzer *Analyzer
	reporter diag.Reporter
}

// Report starts a warning for the current analyzer's code; call Emit on it.
func (p *Pass) Report(id syntax.NodeID, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportWarning(p.reporter, p.analyzer.Code, p.Tree.Span(id), fmt.Sprintf(format, args...))
}

// Parent returns the parent node of id, nil for the root.
func (p *Pass) Parent(id syntax.NodeID) *syntax.Node {
	parent := p.Tree.Parent(id)
	if parent == syntax.NoNodeID {
		return nil
	}
	return p.Tree.Node(parent)
}

// Options configure Run.
type Options struct {
	Rules    project.RuleSet
	Reporter diag.Reporter
	// Analyzers overrides the default set.
	Analyzers []*Analyzer
}

// All returns the built-in analyzers in code order.
func All() []*Analyzer {
	return []*Analyzer{
		RedundantParens,
		DoubleNegation,
		IdentityArith,
		BoolCompare,
		SelfCompare,
	}
}

// Run walks tree once, feeding every node to each enabled analyzer. Rule
// severities from opts.Rules are applied before reporting.
func Run(ctx context.Context, tree *syntax.Tree, opts Options) error {
	analyzers := opts.Analyzers
	if analyzers == nil {
		analyzers = All()
	}
	passes := make([]*Pass, 0, len(analyzers))
	rep := ruleReporter{rules: opts.Rules, next: opts.Reporter}
	for _, a := range analyzers {
		if !opts.Rules.Enabled(a.Code) {
			continue
		}
		passes = append(passes, &Pass{Tree: tree, analyzer: a, reporter: rep})
	}
	if len(passes) == 0 {
		return nil
	}

	var err error
	visited := 0
	tree.Walk(func(id syntax.NodeID, n *syntax.Node) bool {
		if err != nil {
			return false
		}
		visited++
		if visited%512 == 0 {
			if cerr := ctx.Err(); cerr != nil {
				err = fmt.Errorf("lint: %w", cerr)
				return false
			}
		}
		for _, p := range passes {
			p.analyzer.Visit(p, id, n)
		}
		return true
	})
	if err != nil {
		return err
	}
	if cerr := ctx.Err(); cerr != nil {
		return fmt.Errorf("lint: %w", cerr)
	}
	return nil
}

// Diagnose is Run into a fresh slice.
func Diagnose(ctx context.Context, tree *syntax.Tree, rules project.RuleSet) ([]diag.Diagnostic, error) {
	bag := diag.NewBag(0)
	if err := Run(ctx, tree, Options{Rules: rules, Reporter: diag.BagReporter{Bag: bag}}); err != nil {
		return nil, err
	}
	return bag.Items(), nil
}

// ruleReporter applies the project rule set on the way out.
type ruleReporter struct {
	rules project.RuleSet
	next  diag.Reporter
}

func (r ruleReporter) Report(d diag.Diagnostic) {
	d, keep := r.rules.Apply(d)
	if !keep || r.next == nil {
		return
	}
	r.next.Report(d)
}
