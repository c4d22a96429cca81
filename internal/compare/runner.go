package compare

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/masmgr/cmpbranch-go/internal/git"
)

// PatternPrefix marks a source argument as a regular expression over reference names.
const PatternPrefix = "re:"

// Options controls a comparison run.
type Options struct {
	// Swap exchanges source and target of every pair after pattern expansion.
	Swap bool
	// Paths restricts classification to commits touching these prefixes.
	Paths    []string
	DiffBase DiffBase
}

// Request names the two sides of a comparison. Source may carry PatternPrefix.
type Request struct {
	Source  string
	Target  string
	Options Options
}

// PairResult is the outcome of comparing one source reference with the target.
type PairResult struct {
	Source   string
	Target   string
	Ancestor *git.Commit
	Records  []Record
	Summary  Summary
	Err      error
}

// Failed reports whether the pair could not be compared.
func (p *PairResult) Failed() bool {
	return p.Err != nil
}

// Result holds every pair compared by a run, in expansion order.
type Result struct {
	Source  string
	Target  string
	Pattern bool
	Pairs   []PairResult
}

// Failed returns the number of pairs that could not be compared.
func (r *Result) Failed() int {
	n := 0
	for i := range r.Pairs {
		if r.Pairs[i].Failed() {
			n++
		}
	}
	return n
}

// Runner drives comparisons against a single repository.
type Runner struct {
	acc git.HistoryAccessor
}

// NewRunner creates a runner over acc.
func NewRunner(acc git.HistoryAccessor) *Runner {
	return &Runner{acc: acc}
}

// Run expands the source argument, checks the configured paths and compares
// every source with the target in turn. Pattern and path errors abort the
// run before any history is walked; resolution and ancestry errors are
// recorded on their pair and later pairs still run.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	sources, pattern, err := r.ExpandSources(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	filter, err := NewPathFilter(r.acc, req.Options.Paths, req.Options.DiffBase)
	if err != nil {
		return nil, err
	}
	if filter != nil {
		if err := r.Preflight(ctx, req.Target, filter.Prefixes()); err != nil {
			return nil, err
		}
	}

	result := &Result{Source: req.Source, Target: req.Target, Pattern: pattern}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		source, target := src, req.Target
		if req.Options.Swap {
			source, target = target, source
		}
		pair := r.comparePair(ctx, source, target, filter)
		if pair.Err != nil {
			slog.Debug("comparison failed", "source", source, "target", target, "err", pair.Err)
		}
		result.Pairs = append(result.Pairs, pair)
	}
	return result, nil
}

// Compare classifies the commits of source against target.
func (r *Runner) Compare(ctx context.Context, source, target string, opts Options) (PairResult, error) {
	filter, err := NewPathFilter(r.acc, opts.Paths, opts.DiffBase)
	if err != nil {
		return PairResult{}, err
	}
	if opts.Swap {
		source, target = target, source
	}
	pair := r.comparePair(ctx, source, target, filter)
	return pair, pair.Err
}

// ExpandSources returns the source names for an argument. A PatternPrefix
// argument expands to every matching reference, sorted by full name.
func (r *Runner) ExpandSources(ctx context.Context, arg string) ([]string, bool, error) {
	if !strings.HasPrefix(arg, PatternPrefix) {
		return []string{arg}, false, nil
	}
	expr := strings.TrimPrefix(arg, PatternPrefix)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, true, &git.InvalidPatternError{Pattern: expr, Err: err}
	}
	refs, err := r.acc.Match(ctx, re)
	if err != nil {
		return nil, true, fmt.Errorf("match %q: %w", expr, err)
	}
	if len(refs) == 0 {
		return nil, true, &git.ResolutionError{Name: expr, Pattern: true}
	}
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	slog.Debug("expanded pattern", "pattern", expr, "matches", len(names))
	return names, true, nil
}

// Preflight requires every prefix to exist in the tree of the named reference.
// Glob prefixes are checked by their static leading part.
func (r *Runner) Preflight(ctx context.Context, name string, prefixes []string) error {
	ref, err := r.acc.Resolve(ctx, name)
	if err != nil {
		return err
	}
	for _, prefix := range prefixes {
		ok, err := r.acc.TreeHasPrefix(ctx, ref.Hash, StaticPrefix(prefix))
		if err != nil {
			return fmt.Errorf("check path %s in %s: %w", prefix, name, err)
		}
		if !ok {
			return &git.PathNotFoundError{Ref: name, Path: prefix}
		}
	}
	return nil
}

func (r *Runner) comparePair(ctx context.Context, source, target string, filter *PathFilter) PairResult {
	pair := PairResult{Source: source, Target: target}

	srcRef, err := r.acc.Resolve(ctx, source)
	if err != nil {
		pair.Err = err
		return pair
	}
	dstRef, err := r.acc.Resolve(ctx, target)
	if err != nil {
		pair.Err = err
		return pair
	}

	ancestor, err := ResolveAncestor(ctx, r.acc, srcRef, dstRef)
	if err != nil {
		pair.Err = err
		return pair
	}
	pair.Ancestor = ancestor
	slog.Debug("merge base", "source", srcRef.Name, "target", dstRef.Name, "ancestor", ancestor.ShortHash())

	index, err := BuildIndex(ctx, r.acc, dstRef.Hash, ancestor.Hash)
	if err != nil {
		pair.Err = fmt.Errorf("index %s: %w", target, err)
		return pair
	}
	slog.Debug("indexed target history", "target", dstRef.Name, "commits", index.Len())

	records, err := NewClassifier(r.acc, index, filter).Classify(ctx, srcRef.Hash, ancestor.Hash)
	if err != nil {
		pair.Err = fmt.Errorf("classify %s: %w", source, err)
		return pair
	}
	pair.Records = records
	pair.Summary = Summarize(records)
	return pair
}
