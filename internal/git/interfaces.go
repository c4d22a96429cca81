package git

import (
	"context"
	"regexp"
)

// HistoryAccessor is the read-only view of a repository used by branch comparison.
// This abstraction allows for easier testing and alternative implementations.
type HistoryAccessor interface {
	// Resolve looks up a single reference by name.
	Resolve(ctx context.Context, name string) (Ref, error)
	// Match returns every reference whose short name matches the pattern at its start.
	Match(ctx context.Context, pattern *regexp.Regexp) ([]Ref, error)
	// Commit loads a single commit.
	Commit(ctx context.Context, hash string) (*Commit, error)
	// Ancestors iterates the history reachable from tip, newest first, tip included.
	Ancestors(ctx context.Context, tip string) (CommitIter, error)
	// MergeBase returns the unique nearest common ancestor of a and b.
	MergeBase(ctx context.Context, a, b string) (*Commit, error)
	// ChangedPaths lists the paths touched between two commits.
	// An empty to hash stands for the empty tree.
	ChangedPaths(ctx context.Context, from, to string) ([]string, error)
	// TreeHasPrefix reports whether any entry of tip's tree starts with prefix.
	TreeHasPrefix(ctx context.Context, tip, prefix string) (bool, error)
}

// CommitIter is a lazy, single-use commit sequence.
// Next returns io.EOF once the sequence is exhausted.
type CommitIter interface {
	Next() (*Commit, error)
	Close()
}

// Compile-time interface conformance checks.
var (
	_ HistoryAccessor = (*Accessor)(nil)
	_ HistoryAccessor = (*CLIAccessor)(nil)
	_ HistoryAccessor = (*MockAccessor)(nil)
)
