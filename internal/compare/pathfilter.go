package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/masmgr/cmpbranch-go/internal/git"
)

// DiffBase selects which commit a candidate is diffed against when filtering by path.
type DiffBase string

const (
	// DiffBaseParent diffs a commit against its first parent (the empty tree for a root).
	DiffBaseParent DiffBase = "parent"
	// DiffBaseTraversal diffs a commit against the next entry of the history walk.
	// Across merges that entry need not be a parent.
	DiffBaseTraversal DiffBase = "traversal"
)

// ParseDiffBase parses a diff base name; the empty string selects DiffBaseParent.
func ParseDiffBase(s string) (DiffBase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parent", "first-parent":
		return DiffBaseParent, nil
	case "traversal", "next":
		return DiffBaseTraversal, nil
	default:
		return "", fmt.Errorf("invalid diff base %q (expected parent or traversal)", s)
	}
}

// PathFilter keeps commits that touch at least one of a set of path prefixes.
type PathFilter struct {
	acc      git.HistoryAccessor
	prefixes []string
	base     DiffBase
}

// NewPathFilter returns nil when no prefixes are given, so unconstrained
// runs never diff. Prefixes containing glob metacharacters are matched
// with doublestar as well as literally.
func NewPathFilter(acc git.HistoryAccessor, prefixes []string, base DiffBase) (*PathFilter, error) {
	cleaned := normalizePrefixes(prefixes)
	if len(cleaned) == 0 {
		return nil, nil
	}
	for _, p := range cleaned {
		if isGlob(p) && !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid path pattern %q", p)
		}
	}
	if base == "" {
		base = DiffBaseParent
	}
	return &PathFilter{acc: acc, prefixes: cleaned, base: base}, nil
}

// Prefixes returns the configured prefixes.
func (f *PathFilter) Prefixes() []string {
	return f.prefixes
}

// Matches reports whether the change introduced by current touches a prefix.
// next is the following entry of the walk and is only used with DiffBaseTraversal.
func (f *PathFilter) Matches(ctx context.Context, current, next *git.Commit) (bool, error) {
	other := ""
	switch f.base {
	case DiffBaseTraversal:
		if next != nil {
			other = next.Hash
		}
	default:
		if len(current.Parents) > 0 {
			other = current.Parents[0]
		}
	}

	paths, err := f.acc.ChangedPaths(ctx, current.Hash, other)
	if err != nil {
		return false, fmt.Errorf("changed paths of %s: %w", current.ShortHash(), err)
	}
	for _, p := range paths {
		if f.MatchPath(p) {
			return true, nil
		}
	}
	return false, nil
}

// MatchPath reports whether a single path falls under any prefix.
func (f *PathFilter) MatchPath(path string) bool {
	path = strings.ReplaceAll(path, "\\", "/")
	for _, prefix := range f.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
		if !isGlob(prefix) {
			continue
		}
		if ok, _ := doublestar.Match(prefix, path); ok {
			return true
		}
		if ok, _ := doublestar.Match(strings.TrimSuffix(prefix, "/")+"/**", path); ok {
			return true
		}
	}
	return false
}

// StaticPrefix returns the part of a prefix before its first glob metacharacter.
func StaticPrefix(prefix string) string {
	if i := strings.IndexAny(prefix, "*?[{"); i != -1 {
		return prefix[:i]
	}
	return prefix
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

func normalizePrefixes(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
		p = strings.TrimPrefix(p, "./")
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
