package git

import (
	"errors"
	"fmt"
)

// ErrNoCommonAncestor is wrapped by AmbiguousAncestryError when the histories are disjoint.
var ErrNoCommonAncestor = errors.New("no common ancestor")

// ResolutionError reports a reference name or pattern that matched nothing.
type ResolutionError struct {
	Name    string
	Pattern bool
}

func (e *ResolutionError) Error() string {
	if e.Pattern {
		return fmt.Sprintf("no reference matches pattern %q", e.Name)
	}
	return fmt.Sprintf("reference not found: %s", e.Name)
}

// AmbiguousAncestryError reports that two commits do not share exactly one
// nearest common ancestor (disjoint histories or criss-cross merges).
type AmbiguousAncestryError struct {
	Source string
	Target string
	Count  int
}

func (e *AmbiguousAncestryError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("cannot find the unique common commit between %s and %s: no common ancestor", e.Source, e.Target)
	}
	return fmt.Sprintf("cannot find the unique common commit between %s and %s: %d candidates", e.Source, e.Target, e.Count)
}

func (e *AmbiguousAncestryError) Unwrap() error {
	if e.Count == 0 {
		return ErrNoCommonAncestor
	}
	return nil
}

// PathNotFoundError reports a path prefix absent from a reference's tree.
type PathNotFoundError struct {
	Ref  string
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path not found in %s: %s", e.Ref, e.Path)
}

// InvalidPatternError reports a reference pattern that does not compile.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid regex %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}
