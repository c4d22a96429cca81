package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/masmgr/cmpbranch-go/internal/git"
)

// ResolveAncestor finds the unique common ancestor anchoring both walks.
// Ambiguity errors are reported with both reference names.
func ResolveAncestor(ctx context.Context, acc git.HistoryAccessor, source, target git.Ref) (*git.Commit, error) {
	base, err := acc.MergeBase(ctx, source.Hash, target.Hash)
	if err != nil {
		var ambErr *git.AmbiguousAncestryError
		if errors.As(err, &ambErr) {
			return nil, &git.AmbiguousAncestryError{Source: source.Name, Target: target.Name, Count: ambErr.Count}
		}
		return nil, fmt.Errorf("merge base of %s and %s: %w", source.Name, target.Name, err)
	}
	return base, nil
}
