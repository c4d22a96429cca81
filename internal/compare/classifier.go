package compare

import (
	"context"
	"errors"
	"io"

	"github.com/masmgr/cmpbranch-go/internal/git"
)

// Record is one classified source commit.
type Record struct {
	Commit *git.Commit
	Tier   Tier
	// Alternate is set for TierTimestamp only.
	Alternate *Alternate
}

// Classifier walks the source history and classifies it against an Index.
type Classifier struct {
	acc    git.HistoryAccessor
	index  *Index
	filter *PathFilter
}

// NewClassifier creates a classifier. filter may be nil.
func NewClassifier(acc git.HistoryAccessor, index *Index, filter *PathFilter) *Classifier {
	return &Classifier{acc: acc, index: index, filter: filter}
}

// Walk classifies the commits from tip down to ancestor (exclusive), newest first,
// calling fn for every commit that passes the path filter.
func (c *Classifier) Walk(ctx context.Context, tip, ancestor string, fn func(Record) error) error {
	iter, err := c.acc.Ancestors(ctx, tip)
	if err != nil {
		return err
	}
	w := NewWindow(iter, ancestor)
	defer w.Close()

	for {
		current, next, err := w.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if c.filter != nil {
			ok, err := c.filter.Matches(ctx, current, next)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}

		tier, alt := c.index.Classify(current)
		if err := fn(Record{Commit: current, Tier: tier, Alternate: alt}); err != nil {
			return err
		}
	}
}

// Classify collects the records produced by Walk.
func (c *Classifier) Classify(ctx context.Context, tip, ancestor string) ([]Record, error) {
	var records []Record
	err := c.Walk(ctx, tip, ancestor, func(r Record) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
