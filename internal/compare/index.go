package compare

import (
	"context"
	"fmt"
	"io"

	"github.com/masmgr/cmpbranch-go/internal/git"
)

type exactKey struct {
	Time    int64
	Author  string
	Subject string
}

type subjectKey struct {
	Author  string
	Subject string
}

type stampKey struct {
	Time   int64
	Author string
}

// Alternate is the target commit found by a timestamp match.
type Alternate struct {
	Subject   string
	ShortHash string
}

// Index holds the target history between its tip and the common ancestor,
// keyed three ways for classification.
type Index struct {
	exact     map[exactKey]struct{}
	bySubject map[subjectKey]struct{}
	byStamp   map[stampKey]Alternate
	size      int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		exact:     make(map[exactKey]struct{}),
		bySubject: make(map[subjectKey]struct{}),
		byStamp:   make(map[stampKey]Alternate),
	}
}

// BuildIndex walks the target history from tip and indexes every commit
// until ancestor is reached. The ancestor itself is not indexed.
func BuildIndex(ctx context.Context, acc git.HistoryAccessor, tip, ancestor string) (*Index, error) {
	iter, err := acc.Ancestors(ctx, tip)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	ix := NewIndex()
	for {
		c, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read target history: %w", err)
		}
		if c.Hash == ancestor {
			break
		}
		ix.Add(c)
	}
	return ix, nil
}

// Add indexes a commit. A later commit with the same timestamp and author
// replaces the alternate recorded for an earlier one.
func (ix *Index) Add(c *git.Commit) {
	subject := c.Subject()
	stamp := c.AuthorStamp()
	ix.exact[exactKey{Time: stamp, Author: c.AuthorName, Subject: subject}] = struct{}{}
	ix.bySubject[subjectKey{Author: c.AuthorName, Subject: subject}] = struct{}{}
	ix.byStamp[stampKey{Time: stamp, Author: c.AuthorName}] = Alternate{Subject: subject, ShortHash: c.ShortHash()}
	ix.size++
}

// Len returns the number of indexed commits.
func (ix *Index) Len() int {
	return ix.size
}

// HasExact reports a target commit with the same timestamp, author and subject.
func (ix *Index) HasExact(c *git.Commit) bool {
	_, ok := ix.exact[exactKey{Time: c.AuthorStamp(), Author: c.AuthorName, Subject: c.Subject()}]
	return ok
}

// HasSubject reports a target commit with the same author and subject.
func (ix *Index) HasSubject(c *git.Commit) bool {
	_, ok := ix.bySubject[subjectKey{Author: c.AuthorName, Subject: c.Subject()}]
	return ok
}

// Alternate returns the target commit with the same timestamp and author.
func (ix *Index) Alternate(c *git.Commit) (Alternate, bool) {
	alt, ok := ix.byStamp[stampKey{Time: c.AuthorStamp(), Author: c.AuthorName}]
	return alt, ok
}

// Classify assigns the strongest tier c satisfies: exact, then message, then timestamp.
func (ix *Index) Classify(c *git.Commit) (Tier, *Alternate) {
	if ix.HasExact(c) {
		return TierExact, nil
	}
	if ix.HasSubject(c) {
		return TierMessage, nil
	}
	if alt, ok := ix.Alternate(c); ok {
		return TierTimestamp, &alt
	}
	return TierUnmatched, nil
}
