package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Accessor reads history through go-git.
type Accessor struct {
	repo *gitlib.Repository
	path string
	refs *refTable
}

// Open opens the repository with the backend named in opts.
func Open(opts OpenOptions) (HistoryAccessor, error) {
	switch opts.Backend {
	case BackendGitCLI:
		return NewCLIAccessor(opts.RepoPath)
	case BackendNative, "":
		return NewAccessor(opts.RepoPath)
	default:
		return nil, fmt.Errorf("unknown backend %q (expected %s or %s)", opts.Backend, BackendNative, BackendGitCLI)
	}
}

// NewAccessor opens the repository containing repoPath.
func NewAccessor(repoPath string) (*Accessor, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return NewAccessorFromRepository(repo, abs), nil
}

// NewAccessorFromRepository wraps an already opened repository.
func NewAccessorFromRepository(repo *gitlib.Repository, path string) *Accessor {
	return &Accessor{repo: repo, path: path}
}

// RepoPath returns the path the repository was opened from.
func (a *Accessor) RepoPath() string {
	return a.path
}

func (a *Accessor) table() (*refTable, error) {
	if a.refs != nil {
		return a.refs, nil
	}
	iter, err := a.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer iter.Close()

	var refs []Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		hash, ok := a.peel(ref.Hash())
		if !ok {
			return nil
		}
		refs = append(refs, Ref{
			Name:     shortRefName(ref.Name().String()),
			FullName: ref.Name().String(),
			Hash:     hash.String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}

	if head, err := a.repo.Head(); err == nil {
		refs = append(refs, Ref{Name: headRefName, FullName: headRefName, Hash: head.Hash().String()})
	} else if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	a.refs = newRefTable(refs)
	slog.Debug("reference table loaded", slog.Int("refs", len(refs)))
	return a.refs, nil
}

// peel follows annotated tags down to the commit they point at.
func (a *Accessor) peel(hash plumbing.Hash) (plumbing.Hash, bool) {
	// Lightweight tags point directly at a commit; annotated tags point at a tag object.
	if _, err := a.repo.CommitObject(hash); err == nil {
		return hash, true
	}
	cur := hash
	for range 8 {
		tag, err := a.repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch tag.TargetType {
		case plumbing.CommitObject:
			return tag.Target, true
		case plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}

// Resolve looks up a reference by name.
func (a *Accessor) Resolve(_ context.Context, name string) (Ref, error) {
	t, err := a.table()
	if err != nil {
		return Ref{}, err
	}
	return t.lookup(name)
}

// Match returns all references matching pattern.
func (a *Accessor) Match(_ context.Context, pattern *regexp.Regexp) ([]Ref, error) {
	t, err := a.table()
	if err != nil {
		return nil, err
	}
	return t.match(pattern), nil
}

// Commit loads a commit by hash.
func (a *Accessor) Commit(_ context.Context, hash string) (*Commit, error) {
	c, err := a.commitObject(hash)
	if err != nil {
		return nil, err
	}
	return toCommit(c), nil
}

func (a *Accessor) commitObject(hash string) (*object.Commit, error) {
	if !plumbing.IsHash(hash) {
		return nil, fmt.Errorf("invalid commit id %q", hash)
	}
	c, err := a.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", shortHash(hash), err)
	}
	return c, nil
}

// Ancestors walks the history from tip ordered by committer time, newest first.
func (a *Accessor) Ancestors(_ context.Context, tip string) (CommitIter, error) {
	if !plumbing.IsHash(tip) {
		return nil, fmt.Errorf("invalid commit id %q", tip)
	}
	iter, err := a.repo.Log(&gitlib.LogOptions{
		From:  plumbing.NewHash(tip),
		Order: gitlib.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", shortHash(tip), err)
	}
	return &logIter{iter: iter}, nil
}

// MergeBase returns the single best common ancestor of the two commits.
func (a *Accessor) MergeBase(_ context.Context, x, y string) (*Commit, error) {
	cx, err := a.commitObject(x)
	if err != nil {
		return nil, err
	}
	cy, err := a.commitObject(y)
	if err != nil {
		return nil, err
	}
	bases, err := cx.MergeBase(cy)
	if err != nil {
		return nil, fmt.Errorf("merge-base %s %s: %w", shortHash(x), shortHash(y), err)
	}
	if len(bases) != 1 {
		return nil, &AmbiguousAncestryError{Source: shortHash(x), Target: shortHash(y), Count: len(bases)}
	}
	return toCommit(bases[0]), nil
}

// ChangedPaths diffs the trees of from and to.
func (a *Accessor) ChangedPaths(ctx context.Context, from, to string) ([]string, error) {
	fromTree, err := a.treeOf(from)
	if err != nil {
		return nil, err
	}
	toTree, err := a.treeOf(to)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diff %s %s: %w", shortHash(from), shortHash(to), err)
	}

	entries := make([]FileChange, 0, len(changes))
	for _, ch := range changes {
		entries = append(entries, changeFromNames(ch.From.Name, ch.To.Name))
	}
	return collectPaths(entries), nil
}

// treeOf returns the root tree of a commit; an empty hash yields nil (the empty tree).
func (a *Accessor) treeOf(hash string) (*object.Tree, error) {
	if hash == "" {
		return nil, nil
	}
	c, err := a.commitObject(hash)
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("tree of %s: %w", shortHash(hash), err)
	}
	return tree, nil
}

// TreeHasPrefix walks the tree of tip, directories included.
func (a *Accessor) TreeHasPrefix(_ context.Context, tip, prefix string) (bool, error) {
	tree, err := a.treeOf(tip)
	if err != nil {
		return false, err
	}
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()

	for {
		name, _, err := walker.Next()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("walk tree of %s: %w", shortHash(tip), err)
		}
		if strings.HasPrefix(name, prefix) {
			return true, nil
		}
	}
}

func changeFromNames(from, to string) FileChange {
	switch {
	case from == "" && to != "":
		return FileChange{Path: to, Kind: ChangeKindAdded}
	case from != "" && to == "":
		return FileChange{Path: from, Kind: ChangeKindDeleted}
	case from != to:
		return FileChange{Path: to, OldPath: from, Kind: ChangeKindRenamed}
	default:
		return FileChange{Path: to, Kind: ChangeKindModified}
	}
}

func toCommit(c *object.Commit) *Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return &Commit{
		Hash:        c.Hash.String(),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		AuthorTime:  c.Author.When,
		CommitTime:  c.Committer.When,
		Message:     c.Message,
		Parents:     parents,
	}
}

type logIter struct {
	iter object.CommitIter
}

func (l *logIter) Next() (*Commit, error) {
	c, err := l.iter.Next()
	if err != nil {
		return nil, err
	}
	return toCommit(c), nil
}

func (l *logIter) Close() {
	l.iter.Close()
}
