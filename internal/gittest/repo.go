// Package gittest builds throwaway go-git repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a repository in a temporary directory with a worktree.
type Repo struct {
	t    testing.TB
	Dir  string
	Repo *gogit.Repository
	wt   *gogit.Worktree
}

// Sig describes an author or committer.
type Sig struct {
	Name string
	When time.Time
}

// New initializes an empty repository. The initial branch is "master".
func New(t testing.TB) *Repo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &Repo{t: t, Dir: dir, Repo: repo, wt: wt}
}

// Write creates or replaces a file and stages it.
func (r *Repo) Write(rel, content string) {
	r.t.Helper()
	full := filepath.Join(r.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

// Remove deletes a tracked file.
func (r *Repo) Remove(rel string) {
	r.t.Helper()
	if _, err := r.wt.Remove(rel); err != nil {
		r.t.Fatalf("Remove: %v", err)
	}
}

// Commit records the staged changes and returns the new commit hash.
// The committer defaults to the author.
func (r *Repo) Commit(msg string, author Sig, committer ...Sig) string {
	r.t.Helper()
	c := author
	if len(committer) > 0 {
		c = committer[0]
	}
	hash, err := r.wt.Commit(msg, &gogit.CommitOptions{
		Author:            &object.Signature{Name: author.Name, Email: "dev@example.com", When: author.When},
		Committer:         &object.Signature{Name: c.Name, Email: "dev@example.com", When: c.When},
		AllowEmptyCommits: true,
	})
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

// Branch creates name at HEAD and checks it out.
func (r *Repo) Branch(name string) {
	r.t.Helper()
	if err := r.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	}); err != nil {
		r.t.Fatalf("Checkout(%s, create): %v", name, err)
	}
}

// Checkout switches to an existing branch.
func (r *Repo) Checkout(name string) {
	r.t.Helper()
	if err := r.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	}); err != nil {
		r.t.Fatalf("Checkout(%s): %v", name, err)
	}
}

// Tag creates a lightweight tag, or an annotated one when message is non-empty.
func (r *Repo) Tag(name, hash, message string) {
	r.t.Helper()
	var opts *gogit.CreateTagOptions
	if message != "" {
		opts = &gogit.CreateTagOptions{
			Tagger:  &object.Signature{Name: "Tagger", Email: "dev@example.com", When: time.Unix(1_700_000_000, 0)},
			Message: message,
		}
	}
	if _, err := r.Repo.CreateTag(name, plumbing.NewHash(hash), opts); err != nil {
		r.t.Fatalf("CreateTag(%s): %v", name, err)
	}
}

// At is a convenience for building signatures at epoch seconds.
func At(name string, epoch int64) Sig {
	return Sig{Name: name, When: time.Unix(epoch, 0).UTC()}
}

// Orphan points HEAD at a new, unborn branch so the next commit has no parent.
func (r *Repo) Orphan(name string) {
	r.t.Helper()
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(name))
	if err := r.Repo.Storer.SetReference(head); err != nil {
		r.t.Fatalf("SetReference(HEAD): %v", err)
	}
}
