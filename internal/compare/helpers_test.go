package compare

import (
	"testing"
	"time"

	"github.com/masmgr/cmpbranch-go/internal/git"
)

func commit(hash, author, subject string, authored int64, parents ...string) *git.Commit {
	return &git.Commit{
		Hash:       hash,
		AuthorName: author,
		AuthorTime: time.Unix(authored, 0).UTC(),
		CommitTime: time.Unix(authored, 0).UTC(),
		Message:    subject,
		Parents:    parents,
	}
}

// history builds a mock with a root commit C0 on master and the given
// commits stacked on top of it per branch, oldest first.
func history(t *testing.T, branches map[string][]*git.Commit) *git.MockAccessor {
	t.Helper()
	m := git.NewMockAccessor()
	m.AddCommit(commit("c0", "Root", "Initial commit", 10), map[string]string{"README": "x"})
	m.SetBranch("master", "c0")
	for name, commits := range branches {
		parent := "c0"
		for _, c := range commits {
			if len(c.Parents) == 0 {
				c.Parents = []string{parent}
			}
			files := map[string]string{}
			for path, content := range m.Trees[c.Parents[0]] {
				files[path] = content
			}
			m.AddCommit(c, files)
			parent = c.Hash
		}
		m.SetBranch(name, parent)
	}
	return m
}

func tiersOf(records []Record) []Tier {
	out := make([]Tier, len(records))
	for i, r := range records {
		out[i] = r.Tier
	}
	return out
}

func hashesOf(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Commit.Hash
	}
	return out
}
