package git

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// MockAccessor is an in-memory commit graph implementing HistoryAccessor.
// It allows tests to describe histories without needing a real Git repository.
type MockAccessor struct {
	Commits map[string]*Commit
	// Trees maps a commit hash to the files of its tree (path to content).
	Trees map[string]map[string]string
	// Refs maps full reference names ("refs/heads/main") to commit hashes.
	Refs map[string]string

	// Calls counts ChangedPaths invocations.
	Calls int
	// Walks counts Ancestors invocations.
	Walks int
}

// NewMockAccessor creates an empty MockAccessor.
func NewMockAccessor() *MockAccessor {
	return &MockAccessor{
		Commits: make(map[string]*Commit),
		Trees:   make(map[string]map[string]string),
		Refs:    make(map[string]string),
	}
}

// AddCommit registers a commit together with the files of its tree.
func (m *MockAccessor) AddCommit(c *Commit, files map[string]string) {
	m.Commits[c.Hash] = c
	m.Trees[c.Hash] = files
}

// SetBranch points refs/heads/<name> at hash.
func (m *MockAccessor) SetBranch(name, hash string) {
	m.Refs["refs/heads/"+name] = hash
}

func (m *MockAccessor) table() *refTable {
	refs := make([]Ref, 0, len(m.Refs))
	for full, hash := range m.Refs {
		refs = append(refs, Ref{Name: shortRefName(full), FullName: full, Hash: hash})
	}
	return newRefTable(refs)
}

// Resolve looks up a reference by name.
func (m *MockAccessor) Resolve(_ context.Context, name string) (Ref, error) {
	return m.table().lookup(name)
}

// Match returns all references matching pattern.
func (m *MockAccessor) Match(_ context.Context, pattern *regexp.Regexp) ([]Ref, error) {
	return m.table().match(pattern), nil
}

// Commit returns the registered commit.
func (m *MockAccessor) Commit(_ context.Context, hash string) (*Commit, error) {
	c, ok := m.Commits[hash]
	if !ok {
		return nil, fmt.Errorf("commit %s not found", shortHash(hash))
	}
	return c, nil
}

// Ancestors returns the reachable commits ordered by committer time, newest first.
func (m *MockAccessor) Ancestors(_ context.Context, tip string) (CommitIter, error) {
	m.Walks++
	reach, err := m.reachable(tip)
	if err != nil {
		return nil, err
	}
	commits := make([]*Commit, 0, len(reach))
	for h := range reach {
		commits = append(commits, m.Commits[h])
	}
	sort.SliceStable(commits, func(i, j int) bool {
		if !commits[i].CommitTime.Equal(commits[j].CommitTime) {
			return commits[i].CommitTime.After(commits[j].CommitTime)
		}
		return commits[i].Hash > commits[j].Hash
	})
	// The tip always comes first, as with git log.
	for i, c := range commits {
		if c.Hash == tip {
			copy(commits[1:i+1], commits[:i])
			commits[0] = c
			break
		}
	}
	return &sliceIter{commits: commits}, nil
}

// MergeBase returns the unique best common ancestor.
func (m *MockAccessor) MergeBase(_ context.Context, a, b string) (*Commit, error) {
	ra, err := m.reachable(a)
	if err != nil {
		return nil, err
	}
	rb, err := m.reachable(b)
	if err != nil {
		return nil, err
	}
	common := make(map[string]struct{})
	for h := range ra {
		if _, ok := rb[h]; ok {
			common[h] = struct{}{}
		}
	}

	// A common ancestor is best when no other common ancestor descends from it.
	var best []string
	for h := range common {
		dominated := false
		for other := range common {
			if other == h {
				continue
			}
			r, _ := m.reachable(other)
			if _, ok := r[h]; ok {
				dominated = true
				break
			}
		}
		if !dominated {
			best = append(best, h)
		}
	}
	if len(best) != 1 {
		return nil, &AmbiguousAncestryError{Source: shortHash(a), Target: shortHash(b), Count: len(best)}
	}
	return m.Commits[best[0]], nil
}

// ChangedPaths compares the two file maps.
func (m *MockAccessor) ChangedPaths(_ context.Context, from, to string) ([]string, error) {
	m.Calls++
	fromFiles := m.Trees[from]
	toFiles := m.Trees[to]

	var changes []FileChange
	for p, content := range fromFiles {
		other, ok := toFiles[p]
		switch {
		case !ok:
			changes = append(changes, FileChange{Path: p, Kind: ChangeKindDeleted})
		case other != content:
			changes = append(changes, FileChange{Path: p, Kind: ChangeKindModified})
		}
	}
	for p := range toFiles {
		if _, ok := fromFiles[p]; !ok {
			changes = append(changes, FileChange{Path: p, Kind: ChangeKindAdded})
		}
	}
	paths := collectPaths(changes)
	sort.Strings(paths)
	return paths, nil
}

// TreeHasPrefix reports whether any file of tip starts with prefix.
func (m *MockAccessor) TreeHasPrefix(_ context.Context, tip, prefix string) (bool, error) {
	for p := range m.Trees[tip] {
		if strings.HasPrefix(p, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccessor) reachable(tip string) (map[string]struct{}, error) {
	seen := make(map[string]struct{})
	stack := []string{tip}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[h]; ok {
			continue
		}
		c, ok := m.Commits[h]
		if !ok {
			return nil, fmt.Errorf("commit %s not found", shortHash(h))
		}
		seen[h] = struct{}{}
		stack = append(stack, c.Parents...)
	}
	return seen, nil
}

type sliceIter struct {
	commits []*Commit
	pos     int
}

func (s *sliceIter) Next() (*Commit, error) {
	if s.pos >= len(s.commits) {
		return nil, io.EOF
	}
	c := s.commits[s.pos]
	s.pos++
	return c, nil
}

func (s *sliceIter) Close() {}
