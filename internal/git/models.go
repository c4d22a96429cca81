package git

import (
	"strings"
	"time"
)

// ShortHashLen is the number of hex characters shown for abbreviated commit ids.
const ShortHashLen = 8

// Ref is a named pointer to a commit.
type Ref struct {
	Name     string // short name, e.g. "main", "origin/main", "v1.0"
	FullName string // e.g. "refs/heads/main"
	Hash     string // peeled commit hash
}

func (r Ref) String() string {
	return r.Name
}

// Commit holds the attributes of a commit needed for branch comparison.
type Commit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	// AuthorTime is when the author originally recorded the change. It survives
	// rebases and cherry-picks, unlike CommitTime.
	AuthorTime time.Time
	CommitTime time.Time
	Message    string
	Parents    []string
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	return subjectOf(c.Message)
}

// ShortHash returns the abbreviated commit id.
func (c *Commit) ShortHash() string {
	return shortHash(c.Hash)
}

// AuthorStamp returns the authored timestamp in epoch seconds.
func (c *Commit) AuthorStamp() int64 {
	return c.AuthorTime.Unix()
}

func subjectOf(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		return message[:idx]
	}
	return message
}

func shortHash(h string) string {
	if len(h) <= ShortHashLen {
		return h
	}
	return h[:ShortHashLen]
}

// FileChange represents a file touched between two commits.
type FileChange struct {
	Path    string
	OldPath string // For renames
	Kind    ChangeKind
}

// Paths returns every path touched by the change. Renames report both sides.
func (f FileChange) Paths() []string {
	if f.Kind == ChangeKindRenamed && f.OldPath != "" && f.OldPath != f.Path {
		return []string{f.OldPath, f.Path}
	}
	if f.Path == "" {
		return nil
	}
	return []string{f.Path}
}

// ChangeKind represents the type of change.
type ChangeKind int

const (
	ChangeKindAdded ChangeKind = iota
	ChangeKindModified
	ChangeKindDeleted
	ChangeKindRenamed
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeKindAdded:
		return "added"
	case ChangeKindModified:
		return "modified"
	case ChangeKindDeleted:
		return "deleted"
	case ChangeKindRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Backend selects the History Accessor implementation.
type Backend string

const (
	BackendNative Backend = "native"
	BackendGitCLI Backend = "gitcli"
)

// OpenOptions configures how a repository is opened.
type OpenOptions struct {
	RepoPath string
	Backend  Backend
}

func collectPaths(changes []FileChange) []string {
	seen := make(map[string]struct{}, len(changes))
	paths := make([]string, 0, len(changes))
	for _, ch := range changes {
		for _, p := range ch.Paths() {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
	}
	return paths
}
