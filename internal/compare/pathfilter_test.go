package compare

import (
	"context"
	"testing"

	"github.com/masmgr/cmpbranch-go/internal/git"
)

func TestParseDiffBase(t *testing.T) {
	tests := []struct {
		in      string
		want    DiffBase
		wantErr bool
	}{
		{"", DiffBaseParent, false},
		{"parent", DiffBaseParent, false},
		{"Traversal", DiffBaseTraversal, false},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDiffBase(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDiffBase(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDiffBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewPathFilter_EmptyIsNil(t *testing.T) {
	f, err := NewPathFilter(git.NewMockAccessor(), []string{"", "  "}, DiffBaseParent)
	if err != nil {
		t.Fatalf("NewPathFilter: %v", err)
	}
	if f != nil {
		t.Errorf("filter = %+v, want nil", f)
	}
}

func TestNewPathFilter_InvalidGlob(t *testing.T) {
	if _, err := NewPathFilter(git.NewMockAccessor(), []string{"src/[a"}, DiffBaseParent); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestPathFilter_MatchPath(t *testing.T) {
	f, err := NewPathFilter(git.NewMockAccessor(), []string{"./src/core", "docs/**/*.md"}, DiffBaseParent)
	if err != nil {
		t.Fatalf("NewPathFilter: %v", err)
	}
	tests := []struct {
		path string
		want bool
	}{
		{"src/core/file.c", true},
		{"src/core.c", true},
		{"src/other.c", false},
		{"docs/guide/intro.md", true},
		{"docs/readme.md", true},
		{"docs/guide/intro.txt", false},
	}
	for _, tt := range tests {
		if got := f.MatchPath(tt.path); got != tt.want {
			t.Errorf("MatchPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestStaticPrefix(t *testing.T) {
	tests := map[string]string{
		"src/core":     "src/core",
		"docs/**/*.md": "docs/",
		"*.go":         "",
	}
	for in, want := range tests {
		if got := StaticPrefix(in); got != want {
			t.Errorf("StaticPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPathFilter_DiffBases(t *testing.T) {
	// A merge commit whose traversal successor is not its first parent:
	//
	//   c0 -- a1 (src/a.c) ----- m
	//     \-- b1 (docs/b.txt) --/
	m := git.NewMockAccessor()
	m.AddCommit(commit("c0", "R", "root", 10), map[string]string{"README": "x"})
	m.AddCommit(commit("a1", "R", "a", 20, "c0"), map[string]string{"README": "x", "src/a.c": "a"})
	m.AddCommit(commit("b1", "R", "b", 30, "c0"), map[string]string{"README": "x", "docs/b.txt": "b"})
	m.AddCommit(commit("m", "R", "merge", 40, "a1", "b1"),
		map[string]string{"README": "x", "src/a.c": "a", "docs/b.txt": "b"})

	ctx := context.Background()
	current := m.Commits["m"]
	next := m.Commits["b1"]

	parent, _ := NewPathFilter(m, []string{"src/"}, DiffBaseParent)
	traversal, _ := NewPathFilter(m, []string{"src/"}, DiffBaseTraversal)

	ok, err := parent.Matches(ctx, current, next)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if ok {
		t.Error("first parent a1 already has src/a.c; merge should not match")
	}

	ok, err = traversal.Matches(ctx, current, next)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if !ok {
		t.Error("against b1 the merge adds src/a.c and should match")
	}

	ok, err = parent.Matches(ctx, m.Commits["c0"], nil)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if ok {
		t.Error("root commit only adds README")
	}
}
