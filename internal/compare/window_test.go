package compare

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/masmgr/cmpbranch-go/internal/git"
)

type listIter struct {
	commits []*git.Commit
	pos     int
	err     error
	closed  bool
}

func (l *listIter) Next() (*git.Commit, error) {
	if l.pos >= len(l.commits) {
		if l.err != nil {
			return nil, l.err
		}
		return nil, io.EOF
	}
	c := l.commits[l.pos]
	l.pos++
	return c, nil
}

func (l *listIter) Close() { l.closed = true }

func walkWindow(t *testing.T, w *Window) (pairs [][2]string) {
	t.Helper()
	for {
		cur, next, err := w.Next()
		if errors.Is(err, io.EOF) {
			return pairs
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		n := ""
		if next != nil {
			n = next.Hash
		}
		pairs = append(pairs, [2]string{cur.Hash, n})
	}
}

func TestWindow_StopsAtAncestor(t *testing.T) {
	it := &listIter{commits: []*git.Commit{
		commit("c3", "A", "3", 3),
		commit("c2", "A", "2", 2),
		commit("c1", "A", "1", 1),
		commit("c0", "A", "0", 0),
	}}
	w := NewWindow(it, "c1")
	defer w.Close()

	got := walkWindow(t, w)
	want := [][2]string{{"c3", "c2"}, {"c2", "c1"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pairs = %v, want %v", got, want)
	}
	if it.pos != 3 {
		t.Errorf("walk read %d commits, want 3", it.pos)
	}
}

func TestWindow_TipIsAncestor(t *testing.T) {
	it := &listIter{commits: []*git.Commit{commit("c0", "A", "0", 0)}}
	w := NewWindow(it, "c0")

	if got := walkWindow(t, w); len(got) != 0 {
		t.Errorf("pairs = %v, want none", got)
	}
}

func TestWindow_EndOfHistory(t *testing.T) {
	// An ancestor that never shows up still terminates at the end of
	// history, and the last commit comes without a successor.
	it := &listIter{commits: []*git.Commit{
		commit("c1", "A", "1", 1),
		commit("c0", "A", "0", 0),
	}}
	w := NewWindow(it, "missing")

	got := walkWindow(t, w)
	want := [][2]string{{"c1", "c0"}, {"c0", ""}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pairs = %v, want %v", got, want)
	}
	// Further calls stay at EOF.
	if _, _, err := w.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next after end = %v, want io.EOF", err)
	}
}

func TestWindow_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	it := &listIter{commits: []*git.Commit{commit("c1", "A", "1", 1)}, err: boom}
	w := NewWindow(it, "c0")

	if _, _, err := w.Next(); !errors.Is(err, boom) {
		t.Errorf("Next = %v, want boom", err)
	}
	w.Close()
	if !it.closed {
		t.Error("Close did not close the iterator")
	}
}
