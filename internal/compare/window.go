package compare

import (
	"errors"
	"io"

	"github.com/masmgr/cmpbranch-go/internal/git"
)

// Window walks a history as overlapping (current, next) pairs and stops
// once current is the stop commit, which is never yielded.
type Window struct {
	iter git.CommitIter
	stop string
	cur  *git.Commit
	done bool
}

// NewWindow wraps iter; stop is the hash that ends the walk.
func NewWindow(iter git.CommitIter, stop string) *Window {
	return &Window{iter: iter, stop: stop}
}

// Next returns the next pair, or io.EOF once the stop commit or the end of
// history is reached. next is nil for the last commit of a history.
func (w *Window) Next() (current, next *git.Commit, err error) {
	if w.done {
		return nil, nil, io.EOF
	}
	if w.cur == nil {
		if w.cur, err = w.pull(); err != nil {
			return nil, nil, err
		}
	}
	if w.reached() {
		w.done = true
		return nil, nil, io.EOF
	}
	n, err := w.pull()
	if errors.Is(err, io.EOF) {
		// Last commit of the history; it has no successor.
		current, w.cur = w.cur, nil
		return current, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	current, w.cur = w.cur, n
	return current, n, nil
}

// reached is the single termination predicate of the walk.
func (w *Window) reached() bool {
	return w.cur.Hash == w.stop
}

func (w *Window) pull() (*git.Commit, error) {
	c, err := w.iter.Next()
	if err != nil {
		w.done = true
		return nil, err
	}
	return c, nil
}

// Close releases the underlying iterator.
func (w *Window) Close() {
	w.iter.Close()
}
