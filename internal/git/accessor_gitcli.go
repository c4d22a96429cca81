package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// emptyTreeHash is the id of the empty tree in SHA-1 repositories.
const emptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// Each commit record is prefixed by 0x1e (record separator) followed by NUL-separated
// fields. The raw body comes last so it may contain anything but 0x1e.
const cliCommitFormat = "%x1e%H%x00%P%x00%at%x00%ct%x00%an%x00%ae%x00%B"

const cliRefFormat = "%(refname)%00%(objecttype)%00%(objectname)%00%(*objecttype)%00%(*objectname)"

// CLIAccessor reads history by running the git executable.
type CLIAccessor struct {
	path string
	refs *refTable
}

// NewCLIAccessor checks that repoPath is inside a repository git can read.
func NewCLIAccessor(repoPath string) (*CLIAccessor, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	a := &CLIAccessor{path: abs}
	if _, err := a.run(context.Background(), "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return a, nil
}

// RepoPath returns the path the repository was opened from.
func (a *CLIAccessor) RepoPath() string {
	return a.path
}

func (a *CLIAccessor) command(ctx context.Context, args ...string) *exec.Cmd {
	full := append([]string{"-C", a.path}, args...)
	return exec.CommandContext(ctx, "git", full...)
}

func (a *CLIAccessor) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := a.command(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

func (a *CLIAccessor) table(ctx context.Context) (*refTable, error) {
	if a.refs != nil {
		return a.refs, nil
	}
	out, err := a.run(ctx, "for-each-ref", "--format="+cliRefFormat)
	if err != nil {
		return nil, err
	}
	refs, err := parseForEachRef(out)
	if err != nil {
		return nil, err
	}
	if head, err := a.run(ctx, "rev-parse", "--verify", "--quiet", "HEAD^{commit}"); err == nil {
		refs = append(refs, Ref{Name: headRefName, FullName: headRefName, Hash: strings.TrimSpace(string(head))})
	}
	a.refs = newRefTable(refs)
	slog.Debug("reference table loaded", slog.Int("refs", len(refs)), slog.String("backend", string(BackendGitCLI)))
	return a.refs, nil
}

// parseForEachRef parses `git for-each-ref` output produced with cliRefFormat.
// Annotated tags are peeled one level; anything not ending at a commit is skipped.
func parseForEachRef(data []byte) ([]Ref, error) {
	var refs []Ref
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		fields := bytes.Split(line, []byte{0x00})
		if len(fields) != 5 {
			return nil, fmt.Errorf("unexpected for-each-ref line: %q", string(line))
		}
		full := string(fields[0])
		var hash string
		switch {
		case string(fields[1]) == "commit":
			hash = string(fields[2])
		case string(fields[1]) == "tag" && string(fields[3]) == "commit":
			hash = string(fields[4])
		default:
			continue
		}
		refs = append(refs, Ref{Name: shortRefName(full), FullName: full, Hash: hash})
	}
	return refs, nil
}

// Resolve looks up a reference by name.
func (a *CLIAccessor) Resolve(ctx context.Context, name string) (Ref, error) {
	t, err := a.table(ctx)
	if err != nil {
		return Ref{}, err
	}
	return t.lookup(name)
}

// Match returns all references matching pattern.
func (a *CLIAccessor) Match(ctx context.Context, pattern *regexp.Regexp) ([]Ref, error) {
	t, err := a.table(ctx)
	if err != nil {
		return nil, err
	}
	return t.match(pattern), nil
}

// Commit loads a commit by hash.
func (a *CLIAccessor) Commit(ctx context.Context, hash string) (*Commit, error) {
	out, err := a.run(ctx, "log", "-1", "--no-color", "--format="+cliCommitFormat, hash, "--")
	if err != nil {
		return nil, err
	}
	for _, rec := range bytes.Split(out, []byte{0x1e}) {
		if len(rec) == 0 {
			continue
		}
		return parseCommitRecord(rec)
	}
	return nil, fmt.Errorf("commit %s not found", shortHash(hash))
}

// Ancestors streams `git log` output, newest first.
func (a *CLIAccessor) Ancestors(ctx context.Context, tip string) (CommitIter, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd := a.command(ctx, "log", "--no-color", "--format="+cliCommitFormat, tip, "--")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("git log failed: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	scanner.Split(splitRecords)

	return &cliLogIter{cmd: cmd, cancel: cancel, scanner: scanner, stderr: &stderr}, nil
}

// MergeBase runs `git merge-base --all` and requires a single answer.
func (a *CLIAccessor) MergeBase(ctx context.Context, x, y string) (*Commit, error) {
	out, err := a.run(ctx, "merge-base", "--all", x, y)
	if err != nil {
		// merge-base exits with 1 and prints nothing when the histories are disjoint.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 || len(bytes.TrimSpace(out)) != 0 {
			return nil, err
		}
	}
	bases := strings.Fields(string(out))
	if len(bases) != 1 {
		return nil, &AmbiguousAncestryError{Source: shortHash(x), Target: shortHash(y), Count: len(bases)}
	}
	return a.Commit(ctx, bases[0])
}

// ChangedPaths lists paths touched between two commits using diff-tree.
func (a *CLIAccessor) ChangedPaths(ctx context.Context, from, to string) ([]string, error) {
	if from == "" {
		from = emptyTreeHash
	}
	if to == "" {
		to = emptyTreeHash
	}
	out, err := a.run(ctx, "diff-tree", "-r", "-z", "--name-status", "-M", from, to)
	if err != nil {
		return nil, err
	}
	entries, err := parseDiffNameStatus(out)
	if err != nil {
		return nil, err
	}
	return collectPaths(entries), nil
}

// TreeHasPrefix lists the tree of tip, directories included.
func (a *CLIAccessor) TreeHasPrefix(ctx context.Context, tip, prefix string) (bool, error) {
	out, err := a.run(ctx, "ls-tree", "-r", "-t", "--name-only", "-z", tip)
	if err != nil {
		return false, err
	}
	for _, name := range bytes.Split(out, []byte{0x00}) {
		if len(name) > 0 && strings.HasPrefix(string(name), prefix) {
			return true, nil
		}
	}
	return false, nil
}

type cliLogIter struct {
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	scanner *bufio.Scanner
	stderr  *bytes.Buffer
	done    bool
}

func (it *cliLogIter) Next() (*Commit, error) {
	if it.done {
		return nil, io.EOF
	}
	for it.scanner.Scan() {
		rec := it.scanner.Bytes()
		if len(rec) == 0 {
			continue
		}
		return parseCommitRecord(rec)
	}
	it.done = true
	if err := it.scanner.Err(); err != nil {
		it.cancel()
		_ = it.cmd.Wait()
		return nil, fmt.Errorf("read git log: %w", err)
	}
	err := it.cmd.Wait()
	it.cancel()
	if err != nil {
		return nil, fmt.Errorf("git log failed: %w: %s", err, strings.TrimSpace(it.stderr.String()))
	}
	return nil, io.EOF
}

// Close stops git if the history was not fully consumed.
func (it *cliLogIter) Close() {
	if it.done {
		return
	}
	it.done = true
	it.cancel()
	_ = it.cmd.Wait()
}

// splitRecords is a bufio.SplitFunc yielding the data between 0x1e separators.
func splitRecords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0x1e); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func parseCommitRecord(rec []byte) (*Commit, error) {
	fields := bytes.SplitN(rec, []byte{0x00}, 7)
	if len(fields) < 7 {
		return nil, fmt.Errorf("unexpected git log record format")
	}

	authored, err := parseUnix(fields[2])
	if err != nil {
		return nil, fmt.Errorf("parse author date: %w", err)
	}
	committed, err := parseUnix(fields[3])
	if err != nil {
		return nil, fmt.Errorf("parse committer date: %w", err)
	}

	return &Commit{
		Hash:        string(fields[0]),
		Parents:     strings.Fields(string(fields[1])),
		AuthorTime:  authored,
		CommitTime:  committed,
		AuthorName:  string(fields[4]),
		AuthorEmail: string(fields[5]),
		Message:     strings.TrimRight(string(fields[6]), "\n"),
	}, nil
}

func parseUnix(b []byte) (time.Time, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(n, 0).UTC(), nil
}
