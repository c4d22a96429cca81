package git

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

const headRefName = "HEAD"

// refTable is a snapshot of the repository's reference table.
type refTable struct {
	byFull map[string]Ref
	sorted []Ref
}

func newRefTable(refs []Ref) *refTable {
	t := &refTable{byFull: make(map[string]Ref, len(refs))}
	for _, r := range refs {
		if r.Name == "" {
			r.Name = shortRefName(r.FullName)
		}
		t.byFull[r.FullName] = r
	}
	t.sorted = make([]Ref, 0, len(t.byFull))
	for _, r := range t.byFull {
		t.sorted = append(t.sorted, r)
	}
	sort.Slice(t.sorted, func(i, j int) bool {
		return t.sorted[i].FullName < t.sorted[j].FullName
	})
	return t
}

// lookup disambiguates a name with git's rev-parse rules
// (refs/<n>, refs/tags/<n>, refs/heads/<n>, refs/remotes/<n>, ...).
func (t *refTable) lookup(name string) (Ref, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ref{}, &ResolutionError{Name: name}
	}
	for _, rule := range plumbing.RefRevParseRules {
		if r, ok := t.byFull[fmt.Sprintf(rule, name)]; ok {
			return r, nil
		}
	}
	return Ref{}, &ResolutionError{Name: name}
}

// match returns the references whose short name matches pattern at its start.
// HEAD and symbolic remote HEADs are never pattern candidates.
func (t *refTable) match(pattern *regexp.Regexp) []Ref {
	var out []Ref
	for _, r := range t.sorted {
		if r.FullName == headRefName || strings.HasSuffix(r.FullName, "/HEAD") {
			continue
		}
		if loc := pattern.FindStringIndex(r.Name); loc != nil && loc[0] == 0 {
			out = append(out, r)
		}
	}
	return out
}

func shortRefName(full string) string {
	if full == headRefName {
		return full
	}
	return plumbing.ReferenceName(full).Short()
}
