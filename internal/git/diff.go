package git

import (
	"bytes"
	"fmt"
	"strings"
)

// ParseRangeSpec splits a "source...target" argument into its two references.
// Both the three-dot and two-dot spellings are accepted.
func ParseRangeSpec(spec string) (source, target string, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", "", fmt.Errorf("empty range spec")
	}

	if idx := strings.Index(spec, "..."); idx != -1 {
		source = spec[:idx]
		target = spec[idx+3:]
	} else if idx := strings.Index(spec, ".."); idx != -1 {
		source = spec[:idx]
		target = spec[idx+2:]
	} else {
		return "", "", fmt.Errorf("invalid range spec %q: expected 'source...target'", spec)
	}

	if source == "" {
		return "", "", fmt.Errorf("invalid range spec %q: missing source ref", spec)
	}
	if target == "" {
		target = headRefName
	}

	return source, target, nil
}

// parseDiffNameStatus parses NUL-delimited `git diff-tree --name-status -z` output.
// Format: STATUS\0PATH\0 (or STATUS\0OLDPATH\0NEWPATH\0 for renames/copies)
func parseDiffNameStatus(data []byte) ([]FileChange, error) {
	parts := bytes.Split(data, []byte{0x00})

	entries := make([]FileChange, 0, len(parts)/2)
	i := 0

	for i < len(parts) {
		status := strings.TrimSpace(string(parts[i]))
		if status == "" {
			i++
			continue
		}

		if i+1 >= len(parts) {
			break
		}

		kind, isRename := diffStatusToChangeKind(status)

		if isRename {
			if i+2 >= len(parts) {
				return nil, fmt.Errorf("unexpected diff output: rename entry missing new path")
			}
			entries = append(entries, FileChange{
				Path:    string(parts[i+2]),
				OldPath: string(parts[i+1]),
				Kind:    kind,
			})
			i += 3
		} else {
			entries = append(entries, FileChange{
				Path: string(parts[i+1]),
				Kind: kind,
			})
			i += 2
		}
	}

	return entries, nil
}

// diffStatusToChangeKind converts a git diff status letter to ChangeKind.
// Returns the kind and whether the entry carries two paths.
func diffStatusToChangeKind(status string) (ChangeKind, bool) {
	if len(status) == 0 {
		return ChangeKindModified, false
	}
	switch status[0] {
	case 'A':
		return ChangeKindAdded, false
	case 'D':
		return ChangeKindDeleted, false
	case 'R':
		return ChangeKindRenamed, true
	case 'C':
		// A copy leaves the source untouched; only the new path counts.
		return ChangeKindAdded, true
	default:
		return ChangeKindModified, false
	}
}
