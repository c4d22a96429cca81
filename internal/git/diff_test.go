package git

import "testing"

func TestParseRangeSpec_ThreeDot(t *testing.T) {
	source, target, err := ParseRangeSpec("feature...origin/main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "feature" {
		t.Errorf("source = %q, want %q", source, "feature")
	}
	if target != "origin/main" {
		t.Errorf("target = %q, want %q", target, "origin/main")
	}
}

func TestParseRangeSpec_TwoDot(t *testing.T) {
	source, target, err := ParseRangeSpec("Branch-9.0..Branch-11.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "Branch-9.0" {
		t.Errorf("source = %q, want %q", source, "Branch-9.0")
	}
	if target != "Branch-11.0" {
		t.Errorf("target = %q, want %q", target, "Branch-11.0")
	}
}

func TestParseRangeSpec_EmptyTarget(t *testing.T) {
	_, target, err := ParseRangeSpec("feature...")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != "HEAD" {
		t.Errorf("target = %q, want %q", target, "HEAD")
	}
}

func TestParseRangeSpec_Errors(t *testing.T) {
	for _, spec := range []string{"", "   ", "...main", "feature"} {
		if _, _, err := ParseRangeSpec(spec); err == nil {
			t.Errorf("ParseRangeSpec(%q): expected error", spec)
		}
	}
}

func TestParseDiffNameStatus(t *testing.T) {
	data := []byte("M\x00file1.go\x00A\x00file2.go\x00D\x00file3.go\x00")

	entries, err := parseDiffNameStatus(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	tests := []struct {
		path string
		kind ChangeKind
	}{
		{"file1.go", ChangeKindModified},
		{"file2.go", ChangeKindAdded},
		{"file3.go", ChangeKindDeleted},
	}

	for i, tt := range tests {
		if entries[i].Path != tt.path {
			t.Errorf("entry[%d].Path = %q, want %q", i, entries[i].Path, tt.path)
		}
		if entries[i].Kind != tt.kind {
			t.Errorf("entry[%d].Kind = %v, want %v", i, entries[i].Kind, tt.kind)
		}
	}
}

func TestParseDiffNameStatus_Rename(t *testing.T) {
	data := []byte("R100\x00old.go\x00new.go\x00")

	entries, err := parseDiffNameStatus(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if entries[0].Path != "new.go" {
		t.Errorf("Path = %q, want %q", entries[0].Path, "new.go")
	}
	if entries[0].OldPath != "old.go" {
		t.Errorf("OldPath = %q, want %q", entries[0].OldPath, "old.go")
	}
	if entries[0].Kind != ChangeKindRenamed {
		t.Errorf("Kind = %v, want %v", entries[0].Kind, ChangeKindRenamed)
	}
}

func TestParseDiffNameStatus_TruncatedRename(t *testing.T) {
	if _, err := parseDiffNameStatus([]byte("R100\x00old.go")); err == nil {
		t.Fatal("expected error for rename without new path")
	}
}

func TestParseDiffNameStatus_Empty(t *testing.T) {
	entries, err := parseDiffNameStatus([]byte{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(entries))
	}
}
