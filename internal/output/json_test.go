package output

import (
	"encoding/json"
	"testing"
)

func TestJSONWriter_Write(t *testing.T) {
	data := writeToTemp(t, &JSONWriter{}, sampleReport(), OutputOptions{Format: FormatJSON})

	var got JSONReport
	if err := json.Unmarshal([]byte(data), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, data)
	}
	if got.Source != "feature" || got.Target != "main" {
		t.Errorf("source/target = %s/%s", got.Source, got.Target)
	}
	if got.Totals.Total() != 4 {
		t.Errorf("totals = %+v", got.Totals)
	}
	if len(got.Pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(got.Pairs))
	}

	ok := got.Pairs[0]
	if ok.Error != "" || ok.Summary == nil || len(ok.Commits) != 4 {
		t.Fatalf("first pair = %+v", ok)
	}
	if ok.Ancestor != "c0c0c0c000000000000000000000000000000000" {
		t.Errorf("ancestor = %q", ok.Ancestor)
	}
	first := ok.Commits[0]
	if first.Marker != "=" || first.Tier != "exact" || first.Subject != "Fix bug" {
		t.Errorf("first commit = %+v", first)
	}
	if first.AuthoredAt != "2024-03-05T14:07:00Z" {
		t.Errorf("authoredAt = %q", first.AuthoredAt)
	}
	if alt := ok.Commits[2].Alternate; alt == nil || alt.Subject != "Add X" || alt.SHA != "9999aaaa" {
		t.Errorf("alternate = %+v", alt)
	}

	failed := got.Pairs[1]
	if failed.Error == "" || failed.Summary != nil || len(failed.Commits) != 0 {
		t.Errorf("failed pair = %+v", failed)
	}
}
