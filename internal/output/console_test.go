package output

import (
	"strings"
	"testing"
)

func TestConsoleWriter_Lines(t *testing.T) {
	got := writeToTemp(t, &ConsoleWriter{}, sampleReport(), OutputOptions{Legend: LegendNone})

	want := strings.Join([]string{
		"= 2024-03-05 14:07 Alice Fix bug",
		"~ 2024-03-05 14:07 Alice Port fix",
		"& 2024-03-05 14:07 Bob Add X and Y",
		"&                  Bob Add X",
		"+ 2024-03-05 14:07 Dave Local | change",
		"error: cannot find the unique common commit between orphan and main: no common ancestor",
		"",
	}, "\n")
	if got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestConsoleWriter_ShowSHA(t *testing.T) {
	report := sampleReport()
	report.Pairs = report.Pairs[:1]
	got := writeToTemp(t, &ConsoleWriter{}, report, OutputOptions{Legend: LegendNone, ShowSHA: true})

	lines := strings.Split(got, "\n")
	if lines[0] != "= 1234abcd 2024-03-05 14:07 Alice Fix bug" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[3] != "& 9999aaaa                  Bob Add X" {
		t.Errorf("alternate line = %q", lines[3])
	}
}

func TestConsoleWriter_Headers(t *testing.T) {
	tests := []struct {
		name    string
		legend  LegendMode
		pattern bool
		first   string
	}{
		{name: "Full", legend: LegendFull, first: "= Commits that are in both branches with the same authored_date, author_name and subject"},
		{name: "Short", legend: LegendShort, first: "=== Compare branch feature and main"},
		{name: "PatternForcesShort", legend: LegendFull, pattern: true, first: "=== Compare branch feature and main"},
		{name: "None", legend: LegendNone, first: "= 2024-03-05 14:07 Alice Fix bug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := sampleReport()
			report.Pattern = tt.pattern
			got := writeToTemp(t, &ConsoleWriter{}, report, OutputOptions{Legend: tt.legend})
			if first := strings.SplitN(got, "\n", 2)[0]; first != tt.first {
				t.Errorf("first line = %q, want %q", first, tt.first)
			}
		})
	}
}

func TestConsoleWriter_FullLegendNamesPair(t *testing.T) {
	got := writeToTemp(t, &ConsoleWriter{}, sampleReport(), OutputOptions{Legend: LegendFull})
	if !strings.Contains(got, "+ Commits are in feature but not in main\n") {
		t.Errorf("legend missing pair names:\n%s", got)
	}
	if !strings.Contains(got, "+ Commits are in orphan but not in main\n") {
		t.Errorf("second pair legend missing:\n%s", got)
	}
}

func TestConsoleWriter_Summary(t *testing.T) {
	got := writeToTemp(t, &ConsoleWriter{}, sampleReport(), OutputOptions{Legend: LegendNone, Summary: true})
	if !strings.Contains(got, "--- 4 commits: = 1, ~ 1, & 1, + 1\n") {
		t.Errorf("summary missing:\n%s", got)
	}
}

func TestConsoleWriter_HighlightWithoutColor(t *testing.T) {
	plain := writeToTemp(t, &ConsoleWriter{}, sampleReport(), OutputOptions{Legend: LegendNone})
	highlighted := writeToTemp(t, &ConsoleWriter{}, sampleReport(), OutputOptions{Legend: LegendNone, Highlight: true})
	if plain != highlighted {
		t.Errorf("highlight changed uncolored text:\n%s\nvs\n%s", plain, highlighted)
	}
}

func TestHighlightSubjects(t *testing.T) {
	left, right := highlightSubjects("Add X and Y", "Add X")
	if left != "Add X and Y" || right != "Add X" {
		t.Errorf("highlightSubjects = %q, %q", left, right)
	}
}
