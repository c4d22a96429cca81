package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/masmgr/cmpbranch-go/internal/compare"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	headingColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed)
	insertColor  = color.New(color.FgGreen, color.Underline)
	deleteColor  = color.New(color.FgRed, color.Underline)
)

// ConsoleWriter writes comparison reports as plain text, one line per commit.
type ConsoleWriter struct{}

// Write outputs the comparison report to the console.
func (w *ConsoleWriter) Write(report *ComparisonReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	for i := range report.Pairs {
		pair := &report.Pairs[i]
		writeConsoleHeader(out, report, pair, options)

		if pair.Err != nil {
			errorColor.Fprintf(out, "error: %v\n", pair.Err)
			continue
		}
		for _, r := range pair.Records {
			writeConsoleRecord(out, r, options)
		}
		if options.Summary {
			fmt.Fprintln(out, summaryLine(pair.Summary))
		}
	}
	return nil
}

func writeConsoleHeader(out io.Writer, report *ComparisonReport, pair *compare.PairResult, options OutputOptions) {
	switch {
	case useCompactHeader(report, options):
		headingColor.Fprintln(out, compactHeader(pair.Source, pair.Target))
	case options.Legend == LegendNone:
	default:
		for _, line := range legendLines(pair.Source, pair.Target) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out)
	}
}

func writeConsoleRecord(out io.Writer, r compare.Record, options OutputOptions) {
	c := r.Commit
	marker := markerColor(r.Tier).Sprint(r.Tier.Marker())

	subject := c.Subject()
	altSubject := ""
	if r.Alternate != nil {
		altSubject = r.Alternate.Subject
		if options.Highlight {
			subject, altSubject = highlightSubjects(c.Subject(), r.Alternate.Subject)
		}
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteByte(' ')
	if options.ShowSHA {
		b.WriteString(c.ShortHash())
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%s %s %s", recordDate(c), c.AuthorName, subject)
	fmt.Fprintln(out, b.String())

	if r.Alternate == nil {
		return
	}
	b.Reset()
	b.WriteString(marker)
	b.WriteByte(' ')
	if options.ShowSHA {
		b.WriteString(r.Alternate.ShortHash)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%s %s %s", strings.Repeat(" ", dateColumnWidth), c.AuthorName, altSubject)
	fmt.Fprintln(out, b.String())
}

func markerColor(t compare.Tier) *color.Color {
	switch t {
	case compare.TierExact:
		return color.New(color.FgGreen)
	case compare.TierMessage:
		return color.New(color.FgCyan)
	case compare.TierTimestamp:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// highlightSubjects marks the words of subject missing from alt and the
// words of alt missing from subject. Without color both come back unchanged.
func highlightSubjects(subject, alt string) (string, string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(alt, subject, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var left, right strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			left.WriteString(d.Text)
			right.WriteString(d.Text)
		case diffmatchpatch.DiffInsert:
			left.WriteString(insertColor.Sprint(d.Text))
		case diffmatchpatch.DiffDelete:
			right.WriteString(deleteColor.Sprint(d.Text))
		}
	}
	return left.String(), right.String()
}

func summaryLine(s compare.Summary) string {
	parts := make([]string, 0, len(compare.Tiers()))
	for _, t := range compare.Tiers() {
		parts = append(parts, fmt.Sprintf("%s %d", t.Marker(), s.Count(t)))
	}
	return fmt.Sprintf("--- %d commits: %s", s.Total(), strings.Join(parts, ", "))
}
