package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/masmgr/cmpbranch-go/internal/compare"
	"github.com/masmgr/cmpbranch-go/internal/git"
)

const (
	recordDateLayout     = "2006-01-02 15:04"
	reportDateTimeLayout = "2006-01-02T15:04:05"
)

// dateColumnWidth is the width of a formatted record date; alternate lines
// are indented by it so both subjects line up.
const dateColumnWidth = len(recordDateLayout)

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// recordDate formats the authored date in UTC.
func recordDate(c *git.Commit) string {
	return c.AuthorTime.UTC().Format(recordDateLayout)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func compactHeader(source, target string) string {
	return fmt.Sprintf("=== Compare branch %s and %s", source, target)
}

func legendLines(source, target string) []string {
	return []string{
		"= Commits that are in both branches with the same authored_date, author_name and subject",
		"~ Commits that are in both branches but with a different authored_date",
		"& Commits that are in both branches with the same authored_date, author_name but with a subject that is different",
		fmt.Sprintf("+ Commits are in %s but not in %s", source, target),
	}
}

// useCompactHeader reports whether a pair is introduced by the one-line header.
// Pattern runs always use it so that every pair is labeled.
func useCompactHeader(report *ComparisonReport, options OutputOptions) bool {
	return options.Legend == LegendShort || report.Pattern
}

func ancestorHash(p *compare.PairResult) string {
	if p.Ancestor == nil {
		return ""
	}
	return p.Ancestor.Hash
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func alternateFields(r compare.Record) (sha, subject string) {
	if r.Alternate == nil {
		return "", ""
	}
	return r.Alternate.ShortHash, r.Alternate.Subject
}
