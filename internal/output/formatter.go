package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/masmgr/cmpbranch-go/internal/compare"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
	_ ReportWriter = (*CIWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// ParseFormat validates a format name. The empty string selects FormatConsole.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatConsole, nil
	case FormatConsole, FormatJSON, FormatCSV, FormatMarkdown, FormatCI:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected console, json, csv, markdown or ci)", s)
	}
}

// LegendMode selects what is printed in front of each compared pair.
type LegendMode string

const (
	LegendFull  LegendMode = "full"
	LegendShort LegendMode = "short"
	LegendNone  LegendMode = "none"
)

// ParseLegendMode validates a legend mode. The empty string selects LegendFull.
func ParseLegendMode(s string) (LegendMode, error) {
	switch m := LegendMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return LegendFull, nil
	case LegendFull, LegendShort, LegendNone:
		return m, nil
	default:
		return "", fmt.Errorf("unknown legend mode %q (expected full, short or none)", s)
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
	ShowSHA    bool
	Legend     LegendMode
	// Highlight marks the words that differ between a timestamp match and its alternate.
	Highlight bool
	Summary   bool
}

// ComparisonReport holds the results of a comparison run.
type ComparisonReport struct {
	RepoPath    string
	Source      string
	Target      string
	Pattern     bool
	Swap        bool
	Paths       []string
	DiffBase    compare.DiffBase
	GeneratedAt time.Time
	Pairs       []compare.PairResult
}

// NewComparisonReport wraps a runner result.
func NewComparisonReport(repoPath string, result *compare.Result, opts compare.Options) *ComparisonReport {
	return &ComparisonReport{
		RepoPath:    repoPath,
		Source:      result.Source,
		Target:      result.Target,
		Pattern:     result.Pattern,
		Swap:        opts.Swap,
		Paths:       opts.Paths,
		DiffBase:    opts.DiffBase,
		GeneratedAt: time.Now(),
		Pairs:       result.Pairs,
	}
}

// Totals sums the tier counts of every successful pair.
func (r *ComparisonReport) Totals() compare.Summary {
	var s compare.Summary
	for i := range r.Pairs {
		p := r.Pairs[i].Summary
		s.Exact += p.Exact
		s.Message += p.Message
		s.Timestamp += p.Timestamp
		s.Unmatched += p.Unmatched
	}
	return s
}

// FailedPairs returns the number of pairs that could not be compared.
func (r *ComparisonReport) FailedPairs() int {
	n := 0
	for i := range r.Pairs {
		if r.Pairs[i].Failed() {
			n++
		}
	}
	return n
}

// ReportWriter writes comparison reports.
type ReportWriter interface {
	Write(report *ComparisonReport, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	case FormatCI:
		return &CIWriter{}
	default:
		return &ConsoleWriter{}
	}
}
