package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/masmgr/cmpbranch-go/internal/compare"
)

// MarkdownWriter writes comparison reports as Markdown.
type MarkdownWriter struct{}

// Write outputs the comparison report as Markdown.
func (w *MarkdownWriter) Write(report *ComparisonReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Branch Comparison")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Compared:** `%s` against `%s`\n\n", report.Source, report.Target)
	if len(report.Paths) > 0 {
		fmt.Fprintf(out, "**Paths:** `%s` (diff base: %s)\n\n", strings.Join(report.Paths, "`, `"), report.DiffBase)
	}

	if options.Legend == LegendFull && !report.Pattern {
		fmt.Fprintln(out, "| Marker | Meaning |")
		fmt.Fprintln(out, "|--------|---------|")
		for _, t := range compare.Tiers() {
			fmt.Fprintf(out, "| `%s` | %s |\n", t.Marker(), tierMeaning(t))
		}
		fmt.Fprintln(out)
	}

	for i := range report.Pairs {
		writeMarkdownPair(out, &report.Pairs[i], options)
	}
	return nil
}

func writeMarkdownPair(out io.Writer, pair *compare.PairResult, options OutputOptions) {
	fmt.Fprintf(out, "## %s vs %s\n\n", escapeMarkdown(pair.Source), escapeMarkdown(pair.Target))

	if pair.Err != nil {
		fmt.Fprintf(out, "> **Error:** %s\n\n", escapeMarkdown(pair.Err.Error()))
		return
	}
	if len(pair.Records) == 0 {
		fmt.Fprintln(out, "No commits.")
		fmt.Fprintln(out)
		return
	}

	if options.ShowSHA {
		fmt.Fprintln(out, "| | SHA | Date | Author | Subject |")
		fmt.Fprintln(out, "|---|-----|------|--------|---------|")
	} else {
		fmt.Fprintln(out, "| | Date | Author | Subject |")
		fmt.Fprintln(out, "|---|------|--------|---------|")
	}
	for _, r := range pair.Records {
		subject := escapeMarkdown(r.Commit.Subject())
		if r.Alternate != nil {
			subject += "<br>" + escapeMarkdown(r.Alternate.Subject)
			if options.ShowSHA {
				subject += " (`" + r.Alternate.ShortHash + "`)"
			}
		}
		if options.ShowSHA {
			fmt.Fprintf(out, "| `%s` | `%s` | %s | %s | %s |\n",
				r.Tier.Marker(), r.Commit.ShortHash(), recordDate(r.Commit), escapeMarkdown(r.Commit.AuthorName), subject)
		} else {
			fmt.Fprintf(out, "| `%s` | %s | %s | %s |\n",
				r.Tier.Marker(), recordDate(r.Commit), escapeMarkdown(r.Commit.AuthorName), subject)
		}
	}
	fmt.Fprintln(out)

	if options.Summary {
		fmt.Fprintf(out, "**Summary:** %s\n\n", strings.TrimPrefix(summaryLine(pair.Summary), "--- "))
	}
}

func tierMeaning(t compare.Tier) string {
	switch t {
	case compare.TierExact:
		return "same authored date, author and subject"
	case compare.TierMessage:
		return "same author and subject, different authored date"
	case compare.TierTimestamp:
		return "same authored date and author, different subject"
	default:
		return "not found in the target"
	}
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
