package output

import (
	"encoding/json"
	"fmt"

	"github.com/masmgr/cmpbranch-go/internal/compare"
)

// JSONWriter writes comparison reports as JSON.
type JSONWriter struct{}

// JSONReport is the JSON output structure for a comparison run.
type JSONReport struct {
	RepoPath    string          `json:"repo"`
	Source      string          `json:"source"`
	Target      string          `json:"target"`
	Pattern     bool            `json:"pattern"`
	Swap        bool            `json:"swap"`
	Paths       []string        `json:"paths,omitempty"`
	DiffBase    string          `json:"diffBase,omitempty"`
	GeneratedAt string          `json:"generatedAt"`
	Totals      compare.Summary `json:"totals"`
	Pairs       []JSONPair      `json:"pairs"`
}

// JSONPair is the JSON output structure for one compared pair.
type JSONPair struct {
	Source   string           `json:"source"`
	Target   string           `json:"target"`
	Ancestor string           `json:"ancestor,omitempty"`
	Error    string           `json:"error,omitempty"`
	Summary  *compare.Summary `json:"summary,omitempty"`
	Commits  []JSONCommit     `json:"commits"`
}

// JSONCommit is the JSON output structure for a classified commit.
type JSONCommit struct {
	Marker     string         `json:"marker"`
	Tier       string         `json:"tier"`
	SHA        string         `json:"sha"`
	AuthoredAt string         `json:"authoredAt"`
	Author     string         `json:"author"`
	Email      string         `json:"email,omitempty"`
	Subject    string         `json:"subject"`
	Alternate  *JSONAlternate `json:"alternate,omitempty"`
}

// JSONAlternate is the target commit of a timestamp match.
type JSONAlternate struct {
	SHA     string `json:"sha"`
	Subject string `json:"subject"`
}

// Write outputs the comparison report as JSON.
func (w *JSONWriter) Write(report *ComparisonReport, options OutputOptions) error {
	pairs := make([]JSONPair, len(report.Pairs))
	for i := range report.Pairs {
		pairs[i] = toJSONPair(&report.Pairs[i])
	}

	jsonReport := JSONReport{
		RepoPath:    report.RepoPath,
		Source:      report.Source,
		Target:      report.Target,
		Pattern:     report.Pattern,
		Swap:        report.Swap,
		Paths:       report.Paths,
		GeneratedAt: formatTimestamp(report.GeneratedAt),
		Totals:      report.Totals(),
		Pairs:       pairs,
	}
	if len(report.Paths) > 0 {
		jsonReport.DiffBase = string(report.DiffBase)
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func toJSONPair(p *compare.PairResult) JSONPair {
	jp := JSONPair{
		Source:   p.Source,
		Target:   p.Target,
		Ancestor: ancestorHash(p),
		Error:    errorText(p.Err),
		Commits:  make([]JSONCommit, 0, len(p.Records)),
	}
	if p.Err != nil {
		return jp
	}
	summary := p.Summary
	jp.Summary = &summary
	for _, r := range p.Records {
		jc := JSONCommit{
			Marker:     r.Tier.Marker(),
			Tier:       r.Tier.String(),
			SHA:        r.Commit.Hash,
			AuthoredAt: formatTimestamp(r.Commit.AuthorTime),
			Author:     r.Commit.AuthorName,
			Email:      r.Commit.AuthorEmail,
			Subject:    r.Commit.Subject(),
		}
		if r.Alternate != nil {
			jc.Alternate = &JSONAlternate{SHA: r.Alternate.ShortHash, Subject: r.Alternate.Subject}
		}
		jp.Commits = append(jp.Commits, jc)
	}
	return jp
}

func writeJSON(data interface{}, outputPath string) error {
	out, file, err := openOutputWriter(outputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
