package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIWriter writes comparison reports as NDJSON (one JSON object per line) for CI pipelines.
type CIWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type        string `json:"type"`
	Pairs       int    `json:"pairs"`
	FailedPairs int    `json:"failedPairs"`
	Exact       int    `json:"exact"`
	Message     int    `json:"message"`
	Timestamp   int    `json:"timestamp"`
	Unmatched   int    `json:"unmatched"`
}

// CIPairEntry opens the entries of one compared pair.
type CIPairEntry struct {
	Type     string `json:"type"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Ancestor string `json:"ancestor,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CICommitEntry represents a single classified commit in CI output.
type CICommitEntry struct {
	Type       string `json:"type"`
	Source     string `json:"source"`
	Marker     string `json:"marker"`
	Tier       string `json:"tier"`
	SHA        string `json:"sha"`
	Author     string `json:"author"`
	Subject    string `json:"subject"`
	AltSHA     string `json:"altSha,omitempty"`
	AltSubject string `json:"altSubject,omitempty"`
}

// Write outputs the comparison report as NDJSON.
func (w *CIWriter) Write(report *ComparisonReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	totals := report.Totals()
	summary := CISummary{
		Type:        "summary",
		Pairs:       len(report.Pairs),
		FailedPairs: report.FailedPairs(),
		Exact:       totals.Exact,
		Message:     totals.Message,
		Timestamp:   totals.Timestamp,
		Unmatched:   totals.Unmatched,
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for i := range report.Pairs {
		pair := &report.Pairs[i]
		entry := CIPairEntry{
			Type:     "pair",
			Source:   pair.Source,
			Target:   pair.Target,
			Ancestor: ancestorHash(pair),
			Error:    errorText(pair.Err),
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
		for _, r := range pair.Records {
			altSHA, altSubject := alternateFields(r)
			entry := CICommitEntry{
				Type:       "commit",
				Source:     pair.Source,
				Marker:     r.Tier.Marker(),
				Tier:       r.Tier.String(),
				SHA:        r.Commit.Hash,
				Author:     r.Commit.AuthorName,
				Subject:    r.Commit.Subject(),
				AltSHA:     altSHA,
				AltSubject: altSubject,
			}
			if err := writeNDJSONLine(out, entry); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
