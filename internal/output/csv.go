package output

import (
	"encoding/csv"
	"os"
)

// CSVWriter writes comparison reports as CSV, one row per classified commit.
// A failed pair produces a single row carrying the error.
type CSVWriter struct{}

// Write outputs the comparison report as CSV.
func (w *CSVWriter) Write(report *ComparisonReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"Source", "Target", "Marker", "Tier", "SHA", "AuthoredAt", "Author", "Subject",
		"AltSHA", "AltSubject", "Error"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for i := range report.Pairs {
		pair := &report.Pairs[i]
		if pair.Err != nil {
			row := []string{pair.Source, pair.Target, "", "", "", "", "", "", "", "", pair.Err.Error()}
			if err := writer.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, r := range pair.Records {
			altSHA, altSubject := alternateFields(r)
			row := []string{
				pair.Source,
				pair.Target,
				r.Tier.Marker(),
				r.Tier.String(),
				r.Commit.Hash,
				r.Commit.AuthorTime.UTC().Format(reportDateTimeLayout),
				r.Commit.AuthorName,
				r.Commit.Subject(),
				altSHA,
				altSubject,
				"",
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
