package cmd

import (
	"github.com/masmgr/cmpbranch-go/internal/output"
)

func writeComparisonReport(report *output.ComparisonReport, opts output.OutputOptions) error {
	writer := output.NewReportWriter(opts.Format)
	return writer.Write(report, opts)
}
