package cmd

import (
	"fmt"
	"log/slog"

	"github.com/masmgr/cmpbranch-go/internal/compare"
	"github.com/masmgr/cmpbranch-go/internal/git"
	"github.com/masmgr/cmpbranch-go/internal/output"
	"github.com/urfave/cli/v2"
)

const compareDescription = `Display the commits of BRANCH-1 since the commit it shares with BRANCH-2.

Each commit is prefixed with a marker:
  =  same authored date, author and subject in BRANCH-2
  ~  same author and subject in BRANCH-2, different authored date
  &  same authored date and author in BRANCH-2, different subject (both subjects are shown)
  +  not found in BRANCH-2

BRANCH-1 can be a regular expression prefixed with "re:" to compare every
matching reference with BRANCH-2. A single BRANCH-1...BRANCH-2 argument is
also accepted; an empty BRANCH-2 means HEAD.`

// CompareCmd returns the compare command.
func CompareCmd() *cli.Command {
	return &cli.Command{
		Name:        "compare",
		Aliases:     []string{"cmp"},
		Usage:       "Compare two branches and highlight commits missing from the second",
		ArgsUsage:   "[re:]BRANCH-1 BRANCH-2 | BRANCH-1...BRANCH-2",
		Description: compareDescription,
		Flags:       compareFlags(),
		Action:      compareAction,
	}
}

func compareFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "History backend (native, gitcli)",
		},
		&cli.BoolFlag{
			Name:  "switch",
			Usage: "Swap the two branches (eases use with xargs)",
		},
		&cli.BoolFlag{
			Name:  "sha",
			Usage: "Display the short hash of each commit",
		},
		&cli.BoolFlag{
			Name:  "no-legend",
			Usage: "Don't display the legend",
		},
		&cli.BoolFlag{
			Name:  "short-legend",
			Usage: "Display a one-line header instead of the legend",
		},
		&cli.StringSliceFlag{
			Name:  "path",
			Usage: "Report only commits touching this file or directory (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:  "diff-base",
			Usage: "Commit that path changes are computed against (parent, traversal)",
		},
		&cli.BoolFlag{
			Name:  "highlight",
			Usage: "Highlight the differing words of mismatched subjects",
		},
		&cli.BoolFlag{
			Name:  "summary",
			Usage: "Print tier counts after each comparison",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	}
}

func compareAction(c *cli.Context) error {
	source, target, err := compareArgs(c)
	if err != nil {
		return err
	}

	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	opts, err := ctx.CompareOptions()
	if err != nil {
		return err
	}
	outOpts, err := ctx.OutputOptions(c)
	if err != nil {
		return err
	}

	req := compare.Request{
		Source:  source,
		Target:  target,
		Options: opts,
	}
	slog.Debug("compare", "source", req.Source, "target", req.Target, "swap", opts.Swap, "paths", opts.Paths)

	result, err := compare.NewRunner(ctx.Accessor).Run(c.Context, req)
	if err != nil {
		return err
	}

	report := output.NewComparisonReport(ctx.RepoPath, result, opts)
	if err := writeComparisonReport(report, outOpts); err != nil {
		return err
	}

	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d comparisons failed", failed, len(result.Pairs))
	}
	return nil
}

// compareArgs accepts either two branch arguments or one range spec.
func compareArgs(c *cli.Context) (source, target string, err error) {
	switch c.NArg() {
	case 1:
		return git.ParseRangeSpec(c.Args().Get(0))
	case 2:
		return c.Args().Get(0), c.Args().Get(1), nil
	default:
		return "", "", fmt.Errorf("expected 2 arguments ([re:]BRANCH-1 BRANCH-2), got %d", c.NArg())
	}
}
