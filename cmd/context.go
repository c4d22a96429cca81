package cmd

import (
	"fmt"
	"strings"

	"github.com/masmgr/cmpbranch-go/config"
	"github.com/masmgr/cmpbranch-go/internal/compare"
	"github.com/masmgr/cmpbranch-go/internal/git"
	"github.com/masmgr/cmpbranch-go/internal/output"
	"github.com/urfave/cli/v2"
)

// CommandContext holds common state for command execution.
// CLI flags have already been applied over the configuration file.
type CommandContext struct {
	Config   *config.Config
	RepoPath string
	Accessor git.HistoryAccessor
}

// NewCommandContext loads configuration, applies flag overrides and opens the repository.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	acc, err := git.Open(git.OpenOptions{
		RepoPath: cfg.Repository.Path,
		Backend:  git.Backend(strings.ToLower(cfg.Repository.Backend)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &CommandContext{
		Config:   cfg,
		RepoPath: cfg.Repository.Path,
		Accessor: acc,
	}, nil
}

// applyFlagOverrides copies every explicitly set flag into cfg.
func applyFlagOverrides(c *cli.Context, cfg *config.Config) {
	if c.IsSet("repo") {
		cfg.Repository.Path = c.String("repo")
	}
	if c.IsSet("backend") {
		cfg.Repository.Backend = c.String("backend")
	}
	if c.IsSet("switch") {
		cfg.Compare.Switch = c.Bool("switch")
	}
	if c.IsSet("sha") {
		cfg.Compare.ShowSHA = c.Bool("sha")
	}
	switch {
	case c.Bool("no-legend"):
		cfg.Compare.Legend = string(output.LegendNone)
	case c.Bool("short-legend"):
		cfg.Compare.Legend = string(output.LegendShort)
	}
	if paths := c.StringSlice("path"); len(paths) > 0 {
		cfg.Compare.Paths = paths
	}
	if c.IsSet("diff-base") {
		cfg.Compare.DiffBase = c.String("diff-base")
	}
	if c.IsSet("format") {
		cfg.Output.Format = getOutputFormat(c.String("format"))
	}
	if c.IsSet("highlight") {
		cfg.Output.Highlight = c.Bool("highlight")
	}
	if c.IsSet("summary") {
		cfg.Output.Summary = c.Bool("summary")
	}
	if cfg.Repository.Path == "" {
		cfg.Repository.Path = "."
	}
}

// getOutputFormat maps format aliases to their canonical names.
func getOutputFormat(s string) string {
	switch strings.ToLower(s) {
	case "md":
		return string(output.FormatMarkdown)
	case "ndjson":
		return string(output.FormatCI)
	default:
		return strings.ToLower(s)
	}
}

// CompareOptions builds runner options from the configuration.
func (ctx *CommandContext) CompareOptions() (compare.Options, error) {
	base, err := compare.ParseDiffBase(ctx.Config.Compare.DiffBase)
	if err != nil {
		return compare.Options{}, err
	}
	return compare.Options{
		Swap:     ctx.Config.Compare.Switch,
		Paths:    ctx.Config.Compare.Paths,
		DiffBase: base,
	}, nil
}

// OutputOptions builds writer options from the configuration and the output flag.
func (ctx *CommandContext) OutputOptions(c *cli.Context) (output.OutputOptions, error) {
	format, err := output.ParseFormat(ctx.Config.Output.Format)
	if err != nil {
		return output.OutputOptions{}, err
	}
	legend, err := output.ParseLegendMode(ctx.Config.Compare.Legend)
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		OutputPath: c.String("output"),
		ShowSHA:    ctx.Config.Compare.ShowSHA,
		Legend:     legend,
		Highlight:  ctx.Config.Output.Highlight,
		Summary:    ctx.Config.Output.Summary,
	}, nil
}
