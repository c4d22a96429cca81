package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/masmgr/cmpbranch-go/config"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "cmpbranch",
		Usage:     "Show which commits of one branch are missing from another",
		UsageText: "cmpbranch [global options] compare [options] [re:]BRANCH-1 BRANCH-2",
		Version:   "1.0.0",
		Commands: []*cli.Command{
			CompareCmd(),
		},
		Flags: append(globalFlags(), compareFlags()...),
		Before: func(c *cli.Context) error {
			setupLogging(c.Bool("verbose"))
			return nil
		},
		Action: defaultAction,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file (.json, .yaml)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log debug diagnostics to stderr",
		},
	}
}

// setupLogging installs the process-wide slog handler.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig loads configuration from file or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// defaultAction runs compare when two branches are given without a subcommand.
func defaultAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return compareAction(c)
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
