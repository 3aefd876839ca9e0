// Package cmd implements the jsrewrite command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalvas/jsrewrite/config"
	"github.com/vitalvas/jsrewrite/rewrite"
	"github.com/vitalvas/jsrewrite/xlogger"
)

type rootOptions struct {
	configFile  string
	logLevel    string
	logFormat   string
	workers     int
	rules       []string
	metricsFile string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "jsrewrite",
		Short: "Structural rewrites for JavaScript sources",
		Long: `jsrewrite parses JavaScript sources, applies a fixed set of structural
rewrite rules and prints the result:

  - fetch(...), window.fetch(...) and globalThis.fetch(...) call my_fetch
  - the left operand of every === is replaced by a placeholder identifier

Configuration is read from the file given with --config, then from
JSREWRITE_* environment variables, then from flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (.yaml, .yml, .json or .toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	flags.IntVar(&opts.workers, "workers", 0, "files processed concurrently")
	flags.StringSliceVar(&opts.rules, "rules", nil, "rules to enable, all when empty")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after each run")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
		newRulesCmd(),
	)

	return rootCmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// load merges the config file, environment and flags, in that order.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	conf, err := config.LoadFile(o.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		conf.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		conf.Log.LogType = o.logFormat
	}
	if flags.Changed("workers") {
		conf.Workers = o.workers
	}
	if flags.Changed("rules") {
		conf.Rules = o.rules
	}
	if flags.Changed("metrics-file") {
		conf.MetricsFile = o.metricsFile
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	return conf, nil
}

// setup loads the configuration and builds the logger and engine shared by
// the rewriting commands.
func (o *rootOptions) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, *rewrite.Engine, error) {
	conf, err := o.load(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	rules, err := rewrite.SelectRules(conf.Rules...)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := xlogger.New(conf.Log, cmd.ErrOrStderr())
	engine := rewrite.NewEngine(rules...)

	logger.Debug("configuration loaded",
		"config", o.configFile,
		"workers", conf.Workers,
		"rules", engine.Rules(),
	)

	return conf, logger, engine, nil
}
