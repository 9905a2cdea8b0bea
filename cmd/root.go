/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/josephgoksu/contactbook/internal/config"
	"github.com/josephgoksu/contactbook/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// version is the application version, overridden at build time.
	version = "1.0.0"
	// appLogger is the diagnostic logger for the running command.
	appLogger = zap.NewNop()
	// invocation is the command line of the current run, kept for crash reports.
	invocation string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "contactbook",
	Short: "contactbook keeps a small address book on the command line.",
	Long: `contactbook stores contacts (name, phone, email, tags) and lets you add,
list, search and delete them. Pass --db to keep the book in a JSON, YAML or
SQLite file; without it the book only lives for the current command.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = appLogger.Sync()
	},
}

// Execute runs the root command and returns the process exit code.
// This is called by main.main().
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	invocation = strings.Join(args, " ")
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	reportError(stderr, err)
	return exitCodeFor(err)
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Cmd: cmd.CommandPath(), Err: err}
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.contactbook.yaml or $HOME/.contactbook.yaml)")
	pf.String("db", "", "contacts file; .json, .yaml/.yml or .db/.sqlite (empty keeps contacts for this run only)")
	pf.String("format", "", "storage format: json, yaml or sqlite (default inferred from --db)")
	pf.String("on-corrupt", config.DefaultOnCorrupt, "what to do with an unreadable contacts file: reset or fail")
	pf.Bool("json", false, "print machine-readable JSON")
	pf.BoolP("verbose", "v", false, "enable verbose output")
	pf.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	pf.String("log-format", config.DefaultLogFormat, "log format: console or json")
}

// setup loads configuration and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := InitConfig(cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	cfg := GetConfig()

	base, err := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return err
	}
	appLogger, _ = logger.WithRunID(base.With(zap.String("command", cmd.Name())))

	logger.SetVersion(version)
	logger.SetCommand(cmd.CommandPath())
	logger.SetLastInput(invocation)
	if dir, err := config.GetGlobalConfigDir(); err == nil {
		logger.SetBasePath(dir)
	}

	appLogger.Debug("configuration loaded",
		zap.String("config_file", cfg.Config),
		zap.String("db", cfg.DB),
		zap.String("format", cfg.Format),
		zap.String("on_corrupt", cfg.OnCorrupt),
	)
	return nil
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}
