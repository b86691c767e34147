// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command docdrift reports how well a project's documentation covers its
// code and which documentation recent commits may have made stale.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/docdrift/internal/logging"
	"github.com/petar-djukic/docdrift/internal/report"
	"github.com/petar-djukic/docdrift/pkg/docdrift"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree with its own viper instance.
func newRootCmd() *cobra.Command {
	v := viper.New()
	rootCmd := &cobra.Command{
		Use:          "docdrift",
		Short:        "Documentation coverage and drift analysis",
		Long:         "docdrift links code entities to the documentation that mentions them and reports coverage, broken references, and the documentation impact of recent commits.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v)
		},
	}

	// Global flags.
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default .docdrift.yaml in the working or home directory)")
	pf.StringSlice("exclude", nil, "Glob patterns of files to skip (repeatable)")
	pf.StringSlice("ignore-dirs", nil, "Directory names to skip in addition to the defaults")
	pf.Int("fuzzy-threshold", 2, "Maximum edit distance for typo suggestions")
	pf.Int("workers", 0, "Parallel file readers (0 = number of CPUs)")
	pf.Bool("no-gitignore", false, "Do not honour .gitignore")
	pf.StringP("format", "f", "text", "Output format: text, json, or yaml")
	pf.Bool("no-color", false, "Disable colored text output")
	pf.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	pf.BoolP("quiet", "q", false, "Suppress all logging")
	pf.String("log-level", "", "Log level: debug, info, warn, or error (overrides -v)")

	for _, name := range []string{"config", "exclude", "ignore-dirs", "fuzzy-threshold", "workers", "no-gitignore", "format", "no-color", "verbose", "quiet", "log-level"} {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}

	// Env vars: DOCDRIFT_FORMAT, DOCDRIFT_FUZZY_THRESHOLD, etc.
	v.SetEnvPrefix("DOCDRIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(newAnalyzeCmd(v))
	rootCmd.AddCommand(newReportCmd(v))
	rootCmd.AddCommand(newChangesCmd(v))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// loadConfig reads the optional config file. A missing default file is not
// an error; a missing explicit one is.
func loadConfig(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".docdrift")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// newLogger builds the stderr logger selected by -v and -q. An explicit
// log-level replaces the -v count; -q still wins.
func newLogger(cmd *cobra.Command, v *viper.Viper) *slog.Logger {
	quiet := v.GetBool("quiet")
	level := logging.LevelFromVerbosity(v.GetInt("verbose"), quiet)
	if name := v.GetString("log-level"); name != "" && !quiet {
		level = logging.LevelFromString(name)
	}
	return logging.New(cmd.ErrOrStderr(), level)
}

// newConfig assembles the library config for root from flags, environment,
// and config file.
func newConfig(cmd *cobra.Command, v *viper.Viper, root string) docdrift.Config {
	return docdrift.Config{
		Root:           root,
		IgnoreDirs:     v.GetStringSlice("ignore-dirs"),
		Exclude:        v.GetStringSlice("exclude"),
		FuzzyThreshold: v.GetInt("fuzzy-threshold"),
		Workers:        v.GetInt("workers"),
		NoGitignore:    v.GetBool("no-gitignore"),
		Logger:         newLogger(cmd, v),
	}
}

// textOptions enables color only when writing to the process stdout.
func textOptions(cmd *cobra.Command, v *viper.Viper) report.TextOptions {
	return report.TextOptions{
		Color: !v.GetBool("no-color") && cmd.OutOrStdout() == os.Stdout,
	}
}

func dirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print docdrift version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docdrift %s\n", version)
		},
	}
}
