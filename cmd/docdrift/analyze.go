// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/docdrift/internal/priority"
	"github.com/petar-djukic/docdrift/internal/report"
	"github.com/petar-djukic/docdrift/pkg/docdrift"
)

// newAnalyzeCmd creates the "analyze" command.
func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [dir]",
		Short: "Analyze documentation coverage of a project",
		Long:  "Analyze scans the directory, links documentation references to code entities, and prints coverage, clusters, and prioritised issues.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, v, dirArg(args))
		},
	}
	cmd.Flags().String("save", "", "Write a snapshot of the analysis to this file")
	cmd.Flags().Float64("min-priority", 0, "Only report issues at or above this priority")
	cmd.Flags().Int("context", 0, "Source lines shown around each issue in text output")
	cmd.Flags().Int("max-issues", 0, "Issues listed in text output (0 = all)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, v *viper.Viper, dir string) error {
	format, err := report.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}
	savePath, _ := cmd.Flags().GetString("save")
	minPriority, _ := cmd.Flags().GetFloat64("min-priority")
	contextLines, _ := cmd.Flags().GetInt("context")
	maxIssues, _ := cmd.Flags().GetInt("max-issues")

	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	a, err := docdrift.New(newConfig(cmd, v, root))
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rep, err := a.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if savePath != "" {
		snap := report.NewSnapshot(root, rep.Result, rep.CodeFiles, rep.DocFiles)
		if err := report.Save(savePath, snap); err != nil {
			return err
		}
		newLogger(cmd, v).Info("snapshot saved", "path", savePath, "id", snap.ID)
	}

	res := rep.Result
	res.Issues = priority.Filter(res.Issues, minPriority)

	opts := textOptions(cmd, v)
	opts.Root, opts.ContextLines, opts.MaxIssues = root, contextLines, maxIssues
	return report.Encode(cmd.OutOrStdout(), res, format, opts)
}
