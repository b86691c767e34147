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

	"github.com/petar-djukic/docdrift/internal/report"
	"github.com/petar-djukic/docdrift/pkg/docdrift"
)

// newChangesCmd creates the "changes" command.
func newChangesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changes [dir]",
		Short: "Show documentation affected by recent commits",
		Long:  "Changes compares the definitions in each commit since --since with its parent and lists the documentation references the changes affect.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChanges(cmd, v, dirArg(args))
		},
	}
	cmd.Flags().String("since", "HEAD~1", "Revision to compare from (exclusive)")
	cmd.Flags().Bool("diff", false, "Include line diffs of changed files")
	return cmd
}

func runChanges(cmd *cobra.Command, v *viper.Viper, dir string) error {
	format, err := report.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}
	since, _ := cmd.Flags().GetString("since")
	withDiff, _ := cmd.Flags().GetBool("diff")

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

	commits, err := a.Changes(ctx, since, withDiff)
	if err != nil {
		return fmt.Errorf("change analysis failed: %w", err)
	}
	if format == report.FormatText {
		_, err = fmt.Fprint(cmd.OutOrStdout(), report.RenderChanges(commits, textOptions(cmd, v)))
		return err
	}
	if commits == nil {
		commits = []docdrift.CommitImpact{}
	}
	return report.EncodeData(cmd.OutOrStdout(), commits, format)
}
