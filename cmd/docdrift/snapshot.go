// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/docdrift/internal/priority"
	"github.com/petar-djukic/docdrift/internal/report"
)

// newReportCmd creates the "report" command, which re-renders a snapshot
// written by "analyze --save".
func newReportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <snapshot>",
		Short: "Render a saved analysis snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(v.GetString("format"))
			if err != nil {
				return err
			}
			base, _ := cmd.Flags().GetString("base-dir")
			minPriority, _ := cmd.Flags().GetFloat64("min-priority")

			snap, err := report.Load(args[0], base)
			if err != nil {
				return err
			}
			res := snap.Result
			res.Issues = priority.Filter(res.Issues, minPriority)
			return report.Encode(cmd.OutOrStdout(), res, format, textOptions(cmd, v))
		},
	}
	cmd.Flags().String("base-dir", "", "Directory stored paths must stay inside (default: the snapshot's directory)")
	cmd.Flags().Float64("min-priority", 0, "Only report issues at or above this priority")
	return cmd
}
