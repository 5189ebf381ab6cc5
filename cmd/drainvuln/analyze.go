// SPDX-License-Identifier: MIT

package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// analysisFlags registers the input, output and tuning flags shared by
// analyze and watch, and binds them to their config keys on PreRun.
func analysisFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("nodes", "", "node table CSV")
	f.String("edges", "", "edge table CSV")
	f.String("db", "", "read the network from this SQLite database instead of CSV")
	f.String("out", "", "ranked results CSV")
	f.String("json", "", "ranked results and summary as JSON")
	f.String("store", "", "append the run to this SQLite database")
	f.String("self-loops", "", "self-loop policy: drop or keep")
	f.String("solver", "", "eigen solver: jacobi or lapack")
	f.Int64("seed", 0, "power iteration seed (0 selects the fixed default)")
	f.Int("top", 0, "rows in the console table")
	f.String("metrics-textfile", "", "write Prometheus metrics to this file")

	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		bindFlags(cmd, map[string]string{
			"nodes":            "input.nodes",
			"edges":            "input.edges",
			"db":               "input.sqlite",
			"out":              "output.csv",
			"json":             "output.json",
			"store":            "output.sqlite",
			"self-loops":       "graph.self_loops",
			"solver":           "spectral.solver",
			"seed":             "centrality.seed",
			"top":              "report.top",
			"metrics-textfile": "metrics.textfile",
		})
	}
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score every node once and print the ranking",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			start := time.Now()
			res, err := a.analyze(cmd.Context())
			if err != nil {
				a.log.Error("run failed", zap.Error(err), elapsed(start))
				return err
			}
			a.log.Info("done", zap.Int("nodes", res.Summary.Nodes), elapsed(start))

			return nil
		},
	}
	analysisFlags(cmd)

	return cmd
}
