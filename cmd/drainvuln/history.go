// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/drainvuln/storage"
	"github.com/katalvlaran/drainvuln/vulnerability"
)

func newHistoryCmd() *cobra.Command {
	var (
		db    string
		limit int
		run   string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs, or show the ranking of one run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()
			if db == "" {
				db = a.cfg.Output.SQLite
			}
			if db == "" {
				return fmt.Errorf("history: no database; pass --db or set output.sqlite")
			}

			store, err := storage.OpenSQLite(cmd.Context(), db)
			if err != nil {
				return err
			}
			defer store.Close()

			r := lipgloss.NewRenderer(a.out)
			t := table.New().Border(lipgloss.NormalBorder()).BorderStyle(r.NewStyle().Faint(true))
			if run != "" {
				rows, err := store.RunRows(cmd.Context(), run)
				if err != nil {
					return err
				}
				t.Headers("Rank", "Node", "Score", "Category", "Type")
				for i, row := range rows {
					t.Row(strconv.Itoa(i+1), strconv.Itoa(row.NodeID), fmt.Sprintf("%.3f", row.VulnerabilityScore),
						string(row.VulnerabilityCategory), string(row.Type))
				}
			} else {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				t.Headers("Run", "Created", "Nodes", "Edges", "λ₂", "ρ(A)", "Power iteration", "High/Med/Low")
				for _, ri := range runs {
					t.Row(ri.ID, ri.CreatedAt.Local().Format(time.DateTime), strconv.Itoa(ri.Nodes), strconv.Itoa(ri.Edges),
						fmt.Sprintf("%.4f", ri.AlgebraicConnectivity), fmt.Sprintf("%.4f", ri.SpectralRadius), ri.PowerIteration,
						fmt.Sprintf("%d/%d/%d", ri.Counts[vulnerability.High], ri.Counts[vulnerability.Medium], ri.Counts[vulnerability.Low]))
				}
			}
			_, err = fmt.Fprintln(a.out, t.String())

			return err
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "run database (default output.sqlite)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs listed; 0 lists all")
	cmd.Flags().StringVar(&run, "run", "", "show the ranked rows of this run id")

	return cmd
}
