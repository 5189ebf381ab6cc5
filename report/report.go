// SPDX-License-Identifier: MIT

// Package report renders an analysis result for the console: a network
// statistics block followed by a table of the most vulnerable nodes.
//
// Styles are bound to a renderer created for the destination writer, so
// output sent to a file or a pipe carries no escape sequences.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/katalvlaran/drainvuln/analysis"
	"github.com/katalvlaran/drainvuln/vulnerability"
)

// DefaultTop is the number of rows shown when no limit is given.
const DefaultTop = 15

// Semantic palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorDanger  = lipgloss.Color("#FF5252")
	colorAccent  = lipgloss.Color("#FFD700")
	colorSuccess = lipgloss.Color("#00E676")
	colorMuted   = lipgloss.Color("#8C8C8C")
)

// styles holds the styles bound to one renderer.
type styles struct {
	title, section, label, value, muted lipgloss.Style
	header                              lipgloss.Style
	category                            map[vulnerability.Category]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Foreground(colorPrimary).Bold(true),
		section: r.NewStyle().Foreground(colorAccent).Bold(true),
		label:   r.NewStyle().Foreground(colorMuted),
		value:   r.NewStyle(),
		muted:   r.NewStyle().Foreground(colorMuted),
		header:  r.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1),
		category: map[vulnerability.Category]lipgloss.Style{
			vulnerability.High:   r.NewStyle().Foreground(colorDanger).Bold(true),
			vulnerability.Medium: r.NewStyle().Foreground(colorAccent),
			vulnerability.Low:    r.NewStyle().Foreground(colorSuccess),
		},
	}
}

// Render writes the statistics block and the top rows of res to w.
// top ≤ 0 selects DefaultTop.
func Render(w io.Writer, res *analysis.Result, top int) error {
	if top <= 0 {
		top = DefaultTop
	}
	st := newStyles(lipgloss.NewRenderer(w))

	var b strings.Builder
	writeStatistics(&b, st, res)
	b.WriteString("\n")
	writeTop(&b, st, res, top)
	if len(res.Warnings) > 0 {
		b.WriteString("\n" + st.section.Render("Warnings") + "\n")
		for _, wn := range res.Warnings {
			fmt.Fprintf(&b, "  %s %s\n", st.label.Render(string(wn.Kind)+" ["+string(wn.Stage)+"]"), wn.Detail)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeStatistics renders the network summary.
func writeStatistics(b *strings.Builder, st styles, res *analysis.Result) {
	s := res.Summary
	line := func(label, value string) {
		fmt.Fprintf(b, "  %s %s\n", st.label.Render(label+":"), st.value.Render(value))
	}

	b.WriteString(st.title.Render("NETWORK STATISTICS") + "\n")

	b.WriteString("\n" + st.section.Render("Spectral properties") + "\n")
	line("Algebraic connectivity (λ₂)", fmt.Sprintf("%.6f (%s)", s.AlgebraicConnectivity, s.Connectivity))
	line("Spectral radius ρ(A)", fmt.Sprintf("%.6f (%s)", s.SpectralRadius, s.Topology))
	line("Laplacian eigenvalues", fmt.Sprintf("[%.6f, %.6f]", s.LaplacianRange.Min, s.LaplacianRange.Max))
	line("Components", strconv.Itoa(s.Components))

	b.WriteString("\n" + st.section.Render("Connectivity") + "\n")
	line("Nodes / edges", fmt.Sprintf("%d / %d", s.Nodes, s.Edges))
	line("Average degree", fmt.Sprintf("%.2f", s.MeanDegree))
	line("Degree range", fmt.Sprintf("%d - %d", int(s.Degree.Min), int(s.Degree.Max)))

	b.WriteString("\n" + st.section.Render("Hydraulic parameters") + "\n")
	line("Elevation", fmt.Sprintf("%.1f - %.1f m", s.Elevation.Min, s.Elevation.Max))
	line("Flow capacity", fmt.Sprintf("%.1f - %.1f m³/s", s.FlowCapacity.Min, s.FlowCapacity.Max))
	line("Rainfall", fmt.Sprintf("%.1f - %.1f mm/h", s.Rainfall.Min, s.Rainfall.Max))
	line("Sediment risk", fmt.Sprintf("%.3f - %.3f", s.Sediment.Min, s.Sediment.Max))

	b.WriteString("\n" + st.section.Render("Vulnerability") + "\n")
	line("Score range", fmt.Sprintf("%.3f - %.3f", s.Score.Min, s.Score.Max))
	line("Mean / std dev", fmt.Sprintf("%.3f / %.3f", s.ScoreMean, s.ScoreStd))
	line("Thresholds p30 / p70", fmt.Sprintf("%.3f / %.3f", s.LowThreshold, s.HighThreshold))
	line("High / medium / low", fmt.Sprintf("%d / %d / %d",
		s.Counts[vulnerability.High], s.Counts[vulnerability.Medium], s.Counts[vulnerability.Low]))
	line("Power iteration", fmt.Sprintf("%s after %d iterations (seed %d)", s.PowerOutcome, s.PowerIterations, s.Seed))
}

// topHeaders are the columns of the top-N table.
var topHeaders = []string{"Node", "Deg", "Vuln", "Category", "Type", "Elev (m)", "Capacity (m³/s)", "Rain (mm/h)", "Sediment"}

// categoryColumn is the index of the category column in topHeaders.
const categoryColumn = 3

// writeTop renders the first top rows of the ranked table.
func writeTop(b *strings.Builder, st styles, res *analysis.Result, top int) {
	rows := res.Top(top)
	b.WriteString(st.title.Render(fmt.Sprintf("TOP %d MOST VULNERABLE NODES", len(rows))) + "\n")

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			strconv.Itoa(r.NodeID),
			strconv.Itoa(r.Degree),
			fmt.Sprintf("%.3f", r.VulnerabilityScore),
			string(r.VulnerabilityCategory),
			string(r.Type),
			fmt.Sprintf("%.1f", r.Elevation),
			fmt.Sprintf("%.1f", r.FlowCapacity),
			fmt.Sprintf("%.1f", r.RainfallIntensity),
			fmt.Sprintf("%.3f", r.SedimentRisk),
		}
	}

	cell := st.value.Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.muted).
		Headers(topHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}
			if col == categoryColumn && row >= 0 && row < len(rows) {
				if cs, ok := st.category[rows[row].VulnerabilityCategory]; ok {
					return cs.Padding(0, 1)
				}
			}
			return cell
		})
	b.WriteString(t.String() + "\n")
}
