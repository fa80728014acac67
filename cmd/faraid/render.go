package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/drhimam/islamic-will-creator/internal/report"
)

var (
	accent = lipgloss.Color("#8BC34A")
	warn   = lipgloss.Color("#E5A50A")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	warnStyle   = lipgloss.NewStyle().Foreground(warn)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

func renderWill(w io.Writer, out willOutput) {
	b := out.Estate
	lines := []string{
		titleStyle.Render("Estate of " + out.Testator),
		fmt.Sprintf("Assets %s  Debts %s  Net %s", b.TotalAssets, b.TotalDebts, b.NetEstate),
		fmt.Sprintf("Bequests %s (%s%%)  Distributable %s", b.Bequests, b.BequestPercent, b.Distributable),
		"",
	}
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
	renderReport(w, out.Distribution)
}

func renderReport(w io.Writer, r report.Report) {
	if r.NoHeirs {
		fmt.Fprintln(w, warnStyle.Render("No heirs qualify; the whole estate is unallocated."))
		return
	}

	header := []string{"Heir", "Type", "Fraction", "Share", "%", "Each", "Each %"}
	withAmounts := r.EstateValue != nil
	if withAmounts {
		header = append(header, "Amount", "Each amount")
	}

	rows := make([][]string, 0, len(r.Shares))
	for _, line := range r.Shares {
		label := line.Label
		if line.Count > 1 {
			label = fmt.Sprintf("%s (%d)", line.Label, line.Count)
		}
		row := []string{
			label,
			string(line.Kind),
			line.Fraction,
			line.Share,
			percent(line.Percentage),
			line.IndividualShare,
			percent(line.IndividualPercentage),
		}
		if withAmounts {
			row = append(row, line.Amount.StringFixed(2), line.IndividualAmount.StringFixed(2))
		}
		rows = append(rows, row)
	}

	fmt.Fprintln(w, renderTable(header, rows))

	summary := []string{
		mutedStyle.Render(fmt.Sprintf("Fixed shares %s (%s)", r.TotalFixedShare, percent(r.TotalFixedPercentage))),
	}
	if r.Awl {
		summary = append(summary, warnStyle.Render(fmt.Sprintf("Awl applied: fixed shares of %s reduced proportionally", r.NominalFixedShare)))
	}
	if r.ResiduaryTier != "" {
		summary = append(summary, mutedStyle.Render(fmt.Sprintf("Residue %s to %s", r.Residue, r.ResiduaryTier)))
	}
	if r.HasUnallocatedResidue {
		msg := fmt.Sprintf("Unallocated residue %s (%s)", r.Unallocated, percent(r.UnallocatedPercentage))
		if r.UnallocatedAmount != nil {
			msg += " = " + r.UnallocatedAmount.StringFixed(2)
		}
		summary = append(summary, warnStyle.Render(msg))
	}
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, summary...))
}

// renderTable left-aligns every column to its widest cell.
func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		rendered := make([]string, len(cells))
		for i, cell := range cells {
			rendered[i] = cellStyle.Width(widths[i] + 2).Render(style.Render(cell))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}

	lines := []string{renderRow(header, headerStyle)}
	rule := 0
	for _, w := range widths {
		rule += w + 2
	}
	lines = append(lines, mutedStyle.Render(strings.Repeat("─", rule)))
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
