package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	backtest "github.com/steadyvest/steadyvest/internal/backtest/engine"
)

// Style definitions.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Faint(true).Width(18)
	gainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	columnStyle = lipgloss.NewStyle().Width(22)
)

// renderResults lays the run reports out side by side, one column per
// strategy, so the baseline comparison reads at a glance.
func renderResults(results []backtest.RunResult) string {
	var b strings.Builder

	header := labelStyle.Render("")
	for _, result := range results {
		header += columnStyle.Render(titleStyle.Render(result.Report.Strategy))
	}

	b.WriteString(header + "\n")

	rows := []struct {
		label  string
		format func(result backtest.RunResult) string
	}{
		{"Final value", func(r backtest.RunResult) string { return fmt.Sprintf("$%.2f", r.Report.FinalValue) }},
		{"Total invested", func(r backtest.RunResult) string { return fmt.Sprintf("$%.2f", r.Report.TotalInvested) }},
		{"Net profit", func(r backtest.RunResult) string { return signColored(r.Report.NetProfit, fmt.Sprintf("$%.2f", r.Report.NetProfit)) }},
		{"Total return", func(r backtest.RunResult) string {
			return signColored(r.Report.TotalReturnPct, fmt.Sprintf("%.2f%%", r.Report.TotalReturnPct))
		}},
		{"Annual return", func(r backtest.RunResult) string {
			return signColored(r.Report.AnnualReturnPct, fmt.Sprintf("%.2f%%", r.Report.AnnualReturnPct))
		}},
		{"Max drawdown", func(r backtest.RunResult) string { return fmt.Sprintf("%.2f%%", r.Report.MaxDrawdownPct) }},
		{"Sharpe ratio", func(r backtest.RunResult) string { return fmt.Sprintf("%.2f", r.Report.SharpeRatio) }},
		{"Trades", func(r backtest.RunResult) string {
			return fmt.Sprintf("%d buys / %d sells", r.Report.BuyTrades, r.Report.SellTrades)
		}},
		{"Win rate", func(r backtest.RunResult) string { return fmt.Sprintf("%.1f%%", r.Report.WinRatePct) }},
		{"Fees paid", func(r backtest.RunResult) string { return fmt.Sprintf("$%.2f", r.Report.TotalFees) }},
	}

	for _, row := range rows {
		line := labelStyle.Render(row.label)
		for _, result := range results {
			line += columnStyle.Render(row.format(result))
		}

		b.WriteString(line + "\n")
	}

	if len(results) > 0 {
		b.WriteString(labelStyle.Render("Data source") + columnStyle.Render(string(results[0].Report.DataSource)) + "\n")
	}

	return b.String()
}

func signColored(value float64, text string) string {
	if value > 0 {
		return gainStyle.Render(text)
	}

	if value < 0 {
		return lossStyle.Render(text)
	}

	return text
}
