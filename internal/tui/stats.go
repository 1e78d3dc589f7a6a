package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusflow/internal/pomodoro"
)

const statsDays = 7

type statsModel struct {
	sessions *pomodoro.SessionLog
	now      func() time.Time
	width    int
	height   int

	days      []pomodoro.DayCount
	completed int
	minutes   int
	streak    int
	count     int // sessions seen by the last refresh

	chart barchart.Model
}

func newStatsModel(sessions *pomodoro.SessionLog, now func() time.Time) statsModel {
	return statsModel{
		sessions: sessions,
		now:      now,
		chart:    barchart.New(60, 12),
	}
}

func (r *statsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

// refresh recomputes everything from the session log. It runs on the UI
// loop because the log is not safe for concurrent use.
func (r statsModel) refresh() statsModel {
	now := r.now()
	r.days = r.sessions.LastDays(now, statsDays)
	r.completed, r.minutes = r.sessions.Totals()
	r.streak = pomodoro.Streak(r.sessions.All(), now)
	r.count = r.sessions.Len()
	r.buildChart()
	return r
}

// stale reports whether sessions were logged since the last refresh.
func (r statsModel) stale() bool {
	return r.sessions.Len() != r.count
}

func (r *statsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	completedStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	voidedStyle := lipgloss.NewStyle().Foreground(colorAccent)

	var bars []barchart.BarData
	for _, d := range r.days {
		values := []barchart.BarValue{
			{Name: "Completed", Value: float64(d.Completed), Style: completedStyle},
			{Name: "Voided", Value: float64(d.Voided), Style: voidedStyle},
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Date.Format("Mon 02"),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r statsModel) view() string {
	w := r.width - 4

	header := titleStyle.Render("Stats")
	if len(r.days) > 0 {
		from, to := r.days[0].Date, r.days[len(r.days)-1].Date
		header = lipgloss.JoinHorizontal(lipgloss.Bottom,
			header, "  ", mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.Format("Jan 02, 2006"))),
		)
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.renderTotals(), "", r.chart.View(), "", r.renderLegend(), "", r.renderDayTable(w),
		),
	)
}

func (r statsModel) renderTotals() string {
	days := "days"
	if r.streak == 1 {
		days = "day"
	}
	return fmt.Sprintf("  %s %s    %s %s    %s %s",
		mutedStyle.Render("Pomodoros"), highlightStyle.Render(fmt.Sprint(r.completed)),
		mutedStyle.Render("Focus time"), highlightStyle.Render(formatMinutes(r.minutes)),
		mutedStyle.Render("Streak"), successStyle.Render(fmt.Sprintf("%d %s", r.streak, days)),
	)
}

func (r statsModel) renderLegend() string {
	completed := lipgloss.NewStyle().Foreground(colorSuccess).Render("●")
	voided := lipgloss.NewStyle().Foreground(colorAccent).Render("●")
	return fmt.Sprintf("  %s completed  %s voided", completed, voided)
}

func (r statsModel) renderDayTable(w int) string {
	total := 0
	for _, d := range r.days {
		total += d.Completed + d.Voided
	}
	if total == 0 {
		return mutedStyle.Render("  No sessions in the last 7 days")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %8s", "Date", "Completed", "Voided")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(min(w-6, 32), 0))))
	for _, d := range r.days {
		if d.Completed+d.Voided == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf("  %-12s %10d %8d", d.Date.Format(pomodoro.DateLayout), d.Completed, d.Voided))
	}
	return strings.Join(rows, "\n")
}
