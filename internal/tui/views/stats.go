package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/lookback/internal/app"
	"github.com/xolan/lookback/internal/stats"
	"github.com/xolan/lookback/internal/store"
	"github.com/xolan/lookback/internal/tui/ui"
)

// statsPeriod selects the range the stats view aggregates over
type statsPeriod int

const (
	periodLast7Days statsPeriod = iota
	periodLast30Days
	periodAllTime
)

func (p statsPeriod) title() string {
	switch p {
	case periodLast7Days:
		return "Last 7 Days"
	case periodLast30Days:
		return "Last 30 Days"
	default:
		return "All Time"
	}
}

// StatsModel is the model for the stats view
type StatsModel struct {
	store  *store.Store
	loc    *time.Location
	now    func() time.Time
	styles ui.Styles
	keys   ui.KeyMap

	// UI state
	width  int
	height int
	period statsPeriod
	result *statsResult
}

// NewStatsModel creates a new stats view model
func NewStatsModel(a *app.App, styles ui.Styles, keys ui.KeyMap) StatsModel {
	return StatsModel{
		store:  a.Store,
		loc:    a.Location,
		now:    time.Now,
		styles: styles,
		keys:   keys,
		period: periodLast7Days,
	}
}

type statsResult struct {
	summary   stats.Statistics
	breakdown []stats.ActionBreakdown
	streak    int
	actions   int
}

// statsLoadedMsg is sent when stats are computed
type statsLoadedMsg struct {
	period statsPeriod
	result *statsResult
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return m.loadStats()
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (StatsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Last7Days):
			m.period = periodLast7Days
			return m, m.loadStats()
		case key.Matches(msg, m.keys.Last30Days):
			m.period = periodLast30Days
			return m, m.loadStats()
		case key.Matches(msg, m.keys.AllTime):
			m.period = periodAllTime
			return m, m.loadStats()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadStats()
		}

	case statsLoadedMsg:
		// Drop results for a period that is no longer selected
		if msg.period == m.period {
			m.result = msg.result
		}

	case ui.JournalChangedMsg:
		return m, m.loadStats()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m StatsModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render(m.period.title()))
	b.WriteString("\n\n")

	if m.result == nil {
		b.WriteString("Loading...")
		return b.String()
	}

	s := m.result.summary
	b.WriteString(m.renderStatLine("Entries:", fmt.Sprintf("%d", s.EntryCount)))
	b.WriteString(m.renderStatLine("With images:", fmt.Sprintf("%d", s.ImageCount)))
	b.WriteString(m.renderStatLine("Active actions:", fmt.Sprintf("%d of %d", s.ActiveActions, m.result.actions)))
	b.WriteString(m.renderStatLine("Days with entries:", fmt.Sprintf("%d %s", s.DaysWithEntries, pluralize("day", s.DaysWithEntries))))
	if m.period != periodAllTime {
		b.WriteString(m.renderStatLine("Average per day:", fmt.Sprintf("%.1f", s.AverageEntriesPerDay)))
	}
	b.WriteString(m.renderStatLine("Current streak:", fmt.Sprintf("%d %s", m.result.streak, pluralize("day", m.result.streak))))

	if len(m.result.breakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.ViewTitle.Render("By Action"))
		b.WriteString("\n")
		for _, ab := range m.result.breakdown {
			line := fmt.Sprintf("  %-24s %4d %-7s last %s",
				truncate(displayTitle(ab.Title), 24),
				ab.EntryCount,
				pluralize("entry", ab.EntryCount),
				ab.LastEntry.In(m.loc).Format("Jan 02"))
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// SetSize sets the view dimensions
func (m *StatsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// loadStats creates a command to compute stats for the current period
func (m StatsModel) loadStats() tea.Cmd {
	st, loc, now, period := m.store, m.loc, m.now(), m.period
	return func() tea.Msg {
		actions := st.Actions()

		var start, end time.Time
		switch period {
		case periodLast7Days:
			start, end = stats.LastNDays(now, 7, loc)
		case periodLast30Days:
			start, end = stats.LastNDays(now, 30, loc)
		}

		return statsLoadedMsg{
			period: period,
			result: &statsResult{
				summary:   stats.CalculateStatistics(actions, start, end, loc),
				breakdown: stats.CalculateActionBreakdown(actions, start, end),
				streak:    stats.CurrentStreak(actions, now, loc),
				actions:   len(actions),
			},
		}
	}
}

func (m StatsModel) renderStatLine(label, value string) string {
	return m.styles.StatLabel.Render(label) + " " + m.styles.StatValue.Render(value) + "\n"
}
