// Package tui provides the Terminal User Interface for the lookback application.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/lookback/internal/app"
	"github.com/xolan/lookback/internal/config"
	"github.com/xolan/lookback/internal/store"
	"github.com/xolan/lookback/internal/tui/ui"
	"github.com/xolan/lookback/internal/tui/views"
	"go.uber.org/zap"
)

// Tab represents a view tab
type Tab int

const (
	TabActions Tab = iota
	TabStats
	TabConfig
)

var tabNames = []string{"Actions", "Stats", "Config"}

// Model is the root TUI model
type Model struct {
	app *app.App

	// UI state
	activeTab Tab
	width     int
	height    int
	showHelp  bool

	// View models
	actionsView views.ActionsModel
	statsView   views.StatsModel
	configView  views.ConfigModel

	// Theme and styles
	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates a new TUI model
func New(a *app.App) Model {
	themeProvider := ui.NewThemeProvider(a.Config.Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	return Model{
		app:           a,
		activeTab:     TabActions,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		actionsView:   views.NewActionsModel(a, styles, keys),
		statsView:     views.NewStatsModel(a, styles, keys),
		configView:    views.NewConfigModel(a, themeProvider, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.actionsView.Init()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While a form is open every key goes to it
		inputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit) && !inputMode:
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help) && !inputMode:
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.NextTab) && !inputMode:
			m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.PrevTab) && !inputMode:
			m.activeTab = Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames))
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab1) && !inputMode:
			m.activeTab = TabActions
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab2) && !inputMode:
			m.activeTab = TabStats
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab3) && !inputMode:
			m.activeTab = TabConfig
			return m, m.initCurrentView()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := m.height - 4 // Account for tabs and status bar
		m.actionsView.SetSize(m.width, contentHeight)
		m.statsView.SetSize(m.width, contentHeight)
		m.configView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.JournalChangedMsg:
		// Every view keeps its own copy of the journal, so all of them reload
		var actionsCmd, statsCmd, configCmd tea.Cmd
		m.actionsView, actionsCmd = m.actionsView.Update(msg)
		m.statsView, statsCmd = m.statsView.Update(msg)
		m.configView, configCmd = m.configView.Update(msg)
		return m, tea.Batch(actionsCmd, statsCmd, configCmd)

	case ui.ThemeChangeRequestMsg:
		m.themeProvider.SetTheme(msg.ThemeName)
		newTheme := m.themeProvider.CurrentName()
		m.styles = m.themeProvider.Styles()

		themeMsg := ui.ThemeChangedMsg{
			ThemeName: newTheme,
			Styles:    m.styles,
		}
		m.actionsView, _ = m.actionsView.Update(themeMsg)
		m.statsView, _ = m.statsView.Update(themeMsg)
		m.configView, _ = m.configView.Update(themeMsg)

		m.app.Config.Theme = newTheme
		return m, m.saveThemeConfig(newTheme)
	}

	// Update the active view
	switch m.activeTab {
	case TabActions:
		m.actionsView, cmd = m.actionsView.Update(msg)
	case TabStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case TabConfig:
		m.configView, cmd = m.configView.Update(msg)
	}

	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabActions:
		b.WriteString(m.actionsView.View())
	case TabStats:
		b.WriteString(m.statsView.View())
	case TabConfig:
		b.WriteString(m.configView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	return m.styles.App.Render(b.String())
}

// renderTabs renders the tab bar
func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar renders the status bar at the bottom
func (m Model) renderStatusBar() string {
	var parts []string

	if m.activeTab == TabConfig && m.configView.IsPicking() {
		parts = append(parts, m.renderKeyHelp("↑/↓", "choose"))
		parts = append(parts, m.renderKeyHelp("Enter", "apply"))
		parts = append(parts, m.renderKeyHelp("Esc", "cancel"))
	} else if m.isInputMode() {
		parts = append(parts, m.renderKeyHelp("Tab", "switch field"))
		parts = append(parts, m.renderKeyHelp("Enter", "save"))
		parts = append(parts, m.renderKeyHelp("Esc", "cancel"))
	} else {
		switch m.activeTab {
		case TabActions:
			if m.actionsView.InDetail() {
				parts = append(parts, m.renderKeyHelp("←/→", "date"))
				parts = append(parts, m.renderKeyHelp("t", "today"))
				parts = append(parts, m.renderKeyHelp("n", "log entry"))
				parts = append(parts, m.renderKeyHelp("e", "describe"))
				parts = append(parts, m.renderKeyHelp("esc", "back"))
			} else {
				parts = append(parts, m.renderKeyHelp("enter", "open"))
				parts = append(parts, m.renderKeyHelp("n", "new action"))
			}
		case TabStats:
			parts = append(parts, m.renderKeyHelp("w/m/a", "period"))
		case TabConfig:
			parts = append(parts, m.renderKeyHelp("t", "themes"))
			parts = append(parts, m.renderKeyHelp("r", "recheck"))
		}

		parts = append(parts, m.renderKeyHelp("1-3", "views"))
		parts = append(parts, m.renderKeyHelp("?", "help"))
		parts = append(parts, m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")

	padding := m.width - lipgloss.Width(content)
	if padding > 0 {
		content += strings.Repeat(" ", padding)
	}

	return m.styles.StatusBar.Render(content)
}

// renderKeyHelp renders a single key help item
func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s",
		m.styles.StatusKey.Render(key),
		m.styles.StatusHelp.Render(desc))
}

// isInputMode checks if the current view has a form or picker open
func (m Model) isInputMode() bool {
	switch m.activeTab {
	case TabActions:
		return m.actionsView.IsInputMode()
	case TabConfig:
		return m.configView.IsPicking()
	}
	return false
}

// initCurrentView initializes the current view when switching tabs
func (m Model) initCurrentView() tea.Cmd {
	switch m.activeTab {
	case TabActions:
		return m.actionsView.Init()
	case TabStats:
		return m.statsView.Init()
	case TabConfig:
		return m.configView.Init()
	}
	return nil
}

// saveThemeConfig writes the theme to the config file. The file is re-read
// so command-line overrides held in memory are not persisted.
func (m Model) saveThemeConfig(themeName string) tea.Cmd {
	path, logger := m.app.ConfigPath, m.app.Logger
	return func() tea.Msg {
		cfg, err := config.LoadOrDefault(path)
		if err == nil {
			cfg.Theme = themeName
			err = config.Save(path, cfg)
		}
		if err != nil {
			logger.Warn("could not save theme", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
}

// GetThemeProvider returns the theme provider for use by views
func (m Model) GetThemeProvider() *ui.ThemeProvider {
	return m.themeProvider
}

// renderHelpOverlay renders the keyboard shortcuts for the active view
func (m Model) renderHelpOverlay() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")

	help.WriteString(m.styles.StatLabel.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  Tab/1-3    Switch views\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit\n")
	help.WriteString("\n")

	switch m.activeTab {
	case TabActions:
		help.WriteString(m.styles.StatLabel.Render("Actions:"))
		help.WriteString("\n")
		help.WriteString("  j/k        Navigate up/down\n")
		help.WriteString("  Enter      Open action\n")
		help.WriteString("  n          New action / log entry\n")
		help.WriteString("  h/l        Previous/next date\n")
		help.WriteString("  t          Jump to today\n")
		help.WriteString("  e          Edit description\n")
		help.WriteString("  Esc        Back to list\n")
		help.WriteString("  r          Refresh\n")
	case TabStats:
		help.WriteString(m.styles.StatLabel.Render("Stats:"))
		help.WriteString("\n")
		help.WriteString("  w          Last 7 days\n")
		help.WriteString("  m          Last 30 days\n")
		help.WriteString("  a          All time\n")
		help.WriteString("  r          Refresh\n")
	case TabConfig:
		help.WriteString(m.styles.StatLabel.Render("Config:"))
		help.WriteString("\n")
		help.WriteString("  t/Enter    Pick a theme\n")
		help.WriteString("  j/k        Move in the picker\n")
		help.WriteString("  Enter      Apply theme\n")
		help.WriteString("  Esc        Close the picker\n")
		help.WriteString("  r          Recheck the journal file\n")
	}

	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Render("Press ? to close"))

	return m.styles.App.Render(m.styles.Dialog.Render(help.String()))
}

// Run starts the TUI application. Store events are forwarded to the
// program so every view re-renders after a change, whichever goroutine
// made it.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())

	unsubscribe := a.Store.Subscribe(func(ev store.Event) {
		p.Send(ui.JournalChangedMsg{Event: ev})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
