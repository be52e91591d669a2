package views

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/lookback/internal/app"
	"github.com/xolan/lookback/internal/storage"
	"github.com/xolan/lookback/internal/tui/ui"
)

// pickerRows is how many theme names the picker shows at once
const pickerRows = 8

// ConfigModel shows the state of the journal file on disk, the effective
// settings and a theme picker.
type ConfigModel struct {
	app    *app.App
	themes *ui.ThemeProvider
	styles ui.Styles
	keys   ui.KeyMap

	width  int
	height int

	report *journalReport

	picking    bool
	themeNames []string
	pick       int
}

// journalReport is what the view knows about the journal file. It is
// gathered off the event loop.
type journalReport struct {
	health      storage.Health
	healthErr   error
	saveErr     error
	configFound bool
}

type journalReportMsg struct {
	report journalReport
}

// NewConfigModel creates the config view
func NewConfigModel(a *app.App, themes *ui.ThemeProvider, styles ui.Styles, keys ui.KeyMap) ConfigModel {
	return ConfigModel{
		app:        a,
		themes:     themes,
		styles:     styles,
		keys:       keys,
		themeNames: themes.AvailableThemes(),
	}
}

// Init implements tea.Model
func (m ConfigModel) Init() tea.Cmd {
	return m.loadReport()
}

// loadReport inspects the journal file and the last save without touching
// either.
func (m ConfigModel) loadReport() tea.Cmd {
	path, configPath, st := m.app.StoragePath(), m.app.ConfigPath, m.app.Store
	return func() tea.Msg {
		var r journalReport
		r.health, r.healthErr = storage.ValidateStorage(path, storage.MaxBackupCount)
		r.saveErr = st.SaveErr()
		_, err := os.Stat(configPath)
		r.configFound = err == nil
		return journalReportMsg{report: r}
	}
}

// Update implements tea.Model
func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Today):
			m.picking = true
			m.pick = m.currentThemeIndex()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadReport()
		}

	case journalReportMsg:
		r := msg.report
		m.report = &r

	case ui.JournalChangedMsg:
		return m, m.loadReport()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
	}

	return m, nil
}

func (m ConfigModel) updatePicker(msg tea.KeyMsg) (ConfigModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.pick = max(m.pick-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.pick = min(m.pick+1, len(m.themeNames)-1)
	case key.Matches(msg, m.keys.Back):
		m.picking = false
	case key.Matches(msg, m.keys.Select):
		m.picking = false
		if m.pick < 0 || m.pick >= len(m.themeNames) {
			return m, nil
		}
		name := m.themeNames[m.pick]
		return m, func() tea.Msg { return ui.ThemeChangeRequestMsg{ThemeName: name} }
	}
	return m, nil
}

func (m ConfigModel) currentThemeIndex() int {
	current := m.themes.CurrentName()
	for i, name := range m.themeNames {
		if name == current {
			return i
		}
	}
	return 0
}

// IsPicking reports whether the theme picker is open
func (m ConfigModel) IsPicking() bool {
	return m.picking
}

// SetSize sets the view dimensions
func (m *ConfigModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View implements tea.Model
func (m ConfigModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Journal"))
	b.WriteString("\n\n")
	if m.report == nil {
		b.WriteString("Loading...")
		return b.String()
	}
	b.WriteString(m.renderJournal(*m.report))

	b.WriteString("\n")
	b.WriteString(m.styles.ViewTitle.Render("Settings"))
	b.WriteString("\n\n")
	b.WriteString(m.renderSettings(*m.report))

	return b.String()
}

func (m ConfigModel) renderJournal(r journalReport) string {
	var b strings.Builder
	path := m.app.StoragePath()
	h := r.health

	b.WriteString(m.line("file", path))
	switch {
	case r.healthErr != nil:
		b.WriteString(m.styledLine("status", m.styles.Error.Render("unreadable: "+r.healthErr.Error())))
	case !h.Exists:
		b.WriteString(m.styledLine("status", m.styles.Warning.Render("not created yet")))
	case h.Healthy():
		b.WriteString(m.styledLine("status", m.styles.Success.Render("healthy")))
	default:
		b.WriteString(m.styledLine("status", m.styles.Error.Render("unusable: "+h.Problem)))
	}

	if h.Exists {
		b.WriteString(m.line("size", fmt.Sprintf("%d bytes", h.Size)))
	}
	if h.Parsed {
		b.WriteString(m.line("contents", fmt.Sprintf("%d %s, %d %s, %d %s",
			h.Actions, pluralize("action", h.Actions),
			h.Entries, pluralize("entry", h.Entries),
			h.Images, pluralize("image", h.Images))))
	}
	b.WriteString(m.line("backups", fmt.Sprintf("%d", len(h.Backups))))

	if r.saveErr != nil {
		b.WriteString(m.styledLine("last save", m.styles.Error.Render("failed: "+r.saveErr.Error())))
	} else {
		b.WriteString(m.styledLine("last save", m.styles.Success.Render("ok")))
	}

	for _, q := range h.Quarantined {
		b.WriteString(m.styledLine("quarantined", m.styles.Warning.Render(q)))
	}
	if h.TempLeft {
		b.WriteString(m.styledLine("leftover", m.styles.Warning.Render(path+storage.TempSuffix)))
	}
	if len(h.Quarantined) > 0 {
		b.WriteString(m.styles.Description.Render("Quarantined files hold data that could not be loaded; inspect or remove them by hand."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ConfigModel) renderSettings(r journalReport) string {
	var b strings.Builder
	cfg := m.app.Config

	source := "defaults (no config file)"
	if r.configFound {
		source = m.app.ConfigPath
	}
	b.WriteString(m.line("loaded from", source))
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	b.WriteString(m.line("data_dir", dataDir))
	b.WriteString(m.line("timezone", cfg.Timezone))
	b.WriteString(m.line("backup_count", fmt.Sprintf("%d", cfg.BackupCount)))
	b.WriteString(m.line("seed_samples", fmt.Sprintf("%t", cfg.SeedSamples)))
	b.WriteString(m.line("log", cfg.LogLevel+", "+cfg.LogFormat))

	if m.picking {
		b.WriteString(m.renderPicker())
		return b.String()
	}
	b.WriteString(m.line("theme", fmt.Sprintf("%s (%s)", m.themes.CurrentName(), m.themes.CurrentDisplayName())))
	b.WriteString("\n")
	b.WriteString(m.styles.Description.Render("t or enter: pick a theme   r: recheck the journal file"))
	return b.String()
}

// renderPicker shows a window of theme names around the cursor
func (m ConfigModel) renderPicker() string {
	var b strings.Builder
	b.WriteString(m.styledLine("theme", m.styles.StatValue.Render("pick one")))

	start := 0
	if len(m.themeNames) > pickerRows {
		start = min(max(m.pick-pickerRows/2, 0), len(m.themeNames)-pickerRows)
	}
	end := min(start+pickerRows, len(m.themeNames))
	current := m.themes.CurrentName()

	if start > 0 {
		b.WriteString(m.styles.Description.Render("  ↑"))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		name := m.themeNames[i]
		if name == current {
			name += " •"
		}
		if i == m.pick {
			b.WriteString(m.styles.ItemSelected.Render("▸ " + name))
		} else {
			b.WriteString(m.styles.ItemNormal.Render("  " + name))
		}
		b.WriteString("\n")
	}
	if end < len(m.themeNames) {
		b.WriteString(m.styles.Description.Render("  ↓"))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Description.Render("enter apply   esc cancel"))
	return b.String()
}

func (m ConfigModel) line(label, value string) string {
	return m.styledLine(label, m.styles.StatValue.Render(value))
}

func (m ConfigModel) styledLine(label, styled string) string {
	return m.styles.StatLabel.Render(label+":") + " " + styled + "\n"
}
