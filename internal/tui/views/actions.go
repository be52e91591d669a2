package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/lookback/internal/app"
	"github.com/xolan/lookback/internal/journal"
	"github.com/xolan/lookback/internal/store"
	"github.com/xolan/lookback/internal/timeline"
	"github.com/xolan/lookback/internal/tui/ui"
)

// actionsMode represents the current mode of the actions view
type actionsMode int

const (
	modeList actionsMode = iota
	modeDetail
	modeNewAction
	modeEditDescription
	modeNewEntry
)

// Entry form fields
const (
	fieldDescription = iota
	fieldDate
)

// ActionsModel is the model for the actions view: the action list and the
// detail of a single action
type ActionsModel struct {
	store  *store.Store
	loc    *time.Location
	now    func() time.Time
	styles ui.Styles
	keys   ui.KeyMap

	// UI state
	width   int
	height  int
	actions journal.Collection
	cursor  int
	mode    actionsMode
	status  string
	saveErr error

	// Detail state
	actionID     string
	selectedDate time.Time
	entryCursor  int

	// Selection to restore after the next load
	focusActionID string
	focusEntryID  string

	// Input state
	titleInput   textinput.Model
	descInput    textinput.Model
	entryInput   textinput.Model
	dateInput    textinput.Model
	focusedInput int
	formErr      string
}

// NewActionsModel creates a new actions view model
func NewActionsModel(a *app.App, styles ui.Styles, keys ui.KeyMap) ActionsModel {
	titleInput := textinput.New()
	titleInput.Placeholder = "Action title..."
	titleInput.CharLimit = 200
	titleInput.Width = 50

	descInput := textinput.New()
	descInput.Placeholder = "What is this action about?"
	descInput.CharLimit = 1000
	descInput.Width = 60

	entryInput := textinput.New()
	entryInput.Placeholder = "What happened?"
	entryInput.CharLimit = 1000
	entryInput.Width = 60

	dateInput := textinput.New()
	dateInput.Placeholder = "YYYY-MM-DD, today, yesterday..."
	dateInput.CharLimit = 40
	dateInput.Width = 30

	return ActionsModel{
		store:      a.Store,
		loc:        a.Location,
		now:        time.Now,
		styles:     styles,
		keys:       keys,
		titleInput: titleInput,
		descInput:  descInput,
		entryInput: entryInput,
		dateInput:  dateInput,
	}
}

// actionsLoadedMsg carries a fresh copy of the collection
type actionsLoadedMsg struct {
	actions journal.Collection
}

// mutationDoneMsg is sent after a store mutation completed
type mutationDoneMsg struct {
	mode     actionsMode
	actionID string
	entryID  string
	date     time.Time
	ok       bool
	saveErr  error
}

// Init implements tea.Model
func (m ActionsModel) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model
func (m ActionsModel) Update(msg tea.Msg) (ActionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeNewAction, modeEditDescription, modeNewEntry:
			return m.handleInputMode(msg)
		case modeDetail:
			return m.handleDetailMode(msg)
		}
		return m.handleListMode(msg)

	case actionsLoadedMsg:
		m.applyLoaded(msg.actions)
		return m, nil

	case mutationDoneMsg:
		return m.applyMutation(msg)

	case ui.JournalChangedMsg:
		return m, m.load()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	// Cursor blink and similar messages go to the focused input
	if m.IsInputMode() {
		return m.updateFocusedInput(msg)
	}
	return m, nil
}

func (m ActionsModel) handleListMode(msg tea.KeyMsg) (ActionsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.actions)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(m.actions) {
			m.openDetail(m.actions[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.New):
		m.mode = modeNewAction
		m.status = ""
		m.formErr = ""
		m.titleInput.SetValue("")
		return m, m.titleInput.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	}
	return m, nil
}

func (m ActionsModel) handleDetailMode(msg tea.KeyMsg) (ActionsModel, tea.Cmd) {
	action, ok := m.currentAction()
	if !ok {
		m.mode = modeList
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeList
		m.status = ""
	case key.Matches(msg, m.keys.Left):
		m.moveDate(action, -1)
	case key.Matches(msg, m.keys.Right):
		m.moveDate(action, 1)
	case key.Matches(msg, m.keys.Today):
		m.selectedDate = timeline.DayOf(m.now(), m.loc)
		m.entryCursor = 0
	case key.Matches(msg, m.keys.Up):
		if m.entryCursor > 0 {
			m.entryCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.entryCursor < len(timeline.EntriesForDate(action, m.selectedDate, m.loc))-1 {
			m.entryCursor++
		}
	case key.Matches(msg, m.keys.New):
		m.mode = modeNewEntry
		m.status = ""
		m.formErr = ""
		m.entryInput.SetValue("")
		m.dateInput.SetValue(m.selectedDate.Format("2006-01-02"))
		m.focusedInput = fieldDescription
		m.dateInput.Blur()
		return m, m.entryInput.Focus()
	case key.Matches(msg, m.keys.Edit):
		m.mode = modeEditDescription
		m.status = ""
		m.formErr = ""
		m.descInput.SetValue(action.Description)
		m.descInput.CursorEnd()
		return m, m.descInput.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	}
	return m, nil
}

// handleInputMode handles key events while one of the forms is open
func (m ActionsModel) handleInputMode(msg tea.KeyMsg) (ActionsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.closeForm(), nil

	case key.Matches(msg, m.keys.Select):
		return m.submitForm()

	case msg.String() == "tab" && m.mode == modeNewEntry:
		if m.focusedInput == fieldDescription {
			m.focusedInput = fieldDate
			m.entryInput.Blur()
			return m, m.dateInput.Focus()
		}
		m.focusedInput = fieldDescription
		m.dateInput.Blur()
		return m, m.entryInput.Focus()
	}

	return m.updateFocusedInput(msg)
}

func (m ActionsModel) updateFocusedInput(msg tea.Msg) (ActionsModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeNewAction:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case modeEditDescription:
		m.descInput, cmd = m.descInput.Update(msg)
	case modeNewEntry:
		if m.focusedInput == fieldDescription {
			m.entryInput, cmd = m.entryInput.Update(msg)
		} else {
			m.dateInput, cmd = m.dateInput.Update(msg)
		}
	}
	return m, cmd
}

func (m ActionsModel) submitForm() (ActionsModel, tea.Cmd) {
	switch m.mode {
	case modeNewAction:
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			return m, nil
		}
		m.titleInput.Blur()
		return m, m.addAction(title)

	case modeEditDescription:
		m.descInput.Blur()
		return m, m.updateDescription(m.actionID, strings.TrimSpace(m.descInput.Value()))

	case modeNewEntry:
		desc := strings.TrimSpace(m.entryInput.Value())
		if desc == "" {
			m.formErr = "Description is required"
			return m, nil
		}
		date, err := timeline.ParseEntryTime(m.dateInput.Value(), m.now(), m.loc)
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.entryInput.Blur()
		m.dateInput.Blur()
		return m, m.addEntry(m.actionID, desc, date)
	}
	return m, nil
}

// closeForm leaves the open form without saving
func (m ActionsModel) closeForm() ActionsModel {
	m.titleInput.Blur()
	m.descInput.Blur()
	m.entryInput.Blur()
	m.dateInput.Blur()
	m.formErr = ""
	if m.mode == modeNewAction {
		m.mode = modeList
	} else {
		m.mode = modeDetail
	}
	return m
}

func (m *ActionsModel) openDetail(actionID string) {
	m.mode = modeDetail
	m.actionID = actionID
	m.selectedDate = timeline.DayOf(m.now(), m.loc)
	m.entryCursor = 0
	m.status = ""
}

// stripDates returns the days with entries plus today and the selected day
func (m ActionsModel) stripDates(a journal.Action) []time.Time {
	dates := timeline.DatesWithEntries(a, m.loc)
	for _, extra := range []time.Time{timeline.DayOf(m.now(), m.loc), m.selectedDate} {
		if extra.IsZero() {
			continue
		}
		found := false
		for _, d := range dates {
			if timeline.SameDay(d, extra, m.loc) {
				found = true
				break
			}
		}
		if !found {
			dates = append(dates, extra)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func (m *ActionsModel) moveDate(a journal.Action, delta int) {
	dates := m.stripDates(a)
	i := indexOfDate(dates, m.selectedDate)
	next := i + delta
	if next < 0 || next >= len(dates) {
		return
	}
	m.selectedDate = dates[next]
	m.entryCursor = 0
}

func indexOfDate(dates []time.Time, day time.Time) int {
	for i, d := range dates {
		if d.Equal(day) {
			return i
		}
	}
	return -1
}

func (m ActionsModel) currentAction() (journal.Action, bool) {
	i := m.actions.FindAction(m.actionID)
	if i < 0 {
		return journal.Action{}, false
	}
	return m.actions[i], true
}

func (m *ActionsModel) applyLoaded(actions journal.Collection) {
	m.actions = actions

	if m.focusActionID != "" {
		if i := actions.FindAction(m.focusActionID); i >= 0 {
			m.cursor = i
		}
		m.focusActionID = ""
	}
	if m.cursor >= len(m.actions) {
		m.cursor = max(0, len(m.actions)-1)
	}

	if m.mode == modeList || m.mode == modeNewAction {
		return
	}
	action, ok := m.currentAction()
	if !ok {
		m.mode = modeList
		return
	}
	entries := timeline.EntriesForDate(action, m.selectedDate, m.loc)
	if m.focusEntryID != "" {
		for i, e := range entries {
			if e.ID == m.focusEntryID {
				m.entryCursor = i
			}
		}
		m.focusEntryID = ""
	}
	if m.entryCursor >= len(entries) {
		m.entryCursor = max(0, len(entries)-1)
	}
}

func (m ActionsModel) applyMutation(msg mutationDoneMsg) (ActionsModel, tea.Cmd) {
	m.formErr = ""
	m.saveErr = msg.saveErr
	if !msg.ok {
		m.mode = modeList
		m.status = "Action no longer exists"
		return m, m.load()
	}

	switch msg.mode {
	case modeNewAction:
		m.mode = modeList
		m.focusActionID = msg.actionID
		m.status = "Action added"
	case modeEditDescription:
		m.mode = modeDetail
		m.status = "Description updated"
	case modeNewEntry:
		m.mode = modeDetail
		m.selectedDate = timeline.DayOf(msg.date, m.loc)
		m.focusEntryID = msg.entryID
		m.status = "Entry added"
	}
	return m, m.load()
}

// View implements tea.Model
func (m ActionsModel) View() string {
	switch m.mode {
	case modeNewAction:
		return m.renderNewActionForm()
	case modeEditDescription:
		return m.renderDescriptionForm()
	case modeNewEntry:
		return m.renderEntryForm()
	case modeDetail:
		if action, ok := m.currentAction(); ok {
			return m.renderDetail(action)
		}
	}
	return m.renderList()
}

func (m ActionsModel) renderList() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Actions"))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	if len(m.actions) == 0 {
		b.WriteString(m.styles.StatLabel.Render("No actions yet"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Press 'n' to add an action"))
		return b.String()
	}

	b.WriteString(RenderActionList(m.actions, m.styles, m.cursor, m.width))
	b.WriteString(strings.Repeat("─", min(50, m.width)))
	b.WriteString("\n")
	entries := m.actions.EntryCount()
	b.WriteString(fmt.Sprintf("%d %s, %d %s",
		len(m.actions), pluralize("action", len(m.actions)),
		entries, pluralize("entry", entries)))

	return b.String()
}

func (m ActionsModel) renderDetail(action journal.Action) string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render(displayTitle(action.Title)))
	b.WriteString("\n")
	if action.Description != "" {
		b.WriteString(m.styles.Description.Render(action.Description))
	} else {
		b.WriteString(m.styles.StatLabel.Render("No description"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())

	dates := m.stripDates(action)
	b.WriteString(RenderDateStrip(dates, indexOfDate(dates, m.selectedDate), m.styles))
	b.WriteString("\n\n")

	b.WriteString(m.styles.StatLabel.Render(timeline.FormatDay(m.selectedDate)))
	b.WriteString("\n")
	entries := timeline.EntriesForDate(action, m.selectedDate, m.loc)
	if len(entries) == 0 {
		b.WriteString(m.styles.StatLabel.Render("No entries on this day"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Press 'n' to log one"))
		return b.String()
	}
	b.WriteString(RenderEntryList(entries, m.styles, m.loc, m.entryCursor, m.width))

	return b.String()
}

func (m ActionsModel) renderStatus() string {
	if m.saveErr != nil {
		return m.styles.Warning.Render(fmt.Sprintf("Not saved: %v", m.saveErr)) + "\n\n"
	}
	if m.status != "" {
		return m.styles.Success.Render(m.status) + "\n\n"
	}
	return ""
}

func (m ActionsModel) renderNewActionForm() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("New Action"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.StatLabel.Render("▸ Title:"))
	b.WriteString("\n")
	b.WriteString(m.titleInput.View())
	return b.String()
}

func (m ActionsModel) renderDescriptionForm() string {
	var b strings.Builder
	title := "Edit Description"
	if action, ok := m.currentAction(); ok {
		title += ": " + displayTitle(action.Title)
	}
	b.WriteString(m.styles.ViewTitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.styles.StatLabel.Render("▸ Description:"))
	b.WriteString("\n")
	b.WriteString(m.descInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.StatLabel.Render("Leave empty to clear"))
	return b.String()
}

func (m ActionsModel) renderEntryForm() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("New Entry"))
	b.WriteString("\n\n")

	descLabel := "Description:"
	dateLabel := "Date:"
	if m.focusedInput == fieldDescription {
		descLabel = "▸ " + descLabel
	} else {
		dateLabel = "▸ " + dateLabel
	}

	b.WriteString(m.styles.StatLabel.Render(descLabel))
	b.WriteString("\n")
	b.WriteString(m.entryInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.StatLabel.Render(dateLabel))
	b.WriteString("\n")
	b.WriteString(m.dateInput.View())

	if m.formErr != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render(m.formErr))
	}
	return b.String()
}

// SetSize sets the view dimensions
func (m *ActionsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true when the view is capturing keyboard input
func (m ActionsModel) IsInputMode() bool {
	switch m.mode {
	case modeNewAction, modeEditDescription, modeNewEntry:
		return true
	}
	return false
}

// InDetail reports whether a single action is open
func (m ActionsModel) InDetail() bool {
	return m.mode == modeDetail
}

// load creates a command that reads the collection
func (m ActionsModel) load() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return actionsLoadedMsg{actions: st.Actions()}
	}
}

func (m ActionsModel) addAction(title string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		a := st.AddAction(title)
		return mutationDoneMsg{mode: modeNewAction, actionID: a.ID, ok: true, saveErr: st.SaveErr()}
	}
}

func (m ActionsModel) updateDescription(actionID, description string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ok := st.UpdateActionDescription(actionID, description)
		return mutationDoneMsg{mode: modeEditDescription, actionID: actionID, ok: ok, saveErr: st.SaveErr()}
	}
}

func (m ActionsModel) addEntry(actionID, description string, date time.Time) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		e, ok := st.AddEntry(actionID, description, date, nil)
		return mutationDoneMsg{
			mode:     modeNewEntry,
			actionID: actionID,
			entryID:  e.ID,
			date:     e.Timestamp,
			ok:       ok,
			saveErr:  st.SaveErr(),
		}
	}
}
