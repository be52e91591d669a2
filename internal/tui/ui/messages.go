package ui

import "github.com/xolan/lookback/internal/store"

// ThemeChangeRequestMsg is sent when a theme change is requested.
type ThemeChangeRequestMsg struct {
	ThemeName string
}

// ThemeChangedMsg is broadcast to all views when the theme changes.
type ThemeChangedMsg struct {
	ThemeName string
	Styles    Styles
}

// JournalChangedMsg is broadcast to all views after the store changed.
type JournalChangedMsg struct {
	Event store.Event
}
