package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/xolan/lookback/internal/journal"
	"github.com/xolan/lookback/internal/tui/ui"
)

// untitled is shown in place of an empty action title
const untitled = "(untitled)"

// dateStripWindow is the number of dates shown at once in the date strip
const dateStripWindow = 7

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return untitled
	}
	return title
}

func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	if n := len(word); n > 1 && word[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(word[n-2])) {
		return word[:n-1] + "ies"
	}
	return word + "s"
}

// truncate shortens s to at most width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// RenderActionList renders actions with their entry counts, one per line
func RenderActionList(actions journal.Collection, styles ui.Styles, cursor, width int) string {
	if len(actions) == 0 {
		return ""
	}

	indexWidth := len(fmt.Sprintf("%d.", len(actions)))
	titleWidth := max(20, width-indexWidth-16)

	var b strings.Builder
	for i, a := range actions {
		style := styles.ItemNormal
		if i == cursor {
			style = styles.ItemSelected
		}

		index := styles.ItemIndex.Render(fmt.Sprintf("%*s", indexWidth, fmt.Sprintf("%d.", i+1)))
		title := fmt.Sprintf("%-*s", titleWidth, truncate(displayTitle(a.Title), titleWidth))
		count := styles.EntryCount.Render(fmt.Sprintf("%d %s", len(a.Entries), pluralize("entry", len(a.Entries))))

		b.WriteString(style.Render(fmt.Sprintf("%s %s %s", index, title, count)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderEntryList renders the entries of a single day with their time of day
func RenderEntryList(entries []journal.Entry, styles ui.Styles, loc *time.Location, cursor, width int) string {
	if len(entries) == 0 {
		return ""
	}

	descWidth := max(20, width-16)

	var b strings.Builder
	for i, e := range entries {
		style := styles.ItemNormal
		if i == cursor {
			style = styles.ItemSelected
		}

		line := fmt.Sprintf("%s %s",
			styles.EntryTime.Render(e.Timestamp.In(loc).Format("15:04")),
			truncate(e.Description, descWidth))
		if e.HasImage() {
			line += " " + styles.ImageBadge.Render("[image]")
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDateStrip renders a window of dates around the selected one.
// selected is an index into dates; -1 means no date is selected.
func RenderDateStrip(dates []time.Time, selected int, styles ui.Styles) string {
	if len(dates) == 0 {
		return ""
	}

	start := 0
	if selected >= 0 {
		start = max(0, selected-dateStripWindow/2)
	}
	end := min(len(dates), start+dateStripWindow)
	start = max(0, end-dateStripWindow)

	var parts []string
	if start > 0 {
		parts = append(parts, styles.DateNormal.Render("‹"))
	}
	for i := start; i < end; i++ {
		label := dates[i].Format("Jan 02")
		if i == selected {
			parts = append(parts, styles.DateSelected.Render(label))
		} else {
			parts = append(parts, styles.DateNormal.Render(label))
		}
	}
	if end < len(dates) {
		parts = append(parts, styles.DateNormal.Render("›"))
	}
	return strings.Join(parts, " ")
}
