package cmd

import (
	"strings"
	"time"
)

// shortIDLen is how many id characters lists show. Any unique prefix is
// accepted back as a reference.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// pluralize returns the singular or plural form of word for count.
// Only the regular "-y" and "-s" endings the CLI needs are handled.
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	if n := len(word); n > 1 && word[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(word[n-2])) {
		return word[:n-1] + "ies"
	}
	return word + "s"
}

func displayTitle(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return title
}

func formatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04")
}
