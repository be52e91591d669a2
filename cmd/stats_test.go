package cmd

import (
	"strings"
	"testing"
)

func TestRunStats(t *testing.T) {
	d, stdout, _ := useDeps(t)
	bookJournal(t, d)
	addAction([]string{"Walk"})
	stdout.Reset()

	runStats(statsCmd)

	output := stdout.String()
	for _, want := range []string{
		"Statistics for all time",
		"Entries:         3 entries",
		"Images:          1",
		"Actions:         1 of 2 with entries",
		"Days Logged:     2 days",
		"Current Streak:  1 day",
		"By Action:",
		"Read a Book",
		"last 2024-01-15",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
	if strings.Contains(output, "Average/Day") {
		t.Errorf("expected no average for all time, got: %s", output)
	}
}

func TestRunStats_LastDays(t *testing.T) {
	d, stdout, _ := useDeps(t)
	bookJournal(t, d)
	stdout.Reset()
	setFlag(t, statsCmd, "last", "3")

	runStats(statsCmd)

	output := stdout.String()
	for _, want := range []string{
		"Statistics for the last 3 days",
		"Entries:         2 entries",
		"Days Logged:     1 day",
		"Average/Day:     0.7",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestRunStats_Empty(t *testing.T) {
	_, stdout, _ := useDeps(t)

	runStats(statsCmd)

	output := stdout.String()
	if !strings.Contains(output, "Entries:         0 entries") || !strings.Contains(output, "Current Streak:  0 days") {
		t.Errorf("unexpected output: %s", output)
	}
	if strings.Contains(output, "By Action:") {
		t.Errorf("expected no breakdown without entries, got: %s", output)
	}
}

func TestRunStats_NegativeLast(t *testing.T) {
	d, _, stderr := useDeps(t)
	exit := captureExit(d)
	setFlag(t, statsCmd, "last", "-1")

	runStats(statsCmd)

	if *exit != 1 {
		t.Errorf("expected exit code 1, got %d", *exit)
	}
	if !strings.Contains(stderr.String(), "--last must not be negative") {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}
}
