// ABOUTME: Parsing and formatting helpers shared by the CLI commands.
// ABOUTME: Covers date input, column padding, and truncation.
package main

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// truncate and padRight measure display columns so accented names stay
// valid UTF-8 and line up in tables.
func truncate(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}

func padRight(s string, length int) string {
	return runewidth.FillRight(s, length)
}
