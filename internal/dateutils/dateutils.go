// Package dateutils converts between OFX compact dates and display dates.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts
const (
	LayoutCompact = "20060102"
	LayoutDisplay = "02/01/2006"
	LayoutISO     = "2006-01-02"
)

// FormatCompactDate turns YYYYMMDD[HHMMSS[.XXX][TZ]] into DD/MM/YYYY by
// position. Values shorter than eight characters are returned unchanged.
func FormatCompactDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(LayoutCompact) {
		return raw
	}
	return raw[6:8] + "/" + raw[4:6] + "/" + raw[0:4]
}

// ParseCompactDate parses the leading YYYYMMDD of an OFX date.
func ParseCompactDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(LayoutCompact) {
		return time.Time{}, fmt.Errorf("date too short: %q", raw)
	}
	t, err := time.Parse(LayoutCompact, raw[:len(LayoutCompact)])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid compact date %q: %w", raw, err)
	}
	return t, nil
}

// ParseDisplayDate parses a DD/MM/YYYY date.
func ParseDisplayDate(s string) (time.Time, error) {
	t, err := time.Parse(LayoutDisplay, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid display date %q: %w", s, err)
	}
	return t, nil
}

// FormatDisplayDate formats t as DD/MM/YYYY.
func FormatDisplayDate(t time.Time) string {
	return t.Format(LayoutDisplay)
}

// ToISODate formats t as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(LayoutISO)
}
