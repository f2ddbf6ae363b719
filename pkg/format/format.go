// Package format holds the display formatting rules shared by documents,
// exports and email bodies. Everything here is pure.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency renders a monetary amount as a fixed two-decimal US dollar
// string with thousands separators, e.g. 1234.5 -> "$1,234.50".
func Currency(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	grouped := groupThousands(parts[0])

	out := "$" + grouped + "." + parts[1]
	if negative {
		out = "-" + out
	}
	return out
}

// Date renders a date as numeric month/day/year, e.g. 3/7/2025.
func Date(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	local := value.Local()
	return fmt.Sprintf("%d/%d/%d", int(local.Month()), local.Day(), local.Year())
}

// Year extracts the local wall-clock year of a date.
func Year(value time.Time) int {
	return value.Local().Year()
}

// ParseDateInput accepts M/D/YYYY (with or without zero padding) and
// RFC3339 timestamps. Unparseable input falls back to now, matching the
// forgiving behavior of the edit screens.
func ParseDateInput(value string, now time.Time) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return now
	}

	if parts := strings.Split(trimmed, "/"); len(parts) == 3 {
		month, errM := strconv.Atoi(parts[0])
		day, errD := strconv.Atoi(parts[1])
		year, errY := strconv.Atoi(parts[2])
		if errM == nil && errD == nil && errY == nil &&
			month >= 1 && month <= 12 && day >= 1 && day <= 31 && year >= 1900 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		}
	}

	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02", trimmed); err == nil {
		return parsed
	}

	return now
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
