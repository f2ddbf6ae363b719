// Package numbering derives per-client sequential invoice numbers.
// Numbers are scoped to one client, never global: two clients can both
// hold invoice "0001".
package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// Format zero-pads a sequence value to four digits. Values at or above
// 10000 keep their full width.
func Format(n int) string {
	return fmt.Sprintf("%04d", n)
}

// Next returns the formatted number following the client's last counter.
func Next(lastNumber int) string {
	if lastNumber < 0 {
		lastNumber = 0
	}
	return Format(lastNumber + 1)
}

// CounterAfter returns the counter value a client should carry after an
// invoice number was assigned. Numeric numbers move the counter to their
// integer value (user-specified jumps included). Non-numeric manual
// numbers leave the counter untouched; ok reports whether it moved.
func CounterAfter(assigned string, lastNumber int) (counter int, ok bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(assigned))
	if err != nil {
		return lastNumber, false
	}
	return parsed, true
}
