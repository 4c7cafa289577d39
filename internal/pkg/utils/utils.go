package utils

import (
	"strconv"
	"strings"
)

// FormatINR formats an amount using the Indian digit grouping system.
// Example: 123456 -> "₹1,23,456"
func FormatINR(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := strconv.FormatInt(int64(amount+0.5), 10)

	// last three digits form the first group, the rest is grouped in pairs
	var grouped string
	if len(str) > 3 {
		head, tail := str[:len(str)-3], str[len(str)-3:]

		var pairs []string
		for len(head) > 2 {
			pairs = append([]string{head[len(head)-2:]}, pairs...)
			head = head[:len(head)-2]
		}
		if head != "" {
			pairs = append([]string{head}, pairs...)
		}

		grouped = strings.Join(pairs, ",") + "," + tail
	} else {
		grouped = str
	}

	if negative {
		return "₹-" + grouped
	}

	return "₹" + grouped
}

// JoinDateTime joins a provider date and time into a single display value.
// Either part may be empty; the result is trimmed.
// Example: ("2025-03-10", "06:45") -> "2025-03-10 06:45"
func JoinDateTime(date, clock string) string {
	return strings.TrimSpace(date + " " + clock)
}
