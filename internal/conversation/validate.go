package conversation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateRe  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// IsValidDate reports whether s is an MM/DD/YYYY string naming a real
// calendar date. The constructed date must echo the parsed numbers
// exactly, which rejects impossible dates like 02/30/2024 that a plain
// range check would let through.
func IsValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}

	month, _ := strconv.Atoi(s[0:2])
	day, _ := strconv.Atoi(s[3:5])
	year, _ := strconv.Atoi(s[6:10])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}

// IsValidEmail checks the structural local@domain.tld shape only. No
// mailbox or domain verification.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidFullName requires at least two whitespace-separated tokens.
func IsValidFullName(s string) bool {
	return len(strings.Fields(s)) >= 2
}

// IsValidPhone requires a non-empty value after trimming.
func IsValidPhone(s string) bool {
	return strings.TrimSpace(s) != ""
}
