package utils

import "time"

// IsValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil && len(s) == 10
}

// IsValidTime reports whether s is a 24h HH:MM time of day.
func IsValidTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}
