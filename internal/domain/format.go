package domain

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// HumanSize formats a byte count for display ("4.1 GB").
func HumanSize(n int64) string {
	if n < 0 {
		return "?"
	}
	return humanize.Bytes(uint64(n))
}

// RelativeTime renders t relative to now ("3 days ago").
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	if d := now.Sub(t); d >= 0 && d < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// BaseModelName strips the tag from a model reference ("qwen3:30b" -> "qwen3").
func BaseModelName(name string) string {
	if i := strings.LastIndex(name, ":"); i > 0 && !strings.Contains(name[i:], "/") {
		return name[:i]
	}
	return name
}

// Plural returns word with an "s" appended unless n == 1.
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
