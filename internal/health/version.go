package health

import (
	"strconv"
	"strings"
)

// MinOllamaVersion is the oldest Ollama release with the Anthropic-compatible
// messages API that claude talks to.
const MinOllamaVersion = "0.14.2"

// CompareVersions compares two major.minor.patch strings field by field and
// returns -1, 0 or 1. A leading "v" is ignored and missing trailing fields
// count as 0. If either side cannot be parsed the versions compare equal.
func CompareVersions(a, b string) int {
	pa, okA := parseVersion(a)
	pb, okB := parseVersion(b)
	if !okA || !okB {
		return 0
	}
	for i := range pa {
		switch {
		case pa[i] < pb[i]:
			return -1
		case pa[i] > pb[i]:
			return 1
		}
	}
	return 0
}

func parseVersion(s string) ([3]int, bool) {
	var v [3]int
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return v, false
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return v, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return v, false
		}
		v[i] = n
	}
	return v, true
}
