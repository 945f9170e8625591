// Package suggest produces "did you mean" candidates for misspelled
// identifiers in schema lookups.
package suggest

import "strings"

// Similar returns the candidates that look like name. The check is a simple
// case-insensitive containment test in either direction, which catches the
// common typo classes (truncation, extra suffix, wrong case) without pulling
// in an edit-distance dependency.
func Similar(name string, candidates []string) []string {
	nameLower := strings.ToLower(name)

	var matches []string
	for _, candidate := range candidates {
		candidateLower := strings.ToLower(candidate)
		if strings.Contains(candidateLower, nameLower) ||
			strings.Contains(nameLower, candidateLower) {
			matches = append(matches, candidate)
		}
	}
	return matches
}

// Describe formats a lookup failure for name against the known identifiers,
// appending suggestions when any look similar and the full identifier list
// otherwise.
func Describe(what, name string, known []string) string {
	msg := "unknown " + what + " '" + name + "'"

	if suggestions := Similar(name, known); len(suggestions) > 0 {
		msg += ", did you mean one of: [" + strings.Join(suggestions, " ") + "]?"
	} else if len(known) > 0 {
		msg += ", known " + what + "s are: [" + strings.Join(known, " ") + "]"
	}
	return msg
}
