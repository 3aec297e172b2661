// Package classifier identifies AI agents from raw User-Agent strings
// using an ordered substring signature table.
package classifier

import "strings"

// Classify reports whether userAgent belongs to a known AI agent and, if
// so, the agent's name. Matching is case-insensitive and the first entry
// of the signature table found in userAgent wins. Pure and safe for
// concurrent use.
func Classify(userAgent string) (bool, string) {
	return ClassifyWith(Signatures, userAgent)
}

// ClassifyWith runs the same first-match-wins scan against a caller
// supplied table.
func ClassifyWith(table []Signature, userAgent string) (bool, string) {
	if userAgent == "" {
		return false, ""
	}

	lowered := strings.ToLower(userAgent)
	for _, sig := range table {
		if strings.Contains(lowered, sig.Pattern) {
			return true, sig.Agent
		}
	}

	return false, ""
}
