// Package identity resolves raw vehicle codes and license plates into
// canonical per-company vehicle records.
package identity

import (
	"strings"
	"unicode"
)

// NormalizeCode canonicalizes a vehicle code: trim, upper-case, strip all
// whitespace. Hyphens are kept ("FG-22010" and "FG22010" are different
// codes). Blank input normalizes to the empty string.
func NormalizeCode(raw string) string {
	return normalize(raw, false)
}

// NormalizePlate canonicalizes a license plate: trim, upper-case, strip
// whitespace and hyphens. Plates use a stricter rule than codes so the two
// namespaces are never comparable by coincidence.
func NormalizePlate(raw string) string {
	return normalize(raw, true)
}

// NormalizeCodeSet normalizes a code list, dropping blanks and duplicates
// while keeping first-seen order.
func NormalizeCodeSet(values []string) []string {
	return normalizeSet(values, NormalizeCode)
}

// NormalizePlateSet normalizes a plate list, dropping blanks and duplicates
// while keeping first-seen order.
func NormalizePlateSet(values []string) []string {
	return normalizeSet(values, NormalizePlate)
}

func normalizeSet(values []string, normalize func(string) string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		norm := normalize(v)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

func normalize(raw string, stripHyphens bool) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if unicode.IsSpace(r) {
			continue
		}
		if stripHyphens && r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
