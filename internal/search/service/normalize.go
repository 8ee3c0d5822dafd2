package service

import "strings"

// NormalizeText trims the term, collapses internal whitespace runs to single
// spaces and lower-cases it.
func NormalizeText(term string) string {
	fields := strings.Fields(term)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// EscapeLike escapes the pattern metacharacters of ILIKE so a user-supplied
// term always matches literally. Backslash must be escaped first.
func EscapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, `%`, `\%`)
	term = strings.ReplaceAll(term, `_`, `\_`)
	return term
}
