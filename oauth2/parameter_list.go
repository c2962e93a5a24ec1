package oauth2

import (
	"slices"
	"strings"
)

// ParseParameterList splits a space or comma delimited parameter value such as
// "openid profile,email" into a sorted set of distinct, non-empty values.
// An empty or blank value yields an empty (non-nil) slice.
func ParseParameterList(values string) []string {
	result := append([]string{}, strings.FieldsFunc(values, isListSeparator)...)
	slices.Sort(result)
	return slices.Compact(result)
}

// FormatParameterList is the inverse of ParseParameterList, joining the
// values with a single space.
func FormatParameterList(values []string) string {
	return strings.Join(values, " ")
}

func isListSeparator(r rune) bool {
	switch r {
	case ' ', ',', '\t', '\n', '\r':
		return true
	}
	return false
}
