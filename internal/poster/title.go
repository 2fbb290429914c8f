// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package poster

import (
	"regexp"
	"strings"
	"unicode"
)

// maxFilenameLen bounds sanitized poster file names (in runes).
const maxFilenameLen = 60

var yearSuffix = regexp.MustCompile(`^(.+?)\s*\((\d{4})\)\s*$`)

// ParseTitle splits a trailing "(YYYY)" year off a title.
//
//	"Toy Story (1995)" -> ("Toy Story", "1995")
//	"Heat"             -> ("Heat", "")
func ParseTitle(title string) (key, year string) {
	if m := yearSuffix.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	return strings.TrimSpace(title), ""
}

// SanitizeFilename keeps letters, digits, spaces, hyphens and underscores,
// turns spaces into underscores and truncates the result.
func SanitizeFilename(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	n := 0
	for _, r := range title {
		if n == maxFilenameLen {
			break
		}
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			continue
		}
		n++
	}
	return b.String()
}
