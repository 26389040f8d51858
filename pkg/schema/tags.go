// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"regexp"
	"strings"
	"unicode"
)

// Struct tag keys recognized on model fields.
const (
	// tagHelp carries the argument description shown in help text.
	tagHelp = "help"
	// tagDefault carries the raw default value; its presence alone makes
	// the field optional.
	tagDefault = "default"
	// tagAlias overrides the primary displayed flag name, allowing fields
	// whose natural name collides with a reserved flag.
	tagAlias = "alias"
	// tagShort supplies a one-character short flag.
	tagShort = "short"
	// tagChoices declares a fixed, ordered choice set for the field.
	tagChoices = "choices"
)

// flagNamePattern matches POSIX-style flag names: a letter followed by
// letters, digits, hyphens or underscores.
var flagNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// validFlagName reports whether name may be used as a long flag name.
func validFlagName(name string) bool {
	return flagNamePattern.MatchString(name)
}

// snakeCase converts a Go field name to its snake_case identifier, the key
// under which the field appears in the decoded namespace.
//
//	snakeCase("SecondFlag") == "second_flag"
//	snakeCase("HTTPPort")   == "http_port"
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitList splits a comma-separated tag value into its trimmed, non-empty
// members, preserving declaration order.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
