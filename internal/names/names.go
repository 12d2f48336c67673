// Package names splits dotted variable references into path segments.
package names

import (
	"strconv"
	"strings"
)

// Split breaks a reference such as "items.0.title" into ["items", 0, "title"].
// Purely numeric segments become int indices. "@" and the empty string yield
// nil, meaning the current scope.
func Split(raw string) []any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "@" {
		return nil
	}

	parts := strings.Split(trimmed, ".")
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		if n, ok := index(part); ok {
			out = append(out, n)
			continue
		}
		out = append(out, part)
	}
	return out
}

// Join is the inverse of Split.
func Join(path []any) string {
	if len(path) == 0 {
		return "@"
	}
	var b strings.Builder
	for i, seg := range path {
		if i > 0 {
			b.WriteByte('.')
		}
		switch s := seg.(type) {
		case int:
			b.WriteString(strconv.Itoa(s))
		case string:
			b.WriteString(s)
		}
	}
	return b.String()
}

func index(part string) (int, bool) {
	if part == "" {
		return 0, false
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return 0, false
	}
	return n, true
}
