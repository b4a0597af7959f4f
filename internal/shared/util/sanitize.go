package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameLen = 180

// ErrInvalidFileName is returned for names that cannot be stored safely.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens an uploaded file name into a single storage-safe
// segment: separators become underscores, control characters are dropped and
// long names are truncated with the extension preserved. Traversal patterns
// are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}

	if runes := []rune(s); len(runes) > maxFileNameLen {
		ext := ""
		if i := strings.LastIndex(s, "."); i > 0 && len(s)-i <= 8 {
			ext = s[i:]
		}
		keep := maxFileNameLen - len([]rune(ext))
		s = string([]rune(strings.TrimSuffix(s, ext))[:keep]) + ext
	}
	return s, nil
}
