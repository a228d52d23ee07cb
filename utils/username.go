package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 2
	MaxUsernameLength = 20
)

// NormalizeUsername trims surrounding whitespace and enforces the display-name
// length bounds shared by login and rename.
func NormalizeUsername(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	length := utf8.RuneCountInString(trimmed)
	if length < MinUsernameLength || length > MaxUsernameLength {
		return "", fmt.Errorf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)
	}
	return trimmed, nil
}
