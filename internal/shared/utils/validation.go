package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxQueueNameLength bounds a named queue's key.
const MaxQueueNameLength = 64

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ErrInvalidField is wrapped by every validation failure.
var ErrInvalidField = errors.New("invalid field")

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int) error {
	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%w: %s must be at least %d characters", ErrInvalidField, fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%w: %s must not exceed %d characters", ErrInvalidField, fieldName, maxLen)
	}
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%w: %s contains invalid characters", ErrInvalidField, fieldName)
	}
	return nil
}

// ValidateID checks that id is a non-empty safe identifier of at most
// maxLen characters.
func ValidateID(id, fieldName string, maxLen int) error {
	if err := ValidateString(id, fieldName, 1, maxLen); err != nil {
		return err
	}
	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %s may only contain letters, digits, hyphens and underscores", ErrInvalidField, fieldName)
	}
	return nil
}

// ValidateQueueName validates the name of a caller queue.
func ValidateQueueName(name string) error {
	return ValidateID(name, "queue name", MaxQueueNameLength)
}
