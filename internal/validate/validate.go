// Package validate holds the pure field checks applied to registration and
// login input before anything touches the store.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Reason classifies why a field was rejected.
type Reason string

const (
	EmptyField    Reason = "empty_field"
	InvalidFormat Reason = "invalid_format"
	TooShort      Reason = "too_short"
)

// Error is a field rejection with a user-facing message.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string { return e.Message }

// Coarse syntactic check only: ASCII local part and domain tokens plus a
// single TLD segment. Rejects some technically valid addresses; known
// limitation.
var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

const minPasswordLen = 6

// Name rejects an empty display name.
func Name(s string) *Error {
	if strings.TrimSpace(s) == "" {
		return &Error{Reason: EmptyField, Message: "Name should not be empty!"}
	}
	return nil
}

// Email rejects an empty or syntactically malformed address.
func Email(s string) *Error {
	s = strings.TrimSpace(s)
	if s == "" {
		return &Error{Reason: EmptyField, Message: "Email should not be empty!"}
	}
	if !emailPattern.MatchString(s) {
		return &Error{Reason: InvalidFormat, Message: "Invalid email format!"}
	}
	return nil
}

// Password rejects an empty or too-short password. No upper bound and no
// complexity rules.
func Password(s string) *Error {
	s = strings.TrimSpace(s)
	if s == "" {
		return &Error{Reason: EmptyField, Message: "Password should not be empty!"}
	}
	if utf8.RuneCountInString(s) < minPasswordLen {
		return &Error{Reason: TooShort, Message: "Password must be at least 6 characters!"}
	}
	return nil
}
