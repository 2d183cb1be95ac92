// Package validate holds the input-format checks the console front end
// applies before calling into the bank. These are string checks only; the
// core performs its own authorization and uniqueness enforcement.
package validate

import (
	"regexp"
	"strings"
	"unicode"
)

// Error reports why an input was rejected.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "validate: " + e.Reason }

var (
	// Characters outside letters and hyphen are illegal in usernames and
	// person names.
	illegalUsername = regexp.MustCompile(`[^a-zA-Z\-]`)

	// Business names additionally allow spaces.
	illegalBusiness = regexp.MustCompile(`[^a-zA-Z\s]`)
)

// Username requires 6-20 characters, letters and hyphen only.
func Username(username string) error {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return &Error{Reason: "username was empty"}
	}
	if len(trimmed) <= 5 || len(trimmed) > 20 {
		return &Error{Reason: "username length incorrect"}
	}
	if illegalUsername.MatchString(trimmed) {
		return &Error{Reason: "illegal characters in username"}
	}
	return nil
}

// Secret requires 12-64 characters including at least two digits and two
// special characters.
func Secret(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return &Error{Reason: "password was empty"}
	}
	if len(trimmed) < 12 || len(trimmed) > 64 {
		return &Error{Reason: "password length incorrect"}
	}
	digits, specials := 0, 0
	for _, r := range trimmed {
		switch {
		case unicode.IsDigit(r):
			digits++
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			specials++
		}
	}
	if digits < 2 || specials < 2 {
		return &Error{Reason: "invalid password signature"}
	}
	return nil
}

// PersonName requires non-blank first and last names without illegal characters.
func PersonName(first, last string) error {
	firstTrim := strings.TrimSpace(first)
	lastTrim := strings.TrimSpace(last)
	if firstTrim == "" || lastTrim == "" {
		return &Error{Reason: "name was empty"}
	}
	if illegalUsername.MatchString(firstTrim) || illegalUsername.MatchString(lastTrim) {
		return &Error{Reason: "name contains illegal characters"}
	}
	return nil
}

// BusinessName requires a non-blank name of letters and spaces.
func BusinessName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &Error{Reason: "business name was empty"}
	}
	if illegalBusiness.MatchString(trimmed) {
		return &Error{Reason: "name contains illegal characters"}
	}
	return nil
}
