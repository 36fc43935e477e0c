// Package validation holds the field rules shared by signup, user management,
// titles and reviews. Every rule is a pure function of its input (and the wall
// clock, for years).
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"yamdb/pkg/apperror"
)

const (
	MaxUsernameLength = 150
	MinScore          = 1
	MaxScore          = 10
	reservedUsername  = "me"
)

var (
	ErrInvalidUsername = apperror.Validation("username", `username "me" is reserved`)
	ErrInvalidScore    = apperror.Validation("score", fmt.Sprintf("score must be an integer from %d to %d", MinScore, MaxScore))
	ErrInvalidYear     = apperror.Validation("year", "year cannot be later than the current year")
	ErrInvalidRole     = apperror.Validation("role", "role must be one of user, moderator, admin")
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// AllowedUsername rejects the reserved "me" path segment in any letter case.
func AllowedUsername(name string) error {
	if strings.EqualFold(name, reservedUsername) {
		return ErrInvalidUsername
	}
	return nil
}

// Username applies every username rule: non-empty, length, charset, reserved word.
func Username(name string) error {
	if name == "" {
		return apperror.Validation("username", "username is required")
	}
	if utf8.RuneCountInString(name) > MaxUsernameLength {
		return apperror.Validation("username", fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	}
	if !usernamePattern.MatchString(name) {
		return apperror.Validation("username", "username may contain only letters, digits and @/./+/-/_")
	}
	return AllowedUsername(name)
}

// ValidScore accepts integers in [MinScore, MaxScore].
func ValidScore(score int) error {
	if score < MinScore || score > MaxScore {
		return ErrInvalidScore
	}
	return nil
}

// ParseScore decodes a raw JSON score. Fractions, strings that are not numbers
// and out of range values all fail with ErrInvalidScore.
func ParseScore(raw json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || n == "" {
		return 0, ErrInvalidScore
	}
	v, err := n.Int64()
	if err != nil || v < MinScore || v > MaxScore {
		return 0, ErrInvalidScore
	}
	return int(v), nil
}

// ValidYear rejects years after the current calendar year.
func ValidYear(year int) error {
	return ValidYearAt(year, time.Now())
}

// ValidYearAt is ValidYear against an explicit clock reading.
func ValidYearAt(year int, now time.Time) error {
	if year > now.Year() {
		return ErrInvalidYear
	}
	return nil
}
