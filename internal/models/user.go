package models

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of a user's birth date.
const DateLayout = "2006-01-02"

// User represents a MeetYou profile as returned by the REST API.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Birth     string     `json:"birth"`
	Age       *int       `json:"age,omitempty"` // Computed by the API
	Interests []Interest `json:"interests,omitempty"`
}

// UserInput is the payload for creating or replacing a user.
type UserInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Birth *string `json:"birth"` // null when the form left it empty
}

// NewUserInput builds a payload from raw form values. Name and email are
// trimmed and an empty birth date is sent as null.
func NewUserInput(name, email, birth string) UserInput {
	in := UserInput{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if b := NormalizeBirth(birth); b != "" {
		in.Birth = &b
	}
	return in
}

// NormalizeBirth reduces a date or timestamp to YYYY-MM-DD. Values it
// cannot parse are returned trimmed so the API can reject them.
func NormalizeBirth(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.Format(DateLayout)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format(DateLayout)
	}
	return raw
}

// AgeLabel returns the age for display, or "-" when the API sent none.
func (u User) AgeLabel() string {
	if u.Age == nil {
		return "-"
	}
	return strconv.Itoa(*u.Age)
}

// Merge overlays the submitted payload and then the non-zero fields of the
// server's response onto u. Fields the server leaves empty keep their
// previous value.
func (u User) Merge(in UserInput, resp User) User {
	merged := u
	merged.Name = in.Name
	merged.Email = in.Email
	if in.Birth != nil {
		merged.Birth = *in.Birth
	} else {
		merged.Birth = ""
	}

	if resp.ID != 0 {
		merged.ID = resp.ID
	}
	if resp.Name != "" {
		merged.Name = resp.Name
	}
	if resp.Email != "" {
		merged.Email = resp.Email
	}
	if resp.Birth != "" {
		merged.Birth = resp.Birth
	}
	if resp.Age != nil {
		merged.Age = resp.Age
	}
	if resp.Interests != nil {
		merged.Interests = resp.Interests
	}
	return merged
}
