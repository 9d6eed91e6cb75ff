// Package models defines the client-side records shared by the session core:
// the user record, its role and the payloads exchanged with the identity
// service.
package models

import (
	"strings"
	"time"
)

// Role is the role name as sent by the identity service. Ranking and gating
// live in package roles; Role itself only carries the wire value.
type Role string

const (
	RoleOwner Role = "owen"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the record held by the session and persisted under the "user" key.
//
// Optional fields are pointers so that a field the service never sent stays
// absent after a save/load cycle instead of turning into "".
type User struct {
	ID        string     `json:"id"`
	FirstName *string    `json:"nombre,omitempty"`
	LastName  *string    `json:"apellido,omitempty"`
	Email     string     `json:"email"`
	Role      Role       `json:"rol"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Clone returns a deep copy of u; nil stays nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.FirstName != nil {
		v := *u.FirstName
		c.FirstName = &v
	}
	if u.LastName != nil {
		v := *u.LastName
		c.LastName = &v
	}
	if u.CreatedAt != nil {
		v := *u.CreatedAt
		c.CreatedAt = &v
	}
	return &c
}

// DisplayName picks the friendliest available name: "first last", then
// either part alone, then the email, then "User".
func (u *User) DisplayName() string {
	if u == nil {
		return "User"
	}
	first, last := deref(u.FirstName), deref(u.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	case u.Email != "":
		return u.Email
	default:
		return "User"
	}
}

// FullName is "first last" when both parts are known, "" otherwise.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	first, last := deref(u.FirstName), deref(u.LastName)
	if first == "" || last == "" {
		return ""
	}
	return first + " " + last
}

// Initials returns up to two upper-case letters for avatars.
func (u *User) Initials() string {
	if u == nil {
		return "U"
	}
	first, last := deref(u.FirstName), deref(u.LastName)
	switch {
	case first != "" && last != "":
		return strings.ToUpper(firstRune(first) + firstRune(last))
	case first != "":
		return strings.ToUpper(firstRune(first))
	case u.Email != "":
		return strings.ToUpper(firstRune(u.Email))
	default:
		return "U"
	}
}

// NewUser is the payload for creating a user from the administration surface.
type NewUser struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"rol"`
}

// LoginResult is the normalized answer to an authentication request.
// User is nil when the service returned no user payload.
type LoginResult struct {
	Token string
	User  *User
}

// StringPtr is a convenience for filling optional fields.
func StringPtr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
