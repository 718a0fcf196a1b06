// Package user defines the User entity and its business rules.
package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/jsamuelsen11/user-registry/internal/domain"
)

// Name length bounds for registration.
const (
	minNameLen = 2
	maxNameLen = 100
)

// User represents a registered user. The ID is a store-assigned UUID string
// in both persistence flavors.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// Validate checks business rules for the User entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (u *User) Validate() error {
	fields := make(map[string]string)

	name := strings.TrimSpace(u.Name)
	switch {
	case name == "":
		fields["name"] = "is required"
	case len(name) < minNameLen || len(name) > maxNameLen:
		fields["name"] = "must be between 2 and 100 characters"
	}

	email := strings.TrimSpace(u.Email)
	if email == "" {
		fields["email"] = "is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "must be a valid email address"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
