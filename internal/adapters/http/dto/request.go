package dto

import (
	"net/mail"
	"strings"

	"github.com/jsamuelsen11/user-registry/internal/domain"
	"github.com/jsamuelsen11/user-registry/internal/domain/user"
)

const (
	msgRequired = "is required"
	msgInvalid  = "is invalid"
)

// RegisterUserRequest represents the JSON body for registering a new user.
type RegisterUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate checks that required fields are present and well-formed.
// Returns a *domain.ValidationError if any checks fail. Length and format
// rules are enforced again by the domain entity; this catches the cheap
// structural problems before a domain object is even built.
func (r *RegisterUserRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}
	if strings.TrimSpace(r.Email) == "" {
		fields["email"] = msgRequired
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		fields["email"] = msgInvalid
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToUser converts the request to a domain User entity. ID and CreatedAt are
// assigned by the store.
func (r *RegisterUserRequest) ToUser() *user.User {
	return &user.User{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
	}
}
