package models

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Validate checks the payload before it is sent for registration. Only
// administrator and standard accounts can be created.
func (n NewUser) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&n.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&n.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&n.Password, validation.Required),
		validation.Field(&n.Role, validation.Required, validation.In(RoleAdmin, RoleUser)),
	)
}
