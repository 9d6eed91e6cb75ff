package models

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNewUser() NewUser {
	return NewUser{
		FirstName: "Bea",
		LastName:  "Diaz",
		Email:     "bea@school.test",
		Password:  "pw",
		Role:      RoleAdmin,
	}
}

func TestNewUser_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*NewUser)
		wantKeys []string
	}{
		{name: "valid admin", mutate: func(*NewUser) {}},
		{name: "valid user", mutate: func(n *NewUser) { n.Role = RoleUser }},
		{name: "missing names", mutate: func(n *NewUser) { n.FirstName, n.LastName = "", "" }, wantKeys: []string{"nombre", "apellido"}},
		{name: "bad email", mutate: func(n *NewUser) { n.Email = "not-an-email" }, wantKeys: []string{"email"}},
		{name: "missing password", mutate: func(n *NewUser) { n.Password = "" }, wantKeys: []string{"password"}},
		{name: "owner role refused", mutate: func(n *NewUser) { n.Role = RoleOwner }, wantKeys: []string{"rol"}},
		{name: "unknown role refused", mutate: func(n *NewUser) { n.Role = "teacher" }, wantKeys: []string{"rol"}},
		{name: "missing role", mutate: func(n *NewUser) { n.Role = "" }, wantKeys: []string{"rol"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNewUser()
			tt.mutate(&n)

			err := n.Validate()
			if len(tt.wantKeys) == 0 {
				assert.NoError(t, err)
				return
			}

			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Len(t, errs, len(tt.wantKeys))
			for _, k := range tt.wantKeys {
				assert.Contains(t, errs, k)
			}
		})
	}
}
