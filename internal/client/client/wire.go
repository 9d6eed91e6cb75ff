package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageBody struct {
	Message string `json:"message"`
}

// loginResponse carries the user under "usuario" or "user" depending on the
// service version. "usuario" wins when both are present.
// TODO: drop the "user" alias once every identity service deployment answers with "usuario".
type loginResponse struct {
	Token   string    `json:"token"`
	Usuario *wireUser `json:"usuario"`
	User    *wireUser `json:"user"`
}

type wrappedUser struct {
	Usuario *wireUser `json:"usuario"`
	User    *wireUser `json:"user"`
}

func (w wrappedUser) pick() *wireUser {
	if w.Usuario != nil {
		return w.Usuario
	}
	return w.User
}

type wireUser struct {
	ID        wireID  `json:"id"`
	Nombre    *string `json:"nombre"`
	Apellido  *string `json:"apellido"`
	Email     string  `json:"email"`
	Rol       string  `json:"rol"`
	CreatedAt *string `json:"created_at"`
}

// wireID accepts both JSON strings and numbers.
type wireID string

func (id *wireID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = wireID(n.String())
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

// toModel converts the payload, backfilling email when the service left it
// out.
func (w *wireUser) toModel(fallbackEmail string) models.User {
	u := models.User{
		ID:        string(w.ID),
		FirstName: w.Nombre,
		LastName:  w.Apellido,
		Email:     w.Email,
		Role:      models.Role(w.Rol),
		CreatedAt: parseTimestamp(w.CreatedAt),
	}
	if u.Email == "" {
		u.Email = fallbackEmail
	}
	return u
}

// normalize picks the user payload and stamps it with the email the caller
// signed in with, whatever the service echoed back.
func (r *loginResponse) normalize(email string) *models.LoginResult {
	payload := wrappedUser{Usuario: r.Usuario, User: r.User}.pick()

	result := &models.LoginResult{Token: r.Token}
	if payload != nil {
		u := payload.toModel(email)
		u.Email = email
		result.User = &u
	}
	return result
}
