// Package identitytest runs an in-process identity service for tests. It
// speaks the same JSON-over-HTTP contract as the real service: login,
// privileged registration and the user directory.
package identitytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleOwner = "owen"
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type failure struct {
	status  int
	message string
	raw     string
}

type account struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      string
	Hash      []byte
	CreatedAt time.Time
}

type Server struct {
	srv *httptest.Server

	secret    []byte
	tokenTTL  time.Duration
	userField string
	omitEmail bool

	mu       sync.Mutex
	accounts map[string]*account
	order    []string
	issued   map[string]struct{}
	failures map[string]failure
	requests []Request
}

type Option func(*Server)

// WithUserField selects the login response field carrying the user,
// "usuario" (default) or "user".
func WithUserField(name string) Option {
	return func(s *Server) { s.userField = name }
}

// WithoutEmailInPayload leaves email out of returned user payloads.
func WithoutEmailInPayload() Option {
	return func(s *Server) { s.omitEmail = true }
}

func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// WithFailure makes every request to path answer status with message.
func WithFailure(path string, status int, message string) Option {
	return func(s *Server) { s.failures[path] = failure{status: status, message: message} }
}

// WithRawResponse makes every request to path answer status with body as is.
func WithRawResponse(path string, status int, body string) Option {
	return func(s *Server) { s.failures[path] = failure{status: status, raw: body} }
}

// Start runs a server until the test ends.
func Start(tb testing.TB, opts ...Option) *Server {
	tb.Helper()

	s := &Server{
		secret:    []byte(uuid.NewString()),
		tokenTTL:  time.Hour,
		userField: "usuario",
		accounts:  map[string]*account{},
		issued:    map[string]struct{}{},
		failures:  map[string]failure{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.srv = httptest.NewServer(s.routes())
	tb.Cleanup(s.srv.Close)
	return s
}

func (s *Server) URL() string {
	return s.srv.URL
}

// AddUser registers an account directly and returns its id.
func (s *Server) AddUser(tb testing.TB, firstName, lastName, email, password, role string) string {
	tb.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(firstName, lastName, email, role, hash).ID
}

// RevokeTokens invalidates every token issued so far.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued = map[string]struct{}{}
}

// Requests returns the requests received on path, oldest first.
func (s *Server) Requests(path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Request
	for _, r := range s.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Emails lists registered accounts in creation order.
func (s *Server) Emails() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record, s.injectFailures)

	r.Post("/auth/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Post("/register", s.handleRegister)
		r.Get("/usuario", s.handleDirectory)
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var buf strings.Builder
			_, _ = copyLimited(&buf, r)
			body = []byte(buf.String())
			r.Body = readCloser(body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.URL.Path]
		s.mu.Unlock()

		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if f.raw != "" || f.message == "" {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.raw))
			return
		}
		writeError(w, f.status, f.message)
	})
}

type claims struct {
	Role string `json:"rol"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "Token requerido")
			return
		}

		c := &claims{}
		_, err := jwt.ParseWithClaims(raw, c, func(*jwt.Token) (any, error) { return s.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token inválido")
			return
		}

		s.mu.Lock()
		_, live := s.issued[raw]
		s.mu.Unlock()
		if !live {
			writeError(w, http.StatusUnauthorized, "Token inválido")
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), c)))
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(in.Email)]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.Hash, []byte(in.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}

	token, err := s.mint(acc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		s.userField: s.payload(acc),
	})
}

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if claimsFrom(r.Context()).Role != RoleOwner {
		writeError(w, http.StatusForbidden, "Acceso denegado")
		return
	}

	var in registerRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if in.Email == "" || in.Password == "" || in.Rol == "" {
		writeError(w, http.StatusBadRequest, "Faltan campos obligatorios")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash error")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[strings.ToLower(in.Email)]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "El email ya está registrado")
		return
	}
	acc := s.insertLocked(in.Nombre, in.Apellido, in.Email, in.Rol, hash)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"usuario": s.payload(acc)})
}

func (s *Server) handleDirectory(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]map[string]any, 0, len(s.order))
	for _, email := range s.order {
		out = append(out, s.payload(s.accounts[email]))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) insertLocked(firstName, lastName, email, role string, hash []byte) *account {
	key := strings.ToLower(email)
	acc := &account{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      role,
		Hash:      hash,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if _, exists := s.accounts[key]; !exists {
		s.order = append(s.order, key)
	}
	s.accounts[key] = acc
	return acc
}

func (s *Server) mint(acc *account) (string, error) {
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: acc.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.issued[token] = struct{}{}
	s.mu.Unlock()
	return token, nil
}

func (s *Server) payload(acc *account) map[string]any {
	p := map[string]any{
		"id":         acc.ID,
		"rol":        acc.Role,
		"created_at": acc.CreatedAt.Format(time.RFC3339),
	}
	if acc.FirstName != "" {
		p["nombre"] = acc.FirstName
	}
	if acc.LastName != "" {
		p["apellido"] = acc.LastName
	}
	if !s.omitEmail {
		p["email"] = acc.Email
	}
	return p
}

