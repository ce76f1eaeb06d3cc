// Package devserver is an in-memory implementation of the countries backend
// for local development and tests.
package devserver

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/dbmrq/globe/internal/country"
	"github.com/dbmrq/globe/internal/logging"
)

//go:embed countries.json
var seedCountries []byte

// DefaultPageSize is the number of countries per list page.
const DefaultPageSize = 20

// Options configures a Server.
type Options struct {
	// PageSize is the list page size (default: 20).
	PageSize int
	// Countries replaces the bundled dataset.
	Countries []country.Detail
	// BcryptCost is the password hashing cost (default: bcrypt.DefaultCost).
	BcryptCost int
}

type user struct {
	ID           int
	Email        string
	PasswordHash []byte
	Verified     bool
}

func (u *user) public() map[string]any {
	return map[string]any{
		"id":             u.ID,
		"email":          u.Email,
		"email_verified": u.Verified,
	}
}

// Server holds users, tokens and countries in memory.
type Server struct {
	mu        sync.RWMutex
	users     map[string]*user
	tokens    map[string]string
	countries []country.Detail
	pageSize  int
	cost      int
	log       *logging.Logger
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	s := &Server{
		users:     make(map[string]*user),
		tokens:    make(map[string]string),
		countries: opts.Countries,
		pageSize:  opts.PageSize,
		cost:      opts.BcryptCost,
		log:       logging.With("component", "devserver"),
	}
	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	if s.countries == nil {
		if err := json.Unmarshal(seedCountries, &s.countries); err != nil {
			return nil, fmt.Errorf("failed to load bundled countries: %w", err)
		}
	}
	return s, nil
}

// AddUser registers a user directly, bypassing sign-up validation.
func (s *Server) AddUser(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(email)] = &user{ID: len(s.users) + 1, Email: email, PasswordHash: hash}
	return nil
}

// IssueToken signs email in without a password and returns the token.
func (s *Server) IssueToken(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[strings.ToLower(email)]; !ok {
		return "", fmt.Errorf("unknown user %q", email)
	}
	token := uuid.NewString()
	s.tokens[token] = strings.ToLower(email)
	return token, nil
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/sign_up", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/sign_in", s.handleSignIn).Methods(http.MethodPost)
	r.HandleFunc("/sign_out", s.requireAuth(s.handleSignOut)).Methods(http.MethodPost)
	r.HandleFunc("/password_reset", s.handlePasswordReset).Methods(http.MethodPost)
	r.HandleFunc("/email_verification", s.handleEmailVerification).Methods(http.MethodPost)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/countries", s.requireAuth(s.handleListCountries)).Methods(http.MethodGet)
	v1.HandleFunc("/countries/{slug}", s.requireAuth(s.handleGetCountry)).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "request_id", r.Header.Get("X-Request-ID"))
		next.ServeHTTP(w, r)
	})
}

// requireAuth passes the caller's bearer token to next, or answers 401.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		s.mu.RLock()
		_, ok = s.tokens[token]
		s.mu.RUnlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, token)
	}
}

type signUpRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		writeError(w, http.StatusUnprocessableEntity, "Email is invalid")
		return
	case len(req.Password) < 6:
		writeError(w, http.StatusUnprocessableEntity, "Password is too short (minimum is 6 characters)")
		return
	case req.Password != req.PasswordConfirmation:
		writeError(w, http.StatusUnprocessableEntity, "Password confirmation doesn't match Password")
		return
	}

	s.mu.RLock()
	_, exists := s.users[strings.ToLower(req.Email)]
	s.mu.RUnlock()
	if exists {
		writeError(w, http.StatusUnprocessableEntity, "Email has already been taken")
		return
	}

	if err := s.AddUser(req.Email, req.Password); err != nil {
		writeError(w, http.StatusInternalServerError, "Could not create account")
		return
	}

	s.mu.RLock()
	u := s.users[strings.ToLower(req.Email)]
	s.mu.RUnlock()
	writeJSON(w, http.StatusCreated, map[string]any{"user": u.public()})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.RLock()
	u, ok := s.users[strings.ToLower(req.Email)]
	s.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.IssueToken(u.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not sign in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u.public(), "token": token})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request, token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

func (s *Server) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "Email is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If that email is registered, reset instructions have been sent",
	})
}

func (s *Server) handleEmailVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusUnprocessableEntity, "Token is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[req.Token]
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "Token is invalid or has expired")
		return
	}
	s.users[email].Verified = true
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified"})
}

func (s *Server) handleListCountries(w http.ResponseWriter, r *http.Request, _ string) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid page")
			return
		}
		page = n
	}

	last := (len(s.countries) + s.pageSize - 1) / s.pageSize
	if last == 0 {
		last = 1
	}

	data := []country.Summary{}
	if page > last {
		writeJSON(w, http.StatusOK, country.Page{
			Data:       data,
			Pagination: country.Pagination{Page: page, Last: last},
		})
		return
	}
	start := (page - 1) * s.pageSize
	for i := start; i < start+s.pageSize && i < len(s.countries); i++ {
		data = append(data, s.countries[i].Summary)
	}

	writeJSON(w, http.StatusOK, country.Page{
		Data:       data,
		Pagination: country.Pagination{Page: page, Last: last},
	})
}

func (s *Server) handleGetCountry(w http.ResponseWriter, r *http.Request, _ string) {
	slug := mux.Vars(r)["slug"]
	for i := range s.countries {
		c := &s.countries[i]
		if string(c.ID) == slug || strings.EqualFold(c.Alpha2Code, slug) || strings.EqualFold(c.Alpha3Code, slug) {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Country not found")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
