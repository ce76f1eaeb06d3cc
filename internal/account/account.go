// Package account implements sign-in, sign-up and sign-out on top of the API
// client and the session store.
package account

import (
	"context"
	"errors"

	"github.com/dbmrq/globe/internal/api"
	gerrors "github.com/dbmrq/globe/internal/errors"
	"github.com/dbmrq/globe/internal/i18n"
	"github.com/dbmrq/globe/internal/logging"
	"github.com/dbmrq/globe/internal/session"
)

// Backend is the subset of the API client used here.
type Backend interface {
	SignIn(ctx context.Context, email, password string) (*api.SignInResponse, error)
	SignUp(ctx context.Context, r api.Registration) (map[string]any, error)
	SignOut(ctx context.Context) error
}

// Service runs account flows.
type Service struct {
	backend Backend
	session *session.Store
	tr      *i18n.Translator
}

// New creates a Service. A nil translator uses i18n.Default().
func New(backend Backend, s *session.Store, tr *i18n.Translator) *Service {
	if tr == nil {
		tr = i18n.Default()
	}
	return &Service{backend: backend, session: s, tr: tr}
}

// serverOr returns the backend's own error text, or the localized fallback.
func (s *Service) serverOr(err error, fallbackKey string) error {
	msg := gerrors.ServerMessage(err)
	if msg == "" {
		if gerrors.Status(err) == 0 {
			// Transport or decode failure: keep the original error.
			return err
		}
		msg = s.tr.T(fallbackKey, nil)
	}
	kind := gerrors.ErrAuth
	var ge *gerrors.GlobeError
	if errors.As(err, &ge) {
		kind = ge.Kind
	}
	return gerrors.Wrap(err, kind, msg)
}

// SignIn authenticates and activates the session.
func (s *Service) SignIn(ctx context.Context, email, password string) error {
	resp, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		return s.serverOr(err, "auth.loginFailed")
	}
	if resp.Token == "" {
		return gerrors.New(gerrors.ErrAuth, s.tr.T("auth.noTokenReceived", nil))
	}
	if err := s.session.Login(session.User(resp.User), resp.Token); err != nil {
		return gerrors.StorageFailure("", err)
	}
	logging.Info("signed in", "email", s.session.Email())
	return nil
}

// SignUp creates an account and returns the localized success notice.
// A password confirmation mismatch fails before any request is made.
func (s *Service) SignUp(ctx context.Context, email, password, confirmation string) (string, error) {
	if password != confirmation {
		return "", gerrors.Validation("password_confirmation", s.tr.T("auth.passwordsDoNotMatch", nil))
	}
	_, err := s.backend.SignUp(ctx, api.Registration{
		Email:                email,
		Password:             password,
		PasswordConfirmation: confirmation,
	})
	if err != nil {
		return "", s.serverOr(err, "auth.registrationFailed")
	}
	return s.tr.T("auth.accountCreated", nil), nil
}

// SignOut tells the backend (best effort) and clears the local session.
func (s *Service) SignOut(ctx context.Context) {
	if s.session.IsAuthenticated() {
		if err := s.backend.SignOut(ctx); err != nil {
			logging.Warn("sign out request failed", "error", err)
		}
	}
	s.session.Logout()
}
