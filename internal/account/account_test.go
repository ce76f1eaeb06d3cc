package account

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dbmrq/globe/internal/api"
	"github.com/dbmrq/globe/internal/devserver"
	gerrors "github.com/dbmrq/globe/internal/errors"
	"github.com/dbmrq/globe/internal/i18n"
	"github.com/dbmrq/globe/internal/session"
	"github.com/dbmrq/globe/internal/storage"
)

var en = i18n.New(i18n.Options{Locale: "en"})

// stubBackend records calls and returns canned results.
type stubBackend struct {
	signIn    *api.SignInResponse
	signInErr error
	signUpErr error
	signOut   error
	calls     []string
}

func (b *stubBackend) SignIn(ctx context.Context, email, password string) (*api.SignInResponse, error) {
	b.calls = append(b.calls, "sign_in")
	return b.signIn, b.signInErr
}

func (b *stubBackend) SignUp(ctx context.Context, r api.Registration) (map[string]any, error) {
	b.calls = append(b.calls, "sign_up")
	return map[string]any{}, b.signUpErr
}

func (b *stubBackend) SignOut(ctx context.Context) error {
	b.calls = append(b.calls, "sign_out")
	return b.signOut
}

func TestSignUp_MismatchNeverHitsNetwork(t *testing.T) {
	b := &stubBackend{}
	svc := New(b, session.New(storage.NewMemory()), en)

	_, err := svc.SignUp(context.Background(), "a@b.c", "secret1", "secret2")
	require.Error(t, err)
	assert.Equal(t, "Passwords do not match", gerrors.Message(err))
	assert.True(t, errors.Is(err, gerrors.ErrValidation))
	assert.Empty(t, b.calls)
}

func TestSignUp_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", gerrors.ResponseStatus("", 422, "Email has already been taken"), "Email has already been taken"},
		{"no server message", gerrors.ResponseStatus("", 500, ""), "Registration failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&stubBackend{signUpErr: tt.err}, session.New(storage.NewMemory()), en)
			_, err := svc.SignUp(context.Background(), "a@b.c", "secret1", "secret1")
			require.Error(t, err)
			assert.Equal(t, tt.want, gerrors.Message(err))
		})
	}
}

func TestSignUp_Success(t *testing.T) {
	svc := New(&stubBackend{}, session.New(storage.NewMemory()), en)
	notice, err := svc.SignUp(context.Background(), "a@b.c", "secret1", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Account created successfully! Sign in to continue.", notice)
}

func TestSignIn_NoToken(t *testing.T) {
	s := session.New(storage.NewMemory())
	svc := New(&stubBackend{signIn: &api.SignInResponse{User: map[string]any{"id": 1}}}, s, en)

	err := svc.SignIn(context.Background(), "a@b.c", "secret1")
	require.Error(t, err)
	assert.Equal(t, "No token received", gerrors.Message(err))
	assert.False(t, s.IsAuthenticated())
}

func TestSignIn_FailureFallback(t *testing.T) {
	svc := New(&stubBackend{signInErr: gerrors.ResponseStatus("", 500, "")}, session.New(storage.NewMemory()), en)
	err := svc.SignIn(context.Background(), "a@b.c", "x")
	assert.Equal(t, "Login failed", gerrors.Message(err))
}

func TestSignIn_TransportErrorKept(t *testing.T) {
	cause := gerrors.NetworkUnavailable("http://x", errors.New("connection refused"))
	svc := New(&stubBackend{signInErr: cause}, session.New(storage.NewMemory()), en)
	err := svc.SignIn(context.Background(), "a@b.c", "x")
	assert.Same(t, cause, err)
}

func TestSignOut_BestEffort(t *testing.T) {
	s := session.New(storage.NewMemory())
	require.NoError(t, s.Login(session.User{"id": 1}, "tok"))

	b := &stubBackend{signOut: errors.New("offline")}
	New(b, s, en).SignOut(context.Background())

	assert.Equal(t, []string{"sign_out"}, b.calls)
	assert.False(t, s.IsAuthenticated(), "local session is cleared even when the request fails")
}

func TestSignOut_SkipsRequestWhenSignedOut(t *testing.T) {
	b := &stubBackend{}
	New(b, session.New(storage.NewMemory()), en).SignOut(context.Background())
	assert.Empty(t, b.calls)
}

func TestFlows_AgainstDevServer(t *testing.T) {
	srv, err := devserver.New(devserver.Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	s := session.New(storage.NewMemory())
	client := api.New(ts.URL, api.WithAuth(s))
	svc := New(client, s, en)
	ctx := context.Background()

	_, err = svc.SignUp(ctx, "ana@example.com", "secret1", "secret1")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "ana@example.com", "secret1", "secret1")
	assert.Equal(t, "Email has already been taken", gerrors.Message(err))

	err = svc.SignIn(ctx, "ana@example.com", "wrong")
	assert.Equal(t, "Invalid email or password", gerrors.Message(err))

	require.NoError(t, svc.SignIn(ctx, "ana@example.com", "secret1"))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "ana@example.com", s.Email())

	token := s.Token()
	svc.SignOut(ctx)
	assert.False(t, s.IsAuthenticated())

	// The server-side token was revoked too.
	stale := api.New(ts.URL, api.WithAuth(staticHeaders{"Authorization": "Bearer " + token}))
	_, err = stale.ListCountries(ctx, 1)
	assert.True(t, api.IsUnauthorized(err))
}

type staticHeaders map[string]string

func (h staticHeaders) AuthHeaders() map[string]string { return h }
