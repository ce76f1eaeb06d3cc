package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dbmrq/globe/internal/devserver"
	gerrors "github.com/dbmrq/globe/internal/errors"
)

type staticAuth map[string]string

func (a staticAuth) AuthHeaders() map[string]string { return a }

func TestNewEndpoints(t *testing.T) {
	e := NewEndpoints("https://api.example.com/")
	if e.SignIn != "https://api.example.com/sign_in" {
		t.Errorf("SignIn = %q", e.SignIn)
	}
	if e.Countries != "https://api.example.com/v1/countries" {
		t.Errorf("Countries = %q", e.Countries)
	}
	if got := e.CountryBySlug("a b/c"); got != "https://api.example.com/v1/countries/a%20b%2Fc" {
		t.Errorf("CountryBySlug() = %q", got)
	}
	if NewEndpoints("").Base != DefaultBaseURL {
		t.Error("empty base should use DefaultBaseURL")
	}
}

func TestDo_Headers(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := New(ts.URL, WithHTTPClient(ts.Client()))
	err := c.Do(context.Background(), Request{
		URL:     ts.URL,
		Headers: map[string]string{"Authorization": "Bearer abc", "Content-Type": "text/plain"},
	}, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if got.Get("Authorization") != "Bearer abc" {
		t.Errorf("Authorization = %q", got.Get("Authorization"))
	}
	if got.Get("Content-Type") != "text/plain" {
		t.Errorf("caller headers should override defaults, got %q", got.Get("Content-Type"))
	}
	if got.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID should be set")
	}
}

func TestDo_FailureMessages(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantServer string
	}{
		{"server error field", 422, `{"error":"Email has already been taken"}`, "Email has already been taken", "Email has already been taken"},
		{"no error field", 500, `{"message":"x"}`, "HTTP error! status: 500", ""},
		{"unparsable body", 502, `<html>bad gateway</html>`, "HTTP error! status: 502", ""},
		{"empty body", 503, ``, "HTTP error! status: 503", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			err := New(ts.URL).Do(context.Background(), Request{URL: ts.URL}, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if gerrors.Message(err) != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", gerrors.Message(err), tt.wantMsg)
			}
			if gerrors.ServerMessage(err) != tt.wantServer {
				t.Errorf("ServerMessage() = %q, want %q", gerrors.ServerMessage(err), tt.wantServer)
			}
			if gerrors.Status(err) != tt.status {
				t.Errorf("Status() = %d", gerrors.Status(err))
			}
		})
	}
}

func TestDo_DecodeFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer ts.Close()

	var out map[string]any
	err := New(ts.URL).Do(context.Background(), Request{URL: ts.URL}, &out)
	if !errors.Is(err, gerrors.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestDo_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := New(url).Do(context.Background(), Request{URL: url}, nil)
	if !errors.Is(err, gerrors.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
	if gerrors.Status(err) != 0 {
		t.Error("transport failure should carry no status")
	}
}

func TestDo_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	err := New(ts.URL, WithTimeout(20*time.Millisecond)).Do(context.Background(), Request{URL: ts.URL}, nil)
	if !errors.Is(err, gerrors.ErrNetwork) {
		t.Errorf("expected ErrNetwork on timeout, got %v", err)
	}
}

func newDevBackend(t *testing.T) (*devserver.Server, string) {
	t.Helper()
	s, err := devserver.New(devserver.Options{BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts.URL
}

func TestTypedCalls_AgainstDevServer(t *testing.T) {
	_, url := newDevBackend(t)
	ctx := context.Background()

	anon := New(url)
	if _, err := anon.SignUp(ctx, Registration{Email: "ana@example.com", Password: "secret1", PasswordConfirmation: "secret1"}); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	resp, err := anon.SignIn(ctx, "ana@example.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if resp.Token == "" || resp.User["email"] != "ana@example.com" {
		t.Fatalf("SignIn() = %+v", resp)
	}

	if _, err := anon.ListCountries(ctx, 1); !IsUnauthorized(err) {
		t.Errorf("ListCountries() without auth should be 401, got %v", err)
	}

	c := New(url, WithAuth(staticAuth{"Authorization": "Bearer " + resp.Token}))
	page, err := c.ListCountries(ctx, 2)
	if err != nil {
		t.Fatalf("ListCountries() error = %v", err)
	}
	if page.Pagination.Page != 2 || len(page.Data) != devserver.DefaultPageSize {
		t.Errorf("page = %+v", page.Pagination)
	}

	detail, err := c.GetCountry(ctx, string(page.Data[0].ID))
	if err != nil {
		t.Fatalf("GetCountry() error = %v", err)
	}
	if detail.Name != page.Data[0].Name {
		t.Errorf("GetCountry() name = %q, want %q", detail.Name, page.Data[0].Name)
	}

	if _, err := c.GetCountry(ctx, "atlantis"); !errors.Is(err, gerrors.ErrNotFound) {
		t.Errorf("GetCountry(atlantis) = %v, want ErrNotFound", err)
	}

	notice, err := c.RequestPasswordReset(ctx, "ana@example.com")
	if err != nil || !strings.Contains(notice.Message, "reset") {
		t.Errorf("RequestPasswordReset() = %+v, %v", notice, err)
	}

	if _, err := c.VerifyEmail(ctx, resp.Token); err != nil {
		t.Errorf("VerifyEmail() error = %v", err)
	}

	if err := c.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if _, err := c.ListCountries(ctx, 1); !IsUnauthorized(err) {
		t.Errorf("token should be revoked after SignOut, got %v", err)
	}
}
