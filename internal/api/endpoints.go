// Package api is the HTTP client for the countries backend.
package api

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:3000"

// Endpoints holds the backend URLs derived from one base URL.
type Endpoints struct {
	Base              string
	SignUp            string
	SignIn            string
	SignOut           string
	Countries         string
	PasswordReset     string
	EmailVerification string
}

// NewEndpoints builds the endpoint table for base. Empty means DefaultBaseURL.
func NewEndpoints(base string) Endpoints {
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "/")
	return Endpoints{
		Base:              base,
		SignUp:            base + "/sign_up",
		SignIn:            base + "/sign_in",
		SignOut:           base + "/sign_out",
		Countries:         base + "/v1/countries",
		PasswordReset:     base + "/password_reset",
		EmailVerification: base + "/email_verification",
	}
}

// CountryBySlug returns the detail URL for slug.
func (e Endpoints) CountryBySlug(slug string) string {
	return e.Countries + "/" + url.PathEscape(slug)
}
