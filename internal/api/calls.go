package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dbmrq/globe/internal/country"
)

// Credentials is the sign-in request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up request body.
type Registration struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// SignInResponse is the sign-in response body.
type SignInResponse struct {
	User  map[string]any `json:"user"`
	Token string         `json:"token"`
}

// Notice is a response carrying an informational message.
type Notice struct {
	Message string `json:"message"`
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*SignInResponse, error) {
	var out SignInResponse
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    c.endpoints.SignIn,
		Body:   Credentials{Email: email, Password: password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp creates an account. The response body is returned as-is.
func (c *Client) SignUp(ctx context.Context, r Registration) (map[string]any, error) {
	out := map[string]any{}
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    c.endpoints.SignUp,
		Body:   r,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SignOut ends the server-side session.
func (c *Client) SignOut(ctx context.Context) error {
	return c.Do(ctx, Request{
		Method:  http.MethodPost,
		URL:     c.endpoints.SignOut,
		Headers: c.authHeaders(),
	}, nil)
}

// ListCountries fetches one page of the country list.
func (c *Client) ListCountries(ctx context.Context, page int) (*country.Page, error) {
	url := c.endpoints.Countries
	if page > 0 {
		url += "?page=" + strconv.Itoa(page)
	}
	var out country.Page
	err := c.Do(ctx, Request{
		Method:  http.MethodGet,
		URL:     url,
		Headers: c.authHeaders(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCountry fetches the detail record for slug (a country ID).
func (c *Client) GetCountry(ctx context.Context, slug string) (*country.Detail, error) {
	var out country.Detail
	err := c.Do(ctx, Request{
		Method:  http.MethodGet,
		URL:     c.endpoints.CountryBySlug(slug),
		Headers: c.authHeaders(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset asks the backend to send reset instructions.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (*Notice, error) {
	var out Notice
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    c.endpoints.PasswordReset,
		Body:   map[string]string{"email": email},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail confirms an email address with the token sent to it.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*Notice, error) {
	var out Notice
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    c.endpoints.EmailVerification,
		Body:   map[string]string{"token": token},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
