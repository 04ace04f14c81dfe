package api

import (
	"context"
	"net/http"

	"github.com/bazaargo/storefront/internal/domain"
)

// ExchangeCredentialRequest trades a provider-verified phone credential plus
// user-supplied profile fields for a backend session.
type ExchangeCredentialRequest struct {
	Credential string `json:"credential"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

func (c *Client) ExchangeCredential(ctx context.Context, req ExchangeCredentialRequest) (*domain.AuthSession, error) {
	var out domain.AuthSession
	if err := c.post(ctx, "/auth/verify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

func (c *Client) SubscribeNewsletter(ctx context.Context, email string) error {
	return c.post(ctx, "/newsletter", NewsletterRequest{Email: email}, nil)
}
