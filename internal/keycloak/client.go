// Package keycloak talks to the configured Keycloak realm: code
// exchange, userinfo lookup, and the realm-admin role check.
package keycloak

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"keycloak-portal/internal/config"
	"keycloak-portal/internal/logger"
)

var (
	// ErrTokenRequest means the code exchange failed, either a non-200
	// response or a transport failure.
	ErrTokenRequest = errors.New("token request failed")

	// ErrInvalidToken means Keycloak rejected the access token.
	ErrInvalidToken = errors.New("keycloak rejected the access token")

	// ErrRequest means a request to Keycloak failed at the transport
	// level. Callers must not confuse this with a negative answer.
	ErrRequest = errors.New("keycloak request failed")
)

// TokenSet is the token endpoint response.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Client performs the OAuth2 calls against the realm. The HTTP client
// is injected and shared across requests for connection pooling.
type Client struct {
	cfg   config.Config
	http  *http.Client
	oauth *oauth2.Config
}

func New(cfg config.Config, httpClient *http.Client) *Client {
	return &Client{
		cfg:  cfg,
		http: httpClient,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI(),
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL(),
				TokenURL: cfg.TokenURL(),
				// The realm's client expects credentials in the form
				// body, not a Basic auth header.
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{oidc.ScopeOpenID},
		},
	}
}

// LoginURL is the external authorization URL that starts the login flow.
func (c *Client) LoginURL() string {
	return c.oauth.AuthCodeURL("")
}

// ExchangeCode redeems the authorization code at the token endpoint.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenSet, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		var refused *oauth2.RetrieveError
		if errors.As(err, &refused) {
			logger.Error("token request returned non-200", map[string]any{
				"status": refused.Response.StatusCode,
				"body":   string(refused.Body),
			})
			return nil, fmt.Errorf("%w: status %d", ErrTokenRequest, refused.Response.StatusCode)
		}
		logger.Error("token exchange failed", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrTokenRequest, err)
	}

	tokens := &TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		tokens.IDToken = idToken
	}
	if n, ok := tok.Extra("expires_in").(float64); ok {
		tokens.ExpiresIn = int(n)
	}
	return tokens, nil
}

// FetchUserInfo asks the userinfo endpoint who the token belongs to.
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	resp, err := c.get(ctx, c.cfg.UserInfoURL(), accessToken)
	if err != nil {
		logger.Error("userinfo request failed", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("userinfo rejected access token", map[string]any{
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return nil, fmt.Errorf("%w: status %d", ErrInvalidToken, resp.StatusCode)
	}

	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrRequest, err)
	}
	return info, nil
}

// IsRealmAdmin reports whether the user holds the realm-admin role.
// A non-200 answer means not-admin; only transport failures error.
func (c *Client) IsRealmAdmin(ctx context.Context, accessToken, userID string) (bool, error) {
	resp, err := c.get(ctx, c.cfg.RoleMappingsURL(userID), accessToken)
	if err != nil {
		logger.Error("role mappings request failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return false, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Warn("role mappings lookup refused, treating as not-admin", map[string]any{
			"user_id": userID,
			"status":  resp.StatusCode,
			"body":    string(body),
		})
		return false, nil
	}

	var mappings RoleMappings
	if err := json.NewDecoder(resp.Body).Decode(&mappings); err != nil {
		return false, fmt.Errorf("%w: decode response: %v", ErrRequest, err)
	}

	_, ok := flattenClientRoles(mappings)[adminRole]
	return ok, nil
}

func (c *Client) get(ctx context.Context, rawURL, accessToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return c.http.Do(req)
}
