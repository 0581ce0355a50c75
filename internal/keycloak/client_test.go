package keycloak

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"keycloak-portal/internal/config"
)

func testConfig(keycloakURL string) config.Config {
	return config.Config{
		BaseURL:             "https://portal.test",
		KeycloakBaseURL:     keycloakURL,
		KeycloakExternalURL: "https://sso.test",
		Realm:               "portal",
		ClientID:            "portal-client",
		ClientSecret:        "s3cret",
	}
}

func TestLoginURL(t *testing.T) {
	client := New(testConfig("http://keycloak.test"), http.DefaultClient)

	raw := client.LoginURL()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("login url does not parse: %v", err)
	}

	if !strings.HasPrefix(raw, "https://sso.test/realms/portal/protocol/openid-connect/auth") {
		t.Errorf("login url points at %q", raw)
	}

	q := u.Query()
	if q.Get("client_id") != "portal-client" {
		t.Errorf("client_id: got %q", q.Get("client_id"))
	}
	if q.Get("response_type") != "code" {
		t.Errorf("response_type: got %q", q.Get("response_type"))
	}
	if q.Get("scope") != "openid" {
		t.Errorf("scope: got %q", q.Get("scope"))
	}
	if q.Get("redirect_uri") != "https://portal.test/keycloak/login/callback" {
		t.Errorf("redirect_uri: got %q", q.Get("redirect_uri"))
	}
}

func TestExchangeCode(t *testing.T) {
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/realms/portal/protocol/openid-connect/token" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type: got %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-123","refresh_token":"rt-456","id_token":"idt-789","token_type":"Bearer","expires_in":300}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), srv.Client())

	tokens, err := client.ExchangeCode(context.Background(), "auth-code-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tokens.AccessToken != "at-123" {
		t.Errorf("access token: got %q", tokens.AccessToken)
	}
	if tokens.RefreshToken != "rt-456" {
		t.Errorf("refresh token: got %q", tokens.RefreshToken)
	}
	if tokens.IDToken != "idt-789" {
		t.Errorf("id token: got %q", tokens.IDToken)
	}
	if tokens.ExpiresIn != 300 {
		t.Errorf("expires_in: got %d", tokens.ExpiresIn)
	}
	if gotForm.Get("grant_type") != "authorization_code" {
		t.Errorf("grant_type: got %q", gotForm.Get("grant_type"))
	}
	if gotForm.Get("code") != "auth-code-1" {
		t.Errorf("code: got %q", gotForm.Get("code"))
	}
	if gotForm.Get("client_id") != "portal-client" {
		t.Errorf("client_id: got %q", gotForm.Get("client_id"))
	}
	if gotForm.Get("client_secret") != "s3cret" {
		t.Errorf("client_secret must travel in the form body, got %q", gotForm.Get("client_secret"))
	}
	if gotForm.Get("redirect_uri") != "https://portal.test/keycloak/login/callback" {
		t.Errorf("redirect_uri: got %q", gotForm.Get("redirect_uri"))
	}
}

func TestExchangeCode_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), srv.Client())

	_, err := client.ExchangeCode(context.Background(), "stale-code")
	if !errors.Is(err, ErrTokenRequest) {
		t.Fatalf("expected ErrTokenRequest, got %v", err)
	}
}

func TestExchangeCode_NoAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), srv.Client())

	_, err := client.ExchangeCode(context.Background(), "any")
	if !errors.Is(err, ErrTokenRequest) {
		t.Fatalf("expected ErrTokenRequest, got %v", err)
	}
}

func TestExchangeCode_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := New(testConfig(srv.URL), http.DefaultClient)

	_, err := client.ExchangeCode(context.Background(), "any")
	if !errors.Is(err, ErrTokenRequest) {
		t.Fatalf("expected ErrTokenRequest, got %v", err)
	}
}

func TestFetchUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/realms/portal/protocol/openid-connect/userinfo" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer at-123" {
			t.Errorf("authorization: got %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sub":"user-1","email":"jo@example.com"}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), srv.Client())

	info, err := client.FetchUserInfo(context.Background(), "at-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info["sub"] != "user-1" {
		t.Errorf("sub: got %v", info["sub"])
	}
}

func TestFetchUserInfo_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), srv.Client())

	_, err := client.FetchUserInfo(context.Background(), "bad")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestFetchUserInfo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(testConfig(srv.URL), http.DefaultClient)

	_, err := client.FetchUserInfo(context.Background(), "any")
	if !errors.Is(err, ErrRequest) {
		t.Fatalf("expected ErrRequest, got %v", err)
	}
}

func TestIsRealmAdmin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/realms/portal/users/user-1/role-mappings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"clientMappings": {
				"realm-management": {"mappings": [{"name": "realm-admin"}, {"name": "view-users"}]}
			}
		}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), srv.Client())

	admin, err := client.IsRealmAdmin(context.Background(), "at-123", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !admin {
		t.Error("expected realm-admin to be recognized")
	}
}

func TestIsRealmAdmin_NoAdminRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"clientMappings": {"account": {"mappings": [{"name": "manage-account"}]}}}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), srv.Client())

	admin, err := client.IsRealmAdmin(context.Background(), "at-123", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin {
		t.Error("expected not-admin")
	}
}

func TestIsRealmAdmin_Non200FailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), srv.Client())

	admin, err := client.IsRealmAdmin(context.Background(), "at-123", "user-1")
	if err != nil {
		t.Fatalf("non-200 must not error, got %v", err)
	}
	if admin {
		t.Error("non-200 must mean not-admin")
	}
}

func TestIsRealmAdmin_NetworkErrorFailsLoud(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(testConfig(srv.URL), http.DefaultClient)

	_, err := client.IsRealmAdmin(context.Background(), "at-123", "user-1")
	if !errors.Is(err, ErrRequest) {
		t.Fatalf("expected ErrRequest on transport failure, got %v", err)
	}
}
