package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/nkk09/Cmps271/config"
	"github.com/nkk09/Cmps271/services/oauth"
	"github.com/nkk09/Cmps271/utils/session"
)

func testApp(t *testing.T, oauthEnabled bool) *fiber.App {
	t.Helper()

	cfg := &config.EnviornmentVariable{
		ENABLE_OAUTH:        oauthEnabled,
		ENTRA_TENANT_ID:     "test-tenant",
		ENTRA_CLIENT_ID:     "test-client",
		ENTRA_CLIENT_SECRET: "test-secret",
		ENTRA_REDIRECT_URI:  "http://localhost:8080/api/v1/auth/callback",
	}

	codec := session.NewCodec("test-session-secret")
	entra := oauth.NewEntraClient(oauth.Config{
		TenantID:     cfg.ENTRA_TENANT_ID,
		ClientID:     cfg.ENTRA_CLIENT_ID,
		ClientSecret: cfg.ENTRA_CLIENT_SECRET,
		RedirectURI:  cfg.ENTRA_REDIRECT_URI,
	})

	handler := NewAuthHandler(nil, cfg, codec, entra, nil, nil, nil)

	app := fiber.New()
	app.Get("/auth/login", handler.Login)
	app.Get("/auth/callback", handler.Callback)
	app.Post("/auth/logout", handler.Logout)
	app.Post("/auth/otp/send", handler.OTPSend)
	return app
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginDisabledReturns404(t *testing.T) {
	app := testApp(t, false)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 when OAuth is disabled, got %d", resp.StatusCode)
	}
}

func TestLoginRedirectsWithPKCECookies(t *testing.T) {
	app := testApp(t, true)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("Expected 302 redirect, got %d", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if !strings.Contains(location, "login.microsoftonline.com") {
		t.Errorf("Expected redirect to Microsoft, got %s", location)
	}
	if !strings.Contains(location, "code_challenge_method=S256") {
		t.Errorf("Expected S256 challenge method in %s", location)
	}

	stateCookie := cookieByName(resp, PKCEStateCookie)
	verifierCookie := cookieByName(resp, PKCECodeVerifierCookie)
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("Expected state cookie to be set")
	}
	if verifierCookie == nil || verifierCookie.Value == "" {
		t.Fatal("Expected code_verifier cookie to be set")
	}
	if !stateCookie.HttpOnly || !verifierCookie.HttpOnly {
		t.Error("PKCE cookies must be http-only")
	}
	if stateCookie.MaxAge != pkceCookieMaxAge {
		t.Errorf("Expected state cookie max age %d, got %d", pkceCookieMaxAge, stateCookie.MaxAge)
	}

	// The state in the redirect URL must match the cookie
	if !strings.Contains(location, "state="+stateCookie.Value) {
		t.Error("State in redirect URL does not match state cookie")
	}
}

func TestCallbackMissingParams(t *testing.T) {
	app := testApp(t, true)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing code and state, got %d", resp.StatusCode)
	}
}

func TestCallbackMissingPKCECookies(t *testing.T) {
	app := testApp(t, true)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=xyz", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 without PKCE cookies, got %d", resp.StatusCode)
	}
}

func TestCallbackStateMismatchRejectsWithoutSession(t *testing.T) {
	app := testApp(t, true)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=attacker-state", nil)
	req.AddCookie(&http.Cookie{Name: PKCEStateCookie, Value: "real-state"})
	req.AddCookie(&http.Cookie{Name: PKCECodeVerifierCookie, Value: "real-verifier"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 on state mismatch, got %d", resp.StatusCode)
	}

	// No session may be established on a rejected callback
	if c := cookieByName(resp, session.CookieName); c != nil && c.Value != "" {
		t.Error("Session cookie must not be set on state mismatch")
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "State parameter mismatch") {
		t.Errorf("Expected state mismatch message, got %s", body)
	}
}

func TestCallbackDisabledReturns404(t *testing.T) {
	app := testApp(t, false)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=xyz", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 when OAuth is disabled, got %d", resp.StatusCode)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	app := testApp(t, true)

	// Logout works with no session at all, and again after that
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200 on logout, got %d", resp.StatusCode)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if body["ok"] != true {
			t.Errorf("Expected ok=true, got %v", body)
		}

		cleared := cookieByName(resp, session.CookieName)
		if cleared == nil {
			t.Fatal("Expected session cookie clearing header")
		}
		if cleared.Value != "" || cleared.MaxAge >= 0 {
			t.Errorf("Expected expired empty cookie, got value=%q maxage=%d", cleared.Value, cleared.MaxAge)
		}
	}
}

func TestOTPSendRejectedWhenOAuthEnabled(t *testing.T) {
	app := testApp(t, true)

	req := httptest.NewRequest(http.MethodPost, "/auth/otp/send", strings.NewReader(`{"email":"someone@mail.aub.edu"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 when OAuth is on, got %d", resp.StatusCode)
	}
}
