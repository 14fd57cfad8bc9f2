package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/avasilenko/scribe/internal/config"
	"github.com/avasilenko/scribe/internal/oauth2"
)

func TestSignUpThenDashboard(t *testing.T) {
	app := setupApp(t, nil)

	cookie := app.signUp(t, "alice", "pw123")

	rr := app.do(http.MethodGet, "/dashboard", cookie, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /dashboard status = %d, want 200", rr.Code)
	}
	if body := rr.Body.String(); !strings.Contains(body, "alice") {
		t.Error("dashboard does not greet the logged-in user")
	}
}

func TestSignUpDuplicateUsername(t *testing.T) {
	app := setupApp(t, nil)
	app.signUp(t, "alice", "pw123")

	rr := app.do(http.MethodPost, "/sign_up", nil, url.Values{
		"username": {"alice"},
		"password": {"different"},
	})
	if rr.Code != http.StatusFound {
		t.Fatalf("duplicate sign up status = %d, want 302", rr.Code)
	}
	loc := rr.Header().Get("Location")
	if !strings.HasPrefix(loc, "/sign_up?error=") {
		t.Errorf("duplicate sign up redirect = %q, want /sign_up?error=...", loc)
	}
	if sessionCookie(rr) != nil {
		t.Error("duplicate sign up must not establish a session")
	}
}

func TestSignUpEmptyPassword(t *testing.T) {
	app := setupApp(t, nil)

	rr := app.do(http.MethodPost, "/sign_up", nil, url.Values{
		"username": {"alice"},
		"password": {""},
	})
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "/sign_up?error=") {
		t.Errorf("redirect = %q, want /sign_up?error=...", loc)
	}
}

func TestLogin(t *testing.T) {
	app := setupApp(t, nil)
	app.signUp(t, "alice", "pw123")

	rr := app.do(http.MethodPost, "/login", nil, url.Values{
		"username": {"alice"},
		"password": {"pw123"},
	})
	if rr.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("login redirect = %q, want /dashboard", loc)
	}

	cookie := sessionCookie(rr)
	if cookie == nil {
		t.Fatal("login did not set a session cookie")
	}

	rr = app.do(http.MethodGet, "/dashboard", cookie, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("GET /dashboard after login status = %d, want 200", rr.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupApp(t, nil)
	app.signUp(t, "alice", "pw123")

	rr := app.do(http.MethodPost, "/login", nil, url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "/login?error=") {
		t.Errorf("redirect = %q, want /login?error=...", loc)
	}

	// A failed login must not produce a usable session.
	if cookie := sessionCookie(rr); cookie != nil {
		rr = app.do(http.MethodGet, "/dashboard", cookie, nil)
		if rr.Code != http.StatusFound {
			t.Errorf("cookie from failed login reached the dashboard, status = %d", rr.Code)
		}
	}
}

func TestLoginUnknownUser(t *testing.T) {
	app := setupApp(t, nil)

	rr := app.do(http.MethodPost, "/login", nil, url.Values{
		"username": {"ghost"},
		"password": {"whatever"},
	})
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "/login?error=") {
		t.Errorf("redirect = %q, want /login?error=...", loc)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	app := setupApp(t, nil)
	cookie := app.signUp(t, "alice", "pw123")

	rr := app.do(http.MethodGet, "/logout", cookie, nil)
	if rr.Code != http.StatusFound {
		t.Fatalf("logout status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("logout redirect = %q, want /", loc)
	}

	// The old cookie is dead server-side and must not resolve anymore.
	rr = app.do(http.MethodGet, "/dashboard", cookie, nil)
	if rr.Code != http.StatusFound {
		t.Errorf("GET /dashboard after logout status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}
}

func TestLoginPageRedirectsWhenAuthenticated(t *testing.T) {
	app := setupApp(t, nil)
	cookie := app.signUp(t, "alice", "pw123")

	for _, path := range []string{"/login", "/sign_up"} {
		rr := app.do(http.MethodGet, path, cookie, nil)
		if rr.Code != http.StatusFound {
			t.Errorf("GET %s while logged in status = %d, want 302", path, rr.Code)
			continue
		}
		if loc := rr.Header().Get("Location"); loc != "/dashboard" {
			t.Errorf("GET %s redirect = %q, want /dashboard", path, loc)
		}
	}
}

func testGoogleProvider() *oauth2.GoogleProvider {
	return oauth2.NewGoogleProvider(config.GoogleOAuth{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		CallbackURL:  "http://localhost:3000/auth/google/dashboard",
	})
}

func TestGoogleRedirectCarriesState(t *testing.T) {
	app := setupApp(t, testGoogleProvider())

	rr := app.do(http.MethodGet, "/auth/google", nil, nil)
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}

	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("failed to parse redirect location: %v", err)
	}
	if loc.Query().Get("state") == "" {
		t.Error("redirect to Google is missing the state parameter")
	}
	if loc.Query().Get("client_id") != "test-client" {
		t.Errorf("client_id = %q, want test-client", loc.Query().Get("client_id"))
	}
	if sessionCookie(rr) == nil {
		t.Error("starting the flow did not persist the state in a session")
	}
}

func TestGoogleCallbackSignsIn(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "tok-123", "token_type": "Bearer", "expires_in": 3600}`)
	}))
	defer tokenSrv.Close()

	userInfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sub": "sub-42", "name": "Alice", "email": "alice@example.com"}`)
	}))
	defer userInfoSrv.Close()

	provider := oauth2.NewGoogleProviderWithEndpoints(config.GoogleOAuth{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		CallbackURL:  "http://localhost:3000/auth/google/dashboard",
	}, "http://auth.invalid/o/oauth2", tokenSrv.URL, userInfoSrv.URL)

	app := setupApp(t, provider)

	// Start the flow to stash a state in the session
	rr := app.do(http.MethodGet, "/auth/google", nil, nil)
	if rr.Code != http.StatusFound {
		t.Fatalf("redirect step status = %d, want 302", rr.Code)
	}
	cookie := sessionCookie(rr)
	if cookie == nil {
		t.Fatal("no session cookie from the redirect step")
	}
	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("failed to parse redirect location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("redirect location carries no state")
	}

	rr = app.do(http.MethodGet, "/auth/google/dashboard?code=code-1&state="+url.QueryEscape(state), cookie, nil)
	if rr.Code != http.StatusFound {
		t.Fatalf("callback status = %d, want 302", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/dashboard" {
		t.Fatalf("callback redirect = %q, want /dashboard", got)
	}

	// The session token is renewed on login; use the fresh cookie.
	authed := sessionCookie(rr)
	if authed == nil {
		t.Fatal("callback did not set a session cookie")
	}
	rr = app.do(http.MethodGet, "/dashboard", authed, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("GET /dashboard after google sign-in status = %d, want 200", rr.Code)
	}
}

func TestGoogleCallbackRejectsStateMismatch(t *testing.T) {
	app := setupApp(t, testGoogleProvider())

	rr := app.do(http.MethodGet, "/auth/google", nil, nil)
	cookie := sessionCookie(rr)
	if cookie == nil {
		t.Fatal("no session cookie from the redirect step")
	}

	rr = app.do(http.MethodGet, "/auth/google/dashboard?code=abc&state=forged", cookie, nil)
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}
}

func TestGoogleCallbackRejectsProviderError(t *testing.T) {
	app := setupApp(t, testGoogleProvider())

	rr := app.do(http.MethodGet, "/auth/google/dashboard?error=access_denied", nil, nil)
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}
}
