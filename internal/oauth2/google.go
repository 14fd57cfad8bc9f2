// Package oauth2 implements the Google sign-in flow: authorization
// redirect, code exchange and profile lookup. Only the stable account
// id ("sub") is consumed; access tokens are discarded after the profile
// fetch since the app never calls Google APIs on the user's behalf.
package oauth2

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avasilenko/scribe/internal/config"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// Profile is the subset of the Google userinfo response the app needs.
type Profile struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GoogleProvider drives the OAuth2 authorization-code flow against
// Google's endpoints.
type GoogleProvider struct {
	clientID     string
	clientSecret string
	callbackURL  string
	httpClient   *http.Client

	// Overridable for tests
	authURL     string
	tokenURL    string
	userInfoURL string
}

// NewGoogleProvider creates a provider from the application config.
func NewGoogleProvider(cfg config.GoogleOAuth) *GoogleProvider {
	return NewGoogleProviderWithEndpoints(cfg, googleAuthURL, googleTokenURL, googleUserInfoURL)
}

// NewGoogleProviderWithEndpoints creates a provider pointed at explicit
// endpoint URLs, letting tests stand in for Google's servers.
func NewGoogleProviderWithEndpoints(cfg config.GoogleOAuth, authURL, tokenURL, userInfoURL string) *GoogleProvider {
	return &GoogleProvider{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		callbackURL:  cfg.CallbackURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		authURL:     authURL,
		tokenURL:    tokenURL,
		userInfoURL: userInfoURL,
	}
}

// BuildAuthURL constructs the authorization URL for the sign-in flow
// along with a random state parameter for CSRF protection. The caller
// must stash the state and verify it on the callback.
func (p *GoogleProvider) BuildAuthURL() (authURL, state string, err error) {
	state, err = generateState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	params := url.Values{}
	params.Set("client_id", p.clientID)
	params.Set("redirect_uri", p.callbackURL)
	params.Set("response_type", "code")
	params.Set("scope", "openid profile")
	params.Set("state", state)

	return p.authURL + "?" + params.Encode(), state, nil
}

// ExchangeCode exchanges an authorization code for an access token.
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("client_id", p.clientID)
	data.Set("client_secret", p.clientSecret)
	data.Set("redirect_uri", p.callbackURL)

	req, err := http.NewRequestWithContext(ctx, "POST", p.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return "", fmt.Errorf("token exchange failed: %s - %s", errResp.Error, errResp.ErrorDescription)
		}
		return "", fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}

	return tokenResp.AccessToken, nil
}

// FetchProfile retrieves the authenticated user's profile. The Sub
// field is the stable account identifier the identity store keys on.
func (p *GoogleProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("profile fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}
	if profile.Sub == "" {
		return nil, fmt.Errorf("profile response missing account id")
	}

	return &profile, nil
}

// generateState creates a random state value for CSRF protection.
func generateState() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
