package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avasilenko/scribe/internal/auth"
	"github.com/avasilenko/scribe/internal/oauth2"
)

// AuthController handles registration, login, logout and the Google
// sign-in flow.
type AuthController struct {
	service        *auth.Service
	sessionManager *auth.SessionManager
	google         *oauth2.GoogleProvider
}

// NewAuthController creates a new authentication controller. The google
// provider may be nil when Google sign-in is not configured.
func NewAuthController(service *auth.Service, sessionManager *auth.SessionManager, google *oauth2.GoogleProvider) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		google:         google,
	}
}

// SignUpPage renders the registration form.
func (ac *AuthController) SignUpPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	c.HTML(http.StatusOK, "sign_up", gin.H{
		"Title":       "Sign Up",
		"CSRFToken":   auth.GetCSRFToken(c),
		"Error":       c.Query("error"),
		"GoogleLogin": ac.google != nil,
	})
}

// SignUp handles the registration form submission. On success the new
// user gets a session and lands on the dashboard.
func (ac *AuthController) SignUp(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := ac.service.Register(username, password)
	if err != nil {
		msg := "Registration failed"
		switch {
		case errors.Is(err, auth.ErrUserExists):
			msg = "That username is already taken"
		case errors.Is(err, auth.ErrPasswordEmpty):
			msg = "Password is required"
		case errors.Is(err, auth.ErrPasswordTooLong):
			msg = "Password is too long"
		default:
			log.Printf("sign up failed for %q: %v", username, err)
		}
		c.Redirect(http.StatusFound, "/sign_up?error="+urlQueryEscape(msg))
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("failed to create session for %q: %v", username, err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// LoginPage renders the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	c.HTML(http.StatusOK, "login", gin.H{
		"Title":       "Login",
		"CSRFToken":   auth.GetCSRFToken(c),
		"Error":       c.Query("error"),
		"GoogleLogin": ac.google != nil,
	})
}

// Login handles the login form submission. Failures carry one generic
// message regardless of which field was wrong.
func (ac *AuthController) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := ac.service.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Printf("login failed for %q: %v", username, err)
		}
		c.Redirect(http.StatusFound, "/login?error="+urlQueryEscape("Invalid username or password"))
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("failed to create session for %q: %v", username, err)
		c.Redirect(http.StatusFound, "/login?error="+urlQueryEscape("Could not start a session"))
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout destroys the session and returns to the landing page.
func (ac *AuthController) Logout(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)
	c.Redirect(http.StatusFound, "/")
}

// GoogleRedirect starts the Google sign-in flow.
func (ac *AuthController) GoogleRedirect(c *gin.Context) {
	authURL, state, err := ac.google.BuildAuthURL()
	if err != nil {
		log.Printf("failed to build google auth url: %v", err)
		c.Redirect(http.StatusFound, "/login?error="+urlQueryEscape("Google sign-in is unavailable"))
		return
	}

	ac.sessionManager.PutOAuthState(c.Request, state)
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback completes the Google sign-in flow: verifies state,
// exchanges the code, resolves the profile to a user (find-or-create)
// and establishes a session. Any failure lands back on /login.
func (ac *AuthController) GoogleCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		log.Printf("google callback returned error: %s", errParam)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	state := c.Query("state")
	expected := ac.sessionManager.PopOAuthState(c.Request)
	if state == "" || state != expected {
		log.Printf("google callback state mismatch")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	accessToken, err := ac.google.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		log.Printf("google code exchange failed: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	profile, err := ac.google.FetchProfile(c.Request.Context(), accessToken)
	if err != nil {
		log.Printf("google profile fetch failed: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := ac.service.AuthenticateGoogle(profile.Sub)
	if err != nil {
		log.Printf("google identity resolution failed: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("failed to create session for google user: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}
