package http

import (
	"github.com/avasilenko/scribe/internal/auth"
	"github.com/avasilenko/scribe/internal/database"
	"github.com/avasilenko/scribe/internal/database/posts"
	"github.com/avasilenko/scribe/internal/oauth2"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. Everything is injected here at startup;
// no component reaches for globals.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	PostStore *posts.Repository

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Google sign-in; nil when not configured
	GoogleProvider *oauth2.GoogleProvider

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
