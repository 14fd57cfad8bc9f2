package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/avasilenko/scribe/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
//
// Route policy is declared structurally: everything registered on the
// `private` group passes through RequireAuth, so a handler that touches
// post data or a dashboard view cannot be reached anonymously.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Security headers on every response
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is layered
	// on top of CSRF's request replacement
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(cfg.AuthMiddleware.Handler())

	// Load HTML templates
	tmpl := template.Must(template.New("").ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	router.Static("/static", cfg.StaticPath)

	authController := NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.GoogleProvider)
	postsController := NewPostsController(cfg.PostStore)
	pagesController := NewPagesController()
	health := NewHealthController(cfg.Database, cfg.Version)

	// Public routes
	router.GET("/", pagesController.Landing)
	router.GET("/privacy_policy", pagesController.PrivacyPolicy)
	router.GET("/terms", pagesController.Terms)
	router.GET("/health", health.Status)

	router.GET("/sign_up", authController.SignUpPage)
	router.POST("/sign_up", authController.SignUp)
	router.GET("/login", authController.LoginPage)
	router.POST("/login", authController.Login)

	if cfg.GoogleProvider != nil {
		router.GET("/auth/google", authController.GoogleRedirect)
		router.GET("/auth/google/dashboard", authController.GoogleCallback)
	}

	// Authenticated-only routes
	private := router.Group("/", cfg.AuthMiddleware.RequireAuth())
	private.GET("/logout", authController.Logout)
	private.GET("/dashboard", postsController.Dashboard)
	private.GET("/create", postsController.CreatePage)
	private.POST("/create", postsController.Create)
	private.GET("/posts", postsController.ListPosts)
	private.GET("/view_posts/:postId", postsController.ViewPost)

	return router
}
