package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avasilenko/scribe/internal/auth"
	"github.com/avasilenko/scribe/internal/config"
	"github.com/avasilenko/scribe/internal/database"
	"github.com/avasilenko/scribe/internal/database/posts"
	"github.com/avasilenko/scribe/internal/database/users"
	http_controllers "github.com/avasilenko/scribe/internal/http"
	"github.com/avasilenko/scribe/internal/oauth2"
)

func Serve(router *gin.Engine, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Scribe v%s", version)

	// Validate template and static paths up front; a server without its
	// views is useless.
	if _, err := os.Stat(cfg.UI.TemplatesPath); os.IsNotExist(err) {
		log.Fatalf("Templates path %s does not exist", cfg.UI.TemplatesPath)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	postRepo := posts.NewRepository(db.DB)

	// Session secret doubles as the CSRF signing key
	sessionSecret := cfg.Auth.SessionSecret
	if sessionSecret == "" {
		sessionSecret, err = auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		log.Printf("Generated session secret (set SESSION_SECRET to persist sessions across restarts)")
	}
	csrfSecret, err := hex.DecodeString(sessionSecret)
	if err != nil {
		// Not hex, use as raw bytes
		csrfSecret = []byte(sessionSecret)
	}

	authService := auth.NewService(userRepo, cfg.Auth)

	// Get underlying SQL DB for the session store
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authMiddleware := auth.NewMiddleware(authService, sessionManager)

	var googleProvider *oauth2.GoogleProvider
	if cfg.GoogleOAuth.Enabled() {
		googleProvider = oauth2.NewGoogleProvider(cfg.GoogleOAuth)
		log.Printf("Google sign-in enabled, callback %s", cfg.GoogleOAuth.CallbackURL)
	} else {
		log.Printf("WARNING: Google sign-in is not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET to enable it.")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		PostStore:      postRepo,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		GoogleProvider: googleProvider,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg)
}
