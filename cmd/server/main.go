package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"spellquest/internal/config"
	"spellquest/internal/database"
	"spellquest/internal/handlers"
	"spellquest/internal/identity"
	"spellquest/internal/repository"
	"spellquest/internal/security"
	"spellquest/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

const guestTokenTTL = 365 * 24 * time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations for the active dialect
	migrationsDir := filepath.Join(cfg.MigrationsPath, db.Dialect.MigrationsSubdir())
	if err := db.RunMigrations(migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed bad words filter
	if err := db.SeedBadWords(); err != nil {
		log.Printf("Warning: Failed to seed bad words filter: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	shopRepo := repository.NewShopRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	authService := service.NewAuthService(userRepo, db, cfg.SessionDuration)
	listService := service.NewListService(listRepo, db)
	achievementService := service.NewAchievementService(achievementRepo, sessionRepo)
	challengeService := service.NewChallengeService(challengeRepo, userRepo, listRepo, emailService)
	gameService := service.NewGameService(sessionRepo, listRepo, leaderboardRepo, listService, achievementService, challengeService)
	shopService := service.NewShopService(shopRepo, userRepo)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo)
	reportService := service.NewReportService(reportRepo, emailService, cfg.AdminEmail)

	// Seed the built-in public lists and the shop catalog
	if err := listService.SeedBuiltInLists(); err != nil {
		log.Printf("Warning: Failed to seed built-in lists: %v", err)
	}
	if err := shopService.SeedCatalog(); err != nil {
		log.Printf("Warning: Failed to seed shop catalog: %v", err)
	}

	guestSecret := cfg.GuestTokenSecret
	if guestSecret == "" {
		// Tokens minted with a per-boot secret do not survive restarts
		guestSecret = security.GenerateSessionID()
		log.Println("Warning: GUEST_TOKEN_SECRET not set, guest identities reset on restart")
	}
	tokens := identity.NewTokenIssuer(guestSecret, guestTokenTTL)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, tokens, cfg.ClientOrigin)
	authHandler := handlers.NewAuthHandler(authService, oauthProviders, cfg.OAuthRedirectBaseURL, cfg.ClientOrigin)
	listHandler := handlers.NewListHandler(listService, achievementService)
	gameHandler := handlers.NewGameHandler(gameService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	shopHandler := handlers.NewShopHandler(shopService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Accounts and sign-in
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)
	mux.HandleFunc("GET /api/auth/providers", authHandler.Providers)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Word lists
	mux.HandleFunc("GET /api/word-lists", listHandler.Index)
	mux.HandleFunc("POST /api/word-lists", middleware.RequireUser(listHandler.Create))
	mux.HandleFunc("GET /api/word-lists/{id}", listHandler.Get)
	mux.HandleFunc("PUT /api/word-lists/{id}", middleware.RequireUser(listHandler.Update))
	mux.HandleFunc("DELETE /api/word-lists/{id}", middleware.RequireUser(listHandler.Delete))
	mux.HandleFunc("POST /api/word-lists/{id}/share", middleware.RequireUser(listHandler.Share))
	mux.HandleFunc("GET /api/word-lists/{id}/illustrations", listHandler.Illustrations)
	mux.HandleFunc("PUT /api/word-lists/{id}/illustrations/{wordId}", middleware.RequireUser(listHandler.SetIllustration))

	// Game sessions (open to guests)
	mux.HandleFunc("POST /api/game-sessions", gameHandler.Start)
	mux.HandleFunc("GET /api/game-sessions/recent", middleware.RequireUser(gameHandler.Recent))
	mux.HandleFunc("GET /api/game-sessions/{id}", gameHandler.Get)
	mux.HandleFunc("POST /api/game-sessions/{id}/attempts", gameHandler.SubmitAttempt)
	mux.HandleFunc("POST /api/game-sessions/{id}/complete", gameHandler.Complete)

	// Leaderboard and achievements
	mux.HandleFunc("GET /api/leaderboard", leaderboardHandler.Top)
	mux.HandleFunc("GET /api/achievements", middleware.RequireUser(achievementHandler.Index))

	// Head-to-head challenges
	mux.HandleFunc("POST /api/challenges", middleware.RequireUser(challengeHandler.Create))
	mux.HandleFunc("GET /api/challenges", middleware.RequireUser(challengeHandler.Index))
	mux.HandleFunc("GET /api/challenges/{id}", middleware.RequireUser(challengeHandler.Get))
	mux.HandleFunc("POST /api/challenges/{id}/accept", middleware.RequireUser(challengeHandler.Accept))
	mux.HandleFunc("POST /api/challenges/{id}/decline", middleware.RequireUser(challengeHandler.Decline))

	// Shop
	mux.HandleFunc("GET /api/shop/items", shopHandler.Catalog)
	mux.HandleFunc("GET /api/user-items", middleware.RequireUser(shopHandler.Inventory))
	mux.HandleFunc("POST /api/user-items/purchase", middleware.RequireUser(shopHandler.Purchase))
	mux.HandleFunc("PUT /api/user/appearance", middleware.RequireUser(shopHandler.UpdateAppearance))

	// Flagged word reports (open to guests)
	mux.HandleFunc("POST /api/flagged-words", middleware.RateLimit(reportHandler.Flag))

	// Wrap with identity resolution, CORS and logging
	handler := middleware.CORS(middleware.Resolve(handlers.Logging(mux)))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
	}
}
