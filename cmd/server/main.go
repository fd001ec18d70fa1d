package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tentennnn/anachaktopup/internal/auth"
	"github.com/Tentennnn/anachaktopup/internal/catalog"
	"github.com/Tentennnn/anachaktopup/internal/clock"
	"github.com/Tentennnn/anachaktopup/internal/config"
	"github.com/Tentennnn/anachaktopup/internal/handlers"
	"github.com/Tentennnn/anachaktopup/internal/kvstore"
	"github.com/Tentennnn/anachaktopup/internal/ledger"
	"github.com/Tentennnn/anachaktopup/internal/notify"
	"github.com/Tentennnn/anachaktopup/internal/purchase"
	"github.com/Tentennnn/anachaktopup/internal/settings"
	"github.com/Tentennnn/anachaktopup/internal/status"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

func main() {
	// Configure slog to output DEBUG level messages
	// This should be done as early as possible in main
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// Using TextHandler for console readability; for production JSONHandler might be preferred.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init persistence
	kv, err := kvstore.OpenSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to open store database", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	clk := clock.Real{}
	catalogRepo := catalog.New(kv)
	siteSettings := settings.New(kv)
	guard := auth.NewGuard(cfg.AdminPassword)

	var ledgerOpts []ledger.Option
	if cfg.RecentPurchasesURL != "" {
		ledgerOpts = append(ledgerOpts, ledger.WithRemoteSource(cfg.RecentPurchasesURL, nil))
	}
	purchaseLedger := ledger.New(kv, clk, ledgerOpts...)
	purchaseLedger.Subscribe(func() {
		slog.Info("Purchase recorded, activity feed updated")
	})

	var sink purchase.Sink
	if cfg.DiscordWebhookURL != "" {
		sink = notify.NewDiscordWebhook(cfg.DiscordWebhookURL, nil, clk)
	}
	pipeline := purchase.New(sink, purchaseLedger, siteSettings.StoreDisabled)

	statusClient := status.NewClient(cfg.StatusAPIBase, nil)

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure // Configurable for production
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Setup Handlers
	siteHandler := &handlers.SiteHandler{
		Catalog:      catalogRepo,
		Settings:     siteSettings,
		Ledger:       purchaseLedger,
		Status:       statusClient,
		Pipeline:     pipeline,
		Configured:   func() bool { return cfg.DiscordWebhookURL != "" && !siteSettings.StoreDisabled() },
		SessionStore: sessionStore,
		Templates:    templates,
	}
	adminHandler := &handlers.AdminHandler{
		Guard:        guard,
		Catalog:      catalogRepo,
		Settings:     siteSettings,
		SessionStore: sessionStore,
		Templates:    templates,
		UploadDir:    "static/uploads",
	}
	if err := os.MkdirAll(adminHandler.UploadDir, 0o755); err != nil {
		slog.Error("Failed to create upload directory", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate Limiter for purchase submissions
	rateLimiter := handlers.NewRateLimiter(30 * time.Second)

	// Public Routes
	mux.HandleFunc("/", siteHandler.Home)
	mux.HandleFunc("/store", siteHandler.StorePage)
	mux.HandleFunc("/buy", siteHandler.BuyForm)
	mux.HandleFunc("POST /buy", rateLimiter.Middleware(siteHandler.SubmitPurchase))
	mux.HandleFunc("/api/recent-purchases", siteHandler.RecentPurchasesAPI)

	mux.HandleFunc("/login", adminHandler.LoginGet)
	mux.HandleFunc("POST /login", adminHandler.LoginPost)
	mux.HandleFunc("/logout", adminHandler.Logout)

	// Protected Routes
	mux.HandleFunc("/admin", adminHandler.AuthMiddleware(adminHandler.Dashboard))
	mux.HandleFunc("POST /admin/settings", adminHandler.AuthMiddleware(adminHandler.SaveSettings))
	mux.HandleFunc("POST /admin/store-toggle", adminHandler.AuthMiddleware(adminHandler.ToggleStore))
	mux.HandleFunc("/admin/items/new", adminHandler.AuthMiddleware(adminHandler.ItemForm))
	mux.HandleFunc("/admin/items/edit", adminHandler.AuthMiddleware(adminHandler.ItemForm))
	mux.HandleFunc("POST /admin/items", adminHandler.AuthMiddleware(adminHandler.CreateItem))
	mux.HandleFunc("POST /admin/items/update", adminHandler.AuthMiddleware(adminHandler.UpdateItem))
	mux.HandleFunc("POST /admin/items/delete", adminHandler.AuthMiddleware(adminHandler.DeleteItem))

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure), // Configurable for production
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Wrap the router with middleware chain
	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	// Create a channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Goroutine to start the server
	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-stop

	slog.Info("Shutting down server gracefully...")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
