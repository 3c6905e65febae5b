package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	discordclient "reactboard/clients/discord"
	"reactboard/config"
	"reactboard/db"
	"reactboard/handlers"
	"reactboard/middleware"
	"reactboard/services/backfill"
	"reactboard/services/leaderboard"
	"reactboard/services/ledger"
	"reactboard/services/txmanager"
	"reactboard/usecases/reactions"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.WebhookAlertConfig{
		WebhookURL:  cfg.AlertConfig.WebhookURL,
		Environment: cfg.Environment,
		AppName:     "reactboard",
		LogsURL:     cfg.AlertConfig.LogsURL,
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx, dbConn, cfg.DatabaseSchema); err != nil {
		return err
	}

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	messagesRepo := db.NewPostgresMessagesRepository(dbConn, cfg.DatabaseSchema)
	eventsRepo := db.NewPostgresReactionEventsRepository(dbConn, cfg.DatabaseSchema)
	checkpointsRepo := db.NewPostgresBackfillCheckpointsRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	ledgerService := ledger.NewLedgerService(usersRepo, messagesRepo, eventsRepo, txManager)
	leaderboardService := leaderboard.NewLeaderboardService(eventsRepo)

	// Backfill runs are bound to this context so shutdown aborts them.
	backfillCtx, cancelBackfills := context.WithCancel(context.Background())
	defer cancelBackfills()

	if !cfg.DiscordConfig.IsConfigured() {
		// Non-strict config without a bot token: serve only the HTTP surface.
		log.Printf("⚠️ Running without Discord integration")
		router := mux.NewRouter()
		router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
				log.Printf("❌ Failed to write health check response: %v", err)
			}
		}).Methods("GET")
		return serveHTTP(cfg, alertMiddleware, router, func() {})
	}

	// Two-phase wiring: the usecase needs the backfill service, the backfill
	// service needs the gateway client, and the gateway client needs the
	// session created by the handler. Build the session first, then attach
	// the usecase before the bot connects.
	discordHandler, err := handlers.NewDiscordEventsHandler(
		cfg.DiscordConfig.BotToken, backfillCtx, nil, leaderboardService, alertMiddleware,
	)
	if err != nil {
		return err
	}

	gatewayClient := discordclient.NewDiscordClient(discordHandler.Session())
	backfillService := backfill.NewBackfillService(gatewayClient, ledgerService, checkpointsRepo, cfg.BackfillPageSize)
	reactionsUseCase := reactions.NewReactionsUseCase(ledgerService, backfillService)
	discordHandler.SetReactionsUseCase(reactionsUseCase)

	adminHandler := handlers.NewAdminHandler(backfillCtx, reactionsUseCase, checkpointsRepo, alertMiddleware)

	// Create a new router
	router := mux.NewRouter()
	adminHandler.RegisterRoutes(router)

	if err := discordHandler.StartBot(); err != nil {
		return err
	}

	return serveHTTP(cfg, alertMiddleware, router, func() {
		cancelBackfills()
		discordHandler.StopBot()
	})
}

func serveHTTP(
	cfg *config.AppConfig,
	alertMiddleware *middleware.ErrorAlertMiddleware,
	router *mux.Router,
	cleanup func(),
) error {
	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server, cleanup)
}

func handleGracefulShutdown(server *http.Server, cleanup func()) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	cleanup()

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
