package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Simplici0/partnerdesk/internal/config"
	"github.com/Simplici0/partnerdesk/internal/db"
	"github.com/Simplici0/partnerdesk/internal/logger"
	"github.com/Simplici0/partnerdesk/internal/marketplace"
	"github.com/Simplici0/partnerdesk/internal/migrations"
	"github.com/Simplici0/partnerdesk/internal/pricing"
	"github.com/Simplici0/partnerdesk/internal/seed"
	"github.com/Simplici0/partnerdesk/internal/store"
)

type server struct {
	store    *store.Store
	calc     *pricing.Calculator
	catalog  *pricing.Catalog
	markets  *marketplace.Registry
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

func newServer(st *store.Store, catalog *pricing.Catalog, markets *marketplace.Registry, log *zap.Logger) *server {
	return &server{
		store:    st,
		calc:     pricing.NewCalculator(catalog),
		catalog:  catalog,
		markets:  markets,
		validate: newValidator(),
		log:      log,
		now:      time.Now,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog, _ := logger.NewForEnvironment("development")
		bootLog.Fatal("failed to load config", zap.Error(err))
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		bootLog, _ := logger.NewForEnvironment(cfg.Env)
		bootLog.Fatal("failed to create logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(ctx, database, cfg.MigrationsDir); err != nil {
		return err
	}

	catalog, err := pricing.LoadCatalogFile(cfg.TiersFile)
	if err != nil {
		return err
	}

	stats, err := seed.Run(ctx, database, catalog)
	if err != nil {
		return err
	}
	log.Info("tier catalog synced", zap.Int("inserts", stats.Inserts), zap.Int("updates", stats.Updates))

	srv := newServer(store.New(database), catalog, newMarketplaces(cfg.Marketplace, log), log)

	origins := cfg.HTTP.CORSAllowOrigins
	if len(origins) == 0 && cfg.IsDev() {
		origins = []string{"*"}
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.routes(origins),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Env))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newMarketplaces registers an adapter for every platform with a base URL.
func newMarketplaces(cfg config.MarketplaceConfig, log *zap.Logger) *marketplace.Registry {
	var adapters []marketplace.Adapter
	if cfg.UzumBaseURL != "" {
		adapters = append(adapters, marketplace.NewHTTPAdapter(marketplace.PlatformUzum, marketplace.HTTPConfig{
			BaseURL: cfg.UzumBaseURL, Token: cfg.UzumToken, Timeout: cfg.Timeout,
		}))
	}
	if cfg.YandexBaseURL != "" {
		adapters = append(adapters, marketplace.NewHTTPAdapter(marketplace.PlatformYandex, marketplace.HTTPConfig{
			BaseURL: cfg.YandexBaseURL, Token: cfg.YandexToken, Timeout: cfg.Timeout,
		}))
	}
	for _, a := range adapters {
		log.Info("marketplace configured", zap.String("platform", a.Platform().DisplayName()))
	}
	return marketplace.NewRegistry(adapters...)
}

func (s *server) routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(s.log))
	r.Use(middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tiers", s.handleTiersList)
		r.Post("/calculator", s.handleCalculate)

		r.Route("/partners", func(r chi.Router) {
			r.Get("/", s.handlePartnersList)
			r.Post("/", s.handlePartnerCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handlePartnerGet)
				r.Post("/activate", s.handlePartnerActivate)
				r.Post("/status", s.handlePartnerStatus)
				r.Put("/tier", s.handlePartnerTier)
				r.Get("/fees", s.handlePartnerFees)
				r.Post("/product-requests", s.handleProductRequestCreate)
				r.Post("/orders", s.handleOrderCreate)
				r.Get("/messages", s.handleMessagesList)
				r.Post("/messages", s.handleMessageCreate)
				r.Post("/messages/read", s.handleMessagesRead)
				r.Post("/marketplaces/{platform}/sync", s.handleMarketplaceSync)
			})
		})

		r.Route("/product-requests", func(r chi.Router) {
			r.Get("/", s.handleProductRequestsList)
			r.Post("/{id}/approve", s.handleProductRequestApprove)
			r.Post("/{id}/reject", s.handleProductRequestReject)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.handleOrdersList)
			r.Post("/{id}/status", s.handleOrderStatus)
			r.Get("/{id}/profit", s.handleOrderProfit)
		})
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
