package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	nanoid "github.com/jaevor/go-nanoid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hashperks/loyalty-service/internal/infrastructure/metrics"
	"github.com/hashperks/loyalty-service/internal/usecase"
	"github.com/hashperks/loyalty-service/internal/usecase/ledger"
)

// Config captures the dependencies required to construct the server.
type Config struct {
	Guard       usecase.Guard
	Accounts    usecase.AccountUsecase
	Stores      usecase.StoreUsecase
	Programs    usecase.ProgramUsecase
	Memberships usecase.MembershipUsecase
	Perks       usecase.PerkUsecase
	Ledger      ledger.LedgerUsecase

	Metrics        *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	// Ping backs /health when set.
	Ping func(ctx context.Context) error
}

type Server struct {
	guard       usecase.Guard
	accounts    usecase.AccountUsecase
	stores      usecase.StoreUsecase
	programs    usecase.ProgramUsecase
	memberships usecase.MembershipUsecase
	perks       usecase.PerkUsecase
	ledger      ledger.LedgerUsecase

	metrics    *metrics.HTTPMetrics
	ping       func(ctx context.Context) error
	newErrorID func() string

	router http.Handler
}

func NewServer(cfg Config) (*Server, error) {
	errorID, err := nanoid.Standard(12)
	if err != nil {
		return nil, err
	}
	srv := &Server{
		guard:       cfg.Guard,
		accounts:    cfg.Accounts,
		stores:      cfg.Stores,
		programs:    cfg.Programs,
		memberships: cfg.Memberships,
		perks:       cfg.Perks,
		ledger:      cfg.Ledger,
		metrics:     cfg.Metrics,
		ping:        cfg.Ping,
		newErrorID:  errorID,
	}
	srv.router = srv.buildRouter(cfg)
	return srv, nil
}

// Handler exposes the configured HTTP router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(s.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.Health)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)

		// public reads
		api.Get("/stores", s.ListStores)
		api.Get("/stores/{storeID}", s.GetStore)
		api.Get("/stores/{storeID}/programs", s.ListStorePrograms)
		api.Get("/stores/{storeID}/programs/default", s.GetDefaultProgram)
		api.Get("/programs/{programID}", s.GetProgram)
		api.Get("/programs/{programID}/perks", s.ListPerks)

		api.Group(func(protected chi.Router) {
			protected.Use(s.authenticate)

			protected.Get("/accounts/{userID}", s.GetAccount)
			protected.Put("/accounts/{userID}", s.UpdateAccount)
			protected.Delete("/accounts/{userID}", s.DeleteAccount)
			protected.Get("/accounts/{userID}/token-balance", s.TokenBalance)

			protected.Get("/me/stores", s.MyStores)
			protected.Get("/me/memberships", s.MyMemberships)

			protected.Post("/stores", s.CreateStore)
			protected.Put("/stores/{storeID}", s.UpdateStore)
			protected.Delete("/stores/{storeID}", s.DeleteStore)
			protected.Post("/stores/{storeID}/programs", s.CreateDefaultProgram)
			protected.Post("/stores/{storeID}/memberships", s.JoinDefault)
			protected.Get("/stores/{storeID}/members", s.ListStoreMembers)
			protected.Get("/stores/{storeID}/transactions", s.ListStoreTransactions)

			protected.Put("/programs/{programID}", s.UpdateProgram)
			protected.Delete("/programs/{programID}", s.DeleteProgram)
			protected.Post("/programs/{programID}/memberships", s.Join)
			protected.Get("/programs/{programID}/members", s.ListMembers)
			protected.Post("/programs/{programID}/perks", s.CreatePerk)
			protected.Get("/programs/{programID}/transactions", s.ListMyTransactions)

			protected.Put("/perks/{perkID}", s.UpdatePerk)

			protected.Post("/transactions", s.RecordTransaction)
		})
	})

	return r
}

// instrument records request counts and latency by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RecordRequest(r.Method, route, strconv.Itoa(status), time.Since(start).Seconds())
	})
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
