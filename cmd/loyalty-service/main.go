package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	"github.com/hashperks/loyalty-service/internal/app/background"
	"github.com/hashperks/loyalty-service/internal/app/setup"
	"github.com/hashperks/loyalty-service/internal/config"
	"github.com/hashperks/loyalty-service/internal/delivery/grpcapi"
	"github.com/hashperks/loyalty-service/internal/delivery/http/handlers"
	"github.com/hashperks/loyalty-service/internal/infrastructure/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	cfg := config.MustLoad()
	logger.Setup("loyalty-service", cfg.Env)

	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			slog.Error("failed to release dependencies", "error", err)
		}
	}()

	ucs, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	srv, err := handlers.NewServer(handlers.Config{
		Guard:          ucs.Guard,
		Accounts:       ucs.AccountUsecase,
		Stores:         ucs.StoreUsecase,
		Programs:       ucs.ProgramUsecase,
		Memberships:    ucs.MembershipUsecase,
		Perks:          ucs.PerkUsecase,
		Ledger:         ucs.LedgerUsecase,
		Metrics:        ucs.HTTPMetrics,
		Gatherer:       deps.Registry,
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		Ping:           deps.Ping,
	})
	if err != nil {
		log.Fatalf("failed to init http server: %v", err)
	}
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	grpcServer := grpc.NewServer()
	health := grpcapi.NewHealthHandler(deps.Chain != nil)
	health.Register(grpcServer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks := background.NewBackgroundTasks(ucs.LedgerUsecase, cfg.Ledger.ReconcileInterval, health, deps.Ping)
	tasks.Logins = ucs.AccountUsecase
	tasks.StartAll(ctx)

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	go func() {
		slog.Info("gRPC server started", "addr", cfg.GRPCAddr())
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "error", err)
			stop()
		}
	}()
	go func() {
		slog.Info("HTTP server started", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	health.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
}
