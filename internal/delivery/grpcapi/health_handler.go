package grpcapi

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// LedgerService is the name reported for the point ledger in health checks.
const LedgerService = "hashperks.loyalty.Ledger"

// HealthHandler reports the overall service and the ledger separately. The
// ledger is not serving when the chain gateway is disabled.
type HealthHandler struct {
	srv *health.Server
}

func NewHealthHandler(chainEnabled bool) *HealthHandler {
	h := &HealthHandler{srv: health.NewServer()}
	h.srv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	if chainEnabled {
		h.srv.SetServingStatus(LedgerService, healthpb.HealthCheckResponse_SERVING)
	} else {
		h.srv.SetServingStatus(LedgerService, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return h
}

func (h *HealthHandler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
	reflection.Register(s)
}

// Observe flips the overall status after a dependency probe.
func (h *HealthHandler) Observe(ctx context.Context, probe func(context.Context) error) {
	if err := probe(ctx); err != nil {
		slog.Warn("health probe failed", "error", err)
		h.srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	h.srv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}

// Shutdown marks every service not serving.
func (h *HealthHandler) Shutdown() {
	h.srv.Shutdown()
}
