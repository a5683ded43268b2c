package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pfcr/clubportal/internal/api/middleware"
	"github.com/pfcr/clubportal/internal/api/response"
	"github.com/pfcr/clubportal/internal/k8s"
)

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	k8sChecker k8s.HealthChecker
	db         DBPinger
	version    string
}

// NewHealthHandler creates a new HealthHandler. checker may be nil when the
// portal runs outside Kubernetes.
func NewHealthHandler(checker k8s.HealthChecker, db DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		k8sChecker: checker,
		db:         db,
		version:    version,
	}
}

type kubernetesStatus struct {
	Connected bool    `json:"connected"`
	Version   *string `json:"version"`
}

type healthData struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Database   string            `json:"database"`
	Kubernetes *kubernetesStatus `json:"kubernetes,omitempty"`
}

// ServeHTTP handles the health check request. An unreachable database makes
// the portal unhealthy (503); an unreachable cluster only degrades it.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	data := healthData{
		Status:   "healthy",
		Version:  h.version,
		Database: "connected",
	}
	status := http.StatusOK

	if h.k8sChecker != nil {
		connectivity := h.k8sChecker.CheckConnectivity(r.Context())
		k := &kubernetesStatus{Connected: connectivity.Connected}
		if connectivity.Connected {
			k.Version = &connectivity.Version
		} else {
			data.Status = "degraded"
		}
		data.Kubernetes = k
	}

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			slog.Warn("health check: database unreachable", "error", err)
			data.Status = "unhealthy"
			data.Database = "disconnected"
			status = http.StatusServiceUnavailable
		}
	}

	response.Success(w, status, data, requestID)
}
