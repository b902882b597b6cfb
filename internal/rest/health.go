package rest

import (
	"context"
	"net/http"

	"smartCatalog/business/catalog"

	"github.com/labstack/echo/v4"
)

type SnapshotProvider interface {
	CurrentSnapshot(ctx context.Context) (*catalog.Index, error)
}

// BreakerStater reports the personalization circuit breaker state.
type BreakerStater interface {
	BreakerState() string
}

type HealthHandler struct {
	catalog SnapshotProvider
	breaker BreakerStater
}

func NewHealthHandler(catalog SnapshotProvider, breaker BreakerStater) *HealthHandler {
	return &HealthHandler{catalog: catalog, breaker: breaker}
}

// GET /healthz answers 503 until the first catalog snapshot is published.
func (h *HealthHandler) Health(c echo.Context) error {
	body := map[string]interface{}{"status": "ok"}

	idx, err := h.catalog.CurrentSnapshot(c.Request().Context())
	if err != nil {
		body["status"] = "unavailable"
		body["catalog"] = err.Error()
		return c.JSON(http.StatusServiceUnavailable, body)
	}
	body["catalog_version"] = idx.Version()
	body["catalog_candidates"] = idx.Len()

	if h.breaker != nil {
		body["personalization_breaker"] = h.breaker.BreakerState()
	}

	return c.JSON(http.StatusOK, body)
}
