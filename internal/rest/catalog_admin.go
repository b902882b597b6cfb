package rest

import (
	"context"
	"net/http"
	"time"

	"smartCatalog/business/catalog"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type CatalogRefresher interface {
	Refresh(ctx context.Context) (*catalog.Index, error)
}

type CatalogAdminHandler struct {
	refresher CatalogRefresher
}

func NewCatalogAdminHandler(refresher CatalogRefresher) *CatalogAdminHandler {
	return &CatalogAdminHandler{refresher: refresher}
}

type CatalogRefreshResponse struct {
	Version    string    `json:"version"`
	Candidates int       `json:"candidates"`
	BuiltAt    time.Time `json:"built_at"`
}

// POST /api/v1/admin/catalog/refresh
func (h *CatalogAdminHandler) Refresh(c echo.Context) error {
	idx, err := h.refresher.Refresh(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(CatalogRefreshResponse{
		Version:    idx.Version(),
		Candidates: idx.Len(),
		BuiltAt:    idx.BuiltAt(),
	}))
}
