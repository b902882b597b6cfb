package rest

import (
	"context"
	"net/http"
	"time"

	"smartCatalog/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PreferenceHandler struct {
		validate *validator.Validate
		service  PreferenceService
		timeout  time.Duration
	}

	PreferenceService interface {
		Profile(ctx context.Context, userID string) (domain.UserPreferenceProfile, error)
		UpdatePreferences(ctx context.Context, userID string, patch domain.PreferencePatch) (domain.UserPreferenceProfile, error)
	}

	UpdatePreferencesRequest struct {
		PreferredBrands     *[]string         `json:"preferred_brands" validate:"omitempty,max=20,dive,max=64"`
		ProcessorPreference *string           `json:"processor_preference" validate:"omitempty,max=64"`
		BudgetMax           *float64          `json:"budget_max" validate:"omitempty,gte=0"`
		UseCase             *string           `json:"use_case" validate:"omitempty,max=32"`
		Extensions          map[string]string `json:"extensions" validate:"omitempty,max=16"`
	}
)

func NewPreferenceHandler(svc PreferenceService, timeout time.Duration) *PreferenceHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PreferenceHandler{
		validate: validator.New(),
		service:  svc,
		timeout:  timeout,
	}
}

// GET /api/v1/users/me/preferences
func (h *PreferenceHandler) Get(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.service.Profile(ctx, userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

// PUT /api/v1/users/me/preferences
func (h *PreferenceHandler) Update(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.service.UpdatePreferences(ctx, userID, domain.PreferencePatch{
		PreferredBrands:     req.PreferredBrands,
		ProcessorPreference: req.ProcessorPreference,
		BudgetMax:           req.BudgetMax,
		UseCase:             req.UseCase,
		Extensions:          req.Extensions,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}
