package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"smartCatalog/business/recommend"
	"smartCatalog/domain"
	"smartCatalog/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const defaultLimit = 5

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
		timeout  time.Duration
	}

	RecommendationService interface {
		Recommend(ctx context.Context, userID string, req domain.RecommendRequest) (domain.RecommendResponse, error)
		Compare(ctx context.Context, ids []string, aspects []string) (domain.ComparisonResult, error)
		Smart(ctx context.Context, category string) ([]domain.SmartRecommendation, error)
		Personalized(ctx context.Context, userID string, limit int) ([]domain.ScoredCandidate, error)
		RecordFeedback(ctx context.Context, userID, recommendationID, action string) error
		SuggestConstraints(useCase string, budgetMax *float64) (domain.SuggestedConstraints, error)
		BudgetTiers(ctx context.Context) ([]domain.BudgetTierRecommendation, error)
		Quick(ctx context.Context, useCase string, budget *float64, limit int) (domain.QuickRecommendation, error)
		Trending(ctx context.Context, limit int) (domain.TrendingRecommendation, error)
	}

	RecommendRequest struct {
		BudgetMin           *float64 `json:"budget_min" validate:"omitempty,gte=0"`
		BudgetMax           *float64 `json:"budget_max" validate:"omitempty,gte=0"`
		MustHave            []string `json:"must_have" validate:"omitempty,max=20,dive,required,max=64"`
		NiceHave            []string `json:"nice_have" validate:"omitempty,max=20,dive,required,max=64"`
		UseCase             string   `json:"use_case" validate:"omitempty,max=32"`
		BrandAllowlist      []string `json:"brand_allowlist" validate:"omitempty,max=20,dive,required"`
		MinRating           *float64 `json:"min_rating" validate:"omitempty,gte=0,lte=5"`
		ProcessorPreference string   `json:"processor_preference" validate:"omitempty,max=32"`
		MinMemoryGB         *int     `json:"min_memory_gb" validate:"omitempty,gte=0"`
		MinStorageGB        *int     `json:"min_storage_gb" validate:"omitempty,gte=0"`
		Limit               int      `json:"limit" validate:"omitempty,gte=1,lte=20"`
		IncludeAlternatives bool     `json:"include_alternatives"`
	}

	CompareRequest struct {
		ProductIDs []string `json:"product_ids" validate:"required,dive,required"`
		Aspects    []string `json:"aspects" validate:"omitempty,max=20,dive,required"`
	}

	SmartQuery struct {
		RecommendationType string `query:"recommendation_type"`
	}

	PersonalizedQuery struct {
		Limit int `query:"limit" validate:"omitempty,gte=1,lte=20"`
	}

	RecommendationFeedbackRequest struct {
		RecommendationID string `json:"recommendation_id" validate:"required"`
		Action           string `json:"action" validate:"required,oneof=shown clicked dismissed"`
	}

	SuggestQuery struct {
		UseCase   string `query:"use_case"`
		BudgetMax string `query:"budget_max"`
	}

	QuickQuery struct {
		UseCase string `query:"use_case" validate:"omitempty,max=32"`
		Budget  string `query:"budget"`
		Limit   int    `query:"limit" validate:"omitempty,gte=1,lte=10"`
	}

	TrendingQuery struct {
		Limit int `query:"limit" validate:"omitempty,gte=1,lte=10"`
	}
)

func NewRecommendationHandler(svc RecommendationService, timeout time.Duration) *RecommendationHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
		timeout:  timeout,
	}
}

func (r RecommendRequest) toDomain() domain.RecommendRequest {
	limit := r.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	return domain.RecommendRequest{
		BudgetMin:           r.BudgetMin,
		BudgetMax:           r.BudgetMax,
		MustHave:            r.MustHave,
		NiceHave:            r.NiceHave,
		UseCase:             r.UseCase,
		BrandAllowlist:      r.BrandAllowlist,
		MinRating:           r.MinRating,
		ProcessorPreference: r.ProcessorPreference,
		MinMemoryGB:         r.MinMemoryGB,
		MinStorageGB:        r.MinStorageGB,
		Limit:               limit,
		IncludeAlternatives: r.IncludeAlternatives,
	}
}

// POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	resp, err := h.service.Recommend(ctx, userID, req.toDomain())
	metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	metrics.RecommendRequests.Inc()
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}

// POST /api/v1/recommendations/compare
func (h *RecommendationHandler) Compare(c echo.Context) error {
	var req CompareRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	metrics.CompareRequests.Inc()
	res, err := h.service.Compare(ctx, req.ProductIDs, req.Aspects)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// GET /api/v1/recommendations/smart?recommendation_type=budget_best
func (h *RecommendationHandler) Smart(c echo.Context) error {
	var q SmartQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.service.Smart(ctx, q.RecommendationType)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// GET /api/v1/recommendations/personalized?limit=5
func (h *RecommendationHandler) Personalized(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q PersonalizedQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&q); err != nil {
		return badRequest(c, err)
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.service.Personalized(ctx, userID, q.Limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// POST /api/v1/recommendations/feedback
func (h *RecommendationHandler) Feedback(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RecommendationFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.service.RecordFeedback(ctx, userID, req.RecommendationID, req.Action); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}

// GET /api/v1/recommendations/requirements/suggest?use_case=business&budget_max=1200
func (h *RecommendationHandler) Suggest(c echo.Context) error {
	var q SuggestQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}

	var budgetMax *float64
	if q.BudgetMax != "" {
		v, err := strconv.ParseFloat(q.BudgetMax, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "budget_max must be a number", Field: "budget_max"})
		}
		budgetMax = &v
	}

	res, err := h.service.SuggestConstraints(q.UseCase, budgetMax)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// GET /api/v1/recommendations/budget-tiers
func (h *RecommendationHandler) BudgetTiers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	tiers, err := h.service.BudgetTiers(ctx)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(tiers))
}

// GET /api/v1/recommendations/quick?use_case=gaming&budget=1500&limit=3
func (h *RecommendationHandler) Quick(c echo.Context) error {
	var q QuickQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&q); err != nil {
		return badRequest(c, err)
	}
	var budget *float64
	if q.Budget != "" {
		v, err := strconv.ParseFloat(q.Budget, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "budget must be a number", Field: "budget"})
		}
		budget = &v
	}
	if q.UseCase == "" {
		q.UseCase = recommend.DefaultQuickUseCase
	}
	if q.Limit == 0 {
		q.Limit = recommend.DefaultQuickLimit
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.service.Quick(ctx, q.UseCase, budget, q.Limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// GET /api/v1/recommendations/trending?limit=5
func (h *RecommendationHandler) Trending(c echo.Context) error {
	var q TrendingQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&q); err != nil {
		return badRequest(c, err)
	}
	if q.Limit == 0 {
		q.Limit = recommend.DefaultTrendingLimit
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.service.Trending(ctx, q.Limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}
