package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartCatalog/business/catalog"
	"smartCatalog/business/personalization"
	"smartCatalog/business/recommend"
	"smartCatalog/domain"
	"smartCatalog/internal/repository/memory"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e     *echo.Echo
	store *memory.PersonalizationStore
}

func newTestServer(t *testing.T, idx *catalog.Index) *testServer {
	t.Helper()

	holder := catalog.NewHolder()
	if idx != nil {
		holder.Swap(idx)
	}
	store := memory.NewPersonalizationStore()
	adapter := personalization.NewAdapter(store, personalization.DefaultConfig())
	h := NewRecommendationHandler(recommend.NewService(holder, adapter, recommend.DefaultConfig()), time.Second)

	fakeAuth := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid := c.Request().Header.Get("X-Test-User"); uid != "" {
				c.Set("user_id", uid)
			}
			return next(c)
		}
	}

	e := echo.New()
	g := e.Group("/api/v1/recommendations")
	g.POST("", h.Recommend, fakeAuth)
	g.POST("/compare", h.Compare)
	g.GET("/smart", h.Smart)
	g.GET("/personalized", h.Personalized, fakeAuth)
	g.POST("/feedback", h.Feedback, fakeAuth)
	g.GET("/requirements/suggest", h.Suggest)
	g.GET("/budget-tiers", h.BudgetTiers)
	g.GET("/quick", h.Quick)
	g.GET("/trending", h.Trending)

	ph := NewPreferenceHandler(adapter, time.Second)
	me := e.Group("/api/v1/users/me", fakeAuth)
	me.GET("/preferences", ph.Get)
	me.PUT("/preferences", ph.Update)

	return &testServer{e: e, store: store}
}

func exampleIndex() *catalog.Index {
	return catalog.NewIndex("test", []domain.ProductCandidate{
		domain.NewProductCandidate(domain.ProductCandidate{ID: "A", Name: "Alpha", Brand: "HP", MemoryGB: 16, StorageGB: 512, StorageType: "ssd", Price: 900, Rating: 4.5}),
		domain.NewProductCandidate(domain.ProductCandidate{ID: "B", Name: "Beta", Brand: "Acme", MemoryGB: 8, StorageGB: 256, StorageType: "hdd", Price: 700, Rating: 4.0}),
	})
}

func (s *testServer) do(method, path, body, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// envelope decodes the payload of a fres response.
func envelope(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for k, v := range raw {
		switch strings.ToLower(k) {
		case "data", "result", "results", "payload":
			require.NoError(t, json.Unmarshal(v, out))
			return
		}
	}
	t.Fatalf("response has no payload field: %s", rec.Body.String())
}

func TestRecommendEndpoint(t *testing.T) {
	s := newTestServer(t, exampleIndex())

	rec := s.do(http.MethodPost, "/api/v1/recommendations", `{"budget_max":1000,"must_have":["ssd"]}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.RecommendResponse
	envelope(t, rec, &resp)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "A", resp.Results[0].Candidate.ID)
	assert.False(t, resp.Relaxed)
	assert.NotEmpty(t, resp.Results[0].RecommendationID)
}

func TestRecommendEndpointErrors(t *testing.T) {
	s := newTestServer(t, exampleIndex())

	rec := s.do(http.MethodPost, "/api/v1/recommendations", `{"limit":5}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/recommendations", `{"limit":50}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/recommendations", `{"budget_min":900,"budget_max":100}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "budget")

	unloaded := newTestServer(t, nil)
	rec = unloaded.do(http.MethodPost, "/api/v1/recommendations", `{"limit":5}`, "u1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCompareEndpoint(t *testing.T) {
	s := newTestServer(t, exampleIndex())

	rec := s.do(http.MethodPost, "/api/v1/recommendations/compare", `{"product_ids":["A","B"],"aspects":["price","memory"]}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res domain.ComparisonResult
	envelope(t, rec, &res)
	assert.Equal(t, "A", res.Verdict)
	assert.Equal(t, "B", res.WinnerOf("price"))
	assert.Equal(t, "A", res.WinnerOf("memory"))

	rec = s.do(http.MethodPost, "/api/v1/recommendations/compare", `{"product_ids":["A"]}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/recommendations/compare", `{"product_ids":["A","Z"]}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSmartEndpoint(t *testing.T) {
	s := newTestServer(t, exampleIndex())

	rec := s.do(http.MethodGet, "/api/v1/recommendations/smart?recommendation_type=budget_best", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var recs []domain.SmartRecommendation
	envelope(t, rec, &recs)
	require.Len(t, recs, 1)
	assert.Equal(t, recommend.CategoryBudgetBest, recs[0].Category)

	rec = s.do(http.MethodGet, "/api/v1/recommendations/smart?recommendation_type=nope", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackEndpoint(t *testing.T) {
	s := newTestServer(t, exampleIndex())

	rec := s.do(http.MethodPost, "/api/v1/recommendations", `{"must_have":["ssd"],"limit":1}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.RecommendResponse
	envelope(t, rec, &resp)
	recID := resp.Results[0].RecommendationID

	body := `{"recommendation_id":"` + recID + `","action":"clicked"}`
	rec = s.do(http.MethodPost, "/api/v1/recommendations/feedback", body, "u1")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, 1, s.store.EventCount())

	// replay is accepted and not double counted
	rec = s.do(http.MethodPost, "/api/v1/recommendations/feedback", body, "u1")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, s.store.EventCount())

	rec = s.do(http.MethodPost, "/api/v1/recommendations/feedback", `{"recommendation_id":"x","action":"liked"}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/recommendations/feedback", `{"recommendation_id":"unknown","action":"shown"}`, "u1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPersonalizedEndpoint(t *testing.T) {
	s := newTestServer(t, exampleIndex())

	rec := s.do(http.MethodGet, "/api/v1/recommendations/personalized?limit=2", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var results []domain.ScoredCandidate
	envelope(t, rec, &results)
	assert.Len(t, results, 2)

	rec = s.do(http.MethodGet, "/api/v1/recommendations/personalized?limit=99", "", "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestEndpoint(t *testing.T) {
	s := newTestServer(t, exampleIndex())

	rec := s.do(http.MethodGet, "/api/v1/recommendations/requirements/suggest?use_case=business&budget_max=900", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res domain.SuggestedConstraints
	envelope(t, rec, &res)
	assert.Equal(t, "business", res.UseCase)

	rec = s.do(http.MethodGet, "/api/v1/recommendations/requirements/suggest?budget_max=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func tierIndex() *catalog.Index {
	mk := func(id, brand string, price, rating float64) domain.ProductCandidate {
		return domain.NewProductCandidate(domain.ProductCandidate{ID: id, Name: id, Brand: brand, MemoryGB: 16, StorageGB: 512, StorageType: "ssd",
			Features: []string{"fingerprint reader", "backlit keyboard"}, Price: price, Rating: rating, ReviewCount: 50})
	}
	return catalog.NewIndex("tiers", []domain.ProductCandidate{
		mk("t1", "HP", 750, 4.3),
		mk("t2", "Lenovo", 1100, 4.5),
		mk("t3", "HP", 1700, 4.6),
		mk("t4", "Lenovo", 2300, 4.7),
	})
}

func TestBudgetTiersEndpoint(t *testing.T) {
	s := newTestServer(t, tierIndex())

	rec := s.do(http.MethodGet, "/api/v1/recommendations/budget-tiers", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tiers []domain.BudgetTierRecommendation
	envelope(t, rec, &tiers)
	require.Len(t, tiers, 4)
	assert.Equal(t, "Budget", tiers[0].Tier)
	assert.Equal(t, "Enterprise", tiers[3].Tier)
	assert.Len(t, tiers[3].Results, 2)

	empty := newTestServer(t, nil)
	rec = empty.do(http.MethodGet, "/api/v1/recommendations/budget-tiers", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQuickEndpoint(t *testing.T) {
	s := newTestServer(t, tierIndex())

	rec := s.do(http.MethodGet, "/api/v1/recommendations/quick", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res domain.QuickRecommendation
	envelope(t, rec, &res)
	assert.Equal(t, "business", res.UseCase)
	assert.Equal(t, []string{"8gb ram", "ssd", "fingerprint"}, res.AutoRequirements)
	assert.LessOrEqual(t, len(res.Response.Results), recommend.DefaultQuickLimit)

	rec = s.do(http.MethodGet, "/api/v1/recommendations/quick?use_case=programming&budget=1200&limit=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	envelope(t, rec, &res)
	assert.Equal(t, "programming", res.UseCase)
	assert.LessOrEqual(t, len(res.Response.Results), 2)

	rec = s.do(http.MethodGet, "/api/v1/recommendations/quick?limit=11", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/recommendations/quick?budget=cheap", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrendingEndpoint(t *testing.T) {
	s := newTestServer(t, tierIndex())

	rec := s.do(http.MethodGet, "/api/v1/recommendations/trending", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res domain.TrendingRecommendation
	envelope(t, rec, &res)
	assert.Len(t, res.Results, 3)
	for _, r := range res.Results {
		assert.NotEqual(t, "t4", r.Candidate.ID)
	}

	rec = s.do(http.MethodGet, "/api/v1/recommendations/trending?limit=0", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/recommendations/trending?limit=20", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
