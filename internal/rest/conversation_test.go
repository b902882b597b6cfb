package rest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartCatalog/business/conversation"
	"smartCatalog/domain"
	"smartCatalog/internal/repository/memory"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversationServer() *echo.Echo {
	svc := conversation.NewService(memory.NewConversationStore(), 50, 24*time.Hour)
	h := NewConversationHandler(svc)

	fakeAuth := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid := c.Request().Header.Get("X-Test-User"); uid != "" {
				c.Set("user_id", uid)
			}
			return next(c)
		}
	}

	e := echo.New()
	g := e.Group("/api/v1/conversations", fakeAuth)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/messages", h.AppendMessage)
	g.DELETE("/:id", h.Delete)
	return e
}

func call(e *echo.Echo, method, path, body, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestConversationEndpoints(t *testing.T) {
	e := newConversationServer()

	rec := call(e, http.MethodPost, "/api/v1/conversations", "", "u1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var conv domain.Conversation
	envelope(t, rec, &conv)
	require.NotEmpty(t, conv.ID)
	assert.Equal(t, "u1", conv.UserID)
	base := "/api/v1/conversations/" + conv.ID

	rec = call(e, http.MethodPost, base+"/messages", `{"role":"user","content":"need a light laptop"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(e, http.MethodGet, base, "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	envelope(t, rec, &conv)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "need a light laptop", conv.Messages[0].Content)

	rec = call(e, http.MethodPost, base+"/messages", `{"role":"system","content":"x"}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, call(e, http.MethodDelete, base, "", "u1").Code)
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodGet, base, "", "u1").Code)
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodDelete, base, "", "u1").Code)
}

func TestConversationEndpointsCheckOwner(t *testing.T) {
	e := newConversationServer()

	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodPost, "/api/v1/conversations", "", "").Code)

	rec := call(e, http.MethodPost, "/api/v1/conversations", "", "owner")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var conv domain.Conversation
	envelope(t, rec, &conv)
	base := "/api/v1/conversations/" + conv.ID

	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodGet, base, "", "").Code)
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodGet, base, "", "intruder").Code)
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodPost, base+"/messages", `{"role":"user","content":"hi"}`, "intruder").Code)
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodDelete, base, "", "intruder").Code)

	rec = call(e, http.MethodGet, base, "", "owner")
	require.Equal(t, http.StatusOK, rec.Code)
	envelope(t, rec, &conv)
	assert.Empty(t, conv.Messages)
}
