package rest

import (
	"context"
	"net/http"

	"smartCatalog/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ConversationService interface {
		Create(ctx context.Context, userID string) (domain.Conversation, error)
		Get(ctx context.Context, userID, id string) (domain.Conversation, error)
		AppendMessage(ctx context.Context, userID, id string, msg domain.ConversationMessage) (domain.Conversation, error)
		Delete(ctx context.Context, userID, id string) error
	}

	ConversationHandler struct {
		validate *validator.Validate
		service  ConversationService
	}

	AppendMessageRequest struct {
		Role     string            `json:"role" validate:"required,oneof=user assistant"`
		Content  string            `json:"content" validate:"required,max=8000"`
		Metadata map[string]string `json:"metadata"`
	}
)

func NewConversationHandler(svc ConversationService) *ConversationHandler {
	return &ConversationHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// POST /api/v1/conversations
func (h *ConversationHandler) Create(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	conv, err := h.service.Create(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(conv))
}

// GET /api/v1/conversations/:id
func (h *ConversationHandler) Get(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	conv, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(conv))
}

// POST /api/v1/conversations/:id/messages
func (h *ConversationHandler) AppendMessage(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req AppendMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	conv, err := h.service.AppendMessage(c.Request().Context(), userID, c.Param("id"), domain.ConversationMessage{
		Role:     req.Role,
		Content:  req.Content,
		Metadata: req.Metadata,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(conv))
}

// DELETE /api/v1/conversations/:id
func (h *ConversationHandler) Delete(c echo.Context) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
