package middleware

import (
	"net/http"

	"smartCatalog/pkg/logger"
	jsonres "smartCatalog/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape handlers, mostly routing and binding errors.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		logger.Error("unhandled_error", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, jsonres.Error(http.StatusText(code), message, nil))
}
