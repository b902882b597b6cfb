package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"smartCatalog/pkg/logger"
	jsonres "smartCatalog/pkg/response"
	"smartCatalog/pkg/utils"

	"github.com/labstack/echo/v4"
)

// RevocationChecker looks up tokens revoked before their expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware verifies the bearer token and stores user_id and role on the
// context. revocations may be nil.
func AuthMiddleware(revocations RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			claims, err := utils.ParseJWT(tokenString)
			if err != nil {
				logger.Debug("jwt_rejected", "error", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			if revocations != nil && claims.ID != "" {
				ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
				revoked, err := revocations.IsRevoked(ctx, claims.ID)
				cancel()
				if err != nil {
					// fail open on lookup errors
					logger.Warn("token_revocation_check_failed", "error", err)
				} else if revoked {
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Token revoked", nil,
					))
				}
			}

			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := c.Get("role")
			roleStr, ok := role.(string)
			if !ok || strings.ToUpper(roleStr) != utils.RoleAdmin {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}

			return next(c)
		}
	}
}
