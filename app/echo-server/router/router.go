package router

import (
	"smartCatalog/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, authRequired echo.MiddlewareFunc) {
	reco := api.Group("/recommendations")

	reco.POST("", handler.Recommend, authRequired)
	reco.POST("/compare", handler.Compare)
	reco.GET("/smart", handler.Smart)
	reco.GET("/personalized", handler.Personalized, authRequired)
	reco.POST("/feedback", handler.Feedback, authRequired)
	reco.GET("/requirements/suggest", handler.Suggest)
	reco.GET("/budget-tiers", handler.BudgetTiers)
	reco.GET("/quick", handler.Quick)
	reco.GET("/trending", handler.Trending)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)
}

func SetupCatalogAdminRoutes(api *echo.Group, handler *rest.CatalogAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/catalog", authRequired, adminOnly)
	admin.POST("/refresh", handler.Refresh)
}

func SetupConversationRoutes(api *echo.Group, handler *rest.ConversationHandler, authRequired echo.MiddlewareFunc) {
	conv := api.Group("/conversations", authRequired)

	conv.POST("", handler.Create)
	conv.GET("/:id", handler.Get)
	conv.POST("/:id/messages", handler.AppendMessage)
	conv.DELETE("/:id", handler.Delete)
}

func SetupPreferenceRoutes(api *echo.Group, handler *rest.PreferenceHandler, authRequired echo.MiddlewareFunc) {
	me := api.Group("/users/me", authRequired)

	me.GET("/preferences", handler.Get)
	me.PUT("/preferences", handler.Update)
}

func SetupOpsRoutes(e *echo.Echo, health *rest.HealthHandler) {
	e.GET("/healthz", health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
