package routes

import (
	_ "cargo_cover/docs" // swagger docs
	"cargo_cover/internal/adapter/http/handlers"
	"cargo_cover/internal/infrastructure/logger"
	"cargo_cover/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted under /v1.
type Handlers struct {
	Quote     *handlers.QuoteHandler
	Booking   *handlers.BookingHandler
	Reference *handlers.ReferenceHandler
	Admin     *handlers.AdminHandler
}

// NewRouter builds the gin engine with logging, recovery, /metrics, /swagger and the
// /v1 routes.
func NewRouter(h Handlers, m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, log)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addQuoteRoutes(v1, h.Quote)
	addBookingRoutes(v1, h.Booking)
	addReferenceRoutes(v1, h.Reference)
	addAdminRoutes(v1, h.Admin, h.Reference)
	return router
}

func setMiddlewares(router *gin.Engine, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	router.Use(logger.GinMiddleware(log))
	router.Use(logger.Recovery(log))
}
