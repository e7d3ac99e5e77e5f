package routes

import (
	"cargo_cover/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathQuotes    = "/quotes"
	PathBookings  = "/bookings"
	PathReference = "/reference"
	PathAdmin     = "/admin"
)

func addQuoteRoutes(rg *gin.RouterGroup, h *handlers.QuoteHandler) {
	quotes := rg.Group(PathQuotes)
	{
		quotes.POST("", h.SubmitQuote)
		quotes.GET("/:correlation_id", h.GetQuote)
	}
}

func addBookingRoutes(rg *gin.RouterGroup, h *handlers.BookingHandler) {
	bookings := rg.Group(PathBookings)
	{
		bookings.POST("", h.SubmitBooking)
		bookings.GET("/:policy_number", h.GetBooking)
	}
}

func addReferenceRoutes(rg *gin.RouterGroup, h *handlers.ReferenceHandler) {
	rg.GET(PathReference+"/:entity_type/:id", h.GetReference)
}

func addAdminRoutes(rg *gin.RouterGroup, admin *handlers.AdminHandler, reference *handlers.ReferenceHandler) {
	g := rg.Group(PathAdmin)
	{
		g.POST("/reconcile/:policy_number", admin.Reconcile)
		g.POST("/repair", admin.RepairAll)
		g.POST("/quotes/expire", admin.ExpireQuotes)
		g.POST("/reference/:entity_type/refresh", reference.RefreshReference)
	}
}
