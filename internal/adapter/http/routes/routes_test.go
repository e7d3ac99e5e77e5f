package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cargo_cover/internal/adapter/http/handlers"
	"cargo_cover/internal/adapter/http/handlers/mocks"
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quotes := mocks.NewMockIQuoteUseCase(ctrl)
	admin := mocks.NewMockIAdminUseCase(ctrl)
	router := NewRouter(Handlers{
		Quote:     handlers.NewQuoteHandler(quotes),
		Booking:   handlers.NewBookingHandler(mocks.NewMockIBookingUseCase(ctrl)),
		Reference: handlers.NewReferenceHandler(mocks.NewMockIReferenceUseCase(ctrl)),
		Admin:     handlers.NewAdminHandler(admin),
	}, metrics.New(), nil)

	quotes.EXPECT().Get(gomock.Any(), "c-1").Return(entities.Quote{CorrelationID: "c-1", Status: entities.QuoteStatusPending}, nil)
	admin.EXPECT().SweepExpiredQuotes(gomock.Any()).Return(0, nil)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/v1/ping", http.StatusOK},
		{http.MethodGet, "/v1/quotes/c-1", http.StatusOK},
		{http.MethodPost, "/v1/admin/quotes/expire", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/v1/estimates", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, w.Code)
		}
	}
}
