package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cargo_cover/internal/adapter/http/handlers/mocks"
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestBookingHandler_SubmitBooking(t *testing.T) {
	gin.SetMode(gin.TestMode)

	build := func(uc usecase.IBookingUseCase) *gin.Engine {
		h := NewBookingHandler(uc)
		r := gin.New()
		r.POST("/v1/bookings", h.SubmitBooking)
		return r
	}

	t.Run("missing insured name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r := build(mocks.NewMockIBookingUseCase(ctrl))

		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", bytes.NewBufferString(`{"quoteId":"Q-1001","bookingPayload":{}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown quote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBookingUseCase(ctrl)
		r := build(uc)

		uc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("", usecase.ErrQuoteNotFound)

		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", bytes.NewBufferString(`{"quoteId":"Q-404","bookingPayload":{"insuredName":"ACME"}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("correlation id of another quote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBookingUseCase(ctrl)
		r := build(uc)

		uc.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return("", entities.NewValidationError("correlationId", "does not match the correlation id of quote Q-1001"))

		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", bytes.NewBufferString(`{"correlationId":"c-9","quoteId":"Q-1001","bookingPayload":{"insuredName":"ACME"}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("accepted under the quote correlation id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBookingUseCase(ctrl)
		r := build(uc)

		var submitted entities.BookingRequest
		uc.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, req entities.BookingRequest) (string, error) {
			submitted = req
			return "c-1", nil
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/bookings", bytes.NewBufferString(`{"quoteId":"Q-1001","bookingPayload":{"insuredName":"ACME"}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["correlation_id"] != "c-1" {
			t.Fatalf("expected correlation id c-1, got %s", w.Body.String())
		}
		if submitted.CorrelationID != "" || submitted.QuoteID != "Q-1001" || submitted.Payload.InsuredName != "ACME" {
			t.Fatalf("unexpected request: %+v", submitted)
		}
	})
}

func TestBookingHandler_GetBooking(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc)
		r := gin.New()
		r.GET("/v1/bookings/:policy_number", h.GetBooking)

		uc.EXPECT().GetByPolicyNumber(gomock.Any(), "POL-404").Return(usecase.BookingView{}, usecase.ErrBookingNotFound)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/bookings/POL-404", nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc)
		r := gin.New()
		r.GET("/v1/bookings/:policy_number", h.GetBooking)

		uc.EXPECT().GetByPolicyNumber(gomock.Any(), "POL-9001").Return(usecase.BookingView{
			Booking:     entities.Booking{ID: "b-1", PolicyNumber: "POL-9001", QuoteID: "Q-1001", Status: entities.BookingStatusConfirmed},
			Certificate: entities.Certificate{CertificateNumber: "CERT-9001", BookingID: "b-1"},
		}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/bookings/POL-9001", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			PolicyNumber string `json:"policy_number"`
			Certificate  struct {
				CertificateNumber string `json:"certificate_number"`
			} `json:"certificate"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.PolicyNumber != "POL-9001" || body.Certificate.CertificateNumber != "CERT-9001" {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})
}
