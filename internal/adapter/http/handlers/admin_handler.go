package handlers

import (
	response "cargo_cover/internal/adapter/http/dto/response"
	"cargo_cover/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the reconciliation and maintenance operations.

type AdminHandler struct {
	usecase usecase.IAdminUseCase
}

func NewAdminHandler(uc usecase.IAdminUseCase) *AdminHandler {
	return &AdminHandler{usecase: uc}
}

// Reconcile re-derives the certificate link of one policy number.
//
// @Summary      Reconcile one policy
// @Tags         admin
// @Produce      json
// @Param        policy_number path string true "Provider policy number"
// @Success      200 {object} response.ReconciliationResponse
// @Failure      404 {object} pkg.HTTPError
// @Failure      409 {object} pkg.HTTPError
// @Router       /admin/reconcile/{policy_number} [post]
func (h *AdminHandler) Reconcile(c *gin.Context) {
	rec, err := h.usecase.Reconcile(c.Request.Context(), c.Param("policy_number"))
	if err != nil {
		writeError(c, mapError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromReconciliation(rec))
}

// RepairAll walks every stored certificate and fixes stale links.
//
// @Summary      Run the certificate repair pass
// @Tags         admin
// @Produce      json
// @Success      200 {object} entities.RepairReport
// @Failure      503 {object} pkg.HTTPError
// @Router       /admin/repair [post]
func (h *AdminHandler) RepairAll(c *gin.Context) {
	report, err := h.usecase.RepairAll(c.Request.Context())
	if err != nil {
		writeError(c, mapError(err))
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExpireQuotes runs the quote expiry sweep now.
//
// @Summary      Expire priced quotes past their expiry
// @Tags         admin
// @Produce      json
// @Success      200 {object} response.SweepResponse
// @Failure      503 {object} pkg.HTTPError
// @Router       /admin/quotes/expire [post]
func (h *AdminHandler) ExpireQuotes(c *gin.Context) {
	n, err := h.usecase.SweepExpiredQuotes(c.Request.Context())
	if err != nil {
		writeError(c, mapError(err))
		return
	}

	c.JSON(http.StatusOK, response.SweepResponse{Expired: n})
}
