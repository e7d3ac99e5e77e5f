package handlers

import (
	response "cargo_cover/internal/adapter/http/dto/response"
	"cargo_cover/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	usecase usecase.IReferenceUseCase
}

func NewReferenceHandler(uc usecase.IReferenceUseCase) *ReferenceHandler {
	return &ReferenceHandler{usecase: uc}
}

// GetReference resolves one reference entity from the in-memory snapshot.
//
// @Summary      Get a reference entity
// @Tags         reference
// @Produce      json
// @Param        entity_type path string true "commodity, equipment_type, load_type, freight_class or terms_of_sale"
// @Param        id path string true "Provider id"
// @Success      200 {object} response.ReferenceResponse
// @Failure      404 {object} pkg.HTTPError
// @Failure      503 {object} pkg.HTTPError
// @Router       /reference/{entity_type}/{id} [get]
func (h *ReferenceHandler) GetReference(c *gin.Context) {
	e, err := h.usecase.Get(c.Request.Context(), c.Param("entity_type"), c.Param("id"))
	if err != nil {
		writeError(c, mapError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromReference(e))
}

// RefreshReference reloads one entity type from the provider.
//
// @Summary      Refresh a reference entity type
// @Tags         admin
// @Produce      json
// @Param        entity_type path string true "Entity type"
// @Success      200 {object} response.RefreshResponse
// @Failure      404 {object} pkg.HTTPError
// @Failure      502 {object} pkg.HTTPError
// @Router       /admin/reference/{entity_type}/refresh [post]
func (h *ReferenceHandler) RefreshReference(c *gin.Context) {
	entityType := c.Param("entity_type")
	n, err := h.usecase.Refresh(c.Request.Context(), entityType)
	if err != nil {
		writeError(c, mapError(err))
		return
	}

	c.JSON(http.StatusOK, response.RefreshResponse{EntityType: entityType, Size: n})
}
