package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pitchforge/backend/internal/service"
)

type LayoutHandler struct {
	service *service.PitchbookService
}

func NewLayoutHandler(service *service.PitchbookService) *LayoutHandler {
	return &LayoutHandler{
		service: service,
	}
}

// List returns the read-only layout catalog.
func (h *LayoutHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListLayouts())
}
