package handler

import (
	"net/http"

	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// CategoriesHandler lists categories for the bulk selection UI.
type CategoriesHandler struct {
	repo repository.CategoryRepository
}

func NewCategoriesHandler(repo repository.CategoryRepository) *CategoriesHandler {
	return &CategoriesHandler{repo: repo}
}

// List godoc
// @Summary List active categories
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /v1/categories [get]
func (h *CategoriesHandler) List(c *gin.Context) {
	rows, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]dto.CategoryResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.CategoryResponse{
			ID:          rows[i].ID.String(),
			Name:        rows[i].Name,
			Description: rows[i].Description,
			Active:      rows[i].Active,
		})
	}
	c.JSON(http.StatusOK, resp)
}
