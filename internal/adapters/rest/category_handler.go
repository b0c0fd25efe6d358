package rest

import (
	"net/http"

	"peram-marketplace-service/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type CategoryHandler struct {
	categoryService inbound.CategoryService
	logger          zerolog.Logger
}

type CategoryHandlerParams struct {
	CategoryService inbound.CategoryService
	Logger          zerolog.Logger
}

func NewCategoryHandler(params CategoryHandlerParams) *CategoryHandler {
	return &CategoryHandler{
		categoryService: params.CategoryService,
		logger:          params.Logger.With().Str("component", "category_handler").Logger(),
	}
}

type categoryBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create godoc
// @Summary Create a category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} category.Category
// @Failure 400 {object} map[string]any
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var body categoryBody
	if !bindJSON(c, &body) {
		return
	}

	req := inbound.CreateCategoryRequest{}
	if body.Name != nil {
		req.Name = *body.Name
	}
	if body.Description != nil {
		req.Description = *body.Description
	}

	created, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info().Str("category_id", created.ID.String()).Msg("Category created")
	c.JSON(http.StatusCreated, created)
}

// List godoc
// @Summary List categories
// @Tags Categories
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Update godoc
// @Summary Update a category
// @Tags Categories
// @Security BearerAuth
// @Param categoryId path string true "Category ID"
// @Success 200 {object} category.Category
// @Router /categories/{categoryId} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	var body categoryBody
	if !bindJSON(c, &body) {
		return
	}

	updated, err := h.categoryService.UpdateCategory(c.Request.Context(), inbound.UpdateCategoryRequest{
		CategoryID:  pathID(c, "categoryId"),
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete a category
// @Tags Categories
// @Security BearerAuth
// @Param categoryId path string true "Category ID"
// @Success 200 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /categories/{categoryId} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id := pathID(c, "categoryId")
	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info().Str("category_id", id.String()).Msg("Category deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
