package rest

import (
	"net/http"
	"strconv"
	"time"

	"peram-marketplace-service/internal/app"
	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ProductHandler struct {
	productService inbound.ProductService
	bidService     inbound.BidService
	logger         zerolog.Logger
}

type ProductHandlerParams struct {
	ProductService inbound.ProductService
	BidService     inbound.BidService
	Logger         zerolog.Logger
}

func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		productService: params.ProductService,
		bidService:     params.BidService,
		logger:         params.Logger.With().Str("component", "product_handler").Logger(),
	}
}

// productBody accepts both the current field names and the legacy
// name/starting_price/closing_at aliases
type productBody struct {
	Title          *string    `json:"title"`
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	CategoryID     *string    `json:"category_id" binding:"omitempty,uuid"`
	StartingBid    *float64   `json:"starting_bid"`
	StartingPrice  *float64   `json:"starting_price"`
	AuctionEndTime *time.Time `json:"auction_end_time"`
	ClosingAt      *time.Time `json:"closing_at"`
	Images         []string   `json:"images" binding:"omitempty,dive,url"`
}

func (b productBody) title() *string {
	if b.Title != nil {
		return b.Title
	}
	return b.Name
}

func (b productBody) startingBid() *float64 {
	if b.StartingBid != nil {
		return b.StartingBid
	}
	return b.StartingPrice
}

func (b productBody) endTime() *time.Time {
	if b.AuctionEndTime != nil {
		return b.AuctionEndTime
	}
	return b.ClosingAt
}

func (b productBody) categoryID() *uuid.UUID {
	if b.CategoryID == nil {
		return nil
	}
	id := uuid.MustParse(*b.CategoryID)
	return &id
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Create godoc
// @Summary List a product for auction
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var body productBody
	if !bindJSON(c, &body) {
		return
	}

	req := inbound.CreateProductRequest{
		SellerID:       principalFrom(c).UserID,
		Title:          deref(body.title()),
		Description:    deref(body.Description),
		StartingBid:    deref(body.startingBid()),
		AuctionEndTime: body.endTime(),
		Images:         body.Images,
	}
	if id := body.categoryID(); id != nil {
		req.CategoryID = *id
	}

	created, err := h.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info().Str("product_id", created.ID.String()).Str("seller_id", created.SellerID.String()).Msg("Product listed")
	c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully", "product": created})
}

// List godoc
// @Summary List products
// @Tags Products
// @Param category_id query string false "Category filter"
// @Param seller_id query string false "Seller filter"
// @Param status query string false "active or closed"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]any
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	req := inbound.ListProductsRequest{}

	for param, dst := range map[string]**uuid.UUID{
		"category_id": &req.CategoryID,
		"seller_id":   &req.SellerID,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": param + " must be a valid id"})
			return
		}
		*dst = &id
	}

	if raw := c.Query("status"); raw != "" {
		status := product.Status(raw)
		if !status.Valid() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "status must be active or closed"})
			return
		}
		req.Status = &status
	}

	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	req.Page, req.PageSize = app.NormalizePage(page, pageSize)

	products, err := h.productService.ListProducts(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "page": req.Page, "page_size": req.PageSize})
}

// Get godoc
// @Summary Product with its bids
// @Tags Products
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id := pathID(c, "id")

	p, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	bids, err := h.bidService.GetBids(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": p, "bids": bids})
}

// Update godoc
// @Summary Update a listing
// @Tags Products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var body productBody
	if !bindJSON(c, &body) {
		return
	}

	updated, err := h.productService.UpdateProduct(c.Request.Context(), inbound.UpdateProductRequest{
		ProductID:      pathID(c, "id"),
		ActorID:        principalFrom(c).UserID,
		Title:          body.title(),
		Description:    body.Description,
		CategoryID:     body.categoryID(),
		AuctionEndTime: body.endTime(),
		Images:         body.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": updated})
}

// Delete godoc
// @Summary Remove a listing
// @Tags Products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]any
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id := pathID(c, "id")
	if err := h.productService.DeleteProduct(c.Request.Context(), id, principalFrom(c).UserID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info().Str("product_id", id.String()).Msg("Product deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
