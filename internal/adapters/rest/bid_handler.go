package rest

import (
	"net/http"

	"peram-marketplace-service/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BidHandler struct {
	bidService inbound.BidService
	logger     zerolog.Logger
}

type BidHandlerParams struct {
	BidService inbound.BidService
	Logger     zerolog.Logger
}

func NewBidHandler(params BidHandlerParams) *BidHandler {
	return &BidHandler{
		bidService: params.BidService,
		logger:     params.Logger.With().Str("component", "bid_handler").Logger(),
	}
}

type legacyBidBody struct {
	ProductID string  `json:"product_id" binding:"uuid"`
	BidAmount float64 `json:"bid_amount"`
}

type bidBody struct {
	Amount float64 `json:"amount"`
}

// PlaceLegacy godoc
// @Summary Place a bid
// @Tags Bids
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /products/bid [post]
func (h *BidHandler) PlaceLegacy(c *gin.Context) {
	var body legacyBidBody
	if !bindJSON(c, &body) {
		return
	}
	h.place(c, uuid.MustParse(body.ProductID), body.BidAmount)
}

// Place godoc
// @Summary Place a bid on a product
// @Tags Bids
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 201 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /products/{id}/bids [post]
func (h *BidHandler) Place(c *gin.Context) {
	var body bidBody
	if !bindJSON(c, &body) {
		return
	}
	h.place(c, pathID(c, "id"), body.Amount)
}

func (h *BidHandler) place(c *gin.Context, productID uuid.UUID, amount float64) {
	buyer := principalFrom(c)

	placed, err := h.bidService.PlaceBid(c.Request.Context(), inbound.PlaceBidRequest{
		ProductID: productID,
		BuyerID:   buyer.UserID,
		Amount:    amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info().
		Str("bid_id", placed.ID.String()).
		Str("product_id", productID.String()).
		Str("buyer_id", buyer.UserID.String()).
		Float64("amount", amount).
		Msg("Bid placed")
	c.JSON(http.StatusCreated, gin.H{"message": "Bid placed successfully", "bid": placed})
}

// List godoc
// @Summary Bids on a product, highest first
// @Tags Bids
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]any
// @Router /products/{id}/bids [get]
func (h *BidHandler) List(c *gin.Context) {
	bids, err := h.bidService.GetBids(c.Request.Context(), pathID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": bids})
}
