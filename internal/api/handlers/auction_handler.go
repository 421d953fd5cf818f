package handlers

import (
	"errors"
	"net/http"

	"auctionhouse/internal/domain"
	"auctionhouse/internal/services"
	"auctionhouse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AuctionHandler is the request/response surface for the three auction
// operations. It validates field presence, delegates to the state machine
// and maps outcomes to response bodies; it never touches the store.
type AuctionHandler struct {
	auctionService *services.AuctionService
	log            logger.Logger
}

type InitiateAuctionRequest struct {
	AuctionID     string  `json:"auction_id"`
	ItemName      string  `json:"item_name"`
	StartingPrice float64 `json:"starting_price"`
}

type PlaceBidRequest struct {
	BidderID  string  `json:"bidder_id"`
	BidAmount float64 `json:"bid_amount"`
}

type BoolResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func NewAuctionHandler(auctionService *services.AuctionService, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
		log:            log,
	}
}

func (h *AuctionHandler) InitiateAuction(c echo.Context) error {
	var req InitiateAuctionRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BoolResponse{Success: false, Error: "invalid request body"})
	}

	if req.AuctionID == "" {
		return c.JSON(http.StatusBadRequest, BoolResponse{Success: false, Error: "auction_id is required"})
	}
	if req.ItemName == "" {
		return c.JSON(http.StatusBadRequest, BoolResponse{Success: false, Error: "item_name is required"})
	}

	ok, err := h.auctionService.Initiate(c.Request().Context(), req.AuctionID, req.ItemName, req.StartingPrice)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAuction):
			return c.JSON(http.StatusBadRequest, BoolResponse{Success: false, Error: "starting price must not be negative"})
		case errors.Is(err, domain.ErrDuplicateAuction):
			return c.JSON(http.StatusConflict, BoolResponse{Success: false, Error: "auction id already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, BoolResponse{Success: false})
		}
	}

	return c.JSON(http.StatusCreated, BoolResponse{Success: ok})
}

func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	auctionID := c.Param("id")

	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BoolResponse{Success: false, Error: "invalid request body"})
	}

	if req.BidderID == "" {
		return c.JSON(http.StatusBadRequest, BoolResponse{Success: false, Error: "bidder_id is required"})
	}

	accepted, err := h.auctionService.PlaceBid(c.Request().Context(), auctionID, req.BidderID, req.BidAmount)
	if err != nil {
		if errors.Is(err, domain.ErrAuctionNotFound) {
			return c.JSON(http.StatusNotFound, BoolResponse{Success: false, Error: "auction not found"})
		}
		return c.JSON(http.StatusInternalServerError, BoolResponse{Success: false})
	}

	// A bid below the floor is an expected outcome, not an error.
	return c.JSON(http.StatusOK, BoolResponse{Success: accepted})
}

func (h *AuctionHandler) ConcludeAuction(c echo.Context) error {
	auctionID := c.Param("id")

	result, err := h.auctionService.Conclude(c.Request().Context(), auctionID)
	if err != nil {
		// Storage failures surface as an empty result, never as a dropped
		// connection.
		return c.JSON(http.StatusInternalServerError, &domain.AuctionResult{})
	}

	return c.JSON(http.StatusOK, result)
}
