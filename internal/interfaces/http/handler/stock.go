package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledgerapp "github.com/tradedoc/backend/internal/application/ledger"
	"github.com/tradedoc/backend/internal/domain/shared"
	"github.com/tradedoc/backend/internal/interfaces/http/dto"
)

// StockHandler exposes the stock ledger API.
type StockHandler struct {
	BaseHandler
	service *ledgerapp.StockLedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(service *ledgerapp.StockLedgerService) *StockHandler {
	return &StockHandler{service: service}
}

// RegisterRoutes registers stock routes on the given group
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.GET("", h.List)
		stock.GET("/:productId", h.Get)
		stock.GET("/:productId/movements", h.ListMovements)
		stock.POST("/purchases", h.RecordPurchase)
		stock.POST("/adjustments", h.RecordAdjustment)
		stock.PUT("/adjustments/:id", h.EditAdjustment)
		stock.DELETE("/adjustments/:id", h.DeleteAdjustment)
	}
}

// recordPurchaseBody is the wire form of a purchase entry
type recordPurchaseBody struct {
	ProductID string          `json:"productId" binding:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unitCost" binding:"required"`
	Date      string          `json:"date" binding:"required"`
	Notes     string          `json:"notes"`
}

// adjustmentBody is the wire form of a stock adjustment.
// Quantity is signed: positive adds stock, negative removes it.
type adjustmentBody struct {
	ProductID string          `json:"productId" binding:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Date      string          `json:"date" binding:"required"`
	Notes     string          `json:"notes"`
}

// editAdjustmentBody rewrites an existing adjustment
type editAdjustmentBody struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Date     string          `json:"date" binding:"required"`
	Notes    string          `json:"notes"`
}

// RecordPurchase records an inbound purchase movement
func (h *StockHandler) RecordPurchase(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var body recordPurchaseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := shared.ParseDate(body.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	req := ledgerapp.RecordPurchaseRequest{
		ProductID: uuid.MustParse(body.ProductID),
		Quantity:  body.Quantity,
		UnitCost:  body.UnitCost,
		Date:      date,
		Notes:     body.Notes,
	}

	movement, err := h.service.RecordPurchase(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// RecordAdjustment records a manual stock adjustment
func (h *StockHandler) RecordAdjustment(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var body adjustmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := shared.ParseDate(body.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	req := ledgerapp.RecordAdjustmentRequest{
		ProductID: uuid.MustParse(body.ProductID),
		Quantity:  body.Quantity,
		Date:      date,
		Notes:     body.Notes,
	}

	movement, err := h.service.RecordAdjustment(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// EditAdjustment rewrites an existing adjustment movement
func (h *StockHandler) EditAdjustment(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID format")
		return
	}

	var body editAdjustmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := shared.ParseDate(body.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	req := ledgerapp.EditAdjustmentRequest{
		MovementID: movementID,
		Quantity:   body.Quantity,
		Date:       date,
		Notes:      body.Notes,
	}

	movement, err := h.service.EditAdjustment(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movement)
}

// DeleteAdjustment removes an adjustment and reverts its stock effect
func (h *StockHandler) DeleteAdjustment(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID format")
		return
	}

	if err := h.service.DeleteAdjustment(c.Request.Context(), actor, movementID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get returns the stock snapshot for a product
func (h *StockHandler) Get(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	stock, err := h.service.GetStock(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stock)
}

// List returns stock snapshots with pagination
func (h *StockHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	stocks, total, err := h.service.ListStock(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, stocks, total, filter.Page, filter.PageSize)
}

// ListMovements returns the movement history for a product
func (h *StockHandler) ListMovements(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	movements, total, err := h.service.ListMovements(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}
