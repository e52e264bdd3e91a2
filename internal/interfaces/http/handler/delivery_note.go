package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	documentapp "github.com/tradedoc/backend/internal/application/document"
	"github.com/tradedoc/backend/internal/domain/document"
	"github.com/tradedoc/backend/internal/domain/shared"
	"github.com/tradedoc/backend/internal/interfaces/http/dto"
)

// DeliveryNoteHandler exposes the delivery note API.
type DeliveryNoteHandler struct {
	BaseHandler
	service *documentapp.DeliveryNoteService
}

// NewDeliveryNoteHandler creates a new DeliveryNoteHandler
func NewDeliveryNoteHandler(service *documentapp.DeliveryNoteService) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{service: service}
}

// RegisterRoutes registers delivery note routes on the given group
func (h *DeliveryNoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notes := rg.Group("/delivery-notes")
	{
		notes.GET("", h.List)
		notes.GET("/:id", h.Get)
		notes.POST("", h.Create)
		notes.PUT("/:id", h.Edit)
		notes.POST("/:id/cancel", h.Cancel)
		notes.POST("/:id/reactivate", h.Reactivate)
	}
}

// noteItemBody is one requested line on a delivery note
type noteItemBody struct {
	ItemID          *uuid.UUID       `json:"itemId,omitempty"`
	ProductID       string           `json:"productId" binding:"required,uuid"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unitPrice,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discountPercent"`
}

// createNoteBody is the wire form of a delivery note creation
type createNoteBody struct {
	Type     string         `json:"type" binding:"required,oneof=local export"`
	ClientID string         `json:"clientId" binding:"required,uuid"`
	Date     string         `json:"date" binding:"required"`
	Currency string         `json:"currency"`
	Items    []noteItemBody `json:"items" binding:"required,min=1,dive"`
}

// editNoteBody rewrites a note's header and full item list
type editNoteBody struct {
	ClientID string         `json:"clientId" binding:"required,uuid"`
	Date     string         `json:"date" binding:"required"`
	Items    []noteItemBody `json:"items" binding:"required,dive"`
}

// cancelNoteBody is the wire form of a cancellation
type cancelNoteBody struct {
	Reason string `json:"reason"`
}

func toItemRequests(items []noteItemBody) []documentapp.NoteItemRequest {
	out := make([]documentapp.NoteItemRequest, 0, len(items))
	for _, item := range items {
		out = append(out, documentapp.NoteItemRequest{
			ItemID:          item.ItemID,
			ProductID:       uuid.MustParse(item.ProductID),
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
		})
	}
	return out
}

// Create creates a delivery note and applies its stock movements
func (h *DeliveryNoteHandler) Create(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var body createNoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := shared.ParseDate(body.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	req := documentapp.CreateNoteRequest{
		Type:     document.NoteType(body.Type),
		ClientID: uuid.MustParse(body.ClientID),
		Date:     date,
		Currency: body.Currency,
		Items:    toItemRequests(body.Items),
	}

	note, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, note)
}

// Edit replaces a note's header and item list, reconciling stock
func (h *DeliveryNoteHandler) Edit(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery note ID format")
		return
	}

	var body editNoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := shared.ParseDate(body.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	req := documentapp.EditNoteRequest{
		ClientID: uuid.MustParse(body.ClientID),
		Date:     date,
		Items:    toItemRequests(body.Items),
	}

	note, err := h.service.Edit(c.Request.Context(), actor, noteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, note)
}

// Cancel cancels a note and reverses its stock movements
func (h *DeliveryNoteHandler) Cancel(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery note ID format")
		return
	}

	var body cancelNoteBody
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	note, err := h.service.Cancel(c.Request.Context(), actor, noteID, documentapp.CancelNoteRequest{Reason: body.Reason})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, note)
}

// Reactivate restores a cancelled note and re-applies its movements
func (h *DeliveryNoteHandler) Reactivate(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery note ID format")
		return
	}

	note, err := h.service.Reactivate(c.Request.Context(), actor, noteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, note)
}

// Get returns a delivery note by ID
func (h *DeliveryNoteHandler) Get(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery note ID format")
		return
	}

	note, err := h.service.Get(c.Request.Context(), noteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, note)
}

// List returns delivery notes with pagination
func (h *DeliveryNoteHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	filter.Filters = noteListFilters(c)

	notes, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, notes, total, filter.Page, filter.PageSize)
}

// noteListFilters collects optional delivery note query filters
func noteListFilters(c *gin.Context) map[string]interface{} {
	filters := make(map[string]interface{})
	if v := c.Query("status"); v != "" {
		filters["status"] = v
	}
	if v := c.Query("type"); v != "" {
		filters["type"] = v
	}
	if v := c.Query("client_id"); v != "" {
		filters["client_id"] = v
	}
	if v := c.Query("date_from"); v != "" {
		filters["date_from"] = v
	}
	if v := c.Query("date_to"); v != "" {
		filters["date_to"] = v
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}
