package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	documentapp "github.com/tradedoc/backend/internal/application/document"
	"github.com/tradedoc/backend/internal/domain/shared"
	"github.com/tradedoc/backend/internal/interfaces/http/dto"
)

// InvoiceHandler exposes the invoice API.
type InvoiceHandler struct {
	BaseHandler
	service *documentapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service *documentapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// RegisterRoutes registers invoice routes on the given group
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.List)
		invoices.GET("/:id", h.Get)
		invoices.POST("", h.Create)
		invoices.POST("/:id/cancel", h.Cancel)
	}
}

// createInvoiceBody is the wire form of invoice generation.
// Date is optional, defaulting to today.
type createInvoiceBody struct {
	DeliveryNoteID string `json:"deliveryNoteId" binding:"required,uuid"`
	Date           string `json:"date"`
}

// Create generates an invoice from a delivery note. Generation is
// idempotent: when an active invoice already covers the note it is
// returned with a 200 instead of creating a duplicate.
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var body createInvoiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	req := documentapp.CreateInvoiceRequest{
		DeliveryNoteID: uuid.MustParse(body.DeliveryNoteID),
	}
	if body.Date != "" {
		date, err := shared.ParseDate(body.Date)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		req.Date = date
	}

	invoice, err := h.service.CreateFromDeliveryNote(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if invoice.AlreadyExists {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(invoice))
		return
	}
	h.Created(c, invoice)
}

// Cancel cancels an invoice, freeing its note for regeneration
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.service.Cancel(c.Request.Context(), actor, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Get returns an invoice by ID
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.service.Get(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List returns invoices with pagination
func (h *InvoiceHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	filter.Filters = invoiceListFilters(c)

	invoices, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

func invoiceListFilters(c *gin.Context) map[string]interface{} {
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
	if v := c.Query("delivery_note_id"); v != "" {
		filters["delivery_note_id"] = v
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}
