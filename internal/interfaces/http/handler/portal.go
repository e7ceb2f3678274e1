package handler

import (
	"errors"
	"fmt"
	"net/http"

	apprequest "github.com/JakfarS/invoice-request-mceasy/internal/application/request"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/JakfarS/invoice-request-mceasy/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PortalHandler serves the anonymous customer portal. Every route carries the
// partner's external token in the URL; there is no other authentication.
type PortalHandler struct {
	BaseHandler
	portalService *apprequest.PortalService
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(portalService *apprequest.PortalService) *PortalHandler {
	return &PortalHandler{
		portalService: portalService,
	}
}

// handlePortalError writes portal JSON failures. A token that does not resolve
// is a business outcome on this surface, not an auth error: the portal client
// expects 200 with success=false and a message it shows verbatim.
func (h *PortalHandler) handlePortalError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.Is(err, shared.ErrInvalidToken) && errors.As(err, &domainErr) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": domainErr.Message})
		return
	}
	h.HandleError(c, err)
}

// createRequestBody is the portal request-creation payload
type createRequestBody struct {
	SaleOrderID uuid.UUID `json:"sale_order_id" binding:"required"`
	Notes       string    `json:"notes" binding:"max=2000"`
}

// Form returns the props backing the portal request form
// GET /external/sale-invoice/:token
func (h *PortalHandler) Form(c *gin.Context) {
	props, err := h.portalService.FormProps(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.handlePortalError(c, err)
		return
	}

	h.Success(c, props)
}

// AvailableOrders returns the partner's currently eligible sale orders
// GET /external/sale-invoice/:token/available_sos
func (h *PortalHandler) AvailableOrders(c *gin.Context) {
	orders, err := h.portalService.AvailableOrders(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.handlePortalError(c, err)
		return
	}

	h.Success(c, gin.H{"sale_orders": orders})
}

// CreateRequest submits a new invoice request. Business rule violations come
// back as 200 with success=false and a message the portal shows verbatim.
// POST /external/sale-invoice/:token/request
func (h *PortalHandler) CreateRequest(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.portalService.CreateRequest(c.Request.Context(), c.Param("token"), apprequest.CreateRequestInput{
		SaleOrderID: body.SaleOrderID,
		Notes:       body.Notes,
	})
	if err != nil {
		h.handlePortalError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Status returns the partner's pending and approved requests
// GET /external/sale-invoice/:token/status
func (h *PortalHandler) Status(c *gin.Context) {
	status, err := h.portalService.Status(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.handlePortalError(c, err)
		return
	}

	h.Success(c, status)
}

// Download streams the invoice PDF for an approved request. Any failure,
// including an invalid token or an invoice the partner never requested,
// produces the same 404.
// GET /external/sale-invoice/:token/download/:invoice_id
func (h *PortalHandler) Download(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("invoice_id"))
	if err != nil {
		h.NotFound(c, "Invoice not found")
		return
	}

	result, err := h.portalService.DownloadInvoice(c.Request.Context(), c.Param("token"), invoiceID)
	if err != nil {
		h.NotFound(c, "Invoice not found")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, "application/pdf", result.PDFData)
}
