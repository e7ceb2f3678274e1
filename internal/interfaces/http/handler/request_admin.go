package handler

import (
	apprequest "github.com/JakfarS/invoice-request-mceasy/internal/application/request"
	"github.com/JakfarS/invoice-request-mceasy/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestHandler serves the internal invoice-request approval API
type RequestHandler struct {
	BaseHandler
	approvalService *apprequest.ApprovalService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(approvalService *apprequest.ApprovalService) *RequestHandler {
	return &RequestHandler{
		approvalService: approvalService,
	}
}

// batchApproveBody carries the request ids for a batch approval
type batchApproveBody struct {
	RequestIDs []uuid.UUID `json:"request_ids" binding:"required,min=1,max=100"`
}

// List returns invoice requests, optionally filtered by state
// GET /api/v1/invoice-requests?state=pending
func (h *RequestHandler) List(c *gin.Context) {
	requests, err := h.approvalService.List(c.Request.Context(), c.Query("state"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"requests": requests})
}

// Get returns one invoice request
// GET /api/v1/invoice-requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	summary, err := h.approvalService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Approve approves a pending request, synthesizing and posting its invoice
// POST /api/v1/invoice-requests/:id/approve
func (h *RequestHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	approvedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.approvalService.Approve(c.Request.Context(), id, approvedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// ApproveBatch approves several requests; each outcome is independent
// POST /api/v1/invoice-requests/approve-batch
func (h *RequestHandler) ApproveBatch(c *gin.Context) {
	var body batchApproveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	approvedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	outcomes := h.approvalService.ApproveBatch(c.Request.Context(), body.RequestIDs, approvedBy)
	h.Success(c, gin.H{"outcomes": outcomes})
}

// Reset moves an approved request back to pending
// POST /api/v1/invoice-requests/:id/reset
func (h *RequestHandler) Reset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	summary, err := h.approvalService.ResetToPending(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// PartnerHandler serves the internal partner administration API
type PartnerHandler struct {
	BaseHandler
	approvalService *apprequest.ApprovalService
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(approvalService *apprequest.ApprovalService) *PartnerHandler {
	return &PartnerHandler{
		approvalService: approvalService,
	}
}

// List returns all partners with their request counts
// GET /api/v1/partners
func (h *PartnerHandler) List(c *gin.Context) {
	partners, err := h.approvalService.ListPartners(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"partners": partners})
}

// Requests returns all invoice requests of one partner
// GET /api/v1/partners/:id/requests
func (h *PartnerHandler) Requests(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}

	requests, err := h.approvalService.PartnerRequests(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"requests": requests})
}

// GenerateToken ensures the partner holds a portal token and returns it
// POST /api/v1/partners/:id/token
func (h *PartnerHandler) GenerateToken(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}

	token, err := h.approvalService.GenerateToken(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"external_token": token})
}
