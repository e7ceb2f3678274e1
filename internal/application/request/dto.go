package request

import (
	"time"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/partner"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/request"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/trade"
	"github.com/google/uuid"
)

// statusTimeLayout is the timestamp format used on the portal status page
const statusTimeLayout = "2006-01-02 15:04"

// PartnerInfo is the partner section of the portal form props
type PartnerInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// SaleOrderSummary is a sale order as shown in the portal order picker
type SaleOrderSummary struct {
	ID            uuid.UUID `json:"id"`
	OrderNumber   string    `json:"name"`
	AmountTotal   string    `json:"amount_total"`
	State         string    `json:"state"`
	InvoiceStatus string    `json:"invoice_status"`
}

// RequestSummary is an invoice request as shown on portal and admin listings
type RequestSummary struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	SaleOrderID  uuid.UUID  `json:"sale_order_id"`
	SaleOrder    string     `json:"sale_order,omitempty"`
	State        string     `json:"state"`
	RequestDate  string     `json:"request_date"`
	ApprovalDate string     `json:"approval_date"`
	InvoiceID    *uuid.UUID `json:"invoice_id,omitempty"`
	InvoiceName  string     `json:"invoice_name,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// FormProps is the payload backing the portal request form
type FormProps struct {
	Partner          PartnerInfo        `json:"partner"`
	AvailableOrders  []SaleOrderSummary `json:"sale_orders"`
	PendingRequests  []RequestSummary   `json:"pending_requests"`
	ApprovedRequests []RequestSummary   `json:"approved_requests"`
	Token            string             `json:"token"`
}

// CreateRequestInput is the portal request-creation body
type CreateRequestInput struct {
	SaleOrderID uuid.UUID `json:"sale_order_id" binding:"required"`
	Notes       string    `json:"notes"`
}

// CreateRequestResult reports the outcome of a portal request creation.
// Business failures carry Success=false and a message; they are not errors.
type CreateRequestResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Request *RequestSummary `json:"request,omitempty"`
}

// StatusResponse is the portal status page payload
type StatusResponse struct {
	Pending  []RequestSummary `json:"pending_requests"`
	Approved []RequestSummary `json:"approved_requests"`
}

// DownloadResult carries a rendered invoice PDF
type DownloadResult struct {
	FileName string
	PDFData  []byte
}

// PartnerSummary is a partner row on the admin listing
type PartnerSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ExternalToken string    `json:"external_token,omitempty"`
	RequestCount  int64     `json:"request_count"`
}

// ApprovalOutcome reports one request's result within a batch approval
type ApprovalOutcome struct {
	RequestID uuid.UUID  `json:"request_id"`
	Success   bool       `json:"success"`
	Message   string     `json:"message,omitempty"`
	InvoiceID *uuid.UUID `json:"invoice_id,omitempty"`
}

// ToPartnerInfo maps a partner to its portal representation
func ToPartnerInfo(p *partner.Partner) PartnerInfo {
	return PartnerInfo{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
	}
}

// ToSaleOrderSummary maps a sale order to its portal representation
func ToSaleOrderSummary(o *trade.SaleOrder) SaleOrderSummary {
	return SaleOrderSummary{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		AmountTotal:   o.AmountTotal.StringFixed(2),
		State:         o.State.String(),
		InvoiceStatus: o.InvoiceStatus.String(),
	}
}

// ToSaleOrderSummaries maps a slice of sale orders
func ToSaleOrderSummaries(orders []trade.SaleOrder) []SaleOrderSummary {
	out := make([]SaleOrderSummary, 0, len(orders))
	for i := range orders {
		out = append(out, ToSaleOrderSummary(&orders[i]))
	}
	return out
}

// ToRequestSummary maps a request to its listing representation. Nil
// timestamps serialize as empty strings, matching the portal status page.
func ToRequestSummary(r *request.InvoiceRequest, orderNumber, invoiceName string) RequestSummary {
	return RequestSummary{
		ID:           r.ID,
		Name:         r.Name,
		SaleOrderID:  r.SaleOrderID,
		SaleOrder:    orderNumber,
		State:        r.State.String(),
		RequestDate:  formatStatusTime(&r.RequestDate),
		ApprovalDate: formatStatusTime(r.ApprovalDate),
		InvoiceID:    r.InvoiceID,
		InvoiceName:  invoiceName,
		Notes:        r.Notes,
	}
}

func formatStatusTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(statusTimeLayout)
}
