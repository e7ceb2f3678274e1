package request

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for invoice requests
type Repository interface {
	// FindByID finds a request by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InvoiceRequest, error)

	// FindByPartner returns all requests of a partner, newest first
	FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]InvoiceRequest, error)

	// FindByPartnerAndState returns a partner's requests in the given state
	FindByPartnerAndState(ctx context.Context, partnerID uuid.UUID, state State) ([]InvoiceRequest, error)

	// FindByState returns all requests in the given state
	FindByState(ctx context.Context, state State) ([]InvoiceRequest, error)

	// FindApprovedByInvoice finds the approved request linking a partner to
	// an invoice, if any
	FindApprovedByInvoice(ctx context.Context, partnerID, invoiceID uuid.UUID) (*InvoiceRequest, error)

	// ExistsActiveForOrder reports whether a pending or approved request
	// already covers the (partner, sale order) pair
	ExistsActiveForOrder(ctx context.Context, partnerID, saleOrderID uuid.UUID) (bool, error)

	// ActiveOrderIDs returns the sale order IDs of a partner already covered
	// by a pending or approved request
	ActiveOrderIDs(ctx context.Context, partnerID uuid.UUID) ([]uuid.UUID, error)

	// CountByPartner counts all requests of a partner
	CountByPartner(ctx context.Context, partnerID uuid.UUID) (int64, error)

	// Save creates or updates a request
	Save(ctx context.Context, r *InvoiceRequest) error

	// GenerateRequestNumber produces the next sequence reference, REQ/NNNN
	GenerateRequestNumber(ctx context.Context) (string, error)
}
