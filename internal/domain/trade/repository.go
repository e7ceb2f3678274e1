package trade

import (
	"context"

	"github.com/google/uuid"
)

// SaleOrderRepository defines the persistence interface for sale orders
type SaleOrderRepository interface {
	// FindByID finds a sale order with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*SaleOrder, error)

	// FindByOrderNumber finds a sale order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*SaleOrder, error)

	// FindInvoiceableByPartner returns the partner's orders in the sale state
	// with billable work remaining
	FindInvoiceableByPartner(ctx context.Context, partnerID uuid.UUID) ([]SaleOrder, error)

	// Save creates or updates a sale order with its lines
	Save(ctx context.Context, order *SaleOrder) error
}
