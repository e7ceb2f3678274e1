package finance

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	// FindByID finds an invoice with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByOrigin finds invoices created from the given order number
	FindByOrigin(ctx context.Context, origin string) ([]Invoice, error)

	// Save creates or updates an invoice with its lines
	Save(ctx context.Context, invoice *Invoice) error

	// GenerateInvoiceNumber produces the next document name, INV/YYYY/NNNNN
	GenerateInvoiceNumber(ctx context.Context) (string, error)
}
