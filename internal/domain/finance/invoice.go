package finance

import (
	"time"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoveType distinguishes the accounting document kind
type MoveType string

const (
	MoveTypeCustomerInvoice MoveType = "out_invoice"
	MoveTypeCustomerRefund  MoveType = "out_refund"
)

// IsValid checks if the move type is known
func (t MoveType) IsValid() bool {
	return t == MoveTypeCustomerInvoice || t == MoveTypeCustomerRefund
}

// InvoiceStatus represents the posting state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusPosted InvoiceStatus = "posted"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusDraft || s == InvoiceStatusPosted
}

// InvoiceLine represents a billed line on an invoice
type InvoiceLine struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	ProductID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Unit        string
}

// Subtotal returns quantity times unit price
func (l *InvoiceLine) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Invoice is a customer accounting document synthesized from a sale order.
type Invoice struct {
	shared.BaseEntity
	Name        string // assigned on posting, e.g. INV/2026/00001
	PartnerID   uuid.UUID
	MoveType    MoveType
	Origin      string // source order number
	Status      InvoiceStatus
	AmountTotal decimal.Decimal
	Lines       []InvoiceLine
	PostedAt    *time.Time
}

// NewInvoice creates a draft invoice
func NewInvoice(partnerID uuid.UUID, moveType MoveType, origin string) (*Invoice, error) {
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if !moveType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVE_TYPE", "Unknown move type")
	}

	return &Invoice{
		BaseEntity:  shared.NewBaseEntity(),
		PartnerID:   partnerID,
		MoveType:    moveType,
		Origin:      origin,
		Status:      InvoiceStatusDraft,
		AmountTotal: decimal.Zero,
		Lines:       make([]InvoiceLine, 0),
	}, nil
}

// NewInvoiceFromOrder builds a draft customer invoice from a sale order,
// copying only the lines billed on ordered quantities. Returns an error when
// no line is billable, so a delivery-only order never yields an empty invoice.
func NewInvoiceFromOrder(order *trade.SaleOrder) (*Invoice, error) {
	billable := order.InvoiceableLines()
	if len(billable) == 0 {
		return nil, shared.NewDomainError("NO_BILLABLE_LINES", "Sale order has no lines billable on ordered quantities")
	}

	inv, err := NewInvoice(order.PartnerID, MoveTypeCustomerInvoice, order.OrderNumber)
	if err != nil {
		return nil, err
	}

	for _, l := range billable {
		if err := inv.AddLine(l.ProductID, l.Description, l.Quantity, l.UnitPrice, l.Unit); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// AddLine appends a line to a draft invoice and recomputes the total
func (i *Invoice) AddLine(productID uuid.UUID, description string, quantity, unitPrice decimal.Decimal, unit string) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add lines to a posted invoice")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	i.Lines = append(i.Lines, InvoiceLine{
		ID:          uuid.New(),
		InvoiceID:   i.ID,
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Unit:        unit,
	})
	i.recalculateTotal()
	i.Touch()

	return nil
}

// Post finalizes the invoice. Posting assigns the document name and is
// one-way: a posted invoice can never return to draft.
func (i *Invoice) Post(name string) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already posted")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Invoice name cannot be empty")
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot post invoice without lines")
	}

	now := time.Now()
	i.Name = name
	i.Status = InvoiceStatusPosted
	i.PostedAt = &now
	i.UpdatedAt = now

	return nil
}

// IsPosted reports whether the invoice has been posted
func (i *Invoice) IsPosted() bool {
	return i.Status == InvoiceStatusPosted
}

func (i *Invoice) recalculateTotal() {
	total := decimal.Zero
	for _, l := range i.Lines {
		total = total.Add(l.Subtotal())
	}
	i.AmountTotal = total
}
