package trade

import (
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderState represents the lifecycle state of a sale order.
// The order lifecycle is driven by the upstream ERP; this service only reads
// and revalidates these fields, it never confirms or cancels orders itself.
type OrderState string

const (
	OrderStateDraft  OrderState = "draft"
	OrderStateSale   OrderState = "sale"
	OrderStateDone   OrderState = "done"
	OrderStateCancel OrderState = "cancel"
)

// IsValid checks if the state is a valid OrderState
func (s OrderState) IsValid() bool {
	switch s {
	case OrderStateDraft, OrderStateSale, OrderStateDone, OrderStateCancel:
		return true
	}
	return false
}

// String returns the string representation of OrderState
func (s OrderState) String() string {
	return string(s)
}

// InvoiceStatus represents the billing state of a sale order
type InvoiceStatus string

const (
	InvoiceStatusToInvoice InvoiceStatus = "to_invoice"
	InvoiceStatusInvoiced  InvoiceStatus = "invoiced"
	InvoiceStatusNo        InvoiceStatus = "no"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusToInvoice, InvoiceStatusInvoiced, InvoiceStatusNo:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// InvoicePolicy determines whether a product line is billed on ordered or
// delivered quantities. Only order-policy lines are copied onto invoices
// synthesized by this service.
type InvoicePolicy string

const (
	InvoicePolicyOrder    InvoicePolicy = "order"
	InvoicePolicyDelivery InvoicePolicy = "delivery"
)

// IsValid checks if the policy is a valid InvoicePolicy
func (p InvoicePolicy) IsValid() bool {
	return p == InvoicePolicyOrder || p == InvoicePolicyDelivery
}

// SaleOrderLine represents a line on a sale order
type SaleOrderLine struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	ProductID     uuid.UUID
	ProductName   string
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Unit          string
	InvoicePolicy InvoicePolicy
}

// Subtotal returns quantity times unit price
func (l *SaleOrderLine) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// SaleOrder is a read model of an upstream sale order.
type SaleOrder struct {
	shared.BaseEntity
	OrderNumber   string
	PartnerID     uuid.UUID
	State         OrderState
	InvoiceStatus InvoiceStatus
	AmountTotal   decimal.Decimal
	Lines         []SaleOrderLine
}

// NewSaleOrder creates a sale order read model
func NewSaleOrder(orderNumber string, partnerID uuid.UUID, state OrderState, invoiceStatus InvoiceStatus) (*SaleOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if !state.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATE", "Unknown sale order state")
	}
	if !invoiceStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_STATUS", "Unknown invoice status")
	}

	return &SaleOrder{
		BaseEntity:    shared.NewBaseEntity(),
		OrderNumber:   orderNumber,
		PartnerID:     partnerID,
		State:         state,
		InvoiceStatus: invoiceStatus,
		AmountTotal:   decimal.Zero,
		Lines:         make([]SaleOrderLine, 0),
	}, nil
}

// AddLine appends a line and recomputes the order total
func (o *SaleOrder) AddLine(productID uuid.UUID, productName, description string, quantity, unitPrice decimal.Decimal, unit string, policy InvoicePolicy) (*SaleOrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if !policy.IsValid() {
		return nil, shared.NewDomainError("INVALID_POLICY", "Unknown invoice policy")
	}

	line := SaleOrderLine{
		ID:            uuid.New(),
		OrderID:       o.ID,
		ProductID:     productID,
		ProductName:   productName,
		Description:   description,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		Unit:          unit,
		InvoicePolicy: policy,
	}
	o.Lines = append(o.Lines, line)
	o.recalculateTotal()
	o.Touch()

	return &o.Lines[len(o.Lines)-1], nil
}

// IsInvoiceable reports whether the order is eligible for an invoice request:
// confirmed and still carrying billable work.
func (o *SaleOrder) IsInvoiceable() bool {
	return o.State == OrderStateSale && o.InvoiceStatus == InvoiceStatusToInvoice
}

// BelongsTo reports whether the order belongs to the given partner
func (o *SaleOrder) BelongsTo(partnerID uuid.UUID) bool {
	return o.PartnerID == partnerID
}

// InvoiceableLines returns the lines billed on ordered quantities.
// Delivery-policy lines are excluded until delivery is recorded upstream.
func (o *SaleOrder) InvoiceableLines() []SaleOrderLine {
	lines := make([]SaleOrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		if l.InvoicePolicy == InvoicePolicyOrder {
			lines = append(lines, l)
		}
	}
	return lines
}

// MarkInvoiced records that the order has been fully invoiced
func (o *SaleOrder) MarkInvoiced() {
	o.InvoiceStatus = InvoiceStatusInvoiced
	o.Touch()
}

// RecomputeInvoiceStatus re-derives the billing state after an invoice was
// posted for the order. With every order-policy line invoiced in one document,
// a posted invoice moves the order to invoiced; an order with only
// delivery-policy lines stays as it was.
func (o *SaleOrder) RecomputeInvoiceStatus(hasPostedInvoice bool) {
	if hasPostedInvoice && len(o.InvoiceableLines()) > 0 {
		o.MarkInvoiced()
	}
}

func (o *SaleOrder) recalculateTotal() {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	o.AmountTotal = total
}
