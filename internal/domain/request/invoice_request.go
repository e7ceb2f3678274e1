package request

import (
	"time"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/google/uuid"
)

// State represents the lifecycle state of an invoice request.
// The declared lifecycle is pending -> approved. No rejected or cancelled
// state is declared; the admin reset operation nevertheless accepts a
// "rejected" value for compatibility with older records, see resettableStates.
type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
)

// IsValid checks if the state is a declared State
func (s State) IsValid() bool {
	return s == StatePending || s == StateApproved
}

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// IsTerminal reports whether the state ends the request lifecycle.
// Both declared states count as non-terminal for duplicate detection:
// a pending or approved request blocks a new request on the same order.
func (s State) IsTerminal() bool {
	return !s.IsValid()
}

// resettableStates are the states the admin reset accepts. "rejected" is not
// a declared state and no code path produces it, so for records written by
// this service only approved requests are ever reset.
var resettableStates = map[string]bool{
	string(StateApproved): true,
	"rejected":            true,
}

// InvoiceRequest is a partner's request to have a confirmed sale order
// invoiced. Duplicate protection holds at most one pending or approved
// request per (partner, sale order) pair.
type InvoiceRequest struct {
	shared.BaseEntity
	Name         string // sequence reference, e.g. REQ/0001, immutable once assigned
	PartnerID    uuid.UUID
	SaleOrderID  uuid.UUID
	State        State
	InvoiceID    *uuid.UUID
	RequestDate  time.Time
	ApprovalDate *time.Time
	ApprovedBy   *uuid.UUID
	Notes        string
}

// NewInvoiceRequest creates a pending invoice request
func NewInvoiceRequest(name string, partnerID, saleOrderID uuid.UUID, notes string) (*InvoiceRequest, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Request reference cannot be empty")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if saleOrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE_ORDER", "Sale order ID cannot be empty")
	}

	return &InvoiceRequest{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		PartnerID:   partnerID,
		SaleOrderID: saleOrderID,
		State:       StatePending,
		RequestDate: time.Now(),
		Notes:       notes,
	}, nil
}

// IsPending reports whether the request awaits approval
func (r *InvoiceRequest) IsPending() bool {
	return r.State == StatePending
}

// IsApproved reports whether the request has been approved
func (r *InvoiceRequest) IsApproved() bool {
	return r.State == StateApproved
}

// Approve marks the request approved, recording the posted invoice and the
// approving user. Only a pending request can be approved, which guarantees a
// request never yields more than one invoice.
func (r *InvoiceRequest) Approve(invoiceID, approvedBy uuid.UUID) error {
	if r.State != StatePending {
		return shared.NewDomainError("INVALID_STATE", "Only pending requests can be approved")
	}
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}

	now := time.Now()
	r.State = StateApproved
	r.InvoiceID = &invoiceID
	r.ApprovalDate = &now
	r.ApprovedBy = &approvedBy
	r.UpdatedAt = now

	return nil
}

// ResetToPending returns an approved request to pending, clearing the
// approval stamps. The invoice itself is left untouched; unlinking is the
// whole effect.
func (r *InvoiceRequest) ResetToPending() error {
	if !resettableStates[string(r.State)] {
		return shared.NewDomainError("INVALID_STATE", "Only approved requests can be reset to pending")
	}

	r.State = StatePending
	r.InvoiceID = nil
	r.ApprovalDate = nil
	r.ApprovedBy = nil
	r.Touch()

	return nil
}

// LinksInvoice reports whether this request is the approved link between its
// partner and the given invoice. PDF download authorization rests solely on
// this predicate.
func (r *InvoiceRequest) LinksInvoice(partnerID, invoiceID uuid.UUID) bool {
	return r.IsApproved() &&
		r.PartnerID == partnerID &&
		r.InvoiceID != nil && *r.InvoiceID == invoiceID
}
