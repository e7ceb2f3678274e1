package models

import (
	"time"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/request"
	"github.com/google/uuid"
)

// InvoiceRequestModel is the persistence model for the InvoiceRequest domain entity.
// A partial unique index on (partner_id, sale_order_id) restricted to active
// states backs the one-active-request-per-order rule at the database level.
type InvoiceRequestModel struct {
	BaseModel
	Name         string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	PartnerID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	SaleOrderID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	State        request.State `gorm:"type:varchar(20);not null;default:'pending';index"`
	InvoiceID    *uuid.UUID    `gorm:"type:uuid;index"`
	RequestDate  time.Time     `gorm:"type:timestamptz;not null"`
	ApprovalDate *time.Time    `gorm:"type:timestamptz"`
	ApprovedBy   *uuid.UUID    `gorm:"type:uuid"`
	Notes        string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceRequestModel) TableName() string {
	return "invoice_requests"
}

// ToDomain converts the persistence model to a domain InvoiceRequest entity.
func (m *InvoiceRequestModel) ToDomain() *request.InvoiceRequest {
	return &request.InvoiceRequest{
		BaseEntity:   m.baseEntity(),
		Name:         m.Name,
		PartnerID:    m.PartnerID,
		SaleOrderID:  m.SaleOrderID,
		State:        m.State,
		InvoiceID:    m.InvoiceID,
		RequestDate:  m.RequestDate,
		ApprovalDate: m.ApprovalDate,
		ApprovedBy:   m.ApprovedBy,
		Notes:        m.Notes,
	}
}

// FromDomain populates the persistence model from a domain InvoiceRequest entity.
func (m *InvoiceRequestModel) FromDomain(r *request.InvoiceRequest) {
	m.setBase(r.BaseEntity)
	m.Name = r.Name
	m.PartnerID = r.PartnerID
	m.SaleOrderID = r.SaleOrderID
	m.State = r.State
	m.InvoiceID = r.InvoiceID
	m.RequestDate = r.RequestDate
	m.ApprovalDate = r.ApprovalDate
	m.ApprovedBy = r.ApprovedBy
	m.Notes = r.Notes
}

// InvoiceRequestModelFromDomain creates a new persistence model from a domain InvoiceRequest entity.
func InvoiceRequestModelFromDomain(r *request.InvoiceRequest) *InvoiceRequestModel {
	m := &InvoiceRequestModel{}
	m.FromDomain(r)
	return m
}
