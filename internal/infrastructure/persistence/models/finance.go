package models

import (
	"time"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice domain entity.
type InvoiceModel struct {
	BaseModel
	Name        string                `gorm:"type:varchar(50);index"`
	PartnerID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	MoveType    finance.MoveType      `gorm:"type:varchar(20);not null;default:'out_invoice'"`
	Origin      string                `gorm:"type:varchar(50);index"`
	Status      finance.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	AmountTotal decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	PostedAt    *time.Time            `gorm:"type:timestamptz"`
	Lines       []InvoiceLineModel    `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel is the persistence model for an invoice line.
type InvoiceLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	Description string          `gorm:"type:text"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	inv := &finance.Invoice{
		BaseEntity:  m.baseEntity(),
		Name:        m.Name,
		PartnerID:   m.PartnerID,
		MoveType:    m.MoveType,
		Origin:      m.Origin,
		Status:      m.Status,
		AmountTotal: m.AmountTotal,
		PostedAt:    m.PostedAt,
	}
	for _, lm := range m.Lines {
		inv.Lines = append(inv.Lines, finance.InvoiceLine{
			ID:          lm.ID,
			InvoiceID:   lm.InvoiceID,
			ProductID:   lm.ProductID,
			Description: lm.Description,
			Quantity:    lm.Quantity,
			UnitPrice:   lm.UnitPrice,
			Unit:        lm.Unit,
		})
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(i *finance.Invoice) {
	m.setBase(i.BaseEntity)
	m.Name = i.Name
	m.PartnerID = i.PartnerID
	m.MoveType = i.MoveType
	m.Origin = i.Origin
	m.Status = i.Status
	m.AmountTotal = i.AmountTotal
	m.PostedAt = i.PostedAt
	m.Lines = m.Lines[:0]
	for _, l := range i.Lines {
		m.Lines = append(m.Lines, InvoiceLineModel{
			ID:          l.ID,
			InvoiceID:   i.ID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Unit:        l.Unit,
		})
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(i *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}
