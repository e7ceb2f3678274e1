package models

import (
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleOrderModel is the persistence model for the SaleOrder domain entity.
type SaleOrderModel struct {
	BaseModel
	OrderNumber   string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	PartnerID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	State         trade.OrderState     `gorm:"type:varchar(20);not null;default:'draft'"`
	InvoiceStatus trade.InvoiceStatus  `gorm:"type:varchar(20);not null;default:'no'"`
	AmountTotal   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Lines         []SaleOrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (SaleOrderModel) TableName() string {
	return "sale_orders"
}

// SaleOrderLineModel is the persistence model for a sale order line.
type SaleOrderLineModel struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key"`
	OrderID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID           `gorm:"type:uuid;not null"`
	ProductName   string              `gorm:"type:varchar(200);not null"`
	Description   string              `gorm:"type:text"`
	Quantity      decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Unit          string              `gorm:"type:varchar(50)"`
	InvoicePolicy trade.InvoicePolicy `gorm:"type:varchar(20);not null;default:'order'"`
}

// TableName returns the table name for GORM
func (SaleOrderLineModel) TableName() string {
	return "sale_order_lines"
}

// ToDomain converts the persistence model to a domain SaleOrder entity.
func (m *SaleOrderModel) ToDomain() *trade.SaleOrder {
	order := &trade.SaleOrder{
		BaseEntity:    m.baseEntity(),
		OrderNumber:   m.OrderNumber,
		PartnerID:     m.PartnerID,
		State:         m.State,
		InvoiceStatus: m.InvoiceStatus,
		AmountTotal:   m.AmountTotal,
	}
	for _, lm := range m.Lines {
		order.Lines = append(order.Lines, trade.SaleOrderLine{
			ID:            lm.ID,
			OrderID:       lm.OrderID,
			ProductID:     lm.ProductID,
			ProductName:   lm.ProductName,
			Description:   lm.Description,
			Quantity:      lm.Quantity,
			UnitPrice:     lm.UnitPrice,
			Unit:          lm.Unit,
			InvoicePolicy: lm.InvoicePolicy,
		})
	}
	return order
}

// FromDomain populates the persistence model from a domain SaleOrder entity.
func (m *SaleOrderModel) FromDomain(o *trade.SaleOrder) {
	m.setBase(o.BaseEntity)
	m.OrderNumber = o.OrderNumber
	m.PartnerID = o.PartnerID
	m.State = o.State
	m.InvoiceStatus = o.InvoiceStatus
	m.AmountTotal = o.AmountTotal
	m.Lines = m.Lines[:0]
	for _, l := range o.Lines {
		m.Lines = append(m.Lines, SaleOrderLineModel{
			ID:            l.ID,
			OrderID:       o.ID,
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			Description:   l.Description,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			Unit:          l.Unit,
			InvoicePolicy: l.InvoicePolicy,
		})
	}
}

// SaleOrderModelFromDomain creates a new persistence model from a domain SaleOrder entity.
func SaleOrderModelFromDomain(o *trade.SaleOrder) *SaleOrderModel {
	m := &SaleOrderModel{}
	m.FromDomain(o)
	return m
}
