package models

import (
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/partner"
)

// PartnerModel is the persistence model for the Partner domain entity.
type PartnerModel struct {
	BaseModel
	Name          string  `gorm:"type:varchar(200);not null"`
	Email         string  `gorm:"type:varchar(200);index"`
	ExternalToken *string `gorm:"type:varchar(64);uniqueIndex"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner entity.
func (m *PartnerModel) ToDomain() *partner.Partner {
	return &partner.Partner{
		BaseEntity:    m.baseEntity(),
		Name:          m.Name,
		Email:         m.Email,
		ExternalToken: m.ExternalToken,
	}
}

// FromDomain populates the persistence model from a domain Partner entity.
func (m *PartnerModel) FromDomain(p *partner.Partner) {
	m.setBase(p.BaseEntity)
	m.Name = p.Name
	m.Email = p.Email
	m.ExternalToken = p.ExternalToken
}

// PartnerModelFromDomain creates a new persistence model from a domain Partner entity.
func PartnerModelFromDomain(p *partner.Partner) *PartnerModel {
	m := &PartnerModel{}
	m.FromDomain(p)
	return m
}
