package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
)

// BaseModel holds the columns every table shares: a uuid primary key and
// audit timestamps. Timestamps are managed by the domain layer through
// shared.BaseEntity, not by GORM hooks.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// baseEntity converts the shared columns into the domain's embedded value.
func (m *BaseModel) baseEntity() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// setBase copies the domain's embedded value into the shared columns.
func (m *BaseModel) setBase(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}
