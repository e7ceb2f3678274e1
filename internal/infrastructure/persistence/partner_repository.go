package persistence

import (
	"context"
	"errors"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/partner"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartnerRepository implements partner.Repository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := conn(ctx, r.db).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalToken finds the partner holding the given portal token
func (r *GormPartnerRepository) FindByExternalToken(ctx context.Context, token string) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := conn(ctx, r.db).
		Where("external_token = ?", token).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all partners ordered by name
func (r *GormPartnerRepository) FindAll(ctx context.Context) ([]partner.Partner, error) {
	var modelList []models.PartnerModel
	if err := conn(ctx, r.db).
		Order("name ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	partners := make([]partner.Partner, len(modelList))
	for i := range modelList {
		partners[i] = *modelList[i].ToDomain()
	}
	return partners, nil
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	model := models.PartnerModelFromDomain(p)
	return conn(ctx, r.db).Save(model).Error
}
