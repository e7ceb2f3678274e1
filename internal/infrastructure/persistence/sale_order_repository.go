package persistence

import (
	"context"
	"errors"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/trade"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleOrderRepository implements trade.SaleOrderRepository using GORM
type GormSaleOrderRepository struct {
	db *gorm.DB
}

// NewGormSaleOrderRepository creates a new GormSaleOrderRepository
func NewGormSaleOrderRepository(db *gorm.DB) *GormSaleOrderRepository {
	return &GormSaleOrderRepository{db: db}
}

// FindByID finds a sale order with its lines
func (r *GormSaleOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SaleOrder, error) {
	var model models.SaleOrderModel
	if err := conn(ctx, r.db).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds a sale order by its order number
func (r *GormSaleOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SaleOrder, error) {
	var model models.SaleOrderModel
	if err := conn(ctx, r.db).
		Preload("Lines").
		Where("order_number = ?", orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindInvoiceableByPartner returns the partner's confirmed orders with
// billable work remaining, newest first
func (r *GormSaleOrderRepository) FindInvoiceableByPartner(ctx context.Context, partnerID uuid.UUID) ([]trade.SaleOrder, error) {
	var modelList []models.SaleOrderModel
	if err := conn(ctx, r.db).
		Preload("Lines").
		Where("partner_id = ? AND state = ? AND invoice_status = ?",
			partnerID, trade.OrderStateSale, trade.InvoiceStatusToInvoice).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	orders := make([]trade.SaleOrder, len(modelList))
	for i := range modelList {
		orders[i] = *modelList[i].ToDomain()
	}
	return orders, nil
}

// Save creates or updates a sale order with its lines
func (r *GormSaleOrderRepository) Save(ctx context.Context, order *trade.SaleOrder) error {
	model := models.SaleOrderModelFromDomain(order)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(&model).Error; err != nil {
			return err
		}

		// Replace lines wholesale: delete removed ones, upsert the rest
		currentLineIDs := make([]uuid.UUID, len(model.Lines))
		for i, line := range model.Lines {
			currentLineIDs[i] = line.ID
		}

		if len(currentLineIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", model.ID, currentLineIDs).
				Delete(&models.SaleOrderLineModel{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", model.ID).
				Delete(&models.SaleOrderLineModel{}).Error; err != nil {
				return err
			}
		}

		for i := range model.Lines {
			if err := tx.Save(&model.Lines[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
