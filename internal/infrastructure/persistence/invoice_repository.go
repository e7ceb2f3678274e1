package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/finance"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its lines
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
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

// FindByOrigin finds invoices created from the given order number
func (r *GormInvoiceRepository) FindByOrigin(ctx context.Context, origin string) ([]finance.Invoice, error) {
	var modelList []models.InvoiceModel
	if err := conn(ctx, r.db).
		Preload("Lines").
		Where("origin = ?", origin).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	invoices := make([]finance.Invoice, len(modelList))
	for i := range modelList {
		invoices[i] = *modelList[i].ToDomain()
	}
	return invoices, nil
}

// Save creates or updates an invoice with its lines
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(&model).Error; err != nil {
			return err
		}

		for i := range model.Lines {
			if err := tx.Save(&model.Lines[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GenerateInvoiceNumber produces the next document name in the form
// INV/YYYY/NNNNN, where the sequence restarts each year
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("INV/%d/", year)

	var maxNumber string
	if err := conn(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Select("name").
		Where("name LIKE ?", prefix+"%").
		Order("name DESC").
		Limit(1).
		Scan(&maxNumber).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextSeq := 1
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "/")
		if len(parts) == 3 {
			if seq, err := strconv.Atoi(parts[2]); err == nil {
				nextSeq = seq + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextSeq), nil
}
