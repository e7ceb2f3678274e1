package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/request"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRequestRepository implements request.Repository using GORM
type GormInvoiceRequestRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRequestRepository creates a new GormInvoiceRequestRepository
func NewGormInvoiceRequestRepository(db *gorm.DB) *GormInvoiceRequestRepository {
	return &GormInvoiceRequestRepository{db: db}
}

// FindByID finds a request by its ID
func (r *GormInvoiceRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.InvoiceRequest, error) {
	var model models.InvoiceRequestModel
	if err := conn(ctx, r.db).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPartner returns all requests of a partner, newest first
func (r *GormInvoiceRequestRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]request.InvoiceRequest, error) {
	var modelList []models.InvoiceRequestModel
	if err := conn(ctx, r.db).
		Where("partner_id = ?", partnerID).
		Order("request_date DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(modelList), nil
}

// FindByPartnerAndState returns a partner's requests in the given state
func (r *GormInvoiceRequestRepository) FindByPartnerAndState(ctx context.Context, partnerID uuid.UUID, state request.State) ([]request.InvoiceRequest, error) {
	var modelList []models.InvoiceRequestModel
	if err := conn(ctx, r.db).
		Where("partner_id = ? AND state = ?", partnerID, state).
		Order("request_date DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(modelList), nil
}

// FindByState returns all requests in the given state
func (r *GormInvoiceRequestRepository) FindByState(ctx context.Context, state request.State) ([]request.InvoiceRequest, error) {
	var modelList []models.InvoiceRequestModel
	if err := conn(ctx, r.db).
		Where("state = ?", state).
		Order("request_date DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(modelList), nil
}

// FindApprovedByInvoice finds the approved request linking a partner to an invoice
func (r *GormInvoiceRequestRepository) FindApprovedByInvoice(ctx context.Context, partnerID, invoiceID uuid.UUID) (*request.InvoiceRequest, error) {
	var model models.InvoiceRequestModel
	if err := conn(ctx, r.db).
		Where("partner_id = ? AND invoice_id = ? AND state = ?",
			partnerID, invoiceID, request.StateApproved).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsActiveForOrder reports whether a pending or approved request already
// covers the (partner, sale order) pair
func (r *GormInvoiceRequestRepository) ExistsActiveForOrder(ctx context.Context, partnerID, saleOrderID uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.InvoiceRequestModel{}).
		Where("partner_id = ? AND sale_order_id = ? AND state IN ?",
			partnerID, saleOrderID, []request.State{request.StatePending, request.StateApproved}).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActiveOrderIDs returns the sale order IDs of a partner already covered by
// a pending or approved request
func (r *GormInvoiceRequestRepository) ActiveOrderIDs(ctx context.Context, partnerID uuid.UUID) ([]uuid.UUID, error) {
	var orderIDs []uuid.UUID
	if err := conn(ctx, r.db).
		Model(&models.InvoiceRequestModel{}).
		Select("sale_order_id").
		Where("partner_id = ? AND state IN ?",
			partnerID, []request.State{request.StatePending, request.StateApproved}).
		Scan(&orderIDs).Error; err != nil {
		return nil, err
	}
	return orderIDs, nil
}

// CountByPartner counts all requests of a partner
func (r *GormInvoiceRequestRepository) CountByPartner(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&models.InvoiceRequestModel{}).
		Where("partner_id = ?", partnerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a request
func (r *GormInvoiceRequestRepository) Save(ctx context.Context, req *request.InvoiceRequest) error {
	model := models.InvoiceRequestModelFromDomain(req)
	return conn(ctx, r.db).Save(model).Error
}

// GenerateRequestNumber produces the next sequence reference in the form
// REQ/NNNN
func (r *GormInvoiceRequestRepository) GenerateRequestNumber(ctx context.Context) (string, error) {
	var maxNumber string
	if err := conn(ctx, r.db).
		Model(&models.InvoiceRequestModel{}).
		Select("name").
		Where("name LIKE ?", "REQ/%").
		Order("name DESC").
		Limit(1).
		Scan(&maxNumber).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextSeq := 1
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "/")
		if len(parts) == 2 {
			if seq, err := strconv.Atoi(parts[1]); err == nil {
				nextSeq = seq + 1
			}
		}
	}

	return fmt.Sprintf("REQ/%04d", nextSeq), nil
}

func toDomainRequests(modelList []models.InvoiceRequestModel) []request.InvoiceRequest {
	requests := make([]request.InvoiceRequest, len(modelList))
	for i := range modelList {
		requests[i] = *modelList[i].ToDomain()
	}
	return requests
}
