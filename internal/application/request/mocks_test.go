package request

import (
	"context"
	"testing"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/finance"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/partner"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/request"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/trade"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockPartnerRepository is a mock implementation of partner.Repository
type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindByExternalToken(ctx context.Context, token string) (*partner.Partner, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindAll(ctx context.Context) ([]partner.Partner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockSaleOrderRepository is a mock implementation of trade.SaleOrderRepository
type MockSaleOrderRepository struct {
	mock.Mock
}

func (m *MockSaleOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SaleOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SaleOrder), args.Error(1)
}

func (m *MockSaleOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SaleOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SaleOrder), args.Error(1)
}

func (m *MockSaleOrderRepository) FindInvoiceableByPartner(ctx context.Context, partnerID uuid.UUID) ([]trade.SaleOrder, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.SaleOrder), args.Error(1)
}

func (m *MockSaleOrderRepository) Save(ctx context.Context, order *trade.SaleOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockRequestRepository is a mock implementation of request.Repository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.InvoiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.InvoiceRequest), args.Error(1)
}

func (m *MockRequestRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]request.InvoiceRequest, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]request.InvoiceRequest), args.Error(1)
}

func (m *MockRequestRepository) FindByPartnerAndState(ctx context.Context, partnerID uuid.UUID, state request.State) ([]request.InvoiceRequest, error) {
	args := m.Called(ctx, partnerID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]request.InvoiceRequest), args.Error(1)
}

func (m *MockRequestRepository) FindByState(ctx context.Context, state request.State) ([]request.InvoiceRequest, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]request.InvoiceRequest), args.Error(1)
}

func (m *MockRequestRepository) FindApprovedByInvoice(ctx context.Context, partnerID, invoiceID uuid.UUID) (*request.InvoiceRequest, error) {
	args := m.Called(ctx, partnerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.InvoiceRequest), args.Error(1)
}

func (m *MockRequestRepository) ExistsActiveForOrder(ctx context.Context, partnerID, saleOrderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, partnerID, saleOrderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) ActiveOrderIDs(ctx context.Context, partnerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockRequestRepository) CountByPartner(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRequestRepository) Save(ctx context.Context, r *request.InvoiceRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) GenerateRequestNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of finance.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByOrigin(ctx context.Context, origin string) ([]finance.Invoice, error) {
	args := m.Called(ctx, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// fakeTxManager runs the function directly and records whether a transaction
// began and whether the function's error propagated, which a real manager
// turns into a rollback.
type fakeTxManager struct {
	began      bool
	rolledBack bool
}

func (m *fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.began = true
	if err := fn(ctx); err != nil {
		m.rolledBack = true
		return err
	}
	return nil
}

// MockPDFRenderer is a mock implementation of printing.PDFRenderer
type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error {
	args := m.Called()
	return args.Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

func newTestPartner(t *testing.T, token string) *partner.Partner {
	t.Helper()
	p, err := partner.NewPartner("Acme Corp", "billing@acme.example")
	require.NoError(t, err)
	if token != "" {
		p.ExternalToken = &token
	}
	return p
}

// newTestOrder builds an invoiceable order with one order-policy line.
func newTestOrder(t *testing.T, partnerID uuid.UUID, orderNumber string) *trade.SaleOrder {
	t.Helper()
	order, err := trade.NewSaleOrder(orderNumber, partnerID, trade.OrderStateSale, trade.InvoiceStatusToInvoice)
	require.NoError(t, err)
	_, err = order.AddLine(uuid.New(), "Consulting", "Consulting hours",
		decimal.NewFromInt(10), decimal.NewFromInt(150), "hour", trade.InvoicePolicyOrder)
	require.NoError(t, err)
	return order
}

func newTestRequest(t *testing.T, partnerID, orderID uuid.UUID) *request.InvoiceRequest {
	t.Helper()
	req, err := request.NewInvoiceRequest("REQ/0001", partnerID, orderID, "")
	require.NoError(t, err)
	return req
}

func newPostedInvoice(t *testing.T, order *trade.SaleOrder, name string) *finance.Invoice {
	t.Helper()
	inv, err := finance.NewInvoiceFromOrder(order)
	require.NoError(t, err)
	require.NoError(t, inv.Post(name))
	return inv
}
