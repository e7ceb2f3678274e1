package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/finance"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/partner"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/request"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/trade"
	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Portal business failure messages. These are part of the external contract:
// the portal shows them verbatim to the requesting customer.
const (
	msgInvalidToken     = "Invalid or expired token"
	msgInvalidSaleOrder = "Invalid sale order"
	msgDuplicateRequest = "A pending request already exists for this sale order"
	msgOrderUnavailable = "Selected sale order is no longer available for invoicing"
)

// errInvalidToken is the uniform token resolution failure. Every failure mode
// maps to it so the portal never reveals whether a similar token exists.
var errInvalidToken = shared.NewDomainError("INVALID_TOKEN", msgInvalidToken)

// PortalService serves the anonymous, token-gated portal surface
type PortalService struct {
	partnerRepo partner.Repository
	orderRepo   trade.SaleOrderRepository
	requestRepo request.Repository
	invoiceRepo finance.InvoiceRepository
	renderer    printing.PDFRenderer
	logger      *zap.Logger
}

// NewPortalService creates a new PortalService
func NewPortalService(
	partnerRepo partner.Repository,
	orderRepo trade.SaleOrderRepository,
	requestRepo request.Repository,
	invoiceRepo finance.InvoiceRepository,
	renderer printing.PDFRenderer,
	logger *zap.Logger,
) *PortalService {
	return &PortalService{
		partnerRepo: partnerRepo,
		orderRepo:   orderRepo,
		requestRepo: requestRepo,
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		logger:      logger,
	}
}

// ResolveToken maps a portal token to its partner. All failures collapse to
// the same error so the response leaks nothing about existing tokens.
func (s *PortalService) ResolveToken(ctx context.Context, token string) (*partner.Partner, error) {
	if token == "" {
		return nil, errInvalidToken
	}

	p, err := s.partnerRepo.FindByExternalToken(ctx, token)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("token lookup failed", zap.Error(err))
		}
		return nil, errInvalidToken
	}
	return p, nil
}

// FormProps assembles the payload backing the portal request form: the
// partner, their currently eligible orders, and their open requests.
func (s *PortalService) FormProps(ctx context.Context, token string) (*FormProps, error) {
	p, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	orders, err := s.eligibleOrders(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	pending, err := s.requestSummaries(ctx, p.ID, request.StatePending)
	if err != nil {
		return nil, err
	}
	approved, err := s.requestSummaries(ctx, p.ID, request.StateApproved)
	if err != nil {
		return nil, err
	}

	return &FormProps{
		Partner:          ToPartnerInfo(p),
		AvailableOrders:  ToSaleOrderSummaries(orders),
		PendingRequests:  pending,
		ApprovedRequests: approved,
		Token:            token,
	}, nil
}

// AvailableOrders returns the partner's currently eligible orders. The list
// is recomputed on every call; eligibility is never cached.
func (s *PortalService) AvailableOrders(ctx context.Context, token string) ([]SaleOrderSummary, error) {
	p, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	orders, err := s.eligibleOrders(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return ToSaleOrderSummaries(orders), nil
}

// CreateRequest creates a pending invoice request for one of the partner's
// eligible orders. Ownership, duplicate and eligibility violations are
// business outcomes, reported in the result rather than as errors.
func (s *PortalService) CreateRequest(ctx context.Context, token string, input CreateRequestInput) (*CreateRequestResult, error) {
	p, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, input.SaleOrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &CreateRequestResult{Success: false, Message: msgInvalidSaleOrder}, nil
		}
		return nil, err
	}
	if !order.BelongsTo(p.ID) {
		return &CreateRequestResult{Success: false, Message: msgInvalidSaleOrder}, nil
	}

	exists, err := s.requestRepo.ExistsActiveForOrder(ctx, p.ID, order.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &CreateRequestResult{Success: false, Message: msgDuplicateRequest}, nil
	}

	// Eligibility is revalidated at submission time. The form may be stale;
	// the order's state is what counts.
	if !order.IsInvoiceable() {
		return &CreateRequestResult{Success: false, Message: msgOrderUnavailable}, nil
	}

	name, err := s.requestRepo.GenerateRequestNumber(ctx)
	if err != nil {
		return nil, err
	}

	req, err := request.NewInvoiceRequest(name, p.ID, order.ID, input.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("invoice request created",
		zap.String("request", req.Name),
		zap.String("order", order.OrderNumber),
		zap.String("partner_id", p.ID.String()),
	)

	summary := ToRequestSummary(req, order.OrderNumber, "")
	return &CreateRequestResult{Success: true, Request: &summary}, nil
}

// Status returns the partner's pending and approved requests for the portal
// status page.
func (s *PortalService) Status(ctx context.Context, token string) (*StatusResponse, error) {
	p, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	pending, err := s.requestSummaries(ctx, p.ID, request.StatePending)
	if err != nil {
		return nil, err
	}
	approved, err := s.requestSummaries(ctx, p.ID, request.StateApproved)
	if err != nil {
		return nil, err
	}

	return &StatusResponse{Pending: pending, Approved: approved}, nil
}

// DownloadInvoice renders the invoice PDF for an approved request. The only
// authorization is an approved request linking this partner to exactly this
// invoice; every failure mode collapses to shared.ErrNotFound so the response
// reveals nothing about other partners' documents.
func (s *PortalService) DownloadInvoice(ctx context.Context, token string, invoiceID uuid.UUID) (*DownloadResult, error) {
	p, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	req, err := s.requestRepo.FindApprovedByInvoice(ctx, p.ID, invoiceID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !req.LinksInvoice(p.ID, invoiceID) {
		return nil, shared.ErrNotFound
	}

	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !inv.IsPosted() {
		return nil, shared.ErrNotFound
	}

	html, err := printing.RenderInvoiceHTML(inv, p.Name)
	if err != nil {
		s.logger.Error("invoice template rendering failed",
			zap.String("invoice", inv.Name), zap.Error(err))
		return nil, shared.ErrNotFound
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:  html,
		Title: inv.Name,
	})
	if err != nil {
		s.logger.Error("invoice pdf rendering failed",
			zap.String("invoice", inv.Name), zap.Error(err))
		return nil, shared.ErrNotFound
	}

	return &DownloadResult{
		FileName: fmt.Sprintf("Invoice_%s.pdf", inv.Name),
		PDFData:  result.PDFData,
	}, nil
}

// eligibleOrders returns the partner's invoiceable orders minus those already
// covered by a pending or approved request.
func (s *PortalService) eligibleOrders(ctx context.Context, partnerID uuid.UUID) ([]trade.SaleOrder, error) {
	orders, err := s.orderRepo.FindInvoiceableByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	covered, err := s.requestRepo.ActiveOrderIDs(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	coveredSet := make(map[uuid.UUID]bool, len(covered))
	for _, id := range covered {
		coveredSet[id] = true
	}

	eligible := make([]trade.SaleOrder, 0, len(orders))
	for _, o := range orders {
		if !coveredSet[o.ID] {
			eligible = append(eligible, o)
		}
	}
	return eligible, nil
}

// requestSummaries loads a partner's requests in one state, resolving the
// order reference on every row and the invoice name on approved rows.
func (s *PortalService) requestSummaries(ctx context.Context, partnerID uuid.UUID, state request.State) ([]RequestSummary, error) {
	reqs, err := s.requestRepo.FindByPartnerAndState(ctx, partnerID, state)
	if err != nil {
		return nil, err
	}

	out := make([]RequestSummary, 0, len(reqs))
	for i := range reqs {
		orderNumber := ""
		if o, err := s.orderRepo.FindByID(ctx, reqs[i].SaleOrderID); err == nil {
			orderNumber = o.OrderNumber
		}
		invoiceName := ""
		if reqs[i].InvoiceID != nil {
			if inv, err := s.invoiceRepo.FindByID(ctx, *reqs[i].InvoiceID); err == nil {
				invoiceName = inv.Name
			}
		}
		out = append(out, ToRequestSummary(&reqs[i], orderNumber, invoiceName))
	}
	return out, nil
}
