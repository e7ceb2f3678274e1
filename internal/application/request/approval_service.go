package request

import (
	"context"
	"errors"

	"github.com/JakfarS/invoice-request-mceasy/internal/domain/finance"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/partner"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/request"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApprovalService handles the internal side of the request lifecycle:
// approval with invoice synthesis, reset, and administrative listings.
type ApprovalService struct {
	partnerRepo partner.Repository
	orderRepo   trade.SaleOrderRepository
	requestRepo request.Repository
	invoiceRepo finance.InvoiceRepository
	txManager   shared.TransactionManager
	logger      *zap.Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	partnerRepo partner.Repository,
	orderRepo trade.SaleOrderRepository,
	requestRepo request.Repository,
	invoiceRepo finance.InvoiceRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		partnerRepo: partnerRepo,
		orderRepo:   orderRepo,
		requestRepo: requestRepo,
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Approve approves a pending request: it builds an invoice from the order's
// billable lines, posts it under the next document number, links it to the
// request, and re-derives the order's billing state. A request already
// approved fails the state check, so a second approval can never produce a
// second invoice. All three writes share one transaction; a failure on any of
// them leaves no posted invoice behind.
func (s *ApprovalService) Approve(ctx context.Context, requestID, approvedBy uuid.UUID) (*RequestSummary, error) {
	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only pending requests can be approved")
	}

	order, err := s.orderRepo.FindByID(ctx, req.SaleOrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsInvoiceable() {
		return nil, shared.NewDomainError("BUSINESS_RULE", "Sale order is no longer invoiceable")
	}

	inv, err := finance.NewInvoiceFromOrder(order)
	if err != nil {
		return nil, err
	}

	err = s.txManager.InTransaction(ctx, func(ctx context.Context) error {
		name, err := s.invoiceRepo.GenerateInvoiceNumber(ctx)
		if err != nil {
			return err
		}
		if err := inv.Post(name); err != nil {
			return err
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return err
		}

		if err := req.Approve(inv.ID, approvedBy); err != nil {
			return err
		}
		if err := s.requestRepo.Save(ctx, req); err != nil {
			return err
		}

		order.RecomputeInvoiceStatus(true)
		return s.orderRepo.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice request approved",
		zap.String("request", req.Name),
		zap.String("invoice", inv.Name),
		zap.String("approved_by", approvedBy.String()),
	)

	summary := ToRequestSummary(req, order.OrderNumber, inv.Name)
	return &summary, nil
}

// ApproveBatch approves several requests independently. One failure never
// rolls back the others; each outcome carries its own result.
func (s *ApprovalService) ApproveBatch(ctx context.Context, requestIDs []uuid.UUID, approvedBy uuid.UUID) []ApprovalOutcome {
	outcomes := make([]ApprovalOutcome, 0, len(requestIDs))
	for _, id := range requestIDs {
		summary, err := s.Approve(ctx, id, approvedBy)
		if err != nil {
			outcomes = append(outcomes, ApprovalOutcome{
				RequestID: id,
				Success:   false,
				Message:   outcomeMessage(err),
			})
			continue
		}
		outcomes = append(outcomes, ApprovalOutcome{
			RequestID: id,
			Success:   true,
			InvoiceID: summary.InvoiceID,
		})
	}
	return outcomes
}

// ResetToPending moves an approved or rejected request back to pending. The
// posted invoice, if any, is left untouched; only the workflow link is reset.
func (s *ApprovalService) ResetToPending(ctx context.Context, requestID uuid.UUID) (*RequestSummary, error) {
	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := req.ResetToPending(); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("invoice request reset to pending", zap.String("request", req.Name))

	summary := ToRequestSummary(req, s.orderNumber(ctx, req), "")
	return &summary, nil
}

// Get returns one request with its order and invoice names resolved.
func (s *ApprovalService) Get(ctx context.Context, requestID uuid.UUID) (*RequestSummary, error) {
	req, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	summary := ToRequestSummary(req, s.orderNumber(ctx, req), s.invoiceName(ctx, req))
	return &summary, nil
}

// List returns requests, optionally filtered by state.
func (s *ApprovalService) List(ctx context.Context, state string) ([]RequestSummary, error) {
	var (
		reqs []request.InvoiceRequest
		err  error
	)
	if state == "" {
		pending, err := s.requestRepo.FindByState(ctx, request.StatePending)
		if err != nil {
			return nil, err
		}
		approved, err := s.requestRepo.FindByState(ctx, request.StateApproved)
		if err != nil {
			return nil, err
		}
		reqs = append(pending, approved...)
	} else {
		st := request.State(state)
		if !st.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown request state: "+state)
		}
		reqs, err = s.requestRepo.FindByState(ctx, st)
		if err != nil {
			return nil, err
		}
	}

	out := make([]RequestSummary, 0, len(reqs))
	for i := range reqs {
		out = append(out, ToRequestSummary(&reqs[i], s.orderNumber(ctx, &reqs[i]), s.invoiceName(ctx, &reqs[i])))
	}
	return out, nil
}

// PartnerRequests returns all requests of one partner, newest first.
func (s *ApprovalService) PartnerRequests(ctx context.Context, partnerID uuid.UUID) ([]RequestSummary, error) {
	if _, err := s.partnerRepo.FindByID(ctx, partnerID); err != nil {
		return nil, err
	}

	reqs, err := s.requestRepo.FindByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	out := make([]RequestSummary, 0, len(reqs))
	for i := range reqs {
		out = append(out, ToRequestSummary(&reqs[i], s.orderNumber(ctx, &reqs[i]), s.invoiceName(ctx, &reqs[i])))
	}
	return out, nil
}

// GenerateToken ensures the partner holds a portal token and returns it.
// Generation is idempotent: an existing token is returned unchanged.
func (s *ApprovalService) GenerateToken(ctx context.Context, partnerID uuid.UUID) (string, error) {
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return "", err
	}

	hadToken := p.HasExternalToken()
	token := p.GenerateExternalToken()
	if !hadToken {
		if err := s.partnerRepo.Save(ctx, p); err != nil {
			return "", err
		}
		s.logger.Info("portal token generated", zap.String("partner_id", p.ID.String()))
	}
	return token, nil
}

// ListPartners returns all partners with their request counts.
func (s *ApprovalService) ListPartners(ctx context.Context) ([]PartnerSummary, error) {
	partners, err := s.partnerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PartnerSummary, 0, len(partners))
	for i := range partners {
		count, err := s.requestRepo.CountByPartner(ctx, partners[i].ID)
		if err != nil {
			return nil, err
		}
		token := ""
		if partners[i].ExternalToken != nil {
			token = *partners[i].ExternalToken
		}
		out = append(out, PartnerSummary{
			ID:            partners[i].ID,
			Name:          partners[i].Name,
			Email:         partners[i].Email,
			ExternalToken: token,
			RequestCount:  count,
		})
	}
	return out, nil
}

// orderNumber resolves the order reference of the request's sale order.
func (s *ApprovalService) orderNumber(ctx context.Context, req *request.InvoiceRequest) string {
	order, err := s.orderRepo.FindByID(ctx, req.SaleOrderID)
	if err != nil {
		return ""
	}
	return order.OrderNumber
}

// invoiceName resolves the document name of the request's invoice, if linked.
func (s *ApprovalService) invoiceName(ctx context.Context, req *request.InvoiceRequest) string {
	if req.InvoiceID == nil {
		return ""
	}
	inv, err := s.invoiceRepo.FindByID(ctx, *req.InvoiceID)
	if err != nil {
		return ""
	}
	return inv.Name
}

// outcomeMessage flattens an approval failure into a batch outcome message.
func outcomeMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "Internal error"
}
