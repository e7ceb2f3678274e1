package partner

import (
	"github.com/JakfarS/invoice-request-mceasy/internal/domain/shared"
	"github.com/google/uuid"
)

// Partner represents a customer that can access the external invoice portal.
// A partner gains portal access through an opaque external token. The token
// carries no expiry and no session semantics; possession is the only credential.
type Partner struct {
	shared.BaseEntity
	Name          string
	Email         string
	ExternalToken *string
}

// NewPartner creates a new partner
func NewPartner(name, email string) (*Partner, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Partner name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Partner name cannot exceed 200 characters")
	}

	return &Partner{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
	}, nil
}

// HasExternalToken reports whether the partner already holds a portal token.
func (p *Partner) HasExternalToken() bool {
	return p.ExternalToken != nil && *p.ExternalToken != ""
}

// GenerateExternalToken assigns a fresh opaque token to the partner.
// It is idempotent: a partner that already has a token keeps it, so links
// handed out earlier stay valid.
func (p *Partner) GenerateExternalToken() string {
	if p.HasExternalToken() {
		return *p.ExternalToken
	}
	token := uuid.New().String()
	p.ExternalToken = &token
	p.Touch()
	return token
}
