package usecase

import (
	"errors"
	"slices"
	"strings"

	"github.com/hashperks/loyalty-service/internal/domain"
)

type Guard interface {
	ResolveIdentity(credential string) (domain.Principal, error)
	RequireRole(p domain.Principal, roles ...domain.Role) error
	RequireOwnership(p domain.Principal, ownerID string) error
}

type DefaultGuard struct {
	Verifier domain.TokenVerifier
}

func NewDefaultGuard(verifier domain.TokenVerifier) *DefaultGuard {
	return &DefaultGuard{Verifier: verifier}
}

// ResolveIdentity turns a bearer credential into a Principal. The role claim must
// name one of the known roles.
func (g *DefaultGuard) ResolveIdentity(credential string) (domain.Principal, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return domain.Principal{}, &domain.Error{Kind: domain.KindAuthMissing, Message: "authentication required"}
	}

	claims, err := g.Verifier.Verify(credential)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return domain.Principal{}, &domain.Error{Kind: domain.KindAuthExpired, Message: "token expired", Err: err}
		}
		return domain.Principal{}, &domain.Error{Kind: domain.KindAuthInvalid, Message: "invalid token", Err: err}
	}
	if claims.UserID == "" {
		return domain.Principal{}, &domain.Error{Kind: domain.KindAuthInvalid, Message: "token has no subject"}
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Principal{}, &domain.Error{Kind: domain.KindAuthInvalid, Message: "token carries an unknown role", Err: err}
	}
	return domain.Principal{UserID: claims.UserID, Role: role}, nil
}

func (g *DefaultGuard) RequireRole(p domain.Principal, roles ...domain.Role) error {
	if slices.Contains(roles, p.Role) {
		return nil
	}
	return domain.Forbiddenf("role %q may not perform this action", p.Role)
}

func (g *DefaultGuard) RequireOwnership(p domain.Principal, ownerID string) error {
	if p.Is(ownerID) {
		return nil
	}
	return domain.Forbiddenf("only the store owner may perform this action")
}
