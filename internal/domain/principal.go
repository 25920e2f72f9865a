package domain

// Principal is the authenticated caller. It is passed explicitly to every
// operation that needs authorization.
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) Is(userID string) bool {
	return p.UserID != "" && p.UserID == userID
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type TokenClaims struct {
	UserID string
	Role   string
}

// TokenVerifier checks a bearer credential. It returns ErrTokenExpired or
// ErrTokenInvalid for rejected tokens.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

type TokenIssuer interface {
	Issue(userID string, role Role) (string, error)
}
