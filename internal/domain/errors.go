package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the delivery layer can map them to a status.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthMissing    ErrorKind = "auth_missing"
	KindAuthInvalid    ErrorKind = "auth_invalid"
	KindAuthExpired    ErrorKind = "auth_expired"
	KindForbidden      ErrorKind = "forbidden"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindGatewayTimeout ErrorKind = "gateway_timeout"
	KindGatewayFailure ErrorKind = "gateway_failure"
	KindInternal       ErrorKind = "internal"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches kind-only sentinels such as ErrNotFound against any error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf reports the kind of the first domain error in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) error { return newError(KindValidation, format, args...) }
func Forbiddenf(format string, args ...any) error  { return newError(KindForbidden, format, args...) }
func NotFoundf(format string, args ...any) error   { return newError(KindNotFound, format, args...) }
func Conflictf(format string, args ...any) error   { return newError(KindConflict, format, args...) }

// GatewayFailure wraps a chain error that was definitively rejected.
func GatewayFailure(err error) error {
	return &Error{Kind: KindGatewayFailure, Message: "chain gateway rejected the operation", Err: err}
}

// GatewayTimeout wraps a chain call whose outcome is not known yet.
func GatewayTimeout(err error) error {
	return &Error{Kind: KindGatewayTimeout, Message: "chain gateway did not answer in time", Err: err}
}

// Kind-only sentinels for errors.Is checks.
var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrAuthMissing    = &Error{Kind: KindAuthMissing}
	ErrAuthInvalid    = &Error{Kind: KindAuthInvalid}
	ErrAuthExpired    = &Error{Kind: KindAuthExpired}
	ErrForbidden      = &Error{Kind: KindForbidden}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrConflict       = &Error{Kind: KindConflict}
	ErrGatewayTimeout = &Error{Kind: KindGatewayTimeout}
	ErrGatewayFailure = &Error{Kind: KindGatewayFailure}
)

var (
	ErrAlreadyJoined        = &Error{Kind: KindConflict, Message: "user has already joined this loyalty program"}
	ErrDefaultProgramExists = &Error{Kind: KindConflict, Message: "store already has a default loyalty program"}
	ErrProgramHasMembers    = &Error{Kind: KindConflict, Message: "loyalty program still has members"}
	ErrStoreHasMembers      = &Error{Kind: KindConflict, Message: "store has loyalty programs with members"}
	ErrInsufficientBalance  = &Error{Kind: KindConflict, Message: "insufficient points balance"}
	ErrDuplicateContract    = &Error{Kind: KindConflict, Message: "token contract address is already registered"}
	ErrDuplicateAccount     = &Error{Kind: KindConflict, Message: "email or username is already registered"}
	ErrAccountInUse         = &Error{Kind: KindConflict, Message: "account still owns stores or memberships"}
	ErrOperationInProgress  = &Error{Kind: KindConflict, Message: "operation with this idempotency key is still in progress"}
	ErrDuplicateTransaction = &Error{Kind: KindConflict, Message: "transaction hash already recorded"}
	ErrMembershipRequired   = &Error{Kind: KindNotFound, Message: "user is not a member of this loyalty program"}
	ErrInvalidCredentials   = &Error{Kind: KindAuthInvalid, Message: "invalid email or password"}
	ErrTooManyAttempts      = &Error{Kind: KindForbidden, Message: "too many login attempts, try again later"}
	ErrChainGatewayDisabled = &Error{Kind: KindGatewayFailure, Message: "chain gateway not configured"}
	ErrEmptyPatch           = &Error{Kind: KindValidation, Message: "no fields provided for update"}
)

// Raised by infrastructure adapters and classified by the usecases.
var (
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrChainTimeout  = errors.New("chain call timed out")
	ErrChainReverted = errors.New("chain transaction reverted")
)
