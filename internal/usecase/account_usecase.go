package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/logger"
	accountdto "github.com/hashperks/loyalty-service/internal/usecase/dto/account"
)

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,32}$`)

type AccountUsecase interface {
	Register(ctx context.Context, input *accountdto.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input *accountdto.LoginInput) (*accountdto.LoginOutput, error)
	GetAccount(ctx context.Context, p domain.Principal, id string) (*domain.User, error)
	UpdateAccount(ctx context.Context, p domain.Principal, id string, patch domain.UserPatch) (*domain.User, error)
	DeleteAccount(ctx context.Context, p domain.Principal, id string) error
}

type DefaultAccountUsecase struct {
	UserRepo domain.UserRepository
	Tokens   domain.TokenIssuer
	Audit    logger.AuditLogger
	limiter  *loginLimiter
}

// NewDefaultAccountUsecase allows attemptsPerMinute logins per email. Zero disables the limit.
func NewDefaultAccountUsecase(
	userRepo domain.UserRepository,
	tokens domain.TokenIssuer,
	audit logger.AuditLogger,
	attemptsPerMinute int,
) *DefaultAccountUsecase {
	return &DefaultAccountUsecase{
		UserRepo: userRepo,
		Tokens:   tokens,
		Audit:    audit,
		limiter:  newLoginLimiter(attemptsPerMinute),
	}
}

// PruneLoginLimiters forgets rate limit state for emails that have gone quiet.
func (uc *DefaultAccountUsecase) PruneLoginLimiters() int {
	return uc.limiter.prune()
}

func (uc *DefaultAccountUsecase) Register(ctx context.Context, input *accountdto.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Validationf("name is required")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = email[:strings.IndexByte(email, '@')]
	}
	if !usernamePattern.MatchString(username) {
		return nil, domain.Validationf("username must be 3-32 letters, digits, dots or underscores")
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.Validationf("password must be at least %d characters", minPasswordLength)
	}

	role := domain.RoleMember
	if input.Role != "" {
		if role, err = domain.ParseRole(input.Role); err != nil {
			return nil, err
		}
	}
	if role == domain.RoleAdmin {
		return nil, domain.Forbiddenf("admin accounts cannot be self-registered")
	}

	wallet := strings.TrimSpace(input.WalletAddress)
	if wallet != "" && !common.IsHexAddress(wallet) {
		return nil, domain.Validationf("wallet address must be a 0x-prefixed EVM address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         email,
		Username:      username,
		PasswordHash:  string(hash),
		Role:          role,
		WalletAddress: wallet,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.UserRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("account registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (uc *DefaultAccountUsecase) Login(ctx context.Context, input *accountdto.LoginInput) (*accountdto.LoginOutput, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, domain.Validationf("password is required")
	}
	if !uc.limiter.allow(email) {
		uc.audit(ctx, logger.AuditEvent{Action: logger.AuditLoginFailed, Detail: email, Outcome: "rate_limited"})
		return nil, domain.ErrTooManyAttempts
	}

	user, err := uc.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.audit(ctx, logger.AuditEvent{Action: logger.AuditLoginFailed, Detail: email, Outcome: "unknown_email"})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		uc.audit(ctx, logger.AuditEvent{Action: logger.AuditLoginFailed, SubjectID: user.ID, Outcome: "bad_password"})
		return nil, domain.ErrInvalidCredentials
	}

	token, err := uc.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	uc.audit(ctx, logger.AuditEvent{Action: logger.AuditLoginSucceeded, ActorID: user.ID, SubjectID: user.ID, Outcome: "ok"})
	return &accountdto.LoginOutput{Token: token, User: user}, nil
}

func (uc *DefaultAccountUsecase) GetAccount(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	if !p.Is(id) && !p.IsAdmin() {
		return nil, domain.Forbiddenf("accounts are visible to their owner only")
	}
	return uc.UserRepo.GetUserByID(ctx, id)
}

func (uc *DefaultAccountUsecase) UpdateAccount(ctx context.Context, p domain.Principal, id string, patch domain.UserPatch) (*domain.User, error) {
	if !p.Is(id) {
		return nil, domain.Forbiddenf("accounts can only be changed by their owner")
	}
	if patch.Empty() {
		return nil, domain.ErrEmptyPatch
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.Validationf("name cannot be empty")
		}
		patch.Name = &name
	}
	if patch.WalletAddress != nil {
		wallet := strings.TrimSpace(*patch.WalletAddress)
		if wallet != "" && !common.IsHexAddress(wallet) {
			return nil, domain.Validationf("wallet address must be a 0x-prefixed EVM address")
		}
		patch.WalletAddress = &wallet
	}
	return uc.UserRepo.UpdateUser(ctx, id, patch)
}

func (uc *DefaultAccountUsecase) DeleteAccount(ctx context.Context, p domain.Principal, id string) error {
	if !p.Is(id) {
		return domain.Forbiddenf("accounts can only be deleted by their owner")
	}
	if err := uc.UserRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	uc.audit(ctx, logger.AuditEvent{Action: logger.AuditAccountDeleted, ActorID: p.UserID, SubjectID: id, Outcome: "ok"})
	return nil
}

func (uc *DefaultAccountUsecase) audit(ctx context.Context, event logger.AuditEvent) {
	if uc.Audit == nil {
		return
	}
	if err := uc.Audit.LogEvent(ctx, event); err != nil {
		slog.Error("failed to write audit event", "action", event.Action, "error", err)
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.Validationf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Validationf("email %q is not valid", raw)
	}
	return email, nil
}

// maxTrackedLogins caps the limiter table between sweeps.
const maxTrackedLogins = 10000

type loginBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter keeps one token bucket per email. A bucket idle for longer than
// its refill window is full again and is dropped by prune.
type loginLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
	buckets map[string]*loginBucket
}

func newLoginLimiter(perMinute int) *loginLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &loginLimiter{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		idle:    time.Minute,
		now:     time.Now,
		buckets: make(map[string]*loginBucket),
	}
}

func (l *loginLimiter) allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxTrackedLogins {
			l.pruneLocked(now)
		}
		if len(l.buckets) >= maxTrackedLogins {
			l.evictOldestLocked()
		}
		b = &loginBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// prune drops idle buckets and returns how many are still tracked.
func (l *loginLimiter) prune() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(l.now())
	return len(l.buckets)
}

func (l *loginLimiter) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, b := range l.buckets {
		if oldestKey == "" || b.lastSeen.Before(oldest) {
			oldestKey, oldest = key, b.lastSeen
		}
	}
	delete(l.buckets, oldestKey)
}

func (l *loginLimiter) pruneLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.buckets, key)
		}
	}
}
