package app

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
	"github.com/jsamuelsen/portfolio-service/internal/platform/metrics"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

const (
	tokenBytes        = 32
	minPasswordLength = 8
	maxUsernameLength = 150
)

// IssuedToken is a freshly created API token. Secret is only ever shown once.
type IssuedToken struct {
	Secret    string
	Username  string
	ExpiresAt time.Time
}

// AuthService authenticates admins and manages their API tokens.
type AuthService struct {
	repo    ports.AccountRepository
	ttl     time.Duration
	cost    int
	metrics *metrics.Metrics
	now     func() time.Time

	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash []byte
}

// AuthServiceConfig wires an AuthService.
type AuthServiceConfig struct {
	Repo       ports.AccountRepository
	TokenTTL   time.Duration
	BcryptCost int
	Metrics    *metrics.Metrics
	Clock      func() time.Time
}

// NewAuthService creates an auth service.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.Repo == nil {
		panic("app: auth service needs an account repository")
	}

	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		repo:    cfg.Repo,
		ttl:     cfg.TokenTTL,
		cost:    cfg.BcryptCost,
		metrics: cfg.Metrics,
		now:     cfg.Clock,
	}
}

// CreateAdmin provisions an admin account.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*domain.AdminUser, error) {
	username = strings.TrimSpace(username)

	switch {
	case username == "":
		return nil, domain.NewValidationError("username", "is required")
	case len([]rune(username)) > maxUsernameLength:
		return nil, domain.NewValidationError("username", fmt.Sprintf("must be at most %d characters", maxUsernameLength))
	case len(password) < minPasswordLength:
		return nil, domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.AdminUser{Username: username, PasswordHash: string(hash)}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if domain.IsConflict(err) {
			return nil, domain.NewConflictError("admin user", "username is taken")
		}

		return nil, fmt.Errorf("creating admin user: %w", err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "admin user created", slog.String("username", username))

	return user, nil
}

// Login checks the credentials and issues a new token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*IssuedToken, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil && !domain.IsNotFound(err) {
		return nil, fmt.Errorf("loading admin user: %w", err)
	}

	hash := s.fallbackHash()
	if user != nil {
		hash = []byte(user.PasswordHash)
	}

	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil || user == nil {
		s.metrics.LoginAttempt("failure")
		logging.FromContext(ctx).WarnContext(ctx, "admin login rejected", slog.String("username", username))

		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	secret, err := newTokenSecret()
	if err != nil {
		return nil, err
	}

	issued := s.now().UTC().Truncate(time.Microsecond)
	token := &domain.Token{
		Digest:    digest(secret),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: issued,
		ExpiresAt: issued.Add(s.ttl),
	}

	if err := s.repo.CreateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("storing token: %w", err)
	}

	s.metrics.LoginAttempt("success")
	logging.FromContext(ctx).InfoContext(ctx, "admin token issued", slog.String("username", user.Username))

	return &IssuedToken{Secret: secret, Username: user.Username, ExpiresAt: token.ExpiresAt}, nil
}

// Authenticate resolves a presented token secret.
func (s *AuthService) Authenticate(ctx context.Context, secret string) (*domain.Token, error) {
	if !wellFormedSecret(secret) {
		return nil, domain.NewUnauthorizedError("malformed token")
	}

	token, err := s.repo.GetToken(ctx, digest(secret))
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUnauthorizedError("unknown token")
		}

		return nil, fmt.Errorf("loading token: %w", err)
	}

	if token.Expired(s.now()) {
		return nil, domain.NewUnauthorizedError("token expired")
	}

	return token, nil
}

// Revoke deletes the token with the given secret.
func (s *AuthService) Revoke(ctx context.Context, secret string) error {
	if !wellFormedSecret(secret) {
		return domain.NewUnauthorizedError("malformed token")
	}

	if err := s.repo.DeleteToken(ctx, digest(secret)); err != nil {
		if domain.IsNotFound(err) {
			return domain.NewUnauthorizedError("unknown token")
		}

		return fmt.Errorf("revoking token: %w", err)
	}

	return nil
}

// PurgeExpired removes every expired token and returns how many were removed.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredTokens(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purging expired tokens: %w", err)
	}

	return n, nil
}

func (s *AuthService) fallbackHash() []byte {
	s.dummyOnce.Do(func() {
		// An error here leaves dummyHash nil, which bcrypt rejects like any wrong password.
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("portfolio-fallback"), s.cost)
	})

	return s.dummyHash
}

func newTokenSecret() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func wellFormedSecret(secret string) bool {
	if len(secret) != 2*tokenBytes {
		return false
	}

	_, err := hex.DecodeString(secret)

	return err == nil
}
