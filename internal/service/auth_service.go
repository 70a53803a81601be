package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assist_backend/internal/domain"
	"assist_backend/internal/logger"
	"assist_backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService registers and authenticates users and hands out bearer tokens.
type AuthService struct {
	users    UserStore
	tokens   *TokenService
	hashCost int
}

type AuthOption func(*AuthService)

// WithHashCost overrides the bcrypt cost (tests use bcrypt.MinCost).
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.hashCost = cost }
}

func NewAuthService(users UserStore, tokens *TokenService, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:    users,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type registerInput struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,max=72"`
	Name     *string `json:"name" validate:"omitempty,max=200"`
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a USER account. A taken email yields ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, email, password string, name *string) (*domain.User, error) {
	in := registerInput{Email: NormalizeEmail(email), Password: password, Name: trimmedOrNil(name)}
	if err := check(in); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password, s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, invalid("password", "must be at most 72 bytes")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			authEvents.WithLabelValues("register", "duplicate").Inc()
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	authEvents.WithLabelValues("register", "ok").Inc()
	logger.WithContext(ctx).Info("user registered", "user_id", u.ID)
	return u, nil
}

// Authenticate returns the user owning email if password matches its hash.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, _ = passwordMatches(string(dummyHash), password)
			authEvents.WithLabelValues("login", "rejected").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := passwordMatches(u.PasswordHash, password)
	if err != nil {
		logger.WithContext(ctx).Error("stored password hash is unusable", "user_id", u.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		authEvents.WithLabelValues("login", "rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	authEvents.WithLabelValues("login", "ok").Inc()
	return u, nil
}

// IssueToken signs a bearer token for u.
func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	tok, _, err := s.tokens.Issue(u)
	return tok, err
}

// VerifyToken resolves a bearer token to the identity it carries.
func (s *AuthService) VerifyToken(token string) (domain.Principal, error) {
	return s.tokens.Verify(token)
}

// Profile loads the account behind a verified identity.
func (s *AuthService) Profile(ctx context.Context, p domain.Principal) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
