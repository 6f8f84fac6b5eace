package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"storefront/internal/domain"
	"storefront/internal/logging"
	memberrepo "storefront/internal/repository/member"
	tokenrepo "storefront/internal/repository/token"
)

const passwordSpecials = "!@#$%"

// bcrypt only reads the first 72 bytes and GenerateFromPassword rejects anything longer.
const maxPasswordBytes = 72

// Service handles member signup, login and session lookup.
type Service struct {
	repo        memberrepo.Repository
	tokens      *tokenManager
	sessionTTL  time.Duration
	passwordMin int
	logger      *zap.Logger
}

// New creates a Service with a 48h session lifetime.
func New(repo memberrepo.Repository, tokens tokenrepo.Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		sessionTTL:  48 * time.Hour,
		passwordMin: 8,
		logger:      logging.OrNop(logger),
	}
}

// SignupInput captures the signup form fields.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// Signup registers a member with a USER profile.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Member, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := strings.TrimSpace(in.Password)

	v := &domain.ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "name required")
	}
	switch {
	case email == "":
		v.Add("email", "email required")
	case !strings.Contains(email, "@"):
		v.Add("email", "email is not valid")
	}
	if msg := validatePassword(password, s.passwordMin); msg != "" {
		v.Add("password", msg)
	}
	if strings.TrimSpace(in.Address) == "" {
		v.Add("address", "address required")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.Create(ctx, domain.Member{
		Username:     email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hashed),
		Profile: domain.Profile{
			Address: strings.TrimSpace(in.Address),
			Role:    domain.RoleUser,
		},
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.NewValidationError("email", "email already registered")
		}
		return nil, err
	}
	s.logger.Info("member signed up", zap.Int64("member_id", m.ID))
	return m, nil
}

// Login checks credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Member, string, error) {
	m, err := s.repo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", domain.ErrUnauthorized
	}
	token, err := s.tokens.Issue(ctx, m.ID, s.sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue session: %w", err)
	}
	return m, token, nil
}

// LookupByToken returns the member bound to a valid session token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Member, error) {
	memberID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	m, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return m, nil
}

// Logout deletes the session token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.tokens.repo.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// PurgeExpiredSessions removes every session that expired before now.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.tokens.repo.DeleteExpired(ctx, s.tokens.now())
}

// SessionTTLSeconds exposes the session lifetime in seconds.
func (s *Service) SessionTTLSeconds() int {
	return int(s.sessionTTL.Seconds())
}

func validatePassword(p string, min int) string {
	if p == "" {
		return "password required"
	}
	if len([]rune(p)) < min {
		return fmt.Sprintf("password must be at least %d characters", min)
	}
	if len(p) > maxPasswordBytes {
		return fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes)
	}
	hasUpper := false
	hasSpecial := false
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasSpecial {
		return "password must contain at least 1 uppercase letter and 1 of " + passwordSpecials
	}
	return ""
}
