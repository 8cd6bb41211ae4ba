package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/gym-service/internal/auth"
	"github.com/spec-kit/gym-service/internal/config"
	"github.com/spec-kit/gym-service/internal/domain"
	"github.com/spec-kit/gym-service/internal/repository"
)

// Account management failure sentinels.
var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrSelfDeletion     = errors.New("admins cannot delete their own account")
	ErrNotYourAssistant = errors.New("assistant not found")
)

// AuthService owns credential verification and the session lifecycle.
// Stores are injected so instances can be built against a throwaway
// database in tests.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	sessionTTL time.Duration
	iterations int
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionRepo,
		sessionTTL: cfg.SessionTTL(),
		iterations: cfg.PBKDF2Iterations,
	}
}

// RegisterAdmin creates a gym owner account and logs it in.
func (s *AuthService) RegisterAdmin(ctx context.Context, name, email, password string) (*domain.User, *domain.Session, error) {
	user, sess, err := s.register(ctx, name, email, password, domain.RoleAdmin, nil)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// CreateAssistant provisions an assistant account owned by the admin.
func (s *AuthService) CreateAssistant(ctx context.Context, admin *domain.User, name, email, password string) (*domain.User, error) {
	adminID := admin.ID
	user, _, err := s.registerUser(ctx, name, email, password, domain.RoleAssistant, &adminID)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// ListAssistants returns the admin's provisioned assistants.
func (s *AuthService) ListAssistants(ctx context.Context, admin *domain.User) ([]*domain.User, error) {
	assistants, err := s.users.ListAssistants(ctx, admin.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(assistants))
	for _, a := range assistants {
		out = append(out, a.Sanitized())
	}
	return out, nil
}

// RemoveAssistant deletes an assistant account belonging to the admin.
// Admins cannot delete themselves.
func (s *AuthService) RemoveAssistant(ctx context.Context, admin *domain.User, assistantID string) error {
	if assistantID == admin.ID {
		return ErrSelfDeletion
	}

	assistant, err := s.users.GetByID(ctx, assistantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotYourAssistant
		}
		return err
	}
	if assistant.Role != domain.RoleAssistant || assistant.AdminID == nil || *assistant.AdminID != admin.ID {
		return ErrNotYourAssistant
	}

	return s.users.Delete(ctx, assistantID)
}

// VerifyCredentials resolves an email/password pair to the stored account.
// Unknown email and wrong password fail identically so callers cannot
// probe which addresses are registered. No side effects on failure.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.ComparePassword(user.PasswordHash, password, s.iterations) {
		return nil, auth.ErrInvalidCredentials
	}
	return user, nil
}

// IssueSession creates and persists a fresh session for the account.
// The token carries enough entropy that no uniqueness check is needed.
func (s *AuthService) IssueSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &domain.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Login verifies credentials and issues a session in one step. The
// returned user carries no password hash.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	sess, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user.Sanitized(), sess, nil
}

// ResolveSession maps a presented token to the owning account. Expiry is
// lazy: an expired row is rejected but not deleted here. Unknown and
// expired tokens produce the same failure.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, auth.ErrMissingToken
	}

	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrSessionInvalid
		}
		return nil, err
	}
	if sess.ExpiredAt(time.Now()) {
		return nil, auth.ErrSessionInvalid
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrSessionInvalid
		}
		return nil, err
	}
	return user.Sanitized(), nil
}

// RevokeSession deletes the session row for the token. Revoking an
// unknown or already-revoked token is not an error.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// ChangePassword re-verifies the old password by account id and replaces
// the stored hash. Existing sessions stay valid until their natural
// expiry; they are not tied to a password version.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.ComparePassword(user.PasswordHash, oldPassword, s.iterations) {
		return auth.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword, s.iterations)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

func (s *AuthService) register(ctx context.Context, name, email, password string, role domain.UserRole, adminID *string) (*domain.User, *domain.Session, error) {
	user, sess, err := s.registerUser(ctx, name, email, password, role, adminID)
	if err != nil {
		return nil, nil, err
	}
	return user.Sanitized(), sess, nil
}

func (s *AuthService) registerUser(ctx context.Context, name, email, password string, role domain.UserRole, adminID *string) (*domain.User, *domain.Session, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(password, s.iterations)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		AdminID:      adminID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	if role != domain.RoleAdmin {
		return user, nil, nil
	}

	sess, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}
