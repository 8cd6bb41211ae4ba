package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/gym-service/internal/auth"
	"github.com/spec-kit/gym-service/internal/domain"
)

func TestRegisterAdmin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, sess, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret")
	if err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %q", user.Role)
	}
	if user.PasswordHash != "" {
		t.Error("returned user must not carry the password hash")
	}
	if sess == nil || sess.Token == "" {
		t.Fatal("registration should issue a session")
	}
}

func TestRegisterAdmin_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret"); err != nil {
		t.Fatalf("first RegisterAdmin failed: %v", err)
	}
	if _, _, err := svc.RegisterAdmin(ctx, "Mallory", "a@x.com", "other"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	svc, env := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret"); err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}

	user, err := svc.VerifyCredentials(ctx, "a@x.com", "secret")
	if err != nil {
		t.Fatalf("VerifyCredentials failed: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Errorf("expected email a@x.com, got %q", user.Email)
	}

	stored, err := env.users.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if stored.PasswordHash == "secret" || strings.Contains(stored.PasswordHash, "secret") {
		t.Error("stored hash must never equal or contain the plaintext")
	}
}

func TestVerifyCredentials_FailuresIndistinguishable(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret"); err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}

	_, wrongPassErr := svc.VerifyCredentials(ctx, "a@x.com", "wrong")
	_, unknownEmailErr := svc.VerifyCredentials(ctx, "nobody@x.com", "secret")

	if !errors.Is(wrongPassErr, auth.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassErr)
	}
	if !errors.Is(unknownEmailErr, auth.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmailErr)
	}
	if wrongPassErr.Error() != unknownEmailErr.Error() {
		t.Error("wrong-password and unknown-email must be indistinguishable")
	}
}

func TestIssueAndResolveSession(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, sess, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret")
	if err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}

	until := time.Until(sess.ExpiresAt)
	if until < 23*time.Hour || until > 25*time.Hour {
		t.Errorf("expected ~24h expiry, got %v", until)
	}

	resolved, err := svc.ResolveSession(ctx, sess.Token)
	if err != nil {
		t.Fatalf("ResolveSession failed: %v", err)
	}
	if resolved.ID != registered.ID {
		t.Errorf("expected user %q, got %q", registered.ID, resolved.ID)
	}
	if resolved.PasswordHash != "" {
		t.Error("resolved user must not carry the password hash")
	}
}

func TestResolveSession_MissingToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.ResolveSession(context.Background(), "")
	if !errors.Is(err, auth.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestResolveSession_ExpiredEqualsUnknown(t *testing.T) {
	svc, env := newTestAuthService(t)
	ctx := context.Background()

	user, _, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret")
	if err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}

	// Plant an already-expired row directly.
	expired := &domain.Session{
		Token:     "tok-expired",
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-25 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := env.sessions.Create(ctx, expired); err != nil {
		t.Fatalf("seed expired session: %v", err)
	}

	_, expiredErr := svc.ResolveSession(ctx, "tok-expired")
	_, unknownErr := svc.ResolveSession(ctx, "tok-never-issued")

	if !errors.Is(expiredErr, auth.ErrSessionInvalid) {
		t.Errorf("expired token: expected ErrSessionInvalid, got %v", expiredErr)
	}
	if !errors.Is(unknownErr, auth.ErrSessionInvalid) {
		t.Errorf("unknown token: expected ErrSessionInvalid, got %v", unknownErr)
	}
	if expiredErr.Error() != unknownErr.Error() {
		t.Error("expired and unknown tokens must fail identically")
	}

	// Lazy expiry: the failed resolve must not delete the row.
	if _, err := env.sessions.GetByToken(ctx, "tok-expired"); err != nil {
		t.Errorf("expired row should still be stored after a failed resolve: %v", err)
	}
}

func TestRevokeSession(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, sess, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret")
	if err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}

	if err := svc.RevokeSession(ctx, sess.Token); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
	if _, err := svc.ResolveSession(ctx, sess.Token); !errors.Is(err, auth.ErrSessionInvalid) {
		t.Fatalf("revoked token should not resolve, got %v", err)
	}
	// Revoking again is not an error.
	if err := svc.RevokeSession(ctx, sess.Token); err != nil {
		t.Fatalf("second RevokeSession should be a no-op, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, _, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret")
	if err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "wrong", "next"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.VerifyCredentials(ctx, "a@x.com", "secret"); err != nil {
		t.Fatal("failed change attempt must leave the stored hash untouched")
	}

	if err := svc.ChangePassword(ctx, user.ID, "secret", "next"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, err := svc.VerifyCredentials(ctx, "a@x.com", "secret"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Error("old password should no longer verify")
	}
	if _, err := svc.VerifyCredentials(ctx, "a@x.com", "next"); err != nil {
		t.Errorf("new password should verify: %v", err)
	}
}

// Documents the observed policy: changing the password does not revoke
// sessions that are already issued.
func TestChangePassword_KeepsExistingSessions(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, sess, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret")
	if err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "secret", "next"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.ResolveSession(ctx, sess.Token); err != nil {
		t.Errorf("session issued before the password change should stay valid: %v", err)
	}
}

func TestAssistantLifecycle(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	admin, _, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret")
	if err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}

	assistant, err := svc.CreateAssistant(ctx, admin, "Bob", "b@x.com", "helper")
	if err != nil {
		t.Fatalf("CreateAssistant failed: %v", err)
	}
	if assistant.Role != domain.RoleAssistant {
		t.Errorf("expected assistant role, got %q", assistant.Role)
	}
	if assistant.AdminID == nil || *assistant.AdminID != admin.ID {
		t.Error("assistant should reference the provisioning admin")
	}

	listed, err := svc.ListAssistants(ctx, admin)
	if err != nil {
		t.Fatalf("ListAssistants failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != assistant.ID {
		t.Fatalf("expected exactly the created assistant, got %d entries", len(listed))
	}

	// Assistants can log in like any account.
	if _, _, err := svc.Login(ctx, "b@x.com", "helper"); err != nil {
		t.Fatalf("assistant login failed: %v", err)
	}

	if err := svc.RemoveAssistant(ctx, admin, admin.ID); !errors.Is(err, ErrSelfDeletion) {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
	if err := svc.RemoveAssistant(ctx, admin, assistant.ID); err != nil {
		t.Fatalf("RemoveAssistant failed: %v", err)
	}
	if err := svc.RemoveAssistant(ctx, admin, assistant.ID); !errors.Is(err, ErrNotYourAssistant) {
		t.Fatalf("expected ErrNotYourAssistant, got %v", err)
	}
}

func TestRemoveAssistant_OtherAdmin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	alice, _, err := svc.RegisterAdmin(ctx, "Alice", "a@x.com", "secret")
	if err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}
	carol, _, err := svc.RegisterAdmin(ctx, "Carol", "c@x.com", "secret")
	if err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}

	assistant, err := svc.CreateAssistant(ctx, alice, "Bob", "b@x.com", "helper")
	if err != nil {
		t.Fatalf("CreateAssistant failed: %v", err)
	}

	if err := svc.RemoveAssistant(ctx, carol, assistant.ID); !errors.Is(err, ErrNotYourAssistant) {
		t.Fatalf("expected ErrNotYourAssistant for foreign assistant, got %v", err)
	}
}
