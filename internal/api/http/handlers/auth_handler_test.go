package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/gym-service/internal/api/http"
	"github.com/spec-kit/gym-service/internal/api/http/handlers"
	"github.com/spec-kit/gym-service/internal/auth"
	"github.com/spec-kit/gym-service/internal/config"
	"github.com/spec-kit/gym-service/internal/domain"
	"github.com/spec-kit/gym-service/internal/events"
	"github.com/spec-kit/gym-service/internal/persistence"
	"github.com/spec-kit/gym-service/internal/repository"
	"github.com/spec-kit/gym-service/internal/service"
)

const testCookieName = "gym_session"

type testApp struct {
	app      *fiber.App
	auth     *service.AuthService
	sessions repository.SessionRepository
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	ctx := context.Background()
	logger := zap.NewNop()

	store, err := persistence.NewSQLite(ctx, config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")}, logger)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(store.Close)
	if err := persistence.RunMigrations(ctx, store.Handle(), logger); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	authCfg := config.AuthConfig{
		SessionTTLHours:  24,
		SessionCookie:    testCookieName,
		PBKDF2Iterations: 1000,
	}
	appCfg := config.AppConfig{Name: "gym-service-test", Env: "development", Version: "test"}

	db := store.Handle()
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(authCfg, service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
	})
	memberService := service.NewMemberService(memberRepo, planRepo, dispatcher)
	billingService := service.NewBillingService(service.BillingDependencies{
		PlanRepo:    planRepo,
		MemberRepo:  memberRepo,
		PaymentRepo: paymentRepo,
		Dispatcher:  dispatcher,
	}, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, nil, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(appCfg.Name, appCfg.Version, store, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService, appCfg, authCfg),
		Assistants:     handlers.NewAssistantsHandler(authService),
		Members:        handlers.NewMembersHandler(memberService),
		Billing:        handlers.NewBillingHandler(billingService),
		AuthMiddleware: auth.NewAuthMiddleware(authService, authCfg.SessionCookie),
	})

	return &testApp{app: app, auth: authService, sessions: sessionRepo}
}

func (ta *testApp) seedAdmin(t *testing.T, email, password string) *domain.User {
	t.Helper()
	user, _, err := ta.auth.RegisterAdmin(context.Background(), "Seeded Admin", email, password)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return user
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	ta := setupTestApp(t)
	ta.seedAdmin(t, "a@x.com", "secret")

	resp, err := ta.app.Test(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "secret",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}
	if cookie.Value == "" {
		t.Error("session cookie should carry the token")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HTTP-only")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("expected SameSite=Strict, got %v", cookie.SameSite)
	}
	if cookie.Path != "/" {
		t.Errorf("expected path /, got %q", cookie.Path)
	}
	until := time.Until(cookie.Expires)
	if until < 23*time.Hour || until > 25*time.Hour {
		t.Errorf("expected ~24h cookie expiry, got %v", until)
	}

	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(strings.ToLower(string(body)), "password") {
		t.Error("response body must not contain any password field")
	}
}

func TestLogin_FailuresIdentical(t *testing.T) {
	ta := setupTestApp(t)
	ta.seedAdmin(t, "a@x.com", "secret")

	wrongPass, err := ta.app.Test(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	unknownEmail, err := ta.app.Test(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "secret",
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if wrongPass.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", wrongPass.StatusCode)
	}
	if unknownEmail.StatusCode != http.StatusUnauthorized {
		t.Errorf("unknown email: expected 401, got %d", unknownEmail.StatusCode)
	}

	first, _ := io.ReadAll(wrongPass.Body)
	second, _ := io.ReadAll(unknownEmail.Body)
	if string(first) != string(second) {
		t.Error("wrong-password and unknown-email responses must be byte-identical")
	}
}

func TestProtectedRoute_NoCookie(t *testing.T) {
	ta := setupTestApp(t)

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", resp.StatusCode)
	}
}

func TestProtectedRoute_ExpiredToken(t *testing.T) {
	ta := setupTestApp(t)
	user := ta.seedAdmin(t, "a@x.com", "secret")
	ctx := context.Background()

	expired := &domain.Session{
		Token:     "tok-expired",
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-25 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := ta.sessions.Create(ctx, expired); err != nil {
		t.Fatalf("seed expired session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "tok-expired"})

	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", resp.StatusCode)
	}

	// Lazy expiry: the failed check must not have deleted the row.
	if _, err := ta.sessions.GetByToken(ctx, "tok-expired"); err != nil {
		t.Errorf("expired row should still exist after the rejected request: %v", err)
	}
}

func TestLoginThenMeThenLogout(t *testing.T) {
	ta := setupTestApp(t)
	ta.seedAdmin(t, "a@x.com", "secret")

	login, err := ta.app.Test(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "secret",
	}))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	cookie := sessionCookie(login)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}

	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value})
	meResp, err := ta.app.Test(me)
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for authenticated me, got %d", meResp.StatusCode)
	}

	logout := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	logout.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value})
	logoutResp, err := ta.app.Test(logout)
	if err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if logoutResp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 on logout, got %d", logoutResp.StatusCode)
	}
	cleared := sessionCookie(logoutResp)
	if cleared == nil || cleared.Value != "" {
		t.Error("logout should clear the session cookie")
	}
	if cleared != nil && cleared.Expires.After(time.Now()) {
		t.Error("cleared cookie should carry a past expiry")
	}

	// The revoked token no longer authenticates.
	again := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	again.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value})
	againResp, err := ta.app.Test(again)
	if err != nil {
		t.Fatalf("me after logout failed: %v", err)
	}
	if againResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", againResp.StatusCode)
	}

	// A second logout with the same cookie is still fine.
	repeat := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	repeat.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value})
	repeatResp, err := ta.app.Test(repeat)
	if err != nil {
		t.Fatalf("second logout failed: %v", err)
	}
	if repeatResp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected idempotent logout, got %d", repeatResp.StatusCode)
	}
}

func TestRegister_SetsCookieAndRejectsDuplicates(t *testing.T) {
	ta := setupTestApp(t)

	payload := map[string]string{"name": "Alice", "email": "a@x.com", "password": "secret"}
	first, err := ta.app.Test(jsonRequest(http.MethodPost, "/auth/register", payload))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.StatusCode)
	}
	if sessionCookie(first) == nil {
		t.Error("registration should log the admin in")
	}

	dup, err := ta.app.Test(jsonRequest(http.MethodPost, "/auth/register", payload))
	if err != nil {
		t.Fatalf("duplicate register failed: %v", err)
	}
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", dup.StatusCode)
	}
}

func TestAssistantCannotReachAdminRoutes(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.seedAdmin(t, "a@x.com", "secret")
	ctx := context.Background()

	if _, err := ta.auth.CreateAssistant(ctx, admin, "Bob", "b@x.com", "helper"); err != nil {
		t.Fatalf("CreateAssistant failed: %v", err)
	}

	login, err := ta.app.Test(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "b@x.com", "password": "helper",
	}))
	if err != nil {
		t.Fatalf("assistant login failed: %v", err)
	}
	cookie := sessionCookie(login)
	if cookie == nil {
		t.Fatal("expected a session cookie for the assistant")
	}

	req := jsonRequest(http.MethodPost, "/auth/assistants", map[string]string{
		"name": "Eve", "email": "e@x.com", "password": "sneaky",
	})
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value})

	resp, err := ta.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for assistant on admin route, got %d", resp.StatusCode)
	}
}

func TestChangePassword_EndToEnd(t *testing.T) {
	ta := setupTestApp(t)
	ta.seedAdmin(t, "a@x.com", "secret")

	login, err := ta.app.Test(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "secret",
	}))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	cookie := sessionCookie(login)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}

	change := jsonRequest(http.MethodPost, "/auth/password/change", map[string]string{
		"old_password": "secret", "new_password": "next",
	})
	change.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value})
	changeResp, err := ta.app.Test(change)
	if err != nil {
		t.Fatalf("change failed: %v", err)
	}
	if changeResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on password change, got %d", changeResp.StatusCode)
	}

	// Old credentials are dead, the new ones work, and the session issued
	// before the change still authenticates.
	oldLogin, err := ta.app.Test(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "secret",
	}))
	if err != nil {
		t.Fatalf("old login failed: %v", err)
	}
	if oldLogin.StatusCode != http.StatusUnauthorized {
		t.Errorf("old password should no longer log in, got %d", oldLogin.StatusCode)
	}

	newLogin, err := ta.app.Test(jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "next",
	}))
	if err != nil {
		t.Fatalf("new login failed: %v", err)
	}
	if newLogin.StatusCode != http.StatusOK {
		t.Errorf("new password should log in, got %d", newLogin.StatusCode)
	}

	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value})
	meResp, err := ta.app.Test(me)
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if meResp.StatusCode != http.StatusOK {
		t.Errorf("pre-change session should survive the password change, got %d", meResp.StatusCode)
	}
}
