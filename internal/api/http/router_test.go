package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/civicdesk/internal/api/http/handlers"
	"github.com/spec-kit/civicdesk/internal/auth"
	"github.com/spec-kit/civicdesk/internal/config"
	"github.com/spec-kit/civicdesk/internal/domain"
	"github.com/spec-kit/civicdesk/internal/observability"
	"github.com/spec-kit/civicdesk/internal/persistence"
	"github.com/spec-kit/civicdesk/internal/repository"
	"github.com/spec-kit/civicdesk/internal/service"
	"github.com/spec-kit/civicdesk/internal/session"
)

const testCookieName = "civicdesk_session"

// End-to-end tests over the fiber app with in-memory repositories.

type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*domain.User)}
}

func (r *memUsers) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUsers) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memUsers) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[domain.Role]int64)
	for _, user := range r.users {
		result[user.Role]++
	}
	return result, nil
}

type memComplaints struct {
	mu         sync.Mutex
	complaints map[string]*domain.Complaint
	seq        int
}

func newMemComplaints() *memComplaints {
	return &memComplaints{complaints: make(map[string]*domain.Complaint)}
}

func (r *memComplaints) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint.ID = uuid.NewString()
	r.seq++
	complaint.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	complaint.UpdatedAt = complaint.CreatedAt
	clone := *complaint
	r.complaints[complaint.ID] = &clone
	return nil
}

func (r *memComplaints) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *complaint
	return &clone, nil
}

func (r *memComplaints) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	complaint.Status = status
	complaint.UpdatedAt = complaint.UpdatedAt.Add(time.Millisecond)
	clone := *complaint
	return &clone, nil
}

func (r *memComplaints) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Complaint
	for _, complaint := range r.complaints {
		if filter.SubmitterID != nil && complaint.SubmitterID != *filter.SubmitterID {
			continue
		}
		if filter.Department != nil && complaint.Department != *filter.Department {
			continue
		}
		result = append(result, *complaint)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *memComplaints) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.complaints)), nil
}

func (r *memComplaints) CountByStatus(_ context.Context, filter repository.ComplaintFilter) (map[domain.ComplaintStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[domain.ComplaintStatus]int64)
	for _, complaint := range r.complaints {
		if filter.SubmitterID != nil && complaint.SubmitterID != *filter.SubmitterID {
			continue
		}
		if filter.Department != nil && complaint.Department != *filter.Department {
			continue
		}
		result[complaint.Status]++
	}
	return result, nil
}

func (r *memComplaints) CountByDepartment(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[string]int64)
	for _, complaint := range r.complaints {
		result[complaint.Department]++
	}
	return result, nil
}

type memDepartments struct{}

func (memDepartments) ListActive(_ context.Context) ([]domain.Department, error) {
	result := make([]domain.Department, 0, len(domain.DefaultDepartments))
	for _, name := range domain.DefaultDepartments {
		result = append(result, domain.Department{ID: name, Name: name, IsActive: true})
	}
	return result, nil
}

func (memDepartments) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, candidate := range domain.DefaultDepartments {
		if candidate == name {
			return true, nil
		}
	}
	return false, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            4,
		},
	}

	users := newMemUsers()
	complaints := newMemComplaints()
	departments := memDepartments{}
	sessions := session.NewMemoryStore(0)

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:       users,
		DepartmentRepo: departments,
		Sessions:       sessions,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:  complaints,
		DepartmentRepo: departments,
	})
	dashboardService := service.NewDashboardService(complaints, users)

	authMiddleware := auth.NewMiddleware(sessions, authService.TokenManager(), users, testCookieName)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService, testCookieName, time.Hour, "test"),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Dashboards:     handlers.NewDashboardHandler(dashboardService),
		Pages:          handlers.NewPagesHandler(),
		AuthMiddleware: authMiddleware,
	})
	return app
}

func jsonRequest(method, target string, payload any) *http.Request {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func registerAndLogin(t *testing.T, app *fiber.App, email, role, department string) *http.Cookie {
	t.Helper()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/register", map[string]string{
		"full_name":        "Test User",
		"email":            email,
		"role":             role,
		"department":       department,
		"password":         "password123",
		"password_confirm": "password123",
	}))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": "password123",
	}))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d", resp.StatusCode)
	}
	defer resp.Body.Close()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == testCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestRegisterLoginSubmitListFlow(t *testing.T) {
	app := newTestApp(t)
	cookie := registerAndLogin(t, app, "user@example.com", "END_USER", "")

	req := jsonRequest(http.MethodPost, "/complaint/register", map[string]string{
		"title":       "Leaking pipe",
		"description": "Pipe leaking in block C",
		"department":  "Water",
	})
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("submit request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status %d", resp.StatusCode)
	}
	var created struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	decodeBody(t, resp, &created)
	if created.Data.Status != "PENDING" {
		t.Fatalf("expected PENDING, got %s", created.Data.Status)
	}

	req = httptest.NewRequest(http.MethodGet, "/complaints", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", resp.StatusCode)
	}
	var listed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, resp, &listed)
	if len(listed.Data) != 1 || listed.Data[0].ID != created.Data.ID {
		t.Fatalf("unexpected list payload: %+v", listed.Data)
	}
}

func TestLoginRedirectsToRoleDashboard(t *testing.T) {
	app := newTestApp(t)
	registerAndLogin(t, app, "admin@example.com", "DEPARTMENT_ADMIN", "Water")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{
		"email":    "admin@example.com",
		"password": "password123",
	}))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	var body struct {
		Data struct {
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if body.Data.Redirect != "/department/dashboard" {
		t.Fatalf("expected department dashboard redirect, got %s", body.Data.Redirect)
	}
}

func TestLoginFailureShape(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever",
	}))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("expected INVALID_CREDENTIALS, got %s", body.Error.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/complaints", "/user/dashboard", "/payments"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		if err != nil {
			t.Fatalf("request %s: %v", target, err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s without auth: expected 401, got %d", target, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestDashboardRoleGuards(t *testing.T) {
	app := newTestApp(t)
	cookie := registerAndLogin(t, app, "user@example.com", "END_USER", "")

	for _, target := range []string{"/super-admin/dashboard", "/department/dashboard", "/org-admin/dashboard"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.AddCookie(cookie)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %s: %v", target, err)
		}
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s as end user: expected 403, got %d", target, resp.StatusCode)
		}
		resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/user/dashboard", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("user dashboard: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("user dashboard: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutInvalidatesSession(t *testing.T) {
	app := newTestApp(t)
	cookie := registerAndLogin(t, app, "user@example.com", "END_USER", "")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("logout request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status %d", resp.StatusCode)
	}
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/complaints", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("list after logout: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("stale session accepted: %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestBearerTokenAuth(t *testing.T) {
	app := newTestApp(t)
	registerAndLogin(t, app, "user@example.com", "END_USER", "")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/login", map[string]string{
		"email":    "user@example.com",
		"password": "password123",
	}))
	if err != nil {
		t.Fatalf("api login: %v", err)
	}
	var body struct {
		Data struct {
			Auth struct {
				Token string `json:"token"`
			} `json:"auth"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if body.Data.Auth.Token == "" {
		t.Fatal("expected bearer token")
	}

	req := httptest.NewRequest(http.MethodGet, "/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.Auth.Token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("list with bearer: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bearer auth rejected: %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestStatusUpdateOverHTTP(t *testing.T) {
	app := newTestApp(t)
	userCookie := registerAndLogin(t, app, "user@example.com", "END_USER", "")
	adminCookie := registerAndLogin(t, app, "admin@example.com", "DEPARTMENT_ADMIN", "Water")

	req := jsonRequest(http.MethodPost, "/complaint/register", map[string]string{
		"title":       "Leaking pipe",
		"description": "d",
		"department":  "Water",
	})
	req.AddCookie(userCookie)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, resp, &created)

	// end user may not mutate status, not even on their own complaint
	req = jsonRequest(http.MethodPost, "/complaint/"+created.Data.ID+"/update-status", map[string]string{
		"status": "RESOLVED",
	})
	req.AddCookie(userCookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("denied update: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for end user, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req = jsonRequest(http.MethodPost, "/complaint/"+created.Data.ID+"/update-status", map[string]string{
		"status": "RESOLVED",
	})
	req.AddCookie(adminCookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin update status %d", resp.StatusCode)
	}
	var updated struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	decodeBody(t, resp, &updated)
	if updated.Data.Status != "RESOLVED" {
		t.Fatalf("expected RESOLVED, got %s", updated.Data.Status)
	}

	req = jsonRequest(http.MethodPost, "/complaint/"+created.Data.ID+"/update-status", map[string]string{
		"status": "ARCHIVED",
	})
	req.AddCookie(adminCookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("bad status update: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("live status %d", resp.StatusCode)
	}
	resp.Body.Close()

	// no backing services wired, readiness must fail
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("ready status %d", resp.StatusCode)
	}
	resp.Body.Close()
}
