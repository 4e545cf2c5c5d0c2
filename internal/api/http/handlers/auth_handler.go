package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civicdesk/internal/api/dto"
	"github.com/spec-kit/civicdesk/internal/domain"
	"github.com/spec-kit/civicdesk/internal/service"
	apperrors "github.com/spec-kit/civicdesk/pkg/util"
)

// AuthHandler exposes login, logout and registration endpoints.
type AuthHandler struct {
	auth        *service.AuthService
	cookieName  string
	cookieTTL   time.Duration
	serviceName string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookieName string, cookieTTL time.Duration, serviceName string) *AuthHandler {
	return &AuthHandler{auth: authService, cookieName: cookieName, cookieTTL: cookieTTL, serviceName: serviceName}
}

// Landing handles GET /.
func (h *AuthHandler) Landing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":  h.serviceName,
		"login":    "/login",
		"register": "/register",
	})
}

// Login handles POST /login. On success it binds a session cookie and points
// the client at the role-specific dashboard.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  cookieExpiry(h.cookieTTL),
	})

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user":     dto.UserOf(user),
			"redirect": user.Role.DashboardPath(),
		},
	})
}

// LoginAPI handles POST /api/login, returning a bearer token instead of a
// session cookie.
func (h *AuthHandler) LoginAPI(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.LoginAPI(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.UserOf(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles GET /logout; idempotent.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(h.cookieName)
	if err := h.auth.Logout(c.Context(), token); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"redirect": "/"}})
}

// RegisterForm handles GET /register, describing the registration contract.
func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	departments, err := h.auth.Departments(c.Context())
	if err != nil {
		return err
	}
	names := make([]string, 0, len(departments))
	for _, dept := range departments {
		names = append(names, dept.Name)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"roles":       domain.Roles(),
			"departments": names,
		},
	})
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return apperrors.NewValidationError("full_name, email, role, password required", nil)
	}

	user, err := h.auth.Register(c.Context(), service.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Role:            req.Role,
		Department:      req.Department,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.UserOf(user)})
}

func cookieExpiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		// session cookie, lifetime left to the browser
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
