package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civicdesk/internal/domain"
	"github.com/spec-kit/civicdesk/internal/repository"
	"github.com/spec-kit/civicdesk/internal/session"
	apperrors "github.com/spec-kit/civicdesk/pkg/util"
)

const identityKey = "auth_identity"

// Middleware resolves the caller's identity from the session cookie or a
// bearer token and stores it request-scoped in fiber Locals.
type Middleware struct {
	sessions   session.Store
	tokens     *TokenManager
	users      repository.UserRepository
	cookieName string
}

// NewMiddleware constructs middleware.
func NewMiddleware(sessions session.Store, tokens *TokenManager, users repository.UserRepository, cookieName string) *Middleware {
	return &Middleware{sessions: sessions, tokens: tokens, users: users, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if token := c.Cookies(m.cookieName); token != "" {
		identity, err := m.sessions.Get(c.Context(), token)
		if err == nil {
			c.Locals(identityKey, identity)
			return c.Next()
		}
		if !errors.Is(err, session.ErrNotFound) {
			return apperrors.MapError(err)
		}
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing session or authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthenticated("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthenticated("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(identityKey, domain.IdentityOf(user))
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}

// SetIdentity stores an identity in the request context. Exposed for tests.
func SetIdentity(c *fiber.Ctx, identity domain.Identity) {
	c.Locals(identityKey, identity)
}

// RequireRole ensures the caller holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
