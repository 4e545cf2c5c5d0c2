package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civicdesk/internal/auth"
	"github.com/spec-kit/civicdesk/internal/config"
	"github.com/spec-kit/civicdesk/internal/domain"
	"github.com/spec-kit/civicdesk/internal/events"
	"github.com/spec-kit/civicdesk/internal/repository"
	"github.com/spec-kit/civicdesk/internal/session"
	apperrors "github.com/spec-kit/civicdesk/pkg/util"
)

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	sessions    session.Store
	tokenMgr    *auth.TokenManager
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
	Sessions       session.Store
	Dispatcher     events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		sessions:    deps.Sessions,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// RegisterInput describes the registration payload.
type RegisterInput struct {
	FullName        string
	Email           string
	Role            string
	Department      string
	Password        string
	PasswordConfirm string
}

// Register creates a new account. The role must belong to the closed enum;
// the department is consulted only for department admins and ignored for
// everyone else. Email uniqueness is a case-sensitive exact match.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Password != input.PasswordConfirm {
		return nil, apperrors.NewPasswordMismatch()
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	var department *string
	if role == domain.RoleDepartmentAdmin {
		name := strings.TrimSpace(input.Department)
		if name == "" {
			return nil, apperrors.NewValidationError("department required for department admins", nil)
		}
		exists, err := s.departments.ExistsByName(ctx, name)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !exists {
			return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": name})
		}
		department = &name
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewDuplicateEmail(input.Email)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		Department:   department,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventUserRegistered,
		Actor: events.Actor{UserID: user.ID, Role: user.Role},
		Payload: events.UserRegisteredPayload{
			Role:       user.Role,
			Department: user.Department,
		},
	})
	return user, nil
}

// Login authenticates by email and password and binds a session. Absent email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", apperrors.NewInvalidCredentials()
		}
		return nil, "", apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewInvalidCredentials()
	}

	token, err := s.sessions.Create(ctx, domain.IdentityOf(user))
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}
	return user, token, nil
}

// LoginAPI authenticates and issues a bearer JWT instead of a cookie session.
func (s *AuthService) LoginAPI(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// Logout invalidates the session; idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Departments lists the active department registry for registration forms.
func (s *AuthService) Departments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
