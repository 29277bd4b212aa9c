package user

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"compliance-portal/internal/auth"
	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"
	"compliance-portal/internal/session"
	"compliance-portal/internal/store"
	"compliance-portal/internal/view"

	"gorm.io/gorm"
)

const invalidCredentials = "Invalid email or password"

// Service defines the interface for user business logic
type Service interface {
	Register(ctx context.Context, user *domain.User) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	ListClients(ctx context.Context, query ClientQuery) ([]domain.SafeUser, error)
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	User        *domain.User
	Session     *domain.Session
	AccessToken string
}

// ClientQuery selects and orders the SME clients shown to a CA.
type ClientQuery struct {
	Search string
	SortBy string // name, company or date
}

// DefaultService implements Service
type DefaultService struct {
	repository UserRepository
	sessions   session.Store
	sessionTTL time.Duration
	now        func() time.Time
}

// NewService creates a new user service
func NewService(repository UserRepository, sessions session.Store, sessionTTL time.Duration) *DefaultService {
	return &DefaultService{
		repository: repository,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Register registers a new user
func (s *DefaultService) Register(ctx context.Context, user *domain.User) error {
	if !user.Role.Valid() {
		return errors.UnprocessableEntity("Role must be SME or CA", nil)
	}

	// Check if user with email already exists
	_, err := s.repository.FindByEmail(ctx, user.Email)
	if err != nil && !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		return errors.UnprocessableEntity("User already registered", nil)
	}

	// Hash the password before saving
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		return errors.UnprocessableEntity("Password cannot be used", err)
	}
	user.PasswordHash = hash
	user.Password = ""
	user.ID = store.NewID()
	user.CreatedAt = s.now().UTC()
	if user.Company != nil && strings.TrimSpace(*user.Company) == "" {
		user.Company = nil
	}

	return s.repository.Create(ctx, user)
}

// Login authenticates a user and opens a session. Unknown email and wrong
// password fail the same way.
func (s *DefaultService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Unauthorized(invalidCredentials, err)
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, errors.Unauthorized(invalidCredentials, nil)
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := auth.GenerateAccessToken(user.ID, sess.ID, s.sessionTTL)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, err
	}

	return &LoginResult{User: user, Session: sess, AccessToken: token}, nil
}

// Logout ends the session.
func (s *DefaultService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// GetUserByID gets a user by ID
func (s *DefaultService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("User not found", err)
		}
		return nil, err
	}
	return user, nil
}

func (s *DefaultService) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return s.repository.FindByRole(ctx, role)
}

// ListClients returns SME users matching the search over name, company and
// email, ordered by the requested key.
func (s *DefaultService) ListClients(ctx context.Context, query ClientQuery) ([]domain.SafeUser, error) {
	users, err := s.repository.FindByRole(ctx, domain.RoleSME)
	if err != nil {
		return nil, err
	}

	selected := view.Project(users, clientMatches(query.Search), clientOrder(query.SortBy), 0)

	out := make([]domain.SafeUser, 0, len(selected))
	for i := range selected {
		out = append(out, selected[i].ToSafeUser())
	}
	return out, nil
}

func clientMatches(search string) func(domain.User) bool {
	return func(u domain.User) bool {
		return view.ContainsFold(u.Name, search) ||
			view.ContainsFold(u.CompanyName(), search) ||
			view.ContainsFold(u.Email, search)
	}
}

func clientOrder(sortBy string) func(a, b domain.User) int {
	switch sortBy {
	case "company":
		return view.Ascending(func(u domain.User) string { return u.CompanyName() })
	case "date":
		return view.Newest(func(u domain.User) time.Time { return u.CreatedAt })
	default:
		return domain.CompareByName
	}
}
