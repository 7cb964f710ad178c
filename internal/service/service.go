package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/farmflow/farmflow-server/internal/mail"
	"github.com/farmflow/farmflow-server/internal/models"
	"github.com/farmflow/farmflow-server/internal/repository"
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	RegisterUser(ctx context.Context, req models.RegisterUserRequest) error
	SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error)
	ResolveIdentity(ctx context.Context, email string) (*models.User, error)
	EnsureAdmin(ctx context.Context, email, password string) error

	// Products and collection
	RegisterProduct(ctx context.Context, req models.RegisterProductRequest) error
	AddCollectedProduct(ctx context.Context, contributor *models.User, req models.CollectProductRequest) (*models.HarvestRateView, error)
	SetHarvestRate(ctx context.Context, req models.HarvestRateRequest) error

	// Administration
	RateUser(ctx context.Context, req models.RatingRequest) error
	BlockUser(ctx context.Context, email string) error

	// Statistics
	StatisticsByUser(ctx context.Context, email string, begin, end time.Time) ([]models.UserStatEntry, error)
	StatisticsByFarm(ctx context.Context, begin, end time.Time) ([]models.FarmStatEntry, error)
	SendDailyStatistics(ctx context.Context) error
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo       repository.Repository
	tokens     *TokenService
	mailer     mail.Mailer
	reportTo   string
	reportFrom string

	// productLocks serializes quota updates per product so concurrent
	// collection events cannot lose updates or drive the remaining
	// quota negative.
	lockMu       sync.Mutex
	productLocks map[string]*sync.Mutex
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, tokens *TokenService, mailer mail.Mailer, reportTo, reportFrom string) *DefaultService {
	return &DefaultService{
		repo:         repo,
		tokens:       tokens,
		mailer:       mailer,
		reportTo:     reportTo,
		reportFrom:   reportFrom,
		productLocks: make(map[string]*sync.Mutex),
	}
}

// Tokens exposes the token service, also used by the authentication middleware.
func (s *DefaultService) Tokens() *TokenService {
	return s.tokens
}

// Authentication methods
func (s *DefaultService) RegisterUser(ctx context.Context, req models.RegisterUserRequest) error {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return fmt.Errorf("%w: user with prompted credentials already exists", ErrAuthenticationFailed)
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:      req.Email,
		Name:       req.Name,
		Surname:    req.Surname,
		Patronymic: req.Patronymic,
		Password:   string(hashedPassword),
		Role:       models.RoleUser,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if err == repository.ErrDuplicate {
			return fmt.Errorf("%w: user with prompted credentials already exists", ErrAuthenticationFailed)
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

func (s *DefaultService) SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrAuthenticationFailed)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrAuthenticationFailed)
	}

	if user.Blocked {
		return nil, ErrBlocked
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		ExpiresIn: int(s.tokens.Lifetime().Seconds()),
	}, nil
}

// ResolveIdentity looks up an authenticated identity by token subject.
func (s *DefaultService) ResolveIdentity(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, fmt.Errorf("%w: user with this email was not found", ErrNotFound)
	}

	return user, nil
}

// EnsureAdmin creates the bootstrap administrator account when it does not
// exist yet. It is called once at startup.
func (s *DefaultService) EnsureAdmin(ctx context.Context, email, password string) error {
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error checking admin existence: %w", err)
	}

	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	admin := &models.User{
		Email:    email,
		Name:     "Admin",
		Surname:  "Admin",
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}

	if err := s.repo.CreateUser(ctx, admin); err != nil && err != repository.ErrDuplicate {
		return fmt.Errorf("error creating admin: %w", err)
	}

	return nil
}
