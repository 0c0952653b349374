// internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// Options configures a Service.
type Options struct {
	BcryptCost int // 0 = bcrypt.DefaultCost
	// LoginRate and LoginBurst bound login attempts process-wide.
	LoginRate  rate.Limit // 0 = one attempt every 6s
	LoginBurst int        // 0 = 10
}

// Service implements account operations on top of a UserStore.
type Service struct {
	users   *UserStore
	tokens  *TokenManager
	cost    int
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewService creates an account service.
func NewService(users *UserStore, tokens *TokenManager, opts Options, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	limit := opts.LoginRate
	if limit == 0 {
		limit = rate.Every(6 * time.Second)
	}
	burst := opts.LoginBurst
	if burst == 0 {
		burst = 10
	}
	return &Service{
		users:   users,
		tokens:  tokens,
		cost:    cost,
		limiter: rate.NewLimiter(limit, burst),
		log:     log.With("component", "auth"),
	}
}

// Registration is the input to Register.
type Registration struct {
	Username string
	Password string
	Name     string
	Surname  string
	Birthday *time.Time
}

// Register creates an account. Username, password and name are required.
func (s *Service) Register(ctx context.Context, reg Registration) (*User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Name = strings.TrimSpace(reg.Name)
	if reg.Username == "" || reg.Password == "" || reg.Name == "" {
		return nil, fmt.Errorf("%w: username, password and name are required", ErrInvalidInput)
	}

	hash, err := s.hash(reg.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Username:     reg.Username,
		PasswordHash: hash,
		Name:         reg.Name,
		Surname:      strings.TrimSpace(reg.Surname),
		Birthday:     reg.Birthday,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login verifies credentials and returns a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	if !s.limiter.Allow() {
		s.log.Warn("login rate limited", "username", username)
		return "", nil, ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.log.Info("login failed", "username", u.Username)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	s.log.Info("login succeeded", "user_id", u.ID)
	return token, u, nil
}

// Me returns the account for userID.
func (s *Service) Me(ctx context.Context, userID int64) (*User, error) {
	return s.users.Get(ctx, userID)
}

// UpdateProfile replaces the profile fields and returns the updated account.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, p Profile) (*User, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	p.Surname = strings.TrimSpace(p.Surname)
	if err := s.users.UpdateProfile(ctx, userID, p); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

// ChangePassword replaces the password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if next == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, userID, hash); err != nil {
		return err
	}
	s.log.Info("password changed", "user_id", userID)
	return nil
}

// DeleteAccount removes the user and everything they own.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info("account deleted", "user_id", userID)
	return nil
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
