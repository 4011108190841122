// Package identity owns user accounts: signup, password checks and lookups.
package identity

import (
	"context"                    // Context for DB calls
	"cryptonest/internal/domain" // Importing domain models
	"errors"                     // Error comparison
	"fmt"                        // Error wrapping
	"strings"                    // String manipulation

	"github.com/sirupsen/logrus" // Logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Service is the identity store backed by gorm
type Service struct {
	db   *gorm.DB       // Database handle
	log  *logrus.Logger // Logger
	cost int            // bcrypt cost
}

// New creates an identity service
func New(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost, tests use bcrypt.MinCost
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

// Signup validates the input, hashes the password and inserts one user row
func (s *Service) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)       // Ignore surrounding whitespace
	email = domain.NormalizeEmail(email) // Lowercase to ensure uniqueness

	if len([]rune(name)) < 2 {
		return nil, domain.Invalid("name", "Name must be at least 2 characters.")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.Invalid("email", "Please enter a valid email.")
	}
	if len(password) < 6 {
		return nil, domain.Invalid("password", "Password must be at least 6 characters.")
	}

	var count int64 // Existing users with this email
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost) // Hash the password
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Name: name, Email: email, Password: string(hash)} // Only the hash is stored
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// Lost a race with a concurrent signup for the same address
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID}).Info("User signed up")
	return user, nil
}

// Authenticate checks an email/password pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	var user domain.User // Fetch user from database
	err := s.db.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return &user, nil
}

// Get loads a user by id
func (s *Service) Get(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}
