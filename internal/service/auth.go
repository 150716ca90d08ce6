// Package service holds the domain services. They enforce existence
// checks, validate input, stamp timestamps at the point of persistence,
// and orchestrate store calls. All storage I/O goes through
// store.StoreInterface.
package service

import (
	"context"
	"regexp"
	"time"

	"example.com/socialmedia/internal/logger"
	"example.com/socialmedia/internal/models"
	"example.com/socialmedia/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var logg = logger.New()

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AuthService struct {
	store      store.StoreInterface
	bcryptCost int
}

func NewAuthService(st store.StoreInterface, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{store: st, bcryptCost: bcryptCost}
}

// SignUp creates a user with a bcrypt-hashed password and the default
// USER role. Username and email are checked for uniqueness before the
// insert; a concurrent duplicate surfaces as the same conflict error via
// the store's constraint mapping.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (*models.User, error) {
	var v models.Validator
	if username == "" || len(username) > 50 {
		v.Fail("username", "must be 1-50 characters")
	}
	if !emailPattern.MatchString(email) {
		v.Fail("email", "must be a valid email address")
	}
	if len(password) < 6 {
		v.Fail("password", "must be at least 6 characters")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if existing, err := s.store.GetUserByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.ErrUsernameTaken
	}

	if existing, err := s.store.GetUserByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Created:      now,
		Updated:      now,
	}

	if err := s.store.CreateUser(ctx, user, []string{models.RoleUser}); err != nil {
		return nil, err
	}

	logg.Info("service/auth", "User registered successfully (username anonymized)")
	return &user, nil
}

// SignIn authenticates credentials and returns the user with their
// granted role names. An unknown username and a wrong password are
// reported identically.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*models.User, []string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, models.ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, models.ErrBadCredentials
	}

	roles, err := s.store.GetUserRoles(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, roles, nil
}
