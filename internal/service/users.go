package service

import (
	"context"
	"time"

	"example.com/socialmedia/internal/models"
	"example.com/socialmedia/internal/store"
)

type UserService struct {
	store store.StoreInterface
}

func NewUserService(st store.StoreInterface) *UserService {
	return &UserService{store: st}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NotFound("User", id)
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NotFound("User", username)
	}
	return user, nil
}

// UpdateProfile mutates bio and profile picture only. Identity fields
// (id, username, email) are immutable through this path.
func (s *UserService) UpdateProfile(ctx context.Context, id, bio, profilePicture string) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Bio = bio
	user.ProfilePicture = profilePicture
	user.Updated = time.Now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NotFound("User", id)
	}
	logg.Info("service/users", "User deleted (user_id anonymized)")
	return nil
}

// Subscribe adds target to the subscriber's subscription set. Both users
// must exist; the edge insert itself is idempotent.
func (s *UserService) Subscribe(ctx context.Context, subscriberID, targetID string) (bool, error) {
	if _, err := s.GetByID(ctx, subscriberID); err != nil {
		return false, err
	}
	if _, err := s.GetByID(ctx, targetID); err != nil {
		return false, err
	}
	return s.store.Subscribe(ctx, subscriberID, targetID)
}

func (s *UserService) Unsubscribe(ctx context.Context, subscriberID, targetID string) (bool, error) {
	if _, err := s.GetByID(ctx, subscriberID); err != nil {
		return false, err
	}
	if _, err := s.GetByID(ctx, targetID); err != nil {
		return false, err
	}
	return s.store.Unsubscribe(ctx, subscriberID, targetID)
}

func (s *UserService) Subscriptions(ctx context.Context, userID string) ([]models.User, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListSubscriptions(ctx, userID)
}

func (s *UserService) Subscribers(ctx context.Context, userID string) ([]models.User, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListSubscribers(ctx, userID)
}
