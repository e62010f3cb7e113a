package service

import (
	"context"
	"errors"
	"strings"

	"tracemap/internal/models"
	"tracemap/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID string
	Name   *string
	Image  *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetOrCreate resolves a user by the subject of their access token, creating
// the account with a generated nickname on first sight.
func (s *UserService) GetOrCreate(ctx context.Context, id, email string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err == nil {
		return user, nil
	}

	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		return nil, err
	}

	user = &models.User{
		ID:    id,
		Name:  RandomNickname(),
		Email: email,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	const maxNameLen = 50

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		if len(name) > maxNameLen {
			return nil, models.NewValidationError("Name too long (max 50 characters)")
		}
		user.Name = name
	}
	if in.Image != nil {
		user.Image = *in.Image
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user and, through the foreign key cascade, all of
// their traces and comments.
func (s *UserService) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
