package service

import (
	"context"
	"fmt"

	"github.com/farmflow/farmflow-server/internal/models"
)

// RateUser sets the 1..5 rating of a user.
func (s *DefaultService) RateUser(ctx context.Context, req models.RatingRequest) error {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return fmt.Errorf("%w: email not found", ErrNotFound)
	}

	rating := req.Rating
	user.Rating = &rating

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}

	return nil
}

// BlockUser marks an account as blocked. Blocked users can no longer sign in
// and their existing tokens stop resolving at the authentication gate.
func (s *DefaultService) BlockUser(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return fmt.Errorf("%w: email not found", ErrNotFound)
	}

	user.Blocked = true

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}

	return nil
}
