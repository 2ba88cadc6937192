package userRepo

import (
	"context"

	"meetio/models"
)

// UserRepository stores identity accounts for the authentication collaborator.
type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
