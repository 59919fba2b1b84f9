package users

import (
	"context"

	"github.com/dmitrijs2005/profilekeeper/internal/server/models"
)

// Repository is the credential/account store boundary. Lookups that miss
// return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmailHash(ctx context.Context, emailHash string) (*models.User, error)
	SetActivePhoto(ctx context.Context, userID, photoID int64) error
}
