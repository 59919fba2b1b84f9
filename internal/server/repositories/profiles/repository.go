package profiles

import (
	"context"

	"github.com/dmitrijs2005/profilekeeper/internal/server/models"
)

// Repository stores profile image records. Get scopes by owner so ownership
// checks and lookups are one round trip; misses return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, id, userID int64) (*models.Profile, error)
	ListIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}
