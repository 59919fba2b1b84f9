package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/dbx"
	"github.com/dmitrijs2005/profilekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) error {

	query :=
		`INSERT INTO profiles (id, user_id)
		 VALUES ($1, $2)
		 `

	_, err := r.db.ExecContext(ctx, query, profile.ID, profile.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID int64) (*models.Profile, error) {
	query :=
		`SELECT id, user_id, created_at FROM profiles
		 WHERE id = $1 AND user_id = $2
		 `

	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&profile.ID, &profile.UserID, &profile.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) ListIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	query :=
		`SELECT id FROM profiles
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}
