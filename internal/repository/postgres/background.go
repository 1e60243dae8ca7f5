package postgres

import (
	"context"
	"fmt"

	"github.com/mkravets/cutout-server/internal/model"
)

// Ensure BackgroundRepository implements the model.BackgroundStore interface.
var _ model.BackgroundStore = (*BackgroundRepository)(nil)

type BackgroundRepository struct {
	db *Connection
}

func NewBackgroundRepository(db *Connection) *BackgroundRepository {
	return &BackgroundRepository{db: db}
}

func (r *BackgroundRepository) Create(ctx context.Context, asset model.BackgroundAsset) error {
	const query = `
        INSERT INTO images (user_id, url_background)
        VALUES ($1, $2)
    `

	if _, err := r.db.ExecContext(ctx, query, asset.UserID, asset.URL); err != nil {
		return fmt.Errorf("failed to create background asset: %w", err)
	}
	return nil
}

func (r *BackgroundRepository) ListByUser(ctx context.Context, userID int64) ([]model.BackgroundAsset, error) {
	const query = `
        SELECT id, user_id, url_background, created_at
        FROM images
        WHERE user_id = $1
        ORDER BY created_at
    `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list background assets: %w", err)
	}
	defer rows.Close()

	var assets []model.BackgroundAsset
	for rows.Next() {
		var a model.BackgroundAsset
		if err := rows.Scan(&a.ID, &a.UserID, &a.URL, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan background asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate background assets: %w", err)
	}

	return assets, nil
}
