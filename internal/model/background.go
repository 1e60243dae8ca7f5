package model

import (
	"context"
	"time"
)

// BackgroundStore defines persistence operations for background assets.
type BackgroundStore interface {
	Create(ctx context.Context, asset BackgroundAsset) error
	ListByUser(ctx context.Context, userID int64) ([]BackgroundAsset, error)
}

// BackgroundAsset links a stored background image URL to the owning user.
// Assets are append-only: the core never updates or deletes them.
type BackgroundAsset struct {
	ID        int64
	UserID    int64
	URL       string
	CreatedAt time.Time
}
