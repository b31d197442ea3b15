// AngelaMos | 2026
// repository.go

package meallist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/messhall/internal/core"
)

type Repository interface {
	ListByDate(ctx context.Context, date core.Date) ([]Entry, error)
	GetForUser(ctx context.Context, userID string, date core.Date) (*Entry, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const entrySelect = `
		SELECT u.id AS user_id, u.name AS user_name, u.room_number,
		       mb.lunch_pick, mb.dinner_pick
		FROM meal_bookings AS mb
		JOIN users AS u ON u.id = mb.user_id`

func (r *repository) ListByDate(ctx context.Context, date core.Date) ([]Entry, error) {
	query := entrySelect + `
		WHERE mb.booking_date = $1
		ORDER BY u.name, u.room_number`

	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, query, date); err != nil {
		return nil, fmt.Errorf("list meal list: %w", err)
	}

	return entries, nil
}

func (r *repository) GetForUser(
	ctx context.Context,
	userID string,
	date core.Date,
) (*Entry, error) {
	query := entrySelect + `
		WHERE mb.booking_date = $1 AND u.id = $2`

	var e Entry
	err := r.db.GetContext(ctx, &e, query, date, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get meal list entry: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get meal list entry: %w", err)
	}

	return &e, nil
}
