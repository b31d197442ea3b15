// AngelaMos | 2026
// repository.go

package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/messhall/internal/core"
)

type Repository interface {
	// Upsert writes b's picks for (user, date) in one statement and fills b
	// from the stored row. It reports whether a new row was created.
	Upsert(ctx context.Context, b *Booking) (bool, error)
	UpdateLunch(ctx context.Context, userID string, date core.Date, pick []string) (*Booking, error)
	UpdateDinner(ctx context.Context, userID string, date core.Date, pick []string) (*Booking, error)
	Delete(ctx context.Context, userID string, date core.Date) error
	GetByUserAndDate(ctx context.Context, userID string, date core.Date) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, user_id, booking_date, lunch_pick, dinner_pick,
		          created_at, updated_at`

type upsertRow struct {
	Booking
	Inserted bool `db:"inserted"`
}

func (r *repository) Upsert(ctx context.Context, b *Booking) (bool, error) {
	query := `
		INSERT INTO meal_bookings (id, user_id, booking_date, lunch_pick, dinner_pick)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, booking_date) DO UPDATE
		SET lunch_pick = EXCLUDED.lunch_pick,
		    dinner_pick = EXCLUDED.dinner_pick,
		    updated_at = NOW()
		RETURNING ` + bookingColumns + `, (xmax = 0) AS inserted`

	var row upsertRow
	err := r.db.GetContext(ctx, &row, query,
		b.ID,
		b.UserID,
		b.Date,
		pickValue(b.LunchPick),
		pickValue(b.DinnerPick),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("upsert booking: %w", core.ErrConflict)
		}
		return false, fmt.Errorf("upsert booking: %w", err)
	}

	*b = row.Booking
	return row.Inserted, nil
}

func (r *repository) UpdateLunch(
	ctx context.Context,
	userID string,
	date core.Date,
	pick []string,
) (*Booking, error) {
	return r.updatePick(ctx, "update lunch", `
		UPDATE meal_bookings
		SET lunch_pick = $3, updated_at = NOW()
		WHERE user_id = $1 AND booking_date = $2
		RETURNING `+bookingColumns, userID, date, pick)
}

func (r *repository) UpdateDinner(
	ctx context.Context,
	userID string,
	date core.Date,
	pick []string,
) (*Booking, error) {
	return r.updatePick(ctx, "update dinner", `
		UPDATE meal_bookings
		SET dinner_pick = $3, updated_at = NOW()
		WHERE user_id = $1 AND booking_date = $2
		RETURNING `+bookingColumns, userID, date, pick)
}

func (r *repository) updatePick(
	ctx context.Context,
	op, query, userID string,
	date core.Date,
	pick []string,
) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, query, userID, date, pickValue(pick))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

func (r *repository) Delete(ctx context.Context, userID string, date core.Date) error {
	query := `
		DELETE FROM meal_bookings
		WHERE user_id = $1 AND booking_date = $2`

	result, err := r.db.ExecContext(ctx, query, userID, date)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete booking: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) GetByUserAndDate(
	ctx context.Context,
	userID string,
	date core.Date,
) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM meal_bookings
		WHERE user_id = $1 AND booking_date = $2`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get booking: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	return &b, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM meal_bookings
		WHERE user_id = $1
		ORDER BY booking_date DESC`

	var bookings []Booking
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return bookings, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
