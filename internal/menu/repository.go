// AngelaMos | 2026
// repository.go

package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/messhall/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, m *Menu) error
	GetByDate(ctx context.Context, date core.Date) (*Menu, error)
	LockByDate(ctx context.Context, date core.Date) (*Menu, error)
	ListRange(ctx context.Context, from, to core.Date) ([]Menu, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const menuColumns = `menu_date, lunch_options, dinner_options, set_by_user_id,
		       created_at, updated_at`

func (r *repository) Upsert(ctx context.Context, m *Menu) error {
	query := `
		INSERT INTO daily_menus (menu_date, lunch_options, dinner_options, set_by_user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (menu_date) DO UPDATE
		SET lunch_options = EXCLUDED.lunch_options,
		    dinner_options = EXCLUDED.dinner_options,
		    set_by_user_id = EXCLUDED.set_by_user_id,
		    updated_at = NOW()
		RETURNING ` + menuColumns

	err := r.db.GetContext(ctx, m, query,
		m.Date,
		m.LunchOptions,
		m.DinnerOptions,
		m.SetByUserID,
	)
	if err != nil {
		return fmt.Errorf("upsert menu: %w", err)
	}

	return nil
}

func (r *repository) GetByDate(ctx context.Context, date core.Date) (*Menu, error) {
	return r.get(ctx, "get menu", `
		SELECT `+menuColumns+`
		FROM daily_menus
		WHERE menu_date = $1`, date)
}

// LockByDate reads the menu and holds a share lock on its row until the
// surrounding transaction ends, so a concurrent menu replace waits.
func (r *repository) LockByDate(ctx context.Context, date core.Date) (*Menu, error) {
	return r.get(ctx, "lock menu", `
		SELECT `+menuColumns+`
		FROM daily_menus
		WHERE menu_date = $1
		FOR SHARE`, date)
}

func (r *repository) get(
	ctx context.Context,
	op, query string,
	date core.Date,
) (*Menu, error) {
	var m Menu
	err := r.db.GetContext(ctx, &m, query, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}

func (r *repository) ListRange(
	ctx context.Context,
	from, to core.Date,
) ([]Menu, error) {
	query := `
		SELECT ` + menuColumns + `
		FROM daily_menus
		WHERE menu_date BETWEEN $1 AND $2
		ORDER BY menu_date`

	var menus []Menu
	if err := r.db.SelectContext(ctx, &menus, query, from, to); err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}

	return menus, nil
}
