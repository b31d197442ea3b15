// AngelaMos | 2026
// repository_test.go

package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/messhall/internal/core"
)

func newRepoWithMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var bookingCols = []string{
	"id", "user_id", "booking_date", "lunch_pick", "dinner_pick",
	"created_at", "updated_at",
}

func TestRepository_Upsert(t *testing.T) {
	created := time.Date(2025, 5, 31, 4, 30, 0, 0, time.UTC)
	updated := created.Add(5 * time.Minute)

	tests := []struct {
		name     string
		inserted bool
	}{
		{name: "new row", inserted: true},
		{name: "existing row", inserted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			mock.ExpectQuery(`(?s)^\s*INSERT INTO meal_bookings .*ON CONFLICT \(user_id, booking_date\) DO UPDATE.*\(xmax = 0\) AS inserted`).
				WithArgs("b-1", "u-1", "2025-06-01", `{"veg"}`, nil).
				WillReturnRows(sqlmock.NewRows(append(bookingCols, "inserted")).AddRow(
					"b-0", "u-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
					"{veg}", nil, created, updated, tt.inserted,
				))

			b := &Booking{
				ID:        "b-1",
				UserID:    "u-1",
				Date:      core.MustParseDate("2025-06-01"),
				LunchPick: []string{"veg"},
			}
			inserted, err := repo.Upsert(context.Background(), b)
			require.NoError(t, err)

			assert.Equal(t, tt.inserted, inserted)
			assert.Equal(t, "b-0", b.ID)
			assert.Equal(t, created, b.CreatedAt)
			assert.Equal(t, []string{"veg"}, []string(b.LunchPick))
			assert.Nil(t, b.DinnerPick)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_UpsertUniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO meal_bookings`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Upsert(context.Background(), &Booking{
		ID:     "b-1",
		UserID: "u-1",
		Date:   core.MustParseDate("2025-06-01"),
	})
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestRepository_UpdateLunchMissingRow(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)UPDATE meal_bookings\s+SET lunch_pick = \$3`).
		WithArgs("u-1", "2025-06-01", `{"nonveg"}`).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := repo.UpdateLunch(
		context.Background(), "u-1", core.MustParseDate("2025-06-01"), []string{"nonveg"},
	)
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateDinnerClears(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)UPDATE meal_bookings\s+SET dinner_pick = \$3`).
		WithArgs("u-1", "2025-06-01", nil).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(
			"b-1", "u-1", "2025-06-01", "{veg}", nil, now, now,
		))

	b, err := repo.UpdateDinner(context.Background(), "u-1", core.MustParseDate("2025-06-01"), nil)
	require.NoError(t, err)
	assert.Nil(t, b.DinnerPick)
	assert.Equal(t, "2025-06-01", b.Date.String())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	date := core.MustParseDate("2025-06-01")

	mock.ExpectExec(`DELETE FROM meal_bookings`).
		WithArgs("u-1", "2025-06-01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "u-1", date))

	mock.ExpectExec(`DELETE FROM meal_bookings`).
		WithArgs("u-1", "2025-06-01").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u-1", date), core.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)FROM meal_bookings\s+WHERE user_id = \$1\s+ORDER BY booking_date DESC`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow("b-2", "u-1", "2025-06-02", nil, "{veg}", now, now).
			AddRow("b-1", "u-1", "2025-06-01", "{veg,nonveg}", nil, now, now))

	list, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-06-02", list[0].Date.String())
	assert.Equal(t, []string{"veg", "nonveg"}, []string(list[1].LunchPick))
}

func TestRepository_GetByUserAndDateMissing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM meal_bookings`).
		WithArgs("u-1", "2025-06-01").
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := repo.GetByUserAndDate(context.Background(), "u-1", core.MustParseDate("2025-06-01"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}
