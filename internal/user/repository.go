// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/messhall/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
	SetMessStatus(ctx context.Context, id string, active bool) (*User, error)
	SetPushToken(ctx context.Context, id, token string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	ActivePushTokens(ctx context.Context) ([]string, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, name, email, password_hash, room_number, role, is_active,
		       is_mess_active, push_token, token_version, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, room_number, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING is_active, is_mess_active, token_version, created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.RoomNumber,
		user.Role,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, room_number = $3, role = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.RoomNumber,
		user.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.execOne(ctx, "update password", `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id string,
) error {
	return r.execOne(ctx, "increment token version", `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1`, id)
}

func (r *repository) Activate(ctx context.Context, id string) error {
	return r.execOne(ctx, "activate user", `
		UPDATE users
		SET is_active = TRUE, updated_at = NOW()
		WHERE id = $1`, id)
}

func (r *repository) SetMessStatus(
	ctx context.Context,
	id string,
	active bool,
) (*User, error) {
	query := `
		UPDATE users
		SET is_mess_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set mess status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set mess status: %w", err)
	}

	return &user, nil
}

func (r *repository) SetPushToken(ctx context.Context, id, token string) error {
	return r.execOne(ctx, "set push token", `
		UPDATE users
		SET push_token = $2, updated_at = NOW()
		WHERE id = $1`, id, token)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY room_number, name
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

// ActivePushTokens returns the device tokens of users who should receive
// broadcasts: verified accounts with the mess switched on.
func (r *repository) ActivePushTokens(ctx context.Context) ([]string, error) {
	query := `
		SELECT push_token
		FROM users
		WHERE is_active AND is_mess_active
		  AND push_token IS NOT NULL AND push_token <> ''`

	var tokens []string
	if err := r.db.SelectContext(ctx, &tokens, query); err != nil {
		return nil, fmt.Errorf("list push tokens: %w", err)
	}

	return tokens, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
