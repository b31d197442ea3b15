// AngelaMos | 2026
// repository.go

package notice

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/messhall/internal/core"
)

type Repository interface {
	Create(ctx context.Context, n *Notice) error
	List(ctx context.Context, params ListParams) ([]Notice, int, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Create inserts n and fills in the creation time and author name.
func (r *repository) Create(ctx context.Context, n *Notice) error {
	query := `
		WITH inserted AS (
			INSERT INTO notices (id, title, content, posted_by_user_id)
			VALUES ($1, $2, $3, $4)
			RETURNING posted_by_user_id, created_at
		)
		SELECT i.created_at, u.name AS author_name
		FROM inserted i
		LEFT JOIN users u ON u.id = i.posted_by_user_id`

	var row struct {
		CreatedAt  time.Time `db:"created_at"`
		AuthorName *string   `db:"author_name"`
	}
	err := r.db.GetContext(ctx, &row, query, n.ID, n.Title, n.Content, n.PostedByUserID)
	if err != nil {
		return fmt.Errorf("create notice: %w", err)
	}

	n.CreatedAt = row.CreatedAt
	n.AuthorName = row.AuthorName
	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Notice, int, error) {
	params.Normalize()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notices`); err != nil {
		return nil, 0, fmt.Errorf("count notices: %w", err)
	}

	query := `
		SELECT n.id, n.title, n.content, n.posted_by_user_id,
		       u.name AS author_name, n.created_at
		FROM notices n
		LEFT JOIN users u ON u.id = n.posted_by_user_id
		ORDER BY n.created_at DESC
		LIMIT $1 OFFSET $2`

	notices := []Notice{}
	if err := r.db.SelectContext(ctx, &notices, query, params.PageSize, params.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list notices: %w", err)
	}

	return notices, total, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete notice: %w", core.ErrNotFound)
	}

	return nil
}
