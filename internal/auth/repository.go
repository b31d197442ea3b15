// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/messhall/internal/core"
)

type Repository interface {
	Create(ctx context.Context, session *Session) error
	FindByHash(ctx context.Context, tokenHash string) (*Session, error)
	MarkAsUsed(ctx context.Context, id, replacedByID string) error
	Revoke(ctx context.Context, id string) error
	RevokeFamily(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, expires_at, user_agent, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &session.CreatedAt, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.FamilyID,
		session.ExpiresAt,
		session.UserAgent,
		session.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*Session, error) {
	query := `
		SELECT id, user_id, token_hash, family_id, expires_at, created_at,
		       is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address
		FROM refresh_tokens
		WHERE token_hash = $1`

	var session Session
	err := r.db.GetContext(ctx, &session, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

// MarkAsUsed succeeds only for the first caller, which makes concurrent
// rotations of the same token detectable.
func (r *repository) MarkAsUsed(
	ctx context.Context,
	id, replacedByID string,
) error {
	query := `
		UPDATE refresh_tokens
		SET is_used = TRUE, used_at = NOW(), replaced_by_id = $2
		WHERE id = $1 AND is_used = FALSE`

	result, err := r.db.ExecContext(ctx, query, id, replacedByID)
	if err != nil {
		return fmt.Errorf("mark session used: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark session used: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("mark session used: %w", core.ErrConflict)
	}

	return nil
}

func (r *repository) Revoke(ctx context.Context, id string) error {
	return r.revoke(ctx, "revoke session", "id = $1", id)
}

func (r *repository) RevokeFamily(ctx context.Context, familyID string) error {
	return r.revoke(ctx, "revoke session family", "family_id = $1", familyID)
}

func (r *repository) RevokeAllForUser(ctx context.Context, userID string) error {
	return r.revoke(ctx, "revoke user sessions", "user_id = $1", userID)
}

func (r *repository) revoke(ctx context.Context, op, where string, arg string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE ` + where + ` AND revoked_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, arg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DeleteExpiredBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return rows, nil
}
