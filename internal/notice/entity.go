// AngelaMos | 2026
// entity.go

package notice

import (
	"time"
)

type Notice struct {
	ID             string    `db:"id"                json:"id"`
	Title          string    `db:"title"             json:"title"`
	Content        string    `db:"content"           json:"content"`
	PostedByUserID *string   `db:"posted_by_user_id" json:"posted_by_user_id"`
	AuthorName     *string   `db:"author_name"       json:"name"`
	CreatedAt      time.Time `db:"created_at"        json:"created_at"`
}
