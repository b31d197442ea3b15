// AngelaMos | 2026
// entity.go

package booking

import (
	"time"

	"github.com/lib/pq"

	"github.com/carterperez-dev/messhall/internal/core"
)

// Booking is one user's meal selection for one date. A nil pick means the
// meal is skipped.
type Booking struct {
	ID         string         `db:"id"`
	UserID     string         `db:"user_id"`
	Date       core.Date      `db:"booking_date"`
	LunchPick  pq.StringArray `db:"lunch_pick"`
	DinnerPick pq.StringArray `db:"dinner_pick"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// pickValue stores an empty selection as NULL.
func pickValue(pick []string) any {
	if len(pick) == 0 {
		return nil
	}
	return pq.StringArray(pick)
}

// normalizePick drops repeated labels, keeping first occurrences.
func normalizePick(pick []string) []string {
	if len(pick) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(pick))
	out := make([]string, 0, len(pick))
	for _, p := range pick {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
