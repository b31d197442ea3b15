// AngelaMos | 2026
// entity.go

package menu

import (
	"time"

	"github.com/lib/pq"

	"github.com/carterperez-dev/messhall/internal/core"
)

// Menu holds the valid lunch and dinner labels for one date.
type Menu struct {
	Date          core.Date      `db:"menu_date"`
	LunchOptions  pq.StringArray `db:"lunch_options"`
	DinnerOptions pq.StringArray `db:"dinner_options"`
	SetByUserID   *string        `db:"set_by_user_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// InvalidLunch returns the picks that are not lunch options, in input order.
func (m *Menu) InvalidLunch(picks []string) []string {
	return missing(m.LunchOptions, picks)
}

// InvalidDinner returns the picks that are not dinner options, in input order.
func (m *Menu) InvalidDinner(picks []string) []string {
	return missing(m.DinnerOptions, picks)
}

func missing(options, picks []string) []string {
	if len(picks) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(options))
	for _, o := range options {
		set[o] = struct{}{}
	}

	var out []string
	for _, p := range picks {
		if _, ok := set[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}
