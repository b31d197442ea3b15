// AngelaMos | 2026
// dto.go

package menu

import (
	"strings"
	"time"

	"github.com/carterperez-dev/messhall/internal/core"
)

const maxRangeDays = 31

type SetMenuRequest struct {
	MenuDate      core.Date `json:"menu_date"`
	LunchOptions  []string  `json:"lunch_options"  validate:"max=20,dive,max=100"`
	DinnerOptions []string  `json:"dinner_options" validate:"max=20,dive,max=100"`
}

type MenuResponse struct {
	MenuDate      core.Date `json:"menu_date"`
	LunchOptions  []string  `json:"lunch_options"`
	DinnerOptions []string  `json:"dinner_options"`
	SetByUserID   *string   `json:"set_by_user_id"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToMenuResponse(m *Menu) MenuResponse {
	return MenuResponse{
		MenuDate:      m.Date,
		LunchOptions:  nonNil(m.LunchOptions),
		DinnerOptions: nonNil(m.DinnerOptions),
		SetByUserID:   m.SetByUserID,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToMenuResponseList(menus []Menu) []MenuResponse {
	out := make([]MenuResponse, 0, len(menus))
	for i := range menus {
		out = append(out, ToMenuResponse(&menus[i]))
	}
	return out
}

// cleanOptions trims labels and drops blanks and repeats, keeping order.
func cleanOptions(options []string) []string {
	seen := make(map[string]struct{}, len(options))
	out := make([]string, 0, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
