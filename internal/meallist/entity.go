// AngelaMos | 2026
// entity.go

package meallist

import (
	"github.com/lib/pq"

	"github.com/carterperez-dev/messhall/internal/core"
)

// Entry is one booked user on a meal list.
type Entry struct {
	UserID     string         `db:"user_id"     json:"-"`
	UserName   string         `db:"user_name"   json:"user_name"`
	RoomNumber int            `db:"room_number" json:"room_number"`
	LunchPick  pq.StringArray `db:"lunch_pick"  json:"lunch_pick"`
	DinnerPick pq.StringArray `db:"dinner_pick" json:"dinner_pick"`
}

// Summary is the kitchen headcount for a date. Totals count users who booked
// a meal at all; item counts count each selected label.
type Summary struct {
	BookingDate         core.Date      `json:"booking_date"`
	TotalLunchBookings  int            `json:"total_lunch_bookings"`
	TotalDinnerBookings int            `json:"total_dinner_bookings"`
	LunchItemCounts     map[string]int `json:"lunch_item_counts"`
	DinnerItemCounts    map[string]int `json:"dinner_item_counts"`
	Bookings            []Entry        `json:"bookings"`
}

func Summarize(date core.Date, entries []Entry) *Summary {
	s := &Summary{
		BookingDate:      date,
		LunchItemCounts:  map[string]int{},
		DinnerItemCounts: map[string]int{},
		Bookings:         entries,
	}

	for _, e := range entries {
		if len(e.LunchPick) > 0 {
			s.TotalLunchBookings++
			for _, item := range e.LunchPick {
				s.LunchItemCounts[item]++
			}
		}
		if len(e.DinnerPick) > 0 {
			s.TotalDinnerBookings++
			for _, item := range e.DinnerPick {
				s.DinnerItemCounts[item]++
			}
		}
	}

	return s
}
