// AngelaMos | 2026
// dto.go

package booking

import (
	"time"

	"github.com/carterperez-dev/messhall/internal/core"
)

type SubmitRequest struct {
	BookingDate core.Date `json:"booking_date"`
	LunchPick   []string  `json:"lunch_pick"   validate:"max=20,dive,min=1,max=100"`
	DinnerPick  []string  `json:"dinner_pick"  validate:"max=20,dive,min=1,max=100"`
}

type LunchUpdateRequest struct {
	BookingDate core.Date `json:"booking_date"`
	LunchPick   []string  `json:"lunch_pick" validate:"max=20,dive,min=1,max=100"`
}

type DinnerUpdateRequest struct {
	BookingDate core.Date `json:"booking_date"`
	DinnerPick  []string  `json:"dinner_pick" validate:"max=20,dive,min=1,max=100"`
}

type BookingResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	BookingDate core.Date `json:"booking_date"`
	LunchPick   []string  `json:"lunch_pick"`
	DinnerPick  []string  `json:"dinner_pick"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type HistoryItem struct {
	BookingDate core.Date `json:"booking_date"`
	LunchPick   []string  `json:"lunch_pick"`
	DinnerPick  []string  `json:"dinner_pick"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToBookingResponse(b *Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		BookingDate: b.Date,
		LunchPick:   b.LunchPick,
		DinnerPick:  b.DinnerPick,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func ToHistory(bookings []Booking) []HistoryItem {
	out := make([]HistoryItem, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, HistoryItem{
			BookingDate: b.Date,
			LunchPick:   b.LunchPick,
			DinnerPick:  b.DinnerPick,
			CreatedAt:   b.CreatedAt,
		})
	}
	return out
}
