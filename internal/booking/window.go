// AngelaMos | 2026
// window.go

package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/messhall/internal/config"
	"github.com/carterperez-dev/messhall/internal/core"
)

const istOffset = 5*time.Hour + 30*time.Minute

// Window decides whether a booking for a date may still be changed. All
// hours are wall-clock hours in Location.
type Window struct {
	Location        *time.Location
	TodayCutoffHour int
	LunchCutoffHour int
	NextDayOnlyHour int
}

func DefaultWindow() Window {
	return Window{
		Location:        fixedZone(istOffset),
		TodayCutoffHour: 18,
		LunchCutoffHour: 7,
		NextDayOnlyHour: 21,
	}
}

func NewWindow(cfg config.BookingConfig) Window {
	return Window{
		Location:        fixedZone(cfg.UTCOffset),
		TodayCutoffHour: cfg.TodayCutoffHour,
		LunchCutoffHour: cfg.LunchCutoffHour,
		NextDayOnlyHour: cfg.NextDayOnlyHour,
	}
}

func fixedZone(offset time.Duration) *time.Location {
	if offset == istOffset {
		return time.FixedZone("IST", int(offset.Seconds()))
	}

	sign, abs := '+', offset
	if offset < 0 {
		sign, abs = '-', -offset
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, int(abs.Hours()), int(abs.Minutes())%60)
	return time.FixedZone(name, int(offset.Seconds()))
}

// Today is the calendar date at now in the window's zone.
func (w Window) Today(now time.Time) core.Date {
	return core.DateOf(now.In(w.Location))
}

// Check applies every rule to an action on target at now. lunchTouched marks
// actions that set a lunch selection. The result joins one *RuleError per
// violated rule, in rule order, so errors.Is matches each of them and
// errors.As yields the first.
func (w Window) Check(now time.Time, target core.Date, lunchTouched bool) error {
	local := now.In(w.Location)
	today := core.DateOf(local)
	hour := local.Hour()
	zone := w.Location.String()

	var violations []error

	if target.Before(today) {
		violations = append(violations, reject(
			ErrPastDate,
			"Cannot perform actions on a past date.",
		))
	}

	if target.Equal(today) && hour >= w.TodayCutoffHour {
		violations = append(violations, reject(
			ErrTodayCutoff,
			"Booking for today is closed after %02d:00 %s.",
			w.TodayCutoffHour, zone,
		))
	}

	if hour >= w.NextDayOnlyHour && !target.Equal(today.AddDays(1)) {
		violations = append(violations, reject(
			ErrWindowRestriction,
			"After %02d:00 %s only tomorrow's booking (%s) can be changed.",
			w.NextDayOnlyHour, zone, today.AddDays(1),
		))
	}

	if lunchTouched && target.Equal(today) && hour >= w.LunchCutoffHour {
		violations = append(violations, reject(
			ErrLunchCutoff,
			"Cannot book lunch for today after %02d:00 %s.",
			w.LunchCutoffHour, zone,
		))
	}

	return errors.Join(violations...)
}
