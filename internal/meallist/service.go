// AngelaMos | 2026
// service.go

package meallist

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/messhall/internal/booking"
	"github.com/carterperez-dev/messhall/internal/core"
)

type Service struct {
	repo   Repository
	window booking.Window
	clock  core.Clock
}

func NewService(repo Repository, window booking.Window, clock core.Clock) *Service {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Service{repo: repo, window: window, clock: clock}
}

func (s *Service) Today() core.Date {
	return s.window.Today(s.clock.Now())
}

// ForDate builds the meal list for date. A date without bookings is
// reported as core.ErrNotFound.
func (s *Service) ForDate(ctx context.Context, date core.Date) (*Summary, error) {
	ctx, span := core.StartSpan(ctx, "meallist.ForDate",
		attribute.String("meallist.date", date.String()),
	)
	defer span.End()

	entries, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		core.SetSpanError(span, err)
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("meal list %s: %w", date, core.ErrNotFound)
	}

	span.SetAttributes(attribute.Int("meallist.bookings", len(entries)))
	return Summarize(date, entries), nil
}

func (s *Service) MyToday(ctx context.Context, userID string) (*Entry, error) {
	return s.repo.GetForUser(ctx, userID, s.Today())
}

func (s *Service) Export(ctx context.Context, date core.Date, format Format) (*File, error) {
	summary, err := s.ForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return Render(summary, format)
}
