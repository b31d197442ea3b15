// AngelaMos | 2026
// service.go

package menu

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/messhall/internal/core"
)

const UpdatedTitle = "Menu Updated !!!"

type Broadcaster interface {
	Broadcast(title, body string) bool
}

type Service struct {
	repo        Repository
	broadcaster Broadcaster
}

func NewService(repo Repository, broadcaster Broadcaster) *Service {
	return &Service{repo: repo, broadcaster: broadcaster}
}

func (s *Service) Get(ctx context.Context, date core.Date) (*Menu, error) {
	ctx, span := core.StartSpan(ctx, "menu.Get", attribute.String("menu.date", date.String()))
	defer span.End()

	m, err := s.repo.GetByDate(ctx, date)
	core.SetSpanError(span, err)
	return m, err
}

// Set replaces the options for the request's date and announces the change.
// Bookings made against earlier options are left as they are.
func (s *Service) Set(
	ctx context.Context,
	req SetMenuRequest,
	setBy string,
) (*Menu, error) {
	ctx, span := core.StartSpan(ctx, "menu.Set", attribute.String("menu.date", req.MenuDate.String()))
	defer span.End()

	if req.MenuDate.IsZero() {
		return nil, fmt.Errorf("set menu: menu_date is required: %w", core.ErrInvalidInput)
	}

	lunch := cleanOptions(req.LunchOptions)
	dinner := cleanOptions(req.DinnerOptions)
	if len(lunch) == 0 && len(dinner) == 0 {
		return nil, fmt.Errorf(
			"set menu: at least one lunch or dinner option is required: %w",
			core.ErrInvalidInput,
		)
	}

	m := &Menu{
		Date:          req.MenuDate,
		LunchOptions:  lunch,
		DinnerOptions: dinner,
		SetByUserID:   &setBy,
	}

	if err := s.repo.Upsert(ctx, m); err != nil {
		core.SetSpanError(span, err)
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(
			UpdatedTitle,
			fmt.Sprintf("The meal menu for %s has been set.", m.Date),
		)
	}

	return m, nil
}

func (s *Service) ListRange(ctx context.Context, from, to core.Date) ([]Menu, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, fmt.Errorf("list menus: from must not be after to: %w", core.ErrInvalidInput)
	}
	if to.After(from.AddDays(maxRangeDays - 1)) {
		return nil, fmt.Errorf(
			"list menus: range is limited to %d days: %w",
			maxRangeDays,
			core.ErrInvalidInput,
		)
	}

	return s.repo.ListRange(ctx, from, to)
}
