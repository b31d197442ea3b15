// AngelaMos | 2026
// service.go

package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/messhall/internal/core"
	"github.com/carterperez-dev/messhall/internal/menu"
)

const messInactiveReason = "Your Mess is off!! Please contact mess committee"

// MessStatus reports whether a user may currently book meals.
type MessStatus interface {
	IsMessActive(ctx context.Context, userID string) (bool, error)
}

type MenuLocker interface {
	LockByDate(ctx context.Context, date core.Date) (*menu.Menu, error)
}

// Stores are the repositories a write transaction works with.
type Stores struct {
	Bookings Repository
	Menus    MenuLocker
}

type StoreFactory func(db core.DBTX) Stores

func NewStores(db core.DBTX) Stores {
	return Stores{
		Bookings: NewRepository(db),
		Menus:    menu.NewRepository(db),
	}
}

type Service struct {
	db     core.Transactor
	stores StoreFactory
	reads  Repository
	users  MessStatus
	window Window
	clock  core.Clock
}

func NewService(
	db core.Transactor,
	stores StoreFactory,
	reads Repository,
	users MessStatus,
	window Window,
	clock core.Clock,
) *Service {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Service{
		db:     db,
		stores: stores,
		reads:  reads,
		users:  users,
		window: window,
		clock:  clock,
	}
}

// Submit creates or replaces the caller's booking for date. The bool result
// is true when a new row was created.
func (s *Service) Submit(
	ctx context.Context,
	userID string,
	date core.Date,
	lunch, dinner []string,
) (*Booking, bool, error) {
	ctx, span := core.StartSpan(ctx, "booking.Submit",
		attribute.String("booking.date", date.String()),
	)
	defer span.End()

	lunch = normalizePick(lunch)
	dinner = normalizePick(dinner)

	if err := s.ensureMessActive(ctx, userID); err != nil {
		return nil, false, err
	}

	if err := s.window.Check(s.clock.Now(), date, len(lunch) > 0); err != nil {
		return nil, false, err
	}

	b := &Booking{
		ID:         uuid.New().String(),
		UserID:     userID,
		Date:       date,
		LunchPick:  lunch,
		DinnerPick: dinner,
	}

	var inserted bool
	err := s.db.InTx(ctx, func(tx core.DBTX) error {
		st := s.stores(tx)

		m, err := lockMenu(ctx, st.Menus, date)
		if err != nil {
			return err
		}

		if bad := m.InvalidLunch(lunch); len(bad) > 0 {
			return invalidSelection("lunch", bad)
		}
		if bad := m.InvalidDinner(dinner); len(bad) > 0 {
			return invalidSelection("dinner", bad)
		}

		inserted, err = st.Bookings.Upsert(ctx, b)
		return err
	})
	if err != nil {
		core.SetSpanError(span, err)
		return nil, false, err
	}

	span.SetAttributes(attribute.Bool("booking.inserted", inserted))
	return b, inserted, nil
}

// UpdateLunch replaces only the lunch selection of an existing booking.
func (s *Service) UpdateLunch(
	ctx context.Context,
	userID string,
	date core.Date,
	lunch []string,
) (*Booking, error) {
	return s.updateMeal(ctx, "lunch", userID, date, normalizePick(lunch))
}

// UpdateDinner replaces only the dinner selection of an existing booking.
func (s *Service) UpdateDinner(
	ctx context.Context,
	userID string,
	date core.Date,
	dinner []string,
) (*Booking, error) {
	return s.updateMeal(ctx, "dinner", userID, date, normalizePick(dinner))
}

func (s *Service) updateMeal(
	ctx context.Context,
	meal, userID string,
	date core.Date,
	pick []string,
) (*Booking, error) {
	ctx, span := core.StartSpan(ctx, "booking.Update",
		attribute.String("booking.date", date.String()),
		attribute.String("booking.meal", meal),
	)
	defer span.End()

	if err := s.ensureMessActive(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.window.Check(s.clock.Now(), date, meal == "lunch"); err != nil {
		return nil, err
	}

	var updated *Booking
	err := s.db.InTx(ctx, func(tx core.DBTX) error {
		st := s.stores(tx)

		m, err := lockMenu(ctx, st.Menus, date)
		if err != nil {
			return err
		}

		if meal == "lunch" {
			if bad := m.InvalidLunch(pick); len(bad) > 0 {
				return invalidSelection(meal, bad)
			}
			updated, err = st.Bookings.UpdateLunch(ctx, userID, date, pick)
		} else {
			if bad := m.InvalidDinner(pick); len(bad) > 0 {
				return invalidSelection(meal, bad)
			}
			updated, err = st.Bookings.UpdateDinner(ctx, userID, date, pick)
		}

		if errors.Is(err, core.ErrNotFound) {
			return reject(core.ErrNotFound, "No booking found for %s.", date)
		}
		return err
	})
	if err != nil {
		core.SetSpanError(span, err)
		return nil, err
	}

	return updated, nil
}

func (s *Service) Cancel(ctx context.Context, userID string, date core.Date) error {
	if err := s.window.Check(s.clock.Now(), date, false); err != nil {
		return err
	}

	err := s.reads.Delete(ctx, userID, date)
	if errors.Is(err, core.ErrNotFound) {
		return reject(core.ErrNotFound, "You do not have a booking for %s to cancel.", date)
	}
	return err
}

// ListMine returns the caller's bookings, newest date first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]Booking, error) {
	return s.reads.ListByUser(ctx, userID)
}

func (s *Service) MyToday(ctx context.Context, userID string) (*Booking, error) {
	today := s.window.Today(s.clock.Now())

	b, err := s.reads.GetByUserAndDate(ctx, userID, today)
	if errors.Is(err, core.ErrNotFound) {
		return nil, reject(core.ErrNotFound, "No booking found for %s.", today)
	}
	return b, err
}

func (s *Service) ensureMessActive(ctx context.Context, userID string) error {
	active, err := s.users.IsMessActive(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("user %s: %w", userID, core.ErrUnauthorized)
	}
	if err != nil {
		return fmt.Errorf("check mess status: %w", err)
	}
	if !active {
		return reject(ErrMessInactive, messInactiveReason)
	}
	return nil
}

func lockMenu(ctx context.Context, menus MenuLocker, date core.Date) (*menu.Menu, error) {
	m, err := menus.LockByDate(ctx, date)
	if errors.Is(err, core.ErrNotFound) {
		return nil, reject(ErrMenuNotSet, "The menu for %s has not been set yet.", date)
	}
	return m, err
}
