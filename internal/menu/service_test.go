// AngelaMos | 2026
// service_test.go

package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/messhall/internal/core"
)

type fakeRepo struct {
	menus    map[string]Menu
	upserted []Menu
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{menus: map[string]Menu{}}
}

func (f *fakeRepo) Upsert(_ context.Context, m *Menu) error {
	f.upserted = append(f.upserted, *m)
	f.menus[m.Date.String()] = *m
	return nil
}

func (f *fakeRepo) GetByDate(_ context.Context, date core.Date) (*Menu, error) {
	m, ok := f.menus[date.String()]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &m, nil
}

func (f *fakeRepo) LockByDate(ctx context.Context, date core.Date) (*Menu, error) {
	return f.GetByDate(ctx, date)
}

func (f *fakeRepo) ListRange(_ context.Context, from, to core.Date) ([]Menu, error) {
	var out []Menu
	for d := from; !d.After(to); d = d.AddDays(1) {
		if m, ok := f.menus[d.String()]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeBroadcaster struct {
	titles, bodies []string
}

func (f *fakeBroadcaster) Broadcast(title, body string) bool {
	f.titles = append(f.titles, title)
	f.bodies = append(f.bodies, body)
	return true
}

func TestService_SetCleansOptionsAndBroadcasts(t *testing.T) {
	repo := newFakeRepo()
	b := &fakeBroadcaster{}
	svc := NewService(repo, b)

	m, err := svc.Set(context.Background(), SetMenuRequest{
		MenuDate:      core.MustParseDate("2025-06-01"),
		LunchOptions:  []string{" veg ", "nonveg", "veg", ""},
		DinnerOptions: []string{"veg"},
	}, "u-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"veg", "nonveg"}, []string(m.LunchOptions))
	require.NotNil(t, m.SetByUserID)
	assert.Equal(t, "u-1", *m.SetByUserID)

	require.Len(t, b.titles, 1)
	assert.Equal(t, UpdatedTitle, b.titles[0])
	assert.Equal(t, "The meal menu for 2025-06-01 has been set.", b.bodies[0])
}

func TestService_SetReplacesPriorOptions(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	date := core.MustParseDate("2025-06-01")

	_, err := svc.Set(context.Background(), SetMenuRequest{MenuDate: date, LunchOptions: []string{"veg"}}, "u-1")
	require.NoError(t, err)
	_, err = svc.Set(context.Background(), SetMenuRequest{MenuDate: date, DinnerOptions: []string{"roti"}}, "u-2")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), date)
	require.NoError(t, err)
	assert.Empty(t, got.LunchOptions)
	assert.Equal(t, []string{"roti"}, []string(got.DinnerOptions))
}

func TestService_SetRejectsEmptyMenu(t *testing.T) {
	repo := newFakeRepo()
	b := &fakeBroadcaster{}
	svc := NewService(repo, b)

	_, err := svc.Set(context.Background(), SetMenuRequest{
		MenuDate:     core.MustParseDate("2025-06-01"),
		LunchOptions: []string{"  "},
	}, "u-1")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, repo.upserted)
	assert.Empty(t, b.titles)
}

func TestService_SetRequiresDate(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	_, err := svc.Set(context.Background(), SetMenuRequest{LunchOptions: []string{"veg"}}, "u-1")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestService_GetMissing(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	_, err := svc.Get(context.Background(), core.MustParseDate("2025-06-01"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_ListRangeBounds(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	from := core.MustParseDate("2025-06-01")

	_, err := svc.ListRange(context.Background(), from, from.AddDays(-1))
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.ListRange(context.Background(), from, from.AddDays(maxRangeDays))
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.ListRange(context.Background(), from, from.AddDays(maxRangeDays-1))
	assert.NoError(t, err)
}

func TestMenu_InvalidPicks(t *testing.T) {
	m := &Menu{LunchOptions: []string{"veg", "nonveg"}, DinnerOptions: []string{"veg"}}

	assert.Empty(t, m.InvalidLunch(nil))
	assert.Empty(t, m.InvalidLunch([]string{"veg", "nonveg"}))
	assert.Equal(t, []string{"fish"}, m.InvalidLunch([]string{"veg", "fish"}))
	assert.Equal(t, []string{"nonveg"}, m.InvalidDinner([]string{"nonveg"}))
}
