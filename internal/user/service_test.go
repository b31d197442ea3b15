// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/messhall/internal/auth"
	"github.com/carterperez-dev/messhall/internal/core"
)

type fakeRepo struct {
	users map[string]*User
}

func newFakeRepo(users ...User) *fakeRepo {
	f := &fakeRepo{users: map[string]*User{}}
	for i := range users {
		u := users[i]
		f.users[u.ID] = &u
	}
	return f
}

func (f *fakeRepo) find(id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return u, nil
}

func (f *fakeRepo) Create(_ context.Context, user *User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	user.IsMessActive = true
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, err := f.find(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeRepo) Update(_ context.Context, user *User) error {
	if _, err := f.find(user.ID); err != nil {
		return err
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, err := f.find(id)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) IncrementTokenVersion(_ context.Context, id string) error {
	u, err := f.find(id)
	if err != nil {
		return err
	}
	u.TokenVersion++
	return nil
}

func (f *fakeRepo) Activate(_ context.Context, id string) error {
	u, err := f.find(id)
	if err != nil {
		return err
	}
	u.IsActive = true
	return nil
}

func (f *fakeRepo) SetMessStatus(_ context.Context, id string, active bool) (*User, error) {
	u, err := f.find(id)
	if err != nil {
		return nil, err
	}
	u.IsMessActive = active
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) SetPushToken(_ context.Context, id, token string) error {
	u, err := f.find(id)
	if err != nil {
		return err
	}
	u.PushToken = &token
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, err := f.find(id); err != nil {
		return err
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ ListUsersParams) ([]User, int, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (f *fakeRepo) ActivePushTokens(_ context.Context) ([]string, error) {
	var tokens []string
	for _, u := range f.users {
		if u.IsActive && u.IsMessActive && u.PushToken != nil {
			tokens = append(tokens, *u.PushToken)
		}
	}
	return tokens, nil
}

func seeded() *fakeRepo {
	return newFakeRepo(
		User{ID: "s-1", Name: "Asha", Email: "asha@hostel.test", RoomNumber: 101, Role: RoleStudent, IsActive: true, IsMessActive: true},
		User{ID: "s-2", Name: "Bilal", Email: "bilal@hostel.test", RoomNumber: 204, Role: RoleStudent, IsActive: true},
		User{ID: "mc-1", Name: "Chen", Email: "chen@hostel.test", RoomNumber: 1, Role: RoleMessCommittee, IsActive: true, IsMessActive: true},
		User{ID: "mc-2", Name: "Dana", Email: "dana@hostel.test", RoomNumber: 2, Role: RoleMessCommittee, IsActive: true, IsMessActive: true},
	)
}

func TestService_CreateNormalizesAndDefaults(t *testing.T) {
	svc := NewService(seeded())

	info, err := svc.Create(context.Background(), auth.NewAccount{
		Name:         "  Esha ",
		Email:        " Esha@Hostel.TEST ",
		PasswordHash: "hash",
		RoomNumber:   310,
	})
	require.NoError(t, err)
	assert.Equal(t, "esha@hostel.test", info.Email)
	assert.Equal(t, "Esha", info.Name)
	assert.Equal(t, RoleStudent, info.Role)
	assert.False(t, info.IsActive)

	_, err = svc.Create(context.Background(), auth.NewAccount{Email: "asha@hostel.test"})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	found, err := svc.GetByEmail(context.Background(), "ESHA@hostel.test")
	require.NoError(t, err)
	assert.Equal(t, info.ID, found.ID)
}

func TestService_IsMessActive(t *testing.T) {
	svc := NewService(seeded())

	active, err := svc.IsMessActive(context.Background(), "s-1")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = svc.IsMessActive(context.Background(), "s-2")
	require.NoError(t, err)
	assert.False(t, active)

	_, err = svc.IsMessActive(context.Background(), "nobody")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_ActivePushTokens(t *testing.T) {
	repo := seeded()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.RegisterPushToken(ctx, "s-1", " tok-asha "))
	require.NoError(t, svc.RegisterPushToken(ctx, "s-2", "tok-bilal"))

	tokens, err := svc.ActivePushTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-asha"}, tokens)

	assert.ErrorIs(t, svc.RegisterPushToken(ctx, "", "tok"), core.ErrUnauthorized)
}

func TestService_UpdateMe(t *testing.T) {
	svc := NewService(seeded())
	name, room := "Asha K", 102

	u, err := svc.UpdateMe(context.Background(), "s-1", UpdateUserRequest{Name: &name, RoomNumber: &room})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", u.Name)
	assert.Equal(t, 102, u.RoomNumber)
}

func TestService_UpdateUserRole(t *testing.T) {
	svc := NewService(seeded())

	u, err := svc.UpdateUserRole(context.Background(), "s-1", RoleConvenor)
	require.NoError(t, err)
	assert.Equal(t, RoleConvenor, u.Role)

	_, err = svc.UpdateUserRole(context.Background(), "s-1", "admin")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestService_DeleteUser(t *testing.T) {
	repo := seeded()
	svc := NewService(repo)
	ctx := context.Background()

	err := svc.DeleteUser(ctx, "mc-1", "mc-1")
	assert.ErrorIs(t, err, ErrDeleteSelf)
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.DeleteUser(ctx, "mc-1", "mc-2")
	assert.ErrorIs(t, err, ErrDeleteCommittee)

	assert.ErrorIs(t, svc.DeleteUser(ctx, "mc-1", "ghost"), core.ErrNotFound)

	require.NoError(t, svc.DeleteUser(ctx, "mc-1", "s-2"))
	assert.NotContains(t, repo.users, "s-2")
}
