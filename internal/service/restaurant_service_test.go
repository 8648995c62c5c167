package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/models"
)

func seedUser(t *testing.T, users *memUsers, name, email string) models.User {
	t.Helper()
	u, err := users.Create(context.Background(), models.User{ID: ids.New(), Name: name, Email: email, Role: models.UserRoleUser})
	require.NoError(t, err)
	return u
}

func TestCreateRestaurantChecksOwners(t *testing.T) {
	users := newMemUsers()
	owner := seedUser(t, users, "Owner", "o@x.com")
	svc := NewRestaurantService(newMemRestaurants(users), users)
	ctx := context.Background()

	_, err := svc.Create(ctx, RestaurantInput{Name: ptr("Bistro"), Owners: []string{owner.ID, ids.New()}})
	require.ErrorIs(t, err, ErrOwnersMissing)

	_, err = svc.Create(ctx, RestaurantInput{Name: ptr("Bistro")})
	require.ErrorIs(t, err, ErrOwnersRequired)

	_, err = svc.Create(ctx, RestaurantInput{Owners: []string{owner.ID}})
	require.ErrorIs(t, err, ErrRestaurantNameEmpty)

	created, err := svc.Create(ctx, RestaurantInput{Name: ptr(" Bistro "), Owners: []string{owner.ID, owner.ID}})
	require.NoError(t, err)
	require.Equal(t, "Bistro", created.Name)
	require.Equal(t, []models.Owner{{ID: owner.ID, Name: "Owner", Email: "o@x.com"}}, created.Owners)
}

func TestRestaurantLookup(t *testing.T) {
	users := newMemUsers()
	owner := seedUser(t, users, "Owner", "o@x.com")
	other := seedUser(t, users, "Other", "p@x.com")
	svc := NewRestaurantService(newMemRestaurants(users), users)
	ctx := context.Background()

	created, err := svc.Create(ctx, RestaurantInput{Name: ptr("Bistro"), Owners: []string{owner.ID}})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = svc.Get(ctx, "not-an-id")
	require.ErrorIs(t, err, ids.ErrInvalid)
	_, err = svc.Get(ctx, ids.New())
	require.ErrorIs(t, err, ErrRestaurantNotFound)

	mine, err := svc.Mine(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = svc.Mine(ctx, other.ID)
	require.ErrorIs(t, err, ErrNoOwnedRestaurants)
}

func TestUpdateAndDeleteRestaurant(t *testing.T) {
	users := newMemUsers()
	owner := seedUser(t, users, "Owner", "o@x.com")
	other := seedUser(t, users, "Other", "p@x.com")
	svc := NewRestaurantService(newMemRestaurants(users), users)
	ctx := context.Background()

	created, err := svc.Create(ctx, RestaurantInput{Name: ptr("Bistro"), Owners: []string{owner.ID}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, RestaurantInput{Phone: ptr("555-0100")})
	require.NoError(t, err)
	require.Equal(t, "555-0100", updated.Phone)
	require.Len(t, updated.Owners, 1)

	updated, err = svc.Update(ctx, created.ID, RestaurantInput{Owners: []string{other.ID}})
	require.NoError(t, err)
	require.Equal(t, other.ID, updated.Owners[0].ID)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrRestaurantNotFound)
}
