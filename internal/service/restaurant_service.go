package service

import (
	"context"
	"strings"

	"restaurantadmin/internal/apperr"
	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/models"
)

type RestaurantStore interface {
	Create(ctx context.Context, restaurant models.Restaurant) (models.Restaurant, error)
	List(ctx context.Context) ([]models.Restaurant, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Restaurant, error)
	GetByID(ctx context.Context, id string) (models.Restaurant, error)
	Update(ctx context.Context, restaurant models.Restaurant) (models.Restaurant, error)
	Delete(ctx context.Context, id string) error
}

// OwnerCounter reports how many of the given user ids exist.
type OwnerCounter interface {
	CountByIDs(ctx context.Context, ids []string) (int, error)
}

var (
	ErrOwnersMissing       = apperr.BadRequest("Some owners do not exist.")
	ErrNoOwnedRestaurants  = apperr.NotFound("No restaurants found for this user")
	ErrRestaurantNotFound  = apperr.NotFound("Restaurant not found")
	ErrRestaurantNameEmpty = apperr.BadRequest("Restaurant name is required")
	ErrOwnersRequired      = apperr.BadRequest("At least one owner is required")
)

type RestaurantInput struct {
	Name    *string
	Address *string
	Phone   *string
	Owners  []string
}

type RestaurantService struct {
	restaurants RestaurantStore
	users       OwnerCounter
}

func NewRestaurantService(restaurants RestaurantStore, users OwnerCounter) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, users: users}
}

func (s *RestaurantService) Create(ctx context.Context, input RestaurantInput) (models.Restaurant, error) {
	name := strings.TrimSpace(deref(input.Name))
	if name == "" {
		return models.Restaurant{}, ErrRestaurantNameEmpty
	}
	if len(input.Owners) == 0 {
		return models.Restaurant{}, ErrOwnersRequired
	}
	owners, err := s.checkOwners(ctx, input.Owners)
	if err != nil {
		return models.Restaurant{}, err
	}

	return s.restaurants.Create(ctx, models.Restaurant{
		ID:      ids.New(),
		Name:    name,
		Address: strings.TrimSpace(deref(input.Address)),
		Phone:   strings.TrimSpace(deref(input.Phone)),
		Owners:  owners,
	})
}

func (s *RestaurantService) List(ctx context.Context) ([]models.Restaurant, error) {
	return s.restaurants.List(ctx)
}

func (s *RestaurantService) Get(ctx context.Context, rawID string) (models.Restaurant, error) {
	id, err := ids.Parse(rawID)
	if err != nil {
		return models.Restaurant{}, err
	}
	restaurant, err := s.restaurants.GetByID(ctx, id)
	return restaurant, notFound(err, ErrRestaurantNotFound)
}

// Update applies the non-nil fields. A non-nil owner list replaces the owners.
func (s *RestaurantService) Update(ctx context.Context, rawID string, input RestaurantInput) (models.Restaurant, error) {
	restaurant, err := s.Get(ctx, rawID)
	if err != nil {
		return models.Restaurant{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return models.Restaurant{}, ErrRestaurantNameEmpty
		}
		restaurant.Name = name
	}
	if input.Address != nil {
		restaurant.Address = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		restaurant.Phone = strings.TrimSpace(*input.Phone)
	}
	restaurant.Owners = nil
	if input.Owners != nil {
		if len(input.Owners) == 0 {
			return models.Restaurant{}, ErrOwnersRequired
		}
		owners, err := s.checkOwners(ctx, input.Owners)
		if err != nil {
			return models.Restaurant{}, err
		}
		restaurant.Owners = owners
	}

	updated, err := s.restaurants.Update(ctx, restaurant)
	return updated, notFound(err, ErrRestaurantNotFound)
}

func (s *RestaurantService) Delete(ctx context.Context, rawID string) error {
	id, err := ids.Parse(rawID)
	if err != nil {
		return err
	}
	return notFound(s.restaurants.Delete(ctx, id), ErrRestaurantNotFound)
}

// Mine lists the restaurants owned by userID.
func (s *RestaurantService) Mine(ctx context.Context, userID string) ([]models.Restaurant, error) {
	restaurants, err := s.restaurants.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return nil, ErrNoOwnedRestaurants
	}
	return restaurants, nil
}

func (s *RestaurantService) checkOwners(ctx context.Context, raw []string) ([]models.Owner, error) {
	parsed, err := ids.ParseAll(raw)
	if err != nil {
		return nil, err
	}
	unique := dedupe(parsed)
	count, err := s.users.CountByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if count != len(unique) {
		return nil, ErrOwnersMissing
	}

	owners := make([]models.Owner, len(unique))
	for i, id := range unique {
		owners[i] = models.Owner{ID: id}
	}
	return owners, nil
}
