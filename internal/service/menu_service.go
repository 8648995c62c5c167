package service

import (
	"context"
	"strings"

	"restaurantadmin/internal/apperr"
	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/models"
)

type CategoryStore interface {
	Create(ctx context.Context, category models.Category) (models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (models.Category, error)
	Update(ctx context.Context, category models.Category) (models.Category, error)
	Delete(ctx context.Context, id string) error
}

type MenuItemStore interface {
	Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	List(ctx context.Context) ([]models.MenuItem, error)
	GetByID(ctx context.Context, id string) (models.MenuItem, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error)
	Update(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrCategoryFieldsRequired = apperr.BadRequest("categoryName and restaurant are required")
	ErrCategoryNotFound       = apperr.NotFound("Category not found")
	ErrMenuFieldsRequired     = apperr.BadRequest("Name, price and category are required")
	ErrMenuPriceNegative      = apperr.BadRequest("Price cannot be negative")
	ErrMenuItemNotFound       = apperr.NotFound("Menu item not found")
)

type CategoryInput struct {
	Name       *string
	Restaurant *string
}

type MenuItemInput struct {
	Name        *string
	Price       *float64
	Category    *string
	Description *string
	IsAvailable *bool
}

type MenuService struct {
	categories CategoryStore
	items      MenuItemStore
}

func NewMenuService(categories CategoryStore, items MenuItemStore) *MenuService {
	return &MenuService{categories: categories, items: items}
}

func (s *MenuService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *MenuService) CreateCategory(ctx context.Context, input CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(deref(input.Name))
	if name == "" || deref(input.Restaurant) == "" {
		return models.Category{}, ErrCategoryFieldsRequired
	}
	restaurantID, err := ids.Parse(*input.Restaurant)
	if err != nil {
		return models.Category{}, err
	}
	return s.categories.Create(ctx, models.Category{ID: ids.New(), Name: name, RestaurantID: restaurantID})
}

func (s *MenuService) UpdateCategory(ctx context.Context, rawID string, input CategoryInput) (models.Category, error) {
	id, err := ids.Parse(rawID)
	if err != nil {
		return models.Category{}, err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return models.Category{}, notFound(err, ErrCategoryNotFound)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return models.Category{}, ErrCategoryFieldsRequired
		}
		category.Name = name
	}
	if input.Restaurant != nil {
		restaurantID, err := ids.Parse(*input.Restaurant)
		if err != nil {
			return models.Category{}, err
		}
		category.RestaurantID = restaurantID
	}

	updated, err := s.categories.Update(ctx, category)
	return updated, notFound(err, ErrCategoryNotFound)
}

func (s *MenuService) DeleteCategory(ctx context.Context, rawID string) error {
	id, err := ids.Parse(rawID)
	if err != nil {
		return err
	}
	return notFound(s.categories.Delete(ctx, id), ErrCategoryNotFound)
}

func (s *MenuService) Items(ctx context.Context) ([]models.MenuItem, error) {
	return s.items.List(ctx)
}

func (s *MenuService) CreateItem(ctx context.Context, input MenuItemInput) (models.MenuItem, error) {
	name := strings.TrimSpace(deref(input.Name))
	category := strings.TrimSpace(deref(input.Category))
	if name == "" || category == "" || input.Price == nil {
		return models.MenuItem{}, ErrMenuFieldsRequired
	}
	if *input.Price < 0 {
		return models.MenuItem{}, ErrMenuPriceNegative
	}

	item := models.MenuItem{
		ID:          ids.New(),
		Name:        name,
		Price:       *input.Price,
		Category:    category,
		Description: strings.TrimSpace(deref(input.Description)),
		IsAvailable: true,
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	return s.items.Create(ctx, item)
}

func (s *MenuService) UpdateItem(ctx context.Context, rawID string, input MenuItemInput) (models.MenuItem, error) {
	id, err := ids.Parse(rawID)
	if err != nil {
		return models.MenuItem{}, err
	}
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return models.MenuItem{}, notFound(err, ErrMenuItemNotFound)
	}

	if input.Name != nil {
		if item.Name = strings.TrimSpace(*input.Name); item.Name == "" {
			return models.MenuItem{}, ErrMenuFieldsRequired
		}
	}
	if input.Category != nil {
		if item.Category = strings.TrimSpace(*input.Category); item.Category == "" {
			return models.MenuItem{}, ErrMenuFieldsRequired
		}
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return models.MenuItem{}, ErrMenuPriceNegative
		}
		item.Price = *input.Price
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}

	updated, err := s.items.Update(ctx, item)
	return updated, notFound(err, ErrMenuItemNotFound)
}

func (s *MenuService) DeleteItem(ctx context.Context, rawID string) error {
	id, err := ids.Parse(rawID)
	if err != nil {
		return err
	}
	return notFound(s.items.Delete(ctx, id), ErrMenuItemNotFound)
}
