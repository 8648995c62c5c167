package service

import (
	"context"
	"errors"
	"time"

	"restaurantadmin/internal/apperr"
	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/models"
	"restaurantadmin/internal/repository"
)

type TableStore interface {
	Create(ctx context.Context, table models.Table) (models.Table, error)
	List(ctx context.Context, restaurantID string) ([]models.Table, error)
	GetByID(ctx context.Context, id string) (models.Table, error)
	Update(ctx context.Context, table models.Table) (models.Table, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrTableFieldsRequired = apperr.BadRequest("Number, capacity, and restaurant ID are required.")
	ErrTableNumberTaken    = apperr.Conflict("Table with this number already exists for this restaurant.")
	ErrTableNotFound       = apperr.NotFound("Table not found.")
	ErrInvalidTableStatus  = apperr.BadRequest("Status must be one of available, occupied or reserved.")
	ErrInvalidTableSize    = apperr.BadRequest("Number and capacity must be positive.")
)

type TableInput struct {
	Number       *int
	Capacity     *int
	Status       *models.TableStatus
	LastOccupied *time.Time
	Restaurant   *string
}

type TableService struct {
	tables TableStore
	now    func() time.Time
}

func NewTableService(tables TableStore) *TableService {
	return &TableService{tables: tables, now: time.Now}
}

func (s *TableService) Create(ctx context.Context, input TableInput) (models.Table, error) {
	if input.Number == nil || input.Capacity == nil || deref(input.Restaurant) == "" {
		return models.Table{}, ErrTableFieldsRequired
	}
	restaurantID, err := ids.Parse(*input.Restaurant)
	if err != nil {
		return models.Table{}, err
	}

	table := models.Table{
		ID:           ids.New(),
		Number:       *input.Number,
		Capacity:     *input.Capacity,
		Status:       models.TableStatusAvailable,
		LastOccupied: input.LastOccupied,
		RestaurantID: restaurantID,
	}
	if input.Status != nil && *input.Status != "" {
		table.Status = *input.Status
	}
	if err := validateTable(table); err != nil {
		return models.Table{}, err
	}

	created, err := s.tables.Create(ctx, table)
	return created, tableConflict(err)
}

// List returns every table, or the tables of one restaurant when rawRestaurant is set.
func (s *TableService) List(ctx context.Context, rawRestaurant string) ([]models.Table, error) {
	restaurantID := ""
	if rawRestaurant != "" {
		parsed, err := ids.Parse(rawRestaurant)
		if err != nil {
			return nil, err
		}
		restaurantID = parsed
	}
	return s.tables.List(ctx, restaurantID)
}

// Update applies the non-nil fields. Moving a table to occupied stamps
// LastOccupied unless the caller supplies one.
func (s *TableService) Update(ctx context.Context, rawID string, input TableInput) (models.Table, error) {
	id, err := ids.Parse(rawID)
	if err != nil {
		return models.Table{}, err
	}
	table, err := s.tables.GetByID(ctx, id)
	if err != nil {
		return models.Table{}, notFound(err, ErrTableNotFound)
	}

	if input.Number != nil {
		table.Number = *input.Number
	}
	if input.Capacity != nil {
		table.Capacity = *input.Capacity
	}
	if input.Restaurant != nil {
		restaurantID, err := ids.Parse(*input.Restaurant)
		if err != nil {
			return models.Table{}, err
		}
		table.RestaurantID = restaurantID
	}
	if input.Status != nil {
		if *input.Status == models.TableStatusOccupied && table.Status != models.TableStatusOccupied && input.LastOccupied == nil {
			now := s.now().UTC()
			table.LastOccupied = &now
		}
		table.Status = *input.Status
	}
	if input.LastOccupied != nil {
		table.LastOccupied = input.LastOccupied
	}
	if err := validateTable(table); err != nil {
		return models.Table{}, err
	}

	updated, err := s.tables.Update(ctx, table)
	if err != nil {
		return models.Table{}, notFound(tableConflict(err), ErrTableNotFound)
	}
	return updated, nil
}

func (s *TableService) Delete(ctx context.Context, rawID string) error {
	id, err := ids.Parse(rawID)
	if err != nil {
		return err
	}
	return notFound(s.tables.Delete(ctx, id), ErrTableNotFound)
}

func validateTable(table models.Table) error {
	if table.Number <= 0 || table.Capacity <= 0 {
		return ErrInvalidTableSize
	}
	if !table.Status.Valid() {
		return ErrInvalidTableStatus
	}
	return nil
}

func tableConflict(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrTableNumberTaken
	}
	return err
}
