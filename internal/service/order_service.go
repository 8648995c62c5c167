package service

import (
	"context"
	"math"
	"time"

	"restaurantadmin/internal/apperr"
	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/models"
	"restaurantadmin/internal/repository"
)

type OrderStore interface {
	Create(ctx context.Context, order models.Order) (models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
	CompletedByMonth(ctx context.Context, restaurantID string, year int) ([]repository.MonthTotal, error)
}

// MenuLookup resolves menu item ids to their current rows.
type MenuLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error)
}

var (
	ErrOrderFieldsRequired = apperr.BadRequest("Missing or invalid required fields.")
	ErrOrderItemsInvalid   = apperr.BadRequest("One or more items are invalid.")
	ErrOrderNotFound       = apperr.NotFound("Order not found.")
	ErrInvalidOrderStatus  = apperr.BadRequest("Status must be one of pending, completed or cancelled.")
	ErrInvalidRevenueYear  = apperr.BadRequest("Year must be a four digit number.")
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type OrderInput struct {
	Table      string
	Items      []string
	Status     models.OrderStatus
	Restaurant string
}

type OrderService struct {
	orders OrderStore
	menu   MenuLookup
	now    func() time.Time
}

func NewOrderService(orders OrderStore, menu MenuLookup) *OrderService {
	return &OrderService{orders: orders, menu: menu, now: time.Now}
}

// Create prices every referenced item at its current menu price. Repeated ids
// are charged once per occurrence. An unknown status falls back to pending.
func (s *OrderService) Create(ctx context.Context, input OrderInput) (models.Order, error) {
	if input.Table == "" || input.Restaurant == "" || len(input.Items) == 0 {
		return models.Order{}, ErrOrderFieldsRequired
	}
	tableID, err := ids.Parse(input.Table)
	if err != nil {
		return models.Order{}, err
	}
	restaurantID, err := ids.Parse(input.Restaurant)
	if err != nil {
		return models.Order{}, err
	}
	itemIDs, err := ids.ParseAll(input.Items)
	if err != nil {
		return models.Order{}, ErrOrderItemsInvalid
	}

	found, err := s.menu.FindByIDs(ctx, dedupe(itemIDs))
	if err != nil {
		return models.Order{}, err
	}
	byID := make(map[string]models.MenuItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	lines := make([]models.OrderItem, 0, len(itemIDs))
	var total float64
	for _, id := range itemIDs {
		item, ok := byID[id]
		if !ok {
			return models.Order{}, ErrOrderItemsInvalid
		}
		lines = append(lines, models.OrderItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Category:   item.Category,
		})
		total += item.Price
	}

	status := input.Status
	if !status.Valid() {
		status = models.OrderStatusPending
	}

	return s.orders.Create(ctx, models.Order{
		ID:           ids.New(),
		Table:        models.TableRef{ID: tableID},
		RestaurantID: restaurantID,
		Items:        lines,
		Total:        roundCents(total),
		Status:       status,
		Time:         s.now().UTC(),
	})
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) ListByRestaurant(ctx context.Context, rawRestaurant string) ([]models.Order, error) {
	restaurantID, err := ids.Parse(rawRestaurant)
	if err != nil {
		return nil, err
	}
	return s.orders.ListByRestaurant(ctx, restaurantID)
}

func (s *OrderService) UpdateStatus(ctx context.Context, rawID string, status models.OrderStatus) (models.Order, error) {
	id, err := ids.Parse(rawID)
	if err != nil {
		return models.Order{}, err
	}
	if !status.Valid() {
		return models.Order{}, ErrInvalidOrderStatus
	}
	order, err := s.orders.UpdateStatus(ctx, id, status)
	return order, notFound(err, ErrOrderNotFound)
}

// Revenue summarises completed orders of a restaurant. Year 0 covers all years.
// MonthlyRevenue always has twelve entries, January first.
func (s *OrderService) Revenue(ctx context.Context, rawRestaurant string, year int) (models.RevenueSummary, error) {
	restaurantID, err := ids.Parse(rawRestaurant)
	if err != nil {
		return models.RevenueSummary{}, err
	}
	if year != 0 && (year < 1000 || year > 9999) {
		return models.RevenueSummary{}, ErrInvalidRevenueYear
	}

	totals, err := s.orders.CompletedByMonth(ctx, restaurantID, year)
	if err != nil {
		return models.RevenueSummary{}, err
	}

	summary := models.RevenueSummary{MonthlyRevenue: make([]models.MonthlyRevenue, 12)}
	for i, name := range monthNames {
		summary.MonthlyRevenue[i] = models.MonthlyRevenue{Month: name}
	}
	for _, t := range totals {
		if t.Month < 1 || t.Month > 12 {
			continue
		}
		summary.MonthlyRevenue[t.Month-1].Revenue = roundCents(t.Revenue)
		summary.TotalRevenue += t.Revenue
		summary.TotalOrders += t.Orders
	}
	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = roundCents(summary.TotalRevenue / float64(summary.TotalOrders))
	}
	summary.TotalRevenue = roundCents(summary.TotalRevenue)
	return summary, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
