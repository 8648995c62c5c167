package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/models"
	"restaurantadmin/internal/repository"
)

func TestCreateOrderTotalsItems(t *testing.T) {
	m1 := models.MenuItem{ID: ids.New(), Name: "Soup", Price: 10, Category: "Starters"}
	m2 := models.MenuItem{ID: ids.New(), Name: "Steak", Price: 15, Category: "Mains"}
	orders := newMemOrders()
	svc := NewOrderService(orders, newMemMenu(m1, m2))

	order, err := svc.Create(context.Background(), OrderInput{
		Table:      ids.New(),
		Items:      []string{m1.ID, m2.ID},
		Restaurant: ids.New(),
	})
	require.NoError(t, err)
	require.Equal(t, 25.0, order.Total)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	require.Equal(t, "Steak", order.Items[1].Name)
	require.Len(t, orders.byID, 1)
}

func TestCreateOrderChargesRepeatedItems(t *testing.T) {
	m1 := models.MenuItem{ID: ids.New(), Name: "Tea", Price: 2.5}
	svc := NewOrderService(newMemOrders(), newMemMenu(m1))

	order, err := svc.Create(context.Background(), OrderInput{
		Table:      ids.New(),
		Items:      []string{m1.ID, m1.ID, m1.ID},
		Restaurant: ids.New(),
		Status:     models.OrderStatusCompleted,
	})
	require.NoError(t, err)
	require.Equal(t, 7.5, order.Total)
	require.Equal(t, models.OrderStatusCompleted, order.Status)
}

func TestCreateOrderRejectsUnknownItems(t *testing.T) {
	m1 := models.MenuItem{ID: ids.New(), Name: "Soup", Price: 10}
	orders := newMemOrders()
	svc := NewOrderService(orders, newMemMenu(m1))
	ctx := context.Background()

	_, err := svc.Create(ctx, OrderInput{Table: ids.New(), Items: []string{m1.ID, ids.New()}, Restaurant: ids.New()})
	require.ErrorIs(t, err, ErrOrderItemsInvalid)

	_, err = svc.Create(ctx, OrderInput{Table: ids.New(), Items: []string{"not-an-id"}, Restaurant: ids.New()})
	require.ErrorIs(t, err, ErrOrderItemsInvalid)
	require.Empty(t, orders.byID)
}

func TestCreateOrderRequiresFields(t *testing.T) {
	svc := NewOrderService(newMemOrders(), newMemMenu())
	ctx := context.Background()

	_, err := svc.Create(ctx, OrderInput{Table: ids.New(), Restaurant: ids.New()})
	require.ErrorIs(t, err, ErrOrderFieldsRequired)
	_, err = svc.Create(ctx, OrderInput{Items: []string{ids.New()}, Restaurant: ids.New()})
	require.ErrorIs(t, err, ErrOrderFieldsRequired)
	_, err = svc.Create(ctx, OrderInput{Table: "bad", Items: []string{ids.New()}, Restaurant: ids.New()})
	require.ErrorIs(t, err, ids.ErrInvalid)
}

func TestCreateOrderFallsBackToPending(t *testing.T) {
	m1 := models.MenuItem{ID: ids.New(), Price: 1}
	svc := NewOrderService(newMemOrders(), newMemMenu(m1))

	order, err := svc.Create(context.Background(), OrderInput{
		Table:      ids.New(),
		Items:      []string{m1.ID},
		Restaurant: ids.New(),
		Status:     "shipped",
	})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, order.Status)
}

func TestUpdateOrderStatus(t *testing.T) {
	m1 := models.MenuItem{ID: ids.New(), Price: 1}
	svc := NewOrderService(newMemOrders(), newMemMenu(m1))
	ctx := context.Background()

	order, err := svc.Create(ctx, OrderInput{Table: ids.New(), Items: []string{m1.ID}, Restaurant: ids.New()})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCompleted, updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, "shipped")
	require.ErrorIs(t, err, ErrInvalidOrderStatus)
	_, err = svc.UpdateStatus(ctx, ids.New(), models.OrderStatusCancelled)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRevenueSummary(t *testing.T) {
	orders := newMemOrders()
	orders.totals = []repository.MonthTotal{
		{Month: 1, Revenue: 100, Orders: 4},
		{Month: 3, Revenue: 50.5, Orders: 1},
	}
	svc := NewOrderService(orders, newMemMenu())

	summary, err := svc.Revenue(context.Background(), ids.New(), 2024)
	require.NoError(t, err)
	require.Equal(t, 150.5, summary.TotalRevenue)
	require.Equal(t, 5, summary.TotalOrders)
	require.Equal(t, 30.1, summary.AverageOrderValue)
	require.Len(t, summary.MonthlyRevenue, 12)
	require.Equal(t, models.MonthlyRevenue{Month: "Jan", Revenue: 100}, summary.MonthlyRevenue[0])
	require.Equal(t, models.MonthlyRevenue{Month: "Feb"}, summary.MonthlyRevenue[1])
	require.Equal(t, 50.5, summary.MonthlyRevenue[2].Revenue)

	_, err = svc.Revenue(context.Background(), ids.New(), 12)
	require.ErrorIs(t, err, ErrInvalidRevenueYear)
}

func TestRevenueWithoutOrders(t *testing.T) {
	svc := NewOrderService(newMemOrders(), newMemMenu())

	summary, err := svc.Revenue(context.Background(), ids.New(), 0)
	require.NoError(t, err)
	require.Zero(t, summary.TotalRevenue)
	require.Zero(t, summary.AverageOrderValue)
	require.Equal(t, "Dec", summary.MonthlyRevenue[11].Month)
}
