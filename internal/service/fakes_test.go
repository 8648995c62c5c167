package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"restaurantadmin/internal/cache"
	"restaurantadmin/internal/mail"
	"restaurantadmin/internal/models"
	"restaurantadmin/internal/repository"
)

type memUsers struct {
	mu    sync.Mutex
	byID  map[string]models.User
	order []string
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]models.User)}
}

func (m *memUsers) Create(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return models.User{}, repository.ErrDuplicate
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byID[user.ID] = user
	m.order = append(m.order, user.ID)
	return user, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) Update(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return models.User{}, repository.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.byID[user.ID] = user
	return user, nil
}

func (m *memUsers) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.byID[m.order[i]])
	}
	return out, nil
}

func (m *memUsers) CountByIDs(_ context.Context, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := m.byID[id]; ok {
			n++
		}
	}
	return n, nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type fakeMailer struct {
	sent []mail.Activation
	err  error
}

func (f *fakeMailer) SendActivation(_ context.Context, a mail.Activation) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, a)
	return nil
}

type fakeObjects struct {
	puts      int
	removed   []string
	removeErr error
}

func (f *fakeObjects) Put(_ context.Context, userID string, data []byte, contentType, ext string) (models.Avatar, error) {
	f.puts++
	key := fmt.Sprintf("%s/avatar-%d.%s", userID, f.puts, ext)
	return models.Avatar{PublicID: key, URL: "http://objects.test/avatars/" + key}, nil
}

func (f *fakeObjects) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	return f.removeErr
}

func newSessionCache(t *testing.T, ttl time.Duration) (*cache.SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewSessionCache(client, ttl), mr
}

type memTables struct {
	byID map[string]models.Table
}

func newMemTables() *memTables {
	return &memTables{byID: make(map[string]models.Table)}
}

func (m *memTables) conflict(table models.Table) bool {
	for _, t := range m.byID {
		if t.ID != table.ID && t.RestaurantID == table.RestaurantID && t.Number == table.Number {
			return true
		}
	}
	return false
}

func (m *memTables) Create(_ context.Context, table models.Table) (models.Table, error) {
	if m.conflict(table) {
		return models.Table{}, repository.ErrDuplicate
	}
	m.byID[table.ID] = table
	return table, nil
}

func (m *memTables) List(_ context.Context, restaurantID string) ([]models.Table, error) {
	out := make([]models.Table, 0)
	for _, t := range m.byID {
		if restaurantID == "" || t.RestaurantID == restaurantID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memTables) GetByID(_ context.Context, id string) (models.Table, error) {
	t, ok := m.byID[id]
	if !ok {
		return models.Table{}, repository.ErrNotFound
	}
	return t, nil
}

func (m *memTables) Update(_ context.Context, table models.Table) (models.Table, error) {
	if _, ok := m.byID[table.ID]; !ok {
		return models.Table{}, repository.ErrNotFound
	}
	if m.conflict(table) {
		return models.Table{}, repository.ErrDuplicate
	}
	m.byID[table.ID] = table
	return table, nil
}

func (m *memTables) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memMenu struct {
	items      map[string]models.MenuItem
	categories map[string]models.Category
}

func newMemMenu(items ...models.MenuItem) *memMenu {
	m := &memMenu{items: make(map[string]models.MenuItem), categories: make(map[string]models.Category)}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

func (m *memMenu) Create(_ context.Context, item models.MenuItem) (models.MenuItem, error) {
	m.items[item.ID] = item
	return item, nil
}

func (m *memMenu) List(_ context.Context) ([]models.MenuItem, error) {
	out := make([]models.MenuItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memMenu) GetByID(_ context.Context, id string) (models.MenuItem, error) {
	item, ok := m.items[id]
	if !ok {
		return models.MenuItem{}, repository.ErrNotFound
	}
	return item, nil
}

func (m *memMenu) FindByIDs(_ context.Context, ids []string) ([]models.MenuItem, error) {
	out := make([]models.MenuItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memMenu) Update(_ context.Context, item models.MenuItem) (models.MenuItem, error) {
	if _, ok := m.items[item.ID]; !ok {
		return models.MenuItem{}, repository.ErrNotFound
	}
	m.items[item.ID] = item
	return item, nil
}

func (m *memMenu) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memCategories struct {
	byID map[string]models.Category
}

func (m *memCategories) Create(_ context.Context, c models.Category) (models.Category, error) {
	m.byID[c.ID] = c
	return c, nil
}

func (m *memCategories) List(_ context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (models.Category, error) {
	c, ok := m.byID[id]
	if !ok {
		return models.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (m *memCategories) Update(_ context.Context, c models.Category) (models.Category, error) {
	if _, ok := m.byID[c.ID]; !ok {
		return models.Category{}, repository.ErrNotFound
	}
	m.byID[c.ID] = c
	return c, nil
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memOrders struct {
	byID   map[string]models.Order
	totals []repository.MonthTotal
	err    error
}

func newMemOrders() *memOrders {
	return &memOrders{byID: make(map[string]models.Order)}
}

func (m *memOrders) Create(_ context.Context, order models.Order) (models.Order, error) {
	if m.err != nil {
		return models.Order{}, m.err
	}
	m.byID[order.ID] = order
	return order, nil
}

func (m *memOrders) List(_ context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(m.byID))
	for _, o := range m.byID {
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrders) ListByRestaurant(_ context.Context, restaurantID string) ([]models.Order, error) {
	out := make([]models.Order, 0)
	for _, o := range m.byID {
		if o.RestaurantID == restaurantID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, status models.OrderStatus) (models.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return models.Order{}, repository.ErrNotFound
	}
	o.Status = status
	m.byID[id] = o
	return o, nil
}

func (m *memOrders) CompletedByMonth(_ context.Context, _ string, _ int) ([]repository.MonthTotal, error) {
	return m.totals, nil
}

type memRestaurants struct {
	byID  map[string]models.Restaurant
	users *memUsers
}

func newMemRestaurants(users *memUsers) *memRestaurants {
	return &memRestaurants{byID: make(map[string]models.Restaurant), users: users}
}

func (m *memRestaurants) hydrate(r models.Restaurant) models.Restaurant {
	owners := make([]models.Owner, 0, len(r.Owners))
	for _, o := range r.Owners {
		u, err := m.users.GetByID(context.Background(), o.ID)
		if err == nil {
			owners = append(owners, models.Owner{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	r.Owners = owners
	return r
}

func (m *memRestaurants) Create(_ context.Context, r models.Restaurant) (models.Restaurant, error) {
	r = m.hydrate(r)
	m.byID[r.ID] = r
	return r, nil
}

func (m *memRestaurants) List(_ context.Context) ([]models.Restaurant, error) {
	out := make([]models.Restaurant, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRestaurants) ListByOwner(_ context.Context, userID string) ([]models.Restaurant, error) {
	out := make([]models.Restaurant, 0)
	for _, r := range m.byID {
		for _, o := range r.Owners {
			if o.ID == userID {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (m *memRestaurants) GetByID(_ context.Context, id string) (models.Restaurant, error) {
	r, ok := m.byID[id]
	if !ok {
		return models.Restaurant{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *memRestaurants) Update(_ context.Context, r models.Restaurant) (models.Restaurant, error) {
	current, ok := m.byID[r.ID]
	if !ok {
		return models.Restaurant{}, repository.ErrNotFound
	}
	if r.Owners == nil {
		r.Owners = current.Owners
	} else {
		r = m.hydrate(r)
	}
	m.byID[r.ID] = r
	return r, nil
}

func (m *memRestaurants) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

var errBoom = errors.New("boom")
