package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"restaurantadmin/internal/cache"
	"restaurantadmin/internal/config"
	"restaurantadmin/internal/mail"
	"restaurantadmin/internal/middleware"
	"restaurantadmin/internal/models"
	"restaurantadmin/internal/repository"
	"restaurantadmin/internal/security"
	"restaurantadmin/internal/service"
)

type userStore struct {
	mu    sync.Mutex
	users []models.User
}

func (s *userStore) Create(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return models.User{}, repository.ErrDuplicate
		}
	}
	user.CreatedAt = time.Now()
	s.users = append(s.users, user)
	return user, nil
}

func (s *userStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (s *userStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (s *userStore) Update(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == user.ID {
			s.users[i] = user
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (s *userStore) List(context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...), nil
}

type captureMailer struct {
	last mail.Activation
}

func (m *captureMailer) SendActivation(_ context.Context, a mail.Activation) error {
	m.last = a
	return nil
}

type noAvatars struct{}

func (noAvatars) Replace(context.Context, string, models.Avatar, service.AvatarUpload) (models.Avatar, error) {
	return models.Avatar{}, errors.New("not used")
}

type testAPI struct {
	router *gin.Engine
	mailer *captureMailer
	users  *userStore
}

func newTestAPI(t *testing.T, checks map[string]HealthCheck) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			AccessTokenSecret:     "access-secret",
			RefreshTokenSecret:    "refresh-secret",
			ActivationTokenSecret: "activation-secret",
			AccessTokenTTL:        5 * time.Minute,
			RefreshTokenTTL:       72 * time.Hour,
			ActivationTokenTTL:    5 * time.Minute,
			BcryptCost:            4,
		},
		RateLimit: config.RateLimitConfig{AuthPerMinute: 1000},
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := cache.NewSessionCache(client, cfg.Security.RefreshTokenTTL)
	tokens := security.NewTokens(cfg.Security)
	users := &userStore{}
	mailer := &captureMailer{}

	auth := service.NewAuthService(users, sessions, mailer, noAvatars{}, tokens, cfg.Security.BcryptCost, zerolog.Nop())

	set := NewHandlerSet(zerolog.Nop(), cfg, Dependencies{
		Auth:     auth,
		Tables:   service.NewTableService(nil),
		Orders:   service.NewOrderService(nil, nil),
		Tokens:   tokens,
		Sessions: sessions,
		Checks:   checks,
	})

	router := gin.New()
	set.Register(router.Group("/api"))
	return &testAPI{router: router, mailer: mailer, users: users}
}

func (a *testAPI) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAccountLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodPost, "/api/v1/registration", map[string]string{
		"name": "Ana", "email": "Ana@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "Please check your email: ana@example.com to activate your account.", body["message"])
	token, _ := body["activationToken"].(string)
	require.NotEmpty(t, token)
	require.Len(t, api.mailer.last.Code, 4)

	wrong := "0000"
	if api.mailer.last.Code == wrong {
		wrong = "0001"
	}
	rec = api.do(http.MethodPost, "/api/v1/activate-user", map[string]string{
		"activation_token": token, "activation_code": wrong,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid Activation Code", decode(t, rec)["message"])

	rec = api.do(http.MethodPost, "/api/v1/activate-user", map[string]string{
		"activation_token": token, "activation_code": api.mailer.last.Code,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/login", map[string]string{
		"email": "ana@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decode(t, rec)["accessToken"])
	access := cookieNamed(rec, middleware.AccessCookie)
	refresh := cookieNamed(rec, middleware.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	require.True(t, access.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, access.SameSite)

	rec = api.do(http.MethodGet, "/api/v1/me", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	require.Equal(t, "ana@example.com", user["email"])
	require.NotContains(t, user, "password")

	rec = api.do(http.MethodGet, "/api/v1/refresh", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, cookieNamed(rec, middleware.AccessCookie))

	rec = api.do(http.MethodGet, "/api/v1/logout", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := cookieNamed(rec, middleware.AccessCookie)
	require.NotNil(t, cleared)
	require.Negative(t, cleared.MaxAge)

	rec = api.do(http.MethodGet, "/api/v1/me", nil, access)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Please login to access this resource", decode(t, rec)["message"])

	rec = api.do(http.MethodGet, "/api/v1/refresh", nil, refresh)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Could not refresh token", decode(t, rec)["message"])
}

func TestLegacyRegistrationPath(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodPost, "/api/v1/registeration", map[string]string{
		"name": "Ben", "email": "ben@example.com", "password": "123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Password should be at least 6 characters long", decode(t, rec)["message"])
}

func TestLoginFailureIsUniform(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodPost, "/api/v1/login", map[string]string{"email": "nobody@example.com", "password": "whatever"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid Email or Password", decode(t, rec)["message"])
	require.False(t, decode(t, rec)["success"].(bool))
}

func TestGetUsersRequiresAdmin(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodPost, "/api/v1/social-auth", map[string]string{"email": "cy@example.com", "name": "Cy"})
	require.Equal(t, http.StatusOK, rec.Code)
	access := cookieNamed(rec, middleware.AccessCookie)

	rec = api.do(http.MethodGet, "/api/v1/get-users", nil, access)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Role: user is not allowed to access this resource", decode(t, rec)["message"])

	rec = api.do(http.MethodGet, "/api/v1/get-users", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedIDIsRejected(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodDelete, "/api/v1/deleteTable/not-an-id", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Resource not found. Invalid id", decode(t, rec)["message"])
}

func TestCreateOrderRequiresFields(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodPost, "/api/v1/orders", map[string]any{"table": "", "items": []string{}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing or invalid required fields.", decode(t, rec)["message"])
}

func TestRevenueRejectsBadYear(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodGet, "/api/v1/orders/2Q9bG1yNcUWvGx7E4bV6sJ0fJtN/revenue?year=last", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	api := newTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid request body", decode(t, rec)["message"])
}

func TestHealthReportsFailingDependency(t *testing.T) {
	api := newTestAPI(t, map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("down") },
	})

	rec := api.do(http.MethodGet, "/api/healthz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "degraded", body["status"])
	require.Equal(t, map[string]any{"postgres": "ok", "redis": "error"}, body["checks"])
}

func TestDecodeDataURL(t *testing.T) {
	payload := []byte("\x89PNG\r\n\x1a\n")
	raw := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	upload, err := decodeDataURL(raw)
	require.NoError(t, err)
	require.Equal(t, "image/png", upload.ContentType)
	data, err := io.ReadAll(upload.Body)
	require.NoError(t, err)
	require.Equal(t, payload, data)

	_, err = decodeDataURL("data:image/png,plain")
	require.ErrorIs(t, err, service.ErrUnsupportedAvatar)

	_, err = decodeDataURL("!!!")
	require.Error(t, err)
}

func TestSocialAuthValidatesLikeRegistration(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodPost, "/api/v1/social-auth", map[string]string{"email": "not-an-email", "name": "Cy"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Please Enter a Valid Email", decode(t, rec)["message"])

	rec = api.do(http.MethodPost, "/api/v1/registration", map[string]string{
		"name": "Cy", "email": "not-an-email", "password": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Please Enter a Valid Email", decode(t, rec)["message"])

	rec = api.do(http.MethodPost, "/api/v1/social-auth", map[string]string{"email": "cy@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Please enter your name", decode(t, rec)["message"])
}
