package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"restaurantadmin/internal/config"
	"restaurantadmin/internal/middleware"
	"restaurantadmin/internal/models"
	"restaurantadmin/internal/service"
)

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

type Dependencies struct {
	Auth        *service.AuthService
	Restaurants *service.RestaurantService
	Tables      *service.TableService
	Menu        *service.MenuService
	Orders      *service.OrderService
	Tokens      middleware.AccessVerifier
	Sessions    middleware.SessionReader
	Checks      map[string]HealthCheck
}

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	auth        *service.AuthService
	restaurants *service.RestaurantService
	tables      *service.TableService
	menu        *service.MenuService
	orders      *service.OrderService
	tokens      middleware.AccessVerifier
	sessions    middleware.SessionReader
	checks      map[string]HealthCheck
	limiter     *middleware.RateLimiter
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	return HandlerSet{
		log:         log,
		cfg:         cfg,
		auth:        deps.Auth,
		restaurants: deps.Restaurants,
		tables:      deps.Tables,
		menu:        deps.Menu,
		orders:      deps.Orders,
		tokens:      deps.Tokens,
		sessions:    deps.Sessions,
		checks:      deps.Checks,
		limiter:     middleware.NewRateLimiter(cfg.RateLimit.AuthPerMinute),
	}
}

// Register mounts every route under router, which is expected to be /api.
func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	authed := middleware.Auth(h.tokens, h.sessions)
	limited := h.limiter.Handler()

	v1.POST("/registration", limited, h.RegisterUser)
	v1.POST("/registeration", limited, h.RegisterUser)
	v1.POST("/activate-user", limited, h.ActivateUser)
	v1.POST("/login", limited, h.Login)
	v1.POST("/social-auth", limited, h.SocialAuth)
	v1.GET("/refresh", h.Refresh)
	v1.GET("/logout", authed, h.Logout)
	v1.GET("/me", authed, h.Me)
	v1.PUT("/update-user-info", authed, h.UpdateUserInfo)
	v1.PUT("/update-user-password", authed, h.UpdatePassword)
	v1.PUT("/update-user-avatar", authed, h.UpdateAvatar)
	v1.GET("/get-users", authed, middleware.RequireRoles(models.UserRoleAdmin), h.ListUsers)

	v1.POST("/restaurants", authed, h.CreateRestaurant)
	v1.GET("/allRestaurants", h.ListRestaurants)
	v1.GET("/restaurants/:id", h.GetRestaurant)
	v1.PUT("/restaurants/:id", authed, h.UpdateRestaurant)
	v1.DELETE("/restaurants/:id", authed, h.DeleteRestaurant)
	v1.GET("/my-restaurants", authed, h.MyRestaurants)

	v1.POST("/createTable", h.CreateTable)
	v1.GET("/getAllTables", h.ListTables)
	v1.PUT("/updateTable/:id", h.UpdateTable)
	v1.DELETE("/deleteTable/:id", h.DeleteTable)

	v1.GET("/category", h.ListCategories)
	v1.POST("/category", h.CreateCategory)
	v1.PUT("/category/:id", h.UpdateCategory)
	v1.DELETE("/category/:id", h.DeleteCategory)

	v1.GET("/menu", h.ListMenuItems)
	v1.POST("/menu", h.CreateMenuItem)
	v1.PUT("/menu/:id", h.UpdateMenuItem)
	v1.DELETE("/menu/:id", h.DeleteMenuItem)

	v1.GET("/orders", h.ListOrders)
	v1.POST("/orders", h.CreateOrder)
	v1.GET("/orders/:restaurantId", h.ListRestaurantOrders)
	v1.GET("/orders/:restaurantId/revenue", h.Revenue)
	v1.PUT("/orders/status/:id", h.UpdateOrderStatus)
}
