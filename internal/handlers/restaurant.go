package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurantadmin/internal/middleware"
	"restaurantadmin/internal/service"
)

type restaurantRequest struct {
	Name    *string  `json:"name"`
	Address *string  `json:"address"`
	Phone   *string  `json:"phone"`
	Owners  []string `json:"owners"`
}

func (r restaurantRequest) input() service.RestaurantInput {
	return service.RestaurantInput{Name: r.Name, Address: r.Address, Phone: r.Phone, Owners: r.Owners}
}

func (h HandlerSet) CreateRestaurant(c *gin.Context) {
	var req restaurantRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	restaurant, err := h.restaurants.Create(c.Request.Context(), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Restaurant created successfully",
		"restaurant": restaurant,
	})
}

func (h HandlerSet) ListRestaurants(c *gin.Context) {
	restaurants, err := h.restaurants.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "restaurants": restaurants})
}

func (h HandlerSet) GetRestaurant(c *gin.Context) {
	restaurant, err := h.restaurants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "restaurant": restaurant})
}

func (h HandlerSet) UpdateRestaurant(c *gin.Context) {
	var req restaurantRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	restaurant, err := h.restaurants.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"message":           "Restaurant updated",
		"updatedRestaurant": restaurant,
	})
}

func (h HandlerSet) DeleteRestaurant(c *gin.Context) {
	if err := h.restaurants.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Restaurant deleted"})
}

// MyRestaurants lists restaurants owned by the signed-in user.
func (h HandlerSet) MyRestaurants(c *gin.Context) {
	restaurants, err := h.restaurants.Mine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "restaurants": restaurants})
}
