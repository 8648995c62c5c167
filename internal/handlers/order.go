package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurantadmin/internal/models"
	"restaurantadmin/internal/service"
)

type orderRequest struct {
	Table      string             `json:"table"`
	Items      []string           `json:"items"`
	Status     models.OrderStatus `json:"status"`
	Restaurant string             `json:"restaurant"`
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (h HandlerSet) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

// CreateOrder accepts repeated item ids; each occurrence becomes its own line
// and is charged separately.
func (h HandlerSet) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	order, err := h.orders.Create(c.Request.Context(), service.OrderInput{
		Table:      req.Table,
		Items:      req.Items,
		Status:     req.Status,
		Restaurant: req.Restaurant,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Order created successfully.", "data": order})
}

func (h HandlerSet) ListRestaurantOrders(c *gin.Context) {
	orders, err := h.orders.ListByRestaurant(c.Request.Context(), c.Param("restaurantId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

func (h HandlerSet) UpdateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// Revenue summarises completed orders; ?year= narrows it to one calendar year.
func (h HandlerSet) Revenue(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, service.ErrInvalidRevenueYear)
			return
		}
		year = v
	}

	summary, err := h.orders.Revenue(c.Request.Context(), c.Param("restaurantId"), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}
