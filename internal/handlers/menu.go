package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurantadmin/internal/service"
)

type categoryRequest struct {
	CategoryName *string `json:"categoryName"`
	Restaurant   *string `json:"restaurant"`
}

type menuItemRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	IsAvailable *bool    `json:"isAvailable"`
}

func (r menuItemRequest) input() service.MenuItemInput {
	return service.MenuItemInput{
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		Description: r.Description,
		IsAvailable: r.IsAvailable,
	}
}

func (h HandlerSet) ListCategories(c *gin.Context) {
	categories, err := h.menu.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

func (h HandlerSet) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	category, err := h.menu.CreateCategory(c.Request.Context(), service.CategoryInput{
		Name:       req.CategoryName,
		Restaurant: req.Restaurant,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": category})
}

func (h HandlerSet) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	category, err := h.menu.UpdateCategory(c.Request.Context(), c.Param("id"), service.CategoryInput{
		Name:       req.CategoryName,
		Restaurant: req.Restaurant,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

func (h HandlerSet) DeleteCategory(c *gin.Context) {
	if err := h.menu.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted successfully"})
}

func (h HandlerSet) ListMenuItems(c *gin.Context) {
	items, err := h.menu.Items(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

func (h HandlerSet) CreateMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	item, err := h.menu.CreateItem(c.Request.Context(), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Menu item added successfully", "data": item})
}

func (h HandlerSet) UpdateMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	item, err := h.menu.UpdateItem(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

func (h HandlerSet) DeleteMenuItem(c *gin.Context) {
	if err := h.menu.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu item deleted successfully"})
}
