package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restaurantadmin/internal/models"
	"restaurantadmin/internal/service"
)

type tableRequest struct {
	Number       *int                `json:"number"`
	Capacity     *int                `json:"capacity"`
	Status       *models.TableStatus `json:"status"`
	LastOccupied *time.Time          `json:"lastOccupied"`
	Restaurant   *string             `json:"restaurant"`
}

func (r tableRequest) input() service.TableInput {
	return service.TableInput{
		Number:       r.Number,
		Capacity:     r.Capacity,
		Status:       r.Status,
		LastOccupied: r.LastOccupied,
		Restaurant:   r.Restaurant,
	}
}

func (h HandlerSet) CreateTable(c *gin.Context) {
	var req tableRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	table, err := h.tables.Create(c.Request.Context(), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Table created successfully.", "data": table})
}

func (h HandlerSet) ListTables(c *gin.Context) {
	tables, err := h.tables.List(c.Request.Context(), c.Query("restaurant"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tables})
}

func (h HandlerSet) UpdateTable(c *gin.Context) {
	var req tableRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	table, err := h.tables.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Table updated successfully.", "data": table})
}

func (h HandlerSet) DeleteTable(c *gin.Context) {
	if err := h.tables.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Table deleted successfully."})
}
