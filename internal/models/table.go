package models

import "time"

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved:
		return true
	}
	return false
}

type Table struct {
	ID           string      `json:"id"`
	Number       int         `json:"number"`
	Capacity     int         `json:"capacity"`
	Status       TableStatus `json:"status"`
	LastOccupied *time.Time  `json:"lastOccupied"`
	RestaurantID string      `json:"restaurant"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
