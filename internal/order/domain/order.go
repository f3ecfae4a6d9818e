package domain

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var (
	ErrNoItems         = errors.New("order has no line items")
	ErrInvalidQuantity = errors.New("line item quantity must be positive")
	ErrNotPending      = errors.New("order is not pending")
	ErrNotFound        = errors.New("order not found")
)

type Order struct {
	ID        string
	Customer  string
	Items     []LineItem
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LineItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

func NewOrder(id, customer string, items []LineItem, now time.Time) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrNoItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return Order{}, ErrInvalidQuantity
		}
	}
	now = now.UTC()
	return Order{
		ID:        id,
		Customer:  customer,
		Items:     items,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
