package cart

import (
	"fmt"

	"github.com/example/tmstore/pkg/models"
)

// Item is one cart line. Identity is the (product, size, color) triple;
// Price is snapshotted when the line is created and never re-read from the
// catalog afterwards.
type Item struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

// LineID builds the composite identity for a variant selection.
func LineID(productID, size, color string) string {
	return fmt.Sprintf("%s:%s:%s", productID, size, color)
}

// Cart is a single-session, single-writer aggregate. It holds no locks:
// callers own it exclusively for the duration of a request.
type Cart struct {
	Items []Item `json:"items"`
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges into an existing line with the same (product, size, color)
// identity, incrementing its quantity; otherwise it appends a new line with
// the product's current price as the snapshot. Quantities below one are
// treated as one.
func (c *Cart) AddItem(p models.Product, size, color string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	id := LineID(p.ID, size, color)
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, Item{
		ID:          id,
		ProductID:   p.ID,
		ProductName: p.Name,
		Size:        size,
		Color:       color,
		Quantity:    quantity,
		Price:       p.Price,
	})
}

// RemoveItem deletes the line with the given composite ID. Removing an
// absent line is a no-op.
func (c *Cart) RemoveItem(id string) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line quantity exactly. A quantity of zero or less
// removes the line; a zero-quantity line never persists.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(id)
		return
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// TotalPrice sums snapshot price times quantity. Live catalog prices play
// no part here.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}
