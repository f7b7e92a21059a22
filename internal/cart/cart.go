package cart

import (
	"github.com/gofrs/uuid"

	"github.com/chaikhana/backend/internal/catalog"
)

// Line pairs a dish snapshot with a positive quantity. The snapshot is what
// the shopper saw at add time; catalog edits do not rewrite it.
type Line struct {
	Dish     catalog.Dish `json:"dish"`
	Quantity int          `json:"quantity"`
}

// Cart holds the shopper's in-progress selection. Lines keep insertion
// order and there is at most one line per dish.
type Cart struct {
	Lines []Line `json:"lines"`
}

func New() *Cart {
	return &Cart{Lines: []Line{}}
}

// AddItem inserts a new line or increments the quantity of an existing one.
func (c *Cart) AddItem(dish catalog.Dish, quantity int) {
	if quantity < 1 {
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Dish.ID == dish.ID {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, Line{Dish: dish, Quantity: quantity})
}

// RemoveItem drops the line for the dish if present. Idempotent.
func (c *Cart) RemoveItem(dishID uuid.UUID) {
	for i := range c.Lines {
		if c.Lines[i].Dish.ID == dishID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity overwrites the line's quantity. Zero or negative removes the
// line.
func (c *Cart) SetQuantity(dishID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(dishID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Dish.ID == dishID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalAmount is the sum of price*quantity over current lines, recomputed
// on every call.
func (c *Cart) TotalAmount() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Dish.Price * int64(line.Quantity)
	}
	return total
}

// TotalItemCount is the sum of quantities, used for the cart badge.
func (c *Cart) TotalItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}
