package cart

import (
	"github.com/shopspring/decimal"
)

// Item is what a menu page hands to the cart.
type Item struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
}

// Line is one cart entry. UnitPrice is what the menu showed; the server
// reprices every line at checkout.
type Line struct {
	ItemID      string          `json:"itemId"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps lines in insertion order, one line per item id.
type Cart struct {
	lines []Line
}

func New(lines ...Line) *Cart {
	c := &Cart{}
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if i := c.index(line.ItemID); i >= 0 {
			c.lines[i].Quantity += line.Quantity
			continue
		}
		c.lines = append(c.lines, line)
	}

	return c
}

// AddItem bumps the quantity of an existing line or appends a new one.
func (c *Cart) AddItem(item Item) {
	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}

	c.lines = append(c.lines, Line{
		ItemID:      item.ID,
		Name:        item.Name,
		UnitPrice:   item.Price,
		Quantity:    1,
		Description: item.Description,
	})
}

func (c *Cart) RemoveItem(id string) {
	i := c.index(id)
	if i < 0 {
		return
	}

	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// UpdateQuantity removes the line when quantity is zero or negative.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(id)
		return
	}

	if i := c.index(id); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

func (c *Cart) ClearCart() {
	c.lines = nil
}

func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Total())
	}

	return subtotal
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}

	return count
}

// Items returns a copy of the lines.
func (c *Cart) Items() []Line {
	return append([]Line(nil), c.lines...)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) index(id string) int {
	for i, line := range c.lines {
		if line.ItemID == id {
			return i
		}
	}

	return -1
}
