package cart

import (
	"github.com/kasen/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Line is one product-and-quantity pairing. A cart holds at most one line per
// product id and quantities are always >= 1.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps lines in insertion order and recomputes the derived totals after
// every mutation.
type Cart struct {
	Lines     []Line
	Total     decimal.Decimal
	ItemCount int
}

func New() *Cart {
	return &Cart{Total: decimal.Zero}
}

func (c *Cart) Add(p catalog.Product) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == p.ID {
			c.Lines[i].Quantity++
			c.recalculate()
			return
		}
	}
	c.Lines = append(c.Lines, Line{Product: p, Quantity: 1})
	c.recalculate()
}

func (c *Cart) Remove(productID string) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.Product.ID != productID {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
	c.recalculate()
}

// SetQuantity with quantity <= 0 removes the line; setting a quantity for an
// unknown product id is a no-op.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines[i].Quantity = quantity
			break
		}
	}
	c.recalculate()
}

func (c *Cart) Clear() {
	c.Lines = nil
	c.recalculate()
}

// Replace swaps the entire line set for a restored snapshot.
func (c *Cart) Replace(lines []Line) {
	c.Lines = lines
	c.recalculate()
}

func (c *Cart) recalculate() {
	total := decimal.Zero
	count := 0
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
		count += l.Quantity
	}
	c.Total = total
	c.ItemCount = count
}
