package cartstore

import (
	"encoding/json"
	"fmt"

	"restaurant-cart/internal/models"
)

// wireLine is the persisted shape of one order line. Prices are stored as
// display strings ("₹280") for compatibility with existing data.
type wireLine struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
}

// Encode serializes a cart as a JSON array of lines
func Encode(cart models.Cart) ([]byte, error) {
	if err := cart.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to persist invalid cart: %w", err)
	}

	lines := make([]wireLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, wireLine{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			Price:       models.FormatRupees(l.Price),
			Image:       l.Image,
			Category:    string(l.Category),
			Quantity:    l.Quantity,
		})
	}
	return json.Marshal(lines)
}

// Decode parses a persisted value. Anything that does not describe a valid
// cart is reported as an error; callers treat that as an empty cart.
func Decode(data []byte) (models.Cart, error) {
	var lines []wireLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return models.EmptyCart(), fmt.Errorf("decode cart: %w", err)
	}

	cart := models.Cart{Lines: make([]models.OrderLine, 0, len(lines))}
	for i, w := range lines {
		if w.ID < 1 {
			return models.EmptyCart(), fmt.Errorf("decode cart: lines[%d]: id must be positive", i)
		}
		price, err := models.ParsePrice(w.Price)
		if err != nil {
			return models.EmptyCart(), fmt.Errorf("decode cart: lines[%d]: %w", i, err)
		}
		category, err := models.ParseCategory(w.Category)
		if err != nil {
			return models.EmptyCart(), fmt.Errorf("decode cart: lines[%d]: %w", i, err)
		}

		cart.Lines = append(cart.Lines, models.OrderLine{
			ID:          w.ID,
			Name:        w.Name,
			Description: w.Description,
			Price:       price,
			Image:       w.Image,
			Category:    category,
			Quantity:    w.Quantity,
		})
	}

	if err := cart.Validate(); err != nil {
		return models.EmptyCart(), fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}
