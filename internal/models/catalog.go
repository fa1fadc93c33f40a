package models

import "fmt"

// Category tags a dish as vegetarian or not
type Category string

const (
	Veg    Category = "veg"
	NonVeg Category = "nonveg"

	// AllCategories is the menu filter value that matches every item
	AllCategories Category = "all"
)

// ParseCategory validates a stored or requested category
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case Veg, NonVeg:
		return Category(s), nil
	default:
		return "", fmt.Errorf("category must be one of: veg, nonveg")
	}
}

// ParseFilter accepts a category or "all"; the empty string means "all"
func ParseFilter(s string) (Category, error) {
	if s == "" || Category(s) == AllCategories {
		return AllCategories, nil
	}
	return ParseCategory(s)
}

// Matches reports whether an item of category c passes the filter f
func (c Category) Matches(f Category) bool {
	return f == AllCategories || f == c
}

// CatalogItem is one orderable dish
type CatalogItem struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       Amount   `json:"price"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
}
