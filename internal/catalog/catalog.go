// Package catalog holds the fixed restaurant menu.
package catalog

import "restaurant-cart/internal/models"

var menu = []models.CatalogItem{
	{ID: 1, Name: "Tomato Soup", Description: "Creamy tomato soup with herbs and spices", Price: 150, Image: "menu-tomato-soup.jpg", Category: models.Veg},
	{ID: 2, Name: "Dal Soup", Description: "Traditional lentil soup with cumin tempering", Price: 130, Image: "menu-dal-soup.jpg", Category: models.Veg},
	{ID: 3, Name: "Paneer Butter Masala", Description: "Rich and creamy cottage cheese curry", Price: 280, Image: "menu-paneer-curry.jpg", Category: models.Veg},
	{ID: 4, Name: "Vegetable Korma", Description: "Mixed vegetables in cashew cream sauce", Price: 250, Image: "menu-veg-korma.jpg", Category: models.Veg},
	{ID: 5, Name: "Vegetable Biryani", Description: "Aromatic basmati rice with mixed vegetables", Price: 220, Image: "menu-veg-biryani.jpg", Category: models.Veg},
	{ID: 6, Name: "Chicken Biryani", Description: "Tender chicken with fragrant basmati rice", Price: 320, Image: "menu-chicken-biryani.jpg", Category: models.NonVeg},
	{ID: 7, Name: "Dum Biryani", Description: "Slow-cooked biryani sealed with dough", Price: 380, Image: "menu-dum-biryani.jpg", Category: models.NonVeg},
	{ID: 8, Name: "Spicy Chicken Curry", Description: "Authentic spicy chicken curry with bone", Price: 300, Image: "menu-chicken-curry.jpg", Category: models.NonVeg},
}

// All returns a copy of every menu item in display order
func All() []models.CatalogItem {
	out := make([]models.CatalogItem, len(menu))
	copy(out, menu)
	return out
}

// FindByID looks up a menu item
func FindByID(id int) (models.CatalogItem, bool) {
	for _, item := range menu {
		if item.ID == id {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

// Filter returns the items matching a category filter (models.AllCategories for everything)
func Filter(f models.Category) []models.CatalogItem {
	out := make([]models.CatalogItem, 0, len(menu))
	for _, item := range menu {
		if item.Category.Matches(f) {
			out = append(out, item)
		}
	}
	return out
}
