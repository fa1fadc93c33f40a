package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-cart/internal/models"
)

func TestFindByID(t *testing.T) {
	item, ok := FindByID(3)
	require.True(t, ok)
	assert.Equal(t, "Paneer Butter Masala", item.Name)
	assert.Equal(t, models.Amount(280), item.Price)

	_, ok = FindByID(99)
	assert.False(t, ok)
}

func TestFilter(t *testing.T) {
	assert.Len(t, Filter(models.AllCategories), 8)
	assert.Len(t, Filter(models.Veg), 5)

	for _, item := range Filter(models.NonVeg) {
		assert.Equal(t, models.NonVeg, item.Category)
	}
}

func TestAll_IsACopy(t *testing.T) {
	items := All()
	items[0].Price = 1

	item, _ := FindByID(items[0].ID)
	assert.Equal(t, models.Amount(150), item.Price)
}

func TestMenu_UniqueIDs(t *testing.T) {
	seen := map[int]bool{}
	for _, item := range All() {
		assert.False(t, seen[item.ID], "duplicate id %d", item.ID)
		seen[item.ID] = true
		assert.Positive(t, item.ID)
	}
}
