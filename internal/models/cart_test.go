package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	butterChicken = CatalogItem{ID: 9, Name: "Butter Chicken", Description: "Creamy tomato gravy", Price: 340, Image: "butter-chicken.jpg", Category: NonVeg}
	tomatoSoup    = CatalogItem{ID: 1, Name: "Tomato Soup", Price: 150, Category: Veg}
	paneer        = CatalogItem{ID: 3, Name: "Paneer Butter Masala", Price: 280, Category: Veg}
	biryani       = CatalogItem{ID: 6, Name: "Chicken Biryani", Price: 320, Category: NonVeg}
)

func TestCart_WithItemTwiceEqualsQuantityTwo(t *testing.T) {
	got := EmptyCart().WithItem(butterChicken).WithItem(butterChicken)
	want := Cart{Lines: []OrderLine{NewOrderLine(butterChicken, 2)}}

	assert.True(t, got.Equal(want))
	assert.Equal(t, Amount(680), Total(got))
}

func TestCart_WithItemDoesNotMutateReceiver(t *testing.T) {
	base := EmptyCart().WithItem(paneer)
	_ = base.WithItem(paneer)
	_ = base.WithDelta(paneer.ID, 5)

	line, ok := base.Line(paneer.ID)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
}

func TestCart_WithDelta(t *testing.T) {
	three := EmptyCart().WithItem(paneer).WithItem(paneer).WithItem(paneer)

	tests := []struct {
		name    string
		id      int
		delta   int
		wantQty int
		present bool
	}{
		{"increment", paneer.ID, 1, 4, true},
		{"decrement", paneer.ID, -1, 2, true},
		{"to zero removes", paneer.ID, -3, 0, false},
		{"below zero clamps and removes", paneer.ID, -999, 0, false},
		{"unknown id is a no-op", 404, 1, 3, false},
		{"large increment saturates", paneer.ID, math.MaxInt, MaxLineQuantity, true},
		{"large decrement removes", paneer.ID, math.MinInt, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := three.WithDelta(tt.id, tt.delta)
			line, ok := next.Line(tt.id)
			assert.Equal(t, tt.present, ok)
			if ok {
				assert.Equal(t, tt.wantQty, line.Quantity)
			}
			require.NoError(t, next.Validate())
		})
	}

	assert.True(t, three.WithDelta(paneer.ID, -999).Equal(three.Without(paneer.ID)))
}

func TestCart_QuantitySaturatesAtCap(t *testing.T) {
	c := EmptyCart().WithItem(butterChicken).WithDelta(butterChicken.ID, MaxLineQuantity)

	line, ok := c.Line(butterChicken.ID)
	require.True(t, ok)
	assert.Equal(t, MaxLineQuantity, line.Quantity)

	line, _ = c.WithItem(butterChicken).Line(butterChicken.ID)
	assert.Equal(t, MaxLineQuantity, line.Quantity)

	assert.Equal(t, Amount(340*MaxLineQuantity), Total(c))
	require.NoError(t, c.Validate())
}

func TestCart_WithoutIsIdempotent(t *testing.T) {
	c := EmptyCart().WithItem(paneer).WithItem(biryani)

	once := c.Without(paneer.ID)
	twice := once.Without(paneer.ID)

	assert.True(t, once.Equal(twice))
	assert.Len(t, once.Lines, 1)
	assert.True(t, c.Without(404).Equal(c))
}

func TestCart_TotalAndCount(t *testing.T) {
	assert.Equal(t, Amount(0), Total(EmptyCart()))

	c := EmptyCart().WithItem(tomatoSoup).WithItem(paneer).WithItem(biryani)
	assert.Equal(t, Amount(750), Total(c))
	assert.Equal(t, 3, c.Count())

	c = c.WithDelta(biryani.ID, 2)
	var want Amount
	for _, l := range c.Lines {
		want += l.Price * Amount(l.Quantity)
	}
	assert.Equal(t, want, Total(c))
	assert.Equal(t, 5, c.Count())
}

func TestCart_KeepsInsertionOrder(t *testing.T) {
	c := EmptyCart().WithItem(biryani).WithItem(tomatoSoup).WithItem(biryani)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, biryani.ID, c.Lines[0].ID)
	assert.Equal(t, tomatoSoup.ID, c.Lines[1].ID)
}

func TestCart_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cart    Cart
		wantErr bool
	}{
		{"empty", EmptyCart(), false},
		{"valid", EmptyCart().WithItem(paneer), false},
		{"duplicate ids", Cart{Lines: []OrderLine{NewOrderLine(paneer, 1), NewOrderLine(paneer, 2)}}, true},
		{"zero quantity", Cart{Lines: []OrderLine{NewOrderLine(paneer, 0)}}, true},
		{"negative price", Cart{Lines: []OrderLine{{ID: 1, Price: -1, Quantity: 1, Category: Veg}}}, true},
		{"unknown category", Cart{Lines: []OrderLine{{ID: 1, Price: 1, Quantity: 1, Category: "vegan"}}}, true},
		{"quantity above cap", Cart{Lines: []OrderLine{NewOrderLine(paneer, MaxLineQuantity+1)}}, true},
		{"quantity at cap", Cart{Lines: []OrderLine{NewOrderLine(paneer, MaxLineQuantity)}}, false},
		{"subtotal overflows", Cart{Lines: []OrderLine{{ID: 1, Price: math.MaxInt64 / 2, Quantity: 3, Category: Veg}}}, true},
		{"total overflows", Cart{Lines: []OrderLine{
			{ID: 1, Price: math.MaxInt64/2 + 1, Quantity: 1, Category: Veg},
			{ID: 2, Price: math.MaxInt64/2 + 1, Quantity: 1, Category: Veg},
		}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cart.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCart_DenormalizesAtAddTime(t *testing.T) {
	item := paneer
	c := EmptyCart().WithItem(item)

	item.Price = 999
	item.Name = "Renamed"
	c = c.WithItem(item)

	line, _ := c.Line(paneer.ID)
	assert.Equal(t, Amount(280), line.Price)
	assert.Equal(t, "Paneer Butter Masala", line.Name)
	assert.Equal(t, 2, line.Quantity)
}
