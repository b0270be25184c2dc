package random

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/lunch-app/internal/model"
)

func newTestPicker(seed uint64) *Picker {
	return NewPicker(rand.NewPCG(seed, seed+1))
}

func repeat(description string, n int) []model.Order {
	res := make([]model.Order, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, model.Order{
			UserName:    "test@user.pl",
			Company:     "Pod Koziołkiem",
			Description: description,
			Cost:        decimal.NewFromInt(int64(i)),
			ArrivalTime: model.ArrivalLunch,
		})
	}
	return res
}

func TestPick_NeverSelectsOutsideTopThree(t *testing.T) {
	var orders []model.Order
	orders = append(orders, repeat("Kebab", 4)...)
	orders = append(orders, repeat("Burger", 4)...)
	orders = append(orders, repeat("Cieply_jamnik", 3)...)
	orders = append(orders, repeat("Kosmata_szynka", 3)...)
	orders = append(orders, repeat("szpinak", 1)...)

	p := newTestPicker(42)
	for i := 0; i < 10; i++ {
		c, err := p.Pick(orders, nil)
		require.NoError(t, err)
		assert.NotEqual(t, "szpinak", c.Description)
		assert.NotEqual(t, "Kosmata_szynka", c.Description)
		assert.Contains(t, []string{"Kebab", "Burger", "Cieply_jamnik"}, c.Description)
	}
}

func TestPick_ResolvesToFirstMatchingOrder(t *testing.T) {
	var orders []model.Order
	orders = append(orders, repeat("A", 2)...)
	orders = append(orders, repeat("B", 2)...)
	orders = append(orders, repeat("C", 2)...)

	p := newTestPicker(7)
	c, err := p.Pick(orders, nil)
	require.NoError(t, err)
	assert.True(t, c.Cost.IsZero(), "first matching order has cost 0, got %s", c.Cost)
	assert.Equal(t, model.ArrivalLunch, c.ArrivalTime)
}

func TestPick_FallsBackToCatalogWithoutMenu(t *testing.T) {
	orders := append(repeat("Kebab", 5), repeat("Burger", 1)...)
	foods := []model.Food{
		{ID: 1, Company: "Tomas", Description: "menu item", OType: model.FoodTypeMenu},
		{ID: 2, Company: "Tomas", Description: "zupa dnia", OType: model.FoodTypeDishOfTheDay, Cost: decimal.NewFromInt(12)},
	}

	p := newTestPicker(1)
	for i := 0; i < 10; i++ {
		c, err := p.Pick(orders, foods)
		require.NoError(t, err)
		assert.Equal(t, "zupa dnia", c.Description)
		assert.Equal(t, "Tomas", c.Company)
	}
}

func TestPick_NoCandidate(t *testing.T) {
	foods := []model.Food{{Description: "menu item", OType: model.FoodTypeMenu}}

	_, err := newTestPicker(1).Pick(repeat("Kebab", 2), foods)
	if !errors.Is(err, ErrNoCandidateAvailable) {
		t.Fatalf("expected ErrNoCandidateAvailable, got %v", err)
	}
}

func TestPick_StripsMarker(t *testing.T) {
	foods := []model.Food{{Company: "Tomas", Description: Marker + "pierogi", OType: model.FoodTypeDishOfTheDay}}

	c, err := newTestPicker(3).Pick(nil, foods)
	require.NoError(t, err)
	assert.Equal(t, "pierogi", c.Description)

	o := NewOrder(c, "test_user", CourageLunch, time.Now())
	assert.Equal(t, Marker+"pierogi", o.Description)
}

func TestNewOrder_ArrivalFromCourage(t *testing.T) {
	c := Candidate{Company: "Tomas", Description: "zupa", Cost: decimal.NewFromInt(9)}
	now := time.Date(2015, 2, 10, 10, 0, 0, 0, time.Local)

	lunch := NewOrder(c, "test_user", CourageLunch, now)
	assert.Equal(t, model.ArrivalLunch, lunch.ArrivalTime)
	assert.Equal(t, "test_user", lunch.UserName)
	assert.Equal(t, now, lunch.Date)

	afternoon := NewOrder(c, "test_user", CourageAfternoon, now)
	assert.Equal(t, model.ArrivalAfternoon, afternoon.ArrivalTime)
}

func TestParseCourage(t *testing.T) {
	c, err := ParseCourage("2")
	require.NoError(t, err)
	assert.Equal(t, CourageAfternoon, c)
	assert.True(t, c.Commits())
	assert.False(t, CouragePreview.Commits())

	_, err = ParseCourage("5")
	assert.ErrorIs(t, err, ErrInvalidCourage)
}
