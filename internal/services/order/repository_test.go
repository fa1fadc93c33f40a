package order

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-cart/internal/database"
	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
)

var paneer = models.CatalogItem{ID: 3, Name: "Paneer Butter Masala", Price: 280, Image: "paneer.jpg", Category: models.Veg}

func testOrder(userID string) *models.PlacedOrder {
	cart := models.EmptyCart().WithItem(paneer).WithItem(paneer)
	return &models.PlacedOrder{
		UserID:        userID,
		Lines:         cart.Lines,
		Quote:         models.NewQuote(models.Total(cart), 500, 50),
		PaymentMethod: models.PaymentCard,
		PaymentRef:    "PAY_test",
		Status:        models.StatusPaid,
	}
}

func exerciseRepository(t *testing.T, repo Repository) {
	ctx := context.Background()

	first := testOrder("user-1")
	require.NoError(t, repo.Create(ctx, first))
	second := testOrder("user-1")
	require.NoError(t, repo.Create(ctx, second))
	other := testOrder("user-2")
	require.NoError(t, repo.Create(ctx, other))

	assert.NotEqual(t, first.Number, second.Number)
	assert.Regexp(t, `^ORD_\d{8}_\d{3}$`, first.Number)
	assert.False(t, first.CreatedAt.IsZero())

	got, err := repo.GetByNumber(ctx, first.Number)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, got.UserID)
	assert.Equal(t, first.Quote, got.Quote)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, models.Amount(280), got.Lines[0].Price)

	_, err = repo.GetByNumber(ctx, "ORD_19700101_999")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(list), 2)
	for _, o := range list {
		assert.Equal(t, "user-1", o.UserID)
	}
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestMemoryRepository_NumbersRestartEachDay(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	day := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	repo.now = func() time.Time { return day }

	a := testOrder("u")
	require.NoError(t, repo.Create(ctx, a))
	b := testOrder("u")
	require.NoError(t, repo.Create(ctx, b))

	day = day.Add(2 * time.Minute)
	c := testOrder("u")
	require.NoError(t, repo.Create(ctx, c))

	assert.Equal(t, "ORD_20240301_001", a.Number)
	assert.Equal(t, "ORD_20240301_002", b.Number)
	assert.Equal(t, "ORD_20240302_001", c.Number)

	list, err := repo.ListByUser(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, c.Number, list[0].Number, "newest first")
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	o := testOrder("u")
	require.NoError(t, repo.Create(ctx, o))
	o.Lines[0].Quantity = 99

	got, err := repo.GetByNumber(ctx, o.Number)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lines[0].Quantity)
}

func TestPostgresRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, logger.Discard())
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations(ctx))

	exerciseRepository(t, NewPostgresRepository(db))
}
