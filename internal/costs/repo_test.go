package costs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
)

func setupCostsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	entries := `
CREATE TABLE IF NOT EXISTS cost_entries (
  id TEXT PRIMARY KEY,
  entry_date DATE NOT NULL,
  category TEXT NOT NULL,
  room_id TEXT,
  batch_id TEXT,
  amount TEXT NOT NULL,
  note TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(entries).Error)
	return db
}

func newCostEntry(t *testing.T, repo Repository, date time.Time, category enums.CostCategory, roomID, batchID *uuid.UUID, amount string) *models.CostEntry {
	t.Helper()
	entry, err := repo.Create(context.Background(), &models.CostEntry{
		ID:        uuid.New(),
		EntryDate: date,
		Category:  category,
		RoomID:    roomID,
		BatchID:   batchID,
		Amount:    decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return entry
}

func TestCostRepositoryListFilters(t *testing.T) {
	db := setupCostsTestDB(t)
	repo := NewRepository(db)

	roomID := uuid.New()
	batchID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	newCostEntry(t, repo, day, enums.CostCategoryNutrients, &roomID, nil, "120.00")
	newCostEntry(t, repo, day.AddDate(0, 0, 5), enums.CostCategoryLabor, nil, &batchID, "300.00")
	newCostEntry(t, repo, day.AddDate(0, 0, 20), enums.CostCategoryLabor, &roomID, nil, "55.25")

	byRoom, err := repo.List(context.Background(), ListFilter{RoomID: &roomID})
	require.NoError(t, err)
	assert.Len(t, byRoom, 2)

	category := enums.CostCategoryLabor.String()
	from := day.AddDate(0, 0, 1)
	to := day.AddDate(0, 0, 10)
	windowed, err := repo.List(context.Background(), ListFilter{Category: &category, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, batchID, *windowed[0].BatchID)
}

func TestCostRepositorySumForGrow(t *testing.T) {
	db := setupCostsTestDB(t)
	repo := NewRepository(db)

	roomID := uuid.New()
	batchID := uuid.New()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	// In window: pinned to the batch plus pinned to the room.
	newCostEntry(t, repo, start.AddDate(0, 0, 2), enums.CostCategoryNutrients, nil, &batchID, "100.00")
	newCostEntry(t, repo, start.AddDate(0, 0, 9), enums.CostCategorySupplies, &roomID, nil, "25.50")
	// Outside window.
	newCostEntry(t, repo, start.AddDate(0, 0, -3), enums.CostCategoryLabor, nil, &batchID, "999.00")
	// Unrelated room.
	otherRoom := uuid.New()
	newCostEntry(t, repo, start.AddDate(0, 0, 4), enums.CostCategoryRent, &otherRoom, nil, "500.00")

	total, err := repo.SumForGrow(context.Background(), batchID, &roomID, start, end)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("125.50")), "got %s", total)
}

func TestCostRepositorySumForGrowNoRows(t *testing.T) {
	db := setupCostsTestDB(t)
	repo := NewRepository(db)

	total, err := repo.SumForGrow(context.Background(), uuid.New(), nil, time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
