package sync

import (
	"context"
	"testing"
	"time"

	"inventory-sync/core/utils"
	"inventory-sync/feature/inventory/models"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func slotColumns() []string {
	return []string{"id", "availability_id", "provider_slot_id", "start_time", "end_time", "variant_id", "currency_code", "remaining"}
}

func testSnapshot() []SlotRecord {
	return []SlotRecord{
		{
			ProviderSlotID: "S1",
			StartTime:      "10:00",
			EndTime:        "11:00",
			VariantID:      2,
			CurrencyCode:   "USD",
			Remaining:      5,
			PaxAvailability: []PaxRecord{
				{
					Type:      "adult",
					Name:      "Adult",
					Price:     models.Price{FinalPrice: 50, OriginalPrice: 60, CurrencyCode: "USD"},
					Min:       1,
					Max:       5,
					Remaining: 5,
					IsPrimary: true,
				},
			},
		},
	}
}

func TestMerge_FreshSnapshot(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	mock.ExpectBegin()

	// Availability upsert: miss then insert
	mock.ExpectQuery("SELECT \\* FROM `availabilities`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "date"}))
	mock.ExpectExec("INSERT INTO `availabilities`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	// Cross-date identity lookup: nothing stored yet
	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE provider_slot_id IN").
		WillReturnRows(sqlmock.NewRows(slotColumns()))

	// No current slots under the availability, nothing to purge
	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE availability_id").
		WillReturnRows(sqlmock.NewRows(slotColumns()))

	mock.ExpectExec("INSERT INTO `time_slots`").
		WillReturnResult(sqlmock.NewResult(10, 1))

	// Pax type does not exist yet
	mock.ExpectQuery("SELECT \\* FROM `pax_types`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "name", "description"}))
	mock.ExpectExec("INSERT INTO `pax_types`").
		WillReturnResult(sqlmock.NewResult(3, 1))

	mock.ExpectExec("INSERT INTO `pax_availabilities`").
		WithArgs(uint(10), uint(3), sqlmock.AnyArg(), 1, 5, 5, true).
		WillReturnResult(sqlmock.NewResult(5, 1))

	mock.ExpectCommit()

	err := engine.Merge(context.Background(), 14, "20250601", testSnapshot())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerge_ReparentsSlotFromOtherDate(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	mock.ExpectBegin()

	// Availability for the new date is created
	mock.ExpectQuery("SELECT \\* FROM `availabilities`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "date"}))
	mock.ExpectExec("INSERT INTO `availabilities`").
		WillReturnResult(sqlmock.NewResult(2, 1))

	// S1 already exists under availability 1 (another date)
	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE provider_slot_id IN").
		WillReturnRows(sqlmock.NewRows(slotColumns()).
			AddRow(10, 1, "S1", "09:00", "10:00", 2, "USD", 9))

	// The new availability has no slots of its own
	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE availability_id").
		WillReturnRows(sqlmock.NewRows(slotColumns()))

	// Reuse path: wipe pax rows, update in place (no second slot insert)
	mock.ExpectExec("DELETE FROM `pax_availabilities`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `time_slots` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Pax type already known
	mock.ExpectQuery("SELECT \\* FROM `pax_types`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "name", "description"}).
			AddRow(3, "adult", "Adult", ""))

	mock.ExpectExec("INSERT INTO `pax_availabilities`").
		WithArgs(uint(10), uint(3), sqlmock.AnyArg(), 1, 5, 5, true).
		WillReturnResult(sqlmock.NewResult(6, 1))

	mock.ExpectCommit()

	err := engine.Merge(context.Background(), 14, "20250602", testSnapshot())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerge_SameDateRedeliveryReusesSlot(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	snapshot := testSnapshot()
	snapshot[0].Remaining = 3
	snapshot[0].PaxAvailability[0].Remaining = 3

	mock.ExpectBegin()

	// Availability already exists for this (product, date)
	mock.ExpectQuery("SELECT \\* FROM `availabilities`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "date"}).
			AddRow(2, 14, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	// The identity lookup runs before the purge, so the date's own slot is
	// found and kept instead of being recreated under a new surrogate id.
	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE provider_slot_id IN").
		WillReturnRows(sqlmock.NewRows(slotColumns()).
			AddRow(10, 2, "S1", "10:00", "11:00", 2, "USD", 5))

	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE availability_id").
		WillReturnRows(sqlmock.NewRows(slotColumns()).
			AddRow(10, 2, "S1", "10:00", "11:00", 2, "USD", 5))

	mock.ExpectExec("DELETE FROM `pax_availabilities`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `time_slots` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("SELECT \\* FROM `pax_types`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "name", "description"}).
			AddRow(3, "adult", "Adult", ""))

	// Remaining drops from 5 to 3 on the recreated pax row
	mock.ExpectExec("INSERT INTO `pax_availabilities`").
		WithArgs(uint(10), uint(3), sqlmock.AnyArg(), 1, 5, 3, true).
		WillReturnResult(sqlmock.NewResult(7, 1))

	mock.ExpectCommit()

	err := engine.Merge(context.Background(), 14, "20250601", snapshot)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerge_PaxTypeInsertRaceReadsWinner(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	mock.ExpectBegin()

	mock.ExpectQuery("SELECT \\* FROM `availabilities`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "date"}))
	mock.ExpectExec("INSERT INTO `availabilities`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE provider_slot_id IN").
		WillReturnRows(sqlmock.NewRows(slotColumns()))
	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE availability_id").
		WillReturnRows(sqlmock.NewRows(slotColumns()))

	mock.ExpectExec("INSERT INTO `time_slots`").
		WillReturnResult(sqlmock.NewResult(10, 1))

	// The lookup misses, the insert loses the race to a concurrent merge,
	// and the re-read picks up the winning row.
	mock.ExpectQuery("SELECT \\* FROM `pax_types`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "name", "description"}))
	mock.ExpectExec("INSERT INTO `pax_types`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'adult'"})
	mock.ExpectQuery("SELECT \\* FROM `pax_types`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "name", "description"}).
			AddRow(3, "adult", "Adult", ""))

	// The pax row references the winner's id, not a new one.
	mock.ExpectExec("INSERT INTO `pax_availabilities`").
		WithArgs(uint(10), uint(3), sqlmock.AnyArg(), 1, 5, 5, true).
		WillReturnResult(sqlmock.NewResult(5, 1))

	mock.ExpectCommit()

	err := engine.Merge(context.Background(), 14, "20250601", testSnapshot())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerge_PurgesSlotsAbsentFromSnapshot(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	mock.ExpectBegin()

	mock.ExpectQuery("SELECT \\* FROM `availabilities`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "date"}).
			AddRow(2, 14, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	// Empty snapshot: no identity lookup rows are requested, the date's
	// stale slots are deleted, children first.
	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE availability_id").
		WillReturnRows(sqlmock.NewRows(slotColumns()).
			AddRow(10, 2, "S1", "10:00", "11:00", 2, "USD", 5).
			AddRow(11, 2, "S2", "12:00", "13:00", 2, "USD", 1))

	mock.ExpectExec("DELETE FROM `pax_availabilities`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `time_slots`").
		WillReturnResult(sqlmock.NewResult(0, 2))

	mock.ExpectCommit()

	err := engine.Merge(context.Background(), 14, "20250601", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerge_RepeatedProviderSlotIDLastRecordWins(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	// The provider delivers S1 twice; only the second record's values may
	// reach storage, and only one slot row may be created.
	snapshot := append(testSnapshot(), testSnapshot()...)
	snapshot[1].Remaining = 3
	snapshot[1].PaxAvailability[0].Remaining = 3

	mock.ExpectBegin()

	mock.ExpectQuery("SELECT \\* FROM `availabilities`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "date"}))
	mock.ExpectExec("INSERT INTO `availabilities`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE provider_slot_id IN").
		WillReturnRows(sqlmock.NewRows(slotColumns()))
	mock.ExpectQuery("SELECT \\* FROM `time_slots` WHERE availability_id").
		WillReturnRows(sqlmock.NewRows(slotColumns()))

	mock.ExpectExec("INSERT INTO `time_slots`").
		WillReturnResult(sqlmock.NewResult(10, 1))

	mock.ExpectQuery("SELECT \\* FROM `pax_types`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "name", "description"}).
			AddRow(3, "adult", "Adult", ""))

	mock.ExpectExec("INSERT INTO `pax_availabilities`").
		WithArgs(uint(10), uint(3), sqlmock.AnyArg(), 1, 5, 3, true).
		WillReturnResult(sqlmock.NewResult(5, 1))

	mock.ExpectCommit()

	err := engine.Merge(context.Background(), 14, "20250601", snapshot)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerge_InvalidDateFailsBeforeStorage(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	err := engine.Merge(context.Background(), 14, "June 1st", testSnapshot())
	assert.ErrorIs(t, err, utils.ErrInvalidDate)

	// No transaction may have been opened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerge_StorageFailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `availabilities`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := engine.Merge(context.Background(), 14, "20250601", testSnapshot())
	require.Error(t, err)

	var mergeErr *MergeError
	assert.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, uint(14), mergeErr.ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
