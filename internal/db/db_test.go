package db_test

import (
	"testing"
	"time"

	"cryptonest/internal/db"
	"cryptonest/internal/db/dbtest"
	"cryptonest/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormLogsGoThroughLogrus(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	gdb, err := db.Open(db.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared", log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	hook.Reset()
	require.NoError(t, gdb.Exec("SELECT 1").Error)

	var sqlLines int
	for _, e := range hook.AllEntries() {
		if e.Data["component"] == "gorm" {
			sqlLines++
			assert.Equal(t, logrus.DebugLevel, e.Level)
			assert.Contains(t, e.Message, "SELECT 1")
		}
	}
	assert.Equal(t, 1, sqlLines)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := db.Open("oracle", "whatever", dbtest.Logger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestMigrateCreatesTables(t *testing.T) {
	gdb := dbtest.New(t)
	assert.True(t, gdb.Migrator().HasTable(&domain.User{}))
	assert.True(t, gdb.Migrator().HasTable(&domain.Lot{}))
	assert.True(t, gdb.Migrator().HasIndex(&domain.User{}, "Email"))
}

func TestUniqueEmailIsTranslated(t *testing.T) {
	gdb := dbtest.New(t)
	require.NoError(t, gdb.Create(&domain.User{Name: "Ann", Email: "ann@example.com", Password: "x"}).Error)
	err := gdb.Create(&domain.User{Name: "Ann 2", Email: "ann@example.com", Password: "y"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDeletingUserCascadesToLots(t *testing.T) {
	gdb := dbtest.New(t)
	u := domain.User{Name: "Bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, gdb.Create(&u).Error)
	lot := domain.Lot{UserID: u.ID, Symbol: "BTC", BuyPrice: 100, Quantity: 1, BuyDate: time.Now()}
	require.NoError(t, gdb.Create(&lot).Error)

	require.NoError(t, gdb.Delete(&u).Error)

	var count int64
	require.NoError(t, gdb.Model(&domain.Lot{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLotHookRejectsInvalidRows(t *testing.T) {
	gdb := dbtest.New(t)
	u := domain.User{Name: "Cy", Email: "cy@example.com", Password: "x"}
	require.NoError(t, gdb.Create(&u).Error)
	now := time.Now()

	tests := []struct {
		name string
		lot  domain.Lot
	}{
		{name: "NoOwner", lot: domain.Lot{Symbol: "BTC", BuyPrice: 1, Quantity: 1, BuyDate: now}},
		{name: "LowerCaseSymbol", lot: domain.Lot{UserID: u.ID, Symbol: "btc", BuyPrice: 1, Quantity: 1, BuyDate: now}},
		{name: "ShortSymbol", lot: domain.Lot{UserID: u.ID, Symbol: "B", BuyPrice: 1, Quantity: 1, BuyDate: now}},
		{name: "OneTwoByteLetter", lot: domain.Lot{UserID: u.ID, Symbol: "É", BuyPrice: 1, Quantity: 1, BuyDate: now}},
		{name: "UnsanitisedSymbol", lot: domain.Lot{UserID: u.ID, Symbol: "é1", BuyPrice: 1, Quantity: 1, BuyDate: now}},
		{name: "LongSymbol", lot: domain.Lot{UserID: u.ID, Symbol: "ABCDEFGHIJK", BuyPrice: 1, Quantity: 1, BuyDate: now}},
		{name: "ZeroPrice", lot: domain.Lot{UserID: u.ID, Symbol: "BTC", Quantity: 1, BuyDate: now}},
		{name: "NegativeQuantity", lot: domain.Lot{UserID: u.ID, Symbol: "BTC", BuyPrice: 1, Quantity: -1, BuyDate: now}},
		{name: "NoDate", lot: domain.Lot{UserID: u.ID, Symbol: "BTC", BuyPrice: 1, Quantity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lot := tt.lot
			err := gdb.Create(&lot).Error
			_, ok := domain.IsValidation(err)
			assert.True(t, ok, "got %v", err)
		})
	}

	ok := domain.Lot{UserID: u.ID, Symbol: "ETH", BuyPrice: 1, Quantity: 1, BuyDate: now}
	require.NoError(t, gdb.Create(&ok).Error)
	assert.Equal(t, "ETH", ok.Name)
}
