package trades

import (
	"context"
	"sync"
	"testing"

	"folio-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTradesTest(t *testing.T) (*Service, *domain.Security) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.Security{}, &domain.Trade{}, &domain.TradeHistoryEntry{},
	))

	sec := &domain.Security{Name: "Acme Corp", Symbol: "ACME", Active: true}
	require.NoError(t, db.Create(sec).Error)

	return &Service{DB: db}, sec
}

func buy(t *testing.T, svc *Service, secID uuid.UUID, qty int64, price string) *domain.Trade {
	t.Helper()
	trade, err := svc.CreateTrade(context.Background(), CreateTradeInput{
		SecurityID: secID,
		Category:   domain.CategoryBought,
		Quantity:   qty,
		Price:      decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return trade
}

func sell(svc *Service, secID uuid.UUID, qty int64, price string) (*domain.Trade, error) {
	return svc.CreateTrade(context.Background(), CreateTradeInput{
		SecurityID: secID,
		Category:   domain.CategorySold,
		Quantity:   qty,
		Price:      decimal.RequireFromString(price),
	})
}

func TestCreateTrade_FieldConstraints(t *testing.T) {
	svc, sec := setupTradesTest(t)

	cases := []struct {
		name  string
		in    CreateTradeInput
		field string
	}{
		{"zero quantity", CreateTradeInput{SecurityID: sec.SecurityID, Category: domain.CategoryBought, Quantity: 0, Price: decimal.New(10, 0)}, "quantity"},
		{"quantity above max", CreateTradeInput{SecurityID: sec.SecurityID, Category: domain.CategoryBought, Quantity: 10000000, Price: decimal.New(10, 0)}, "quantity"},
		{"negative price", CreateTradeInput{SecurityID: sec.SecurityID, Category: domain.CategoryBought, Quantity: 1, Price: decimal.RequireFromString("-1.00")}, "price"},
		{"three decimal price", CreateTradeInput{SecurityID: sec.SecurityID, Category: domain.CategoryBought, Quantity: 1, Price: decimal.RequireFromString("10.005")}, "price"},
		{"bad category", CreateTradeInput{SecurityID: sec.SecurityID, Category: "shorted", Quantity: 1, Price: decimal.New(10, 0)}, "category"},
		{"missing security", CreateTradeInput{Category: domain.CategoryBought, Quantity: 1, Price: decimal.New(10, 0)}, "security_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTrade(context.Background(), tc.in)
			var fieldErr *domain.FieldConstraintError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.field, fieldErr.Field)
		})
	}

	// Nothing was admitted, so no trades and no history.
	var tradeCount, historyCount int64
	svc.DB.Model(&domain.Trade{}).Count(&tradeCount)
	svc.DB.Model(&domain.TradeHistoryEntry{}).Count(&historyCount)
	assert.Zero(t, tradeCount)
	assert.Zero(t, historyCount)
}

func TestCreateTrade_UnknownSecurity(t *testing.T) {
	svc, _ := setupTradesTest(t)

	_, err := svc.CreateTrade(context.Background(), CreateTradeInput{
		SecurityID: uuid.New(),
		Category:   domain.CategoryBought,
		Quantity:   1,
		Price:      decimal.New(10, 0),
	})
	assert.ErrorIs(t, err, domain.ErrSecurityNotFound)
}

func TestCreateTrade_SellWithNoPosition(t *testing.T) {
	svc, sec := setupTradesTest(t)

	_, err := sell(svc, sec.SecurityID, 1, "10.00")
	var qtyErr *domain.InsufficientQuantityError
	require.ErrorAs(t, err, &qtyErr)
	assert.Equal(t, int64(0), qtyErr.Available)
	assert.Equal(t, "no quantity available to sell", qtyErr.Error())
}

func TestCreateTrade_SellExceedsAvailable(t *testing.T) {
	svc, sec := setupTradesTest(t)
	buy(t, svc, sec.SecurityID, 10, "50.00")

	_, err := sell(svc, sec.SecurityID, 12, "55.00")
	var qtyErr *domain.InsufficientQuantityError
	require.ErrorAs(t, err, &qtyErr)
	assert.Equal(t, int64(10), qtyErr.Available)

	// The rejected sell left no trace in the ledger or the audit trail.
	var tradeCount, historyCount int64
	svc.DB.Model(&domain.Trade{}).Count(&tradeCount)
	svc.DB.Model(&domain.TradeHistoryEntry{}).Count(&historyCount)
	assert.Equal(t, int64(1), tradeCount)
	assert.Equal(t, int64(1), historyCount)
}

func TestCreateTrade_SellFullPositionThenNothingLeft(t *testing.T) {
	svc, sec := setupTradesTest(t)
	buy(t, svc, sec.SecurityID, 10, "100.00")
	buy(t, svc, sec.SecurityID, 5, "130.00")

	_, err := sell(svc, sec.SecurityID, 15, "120.00")
	require.NoError(t, err)

	_, err = sell(svc, sec.SecurityID, 1, "120.00")
	var qtyErr *domain.InsufficientQuantityError
	require.ErrorAs(t, err, &qtyErr)
	assert.Equal(t, int64(0), qtyErr.Available)
}

func TestCreateTrade_MirrorsHistoryEntry(t *testing.T) {
	svc, sec := setupTradesTest(t)
	trade := buy(t, svc, sec.SecurityID, 7, "42.50")

	var entries []domain.TradeHistoryEntry
	require.NoError(t, svc.DB.Where("trade_id = ?", trade.TradeID).Find(&entries).Error)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, trade.SecurityID, entry.SecurityID)
	assert.Equal(t, domain.CategoryBought, entry.Category)
	assert.Equal(t, int64(7), entry.Quantity)
	assert.True(t, entry.Price.Equal(decimal.RequireFromString("42.50")))
	assert.NotEmpty(t, entry.Snapshot)
}

func TestCreateTrade_ConcurrentSellsOneWins(t *testing.T) {
	svc, sec := setupTradesTest(t)
	buy(t, svc, sec.SecurityID, 10, "20.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = sell(svc, sec.SecurityID, 10, "25.00")
		}(i)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var qtyErr *domain.InsufficientQuantityError
		require.ErrorAs(t, err, &qtyErr)
		assert.Equal(t, int64(0), qtyErr.Available)
		rejections++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)
}

func TestListTrades_OrderAndFilter(t *testing.T) {
	svc, sec := setupTradesTest(t)
	other := &domain.Security{Name: "Beta Ltd", Symbol: "BETA", Active: true}
	require.NoError(t, svc.DB.Create(other).Error)

	buy(t, svc, sec.SecurityID, 1, "10.00")
	buy(t, svc, other.SecurityID, 2, "20.00")
	buy(t, svc, sec.SecurityID, 3, "30.00")

	all, err := svc.ListTrades(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].Quantity)
	assert.Equal(t, int64(3), all[2].Quantity)

	scoped, err := svc.ListTrades(context.Background(), &sec.SecurityID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	for _, tr := range scoped {
		assert.Equal(t, sec.SecurityID, tr.SecurityID)
	}

	missing := uuid.New()
	_, err = svc.ListTrades(context.Background(), &missing)
	assert.ErrorIs(t, err, domain.ErrSecurityNotFound)
}

func TestGetTrade(t *testing.T) {
	svc, sec := setupTradesTest(t)
	created := buy(t, svc, sec.SecurityID, 4, "11.25")

	got, err := svc.GetTrade(context.Background(), created.TradeID)
	require.NoError(t, err)
	assert.Equal(t, created.TradeID, got.TradeID)

	_, err = svc.GetTrade(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrTradeNotFound)
}
