package securities

import (
	"context"
	"testing"

	"folio-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSecuritiesTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.Security{}, &domain.Trade{}, &domain.TradeHistoryEntry{},
	))
	return &Service{DB: db}, db
}

func TestCreateSecurity_DuplicateSymbol(t *testing.T) {
	svc, _ := setupSecuritiesTest(t)

	_, err := svc.CreateSecurity(context.Background(), CreateSecurityInput{Name: "Acme Corp", Symbol: "ACME"})
	require.NoError(t, err)

	_, err = svc.CreateSecurity(context.Background(), CreateSecurityInput{Name: "Acme Clone", Symbol: "ACME"})
	var uniqueErr *domain.UniquenessError
	require.ErrorAs(t, err, &uniqueErr)
	assert.Equal(t, "symbol", uniqueErr.Field)
	assert.Equal(t, "ACME", uniqueErr.Value)

	// Case-sensitive uniqueness: a different casing is a different symbol.
	_, err = svc.CreateSecurity(context.Background(), CreateSecurityInput{Name: "Acme Lower", Symbol: "acme"})
	assert.NoError(t, err)
}

func TestCreateSecurity_RequiredFields(t *testing.T) {
	svc, _ := setupSecuritiesTest(t)

	_, err := svc.CreateSecurity(context.Background(), CreateSecurityInput{Symbol: "ACME"})
	var fieldErr *domain.FieldConstraintError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "name", fieldErr.Field)

	_, err = svc.CreateSecurity(context.Background(), CreateSecurityInput{Name: "Acme Corp", Symbol: "  "})
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "symbol", fieldErr.Field)
}

func TestDeactivateSecurity_FreesSymbolAndHidesTrades(t *testing.T) {
	svc, db := setupSecuritiesTest(t)

	sec, err := svc.CreateSecurity(context.Background(), CreateSecurityInput{Name: "Acme Corp", Symbol: "ACME"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.Trade{
		SecurityID: sec.SecurityID,
		Category:   domain.CategoryBought,
		Quantity:   5,
		Price:      decimal.RequireFromString("10.00"),
		Active:     true,
	}).Error)

	require.NoError(t, svc.DeactivateSecurity(context.Background(), sec.SecurityID))

	_, err = svc.GetSecurity(context.Background(), sec.SecurityID)
	assert.ErrorIs(t, err, domain.ErrSecurityNotFound)

	var activeTrades int64
	db.Model(&domain.Trade{}).Where("active = ?", true).Count(&activeTrades)
	assert.Zero(t, activeTrades)

	// Symbol is free again once the holder is inactive.
	_, err = svc.CreateSecurity(context.Background(), CreateSecurityInput{Name: "Acme Reborn", Symbol: "ACME"})
	assert.NoError(t, err)

	err = svc.DeactivateSecurity(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrSecurityNotFound)
}

func TestUpdateSecurity(t *testing.T) {
	svc, _ := setupSecuritiesTest(t)

	a, err := svc.CreateSecurity(context.Background(), CreateSecurityInput{Name: "Acme Corp", Symbol: "ACME"})
	require.NoError(t, err)
	_, err = svc.CreateSecurity(context.Background(), CreateSecurityInput{Name: "Beta Ltd", Symbol: "BETA"})
	require.NoError(t, err)

	newName := "Acme Corporation"
	updated, err := svc.UpdateSecurity(context.Background(), a.SecurityID, UpdateSecurityInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", updated.Name)
	assert.Equal(t, "ACME", updated.Symbol)

	conflict := "BETA"
	_, err = svc.UpdateSecurity(context.Background(), a.SecurityID, UpdateSecurityInput{Symbol: &conflict})
	var uniqueErr *domain.UniquenessError
	require.ErrorAs(t, err, &uniqueErr)

	// Keeping its own symbol is not a conflict.
	same := "ACME"
	_, err = svc.UpdateSecurity(context.Background(), a.SecurityID, UpdateSecurityInput{Symbol: &same})
	assert.NoError(t, err)
}

func TestListSecurities_TradeCounts(t *testing.T) {
	svc, db := setupSecuritiesTest(t)

	a, err := svc.CreateSecurity(context.Background(), CreateSecurityInput{Name: "Acme Corp", Symbol: "ACME"})
	require.NoError(t, err)
	_, err = svc.CreateSecurity(context.Background(), CreateSecurityInput{Name: "Beta Ltd", Symbol: "BETA"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&domain.Trade{
			SecurityID: a.SecurityID,
			Category:   domain.CategoryBought,
			Quantity:   1,
			Price:      decimal.RequireFromString("10.00"),
			Active:     true,
		}).Error)
	}

	listings, err := svc.ListSecurities(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	counts := map[string]int64{}
	for _, l := range listings {
		counts[l.Symbol] = l.NumberOfTrades
	}
	assert.Equal(t, int64(3), counts["ACME"])
	assert.Equal(t, int64(0), counts["BETA"])
}
