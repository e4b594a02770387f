package statistics

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/perkfox/perkfox/app/models"
	"github.com/perkfox/perkfox/app/repository"
	"github.com/perkfox/perkfox/internal/pkg/cache"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&models.Partner{},
		&models.PartnerClick{},
		&models.Voucher{},
		&models.Redemption{},
		&models.PartnerConversion{},
	))

	// No Redis in unit tests; every read takes the database fallback.
	cache.SetClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}))
	return conn
}

func seedPartner(t *testing.T, db *gorm.DB) *models.Partner {
	t.Helper()
	p := &models.Partner{
		Name:              "Cafe Milo",
		CommissionType:    models.CommissionPercentOfBill,
		CommissionRate:    decimal.RequireFromString("10"),
		VoucherValidHours: 24,
		IsActive:          true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestGetSummary(t *testing.T) {
	db := openTestDB(t)
	partner := seedPartner(t, db)
	other := seedPartner(t, db)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.PartnerClick{
			UUID:      uuidLike(i),
			PartnerID: partner.ID,
		}).Error)
	}
	require.NoError(t, db.Create(&models.PartnerClick{UUID: uuidLike(99), PartnerID: other.ID}).Error)

	require.NoError(t, db.Create(&models.PartnerConversion{
		PartnerID:        partner.ID,
		Type:             models.ConversionTypePhysical,
		CommissionAmount: decimal.RequireFromString("5.00"),
		Status:           models.ConversionStatusConfirmed,
	}).Error)
	require.NoError(t, db.Create(&models.PartnerConversion{
		PartnerID:        partner.ID,
		Type:             models.ConversionTypeDigital,
		CommissionAmount: decimal.RequireFromString("12.50"),
		Status:           models.ConversionStatusConfirmed,
	}).Error)
	require.NoError(t, db.Create(&models.PartnerConversion{
		PartnerID:        partner.ID,
		Type:             models.ConversionTypeDigital,
		CommissionAmount: decimal.RequireFromString("3.00"),
		Status:           models.ConversionStatusPending,
	}).Error)

	agg := NewAggregator(repository.NewRepositories(db))
	summary, err := agg.GetSummary(partner.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalClicks)
	assert.Equal(t, int64(0), summary.TotalVouchers)
	assertDecimalEqual(t, "3.00", summary.CommissionPending)
	assertDecimalEqual(t, "17.50", summary.CommissionConfirmed)
	assertDecimalEqual(t, "0", summary.CommissionPaid)
}

func TestGetDailySeries(t *testing.T) {
	db := openTestDB(t)
	partner := seedPartner(t, db)

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	require.NoError(t, db.Create(&models.PartnerClick{
		UUID:      uuidLike(1),
		PartnerID: partner.ID,
		CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&models.PartnerClick{
		UUID:      uuidLike(2),
		PartnerID: partner.ID,
		CreatedAt: yesterday,
	}).Error)

	agg := NewAggregator(repository.NewRepositories(db))
	series, err := agg.GetDailySeries(partner.ID, 7)
	require.NoError(t, err)
	require.Len(t, series, 7)

	var total int64
	for _, point := range series {
		total += point.Clicks
	}
	assert.Equal(t, int64(2), total)
	assert.Equal(t, now.Format("2006-01-02"), series[6].Date)
	assert.Equal(t, int64(1), series[6].Clicks)
}

func uuidLike(i int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", i)
}

func assertDecimalEqual(t *testing.T, want, got string) {
	t.Helper()
	wantDec := decimal.RequireFromString(want)
	gotDec, err := decimal.NewFromString(got)
	require.NoError(t, err)
	assert.True(t, wantDec.Equal(gotDec), "want %s, got %s", want, got)
}
