package clicks

import (
	"context"
	"testing"

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
		&models.PartnerOffer{},
		&models.PartnerClick{},
	))

	// Counter increments are best effort; point the cache at a closed port so
	// they fail fast instead of waiting on a dial timeout.
	cache.SetClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}))
	return conn
}

func seedPartner(t *testing.T, db *gorm.DB, active bool) *models.Partner {
	t.Helper()
	p := &models.Partner{
		Name:              "Cafe Milo",
		CommissionType:    models.CommissionPercentOfBill,
		CommissionRate:    decimal.RequireFromString("10"),
		VoucherValidHours: 24,
		IsActive:          active,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestRecordClick(t *testing.T) {
	db := openTestDB(t)
	partner := seedPartner(t, db, true)
	registry := NewRegistryFromDB(db)

	userID := uint(7)
	click, err := registry.Record(context.Background(), RecordInput{
		PartnerID:  partner.ID,
		UserID:     &userID,
		IPAddress:  "203.0.113.9",
		UserAgent:  "Mozilla/5.0",
		Referrer:   "https://blog.example.com/best-cafes",
		LandingURL: "https://perkfox.example.com/p/cafe-milo",
	})
	require.NoError(t, err)
	assert.NotZero(t, click.ID)
	assert.Len(t, click.UUID, 36)

	var stored models.PartnerClick
	require.NoError(t, db.First(&stored, click.ID).Error)
	assert.Equal(t, partner.ID, stored.PartnerID)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, userID, *stored.UserID)
}

func TestRecordClickInactivePartner(t *testing.T) {
	db := openTestDB(t)
	partner := seedPartner(t, db, false)
	registry := NewRegistryFromDB(db)

	_, err := registry.Record(context.Background(), RecordInput{PartnerID: partner.ID})
	assert.ErrorIs(t, err, ErrPartnerUnavailable)

	var count int64
	require.NoError(t, db.Model(&models.PartnerClick{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListActiveOffers(t *testing.T) {
	db := openTestDB(t)
	partner := seedPartner(t, db, true)
	registry := NewRegistryFromDB(db)

	active := &models.PartnerOffer{
		PartnerID:    partner.ID,
		Title:        "Free espresso",
		BenefitType:  models.BenefitFreeItem,
		BenefitValue: decimal.Zero,
		IsActive:     true,
	}
	require.NoError(t, db.Create(active).Error)
	retired := &models.PartnerOffer{
		PartnerID:   partner.ID,
		Title:       "Summer special",
		BenefitType: models.BenefitPercentOff,
		IsActive:    false,
	}
	require.NoError(t, db.Create(retired).Error)

	offers, err := registry.ListActiveOffers(context.Background(), partner.ID)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Free espresso", offers[0].Title)
}

func TestListClicksPaginated(t *testing.T) {
	db := openTestDB(t)
	partner := seedPartner(t, db, true)
	registry := NewRegistryFromDB(db)

	for i := 0; i < 5; i++ {
		_, err := registry.Record(context.Background(), RecordInput{PartnerID: partner.ID})
		require.NoError(t, err)
	}

	clicks, total, err := registry.List(context.Background(), partner.ID, repository.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, clicks, 2)
}
