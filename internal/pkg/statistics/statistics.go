package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/perkfox/perkfox/app/models"
	"github.com/perkfox/perkfox/app/repository"
	"github.com/perkfox/perkfox/internal/pkg/cache"
)

const (
	CacheKeyClicksTotal      = "statistics:partner:%d:clicks:total"
	CacheKeyVouchersTotal    = "statistics:partner:%d:vouchers:total"
	CacheKeyRedemptionsTotal = "statistics:partner:%d:redemptions:total"
	CacheKeyCommission       = "statistics:partner:%d:commission:%s" // status pending/confirmed/paid
	CacheExpiration          = 30 * time.Minute
)

// Summary is the per-partner rollup shown on the partner dashboard.
type Summary struct {
	PartnerID           uint   `json:"partner_id"`
	TotalClicks         int64  `json:"total_clicks"`
	TotalVouchers       int64  `json:"total_vouchers"`
	TotalRedemptions    int64  `json:"total_redemptions"`
	CommissionPending   string `json:"commission_pending"`
	CommissionConfirmed string `json:"commission_confirmed"`
	CommissionPaid      string `json:"commission_paid"`
}

// SeriesPoint is one day of a partner's activity series.
type SeriesPoint struct {
	Date        string `json:"date"`
	Clicks      int64  `json:"clicks"`
	Redemptions int64  `json:"redemptions"`
}

var (
	cacheUpdateMutex    sync.Mutex
	lastCacheUpdate     = map[uint]time.Time{}
	cacheUpdateInterval = 5 * time.Minute
)

// Aggregator computes read-only partner rollups. Totals go through the Redis
// cache with a database fallback; the daily series is always computed from
// the database.
type Aggregator struct {
	repos *repository.Repositories
}

func NewAggregator(repos *repository.Repositories) *Aggregator {
	return &Aggregator{repos: repos}
}

// ShouldUpdateCache reports whether the partner's cached totals are older
// than the refresh interval.
func ShouldUpdateCache(partnerID uint) bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate[partnerID]) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the partner's cached totals when the refresh
// interval has elapsed.
func (a *Aggregator) UpdateCacheIfNeeded(partnerID uint) {
	if ShouldUpdateCache(partnerID) {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := a.UpdateCache(partnerID); err != nil {
			log.Printf("Error updating statistics cache for partner %d: %v", partnerID, err)
		} else {
			lastCacheUpdate[partnerID] = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded to refresh.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = map[uint]time.Time{}
}

// UpdateCache recomputes all cached totals for a partner.
func (a *Aggregator) UpdateCache(partnerID uint) error {
	totalClicks, err := a.repos.Click.CountByPartner(partnerID)
	if err != nil {
		return err
	}
	if err := cache.Set(fmt.Sprintf(CacheKeyClicksTotal, partnerID), strconv.FormatInt(totalClicks, 10), CacheExpiration); err != nil {
		return err
	}

	_, totalVouchers, err := a.repos.Voucher.ListByPartner(partnerID, repository.ListOptions{Limit: 1})
	if err != nil {
		return err
	}
	if err := cache.Set(fmt.Sprintf(CacheKeyVouchersTotal, partnerID), strconv.FormatInt(totalVouchers, 10), CacheExpiration); err != nil {
		return err
	}

	_, totalRedemptions, err := a.repos.Redemption.ListByPartner(partnerID, repository.ListOptions{Limit: 1})
	if err != nil {
		return err
	}
	if err := cache.Set(fmt.Sprintf(CacheKeyRedemptionsTotal, partnerID), strconv.FormatInt(totalRedemptions, 10), CacheExpiration); err != nil {
		return err
	}

	for _, status := range []string{models.ConversionStatusPending, models.ConversionStatusConfirmed, models.ConversionStatusPaid} {
		sum, err := a.repos.Conversion.SumCommissionByStatus(partnerID, status)
		if err != nil {
			return err
		}
		if err := cache.Set(fmt.Sprintf(CacheKeyCommission, partnerID, status), sum, CacheExpiration); err != nil {
			return err
		}
	}
	return nil
}

// GetSummary returns the partner's rollup, preferring cached totals and
// falling back to the database per metric.
func (a *Aggregator) GetSummary(partnerID uint) (*Summary, error) {
	summary := &Summary{PartnerID: partnerID}

	summary.TotalClicks = a.cachedCount(fmt.Sprintf(CacheKeyClicksTotal, partnerID), func() (int64, error) {
		return a.repos.Click.CountByPartner(partnerID)
	})
	summary.TotalVouchers = a.cachedCount(fmt.Sprintf(CacheKeyVouchersTotal, partnerID), func() (int64, error) {
		_, total, err := a.repos.Voucher.ListByPartner(partnerID, repository.ListOptions{Limit: 1})
		return total, err
	})
	summary.TotalRedemptions = a.cachedCount(fmt.Sprintf(CacheKeyRedemptionsTotal, partnerID), func() (int64, error) {
		_, total, err := a.repos.Redemption.ListByPartner(partnerID, repository.ListOptions{Limit: 1})
		return total, err
	})

	var err error
	if summary.CommissionPending, err = a.cachedCommission(partnerID, models.ConversionStatusPending); err != nil {
		return nil, err
	}
	if summary.CommissionConfirmed, err = a.cachedCommission(partnerID, models.ConversionStatusConfirmed); err != nil {
		return nil, err
	}
	if summary.CommissionPaid, err = a.cachedCommission(partnerID, models.ConversionStatusPaid); err != nil {
		return nil, err
	}
	return summary, nil
}

// GetDailySeries returns one point per day over the last `days` days, oldest
// first. Days without activity are filled with zeros.
func (a *Aggregator) GetDailySeries(partnerID uint, days int) ([]SeriesPoint, error) {
	if days <= 0 {
		days = 30
	}
	end := time.Now()
	start := end.AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	clickStats, err := a.repos.Click.GetDailyStats(partnerID, start, end)
	if err != nil {
		return nil, err
	}
	redemptionStats, err := a.repos.Redemption.GetDailyStats(partnerID, start, end)
	if err != nil {
		return nil, err
	}

	clicksByDay := make(map[string]int64, len(clickStats))
	for _, s := range clickStats {
		clicksByDay[s.Date] = s.Count
	}
	redemptionsByDay := make(map[string]int64, len(redemptionStats))
	for _, s := range redemptionStats {
		redemptionsByDay[s.Date] = s.Count
	}

	series := make([]SeriesPoint, 0, days)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format("2006-01-02")
		series = append(series, SeriesPoint{
			Date:        date,
			Clicks:      clicksByDay[date],
			Redemptions: redemptionsByDay[date],
		})
	}
	return series, nil
}

func (a *Aggregator) cachedCount(key string, compute func() (int64, error)) int64 {
	if val, err := cache.Get(key); err == nil {
		if count, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			return count
		}
	}

	count, err := compute()
	if err != nil {
		log.Printf("Error computing statistic %s: %v", key, err)
		return 0
	}
	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching statistic %s: %v", key, err)
	}
	return count
}

func (a *Aggregator) cachedCommission(partnerID uint, status string) (string, error) {
	key := fmt.Sprintf(CacheKeyCommission, partnerID, status)
	if val, err := cache.Get(key); err == nil {
		if _, perr := decimal.NewFromString(val); perr == nil {
			return val, nil
		}
	}

	sum, err := a.repos.Conversion.SumCommissionByStatus(partnerID, status)
	if err != nil {
		return "", err
	}
	if err := cache.Set(key, sum, CacheExpiration); err != nil {
		log.Printf("Error caching statistic %s: %v", key, err)
	}
	return sum, nil
}
