package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetPartnerRepository returns the partner repository instance
func (f *Factory) GetPartnerRepository() PartnerRepository {
	return f.GetRepositories().Partner
}

// GetOfferRepository returns the offer repository instance
func (f *Factory) GetOfferRepository() OfferRepository {
	return f.GetRepositories().Offer
}

// GetVoucherRepository returns the voucher repository instance
func (f *Factory) GetVoucherRepository() VoucherRepository {
	return f.GetRepositories().Voucher
}

// GetRedemptionRepository returns the redemption repository instance
func (f *Factory) GetRedemptionRepository() RedemptionRepository {
	return f.GetRepositories().Redemption
}

// GetConversionRepository returns the conversion repository instance
func (f *Factory) GetConversionRepository() ConversionRepository {
	return f.GetRepositories().Conversion
}

// GetClickRepository returns the click repository instance
func (f *Factory) GetClickRepository() ClickRepository {
	return f.GetRepositories().Click
}

// Global factory instance
var globalFactory *Factory
var factoryMu sync.Mutex

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	globalFactory = NewFactory(db)
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
