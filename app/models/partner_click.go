package models

import (
	"time"
)

// PartnerClick is a write-once referral-click event used for attribution and
// analytics. It is never updated after creation.
type PartnerClick struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	PartnerID  uint      `gorm:"not null;index" json:"partner_id"`
	Partner    Partner   `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	IPAddress  string    `gorm:"type:varchar(45)" json:"-"`
	UserAgent  string    `gorm:"type:varchar(255)" json:"-"`
	Referrer   string    `gorm:"type:varchar(500)" json:"referrer"`
	LandingURL string    `gorm:"type:varchar(500)" json:"landing_url"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
