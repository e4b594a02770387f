package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Staff roles within a partner's scope.
const (
	STAFF_ROLE_STAFF   = "staff"
	STAFF_ROLE_MANAGER = "manager"
)

// PartnerStaff links a user to the partner they act on behalf of. The API key
// stored here is what point-of-sale devices authenticate with; it resolves a
// request to a partner scope and a staff identity.
type PartnerStaff struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;index:ux_partner_staff_user_partner,unique" json:"user_id"`
	User             User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PartnerID        uint           `gorm:"not null;index:ux_partner_staff_user_partner,unique,priority:2" json:"partner_id"`
	Partner          Partner        `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Role             string         `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	IsActive         bool           `gorm:"not null;default:true" json:"is_active"`
	APIKeyHash       string         `gorm:"type:char(64);default:'';index" json:"-"`
	APIKeyPrefix     string         `gorm:"type:varchar(20);default:''" json:"api_key_prefix"`
	APIKeyCreatedAt  *time.Time     `json:"api_key_created_at"`
	APIKeyLastUsedAt *time.Time     `json:"api_key_last_used_at"`
	APIKeyRevokedAt  *time.Time     `json:"api_key_revoked_at"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

var apiKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

const apiKeyPrefix = "pfx_"

// IsManager reports whether this staff member may confirm conversions and run
// administrative partner actions.
func (ps *PartnerStaff) IsManager() bool {
	return ps.Role == STAFF_ROLE_MANAGER
}

// HasActiveAPIKey reports whether this staff member has an active API key configured
func (ps *PartnerStaff) HasActiveAPIKey() bool {
	return ps != nil && ps.APIKeyHash != "" && ps.APIKeyRevokedAt == nil
}

// IssueAPIKey generates a new API key, persists metadata on the struct, and returns the raw secret.
// Callers must persist the struct via the database after invoking this method.
func (ps *PartnerStaff) IssueAPIKey() (string, error) {
	rawKey, prefix, hash, err := generateAPIKeyMaterial()
	if err != nil {
		return "", err
	}
	now := time.Now()
	ps.APIKeyHash = hash
	ps.APIKeyPrefix = prefix
	ps.APIKeyCreatedAt = &now
	ps.APIKeyRevokedAt = nil
	ps.APIKeyLastUsedAt = nil
	return rawKey, nil
}

// RevokeAPIKey clears the stored API key metadata without deleting the record.
func (ps *PartnerStaff) RevokeAPIKey() {
	now := time.Now()
	ps.APIKeyHash = ""
	ps.APIKeyPrefix = ""
	ps.APIKeyRevokedAt = &now
}

// HashAPIKey returns the SHA-256 hash for the provided API key.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}

// GetStaffByAPIKeyHash resolves an active API key hash to its staff record and
// partner. Revoked keys and deactivated staff never resolve.
func GetStaffByAPIKeyHash(db *gorm.DB, hash string) (*PartnerStaff, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var staff PartnerStaff
	err := db.Preload("Partner").
		Where("api_key_hash = ? AND api_key_hash <> '' AND api_key_revoked_at IS NULL AND is_active = ?", trimmed, true).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func generateAPIKeyMaterial() (string, string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", err
	}
	encoded := apiKeyEncoding.EncodeToString(b)
	encoded = strings.ToLower(encoded)
	rawKey := apiKeyPrefix + encoded
	if len(rawKey) < 12 {
		return "", "", "", fmt.Errorf("api key generation failed: key too short")
	}
	prefix := rawKey[:min(12, len(rawKey))]
	hash := HashAPIKey(rawKey)
	return rawKey, prefix, hash, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
