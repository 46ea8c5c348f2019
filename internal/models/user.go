package models

import "time"

// Subscription tiers. Pro users have unlimited analyses.
const (
	TierFree = "free"
	TierPro  = "pro"
)

// User is an account identity plus golfer profile and billing state. Credits
// and subscription fields are mutated only by the auth, billing and analysis
// services, never by the pure analysis pipeline.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Name         string `gorm:"size:255" json:"name"`

	HomeCourse  string   `gorm:"size:255" json:"home_course"`
	Handicap    *float64 `json:"handicap,omitempty"`
	MissPattern string   `gorm:"size:255" json:"miss_pattern"`
	Strengths   string   `gorm:"size:512" json:"strengths"`

	SubscriptionTier     string  `gorm:"size:32;not null;default:free" json:"subscription_tier"`
	Credits              int     `gorm:"not null;default:0" json:"credits"`
	StripeCustomerID     *string `gorm:"size:64;index" json:"-"`
	StripeSubscriptionID *string `gorm:"size:64" json:"-"`

	GHINNumber *string `gorm:"size:32;index" json:"ghin_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPro reports whether the user is on the unlimited plan.
func (u User) IsPro() bool {
	return u.SubscriptionTier == TierPro
}
