package dto

// ProfileUpdateRequest carries optional profile field updates. Nil fields
// are left untouched.
type ProfileUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	HomeCourse  *string  `json:"home_course,omitempty" validate:"omitempty,max=255"`
	Handicap    *float64 `json:"handicap,omitempty" validate:"omitempty,gte=-10,lte=54"`
	MissPattern *string  `json:"miss_pattern,omitempty" validate:"omitempty,max=255"`
	Strengths   *string  `json:"strengths,omitempty" validate:"omitempty,max=512"`
}

// LinkGHINRequest links an external handicap-service number to the account.
type LinkGHINRequest struct {
	GHINNumber string `json:"ghin_number" validate:"required,numeric,min=4,max=10"`
}

// CreditsResponse reports the caller's remaining balance and plan.
type CreditsResponse struct {
	Credits          int    `json:"credits"`
	SubscriptionTier string `json:"subscription_tier"`
	Unlimited        bool   `json:"unlimited"`
}
