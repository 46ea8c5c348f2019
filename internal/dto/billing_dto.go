package dto

// Checkout plans accepted by the billing endpoint.
const (
	PlanCreditsSmall = "credits_5"
	PlanCreditsLarge = "credits_20"
	PlanProMonthly   = "pro_monthly"
)

// CheckoutRequest asks for a payment-processor checkout session. Redirect
// URLs fall back to the configured defaults when omitted.
type CheckoutRequest struct {
	Plan       string `json:"plan" validate:"required,oneof=credits_5 credits_20 pro_monthly"`
	SuccessURL string `json:"success_url" validate:"omitempty,url"`
	CancelURL  string `json:"cancel_url" validate:"omitempty,url"`
}

// CheckoutResponse returns the hosted checkout URL.
type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}
