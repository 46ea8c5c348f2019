package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/gorm"

	"github.com/fairwaylabs/caddie-api/internal/dto"
	"github.com/fairwaylabs/caddie-api/internal/models"
	"github.com/fairwaylabs/caddie-api/internal/repository"
)

var (
	ErrUnknownPlan      = errors.New("unknown plan")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Credits granted by the one-time purchase plans.
const (
	creditsSmallGrant = 5
	creditsLargeGrant = 20
)

// BillingConfig carries the Stripe keys and price IDs for checkout.
type BillingConfig struct {
	SecretKey         string
	WebhookSecret     string
	PriceCreditsSmall string
	PriceCreditsLarge string
	PriceProMonthly   string
	SuccessURL        string
	CancelURL         string
}

// BillingService creates checkout sessions and applies Stripe webhook events
// to account state.
type BillingService interface {
	CreateCheckout(ctx context.Context, userID uint, req dto.CheckoutRequest) (dto.CheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ApplyEvent(ctx context.Context, event stripe.Event) error
}

type billingService struct {
	users  repository.UserRepository
	cfg    BillingConfig
	logger zerolog.Logger
}

// NewBillingService constructs a billing service and sets the global Stripe key.
func NewBillingService(users repository.UserRepository, cfg BillingConfig, logger zerolog.Logger) BillingService {
	stripe.Key = cfg.SecretKey

	return &billingService{
		users:  users,
		cfg:    cfg,
		logger: logger.With().Str("component", "billing_service").Logger(),
	}
}

func (s *billingService) CreateCheckout(ctx context.Context, userID uint, req dto.CheckoutRequest) (dto.CheckoutResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CheckoutResponse{}, ErrUserNotFound
		}
		return dto.CheckoutResponse{}, err
	}

	plan := req.Plan
	priceID, mode, err := s.planPrice(plan)
	if err != nil {
		return dto.CheckoutResponse{}, err
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = s.cfg.SuccessURL
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = s.cfg.CancelURL
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(mode)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		ClientReferenceID: stripe.String(fmt.Sprintf("%d", user.ID)),
	}
	params.AddMetadata("user_id", fmt.Sprintf("%d", user.ID))
	params.AddMetadata("plan", plan)
	if user.StripeCustomerID != nil {
		params.Customer = user.StripeCustomerID
	} else {
		params.CustomerEmail = stripe.String(user.Email)
	}

	sess, err := session.New(params)
	if err != nil {
		return dto.CheckoutResponse{}, fmt.Errorf("create checkout session: %w", err)
	}

	s.logger.Info().Uint("user_id", user.ID).Str("plan", plan).Str("session_id", sess.ID).Msg("checkout session created")

	return dto.CheckoutResponse{SessionID: sess.ID, CheckoutURL: sess.URL}, nil
}

func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		return ErrInvalidSignature
	}

	return s.ApplyEvent(ctx, event)
}

// ApplyEvent mutates account state for a verified Stripe event. Unhandled
// event types are acknowledged without action.
func (s *billingService) ApplyEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("decode checkout session: %w", err)
		}
		return s.applyCheckoutCompleted(ctx, sess)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return s.applySubscriptionUpdated(ctx, sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return s.downgradeByCustomer(ctx, customerID(sub.Customer), "subscription deleted")

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return fmt.Errorf("decode invoice: %w", err)
		}
		return s.downgradeByCustomer(ctx, customerID(inv.Customer), "payment failed")

	default:
		s.logger.Debug().Str("type", string(event.Type)).Msg("ignoring webhook event")
		return nil
	}
}

func (s *billingService) applyCheckoutCompleted(ctx context.Context, sess stripe.CheckoutSession) error {
	userID, err := parseUserID(sess.Metadata["user_id"])
	if err != nil {
		return fmt.Errorf("checkout session %s: %w", sess.ID, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("checkout session %s: load user %d: %w", sess.ID, userID, err)
	}

	if id := customerID(sess.Customer); id != "" {
		if err := s.users.SetStripeCustomer(ctx, user.ID, id); err != nil {
			return err
		}
	}

	// Credit grants are in-database increments; a concurrent analysis
	// spending a credit must not be lost to a stale full-row write.
	plan := sess.Metadata["plan"]
	switch plan {
	case dto.PlanCreditsSmall:
		err = s.users.AddCredits(ctx, user.ID, creditsSmallGrant)
	case dto.PlanCreditsLarge:
		err = s.users.AddCredits(ctx, user.ID, creditsLargeGrant)
	case dto.PlanProMonthly:
		var subID *string
		if sess.Subscription != nil {
			subID = &sess.Subscription.ID
		}
		err = s.users.SetSubscription(ctx, user.ID, models.TierPro, subID)
	default:
		return fmt.Errorf("checkout session %s: %w: %q", sess.ID, ErrUnknownPlan, plan)
	}
	if err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("plan", plan).Msg("checkout applied")

	return nil
}

func (s *billingService) applySubscriptionUpdated(ctx context.Context, sub stripe.Subscription) error {
	user, err := s.users.GetByStripeCustomer(ctx, customerID(sub.Customer))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Str("customer", customerID(sub.Customer)).Msg("subscription update for unknown customer")
			return nil
		}
		return err
	}

	tier := models.TierFree
	subID := user.StripeSubscriptionID
	switch sub.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		tier = models.TierPro
		subID = &sub.ID
	}

	if err := s.users.SetSubscription(ctx, user.ID, tier, subID); err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("status", string(sub.Status)).Str("tier", tier).Msg("subscription synced")

	return nil
}

func (s *billingService) downgradeByCustomer(ctx context.Context, customer string, reason string) error {
	user, err := s.users.GetByStripeCustomer(ctx, customer)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Str("customer", customer).Str("reason", reason).Msg("downgrade for unknown customer")
			return nil
		}
		return err
	}

	if err := s.users.SetSubscription(ctx, user.ID, models.TierFree, nil); err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("reason", reason).Msg("subscription downgraded")

	return nil
}

func (s *billingService) planPrice(plan string) (string, stripe.CheckoutSessionMode, error) {
	switch plan {
	case dto.PlanCreditsSmall:
		return s.cfg.PriceCreditsSmall, stripe.CheckoutSessionModePayment, nil
	case dto.PlanCreditsLarge:
		return s.cfg.PriceCreditsLarge, stripe.CheckoutSessionModePayment, nil
	case dto.PlanProMonthly:
		return s.cfg.PriceProMonthly, stripe.CheckoutSessionModeSubscription, nil
	default:
		return "", "", ErrUnknownPlan
	}
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func parseUserID(raw string) (uint, error) {
	var id uint
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil || id == 0 {
		return 0, fmt.Errorf("bad user_id metadata %q", raw)
	}
	return id, nil
}
