package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fairwaylabs/caddie-api/internal/dto"
	"github.com/fairwaylabs/caddie-api/internal/models"
	"github.com/fairwaylabs/caddie-api/internal/repository"
)

func newBillingFixture(t *testing.T, name string) (BillingService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:billing_"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	svc := NewBillingService(repository.NewUserRepository(db), BillingConfig{
		SecretKey:         "sk_test_fake",
		WebhookSecret:     "whsec_fake",
		PriceCreditsSmall: "price_small",
		PriceCreditsLarge: "price_large",
		PriceProMonthly:   "price_pro",
	}, zerolog.Nop())

	return svc, db
}

func stripeEvent(t *testing.T, eventType string, payload interface{}) stripe.Event {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	return stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestCheckoutCompletedGrantsCredits(t *testing.T) {
	svc, db := newBillingFixture(t, "credits")

	user := models.User{Email: "buyer@example.com", PasswordHash: "x", SubscriptionTier: models.TierFree, Credits: 1}
	require.NoError(t, db.Create(&user).Error)

	event := stripeEvent(t, "checkout.session.completed", map[string]interface{}{
		"id":       "cs_test_1",
		"customer": map[string]interface{}{"id": "cus_123"},
		"metadata": map[string]string{"user_id": fmt.Sprint(user.ID), "plan": dto.PlanCreditsLarge},
	})
	require.NoError(t, svc.ApplyEvent(context.Background(), event))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, 21, reloaded.Credits)
	require.Equal(t, models.TierFree, reloaded.SubscriptionTier)
	require.NotNil(t, reloaded.StripeCustomerID)
	require.Equal(t, "cus_123", *reloaded.StripeCustomerID)
}

func TestCheckoutGrantSurvivesConcurrentSpend(t *testing.T) {
	svc, db := newBillingFixture(t, "race")

	user := models.User{Email: "buyer@example.com", PasswordHash: "x", SubscriptionTier: models.TierFree, Credits: 3}
	require.NoError(t, db.Create(&user).Error)

	// Spend a credit right after the webhook handler reads the row, the way
	// a concurrent analysis would. The grant must land on top of the spend,
	// not overwrite it with the stale value.
	spent := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:spend_between", func(tx *gorm.DB) {
		if spent || tx.Statement.Table != "users" {
			return
		}
		spent = true
		tx.Session(&gorm.Session{NewDB: true}).Exec("UPDATE users SET credits = credits - 1 WHERE id = ?", user.ID)
	}))
	defer func() { require.NoError(t, db.Callback().Query().Remove("test:spend_between")) }()

	event := stripeEvent(t, "checkout.session.completed", map[string]interface{}{
		"id":       "cs_test_race",
		"metadata": map[string]string{"user_id": fmt.Sprint(user.ID), "plan": dto.PlanCreditsSmall},
	})
	require.NoError(t, svc.ApplyEvent(context.Background(), event))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, 3-1+creditsSmallGrant, reloaded.Credits)
}

func TestCheckoutCompletedActivatesPro(t *testing.T) {
	svc, db := newBillingFixture(t, "pro")

	user := models.User{Email: "buyer@example.com", PasswordHash: "x", SubscriptionTier: models.TierFree}
	require.NoError(t, db.Create(&user).Error)

	event := stripeEvent(t, "checkout.session.completed", map[string]interface{}{
		"id":           "cs_test_2",
		"customer":     map[string]interface{}{"id": "cus_456"},
		"subscription": map[string]interface{}{"id": "sub_789"},
		"metadata":     map[string]string{"user_id": fmt.Sprint(user.ID), "plan": dto.PlanProMonthly},
	})
	require.NoError(t, svc.ApplyEvent(context.Background(), event))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, models.TierPro, reloaded.SubscriptionTier)
	require.NotNil(t, reloaded.StripeSubscriptionID)
	require.Equal(t, "sub_789", *reloaded.StripeSubscriptionID)
}

func TestCheckoutCompletedRejectsUnknownPlan(t *testing.T) {
	svc, db := newBillingFixture(t, "badplan")

	user := models.User{Email: "buyer@example.com", PasswordHash: "x", SubscriptionTier: models.TierFree}
	require.NoError(t, db.Create(&user).Error)

	event := stripeEvent(t, "checkout.session.completed", map[string]interface{}{
		"id":       "cs_test_3",
		"metadata": map[string]string{"user_id": fmt.Sprint(user.ID), "plan": "lifetime_gold"},
	})
	require.ErrorIs(t, svc.ApplyEvent(context.Background(), event), ErrUnknownPlan)
}

func TestSubscriptionLifecycleSyncsTier(t *testing.T) {
	svc, db := newBillingFixture(t, "lifecycle")

	customer := "cus_lifecycle"
	user := models.User{Email: "buyer@example.com", PasswordHash: "x", SubscriptionTier: models.TierPro, StripeCustomerID: &customer}
	require.NoError(t, db.Create(&user).Error)

	pastDue := stripeEvent(t, "customer.subscription.updated", map[string]interface{}{
		"id":       "sub_1",
		"customer": map[string]interface{}{"id": customer},
		"status":   "past_due",
	})
	require.NoError(t, svc.ApplyEvent(context.Background(), pastDue))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, models.TierFree, reloaded.SubscriptionTier)

	reactivated := stripeEvent(t, "customer.subscription.updated", map[string]interface{}{
		"id":       "sub_1",
		"customer": map[string]interface{}{"id": customer},
		"status":   "active",
	})
	require.NoError(t, svc.ApplyEvent(context.Background(), reactivated))
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, models.TierPro, reloaded.SubscriptionTier)

	deleted := stripeEvent(t, "customer.subscription.deleted", map[string]interface{}{
		"id":       "sub_1",
		"customer": map[string]interface{}{"id": customer},
	})
	require.NoError(t, svc.ApplyEvent(context.Background(), deleted))
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, models.TierFree, reloaded.SubscriptionTier)
	require.Nil(t, reloaded.StripeSubscriptionID)
}

func TestPaymentFailureDowngrades(t *testing.T) {
	svc, db := newBillingFixture(t, "payfail")

	customer := "cus_payfail"
	user := models.User{Email: "buyer@example.com", PasswordHash: "x", SubscriptionTier: models.TierPro, StripeCustomerID: &customer}
	require.NoError(t, db.Create(&user).Error)

	event := stripeEvent(t, "invoice.payment_failed", map[string]interface{}{
		"id":       "in_1",
		"customer": map[string]interface{}{"id": customer},
	})
	require.NoError(t, svc.ApplyEvent(context.Background(), event))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, models.TierFree, reloaded.SubscriptionTier)
}

func TestUnknownCustomerEventsAreAcknowledged(t *testing.T) {
	svc, _ := newBillingFixture(t, "unknown")

	event := stripeEvent(t, "customer.subscription.deleted", map[string]interface{}{
		"id":       "sub_x",
		"customer": map[string]interface{}{"id": "cus_nobody"},
	})
	require.NoError(t, svc.ApplyEvent(context.Background(), event))
}

func TestUnhandledEventTypesAreIgnored(t *testing.T) {
	svc, _ := newBillingFixture(t, "ignored")

	event := stripeEvent(t, "charge.refunded", map[string]interface{}{"id": "ch_1"})
	require.NoError(t, svc.ApplyEvent(context.Background(), event))
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc, _ := newBillingFixture(t, "sig")

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=bogus")
	require.ErrorIs(t, err, ErrInvalidSignature)
}
