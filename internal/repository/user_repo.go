package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fairwaylabs/caddie-api/internal/models"
)

// UserRepository provides access to account records.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByStripeCustomer(ctx context.Context, customerID string) (models.User, error)
	Update(ctx context.Context, user *models.User) error

	// AddCredits grants credits with an in-database increment so a
	// concurrent spend is never overwritten by a stale read.
	AddCredits(ctx context.Context, id uint, delta int) error
	SetStripeCustomer(ctx context.Context, id uint, customerID string) error
	SetSubscription(ctx context.Context, id uint, tier string, subscriptionID *string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByStripeCustomer(ctx context.Context, customerID string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) AddCredits(ctx context.Context, id uint, delta int) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("credits", gorm.Expr("credits + ?", delta)).Error
}

func (r *userRepository) SetStripeCustomer(ctx context.Context, id uint, customerID string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("stripe_customer_id", customerID).Error
}

func (r *userRepository) SetSubscription(ctx context.Context, id uint, tier string, subscriptionID *string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"subscription_tier":      tier,
			"stripe_subscription_id": subscriptionID,
		}).Error
}
