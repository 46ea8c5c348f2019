package dto

import (
	"time"

	"github.com/fairwaylabs/caddie-api/internal/models"
)

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,max=255"`
}

// LoginRequest is the payload for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued token and the account view.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID               uint      `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	HomeCourse       string    `json:"home_course,omitempty"`
	Handicap         *float64  `json:"handicap,omitempty"`
	MissPattern      string    `json:"miss_pattern,omitempty"`
	Strengths        string    `json:"strengths,omitempty"`
	SubscriptionTier string    `json:"subscription_tier"`
	Credits          int       `json:"credits"`
	GHINNumber       *string   `json:"ghin_number,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewUserResponse converts a user model to its public view.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		HomeCourse:       user.HomeCourse,
		Handicap:         user.Handicap,
		MissPattern:      user.MissPattern,
		Strengths:        user.Strengths,
		SubscriptionTier: user.SubscriptionTier,
		Credits:          user.Credits,
		GHINNumber:       user.GHINNumber,
		CreatedAt:        user.CreatedAt,
	}
}
