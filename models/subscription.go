package models

import "time"

// SubscriptionTier gates how many registers a business may run.
type SubscriptionTier string

const (
	TierBasic      SubscriptionTier = "basic"
	TierPremium    SubscriptionTier = "premium"
	TierEnterprise SubscriptionTier = "enterprise"
)

// Subscription is the tenant boundary: every product, customer and order
// belongs to exactly one subscription. Rows with a NULL subscription are
// orphans and never show up in tenant-scoped queries.
type Subscription struct {
	ID           string           `json:"id" db:"id"`
	OwnerID      string           `json:"owner_id" db:"owner_id"`
	BusinessName string           `json:"business_name" db:"business_name"`
	Tier         SubscriptionTier `json:"tier" db:"tier"`
	Active       bool             `json:"active" db:"active"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	ExpiresAt    time.Time        `json:"expires_at" db:"expires_at"`
}

// UserLimit maps the tier to the number of registers allowed.
func (s *Subscription) UserLimit() int {
	switch s.Tier {
	case TierPremium:
		return 3
	case TierEnterprise:
		return 9999
	default:
		return 1
	}
}

// IsUsable reports whether the subscription can scope requests right now.
func (s *Subscription) IsUsable(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}

// UserRole identifies what an actor can do inside a tenant.
type UserRole string

const (
	RoleOwner   UserRole = "owner"
	RoleAdmin   UserRole = "admin"
	RoleCashier UserRole = "cashier"
)

// User is an actor inside a tenant. Authentication happens upstream; this
// record only resolves the actor to a subscription scope.
type User struct {
	ID             string    `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Role           UserRole  `json:"role" db:"role"`
	SubscriptionID *string   `json:"subscription_id,omitempty" db:"subscription_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// FullName returns the display name used on receipts.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
