package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Sima922/clouds-pos/models"
	"github.com/Sima922/clouds-pos/pkg/database"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

// SubscriptionRepositoryInterface resolves actors to their tenant scope.
type SubscriptionRepositoryInterface interface {
	// ResolveScope returns the usable subscription for the actor, checking
	// membership first and ownership second. A nil subscription with a nil
	// error means the actor has no active scope.
	ResolveScope(ctx context.Context, userID string) (*models.Subscription, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

type SubscriptionRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewSubscriptionRepository(log *logger.Logger, db *database.DB) *SubscriptionRepository {
	return &SubscriptionRepository{
		logger: log.WithComponent("subscription_repository"),
		db:     db,
	}
}

const subscriptionColumns = `s.id, s.owner_id, s.business_name, s.tier, s.active, s.created_at, s.expires_at`

// ResolveScope resolves the acting user to a subscription, member link
// first, owned subscription second. Inactive or expired subscriptions do
// not scope anything.
func (r *SubscriptionRepository) ResolveScope(ctx context.Context, userID string) (*models.Subscription, error) {
	r.logger.Debug("Resolving subscription scope", "user_id", userID)

	memberQuery := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions s
        JOIN users u ON u.subscription_id = s.id
        WHERE u.id = $1
    `

	sub, err := r.scanSubscription(r.db.QueryRowContext(ctx, memberQuery, userID))
	if err != nil && err != sql.ErrNoRows {
		r.logger.Error("Failed to resolve member subscription", "error", err, "user_id", userID)
		return nil, database.Classify(fmt.Errorf("failed to resolve subscription: %w", err))
	}

	if sub == nil {
		ownerQuery := `
            SELECT ` + subscriptionColumns + `
            FROM subscriptions s
            WHERE s.owner_id = $1
        `
		sub, err = r.scanSubscription(r.db.QueryRowContext(ctx, ownerQuery, userID))
		if err != nil && err != sql.ErrNoRows {
			r.logger.Error("Failed to resolve owned subscription", "error", err, "user_id", userID)
			return nil, database.Classify(fmt.Errorf("failed to resolve subscription: %w", err))
		}
	}

	if sub == nil {
		r.logger.Debug("No subscription found for user", "user_id", userID)
		return nil, nil
	}

	if !sub.IsUsable(time.Now()) {
		r.logger.Warn("Subscription is inactive or expired",
			"user_id", userID,
			"subscription_id", sub.ID,
			"active", sub.Active,
			"expires_at", sub.ExpiresAt)
		return nil, nil
	}

	return sub, nil
}

// GetUser retrieves a user record for receipts and audit fields.
func (r *SubscriptionRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	query := `
        SELECT id, email, first_name, last_name, role, subscription_id, created_at
        FROM users
        WHERE id = $1
    `

	user := &models.User{}
	var subID sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.Role, &subID, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("User not found", "user_id", userID)
			return nil, fmt.Errorf("user with id %s not found", userID)
		}
		r.logger.Error("Failed to retrieve user", "error", err, "user_id", userID)
		return nil, database.Classify(fmt.Errorf("failed to retrieve user: %w", err))
	}

	if subID.Valid {
		user.SubscriptionID = &subID.String
	}
	return user, nil
}

func (r *SubscriptionRepository) scanSubscription(row *sql.Row) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var ownerID sql.NullString

	err := row.Scan(&sub.ID, &ownerID, &sub.BusinessName, &sub.Tier,
		&sub.Active, &sub.CreatedAt, &sub.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}

	if ownerID.Valid {
		sub.OwnerID = ownerID.String
	}
	return sub, nil
}
