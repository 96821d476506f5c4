package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderItemTotalPrice(t *testing.T) {
	item := OrderItem{Quantity: 3, Price: decimal.RequireFromString("3.50")}

	assert.True(t, item.TotalPrice().Equal(decimal.RequireFromString("10.50")))
}

func TestOrderIsTerminal(t *testing.T) {
	assert.False(t, (&Order{Status: StatusDraft}).IsTerminal())
	assert.True(t, (&Order{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&Order{Status: StatusCanceled}).IsTerminal())
}

func TestProductNeedsRestock(t *testing.T) {
	assert.True(t, (&Product{Stock: 2, ReorderLevel: 5}).NeedsRestock())
	assert.True(t, (&Product{Stock: 5, ReorderLevel: 5}).NeedsRestock(), "at the reorder level counts")
	assert.False(t, (&Product{Stock: 6, ReorderLevel: 5}).NeedsRestock())
}

func TestSubscriptionUserLimit(t *testing.T) {
	assert.Equal(t, 1, (&Subscription{Tier: TierBasic}).UserLimit())
	assert.Equal(t, 3, (&Subscription{Tier: TierPremium}).UserLimit())
	assert.Equal(t, 9999, (&Subscription{Tier: TierEnterprise}).UserLimit())
	assert.Equal(t, 1, (&Subscription{Tier: "unknown"}).UserLimit())
}

func TestSubscriptionIsUsable(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.True(t, (&Subscription{Active: true, ExpiresAt: future}).IsUsable(now))
	assert.False(t, (&Subscription{Active: false, ExpiresAt: future}).IsUsable(now))
	assert.False(t, (&Subscription{Active: true, ExpiresAt: past}).IsUsable(now))
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Aida Bekova", (&User{FirstName: "Aida", LastName: "Bekova"}).FullName())
	assert.Equal(t, "Aida", (&User{FirstName: "Aida"}).FullName())
	assert.Equal(t, "a@b.kz", (&User{Email: "a@b.kz"}).FullName())
}
