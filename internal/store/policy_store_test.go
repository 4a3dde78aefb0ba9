package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/apperr"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/policy"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Property{}, &models.Lease{},
		&models.Payment{}, &models.TerminationPolicy{},
		&models.TerminationRequest{}, &models.Notification{},
	))
	return db
}

func testPolicy(propertyID uint, pct float64) *models.TerminationPolicy {
	return &models.TerminationPolicy{
		PropertyID:        propertyID,
		MinimumNoticeDays: 30,
		PenaltyRules: models.PenaltyRuleList{
			{MinMonthsRemaining: 0, MaxMonthsRemaining: models.MaxMonthsUnbounded, PenaltyPercentage: pct},
		},
	}
}

func TestPolicyCreateDeactivatesPrior(t *testing.T) {
	stores := New(setupTestDB(t))
	ctx := context.Background()

	first := testPolicy(1, 25)
	require.NoError(t, stores.Policies.Create(ctx, first))
	second := testPolicy(1, 50)
	require.NoError(t, stores.Policies.Create(ctx, second))

	active, err := stores.Policies.GetActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, 50.0, active.PenaltyRules[0].PenaltyPercentage)

	// Replaced versions stay around as history.
	all, err := stores.Policies.List(ctx, 1, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	activeOnly, err := stores.Policies.List(ctx, 1, true)
	require.NoError(t, err)
	assert.Len(t, activeOnly, 1)
}

func TestPolicyCreateScopedByProperty(t *testing.T) {
	stores := New(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, stores.Policies.Create(ctx, testPolicy(1, 25)))
	require.NoError(t, stores.Policies.Create(ctx, testPolicy(2, 50)))

	a, err := stores.Policies.GetActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 25.0, a.PenaltyRules[0].PenaltyPercentage)
	b, err := stores.Policies.GetActive(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 50.0, b.PenaltyRules[0].PenaltyPercentage)
}

func TestPolicyCreateRejectsMalformedRules(t *testing.T) {
	stores := New(setupTestDB(t))
	ctx := context.Background()

	empty := testPolicy(1, 25)
	empty.PenaltyRules = models.PenaltyRuleList{}
	assert.ErrorIs(t, stores.Policies.Create(ctx, empty), apperr.ErrInvalidInput)

	inverted := testPolicy(1, 25)
	inverted.PenaltyRules = models.PenaltyRuleList{
		{MinMonthsRemaining: 6, MaxMonthsRemaining: 3, PenaltyPercentage: 25},
	}
	assert.ErrorIs(t, stores.Policies.Create(ctx, inverted), apperr.ErrInvalidInput)

	outOfRange := testPolicy(1, 25)
	outOfRange.PenaltyRules = models.PenaltyRuleList{
		{MinMonthsRemaining: 0, MaxMonthsRemaining: 3, PenaltyPercentage: 150},
	}
	assert.ErrorIs(t, stores.Policies.Create(ctx, outOfRange), apperr.ErrInvalidInput)

	noProperty := testPolicy(0, 25)
	assert.ErrorIs(t, stores.Policies.Create(ctx, noProperty), apperr.ErrInvalidInput)
}

func TestPolicyRulesRoundTrip(t *testing.T) {
	stores := New(setupTestDB(t))
	ctx := context.Background()

	p := &models.TerminationPolicy{
		PropertyID:           1,
		MinimumNoticeDays:    30,
		GracePeriodDays:      60,
		AllowEmergencyWaiver: true,
		EmergencyCategories:  models.StringList{"medical", "military"},
		PenaltyRules: models.PenaltyRuleList{
			{MinMonthsRemaining: 6, MaxMonthsRemaining: models.MaxMonthsUnbounded, PenaltyPercentage: 100, Description: "long remainder"},
			{MinMonthsRemaining: 0, MaxMonthsRemaining: 6, PenaltyPercentage: 50, Formula: "monthlyRent * 0.5"},
		},
	}
	require.NoError(t, stores.Policies.Create(ctx, p))

	got, err := stores.Policies.GetActive(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got.PenaltyRules, 2)
	assert.Equal(t, "long remainder", got.PenaltyRules[0].Description)
	assert.Equal(t, "monthlyRent * 0.5", got.PenaltyRules[1].Formula)
	assert.Equal(t, models.StringList{"medical", "military"}, got.EmergencyCategories)
}

func TestPolicyEnsureActiveProvisionsOnce(t *testing.T) {
	stores := New(setupTestDB(t))
	ctx := context.Background()

	first, err := stores.Policies.EnsureActive(ctx, 1, func() *models.TerminationPolicy {
		return policy.Default(1)
	})
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	require.NotEmpty(t, first.PenaltyRules)

	second, err := stores.Policies.EnsureActive(ctx, 1, func() *models.TerminationPolicy {
		t.Fatal("provision ran although an active policy exists")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := stores.Policies.List(ctx, 1, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPolicySingleActiveIndexBackstop(t *testing.T) {
	db := setupTestDB(t)
	stores := New(db)
	ctx := context.Background()
	require.NoError(t, stores.Policies.Create(ctx, testPolicy(1, 25)))

	// A second active row written past the store's deactivate step must hit
	// the partial unique index.
	dup := testPolicy(1, 50)
	dup.IsActive = true
	err := db.Create(dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Inactive history rows and other properties stay unconstrained.
	hist := testPolicy(1, 10)
	require.NoError(t, db.Create(hist).Error)
	other := testPolicy(2, 10)
	other.IsActive = true
	require.NoError(t, db.Create(other).Error)

	active, err := stores.Policies.GetActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 25.0, active.PenaltyRules[0].PenaltyPercentage)
}

func TestPolicyGetActiveNotFound(t *testing.T) {
	stores := New(setupTestDB(t))
	_, err := stores.Policies.GetActive(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPolicyDelete(t *testing.T) {
	stores := New(setupTestDB(t))
	ctx := context.Background()

	p := testPolicy(1, 25)
	require.NoError(t, stores.Policies.Create(ctx, p))
	require.NoError(t, stores.Policies.Delete(ctx, p.ID))
	assert.ErrorIs(t, stores.Policies.Delete(ctx, p.ID), apperr.ErrNotFound)
	_, err := stores.Policies.GetActive(ctx, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
