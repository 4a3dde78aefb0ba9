package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tieredPolicy() *models.TerminationPolicy {
	return &models.TerminationPolicy{
		PropertyID:        1,
		IsActive:          true,
		MinimumNoticeDays: 30,
		PenaltyRules: models.PenaltyRuleList{
			{MinMonthsRemaining: 6, MaxMonthsRemaining: 999, PenaltyPercentage: 100},
			{MinMonthsRemaining: 3, MaxMonthsRemaining: 6, PenaltyPercentage: 50},
			{MinMonthsRemaining: 1, MaxMonthsRemaining: 3, PenaltyPercentage: 25},
			{MinMonthsRemaining: 0, MaxMonthsRemaining: 1, PenaltyPercentage: 0},
		},
		AllowEmergencyWaiver: true,
		EmergencyCategories:  models.StringList{"medical_emergency"},
	}
}

func TestCalculateMatchesTier(t *testing.T) {
	pol := tieredPolicy()
	lease := &models.Lease{EndDate: date(2024, time.October, 15)}

	// Requested end 2024-06-15 leaves 4 whole calendar months.
	calc := Calculate(pol, lease, date(2024, time.June, 15), 1000, date(2024, time.January, 15))

	require.NotNil(t, calc.AppliedRule)
	assert.Equal(t, 3, calc.AppliedRule.MinMonthsRemaining)
	assert.Equal(t, 6, calc.AppliedRule.MaxMonthsRemaining)
	assert.Equal(t, 4, calc.MonthsRemaining)
	assert.Equal(t, 500.0, calc.PenaltyAmount)
	assert.Equal(t, 50.0, calc.PenaltyPercentage)
	assert.True(t, calc.IsValid)
	assert.True(t, calc.CanWaiveForEmergency)
	assert.Equal(t, []string{"medical_emergency"}, calc.EmergencyCategories)
}

func TestCalculateShortNoticeStillQuotes(t *testing.T) {
	pol := tieredPolicy()
	lease := &models.Lease{EndDate: date(2024, time.December, 1)}
	now := date(2024, time.March, 1)

	// Ten days of notice against a 30-day minimum.
	calc := Calculate(pol, lease, date(2024, time.March, 11), 1200, now)

	assert.False(t, calc.IsValid)
	require.Len(t, calc.Errors, 1)
	assert.Contains(t, calc.Errors[0], "minimum notice")
	assert.Equal(t, 10, calc.DaysNotice)
	// The quote is still produced: 9 months remaining hits the 100% tier.
	assert.Equal(t, 1200.0, calc.PenaltyAmount)
}

func TestCalculateUpperBoundInclusive(t *testing.T) {
	pol := tieredPolicy()
	lease := &models.Lease{EndDate: date(2025, time.January, 1)}

	// Exactly 6 months remaining: both the {3,6} and {6,999} tiers cover it;
	// the first rule in list order wins.
	calc := Calculate(pol, lease, date(2024, time.July, 1), 1000, date(2024, time.January, 1))

	assert.Equal(t, 6, calc.MonthsRemaining)
	require.NotNil(t, calc.AppliedRule)
	assert.Equal(t, 100.0, calc.AppliedRule.PenaltyPercentage)
}

func TestCalculateOverlapFirstMatchWins(t *testing.T) {
	pol := tieredPolicy()
	// Reverse the list: now the {3,6} tier precedes nothing relevant; put a
	// wide low tier first and make sure it shadows a later higher one.
	pol.PenaltyRules = models.PenaltyRuleList{
		{MinMonthsRemaining: 0, MaxMonthsRemaining: 12, PenaltyPercentage: 10},
		{MinMonthsRemaining: 6, MaxMonthsRemaining: 999, PenaltyPercentage: 100},
	}
	lease := &models.Lease{EndDate: date(2025, time.March, 1)}

	calc := Calculate(pol, lease, date(2024, time.July, 1), 1000, date(2024, time.January, 1))

	assert.Equal(t, 8, calc.MonthsRemaining)
	assert.Equal(t, 10.0, calc.PenaltyPercentage)
	assert.Equal(t, 100.0, calc.PenaltyAmount)
}

func TestCalculateFallbackToHighestTier(t *testing.T) {
	pol := tieredPolicy()
	pol.PenaltyRules = models.PenaltyRuleList{
		{MinMonthsRemaining: 0, MaxMonthsRemaining: 3, PenaltyPercentage: 10},
		{MinMonthsRemaining: 4, MaxMonthsRemaining: 6, PenaltyPercentage: 40},
	}
	lease := &models.Lease{EndDate: date(2025, time.June, 1)}

	// 11 months remaining: no tier covers it.
	calc := Calculate(pol, lease, date(2024, time.July, 1), 1000, date(2024, time.January, 1))

	require.NotNil(t, calc.AppliedRule)
	assert.Equal(t, 40.0, calc.AppliedRule.PenaltyPercentage)
	assert.Equal(t, 400.0, calc.PenaltyAmount)
	require.NotEmpty(t, calc.Warnings)
	assert.Contains(t, calc.Warnings[0], "fallback")
	// Degrading is not an error; the caller decides what to do with it.
	assert.True(t, calc.IsValid)
}

func TestCalculateHighPenaltyWarning(t *testing.T) {
	pol := tieredPolicy()
	lease := &models.Lease{EndDate: date(2025, time.June, 1)}

	calc := Calculate(pol, lease, date(2024, time.July, 1), 1000, date(2024, time.January, 1))

	assert.Equal(t, 100.0, calc.PenaltyPercentage)
	found := false
	for _, w := range calc.Warnings {
		if w == "penalty is 50% of monthly rent or more; consider negotiating an extension or transfer instead" {
			found = true
		}
	}
	assert.True(t, found, "expected negotiation warning, got %v", calc.Warnings)
}

func TestCalculateFormulaOverride(t *testing.T) {
	pol := tieredPolicy()
	pol.PenaltyRules = models.PenaltyRuleList{
		{MinMonthsRemaining: 0, MaxMonthsRemaining: 999, PenaltyPercentage: 25,
			Formula: "monthlyRent * monthsRemaining * 0.1"},
	}
	lease := &models.Lease{EndDate: date(2025, time.January, 1)}

	calc := Calculate(pol, lease, date(2024, time.July, 1), 1000, date(2024, time.January, 1))

	assert.Equal(t, 6, calc.MonthsRemaining)
	assert.Equal(t, 600.0, calc.PenaltyAmount)
	assert.Empty(t, calc.Warnings)
}

func TestCalculateBrokenFormulaFallsBackToPercentage(t *testing.T) {
	pol := tieredPolicy()
	pol.PenaltyRules = models.PenaltyRuleList{
		{MinMonthsRemaining: 0, MaxMonthsRemaining: 999, PenaltyPercentage: 25, Formula: "monthlyRent *"},
	}
	lease := &models.Lease{EndDate: date(2025, time.January, 1)}

	calc := Calculate(pol, lease, date(2024, time.July, 1), 1000, date(2024, time.January, 1))

	assert.Equal(t, 250.0, calc.PenaltyAmount)
	require.NotEmpty(t, calc.Warnings)
	assert.Contains(t, calc.Warnings[0], "formula")
}

func TestCalculateDeterministic(t *testing.T) {
	pol := tieredPolicy()
	lease := &models.Lease{EndDate: date(2024, time.October, 15)}
	now := date(2024, time.January, 15)

	first := Calculate(pol, lease, date(2024, time.June, 15), 1000, now)
	second := Calculate(pol, lease, date(2024, time.June, 15), 1000, now)

	assert.Equal(t, first, second)
}

func TestCalculateNoRules(t *testing.T) {
	pol := tieredPolicy()
	pol.PenaltyRules = models.PenaltyRuleList{}
	lease := &models.Lease{EndDate: date(2024, time.October, 15)}

	calc := Calculate(pol, lease, date(2024, time.June, 15), 1000, date(2024, time.January, 15))

	assert.False(t, calc.IsValid)
	assert.Nil(t, calc.AppliedRule)
	assert.Zero(t, calc.PenaltyAmount)
}

func TestDefaultPolicyIsValid(t *testing.T) {
	def := Default(7)
	require.NoError(t, def.PenaltyRules.Validate())
	assert.Equal(t, uint(7), def.PropertyID)
	assert.True(t, def.IsActive)
	assert.Equal(t, DefaultMinimumNoticeDays, def.MinimumNoticeDays)
	assert.Equal(t, DefaultGracePeriodDays, def.GracePeriodDays)
	assert.Len(t, def.PenaltyRules, 3)
	assert.True(t, def.AllowEmergencyWaiver)
}

func TestDaysNoticeRoundsUp(t *testing.T) {
	pol := tieredPolicy()
	pol.MinimumNoticeDays = 0
	lease := &models.Lease{EndDate: date(2025, time.January, 1)}
	now := time.Date(2024, time.January, 1, 18, 0, 0, 0, time.UTC)

	// 9.25 days away must count as 10 days of notice.
	calc := Calculate(pol, lease, time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC), 1000, now)
	assert.Equal(t, 10, calc.DaysNotice)
}
