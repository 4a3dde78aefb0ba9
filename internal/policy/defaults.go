package policy

import "github.com/XuanDongVo/Rental-Home-sub000/models"

// System defaults applied when a property has no policy yet: provisioned on
// property creation and lazily before the first penalty calculation.
const (
	DefaultMinimumNoticeDays = 30
	DefaultGracePeriodDays   = 60
)

// Default returns a fresh copy of the system default policy. Each call
// allocates, so callers may mutate the result freely.
func Default(propertyID uint) *models.TerminationPolicy {
	return &models.TerminationPolicy{
		PropertyID:        propertyID,
		IsActive:          true,
		MinimumNoticeDays: DefaultMinimumNoticeDays,
		GracePeriodDays:   DefaultGracePeriodDays,
		PenaltyRules: models.PenaltyRuleList{
			{MinMonthsRemaining: 6, MaxMonthsRemaining: models.MaxMonthsUnbounded, PenaltyPercentage: 100, Description: "More than six months remaining"},
			{MinMonthsRemaining: 3, MaxMonthsRemaining: 6, PenaltyPercentage: 50, Description: "Three to six months remaining"},
			{MinMonthsRemaining: 0, MaxMonthsRemaining: 3, PenaltyPercentage: 25, Description: "Under three months remaining"},
		},
		AllowEmergencyWaiver: true,
		EmergencyCategories: models.StringList{
			"medical_emergency",
			"job_relocation",
			"military_deployment",
			"domestic_violence",
		},
	}
}
