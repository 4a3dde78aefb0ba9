package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// MaxMonthsUnbounded is the sentinel upper bound for a penalty tier that
// applies to any remaining term length.
const MaxMonthsUnbounded = 9999

// PenaltyRule is one penalty tier: a months-remaining range mapped to a
// percentage of monthly rent. Formula optionally overrides the flat
// percentage with an expression evaluated at calculation time.
type PenaltyRule struct {
	MinMonthsRemaining int     `json:"minMonthsRemaining"`
	MaxMonthsRemaining int     `json:"maxMonthsRemaining"`
	PenaltyPercentage  float64 `json:"penaltyPercentage"`
	Description        string  `json:"description"`
	Formula            string  `json:"formula,omitempty"`
}

// PenaltyRuleList stores the ordered tier list as a JSONB blob.
type PenaltyRuleList []PenaltyRule

func (r PenaltyRuleList) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *PenaltyRuleList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return errors.New("unsupported type for PenaltyRuleList")
	}
}

// Validate rejects rule lists that must never reach the penalty engine.
// Overlapping ranges are allowed (the engine resolves them first-match-wins);
// structurally broken tiers are not.
func (r PenaltyRuleList) Validate() error {
	if len(r) == 0 {
		return errors.New("penalty rule list is empty")
	}
	for i, rule := range r {
		if rule.MinMonthsRemaining < 0 {
			return fmt.Errorf("rule %d: minMonthsRemaining must be >= 0", i)
		}
		if rule.MaxMonthsRemaining < rule.MinMonthsRemaining {
			return fmt.Errorf("rule %d: maxMonthsRemaining is below minMonthsRemaining", i)
		}
		if rule.PenaltyPercentage < 0 || rule.PenaltyPercentage > 100 {
			return fmt.Errorf("rule %d: penaltyPercentage must be within 0-100", i)
		}
	}
	return nil
}

// StringList stores a plain string array as a JSONB blob.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// TerminationPolicy is the versioned early-exit configuration of a property.
// At most one policy per property is active; replaced policies are kept as
// history, never deleted. The partial unique index on PropertyID backs the
// single-active invariant at the schema level, so two provisioners racing
// past the in-transaction re-check cannot both commit an active row.
type TerminationPolicy struct {
	gorm.Model
	PropertyID           uint            `json:"propertyId" gorm:"not null;index;index:idx_one_active_policy,unique,where:is_active AND deleted_at IS NULL"`
	IsActive             bool            `json:"isActive" gorm:"not null;default:false;index"`
	MinimumNoticeDays    int             `json:"minimumNoticeDays" gorm:"not null;default:0"`
	PenaltyRules         PenaltyRuleList `json:"penaltyRules" gorm:"type:jsonb"`
	AllowEmergencyWaiver bool            `json:"allowEmergencyWaiver" gorm:"not null;default:false"`
	EmergencyCategories  StringList      `json:"emergencyCategories" gorm:"type:jsonb"`
	GracePeriodDays      int             `json:"gracePeriodDays" gorm:"not null;default:0"`
}
