// Package policy computes early-termination penalties. Calculate is a pure
// function of its inputs; it never touches storage and never fails outright —
// problems surface as error or warning entries on the result so the caller
// decides whether to block.
package policy

import (
	"fmt"
	"math"
	"time"

	"github.com/Knetic/govaluate"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/money"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

// Calculation is the full result of a penalty quote.
type Calculation struct {
	IsValid              bool                      `json:"isValid"`
	Errors               []string                  `json:"errors"`
	Warnings             []string                  `json:"warnings"`
	AppliedPolicy        *models.TerminationPolicy `json:"appliedPolicy"`
	AppliedRule          *models.PenaltyRule       `json:"appliedRule"`
	PenaltyAmount        float64                   `json:"penaltyAmount"`
	PenaltyPercentage    float64                   `json:"penaltyPercentage"`
	DaysNotice           int                       `json:"daysNotice"`
	MonthsRemaining      int                       `json:"monthsRemaining"`
	CanWaiveForEmergency bool                      `json:"canWaiveForEmergency"`
	EmergencyCategories  []string                  `json:"emergencyCategories"`
}

// Calculate evaluates the policy against the lease's remaining term.
//
// Months remaining is a whole calendar-month difference, not a day count
// divided by 30; that keeps the result stable across month lengths. Rules are
// scanned in list order and the first inclusive match wins, which is also the
// tie-break when ranges overlap. When nothing matches, the highest-percentage
// rule applies with a warning: refusing to quote is worse than over-quoting a
// number a human will review.
func Calculate(pol *models.TerminationPolicy, lease *models.Lease, requestedEndDate time.Time, monthlyRent float64, now time.Time) Calculation {
	calc := Calculation{
		Errors:               []string{},
		Warnings:             []string{},
		AppliedPolicy:        pol,
		CanWaiveForEmergency: pol.AllowEmergencyWaiver,
		EmergencyCategories:  pol.EmergencyCategories,
	}
	if calc.EmergencyCategories == nil {
		calc.EmergencyCategories = []string{}
	}

	calc.DaysNotice = daysBetween(now, requestedEndDate)
	if calc.DaysNotice < pol.MinimumNoticeDays {
		calc.Errors = append(calc.Errors, fmt.Sprintf(
			"request does not meet the minimum notice period of %d days (%d days given)",
			pol.MinimumNoticeDays, calc.DaysNotice))
	}

	calc.MonthsRemaining = monthsBetween(requestedEndDate, lease.EndDate)

	rule := matchRule(pol.PenaltyRules, calc.MonthsRemaining)
	if rule == nil {
		rule = highestPenaltyRule(pol.PenaltyRules)
		if rule == nil {
			calc.Errors = append(calc.Errors, "policy has no penalty rules")
			calc.IsValid = false
			return calc
		}
		calc.Warnings = append(calc.Warnings, fmt.Sprintf(
			"no penalty tier covers %d months remaining; applied the highest tier as fallback",
			calc.MonthsRemaining))
	}
	calc.AppliedRule = rule
	calc.PenaltyPercentage = rule.PenaltyPercentage
	calc.PenaltyAmount = penaltyAmount(rule, monthlyRent, &calc)

	if rule.PenaltyPercentage >= 50 {
		calc.Warnings = append(calc.Warnings,
			"penalty is 50% of monthly rent or more; consider negotiating an extension or transfer instead")
	}

	calc.IsValid = len(calc.Errors) == 0
	return calc
}

// matchRule returns the first rule whose range contains monthsRemaining,
// inclusive on both ends.
func matchRule(rules models.PenaltyRuleList, monthsRemaining int) *models.PenaltyRule {
	for i := range rules {
		if monthsRemaining >= rules[i].MinMonthsRemaining && monthsRemaining <= rules[i].MaxMonthsRemaining {
			return &rules[i]
		}
	}
	return nil
}

func highestPenaltyRule(rules models.PenaltyRuleList) *models.PenaltyRule {
	var best *models.PenaltyRule
	for i := range rules {
		if best == nil || rules[i].PenaltyPercentage > best.PenaltyPercentage {
			best = &rules[i]
		}
	}
	return best
}

// penaltyAmount computes the fee from the matched rule. A rule may carry a
// formula overriding the flat percentage; formula problems degrade to the
// percentage with a warning rather than failing the quote.
func penaltyAmount(rule *models.PenaltyRule, monthlyRent float64, calc *Calculation) float64 {
	flat := money.Round2(monthlyRent * rule.PenaltyPercentage / 100)
	if rule.Formula == "" {
		return flat
	}

	expr, err := govaluate.NewEvaluableExpression(rule.Formula)
	if err != nil {
		calc.Warnings = append(calc.Warnings, fmt.Sprintf("invalid penalty formula %q, applied flat percentage", rule.Formula))
		return flat
	}
	parameters := map[string]interface{}{
		"monthlyRent":       monthlyRent,
		"monthsRemaining":   float64(calc.MonthsRemaining),
		"daysNotice":        float64(calc.DaysNotice),
		"penaltyPercentage": rule.PenaltyPercentage,
	}
	result, err := expr.Evaluate(parameters)
	if err != nil {
		calc.Warnings = append(calc.Warnings, fmt.Sprintf("penalty formula %q failed to evaluate, applied flat percentage", rule.Formula))
		return flat
	}
	amount, ok := result.(float64)
	if !ok {
		calc.Warnings = append(calc.Warnings, fmt.Sprintf("penalty formula %q did not produce a number, applied flat percentage", rule.Formula))
		return flat
	}
	if amount < 0 {
		amount = 0
	}
	return money.Round2(amount)
}

// daysBetween is the notice period in whole days, rounded up.
func daysBetween(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// monthsBetween is the whole calendar-month difference between two dates.
func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
