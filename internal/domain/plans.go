package domain

import (
	"fmt"
	"math"
	"sort"
)

// Plan is a fixed-duration, fixed-rate investment product. The return is a
// flat fraction of the principal applied once over the duration, never
// compounded. Amounts are in paise.
type Plan struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Rate         float64 `json:"rate"`
	DurationDays int     `json:"duration_days"`
	MinPaise     int64   `json:"min_paise"`
	MaxPaise     int64   `json:"max_paise"`
}

var plans = map[string]Plan{
	"45_days": {
		ID:           "45_days",
		Name:         "45 Days Big Opportunity",
		Rate:         0.50,
		DurationDays: 45,
		MinPaise:     19900,
		MaxPaise:     500000,
	},
	"90_days": {
		ID:           "90_days",
		Name:         "90 Days Big Opportunity",
		Rate:         1.00,
		DurationDays: 90,
		MinPaise:     29900,
		MaxPaise:     1000000,
	},
}

func PlanByID(id string) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

// PlanList returns all plans ordered by duration.
func PlanList() []Plan {
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DurationDays < out[j].DurationDays })
	return out
}

// ReturnPaise computes the flat expected return for a principal.
func (p Plan) ReturnPaise(principalPaise int64) int64 {
	return int64(math.Round(float64(principalPaise) * p.Rate))
}

// ValidateQuickAmount enforces the plan's canonical amount for quick-invest.
func (p Plan) ValidateQuickAmount(amountPaise int64) error {
	if amountPaise != p.MinPaise {
		return fmt.Errorf("%w: plan %s requires exactly %d paise", ErrInvalidAmount, p.ID, p.MinPaise)
	}
	return nil
}

// ValidateCustomAmount enforces the [min, max] bound for free-form amounts.
func (p Plan) ValidateCustomAmount(amountPaise int64) error {
	if amountPaise < p.MinPaise || amountPaise > p.MaxPaise {
		return fmt.Errorf("%w: plan %s accepts %d to %d paise", ErrInvalidAmount, p.ID, p.MinPaise, p.MaxPaise)
	}
	return nil
}
