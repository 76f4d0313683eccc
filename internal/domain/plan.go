// internal/domain/plan.go
package domain

import "github.com/shopspring/decimal"

// Plan is an investment product. Plans are fixed reference data: nothing in
// the system mutates them, so they live in code rather than a table.
type Plan struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	MinPrincipal    int64           `json:"min_principal"` // whole ariary (fiat equivalent for token investments)
	DailyReturnRate decimal.Decimal `json:"daily_return_rate"`
	DurationDays    int             `json:"duration_days"`
}

var plans = map[string]Plan{
	"starter": {
		ID:              "starter",
		Name:            "Starter",
		MinPrincipal:    50_000,
		DailyReturnRate: decimal.NewFromFloat(0.02),
		DurationDays:    30,
	},
	"growth": {
		ID:              "growth",
		Name:            "Growth",
		MinPrincipal:    250_000,
		DailyReturnRate: decimal.NewFromFloat(0.025),
		DurationDays:    45,
	},
	"premium": {
		ID:              "premium",
		Name:            "Premium",
		MinPrincipal:    1_000_000,
		DailyReturnRate: decimal.NewFromFloat(0.03),
		DurationDays:    60,
	},
}

// PlanByID looks up a plan in the catalog.
func PlanByID(id string) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

// Plans returns the full plan catalog.
func Plans() []Plan {
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, p)
	}
	return out
}
