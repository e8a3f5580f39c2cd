package advantage

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/contract"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/prorating"
)

// SyntheticBasicCode labels the basic-salary line synthesized when no
// contract earning element is flagged as basic salary.
const SyntheticBasicCode = "SALAIRE_BASE"

// Line is one earning or impact line for a contract period.
type Line struct {
	// AdvantageID references the contract earning element the line came
	// from; synthesized and attendance-impact lines carry none.
	AdvantageID     *uuid.UUID
	GeneratedItemID *uuid.UUID

	Code string
	Name string

	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Amount   decimal.Decimal

	IsBasicSalary bool
}

// BuildLines produces the configured earning lines of a contract for one
// period. Zero-amount lines are dropped; when no element represents basic
// salary but the prorated basic is positive, a "Basic Salary" line is
// synthesized so gross pay never silently loses the base component.
func BuildLines(
	c contract.Contract,
	p prorating.Period,
	adj prorating.Adjustment,
	cfg payrollconfig.Configuration,
) []Line {
	lines := make([]Line, 0, len(c.Advantages)+1)
	hasBasic := false

	for i := range c.Advantages {
		adv := c.Advantages[i]
		if !adv.AppliesTo(p.Year, p.Month, p.End()) {
			continue
		}

		amount := elementAmount(adv, c.BaseSalary, adj)
		amount = cfg.Round(amount)
		if amount.IsZero() {
			continue
		}

		id := adv.ID
		line := Line{
			AdvantageID:   &id,
			Code:          adv.Code,
			Name:          adv.Name,
			Quantity:      decimal.NewFromInt(1),
			Rate:          decimal.Zero,
			Amount:        amount,
			IsBasicSalary: adv.IsBasicSalary,
		}
		if adv.IsOvertime {
			line.Quantity = adj.OvertimeHours
			line.Rate = adv.Amount
		}

		if adv.IsBasicSalary {
			hasBasic = true
		}
		lines = append(lines, line)
	}

	if !hasBasic && adj.ProratedBase.IsPositive() {
		lines = append(lines, Line{
			Code:          SyntheticBasicCode,
			Name:          "Basic Salary",
			Quantity:      decimal.NewFromInt(1),
			Amount:        adj.ProratedBase,
			IsBasicSalary: true,
		})
	}

	return lines
}

func elementAmount(adv contract.ContractAdvantage, baseSalary decimal.Decimal, adj prorating.Adjustment) decimal.Decimal {
	switch {
	case adv.IsBasicSalary:
		return adj.ProratedBase
	case adv.IsOvertime:
		return adv.Amount.Mul(adj.OvertimeHours)
	case adv.PercentOfBase.IsPositive():
		return baseSalary.Mul(adv.PercentOfBase).Div(decimal.NewFromInt(100))
	default:
		return adv.Amount
	}
}
