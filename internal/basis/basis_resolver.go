package basis

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
)

// Line is the earning-line view the resolver aggregates. The orchestrator
// maps the advantage builder's output into this shape.
type Line struct {
	// AdvantageID is the contract-advantage row the line came from, when
	// it came from one; synthesized and attendance-impact lines have none.
	AdvantageID   *uuid.UUID
	Code          string
	Amount        decimal.Decimal
	IsBasicSalary bool
}

// Resolve aggregates earning lines into the canonical basis totals.
//
// Each line is added to every basis it is a member of, matched by explicit
// line identity or by normalized code. A basis with zero membership edges
// falls back to an inferred default; a basis whose edges simply sum to zero
// keeps its zero. SALAIRE_BASE is always the prorated basic salary,
// bypassing membership entirely.
func Resolve(
	bases []CalculationBasis,
	edges []CalculationBasisAdvantage,
	lines []Line,
	proratedBasic decimal.Decimal,
	cfg payrollconfig.Configuration,
) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(RequiredCodes()))
	for _, code := range RequiredCodes() {
		totals[code] = decimal.Zero
	}

	edgesByBasis := make(map[uuid.UUID][]CalculationBasisAdvantage, len(bases))
	for _, e := range edges {
		edgesByBasis[e.BasisID] = append(edgesByBasis[e.BasisID], e)
	}

	totalEarnings := decimal.Zero
	basicAmount := decimal.Zero
	for _, l := range lines {
		totalEarnings = totalEarnings.Add(l.Amount)
		if l.IsBasicSalary {
			basicAmount = basicAmount.Add(l.Amount)
		}
	}

	basicRoutedToGross := false

	for _, b := range bases {
		code := NormalizeCode(b.Code)
		if _, required := totals[code]; !required {
			continue
		}

		basisEdges := edgesByBasis[b.ID]
		if len(basisEdges) == 0 {
			totals[code] = fallbackValue(code, totalEarnings, basicAmount)
			if code == CodeGross && basicAmount.IsPositive() {
				// Fallback sums every line, basic included.
				basicRoutedToGross = true
			}
			continue
		}

		sum := decimal.Zero
		for _, l := range lines {
			if !lineMatchesAny(l, basisEdges) {
				continue
			}
			sum = sum.Add(l.Amount)
			if code == CodeGross && l.IsBasicSalary {
				basicRoutedToGross = true
			}
		}
		totals[code] = sum
	}

	// Gross repair: incomplete membership configuration must not silently
	// exclude basic pay from gross.
	if basicAmount.IsPositive() && !basicRoutedToGross {
		totals[CodeGross] = totals[CodeGross].Add(basicAmount)
	}

	totals[CodeBasicSalary] = proratedBasic

	deriveTaxable(totals, cfg)

	for code, v := range totals {
		if v.IsNegative() {
			totals[code] = decimal.Zero
		}
	}

	return totals
}

// fallbackValue infers a per-basis default when zero membership edges are
// configured for it.
func fallbackValue(code string, totalEarnings, basicAmount decimal.Decimal) decimal.Decimal {
	switch code {
	case CodeGross, CodeTaxable, CodeIRPPTaxable:
		return totalEarnings
	case CodeCNSS, CodeCNAMGS:
		if basicAmount.IsPositive() {
			return basicAmount
		}
		return totalEarnings
	default:
		return decimal.Zero
	}
}

func lineMatchesAny(l Line, edges []CalculationBasisAdvantage) bool {
	lineCode := NormalizeCode(l.Code)
	for _, e := range edges {
		if e.ContractAdvantageID != nil && l.AdvantageID != nil && *e.ContractAdvantageID == *l.AdvantageID {
			return true
		}
		if e.AdvantageCode != "" && NormalizeCode(e.AdvantageCode) == lineCode {
			return true
		}
	}
	return false
}

// deriveTaxable recomputes the taxable bases from gross: gross minus the
// non-taxable basis, or a configured percentage of gross when the override
// mode is set. Applied identically to the taxable and IRPP-taxable bases.
func deriveTaxable(totals map[string]decimal.Decimal, cfg payrollconfig.Configuration) {
	gross := totals[CodeGross]

	var derived decimal.Decimal
	if cfg.UsesTaxablePercentOverride() {
		derived = gross.Mul(cfg.TaxablePercentOfGross).Div(decimal.NewFromInt(100))
	} else {
		derived = gross.Sub(totals[CodeNonTaxable])
	}

	totals[CodeTaxable] = derived
	totals[CodeIRPPTaxable] = derived
}
