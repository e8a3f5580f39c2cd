package deduction

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/basis"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
)

// Line is one computed deduction line, on exactly one side: a configured
// deduction applying to both employee and employer yields two lines with
// independent rates and amounts.
type Line struct {
	DeductionID uuid.UUID
	Code        string
	Name        string
	BasisCode   string
	BasisAmount decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	IsEmployee  bool
	IsEmployer  bool
	NotCounted  bool
}

// Result carries the computed lines and the counted totals per side.
type Result struct {
	Lines         []Line
	TotalEmployee decimal.Decimal
	TotalEmployer decimal.Decimal
}

var hundred = decimal.NewFromInt(100)
var twelve = decimal.NewFromInt(12)

// Compute evaluates the organization's deductions against the resolved
// bases in three passes. The order is load-bearing: income tax reads the
// pension contribution accumulated by the social pass, and the surtax
// reads the income tax computed in the second pass.
func Compute(
	deductions []Resolved,
	bases map[string]decimal.Decimal,
	cfg payrollconfig.Configuration,
) Result {
	ordered := make([]Resolved, len(deductions))
	copy(ordered, deductions)
	sortStable(ordered)

	var social, incomeTax, rest []Resolved
	for _, d := range ordered {
		switch {
		case isIncomeTax(d.Deduction):
			incomeTax = append(incomeTax, d)
		case isSurtax(d.Deduction):
			rest = append(rest, d) // evaluated in pass 3, after the tax
		case isSocial(d.Deduction):
			social = append(social, d)
		default:
			rest = append(rest, d)
		}
	}

	res := Result{
		TotalEmployee: decimal.Zero,
		TotalEmployer: decimal.Zero,
	}

	// Pass 1: social contributions, accumulated per system code so the
	// income-tax pass can subtract the pension share.
	socialByCode := make(map[string]decimal.Decimal)
	for _, d := range social {
		lines := evaluateStandard(d, bases, cfg)
		for _, l := range lines {
			if l.IsEmployee {
				code := normalizeSystemCode(d.SystemCode)
				socialByCode[code] = socialByCode[code].Add(l.Amount)
			}
			res.add(l)
		}
	}

	// Pass 2: progressive income tax.
	taxEmployee := decimal.Zero
	for _, d := range incomeTax {
		basisCode := d.BasisCode
		if basisCode == "" {
			basisCode = basis.CodeIRPPTaxable
		}
		monthlyBasis := bases[basisCode]

		amount := cfg.Round(progressiveTax(d, monthlyBasis, socialByCode[SystemCNSS], cfg))

		if d.IsEmployee {
			res.add(Line{
				DeductionID: d.ID,
				Code:        d.Code,
				Name:        d.Name,
				BasisCode:   basisCode,
				BasisAmount: monthlyBasis,
				Amount:      amount,
				IsEmployee:  true,
				NotCounted:  d.NotCounted,
			})
			taxEmployee = taxEmployee.Add(amount)
		}
		if d.IsEmployer {
			res.add(Line{
				DeductionID: d.ID,
				Code:        d.Code,
				Name:        d.Name,
				BasisCode:   basisCode,
				BasisAmount: monthlyBasis,
				Amount:      amount,
				IsEmployer:  true,
				NotCounted:  d.NotCounted,
			})
		}
	}

	// Pass 3: surtax on the computed tax, then every remaining deduction.
	for _, d := range rest {
		if isSurtax(d.Deduction) {
			for _, l := range surtaxLines(d, taxEmployee, cfg) {
				res.add(l)
			}
			continue
		}
		for _, l := range evaluateStandard(d, bases, cfg) {
			res.add(l)
		}
	}

	return res
}

func (r *Result) add(l Line) {
	r.Lines = append(r.Lines, l)
	if l.NotCounted {
		return
	}
	if l.IsEmployee {
		r.TotalEmployee = r.TotalEmployee.Add(l.Amount)
	}
	if l.IsEmployer {
		r.TotalEmployer = r.TotalEmployer.Add(l.Amount)
	}
}

// evaluateStandard computes the employee/employer lines of a fixed, rate,
// bracket-scale or threshold-table deduction.
func evaluateStandard(d Resolved, bases map[string]decimal.Decimal, cfg payrollconfig.Configuration) []Line {
	basisCode := d.BasisCode
	if basisCode == "" {
		basisCode = basis.CodeGross
	}
	basisAmount := bases[basisCode]

	var lines []Line
	emit := func(amount, rate decimal.Decimal, employee bool) {
		l := Line{
			DeductionID: d.ID,
			Code:        d.Code,
			Name:        d.Name,
			BasisCode:   basisCode,
			BasisAmount: basisAmount,
			Rate:        rate,
			Amount:      cfg.Round(amount),
			NotCounted:  d.NotCounted,
		}
		if employee {
			l.IsEmployee = true
		} else {
			l.IsEmployer = true
		}
		lines = append(lines, l)
	}

	switch d.CalcMethod.Kind {
	case MethodFixed:
		if d.IsEmployee {
			emit(d.CalcMethod.FixedAmount, decimal.Zero, true)
		}
		if d.IsEmployer {
			emit(d.CalcMethod.FixedAmount, decimal.Zero, false)
		}

	case MethodRate:
		if d.IsEmployee {
			rate := d.CalcMethod.EmployeeRate
			emit(basisAmount.Mul(rate).Div(hundred), rate, true)
		}
		if d.IsEmployer {
			rate := d.CalcMethod.EmployerRate
			emit(basisAmount.Mul(rate).Div(hundred), rate, false)
		}

	case MethodBracketScale:
		amount, rate := bracketScaleAmount(d.CalcMethod.Scale, basisAmount)
		if d.IsEmployee {
			emit(amount, rate, true)
		}
		if d.IsEmployer {
			emit(amount, rate, false)
		}

	case MethodThresholdTable:
		amount := thresholdLookup(d.CalcMethod.Scale, basisAmount)
		if d.IsEmployee {
			emit(amount, decimal.Zero, true)
		}
		if d.IsEmployer {
			emit(amount, decimal.Zero, false)
		}
	}

	return lines
}

// bracketScaleAmount walks the brackets by containment and returns the
// coefficient-derived amount or fixed indice of the matching bracket,
// falling back to the last bracket when the value is above every range.
func bracketScaleAmount(s *Scale, v decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if s == nil || len(s.Ranges) == 0 {
		return decimal.Zero, decimal.Zero
	}

	matched := s.Ranges[len(s.Ranges)-1]
	for _, r := range s.Ranges {
		if r.Contains(v) {
			matched = r
			break
		}
	}

	if matched.Coefficient.IsPositive() {
		return v.Mul(matched.Coefficient).Div(hundred), matched.Coefficient
	}
	return matched.Indice, decimal.Zero
}

// thresholdLookup returns the indice of the first bracket whose threshold
// reaches the value, else the last bracket's indice.
func thresholdLookup(s *Scale, v decimal.Decimal) decimal.Decimal {
	if s == nil || len(s.Ranges) == 0 {
		return decimal.Zero
	}

	for _, r := range s.Ranges {
		if r.Open() || r.UpperBound.GreaterThanOrEqual(v) {
			return r.Indice
		}
	}
	return s.Ranges[len(s.Ranges)-1].Indice
}

// progressiveTax computes the monthly income tax from the annualized net
// taxable amount.
func progressiveTax(
	d Resolved,
	monthlyBasis decimal.Decimal,
	pensionContribution decimal.Decimal,
	cfg payrollconfig.Configuration,
) decimal.Decimal {
	if monthlyBasis.LessThanOrEqual(cfg.MonthlyTaxThreshold) {
		return decimal.Zero
	}

	professionalExpense := monthlyBasis.Mul(cfg.ProfessionalExpenseRate).Div(hundred)
	if professionalExpense.GreaterThan(cfg.ProfessionalExpenseCap) {
		professionalExpense = cfg.ProfessionalExpenseCap
	}

	netAnnual := monthlyBasis.
		Sub(professionalExpense).
		Sub(pensionContribution).
		Mul(twelve).
		Sub(cfg.AnnualExemptThreshold)
	if netAnnual.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	scale := d.CalcMethod.Scale
	if scale == nil || len(scale.Ranges) == 0 {
		return decimal.Zero
	}

	annualTax := decimal.Zero
	for _, r := range scale.Ranges {
		if !r.Open() && netAnnual.GreaterThanOrEqual(r.UpperBound) {
			// Bracket entirely below the taxable amount.
			annualTax = annualTax.Add(r.Indice)
			continue
		}
		if r.Contains(netAnnual) {
			annualTax = annualTax.Add(netAnnual.Sub(r.LowerBound).Mul(r.Coefficient).Div(hundred))
		}
		break
	}

	return annualTax.Div(twelve)
}

// surtaxLines computes the surtax as a percentage of the already computed
// income tax, per side, defaulting to the configured surtax rate.
func surtaxLines(d Resolved, taxEmployee decimal.Decimal, cfg payrollconfig.Configuration) []Line {
	var lines []Line

	emit := func(rate decimal.Decimal, employee bool) {
		if rate.IsZero() {
			rate = cfg.SurtaxRate
		}
		l := Line{
			DeductionID: d.ID,
			Code:        d.Code,
			Name:        d.Name,
			BasisAmount: taxEmployee,
			Rate:        rate,
			Amount:      cfg.Round(taxEmployee.Mul(rate).Div(hundred)),
			NotCounted:  d.NotCounted,
		}
		if employee {
			l.IsEmployee = true
		} else {
			l.IsEmployer = true
		}
		lines = append(lines, l)
	}

	if d.IsEmployee {
		emit(d.CalcMethod.EmployeeRate, true)
	}
	if d.IsEmployer {
		emit(d.CalcMethod.EmployerRate, false)
	}
	return lines
}

// sortStable orders deductions by explicit position, then normalized
// system code, then code, then id, so repeated runs evaluate identically.
func sortStable(deductions []Resolved) {
	sort.SliceStable(deductions, func(i, j int) bool {
		a, b := deductions[i], deductions[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if sa, sb := normalizeSystemCode(a.SystemCode), normalizeSystemCode(b.SystemCode); sa != sb {
			return sa < sb
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.ID.String() < b.ID.String()
	})
}

func normalizeSystemCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Classification helpers. System codes are authoritative; the name/code
// heuristics cover organizations that never filled them in.

func isIncomeTax(d Deduction) bool {
	if normalizeSystemCode(d.SystemCode) == SystemIRPP {
		return true
	}
	label := strings.ToUpper(d.Code + " " + d.Name)
	return strings.Contains(label, "IRPP") || strings.Contains(label, "INCOME TAX")
}

func isSurtax(d Deduction) bool {
	if normalizeSystemCode(d.SystemCode) == SystemTCS {
		return true
	}
	label := strings.ToUpper(d.Code + " " + d.Name)
	return strings.Contains(label, "SURTAX") || strings.Contains(label, "TCS")
}

func isSocial(d Deduction) bool {
	switch normalizeSystemCode(d.SystemCode) {
	case SystemCNSS, SystemCNAMGS:
		return true
	}
	label := strings.ToUpper(d.Code + " " + d.Name)
	if strings.Contains(label, "IRPP") || strings.Contains(label, "IMPOT") || strings.Contains(label, "TAX") {
		return false
	}
	return strings.Contains(label, "CNSS") ||
		strings.Contains(label, "CNAMGS") ||
		strings.Contains(label, "SOCIAL") ||
		strings.Contains(label, "PENSION") ||
		strings.Contains(label, "RETRAITE")
}
