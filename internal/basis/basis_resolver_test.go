package basis_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/basis"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
)

func testConfig() payrollconfig.Configuration {
	return payrollconfig.DefaultConfiguration(uuid.New())
}

func allBases() []basis.CalculationBasis {
	bases := make([]basis.CalculationBasis, 0, len(basis.RequiredCodes()))
	for _, code := range basis.RequiredCodes() {
		bases = append(bases, basis.CalculationBasis{ID: uuid.New(), Code: code, Name: code})
	}
	return bases
}

func findBasis(t *testing.T, bases []basis.CalculationBasis, code string) basis.CalculationBasis {
	t.Helper()
	for _, b := range bases {
		if b.Code == code {
			return b
		}
	}
	t.Fatalf("basis %s not in set", code)
	return basis.CalculationBasis{}
}

func TestResolveFallbackWithoutMemberships(t *testing.T) {
	bases := allBases()
	basic := decimal.NewFromInt(1000)

	lines := []basis.Line{
		{Code: "SALAIRE_BASE", Amount: basic, IsBasicSalary: true},
		{Code: "PRIME_REPAS", Amount: decimal.NewFromInt(200)},
	}

	totals := basis.Resolve(bases, nil, lines, basic, testConfig())

	assert.True(t, totals[basis.CodeGross].Equal(decimal.NewFromInt(1200)))
	// No membership configured anywhere, so non-taxable falls back to zero
	// and taxable equals gross.
	assert.True(t, totals[basis.CodeTaxable].Equal(decimal.NewFromInt(1200)))
	assert.True(t, totals[basis.CodeIRPPTaxable].Equal(decimal.NewFromInt(1200)))
	assert.True(t, totals[basis.CodeCNSS].Equal(basic))
	assert.True(t, totals[basis.CodeCNAMGS].Equal(basic))
	assert.True(t, totals[basis.CodeBasicSalary].Equal(basic))
}

func TestResolveMealAllowanceMappedNonTaxable(t *testing.T) {
	bases := allBases()
	basic := decimal.NewFromInt(1000)
	meal := decimal.NewFromInt(200)

	gross := findBasis(t, bases, basis.CodeGross)
	nonTaxable := findBasis(t, bases, basis.CodeNonTaxable)

	// Only the meal allowance is routed: into gross and into non-taxable.
	edges := []basis.CalculationBasisAdvantage{
		{ID: uuid.New(), BasisID: gross.ID, AdvantageCode: "PRIME_REPAS"},
		{ID: uuid.New(), BasisID: nonTaxable.ID, AdvantageCode: "PRIME_REPAS"},
	}

	lines := []basis.Line{
		{Code: "SALAIRE_BASE", Amount: basic, IsBasicSalary: true},
		{Code: "PRIME_REPAS", Amount: meal},
	}

	totals := basis.Resolve(bases, edges, lines, basic, testConfig())

	// The basic line was not routed into gross by any edge, so the gross
	// repair adds it back.
	require.True(t, totals[basis.CodeGross].Equal(decimal.NewFromInt(1200)),
		"gross = %s", totals[basis.CodeGross])
	assert.True(t, totals[basis.CodeNonTaxable].Equal(meal))
	assert.True(t, totals[basis.CodeTaxable].Equal(basic),
		"taxable = %s", totals[basis.CodeTaxable])
	assert.True(t, totals[basis.CodeIRPPTaxable].Equal(basic))
}

func TestResolveTaxablePercentOverride(t *testing.T) {
	bases := allBases()
	cfg := testConfig()
	cfg.TaxablePercentOfGross = decimal.NewFromInt(80)

	basic := decimal.NewFromInt(1000)
	lines := []basis.Line{{Code: "SALAIRE_BASE", Amount: basic, IsBasicSalary: true}}

	totals := basis.Resolve(bases, nil, lines, basic, cfg)

	assert.True(t, totals[basis.CodeTaxable].Equal(decimal.NewFromInt(800)))
	assert.True(t, totals[basis.CodeIRPPTaxable].Equal(decimal.NewFromInt(800)))
}

func TestResolveNegativeFlooredAtZero(t *testing.T) {
	bases := allBases()
	basic := decimal.Zero

	lines := []basis.Line{
		{Code: "RETENUE", Amount: decimal.NewFromInt(-300)},
	}

	totals := basis.Resolve(bases, nil, lines, basic, testConfig())

	for _, code := range basis.RequiredCodes() {
		assert.False(t, totals[code].IsNegative(), "basis %s is negative", code)
	}
}

func TestMissingCodes(t *testing.T) {
	bases := allBases()

	assert.Empty(t, basis.MissingCodes(bases))

	trimmed := make([]basis.CalculationBasis, 0, len(bases)-1)
	for _, b := range bases {
		if b.Code == basis.CodeIRPPTaxable {
			continue
		}
		trimmed = append(trimmed, b)
	}

	assert.Equal(t, []string{basis.CodeIRPPTaxable}, basis.MissingCodes(trimmed))
}
