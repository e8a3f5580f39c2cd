package payrollconfig

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RoundingHalfUp = "HALF_UP"
	RoundingDown   = "DOWN"
	RoundingUp     = "UP"
)

// Configuration holds the per-organization payroll run parameters. Every
// field has a defined default set at construction time; the engine never
// probes for "maybe missing" values at evaluation time.
type Configuration struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	PayrollEnabled bool   `gorm:"not null;default:true"`
	RoundingMode   string `gorm:"type:varchar(10);not null;default:'HALF_UP'"`
	DecimalScale   int32  `gorm:"not null;default:2"`

	// Rates are percent values (20 means 20%).
	ProfessionalExpenseRate decimal.Decimal `gorm:"type:numeric(8,4);not null;default:20"`
	ProfessionalExpenseCap  decimal.Decimal `gorm:"type:numeric(18,4);not null;default:833333"`
	AnnualExemptThreshold   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:1800000"`
	MonthlyTaxThreshold     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:150000"`
	SurtaxRate              decimal.Decimal `gorm:"type:numeric(8,4);not null;default:5"`

	// When set above zero, taxable gross becomes this percentage of gross
	// instead of gross minus the non-taxable basis.
	TaxablePercentOfGross decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`

	WorkingMinutesPerDay int `gorm:"not null;default:480"`

	// Comma-separated list, e.g. "BANK_TRANSFER,CASH,MOBILE_MONEY".
	AllowedPaymentMethods string `gorm:"type:varchar(200);not null;default:'BANK_TRANSFER,CASH'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Configuration) TableName() string {
	return "payroll_configurations"
}

// DefaultConfiguration returns the run parameters used when an organization
// has no stored configuration row.
func DefaultConfiguration(organizationID uuid.UUID) Configuration {
	return Configuration{
		OrganizationID:          organizationID,
		PayrollEnabled:          true,
		RoundingMode:            RoundingHalfUp,
		DecimalScale:            2,
		ProfessionalExpenseRate: decimal.NewFromInt(20),
		ProfessionalExpenseCap:  decimal.NewFromInt(833333),
		AnnualExemptThreshold:   decimal.NewFromInt(1800000),
		MonthlyTaxThreshold:     decimal.NewFromInt(150000),
		SurtaxRate:              decimal.NewFromInt(5),
		TaxablePercentOfGross:   decimal.Zero,
		WorkingMinutesPerDay:    480,
		AllowedPaymentMethods:   "BANK_TRANSFER,CASH",
	}
}

// Round applies the configured rounding mode and scale to a monetary value.
func (c Configuration) Round(d decimal.Decimal) decimal.Decimal {
	switch c.RoundingMode {
	case RoundingDown:
		return d.RoundDown(c.DecimalScale)
	case RoundingUp:
		return d.RoundUp(c.DecimalScale)
	default:
		return d.Round(c.DecimalScale)
	}
}

// UsesTaxablePercentOverride reports whether taxable gross is derived as a
// percentage of gross instead of gross minus non-taxable.
func (c Configuration) UsesTaxablePercentOverride() bool {
	return c.TaxablePercentOfGross.IsPositive()
}

// IsPaymentMethodAllowed checks the configured method whitelist.
func (c Configuration) IsPaymentMethodAllowed(method string) bool {
	for _, m := range strings.Split(c.AllowedPaymentMethods, ",") {
		if strings.EqualFold(strings.TrimSpace(m), method) {
			return true
		}
	}
	return false
}
