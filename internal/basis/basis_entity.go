package basis

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Canonical basis codes. All seven must exist for an organization before a
// payroll run; the orchestrator refuses to start otherwise.
const (
	CodeGross       = "BASE_BRUTE"
	CodeNonTaxable  = "BASE_NON_IMPOSABLE"
	CodeTaxable     = "BASE_IMPOSABLE"
	CodeIRPPTaxable = "BASE_IRPP"
	CodeCNSS        = "BASE_CNSS"
	CodeCNAMGS      = "BASE_CNAMGS"
	CodeBasicSalary = "SALAIRE_BASE"
)

// RequiredCodes returns the canonical basis set in a stable order.
func RequiredCodes() []string {
	return []string{
		CodeGross,
		CodeNonTaxable,
		CodeTaxable,
		CodeIRPPTaxable,
		CodeCNSS,
		CodeCNAMGS,
		CodeBasicSalary,
	}
}

// CalculationBasis is a named aggregation bucket earning lines feed into
// and deductions read from.
type CalculationBasis struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	Code        string `gorm:"type:varchar(50);not null;index"`
	Name        string `gorm:"type:varchar(120);not null"`
	Description string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CalculationBasis) TableName() string {
	return "calculation_bases"
}

// CalculationBasisAdvantage maps a basis to an earning line, either by the
// contract-advantage row identity or by a normalized earning code.
type CalculationBasisAdvantage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	BasisID        uuid.UUID `gorm:"type:uuid;not null;index"`

	ContractAdvantageID *uuid.UUID `gorm:"type:uuid"`
	AdvantageCode       string     `gorm:"type:varchar(50)"`

	CreatedAt time.Time
}

func (CalculationBasisAdvantage) TableName() string {
	return "calculation_basis_advantages"
}

// NormalizeCode canonicalizes an earning code for membership matching.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
