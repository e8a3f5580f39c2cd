package salary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Salary statuses. SIMULATED and GENERATED rows are mutable and get fully
// recomputed on every run; VALIDATED rows are frozen and feed payment
// batches; ARCHIVED rows are kept for history only.
const (
	StatusSimulated = "SIMULATED"
	StatusGenerated = "GENERATED"
	StatusValidated = "VALIDATED"
	StatusArchived  = "ARCHIVED"
)

// Salary is the monthly pay aggregate of one contract.
type Salary struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	ContractID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_salary_contract_period"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index"`

	Year  int `gorm:"not null;uniqueIndex:idx_salary_contract_period"`
	Month int `gorm:"not null;uniqueIndex:idx_salary_contract_period"`

	Status string `gorm:"type:varchar(10);not null;default:'SIMULATED';index"`

	// BaseSalary is the prorated basic salary of the period, not the
	// contract's nominal base.
	BaseSalary              decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	GrossSalary             decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	TaxableGrossSalary      decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	IRPPTaxableGrossSalary  decimal.Decimal `gorm:"column:irpp_taxable_gross_salary;type:numeric(18,4);not null;default:0"`
	CNSSBasis               decimal.Decimal `gorm:"column:cnss_basis;type:numeric(18,4);not null;default:0"`
	CNAMGSBasis             decimal.Decimal `gorm:"column:cnamgs_basis;type:numeric(18,4);not null;default:0"`
	TotalAdvantages         decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	TotalEmployeeDeductions decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	TotalEmployerDeductions decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	NetSalary               decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`

	LeaveDays     decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	AbsenceDays   decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	OvertimeHours decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`

	Advantages []SalaryAdvantage `gorm:"foreignKey:SalaryID"`
	Deductions []SalaryDeduction `gorm:"foreignKey:SalaryID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Salary) TableName() string {
	return "salaries"
}

// Mutable reports whether a run may still recompute the salary.
func (s Salary) Mutable() bool {
	return s.Status == StatusSimulated || s.Status == StatusGenerated
}

// Locked reports whether the salary belongs to a finalized period.
func (s Salary) Locked() bool {
	return s.Status == StatusValidated || s.Status == StatusArchived
}

// SalaryAdvantage is one earning line of a salary, replaced wholesale on
// every mutable re-run.
type SalaryAdvantage struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaryID uuid.UUID `gorm:"type:uuid;not null;index"`

	ContractAdvantageID *uuid.UUID `gorm:"type:uuid"`
	GeneratedItemID     *uuid.UUID `gorm:"type:uuid"`

	Code string `gorm:"type:varchar(50);not null"`
	Name string `gorm:"type:varchar(120);not null"`

	Quantity decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Rate     decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
	Amount   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`

	IsBasicSalary bool `gorm:"not null;default:false"`

	CreatedAt time.Time
}

func (SalaryAdvantage) TableName() string {
	return "salary_advantages"
}

// SalaryDeduction is one deduction line of a salary, on exactly one side.
type SalaryDeduction struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaryID uuid.UUID `gorm:"type:uuid;not null;index"`

	DeductionID     *uuid.UUID `gorm:"type:uuid"`
	GeneratedItemID *uuid.UUID `gorm:"type:uuid"`

	Code string `gorm:"type:varchar(50);not null"`
	Name string `gorm:"type:varchar(120);not null"`

	BasisCode   string          `gorm:"type:varchar(50)"`
	BasisAmount decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Rate        decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`

	IsEmployee bool `gorm:"not null;default:true"`
	IsEmployer bool `gorm:"not null;default:false"`
	NotCounted bool `gorm:"not null;default:false"`

	CreatedAt time.Time
}

func (SalaryDeduction) TableName() string {
	return "salary_deductions"
}
