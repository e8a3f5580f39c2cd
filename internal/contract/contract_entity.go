package contract

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Contract is the employment contract read model the engine computes
// salaries for. Master-data CRUD lives elsewhere; the engine only reads.
type Contract struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	BranchID       *uuid.UUID `gorm:"type:uuid;index"`
	DepartmentID   *uuid.UUID `gorm:"type:uuid;index"`

	BaseSalary   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Currency     string          `gorm:"type:varchar(3);not null;default:'XAF'"`
	PayFrequency string          `gorm:"type:varchar(20);not null;default:'MONTHLY'"`

	StartDate time.Time  `gorm:"type:date;not null"`
	EndDate   *time.Time `gorm:"type:date"`
	Active    bool       `gorm:"not null;default:true"`

	Employee   *EmployeeRef        `gorm:"foreignKey:EmployeeID;references:ID"`
	Advantages []ContractAdvantage `gorm:"foreignKey:ContractID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Contract) TableName() string {
	return "contracts"
}

// ActiveInPeriod reports whether the contract covers at least one day of
// [periodStart, periodEnd].
func (c Contract) ActiveInPeriod(periodStart, periodEnd time.Time) bool {
	if !c.Active {
		return false
	}
	if c.StartDate.After(periodEnd) {
		return false
	}
	if c.EndDate != nil && c.EndDate.Before(periodStart) {
		return false
	}
	return true
}

// ContractAdvantage is one enabled earning element of a contract.
type ContractAdvantage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	ContractID     uuid.UUID `gorm:"type:uuid;not null;index"`

	Code string `gorm:"type:varchar(50);not null"`
	Name string `gorm:"type:varchar(120);not null"`

	// Amount is a flat amount, or the hourly rate when IsOvertime is set.
	Amount decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	// PercentOfBase above zero overrides Amount with base × percent / 100.
	PercentOfBase decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`

	IsBasicSalary bool `gorm:"not null;default:false"`
	IsOvertime    bool `gorm:"not null;default:false"`

	// Month/Year of zero mean "every month"/"every year".
	Month         int        `gorm:"not null;default:0"`
	Year          int        `gorm:"not null;default:0"`
	EffectiveFrom *time.Time `gorm:"type:date"`

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ContractAdvantage) TableName() string {
	return "contract_advantages"
}

// AppliesTo reports whether the element is payable for the given period.
func (a ContractAdvantage) AppliesTo(year, month int, periodEnd time.Time) bool {
	if !a.Active {
		return false
	}
	if a.Month != 0 && a.Month != month {
		return false
	}
	if a.Year != 0 && a.Year != year {
		return false
	}
	if a.EffectiveFrom != nil && a.EffectiveFrom.After(periodEnd) {
		return false
	}
	return true
}

// EmployeeRef carries the employee fields validation needs: identity plus
// payout routing details.
type EmployeeRef struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	FullName      string `gorm:"column:full_name"`
	PaymentMethod string `gorm:"column:payment_method"`
	BankName      string `gorm:"column:bank_name"`
	BankAccount   string `gorm:"column:bank_account"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
