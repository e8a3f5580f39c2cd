package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payout methods carried on employees and funding accounts.
const (
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCash         = "CASH"
	MethodMobileMoney  = "MOBILE_MONEY"
)

const (
	BatchStatusPending = "PENDING"
	BatchStatusSent    = "SENT"
	BatchStatusSettled = "SETTLED"
)

// FundingAccount is the treasury account a payment batch draws from. One
// active account per payout method.
type FundingAccount struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	PaymentMethod string `gorm:"type:varchar(30);not null"`
	AccountName   string `gorm:"type:varchar(120);not null"`
	AccountNumber string `gorm:"type:varchar(60)"`
	BankName      string `gorm:"type:varchar(120)"`

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FundingAccount) TableName() string {
	return "funding_accounts"
}

// PaymentBatch groups the validated salaries of one payout method under a
// counter-issued reference for the treasury handoff.
type PaymentBatch struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	Reference        string    `gorm:"type:varchar(40);not null;uniqueIndex"`
	PaymentMethod    string    `gorm:"type:varchar(30);not null"`
	FundingAccountID uuid.UUID `gorm:"type:uuid;not null"`

	Year  int `gorm:"not null"`
	Month int `gorm:"not null"`

	TotalAmount decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	LineCount   int             `gorm:"not null;default:0"`
	Status      string          `gorm:"type:varchar(10);not null;default:'PENDING'"`

	Lines []PaymentLine `gorm:"foreignKey:BatchID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PaymentBatch) TableName() string {
	return "payment_batches"
}

// PaymentLine pays one employee's net salary.
type PaymentLine struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID uuid.UUID `gorm:"type:uuid;not null;index"`

	SalaryID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	BeneficiaryName string `gorm:"type:varchar(120);not null"`
	BankName        string `gorm:"type:varchar(120)"`
	BankAccount     string `gorm:"type:varchar(60)"`

	Amount decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`

	CreatedAt time.Time
}

func (PaymentLine) TableName() string {
	return "payment_lines"
}
