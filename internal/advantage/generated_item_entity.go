package advantage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/prorating"
)

const (
	ItemStatusDraft  = "DRAFT"
	ItemStatusLocked = "LOCKED"
)

// PayrollGeneratedItem is the durable record of one attendance/leave
// derived pay impact. Rows are upserted by idempotency key so repeated runs
// never duplicate an impact; rows a run no longer reproduces are
// deactivated instead of deleted, preserving audit history. DRAFT rows
// follow the in-progress salary; LOCKED rows belong to a validated one and
// are never touched again.
type PayrollGeneratedItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	ContractID     uuid.UUID `gorm:"type:uuid;not null;index:idx_generated_contract_period"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index"`

	Year  int `gorm:"not null;index:idx_generated_contract_period"`
	Month int `gorm:"not null;index:idx_generated_contract_period"`

	EventCode string `gorm:"type:varchar(30);not null"`
	Bucket    string `gorm:"type:varchar(20);not null"`
	SourceRef string `gorm:"type:varchar(100);not null"`

	IdempotencyKey string `gorm:"type:varchar(300);not null;uniqueIndex"`

	TargetCode string `gorm:"type:varchar(50);not null"`
	Label      string `gorm:"type:varchar(120);not null"`

	Quantity decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Unit     string          `gorm:"type:varchar(20);not null;default:'MINUTES'"`
	Rate     decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
	Amount   decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`

	Status   string     `gorm:"type:varchar(10);not null;default:'DRAFT';index"`
	Active   bool       `gorm:"not null;default:true"`
	SalaryID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollGeneratedItem) TableName() string {
	return "payroll_generated_items"
}

// BuildIdempotencyKey derives the deterministic composite key guaranteeing
// at most one generated item per real-world event per period.
func BuildIdempotencyKey(
	organizationID, contractID, employeeID uuid.UUID,
	p prorating.Period,
	eventCode, bucket, sourceRef string,
) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		organizationID, contractID, employeeID, p.String(), eventCode, bucket, sourceRef)
}
