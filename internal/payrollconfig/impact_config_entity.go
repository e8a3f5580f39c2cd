package payrollconfig

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Attendance/leave events an impact configuration can react to.
const (
	EventLateness       = "LATENESS"
	EventAbsence        = "ABSENCE"
	EventOvertime       = "OVERTIME"
	EventEarlyDeparture = "EARLY_DEPARTURE"
	EventWeekendWork    = "WEEKEND_WORK"
	EventUnpaidLeave    = "UNPAID_LEAVE"
)

// Bucket the generated line lands in.
const (
	BucketAdvantage = "ADVANTAGE"
	BucketDeduction = "DEDUCTION"
)

// Calculation methods for an impact amount.
const (
	MethodFixedAmount      = "FIXED"
	MethodPerMinute        = "PER_MINUTE"
	MethodPerHour          = "PER_HOUR"
	MethodPerDay           = "PER_DAY"
	MethodPercentOfDaily   = "PERCENT_OF_DAILY"
	MethodPercentOfBasic   = "PERCENT_OF_BASIC"
	MethodHourlyMultiplier = "HOURLY_MULTIPLIER"
)

// AttendanceImpactConfig maps one attendance/leave event to a pay impact.
// When at least one active config exists for an organization, the legacy
// attendance-derived absence/overtime path is suppressed entirely and
// impacts flow only through generated items.
type AttendanceImpactConfig struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	EventCode string `gorm:"type:varchar(30);not null"`
	Bucket    string `gorm:"type:varchar(20);not null;default:'DEDUCTION'"`
	Method    string `gorm:"type:varchar(30);not null;default:'PER_MINUTE'"`

	// Value is a money amount for FIXED/PER_* methods, a percent for
	// PERCENT_* methods and a plain multiplier for HOURLY_MULTIPLIER.
	Value decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`

	// CapAmount of zero means uncapped.
	CapAmount          decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	GraceMinutes       int             `gorm:"not null;default:0"`
	RequiresValidation bool            `gorm:"not null;default:false"`

	TargetCode  string `gorm:"type:varchar(50);not null"`
	TargetLabel string `gorm:"type:varchar(120);not null"`

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AttendanceImpactConfig) TableName() string {
	return "attendance_impact_configs"
}

func (c AttendanceImpactConfig) Capped() bool {
	return c.CapAmount.IsPositive()
}
