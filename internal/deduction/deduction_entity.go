package deduction

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Statutory system codes. CNSS doubles as the pension contribution the
// income-tax pass subtracts from its basis.
const (
	SystemCNSS   = "CNSS"
	SystemCNAMGS = "CNAMGS"
	SystemIRPP   = "IRPP"
	SystemTCS    = "TCS"
)

// MethodKind discriminates the single tagged calculation-method variant a
// deduction resolves to at load time. Evaluation never branches on raw
// configuration flags.
type MethodKind string

const (
	MethodFixed          MethodKind = "FIXED"
	MethodRate           MethodKind = "RATE"
	MethodBracketScale   MethodKind = "SCALE"
	MethodThresholdTable MethodKind = "TABLE"
)

// Deduction is the stored configuration of one statutory or contractual
// deduction.
type Deduction struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	Code       string `gorm:"type:varchar(50);not null"`
	Name       string `gorm:"type:varchar(120);not null"`
	SystemCode string `gorm:"type:varchar(30)"`

	IsEmployee bool `gorm:"not null;default:true"`
	IsEmployer bool `gorm:"not null;default:false"`

	Method       string          `gorm:"type:varchar(10);not null;default:'RATE'"`
	EmployeeRate decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	EmployerRate decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	FixedAmount  decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`

	BasisCode string     `gorm:"type:varchar(50)"`
	ScaleID   *uuid.UUID `gorm:"type:uuid"`

	// NotCounted lines stay visible on the payslip but never enter the
	// employee/employer totals.
	NotCounted bool `gorm:"not null;default:false"`
	Position   int  `gorm:"not null;default:0"`
	Active     bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Deduction) TableName() string {
	return "deductions"
}

// Scale is an ordered set of brackets used for progressive or tiered
// computations.
type Scale struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	Code string `gorm:"type:varchar(50);not null"`
	Name string `gorm:"type:varchar(120);not null"`

	Ranges []ScaleRange `gorm:"foreignKey:ScaleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Scale) TableName() string {
	return "scales"
}

// ScaleRange is one half-open bracket [LowerBound, UpperBound). An
// UpperBound of zero marks the open-ended top bracket. Either Coefficient
// (percent) or Indice (fixed amount) applies.
type ScaleRange struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ScaleID uuid.UUID `gorm:"type:uuid;not null;index"`

	LowerBound  decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	UpperBound  decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Coefficient decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	Indice      decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Position    int             `gorm:"not null;default:0"`

	CreatedAt time.Time
}

func (ScaleRange) TableName() string {
	return "scale_ranges"
}

// Open reports whether the bracket has no upper bound.
func (r ScaleRange) Open() bool {
	return r.UpperBound.IsZero()
}

// Contains reports whether the value falls inside the half-open bracket.
func (r ScaleRange) Contains(v decimal.Decimal) bool {
	if v.LessThan(r.LowerBound) {
		return false
	}
	return r.Open() || v.LessThan(r.UpperBound)
}

// CalculationMethod is the resolved variant a deduction evaluates with.
type CalculationMethod struct {
	Kind         MethodKind
	FixedAmount  decimal.Decimal
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal
	Scale        *Scale
}

// Resolved pairs a deduction with its load-time resolved method.
type Resolved struct {
	Deduction
	CalcMethod CalculationMethod
}

// ResolveMethod builds the tagged variant for one deduction, attaching the
// referenced scale. A scale-based method without a loadable scale is a
// configuration error, surfaced at load time rather than mid-run.
func ResolveMethod(d Deduction, scales map[uuid.UUID]Scale) (Resolved, error) {
	kind := MethodKind(strings.ToUpper(strings.TrimSpace(d.Method)))

	m := CalculationMethod{
		Kind:         kind,
		FixedAmount:  d.FixedAmount,
		EmployeeRate: d.EmployeeRate,
		EmployerRate: d.EmployerRate,
	}

	switch kind {
	case MethodFixed, MethodRate:
		// No scale needed.
	case MethodBracketScale, MethodThresholdTable:
		if d.ScaleID == nil {
			return Resolved{}, fmt.Errorf("deduction %s: method %s requires a scale reference", d.Code, kind)
		}
		scale, ok := scales[*d.ScaleID]
		if !ok {
			return Resolved{}, fmt.Errorf("deduction %s: scale %s not found", d.Code, d.ScaleID)
		}
		m.Scale = &scale
	default:
		return Resolved{}, fmt.Errorf("deduction %s: unknown calculation method %q", d.Code, d.Method)
	}

	return Resolved{Deduction: d, CalcMethod: m}, nil
}

// ResolveMethods resolves a configured deduction set, keeping only active
// rows.
func ResolveMethods(deductions []Deduction, scales map[uuid.UUID]Scale) ([]Resolved, error) {
	resolved := make([]Resolved, 0, len(deductions))
	for _, d := range deductions {
		if !d.Active {
			continue
		}
		r, err := ResolveMethod(d, scales)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, r)
	}
	return resolved, nil
}
