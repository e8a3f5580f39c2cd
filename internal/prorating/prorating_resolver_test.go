package prorating_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/contract"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/prorating"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/workdata"
)

func testContract(base int64, start time.Time, end *time.Time) contract.Contract {
	return contract.Contract{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		BaseSalary: decimal.NewFromInt(base),
		StartDate:  start,
		EndDate:    end,
		Active:     true,
	}
}

func TestResolveFullMonth(t *testing.T) {
	p := prorating.Period{Year: 2026, Month: 1}
	c := testContract(1000, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	cfg := payrollconfig.DefaultConfiguration(uuid.New())

	adj := prorating.Resolve(c, p, nil, nil, false, cfg)

	assert.True(t, adj.ActiveDays.Equal(decimal.NewFromInt(31)))
	assert.True(t, adj.WorkedDays.Equal(decimal.NewFromInt(31)))
	assert.True(t, adj.ProratedBase.Equal(decimal.NewFromInt(1000)),
		"prorated = %s", adj.ProratedBase)
}

func TestResolveUnpaidLeaveReducesBase(t *testing.T) {
	p := prorating.Period{Year: 2026, Month: 1}
	c := testContract(1000, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	cfg := payrollconfig.DefaultConfiguration(uuid.New())

	// Two full working days of approved unpaid leave: 2 x 480 minutes.
	leave := []workdata.TimeOffRequest{{
		ID:         uuid.New(),
		EmployeeID: c.EmployeeID,
		Paid:       false,
		StartAt:    time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 1, 12, 16, 0, 0, 0, time.UTC),
		Status:     workdata.StatusApproved,
	}}

	adj := prorating.Resolve(c, p, leave, nil, false, cfg)

	assert.True(t, adj.UnpaidLeaveDays.Equal(decimal.NewFromInt(2)),
		"unpaid days = %s", adj.UnpaidLeaveDays)
	assert.True(t, adj.ProratedBase.LessThan(decimal.NewFromInt(1000)),
		"prorated = %s", adj.ProratedBase)
	// 29 worked of 31 days.
	expected := cfg.Round(decimal.NewFromInt(1000).
		Mul(decimal.NewFromInt(29)).
		Div(decimal.NewFromInt(31)))
	assert.True(t, adj.ProratedBase.Equal(expected))
}

func TestResolveMidMonthStart(t *testing.T) {
	p := prorating.Period{Year: 2026, Month: 1}
	c := testContract(3100, time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC), nil)
	cfg := payrollconfig.DefaultConfiguration(uuid.New())

	adj := prorating.Resolve(c, p, nil, nil, false, cfg)

	// Jan 17 through Jan 31 inclusive.
	assert.True(t, adj.ActiveDays.Equal(decimal.NewFromInt(15)))
	assert.True(t, adj.ProratedBase.Equal(decimal.NewFromInt(1500)),
		"prorated = %s", adj.ProratedBase)
}

func TestResolvePaidLeaveDoesNotReduceBase(t *testing.T) {
	p := prorating.Period{Year: 2026, Month: 1}
	c := testContract(1000, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	cfg := payrollconfig.DefaultConfiguration(uuid.New())

	leave := []workdata.TimeOffRequest{{
		ID:         uuid.New(),
		EmployeeID: c.EmployeeID,
		Paid:       true,
		StartAt:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC),
		Status:     workdata.StatusApproved,
	}}

	adj := prorating.Resolve(c, p, leave, nil, false, cfg)

	assert.True(t, adj.PaidLeaveDays.Equal(decimal.NewFromInt(1)))
	assert.True(t, adj.ProratedBase.Equal(decimal.NewFromInt(1000)))
}

func TestResolveLegacyAttendanceSuppressedByImpactConfigs(t *testing.T) {
	p := prorating.Period{Year: 2026, Month: 1}
	c := testContract(1000, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	cfg := payrollconfig.DefaultConfiguration(uuid.New())

	attendance := []workdata.AttendanceRecord{{
		ID:              uuid.New(),
		EmployeeID:      c.EmployeeID,
		WorkDate:        time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		ExpectedMinutes: 480,
		WorkedMinutes:   0,
		OvertimeMinutes: 120,
	}}

	legacy := prorating.Resolve(c, p, nil, attendance, false, cfg)
	assert.True(t, legacy.AbsenceDays.Equal(decimal.NewFromInt(1)))
	assert.True(t, legacy.OvertimeHours.Equal(decimal.NewFromInt(2)))

	// With active impact configs the same records flow through generated
	// items instead, so the legacy figures stay zero.
	suppressed := prorating.Resolve(c, p, nil, attendance, true, cfg)
	assert.True(t, suppressed.AbsenceDays.IsZero())
	assert.True(t, suppressed.OvertimeHours.IsZero())
	assert.True(t, suppressed.ProratedBase.Equal(decimal.NewFromInt(1000)))
}
