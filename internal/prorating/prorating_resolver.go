package prorating

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/contract"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/workdata"
)

// Period is one payroll month.
type Period struct {
	Year  int
	Month int
}

func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= 1 && p.Month <= 12
}

// Start returns the first instant of the period (UTC).
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the period at midnight.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// NextStart returns the first instant of the following period, i.e. the
// exclusive upper bound of this one.
func (p Period) NextStart() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Days returns the calendar day count of the period.
func (p Period) Days() int {
	return p.End().Day()
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return p.Start().Format("2006-01")
}

// Adjustment carries the per-contract factors one run period produces.
type Adjustment struct {
	ActiveDays      decimal.Decimal
	WorkedDays      decimal.Decimal
	PaidLeaveDays   decimal.Decimal
	UnpaidLeaveDays decimal.Decimal
	AbsenceDays     decimal.Decimal
	OvertimeHours   decimal.Decimal
	ProratedBase    decimal.Decimal
}

// Resolve computes leave, absence and overtime quantities plus the
// prorated basic salary for one contract in one period.
//
// When the organization has active attendance-impact configurations, the
// legacy attendance-derived absence/overtime path is suppressed so the same
// events are not counted twice; those impacts then flow exclusively through
// generated pay items.
func Resolve(
	c contract.Contract,
	p Period,
	timeoff []workdata.TimeOffRequest,
	attendance []workdata.AttendanceRecord,
	impactConfigsActive bool,
	cfg payrollconfig.Configuration,
) Adjustment {
	adj := Adjustment{
		ActiveDays:      decimal.Zero,
		WorkedDays:      decimal.Zero,
		PaidLeaveDays:   decimal.Zero,
		UnpaidLeaveDays: decimal.Zero,
		AbsenceDays:     decimal.Zero,
		OvertimeHours:   decimal.Zero,
		ProratedBase:    decimal.Zero,
	}

	adj.ActiveDays = decimal.NewFromInt(int64(activeDays(c, p)))

	minutesPerDay := decimal.NewFromInt(int64(cfg.WorkingMinutesPerDay))
	if minutesPerDay.IsZero() {
		minutesPerDay = decimal.NewFromInt(480)
	}

	paidMinutes, unpaidMinutes := leaveMinutes(timeoff, p)
	adj.PaidLeaveDays = decimal.NewFromInt(int64(paidMinutes)).Div(minutesPerDay)
	adj.UnpaidLeaveDays = decimal.NewFromInt(int64(unpaidMinutes)).Div(minutesPerDay)

	if !impactConfigsActive {
		absenceMinutes, overtimeMinutes := legacyAttendanceMinutes(attendance)
		adj.AbsenceDays = decimal.NewFromInt(int64(absenceMinutes)).Div(minutesPerDay)
		adj.OvertimeHours = decimal.NewFromInt(int64(overtimeMinutes)).Div(decimal.NewFromInt(60))
	}

	worked := adj.ActiveDays.Sub(adj.UnpaidLeaveDays).Sub(adj.AbsenceDays)
	if worked.IsNegative() {
		worked = decimal.Zero
	}
	adj.WorkedDays = worked

	totalDays := decimal.NewFromInt(int64(p.Days()))
	adj.ProratedBase = cfg.Round(c.BaseSalary.Mul(worked).Div(totalDays))

	return adj
}

// activeDays counts the contract-covered calendar days inside the period,
// accounting for mid-period start and end dates.
func activeDays(c contract.Contract, p Period) int {
	start := p.Start()
	end := p.End()

	if c.StartDate.After(end) {
		return 0
	}
	if c.StartDate.After(start) {
		start = c.StartDate
	}
	if c.EndDate != nil {
		if c.EndDate.Before(p.Start()) {
			return 0
		}
		if c.EndDate.Before(end) {
			end = *c.EndDate
		}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// leaveMinutes splits the approved requests into paid and unpaid minute
// totals by minute-level overlap with the period.
func leaveMinutes(timeoff []workdata.TimeOffRequest, p Period) (paid, unpaid int) {
	from := p.Start()
	to := p.NextStart()

	for _, r := range timeoff {
		minutes := r.OverlapMinutes(from, to)
		if minutes == 0 {
			continue
		}
		if r.Paid {
			paid += minutes
		} else {
			unpaid += minutes
		}
	}
	return paid, unpaid
}

// legacyAttendanceMinutes derives absence and overtime from raw attendance
// records: expected-minus-worked per record is absence, and the recorded
// overtime minutes count whether or not they were validated.
func legacyAttendanceMinutes(attendance []workdata.AttendanceRecord) (absence, overtime int) {
	for _, rec := range attendance {
		if gap := rec.ExpectedMinutes - rec.WorkedMinutes; gap > 0 {
			absence += gap
		}
		overtime += rec.OvertimeMinutes
	}
	return absence, overtime
}
