package advantage

import (
	"github.com/shopspring/decimal"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/contract"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/prorating"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/workdata"
)

// Quantity units carried on generated items.
const (
	UnitMinutes = "MINUTES"
	UnitHours   = "HOURS"
	UnitDays    = "DAYS"
	UnitEvent   = "EVENT"
)

// metric is one measured occurrence of an impact event, in minutes, tied
// to the attendance record or leave request it was observed on.
type metric struct {
	sourceRef string
	minutes   int
}

// GenerateItems converts the period's attendance and unpaid-leave data into
// idempotent generated pay items, one per (configuration, source record).
// An optional cap per configuration reduces the metric that crosses it,
// scaling its quantity proportionally.
func GenerateItems(
	t tenant.Context,
	c contract.Contract,
	p prorating.Period,
	adj prorating.Adjustment,
	configs []payrollconfig.AttendanceImpactConfig,
	attendance []workdata.AttendanceRecord,
	timeoff []workdata.TimeOffRequest,
	schedule workdata.WorkSchedule,
	cfg payrollconfig.Configuration,
) []PayrollGeneratedItem {
	var items []PayrollGeneratedItem

	for _, ic := range configs {
		if !ic.Active {
			continue
		}

		metrics := collectMetrics(ic, p, attendance, timeoff, schedule)
		if len(metrics) == 0 {
			continue
		}

		remaining := decimal.Zero
		if ic.Capped() {
			remaining = ic.CapAmount
		}

		for _, m := range metrics {
			quantity, unit, rate, amount := valueMetric(ic, m, c, adj, p, cfg)

			if ic.Capped() {
				if amount.GreaterThan(remaining) {
					if amount.IsPositive() && remaining.IsPositive() {
						scale := remaining.Div(amount)
						quantity = quantity.Mul(scale)
					} else {
						quantity = decimal.Zero
					}
					amount = remaining
				}
				remaining = remaining.Sub(amount)
			}

			items = append(items, PayrollGeneratedItem{
				OrganizationID: t.OrganizationID,
				ContractID:     c.ID,
				EmployeeID:     c.EmployeeID,
				Year:           p.Year,
				Month:          p.Month,
				EventCode:      ic.EventCode,
				Bucket:         ic.Bucket,
				SourceRef:      m.sourceRef,
				IdempotencyKey: BuildIdempotencyKey(
					t.OrganizationID, c.ID, c.EmployeeID, p, ic.EventCode, ic.Bucket, m.sourceRef,
				),
				TargetCode: ic.TargetCode,
				Label:      ic.TargetLabel,
				Quantity:   quantity,
				Unit:       unit,
				Rate:       rate,
				Amount:     cfg.Round(amount),
				Status:     ItemStatusDraft,
				Active:     true,
			})
		}
	}

	return items
}

// ItemsToLines converts active items with a positive amount into earning
// or deduction lines, split by the configured bucket.
func ItemsToLines(items []PayrollGeneratedItem) (advantages, deductions []Line) {
	for i := range items {
		item := items[i]
		if !item.Active || !item.Amount.IsPositive() {
			continue
		}

		id := item.ID
		line := Line{
			GeneratedItemID: &id,
			Code:            item.TargetCode,
			Name:            item.Label,
			Quantity:        item.Quantity,
			Rate:            item.Rate,
			Amount:          item.Amount,
		}

		if item.Bucket == payrollconfig.BucketAdvantage {
			advantages = append(advantages, line)
		} else {
			deductions = append(deductions, line)
		}
	}
	return advantages, deductions
}

func collectMetrics(
	ic payrollconfig.AttendanceImpactConfig,
	p prorating.Period,
	attendance []workdata.AttendanceRecord,
	timeoff []workdata.TimeOffRequest,
	schedule workdata.WorkSchedule,
) []metric {
	var metrics []metric

	switch ic.EventCode {
	case payrollconfig.EventLateness:
		for _, rec := range attendance {
			if rec.CheckIn == nil {
				continue
			}
			start, ok := schedule.ScheduledStart(rec.WorkDate)
			if !ok {
				continue
			}
			late := int(rec.CheckIn.Sub(start).Minutes()) - ic.GraceMinutes
			if late > 0 {
				metrics = append(metrics, metric{sourceRef: rec.ID.String(), minutes: late})
			}
		}

	case payrollconfig.EventAbsence:
		for _, rec := range attendance {
			if gap := rec.ExpectedMinutes - rec.WorkedMinutes; gap > 0 {
				metrics = append(metrics, metric{sourceRef: rec.ID.String(), minutes: gap})
			}
		}

	case payrollconfig.EventOvertime:
		for _, rec := range attendance {
			if ic.RequiresValidation && !rec.OvertimeValidated {
				continue
			}
			if rec.OvertimeMinutes > 0 {
				metrics = append(metrics, metric{sourceRef: rec.ID.String(), minutes: rec.OvertimeMinutes})
			}
		}

	case payrollconfig.EventEarlyDeparture:
		for _, rec := range attendance {
			if rec.CheckOut == nil {
				continue
			}
			// Early departure needs a resolvable scheduled end; days without
			// a configured window produce no metric.
			end, ok := schedule.ScheduledEnd(rec.WorkDate)
			if !ok {
				continue
			}
			early := int(end.Sub(*rec.CheckOut).Minutes()) - ic.GraceMinutes
			if early > 0 {
				metrics = append(metrics, metric{sourceRef: rec.ID.String(), minutes: early})
			}
		}

	case payrollconfig.EventWeekendWork:
		for _, rec := range attendance {
			if rec.IsWeekend() && rec.WorkedMinutes > 0 {
				metrics = append(metrics, metric{sourceRef: rec.ID.String(), minutes: rec.WorkedMinutes})
			}
		}

	case payrollconfig.EventUnpaidLeave:
		for _, r := range timeoff {
			if r.Paid {
				continue
			}
			minutes := r.OverlapMinutes(p.Start(), p.NextStart())
			if minutes > 0 {
				metrics = append(metrics, metric{sourceRef: r.ID.String(), minutes: minutes})
			}
		}
	}

	return metrics
}

// valueMetric turns a minute metric into (quantity, unit, rate, amount)
// per the configured calculation method.
func valueMetric(
	ic payrollconfig.AttendanceImpactConfig,
	m metric,
	c contract.Contract,
	adj prorating.Adjustment,
	p prorating.Period,
	cfg payrollconfig.Configuration,
) (decimal.Decimal, string, decimal.Decimal, decimal.Decimal) {
	minutes := decimal.NewFromInt(int64(m.minutes))
	minutesPerDay := decimal.NewFromInt(int64(cfg.WorkingMinutesPerDay))
	if minutesPerDay.IsZero() {
		minutesPerDay = decimal.NewFromInt(480)
	}
	sixty := decimal.NewFromInt(60)
	hundred := decimal.NewFromInt(100)

	dailyRate := c.BaseSalary.Div(decimal.NewFromInt(int64(p.Days())))
	hourlyRate := dailyRate.Div(minutesPerDay.Div(sixty))

	switch ic.Method {
	case payrollconfig.MethodFixedAmount:
		return decimal.NewFromInt(1), UnitEvent, ic.Value, ic.Value

	case payrollconfig.MethodPerHour:
		qty := minutes.Div(sixty)
		return qty, UnitHours, ic.Value, ic.Value.Mul(qty)

	case payrollconfig.MethodPerDay:
		qty := minutes.Div(minutesPerDay)
		return qty, UnitDays, ic.Value, ic.Value.Mul(qty)

	case payrollconfig.MethodPercentOfDaily:
		qty := minutes.Div(minutesPerDay)
		rate := dailyRate.Mul(ic.Value).Div(hundred)
		return qty, UnitDays, rate, rate.Mul(qty)

	case payrollconfig.MethodPercentOfBasic:
		rate := adj.ProratedBase.Mul(ic.Value).Div(hundred)
		return decimal.NewFromInt(1), UnitEvent, rate, rate

	case payrollconfig.MethodHourlyMultiplier:
		qty := minutes.Div(sixty)
		rate := hourlyRate.Mul(ic.Value)
		return qty, UnitHours, rate, rate.Mul(qty)

	default: // PER_MINUTE
		return minutes, UnitMinutes, ic.Value, ic.Value.Mul(minutes)
	}
}
