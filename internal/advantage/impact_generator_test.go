package advantage_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/advantage"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/contract"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/prorating"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/workdata"
)

func generatorFixture() (tenant.Context, contract.Contract, prorating.Period, payrollconfig.Configuration) {
	t := tenant.Context{OrganizationID: uuid.New()}
	c := contract.Contract{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		BaseSalary: decimal.NewFromInt(310000),
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:     true,
	}
	p := prorating.Period{Year: 2026, Month: 1}
	cfg := payrollconfig.DefaultConfiguration(t.OrganizationID)
	return t, c, p, cfg
}

func TestGenerateItemsUnpaidLeaveDeduction(t *testing.T) {
	tn, c, p, cfg := generatorFixture()

	ic := payrollconfig.AttendanceImpactConfig{
		ID:          uuid.New(),
		EventCode:   payrollconfig.EventUnpaidLeave,
		Bucket:      payrollconfig.BucketDeduction,
		Method:      payrollconfig.MethodPercentOfDaily,
		Value:       decimal.NewFromInt(100),
		TargetCode:  "RETENUE_CONGE",
		TargetLabel: "Unpaid leave",
		Active:      true,
	}

	leave := workdata.TimeOffRequest{
		ID:         uuid.New(),
		EmployeeID: c.EmployeeID,
		Paid:       false,
		StartAt:    time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 1, 12, 8, 0, 0, 0, time.UTC),
		Status:     workdata.StatusApproved,
	}

	adj := prorating.Adjustment{ProratedBase: c.BaseSalary}
	items := advantage.GenerateItems(
		tn, c, p, adj,
		[]payrollconfig.AttendanceImpactConfig{ic},
		nil, []workdata.TimeOffRequest{leave},
		workdata.NewWorkSchedule(nil), cfg,
	)

	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, payrollconfig.EventUnpaidLeave, item.EventCode)
	assert.Equal(t, payrollconfig.BucketDeduction, item.Bucket)
	assert.Equal(t, leave.ID.String(), item.SourceRef)
	assert.Equal(t, advantage.ItemStatusDraft, item.Status)

	// One day at 100% of the daily rate: 310000 / 31 = 10000.
	assert.True(t, item.Amount.Equal(decimal.NewFromInt(10000)),
		"amount = %s", item.Amount)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(1)),
		"quantity = %s", item.Quantity)
}

func TestGenerateItemsKeysAreDeterministic(t *testing.T) {
	tn, c, p, cfg := generatorFixture()

	ic := payrollconfig.AttendanceImpactConfig{
		ID:          uuid.New(),
		EventCode:   payrollconfig.EventOvertime,
		Bucket:      payrollconfig.BucketAdvantage,
		Method:      payrollconfig.MethodHourlyMultiplier,
		Value:       decimal.NewFromFloat(1.5),
		TargetCode:  "HS",
		TargetLabel: "Overtime",
		Active:      true,
	}

	rec := workdata.AttendanceRecord{
		ID:                uuid.New(),
		EmployeeID:        c.EmployeeID,
		WorkDate:          time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		ExpectedMinutes:   480,
		WorkedMinutes:     600,
		OvertimeMinutes:   120,
		OvertimeValidated: true,
	}

	adj := prorating.Adjustment{ProratedBase: c.BaseSalary}
	configs := []payrollconfig.AttendanceImpactConfig{ic}
	attendance := []workdata.AttendanceRecord{rec}

	first := advantage.GenerateItems(tn, c, p, adj, configs, attendance, nil, workdata.NewWorkSchedule(nil), cfg)
	second := advantage.GenerateItems(tn, c, p, adj, configs, attendance, nil, workdata.NewWorkSchedule(nil), cfg)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].IdempotencyKey, second[0].IdempotencyKey)
	assert.True(t, first[0].Amount.Equal(second[0].Amount))

	expectedKey := advantage.BuildIdempotencyKey(
		tn.OrganizationID, c.ID, c.EmployeeID, p,
		ic.EventCode, ic.Bucket, rec.ID.String(),
	)
	assert.Equal(t, expectedKey, first[0].IdempotencyKey)
}

func TestGenerateItemsOvertimeRequiresValidation(t *testing.T) {
	tn, c, p, cfg := generatorFixture()

	ic := payrollconfig.AttendanceImpactConfig{
		ID:                 uuid.New(),
		EventCode:          payrollconfig.EventOvertime,
		Bucket:             payrollconfig.BucketAdvantage,
		Method:             payrollconfig.MethodPerHour,
		Value:              decimal.NewFromInt(2000),
		RequiresValidation: true,
		TargetCode:         "HS",
		TargetLabel:        "Overtime",
		Active:             true,
	}

	rec := workdata.AttendanceRecord{
		ID:                uuid.New(),
		WorkDate:          time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		OvertimeMinutes:   90,
		OvertimeValidated: false,
	}

	adj := prorating.Adjustment{ProratedBase: c.BaseSalary}
	items := advantage.GenerateItems(
		tn, c, p, adj,
		[]payrollconfig.AttendanceImpactConfig{ic},
		[]workdata.AttendanceRecord{rec}, nil,
		workdata.NewWorkSchedule(nil), cfg,
	)

	assert.Empty(t, items)
}

func TestGenerateItemsCapReducesProportionally(t *testing.T) {
	tn, c, p, cfg := generatorFixture()

	ic := payrollconfig.AttendanceImpactConfig{
		ID:          uuid.New(),
		EventCode:   payrollconfig.EventAbsence,
		Bucket:      payrollconfig.BucketDeduction,
		Method:      payrollconfig.MethodPerMinute,
		Value:       decimal.NewFromInt(10),
		CapAmount:   decimal.NewFromInt(1500),
		TargetCode:  "RETENUE_ABS",
		TargetLabel: "Absence",
		Active:      true,
	}

	records := []workdata.AttendanceRecord{
		{
			ID:              uuid.New(),
			WorkDate:        time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
			ExpectedMinutes: 480,
			WorkedMinutes:   380, // 100 missing minutes -> 1000
		},
		{
			ID:              uuid.New(),
			WorkDate:        time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC),
			ExpectedMinutes: 480,
			WorkedMinutes:   380, // another 1000, but only 500 of cap left
		},
		{
			ID:              uuid.New(),
			WorkDate:        time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
			ExpectedMinutes: 480,
			WorkedMinutes:   400, // cap exhausted
		},
	}

	adj := prorating.Adjustment{ProratedBase: c.BaseSalary}
	items := advantage.GenerateItems(
		tn, c, p, adj,
		[]payrollconfig.AttendanceImpactConfig{ic},
		records, nil, workdata.NewWorkSchedule(nil), cfg,
	)

	require.Len(t, items, 3)

	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(1000)))

	// Second metric crosses the cap: amount clamped to the remainder and
	// quantity scaled by the same ratio.
	assert.True(t, items[1].Amount.Equal(decimal.NewFromInt(500)),
		"amount = %s", items[1].Amount)
	assert.True(t, items[1].Quantity.Equal(decimal.NewFromInt(50)),
		"quantity = %s", items[1].Quantity)

	assert.True(t, items[2].Amount.IsZero())

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	assert.True(t, total.Equal(ic.CapAmount))
}

func TestGenerateItemsLatenessBeyondGrace(t *testing.T) {
	tn, c, p, cfg := generatorFixture()

	ic := payrollconfig.AttendanceImpactConfig{
		ID:           uuid.New(),
		EventCode:    payrollconfig.EventLateness,
		Bucket:       payrollconfig.BucketDeduction,
		Method:       payrollconfig.MethodPerMinute,
		Value:        decimal.NewFromInt(5),
		GraceMinutes: 10,
		TargetCode:   "RETENUE_RETARD",
		TargetLabel:  "Lateness",
		Active:       true,
	}

	// Tuesday schedule starts at 08:00.
	schedule := workdata.NewWorkSchedule([]workdata.WorkScheduleDay{
		{Weekday: int(time.Tuesday), StartMinute: 480, EndMinute: 1020},
	})

	checkIn := time.Date(2026, 1, 6, 8, 25, 0, 0, time.UTC)
	rec := workdata.AttendanceRecord{
		ID:       uuid.New(),
		WorkDate: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
		CheckIn:  &checkIn,
	}

	adj := prorating.Adjustment{ProratedBase: c.BaseSalary}
	items := advantage.GenerateItems(
		tn, c, p, adj,
		[]payrollconfig.AttendanceImpactConfig{ic},
		[]workdata.AttendanceRecord{rec}, nil, schedule, cfg,
	)

	// 25 minutes late minus 10 grace = 15 chargeable minutes at 5 each.
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(15)))
	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(75)))
}

func TestItemsToLinesSplitsBuckets(t *testing.T) {
	bonus := advantage.PayrollGeneratedItem{
		ID:         uuid.New(),
		Bucket:     payrollconfig.BucketAdvantage,
		TargetCode: "HS",
		Label:      "Overtime",
		Amount:     decimal.NewFromInt(5000),
		Active:     true,
	}
	retenue := advantage.PayrollGeneratedItem{
		ID:         uuid.New(),
		Bucket:     payrollconfig.BucketDeduction,
		TargetCode: "RETENUE_ABS",
		Label:      "Absence",
		Amount:     decimal.NewFromInt(1200),
		Active:     true,
	}
	inactive := advantage.PayrollGeneratedItem{
		ID:         uuid.New(),
		Bucket:     payrollconfig.BucketAdvantage,
		TargetCode: "OLD",
		Amount:     decimal.NewFromInt(900),
		Active:     false,
	}
	zero := advantage.PayrollGeneratedItem{
		ID:         uuid.New(),
		Bucket:     payrollconfig.BucketDeduction,
		TargetCode: "ZERO",
		Amount:     decimal.Zero,
		Active:     true,
	}

	advantages, deductions := advantage.ItemsToLines([]advantage.PayrollGeneratedItem{
		bonus, retenue, inactive, zero,
	})

	require.Len(t, advantages, 1)
	require.Len(t, deductions, 1)
	assert.Equal(t, "HS", advantages[0].Code)
	assert.Equal(t, "RETENUE_ABS", deductions[0].Code)
	require.NotNil(t, advantages[0].GeneratedItemID)
	assert.Equal(t, bonus.ID, *advantages[0].GeneratedItemID)
}
