package salary

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/advantage"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/basis"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/contract"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/deduction"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/prorating"
	salaryerrors "github.com/Desmondwr/payrovaHR-backend-sub001/internal/salary/errors"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/shared/contextutil"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/shared/runlock"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/workdata"
)

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	Run(ctx context.Context, t tenant.Context, req RunRequest) ([]RunResult, error)
	GetByID(ctx context.Context, t tenant.Context, id string) (SalaryResponse, error)
	ListByPeriod(ctx context.Context, t tenant.Context, year, month int) ([]SalaryResponse, error)
}

type service struct {
	db *sql.DB

	salaries   Repository
	contracts  contract.Repository
	bases      basis.Repository
	deductions deduction.Repository
	configs    payrollconfig.Repository
	workdata   workdata.Repository
	items      advantage.GeneratedItemRepository
	locker     runlock.Locker
}

func NewService(
	db *sql.DB,
	salaries Repository,
	contracts contract.Repository,
	bases basis.Repository,
	deductions deduction.Repository,
	configs payrollconfig.Repository,
	workdata workdata.Repository,
	items advantage.GeneratedItemRepository,
	locker runlock.Locker,
) Service {
	return &service{
		db:         db,
		salaries:   salaries,
		contracts:  contracts,
		bases:      bases,
		deductions: deductions,
		configs:    configs,
		workdata:   workdata,
		items:      items,
		locker:     locker,
	}
}

// runContext bundles the organization-level inputs loaded once per run and
// shared across every contract.
type runContext struct {
	mode   string
	period prorating.Period
	cfg    payrollconfig.Configuration

	bases         []basis.CalculationBasis
	edges         []basis.CalculationBasisAdvantage
	deductions    []deduction.Resolved
	impactConfigs []payrollconfig.AttendanceImpactConfig
	schedule      workdata.WorkSchedule
}

func (s *service) Run(ctx context.Context, t tenant.Context, req RunRequest) ([]RunResult, error) {
	log := contextutil.GetLogger(ctx, nil)

	mode := strings.ToUpper(strings.TrimSpace(req.Mode))
	if mode != StatusSimulated && mode != StatusGenerated {
		return nil, salaryerrors.ErrInvalidRunMode
	}

	period := prorating.Period{Year: req.Year, Month: req.Month}
	if !period.Valid() {
		return nil, salaryerrors.ErrInvalidPeriod
	}

	cfg, err := s.configs.FindByOrganization(ctx, t)
	if err != nil {
		return nil, err
	}
	if !cfg.PayrollEnabled {
		return nil, salaryerrors.ErrPayrollDisabled
	}

	bases, err := s.bases.ListBases(ctx, t)
	if err != nil {
		return nil, err
	}
	if missing := basis.MissingCodes(bases); len(missing) > 0 {
		return nil, salaryerrors.MissingBases(missing)
	}

	release, ok, err := s.locker.Acquire(ctx, t.OrganizationID.String(), period.Year, period.Month)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, salaryerrors.ErrRunInProgress
	}
	defer release()

	rc := runContext{mode: mode, period: period, cfg: cfg, bases: bases}

	if rc.edges, err = s.bases.ListMemberships(ctx, t); err != nil {
		return nil, err
	}
	if rc.deductions, err = s.deductions.ListResolved(ctx, t); err != nil {
		return nil, err
	}
	if rc.impactConfigs, err = s.configs.ListActiveImpactConfigs(ctx, t); err != nil {
		return nil, err
	}
	if rc.schedule, err = s.workdata.GetWorkSchedule(ctx, t); err != nil {
		return nil, err
	}

	contracts, err := s.contracts.ListEligible(ctx, t, period.Start(), period.End(), req.Filter())
	if err != nil {
		return nil, err
	}

	log.Info("payroll run started",
		zap.String("organization_id", t.OrganizationID.String()),
		zap.String("period", period.String()),
		zap.String("mode", mode),
		zap.Int("contracts", len(contracts)),
	)

	results := make([]RunResult, 0, len(contracts))
	for _, c := range contracts {
		result := s.runContract(ctx, t, rc, c)
		if result.Outcome == OutcomeFailed {
			log.Warn("contract payroll failed",
				zap.String("contract_id", result.ContractID),
				zap.String("reason", result.Reason),
			)
		}
		results = append(results, result)
	}

	log.Info("payroll run finished",
		zap.String("period", period.String()),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// runContract computes and persists one contract's salary inside its own
// transaction. Errors are folded into a FAILED result so one broken
// contract never aborts the rest of the run.
func (s *service) runContract(ctx context.Context, t tenant.Context, rc runContext, c contract.Contract) RunResult {
	result := RunResult{
		ContractID: c.ID.String(),
		EmployeeID: c.EmployeeID.String(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}
	defer tx.Rollback()

	qtx := s.salaries.WithTx(tx)
	itemsTx := s.items.WithTx(tx)

	existing, err := qtx.FindByContractPeriod(ctx, t, c.ID, rc.period.Year, rc.period.Month)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}

	status := rc.mode
	if existing != nil {
		switch {
		case existing.Locked():
			if rc.mode == StatusGenerated {
				result.Outcome = OutcomeFailed
				result.Reason = salaryerrors.ErrPeriodLocked.Message
			} else {
				result.Outcome = OutcomeSkipped
				result.Reason = "salary is " + existing.Status
			}
			result.SalaryID = existing.ID.String()
			return result

		case existing.Status == StatusGenerated && rc.mode == StatusGenerated:
			result.Outcome = OutcomeSkipped
			result.Reason = "salary already generated for this period"
			result.SalaryID = existing.ID.String()
			return result

		case existing.Status == StatusGenerated:
			// A simulation over a generated salary recomputes the figures
			// but never downgrades the status.
			status = StatusGenerated
		}
	}

	computed, err := s.compute(ctx, t, rc, c, itemsTx)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}

	computed.salary.Status = status
	if existing != nil {
		computed.salary.ID = existing.ID
	} else if computed.salary.ID == uuid.Nil {
		computed.salary.ID = uuid.New()
	}

	if err := qtx.Save(ctx, computed.salary); err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}
	if err := qtx.ReplaceLines(ctx, computed.salary.ID, computed.advantages, computed.deductions); err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}
	if err := itemsTx.AttachDraftsToSalary(ctx, t, c.ID, rc.period.Year, rc.period.Month, computed.salary.ID); err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}

	if err := tx.Commit(); err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}

	result.SalaryID = computed.salary.ID.String()
	result.Outcome = OutcomeOK
	result.NetSalary = computed.salary.NetSalary.String()
	return result
}

// computedSalary is the in-memory output of one contract's pipeline before
// persistence.
type computedSalary struct {
	salary     *Salary
	advantages []SalaryAdvantage
	deductions []SalaryDeduction
}

// compute runs the full pipeline for one contract: prorating, generated
// items, advantage lines, basis resolution, and the deduction passes.
func (s *service) compute(
	ctx context.Context,
	t tenant.Context,
	rc runContext,
	c contract.Contract,
	itemsTx advantage.GeneratedItemRepository,
) (computedSalary, error) {
	employeeID := c.EmployeeID.String()

	attendance, err := s.workdata.ListAttendance(ctx, t, employeeID, rc.period.Start(), rc.period.End())
	if err != nil {
		return computedSalary{}, err
	}
	timeoff, err := s.workdata.ListApprovedTimeOff(ctx, t, employeeID, rc.period.Start(), rc.period.NextStart())
	if err != nil {
		return computedSalary{}, err
	}

	adj := prorating.Resolve(c, rc.period, timeoff, attendance, len(rc.impactConfigs) > 0, rc.cfg)

	generated := advantage.GenerateItems(
		t, c, rc.period, adj, rc.impactConfigs, attendance, timeoff, rc.schedule, rc.cfg,
	)
	liveKeys := make([]string, 0, len(generated))
	for i := range generated {
		if err := itemsTx.UpsertByKey(ctx, &generated[i]); err != nil {
			return computedSalary{}, err
		}
		liveKeys = append(liveKeys, generated[i].IdempotencyKey)
	}
	if err := itemsTx.DeactivateStaleDrafts(ctx, t, c.ID, rc.period.Year, rc.period.Month, liveKeys); err != nil {
		return computedSalary{}, err
	}

	activeItems, err := itemsTx.ListActive(ctx, t, c.ID, rc.period.Year, rc.period.Month)
	if err != nil {
		return computedSalary{}, err
	}
	impactAdvantages, impactDeductions := advantage.ItemsToLines(activeItems)

	advantageLines := advantage.BuildLines(c, rc.period, adj, rc.cfg)
	advantageLines = append(advantageLines, impactAdvantages...)

	basisLines := make([]basis.Line, 0, len(advantageLines))
	for _, l := range advantageLines {
		basisLines = append(basisLines, basis.Line{
			AdvantageID:   l.AdvantageID,
			Code:          l.Code,
			Amount:        l.Amount,
			IsBasicSalary: l.IsBasicSalary,
		})
	}

	totals := basis.Resolve(rc.bases, rc.edges, basisLines, adj.ProratedBase, rc.cfg)

	dedResult := deduction.Compute(rc.deductions, totals, rc.cfg)

	salaryAdvantages := make([]SalaryAdvantage, 0, len(advantageLines))
	totalAdvantages := decimal.Zero
	for _, l := range advantageLines {
		salaryAdvantages = append(salaryAdvantages, SalaryAdvantage{
			ContractAdvantageID: l.AdvantageID,
			GeneratedItemID:     l.GeneratedItemID,
			Code:                l.Code,
			Name:                l.Name,
			Quantity:            l.Quantity,
			Rate:                l.Rate,
			Amount:              l.Amount,
			IsBasicSalary:       l.IsBasicSalary,
		})
		if !l.IsBasicSalary {
			totalAdvantages = totalAdvantages.Add(l.Amount)
		}
	}

	salaryDeductions := make([]SalaryDeduction, 0, len(dedResult.Lines)+len(impactDeductions))
	for _, l := range dedResult.Lines {
		id := l.DeductionID
		salaryDeductions = append(salaryDeductions, SalaryDeduction{
			DeductionID: &id,
			Code:        l.Code,
			Name:        l.Name,
			BasisCode:   l.BasisCode,
			BasisAmount: l.BasisAmount,
			Rate:        l.Rate,
			Amount:      l.Amount,
			IsEmployee:  l.IsEmployee,
			IsEmployer:  l.IsEmployer,
			NotCounted:  l.NotCounted,
		})
	}

	totalEmployee := dedResult.TotalEmployee
	for _, l := range impactDeductions {
		salaryDeductions = append(salaryDeductions, SalaryDeduction{
			GeneratedItemID: l.GeneratedItemID,
			Code:            l.Code,
			Name:            l.Name,
			Rate:            l.Rate,
			Amount:          l.Amount,
			IsEmployee:      true,
		})
		totalEmployee = totalEmployee.Add(l.Amount)
	}

	gross := totals[basis.CodeGross]
	net := rc.cfg.Round(gross.Sub(totalEmployee))

	sal := &Salary{
		OrganizationID: t.OrganizationID,
		ContractID:     c.ID,
		EmployeeID:     c.EmployeeID,
		Year:           rc.period.Year,
		Month:          rc.period.Month,

		BaseSalary:              adj.ProratedBase,
		GrossSalary:             gross,
		TaxableGrossSalary:      totals[basis.CodeTaxable],
		IRPPTaxableGrossSalary:  totals[basis.CodeIRPPTaxable],
		CNSSBasis:               totals[basis.CodeCNSS],
		CNAMGSBasis:             totals[basis.CodeCNAMGS],
		TotalAdvantages:         totalAdvantages,
		TotalEmployeeDeductions: totalEmployee,
		TotalEmployerDeductions: dedResult.TotalEmployer,
		NetSalary:               net,

		LeaveDays:     adj.PaidLeaveDays.Add(adj.UnpaidLeaveDays),
		AbsenceDays:   adj.AbsenceDays,
		OvertimeHours: adj.OvertimeHours,
	}

	return computedSalary{
		salary:     sal,
		advantages: salaryAdvantages,
		deductions: salaryDeductions,
	}, nil
}

func (s *service) GetByID(ctx context.Context, t tenant.Context, id string) (SalaryResponse, error) {
	salaryID, err := uuid.Parse(id)
	if err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryID
	}

	sal, err := s.salaries.FindByID(ctx, t, salaryID)
	if err != nil {
		return SalaryResponse{}, err
	}
	return mapToResponse(*sal), nil
}

func (s *service) ListByPeriod(ctx context.Context, t tenant.Context, year, month int) ([]SalaryResponse, error) {
	period := prorating.Period{Year: year, Month: month}
	if !period.Valid() {
		return nil, salaryerrors.ErrInvalidPeriod
	}

	salaries, err := s.salaries.ListByPeriod(ctx, t, year, month)
	if err != nil {
		return nil, err
	}

	resp := make([]SalaryResponse, len(salaries))
	for i, sal := range salaries {
		resp[i] = mapToResponse(sal)
	}
	return resp, nil
}
