package salary

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/advantage"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/contract"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/events"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/messaging/kafka"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payment"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
	salaryerrors "github.com/Desmondwr/payrovaHR-backend-sub001/internal/salary/errors"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/shared/contextutil"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/shared/counter"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

//go:generate mockgen -source=validation_service.go -destination=mock/validation_service_mock.go -package=mock
type ValidationService interface {
	// Validate freezes the given salaries and hands them to treasury as
	// payment batches, one batch per payout method.
	Validate(ctx context.Context, t tenant.Context, req ValidateRequest) ([]BatchResult, error)
}

type validationService struct {
	db *sql.DB

	salaries  Repository
	contracts contract.Repository
	configs   payrollconfig.Repository
	payments  payment.Repository
	items     advantage.GeneratedItemRepository
	counters  counter.Repository
	outbox    kafka.OutboxRepository
}

func NewValidationService(
	db *sql.DB,
	salaries Repository,
	contracts contract.Repository,
	configs payrollconfig.Repository,
	payments payment.Repository,
	items advantage.GeneratedItemRepository,
	counters counter.Repository,
	outbox kafka.OutboxRepository,
) ValidationService {
	return &validationService{
		db:        db,
		salaries:  salaries,
		contracts: contracts,
		configs:   configs,
		payments:  payments,
		items:     items,
		counters:  counters,
		outbox:    outbox,
	}
}

func (s *validationService) Validate(ctx context.Context, t tenant.Context, req ValidateRequest) ([]BatchResult, error) {
	log := contextutil.GetLogger(ctx, nil)

	ids := make([]uuid.UUID, 0, len(req.SalaryIDs))
	for _, raw := range req.SalaryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, salaryerrors.ErrInvalidSalaryID
		}
		ids = append(ids, id)
	}

	salaries, err := s.salaries.FindByIDs(ctx, t, ids)
	if err != nil {
		return nil, err
	}
	if len(salaries) == 0 {
		return nil, salaryerrors.ErrNothingToValidate
	}

	// Validation is all-or-nothing at the request level: one ineligible
	// salary rejects the call instead of silently paying a subset.
	for _, sal := range salaries {
		if sal.Status == StatusGenerated {
			continue
		}
		if sal.Status == StatusSimulated && req.AllowSimulated {
			continue
		}
		return nil, salaryerrors.NotValidatable(sal.ID.String(), sal.Status)
	}

	cfg, err := s.configs.FindByOrganization(ctx, t)
	if err != nil {
		return nil, err
	}

	employeeIDs := make([]uuid.UUID, 0, len(salaries))
	for _, sal := range salaries {
		employeeIDs = append(employeeIDs, sal.EmployeeID)
	}
	employees, err := s.contracts.GetEmployeeRefs(ctx, t, employeeIDs)
	if err != nil {
		return nil, err
	}

	groups, err := groupByMethod(salaries, employees, cfg)
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult, 0, len(groups))
	for _, g := range groups {
		result, err := s.createBatch(ctx, t, g, employees)
		if err != nil {
			return results, err
		}
		log.Info("payment batch created",
			zap.String("batch_id", result.BatchID),
			zap.String("reference", result.Reference),
			zap.String("payment_method", result.PaymentMethod),
			zap.Int("lines", result.LineCount),
		)
		results = append(results, result)
	}

	return results, nil
}

// methodGroup collects the salaries paying out through one method.
type methodGroup struct {
	method   string
	salaries []Salary
}

// groupByMethod buckets salaries by each employee's payout method after
// checking the method whitelist and bank-detail completeness.
func groupByMethod(
	salaries []Salary,
	employees map[uuid.UUID]contract.EmployeeRef,
	cfg payrollconfig.Configuration,
) ([]methodGroup, error) {
	byMethod := make(map[string][]Salary)
	for _, sal := range salaries {
		emp := employees[sal.EmployeeID]

		method := emp.PaymentMethod
		if method == "" {
			method = payment.MethodCash
		}
		if !cfg.IsPaymentMethodAllowed(method) {
			return nil, salaryerrors.PaymentMethodNotAllowed(method)
		}
		if method != payment.MethodCash && (emp.BankName == "" || emp.BankAccount == "") {
			name := emp.FullName
			if name == "" {
				name = sal.EmployeeID.String()
			}
			return nil, salaryerrors.MissingBankDetails(name)
		}

		byMethod[method] = append(byMethod[method], sal)
	}

	methods := make([]string, 0, len(byMethod))
	for m := range byMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	groups := make([]methodGroup, 0, len(methods))
	for _, m := range methods {
		groups = append(groups, methodGroup{method: m, salaries: byMethod[m]})
	}
	return groups, nil
}

// createBatch builds one payment batch in its own transaction: batch and
// lines, item locking, status flip, and the outbox events, committed as one
// unit.
func (s *validationService) createBatch(
	ctx context.Context,
	t tenant.Context,
	g methodGroup,
	employees map[uuid.UUID]contract.EmployeeRef,
) (BatchResult, error) {
	account, err := s.payments.FindActiveAccount(ctx, t, g.method)
	if err != nil {
		return BatchResult{}, err
	}
	if account == nil {
		return BatchResult{}, salaryerrors.ErrNoFundingSource
	}

	next, err := s.counters.GetNextValue(ctx, t.OrganizationID.String(), counter.CounterPaymentBatch)
	if err != nil {
		return BatchResult{}, err
	}
	reference := fmt.Sprintf("PB-%04d%02d-%06d", g.salaries[0].Year, g.salaries[0].Month, next)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BatchResult{}, err
	}
	defer tx.Rollback()

	paymentsTx := s.payments.WithTx(tx)
	salariesTx := s.salaries.WithTx(tx)
	itemsTx := s.items.WithTx(tx)
	outboxTx := s.outbox.WithTx(tx)

	batch := &payment.PaymentBatch{
		ID:               uuid.New(),
		OrganizationID:   t.OrganizationID,
		Reference:        reference,
		PaymentMethod:    g.method,
		FundingAccountID: account.ID,
		Year:             g.salaries[0].Year,
		Month:            g.salaries[0].Month,
		Status:           payment.BatchStatusPending,
	}

	total := decimal.Zero
	lines := make([]payment.PaymentLine, 0, len(g.salaries))
	salaryIDs := make([]uuid.UUID, 0, len(g.salaries))
	for _, sal := range g.salaries {
		emp := employees[sal.EmployeeID]
		lines = append(lines, payment.PaymentLine{
			ID:              uuid.New(),
			BatchID:         batch.ID,
			SalaryID:        sal.ID,
			EmployeeID:      sal.EmployeeID,
			BeneficiaryName: emp.FullName,
			BankName:        emp.BankName,
			BankAccount:     emp.BankAccount,
			Amount:          sal.NetSalary,
		})
		total = total.Add(sal.NetSalary)
		salaryIDs = append(salaryIDs, sal.ID)
	}
	batch.TotalAmount = total
	batch.LineCount = len(lines)

	if err := paymentsTx.CreateBatch(ctx, batch); err != nil {
		return BatchResult{}, err
	}
	if err := paymentsTx.CreateLines(ctx, lines); err != nil {
		return BatchResult{}, err
	}
	if err := itemsTx.LockBySalaries(ctx, t, salaryIDs); err != nil {
		return BatchResult{}, err
	}
	if err := salariesTx.UpdateStatus(ctx, t, salaryIDs, StatusValidated); err != nil {
		return BatchResult{}, err
	}

	now := time.Now().UTC()
	requestID := contextutil.GetRequestID(ctx)

	for _, sal := range g.salaries {
		if err := s.enqueueSalaryValidated(ctx, outboxTx, requestID, sal, now); err != nil {
			return BatchResult{}, err
		}
	}
	if err := s.enqueueBatchCreated(ctx, outboxTx, requestID, batch, now); err != nil {
		return BatchResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return BatchResult{}, err
	}

	return BatchResult{
		BatchID:       batch.ID.String(),
		Reference:     batch.Reference,
		PaymentMethod: batch.PaymentMethod,
		LineCount:     batch.LineCount,
		TotalAmount:   batch.TotalAmount.String(),
	}, nil
}

func (s *validationService) enqueueSalaryValidated(
	ctx context.Context,
	outboxTx kafka.OutboxRepository,
	requestID string,
	sal Salary,
	now time.Time,
) error {
	payload, err := json.Marshal(events.SalaryValidatedEvent{
		EventType:      "salary.validated",
		SalaryID:       sal.ID.String(),
		ContractID:     sal.ContractID.String(),
		EmployeeID:     sal.EmployeeID.String(),
		OrganizationID: sal.OrganizationID.String(),
		Year:           sal.Year,
		Month:          sal.Month,
		NetSalary:      sal.NetSalary.String(),
		OccurredAt:     now,
	})
	if err != nil {
		return err
	}

	return outboxTx.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: "salary",
		AggregateID:   sal.ID.String(),
		EventType:     "salary.validated",
		Topic:         events.SalaryValidatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *validationService) enqueueBatchCreated(
	ctx context.Context,
	outboxTx kafka.OutboxRepository,
	requestID string,
	batch *payment.PaymentBatch,
	now time.Time,
) error {
	payload, err := json.Marshal(events.PaymentBatchCreatedEvent{
		EventType:      "payment.batch.created",
		BatchID:        batch.ID.String(),
		OrganizationID: batch.OrganizationID.String(),
		PaymentMethod:  batch.PaymentMethod,
		Reference:      batch.Reference,
		LineCount:      batch.LineCount,
		TotalAmount:    batch.TotalAmount.String(),
		OccurredAt:     now,
	})
	if err != nil {
		return err
	}

	return outboxTx.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: "payment_batch",
		AggregateID:   batch.ID.String(),
		EventType:     "payment.batch.created",
		Topic:         events.PaymentBatchCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
