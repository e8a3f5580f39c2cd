package salary_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/contract"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/messaging/kafka"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payment"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/payrollconfig"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/salary"
	salaryerrors "github.com/Desmondwr/payrovaHR-backend-sub001/internal/salary/errors"
	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

type fakePaymentRepository struct {
	withTxFn            func(tx *sql.Tx) payment.Repository
	findActiveAccountFn func(ctx context.Context, t tenant.Context, method string) (*payment.FundingAccount, error)
	createBatchFn       func(ctx context.Context, batch *payment.PaymentBatch) error
	createLinesFn       func(ctx context.Context, lines []payment.PaymentLine) error
}

func (f *fakePaymentRepository) WithTx(tx *sql.Tx) payment.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePaymentRepository) FindActiveAccount(ctx context.Context, t tenant.Context, method string) (*payment.FundingAccount, error) {
	if f.findActiveAccountFn != nil {
		return f.findActiveAccountFn(ctx, t, method)
	}
	return &payment.FundingAccount{ID: uuid.New(), PaymentMethod: method, Active: true}, nil
}

func (f *fakePaymentRepository) CreateBatch(ctx context.Context, batch *payment.PaymentBatch) error {
	if f.createBatchFn != nil {
		return f.createBatchFn(ctx, batch)
	}
	return nil
}

func (f *fakePaymentRepository) CreateLines(ctx context.Context, lines []payment.PaymentLine) error {
	if f.createLinesFn != nil {
		return f.createLinesFn(ctx, lines)
	}
	return nil
}

type fakeCounterRepository struct {
	getNextValueFn func(ctx context.Context, organizationID string, counterType string) (int64, error)
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, organizationID string, counterType string) (int64, error) {
	if f.getNextValueFn != nil {
		return f.getNextValueFn(ctx, organizationID, counterType)
	}
	return 1, nil
}

type fakeOutboxRepository struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type validationDeps struct {
	db        *sql.DB
	mock      sqlmock.Sqlmock
	salaries  *fakeSalaryRepository
	contracts *fakeContractRepository
	configs   *fakeConfigRepository
	payments  *fakePaymentRepository
	items     *fakeGeneratedItemRepository
	counters  *fakeCounterRepository
	outbox    *fakeOutboxRepository
}

func newValidationDeps(t *testing.T) validationDeps {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return validationDeps{
		db:        db,
		mock:      mock,
		salaries:  &fakeSalaryRepository{},
		contracts: &fakeContractRepository{},
		configs:   &fakeConfigRepository{},
		payments:  &fakePaymentRepository{},
		items:     &fakeGeneratedItemRepository{},
		counters:  &fakeCounterRepository{},
		outbox:    &fakeOutboxRepository{},
	}
}

func (d validationDeps) service() salary.ValidationService {
	return salary.NewValidationService(
		d.db,
		d.salaries,
		d.contracts,
		d.configs,
		d.payments,
		d.items,
		d.counters,
		d.outbox,
	)
}

func generatedSalary(net int64) salary.Salary {
	return salary.Salary{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		ContractID:     uuid.New(),
		EmployeeID:     uuid.New(),
		Year:           2026,
		Month:          1,
		Status:         salary.StatusGenerated,
		NetSalary:      decimal.NewFromInt(net),
	}
}

func TestValidateCreatesOneBatch(t *testing.T) {
	deps := newValidationDeps(t)
	tn := tenant.Context{OrganizationID: uuid.New()}
	sal := generatedSalary(1080)

	deps.salaries.findByIDsFn = func(ctx context.Context, _ tenant.Context, ids []uuid.UUID) ([]salary.Salary, error) {
		require.Equal(t, []uuid.UUID{sal.ID}, ids)
		return []salary.Salary{sal}, nil
	}
	deps.contracts.getEmployeeRefsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) (map[uuid.UUID]contract.EmployeeRef, error) {
		return map[uuid.UUID]contract.EmployeeRef{
			sal.EmployeeID: {ID: sal.EmployeeID, FullName: "Awa Ndong", PaymentMethod: payment.MethodCash},
		}, nil
	}
	deps.counters.getNextValueFn = func(ctx context.Context, _ string, counterType string) (int64, error) {
		return 42, nil
	}

	var batch *payment.PaymentBatch
	deps.payments.createBatchFn = func(ctx context.Context, b *payment.PaymentBatch) error {
		batch = b
		return nil
	}
	var lines []payment.PaymentLine
	deps.payments.createLinesFn = func(ctx context.Context, ls []payment.PaymentLine) error {
		lines = ls
		return nil
	}

	var flipped []uuid.UUID
	var flippedTo string
	deps.salaries.updateStatusFn = func(ctx context.Context, _ tenant.Context, ids []uuid.UUID, status string) error {
		flipped = ids
		flippedTo = status
		return nil
	}
	var locked []uuid.UUID
	deps.items.lockBySalariesFn = func(ctx context.Context, _ tenant.Context, salaryIDs []uuid.UUID) error {
		locked = salaryIDs
		return nil
	}

	deps.mock.ExpectBegin()
	deps.mock.ExpectCommit()

	results, err := deps.service().Validate(context.Background(), tn, salary.ValidateRequest{
		SalaryIDs: []string{sal.ID.String()},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "PB-202601-000042", results[0].Reference)
	assert.Equal(t, payment.MethodCash, results[0].PaymentMethod)
	assert.Equal(t, 1, results[0].LineCount)
	assert.Equal(t, "1080", results[0].TotalAmount)

	require.NotNil(t, batch)
	assert.True(t, batch.TotalAmount.Equal(sal.NetSalary))
	require.Len(t, lines, 1)
	assert.Equal(t, sal.ID, lines[0].SalaryID)
	assert.True(t, lines[0].Amount.Equal(sal.NetSalary))
	assert.Equal(t, "Awa Ndong", lines[0].BeneficiaryName)

	assert.Equal(t, []uuid.UUID{sal.ID}, flipped)
	assert.Equal(t, salary.StatusValidated, flippedTo)
	assert.Equal(t, []uuid.UUID{sal.ID}, locked)

	// One salary.validated per salary plus one payment.batch.created.
	require.Len(t, deps.outbox.events, 2)
	assert.Equal(t, "salary.validated", deps.outbox.events[0].EventType)
	assert.Equal(t, sal.ID.String(), deps.outbox.events[0].AggregateID)
	assert.Equal(t, "payment.batch.created", deps.outbox.events[1].EventType)
	assert.Equal(t, batch.ID.String(), deps.outbox.events[1].AggregateID)

	assert.NoError(t, deps.mock.ExpectationsWereMet())
}

func TestValidateGroupsByPayoutMethod(t *testing.T) {
	deps := newValidationDeps(t)
	tn := tenant.Context{OrganizationID: uuid.New()}
	cashSalary := generatedSalary(1000)
	bankSalary := generatedSalary(2500)

	deps.salaries.findByIDsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) ([]salary.Salary, error) {
		return []salary.Salary{cashSalary, bankSalary}, nil
	}
	deps.contracts.getEmployeeRefsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) (map[uuid.UUID]contract.EmployeeRef, error) {
		return map[uuid.UUID]contract.EmployeeRef{
			cashSalary.EmployeeID: {ID: cashSalary.EmployeeID, FullName: "Cash Only"},
			bankSalary.EmployeeID: {
				ID:            bankSalary.EmployeeID,
				FullName:      "Via Bank",
				PaymentMethod: payment.MethodBankTransfer,
				BankName:      "BGFI",
				BankAccount:   "GA21-1234",
			},
		}, nil
	}

	next := int64(0)
	deps.counters.getNextValueFn = func(ctx context.Context, _ string, _ string) (int64, error) {
		next++
		return next, nil
	}

	deps.mock.ExpectBegin()
	deps.mock.ExpectCommit()
	deps.mock.ExpectBegin()
	deps.mock.ExpectCommit()

	results, err := deps.service().Validate(context.Background(), tn, salary.ValidateRequest{
		SalaryIDs: []string{cashSalary.ID.String(), bankSalary.ID.String()},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Deterministic order: methods sorted alphabetically.
	assert.Equal(t, payment.MethodBankTransfer, results[0].PaymentMethod)
	assert.Equal(t, "2500", results[0].TotalAmount)
	assert.Equal(t, payment.MethodCash, results[1].PaymentMethod)
	assert.Equal(t, "1000", results[1].TotalAmount)

	// Two batches, each with its own events: 2 x (1 validated + 1 created).
	assert.Len(t, deps.outbox.events, 4)
}

func TestValidateRejectsSimulatedByDefault(t *testing.T) {
	deps := newValidationDeps(t)
	tn := tenant.Context{OrganizationID: uuid.New()}
	sal := generatedSalary(1000)
	sal.Status = salary.StatusSimulated

	deps.salaries.findByIDsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) ([]salary.Salary, error) {
		return []salary.Salary{sal}, nil
	}

	_, err := deps.service().Validate(context.Background(), tn, salary.ValidateRequest{
		SalaryIDs: []string{sal.ID.String()},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), sal.ID.String())
	assert.Contains(t, err.Error(), salary.StatusSimulated)
}

func TestValidateAllowsSimulatedWhenRequested(t *testing.T) {
	deps := newValidationDeps(t)
	tn := tenant.Context{OrganizationID: uuid.New()}
	sal := generatedSalary(1000)
	sal.Status = salary.StatusSimulated

	deps.salaries.findByIDsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) ([]salary.Salary, error) {
		return []salary.Salary{sal}, nil
	}
	deps.contracts.getEmployeeRefsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) (map[uuid.UUID]contract.EmployeeRef, error) {
		return map[uuid.UUID]contract.EmployeeRef{
			sal.EmployeeID: {ID: sal.EmployeeID, PaymentMethod: payment.MethodCash},
		}, nil
	}

	deps.mock.ExpectBegin()
	deps.mock.ExpectCommit()

	results, err := deps.service().Validate(context.Background(), tn, salary.ValidateRequest{
		SalaryIDs:      []string{sal.ID.String()},
		AllowSimulated: true,
	})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestValidateMissingBankDetails(t *testing.T) {
	deps := newValidationDeps(t)
	tn := tenant.Context{OrganizationID: uuid.New()}
	sal := generatedSalary(1000)

	deps.salaries.findByIDsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) ([]salary.Salary, error) {
		return []salary.Salary{sal}, nil
	}
	deps.contracts.getEmployeeRefsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) (map[uuid.UUID]contract.EmployeeRef, error) {
		return map[uuid.UUID]contract.EmployeeRef{
			sal.EmployeeID: {
				ID:            sal.EmployeeID,
				FullName:      "No Account",
				PaymentMethod: payment.MethodBankTransfer,
			},
		}, nil
	}

	_, err := deps.service().Validate(context.Background(), tn, salary.ValidateRequest{
		SalaryIDs: []string{sal.ID.String()},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No Account")
}

func TestValidatePaymentMethodNotAllowed(t *testing.T) {
	deps := newValidationDeps(t)
	tn := tenant.Context{OrganizationID: uuid.New()}
	sal := generatedSalary(1000)

	deps.salaries.findByIDsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) ([]salary.Salary, error) {
		return []salary.Salary{sal}, nil
	}
	deps.configs.findByOrganizationFn = func(ctx context.Context, t tenant.Context) (payrollconfig.Configuration, error) {
		cfg := payrollconfig.DefaultConfiguration(t.OrganizationID)
		cfg.AllowedPaymentMethods = payment.MethodBankTransfer
		return cfg, nil
	}
	deps.contracts.getEmployeeRefsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) (map[uuid.UUID]contract.EmployeeRef, error) {
		return map[uuid.UUID]contract.EmployeeRef{
			sal.EmployeeID: {ID: sal.EmployeeID, PaymentMethod: payment.MethodMobileMoney},
		}, nil
	}

	_, err := deps.service().Validate(context.Background(), tn, salary.ValidateRequest{
		SalaryIDs: []string{sal.ID.String()},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), payment.MethodMobileMoney)
}

func TestValidateNoFundingSource(t *testing.T) {
	deps := newValidationDeps(t)
	tn := tenant.Context{OrganizationID: uuid.New()}
	sal := generatedSalary(1000)

	deps.salaries.findByIDsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) ([]salary.Salary, error) {
		return []salary.Salary{sal}, nil
	}
	deps.contracts.getEmployeeRefsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) (map[uuid.UUID]contract.EmployeeRef, error) {
		return map[uuid.UUID]contract.EmployeeRef{
			sal.EmployeeID: {ID: sal.EmployeeID, PaymentMethod: payment.MethodCash},
		}, nil
	}
	deps.payments.findActiveAccountFn = func(ctx context.Context, _ tenant.Context, _ string) (*payment.FundingAccount, error) {
		return nil, nil
	}

	_, err := deps.service().Validate(context.Background(), tn, salary.ValidateRequest{
		SalaryIDs: []string{sal.ID.String()},
	})
	assert.ErrorIs(t, err, salaryerrors.ErrNoFundingSource)
}

func TestValidateUnknownIDs(t *testing.T) {
	deps := newValidationDeps(t)
	tn := tenant.Context{OrganizationID: uuid.New()}

	_, err := deps.service().Validate(context.Background(), tn, salary.ValidateRequest{
		SalaryIDs: []string{"not-a-uuid"},
	})
	assert.ErrorIs(t, err, salaryerrors.ErrInvalidSalaryID)

	deps.salaries.findByIDsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) ([]salary.Salary, error) {
		return nil, nil
	}
	_, err = deps.service().Validate(context.Background(), tn, salary.ValidateRequest{
		SalaryIDs: []string{uuid.NewString()},
	})
	assert.ErrorIs(t, err, salaryerrors.ErrNothingToValidate)
}

func TestValidateReferenceSequence(t *testing.T) {
	deps := newValidationDeps(t)
	tn := tenant.Context{OrganizationID: uuid.New()}
	sal := generatedSalary(1000)
	sal.Year = 2026
	sal.Month = 12

	deps.salaries.findByIDsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) ([]salary.Salary, error) {
		return []salary.Salary{sal}, nil
	}
	deps.contracts.getEmployeeRefsFn = func(ctx context.Context, _ tenant.Context, _ []uuid.UUID) (map[uuid.UUID]contract.EmployeeRef, error) {
		return map[uuid.UUID]contract.EmployeeRef{
			sal.EmployeeID: {ID: sal.EmployeeID, PaymentMethod: payment.MethodCash},
		}, nil
	}
	deps.counters.getNextValueFn = func(ctx context.Context, _ string, _ string) (int64, error) {
		return 123456, nil
	}

	deps.mock.ExpectBegin()
	deps.mock.ExpectCommit()

	results, err := deps.service().Validate(context.Background(), tn, salary.ValidateRequest{
		SalaryIDs: []string{sal.ID.String()},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, fmt.Sprintf("PB-%04d%02d-%06d", 2026, 12, 123456), results[0].Reference)
}
