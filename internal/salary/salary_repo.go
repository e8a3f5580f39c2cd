package salary

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	// FindByContractPeriod returns nil when no salary exists yet.
	FindByContractPeriod(ctx context.Context, t tenant.Context, contractID uuid.UUID, year, month int) (*Salary, error)
	Save(ctx context.Context, s *Salary) error
	ReplaceLines(ctx context.Context, salaryID uuid.UUID, advantages []SalaryAdvantage, deductions []SalaryDeduction) error

	FindByIDs(ctx context.Context, t tenant.Context, ids []uuid.UUID) ([]Salary, error)
	FindByID(ctx context.Context, t tenant.Context, id uuid.UUID) (*Salary, error)
	ListByPeriod(ctx context.Context, t tenant.Context, year, month int) ([]Salary, error)
	UpdateStatus(ctx context.Context, t tenant.Context, ids []uuid.UUID, status string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the repository onto an open transaction so the salary,
// its line snapshots and the generated-item ledger commit atomically.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return r
	}
	return &repository{db: gdb}
}

func (r *repository) FindByContractPeriod(
	ctx context.Context,
	t tenant.Context,
	contractID uuid.UUID,
	year, month int,
) (*Salary, error) {
	var s Salary
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Where("contract_id = ? AND year = ? AND month = ?", contractID, year, month).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Save upserts by the (contract, year, month) unique key; a re-run updates
// the existing aggregate in place.
func (r *repository) Save(ctx context.Context, s *Salary) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "contract_id"}, {Name: "year"}, {Name: "month"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"base_salary", "gross_salary",
			"taxable_gross_salary", "irpp_taxable_gross_salary",
			"cnss_basis", "cnamgs_basis",
			"total_advantages", "total_employee_deductions", "total_employer_deductions",
			"net_salary",
			"leave_days", "absence_days", "overtime_hours",
			"updated_at",
		}),
	}).Omit("Advantages", "Deductions").Create(s).Error
}

// ReplaceLines swaps the full line snapshot of one salary. Lines are only
// meaningful as a set produced by one run, so partial updates never happen.
func (r *repository) ReplaceLines(
	ctx context.Context,
	salaryID uuid.UUID,
	advantages []SalaryAdvantage,
	deductions []SalaryDeduction,
) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("salary_id = ?", salaryID).Delete(&SalaryAdvantage{}).Error; err != nil {
		return err
	}
	if err := db.Where("salary_id = ?", salaryID).Delete(&SalaryDeduction{}).Error; err != nil {
		return err
	}

	for i := range advantages {
		advantages[i].SalaryID = salaryID
	}
	for i := range deductions {
		deductions[i].SalaryID = salaryID
	}

	if len(advantages) > 0 {
		if err := db.Create(&advantages).Error; err != nil {
			return err
		}
	}
	if len(deductions) > 0 {
		if err := db.Create(&deductions).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) FindByIDs(ctx context.Context, t tenant.Context, ids []uuid.UUID) ([]Salary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var salaries []Salary
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Where("id IN ?", ids).
		Order("employee_id ASC, id ASC").
		Find(&salaries).Error
	return salaries, err
}

func (r *repository) FindByID(ctx context.Context, t tenant.Context, id uuid.UUID) (*Salary, error) {
	var s Salary
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Preload("Advantages").
		Preload("Deductions").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListByPeriod(ctx context.Context, t tenant.Context, year, month int) ([]Salary, error) {
	var salaries []Salary
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Where("year = ? AND month = ?", year, month).
		Order("employee_id ASC, id ASC").
		Find(&salaries).Error
	return salaries, err
}

func (r *repository) UpdateStatus(ctx context.Context, t tenant.Context, ids []uuid.UUID, status string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Salary{}).
		Scopes(tenant.Scope(t)).
		Where("id IN ?", ids).
		Update("status", status).Error
}
