package contract

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

// Filter narrows a payroll run to one contract, branch or department.
type Filter struct {
	ContractID   string
	BranchID     string
	DepartmentID string
}

//go:generate mockgen -source=contract_repo.go -destination=mock/contract_repo_mock.go -package=mock
type Repository interface {
	ListEligible(ctx context.Context, t tenant.Context, periodStart, periodEnd time.Time, filter Filter) ([]Contract, error)

	// GetEmployeeRefs loads payout routing details for salary validation.
	GetEmployeeRefs(ctx context.Context, t tenant.Context, employeeIDs []uuid.UUID) (map[uuid.UUID]EmployeeRef, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListEligible(
	ctx context.Context,
	t tenant.Context,
	periodStart, periodEnd time.Time,
	filter Filter,
) ([]Contract, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Preload("Employee").
		Preload("Advantages").
		Where("active = ?", true).
		Where("start_date <= ?", periodEnd).
		Where("(end_date IS NULL OR end_date >= ?)", periodStart)

	if filter.ContractID != "" {
		q = q.Where("id = ?", filter.ContractID)
	}
	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}
	if filter.DepartmentID != "" {
		q = q.Where("department_id = ?", filter.DepartmentID)
	}

	var contracts []Contract
	err := q.Order("start_date ASC, id ASC").Find(&contracts).Error
	return contracts, err
}

func (r *repository) GetEmployeeRefs(
	ctx context.Context,
	t tenant.Context,
	employeeIDs []uuid.UUID,
) (map[uuid.UUID]EmployeeRef, error) {
	if len(employeeIDs) == 0 {
		return map[uuid.UUID]EmployeeRef{}, nil
	}

	var refs []EmployeeRef
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Where("id IN ?", employeeIDs).
		Find(&refs).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]EmployeeRef, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}
	return byID, nil
}
