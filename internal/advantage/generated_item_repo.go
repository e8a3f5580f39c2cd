package advantage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

//go:generate mockgen -source=generated_item_repo.go -destination=mock/generated_item_repo_mock.go -package=mock
type GeneratedItemRepository interface {
	WithTx(tx *sql.Tx) GeneratedItemRepository
	UpsertByKey(ctx context.Context, item *PayrollGeneratedItem) error
	DeactivateStaleDrafts(ctx context.Context, t tenant.Context, contractID uuid.UUID, year, month int, liveKeys []string) error
	ListActive(ctx context.Context, t tenant.Context, contractID uuid.UUID, year, month int) ([]PayrollGeneratedItem, error)
	AttachDraftsToSalary(ctx context.Context, t tenant.Context, contractID uuid.UUID, year, month int, salaryID uuid.UUID) error
	LockBySalaries(ctx context.Context, t tenant.Context, salaryIDs []uuid.UUID) error
}

type generatedItemRepository struct {
	db *gorm.DB
}

func NewGeneratedItemRepository(db *gorm.DB) GeneratedItemRepository {
	return &generatedItemRepository{db: db}
}

// WithTx rebinds the repository onto an open transaction so the item
// ledger mutates atomically with the owning salary.
func (r *generatedItemRepository) WithTx(tx *sql.Tx) GeneratedItemRepository {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return r
	}
	return &generatedItemRepository{db: gdb}
}

// UpsertByKey inserts the item or refreshes the existing row with the same
// idempotency key. LOCKED rows are left untouched.
func (r *generatedItemRepository) UpsertByKey(ctx context.Context, item *PayrollGeneratedItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "idempotency_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"target_code", "label", "quantity", "unit", "rate", "amount", "active", "updated_at",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: "payroll_generated_items", Name: "status"}, Value: ItemStatusDraft},
		}},
	}).Create(item).Error
}

// DeactivateStaleDrafts marks DRAFT items of the contract period that the
// current run did not reproduce as inactive. Nothing is deleted.
func (r *generatedItemRepository) DeactivateStaleDrafts(
	ctx context.Context,
	t tenant.Context,
	contractID uuid.UUID,
	year, month int,
	liveKeys []string,
) error {
	q := r.db.WithContext(ctx).
		Model(&PayrollGeneratedItem{}).
		Scopes(tenant.Scope(t)).
		Where("contract_id = ? AND year = ? AND month = ?", contractID, year, month).
		Where("status = ?", ItemStatusDraft).
		Where("active = ?", true)

	if len(liveKeys) > 0 {
		q = q.Where("idempotency_key NOT IN ?", liveKeys)
	}

	return q.Update("active", false).Error
}

func (r *generatedItemRepository) ListActive(
	ctx context.Context,
	t tenant.Context,
	contractID uuid.UUID,
	year, month int,
) ([]PayrollGeneratedItem, error) {
	var items []PayrollGeneratedItem
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Where("contract_id = ? AND year = ? AND month = ?", contractID, year, month).
		Where("active = ?", true).
		Order("event_code ASC, source_ref ASC").
		Find(&items).Error
	return items, err
}

// AttachDraftsToSalary ties the period's DRAFT items to the salary row the
// run just persisted.
func (r *generatedItemRepository) AttachDraftsToSalary(
	ctx context.Context,
	t tenant.Context,
	contractID uuid.UUID,
	year, month int,
	salaryID uuid.UUID,
) error {
	return r.db.WithContext(ctx).
		Model(&PayrollGeneratedItem{}).
		Scopes(tenant.Scope(t)).
		Where("contract_id = ? AND year = ? AND month = ?", contractID, year, month).
		Where("status = ?", ItemStatusDraft).
		Update("salary_id", salaryID).Error
}

// LockBySalaries freezes the DRAFT items of validated salaries.
func (r *generatedItemRepository) LockBySalaries(ctx context.Context, t tenant.Context, salaryIDs []uuid.UUID) error {
	if len(salaryIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&PayrollGeneratedItem{}).
		Scopes(tenant.Scope(t)).
		Where("salary_id IN ?", salaryIDs).
		Where("status = ?", ItemStatusDraft).
		Update("status", ItemStatusLocked).Error
}
