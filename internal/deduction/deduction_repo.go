package deduction

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

//go:generate mockgen -source=deduction_repo.go -destination=mock/deduction_repo_mock.go -package=mock
type Repository interface {
	// ListResolved loads the organization's active deductions with their
	// scales and resolves each calculation method.
	ListResolved(ctx context.Context, t tenant.Context) ([]Resolved, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListResolved(ctx context.Context, t tenant.Context) ([]Resolved, error) {
	var deductions []Deduction
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Where("active = ?", true).
		Order("position ASC, code ASC").
		Find(&deductions).Error
	if err != nil {
		return nil, err
	}

	var scales []Scale
	err = r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Preload("Ranges", func(db *gorm.DB) *gorm.DB {
			return db.Order("lower_bound ASC, position ASC")
		}).
		Find(&scales).Error
	if err != nil {
		return nil, err
	}

	scaleByID := make(map[uuid.UUID]Scale, len(scales))
	for _, s := range scales {
		scaleByID[s.ID] = s
	}

	return ResolveMethods(deductions, scaleByID)
}
