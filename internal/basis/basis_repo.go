package basis

import (
	"context"

	"gorm.io/gorm"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

//go:generate mockgen -source=basis_repo.go -destination=mock/basis_repo_mock.go -package=mock
type Repository interface {
	ListBases(ctx context.Context, t tenant.Context) ([]CalculationBasis, error)
	ListMemberships(ctx context.Context, t tenant.Context) ([]CalculationBasisAdvantage, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListBases(ctx context.Context, t tenant.Context) ([]CalculationBasis, error) {
	var bases []CalculationBasis
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Order("code ASC").
		Find(&bases).Error
	return bases, err
}

func (r *repository) ListMemberships(ctx context.Context, t tenant.Context) ([]CalculationBasisAdvantage, error) {
	var edges []CalculationBasisAdvantage
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Find(&edges).Error
	return edges, err
}

// MissingCodes returns the canonical codes absent from the stored set, in
// canonical order, for the pre-run configuration check.
func MissingCodes(bases []CalculationBasis) []string {
	present := make(map[string]bool, len(bases))
	for _, b := range bases {
		present[NormalizeCode(b.Code)] = true
	}

	var missing []string
	for _, code := range RequiredCodes() {
		if !present[code] {
			missing = append(missing, code)
		}
	}
	return missing
}
