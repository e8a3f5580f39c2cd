package payrollconfig

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

//go:generate mockgen -source=payrollconfig_repo.go -destination=mock/payrollconfig_repo_mock.go -package=mock
type Repository interface {
	FindByOrganization(ctx context.Context, t tenant.Context) (Configuration, error)
	ListActiveImpactConfigs(ctx context.Context, t tenant.Context) ([]AttendanceImpactConfig, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindByOrganization returns the stored configuration, falling back to
// DefaultConfiguration when the organization has no row yet.
func (r *repository) FindByOrganization(ctx context.Context, t tenant.Context) (Configuration, error) {
	var cfg Configuration
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DefaultConfiguration(t.OrganizationID), nil
		}
		return Configuration{}, err
	}
	return cfg, nil
}

func (r *repository) ListActiveImpactConfigs(ctx context.Context, t tenant.Context) ([]AttendanceImpactConfig, error) {
	var configs []AttendanceImpactConfig
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Where("active = ?", true).
		Order("event_code ASC, target_code ASC").
		Find(&configs).Error
	return configs, err
}
