package tenant

import (
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/shared/apperror"
)

// Context identifies the organization a payroll operation runs for. It is
// passed explicitly into every engine entry point; the engine never reads
// an ambient "current tenant".
type Context struct {
	OrganizationID uuid.UUID
}

// Parse builds a tenant Context from a raw organization id.
func Parse(organizationID string) (Context, error) {
	id, err := uuid.Parse(organizationID)
	if err != nil {
		return Context{}, apperror.New(
			apperror.CodeInvalidInput,
			"invalid organization id",
			http.StatusBadRequest,
		)
	}
	return Context{OrganizationID: id}, nil
}

// Scope restricts a gorm query to the tenant's rows.
func Scope(t Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", t.OrganizationID)
	}
}
