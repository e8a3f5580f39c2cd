package payment

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

//go:generate mockgen -source=payment_repo.go -destination=mock/payment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	// FindActiveAccount returns nil when no active funding account covers
	// the payout method.
	FindActiveAccount(ctx context.Context, t tenant.Context, method string) (*FundingAccount, error)
	CreateBatch(ctx context.Context, batch *PaymentBatch) error
	CreateLines(ctx context.Context, lines []PaymentLine) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return r
	}
	return &repository{db: gdb}
}

func (r *repository) FindActiveAccount(ctx context.Context, t tenant.Context, method string) (*FundingAccount, error) {
	var account FundingAccount
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Where("payment_method = ? AND active = ?", method, true).
		Order("created_at ASC").
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) CreateBatch(ctx context.Context, batch *PaymentBatch) error {
	return r.db.WithContext(ctx).Omit("Lines").Create(batch).Error
}

func (r *repository) CreateLines(ctx context.Context, lines []PaymentLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}
