package workdata

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/tenant"
)

const StatusApproved = "APPROVED"

//go:generate mockgen -source=workdata_repo.go -destination=mock/workdata_repo_mock.go -package=mock
type Repository interface {
	ListAttendance(ctx context.Context, t tenant.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error)
	ListApprovedTimeOff(ctx context.Context, t tenant.Context, employeeID string, from, to time.Time) ([]TimeOffRequest, error)
	GetWorkSchedule(ctx context.Context, t tenant.Context) (WorkSchedule, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAttendance(
	ctx context.Context,
	t tenant.Context,
	employeeID string,
	from, to time.Time,
) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Where("employee_id = ?", employeeID).
		Where("work_date >= ? AND work_date <= ?", from, to).
		Order("work_date ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) ListApprovedTimeOff(
	ctx context.Context,
	t tenant.Context,
	employeeID string,
	from, to time.Time,
) ([]TimeOffRequest, error) {
	var requests []TimeOffRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_at < ? AND end_at > ?", to, from).
		Order("start_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) GetWorkSchedule(ctx context.Context, t tenant.Context) (WorkSchedule, error) {
	var days []WorkScheduleDay
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Order("weekday ASC").
		Find(&days).Error
	if err != nil {
		return WorkSchedule{}, err
	}
	return NewWorkSchedule(days), nil
}
