package workdata

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceRecord is the attendance read model, one row per employee per
// worked day, with the minute counters the engine consumes.
type AttendanceRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index"`

	WorkDate time.Time  `gorm:"type:date;not null;index"`
	CheckIn  *time.Time `gorm:"type:timestamptz"`
	CheckOut *time.Time `gorm:"type:timestamptz"`

	ExpectedMinutes   int  `gorm:"not null;default:0"`
	WorkedMinutes     int  `gorm:"not null;default:0"`
	OvertimeMinutes   int  `gorm:"not null;default:0"`
	OvertimeValidated bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// IsWeekend reports whether the record falls on a Saturday or Sunday.
func (a AttendanceRecord) IsWeekend() bool {
	wd := a.WorkDate.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// TimeOffRequest is the approved-leave read model.
type TimeOffRequest struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index"`

	LeaveTypeCode string    `gorm:"type:varchar(30);not null"`
	Paid          bool      `gorm:"not null;default:true"`
	StartAt       time.Time `gorm:"type:timestamptz;not null"`
	EndAt         time.Time `gorm:"type:timestamptz;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'PENDING'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (TimeOffRequest) TableName() string {
	return "time_off_requests"
}

// OverlapMinutes returns the minute overlap between the request and the
// [from, to) interval.
func (r TimeOffRequest) OverlapMinutes(from, to time.Time) int {
	start := r.StartAt
	if start.Before(from) {
		start = from
	}
	end := r.EndAt
	if end.After(to) {
		end = to
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Minutes())
}

// WorkScheduleDay defines the scheduled window for one weekday.
type WorkScheduleDay struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Weekday uses time.Weekday numbering (Sunday = 0).
	Weekday      int `gorm:"not null"`
	StartMinute  int `gorm:"not null;default:480"`
	EndMinute    int `gorm:"not null;default:1020"`
	BreakMinutes int `gorm:"not null;default:60"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WorkScheduleDay) TableName() string {
	return "work_schedule_days"
}

// WorkSchedule indexes the per-weekday windows of one organization.
type WorkSchedule struct {
	days map[time.Weekday]WorkScheduleDay
}

func NewWorkSchedule(days []WorkScheduleDay) WorkSchedule {
	m := make(map[time.Weekday]WorkScheduleDay, len(days))
	for _, d := range days {
		m[time.Weekday(d.Weekday)] = d
	}
	return WorkSchedule{days: m}
}

// ScheduledStart resolves the scheduled start of work on the given date.
// The second return is false when the weekday has no configured window.
func (s WorkSchedule) ScheduledStart(date time.Time) (time.Time, bool) {
	day, ok := s.days[date.Weekday()]
	if !ok {
		return time.Time{}, false
	}
	return midnightOf(date).Add(time.Duration(day.StartMinute) * time.Minute), true
}

// ScheduledEnd resolves the scheduled end of work on the given date. The
// second return is false when the weekday has no configured window, in
// which case early-departure metrics cannot be computed for that day.
func (s WorkSchedule) ScheduledEnd(date time.Time) (time.Time, bool) {
	day, ok := s.days[date.Weekday()]
	if !ok {
		return time.Time{}, false
	}
	return midnightOf(date).Add(time.Duration(day.EndMinute) * time.Minute), true
}

func midnightOf(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
