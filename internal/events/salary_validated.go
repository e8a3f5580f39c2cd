package events

import "time"

const SalaryValidatedTopic = "payroll.salary.validated.v1"

type SalaryValidatedEvent struct {
	EventType      string    `json:"event_type"`
	SalaryID       string    `json:"salary_id"`
	ContractID     string    `json:"contract_id"`
	EmployeeID     string    `json:"employee_id"`
	OrganizationID string    `json:"organization_id"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	NetSalary      string    `json:"net_salary"`
	OccurredAt     time.Time `json:"occurred_at"`
}
