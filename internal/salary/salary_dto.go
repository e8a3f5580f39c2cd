package salary

import "github.com/Desmondwr/payrovaHR-backend-sub001/internal/contract"

// Run outcomes per contract.
const (
	OutcomeOK      = "OK"
	OutcomeSkipped = "SKIPPED"
	OutcomeFailed  = "FAILED"
)

// RunRequest starts a payroll run over one period, optionally narrowed to
// a single contract, branch or department.
type RunRequest struct {
	Mode  string `json:"mode" binding:"required"`
	Year  int    `json:"year" binding:"required"`
	Month int    `json:"month" binding:"required"`

	ContractID   string `json:"contract_id"`
	BranchID     string `json:"branch_id"`
	DepartmentID string `json:"department_id"`
}

// Filter converts the optional narrowing fields for the contract query.
func (r RunRequest) Filter() contract.Filter {
	return contract.Filter{
		ContractID:   r.ContractID,
		BranchID:     r.BranchID,
		DepartmentID: r.DepartmentID,
	}
}

// RunResult reports one contract's outcome. Failures are isolated: a
// FAILED result carries the reason and the run continues with the next
// contract.
type RunResult struct {
	SalaryID   string `json:"salary_id,omitempty"`
	ContractID string `json:"contract_id"`
	EmployeeID string `json:"employee_id"`
	Outcome    string `json:"outcome"`
	Reason     string `json:"reason,omitempty"`
	NetSalary  string `json:"net_salary,omitempty"`
}

// ValidateRequest promotes finalized salaries into payment batches.
type ValidateRequest struct {
	SalaryIDs      []string `json:"salary_ids" binding:"required,min=1"`
	AllowSimulated bool     `json:"allow_simulated"`
}

// BatchResult reports one created payment batch.
type BatchResult struct {
	BatchID       string `json:"batch_id"`
	Reference     string `json:"reference"`
	PaymentMethod string `json:"payment_method"`
	LineCount     int    `json:"line_count"`
	TotalAmount   string `json:"total_amount"`
}

// SalaryResponse is the read shape of one salary aggregate.
type SalaryResponse struct {
	ID         string `json:"id"`
	ContractID string `json:"contract_id"`
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Status     string `json:"status"`

	BaseSalary              string `json:"base_salary"`
	GrossSalary             string `json:"gross_salary"`
	TaxableGrossSalary      string `json:"taxable_gross_salary"`
	IRPPTaxableGrossSalary  string `json:"irpp_taxable_gross_salary"`
	CNSSBasis               string `json:"cnss_basis"`
	CNAMGSBasis             string `json:"cnamgs_basis"`
	TotalAdvantages         string `json:"total_advantages"`
	TotalEmployeeDeductions string `json:"total_employee_deductions"`
	TotalEmployerDeductions string `json:"total_employer_deductions"`
	NetSalary               string `json:"net_salary"`

	LeaveDays     string `json:"leave_days"`
	AbsenceDays   string `json:"absence_days"`
	OvertimeHours string `json:"overtime_hours"`

	Advantages []SalaryLineResponse `json:"advantages,omitempty"`
	Deductions []SalaryLineResponse `json:"deductions,omitempty"`
}

// SalaryLineResponse is one advantage or deduction line.
type SalaryLineResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Quantity   string `json:"quantity,omitempty"`
	Rate       string `json:"rate,omitempty"`
	Amount     string `json:"amount"`
	BasisCode  string `json:"basis_code,omitempty"`
	IsEmployee bool   `json:"is_employee,omitempty"`
	IsEmployer bool   `json:"is_employer,omitempty"`
	NotCounted bool   `json:"not_counted,omitempty"`
}

func mapToResponse(s Salary) SalaryResponse {
	resp := SalaryResponse{
		ID:         s.ID.String(),
		ContractID: s.ContractID.String(),
		EmployeeID: s.EmployeeID.String(),
		Year:       s.Year,
		Month:      s.Month,
		Status:     s.Status,

		BaseSalary:              s.BaseSalary.String(),
		GrossSalary:             s.GrossSalary.String(),
		TaxableGrossSalary:      s.TaxableGrossSalary.String(),
		IRPPTaxableGrossSalary:  s.IRPPTaxableGrossSalary.String(),
		CNSSBasis:               s.CNSSBasis.String(),
		CNAMGSBasis:             s.CNAMGSBasis.String(),
		TotalAdvantages:         s.TotalAdvantages.String(),
		TotalEmployeeDeductions: s.TotalEmployeeDeductions.String(),
		TotalEmployerDeductions: s.TotalEmployerDeductions.String(),
		NetSalary:               s.NetSalary.String(),

		LeaveDays:     s.LeaveDays.String(),
		AbsenceDays:   s.AbsenceDays.String(),
		OvertimeHours: s.OvertimeHours.String(),
	}

	for _, a := range s.Advantages {
		resp.Advantages = append(resp.Advantages, SalaryLineResponse{
			Code:     a.Code,
			Name:     a.Name,
			Quantity: a.Quantity.String(),
			Rate:     a.Rate.String(),
			Amount:   a.Amount.String(),
		})
	}
	for _, d := range s.Deductions {
		resp.Deductions = append(resp.Deductions, SalaryLineResponse{
			Code:       d.Code,
			Name:       d.Name,
			Rate:       d.Rate.String(),
			Amount:     d.Amount.String(),
			BasisCode:  d.BasisCode,
			IsEmployee: d.IsEmployee,
			IsEmployer: d.IsEmployer,
			NotCounted: d.NotCounted,
		})
	}

	return resp
}
