package salaryerrors

import (
	"net/http"
	"strings"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/shared/apperror"
)

var (
	ErrPayrollDisabled = apperror.New(
		apperror.CodeInvalidState,
		"payroll is disabled for this organization",
		http.StatusConflict,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period, expected year and month between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidRunMode = apperror.New(
		apperror.CodeInvalidInput,
		"invalid run mode, expected SIMULATED or GENERATED",
		http.StatusBadRequest,
	)
	ErrRunInProgress = apperror.New(
		apperror.CodeConflict,
		"a payroll run is already in progress for this period",
		http.StatusConflict,
	)
	ErrPeriodLocked = apperror.New(
		apperror.CodeInvalidState,
		"salary period is validated or archived and can no longer be generated",
		http.StatusConflict,
	)
	ErrInvalidSalaryID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary id",
		http.StatusBadRequest,
	)
	ErrNothingToValidate = apperror.New(
		apperror.CodeInvalidInput,
		"no salary in a validatable status was provided",
		http.StatusBadRequest,
	)
	ErrNoFundingSource = apperror.New(
		apperror.CodeInvalidState,
		"no active funding account is configured for the payment method",
		http.StatusConflict,
	)
)

// MissingBases names the canonical calculation bases absent from the
// organization's configuration. The run refuses to start without them.
func MissingBases(codes []string) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeInvalidState,
		http.StatusConflict,
		"missing calculation bases: %s",
		strings.Join(codes, ", "),
	)
}

// NotValidatable identifies the salary blocking a validation call.
func NotValidatable(salaryID, status string) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeInvalidState,
		http.StatusConflict,
		"salary %s has status %s and cannot be validated",
		salaryID, status,
	)
}

// PaymentMethodNotAllowed names the rejected payout method.
func PaymentMethodNotAllowed(method string) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeInvalidState,
		http.StatusConflict,
		"payment method %s is not allowed by the payroll configuration",
		method,
	)
}

// MissingBankDetails names the employee a bank payout cannot be built for.
func MissingBankDetails(employeeName string) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeInvalidState,
		http.StatusConflict,
		"employee %s has no bank details for a bank transfer payout",
		employeeName,
	)
}
