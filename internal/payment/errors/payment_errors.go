package paymenterrors

import (
	"net/http"

	"go-payday/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidMonthFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid month format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"payment amounts must be greater than 0",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found or not accessible",
		http.StatusNotFound,
	)
	ErrPaymentNotFound = apperror.New(
		apperror.CodeNotFound,
		"payment not found",
		http.StatusNotFound,
	)
	ErrPaymentBeforeHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"payment date is before the employee hire date",
		http.StatusBadRequest,
	)
	ErrPaymentBeforeHireMonth = apperror.New(
		apperror.CodeInvalidInput,
		"payment month is before the employee hire month",
		http.StatusBadRequest,
	)
	ErrSalaryMonthConflict = apperror.New(
		apperror.CodeConflict,
		"a salary payment already exists for this employee and month",
		http.StatusConflict,
	)
	ErrReferenceExhausted = apperror.New(
		apperror.CodeConflict,
		"could not allocate a unique payment reference, please retry the request",
		http.StatusConflict,
	)
)
