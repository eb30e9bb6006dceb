package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for the HTTP layer
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindValidation
	KindReferential
	KindNotFound
	KindConflict
)

// Error is a tagged domain error. Code is the string surfaced to clients.
type Error struct {
	Kind ErrorKind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so wrapped copies still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap returns a copy of e carrying cause
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Err: cause}
}

// NewValidationError builds a 400-class error with the given tag
func NewValidationError(code string) *Error {
	return &Error{Kind: KindValidation, Code: code}
}

// InvalidField returns the conventional invalid_<field> error
func InvalidField(field string) *Error {
	return NewValidationError("invalid_" + field)
}

// InvalidDate returns the conventional invalid_<field>_date error
func InvalidDate(field string) *Error {
	return NewValidationError(fmt.Sprintf("invalid_%s_date", field))
}

// KindOf reports the kind of err, KindUnexpected when err is not a domain error
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}

// CodeOf reports the client-facing code of err
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindUnexpected {
		return de.Code
	}
	return "internal_error"
}

// Validation errors
var (
	ErrBadRequest            = NewValidationError("bad_request")
	ErrMissingFields         = NewValidationError("missing_fields")
	ErrInvalidID             = NewValidationError("invalid_id")
	ErrInvalidStatus         = NewValidationError("invalid_status")
	ErrInvalidContractStatus = NewValidationError("invalid_contract_status")
	ErrInvalidKYCStatus      = NewValidationError("invalid_kyc_status")
	ErrInvalidPosition       = NewValidationError("invalid_position")
	ErrInvalidPaymentType    = NewValidationError("invalid_payment_type")
	ErrInvalidSaleMethod     = NewValidationError("invalid_sale_method")
	ErrDueDateBeforeContract = NewValidationError("due_date_before_contract_date")
	ErrNoFieldsToUpdate      = NewValidationError("no_fields_to_update")
)

// Referential errors: a related row required by a write does not exist
var (
	ErrCustomerNotFound = &Error{Kind: KindReferential, Code: "customer_not_found"}
	ErrStaffNotFound    = &Error{Kind: KindReferential, Code: "staff_not_found"}
	ErrItemNotFound     = &Error{Kind: KindReferential, Code: "item_not_found"}
	ErrTicketNotFound   = &Error{Kind: KindReferential, Code: "ticket_not_found"}
)

// Not-found errors: the target of a read, update or delete is absent
var (
	ErrDispositionNotFound = &Error{Kind: KindNotFound, Code: "disposition_not_found"}
	ErrEmployeeNotFound    = &Error{Kind: KindNotFound, Code: "employee_not_found"}
)

// Conflict errors
var (
	ErrDuplicateNationalID = &Error{Kind: KindConflict, Code: "duplicate_national_id"}
	ErrDuplicatePhone      = &Error{Kind: KindConflict, Code: "duplicate_phone"}
	ErrDuplicateEntry      = &Error{Kind: KindConflict, Code: "duplicate_entry"}
	ErrEmployeeInUse       = &Error{Kind: KindConflict, Code: "employee_in_use"}
	ErrInvalidTransition   = &Error{Kind: KindConflict, Code: "invalid_transition"}
)
