package domain

import "errors"

// ErrorKind is the closed set of business error categories returned by the managers.
type ErrorKind string

const (
	KindValidation       ErrorKind = "VALIDATION_ERROR"
	KindDepositNotFound  ErrorKind = "DEPOSIT_NOT_FOUND"
	KindCapitalNotFound  ErrorKind = "CAPITAL_NOT_FOUND"
	KindMemberNotFound   ErrorKind = "MEMBER_NOT_FOUND"
	KindAlreadyVerified  ErrorKind = "ALREADY_VERIFIED"
	KindDuplicateCapital ErrorKind = "DUPLICATE_CAPITAL"
	KindInvalidStatus    ErrorKind = "INVALID_STATUS"
	KindDuplicateMember  ErrorKind = "DUPLICATE_MEMBER"
	KindInternal         ErrorKind = "INTERNAL"
)

// Error is a business rule violation tagged with its kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a new kinded error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

var (
	// Validation errors
	ErrInvalidAmount              = NewError(KindValidation, "amount must be positive")
	ErrAmountTooLarge             = NewError(KindValidation, "amount exceeds maximum allowed")
	ErrAmountPrecision            = NewError(KindValidation, "amount has more than two decimal places")
	ErrInvalidYear                = NewError(KindValidation, "invalid year")
	ErrInvalidMemberID            = NewError(KindValidation, "member id is required")
	ErrInvalidMemberName          = NewError(KindValidation, "invalid member name")
	ErrInvalidEmail               = NewError(KindValidation, "invalid email format")
	ErrInvalidRole                = NewError(KindValidation, "invalid role")
	ErrFieldTooLong               = NewError(KindValidation, "field exceeds maximum length")
	ErrCapitalAmountNotConfigured = NewError(KindValidation, "annual capital amount is not configured")
	ErrInvalidProof               = NewError(KindValidation, "invalid proof of payment")

	// Not found errors
	ErrDepositNotFound = NewError(KindDepositNotFound, "deposit not found")
	ErrCapitalNotFound = NewError(KindCapitalNotFound, "capital not found")
	ErrMemberNotFound  = NewError(KindMemberNotFound, "member not found")

	// State errors
	ErrAlreadyVerified       = NewError(KindAlreadyVerified, "deposit already verified")
	ErrDuplicateCapital      = NewError(KindDuplicateCapital, "capital already exists for member and year")
	ErrInvalidStatus         = NewError(KindInvalidStatus, "invalid status")
	ErrVerifiedDepositLocked = NewError(KindInvalidStatus, "verified deposit cannot be changed or deleted")
	ErrDepositNotPending     = NewError(KindInvalidStatus, "deposit is not pending")
	ErrDepositStatusChanged  = NewError(KindInvalidStatus, "deposit status changed concurrently")
	ErrDuplicateMember       = NewError(KindDuplicateMember, "member with this email already exists")
)
