package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrNotAChairperson   = errors.New("user is not a chairperson")
)

// SACCO errors
var (
	ErrSaccoNotFound           = errors.New("sacco not found")
	ErrRegistrationNumberTaken = errors.New("sacco with this registration number already exists")
	ErrSaccoHasMembers         = errors.New("cannot delete sacco with existing members")
)

// Member errors
var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this sacco")
	ErrNegativeBalance     = errors.New("balance cannot be negative")
)

// Ledger errors
var (
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrInsufficientSavings = errors.New("insufficient savings balance")
	ErrDepositNotFound     = errors.New("deposit not found")
	ErrWithdrawalNotFound  = errors.New("withdrawal not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Loan errors
var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanAlreadyProcessed = errors.New("loan has already been processed")
	ErrLoanNotApproved      = errors.New("loan must be approved before disbursement")
	ErrLoanNotDisbursed     = errors.New("loan must be disbursed before repayment")
	ErrInvalidLoanStatus    = errors.New("invalid status, must be approved or rejected")
	ErrInvalidInterestRate  = errors.New("interest rate must be between 0 and 100")
)
