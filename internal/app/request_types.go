package app

import (
	"printshop/internal/core"

	"github.com/shopspring/decimal"
)

// CreateUserRequest is the input for registering an account. Password is
// ignored for customer accounts.
type CreateUserRequest struct {
	FullName string
	Email    string
	Password string
	Role     core.Role
}

// UpdateUserRequest is the input for a partial account update. Nil
// fields are left untouched.
type UpdateUserRequest struct {
	UserID   int
	FullName *string
	Email    *string
	Password *string
	Role     *core.Role
}

// CreateJobRequest is the input for booking a print job.
type CreateJobRequest struct {
	UserID      int
	PageCount   int
	CostPerPage decimal.Decimal
}

// UpdateJobRequest is the input for changing a job. Zero PageCount or
// zero CostPerPage skips that field.
type UpdateJobRequest struct {
	JobID       int
	PageCount   int
	CostPerPage decimal.Decimal
}

// CreatePaymentRequest is the input for recording a job's payment.
type CreatePaymentRequest struct {
	UserID int
	JobID  int
	Amount decimal.Decimal
	Method string
}

// UpdatePaymentRequest is the input for changing a payment. Zero Amount
// or empty Method skips that field.
type UpdatePaymentRequest struct {
	TransactionID int
	Amount        decimal.Decimal
	Method        string
}

// AddItemRequest is the input for registering a consumable.
type AddItemRequest struct {
	ItemType string
	Quantity int
	UnitCost decimal.Decimal
}
