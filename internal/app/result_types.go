package app

import "printshop/internal/core"

// UserSession identifies the logged-in operator for menu gating.
type UserSession struct {
	UserID   int
	FullName string
	Role     core.Role
}

// IsAdmin reports whether the session may open the restricted menus
// (user management and report generation).
func (s *UserSession) IsAdmin() bool {
	return s.Role == core.RoleAdmin
}

// UserResult is returned by single-account operations.
type UserResult struct {
	User *core.User
}

// UserListResult is returned by ListUsers and the search operations.
type UserListResult struct {
	Users []core.User
}

// UpdateResult reports whether a partial update changed anything.
type UpdateResult struct {
	Changed bool
}

// JobResult is returned by single-job operations.
type JobResult struct {
	Job *core.PrintJob
}

// JobListResult is returned by the job listing operations.
type JobListResult struct {
	Jobs []core.PrintJob
}

// PaymentResult is returned by GetPayment.
type PaymentResult struct {
	Payment *core.Payment
}

// PaymentListResult is returned by ListPayments.
type PaymentListResult struct {
	Payments []core.Payment
}

// ItemResult is returned by AddInventoryItem.
type ItemResult struct {
	Item *core.InventoryItem
}

// InventoryListResult is returned by ListInventory.
type InventoryListResult struct {
	Items []core.InventoryItem
}

// StockStatusResult is returned by InventoryStatus.
type StockStatusResult struct {
	Report []core.StockStatus
}

// IntakeResult is returned by DraftJobIntake.
type IntakeResult struct {
	Intake               *core.JobIntake
	ClarificationMessage string
	IsClarification      bool
}
