package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleStaff    Role = "Staff"
	RoleCustomer Role = "Customer"
)

// Valid reports whether r is one of the three recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// CustomerPasswordPlaceholder is stored for customer accounts, which
// cannot log in. The login path rejects it explicitly.
const CustomerPasswordPlaceholder = "N/A"

// User is an account row: staff who operate the console, or customers
// who own print jobs.
type User struct {
	ID        int
	FullName  string
	Email     string // may be empty; non-empty values are unique
	Password  string // plain text, "N/A" for customers
	Role      Role
	CreatedAt time.Time
}

// Consumable item types. Stock is tracked per row, one row per material.
const (
	ItemPaper = "Paper"
	ItemInk   = "Ink"
)

// PagesPerInkUnit is the coverage of one ink unit. Jobs consume
// ceil(pages / PagesPerInkUnit) ink units.
const PagesPerInkUnit = 100

// InkUnitsForPages returns the ink units a job of the given page count
// consumes, rounding up. InkUnitsForPages(0) is 0.
func InkUnitsForPages(pages int) int {
	if pages <= 0 {
		return 0
	}
	return (pages + PagesPerInkUnit - 1) / PagesPerInkUnit
}

// InventoryItem is one consumable material. Quantity is what is left on
// the shelf right now; consumed amounts live in the consumption log.
type InventoryItem struct {
	ID        int
	ItemType  string
	Quantity  int
	UnitCost  decimal.Decimal
	UpdatedAt time.Time
}

// ConsumptionEntry is one append-only consumption log row. QuantityUsed
// is negative when stock was returned by a job update.
type ConsumptionEntry struct {
	ID           int
	InventoryID  int
	QuantityUsed int
	RecordedAt   time.Time
}

// StockStatus is the derived per-item view: Initial is reconstructed as
// Remaining plus everything the log says was consumed.
type StockStatus struct {
	ID        int
	ItemType  string
	Initial   int
	Consumed  int
	Remaining int
}

// StockShortage names one material that cannot cover a requested job.
type StockShortage struct {
	ItemType  string
	Required  int
	Available int
}

// StockCheck is the result of a job feasibility check.
type StockCheck struct {
	Sufficient bool
	Shortages  []StockShortage
}

// PrintJob is a customer's print order. JobCost is always
// PageCount × CostPerPage after any mutation.
type PrintJob struct {
	JobID        int
	UserID       int
	CustomerName string // joined from users on reads, empty otherwise
	PageCount    int
	CostPerPage  decimal.Decimal
	JobCost      decimal.Decimal
	CreatedAt    time.Time
}

type PaymentStatus string

const (
	PaymentComplete     PaymentStatus = "Complete"
	PaymentInsufficient PaymentStatus = "Insufficient"
)

// PaymentStatusFor derives the stored status: Complete when the amount
// covers the job cost, Insufficient otherwise.
func PaymentStatusFor(amount, jobCost decimal.Decimal) PaymentStatus {
	if amount.GreaterThanOrEqual(jobCost) {
		return PaymentComplete
	}
	return PaymentInsufficient
}

// Payment is the single payment recorded against a job. Balance is not
// stored; CreatePayment reports amount − job cost to the caller.
type Payment struct {
	TransactionID int
	UserID        int
	JobID         int
	CustomerName  string // joined from users on reads
	Amount        decimal.Decimal
	Method        string
	Status        PaymentStatus
	Reference     uuid.UUID
	CreatedAt     time.Time
}
