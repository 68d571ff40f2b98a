package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PaymentReceipt is returned by CreatePayment. Balance is amount minus
// job cost and is negative for insufficient payments.
type PaymentReceipt struct {
	Payment *Payment
	JobCost decimal.Decimal
	Balance decimal.Decimal
}

// PaymentService records customer payments against print jobs. A job
// takes at most one payment; deleting a payment re-opens the job.
type PaymentService interface {
	// CreatePayment books a payment for a job owned by the given user.
	// The job is looked up by the (job, user) pair, so a mismatched owner
	// reads the same as a missing job. Status derives from the amount
	// against the job cost; the payment is stored either way.
	CreatePayment(ctx context.Context, userID, jobID int, amount decimal.Decimal, method string) (*PaymentReceipt, error)

	// UpdatePayment changes amount and/or method. Zero amount or empty
	// method skips that field; it reports false when both are skipped.
	// An amount change re-derives the status against the job's current
	// cost.
	UpdatePayment(ctx context.Context, transactionID int, newAmount decimal.Decimal, newMethod string) (bool, error)

	// DeletePayment removes a payment by transaction ID.
	DeletePayment(ctx context.Context, transactionID int) error

	// GetPayment returns one payment with its customer name joined in.
	GetPayment(ctx context.Context, transactionID int) (*Payment, error)

	// ListPayments returns every payment with customer names, in
	// transaction ID order.
	ListPayments(ctx context.Context) ([]Payment, error)
}

type paymentService struct {
	pool *pgxpool.Pool
}

// NewPaymentService constructs a PaymentService backed by PostgreSQL.
func NewPaymentService(pool *pgxpool.Pool) PaymentService {
	return &paymentService{pool: pool}
}

func (s *paymentService) CreatePayment(ctx context.Context, userID, jobID int, amount decimal.Decimal, method string) (*PaymentReceipt, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, NewError(KindValidation, "payment amount must be positive, got %s", amount)
	}
	if method == "" {
		return nil, NewError(KindValidation, "payment method is required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storeErr(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var customerName string
	if err := tx.QueryRow(ctx,
		"SELECT full_name FROM users WHERE user_id = $1", userID,
	).Scan(&customerName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewError(KindNotFound, "user id=%d not found", userID)
		}
		return nil, storeErr(err, "failed to resolve user id=%d", userID)
	}

	var jobCost decimal.Decimal
	if err := tx.QueryRow(ctx,
		"SELECT job_cost FROM printjob WHERE job_id = $1 AND user_id = $2",
		jobID, userID,
	).Scan(&jobCost); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewError(KindNotFound, "print job id=%d for user id=%d not found", jobID, userID)
		}
		return nil, storeErr(err, "failed to resolve print job id=%d", jobID)
	}

	var alreadyPaid bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM payment WHERE job_id = $1)", jobID,
	).Scan(&alreadyPaid); err != nil {
		return nil, storeErr(err, "failed to check existing payment for job id=%d", jobID)
	}
	if alreadyPaid {
		return nil, NewError(KindDuplicate, "print job id=%d already has a payment recorded", jobID)
	}

	p := &Payment{
		UserID:       userID,
		JobID:        jobID,
		CustomerName: customerName,
		Amount:       amount,
		Method:       method,
		Status:       PaymentStatusFor(amount, jobCost),
		Reference:    uuid.New(),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO payment (user_id, job_id, amount, method, payment_status, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING transaction_id, time_stamp`,
		userID, jobID, amount, method, string(p.Status), p.Reference,
	).Scan(&p.TransactionID, &p.CreatedAt)
	if err != nil {
		return nil, storeErr(err, "failed to insert payment for job id=%d", jobID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr(err, "failed to commit payment")
	}

	return &PaymentReceipt{
		Payment: p,
		JobCost: jobCost,
		Balance: amount.Sub(jobCost),
	}, nil
}

func (s *paymentService) UpdatePayment(ctx context.Context, transactionID int, newAmount decimal.Decimal, newMethod string) (bool, error) {
	if newAmount.IsNegative() {
		return false, NewError(KindValidation, "payment amount must be positive, got %s", newAmount)
	}
	if newAmount.IsZero() && newMethod == "" {
		return false, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, storeErr(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var jobID int
	var amount decimal.Decimal
	var method, status string
	err = tx.QueryRow(ctx, `
		SELECT job_id, amount, method, payment_status
		FROM payment
		WHERE transaction_id = $1
		FOR UPDATE`,
		transactionID,
	).Scan(&jobID, &amount, &method, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, NewError(KindNotFound, "payment id=%d not found", transactionID)
		}
		return false, storeErr(err, "failed to lock payment id=%d", transactionID)
	}

	if !newAmount.IsZero() {
		amount = newAmount
		// Re-derive the status against the job's current cost. If the job
		// was deleted since, the stored status stands.
		var jobCost decimal.Decimal
		err := tx.QueryRow(ctx,
			"SELECT job_cost FROM printjob WHERE job_id = $1", jobID,
		).Scan(&jobCost)
		switch {
		case err == nil:
			status = string(PaymentStatusFor(amount, jobCost))
		case errors.Is(err, pgx.ErrNoRows):
		default:
			return false, storeErr(err, "failed to resolve print job id=%d", jobID)
		}
	}
	if newMethod != "" {
		method = newMethod
	}

	if _, err := tx.Exec(ctx, `
		UPDATE payment
		SET amount = $1, method = $2, payment_status = $3, time_stamp = NOW()
		WHERE transaction_id = $4`,
		amount, method, status, transactionID,
	); err != nil {
		return false, storeErr(err, "failed to update payment id=%d", transactionID)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, storeErr(err, "failed to commit payment update")
	}
	return true, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, transactionID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM payment WHERE transaction_id = $1", transactionID)
	if err != nil {
		return storeErr(err, "failed to delete payment id=%d", transactionID)
	}
	if tag.RowsAffected() == 0 {
		return NewError(KindNotFound, "payment id=%d not found", transactionID)
	}
	return nil
}

const paymentSelect = `
	SELECT p.transaction_id, p.user_id, p.job_id, COALESCE(u.full_name, ''),
	       p.amount, p.method, p.payment_status, p.reference, p.time_stamp
	FROM payment p
	LEFT JOIN users u ON u.user_id = p.user_id`

func (s *paymentService) GetPayment(ctx context.Context, transactionID int) (*Payment, error) {
	p := &Payment{}
	err := s.pool.QueryRow(ctx, paymentSelect+" WHERE p.transaction_id = $1", transactionID).Scan(
		&p.TransactionID, &p.UserID, &p.JobID, &p.CustomerName,
		&p.Amount, &p.Method, &p.Status, &p.Reference, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewError(KindNotFound, "payment id=%d not found", transactionID)
		}
		return nil, storeErr(err, "failed to fetch payment id=%d", transactionID)
	}
	return p, nil
}

func (s *paymentService) ListPayments(ctx context.Context) ([]Payment, error) {
	rows, err := s.pool.Query(ctx, paymentSelect+" ORDER BY p.transaction_id")
	if err != nil {
		return nil, storeErr(err, "failed to query payments")
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.TransactionID, &p.UserID, &p.JobID, &p.CustomerName,
			&p.Amount, &p.Method, &p.Status, &p.Reference, &p.CreatedAt,
		); err != nil {
			return nil, storeErr(err, "failed to scan payment")
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "error iterating payment rows")
	}
	return payments, nil
}
