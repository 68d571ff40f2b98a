package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserPatch carries the fields of a partial account update. Nil fields
// are left untouched.
type UserPatch struct {
	FullName *string
	Email    *string
	Password *string
	Role     *Role
}

// UserService manages account records for staff and customers.
type UserService interface {
	// CreateUser registers an account. Customer accounts always store the
	// password placeholder regardless of the supplied password.
	CreateUser(ctx context.Context, fullName, email, password string, role Role) (*User, error)

	// GetUser returns an account by primary key.
	GetUser(ctx context.Context, userID int) (*User, error)

	// UpdateUser applies the non-nil fields of patch. It reports false
	// without touching the database when the patch is empty.
	UpdateUser(ctx context.Context, userID int, patch UserPatch) (bool, error)

	// DeleteUser removes an account. Jobs and payments referencing it are
	// kept; history is never rewritten on account removal.
	DeleteUser(ctx context.Context, userID int) error

	// SearchUsers returns accounts whose full name contains the pattern,
	// case-insensitively, capped at 100 rows.
	SearchUsers(ctx context.Context, namePattern string) ([]User, error)

	// SearchCustomers is SearchUsers restricted to the Customer role.
	SearchCustomers(ctx context.Context, namePattern string) ([]User, error)

	// ListUsers returns every account in ID order.
	ListUsers(ctx context.Context) ([]User, error)

	// CountCustomers returns the number of customer accounts.
	CountCustomers(ctx context.Context) (int, error)

	// Authenticate verifies console credentials. Customer accounts cannot
	// sign in.
	Authenticate(ctx context.Context, fullName, password string) (*User, error)
}

type userService struct {
	pool *pgxpool.Pool
}

// NewUserService constructs a UserService backed by PostgreSQL.
func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

// validateEmail accepts empty (account without email) or a minimally
// plausible address.
func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	at := strings.Index(email, "@")
	if at <= 0 || !strings.Contains(email[at:], ".") {
		return NewError(KindValidation, "invalid email address: %q", email)
	}
	return nil
}

func (s *userService) CreateUser(ctx context.Context, fullName, email, password string, role Role) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, NewError(KindValidation, "full name is required")
	}
	if !role.Valid() {
		return nil, NewError(KindValidation, "invalid role: %q", role)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if role == RoleCustomer {
		password = CustomerPasswordPlaceholder
	} else if password == "" {
		return nil, NewError(KindValidation, "password is required for %s accounts", role)
	}

	u := &User{FullName: fullName, Email: email, Password: password, Role: role}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (full_name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, created_at`,
		fullName, email, password, string(role),
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, storeErr(err, "failed to insert user")
	}
	return u, nil
}

func (s *userService) GetUser(ctx context.Context, userID int) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, full_name, email, password, role, created_at
		FROM users
		WHERE user_id = $1`,
		userID,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewError(KindNotFound, "user id=%d not found", userID)
		}
		return nil, storeErr(err, "failed to fetch user id=%d", userID)
	}
	return u, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID int, patch UserPatch) (bool, error) {
	var sets []string
	var args []any

	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return false, NewError(KindValidation, "full name cannot be blank")
		}
		args = append(args, name)
		sets = append(sets, fmt.Sprintf("full_name = $%d", len(args)))
	}
	if patch.Email != nil {
		if err := validateEmail(*patch.Email); err != nil {
			return false, err
		}
		args = append(args, *patch.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return false, NewError(KindValidation, "password cannot be blank")
		}
		args = append(args, *patch.Password)
		sets = append(sets, fmt.Sprintf("password = $%d", len(args)))
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return false, NewError(KindValidation, "invalid role: %q", *patch.Role)
		}
		args = append(args, string(*patch.Role))
		sets = append(sets, fmt.Sprintf("role = $%d", len(args)))
	}

	if len(sets) == 0 {
		return false, nil
	}

	args = append(args, userID)
	q := fmt.Sprintf("UPDATE users SET %s WHERE user_id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return false, storeErr(err, "failed to update user id=%d", userID)
	}
	if tag.RowsAffected() == 0 {
		return false, NewError(KindNotFound, "user id=%d not found", userID)
	}
	return true, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM users WHERE user_id = $1", userID)
	if err != nil {
		return storeErr(err, "failed to delete user id=%d", userID)
	}
	if tag.RowsAffected() == 0 {
		return NewError(KindNotFound, "user id=%d not found", userID)
	}
	return nil
}

func (s *userService) SearchUsers(ctx context.Context, namePattern string) ([]User, error) {
	return s.search(ctx, namePattern, "")
}

func (s *userService) SearchCustomers(ctx context.Context, namePattern string) ([]User, error) {
	return s.search(ctx, namePattern, RoleCustomer)
}

func (s *userService) search(ctx context.Context, namePattern string, role Role) ([]User, error) {
	q := `
		SELECT user_id, full_name, email, password, role, created_at
		FROM users
		WHERE full_name ILIKE $1`
	args := []any{"%" + namePattern + "%"}
	if role != "" {
		args = append(args, string(role))
		q += fmt.Sprintf(" AND role = $%d", len(args))
	}
	q += " ORDER BY user_id LIMIT 100"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, storeErr(err, "failed to search users")
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (s *userService) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, full_name, email, password, role, created_at
		FROM users
		ORDER BY user_id`)
	if err != nil {
		return nil, storeErr(err, "failed to list users")
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (s *userService) CountCustomers(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM users WHERE role = $1", string(RoleCustomer),
	).Scan(&n)
	if err != nil {
		return 0, storeErr(err, "failed to count customers")
	}
	return n, nil
}

func (s *userService) Authenticate(ctx context.Context, fullName, password string) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, full_name, email, password, role, created_at
		FROM users
		WHERE full_name = $1 AND password = $2
		LIMIT 1`,
		fullName, password,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewError(KindNotFound, "invalid name or password")
		}
		return nil, storeErr(err, "failed to authenticate")
	}
	if u.Role == RoleCustomer {
		return nil, NewError(KindValidation, "customer accounts cannot sign in to the console")
	}
	return u, nil
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.Role, &u.CreatedAt); err != nil {
			return nil, storeErr(err, "failed to scan user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "error iterating user rows")
	}
	return users, nil
}
