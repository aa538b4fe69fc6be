package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/devsoc/hackathon-platform/internal/model"
)

// AccountRepo persists login identities. Registration creates the
// account and its user profile inside one transaction so the two can
// never be orphaned.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// RegisterInput carries everything needed to create an account and
// its linked user in one step.
type RegisterInput struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
	RegNum       string
	Phone        string
	College      string
}

// Register inserts the account and the user row sharing the same
// UUID, committing both or neither. A duplicate email or reg_num
// surfaces as a UniqueViolationError and rolls the whole thing back.
func (r *AccountRepo) Register(ctx context.Context, in RegisterInput) (string, error) {
	id := uuid.NewString()
	email := strings.ToLower(strings.TrimSpace(in.Email))

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO accounts (id, email, password_hash) VALUES (?,?,?)",
		id, email, in.PasswordHash); err != nil {
		return "", translateErr(err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO users (id, account_id, name, role, reg_num, phone, college) VALUES (?,?,?,?,?,?,?)",
		id, id, in.Name, in.Role, in.RegNum, in.Phone, in.College); err != nil {
		return "", translateErr(err)
	}
	if err := tx.Commit(); err != nil {
		return "", translateErr(err)
	}
	return id, nil
}

// GetByEmail fetches an account by normalized email for login.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at, updated_at FROM accounts WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Account{}, translateErr(err)
	}
	return a, nil
}

// Delete removes an account; the user row and its evaluations go
// with it via ON DELETE CASCADE. Returns ErrNotFound when no row
// matched.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM accounts WHERE id=?", id)
	if err != nil {
		return translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
