package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, username, email, password_hash,
	COALESCE(full_name,''), COALESCE(phone_number,''), COALESCE(bio,''),
	COALESCE(city,''), COALESCE(state,''), COALESCE(zip_code,''),
	permissions, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FullName, &u.PhoneNumber, &u.Bio,
		&u.City, &u.State, &u.ZipCode,
		&u.Permissions, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Create inserts a user with tier "user" and returns the stored record.
// Username and email collisions map onto their dedicated sentinels.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) error {
	u.ID = uuid.NewString()
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Permissions = "user"
	u.IsActive = true
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO users
		 (id, username, email, password_hash, full_name, phone_number, bio,
		  city, state, zip_code, permissions, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FullName, u.PhoneNumber,
		u.Bio, u.City, u.State, u.ZipCode, u.Permissions, u.IsActive)
	if err != nil {
		if isDuplicateKey(err, "uq_users_username") {
			return ErrUsernameExists
		}
		if isDuplicateKey(err, "uq_users_email") {
			return ErrEmailExists
		}
		if isDuplicateKey(err, "") {
			return ErrDuplicate
		}
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM users WHERE id=?", u.ID).
		Scan(&u.CreatedAt, &u.UpdatedAt)
}

// GetByLogin fetches a user by username or email. Login accepts either,
// matching the original registration flow where both are unique.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (model.User, error) {
	login = strings.TrimSpace(login)
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? OR email=? LIMIT 1",
		login, strings.ToLower(login)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateProfile updates self-editable fields only. The permissions and
// is_active columns are deliberately untouchable here; a principal cannot
// elevate its own tier through this path.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET full_name=?, phone_number=?, bio=?, city=?, state=?,
		 zip_code=?, updated_at=NOW() WHERE id=?`,
		u.FullName, u.PhoneNumber, u.Bio, u.City, u.State, u.ZipCode, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTier changes a user's permission tier. Only the admin handler calls
// this.
func (r *UserRepo) SetTier(ctx context.Context, id, tier string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET permissions=?, updated_at=NOW() WHERE id=?", tier, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive soft-enables or soft-disables an account. Accounts are never
// physically deleted.
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=?, updated_at=NOW() WHERE id=?", active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns users page by page, newest first. Admin dashboard only.
func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.FullName, &u.PhoneNumber, &u.Bio,
			&u.City, &u.State, &u.ZipCode,
			&u.Permissions, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Count returns the total number of accounts, for the admin stats endpoint.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// UserExists reports whether an active account with the given id exists.
// Disabled accounts cannot receive new messages.
func (r *UserRepo) UserExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE id=? AND is_active=1", id).Scan(&n)
	return n > 0, err
}
