package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/tkarls/memberbase/internal/domain/entity"
	"github.com/tkarls/memberbase/internal/domain/repository"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, membership_level, points, created_at`

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.store.sqlDB.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone,
		string(u.MembershipLevel), u.Points, toMillis(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.store.sqlDB.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ?
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.store.sqlDB.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = ?
	`, email)
	return scanUser(row)
}

// UpdateProfile reads, merges and writes inside one immediate transaction so
// concurrent updates to the same row serialize instead of interleaving.
// An update with no fields set reads the current row and writes nothing.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, upd entity.ProfileUpdate) (*entity.User, error) {
	if upd.Empty() {
		return r.GetByID(ctx, id)
	}

	tx, err := r.store.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	u, err := scanUser(tx.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ?
	`, id))
	if err != nil || u == nil {
		return nil, err
	}

	if upd.FirstName != nil {
		u.FirstName = upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = upd.LastName
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.MembershipLevel != nil {
		u.MembershipLevel = *upd.MembershipLevel
	}
	if upd.Points != nil {
		u.Points = *upd.Points
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users
		SET first_name = ?, last_name = ?, phone = ?, membership_level = ?, points = ?
		WHERE id = ?
	`, u.FirstName, u.LastName, u.Phone, string(u.MembershipLevel), u.Points, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*entity.User, error) {
	var (
		u         entity.User
		firstName sql.NullString
		lastName  sql.NullString
		phone     sql.NullString
		level     string
		createdAt int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &firstName, &lastName, &phone,
		&level, &u.Points, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.FirstName = nullableString(firstName)
	u.LastName = nullableString(lastName)
	u.Phone = nullableString(phone)
	u.MembershipLevel = entity.MembershipLevel(level)
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

var _ repository.UserRepository = (*UserRepository)(nil)
