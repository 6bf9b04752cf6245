package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/OSMA-D/osma-server/internal/apperror"
	"github.com/OSMA-D/osma-server/internal/model"
	"github.com/OSMA-D/osma-server/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user record.
//
// DUPLICATE NAMES:
// There is no SELECT-then-INSERT pre-check — two concurrent signups for the
// same name would both pass it. The UNIQUE constraint on users.name is the
// arbiter; a constraint violation comes back as apperror.ErrDenied so the
// caller can report "name taken" instead of a server error.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, password_hash, email, img, role)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.PasswordHash,
		user.Email,
		user.Img,
		string(user.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Denied("user with this name already exists")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Name, apperror.Infra(err))
	}

	return nil
}

// GetByName retrieves a user by name.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByName(ctx context.Context, name string) (*model.User, error) {
	var u model.User
	var role string

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, password_hash, email, img, role
		 FROM users WHERE name = ?`,
		name,
	).Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Email, &u.Img, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", name)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", name, apperror.Infra(err))
	}
	u.Role = model.Role(role)

	return &u, nil
}

// UpdatePassword overwrites the stored credential digest.
// The old/new verification happens in the service; by the time this runs
// the caller has proven knowledge of the old password.
func (db *DB) UpdatePassword(ctx context.Context, name, passwordHash string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE name = ?`,
		passwordHash, name,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating password for %q: %w", name, apperror.Infra(err))
	}
	return nil
}

// UpdateProfile unconditionally overwrites email and img.
func (db *DB) UpdateProfile(ctx context.Context, name, email, img string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET email = ?, img = ? WHERE name = ?`,
		email, img, name,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating profile for %q: %w", name, apperror.Infra(err))
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE-constraint
// failure. modernc.org/sqlite surfaces the extended result code, which lets
// us tell "name taken" apart from every other engine failure.
func isUniqueViolation(err error) bool {
	var se *sqlitedrv.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
