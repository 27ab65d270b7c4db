package sqlxrepos

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/user"
)

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{exec: exec}
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs []string, exec ...core.DBExecutor) error {
	if excludedIDs == nil {
		// a nil slice encodes as SQL NULL and `id != ALL(NULL)` never matches
		excludedIDs = []string{}
	}
	var count int
	err := getExec(repo.exec, exec).GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE lower(email) = lower($1) AND id != ALL($2)`,
		email, pq.Array(excludedIDs),
	)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password_hash, role, bio, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		usr.ID, usr.FirstName, usr.LastName, usr.Email, usr.PasswordHash, usr.Role, usr.Bio, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, trapDuplicateErr(err, "creating user")
	}
	return usr, nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context, exec ...core.DBExecutor) ([]user.User, error) {
	var users []user.User
	err := getExec(repo.exec, exec).SelectContext(ctx, &users, `SELECT * FROM users`)
	return users, errors.Wrap(err, "querying users")
}

func (repo userRepository) GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (user.User, error) {
	var usr user.User
	err := getExec(repo.exec, exec).GetContext(ctx, &usr, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user by id")
	}
	return usr, nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	var usr user.User
	err := getExec(repo.exec, exec).GetContext(ctx, &usr, `SELECT * FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user by email")
	}
	return usr, nil
}

func (repo userRepository) FilterUsersByRole(ctx context.Context, role user.Role, exec ...core.DBExecutor) ([]user.User, error) {
	var users []user.User
	err := getExec(repo.exec, exec).SelectContext(ctx, &users,
		`SELECT * FROM users WHERE role = $1 `+orderBy(firstNameAsc), role)
	return users, errors.Wrap(err, "filtering users by role")
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	res, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, email = $4, password_hash = $5, role = $6, bio = $7, updated_at = $8
		 WHERE id = $1`,
		usr.ID, usr.FirstName, usr.LastName, usr.Email, usr.PasswordHash, usr.Role, usr.Bio, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, trapDuplicateErr(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM users WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting users")
}
