package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ratiba/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID              string     `db:"id"`
	SchoolID        string     `db:"school_id"`
	FirstName       string     `db:"first_name"`
	LastName        string     `db:"last_name"`
	Email           string     `db:"email"`
	Role            string     `db:"role"`
	Status          string     `db:"status"`
	HasTeachingFunc bool       `db:"has_teaching_func"`
	PasswordHash    null.Bytes `db:"password_hash"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	LastLogin       null.Time  `db:"last_login"`
}

func packUser(usr user.User) userRow {
	return userRow{
		ID:              usr.ID,
		SchoolID:        usr.SchoolID,
		FirstName:       usr.FirstName,
		LastName:        usr.LastName,
		Email:           usr.Email,
		Role:            usr.Role,
		Status:          usr.Status,
		HasTeachingFunc: usr.HasTeachingFunc,
		PasswordHash:    null.BytesFrom(usr.PasswordHash),
		CreatedAt:       usr.CreatedAt.UTC(),
		UpdatedAt:       usr.UpdatedAt.UTC(),
		LastLogin:       null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (r userRow) unpack() user.User {
	return user.User{
		ID:              r.ID,
		SchoolID:        r.SchoolID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Role:            r.Role,
		Status:          r.Status,
		HasTeachingFunc: r.HasTeachingFunc,
		PasswordHash:    r.PasswordHash.Bytes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		LastLogin:       r.LastLogin.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const userColumns = `id, school_id, first_name, last_name, email, role, status,
	has_teaching_func, password_hash, created_at, updated_at, last_login`

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, schoolID, email string, excludedIDs ...string) error {
	query := `SELECT EXISTS (SELECT 1 FROM "user" WHERE school_id = ? AND LOWER(email) = LOWER(?))`
	args := []interface{}{schoolID, email}
	if len(excludedIDs) > 0 {
		query = `SELECT EXISTS (SELECT 1 FROM "user" WHERE school_id = ? AND LOWER(email) = LOWER(?) AND id NOT IN (?))`
		args = append(args, excludedIDs)
	}
	exists, err := queryExists(ctx, repo.db, query, args...)
	if err != nil {
		return errors.Wrap(err, "checking user email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	row := packUser(usr)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO "user" (id, school_id, first_name, last_name, email, role, status,
			has_teaching_func, password_hash, created_at, updated_at, last_login)
		VALUES (:id, :school_id, :first_name, :last_name, :email, :role, :status,
			:has_teaching_func, :password_hash, :created_at, :updated_at, :last_login)`, row,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return row.unpack(), nil
}

func (repo userRepository) GetUser(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, id)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user")
	}
	return row.unpack(), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM "user" WHERE LOWER(email) = LOWER($1)`, email)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by email")
	}
	return row.unpack(), nil
}

func (repo userRepository) QueryUsers(ctx context.Context, schoolID string) ([]user.User, error) {
	var rows []userRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT `+userColumns+` FROM "user" WHERE school_id = $1 ORDER BY last_name, first_name`, schoolID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.unpack())
	}
	return users, nil
}

// UpdateUser leaves password_hash untouched unless a new hash is set.
func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := packUser(usr)

	setPwd := ""
	if len(usr.PasswordHash) > 0 {
		setPwd = "password_hash = :password_hash,"
	}
	rows, err := repo.db.NamedQueryContext(ctx, `
		UPDATE "user"
		SET school_id = :school_id, first_name = :first_name, last_name = :last_name,
			email = :email, role = :role, status = :status,
			has_teaching_func = :has_teaching_func, `+setPwd+`
			updated_at = :updated_at
		WHERE id = :id
		RETURNING password_hash, created_at, last_login`, row,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return user.User{}, user.ErrNotFound
	}
	if err = rows.Scan(&row.PasswordHash, &row.CreatedAt, &row.LastLogin); err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return row.unpack(), nil
}

func (repo userRepository) SetLastLogin(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE "user" SET last_login = $1 WHERE id = $2`, usr.LastLogin.UTC(), usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting last login")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo userRepository) DeleteUser(ctx context.Context, id, schoolID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}
	return nil
}
