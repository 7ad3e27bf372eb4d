package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

type schoolRow struct {
	ID                  string    `db:"id"`
	Name                string    `db:"name"`
	GroupMaxNumStudents int       `db:"group_max_num_students"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func packSchool(sch school.School) schoolRow {
	return schoolRow{
		ID:                  sch.ID,
		Name:                sch.Name,
		GroupMaxNumStudents: sch.GroupMaxNumStudents,
		CreatedAt:           sch.CreatedAt.UTC(),
		UpdatedAt:           sch.UpdatedAt.UTC(),
	}
}

func (r schoolRow) unpack() school.School {
	return school.School{
		ID:                  r.ID,
		Name:                r.Name,
		GroupMaxNumStudents: r.GroupMaxNumStudents,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to school.ErrNotFound
func (repo schoolRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return school.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	sch.ID = uuid.New().String()
	row := packSchool(sch)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO school (id, name, group_max_num_students, created_at, updated_at)
		VALUES (:id, :name, :group_max_num_students, :created_at, :updated_at)`, row,
	)
	if err != nil {
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	return row.unpack(), nil
}

func (repo schoolRepository) GetSchool(ctx context.Context, id string) (school.School, error) {
	var row schoolRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, name, group_max_num_students, created_at, updated_at
		FROM school WHERE id = $1`, id,
	)
	if err != nil {
		return school.School{}, repo.trapNoRowsErr(err, "getting school")
	}
	return row.unpack(), nil
}

func (repo schoolRepository) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	var rows []schoolRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, name, group_max_num_students, created_at, updated_at
		FROM school ORDER BY name`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	schools := make([]school.School, 0, len(rows))
	for _, row := range rows {
		schools = append(schools, row.unpack())
	}
	return schools, nil
}

func (repo schoolRepository) UpdateSchool(ctx context.Context, sch school.School) (school.School, error) {
	row := packSchool(sch)
	rows, err := repo.db.NamedQueryContext(ctx, `
		UPDATE school
		SET name = :name, group_max_num_students = :group_max_num_students, updated_at = :updated_at
		WHERE id = :id
		RETURNING created_at`, row,
	)
	if err != nil {
		return school.School{}, errors.Wrap(err, "updating school")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return school.School{}, school.ErrNotFound
	}
	if err = rows.Scan(&row.CreatedAt); err != nil {
		return school.School{}, errors.Wrap(err, "updating school")
	}
	return row.unpack(), nil
}

func (repo schoolRepository) DeleteSchool(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM school WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting school")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return school.ErrNotFound
	}
	return nil
}
