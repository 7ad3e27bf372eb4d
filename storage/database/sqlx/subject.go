package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/subject"
)

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) *subjectRepository {
	return &subjectRepository{db: db}
}

type subjectRow struct {
	ID            string    `db:"id"`
	SchoolID      string    `db:"school_id"`
	CoordinatorID string    `db:"coordinator_id"`
	GroupID       string    `db:"group_id"`
	FieldID       string    `db:"field_id"`
	Name          string    `db:"name"`
	ClassUnits    int       `db:"class_units"`
	Frequency     int       `db:"frequency"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type subjectDetailRow struct {
	subjectRow
	School      schoolRow `db:"school"`
	Coordinator userRow   `db:"coordinator"`
	Group       groupRow  `db:"group"`
	Field       fieldRow  `db:"field"`
}

func packSubject(sub subject.Subject) subjectRow {
	return subjectRow{
		ID:            sub.ID,
		SchoolID:      sub.SchoolID,
		CoordinatorID: sub.CoordinatorID,
		GroupID:       sub.GroupID,
		FieldID:       sub.FieldID,
		Name:          sub.Name,
		ClassUnits:    sub.ClassUnits,
		Frequency:     sub.Frequency,
		CreatedAt:     sub.CreatedAt.UTC(),
		UpdatedAt:     sub.UpdatedAt.UTC(),
	}
}

func (r subjectRow) unpack() subject.Subject {
	return subject.Subject{
		ID:            r.ID,
		SchoolID:      r.SchoolID,
		CoordinatorID: r.CoordinatorID,
		GroupID:       r.GroupID,
		FieldID:       r.FieldID,
		Name:          r.Name,
		ClassUnits:    r.ClassUnits,
		Frequency:     r.Frequency,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r subjectDetailRow) unpack() subject.Detail {
	return subject.Detail{
		Subject:     r.subjectRow.unpack(),
		School:      r.School.unpack(),
		Coordinator: r.Coordinator.unpack(),
		Group:       r.Group.unpack(),
		Field:       r.Field.unpack(),
	}
}

// trapNoRowsErr maps psql "no rows" err to subject.ErrNotFound
func (repo subjectRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return subject.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const subjectColumns = `id, school_id, coordinator_id, group_id, field_id, name, class_units, frequency, created_at, updated_at`

func (repo subjectRepository) CheckNameUniqueness(ctx context.Context, schoolID, name string, excludedIDs ...string) error {
	query := `SELECT EXISTS (SELECT 1 FROM subject WHERE school_id = ? AND LOWER(name) = LOWER(?))`
	args := []interface{}{schoolID, name}
	if len(excludedIDs) > 0 {
		query = `SELECT EXISTS (SELECT 1 FROM subject WHERE school_id = ? AND LOWER(name) = LOWER(?) AND id NOT IN (?))`
		args = append(args, excludedIDs)
	}
	exists, err := queryExists(ctx, repo.db, query, args...)
	if err != nil {
		return errors.Wrap(err, "checking subject name uniqueness")
	}
	if exists {
		return subject.ErrNameExists
	}
	return nil
}

func (repo subjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	sub.ID = uuid.New().String()
	row := packSubject(sub)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO subject (id, school_id, coordinator_id, group_id, field_id, name, class_units, frequency, created_at, updated_at)
		VALUES (:id, :school_id, :coordinator_id, :group_id, :field_id, :name, :class_units, :frequency, :created_at, :updated_at)`, row,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return row.unpack(), nil
}

func (repo subjectRepository) GetSubject(ctx context.Context, id string) (subject.Subject, error) {
	var row subjectRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+subjectColumns+` FROM subject WHERE id = $1`, id)
	if err != nil {
		return subject.Subject{}, repo.trapNoRowsErr(err, "getting subject")
	}
	return row.unpack(), nil
}

func (repo subjectRepository) GetSubjectDetail(ctx context.Context, id string) (subject.Detail, error) {
	var row subjectDetailRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT sub.id, sub.school_id, sub.coordinator_id, sub.group_id, sub.field_id, sub.name,
			sub.class_units, sub.frequency, sub.created_at, sub.updated_at,
			sch.id AS "school.id", sch.name AS "school.name",
			sch.group_max_num_students AS "school.group_max_num_students",
			sch.created_at AS "school.created_at", sch.updated_at AS "school.updated_at",
			coord.id AS "coordinator.id", coord.school_id AS "coordinator.school_id",
			coord.first_name AS "coordinator.first_name", coord.last_name AS "coordinator.last_name",
			coord.email AS "coordinator.email", coord.role AS "coordinator.role",
			coord.status AS "coordinator.status", coord.has_teaching_func AS "coordinator.has_teaching_func",
			coord.password_hash AS "coordinator.password_hash", coord.created_at AS "coordinator.created_at",
			coord.updated_at AS "coordinator.updated_at", coord.last_login AS "coordinator.last_login",
			g.id AS "group.id", g.school_id AS "group.school_id", g.level_id AS "group.level_id",
			g.coordinator_id AS "group.coordinator_id", g.name AS "group.name",
			g.number_students AS "group.number_students",
			g.created_at AS "group.created_at", g.updated_at AS "group.updated_at",
			f.id AS "field.id", f.school_id AS "field.school_id", f.name AS "field.name",
			f.created_at AS "field.created_at", f.updated_at AS "field.updated_at"
		FROM subject sub
		JOIN school sch ON sch.id = sub.school_id
		JOIN "user" coord ON coord.id = sub.coordinator_id
		JOIN "group" g ON g.id = sub.group_id
		JOIN field f ON f.id = sub.field_id
		WHERE sub.id = $1`, id,
	)
	if err != nil {
		return subject.Detail{}, repo.trapNoRowsErr(err, "getting subject detail")
	}
	return row.unpack(), nil
}

func (repo subjectRepository) QuerySubjects(ctx context.Context, schoolID string) ([]subject.Subject, error) {
	var rows []subjectRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT `+subjectColumns+` FROM subject WHERE school_id = $1 ORDER BY name`, schoolID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]subject.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.unpack())
	}
	return subjects, nil
}

func (repo subjectRepository) UpdateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	row := packSubject(sub)
	rows, err := repo.db.NamedQueryContext(ctx, `
		UPDATE subject
		SET coordinator_id = :coordinator_id, group_id = :group_id, field_id = :field_id,
			name = :name, class_units = :class_units, frequency = :frequency, updated_at = :updated_at
		WHERE id = :id AND school_id = :school_id
		RETURNING created_at`, row,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return subject.Subject{}, subject.ErrNotFound
	}
	if err = rows.Scan(&row.CreatedAt); err != nil {
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	return row.unpack(), nil
}

func (repo subjectRepository) DeleteSubject(ctx context.Context, id, schoolID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM subject WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return subject.ErrNotFound
	}
	return nil
}
