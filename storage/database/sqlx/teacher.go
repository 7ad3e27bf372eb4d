package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/teacher"
)

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

type teacherRow struct {
	ID              string    `db:"id"`
	SchoolID        string    `db:"school_id"`
	UserID          string    `db:"user_id"`
	CoordinatorID   string    `db:"coordinator_id"`
	ContractType    string    `db:"contract_type"`
	AssignableHours int       `db:"assignable_hours"`
	AssignedHours   int       `db:"assigned_hours"`
	Monday          bool      `db:"monday"`
	Tuesday         bool      `db:"tuesday"`
	Wednesday       bool      `db:"wednesday"`
	Thursday        bool      `db:"thursday"`
	Friday          bool      `db:"friday"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func packTeacher(tch teacher.Teacher) teacherRow {
	return teacherRow{
		ID:              tch.ID,
		SchoolID:        tch.SchoolID,
		UserID:          tch.UserID,
		CoordinatorID:   tch.CoordinatorID,
		ContractType:    tch.ContractType,
		AssignableHours: tch.AssignableHours,
		AssignedHours:   tch.AssignedHours,
		Monday:          tch.Monday,
		Tuesday:         tch.Tuesday,
		Wednesday:       tch.Wednesday,
		Thursday:        tch.Thursday,
		Friday:          tch.Friday,
		CreatedAt:       tch.CreatedAt.UTC(),
		UpdatedAt:       tch.UpdatedAt.UTC(),
	}
}

func (r teacherRow) unpack() teacher.Teacher {
	return teacher.Teacher{
		ID:              r.ID,
		SchoolID:        r.SchoolID,
		UserID:          r.UserID,
		CoordinatorID:   r.CoordinatorID,
		ContractType:    r.ContractType,
		AssignableHours: r.AssignableHours,
		AssignedHours:   r.AssignedHours,
		Monday:          r.Monday,
		Tuesday:         r.Tuesday,
		Wednesday:       r.Wednesday,
		Thursday:        r.Thursday,
		Friday:          r.Friday,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to teacher.ErrNotFound
func (repo teacherRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return teacher.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const teacherColumns = `id, school_id, user_id, coordinator_id, contract_type, assignable_hours,
	assigned_hours, monday, tuesday, wednesday, thursday, friday, created_at, updated_at`

func (repo teacherRepository) CheckUserUniqueness(ctx context.Context, userID string, excludedIDs ...string) error {
	query := `SELECT EXISTS (SELECT 1 FROM teacher WHERE user_id = ?)`
	args := []interface{}{userID}
	if len(excludedIDs) > 0 {
		query = `SELECT EXISTS (SELECT 1 FROM teacher WHERE user_id = ? AND id NOT IN (?))`
		args = append(args, excludedIDs)
	}
	exists, err := queryExists(ctx, repo.db, query, args...)
	if err != nil {
		return errors.Wrap(err, "checking teacher user uniqueness")
	}
	if exists {
		return teacher.ErrAlreadyTeacher
	}
	return nil
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	tch.ID = uuid.New().String()
	row := packTeacher(tch)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO teacher (id, school_id, user_id, coordinator_id, contract_type, assignable_hours,
			assigned_hours, monday, tuesday, wednesday, thursday, friday, created_at, updated_at)
		VALUES (:id, :school_id, :user_id, :coordinator_id, :contract_type, :assignable_hours,
			:assigned_hours, :monday, :tuesday, :wednesday, :thursday, :friday, :created_at, :updated_at)`, row,
	)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return row.unpack(), nil
}

func (repo teacherRepository) GetTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	var row teacherRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+teacherColumns+` FROM teacher WHERE id = $1`, id)
	if err != nil {
		return teacher.Teacher{}, repo.trapNoRowsErr(err, "getting teacher")
	}
	return row.unpack(), nil
}

func (repo teacherRepository) QueryTeachers(ctx context.Context, schoolID string) ([]teacher.Teacher, error) {
	var rows []teacherRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT `+teacherColumns+` FROM teacher WHERE school_id = $1 ORDER BY created_at`, schoolID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.unpack())
	}
	return teachers, nil
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	row := packTeacher(tch)
	rows, err := repo.db.NamedQueryContext(ctx, `
		UPDATE teacher
		SET user_id = :user_id, coordinator_id = :coordinator_id, contract_type = :contract_type,
			assignable_hours = :assignable_hours, assigned_hours = :assigned_hours,
			monday = :monday, tuesday = :tuesday, wednesday = :wednesday, thursday = :thursday,
			friday = :friday, updated_at = :updated_at
		WHERE id = :id AND school_id = :school_id
		RETURNING created_at`, row,
	)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	if err = rows.Scan(&row.CreatedAt); err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return row.unpack(), nil
}

func (repo teacherRepository) DeleteTeacher(ctx context.Context, id, schoolID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM teacher WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return teacher.ErrNotFound
	}
	return nil
}

// Field assignments

type teacherFieldRepository struct {
	db *sqlx.DB
}

var _ teacher.FieldRepository = (*teacherFieldRepository)(nil) // interface compliance check

func NewTeacherFieldRepository(db *sqlx.DB) *teacherFieldRepository {
	return &teacherFieldRepository{db: db}
}

type teacherFieldRow struct {
	ID        string    `db:"id"`
	SchoolID  string    `db:"school_id"`
	TeacherID string    `db:"teacher_id"`
	FieldID   string    `db:"field_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type teacherFieldDetailRow struct {
	teacherFieldRow
	Teacher teacherRow `db:"teacher"`
}

func packTeacherField(tf teacher.TeacherField) teacherFieldRow {
	return teacherFieldRow{
		ID:        tf.ID,
		SchoolID:  tf.SchoolID,
		TeacherID: tf.TeacherID,
		FieldID:   tf.FieldID,
		CreatedAt: tf.CreatedAt.UTC(),
		UpdatedAt: tf.UpdatedAt.UTC(),
	}
}

func (r teacherFieldRow) unpack() teacher.TeacherField {
	return teacher.TeacherField{
		ID:        r.ID,
		SchoolID:  r.SchoolID,
		TeacherID: r.TeacherID,
		FieldID:   r.FieldID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r teacherFieldDetailRow) unpack() teacher.FieldDetail {
	return teacher.FieldDetail{
		TeacherField: r.teacherFieldRow.unpack(),
		Teacher:      r.Teacher.unpack(),
	}
}

// trapNoRowsErr maps psql "no rows" err to teacher.ErrFieldNotFound
func (repo teacherFieldRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return teacher.ErrFieldNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo teacherFieldRepository) CheckFieldUniqueness(ctx context.Context, teacherID, fieldID string) error {
	exists, err := queryExists(ctx, repo.db,
		`SELECT EXISTS (SELECT 1 FROM teacher_field WHERE teacher_id = ? AND field_id = ?)`, teacherID, fieldID,
	)
	if err != nil {
		return errors.Wrap(err, "checking teacher field uniqueness")
	}
	if exists {
		return teacher.ErrFieldAssigned
	}
	return nil
}

func (repo teacherFieldRepository) CreateTeacherField(ctx context.Context, tf teacher.TeacherField) (teacher.TeacherField, error) {
	tf.ID = uuid.New().String()
	row := packTeacherField(tf)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO teacher_field (id, school_id, teacher_id, field_id, created_at, updated_at)
		VALUES (:id, :school_id, :teacher_id, :field_id, :created_at, :updated_at)`, row,
	)
	if err != nil {
		return teacher.TeacherField{}, errors.Wrap(err, "inserting teacher field")
	}
	return row.unpack(), nil
}

func (repo teacherFieldRepository) GetTeacherField(ctx context.Context, id string) (teacher.TeacherField, error) {
	var row teacherFieldRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, school_id, teacher_id, field_id, created_at, updated_at
		FROM teacher_field WHERE id = $1`, id,
	)
	if err != nil {
		return teacher.TeacherField{}, repo.trapNoRowsErr(err, "getting teacher field")
	}
	return row.unpack(), nil
}

func (repo teacherFieldRepository) GetTeacherFieldDetail(ctx context.Context, id string) (teacher.FieldDetail, error) {
	var row teacherFieldDetailRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT tf.id, tf.school_id, tf.teacher_id, tf.field_id, tf.created_at, tf.updated_at,
			t.id AS "teacher.id", t.school_id AS "teacher.school_id", t.user_id AS "teacher.user_id",
			t.coordinator_id AS "teacher.coordinator_id", t.contract_type AS "teacher.contract_type",
			t.assignable_hours AS "teacher.assignable_hours", t.assigned_hours AS "teacher.assigned_hours",
			t.monday AS "teacher.monday", t.tuesday AS "teacher.tuesday",
			t.wednesday AS "teacher.wednesday", t.thursday AS "teacher.thursday",
			t.friday AS "teacher.friday",
			t.created_at AS "teacher.created_at", t.updated_at AS "teacher.updated_at"
		FROM teacher_field tf
		JOIN teacher t ON t.id = tf.teacher_id
		WHERE tf.id = $1`, id,
	)
	if err != nil {
		return teacher.FieldDetail{}, repo.trapNoRowsErr(err, "getting teacher field detail")
	}
	return row.unpack(), nil
}

func (repo teacherFieldRepository) QueryTeacherFields(ctx context.Context, teacherID string) ([]teacher.TeacherField, error) {
	var rows []teacherFieldRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, school_id, teacher_id, field_id, created_at, updated_at
		FROM teacher_field WHERE teacher_id = $1 ORDER BY created_at`, teacherID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying teacher fields")
	}
	tfs := make([]teacher.TeacherField, 0, len(rows))
	for _, row := range rows {
		tfs = append(tfs, row.unpack())
	}
	return tfs, nil
}

func (repo teacherFieldRepository) DeleteTeacherField(ctx context.Context, teacherID, fieldID, schoolID string) error {
	res, err := repo.db.ExecContext(ctx, `
		DELETE FROM teacher_field WHERE teacher_id = $1 AND field_id = $2 AND school_id = $3`,
		teacherID, fieldID, schoolID,
	)
	if err != nil {
		return errors.Wrap(err, "deleting teacher field")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return teacher.ErrFieldNotFound
	}
	return nil
}
