package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/class"
)

type classRepository struct {
	db *sqlx.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *sqlx.DB) *classRepository {
	return &classRepository{db: db}
}

type classRow struct {
	ID                  string    `db:"id"`
	SchoolID            string    `db:"school_id"`
	CoordinatorID       string    `db:"coordinator_id"`
	SubjectID           string    `db:"subject_id"`
	TeacherFieldID      string    `db:"teacher_field_id"`
	StartTime           int       `db:"start_time"`
	GroupScheduleSlot   int       `db:"group_schedule_slot"`
	TeacherScheduleSlot int       `db:"teacher_schedule_slot"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func packClass(cls class.Class) classRow {
	return classRow{
		ID:                  cls.ID,
		SchoolID:            cls.SchoolID,
		CoordinatorID:       cls.CoordinatorID,
		SubjectID:           cls.SubjectID,
		TeacherFieldID:      cls.TeacherFieldID,
		StartTime:           cls.StartTime,
		GroupScheduleSlot:   cls.GroupScheduleSlot,
		TeacherScheduleSlot: cls.TeacherScheduleSlot,
		CreatedAt:           cls.CreatedAt.UTC(),
		UpdatedAt:           cls.UpdatedAt.UTC(),
	}
}

func (r classRow) unpack() class.Class {
	return class.Class{
		ID:                  r.ID,
		SchoolID:            r.SchoolID,
		CoordinatorID:       r.CoordinatorID,
		SubjectID:           r.SubjectID,
		TeacherFieldID:      r.TeacherFieldID,
		StartTime:           r.StartTime,
		GroupScheduleSlot:   r.GroupScheduleSlot,
		TeacherScheduleSlot: r.TeacherScheduleSlot,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to class.ErrNotFound
func (repo classRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return class.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const classColumns = `id, school_id, coordinator_id, subject_id, teacher_field_id, start_time,
	group_schedule_slot, teacher_schedule_slot, created_at, updated_at`

func (repo classRepository) CreateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	cls.ID = uuid.New().String()
	row := packClass(cls)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO class (id, school_id, coordinator_id, subject_id, teacher_field_id, start_time,
			group_schedule_slot, teacher_schedule_slot, created_at, updated_at)
		VALUES (:id, :school_id, :coordinator_id, :subject_id, :teacher_field_id, :start_time,
			:group_schedule_slot, :teacher_schedule_slot, :created_at, :updated_at)`, row,
	)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return row.unpack(), nil
}

func (repo classRepository) GetClass(ctx context.Context, id string) (class.Class, error) {
	var row classRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+classColumns+` FROM class WHERE id = $1`, id)
	if err != nil {
		return class.Class{}, repo.trapNoRowsErr(err, "getting class")
	}
	return row.unpack(), nil
}

func (repo classRepository) QueryClasses(ctx context.Context, schoolID string) ([]class.Class, error) {
	var rows []classRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT `+classColumns+` FROM class WHERE school_id = $1 ORDER BY start_time`, schoolID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]class.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.unpack())
	}
	return classes, nil
}

func (repo classRepository) UpdateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	row := packClass(cls)
	rows, err := repo.db.NamedQueryContext(ctx, `
		UPDATE class
		SET coordinator_id = :coordinator_id, subject_id = :subject_id,
			teacher_field_id = :teacher_field_id, start_time = :start_time,
			group_schedule_slot = :group_schedule_slot, teacher_schedule_slot = :teacher_schedule_slot,
			updated_at = :updated_at
		WHERE id = :id AND school_id = :school_id
		RETURNING created_at`, row,
	)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "updating class")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return class.Class{}, class.ErrNotFound
	}
	if err = rows.Scan(&row.CreatedAt); err != nil {
		return class.Class{}, errors.Wrap(err, "updating class")
	}
	return row.unpack(), nil
}

func (repo classRepository) DeleteClass(ctx context.Context, id, schoolID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM class WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return class.ErrNotFound
	}
	return nil
}
