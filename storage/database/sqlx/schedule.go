package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/schedule"
)

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) *scheduleRepository {
	return &scheduleRepository{db: db}
}

type scheduleRow struct {
	ID                 string    `db:"id"`
	SchoolID           string    `db:"school_id"`
	Name               string    `db:"name"`
	DayStart           int       `db:"day_start"`
	ShiftNumberMinutes int       `db:"shift_number_minutes"`
	SessionUnitMinutes int       `db:"session_unit_minutes"`
	Monday             bool      `db:"monday"`
	Tuesday            bool      `db:"tuesday"`
	Wednesday          bool      `db:"wednesday"`
	Thursday           bool      `db:"thursday"`
	Friday             bool      `db:"friday"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func packSchedule(sch schedule.Schedule) scheduleRow {
	return scheduleRow{
		ID:                 sch.ID,
		SchoolID:           sch.SchoolID,
		Name:               sch.Name,
		DayStart:           sch.DayStart,
		ShiftNumberMinutes: sch.ShiftNumberMinutes,
		SessionUnitMinutes: sch.SessionUnitMinutes,
		Monday:             sch.Monday,
		Tuesday:            sch.Tuesday,
		Wednesday:          sch.Wednesday,
		Thursday:           sch.Thursday,
		Friday:             sch.Friday,
		CreatedAt:          sch.CreatedAt.UTC(),
		UpdatedAt:          sch.UpdatedAt.UTC(),
	}
}

func (r scheduleRow) unpack() schedule.Schedule {
	return schedule.Schedule{
		ID:                 r.ID,
		SchoolID:           r.SchoolID,
		Name:               r.Name,
		DayStart:           r.DayStart,
		ShiftNumberMinutes: r.ShiftNumberMinutes,
		SessionUnitMinutes: r.SessionUnitMinutes,
		Monday:             r.Monday,
		Tuesday:            r.Tuesday,
		Wednesday:          r.Wednesday,
		Thursday:           r.Thursday,
		Friday:             r.Friday,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to schedule.ErrNotFound
func (repo scheduleRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return schedule.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const scheduleColumns = `id, school_id, name, day_start, shift_number_minutes, session_unit_minutes,
	monday, tuesday, wednesday, thursday, friday, created_at, updated_at`

func (repo scheduleRepository) CreateSchedule(ctx context.Context, sch schedule.Schedule) (schedule.Schedule, error) {
	sch.ID = uuid.New().String()
	row := packSchedule(sch)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO schedule (id, school_id, name, day_start, shift_number_minutes, session_unit_minutes,
			monday, tuesday, wednesday, thursday, friday, created_at, updated_at)
		VALUES (:id, :school_id, :name, :day_start, :shift_number_minutes, :session_unit_minutes,
			:monday, :tuesday, :wednesday, :thursday, :friday, :created_at, :updated_at)`, row,
	)
	if err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "inserting schedule")
	}
	return row.unpack(), nil
}

func (repo scheduleRepository) GetSchedule(ctx context.Context, id string) (schedule.Schedule, error) {
	var row scheduleRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+scheduleColumns+` FROM schedule WHERE id = $1`, id)
	if err != nil {
		return schedule.Schedule{}, repo.trapNoRowsErr(err, "getting schedule")
	}
	return row.unpack(), nil
}

func (repo scheduleRepository) QuerySchedules(ctx context.Context, schoolID string) ([]schedule.Schedule, error) {
	var rows []scheduleRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT `+scheduleColumns+` FROM schedule WHERE school_id = $1 ORDER BY name`, schoolID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying schedules")
	}
	schedules := make([]schedule.Schedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, row.unpack())
	}
	return schedules, nil
}

func (repo scheduleRepository) UpdateSchedule(ctx context.Context, sch schedule.Schedule) (schedule.Schedule, error) {
	row := packSchedule(sch)
	rows, err := repo.db.NamedQueryContext(ctx, `
		UPDATE schedule
		SET name = :name, day_start = :day_start, shift_number_minutes = :shift_number_minutes,
			session_unit_minutes = :session_unit_minutes, monday = :monday, tuesday = :tuesday,
			wednesday = :wednesday, thursday = :thursday, friday = :friday, updated_at = :updated_at
		WHERE id = :id AND school_id = :school_id
		RETURNING created_at`, row,
	)
	if err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "updating schedule")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	if err = rows.Scan(&row.CreatedAt); err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "updating schedule")
	}
	return row.unpack(), nil
}

func (repo scheduleRepository) DeleteSchedule(ctx context.Context, id, schoolID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM schedule WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return errors.Wrap(err, "deleting schedule")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.ErrNotFound
	}
	return nil
}

// Breaks

type breakRepository struct {
	db *sqlx.DB
}

var _ schedule.BreakRepository = (*breakRepository)(nil) // interface compliance check

func NewBreakRepository(db *sqlx.DB) *breakRepository {
	return &breakRepository{db: db}
}

type breakRow struct {
	ID            string    `db:"id"`
	SchoolID      string    `db:"school_id"`
	ScheduleID    string    `db:"schedule_id"`
	BreakStart    int       `db:"break_start"`
	NumberMinutes int       `db:"number_minutes"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func packBreak(brk schedule.Break) breakRow {
	return breakRow{
		ID:            brk.ID,
		SchoolID:      brk.SchoolID,
		ScheduleID:    brk.ScheduleID,
		BreakStart:    brk.BreakStart,
		NumberMinutes: brk.NumberMinutes,
		CreatedAt:     brk.CreatedAt.UTC(),
		UpdatedAt:     brk.UpdatedAt.UTC(),
	}
}

func (r breakRow) unpack() schedule.Break {
	return schedule.Break{
		ID:            r.ID,
		SchoolID:      r.SchoolID,
		ScheduleID:    r.ScheduleID,
		BreakStart:    r.BreakStart,
		NumberMinutes: r.NumberMinutes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to schedule.ErrBreakNotFound
func (repo breakRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return schedule.ErrBreakNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo breakRepository) CreateBreak(ctx context.Context, brk schedule.Break) (schedule.Break, error) {
	brk.ID = uuid.New().String()
	row := packBreak(brk)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO break (id, school_id, schedule_id, break_start, number_minutes, created_at, updated_at)
		VALUES (:id, :school_id, :schedule_id, :break_start, :number_minutes, :created_at, :updated_at)`, row,
	)
	if err != nil {
		return schedule.Break{}, errors.Wrap(err, "inserting break")
	}
	return row.unpack(), nil
}

func (repo breakRepository) GetBreak(ctx context.Context, id string) (schedule.Break, error) {
	var row breakRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, school_id, schedule_id, break_start, number_minutes, created_at, updated_at
		FROM break WHERE id = $1`, id,
	)
	if err != nil {
		return schedule.Break{}, repo.trapNoRowsErr(err, "getting break")
	}
	return row.unpack(), nil
}

func (repo breakRepository) QueryBreaks(ctx context.Context, schoolID string) ([]schedule.Break, error) {
	var rows []breakRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, school_id, schedule_id, break_start, number_minutes, created_at, updated_at
		FROM break WHERE school_id = $1 ORDER BY break_start`, schoolID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying breaks")
	}
	breaks := make([]schedule.Break, 0, len(rows))
	for _, row := range rows {
		breaks = append(breaks, row.unpack())
	}
	return breaks, nil
}

func (repo breakRepository) UpdateBreak(ctx context.Context, brk schedule.Break) (schedule.Break, error) {
	row := packBreak(brk)
	rows, err := repo.db.NamedQueryContext(ctx, `
		UPDATE break
		SET schedule_id = :schedule_id, break_start = :break_start,
			number_minutes = :number_minutes, updated_at = :updated_at
		WHERE id = :id AND school_id = :school_id
		RETURNING created_at`, row,
	)
	if err != nil {
		return schedule.Break{}, errors.Wrap(err, "updating break")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return schedule.Break{}, schedule.ErrBreakNotFound
	}
	if err = rows.Scan(&row.CreatedAt); err != nil {
		return schedule.Break{}, errors.Wrap(err, "updating break")
	}
	return row.unpack(), nil
}

func (repo breakRepository) DeleteBreak(ctx context.Context, id, schoolID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM break WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return errors.Wrap(err, "deleting break")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.ErrBreakNotFound
	}
	return nil
}

func (repo breakRepository) DeleteBreaksBySchedule(ctx context.Context, scheduleID, schoolID string) (int, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM break WHERE schedule_id = $1 AND school_id = $2`, scheduleID, schoolID)
	if err != nil {
		return 0, errors.Wrap(err, "deleting schedule breaks")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting schedule breaks")
	}
	return int(n), nil
}
