package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/level"
)

type levelRepository struct {
	db *sqlx.DB
}

var _ level.Repository = (*levelRepository)(nil) // interface compliance check

func NewLevelRepository(db *sqlx.DB) *levelRepository {
	return &levelRepository{db: db}
}

type levelRow struct {
	ID         string    `db:"id"`
	SchoolID   string    `db:"school_id"`
	ScheduleID string    `db:"schedule_id"`
	Name       string    `db:"name"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func packLevel(lvl level.Level) levelRow {
	return levelRow{
		ID:         lvl.ID,
		SchoolID:   lvl.SchoolID,
		ScheduleID: lvl.ScheduleID,
		Name:       lvl.Name,
		CreatedAt:  lvl.CreatedAt.UTC(),
		UpdatedAt:  lvl.UpdatedAt.UTC(),
	}
}

func (r levelRow) unpack() level.Level {
	return level.Level{
		ID:         r.ID,
		SchoolID:   r.SchoolID,
		ScheduleID: r.ScheduleID,
		Name:       r.Name,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to level.ErrNotFound
func (repo levelRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return level.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo levelRepository) CheckNameUniqueness(ctx context.Context, schoolID, name string, excludedIDs ...string) error {
	query := `SELECT EXISTS (SELECT 1 FROM level WHERE school_id = ? AND LOWER(name) = LOWER(?))`
	args := []interface{}{schoolID, name}
	if len(excludedIDs) > 0 {
		query = `SELECT EXISTS (SELECT 1 FROM level WHERE school_id = ? AND LOWER(name) = LOWER(?) AND id NOT IN (?))`
		args = append(args, excludedIDs)
	}
	exists, err := queryExists(ctx, repo.db, query, args...)
	if err != nil {
		return errors.Wrap(err, "checking level name uniqueness")
	}
	if exists {
		return level.ErrNameExists
	}
	return nil
}

func (repo levelRepository) CreateLevel(ctx context.Context, lvl level.Level) (level.Level, error) {
	lvl.ID = uuid.New().String()
	row := packLevel(lvl)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO level (id, school_id, schedule_id, name, created_at, updated_at)
		VALUES (:id, :school_id, :schedule_id, :name, :created_at, :updated_at)`, row,
	)
	if err != nil {
		return level.Level{}, errors.Wrap(err, "inserting level")
	}
	return row.unpack(), nil
}

func (repo levelRepository) GetLevel(ctx context.Context, id string) (level.Level, error) {
	var row levelRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, school_id, schedule_id, name, created_at, updated_at FROM level WHERE id = $1`, id,
	)
	if err != nil {
		return level.Level{}, repo.trapNoRowsErr(err, "getting level")
	}
	return row.unpack(), nil
}

func (repo levelRepository) QueryLevels(ctx context.Context, schoolID string) ([]level.Level, error) {
	var rows []levelRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, school_id, schedule_id, name, created_at, updated_at
		FROM level WHERE school_id = $1 ORDER BY name`, schoolID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying levels")
	}
	levels := make([]level.Level, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, row.unpack())
	}
	return levels, nil
}

func (repo levelRepository) UpdateLevel(ctx context.Context, lvl level.Level) (level.Level, error) {
	row := packLevel(lvl)
	rows, err := repo.db.NamedQueryContext(ctx, `
		UPDATE level
		SET schedule_id = :schedule_id, name = :name, updated_at = :updated_at
		WHERE id = :id AND school_id = :school_id
		RETURNING created_at`, row,
	)
	if err != nil {
		return level.Level{}, errors.Wrap(err, "updating level")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return level.Level{}, level.ErrNotFound
	}
	if err = rows.Scan(&row.CreatedAt); err != nil {
		return level.Level{}, errors.Wrap(err, "updating level")
	}
	return row.unpack(), nil
}

func (repo levelRepository) DeleteLevel(ctx context.Context, id, schoolID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM level WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return errors.Wrap(err, "deleting level")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return level.ErrNotFound
	}
	return nil
}
