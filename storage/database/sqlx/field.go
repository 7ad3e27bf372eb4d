package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/field"
)

type fieldRepository struct {
	db *sqlx.DB
}

var _ field.Repository = (*fieldRepository)(nil) // interface compliance check

func NewFieldRepository(db *sqlx.DB) *fieldRepository {
	return &fieldRepository{db: db}
}

type fieldRow struct {
	ID        string    `db:"id"`
	SchoolID  string    `db:"school_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func packField(fld field.Field) fieldRow {
	return fieldRow{
		ID:        fld.ID,
		SchoolID:  fld.SchoolID,
		Name:      fld.Name,
		CreatedAt: fld.CreatedAt.UTC(),
		UpdatedAt: fld.UpdatedAt.UTC(),
	}
}

func (r fieldRow) unpack() field.Field {
	return field.Field{
		ID:        r.ID,
		SchoolID:  r.SchoolID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to field.ErrNotFound
func (repo fieldRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return field.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo fieldRepository) CheckNameUniqueness(ctx context.Context, schoolID, name string, excludedIDs ...string) error {
	query := `SELECT EXISTS (SELECT 1 FROM field WHERE school_id = ? AND LOWER(name) = LOWER(?))`
	args := []interface{}{schoolID, name}
	if len(excludedIDs) > 0 {
		query = `SELECT EXISTS (SELECT 1 FROM field WHERE school_id = ? AND LOWER(name) = LOWER(?) AND id NOT IN (?))`
		args = append(args, excludedIDs)
	}
	exists, err := queryExists(ctx, repo.db, query, args...)
	if err != nil {
		return errors.Wrap(err, "checking field name uniqueness")
	}
	if exists {
		return field.ErrNameExists
	}
	return nil
}

func (repo fieldRepository) CreateField(ctx context.Context, fld field.Field) (field.Field, error) {
	fld.ID = uuid.New().String()
	row := packField(fld)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO field (id, school_id, name, created_at, updated_at)
		VALUES (:id, :school_id, :name, :created_at, :updated_at)`, row,
	)
	if err != nil {
		return field.Field{}, errors.Wrap(err, "inserting field")
	}
	return row.unpack(), nil
}

func (repo fieldRepository) GetField(ctx context.Context, id string) (field.Field, error) {
	var row fieldRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, school_id, name, created_at, updated_at FROM field WHERE id = $1`, id,
	)
	if err != nil {
		return field.Field{}, repo.trapNoRowsErr(err, "getting field")
	}
	return row.unpack(), nil
}

func (repo fieldRepository) QueryFields(ctx context.Context, schoolID string) ([]field.Field, error) {
	var rows []fieldRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, school_id, name, created_at, updated_at
		FROM field WHERE school_id = $1 ORDER BY name`, schoolID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying fields")
	}
	fields := make([]field.Field, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, row.unpack())
	}
	return fields, nil
}

func (repo fieldRepository) UpdateField(ctx context.Context, fld field.Field) (field.Field, error) {
	row := packField(fld)
	rows, err := repo.db.NamedQueryContext(ctx, `
		UPDATE field
		SET name = :name, updated_at = :updated_at
		WHERE id = :id AND school_id = :school_id
		RETURNING created_at`, row,
	)
	if err != nil {
		return field.Field{}, errors.Wrap(err, "updating field")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return field.Field{}, field.ErrNotFound
	}
	if err = rows.Scan(&row.CreatedAt); err != nil {
		return field.Field{}, errors.Wrap(err, "updating field")
	}
	return row.unpack(), nil
}

func (repo fieldRepository) DeleteField(ctx context.Context, id, schoolID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM field WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return errors.Wrap(err, "deleting field")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return field.ErrNotFound
	}
	return nil
}
