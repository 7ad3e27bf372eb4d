package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/group"
)

type groupRepository struct {
	db *sqlx.DB
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *sqlx.DB) *groupRepository {
	return &groupRepository{db: db}
}

type groupRow struct {
	ID             string    `db:"id"`
	SchoolID       string    `db:"school_id"`
	LevelID        string    `db:"level_id"`
	CoordinatorID  string    `db:"coordinator_id"`
	Name           string    `db:"name"`
	NumberStudents int       `db:"number_students"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// groupDetailRow joins the coordinator row in; sqlx maps the "coordinator."
// prefixed columns into the nested struct.
type groupDetailRow struct {
	groupRow
	Coordinator userRow `db:"coordinator"`
}

func packGroup(grp group.Group) groupRow {
	return groupRow{
		ID:             grp.ID,
		SchoolID:       grp.SchoolID,
		LevelID:        grp.LevelID,
		CoordinatorID:  grp.CoordinatorID,
		Name:           grp.Name,
		NumberStudents: grp.NumberStudents,
		CreatedAt:      grp.CreatedAt.UTC(),
		UpdatedAt:      grp.UpdatedAt.UTC(),
	}
}

func (r groupRow) unpack() group.Group {
	return group.Group{
		ID:             r.ID,
		SchoolID:       r.SchoolID,
		LevelID:        r.LevelID,
		CoordinatorID:  r.CoordinatorID,
		Name:           r.Name,
		NumberStudents: r.NumberStudents,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r groupDetailRow) unpack() group.Detail {
	return group.Detail{
		Group:       r.groupRow.unpack(),
		Coordinator: r.Coordinator.unpack(),
	}
}

// trapNoRowsErr maps psql "no rows" err to group.ErrNotFound
func (repo groupRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return group.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const groupColumns = `id, school_id, level_id, coordinator_id, name, number_students, created_at, updated_at`

func (repo groupRepository) CheckNameUniqueness(ctx context.Context, schoolID, name string, excludedIDs ...string) error {
	query := `SELECT EXISTS (SELECT 1 FROM "group" WHERE school_id = ? AND LOWER(name) = LOWER(?))`
	args := []interface{}{schoolID, name}
	if len(excludedIDs) > 0 {
		query = `SELECT EXISTS (SELECT 1 FROM "group" WHERE school_id = ? AND LOWER(name) = LOWER(?) AND id NOT IN (?))`
		args = append(args, excludedIDs)
	}
	exists, err := queryExists(ctx, repo.db, query, args...)
	if err != nil {
		return errors.Wrap(err, "checking group name uniqueness")
	}
	if exists {
		return group.ErrNameExists
	}
	return nil
}

func (repo groupRepository) CreateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	grp.ID = uuid.New().String()
	row := packGroup(grp)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO "group" (id, school_id, level_id, coordinator_id, name, number_students, created_at, updated_at)
		VALUES (:id, :school_id, :level_id, :coordinator_id, :name, :number_students, :created_at, :updated_at)`, row,
	)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "inserting group")
	}
	return row.unpack(), nil
}

func (repo groupRepository) GetGroup(ctx context.Context, id string) (group.Group, error) {
	var row groupRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+groupColumns+` FROM "group" WHERE id = $1`, id)
	if err != nil {
		return group.Group{}, repo.trapNoRowsErr(err, "getting group")
	}
	return row.unpack(), nil
}

func (repo groupRepository) GetGroupDetail(ctx context.Context, id string) (group.Detail, error) {
	var row groupDetailRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT g.id, g.school_id, g.level_id, g.coordinator_id, g.name, g.number_students,
			g.created_at, g.updated_at,
			coord.id AS "coordinator.id", coord.school_id AS "coordinator.school_id",
			coord.first_name AS "coordinator.first_name", coord.last_name AS "coordinator.last_name",
			coord.email AS "coordinator.email", coord.role AS "coordinator.role",
			coord.status AS "coordinator.status", coord.has_teaching_func AS "coordinator.has_teaching_func",
			coord.password_hash AS "coordinator.password_hash", coord.created_at AS "coordinator.created_at",
			coord.updated_at AS "coordinator.updated_at", coord.last_login AS "coordinator.last_login"
		FROM "group" g
		JOIN "user" coord ON coord.id = g.coordinator_id
		WHERE g.id = $1`, id,
	)
	if err != nil {
		return group.Detail{}, repo.trapNoRowsErr(err, "getting group detail")
	}
	return row.unpack(), nil
}

func (repo groupRepository) QueryGroups(ctx context.Context, schoolID string) ([]group.Group, error) {
	var rows []groupRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT `+groupColumns+` FROM "group" WHERE school_id = $1 ORDER BY name`, schoolID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}
	groups := make([]group.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, row.unpack())
	}
	return groups, nil
}

func (repo groupRepository) UpdateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	row := packGroup(grp)
	rows, err := repo.db.NamedQueryContext(ctx, `
		UPDATE "group"
		SET level_id = :level_id, coordinator_id = :coordinator_id, name = :name,
			number_students = :number_students, updated_at = :updated_at
		WHERE id = :id AND school_id = :school_id
		RETURNING created_at`, row,
	)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "updating group")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return group.Group{}, group.ErrNotFound
	}
	if err = rows.Scan(&row.CreatedAt); err != nil {
		return group.Group{}, errors.Wrap(err, "updating group")
	}
	return row.unpack(), nil
}

func (repo groupRepository) DeleteGroup(ctx context.Context, id, schoolID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM "group" WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return errors.Wrap(err, "deleting group")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return group.ErrNotFound
	}
	return nil
}
