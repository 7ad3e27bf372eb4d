package level

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schedule"
)

var (
	// errors
	ErrNotFound   = errors.New("level not found")
	ErrNameExists = errors.New("a level with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, schoolID, name string, excludedIDs ...string) error
		CreateLevel(ctx context.Context, lvl Level) (Level, error)
		GetLevel(ctx context.Context, id string) (Level, error)
		QueryLevels(ctx context.Context, schoolID string) ([]Level, error)
		UpdateLevel(ctx context.Context, lvl Level) (Level, error)
		DeleteLevel(ctx context.Context, id, schoolID string) error
	}

	Service struct {
		repo         Repository
		scheduleRepo schedule.Repository
	}
)

func NewService(repo Repository, scheduleRepo schedule.Repository) *Service {
	return &Service{repo: repo, scheduleRepo: scheduleRepo}
}

// checkRelations: duplicate name first, then the parent Schedule; the
// parent-school check rides on the schedule's own school_id.
func (svc *Service) checkRelations(ctx context.Context, schoolID, scheduleID, name string, excludedIDs ...string) error {
	var sch schedule.Schedule
	return core.RunRelationChain(
		func() error {
			if err := svc.repo.CheckNameUniqueness(ctx, schoolID, name, excludedIDs...); err != nil {
				if errors.Cause(err) == ErrNameExists {
					return core.NewConflictError(err.Error())
				}
				return err
			}
			return nil
		},
		func() (err error) {
			if sch, err = svc.scheduleRepo.GetSchedule(ctx, scheduleID); err != nil {
				if errors.Cause(err) == schedule.ErrNotFound {
					return core.NewNotFoundError("schedule does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(sch.SchoolID, schoolID, "schedule")()
		},
	)
}

func (svc *Service) Create(ctx context.Context, nl NewLevel) (Level, error) {
	if err := svc.checkRelations(ctx, nl.SchoolID, nl.ScheduleID, nl.Name); err != nil {
		return Level{}, err
	}

	now := time.Now().UTC()
	lvl := Level{
		SchoolID:   nl.SchoolID,
		ScheduleID: nl.ScheduleID,
		Name:       nl.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	lvl, err := svc.repo.CreateLevel(ctx, lvl)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Level{}, core.NewBadRequestError("Level not created!")
		}
		return Level{}, err
	}
	return lvl, nil
}

func (svc *Service) QueryBySchool(ctx context.Context, schoolID string) ([]Level, error) {
	return svc.repo.QueryLevels(ctx, schoolID)
}

func (svc *Service) GetByID(ctx context.Context, id, schoolID string) (Level, error) {
	lvl, err := svc.repo.GetLevel(ctx, id)
	if err != nil {
		return Level{}, err
	}
	if lvl.SchoolID != schoolID {
		return Level{}, ErrNotFound
	}
	return lvl, nil
}

func (svc *Service) Update(ctx context.Context, id string, ul UpdateLevel) (Level, error) {
	if err := svc.checkRelations(ctx, ul.SchoolID, ul.ScheduleID, ul.Name, id); err != nil {
		return Level{}, err
	}

	lvl := Level{
		ID:         id,
		SchoolID:   ul.SchoolID,
		ScheduleID: ul.ScheduleID,
		Name:       ul.Name,
		UpdatedAt:  time.Now().UTC(),
	}
	lvl, err := svc.repo.UpdateLevel(ctx, lvl)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Level{}, core.NewNotFoundError("Level not updated")
		}
		return Level{}, err
	}
	return lvl, nil
}

func (svc *Service) Delete(ctx context.Context, id, schoolID string) error {
	if err := svc.repo.DeleteLevel(ctx, id, schoolID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewNotFoundError("Level not deleted")
		}
		return err
	}
	return nil
}
