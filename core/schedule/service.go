package schedule

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/school"
)

var (
	// errors
	ErrNotFound      = errors.New("schedule not found")
	ErrBreakNotFound = errors.New("break not found")
)

type (
	Repository interface {
		CreateSchedule(ctx context.Context, sch Schedule) (Schedule, error)
		GetSchedule(ctx context.Context, id string) (Schedule, error)
		QuerySchedules(ctx context.Context, schoolID string) ([]Schedule, error)
		UpdateSchedule(ctx context.Context, sch Schedule) (Schedule, error)
		DeleteSchedule(ctx context.Context, id, schoolID string) error
	}

	BreakRepository interface {
		CreateBreak(ctx context.Context, brk Break) (Break, error)
		GetBreak(ctx context.Context, id string) (Break, error)
		QueryBreaks(ctx context.Context, schoolID string) ([]Break, error)
		UpdateBreak(ctx context.Context, brk Break) (Break, error)
		DeleteBreak(ctx context.Context, id, schoolID string) error
		// DeleteBreaksBySchedule removes every Break of the given schedule+school
		// and reports how many rows went away.
		DeleteBreaksBySchedule(ctx context.Context, scheduleID, schoolID string) (int, error)
	}

	Service struct {
		repo       Repository
		breakRepo  BreakRepository
		schoolRepo school.Repository
	}
)

func NewService(repo Repository, breakRepo BreakRepository, schoolRepo school.Repository) *Service {
	return &Service{repo: repo, breakRepo: breakRepo, schoolRepo: schoolRepo}
}

// Schedules

func (svc *Service) checkSchoolExists(ctx context.Context, schoolID string) core.RelationCheck {
	return func() error {
		if _, err := svc.schoolRepo.GetSchool(ctx, schoolID); err != nil {
			if errors.Cause(err) == school.ErrNotFound {
				return core.NewNotFoundError("school does not exist")
			}
			return err
		}
		return nil
	}
}

func (svc *Service) Create(ctx context.Context, ns NewSchedule) (Schedule, error) {
	if err := core.RunRelationChain(svc.checkSchoolExists(ctx, ns.SchoolID)); err != nil {
		return Schedule{}, err
	}

	now := time.Now().UTC()
	sch := Schedule{
		SchoolID:           ns.SchoolID,
		Name:               ns.Name,
		DayStart:           ns.DayStart,
		ShiftNumberMinutes: ns.ShiftNumberMinutes,
		SessionUnitMinutes: ns.SessionUnitMinutes,
		Monday:             ns.Monday,
		Tuesday:            ns.Tuesday,
		Wednesday:          ns.Wednesday,
		Thursday:           ns.Thursday,
		Friday:             ns.Friday,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	sch, err := svc.repo.CreateSchedule(ctx, sch)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Schedule{}, core.NewBadRequestError("Schedule not created!")
		}
		return Schedule{}, err
	}
	return sch, nil
}

func (svc *Service) QueryBySchool(ctx context.Context, schoolID string) ([]Schedule, error) {
	return svc.repo.QuerySchedules(ctx, schoolID)
}

func (svc *Service) GetByID(ctx context.Context, id, schoolID string) (Schedule, error) {
	sch, err := svc.repo.GetSchedule(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	if sch.SchoolID != schoolID {
		return Schedule{}, ErrNotFound
	}
	return sch, nil
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSchedule) (Schedule, error) {
	if err := core.RunRelationChain(svc.checkSchoolExists(ctx, us.SchoolID)); err != nil {
		return Schedule{}, err
	}

	sch := Schedule{
		ID:                 id,
		SchoolID:           us.SchoolID,
		Name:               us.Name,
		DayStart:           us.DayStart,
		ShiftNumberMinutes: us.ShiftNumberMinutes,
		SessionUnitMinutes: us.SessionUnitMinutes,
		Monday:             us.Monday,
		Tuesday:            us.Tuesday,
		Wednesday:          us.Wednesday,
		Thursday:           us.Thursday,
		Friday:             us.Friday,
		UpdatedAt:          time.Now().UTC(),
	}
	sch, err := svc.repo.UpdateSchedule(ctx, sch)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Schedule{}, core.NewNotFoundError("Schedule not updated")
		}
		return Schedule{}, err
	}
	return sch, nil
}

// Delete cascades: the store has no foreign keys, so the schedule's breaks
// are removed first, then the schedule row itself. Two explicit steps; a
// failure between them leaves the schedule without breaks, never orphaned
// breaks without a schedule.
func (svc *Service) Delete(ctx context.Context, id, schoolID string) error {
	sch, err := svc.repo.GetSchedule(ctx, id)
	if err != nil || sch.SchoolID != schoolID {
		return core.NewNotFoundError("Schedule not deleted")
	}

	if _, err := svc.breakRepo.DeleteBreaksBySchedule(ctx, sch.ID, sch.SchoolID); err != nil {
		return errors.Wrap(err, "deleting schedule breaks")
	}

	if err := svc.repo.DeleteSchedule(ctx, id, schoolID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewNotFoundError("Schedule not deleted")
		}
		return err
	}
	return nil
}

// Breaks

// checkBreakRelations is the Break relation chain: the schedule must exist,
// belong to the same school, and start no later than the break.
func (svc *Service) checkBreakRelations(ctx context.Context, schoolID, scheduleID string, breakStart int) error {
	var sch Schedule
	return core.RunRelationChain(
		func() (err error) {
			if sch, err = svc.repo.GetSchedule(ctx, scheduleID); err != nil {
				if errors.Cause(err) == ErrNotFound {
					return core.NewNotFoundError("schedule does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(sch.SchoolID, schoolID, "schedule")()
		},
		func() error {
			if breakStart < sch.DayStart {
				return core.NewBadRequestError("break start time cannot be earlier than the schedule start time")
			}
			return nil
		},
	)
}

func (svc *Service) CreateBreak(ctx context.Context, nb NewBreak) (Break, error) {
	if err := svc.checkBreakRelations(ctx, nb.SchoolID, nb.ScheduleID, nb.BreakStart); err != nil {
		return Break{}, err
	}

	now := time.Now().UTC()
	brk := Break{
		SchoolID:      nb.SchoolID,
		ScheduleID:    nb.ScheduleID,
		BreakStart:    nb.BreakStart,
		NumberMinutes: nb.NumberMinutes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	brk, err := svc.breakRepo.CreateBreak(ctx, brk)
	if err != nil {
		if errors.Cause(err) == ErrBreakNotFound {
			return Break{}, core.NewBadRequestError("Break not created!")
		}
		return Break{}, err
	}
	return brk, nil
}

func (svc *Service) QueryBreaksBySchool(ctx context.Context, schoolID string) ([]Break, error) {
	return svc.breakRepo.QueryBreaks(ctx, schoolID)
}

func (svc *Service) GetBreakByID(ctx context.Context, id, schoolID string) (Break, error) {
	brk, err := svc.breakRepo.GetBreak(ctx, id)
	if err != nil {
		return Break{}, err
	}
	if brk.SchoolID != schoolID {
		return Break{}, ErrBreakNotFound
	}
	return brk, nil
}

func (svc *Service) UpdateBreak(ctx context.Context, id string, ub UpdateBreak) (Break, error) {
	if err := svc.checkBreakRelations(ctx, ub.SchoolID, ub.ScheduleID, ub.BreakStart); err != nil {
		return Break{}, err
	}

	brk := Break{
		ID:            id,
		SchoolID:      ub.SchoolID,
		ScheduleID:    ub.ScheduleID,
		BreakStart:    ub.BreakStart,
		NumberMinutes: ub.NumberMinutes,
		UpdatedAt:     time.Now().UTC(),
	}
	brk, err := svc.breakRepo.UpdateBreak(ctx, brk)
	if err != nil {
		if errors.Cause(err) == ErrBreakNotFound {
			return Break{}, core.NewNotFoundError("Break not updated")
		}
		return Break{}, err
	}
	return brk, nil
}

func (svc *Service) DeleteBreak(ctx context.Context, id, schoolID string) error {
	if err := svc.breakRepo.DeleteBreak(ctx, id, schoolID); err != nil {
		if errors.Cause(err) == ErrBreakNotFound {
			return core.NewNotFoundError("Break not deleted")
		}
		return err
	}
	return nil
}
