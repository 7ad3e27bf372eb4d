package group

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/level"
	"github.com/trezcool/ratiba/core/school"
	"github.com/trezcool/ratiba/core/user"
)

var (
	// errors
	ErrNotFound   = errors.New("group not found")
	ErrNameExists = errors.New("a group with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, schoolID, name string, excludedIDs ...string) error
		CreateGroup(ctx context.Context, grp Group) (Group, error)
		GetGroup(ctx context.Context, id string) (Group, error)
		// GetGroupDetail joins the coordinator User into the result.
		GetGroupDetail(ctx context.Context, id string) (Detail, error)
		QueryGroups(ctx context.Context, schoolID string) ([]Group, error)
		UpdateGroup(ctx context.Context, grp Group) (Group, error)
		DeleteGroup(ctx context.Context, id, schoolID string) error
	}

	Service struct {
		repo       Repository
		levelRepo  level.Repository
		schoolRepo school.Repository
		userRepo   user.Repository
	}
)

func NewService(repo Repository, levelRepo level.Repository, schoolRepo school.Repository, userRepo user.Repository) *Service {
	return &Service{repo: repo, levelRepo: levelRepo, schoolRepo: schoolRepo, userRepo: userRepo}
}

func (svc *Service) checkRelations(ctx context.Context, schoolID, levelID, coordinatorID, name string, numStudents int, excludedIDs ...string) error {
	var (
		lvl   level.Level
		sch   school.School
		coord user.User
	)
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
			if lvl, err = svc.levelRepo.GetLevel(ctx, levelID); err != nil {
				if errors.Cause(err) == level.ErrNotFound {
					return core.NewNotFoundError("level does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(lvl.SchoolID, schoolID, "level")()
		},
		func() (err error) {
			if sch, err = svc.schoolRepo.GetSchool(ctx, schoolID); err != nil {
				if errors.Cause(err) == school.ErrNotFound {
					return core.NewNotFoundError("school does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			if numStudents > sch.GroupMaxNumStudents {
				return core.NewBadRequestError("number of students exceeds the school limit")
			}
			return nil
		},
		func() (err error) {
			if coord, err = svc.userRepo.GetUser(ctx, coordinatorID); err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return core.NewNotFoundError("coordinator does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(coord.SchoolID, schoolID, "coordinator")()
		},
		func() error {
			return user.CheckCoordinator(coord)()
		},
	)
}

func (svc *Service) Create(ctx context.Context, ng NewGroup) (Group, error) {
	if err := svc.checkRelations(ctx, ng.SchoolID, ng.LevelID, ng.CoordinatorID, ng.Name, ng.NumberStudents); err != nil {
		return Group{}, err
	}

	now := time.Now().UTC()
	grp := Group{
		SchoolID:       ng.SchoolID,
		LevelID:        ng.LevelID,
		CoordinatorID:  ng.CoordinatorID,
		Name:           ng.Name,
		NumberStudents: ng.NumberStudents,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	grp, err := svc.repo.CreateGroup(ctx, grp)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Group{}, core.NewBadRequestError("Group not created!")
		}
		return Group{}, err
	}
	return grp, nil
}

func (svc *Service) QueryBySchool(ctx context.Context, schoolID string) ([]Group, error) {
	return svc.repo.QueryGroups(ctx, schoolID)
}

func (svc *Service) GetByID(ctx context.Context, id, schoolID string) (Group, error) {
	grp, err := svc.repo.GetGroup(ctx, id)
	if err != nil {
		return Group{}, err
	}
	if grp.SchoolID != schoolID {
		return Group{}, ErrNotFound
	}
	return grp, nil
}

func (svc *Service) Update(ctx context.Context, id string, ug UpdateGroup) (Group, error) {
	if err := svc.checkRelations(ctx, ug.SchoolID, ug.LevelID, ug.CoordinatorID, ug.Name, ug.NumberStudents, id); err != nil {
		return Group{}, err
	}

	grp := Group{
		ID:             id,
		SchoolID:       ug.SchoolID,
		LevelID:        ug.LevelID,
		CoordinatorID:  ug.CoordinatorID,
		Name:           ug.Name,
		NumberStudents: ug.NumberStudents,
		UpdatedAt:      time.Now().UTC(),
	}
	grp, err := svc.repo.UpdateGroup(ctx, grp)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Group{}, core.NewNotFoundError("Group not updated")
		}
		return Group{}, err
	}
	return grp, nil
}

func (svc *Service) Delete(ctx context.Context, id, schoolID string) error {
	if err := svc.repo.DeleteGroup(ctx, id, schoolID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewNotFoundError("Group not deleted")
		}
		return err
	}
	return nil
}
