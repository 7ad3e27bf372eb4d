package subject

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/field"
	"github.com/trezcool/ratiba/core/group"
	"github.com/trezcool/ratiba/core/user"
)

var (
	// errors
	ErrNotFound   = errors.New("subject not found")
	ErrNameExists = errors.New("a subject with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, schoolID, name string, excludedIDs ...string) error
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		GetSubject(ctx context.Context, id string) (Subject, error)
		// GetSubjectDetail joins School, Coordinator, Group and Field into the result.
		GetSubjectDetail(ctx context.Context, id string) (Detail, error)
		QuerySubjects(ctx context.Context, schoolID string) ([]Subject, error)
		UpdateSubject(ctx context.Context, sub Subject) (Subject, error)
		DeleteSubject(ctx context.Context, id, schoolID string) error
	}

	Service struct {
		repo      Repository
		groupRepo group.Repository
		fieldRepo field.Repository
	}
)

func NewService(repo Repository, groupRepo group.Repository, fieldRepo field.Repository) *Service {
	return &Service{repo: repo, groupRepo: groupRepo, fieldRepo: fieldRepo}
}

// checkRelations: duplicate name first, then the Group (joined with its
// coordinator) and its ownership/coordination preconditions, then the Field.
func (svc *Service) checkRelations(ctx context.Context, ns NewSubject, excludedIDs ...string) error {
	var (
		grp group.Detail
		fld field.Field
	)
	return core.RunRelationChain(
		func() error {
			if err := svc.repo.CheckNameUniqueness(ctx, ns.SchoolID, ns.Name, excludedIDs...); err != nil {
				if errors.Cause(err) == ErrNameExists {
					return core.NewConflictError(err.Error())
				}
				return err
			}
			return nil
		},
		func() (err error) {
			if grp, err = svc.groupRepo.GetGroupDetail(ctx, ns.GroupID); err != nil {
				if errors.Cause(err) == group.ErrNotFound {
					return core.NewNotFoundError("group does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(grp.SchoolID, ns.SchoolID, "group")()
		},
		func() error {
			return core.CheckEqual(grp.CoordinatorID, ns.CoordinatorID, "group is not assigned to this coordinator")()
		},
		func() error {
			return user.CheckCoordinator(grp.Coordinator)()
		},
		func() (err error) {
			if fld, err = svc.fieldRepo.GetField(ctx, ns.FieldID); err != nil {
				if errors.Cause(err) == field.ErrNotFound {
					return core.NewNotFoundError("field does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(fld.SchoolID, ns.SchoolID, "field")()
		},
	)
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	if err := svc.checkRelations(ctx, ns); err != nil {
		return Subject{}, err
	}

	now := time.Now().UTC()
	sub := Subject{
		SchoolID:      ns.SchoolID,
		CoordinatorID: ns.CoordinatorID,
		GroupID:       ns.GroupID,
		FieldID:       ns.FieldID,
		Name:          ns.Name,
		ClassUnits:    ns.ClassUnits,
		Frequency:     ns.Frequency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	sub, err := svc.repo.CreateSubject(ctx, sub)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Subject{}, core.NewBadRequestError("Subject not created!")
		}
		return Subject{}, err
	}
	return sub, nil
}

func (svc *Service) QueryBySchool(ctx context.Context, schoolID string) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx, schoolID)
}

func (svc *Service) GetByID(ctx context.Context, id, schoolID string) (Subject, error) {
	sub, err := svc.repo.GetSubject(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	if sub.SchoolID != schoolID {
		return Subject{}, ErrNotFound
	}
	return sub, nil
}

// Update re-evaluates the relation chain against the new proposed references.
func (svc *Service) Update(ctx context.Context, id string, us UpdateSubject) (Subject, error) {
	if err := svc.checkRelations(ctx, NewSubject(us), id); err != nil {
		return Subject{}, err
	}

	sub := Subject{
		ID:            id,
		SchoolID:      us.SchoolID,
		CoordinatorID: us.CoordinatorID,
		GroupID:       us.GroupID,
		FieldID:       us.FieldID,
		Name:          us.Name,
		ClassUnits:    us.ClassUnits,
		Frequency:     us.Frequency,
		UpdatedAt:     time.Now().UTC(),
	}
	sub, err := svc.repo.UpdateSubject(ctx, sub)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Subject{}, core.NewNotFoundError("Subject not updated")
		}
		return Subject{}, err
	}
	return sub, nil
}

func (svc *Service) Delete(ctx context.Context, id, schoolID string) error {
	if err := svc.repo.DeleteSubject(ctx, id, schoolID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewNotFoundError("Subject not deleted")
		}
		return err
	}
	return nil
}
