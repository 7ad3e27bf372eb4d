package class

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
)

var ErrNotFound = errors.New("class not found")

type (
	Repository interface {
		CreateClass(ctx context.Context, cls Class) (Class, error)
		GetClass(ctx context.Context, id string) (Class, error)
		QueryClasses(ctx context.Context, schoolID string) ([]Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)
		DeleteClass(ctx context.Context, id, schoolID string) error
	}

	Service struct {
		repo        Repository
		subjectRepo subject.Repository
		tfRepo      teacher.FieldRepository
	}
)

func NewService(repo Repository, subjectRepo subject.Repository, tfRepo teacher.FieldRepository) *Service {
	return &Service{repo: repo, subjectRepo: subjectRepo, tfRepo: tfRepo}
}

// checkRelations is the class relation chain, nine steps in a fixed order.
// The Subject side first: it must exist, belong to the request's school, and
// be coordinated by the request's coordinator, who must hold the coordinator
// role and be active. Then the TeacherField side: the assignment must exist
// in the same school, its teacher must report to the same coordinator, and
// its field must be the subject's field.
//
// A missing TeacherField is a BadRequest on create but a NotFound on update;
// both carry the same message. Known wart, kept on purpose.
func (svc *Service) checkRelations(ctx context.Context, nc NewClass, update bool) error {
	var (
		sub subject.Detail
		tf  teacher.FieldDetail
	)
	return core.RunRelationChain(
		func() (err error) {
			if sub, err = svc.subjectRepo.GetSubjectDetail(ctx, nc.SubjectID); err != nil {
				if errors.Cause(err) == subject.ErrNotFound {
					return core.NewNotFoundError("subject does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(sub.SchoolID, nc.SchoolID, "subject")()
		},
		func() error {
			return core.CheckEqual(sub.CoordinatorID, nc.CoordinatorID, "subject is not assigned to this coordinator")()
		},
		func() error {
			return user.CheckCoordinator(sub.Coordinator)()
		},
		func() (err error) {
			if tf, err = svc.tfRepo.GetTeacherFieldDetail(ctx, nc.TeacherFieldID); err != nil {
				if errors.Cause(err) == teacher.ErrFieldNotFound {
					if update {
						return core.NewNotFoundError("teacherField does not exist")
					}
					return core.NewBadRequestError("teacherField does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(tf.SchoolID, nc.SchoolID, "teacherField")()
		},
		func() error {
			return core.CheckEqual(tf.Teacher.CoordinatorID, nc.CoordinatorID, "teacher not assigned to this coordinator")()
		},
		func() error {
			return core.CheckEqual(tf.FieldID, sub.FieldID, "field assigned to teacher is the same in the parent subject")()
		},
	)
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	if err := svc.checkRelations(ctx, nc, false); err != nil {
		return Class{}, err
	}

	now := time.Now().UTC()
	cls := Class{
		SchoolID:            nc.SchoolID,
		CoordinatorID:       nc.CoordinatorID,
		SubjectID:           nc.SubjectID,
		TeacherFieldID:      nc.TeacherFieldID,
		StartTime:           nc.StartTime,
		GroupScheduleSlot:   nc.GroupScheduleSlot,
		TeacherScheduleSlot: nc.TeacherScheduleSlot,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	cls, err := svc.repo.CreateClass(ctx, cls)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Class{}, core.NewBadRequestError("Class not created!")
		}
		return Class{}, err
	}
	return cls, nil
}

func (svc *Service) QueryBySchool(ctx context.Context, schoolID string) ([]Class, error) {
	return svc.repo.QueryClasses(ctx, schoolID)
}

func (svc *Service) GetByID(ctx context.Context, id, schoolID string) (Class, error) {
	cls, err := svc.repo.GetClass(ctx, id)
	if err != nil {
		return Class{}, err
	}
	if cls.SchoolID != schoolID {
		return Class{}, ErrNotFound
	}
	return cls, nil
}

// Update re-evaluates the chain against the new proposed references, not the
// stored ones.
func (svc *Service) Update(ctx context.Context, id string, uc UpdateClass) (Class, error) {
	if err := svc.checkRelations(ctx, NewClass(uc), true); err != nil {
		return Class{}, err
	}

	cls := Class{
		ID:                  id,
		SchoolID:            uc.SchoolID,
		CoordinatorID:       uc.CoordinatorID,
		SubjectID:           uc.SubjectID,
		TeacherFieldID:      uc.TeacherFieldID,
		StartTime:           uc.StartTime,
		GroupScheduleSlot:   uc.GroupScheduleSlot,
		TeacherScheduleSlot: uc.TeacherScheduleSlot,
		UpdatedAt:           time.Now().UTC(),
	}
	cls, err := svc.repo.UpdateClass(ctx, cls)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Class{}, core.NewNotFoundError("Class not updated")
		}
		return Class{}, err
	}
	return cls, nil
}

func (svc *Service) Delete(ctx context.Context, id, schoolID string) error {
	if err := svc.repo.DeleteClass(ctx, id, schoolID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewNotFoundError("Class not deleted")
		}
		return err
	}
	return nil
}
