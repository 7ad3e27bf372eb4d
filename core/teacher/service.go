package teacher

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/field"
	"github.com/trezcool/ratiba/core/school"
	"github.com/trezcool/ratiba/core/user"
)

var (
	// errors
	ErrNotFound       = errors.New("teacher not found")
	ErrFieldNotFound  = errors.New("teacher field not found")
	ErrAlreadyTeacher = errors.New("this user is already a teacher")
	ErrFieldAssigned  = errors.New("this field is already assigned to the teacher")
)

type (
	Repository interface {
		// CheckUserUniqueness reports ErrAlreadyTeacher when the user already
		// backs a Teacher row; excludedIDs allows an update to keep its own user.
		CheckUserUniqueness(ctx context.Context, userID string, excludedIDs ...string) error
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		GetTeacher(ctx context.Context, id string) (Teacher, error)
		QueryTeachers(ctx context.Context, schoolID string) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id, schoolID string) error
	}

	FieldRepository interface {
		CheckFieldUniqueness(ctx context.Context, teacherID, fieldID string) error
		CreateTeacherField(ctx context.Context, tf TeacherField) (TeacherField, error)
		GetTeacherField(ctx context.Context, id string) (TeacherField, error)
		// GetTeacherFieldDetail joins the Teacher into the result.
		GetTeacherFieldDetail(ctx context.Context, id string) (FieldDetail, error)
		QueryTeacherFields(ctx context.Context, teacherID string) ([]TeacherField, error)
		DeleteTeacherField(ctx context.Context, teacherID, fieldID, schoolID string) error
	}

	Service struct {
		repo       Repository
		tfRepo     FieldRepository
		userRepo   user.Repository
		schoolRepo school.Repository
		fieldRepo  field.Repository
	}
)

func NewService(repo Repository, tfRepo FieldRepository, userRepo user.Repository, schoolRepo school.Repository, fieldRepo field.Repository) *Service {
	return &Service{repo: repo, tfRepo: tfRepo, userRepo: userRepo, schoolRepo: schoolRepo, fieldRepo: fieldRepo}
}

// checkRelations: the underlying User (active, with a teaching function),
// the School, the coordinator User, then the one-teacher-per-user rule.
func (svc *Service) checkRelations(ctx context.Context, schoolID, userID, coordinatorID string, excludedIDs ...string) error {
	var (
		usr   user.User
		coord user.User
	)
	return core.RunRelationChain(
		func() (err error) {
			if usr, err = svc.userRepo.GetUser(ctx, userID); err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return core.NewNotFoundError("user does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(usr.SchoolID, schoolID, "user")()
		},
		func() error {
			if !usr.IsActive() {
				return core.NewBadRequestError("user account is not active")
			}
			return nil
		},
		func() error {
			if !usr.HasTeachingFunc {
				return core.NewBadRequestError("user has no teaching function")
			}
			return nil
		},
		func() error {
			if _, err := svc.schoolRepo.GetSchool(ctx, schoolID); err != nil {
				if errors.Cause(err) == school.ErrNotFound {
					return core.NewNotFoundError("school does not exist")
				}
				return err
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
		func() error {
			if err := svc.repo.CheckUserUniqueness(ctx, userID, excludedIDs...); err != nil {
				if errors.Cause(err) == ErrAlreadyTeacher {
					return core.NewConflictError(err.Error())
				}
				return err
			}
			return nil
		},
	)
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := svc.checkRelations(ctx, nt.SchoolID, nt.UserID, nt.CoordinatorID); err != nil {
		return Teacher{}, err
	}

	now := time.Now().UTC()
	tch := Teacher{
		SchoolID:        nt.SchoolID,
		UserID:          nt.UserID,
		CoordinatorID:   nt.CoordinatorID,
		ContractType:    nt.ContractType,
		AssignableHours: nt.AssignableHours,
		Monday:          nt.Monday,
		Tuesday:         nt.Tuesday,
		Wednesday:       nt.Wednesday,
		Thursday:        nt.Thursday,
		Friday:          nt.Friday,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	tch, err := svc.repo.CreateTeacher(ctx, tch)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Teacher{}, core.NewBadRequestError("Teacher not created!")
		}
		return Teacher{}, err
	}
	return tch, nil
}

func (svc *Service) QueryBySchool(ctx context.Context, schoolID string) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx, schoolID)
}

func (svc *Service) GetByID(ctx context.Context, id, schoolID string) (Teacher, error) {
	tch, err := svc.repo.GetTeacher(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	if tch.SchoolID != schoolID {
		return Teacher{}, ErrNotFound
	}
	return tch, nil
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	if err := svc.checkRelations(ctx, ut.SchoolID, ut.UserID, ut.CoordinatorID, id); err != nil {
		return Teacher{}, err
	}

	tch := Teacher{
		ID:              id,
		SchoolID:        ut.SchoolID,
		UserID:          ut.UserID,
		CoordinatorID:   ut.CoordinatorID,
		ContractType:    ut.ContractType,
		AssignableHours: ut.AssignableHours,
		AssignedHours:   ut.AssignedHours,
		Monday:          ut.Monday,
		Tuesday:         ut.Tuesday,
		Wednesday:       ut.Wednesday,
		Thursday:        ut.Thursday,
		Friday:          ut.Friday,
		UpdatedAt:       time.Now().UTC(),
	}
	tch, err := svc.repo.UpdateTeacher(ctx, tch)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Teacher{}, core.NewNotFoundError("Teacher not updated")
		}
		return Teacher{}, err
	}
	return tch, nil
}

func (svc *Service) Delete(ctx context.Context, id, schoolID string) error {
	if err := svc.repo.DeleteTeacher(ctx, id, schoolID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewNotFoundError("Teacher not deleted")
		}
		return err
	}
	return nil
}

// Field assignments

// checkFieldRelations: the Teacher and Field must exist in the school, and
// the (teacher, field) pair must be new.
func (svc *Service) checkFieldRelations(ctx context.Context, schoolID, teacherID, fieldID string) error {
	var (
		tch Teacher
		fld field.Field
	)
	return core.RunRelationChain(
		func() (err error) {
			if tch, err = svc.repo.GetTeacher(ctx, teacherID); err != nil {
				if errors.Cause(err) == ErrNotFound {
					return core.NewNotFoundError("teacher does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(tch.SchoolID, schoolID, "teacher")()
		},
		func() (err error) {
			if fld, err = svc.fieldRepo.GetField(ctx, fieldID); err != nil {
				if errors.Cause(err) == field.ErrNotFound {
					return core.NewNotFoundError("field does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			return core.CheckSameSchool(fld.SchoolID, schoolID, "field")()
		},
		func() error {
			if err := svc.tfRepo.CheckFieldUniqueness(ctx, teacherID, fieldID); err != nil {
				if errors.Cause(err) == ErrFieldAssigned {
					return core.NewConflictError(err.Error())
				}
				return err
			}
			return nil
		},
	)
}

func (svc *Service) AssignField(ctx context.Context, teacherID string, ntf NewTeacherField) (TeacherField, error) {
	if err := svc.checkFieldRelations(ctx, ntf.SchoolID, teacherID, ntf.FieldID); err != nil {
		return TeacherField{}, err
	}

	now := time.Now().UTC()
	tf := TeacherField{
		SchoolID:  ntf.SchoolID,
		TeacherID: teacherID,
		FieldID:   ntf.FieldID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tf, err := svc.tfRepo.CreateTeacherField(ctx, tf)
	if err != nil {
		if errors.Cause(err) == ErrFieldNotFound {
			return TeacherField{}, core.NewBadRequestError("TeacherField not created!")
		}
		return TeacherField{}, err
	}
	return tf, nil
}

func (svc *Service) QueryFields(ctx context.Context, teacherID, schoolID string) ([]TeacherField, error) {
	tch, err := svc.repo.GetTeacher(ctx, teacherID)
	if err != nil || tch.SchoolID != schoolID {
		return nil, ErrNotFound
	}
	return svc.tfRepo.QueryTeacherFields(ctx, teacherID)
}

func (svc *Service) UnassignField(ctx context.Context, teacherID, fieldID, schoolID string) error {
	if err := svc.tfRepo.DeleteTeacherField(ctx, teacherID, fieldID, schoolID); err != nil {
		if errors.Cause(err) == ErrFieldNotFound {
			return core.NewNotFoundError("TeacherField not deleted")
		}
		return err
	}
	return nil
}
