package field

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/school"
)

var (
	// errors
	ErrNotFound   = errors.New("field not found")
	ErrNameExists = errors.New("a field with this name already exists")
)

type (
	Repository interface {
		// CheckNameUniqueness does a case-insensitive match on Field.Name scoped
		// to the school; excludedIDs allows an update to keep its own name.
		CheckNameUniqueness(ctx context.Context, schoolID, name string, excludedIDs ...string) error
		CreateField(ctx context.Context, fld Field) (Field, error)
		GetField(ctx context.Context, id string) (Field, error)
		QueryFields(ctx context.Context, schoolID string) ([]Field, error)
		UpdateField(ctx context.Context, fld Field) (Field, error)
		DeleteField(ctx context.Context, id, schoolID string) error
	}

	Service struct {
		repo       Repository
		schoolRepo school.Repository
	}
)

func NewService(repo Repository, schoolRepo school.Repository) *Service {
	return &Service{repo: repo, schoolRepo: schoolRepo}
}

func (svc *Service) checkRelations(ctx context.Context, schoolID, name string, excludedIDs ...string) error {
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
		func() error {
			if _, err := svc.schoolRepo.GetSchool(ctx, schoolID); err != nil {
				if errors.Cause(err) == school.ErrNotFound {
					return core.NewNotFoundError("school does not exist")
				}
				return err
			}
			return nil
		},
	)
}

func (svc *Service) Create(ctx context.Context, nf NewField) (Field, error) {
	if err := svc.checkRelations(ctx, nf.SchoolID, nf.Name); err != nil {
		return Field{}, err
	}

	now := time.Now().UTC()
	fld := Field{
		SchoolID:  nf.SchoolID,
		Name:      nf.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fld, err := svc.repo.CreateField(ctx, fld)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Field{}, core.NewBadRequestError("Field not created!")
		}
		return Field{}, err
	}
	return fld, nil
}

func (svc *Service) QueryBySchool(ctx context.Context, schoolID string) ([]Field, error) {
	return svc.repo.QueryFields(ctx, schoolID)
}

func (svc *Service) GetByID(ctx context.Context, id, schoolID string) (Field, error) {
	fld, err := svc.repo.GetField(ctx, id)
	if err != nil {
		return Field{}, err
	}
	if fld.SchoolID != schoolID {
		return Field{}, ErrNotFound
	}
	return fld, nil
}

func (svc *Service) Update(ctx context.Context, id string, uf UpdateField) (Field, error) {
	if err := svc.checkRelations(ctx, uf.SchoolID, uf.Name, id); err != nil {
		return Field{}, err
	}

	fld := Field{
		ID:        id,
		SchoolID:  uf.SchoolID,
		Name:      uf.Name,
		UpdatedAt: time.Now().UTC(),
	}
	fld, err := svc.repo.UpdateField(ctx, fld)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Field{}, core.NewNotFoundError("Field not updated")
		}
		return Field{}, err
	}
	return fld, nil
}

func (svc *Service) Delete(ctx context.Context, id, schoolID string) error {
	if err := svc.repo.DeleteField(ctx, id, schoolID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewNotFoundError("Field not deleted")
		}
		return err
	}
	return nil
}
