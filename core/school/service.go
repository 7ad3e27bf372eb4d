package school

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

var ErrNotFound = errors.New("school not found")

type (
	Repository interface {
		CreateSchool(ctx context.Context, sch School) (School, error)
		GetSchool(ctx context.Context, id string) (School, error)
		QueryAllSchools(ctx context.Context) ([]School, error)
		UpdateSchool(ctx context.Context, sch School) (School, error)
		DeleteSchool(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewSchool) (School, error) {
	now := time.Now().UTC()
	sch := School{
		Name:                ns.Name,
		GroupMaxNumStudents: ns.GroupMaxNumStudents,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	sch, err := svc.repo.CreateSchool(ctx, sch)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return School{}, core.NewBadRequestError("School not created!")
		}
		return School{}, err
	}
	return sch, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]School, error) {
	return svc.repo.QueryAllSchools(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (School, error) {
	return svc.repo.GetSchool(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSchool) (School, error) {
	sch := School{
		ID:                  id,
		Name:                us.Name,
		GroupMaxNumStudents: us.GroupMaxNumStudents,
		UpdatedAt:           time.Now().UTC(),
	}
	sch, err := svc.repo.UpdateSchool(ctx, sch)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return School{}, core.NewNotFoundError("School not updated")
		}
		return School{}, err
	}
	return sch, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.repo.DeleteSchool(ctx, id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewNotFoundError("School not deleted")
		}
		return err
	}
	return nil
}
