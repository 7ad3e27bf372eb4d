package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/school"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, schoolID, email string, excludedIDs ...string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUser(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		QueryUsers(ctx context.Context, schoolID string) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		SetLastLogin(ctx context.Context, usr User) (User, error)
		DeleteUser(ctx context.Context, id, schoolID string) error
	}

	Service struct {
		repo       Repository
		schoolRepo school.Repository
		mailSvc    core.EmailService
	}
)

func NewService(repo Repository, schoolRepo school.Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, schoolRepo: schoolRepo, mailSvc: mailSvc}
}

// checkRelations is the relation chain shared by Create and Update: the
// owning school must exist and the email must be free within it.
func (svc *Service) checkRelations(ctx context.Context, schoolID, email string, excludedIDs ...string) error {
	return core.RunRelationChain(
		func() error {
			if _, err := svc.schoolRepo.GetSchool(ctx, schoolID); err != nil {
				if errors.Cause(err) == school.ErrNotFound {
					return core.NewNotFoundError("school does not exist")
				}
				return err
			}
			return nil
		},
		func() error {
			if err := svc.repo.CheckEmailUniqueness(ctx, schoolID, email, excludedIDs...); err != nil {
				if errors.Cause(err) == ErrEmailExists {
					return core.NewConflictError(err.Error())
				}
				return err
			}
			return nil
		},
	)
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.checkRelations(ctx, nu.SchoolID, nu.Email); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		SchoolID:        nu.SchoolID,
		FirstName:       nu.FirstName,
		LastName:        nu.LastName,
		Email:           nu.Email,
		Role:            nu.Role,
		Status:          nu.Status,
		HasTeachingFunc: nu.HasTeachingFunc,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, core.NewBadRequestError("User not created!")
		}
		return User{}, err
	}

	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *Service) QueryBySchool(ctx context.Context, schoolID string) ([]User, error) {
	return svc.repo.QueryUsers(ctx, schoolID)
}

func (svc *Service) GetByID(ctx context.Context, id, schoolID string) (User, error) {
	usr, err := svc.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	if usr.SchoolID != schoolID {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// Update re-evaluates the relation chain against the new proposed references,
// not the stored ones.
func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	if err := svc.checkRelations(ctx, uu.SchoolID, uu.Email, id); err != nil {
		return User{}, err
	}

	usr := User{
		ID:              id,
		SchoolID:        uu.SchoolID,
		FirstName:       uu.FirstName,
		LastName:        uu.LastName,
		Email:           uu.Email,
		Role:            uu.Role,
		Status:          uu.Status,
		HasTeachingFunc: uu.HasTeachingFunc,
		UpdatedAt:       time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}

	usr, err := svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, core.NewNotFoundError("User not updated")
		}
		return User{}, err
	}
	return usr, nil
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.SetLastLogin(ctx, usr)
}

func (svc *Service) Delete(ctx context.Context, id, schoolID string) error {
	if err := svc.repo.DeleteUser(ctx, id, schoolID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewNotFoundError("User not deleted")
		}
		return err
	}
	return nil
}

func (svc *Service) sendWelcomeMail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: usr.FullName(), Address: usr.Email}},
		Subject: fmt.Sprintf("Welcome to %s", core.Conf.AppName),
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nAn account has been created for you. Log in at %s with your email address.",
			usr.FirstName, core.Conf.FrontendBaseURL,
		),
	}
	svc.mailSvc.SendMessages(msg)
}
