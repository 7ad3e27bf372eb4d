package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(schoolID, email, first, last, role, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			SchoolID:        schoolID,
			FirstName:       core.CleanString(first),
			LastName:        core.CleanString(last),
			Email:           email,
			Role:            role,
			Status:          user.StatusActive,
			HasTeachingFunc: role == user.RoleTeacher,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		if usr, err = cli.usrRepo.CreateUser(ctx, usr); err != nil {
			return err
		}
		logger.Printf("user %q created: %s", usr.Email, usr.ID)
		return nil
	}

	usr.FirstName = core.CleanString(first)
	usr.LastName = core.CleanString(last)
	usr.Role = role
	usr.Status = user.StatusActive
	usr.UpdatedAt = time.Now().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if usr, err = cli.usrRepo.UpdateUser(ctx, usr); err != nil {
		return err
	}
	logger.Printf("user %q updated: %s", usr.Email, usr.ID)
	return nil
}
