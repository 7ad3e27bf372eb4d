package main

import (
	"context"
	"time"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/school"
)

func (cli *commandLine) addSchool(name string, maxStudents int) error {
	now := time.Now().UTC()
	sch, err := cli.schoolRepo.CreateSchool(context.Background(), school.School{
		Name:                core.CleanString(name),
		GroupMaxNumStudents: maxStudents,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	if err != nil {
		return err
	}
	logger.Printf("school %q created: %s", sch.Name, sch.ID)
	return nil
}
