package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/class"
	"github.com/trezcool/ratiba/core/field"
	"github.com/trezcool/ratiba/core/group"
	"github.com/trezcool/ratiba/core/level"
	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/school"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
)

func CreateSchool(t *testing.T, repo school.Repository, name string, maxStudents int) school.School {
	t.Helper()
	now := time.Now().UTC()
	sch, err := repo.CreateSchool(context.Background(), school.School{
		Name:                name,
		GroupMaxNumStudents: maxStudents,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	if err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	return sch
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	schoolID, first, last, email, pwd, role, status string,
	hasTeachingFunc bool,
) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		SchoolID:        schoolID,
		FirstName:       first,
		LastName:        last,
		Email:           email,
		Role:            role,
		Status:          status,
		HasTeachingFunc: hasTeachingFunc,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateField(t *testing.T, repo field.Repository, schoolID, name string) field.Field {
	t.Helper()
	now := time.Now().UTC()
	fld, err := repo.CreateField(context.Background(), field.Field{
		SchoolID:  schoolID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateField() failed: %v", err)
	}
	return fld
}

func CreateSchedule(t *testing.T, repo schedule.Repository, schoolID, name string, dayStart int) schedule.Schedule {
	t.Helper()
	now := time.Now().UTC()
	sch, err := repo.CreateSchedule(context.Background(), schedule.Schedule{
		SchoolID:           schoolID,
		Name:               name,
		DayStart:           dayStart,
		ShiftNumberMinutes: 480,
		SessionUnitMinutes: 60,
		Monday:             true,
		Tuesday:            true,
		Wednesday:          true,
		Thursday:           true,
		Friday:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}
	return sch
}

func CreateBreak(t *testing.T, repo schedule.BreakRepository, schoolID, scheduleID string, start, minutes int) schedule.Break {
	t.Helper()
	now := time.Now().UTC()
	brk, err := repo.CreateBreak(context.Background(), schedule.Break{
		SchoolID:      schoolID,
		ScheduleID:    scheduleID,
		BreakStart:    start,
		NumberMinutes: minutes,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateBreak() failed: %v", err)
	}
	return brk
}

func CreateLevel(t *testing.T, repo level.Repository, schoolID, scheduleID, name string) level.Level {
	t.Helper()
	now := time.Now().UTC()
	lvl, err := repo.CreateLevel(context.Background(), level.Level{
		SchoolID:   schoolID,
		ScheduleID: scheduleID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateLevel() failed: %v", err)
	}
	return lvl
}

func CreateGroup(t *testing.T, repo group.Repository, schoolID, levelID, coordinatorID, name string, numStudents int) group.Group {
	t.Helper()
	now := time.Now().UTC()
	grp, err := repo.CreateGroup(context.Background(), group.Group{
		SchoolID:       schoolID,
		LevelID:        levelID,
		CoordinatorID:  coordinatorID,
		Name:           name,
		NumberStudents: numStudents,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("CreateGroup() failed: %v", err)
	}
	return grp
}

func CreateSubject(t *testing.T, repo subject.Repository, schoolID, coordinatorID, groupID, fieldID, name string) subject.Subject {
	t.Helper()
	now := time.Now().UTC()
	sub, err := repo.CreateSubject(context.Background(), subject.Subject{
		SchoolID:      schoolID,
		CoordinatorID: coordinatorID,
		GroupID:       groupID,
		FieldID:       fieldID,
		Name:          name,
		ClassUnits:    2,
		Frequency:     3,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

func CreateTeacher(t *testing.T, repo teacher.Repository, schoolID, userID, coordinatorID string) teacher.Teacher {
	t.Helper()
	now := time.Now().UTC()
	tch, err := repo.CreateTeacher(context.Background(), teacher.Teacher{
		SchoolID:        schoolID,
		UserID:          userID,
		CoordinatorID:   coordinatorID,
		ContractType:    teacher.ContractFullTime,
		AssignableHours: 40,
		Monday:          true,
		Tuesday:         true,
		Wednesday:       true,
		Thursday:        true,
		Friday:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tch
}

func CreateTeacherField(t *testing.T, repo teacher.FieldRepository, schoolID, teacherID, fieldID string) teacher.TeacherField {
	t.Helper()
	now := time.Now().UTC()
	tf, err := repo.CreateTeacherField(context.Background(), teacher.TeacherField{
		SchoolID:  schoolID,
		TeacherID: teacherID,
		FieldID:   fieldID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTeacherField() failed: %v", err)
	}
	return tf
}

func CreateClass(t *testing.T, repo class.Repository, schoolID, coordinatorID, subjectID, teacherFieldID string, startTime int) class.Class {
	t.Helper()
	now := time.Now().UTC()
	cls, err := repo.CreateClass(context.Background(), class.Class{
		SchoolID:            schoolID,
		CoordinatorID:       coordinatorID,
		SubjectID:           subjectID,
		TeacherFieldID:      teacherFieldID,
		StartTime:           startTime,
		GroupScheduleSlot:   1,
		TeacherScheduleSlot: 1,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

// Error assertions

func AssertBadRequest(t *testing.T, err error, wantMsg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected BadRequestError %q; got nil", wantMsg)
	}
	if _, ok := errors.Cause(err).(*core.BadRequestError); !ok {
		t.Fatalf("expected BadRequestError; got %T: %v", errors.Cause(err), err)
	}
	if err.Error() != wantMsg {
		t.Errorf("error = %q; want %q", err.Error(), wantMsg)
	}
}

func AssertNotFound(t *testing.T, err error, wantMsg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected NotFoundError %q; got nil", wantMsg)
	}
	if _, ok := errors.Cause(err).(*core.NotFoundError); !ok {
		t.Fatalf("expected NotFoundError; got %T: %v", errors.Cause(err), err)
	}
	if err.Error() != wantMsg {
		t.Errorf("error = %q; want %q", err.Error(), wantMsg)
	}
}

func AssertConflict(t *testing.T, err error, wantMsg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected ConflictError %q; got nil", wantMsg)
	}
	if _, ok := errors.Cause(err).(*core.ConflictError); !ok {
		t.Fatalf("expected ConflictError; got %T: %v", errors.Cause(err), err)
	}
	if err.Error() != wantMsg {
		t.Errorf("error = %q; want %q", err.Error(), wantMsg)
	}
}
