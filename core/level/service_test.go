package level_test

import (
	"context"
	"testing"

	"github.com/trezcool/ratiba/core/level"
	"github.com/trezcool/ratiba/tests"
)

func setup() (*testutil.FakeDB, *level.Service) {
	db := testutil.NewFakeDB()
	svc := level.NewService(testutil.NewLevelRepository(db), testutil.NewScheduleRepository(db))
	return db, svc
}

func Test_Service_Create(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	schoolRepo := testutil.NewSchoolRepository(db)
	sch := testutil.CreateSchool(t, schoolRepo, "Lycee Mobutu", 30)
	other := testutil.CreateSchool(t, schoolRepo, "College Boboto", 25)
	sched := testutil.CreateSchedule(t, testutil.NewScheduleRepository(db), sch.ID, "Morning shift", 480)

	t.Run("schedule does not exist", func(t *testing.T) {
		_, err := svc.Create(ctx, level.NewLevel{SchoolID: sch.ID, ScheduleID: "lol", Name: "Terminale"})
		testutil.AssertNotFound(t, err, "schedule does not exist")
	})

	t.Run("schedule in another school", func(t *testing.T) {
		_, err := svc.Create(ctx, level.NewLevel{SchoolID: other.ID, ScheduleID: sched.ID, Name: "Terminale"})
		testutil.AssertBadRequest(t, err, "schedule belongs to a different school")
	})

	t.Run("ok", func(t *testing.T) {
		if _, err := svc.Create(ctx, level.NewLevel{SchoolID: sch.ID, ScheduleID: sched.ID, Name: "Terminale"}); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	})

	t.Run("duplicate name is case-insensitive", func(t *testing.T) {
		_, err := svc.Create(ctx, level.NewLevel{SchoolID: sch.ID, ScheduleID: sched.ID, Name: "TERMINALE"})
		testutil.AssertConflict(t, err, "a level with this name already exists")
	})
}

func Test_Service_Update(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	sched := testutil.CreateSchedule(t, testutil.NewScheduleRepository(db), sch.ID, "Morning shift", 480)
	lvl := testutil.CreateLevel(t, testutil.NewLevelRepository(db), sch.ID, sched.ID, "Terminale")

	t.Run("keeps its own name", func(t *testing.T) {
		if _, err := svc.Update(ctx, lvl.ID, level.UpdateLevel{SchoolID: sch.ID, ScheduleID: sched.ID, Name: "terminale"}); err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := svc.Update(ctx, "lol", level.UpdateLevel{SchoolID: sch.ID, ScheduleID: sched.ID, Name: "Premiere"})
		testutil.AssertNotFound(t, err, "Level not updated")
	})
}

func Test_Service_Delete(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	sched := testutil.CreateSchedule(t, testutil.NewScheduleRepository(db), sch.ID, "Morning shift", 480)
	lvl := testutil.CreateLevel(t, testutil.NewLevelRepository(db), sch.ID, sched.ID, "Terminale")

	err := svc.Delete(ctx, lvl.ID, "lol")
	testutil.AssertNotFound(t, err, "Level not deleted")

	if err := svc.Delete(ctx, lvl.ID, sch.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
}
