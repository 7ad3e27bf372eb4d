package group_test

import (
	"context"
	"testing"

	"github.com/trezcool/ratiba/core/group"
	"github.com/trezcool/ratiba/core/user"
	"github.com/trezcool/ratiba/tests"
)

func setup() (*testutil.FakeDB, *group.Service) {
	db := testutil.NewFakeDB()
	svc := group.NewService(
		testutil.NewGroupRepository(db),
		testutil.NewLevelRepository(db),
		testutil.NewSchoolRepository(db),
		testutil.NewUserRepository(db),
	)
	return db, svc
}

func Test_Service_Create(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	schoolRepo := testutil.NewSchoolRepository(db)
	userRepo := testutil.NewUserRepository(db)

	sch := testutil.CreateSchool(t, schoolRepo, "Lycee Mobutu", 30)
	other := testutil.CreateSchool(t, schoolRepo, "College Boboto", 25)
	sched := testutil.CreateSchedule(t, testutil.NewScheduleRepository(db), sch.ID, "Morning shift", 480)
	lvl := testutil.CreateLevel(t, testutil.NewLevelRepository(db), sch.ID, sched.ID, "Terminale")

	coord := testutil.CreateUser(t, userRepo, sch.ID, "King", "Kasongo", "king@test.cd", "", user.RoleCoordinator, user.StatusActive, false)
	otherCoord := testutil.CreateUser(t, userRepo, other.ID, "Alien", "Kanku", "alien@test.cd", "", user.RoleCoordinator, user.StatusActive, false)
	headmaster := testutil.CreateUser(t, userRepo, sch.ID, "Boss", "Ilunga", "boss@test.cd", "", user.RoleHeadmaster, user.StatusActive, false)
	sleeper := testutil.CreateUser(t, userRepo, sch.ID, "Sleepy", "Kabongo", "sleepy@test.cd", "", user.RoleCoordinator, user.StatusSuspended, false)

	ng := func(levelID, coordID, name string, numStudents int) group.NewGroup {
		return group.NewGroup{
			SchoolID:       sch.ID,
			LevelID:        levelID,
			CoordinatorID:  coordID,
			Name:           name,
			NumberStudents: numStudents,
		}
	}

	t.Run("level does not exist", func(t *testing.T) {
		_, err := svc.Create(ctx, ng("lol", coord.ID, "T-A", 25))
		testutil.AssertNotFound(t, err, "level does not exist")
	})

	t.Run("level in another school", func(t *testing.T) {
		otherLvl := testutil.CreateLevel(t, testutil.NewLevelRepository(db), other.ID, sched.ID, "Terminale")
		_, err := svc.Create(ctx, ng(otherLvl.ID, coord.ID, "T-A", 25))
		testutil.AssertBadRequest(t, err, "level belongs to a different school")
	})

	t.Run("too many students", func(t *testing.T) {
		_, err := svc.Create(ctx, ng(lvl.ID, coord.ID, "T-A", 31))
		testutil.AssertBadRequest(t, err, "number of students exceeds the school limit")
	})

	t.Run("coordinator does not exist", func(t *testing.T) {
		_, err := svc.Create(ctx, ng(lvl.ID, "lol", "T-A", 25))
		testutil.AssertNotFound(t, err, "coordinator does not exist")
	})

	t.Run("coordinator in another school", func(t *testing.T) {
		_, err := svc.Create(ctx, ng(lvl.ID, otherCoord.ID, "T-A", 25))
		testutil.AssertBadRequest(t, err, "coordinator belongs to a different school")
	})

	t.Run("not a coordinator", func(t *testing.T) {
		_, err := svc.Create(ctx, ng(lvl.ID, headmaster.ID, "T-A", 25))
		testutil.AssertBadRequest(t, err, "user is not a coordinator")
	})

	t.Run("inactive coordinator", func(t *testing.T) {
		_, err := svc.Create(ctx, ng(lvl.ID, sleeper.ID, "T-A", 25))
		testutil.AssertBadRequest(t, err, "coordinator account is not active")
	})

	t.Run("ok, at the limit", func(t *testing.T) {
		if _, err := svc.Create(ctx, ng(lvl.ID, coord.ID, "T-A", 30)); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	})

	t.Run("duplicate name is case-insensitive", func(t *testing.T) {
		_, err := svc.Create(ctx, ng(lvl.ID, coord.ID, "t-a", 25))
		testutil.AssertConflict(t, err, "a group with this name already exists")
	})
}

func Test_Service_Update(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	sched := testutil.CreateSchedule(t, testutil.NewScheduleRepository(db), sch.ID, "Morning shift", 480)
	lvl := testutil.CreateLevel(t, testutil.NewLevelRepository(db), sch.ID, sched.ID, "Terminale")
	coord := testutil.CreateUser(
		t, testutil.NewUserRepository(db),
		sch.ID, "King", "Kasongo", "king@test.cd", "", user.RoleCoordinator, user.StatusActive, false,
	)
	grp := testutil.CreateGroup(t, testutil.NewGroupRepository(db), sch.ID, lvl.ID, coord.ID, "T-A", 25)

	ug := group.UpdateGroup{SchoolID: sch.ID, LevelID: lvl.ID, CoordinatorID: coord.ID, Name: "T-a", NumberStudents: 28}

	t.Run("keeps its own name", func(t *testing.T) {
		if _, err := svc.Update(ctx, grp.ID, ug); err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := svc.Update(ctx, "lol", ug)
		testutil.AssertNotFound(t, err, "Group not updated")
	})
}

func Test_Service_Delete(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	sched := testutil.CreateSchedule(t, testutil.NewScheduleRepository(db), sch.ID, "Morning shift", 480)
	lvl := testutil.CreateLevel(t, testutil.NewLevelRepository(db), sch.ID, sched.ID, "Terminale")
	coord := testutil.CreateUser(
		t, testutil.NewUserRepository(db),
		sch.ID, "King", "Kasongo", "king@test.cd", "", user.RoleCoordinator, user.StatusActive, false,
	)
	grp := testutil.CreateGroup(t, testutil.NewGroupRepository(db), sch.ID, lvl.ID, coord.ID, "T-A", 25)

	err := svc.Delete(ctx, grp.ID, "lol")
	testutil.AssertNotFound(t, err, "Group not deleted")

	if err := svc.Delete(ctx, grp.ID, sch.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
}
