package subject_test

import (
	"context"
	"testing"

	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/user"
	"github.com/trezcool/ratiba/tests"
)

func setup() (*testutil.FakeDB, *subject.Service) {
	db := testutil.NewFakeDB()
	svc := subject.NewService(
		testutil.NewSubjectRepository(db),
		testutil.NewGroupRepository(db),
		testutil.NewFieldRepository(db),
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
	sleeper := testutil.CreateUser(t, userRepo, sch.ID, "Sleepy", "Kabongo", "sleepy@test.cd", "", user.RoleCoordinator, user.StatusInactive, false)

	grp := testutil.CreateGroup(t, testutil.NewGroupRepository(db), sch.ID, lvl.ID, coord.ID, "T-A", 25)
	sleepyGrp := testutil.CreateGroup(t, testutil.NewGroupRepository(db), sch.ID, lvl.ID, sleeper.ID, "T-B", 25)
	otherGrp := testutil.CreateGroup(t, testutil.NewGroupRepository(db), other.ID, lvl.ID, coord.ID, "T-C", 25)

	fld := testutil.CreateField(t, testutil.NewFieldRepository(db), sch.ID, "Math")
	otherFld := testutil.CreateField(t, testutil.NewFieldRepository(db), other.ID, "Math")

	ns := func(groupID, coordID, fieldID, name string) subject.NewSubject {
		return subject.NewSubject{
			SchoolID:      sch.ID,
			CoordinatorID: coordID,
			GroupID:       groupID,
			FieldID:       fieldID,
			Name:          name,
			ClassUnits:    2,
			Frequency:     3,
		}
	}

	t.Run("group does not exist", func(t *testing.T) {
		_, err := svc.Create(ctx, ns("lol", coord.ID, fld.ID, "Algebra"))
		testutil.AssertNotFound(t, err, "group does not exist")
	})

	t.Run("group in another school", func(t *testing.T) {
		_, err := svc.Create(ctx, ns(otherGrp.ID, coord.ID, fld.ID, "Algebra"))
		testutil.AssertBadRequest(t, err, "group belongs to a different school")
	})

	t.Run("group owned by another coordinator", func(t *testing.T) {
		_, err := svc.Create(ctx, ns(sleepyGrp.ID, coord.ID, fld.ID, "Algebra"))
		testutil.AssertBadRequest(t, err, "group is not assigned to this coordinator")
	})

	t.Run("inactive coordinator", func(t *testing.T) {
		_, err := svc.Create(ctx, ns(sleepyGrp.ID, sleeper.ID, fld.ID, "Algebra"))
		testutil.AssertBadRequest(t, err, "coordinator account is not active")
	})

	t.Run("field does not exist", func(t *testing.T) {
		_, err := svc.Create(ctx, ns(grp.ID, coord.ID, "lol", "Algebra"))
		testutil.AssertNotFound(t, err, "field does not exist")
	})

	t.Run("field in another school", func(t *testing.T) {
		_, err := svc.Create(ctx, ns(grp.ID, coord.ID, otherFld.ID, "Algebra"))
		testutil.AssertBadRequest(t, err, "field belongs to a different school")
	})

	t.Run("ok", func(t *testing.T) {
		if _, err := svc.Create(ctx, ns(grp.ID, coord.ID, fld.ID, "Algebra")); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	})

	t.Run("duplicate name is case-insensitive", func(t *testing.T) {
		_, err := svc.Create(ctx, ns(grp.ID, coord.ID, fld.ID, "ALGEBRA"))
		testutil.AssertConflict(t, err, "a subject with this name already exists")
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
	fld := testutil.CreateField(t, testutil.NewFieldRepository(db), sch.ID, "Math")
	sub := testutil.CreateSubject(t, testutil.NewSubjectRepository(db), sch.ID, coord.ID, grp.ID, fld.ID, "Algebra")

	us := subject.UpdateSubject{
		SchoolID:      sch.ID,
		CoordinatorID: coord.ID,
		GroupID:       grp.ID,
		FieldID:       fld.ID,
		Name:          "algebra",
		ClassUnits:    2,
		Frequency:     4,
	}

	t.Run("keeps its own name", func(t *testing.T) {
		if _, err := svc.Update(ctx, sub.ID, us); err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := svc.Update(ctx, "lol", us)
		testutil.AssertNotFound(t, err, "Subject not updated")
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
	fld := testutil.CreateField(t, testutil.NewFieldRepository(db), sch.ID, "Math")
	sub := testutil.CreateSubject(t, testutil.NewSubjectRepository(db), sch.ID, coord.ID, grp.ID, fld.ID, "Algebra")

	err := svc.Delete(ctx, sub.ID, "lol")
	testutil.AssertNotFound(t, err, "Subject not deleted")

	if err := svc.Delete(ctx, sub.ID, sch.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
}
