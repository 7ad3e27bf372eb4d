package teacher_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
	"github.com/trezcool/ratiba/tests"
)

func setup() (*testutil.FakeDB, *teacher.Service) {
	db := testutil.NewFakeDB()
	svc := teacher.NewService(
		testutil.NewTeacherRepository(db),
		testutil.NewTeacherFieldRepository(db),
		testutil.NewUserRepository(db),
		testutil.NewSchoolRepository(db),
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

	usr := testutil.CreateUser(t, userRepo, sch.ID, "Awe", "Mbuyi", "awe@test.cd", "", user.RoleTeacher, user.StatusActive, true)
	alien := testutil.CreateUser(t, userRepo, other.ID, "Alien", "Kanku", "alien@test.cd", "", user.RoleTeacher, user.StatusActive, true)
	sleeper := testutil.CreateUser(t, userRepo, sch.ID, "Sleepy", "Kabongo", "sleepy@test.cd", "", user.RoleTeacher, user.StatusSuspended, true)
	clerk := testutil.CreateUser(t, userRepo, sch.ID, "Clerk", "Ilunga", "clerk@test.cd", "", user.RoleTeacher, user.StatusActive, false)
	coord := testutil.CreateUser(t, userRepo, sch.ID, "King", "Kasongo", "king@test.cd", "", user.RoleCoordinator, user.StatusActive, false)
	otherCoord := testutil.CreateUser(t, userRepo, other.ID, "Far", "Tshims", "far@test.cd", "", user.RoleCoordinator, user.StatusActive, false)
	headmaster := testutil.CreateUser(t, userRepo, sch.ID, "Boss", "Ngalula", "boss@test.cd", "", user.RoleHeadmaster, user.StatusActive, false)

	nt := func(userID, coordID string) teacher.NewTeacher {
		return teacher.NewTeacher{
			SchoolID:        sch.ID,
			UserID:          userID,
			CoordinatorID:   coordID,
			ContractType:    teacher.ContractFullTime,
			AssignableHours: 40,
			Monday:          true,
			Wednesday:       true,
		}
	}

	t.Run("user does not exist", func(t *testing.T) {
		_, err := svc.Create(ctx, nt("lol", coord.ID))
		testutil.AssertNotFound(t, err, "user does not exist")
	})

	t.Run("user in another school", func(t *testing.T) {
		_, err := svc.Create(ctx, nt(alien.ID, coord.ID))
		testutil.AssertBadRequest(t, err, "user belongs to a different school")
	})

	t.Run("inactive user", func(t *testing.T) {
		_, err := svc.Create(ctx, nt(sleeper.ID, coord.ID))
		testutil.AssertBadRequest(t, err, "user account is not active")
	})

	t.Run("no teaching function", func(t *testing.T) {
		_, err := svc.Create(ctx, nt(clerk.ID, coord.ID))
		testutil.AssertBadRequest(t, err, "user has no teaching function")
	})

	t.Run("coordinator does not exist", func(t *testing.T) {
		_, err := svc.Create(ctx, nt(usr.ID, "lol"))
		testutil.AssertNotFound(t, err, "coordinator does not exist")
	})

	t.Run("coordinator in another school", func(t *testing.T) {
		_, err := svc.Create(ctx, nt(usr.ID, otherCoord.ID))
		testutil.AssertBadRequest(t, err, "coordinator belongs to a different school")
	})

	t.Run("not a coordinator", func(t *testing.T) {
		_, err := svc.Create(ctx, nt(usr.ID, headmaster.ID))
		testutil.AssertBadRequest(t, err, "user is not a coordinator")
	})

	t.Run("ok", func(t *testing.T) {
		if _, err := svc.Create(ctx, nt(usr.ID, coord.ID)); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	})

	t.Run("user is already a teacher", func(t *testing.T) {
		_, err := svc.Create(ctx, nt(usr.ID, coord.ID))
		testutil.AssertConflict(t, err, "this user is already a teacher")
	})
}

func Test_Service_Update(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	userRepo := testutil.NewUserRepository(db)
	usr := testutil.CreateUser(t, userRepo, sch.ID, "Awe", "Mbuyi", "awe@test.cd", "", user.RoleTeacher, user.StatusActive, true)
	coord := testutil.CreateUser(t, userRepo, sch.ID, "King", "Kasongo", "king@test.cd", "", user.RoleCoordinator, user.StatusActive, false)
	tch := testutil.CreateTeacher(t, testutil.NewTeacherRepository(db), sch.ID, usr.ID, coord.ID)

	ut := teacher.UpdateTeacher{
		SchoolID:        sch.ID,
		UserID:          usr.ID,
		CoordinatorID:   coord.ID,
		ContractType:    teacher.ContractPartTime,
		AssignableHours: 20,
		AssignedHours:   8,
		Tuesday:         true,
	}

	t.Run("keeps its own user", func(t *testing.T) {
		updated, err := svc.Update(ctx, tch.ID, ut)
		if err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
		if updated.ContractType != teacher.ContractPartTime {
			t.Errorf("ContractType = %q", updated.ContractType)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := svc.Update(ctx, "lol", ut)
		testutil.AssertNotFound(t, err, "Teacher not updated")
	})
}

func Test_Service_AssignField(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	schoolRepo := testutil.NewSchoolRepository(db)
	userRepo := testutil.NewUserRepository(db)
	fieldRepo := testutil.NewFieldRepository(db)

	sch := testutil.CreateSchool(t, schoolRepo, "Lycee Mobutu", 30)
	other := testutil.CreateSchool(t, schoolRepo, "College Boboto", 25)
	usr := testutil.CreateUser(t, userRepo, sch.ID, "Awe", "Mbuyi", "awe@test.cd", "", user.RoleTeacher, user.StatusActive, true)
	coord := testutil.CreateUser(t, userRepo, sch.ID, "King", "Kasongo", "king@test.cd", "", user.RoleCoordinator, user.StatusActive, false)
	tch := testutil.CreateTeacher(t, testutil.NewTeacherRepository(db), sch.ID, usr.ID, coord.ID)
	fld := testutil.CreateField(t, fieldRepo, sch.ID, "Math")
	otherFld := testutil.CreateField(t, fieldRepo, other.ID, "Math")

	t.Run("teacher does not exist", func(t *testing.T) {
		_, err := svc.AssignField(ctx, "lol", teacher.NewTeacherField{SchoolID: sch.ID, FieldID: fld.ID})
		testutil.AssertNotFound(t, err, "teacher does not exist")
	})

	t.Run("teacher in another school", func(t *testing.T) {
		_, err := svc.AssignField(ctx, tch.ID, teacher.NewTeacherField{SchoolID: other.ID, FieldID: fld.ID})
		testutil.AssertBadRequest(t, err, "teacher belongs to a different school")
	})

	t.Run("field does not exist", func(t *testing.T) {
		_, err := svc.AssignField(ctx, tch.ID, teacher.NewTeacherField{SchoolID: sch.ID, FieldID: "lol"})
		testutil.AssertNotFound(t, err, "field does not exist")
	})

	t.Run("field in another school", func(t *testing.T) {
		_, err := svc.AssignField(ctx, tch.ID, teacher.NewTeacherField{SchoolID: sch.ID, FieldID: otherFld.ID})
		testutil.AssertBadRequest(t, err, "field belongs to a different school")
	})

	t.Run("ok", func(t *testing.T) {
		tf, err := svc.AssignField(ctx, tch.ID, teacher.NewTeacherField{SchoolID: sch.ID, FieldID: fld.ID})
		if err != nil {
			t.Fatalf("AssignField() failed: %v", err)
		}
		if tf.TeacherID != tch.ID {
			t.Errorf("TeacherID = %q; want %q", tf.TeacherID, tch.ID)
		}
	})

	t.Run("field already assigned", func(t *testing.T) {
		_, err := svc.AssignField(ctx, tch.ID, teacher.NewTeacherField{SchoolID: sch.ID, FieldID: fld.ID})
		testutil.AssertConflict(t, err, "this field is already assigned to the teacher")
	})
}

func Test_Service_QueryFields(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	userRepo := testutil.NewUserRepository(db)
	usr := testutil.CreateUser(t, userRepo, sch.ID, "Awe", "Mbuyi", "awe@test.cd", "", user.RoleTeacher, user.StatusActive, true)
	coord := testutil.CreateUser(t, userRepo, sch.ID, "King", "Kasongo", "king@test.cd", "", user.RoleCoordinator, user.StatusActive, false)
	tch := testutil.CreateTeacher(t, testutil.NewTeacherRepository(db), sch.ID, usr.ID, coord.ID)
	fld := testutil.CreateField(t, testutil.NewFieldRepository(db), sch.ID, "Math")
	testutil.CreateTeacherField(t, testutil.NewTeacherFieldRepository(db), sch.ID, tch.ID, fld.ID)

	if _, err := svc.QueryFields(ctx, "lol", sch.ID); errors.Cause(err) != teacher.ErrNotFound {
		t.Errorf("QueryFields() error = %v; want %v", err, teacher.ErrNotFound)
	}
	if _, err := svc.QueryFields(ctx, tch.ID, "lol"); errors.Cause(err) != teacher.ErrNotFound {
		t.Errorf("QueryFields() error = %v; want %v", err, teacher.ErrNotFound)
	}

	tfs, err := svc.QueryFields(ctx, tch.ID, sch.ID)
	if err != nil {
		t.Fatalf("QueryFields() failed: %v", err)
	}
	if len(tfs) != 1 {
		t.Errorf("len(tfs) = %d; want 1", len(tfs))
	}
}

func Test_Service_UnassignField(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	userRepo := testutil.NewUserRepository(db)
	usr := testutil.CreateUser(t, userRepo, sch.ID, "Awe", "Mbuyi", "awe@test.cd", "", user.RoleTeacher, user.StatusActive, true)
	coord := testutil.CreateUser(t, userRepo, sch.ID, "King", "Kasongo", "king@test.cd", "", user.RoleCoordinator, user.StatusActive, false)
	tch := testutil.CreateTeacher(t, testutil.NewTeacherRepository(db), sch.ID, usr.ID, coord.ID)
	fld := testutil.CreateField(t, testutil.NewFieldRepository(db), sch.ID, "Math")
	testutil.CreateTeacherField(t, testutil.NewTeacherFieldRepository(db), sch.ID, tch.ID, fld.ID)

	err := svc.UnassignField(ctx, tch.ID, "lol", sch.ID)
	testutil.AssertNotFound(t, err, "TeacherField not deleted")

	if err := svc.UnassignField(ctx, tch.ID, fld.ID, sch.ID); err != nil {
		t.Fatalf("UnassignField() failed: %v", err)
	}
}
