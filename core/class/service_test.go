package class_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/trezcool/ratiba/core/class"
	"github.com/trezcool/ratiba/core/field"
	"github.com/trezcool/ratiba/core/group"
	"github.com/trezcool/ratiba/core/school"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
	"github.com/trezcool/ratiba/tests"
)

// graph holds a consistent class dependency graph: a subject coordinated by
// coord on grp/fld, and a teacher reporting to coord, assigned to fld.
type graph struct {
	db    *testutil.FakeDB
	svc   *class.Service
	sch   school.School
	other school.School
	coord user.User
	grp   group.Group
	fld   field.Field
	sub   subject.Subject
	tch   teacher.Teacher
	tf    teacher.TeacherField
}

func setup(t *testing.T) *graph {
	db := testutil.NewFakeDB()
	svc := class.NewService(
		testutil.NewClassRepository(db),
		testutil.NewSubjectRepository(db),
		testutil.NewTeacherFieldRepository(db),
	)

	schoolRepo := testutil.NewSchoolRepository(db)
	userRepo := testutil.NewUserRepository(db)

	sch := testutil.CreateSchool(t, schoolRepo, "Lycee Mobutu", 30)
	other := testutil.CreateSchool(t, schoolRepo, "College Boboto", 25)
	sched := testutil.CreateSchedule(t, testutil.NewScheduleRepository(db), sch.ID, "Morning shift", 480)
	lvl := testutil.CreateLevel(t, testutil.NewLevelRepository(db), sch.ID, sched.ID, "Terminale")

	coord := testutil.CreateUser(t, userRepo, sch.ID, "King", "Kasongo", "king@test.cd", "", user.RoleCoordinator, user.StatusActive, false)
	usr := testutil.CreateUser(t, userRepo, sch.ID, "Awe", "Mbuyi", "awe@test.cd", "", user.RoleTeacher, user.StatusActive, true)

	grp := testutil.CreateGroup(t, testutil.NewGroupRepository(db), sch.ID, lvl.ID, coord.ID, "T-A", 25)
	fld := testutil.CreateField(t, testutil.NewFieldRepository(db), sch.ID, "Math")
	sub := testutil.CreateSubject(t, testutil.NewSubjectRepository(db), sch.ID, coord.ID, grp.ID, fld.ID, "Algebra")

	tch := testutil.CreateTeacher(t, testutil.NewTeacherRepository(db), sch.ID, usr.ID, coord.ID)
	tf := testutil.CreateTeacherField(t, testutil.NewTeacherFieldRepository(db), sch.ID, tch.ID, fld.ID)

	return &graph{
		db: db, svc: svc,
		sch: sch, other: other, coord: coord,
		grp: grp, fld: fld, sub: sub, tch: tch, tf: tf,
	}
}

func (g *graph) newClass() class.NewClass {
	return class.NewClass{
		SchoolID:            g.sch.ID,
		CoordinatorID:       g.coord.ID,
		SubjectID:           g.sub.ID,
		TeacherFieldID:      g.tf.ID,
		StartTime:           480,
		GroupScheduleSlot:   1,
		TeacherScheduleSlot: 1,
	}
}

func Test_Service_Create(t *testing.T) {
	g := setup(t)
	ctx := context.Background()

	t.Run("subject does not exist", func(t *testing.T) {
		nc := g.newClass()
		nc.SubjectID = "lol"
		_, err := g.svc.Create(ctx, nc)
		testutil.AssertNotFound(t, err, "subject does not exist")
	})

	t.Run("subject in another school", func(t *testing.T) {
		nc := g.newClass()
		nc.SchoolID = g.other.ID
		_, err := g.svc.Create(ctx, nc)
		testutil.AssertBadRequest(t, err, "subject belongs to a different school")
	})

	t.Run("subject owned by another coordinator", func(t *testing.T) {
		stranger := testutil.CreateUser(
			t, testutil.NewUserRepository(g.db),
			g.sch.ID, "Some", "Guy", "guy@test.cd", "", user.RoleCoordinator, user.StatusActive, false,
		)
		nc := g.newClass()
		nc.CoordinatorID = stranger.ID
		_, err := g.svc.Create(ctx, nc)
		testutil.AssertBadRequest(t, err, "subject is not assigned to this coordinator")
	})

	t.Run("coordinator lost the role", func(t *testing.T) {
		demoted := g.db.Users[g.coord.ID]
		demoted.Role = user.RoleTeacher
		g.db.Users[g.coord.ID] = demoted
		defer func() { g.db.Users[g.coord.ID] = g.coord }()

		_, err := g.svc.Create(ctx, g.newClass())
		testutil.AssertBadRequest(t, err, "user is not a coordinator")
	})

	t.Run("coordinator deactivated", func(t *testing.T) {
		suspended := g.db.Users[g.coord.ID]
		suspended.Status = user.StatusSuspended
		g.db.Users[g.coord.ID] = suspended
		defer func() { g.db.Users[g.coord.ID] = g.coord }()

		_, err := g.svc.Create(ctx, g.newClass())
		testutil.AssertBadRequest(t, err, "coordinator account is not active")
	})

	t.Run("teacherField missing is a bad request on create", func(t *testing.T) {
		nc := g.newClass()
		nc.TeacherFieldID = "lol"
		_, err := g.svc.Create(ctx, nc)
		testutil.AssertBadRequest(t, err, "teacherField does not exist")
	})

	t.Run("teacherField in another school", func(t *testing.T) {
		alienTF := g.db.TeacherFields[g.tf.ID]
		alienTF.SchoolID = g.other.ID
		g.db.TeacherFields[g.tf.ID] = alienTF
		defer func() { g.db.TeacherFields[g.tf.ID] = g.tf }()

		_, err := g.svc.Create(ctx, g.newClass())
		testutil.AssertBadRequest(t, err, "teacherField belongs to a different school")
	})

	t.Run("teacher reports to another coordinator", func(t *testing.T) {
		moved := g.db.Teachers[g.tch.ID]
		moved.CoordinatorID = "someone-else"
		g.db.Teachers[g.tch.ID] = moved
		defer func() { g.db.Teachers[g.tch.ID] = g.tch }()

		_, err := g.svc.Create(ctx, g.newClass())
		testutil.AssertBadRequest(t, err, "teacher not assigned to this coordinator")
	})

	t.Run("teacher field differs from the subject's", func(t *testing.T) {
		physics := testutil.CreateField(t, testutil.NewFieldRepository(g.db), g.sch.ID, "Physics")
		swapped := g.db.TeacherFields[g.tf.ID]
		swapped.FieldID = physics.ID
		g.db.TeacherFields[g.tf.ID] = swapped
		defer func() { g.db.TeacherFields[g.tf.ID] = g.tf }()

		_, err := g.svc.Create(ctx, g.newClass())
		testutil.AssertBadRequest(t, err, "field assigned to teacher is the same in the parent subject")
	})

	t.Run("ok", func(t *testing.T) {
		cls, err := g.svc.Create(ctx, g.newClass())
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if cls.ID == "" {
			t.Error("Create() did not set an id")
		}
	})
}

func Test_Service_Update(t *testing.T) {
	g := setup(t)
	ctx := context.Background()

	cls := testutil.CreateClass(t, testutil.NewClassRepository(g.db), g.sch.ID, g.coord.ID, g.sub.ID, g.tf.ID, 480)

	uc := func() class.UpdateClass { return class.UpdateClass(g.newClass()) }

	t.Run("teacherField missing is a not found on update", func(t *testing.T) {
		data := uc()
		data.TeacherFieldID = "lol"
		_, err := g.svc.Update(ctx, cls.ID, data)
		testutil.AssertNotFound(t, err, "teacherField does not exist")
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := g.svc.Update(ctx, "lol", uc())
		testutil.AssertNotFound(t, err, "Class not updated")
	})

	t.Run("ok", func(t *testing.T) {
		data := uc()
		data.StartTime = 540
		updated, err := g.svc.Update(ctx, cls.ID, data)
		if err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
		if updated.StartTime != 540 {
			t.Errorf("StartTime = %d; want 540", updated.StartTime)
		}
	})

	t.Run("repeating an update leaves the row unchanged", func(t *testing.T) {
		data := uc()
		data.StartTime = 540
		if _, err := g.svc.Update(ctx, cls.ID, data); err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
		first := g.db.Classes[cls.ID]

		if _, err := g.svc.Update(ctx, cls.ID, data); err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
		second := g.db.Classes[cls.ID]

		first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("stored class changed on repeat:\nfirst  = %+v\nsecond = %+v", first, second)
		}
	})
}

func Test_Service_Delete(t *testing.T) {
	g := setup(t)
	ctx := context.Background()

	cls := testutil.CreateClass(t, testutil.NewClassRepository(g.db), g.sch.ID, g.coord.ID, g.sub.ID, g.tf.ID, 480)

	err := g.svc.Delete(ctx, cls.ID, g.other.ID)
	testutil.AssertNotFound(t, err, "Class not deleted")

	if err := g.svc.Delete(ctx, cls.ID, g.sch.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
}
