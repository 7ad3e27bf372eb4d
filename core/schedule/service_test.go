package schedule_test

import (
	"context"
	"testing"

	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/tests"
)

func setup() (*testutil.FakeDB, *schedule.Service) {
	db := testutil.NewFakeDB()
	svc := schedule.NewService(
		testutil.NewScheduleRepository(db),
		testutil.NewBreakRepository(db),
		testutil.NewSchoolRepository(db),
	)
	return db, svc
}

func newSchedule(schoolID string) schedule.NewSchedule {
	return schedule.NewSchedule{
		SchoolID:           schoolID,
		Name:               "Morning shift",
		DayStart:           480,
		ShiftNumberMinutes: 300,
		SessionUnitMinutes: 60,
		Monday:             true,
		Friday:             true,
	}
}

func Test_Service_Create(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)

	t.Run("school does not exist", func(t *testing.T) {
		_, err := svc.Create(ctx, newSchedule("lol"))
		testutil.AssertNotFound(t, err, "school does not exist")
	})

	t.Run("ok", func(t *testing.T) {
		sched, err := svc.Create(ctx, newSchedule(sch.ID))
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if sched.ID == "" {
			t.Error("Create() did not set an id")
		}
	})
}

func Test_Service_Delete_cascadesBreaks(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	schoolRepo := testutil.NewSchoolRepository(db)
	schedRepo := testutil.NewScheduleRepository(db)
	breakRepo := testutil.NewBreakRepository(db)

	sch := testutil.CreateSchool(t, schoolRepo, "Lycee Mobutu", 30)
	other := testutil.CreateSchool(t, schoolRepo, "College Boboto", 25)

	sched := testutil.CreateSchedule(t, schedRepo, sch.ID, "Morning shift", 480)
	otherSched := testutil.CreateSchedule(t, schedRepo, other.ID, "Morning shift", 480)

	testutil.CreateBreak(t, breakRepo, sch.ID, sched.ID, 600, 15)
	testutil.CreateBreak(t, breakRepo, sch.ID, sched.ID, 720, 30)
	keep := testutil.CreateBreak(t, breakRepo, other.ID, otherSched.ID, 600, 15)

	t.Run("missing target", func(t *testing.T) {
		err := svc.Delete(ctx, "lol", sch.ID)
		testutil.AssertNotFound(t, err, "Schedule not deleted")
	})

	t.Run("wrong school", func(t *testing.T) {
		err := svc.Delete(ctx, sched.ID, other.ID)
		testutil.AssertNotFound(t, err, "Schedule not deleted")
	})

	t.Run("ok, breaks go with it", func(t *testing.T) {
		if err := svc.Delete(ctx, sched.ID, sch.ID); err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}
		if len(db.Breaks) != 1 {
			t.Fatalf("breaks left = %d; want 1", len(db.Breaks))
		}
		if _, ok := db.Breaks[keep.ID]; !ok {
			t.Error("the other school's break was deleted")
		}
		if _, ok := db.Schedules[sched.ID]; ok {
			t.Error("schedule row still present")
		}
	})
}

func Test_Service_CreateBreak(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	schoolRepo := testutil.NewSchoolRepository(db)
	sch := testutil.CreateSchool(t, schoolRepo, "Lycee Mobutu", 30)
	other := testutil.CreateSchool(t, schoolRepo, "College Boboto", 25)
	sched := testutil.CreateSchedule(t, testutil.NewScheduleRepository(db), sch.ID, "Morning shift", 480)

	t.Run("schedule does not exist", func(t *testing.T) {
		_, err := svc.CreateBreak(ctx, schedule.NewBreak{SchoolID: sch.ID, ScheduleID: "lol", BreakStart: 600, NumberMinutes: 15})
		testutil.AssertNotFound(t, err, "schedule does not exist")
	})

	t.Run("schedule in another school", func(t *testing.T) {
		_, err := svc.CreateBreak(ctx, schedule.NewBreak{SchoolID: other.ID, ScheduleID: sched.ID, BreakStart: 600, NumberMinutes: 15})
		testutil.AssertBadRequest(t, err, "schedule belongs to a different school")
	})

	t.Run("break before day start", func(t *testing.T) {
		_, err := svc.CreateBreak(ctx, schedule.NewBreak{SchoolID: sch.ID, ScheduleID: sched.ID, BreakStart: 400, NumberMinutes: 15})
		testutil.AssertBadRequest(t, err, "break start time cannot be earlier than the schedule start time")
	})

	t.Run("break at day start is fine", func(t *testing.T) {
		if _, err := svc.CreateBreak(ctx, schedule.NewBreak{SchoolID: sch.ID, ScheduleID: sched.ID, BreakStart: 480, NumberMinutes: 15}); err != nil {
			t.Fatalf("CreateBreak() failed: %v", err)
		}
	})
}

func Test_Service_UpdateBreak(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	sched := testutil.CreateSchedule(t, testutil.NewScheduleRepository(db), sch.ID, "Morning shift", 480)
	brk := testutil.CreateBreak(t, testutil.NewBreakRepository(db), sch.ID, sched.ID, 600, 15)

	t.Run("missing target", func(t *testing.T) {
		_, err := svc.UpdateBreak(ctx, "lol", schedule.UpdateBreak{SchoolID: sch.ID, ScheduleID: sched.ID, BreakStart: 620, NumberMinutes: 20})
		testutil.AssertNotFound(t, err, "Break not updated")
	})

	t.Run("ok", func(t *testing.T) {
		updated, err := svc.UpdateBreak(ctx, brk.ID, schedule.UpdateBreak{SchoolID: sch.ID, ScheduleID: sched.ID, BreakStart: 620, NumberMinutes: 20})
		if err != nil {
			t.Fatalf("UpdateBreak() failed: %v", err)
		}
		if updated.BreakStart != 620 {
			t.Errorf("BreakStart = %d; want 620", updated.BreakStart)
		}
	})
}

func Test_Service_DeleteBreak(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	sched := testutil.CreateSchedule(t, testutil.NewScheduleRepository(db), sch.ID, "Morning shift", 480)
	brk := testutil.CreateBreak(t, testutil.NewBreakRepository(db), sch.ID, sched.ID, 600, 15)

	err := svc.DeleteBreak(ctx, brk.ID, "lol")
	testutil.AssertNotFound(t, err, "Break not deleted")

	if err := svc.DeleteBreak(ctx, brk.ID, sch.ID); err != nil {
		t.Fatalf("DeleteBreak() failed: %v", err)
	}
}
