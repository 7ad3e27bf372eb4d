package field_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/field"
	"github.com/trezcool/ratiba/tests"
)

func setup() (*testutil.FakeDB, *field.Service) {
	db := testutil.NewFakeDB()
	svc := field.NewService(testutil.NewFieldRepository(db), testutil.NewSchoolRepository(db))
	return db, svc
}

func Test_Service_Create(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	other := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "College Boboto", 25)

	t.Run("school does not exist", func(t *testing.T) {
		_, err := svc.Create(ctx, field.NewField{SchoolID: "lol", Name: "Math"})
		testutil.AssertNotFound(t, err, "school does not exist")
	})

	t.Run("ok", func(t *testing.T) {
		fld, err := svc.Create(ctx, field.NewField{SchoolID: sch.ID, Name: "Math"})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if fld.ID == "" {
			t.Error("Create() did not set an id")
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := svc.Create(ctx, field.NewField{SchoolID: sch.ID, Name: "Math"})
		testutil.AssertConflict(t, err, "a field with this name already exists")
	})

	t.Run("duplicate name is case-insensitive", func(t *testing.T) {
		_, err := svc.Create(ctx, field.NewField{SchoolID: sch.ID, Name: "MATH"})
		testutil.AssertConflict(t, err, "a field with this name already exists")
	})

	t.Run("same name in another school", func(t *testing.T) {
		if _, err := svc.Create(ctx, field.NewField{SchoolID: other.ID, Name: "Math"}); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	})
}

func Test_Service_GetByID(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	other := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "College Boboto", 25)
	fld := testutil.CreateField(t, testutil.NewFieldRepository(db), sch.ID, "Math")

	if _, err := svc.GetByID(ctx, fld.ID, sch.ID); err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, fld.ID, other.ID); errors.Cause(err) != field.ErrNotFound {
		t.Errorf("GetByID() error = %v; want %v", err, field.ErrNotFound)
	}
}

func Test_Service_Update(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	fld := testutil.CreateField(t, testutil.NewFieldRepository(db), sch.ID, "Math")
	testutil.CreateField(t, testutil.NewFieldRepository(db), sch.ID, "Physics")

	t.Run("keeps its own name", func(t *testing.T) {
		if _, err := svc.Update(ctx, fld.ID, field.UpdateField{SchoolID: sch.ID, Name: "math"}); err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := svc.Update(ctx, fld.ID, field.UpdateField{SchoolID: sch.ID, Name: "Physics"})
		testutil.AssertConflict(t, err, "a field with this name already exists")
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := svc.Update(ctx, "lol", field.UpdateField{SchoolID: sch.ID, Name: "Chemistry"})
		testutil.AssertNotFound(t, err, "Field not updated")
	})
}

func Test_Service_Delete(t *testing.T) {
	db, svc := setup()
	ctx := context.Background()

	sch := testutil.CreateSchool(t, testutil.NewSchoolRepository(db), "Lycee Mobutu", 30)
	fld := testutil.CreateField(t, testutil.NewFieldRepository(db), sch.ID, "Math")

	t.Run("missing target", func(t *testing.T) {
		err := svc.Delete(ctx, "lol", sch.ID)
		testutil.AssertNotFound(t, err, "Field not deleted")
	})

	t.Run("wrong school", func(t *testing.T) {
		err := svc.Delete(ctx, fld.ID, "lol")
		testutil.AssertNotFound(t, err, "Field not deleted")
	})

	t.Run("ok", func(t *testing.T) {
		if err := svc.Delete(ctx, fld.ID, sch.ID); err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}
	})
}
