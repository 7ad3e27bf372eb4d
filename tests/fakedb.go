package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

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

// FakeDB is an in-memory store backing every repository interface. It mirrors
// the SQL repositories' semantics (scoping, uniqueness, miss sentinels) so
// service and API tests run without a database.
type FakeDB struct {
	mu            sync.Mutex
	Schools       map[string]school.School
	Users         map[string]user.User
	Fields        map[string]field.Field
	Schedules     map[string]schedule.Schedule
	Breaks        map[string]schedule.Break
	Levels        map[string]level.Level
	Groups        map[string]group.Group
	Subjects      map[string]subject.Subject
	Teachers      map[string]teacher.Teacher
	TeacherFields map[string]teacher.TeacherField
	Classes       map[string]class.Class
}

func NewFakeDB() *FakeDB {
	return &FakeDB{
		Schools:       make(map[string]school.School),
		Users:         make(map[string]user.User),
		Fields:        make(map[string]field.Field),
		Schedules:     make(map[string]schedule.Schedule),
		Breaks:        make(map[string]schedule.Break),
		Levels:        make(map[string]level.Level),
		Groups:        make(map[string]group.Group),
		Subjects:      make(map[string]subject.Subject),
		Teachers:      make(map[string]teacher.Teacher),
		TeacherFields: make(map[string]teacher.TeacherField),
		Classes:       make(map[string]class.Class),
	}
}

// Reset drops all rows; call it at the top of every test that shares a FakeDB.
func (db *FakeDB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.Schools = make(map[string]school.School)
	db.Users = make(map[string]user.User)
	db.Fields = make(map[string]field.Field)
	db.Schedules = make(map[string]schedule.Schedule)
	db.Breaks = make(map[string]schedule.Break)
	db.Levels = make(map[string]level.Level)
	db.Groups = make(map[string]group.Group)
	db.Subjects = make(map[string]subject.Subject)
	db.Teachers = make(map[string]teacher.Teacher)
	db.TeacherFields = make(map[string]teacher.TeacherField)
	db.Classes = make(map[string]class.Class)
}

func excluded(id string, excludedIDs []string) bool {
	for _, ex := range excludedIDs {
		if ex == id {
			return true
		}
	}
	return false
}

// School

type SchoolRepository struct{ db *FakeDB }

var _ school.Repository = (*SchoolRepository)(nil)

func NewSchoolRepository(db *FakeDB) *SchoolRepository { return &SchoolRepository{db: db} }

func (repo *SchoolRepository) CreateSchool(_ context.Context, sch school.School) (school.School, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	sch.ID = uuid.New().String()
	repo.db.Schools[sch.ID] = sch
	return sch, nil
}

func (repo *SchoolRepository) GetSchool(_ context.Context, id string) (school.School, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	sch, ok := repo.db.Schools[id]
	if !ok {
		return school.School{}, school.ErrNotFound
	}
	return sch, nil
}

func (repo *SchoolRepository) QueryAllSchools(_ context.Context) ([]school.School, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	schs := make([]school.School, 0, len(repo.db.Schools))
	for _, sch := range repo.db.Schools {
		schs = append(schs, sch)
	}
	sort.Slice(schs, func(i, j int) bool { return schs[i].Name < schs[j].Name })
	return schs, nil
}

func (repo *SchoolRepository) UpdateSchool(_ context.Context, sch school.School) (school.School, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Schools[sch.ID]
	if !ok {
		return school.School{}, school.ErrNotFound
	}
	sch.CreatedAt = prev.CreatedAt
	repo.db.Schools[sch.ID] = sch
	return sch, nil
}

func (repo *SchoolRepository) DeleteSchool(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if _, ok := repo.db.Schools[id]; !ok {
		return school.ErrNotFound
	}
	delete(repo.db.Schools, id)
	return nil
}

// User

type UserRepository struct{ db *FakeDB }

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *FakeDB) *UserRepository { return &UserRepository{db: db} }

func (repo *UserRepository) CheckEmailUniqueness(_ context.Context, schoolID, email string, excludedIDs ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, usr := range repo.db.Users {
		if usr.SchoolID == schoolID && strings.EqualFold(usr.Email, email) && !excluded(usr.ID, excludedIDs) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *UserRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	usr.ID = uuid.New().String()
	repo.db.Users[usr.ID] = usr
	return usr, nil
}

func (repo *UserRepository) GetUser(_ context.Context, id string) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	usr, ok := repo.db.Users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *UserRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, usr := range repo.db.Users {
		if strings.EqualFold(usr.Email, email) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) QueryUsers(_ context.Context, schoolID string) ([]user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	usrs := make([]user.User, 0)
	for _, usr := range repo.db.Users {
		if usr.SchoolID == schoolID {
			usrs = append(usrs, usr)
		}
	}
	sort.Slice(usrs, func(i, j int) bool {
		if usrs[i].LastName != usrs[j].LastName {
			return usrs[i].LastName < usrs[j].LastName
		}
		return usrs[i].FirstName < usrs[j].FirstName
	})
	return usrs, nil
}

func (repo *UserRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Users[usr.ID]
	if !ok || prev.SchoolID != usr.SchoolID {
		return user.User{}, user.ErrNotFound
	}
	if len(usr.PasswordHash) == 0 {
		usr.PasswordHash = prev.PasswordHash
	}
	usr.CreatedAt = prev.CreatedAt
	usr.LastLogin = prev.LastLogin
	repo.db.Users[usr.ID] = usr
	return usr, nil
}

func (repo *UserRepository) SetLastLogin(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Users[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	prev.LastLogin = usr.LastLogin
	repo.db.Users[usr.ID] = prev
	return prev, nil
}

func (repo *UserRepository) DeleteUser(_ context.Context, id, schoolID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	usr, ok := repo.db.Users[id]
	if !ok || usr.SchoolID != schoolID {
		return user.ErrNotFound
	}
	delete(repo.db.Users, id)
	return nil
}

// Field

type FieldRepository struct{ db *FakeDB }

var _ field.Repository = (*FieldRepository)(nil)

func NewFieldRepository(db *FakeDB) *FieldRepository { return &FieldRepository{db: db} }

func (repo *FieldRepository) CheckNameUniqueness(_ context.Context, schoolID, name string, excludedIDs ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, fld := range repo.db.Fields {
		if fld.SchoolID == schoolID && strings.EqualFold(fld.Name, name) && !excluded(fld.ID, excludedIDs) {
			return field.ErrNameExists
		}
	}
	return nil
}

func (repo *FieldRepository) CreateField(_ context.Context, fld field.Field) (field.Field, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	fld.ID = uuid.New().String()
	repo.db.Fields[fld.ID] = fld
	return fld, nil
}

func (repo *FieldRepository) GetField(_ context.Context, id string) (field.Field, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	fld, ok := repo.db.Fields[id]
	if !ok {
		return field.Field{}, field.ErrNotFound
	}
	return fld, nil
}

func (repo *FieldRepository) QueryFields(_ context.Context, schoolID string) ([]field.Field, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	flds := make([]field.Field, 0)
	for _, fld := range repo.db.Fields {
		if fld.SchoolID == schoolID {
			flds = append(flds, fld)
		}
	}
	sort.Slice(flds, func(i, j int) bool { return flds[i].Name < flds[j].Name })
	return flds, nil
}

func (repo *FieldRepository) UpdateField(_ context.Context, fld field.Field) (field.Field, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Fields[fld.ID]
	if !ok || prev.SchoolID != fld.SchoolID {
		return field.Field{}, field.ErrNotFound
	}
	fld.CreatedAt = prev.CreatedAt
	repo.db.Fields[fld.ID] = fld
	return fld, nil
}

func (repo *FieldRepository) DeleteField(_ context.Context, id, schoolID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	fld, ok := repo.db.Fields[id]
	if !ok || fld.SchoolID != schoolID {
		return field.ErrNotFound
	}
	delete(repo.db.Fields, id)
	return nil
}

// Schedule

type ScheduleRepository struct{ db *FakeDB }

var _ schedule.Repository = (*ScheduleRepository)(nil)

func NewScheduleRepository(db *FakeDB) *ScheduleRepository { return &ScheduleRepository{db: db} }

func (repo *ScheduleRepository) CreateSchedule(_ context.Context, sch schedule.Schedule) (schedule.Schedule, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	sch.ID = uuid.New().String()
	repo.db.Schedules[sch.ID] = sch
	return sch, nil
}

func (repo *ScheduleRepository) GetSchedule(_ context.Context, id string) (schedule.Schedule, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	sch, ok := repo.db.Schedules[id]
	if !ok {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	return sch, nil
}

func (repo *ScheduleRepository) QuerySchedules(_ context.Context, schoolID string) ([]schedule.Schedule, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	schs := make([]schedule.Schedule, 0)
	for _, sch := range repo.db.Schedules {
		if sch.SchoolID == schoolID {
			schs = append(schs, sch)
		}
	}
	sort.Slice(schs, func(i, j int) bool { return schs[i].Name < schs[j].Name })
	return schs, nil
}

func (repo *ScheduleRepository) UpdateSchedule(_ context.Context, sch schedule.Schedule) (schedule.Schedule, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Schedules[sch.ID]
	if !ok || prev.SchoolID != sch.SchoolID {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	sch.CreatedAt = prev.CreatedAt
	repo.db.Schedules[sch.ID] = sch
	return sch, nil
}

func (repo *ScheduleRepository) DeleteSchedule(_ context.Context, id, schoolID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	sch, ok := repo.db.Schedules[id]
	if !ok || sch.SchoolID != schoolID {
		return schedule.ErrNotFound
	}
	delete(repo.db.Schedules, id)
	return nil
}

// Break

type BreakRepository struct{ db *FakeDB }

var _ schedule.BreakRepository = (*BreakRepository)(nil)

func NewBreakRepository(db *FakeDB) *BreakRepository { return &BreakRepository{db: db} }

func (repo *BreakRepository) CreateBreak(_ context.Context, brk schedule.Break) (schedule.Break, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	brk.ID = uuid.New().String()
	repo.db.Breaks[brk.ID] = brk
	return brk, nil
}

func (repo *BreakRepository) GetBreak(_ context.Context, id string) (schedule.Break, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	brk, ok := repo.db.Breaks[id]
	if !ok {
		return schedule.Break{}, schedule.ErrBreakNotFound
	}
	return brk, nil
}

func (repo *BreakRepository) QueryBreaks(_ context.Context, schoolID string) ([]schedule.Break, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	brks := make([]schedule.Break, 0)
	for _, brk := range repo.db.Breaks {
		if brk.SchoolID == schoolID {
			brks = append(brks, brk)
		}
	}
	sort.Slice(brks, func(i, j int) bool { return brks[i].BreakStart < brks[j].BreakStart })
	return brks, nil
}

func (repo *BreakRepository) UpdateBreak(_ context.Context, brk schedule.Break) (schedule.Break, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Breaks[brk.ID]
	if !ok || prev.SchoolID != brk.SchoolID {
		return schedule.Break{}, schedule.ErrBreakNotFound
	}
	brk.CreatedAt = prev.CreatedAt
	repo.db.Breaks[brk.ID] = brk
	return brk, nil
}

func (repo *BreakRepository) DeleteBreak(_ context.Context, id, schoolID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	brk, ok := repo.db.Breaks[id]
	if !ok || brk.SchoolID != schoolID {
		return schedule.ErrBreakNotFound
	}
	delete(repo.db.Breaks, id)
	return nil
}

func (repo *BreakRepository) DeleteBreaksBySchedule(_ context.Context, scheduleID, schoolID string) (int, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	var n int
	for id, brk := range repo.db.Breaks {
		if brk.ScheduleID == scheduleID && brk.SchoolID == schoolID {
			delete(repo.db.Breaks, id)
			n++
		}
	}
	return n, nil
}

// Level

type LevelRepository struct{ db *FakeDB }

var _ level.Repository = (*LevelRepository)(nil)

func NewLevelRepository(db *FakeDB) *LevelRepository { return &LevelRepository{db: db} }

func (repo *LevelRepository) CheckNameUniqueness(_ context.Context, schoolID, name string, excludedIDs ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, lvl := range repo.db.Levels {
		if lvl.SchoolID == schoolID && strings.EqualFold(lvl.Name, name) && !excluded(lvl.ID, excludedIDs) {
			return level.ErrNameExists
		}
	}
	return nil
}

func (repo *LevelRepository) CreateLevel(_ context.Context, lvl level.Level) (level.Level, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	lvl.ID = uuid.New().String()
	repo.db.Levels[lvl.ID] = lvl
	return lvl, nil
}

func (repo *LevelRepository) GetLevel(_ context.Context, id string) (level.Level, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	lvl, ok := repo.db.Levels[id]
	if !ok {
		return level.Level{}, level.ErrNotFound
	}
	return lvl, nil
}

func (repo *LevelRepository) QueryLevels(_ context.Context, schoolID string) ([]level.Level, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	lvls := make([]level.Level, 0)
	for _, lvl := range repo.db.Levels {
		if lvl.SchoolID == schoolID {
			lvls = append(lvls, lvl)
		}
	}
	sort.Slice(lvls, func(i, j int) bool { return lvls[i].Name < lvls[j].Name })
	return lvls, nil
}

func (repo *LevelRepository) UpdateLevel(_ context.Context, lvl level.Level) (level.Level, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Levels[lvl.ID]
	if !ok || prev.SchoolID != lvl.SchoolID {
		return level.Level{}, level.ErrNotFound
	}
	lvl.CreatedAt = prev.CreatedAt
	repo.db.Levels[lvl.ID] = lvl
	return lvl, nil
}

func (repo *LevelRepository) DeleteLevel(_ context.Context, id, schoolID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	lvl, ok := repo.db.Levels[id]
	if !ok || lvl.SchoolID != schoolID {
		return level.ErrNotFound
	}
	delete(repo.db.Levels, id)
	return nil
}

// Group

type GroupRepository struct{ db *FakeDB }

var _ group.Repository = (*GroupRepository)(nil)

func NewGroupRepository(db *FakeDB) *GroupRepository { return &GroupRepository{db: db} }

func (repo *GroupRepository) CheckNameUniqueness(_ context.Context, schoolID, name string, excludedIDs ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, grp := range repo.db.Groups {
		if grp.SchoolID == schoolID && strings.EqualFold(grp.Name, name) && !excluded(grp.ID, excludedIDs) {
			return group.ErrNameExists
		}
	}
	return nil
}

func (repo *GroupRepository) CreateGroup(_ context.Context, grp group.Group) (group.Group, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	grp.ID = uuid.New().String()
	repo.db.Groups[grp.ID] = grp
	return grp, nil
}

func (repo *GroupRepository) GetGroup(_ context.Context, id string) (group.Group, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	grp, ok := repo.db.Groups[id]
	if !ok {
		return group.Group{}, group.ErrNotFound
	}
	return grp, nil
}

func (repo *GroupRepository) GetGroupDetail(_ context.Context, id string) (group.Detail, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	grp, ok := repo.db.Groups[id]
	if !ok {
		return group.Detail{}, group.ErrNotFound
	}
	coord, ok := repo.db.Users[grp.CoordinatorID]
	if !ok {
		return group.Detail{}, group.ErrNotFound
	}
	return group.Detail{Group: grp, Coordinator: coord}, nil
}

func (repo *GroupRepository) QueryGroups(_ context.Context, schoolID string) ([]group.Group, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	grps := make([]group.Group, 0)
	for _, grp := range repo.db.Groups {
		if grp.SchoolID == schoolID {
			grps = append(grps, grp)
		}
	}
	sort.Slice(grps, func(i, j int) bool { return grps[i].Name < grps[j].Name })
	return grps, nil
}

func (repo *GroupRepository) UpdateGroup(_ context.Context, grp group.Group) (group.Group, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Groups[grp.ID]
	if !ok || prev.SchoolID != grp.SchoolID {
		return group.Group{}, group.ErrNotFound
	}
	grp.CreatedAt = prev.CreatedAt
	repo.db.Groups[grp.ID] = grp
	return grp, nil
}

func (repo *GroupRepository) DeleteGroup(_ context.Context, id, schoolID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	grp, ok := repo.db.Groups[id]
	if !ok || grp.SchoolID != schoolID {
		return group.ErrNotFound
	}
	delete(repo.db.Groups, id)
	return nil
}

// Subject

type SubjectRepository struct{ db *FakeDB }

var _ subject.Repository = (*SubjectRepository)(nil)

func NewSubjectRepository(db *FakeDB) *SubjectRepository { return &SubjectRepository{db: db} }

func (repo *SubjectRepository) CheckNameUniqueness(_ context.Context, schoolID, name string, excludedIDs ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, sub := range repo.db.Subjects {
		if sub.SchoolID == schoolID && strings.EqualFold(sub.Name, name) && !excluded(sub.ID, excludedIDs) {
			return subject.ErrNameExists
		}
	}
	return nil
}

func (repo *SubjectRepository) CreateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	sub.ID = uuid.New().String()
	repo.db.Subjects[sub.ID] = sub
	return sub, nil
}

func (repo *SubjectRepository) GetSubject(_ context.Context, id string) (subject.Subject, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	sub, ok := repo.db.Subjects[id]
	if !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	return sub, nil
}

func (repo *SubjectRepository) GetSubjectDetail(_ context.Context, id string) (subject.Detail, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	sub, ok := repo.db.Subjects[id]
	if !ok {
		return subject.Detail{}, subject.ErrNotFound
	}
	sch, ok := repo.db.Schools[sub.SchoolID]
	if !ok {
		return subject.Detail{}, subject.ErrNotFound
	}
	coord, ok := repo.db.Users[sub.CoordinatorID]
	if !ok {
		return subject.Detail{}, subject.ErrNotFound
	}
	grp, ok := repo.db.Groups[sub.GroupID]
	if !ok {
		return subject.Detail{}, subject.ErrNotFound
	}
	fld, ok := repo.db.Fields[sub.FieldID]
	if !ok {
		return subject.Detail{}, subject.ErrNotFound
	}
	return subject.Detail{Subject: sub, School: sch, Coordinator: coord, Group: grp, Field: fld}, nil
}

func (repo *SubjectRepository) QuerySubjects(_ context.Context, schoolID string) ([]subject.Subject, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	subs := make([]subject.Subject, 0)
	for _, sub := range repo.db.Subjects {
		if sub.SchoolID == schoolID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })
	return subs, nil
}

func (repo *SubjectRepository) UpdateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Subjects[sub.ID]
	if !ok || prev.SchoolID != sub.SchoolID {
		return subject.Subject{}, subject.ErrNotFound
	}
	sub.CreatedAt = prev.CreatedAt
	repo.db.Subjects[sub.ID] = sub
	return sub, nil
}

func (repo *SubjectRepository) DeleteSubject(_ context.Context, id, schoolID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	sub, ok := repo.db.Subjects[id]
	if !ok || sub.SchoolID != schoolID {
		return subject.ErrNotFound
	}
	delete(repo.db.Subjects, id)
	return nil
}

// Teacher

type TeacherRepository struct{ db *FakeDB }

var _ teacher.Repository = (*TeacherRepository)(nil)

func NewTeacherRepository(db *FakeDB) *TeacherRepository { return &TeacherRepository{db: db} }

func (repo *TeacherRepository) CheckUserUniqueness(_ context.Context, userID string, excludedIDs ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, tch := range repo.db.Teachers {
		if tch.UserID == userID && !excluded(tch.ID, excludedIDs) {
			return teacher.ErrAlreadyTeacher
		}
	}
	return nil
}

func (repo *TeacherRepository) CreateTeacher(_ context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	tch.ID = uuid.New().String()
	repo.db.Teachers[tch.ID] = tch
	return tch, nil
}

func (repo *TeacherRepository) GetTeacher(_ context.Context, id string) (teacher.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	tch, ok := repo.db.Teachers[id]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return tch, nil
}

func (repo *TeacherRepository) QueryTeachers(_ context.Context, schoolID string) ([]teacher.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	tchs := make([]teacher.Teacher, 0)
	for _, tch := range repo.db.Teachers {
		if tch.SchoolID == schoolID {
			tchs = append(tchs, tch)
		}
	}
	sort.Slice(tchs, func(i, j int) bool { return tchs[i].CreatedAt.Before(tchs[j].CreatedAt) })
	return tchs, nil
}

func (repo *TeacherRepository) UpdateTeacher(_ context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Teachers[tch.ID]
	if !ok || prev.SchoolID != tch.SchoolID {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	tch.CreatedAt = prev.CreatedAt
	repo.db.Teachers[tch.ID] = tch
	return tch, nil
}

func (repo *TeacherRepository) DeleteTeacher(_ context.Context, id, schoolID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	tch, ok := repo.db.Teachers[id]
	if !ok || tch.SchoolID != schoolID {
		return teacher.ErrNotFound
	}
	delete(repo.db.Teachers, id)
	return nil
}

// TeacherField

type TeacherFieldRepository struct{ db *FakeDB }

var _ teacher.FieldRepository = (*TeacherFieldRepository)(nil)

func NewTeacherFieldRepository(db *FakeDB) *TeacherFieldRepository {
	return &TeacherFieldRepository{db: db}
}

func (repo *TeacherFieldRepository) CheckFieldUniqueness(_ context.Context, teacherID, fieldID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for _, tf := range repo.db.TeacherFields {
		if tf.TeacherID == teacherID && tf.FieldID == fieldID {
			return teacher.ErrFieldAssigned
		}
	}
	return nil
}

func (repo *TeacherFieldRepository) CreateTeacherField(_ context.Context, tf teacher.TeacherField) (teacher.TeacherField, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	tf.ID = uuid.New().String()
	repo.db.TeacherFields[tf.ID] = tf
	return tf, nil
}

func (repo *TeacherFieldRepository) GetTeacherField(_ context.Context, id string) (teacher.TeacherField, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	tf, ok := repo.db.TeacherFields[id]
	if !ok {
		return teacher.TeacherField{}, teacher.ErrFieldNotFound
	}
	return tf, nil
}

func (repo *TeacherFieldRepository) GetTeacherFieldDetail(_ context.Context, id string) (teacher.FieldDetail, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	tf, ok := repo.db.TeacherFields[id]
	if !ok {
		return teacher.FieldDetail{}, teacher.ErrFieldNotFound
	}
	tch, ok := repo.db.Teachers[tf.TeacherID]
	if !ok {
		return teacher.FieldDetail{}, teacher.ErrFieldNotFound
	}
	return teacher.FieldDetail{TeacherField: tf, Teacher: tch}, nil
}

func (repo *TeacherFieldRepository) QueryTeacherFields(_ context.Context, teacherID string) ([]teacher.TeacherField, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	tfs := make([]teacher.TeacherField, 0)
	for _, tf := range repo.db.TeacherFields {
		if tf.TeacherID == teacherID {
			tfs = append(tfs, tf)
		}
	}
	sort.Slice(tfs, func(i, j int) bool { return tfs[i].CreatedAt.Before(tfs[j].CreatedAt) })
	return tfs, nil
}

func (repo *TeacherFieldRepository) DeleteTeacherField(_ context.Context, teacherID, fieldID, schoolID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	for id, tf := range repo.db.TeacherFields {
		if tf.TeacherID == teacherID && tf.FieldID == fieldID && tf.SchoolID == schoolID {
			delete(repo.db.TeacherFields, id)
			return nil
		}
	}
	return teacher.ErrFieldNotFound
}

// Class

type ClassRepository struct{ db *FakeDB }

var _ class.Repository = (*ClassRepository)(nil)

func NewClassRepository(db *FakeDB) *ClassRepository { return &ClassRepository{db: db} }

func (repo *ClassRepository) CreateClass(_ context.Context, cls class.Class) (class.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	cls.ID = uuid.New().String()
	repo.db.Classes[cls.ID] = cls
	return cls, nil
}

func (repo *ClassRepository) GetClass(_ context.Context, id string) (class.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	cls, ok := repo.db.Classes[id]
	if !ok {
		return class.Class{}, class.ErrNotFound
	}
	return cls, nil
}

func (repo *ClassRepository) QueryClasses(_ context.Context, schoolID string) ([]class.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	clss := make([]class.Class, 0)
	for _, cls := range repo.db.Classes {
		if cls.SchoolID == schoolID {
			clss = append(clss, cls)
		}
	}
	sort.Slice(clss, func(i, j int) bool { return clss[i].StartTime < clss[j].StartTime })
	return clss, nil
}

func (repo *ClassRepository) UpdateClass(_ context.Context, cls class.Class) (class.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	prev, ok := repo.db.Classes[cls.ID]
	if !ok || prev.SchoolID != cls.SchoolID {
		return class.Class{}, class.ErrNotFound
	}
	cls.CreatedAt = prev.CreatedAt
	repo.db.Classes[cls.ID] = cls
	return cls, nil
}

func (repo *ClassRepository) DeleteClass(_ context.Context, id, schoolID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	cls, ok := repo.db.Classes[id]
	if !ok || cls.SchoolID != schoolID {
		return class.ErrNotFound
	}
	delete(repo.db.Classes, id)
	return nil
}
