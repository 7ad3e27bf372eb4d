package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	. "github.com/trezcool/ratiba/apps/api/echo"
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
	"github.com/trezcool/ratiba/services/email"
	"github.com/trezcool/ratiba/tests"
)

var (
	db  *testutil.FakeDB
	app Server

	schoolRepo   *testutil.SchoolRepository
	usrRepo      *testutil.UserRepository
	fieldRepo    *testutil.FieldRepository
	scheduleRepo *testutil.ScheduleRepository
	breakRepo    *testutil.BreakRepository
	levelRepo    *testutil.LevelRepository
	groupRepo    *testutil.GroupRepository
	subjectRepo  *testutil.SubjectRepository
	teacherRepo  *testutil.TeacherRepository
	tfRepo       *testutil.TeacherFieldRepository
	classRepo    *testutil.ClassRepository

	errMissingToken = msgResp{Msg: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	// set up DB & repos
	db = testutil.NewFakeDB()
	schoolRepo = testutil.NewSchoolRepository(db)
	usrRepo = testutil.NewUserRepository(db)
	fieldRepo = testutil.NewFieldRepository(db)
	scheduleRepo = testutil.NewScheduleRepository(db)
	breakRepo = testutil.NewBreakRepository(db)
	levelRepo = testutil.NewLevelRepository(db)
	groupRepo = testutil.NewGroupRepository(db)
	subjectRepo = testutil.NewSubjectRepository(db)
	teacherRepo = testutil.NewTeacherRepository(db)
	tfRepo = testutil.NewTeacherFieldRepository(db)
	classRepo = testutil.NewClassRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()

	// set up server
	app = NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
			SchoolSvc:      school.NewService(schoolRepo),
			UserSvc:        user.NewService(usrRepo, schoolRepo, mailSvc),
			FieldSvc:       field.NewService(fieldRepo, schoolRepo),
			ScheduleSvc:    schedule.NewService(scheduleRepo, breakRepo, schoolRepo),
			LevelSvc:       level.NewService(levelRepo, scheduleRepo),
			GroupSvc:       group.NewService(groupRepo, levelRepo, schoolRepo, usrRepo),
			SubjectSvc:     subject.NewService(subjectRepo, groupRepo, fieldRepo),
			TeacherSvc:     teacher.NewService(teacherRepo, tfRepo, usrRepo, schoolRepo, fieldRepo),
			ClassSvc:       class.NewService(classRepo, subjectRepo, tfRepo),
		},
		nil, /* shutdown */
	)

	os.Exit(m.Run())
}

type (
	msgResp struct {
		Msg string `json:"msg"`
	}

	successResp struct {
		Success bool   `json:"success"`
		Msg     string `json:"msg"`
	}

	fieldErr struct {
		Location string      `json:"location"`
		Param    string      `json:"param"`
		Msg      string      `json:"msg"`
		Value    interface{} `json:"value,omitempty"`
	}

	httpTest struct {
		name     string
		method   string
		path     string
		body     []byte
		token    string
		wantCode int
		wantData []byte
		extra    interface{}
	}
)

var errMissingSchoolID = []fieldErr{{Location: "body", Param: "school_id", Msg: "Please add a school id"}}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
