package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/trezcool/divyang/apps/api/echo"
	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/attendance"
	"github.com/trezcool/divyang/core/beneficiary"
	"github.com/trezcool/divyang/core/dashboard"
	"github.com/trezcool/divyang/core/document"
	"github.com/trezcool/divyang/core/report"
	"github.com/trezcool/divyang/core/user"
	emailsvc "github.com/trezcool/divyang/services/email"
	inmemdb "github.com/trezcool/divyang/storage/database/inmem"
	testutil "github.com/trezcool/divyang/tests"
)

const validPwd = "Sup3r-Secret!"

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type env struct {
	app     Server
	conf    *core.Config
	db      *inmemdb.DB
	usrRepo user.Repository
	benRepo beneficiary.Repository
	blobs   *testutil.BlobStore
	mailSvc *emailsvc.ConsoleServiceMock
	logger  *testutil.Logger

	staff, admin user.User
}

func setup(t *testing.T) *env {
	conf := testutil.NewConfig()
	db := inmemdb.NewDB()
	e := &env{
		conf:    conf,
		db:      db,
		usrRepo: inmemdb.NewUserRepository(db),
		benRepo: inmemdb.NewBeneficiaryRepository(db),
		blobs:   testutil.NewBlobStore(),
		logger:  &testutil.Logger{},
	}
	e.mailSvc = emailsvc.NewConsoleServiceMock(conf, e.logger)

	attRepo := inmemdb.NewAttendanceRepository(db)
	usrSvc := user.NewService(e.usrRepo, e.mailSvc, conf)
	benSvc := beneficiary.NewService(e.benRepo)
	docSvc := document.NewService(
		inmemdb.NewDocumentRepository(db), benSvc, e.blobs, e.mailSvc, e.logger, document.NewUploadPolicy(conf.Upload),
	)
	attSvc := attendance.NewService(attRepo, benSvc)

	e.app = NewServer(&Options{
		Conf:           conf,
		Logger:         e.logger,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		BeneficiarySvc: benSvc,
		DocumentSvc:    docSvc,
		AttendanceSvc:  attSvc,
		ReportSvc:      report.NewService(benSvc, attRepo),
		DashboardSvc:   dashboard.NewService(benSvc, docSvc, attSvc),
	})

	e.staff = testutil.CreateUser(t, e.usrRepo, "Staff", "staff@example.com", validPwd, []string{user.RoleStaff}, true)
	e.admin = testutil.CreateUser(t, e.usrRepo, "Admin", "admin@example.com", validPwd, []string{user.RoleAdmin}, true)
	return e
}

func (e *env) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.app.ServeHTTP(rec, req)
	return rec
}

func (e *env) token(t *testing.T, usr user.User) string {
	token, err := GenerateToken(e.conf, GetUserClaims(e.conf, usr))
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
}

type httpErr struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) *http.Request {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func newRequest(method, path string, data ...[]byte) *http.Request {
	return newAuthRequest(method, path, "", data...)
}

// newUploadRequest builds a multipart request carrying fields and, unless filename is empty, a file.
func newUploadRequest(t *testing.T, path, token string, fields map[string]string, filename string, content []byte) *http.Request {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func unmarshall(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("unmarshall() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, e *env, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := e.do(newAuthRequest(method, tt.path, tt.token, tt.body))
			checkCodeAndData(t, tt, rec)
		})
	}
}

func createBeneficiary(t *testing.T, e *env, name, city string) beneficiary.Beneficiary {
	return testutil.CreateBeneficiary(t, e.benRepo, name, city)
}

