package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/schooldesk/schooldesk/apps/api/echo"
	"github.com/schooldesk/schooldesk/core"
	"github.com/schooldesk/schooldesk/core/timetable"
	emailsvc "github.com/schooldesk/schooldesk/services/email"
	inmemdb "github.com/schooldesk/schooldesk/storage/database/inmem"
	testutil "github.com/schooldesk/schooldesk/tests"
)

type testApp struct {
	server  *echoapi.Server
	db      *inmemdb.DB
	mailSvc *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) testApp {
	wd, err := filepath.Abs(filepath.Join("..", "..", ".."))
	require.NoError(t, err)
	conf := &core.Config{
		AppName:          "SchoolDesk",
		TestMode:         true,
		WorkDir:          wd,
		DefaultFromEmail: "noreply@schooldesk.test",
	}
	logger := testutil.NopLogger{}
	core.ParseEmailTemplates(conf, logger)

	// set up DB & repos
	db := inmemdb.Open()
	require.NoError(t, db.Load(testutil.Roster(t)))
	repo := inmemdb.NewRosterRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	svc := timetable.NewService(repo, mailSvc, logger)
	validate, translator := testutil.NewValidator()

	// set up server
	server := echoapi.NewServer(
		echoapi.Options{TestMode: true, DisableReqLogs: true},
		echoapi.Deps{
			Logger:       logger,
			TimetableSvc: svc,
			Validate:     validate,
			Translator:   translator,
		},
	)
	return testApp{server: server, db: db, mailSvc: mailSvc}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func (app testApp) do(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newRequest(tt.method, tt.path, tt.body)
	app.server.ServeHTTP(rec, req)
	return rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
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
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code; body: %s", rec.Body.String())
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
