package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/mood-journal/internal/audit"
	"github.com/BruksfildServices01/mood-journal/internal/config"
	dbpkg "github.com/BruksfildServices01/mood-journal/internal/db"
	"github.com/BruksfildServices01/mood-journal/internal/timezone"
)

type logJSON struct {
	ID         uint      `json:"id"`
	User       *uint     `json:"user"`
	Mood       int       `json:"mood"`
	SleepHours float64   `json:"sleep_hours"`
	Music      string    `json:"music"`
	Social     int       `json:"social"`
	CreatedAt  time.Time `json:"created_at"`
}

type errorJSON struct {
	Code   string              `json:"error_code"`
	Fields map[string][]string `json:"fields"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T, policy string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(dbpkg.SQLiteDSN(":memory:")), &gorm.Config{
		TranslateError: true,
		NowFunc:        timezone.Clock(),
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	cfg := &config.Config{
		SecretKey:      "test-secret",
		TokenTTL:       time.Hour,
		AccessPolicy:   policy,
		AllowedOrigins: []string{"http://localhost:5173"},
	}

	dispatcher := audit.NewDispatcher(audit.New(db), zap.NewNop())
	t.Cleanup(func() {
		dispatcher.Close()
		sqlDB.Close()
	})

	r := gin.New()
	RegisterRoutes(r, Deps{DB: db, Config: cfg, Log: zap.NewNop(), Audit: dispatcher})

	return &testServer{t: t, engine: r, db: db}
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	return v
}

func (s *testServer) register(username string) (uint, string) {
	s.t.Helper()
	rec := s.do("POST", "/api/users/", fmt.Sprintf(`{"username": %q, "password": "password123"}`, username), "")
	if rec.Code != http.StatusCreated {
		s.t.Fatalf("register %s: %d %s", username, rec.Code, rec.Body.String())
	}
	user := decode[struct {
		ID uint `json:"id"`
	}](s.t, rec)

	rec = s.do("POST", "/api/auth/token/", fmt.Sprintf(`{"username": %q, "password": "password123"}`, username), "")
	if rec.Code != http.StatusOK {
		s.t.Fatalf("token %s: %d %s", username, rec.Code, rec.Body.String())
	}
	tok := decode[struct {
		Token string `json:"token"`
	}](s.t, rec)
	return user.ID, tok.Token
}

const exampleBody = `{"mood": 3, "sleep_hours": 6.5, "music": "lofi", "social": 2}`

func TestLogsAPI_ExampleLifecycle(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)

	rec := s.do("POST", "/api/logs/", exampleBody, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	created := decode[logJSON](t, rec)
	if created.ID != 1 || created.User != nil || created.Mood != 3 || created.SleepHours != 6.5 ||
		created.Music != "lofi" || created.Social != 2 || created.CreatedAt.IsZero() {
		t.Errorf("unexpected created log %+v", created)
	}

	raw := decode[map[string]any](t, rec)
	if v, ok := raw["user"]; !ok || v != nil {
		t.Errorf("user must be present and null, got %v (present=%v)", v, ok)
	}

	rec = s.do("GET", "/api/logs/1/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("retrieve: %d %s", rec.Code, rec.Body.String())
	}
	got := decode[logJSON](t, rec)
	if got.ID != created.ID || !got.CreatedAt.Equal(created.CreatedAt) || got.Music != created.Music {
		t.Errorf("retrieve mismatch: %+v vs %+v", got, created)
	}

	rec = s.do("DELETE", "/api/logs/1/", "", "")
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("delete: %d %q", rec.Code, rec.Body.String())
	}

	rec = s.do("GET", "/api/logs/1/", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("retrieve after delete: %d", rec.Code)
	}

	rec = s.do("DELETE", "/api/logs/1/", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: %d", rec.Code)
	}
}

func TestLogsAPI_ListNewestFirst(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)

	for mood := 1; mood <= 4; mood++ {
		body := fmt.Sprintf(`{"mood": %d, "sleep_hours": 7, "music": "rock", "social": 1}`, mood)
		if rec := s.do("POST", "/api/logs/", body, ""); rec.Code != http.StatusCreated {
			t.Fatalf("create %d: %d %s", mood, rec.Code, rec.Body.String())
		}
	}

	rec := s.do("GET", "/api/logs/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	logs := decode[[]logJSON](t, rec)
	if len(logs) != 4 {
		t.Fatalf("expected 4 logs, got %d", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if logs[i-1].CreatedAt.Before(logs[i].CreatedAt) || logs[i-1].ID < logs[i].ID {
			t.Errorf("list not newest first at %d: %+v then %+v", i, logs[i-1], logs[i])
		}
	}
	if logs[0].Mood != 4 {
		t.Errorf("newest log should come first, got mood %d", logs[0].Mood)
	}
}

func TestLogsAPI_EmptyListIsArray(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)

	rec := s.do("GET", "/api/logs/", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "[]" {
		t.Errorf("empty list: %d %q", rec.Code, rec.Body.String())
	}
}

func TestLogsAPI_CreateValidation(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)

	rec := s.do("POST", "/api/logs/", `{"mood": "happy", "sleep_hours": 6, "social": 1}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decode[errorJSON](t, rec)
	if body.Code != "invalid_request" {
		t.Errorf("error_code = %q", body.Code)
	}
	if len(body.Fields["mood"]) == 0 || len(body.Fields["music"]) == 0 {
		t.Errorf("expected mood and music errors, got %v", body.Fields)
	}

	rec = s.do("POST", "/api/logs/", `{"mood": 1, "sleep_hours": 6, "music": "x", "social": 1, "user": 77}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown user: expected 400, got %d %s", rec.Code, rec.Body.String())
	}
	if body := decode[errorJSON](t, rec); len(body.Fields["user"]) == 0 {
		t.Errorf("expected user field error, got %v", body.Fields)
	}

	rec = s.do("POST", "/api/logs/", `not json`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", rec.Code)
	}
}

func TestLogsAPI_PutRequiresAllFieldsPatchDoesNot(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)

	rec := s.do("POST", "/api/logs/", exampleBody, "")
	created := decode[logJSON](t, rec)
	path := fmt.Sprintf("/api/logs/%d/", created.ID)

	rec = s.do("PUT", path, `{"mood": 5}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("partial PUT: expected 400, got %d", rec.Code)
	}

	rec = s.do("PATCH", path, `{"mood": 5, "id": 99, "created_at": "2000-01-01T00:00:00Z"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH: %d %s", rec.Code, rec.Body.String())
	}
	patched := decode[logJSON](t, rec)
	if patched.ID != created.ID || !patched.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("PATCH changed identity: %+v vs %+v", patched, created)
	}
	if patched.Mood != 5 || patched.Music != "lofi" {
		t.Errorf("PATCH result %+v", patched)
	}

	rec = s.do("PUT", path, `{"mood": 9, "sleep_hours": 8, "music": "jazz", "social": 0}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT: %d %s", rec.Code, rec.Body.String())
	}
	put := decode[logJSON](t, rec)
	if put.Mood != 9 || put.SleepHours != 8 || put.Music != "jazz" || put.Social != 0 ||
		!put.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("PUT result %+v", put)
	}

	rec = s.do("PATCH", "/api/logs/999/", `{"mood": 1}`, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("PATCH missing: expected 404, got %d", rec.Code)
	}
}

func TestLogsAPI_UpdateMissingIsNotFoundBeforeValidation(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)

	cases := []struct {
		method string
		body   string
	}{
		{"PUT", `{}`},
		{"PUT", `not json`},
		{"PATCH", `{"mood": "x"}`},
	}
	for _, tc := range cases {
		rec := s.do(tc.method, "/api/logs/999/", tc.body, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s /api/logs/999/ %s: expected 404, got %d %s", tc.method, tc.body, rec.Code, rec.Body.String())
		}
	}

	owner := newTestServer(t, config.PolicyOwner)
	_, anaToken := owner.register("ana")
	_, boToken := owner.register("bo")
	created := decode[logJSON](t, owner.do("POST", "/api/logs/", exampleBody, anaToken))

	rec := owner.do("PUT", fmt.Sprintf("/api/logs/%d/", created.ID), `{}`, boToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign PUT with invalid body: expected 404, got %d", rec.Code)
	}
}

func TestLogsAPI_NonNumericID(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)

	for _, method := range []string{"GET", "PATCH", "DELETE"} {
		if rec := s.do(method, "/api/logs/abc/", `{}`, ""); rec.Code != http.StatusNotFound {
			t.Errorf("%s /api/logs/abc/: expected 404, got %d", method, rec.Code)
		}
	}
}

func TestLogsAPI_OpenPolicyAttributesCaller(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)
	userID, token := s.register("ana")

	rec := s.do("POST", "/api/logs/", exampleBody, token)
	created := decode[logJSON](t, rec)
	if created.User == nil || *created.User != userID {
		t.Errorf("expected log attributed to %d, got %v", userID, created.User)
	}

	rec = s.do("GET", "/api/logs/", "", "")
	if logs := decode[[]logJSON](t, rec); len(logs) != 1 {
		t.Errorf("open policy: anonymous callers see all logs, got %d", len(logs))
	}
}

func TestLogsAPI_OwnerPolicy(t *testing.T) {
	s := newTestServer(t, config.PolicyOwner)
	_, anaToken := s.register("ana")
	_, boToken := s.register("bo")

	if rec := s.do("GET", "/api/logs/", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list: expected 401, got %d", rec.Code)
	}

	rec := s.do("POST", "/api/logs/", exampleBody, anaToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	anaLog := decode[logJSON](t, rec)
	path := fmt.Sprintf("/api/logs/%d/", anaLog.ID)

	rec = s.do("GET", "/api/logs/", "", boToken)
	if logs := decode[[]logJSON](t, rec); len(logs) != 0 {
		t.Errorf("bo should see no logs, got %d", len(logs))
	}
	if rec := s.do("GET", path, "", boToken); rec.Code != http.StatusNotFound {
		t.Errorf("bo retrieve: expected 404, got %d", rec.Code)
	}
	if rec := s.do("DELETE", path, "", boToken); rec.Code != http.StatusNotFound {
		t.Errorf("bo delete: expected 404, got %d", rec.Code)
	}
	if rec := s.do("GET", path, "", anaToken); rec.Code != http.StatusOK {
		t.Errorf("ana retrieve: expected 200, got %d", rec.Code)
	}
}

func TestUsersAPI_DeleteCascadesToLogs(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)
	userID, token := s.register("cy")

	rec := s.do("POST", "/api/logs/", exampleBody, token)
	owned := decode[logJSON](t, rec)
	rec = s.do("POST", "/api/logs/", exampleBody, "")
	anonymous := decode[logJSON](t, rec)

	rec = s.do("DELETE", fmt.Sprintf("/api/users/%d/", userID), "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete user: %d %s", rec.Code, rec.Body.String())
	}

	if rec := s.do("GET", fmt.Sprintf("/api/logs/%d/", owned.ID), "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("owned log should be gone, got %d", rec.Code)
	}
	if rec := s.do("GET", fmt.Sprintf("/api/logs/%d/", anonymous.ID), "", ""); rec.Code != http.StatusOK {
		t.Errorf("unowned log should remain, got %d", rec.Code)
	}
	if rec := s.do("DELETE", fmt.Sprintf("/api/users/%d/", userID), "", token); rec.Code != http.StatusNotFound {
		t.Errorf("second user delete: expected 404, got %d", rec.Code)
	}
}

func TestUsersAPI_OwnerPolicyForbidsDeletingOthers(t *testing.T) {
	s := newTestServer(t, config.PolicyOwner)
	anaID, _ := s.register("ana")
	_, boToken := s.register("bo")

	rec := s.do("DELETE", fmt.Sprintf("/api/users/%d/", anaID), "", boToken)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestUsersAPI_DeleteRequiresSelfUnderOpenPolicy(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)
	aliceID, aliceToken := s.register("alice")
	_, malloryToken := s.register("mallory")
	s.do("POST", "/api/logs/", exampleBody, aliceToken)

	path := fmt.Sprintf("/api/users/%d/", aliceID)
	if rec := s.do("DELETE", path, "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous delete: expected 401, got %d", rec.Code)
	}
	if rec := s.do("DELETE", path, "", malloryToken); rec.Code != http.StatusForbidden {
		t.Errorf("foreign delete: expected 403, got %d", rec.Code)
	}

	logs := decode[[]logJSON](t, s.do("GET", "/api/logs/", "", ""))
	if len(logs) != 1 {
		t.Errorf("alice's log should survive rejected deletes, got %d logs", len(logs))
	}
}

func TestUsersAPI_RegistrationAndToken(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)
	userID, token := s.register("dee")

	rec := s.do("POST", "/api/users/", `{"username": "dee", "password": "password123"}`, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate username: expected 409, got %d", rec.Code)
	}

	rec = s.do("POST", "/api/users/", `{"username": "eve", "password": "short", "email": "nope"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid registration: expected 400, got %d", rec.Code)
	}
	body := decode[errorJSON](t, rec)
	if len(body.Fields["password"]) == 0 || len(body.Fields["email"]) == 0 {
		t.Errorf("expected password and email errors, got %v", body.Fields)
	}

	rec = s.do("POST", "/api/auth/token/", `{"username": "dee", "password": "wrong-password"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password: expected 401, got %d", rec.Code)
	}
	rec = s.do("POST", "/api/auth/token/", `{"username": "ghost", "password": "password123"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: expected 401, got %d", rec.Code)
	}

	rec = s.do("GET", "/api/users/me/", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}
	me := decode[map[string]any](t, rec)
	if uint(me["id"].(float64)) != userID || me["username"] != "dee" {
		t.Errorf("me = %v", me)
	}
	if _, leaked := me["password_hash"]; leaked {
		t.Error("password hash must not be serialized")
	}

	if rec := s.do("GET", "/api/users/me/", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me: expected 401, got %d", rec.Code)
	}
}

func TestAuditLogsAPI(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)

	rec := s.do("POST", "/api/logs/", exampleBody, "")
	created := decode[logJSON](t, rec)
	s.do("DELETE", fmt.Sprintf("/api/logs/%d/", created.ID), "", "")

	var body struct {
		Total int64 `json:"total"`
		Logs  []struct {
			Action string `json:"action"`
		} `json:"logs"`
	}

	// The audit writer is asynchronous; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		rec = s.do("GET", "/api/audit-logs/?entity_id="+fmt.Sprint(created.ID), "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("audit list: %d %s", rec.Code, rec.Body.String())
		}
		body.Logs = nil
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Total == 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if body.Total != 2 || len(body.Logs) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", body.Total)
	}
	if body.Logs[0].Action != audit.ActionLogDeleted {
		t.Errorf("newest audit row should be the delete, got %s", body.Logs[0].Action)
	}
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t, config.PolicyOpen)

	req := httptest.NewRequest("OPTIONS", "/api/logs/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight: %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("preflight missing allow-origin")
	}

	if rec := s.do("GET", "/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("health: %d", rec.Code)
	}
}
