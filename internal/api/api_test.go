package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/8bitgaijin/Learniverse-sub000/internal/api"
	"github.com/8bitgaijin/Learniverse-sub000/internal/catalog"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository/sqlite"
	"github.com/8bitgaijin/Learniverse-sub000/internal/services"
	"github.com/8bitgaijin/Learniverse-sub000/internal/testutil"
)

// APISuite exercises the JSON gateway end to end over a real store.
type APISuite struct {
	suite.Suite
	db     *sql.DB
	server *httptest.Server
}

func (s *APISuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())

	students := sqlite.NewStudentRepository(s.db)
	lessons := sqlite.NewLessonRepository(s.db)
	sessions := sqlite.NewSessionRepository(s.db)
	sessionLessons := sqlite.NewSessionLessonRepository(s.db)
	progress := sqlite.NewProgressRepository(s.db)

	s.Require().NoError(catalog.Seed(context.Background(), lessons))

	srv := &api.Server{
		Students: services.NewStudentService(students),
		Sessions: services.NewSessionService(students, sessions),
		Progress: services.NewProgressService(sessions, lessons, sessionLessons, progress),
		Skips:    services.NewSkipService(students, lessons, sessionLessons),
		Streaks:  services.NewStreakService(students, sessions),
		Reports:  services.NewReportService(students, sessions, sessionLessons),
	}
	s.server = httptest.NewServer(srv.Routes())
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
	testutil.MustClose(s.T(), s.db)
}

func (s *APISuite) postJSON(path string, payload any) (*http.Response, map[string]any) {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	return resp, s.decodeBody(resp)
}

func (s *APISuite) getJSON(path string) (*http.Response, map[string]any) {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp, s.decodeBody(resp)
}

func (s *APISuite) decodeBody(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var out map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *APISuite) registerStudent(name string) {
	resp, _ := s.postJSON("/students", map[string]any{"name": name})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
}

func (s *APISuite) startSession(name string) int64 {
	resp, body := s.postJSON("/sessions", map[string]any{"student": name})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	return int64(body["session_id"].(float64))
}

func (s *APISuite) TestFullSessionFlow() {
	s.registerStudent("Mina")
	sessionID := s.startSession("Mina")

	// A perfect score advances the mastery level to 2.
	resp, body := s.postJSON(fmt.Sprintf("/sessions/%d/result", sessionID), map[string]any{
		"lesson":            "Rainbow Numbers",
		"questions_asked":   5,
		"questions_correct": 5,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal(float64(2), body["level"])

	resp, _ = s.postJSON(fmt.Sprintf("/sessions/%d/skip", sessionID), map[string]any{
		"lesson": "Skip Counting",
	})
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	resp, _ = s.postJSON(fmt.Sprintf("/sessions/%d/end", sessionID), map[string]any{
		"total_questions":       5,
		"total_correct":         5,
		"avg_time_per_question": 2.0,
	})
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	resp, report := s.getJSON(fmt.Sprintf("/sessions/%d/report", sessionID))
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal("Mina", report["student"])
	s.Assert().NotNil(report["end_time"])
	rows := report["lessons"].([]any)
	s.Require().Len(rows, 2)
}

func (s *APISuite) TestImperfectScoreLeavesLevel() {
	s.registerStudent("Mina")
	sessionID := s.startSession("Mina")

	resp, body := s.postJSON(fmt.Sprintf("/sessions/%d/result", sessionID), map[string]any{
		"lesson":            "Rainbow Numbers",
		"questions_asked":   5,
		"questions_correct": 4,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal(float64(1), body["level"])
}

func (s *APISuite) TestStartSessionFlagsIncompleteToday() {
	s.registerStudent("Mina")
	s.startSession("Mina")

	// The first session was never ended, so the second start flags it.
	resp, body := s.postJSON("/sessions", map[string]any{"student": "Mina"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Assert().Equal(true, body["incomplete_session_today"])
}

func (s *APISuite) TestStartSessionUnknownStudent() {
	resp, body := s.postJSON("/sessions", map[string]any{"student": "Nobody"})
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)

	errObj := body["error"].(map[string]any)
	s.Assert().Equal("NOT_FOUND", errObj["code"])
}

func (s *APISuite) TestRecordResultRejectsBadCounts() {
	s.registerStudent("Mina")
	sessionID := s.startSession("Mina")

	resp, body := s.postJSON(fmt.Sprintf("/sessions/%d/result", sessionID), map[string]any{
		"lesson":            "Rainbow Numbers",
		"questions_asked":   5,
		"questions_correct": 6,
	})
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)

	errObj := body["error"].(map[string]any)
	s.Assert().Equal("VALIDATION_ERROR", errObj["code"])
}

func (s *APISuite) TestStreakEndpoint() {
	s.registerStudent("Mina")

	resp, body := s.getJSON("/students/Mina/streak")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Assert().Equal(float64(0), body["streak"])
}

func (s *APISuite) TestHealthEndpoint() {
	resp, err := http.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
