package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestServer() *Server {
	return NewServer(0, log.New(io.Discard))
}

func createTestSession(t *testing.T, s *Server, query string) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/session?"+query, nil)
	rec := httptest.NewRecorder()
	s.handleNewSession(rec, req)

	if rec.Code != 200 {
		t.Fatalf("session creation failed with status %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid session response: %v", err)
	}
	if body["sessionId"] == "" {
		t.Fatal("session response has no id")
	}
	return body["sessionId"]
}

func TestHandleNewSession(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s, "scene=default&width=64&height=64")

	if s.lookupSession(id) == nil {
		t.Error("created session should be retrievable")
	}
	if s.lookupSession("not-a-session") != nil {
		t.Error("unknown id should not resolve")
	}

	// two sessions get distinct ids
	other := createTestSession(t, s, "scene=instanced&width=64&height=64")
	if other == id {
		t.Error("sessions should have unique ids")
	}
}

func TestHandleNewSession_Errors(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name  string
		query string
	}{
		{"unknown scene", "scene=nope"},
		{"width too small", "scene=default&width=5"},
		{"bad height", "scene=default&height=banana"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/session?"+tt.query, nil)
			rec := httptest.NewRecorder()
			s.handleNewSession(rec, req)
			if rec.Code == 200 {
				t.Errorf("Expected an error status, got 200: %s", rec.Body.String())
			}
		})
	}
}

func TestHandleRender(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s, "scene=default&width=64&height=48")

	req := httptest.NewRequest("GET", "/api/render?session="+id, nil)
	rec := httptest.NewRecorder()
	s.handleRender(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "event: frame") {
		t.Errorf("Expected a frame event, got: %s", body)
	}
	if !strings.Contains(body, "event: complete") {
		t.Errorf("Expected a complete event, got: %s", body)
	}
	if !strings.Contains(body, id) {
		t.Error("Frame update should echo the session id")
	}
}

func TestHandleRender_UnknownSession(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest("GET", "/api/render?session=ghost", nil)
	rec := httptest.NewRecorder()
	s.handleRender(rec, req)

	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("Expected an error event, got: %s", rec.Body.String())
	}
}

func TestHandleCamera(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s, "scene=default&width=64&height=48")

	sess := s.lookupSession(id)
	eyeBefore := sess.engine.Camera().Eye()

	req := httptest.NewRequest("GET", "/api/camera?session="+id+"&op=translate&v=0,0,-1", nil)
	rec := httptest.NewRecorder()
	s.handleCamera(rec, req)

	if !strings.Contains(rec.Body.String(), "event: frame") {
		t.Fatalf("Expected a frame event, got: %s", rec.Body.String())
	}
	if sess.engine.Camera().Eye() == eyeBefore {
		t.Error("translate op should have moved the camera")
	}
}

func TestApplyCameraOp_Errors(t *testing.T) {
	s := newTestServer()
	id := createTestSession(t, s, "scene=default&width=64&height=48")
	sess := s.lookupSession(id)

	tests := []struct {
		name  string
		query string
	}{
		{"unknown op", "op=warp"},
		{"missing vector", "op=translate"},
		{"malformed vector", "op=translate&v=1,2"},
		{"angle out of range", "op=rotate&axis=0,1,0&angle=720"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			if err := applyCameraOp(sess, values); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestParseVec3Param(t *testing.T) {
	values := url.Values{"v": []string{"1.5,-2,0.25"}}
	v, err := parseVec3Param(values, "v")
	if err != nil {
		t.Fatalf("parseVec3Param failed: %v", err)
	}
	if v.X != 1.5 || v.Y != -2 || v.Z != 0.25 {
		t.Errorf("Expected (1.5,-2,0.25), got %v", v)
	}
}
