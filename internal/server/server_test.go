package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/abhisek/tutorium/internal/lessons"
	"github.com/abhisek/tutorium/internal/llm"
	"github.com/abhisek/tutorium/internal/teacher"
	"github.com/abhisek/tutorium/internal/topicgraph"
)

const serverLessonJSON = `{
	"title": "Basic Arithmetic",
	"explanation": "Addition combines two quantities.",
	"example": "1. 2 + 3. 2. Count on from 2. 3. The result is 5.",
	"question": {"text": "What is 4 + 3?", "answer": "7", "hint": "Count on from 4."}
}`

func newTestServer(t *testing.T, responses ...llm.MockResponse) (*Server, *llm.MockProvider) {
	t.Helper()
	graph, err := topicgraph.New(topicgraph.DefaultCurriculum(), nil)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	mock := llm.NewMockProvider(responses...)
	svc := lessons.NewService(mock, lessons.DefaultConfig())
	return New(graph, teacher.DefaultConfig(), svc, nil), mock
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
		}
	}
	return w, out
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	w, body := doJSON(t, s.Handler(), http.MethodPost, "/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session status = %d", w.Code)
	}
	id, _ := body["session_id"].(string)
	if id == "" {
		t.Fatal("no session_id in create response")
	}
	return id
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w, body := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestTopics(t *testing.T) {
	s, _ := newTestServer(t)
	w, body := doJSON(t, s.Handler(), http.MethodGet, "/topics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["count"].(float64) == 0 {
		t.Error("count = 0, want seeded curriculum")
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	id := createSession(t, s)

	w, body := doJSON(t, s.Handler(), http.MethodGet, "/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get session status = %d", w.Code)
	}
	belief := body["belief"].(map[string]any)
	if belief["expected_value"].(float64) != 1.0 {
		t.Errorf("initial expected_value = %v, want 1.0 from Gamma(1,1)", belief["expected_value"])
	}

	w, _ = doJSON(t, s.Handler(), http.MethodDelete, "/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	w, _ = doJSON(t, s.Handler(), http.MethodGet, "/sessions/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{
		"/sessions/nope",
		"/sessions/nope/belief",
		"/sessions/nope/progress",
	} {
		w, _ := doJSON(t, s.Handler(), http.MethodGet, path, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, w.Code)
		}
	}
}

func TestLessonAndAnswerFlow(t *testing.T) {
	s, _ := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(serverLessonJSON)},
		llm.MockResponse{Content: json.RawMessage(`{"correct":true,"feedback":"That is right."}`)},
	)
	id := createSession(t, s)

	w, body := doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/lesson", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("lesson status = %d, body %v", w.Code, body)
	}
	lesson := body["lesson"].(map[string]any)
	if lesson["question"] != "What is 4 + 3?" {
		t.Errorf("question = %v", lesson["question"])
	}

	w, body = doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/answer",
		map[string]any{"answer": "7"})
	if w.Code != http.StatusOK {
		t.Fatalf("answer status = %d, body %v", w.Code, body)
	}
	if body["correct"] != true {
		t.Errorf("correct = %v, want true", body["correct"])
	}
	belief := body["belief"].(map[string]any)
	if belief["history_length"].(float64) != 1 {
		t.Errorf("history_length = %v, want 1", belief["history_length"])
	}
}

func TestAnswerWithoutLesson(t *testing.T) {
	s, _ := newTestServer(t)
	id := createSession(t, s)

	w, _ := doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/answer",
		map[string]any{"answer": "7"})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 without an active lesson", w.Code)
	}
}

func TestNextTopicWithDirectObservation(t *testing.T) {
	s, _ := newTestServer(t)
	id := createSession(t, s)

	w, body := doJSON(t, s.Handler(), http.MethodGet, "/sessions/"+id+"/next", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("next status = %d", w.Code)
	}
	topic := body["topic"].(map[string]any)
	if topic["name"] == "" {
		t.Fatal("no topic name in next response")
	}

	// No lesson exists, but a direct correctness report still works.
	correct := true
	w, body = doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/answer",
		map[string]any{"correct": &correct})
	if w.Code != http.StatusOK {
		t.Fatalf("answer status = %d, body %v", w.Code, body)
	}

	// Grading a free-text answer without a lesson is still rejected.
	doJSON(t, s.Handler(), http.MethodGet, "/sessions/"+id+"/next", nil)
	w, _ = doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/answer",
		map[string]any{"answer": "7"})
	if w.Code != http.StatusConflict {
		t.Errorf("graded answer without lesson status = %d, want 409", w.Code)
	}
}

func TestAnswerDirectObservation(t *testing.T) {
	s, _ := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(serverLessonJSON)},
	)
	id := createSession(t, s)

	w, _ := doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/lesson", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("lesson status = %d", w.Code)
	}

	// Direct correctness bypasses LLM grading; no grading response is
	// queued, so this fails if the handler calls the provider.
	correct := true
	w, body := doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/answer",
		map[string]any{"correct": &correct})
	if w.Code != http.StatusOK {
		t.Fatalf("answer status = %d, body %v", w.Code, body)
	}
	if body["correct"] != true {
		t.Errorf("correct = %v", body["correct"])
	}
}

func TestProgressAndReset(t *testing.T) {
	s, _ := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(serverLessonJSON)},
	)
	id := createSession(t, s)

	// Empty session: summary is null.
	w, body := doJSON(t, s.Handler(), http.MethodGet, "/sessions/"+id+"/progress", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("progress status = %d", w.Code)
	}
	if body["summary"] != nil {
		t.Errorf("summary = %v, want null before any answers", body["summary"])
	}

	doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/lesson", nil)
	correct := false
	doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/answer",
		map[string]any{"correct": &correct})

	w, body = doJSON(t, s.Handler(), http.MethodGet, "/sessions/"+id+"/progress", nil)
	summary := body["summary"].(map[string]any)
	if summary["total"].(float64) != 1 {
		t.Errorf("total = %v, want 1", summary["total"])
	}

	w, _ = doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/reset", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}

	_, body = doJSON(t, s.Handler(), http.MethodGet, "/sessions/"+id, nil)
	belief := body["belief"].(map[string]any)
	if belief["history_length"].(float64) != 0 {
		t.Errorf("history_length after reset = %v, want 0", belief["history_length"])
	}
}

func TestBeliefEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	id := createSession(t, s)

	w, body := doJSON(t, s.Handler(), http.MethodGet, "/sessions/"+id+"/belief", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("belief status = %d", w.Code)
	}
	samples := body["samples"].([]any)
	if len(samples) != 200 {
		t.Errorf("len(samples) = %d, want 200", len(samples))
	}
	if body["variance"].(float64) != 1.0 {
		t.Errorf("variance = %v, want 1.0 for Gamma(1,1)", body["variance"])
	}
}

func TestWebsocketBeliefUpdates(t *testing.T) {
	s, _ := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(serverLessonJSON)},
	)
	id := createSession(t, s)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + id
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/lesson", nil)
	correct := true
	doJSON(t, s.Handler(), http.MethodPost, "/sessions/"+id+"/answer",
		map[string]any{"correct": &correct})

	var msg map[string]any
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	if msg["type"] != "belief_update" {
		t.Errorf("type = %v, want belief_update", msg["type"])
	}
	if msg["correct"] != true {
		t.Errorf("correct = %v, want true", msg["correct"])
	}
}
