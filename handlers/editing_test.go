// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/propose/cliparse"
	"github.com/danielhkuo/propose/editor"
	"github.com/danielhkuo/propose/store"
	"github.com/danielhkuo/propose/testutil"
)

type editState struct {
	SessionID  string                     `json:"session_id"`
	ProposalID string                     `json:"proposal_id"`
	StepIndex  int                        `json:"step_index"`
	StepCount  int                        `json:"step_count"`
	Progress   int                        `json:"progress"`
	Answers    map[string]json.RawMessage `json:"answers"`
	Unsaved    bool                       `json:"unsaved"`
	Save       struct {
		State        string `json:"state"`
		Unauthorized bool   `json:"unauthorized"`
	} `json:"save"`
}

type editFixture struct {
	db         *sql.DB
	cfg        cliparse.Config
	clock      *testutil.ManualClock
	handler    *EditHandler
	proposalID string
	headers    map[string]string
}

func setupEditFixture(t *testing.T) *editFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	clock := &testutil.ManualClock{}

	manager := editor.NewManager(editor.Config{
		Proposals: store.NewRecords(db),
		Answers:   store.NewAnswers(db),
		Delay:     cfg.AutosaveDelay,
		Scheduler: clock,
	})
	t.Cleanup(func() { manager.CloseAll() })

	clientID := testutil.CreateTestClient(t, db, "owner-1", "Acme")
	proposalID := testutil.CreateTestProposal(t, db, "owner-1", clientID, "Website", "")

	return &editFixture{
		db:         db,
		cfg:        cfg,
		clock:      clock,
		handler:    NewEditHandler(manager, cfg),
		proposalID: proposalID,
		headers:    testutil.AuthHeaders(cfg, "owner-1"),
	}
}

func (f *editFixture) open(t *testing.T) editState {
	t.Helper()
	req := testutil.MakeRequest("POST", "/proposals/"+f.proposalID+"/edit", nil, f.headers)
	req.SetPathValue("id", f.proposalID)
	w := httptest.NewRecorder()
	f.handler.OpenSession(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var st editState
	testutil.AssertJSON(t, w, &st)
	return st
}

// call invokes one of the /edit/{session} handlers and returns the recorder.
func (f *editFixture) call(h http.HandlerFunc, method, sessionID, key string, body interface{}) *httptest.ResponseRecorder {
	path := "/edit/" + sessionID
	req := testutil.MakeRequest(method, path, body, f.headers)
	req.SetPathValue("session", sessionID)
	if key != "" {
		req.SetPathValue("key", key)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestOpenSession(t *testing.T) {
	f := setupEditFixture(t)

	st := f.open(t)
	if st.SessionID == "" {
		t.Fatal("Expected a session ID")
	}
	if st.ProposalID != f.proposalID {
		t.Errorf("Expected proposal %s, got %s", f.proposalID, st.ProposalID)
	}
	if st.StepIndex != 0 || st.StepCount != 5 || st.Progress != 20 {
		t.Errorf("Unexpected wizard position: %+v", st)
	}
	if st.Save.State != "idle" {
		t.Errorf("Expected idle save state, got %s", st.Save.State)
	}

	// Not the owner
	req := testutil.MakeRequest("POST", "/proposals/"+f.proposalID+"/edit", nil, testutil.AuthHeaders(f.cfg, "owner-2"))
	req.SetPathValue("id", f.proposalID)
	w := httptest.NewRecorder()
	f.handler.OpenSession(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// No session token
	req = testutil.MakeRequest("POST", "/proposals/"+f.proposalID+"/edit", nil, nil)
	req.SetPathValue("id", f.proposalID)
	w = httptest.NewRecorder()
	f.handler.OpenSession(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestEditAndAutosave(t *testing.T) {
	f := setupEditFixture(t)
	sessionID := f.open(t).SessionID

	w := f.call(f.handler.SetAnswer, "PUT", sessionID, "businessName", map[string]interface{}{"value": "Acme"})
	testutil.AssertStatus(t, w, http.StatusOK)

	w = f.call(f.handler.ToggleOption, "POST", sessionID, "services", map[string]string{"option": "SEO"})
	testutil.AssertStatus(t, w, http.StatusOK)

	var st editState
	testutil.AssertJSON(t, w, &st)
	if !st.Unsaved {
		t.Error("Expected unsaved changes before the autosave delay")
	}
	if got := testutil.LoadTestAnswers(t, f.db, f.proposalID); got != "" {
		t.Errorf("Expected no write yet, got %s", got)
	}

	f.clock.Advance(f.cfg.AutosaveDelay)

	var saved map[string]interface{}
	if err := json.Unmarshal([]byte(testutil.LoadTestAnswers(t, f.db, f.proposalID)), &saved); err != nil {
		t.Fatalf("Failed to decode stored answers: %v", err)
	}
	if saved["businessName"] != "Acme" {
		t.Errorf("Expected businessName 'Acme', got %v", saved["businessName"])
	}

	w = f.call(f.handler.GetSession, "GET", sessionID, "", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	st = editState{}
	testutil.AssertJSON(t, w, &st)
	if st.Save.State != "saved" || st.Unsaved {
		t.Errorf("Expected saved state, got %+v", st.Save)
	}
}

func TestFailedSaveHidesStoreErrors(t *testing.T) {
	f := setupEditFixture(t)
	sessionID := f.open(t).SessionID

	f.call(f.handler.SetAnswer, "PUT", sessionID, "businessName", map[string]interface{}{"value": "Acme"})
	f.db.Close()
	f.clock.Advance(f.cfg.AutosaveDelay)

	w := f.call(f.handler.GetSession, "GET", sessionID, "", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	body := w.Body.String()
	if strings.Contains(body, "sql:") || strings.Contains(body, "database is closed") {
		t.Errorf("Expected no driver text in session state, got %s", body)
	}

	var st struct {
		Save struct {
			State  string `json:"state"`
			Reason string `json:"reason"`
		} `json:"save"`
		Answers map[string]json.RawMessage `json:"answers"`
	}
	testutil.AssertJSON(t, w, &st)
	if st.Save.State != "failed" || st.Save.Reason != "Autosave failed" {
		t.Errorf("Expected failed save with generic reason, got %+v", st.Save)
	}
	if string(st.Answers["businessName"]) != `"Acme"` {
		t.Errorf("Expected typed answer to survive the failure, got %s", st.Answers["businessName"])
	}
}

func TestToggleTwiceLeavesEmptySelection(t *testing.T) {
	f := setupEditFixture(t)
	sessionID := f.open(t).SessionID

	f.call(f.handler.ToggleOption, "POST", sessionID, "services", map[string]string{"option": "SEO"})
	w := f.call(f.handler.ToggleOption, "POST", sessionID, "services", map[string]string{"option": "SEO"})
	testutil.AssertStatus(t, w, http.StatusOK)

	var st editState
	testutil.AssertJSON(t, w, &st)
	if string(st.Answers["services"]) != "[]" {
		t.Errorf("Expected services to be [], got %s", st.Answers["services"])
	}
}

func TestSetAnswerValidation(t *testing.T) {
	f := setupEditFixture(t)
	sessionID := f.open(t).SessionID

	tests := []struct {
		name string
		key  string
		body interface{}
	}{
		{"unknown step", "favouriteColour", map[string]interface{}{"value": "blue"}},
		{"list for text step", "businessName", map[string]interface{}{"value": []string{"a"}}},
		{"text for multi-select", "services", map[string]interface{}{"value": "SEO"}},
		{"option outside catalog", "services", map[string]interface{}{"value": []string{"Catering"}}},
		{"number", "businessName", map[string]interface{}{"value": 42}},
		{"missing value", "businessName", map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.call(f.handler.SetAnswer, "PUT", sessionID, tt.key, tt.body)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}

	if f.clock.Pending() != 0 {
		t.Error("Rejected edits must not schedule a save")
	}
}

func TestNavigation(t *testing.T) {
	f := setupEditFixture(t)
	sessionID := f.open(t).SessionID

	w := f.call(f.handler.Retreat, "POST", sessionID, "", nil)
	var st editState
	testutil.AssertJSON(t, w, &st)
	if st.StepIndex != 0 {
		t.Errorf("Expected retreat at first step to stay at 0, got %d", st.StepIndex)
	}

	for i := 0; i < 3; i++ {
		w = f.call(f.handler.Advance, "POST", sessionID, "", nil)
	}
	st = editState{}
	testutil.AssertJSON(t, w, &st)
	if st.StepIndex != 3 || st.Progress != 80 {
		t.Errorf("Expected step 3 at 80%%, got step %d at %d%%", st.StepIndex, st.Progress)
	}

	if f.clock.Pending() != 0 {
		t.Error("Navigation must not schedule a save")
	}
}

func TestRetrySave(t *testing.T) {
	f := setupEditFixture(t)
	sessionID := f.open(t).SessionID

	f.call(f.handler.SetAnswer, "PUT", sessionID, "timeline", map[string]interface{}{"value": "6 weeks"})

	w := f.call(f.handler.RetrySave, "POST", sessionID, "", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	if got := testutil.LoadTestAnswers(t, f.db, f.proposalID); got == "" {
		t.Error("Expected retry to write immediately")
	}
}

func TestCloseSession(t *testing.T) {
	f := setupEditFixture(t)
	sessionID := f.open(t).SessionID

	f.call(f.handler.SetAnswer, "PUT", sessionID, "businessName", map[string]interface{}{"value": "Acme"})

	w := f.call(f.handler.CloseSession, "DELETE", sessionID, "", nil)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	f.clock.Advance(time.Second)
	if got := testutil.LoadTestAnswers(t, f.db, f.proposalID); got != "" {
		t.Errorf("Expected the pending save to be dropped, got %s", got)
	}

	w = f.call(f.handler.GetSession, "GET", sessionID, "", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSessionBelongsToOpener(t *testing.T) {
	f := setupEditFixture(t)
	sessionID := f.open(t).SessionID

	req := testutil.MakeRequest("GET", "/edit/"+sessionID, nil, testutil.AuthHeaders(f.cfg, "owner-2"))
	req.SetPathValue("session", sessionID)
	w := httptest.NewRecorder()
	f.handler.GetSession(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
