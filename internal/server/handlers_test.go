package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airesume/internal/db"
	"airesume/internal/interview"
	"airesume/internal/llm"
	"airesume/internal/render"
	"airesume/internal/schemas"
	"airesume/internal/server/middleware"
	"airesume/internal/types"
)

// fakeModel is an llm.Client serving queued JSON replies.
type fakeModel struct {
	replies []json.RawMessage
	err     error
	prompts []string
}

func (f *fakeModel) Generate(_ context.Context, prompt string, _ llm.Options) (string, error) {
	raw, err := f.next(prompt)
	return string(raw), err
}

func (f *fakeModel) GenerateJSON(_ context.Context, prompt string, _ llm.Options) (json.RawMessage, error) {
	return f.next(prompt)
}

func (f *fakeModel) next(prompt string) (json.RawMessage, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.replies) == 0 {
		return nil, &llm.GatewayError{Status: 500, Message: "no queued reply"}
	}
	raw := f.replies[0]
	f.replies = f.replies[1:]
	return raw, nil
}

func (f *fakeModel) queue(replies ...string) {
	for _, r := range replies {
		f.replies = append(f.replies, json.RawMessage(r))
	}
}

// newTestServer wires a Server around a fake model with no database.
func newTestServer(model llm.Client) *Server {
	return &Server{
		llm:         model,
		interviewer: interview.NewInterviewer(interview.NewStore(), model),
		workspace:   NewWorkspace(),
	}
}

func authedRequest(t *testing.T, userID uuid.UUID, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.ContentLength = int64(buf.Len())
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

const validResumeReply = `{
	"personalInfo": {"name": "Jordan Diaz", "email": "jordan@example.com"},
	"summary": "Backend engineer with six years of Go experience.",
	"skills": {"technical": ["Go", "PostgreSQL"]}
}`

func TestStartInterview(t *testing.T) {
	s := newTestServer(&fakeModel{})
	userID := uuid.New()

	rec := httptest.NewRecorder()
	s.handleStartInterview(rec, authedRequest(t, userID, "POST", "/api/startInterview", map[string]string{"level": "standard"}))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "standard", resp["level"])
	assert.Equal(t, float64(8), resp["maxQuestions"])
}

func TestGetInterviewReturnsQuestion(t *testing.T) {
	model := &fakeModel{}
	model.queue(`{"question": "What is your name?", "category": "personal", "type": "text"}`)
	s := newTestServer(model)
	userID := uuid.New()

	rec := httptest.NewRecorder()
	s.handleGetInterview(rec, authedRequest(t, userID, "POST", "/api/getInterview", map[string]any{}))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "What is your name?", resp["question"])
	assert.Equal(t, "personal", resp["category"])
	assert.Equal(t, float64(1), resp["currentCount"])
}

func TestGetInterviewMCQCarriesOptions(t *testing.T) {
	model := &fakeModel{}
	model.queue(`{"question": "Preferred stack?", "category": "skills", "type": "mcq", "options": ["Go", "Rust"]}`)
	s := newTestServer(model)
	userID := uuid.New()
	s.interviewer.Store().Start(userID, types.LevelStandard)

	rec := httptest.NewRecorder()
	s.handleGetInterview(rec, authedRequest(t, userID, "POST", "/api/getInterview", map[string]any{}))

	resp := decodeResponse(t, rec)
	assert.Equal(t, []any{"Go", "Rust"}, resp["options"])
}

func TestGetInterviewCompletes(t *testing.T) {
	model := &fakeModel{}
	model.queue(`{"question": "Tell me about yourself", "category": "personal", "type": "text"}`)
	s := newTestServer(model)
	userID := uuid.New()

	// Basic level has a budget of one question.
	s.interviewer.Store().Start(userID, types.LevelBasic)

	rec := httptest.NewRecorder()
	s.handleGetInterview(rec, authedRequest(t, userID, "POST", "/api/getInterview", map[string]any{}))
	require.Equal(t, http.StatusOK, rec.Code)

	answer := "I build services"
	rec = httptest.NewRecorder()
	s.handleGetInterview(rec, authedRequest(t, userID, "POST", "/api/getInterview", map[string]any{"answer": answer}))

	resp := decodeResponse(t, rec)
	assert.Equal(t, true, resp["done"])
	assert.Equal(t, "Interview complete.", resp["message"])
	// Completion must not trigger another model call.
	assert.Len(t, model.prompts, 1)
}

func TestGetInterviewGatewayFailure(t *testing.T) {
	model := &fakeModel{err: &llm.GatewayError{Status: 503, Message: "connection refused"}}
	s := newTestServer(model)
	userID := uuid.New()
	s.interviewer.Store().Start(userID, types.LevelStandard)

	rec := httptest.NewRecorder()
	s.handleGetInterview(rec, authedRequest(t, userID, "POST", "/api/getInterview", map[string]any{}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestInterviewProgress(t *testing.T) {
	model := &fakeModel{}
	model.queue(`{"question": "Where did you study?", "category": "education", "type": "text"}`)
	s := newTestServer(model)
	userID := uuid.New()
	s.interviewer.Store().Start(userID, types.LevelStandard)

	rec := httptest.NewRecorder()
	s.handleGetInterview(rec, authedRequest(t, userID, "POST", "/api/getInterview", map[string]any{}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handleInterviewProgress(rec, authedRequest(t, userID, "GET", "/api/getInterviewProgress", nil))

	resp := decodeResponse(t, rec)
	progress := resp["progress"].(map[string]any)
	assert.Equal(t, float64(1), progress["current"])
	assert.Equal(t, float64(8), progress["max"])

	qa := resp["qa"].([]any)
	require.Len(t, qa, 1)
	entry := qa[0].(map[string]any)
	assert.Equal(t, "Where did you study?", entry["question"])
	assert.Equal(t, false, entry["hasAnswer"])
}

func TestInterviewProgressNoSession(t *testing.T) {
	s := newTestServer(&fakeModel{})

	rec := httptest.NewRecorder()
	s.handleInterviewProgress(rec, authedRequest(t, uuid.New(), "GET", "/api/getInterviewProgress", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp["progress"])
}

func TestResetInterviewClearsWorkspace(t *testing.T) {
	s := newTestServer(&fakeModel{})
	userID := uuid.New()
	s.interviewer.Store().Start(userID, types.LevelStandard)
	s.workspace.SetLayout(userID, types.ResumeLayout{Theme: types.DefaultTheme})

	rec := httptest.NewRecorder()
	s.handleResetInterview(rec, authedRequest(t, userID, "POST", "/api/resetInterview", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, s.workspace.Layout(userID))
	assert.Nil(t, s.interviewer.Store().Get(userID))
}

func startAnsweredInterview(t *testing.T, s *Server, userID uuid.UUID) {
	t.Helper()
	session := s.interviewer.Store().Start(userID, types.LevelStandard)
	session.Append(types.QuestionReply{Question: "Tell me about your work", Category: "experience", Type: "text"})
	session.RecordAnswer("Six years building Go services at a logistics company")
}

func TestGenerateResume(t *testing.T) {
	model := &fakeModel{}
	model.queue(
		`{"canProceed": true}`,
		validResumeReply,
	)
	s := newTestServer(model)
	userID := uuid.New()
	startAnsweredInterview(t, s, userID)

	rec := httptest.NewRecorder()
	s.handleGenerateResume(rec, authedRequest(t, userID, "POST", "/api/generateResume", map[string]any{}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	assert.Equal(t, true, resp["success"])

	layout := s.workspace.Layout(userID)
	require.NotNil(t, layout)
	assert.Equal(t, "Jordan Diaz", layout.Data.PersonalInfo.Name)
	assert.Contains(t, layout.HTMLContent, "Jordan Diaz")
	assert.Len(t, model.prompts, 2)
}

func TestGenerateResumeBlockedByReadiness(t *testing.T) {
	model := &fakeModel{}
	model.queue(`{"canProceed": false, "criticalIssue": "no contact information"}`)
	s := newTestServer(model)
	userID := uuid.New()
	startAnsweredInterview(t, s, userID)

	rec := httptest.NewRecorder()
	s.handleGenerateResume(rec, authedRequest(t, userID, "POST", "/api/generateResume", map[string]any{}))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "no contact information", resp["criticalIssue"])
	// Generation never ran.
	assert.Len(t, model.prompts, 1)
	assert.Nil(t, s.workspace.Layout(userID))
}

func TestGenerateResumeSkipsReadinessCheck(t *testing.T) {
	model := &fakeModel{}
	model.queue(validResumeReply)
	s := newTestServer(model)
	userID := uuid.New()
	startAnsweredInterview(t, s, userID)

	rec := httptest.NewRecorder()
	s.handleGenerateResume(rec, authedRequest(t, userID, "POST", "/api/generateResume", map[string]any{"skipMissingCheck": true}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, model.prompts, 1)
	assert.NotNil(t, s.workspace.Layout(userID))
}

func TestGenerateResumeWithoutInterview(t *testing.T) {
	s := newTestServer(&fakeModel{})

	rec := httptest.NewRecorder()
	s.handleGenerateResume(rec, authedRequest(t, uuid.New(), "POST", "/api/generateResume", map[string]any{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModifyResumeReplacesDocument(t *testing.T) {
	model := &fakeModel{}
	model.queue(`{
		"personalInfo": {"name": "Jordan Diaz", "email": "jordan@example.com"},
		"summary": "Staff engineer leading distributed-systems work."
	}`)
	s := newTestServer(model)
	userID := uuid.New()
	seedLayout(t, s, userID)

	rec := httptest.NewRecorder()
	s.handleModifyResume(rec, authedRequest(t, userID, "POST", "/api/modifyResume", map[string]any{"request": "make the summary more senior"}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	layout := s.workspace.Layout(userID)
	assert.Equal(t, "Staff engineer leading distributed-systems work.", layout.Data.Summary)
	// Theme survives a modification.
	assert.Equal(t, "#16a34a", layout.Theme.Primary)
}

func TestModifyResumeStructuralFallback(t *testing.T) {
	model := &fakeModel{}
	// Reply lost the personalInfo section.
	model.queue(`{"summary": "only a summary"}`)
	s := newTestServer(model)
	userID := uuid.New()
	seedLayout(t, s, userID)
	before := s.workspace.Layout(userID)

	rec := httptest.NewRecorder()
	s.handleModifyResume(rec, authedRequest(t, userID, "POST", "/api/modifyResume", map[string]any{"request": "trim it"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, false, resp["success"])
	// Previous version stays current, and is echoed back for the client.
	assert.Equal(t, before, s.workspace.Layout(userID))
	assert.NotNil(t, resp["layout"])
}

func TestModifyResumeWithoutDocument(t *testing.T) {
	s := newTestServer(&fakeModel{})

	rec := httptest.NewRecorder()
	s.handleModifyResume(rec, authedRequest(t, uuid.New(), "POST", "/api/modifyResume", map[string]any{"request": "anything"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModifySelectedTextRequiresFields(t *testing.T) {
	s := newTestServer(&fakeModel{})
	userID := uuid.New()
	seedLayout(t, s, userID)

	rec := httptest.NewRecorder()
	s.handleModifySelectedText(rec, authedRequest(t, userID, "POST", "/api/modifySelectedText", map[string]any{"selectedText": "x"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorrectMissingItem(t *testing.T) {
	model := &fakeModel{}
	model.queue(`{
		"personalInfo": {"name": "Jordan Diaz", "email": "jordan@example.com", "phone": "555-0100"},
		"summary": "Backend engineer with six years of Go experience."
	}`)
	s := newTestServer(model)
	userID := uuid.New()
	seedLayout(t, s, userID)

	rec := httptest.NewRecorder()
	s.handleCorrectMissingItem(rec, authedRequest(t, userID, "POST", "/api/correctMissingItem", map[string]any{
		"item":  "personalInfo.phone",
		"issue": "missing phone number",
		"value": "555-0100",
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "555-0100", s.workspace.Layout(userID).Data.PersonalInfo.Phone)
}

func TestAnalyzeProfile(t *testing.T) {
	model := &fakeModel{}
	model.queue(`{"strengths": ["clear impact"], "score": 8}`)
	s := newTestServer(model)
	userID := uuid.New()
	startAnsweredInterview(t, s, userID)

	rec := httptest.NewRecorder()
	s.handleAnalyzeProfile(rec, authedRequest(t, userID, "POST", "/api/analyzeProfile", map[string]any{"method": "car", "industry": "tech"}))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "car", resp["method"])
	assert.Equal(t, "tech", resp["industry"])
	assert.NotNil(t, s.workspace.Analysis(userID))
}

func TestAnalyzeProfileUnknownTagsFallBack(t *testing.T) {
	model := &fakeModel{}
	model.queue(`{"score": 5}`)
	s := newTestServer(model)
	userID := uuid.New()
	startAnsweredInterview(t, s, userID)

	rec := httptest.NewRecorder()
	s.handleAnalyzeProfile(rec, authedRequest(t, userID, "POST", "/api/analyzeProfile", map[string]any{"method": "nope", "industry": "nope"}))

	resp := decodeResponse(t, rec)
	assert.Equal(t, "star", resp["method"])
	assert.Equal(t, "ai", resp["industry"])
}

func TestChooseMethod(t *testing.T) {
	model := &fakeModel{}
	model.queue(`{"fit": "strong", "notes": ["quantify outcomes"]}`)
	s := newTestServer(model)
	userID := uuid.New()
	startAnsweredInterview(t, s, userID)

	rec := httptest.NewRecorder()
	s.handleChooseMethod(rec, authedRequest(t, userID, "POST", "/api/chooseMethod", map[string]any{"method": "soar", "industry": "medical"}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	assert.Equal(t, "soar", resp["method"])
	assert.Equal(t, "medical", resp["industry"])
	assert.NotNil(t, resp["analysis"])
	assert.NotNil(t, s.workspace.Analysis(userID))
}

func TestChooseMethodWithoutInterview(t *testing.T) {
	s := newTestServer(&fakeModel{})

	rec := httptest.NewRecorder()
	s.handleChooseMethod(rec, authedRequest(t, uuid.New(), "POST", "/api/chooseMethod", map[string]any{"method": "star"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateResumeUsesStoredAnalysis(t *testing.T) {
	model := &fakeModel{}
	model.queue(
		`{"canProceed": true}`,
		validResumeReply,
	)
	s := newTestServer(model)
	userID := uuid.New()
	startAnsweredInterview(t, s, userID)
	s.workspace.SetAnalysis(userID, json.RawMessage(`{"recommendation": "lead with measurable impact"}`))

	rec := httptest.NewRecorder()
	s.handleGenerateResume(rec, authedRequest(t, userID, "POST", "/api/generateResume", map[string]any{}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, model.prompts, 2)
	assert.Contains(t, model.prompts[1], "lead with measurable impact")
}

func TestSaveHistoryValidation(t *testing.T) {
	s := newTestServer(&fakeModel{})
	userID := uuid.New()

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"type": db.HistoryTypeResumeHTML, "sourceData": json.RawMessage(validResumeReply)}},
		{"unknown type", map[string]any{"title": "My resume", "type": "docx", "sourceData": json.RawMessage(validResumeReply)}},
		{"missing sourceData", map[string]any{"title": "My resume", "type": db.HistoryTypeResumeHTML}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.handleSaveHistory(rec, authedRequest(t, userID, "POST", "/api/history", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegenerateFileResumeHTML(t *testing.T) {
	s := newTestServer(&fakeModel{})
	req := httptest.NewRequest("POST", "/api/review", nil)

	encoded, err := s.regenerateFile(req, db.HistoryTypeResumeHTML, json.RawMessage(validResumeReply))
	require.NoError(t, err)

	html, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Jordan Diaz")
}

func TestRegenerateFileResumeHTMLChecksStructure(t *testing.T) {
	s := newTestServer(&fakeModel{})
	req := httptest.NewRequest("POST", "/api/review", nil)

	_, err := s.regenerateFile(req, db.HistoryTypeResumeHTML, json.RawMessage(`{"summary": "no header"}`))
	require.Error(t, err)
	var vErr *schemas.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestGetCurrentResume(t *testing.T) {
	s := newTestServer(&fakeModel{})
	userID := uuid.New()

	rec := httptest.NewRecorder()
	s.handleGetCurrentResume(rec, authedRequest(t, userID, "GET", "/api/getCurrentResume", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	seedLayout(t, s, userID)
	rec = httptest.NewRecorder()
	s.handleGetCurrentResume(rec, authedRequest(t, userID, "GET", "/api/getCurrentResume", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, true, resp["success"])
}

func TestResumeHTMLFromSuppliedDocument(t *testing.T) {
	s := newTestServer(&fakeModel{})
	userID := uuid.New()

	rec := httptest.NewRecorder()
	s.handleResumeHTML(rec, authedRequest(t, userID, "POST", "/api/getResumeHTML", map[string]any{
		"resumeData": json.RawMessage(validResumeReply),
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	assert.Contains(t, resp["html"], "Jordan Diaz")
}

func TestGeneratePPTXRequiresTopic(t *testing.T) {
	s := newTestServer(&fakeModel{})

	rec := httptest.NewRecorder()
	s.handleGeneratePPTX(rec, authedRequest(t, uuid.New(), "POST", "/api/generatePPTX", map[string]any{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// seedLayout installs a rendered layout with a non-default theme so tests
// can detect theme preservation.
func seedLayout(t *testing.T, s *Server, userID uuid.UUID) {
	t.Helper()
	var doc types.ResumeDocument
	require.NoError(t, json.Unmarshal([]byte(validResumeReply), &doc))

	layout, err := render.Layout(doc, types.Theme{Primary: "#16a34a"})
	require.NoError(t, err)
	s.workspace.SetLayout(userID, layout)
}
