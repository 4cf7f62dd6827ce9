package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"airesume/internal/db"
	"airesume/internal/llm"
	"airesume/internal/prompts"
	"airesume/internal/render"
	"airesume/internal/schemas"
	"airesume/internal/types"
)

// Sampling temperatures per operation. Structured edits run colder than
// free-form generation.
const (
	analysisTemperature   = 0.4
	generateTemperature   = 0.4
	readinessTemperature  = 0.2
	missingTemperature    = 0.3
	qualityTemperature    = 0.3
	correctionTemperature = 0.2
	modifyTemperature     = 0.4
	selectionTemperature  = 0.3
)

// supplementaryQA appends free-form additional info to the transcript as a
// synthetic answered question.
func supplementaryQA(qa []types.QAItem, additionalInfo string) []types.QAItem {
	if additionalInfo == "" {
		return qa
	}
	return append(qa, types.QAItem{
		Question: "Additional information",
		Answer:   additionalInfo,
		Answered: true,
		Category: "supplementary",
		Type:     "text",
	})
}

// requireQA fetches the transcript and writes a 400 when the user has not
// answered anything yet.
func (s *Server) requireQA(w http.ResponseWriter, userID uuid.UUID) ([]types.QAItem, bool) {
	qa := s.sessionQA(userID)
	if qa == nil {
		s.errorResponse(w, http.StatusBadRequest, "no interview data, start an interview first")
		return nil, false
	}
	return qa, true
}

// handleAnalyzeProfile benchmarks the interview transcript against a
// storytelling method and industry conventions.
func (s *Server) handleAnalyzeProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Method   string `json:"method"`
		Industry string `json:"industry"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	qa, ok := s.requireQA(w, userID)
	if !ok {
		return
	}

	methodTag, method := types.MethodOrDefault(req.Method)
	industryTag, _ := types.IndustryOrDefault(req.Industry)

	prompt := prompts.BuildProfilePrompt(qa, method.Name, industryTag)
	analysis, err := s.llm.GenerateJSON(r.Context(), prompt, llm.Options{Temperature: analysisTemperature})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.workspace.SetAnalysis(userID, analysis)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"method":   methodTag,
		"industry": industryTag,
		"analysis": analysis,
	})
}

// handleChooseMethod evaluates how well a storytelling method and industry
// framing fit the transcript. The resulting analysis is kept in the
// workspace and folded into the next generation as guidance.
func (s *Server) handleChooseMethod(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Method   string `json:"method"`
		Industry string `json:"industry"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	qa, ok := s.requireQA(w, userID)
	if !ok {
		return
	}

	methodTag, method := types.MethodOrDefault(req.Method)
	industryTag, _ := types.IndustryOrDefault(req.Industry)

	prompt := prompts.BuildAnalysisPrompt(qa, method.Name, industryTag)
	analysis, err := s.llm.GenerateJSON(r.Context(), prompt, llm.Options{Temperature: analysisTemperature})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.workspace.SetAnalysis(userID, analysis)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"method":   methodTag,
		"industry": industryTag,
		"analysis": analysis,
	})
}

// readinessReply is the model's answer to the quick can-proceed check.
type readinessReply struct {
	CanProceed    bool   `json:"canProceed"`
	CriticalIssue string `json:"criticalIssue"`
}

// handleGenerateResume builds a resume document from the transcript and
// renders it. Unless the client opts out, a readiness pre-check runs first
// and blocks generation when critical information is missing.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Preference         string      `json:"preference"`
		SelectedHighlights []string    `json:"selectedHighlights"`
		AdditionalInfo     string      `json:"additionalInfo"`
		Theme              types.Theme `json:"theme"`
		SkipReadinessCheck bool        `json:"skipMissingCheck"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	qa, ok := s.requireQA(w, userID)
	if !ok {
		return
	}
	qa = supplementaryQA(qa, req.AdditionalInfo)

	if !req.SkipReadinessCheck {
		raw, err := s.llm.GenerateJSON(r.Context(), prompts.BuildReadinessPrompt(qa), llm.Options{Temperature: readinessTemperature})
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		var readiness readinessReply
		// An unparseable readiness reply never blocks generation.
		if err := json.Unmarshal(raw, &readiness); err == nil && !readiness.CanProceed {
			s.jsonResponse(w, http.StatusOK, map[string]any{
				"success":       false,
				"canProceed":    false,
				"criticalIssue": readiness.CriticalIssue,
			})
			return
		}
	}

	// A stored profile analysis rides along as extra guidance for the writer.
	if analysis := s.workspace.Analysis(userID); len(analysis) > 0 {
		qa = append(qa, types.QAItem{
			Question: "Profile analysis guidance",
			Answer:   string(analysis),
			Answered: true,
			Category: "guidance",
			Type:     "text",
		})
	}

	prompt := prompts.BuildResumePrompt(qa, req.Preference, req.SelectedHighlights)
	raw, err := s.llm.GenerateJSON(r.Context(), prompt, llm.Options{Temperature: generateTemperature, MaxTokens: 2000})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("model returned an invalid resume document: %v", err))
		return
	}

	layout, err := render.Layout(doc, req.Theme.Normalize())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.workspace.SetLayout(userID, layout)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"layout":  layout,
	})
}

// handleCheckMissingInfo runs the full gap analysis over the transcript.
func (s *Server) handleCheckMissingInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		AdditionalInfo string `json:"additionalInfo"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	qa, ok := s.requireQA(w, userID)
	if !ok {
		return
	}
	qa = supplementaryQA(qa, req.AdditionalInfo)

	analysis, err := s.llm.GenerateJSON(r.Context(), prompts.BuildMissingInfoPrompt(qa), llm.Options{Temperature: missingTemperature})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": analysis,
	})
}

// handleAnalyzeMissingItems audits a rendered resume for quality problems
// and omissions.
func (s *Server) handleAnalyzeMissingItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		ResumeData  json.RawMessage `json:"resumeData"`
		HTMLContent string          `json:"htmlContent"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	doc, htmlContent, ok := s.resolveDocument(w, userID, req.ResumeData, req.HTMLContent)
	if !ok {
		return
	}

	analysis, err := s.llm.GenerateJSON(r.Context(), prompts.BuildQualityPrompt(doc, htmlContent), llm.Options{Temperature: qualityTemperature, MaxTokens: 1200})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": analysis,
	})
}

// handleCorrectMissingItem asks the model to fix one flagged field with a
// user-supplied value, then replaces the working document.
func (s *Server) handleCorrectMissingItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		ResumeData json.RawMessage `json:"resumeData"`
		Item       string          `json:"item"`
		Issue      string          `json:"issue"`
		Value      string          `json:"value"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Item == "" {
		s.errorResponse(w, http.StatusBadRequest, "item is required")
		return
	}

	current := s.workspace.Layout(userID)
	if len(req.ResumeData) > 0 {
		// The client may correct a document it holds rather than the
		// working copy; the corrected version becomes the working copy.
		var doc types.ResumeDocument
		if err := json.Unmarshal(req.ResumeData, &doc); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid resumeData")
			return
		}
		theme := types.DefaultTheme
		if current != nil {
			theme = current.Theme
		}
		base, err := render.Layout(doc, theme)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		current = &base
	}
	if current == nil {
		s.errorResponse(w, HTTPStatus(&ErrNoResume{}), (&ErrNoResume{}).Error())
		return
	}

	prompt := prompts.BuildCorrectionPrompt(current.Data, req.Item, req.Issue, req.Value)
	s.applyDocumentEdit(w, r, userID, current, prompt, llm.Options{Temperature: correctionTemperature, MaxTokens: 1500})
}

// handleModifyResume applies a free-form modification request to the
// current document.
func (s *Server) handleModifyResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Request string `json:"request"`
		Section string `json:"section"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Request == "" {
		s.errorResponse(w, http.StatusBadRequest, "request is required")
		return
	}

	current := s.workspace.Layout(userID)
	if current == nil {
		s.errorResponse(w, HTTPStatus(&ErrNoResume{}), (&ErrNoResume{}).Error())
		return
	}

	prompt := prompts.BuildModificationPrompt(current.Data, req.Request, req.Section)
	s.applyDocumentEdit(w, r, userID, current, prompt, llm.Options{Temperature: modifyTemperature, MaxTokens: 1500})
}

// handleModifySelectedText rewrites one selected passage of the current
// document.
func (s *Server) handleModifySelectedText(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		SelectedText string `json:"selectedText"`
		Context      string `json:"context"`
		Modification string `json:"modification"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.SelectedText == "" || req.Modification == "" {
		s.errorResponse(w, http.StatusBadRequest, "selectedText and modification are required")
		return
	}

	current := s.workspace.Layout(userID)
	if current == nil {
		s.errorResponse(w, HTTPStatus(&ErrNoResume{}), (&ErrNoResume{}).Error())
		return
	}

	prompt := prompts.BuildSelectionPrompt(current.Data, req.SelectedText, req.Context, req.Modification)
	s.applyDocumentEdit(w, r, userID, current, prompt, llm.Options{Temperature: selectionTemperature, MaxTokens: 1500})
}

// applyDocumentEdit runs one whole-document rewrite through the model,
// structurally validates the result, and replaces the working layout. A
// reply that lost required sections leaves the previous version in place
// and reports the validation failure.
func (s *Server) applyDocumentEdit(w http.ResponseWriter, r *http.Request, userID uuid.UUID, current *types.ResumeLayout, prompt string, opts llm.Options) {
	raw, err := s.llm.GenerateJSON(r.Context(), prompt, opts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := schemas.CheckStructure(raw); err != nil {
		s.jsonResponse(w, HTTPStatus(err), map[string]any{
			"success": false,
			"error":   err.Error(),
			"layout":  current,
		})
		return
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("model returned an invalid resume document: %v", err))
		return
	}

	layout, err := render.Layout(doc, current.Theme)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.workspace.SetLayout(userID, layout)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"layout":  layout,
	})
}

// handleGetCurrentResume returns the working layout.
func (s *Server) handleGetCurrentResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	layout := s.workspace.Layout(userID)
	if layout == nil {
		s.errorResponse(w, http.StatusNotFound, "no resume generated yet")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"layout":  layout,
	})
}

// handleResumeHTML renders HTML for a supplied document, or re-serves the
// current layout's HTML when none is supplied.
func (s *Server) handleResumeHTML(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		ResumeData json.RawMessage `json:"resumeData"`
		Theme      types.Theme     `json:"theme"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	if len(req.ResumeData) == 0 {
		layout := s.workspace.Layout(userID)
		if layout == nil {
			s.errorResponse(w, http.StatusNotFound, "no resume generated yet")
			return
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"success": true,
			"html":    layout.HTMLContent,
		})
		return
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(req.ResumeData, &doc); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resumeData")
		return
	}

	html, err := render.HTML(doc, req.Theme.Normalize())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"html":    html,
	})
}

// handleGeneratePDF prints the resume to PDF and streams it as an
// attachment. The document is also recorded in history with the file
// payload so review can regenerate it later.
func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		ResumeData json.RawMessage `json:"resumeData"`
		Theme      types.Theme     `json:"theme"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	var doc types.ResumeDocument
	theme := req.Theme.Normalize()
	if len(req.ResumeData) > 0 {
		if err := json.Unmarshal(req.ResumeData, &doc); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid resumeData")
			return
		}
	} else {
		layout := s.workspace.Layout(userID)
		if layout == nil {
			s.errorResponse(w, http.StatusNotFound, "no resume generated yet")
			return
		}
		doc = layout.Data
		theme = layout.Theme
	}

	html, err := render.HTML(doc, theme)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	pdf, err := render.PDF(r.Context(), html)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("failed to generate PDF: %v", err))
		return
	}

	s.savePDFHistory(r, userID, doc, pdf)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[pdf] failed to stream PDF: %v", err)
	}
}

// savePDFHistory records a generated PDF. History is best-effort here: a
// storage failure must not lose the download the user is waiting on.
func (s *Server) savePDFHistory(r *http.Request, userID uuid.UUID, doc types.ResumeDocument, pdf []byte) {
	sourceData, err := json.Marshal(doc)
	if err != nil {
		log.Printf("[history] failed to marshal resume document: %v", err)
		return
	}

	title := doc.PersonalInfo.Name
	if title == "" {
		title = "Resume"
	}

	_, err = s.db.SaveHistoryItem(r.Context(), db.HistoryInput{
		UserID:      userID,
		Title:       title,
		Type:        db.HistoryTypeResumePDF,
		SourceData:  sourceData,
		FileContent: base64.StdEncoding.EncodeToString(pdf),
	})
	if err != nil {
		log.Printf("[history] failed to save PDF history item: %v", err)
	}
}

// resolveDocument picks the request-supplied document or falls back to the
// working layout, returning the document plus its HTML.
func (s *Server) resolveDocument(w http.ResponseWriter, userID uuid.UUID, resumeData json.RawMessage, htmlContent string) (types.ResumeDocument, string, bool) {
	if len(resumeData) > 0 {
		var doc types.ResumeDocument
		if err := json.Unmarshal(resumeData, &doc); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid resumeData")
			return types.ResumeDocument{}, "", false
		}
		return doc, htmlContent, true
	}

	layout := s.workspace.Layout(userID)
	if layout == nil {
		s.errorResponse(w, http.StatusNotFound, "no resume generated yet")
		return types.ResumeDocument{}, "", false
	}
	return layout.Data, layout.HTMLContent, true
}
