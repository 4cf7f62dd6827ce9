package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"airesume/internal/db"
	"airesume/internal/llm"
	"airesume/internal/prompts"
	"airesume/internal/render"
	"airesume/internal/schemas"
	"airesume/internal/types"
)

const refinementTemperature = 0.3

// handleListHistory lists the user's generated documents, newest first.
// An optional ?type= query narrows to one document type.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	items, err := s.db.ListHistory(r.Context(), userID, r.URL.Query().Get("type"))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"items":   items,
	})
}

// handleSaveHistory stores a document the client assembled itself, so a
// resume edited outside the generation flow still lands in history. When
// no file payload is supplied the file is rebuilt from the source data.
func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       string          `json:"title"`
		Type        string          `json:"type"`
		SourceData  json.RawMessage `json:"sourceData"`
		FileContent string          `json:"fileContent"`
		Prompt      string          `json:"prompt"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		s.errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	switch req.Type {
	case db.HistoryTypePPTX, db.HistoryTypeResumePDF, db.HistoryTypeResumeHTML:
	default:
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unsupported history type: %s", req.Type))
		return
	}
	if len(req.SourceData) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "sourceData is required")
		return
	}

	fileContent := req.FileContent
	if fileContent == "" {
		rebuilt, err := s.regenerateFile(r, req.Type, req.SourceData)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		fileContent = rebuilt
	}

	item, err := s.db.SaveHistoryItem(r.Context(), db.HistoryInput{
		UserID:      userID,
		Title:       req.Title,
		Type:        req.Type,
		SourceData:  req.SourceData,
		FileContent: fileContent,
		Prompt:      req.Prompt,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"item":    item,
	})
}

// handleGetHistory returns one history record including its file payload.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid history id")
		return
	}

	item, ok := s.requireHistoryItem(w, r, userID, itemID)
	if !ok {
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"item":    item,
	})
}

// handleFeedback records a 1-5 rating on a generated document.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		HistoryID uuid.UUID `json:"historyId"`
		Rating    int       `json:"rating"`
		Comment   string    `json:"comment"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.HistoryID == uuid.Nil {
		s.errorResponse(w, http.StatusBadRequest, "historyId is required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		s.errorResponse(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	// Ownership check before writing anything.
	if _, ok := s.requireHistoryItem(w, r, userID, req.HistoryID); !ok {
		return
	}

	feedback, err := s.db.CreateFeedback(r.Context(), userID, req.HistoryID, req.Rating, req.Comment)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"feedback": feedback,
	})
}

// refinementReply is the expected shape of the review rewrite. A model
// that returns the revised document bare, without the wrapper, is
// tolerated.
type refinementReply struct {
	Modified json.RawMessage `json:"modified"`
	Summary  string          `json:"summary"`
}

// handleReview applies user feedback to a past document: the model rewrites
// the stored source data, the file is regenerated from the revision, and
// the history record is replaced wholesale. Each pass leaves a refinement
// audit record with the before and after documents.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		HistoryID uuid.UUID `json:"historyId"`
		Request   string    `json:"request"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.HistoryID == uuid.Nil || req.Request == "" {
		s.errorResponse(w, http.StatusBadRequest, "historyId and request are required")
		return
	}

	item, ok := s.requireHistoryItem(w, r, userID, req.HistoryID)
	if !ok {
		return
	}

	prompt := prompts.BuildRefinementPrompt(item.SourceData, req.Request)
	raw, err := s.llm.GenerateJSON(r.Context(), prompt, llm.Options{Temperature: refinementTemperature, MaxTokens: 1500})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var reply refinementReply
	if err := json.Unmarshal(raw, &reply); err != nil || len(reply.Modified) == 0 {
		reply = refinementReply{Modified: raw}
	}

	fileContent, err := s.regenerateFile(r, item.Type, reply.Modified)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.db.UpdateHistoryContent(r.Context(), item.ID, reply.Modified, fileContent); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	refinement, err := s.db.SaveRefinement(r.Context(), userID, item.ID, req.Request, item.SourceData, reply.Modified)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	updated, err := s.db.GetHistoryItem(r.Context(), userID, item.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":    true,
		"history":    updated,
		"summary":    reply.Summary,
		"refinement": refinement,
	})
}

// handleListRefinements returns the refinement trail for one history item,
// oldest first.
func (s *Server) handleListRefinements(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid history id")
		return
	}

	if _, ok := s.requireHistoryItem(w, r, userID, itemID); !ok {
		return
	}

	refinements, err := s.db.ListRefinements(r.Context(), userID, itemID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":     true,
		"refinements": refinements,
	})
}

// requireHistoryItem fetches a history record scoped to the user and writes
// a 404 when it does not exist or belongs to someone else.
func (s *Server) requireHistoryItem(w http.ResponseWriter, r *http.Request, userID, itemID uuid.UUID) (*db.HistoryItem, bool) {
	item, err := s.db.GetHistoryItem(r.Context(), userID, itemID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if item == nil {
		notFound := &ErrHistoryNotFound{ID: itemID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return nil, false
	}
	return item, true
}

// regenerateFile rebuilds a history item's file payload from revised source
// data, dispatching on the document type.
func (s *Server) regenerateFile(r *http.Request, itemType string, sourceData json.RawMessage) (string, error) {
	switch itemType {
	case db.HistoryTypePPTX:
		var deck types.Presentation
		if err := json.Unmarshal(sourceData, &deck); err != nil {
			return "", fmt.Errorf("revised presentation is invalid: %w", err)
		}
		pptx, err := render.PPTX(deck)
		if err != nil {
			return "", fmt.Errorf("failed to rebuild PPTX: %w", err)
		}
		return base64.StdEncoding.EncodeToString(pptx), nil

	case db.HistoryTypeResumeHTML:
		html, err := resumeHTMLFromSource(sourceData)
		if err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString([]byte(html)), nil

	case db.HistoryTypeResumePDF:
		html, err := resumeHTMLFromSource(sourceData)
		if err != nil {
			return "", err
		}
		pdf, err := render.PDF(r.Context(), html)
		if err != nil {
			return "", fmt.Errorf("failed to rebuild PDF: %w", err)
		}
		return base64.StdEncoding.EncodeToString(pdf), nil

	default:
		return "", fmt.Errorf("unsupported history type: %s", itemType)
	}
}

// resumeHTMLFromSource validates revised resume data and renders it with
// the default theme.
func resumeHTMLFromSource(sourceData json.RawMessage) (string, error) {
	if err := schemas.CheckStructure(sourceData); err != nil {
		return "", err
	}
	var doc types.ResumeDocument
	if err := json.Unmarshal(sourceData, &doc); err != nil {
		return "", fmt.Errorf("revised resume is invalid: %w", err)
	}
	html, err := render.HTML(doc, types.DefaultTheme)
	if err != nil {
		return "", fmt.Errorf("failed to render resume: %w", err)
	}
	return html, nil
}
