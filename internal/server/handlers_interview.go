package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"airesume/internal/server/middleware"
	"airesume/internal/types"
)

// userID resolves the authenticated user from the request context. A
// missing ID means the middleware was bypassed; treat it as unauthorized.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody decodes a JSON request body. An empty body is tolerated so
// endpoints with all-optional fields can be called without one.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// handleStartInterview starts a fresh interview session, replacing any
// session in progress.
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Level string `json:"level"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	session := s.interviewer.Store().Start(userID, req.Level)
	s.workspace.Clear(userID)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Interview started",
		"level":        session.Level(),
		"maxQuestions": session.MaxQuestions(),
	})
}

// handleGetInterview advances the interview one step: records the answer
// (if any) and returns either the next question or a completion signal.
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Answer *string `json:"answer"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.interviewer.Next(r.Context(), userID, req.Answer)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if result.Done {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"success":      true,
			"done":         true,
			"message":      "Interview complete.",
			"currentCount": result.CurrentCount,
			"maxQuestions": result.MaxQuestions,
		})
		return
	}

	resp := map[string]any{
		"success":      true,
		"question":     result.Question.Question,
		"type":         result.Question.Type,
		"category":     result.Question.Category,
		"currentCount": result.CurrentCount,
		"maxQuestions": result.MaxQuestions,
	}
	if len(result.Options) > 0 {
		resp["options"] = result.Options
	}
	if result.Question.RequiresMultipleFields {
		resp["requiresMultipleFields"] = true
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleInterviewProgress reports session status plus a transcript summary
// without answers, so clients can show coverage without leaking content
// into logs.
func (s *Server) handleInterviewProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	session := s.interviewer.Store().Get(userID)
	if session == nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"success":  true,
			"progress": nil,
		})
		return
	}

	type qaSummary struct {
		Question  string `json:"question"`
		Category  string `json:"category"`
		HasAnswer bool   `json:"hasAnswer"`
	}
	transcript := session.Transcript()
	qa := make([]qaSummary, 0, len(transcript))
	for _, item := range transcript {
		qa = append(qa, qaSummary{
			Question:  item.Question,
			Category:  item.Category,
			HasAnswer: item.Answered,
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"progress": session.Progress(),
		"qa":       qa,
	})
}

// handleResetInterview discards the current session and working documents.
func (s *Server) handleResetInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	s.interviewer.Store().Reset(userID)
	s.workspace.Clear(userID)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Interview reset",
	})
}

// sessionQA returns the answered transcript for the user, or nil when no
// usable interview data exists yet.
func (s *Server) sessionQA(userID uuid.UUID) []types.QAItem {
	session := s.interviewer.Store().Get(userID)
	if session == nil {
		return nil
	}
	qa := session.Transcript()
	if len(qa) == 0 {
		return nil
	}
	return qa
}
