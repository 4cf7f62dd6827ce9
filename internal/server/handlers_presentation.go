package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"airesume/internal/db"
	"airesume/internal/llm"
	"airesume/internal/prompts"
	"airesume/internal/render"
	"airesume/internal/types"
)

const presentationTemperature = 0.5

// handleGeneratePPTX asks the model for a slide-deck outline, renders it
// to a PPTX file and records it in history. The deck bytes travel base64
// encoded; the structured outline rides along so clients can show speaker
// notes without unzipping the file.
func (s *Server) handleGeneratePPTX(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Topic      string `json:"topic"`
		SlideCount int    `json:"slideCount"`
		Tone       string `json:"tone"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Topic == "" {
		s.errorResponse(w, http.StatusBadRequest, "topic is required")
		return
	}

	prompt := prompts.BuildPresentationPrompt(req.Topic, req.SlideCount, req.Tone)
	raw, err := s.llm.GenerateJSON(r.Context(), prompt, llm.Options{Temperature: presentationTemperature, MaxTokens: 1000})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var deck types.Presentation
	if err := json.Unmarshal(raw, &deck); err != nil {
		s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("model returned an invalid presentation: %v", err))
		return
	}
	if len(deck.Slides) == 0 {
		s.errorResponse(w, http.StatusBadGateway, "model returned a presentation with no slides")
		return
	}

	pptx, err := render.PPTX(deck)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("failed to build PPTX: %v", err))
		return
	}

	title := deck.Title
	if title == "" {
		title = req.Topic
	}

	encoded := base64.StdEncoding.EncodeToString(pptx)
	item, err := s.db.SaveHistoryItem(r.Context(), db.HistoryInput{
		UserID:      userID,
		Title:       title,
		Type:        db.HistoryTypePPTX,
		SourceData:  raw,
		FileContent: encoded,
		Prompt:      req.Topic,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("failed to save history: %v", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":   true,
		"pptx":      encoded,
		"aiData":    deck,
		"historyId": item.ID,
	})
}
