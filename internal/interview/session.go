// Package interview implements the scripted-interview state machine: a
// per-user session tracking asked questions, answers, category coverage and
// the question budget, plus the orchestration that asks the model for the
// next question.
package interview

import (
	"sync"

	"airesume/internal/types"
)

// Session is the interview state for one user. Sessions are in-memory only;
// starting a new interview replaces any prior session outright.
//
// All state is guarded by the session mutex: the interviewer serializes
// writers through singleflight, but progress polls and transcript reads
// arrive on other request goroutines at any time.
type Session struct {
	mu           sync.Mutex
	level        string
	maxQuestions int
	questions    []types.QAItem
	finished     bool
}

// NewSession creates a fresh session for the given level. Unrecognized
// levels fall back to basic.
func NewSession(level string) *Session {
	lvl, budget := types.QuestionBudget(level)
	return &Session{
		level:        lvl,
		maxQuestions: budget,
	}
}

// Level returns the session's resolved interview level.
func (s *Session) Level() string {
	return s.level
}

// MaxQuestions returns the session's question budget.
func (s *Session) MaxQuestions() int {
	return s.maxQuestions
}

// Transcript returns a copy of the asked questions so callers can read
// them without racing the interview loop.
func (s *Session) Transcript() []types.QAItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	qa := make([]types.QAItem, len(s.questions))
	copy(qa, s.questions)
	return qa
}

// RecordAnswer attaches an answer to the most recently asked question.
// There is no question-id correlation in the wire contract: the last-asked
// question always receives the answer. A question without a category is
// backfilled to "general" at answer time.
func (s *Session) RecordAnswer(answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) == 0 {
		return
	}
	last := &s.questions[len(s.questions)-1]
	last.Answer = answer
	last.Answered = true
	if last.Category == "" {
		last.Category = "general"
	}
}

// BudgetExhausted reports whether the session has used up its question
// budget.
func (s *Session) BudgetExhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions) >= s.maxQuestions
}

// Append adds a new question built from a model reply and returns the
// stored item. It reports false once the session is finished or the budget
// is reached, preserving the len(questions) <= maxQuestions invariant.
func (s *Session) Append(reply types.QuestionReply) (types.QAItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || len(s.questions) >= s.maxQuestions {
		return types.QAItem{}, false
	}

	category := reply.Category
	if category == "" {
		category = "general"
	}
	qType := reply.Type
	if qType == "" {
		qType = "text"
	}

	item := types.QAItem{
		Question:               reply.Question,
		Category:               category,
		Type:                   qType,
		RequiresMultipleFields: reply.RequiresMultipleFields,
	}
	s.questions = append(s.questions, item)
	return item, true
}

// Finish marks the session complete. No further questions are appended.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
}

// Finished reports whether the interview has been marked complete.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Progress is the client-visible session status.
type Progress struct {
	Current  int    `json:"current"`
	Max      int    `json:"max"`
	Finished bool   `json:"finished"`
	Level    string `json:"level"`
}

// Progress returns the current session status.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Progress{
		Current:  len(s.questions),
		Max:      s.maxQuestions,
		Finished: s.finished,
		Level:    s.level,
	}
}
