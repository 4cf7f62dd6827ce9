package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"airesume/internal/llm"
	"airesume/internal/prompts"
	"airesume/internal/types"
)

// ErrInvalidModelReply indicates the model's structured reply parsed as JSON
// but lacked the question field the protocol requires. Terminal for the
// request; callers surface it rather than retrying.
var ErrInvalidModelReply = errors.New("model did not return a valid question")

// nextTemperature is the sampling temperature for question generation.
// Lower than the gateway default for consistency across a session.
const nextTemperature = 0.3

// Interviewer drives the interview state machine against the model gateway.
type Interviewer struct {
	store  *Store
	client llm.Client
	group  singleflight.Group
}

// NewInterviewer creates an Interviewer over the given store and gateway.
func NewInterviewer(store *Store, client llm.Client) *Interviewer {
	return &Interviewer{store: store, client: client}
}

// Store exposes the underlying session store.
func (iv *Interviewer) Store() *Store {
	return iv.store
}

// NextResult is the outcome of one state-machine step. Options are carried
// separately from the stored question: they matter only for presenting an
// mcq question to the client, not for the transcript.
type NextResult struct {
	Done         bool
	Question     *types.QAItem
	Options      []string
	CurrentCount int
	MaxQuestions int
}

// Next advances the user's interview by one step: record the answer (if
// any) onto the last-asked question, then either declare completion when
// the budget is exhausted, or ask the model for the next question.
//
// Concurrent calls for the same user are collapsed through singleflight so
// a client retry cannot consume two budget slots for one logical step.
func (iv *Interviewer) Next(ctx context.Context, userID uuid.UUID, answer *string) (*NextResult, error) {
	v, err, _ := iv.group.Do(userID.String(), func() (any, error) {
		return iv.step(ctx, userID, answer)
	})
	if err != nil {
		return nil, err
	}
	return v.(*NextResult), nil
}

func (iv *Interviewer) step(ctx context.Context, userID uuid.UUID, answer *string) (*NextResult, error) {
	session := iv.store.GetOrStart(userID)

	if answer != nil {
		session.RecordAnswer(*answer)
	}

	// Budget check happens before any model contact.
	if session.BudgetExhausted() {
		session.Finish()
		progress := session.Progress()
		return &NextResult{
			Done:         true,
			CurrentCount: progress.Current,
			MaxQuestions: progress.Max,
		}, nil
	}

	lastAnswer := ""
	if answer != nil {
		lastAnswer = *answer
	}
	prompt := prompts.BuildInterviewPrompt(session.Transcript(), lastAnswer, session.MaxQuestions())

	raw, err := iv.client.GenerateJSON(ctx, prompt, llm.Options{Temperature: nextTemperature})
	if err != nil {
		return nil, err
	}

	var reply types.QuestionReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelReply, err)
	}

	if reply.Done {
		session.Finish()
		progress := session.Progress()
		return &NextResult{
			Done:         true,
			CurrentCount: progress.Current,
			MaxQuestions: progress.Max,
		}, nil
	}

	if reply.Question == "" {
		return nil, ErrInvalidModelReply
	}

	item, ok := session.Append(reply)
	progress := session.Progress()
	if !ok {
		// Lost the race against a concurrent reset that finished the
		// session; report completion instead of overflowing the budget.
		return &NextResult{
			Done:         true,
			CurrentCount: progress.Current,
			MaxQuestions: progress.Max,
		}, nil
	}

	return &NextResult{
		Question:     &item,
		Options:      reply.Options,
		CurrentCount: progress.Current,
		MaxQuestions: progress.Max,
	}, nil
}
