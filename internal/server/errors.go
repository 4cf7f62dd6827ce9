// Package server provides the HTTP REST API for the interview-driven
// resume and presentation generator.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"airesume/internal/interview"
	"airesume/internal/llm"
	"airesume/internal/schemas"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNoResume indicates no resume has been generated in this session yet
type ErrNoResume struct{}

func (e *ErrNoResume) Error() string {
	return "no resume exists to modify, generate a resume first"
}

// ErrHistoryNotFound indicates a history record is missing or not owned by
// the requesting user
type ErrHistoryNotFound struct {
	ID uuid.UUID
}

func (e *ErrHistoryNotFound) Error() string {
	return fmt.Sprintf("history item not found: %s", e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Model-service failures map to 502 so clients can distinguish an upstream
// outage from a bug in this server.
func HTTPStatus(err error) int {
	var gatewayErr *llm.GatewayError
	if errors.As(err, &gatewayErr) {
		return http.StatusBadGateway
	}
	var parseErr *llm.ParseError
	if errors.As(err, &parseErr) {
		return http.StatusBadGateway
	}
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, interview.ErrInvalidModelReply) {
		return http.StatusInternalServerError
	}

	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound, *ErrHistoryNotFound:
		return http.StatusNotFound
	case *ErrValidation, *ErrNoResume:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
