package llm

import "fmt"

// GatewayError indicates the model endpoint was unreachable or returned a
// non-success status.
type GatewayError struct {
	Status  int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("model endpoint error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("model endpoint error: %s", e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// ParseError indicates the model output could not be interpreted as JSON
// under either strict or lenient parsing. Candidate carries the post-strip
// text for diagnostics; it is never silently coerced into a value.
type ParseError struct {
	Candidate string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model response parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
