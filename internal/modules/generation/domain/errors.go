package domain

import (
	"errors"
	"strings"
)

var (
	ErrDecode = errors.New("generation response could not be decoded")
	ErrCall   = errors.New("generation call failed")

	ErrBackendUnavailable = errors.New("generation backend unavailable")
	ErrPluginDisabled     = errors.New("generator plugin is disabled")
	ErrChecksumMismatch   = errors.New("generator plugin checksum mismatch")
	ErrCapabilityMissing  = errors.New("generator plugin capability missing")
	ErrPluginTimeout      = errors.New("generator plugin timeout")
)

const (
	decodeMessage          = "Failed to parse the AI's response. The format was invalid."
	invalidArgumentMessage = "Request contains an invalid argument."
	callMessage            = "The AI model failed to generate content."
)

// DecodeError reports a response that arrived but did not match the expected
// shape. Error returns the message shown to learners; Detail keeps the cause.
type DecodeError struct {
	Operation Operation
	Err       error
}

func (e *DecodeError) Error() string {
	return decodeMessage
}

func (e *DecodeError) Detail() string {
	if e.Err == nil {
		return string(e.Operation)
	}
	return string(e.Operation) + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// CallError reports a failure to obtain any response from the model.
type CallError struct {
	Operation Operation
	Err       error
}

func (e *CallError) Error() string {
	if e.Err != nil && strings.Contains(e.Err.Error(), "INVALID_ARGUMENT") {
		return invalidArgumentMessage
	}
	return callMessage
}

func (e *CallError) Detail() string {
	if e.Err == nil {
		return string(e.Operation)
	}
	return string(e.Operation) + ": " + e.Err.Error()
}

func (e *CallError) Unwrap() []error {
	return []error{ErrCall, e.Err}
}

// Detail returns the underlying cause of a generation error for logs, or
// err.Error() for anything else.
func Detail(err error) string {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Detail()
	}
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Detail()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
