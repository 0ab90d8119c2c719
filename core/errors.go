package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfiguration is wrapped when a required parameter is unset or empty.
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrEmptyInstructions is wrapped when an instruction text is blank.
	ErrEmptyInstructions = errors.New("empty instructions")
	// ErrEmptyPrompt is returned when the user supplied no ticket text.
	ErrEmptyPrompt = errors.New("empty prompt")
	// ErrSessionClosed is returned by operations issued after the session was closed.
	ErrSessionClosed = errors.New("session closed")
)

// ConfigurationError reports a missing or invalid configuration input. Key
// names the parameter, Path the file; at most one of them is set.
type ConfigurationError struct {
	Key  string
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("configuration error: %s: %v", e.Path, e.Err)
	case e.Key != "":
		return fmt.Sprintf("configuration error: %s: %v", e.Key, e.Err)
	default:
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// AuthenticationError reports that no usable credential could be resolved.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RemoteServiceError reports a rejected remote call (quota, invalid model,
// authorization, network). StatusCode is zero when no HTTP response was received.
type RemoteServiceError struct {
	Op         string
	StatusCode int
	Code       string
	Err        error
}

func (e *RemoteServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote service error [%d] in %s: %v", e.StatusCode, e.Op, e.Err)
	}
	return fmt.Sprintf("remote service error in %s: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// RunFailure describes a run that terminated with status failed. It is
// reported to the user but never aborts the pipeline.
type RunFailure struct {
	RunID    string
	ThreadID string
	Detail   RunError
}

func (e *RunFailure) Error() string {
	return fmt.Sprintf("run %s failed: %s", e.RunID, e.Detail)
}

// NewRemoteServiceError wraps err for operation op unless it already is a
// RemoteServiceError.
func NewRemoteServiceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var rse *RemoteServiceError
	if errors.As(err, &rse) {
		return err
	}
	return &RemoteServiceError{Op: op, Err: err}
}
