package core

import "fmt"

// RunStatus is the lifecycle state of a run as reported by the service.
type RunStatus string

// Run statuses. Queued, InProgress and Cancelling are transient; the rest are
// terminal.
const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusIncomplete     RunStatus = "incomplete"
	RunStatusExpired        RunStatus = "expired"
)

// IsTerminal reports whether the service will not advance the run further.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusQueued, RunStatusInProgress, RunStatusCancelling:
		return false
	default:
		return true
	}
}

// RunError is the last error recorded by the service for a run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e RunError) String() string {
	switch {
	case e.Code == "" && e.Message == "":
		return "unknown error"
	case e.Code == "":
		return e.Message
	case e.Message == "":
		return e.Code
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Run is one synchronous invocation of an agent against a thread.
type Run struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	AgentID   string    `json:"agent_id"`
	Status    RunStatus `json:"status"`
	LastError *RunError `json:"last_error,omitempty"`
}

// Failed reports whether the run ended with status failed.
func (r Run) Failed() bool { return r.Status == RunStatusFailed }

// Failure returns a RunFailure describing a failed run, or nil.
func (r Run) Failure() *RunFailure {
	if !r.Failed() {
		return nil
	}
	f := &RunFailure{RunID: r.ID, ThreadID: r.ThreadID}
	if r.LastError != nil {
		f.Detail = *r.LastError
	}
	return f
}
