// Package status owns the single authoritative workflow status, the error
// state shown in a blocking notification, and the transient toast.
//
// Observers receive immutable snapshots in transition order. Delivery is
// serialized and happens outside the controller's lock, so an observer may
// call back into the controller.
package status

import (
	"fmt"

	"github.com/agbru/stockbot/internal/prediction"
)

// Status is the workflow state.
type Status int

const (
	// Idle means nothing is running and nothing is shown.
	Idle Status = iota
	// Loading means a request is in flight.
	Loading
	// Success means the current request settled without error.
	Success
	// Error means the current request failed. An ErrorState is present.
	Error
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ErrorState describes the failure behind an Error status.
type ErrorState struct {
	Message string
	// Step is the workflow step that failed, such as "validate",
	// "grab_data" or "run_echo".
	Step string
}

// Toast texts.
const (
	ToastLoading = "Fetching prediction..."
	ToastSuccess = "Prediction ready"
)

// Snapshot is an immutable view of the controller state.
type Snapshot struct {
	// Seq increases with every transition.
	Seq       uint64
	Status    Status
	Error     *ErrorState
	RequestID prediction.RequestID
	// Toast is the transient notice text. Empty when no toast is shown.
	Toast string
	// Blocking is true while the error notification must be dismissed
	// before any other interaction.
	Blocking bool
	// Notice is a non-fatal message attached to the current request.
	Notice string
}

// Observer is notified of every transition.
type Observer interface {
	OnStatus(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

// OnStatus calls f(s).
func (f ObserverFunc) OnStatus(s Snapshot) { f(s) }
