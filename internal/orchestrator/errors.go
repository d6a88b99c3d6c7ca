package orchestrator

import "fmt"

// Kind classifies an orchestrator error for the central error handler
// (spec.md §7). The handler, not the orchestrator, decides which kinds are
// fatal enough to stop the lifecycle controller.
type Kind int

const (
	// KindNoNetwork means the device has no network connectivity.
	KindNoNetwork Kind = iota
	// KindOutOfSpace means the cloud quota (or local disk) is exhausted.
	KindOutOfSpace
	// KindCloudUnavailable means the cloud service cannot be reached.
	KindCloudUnavailable
	// KindContainerNotFound means the cloud container URL could not be
	// resolved.
	KindContainerNotFound
	// KindFileUnavailable means one file's bytes are not currently
	// accessible; the next observation will re-derive the action.
	KindFileUnavailable
	// KindInternal is any other error; it is logged and sync continues.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNoNetwork:
		return "no_network"
	case KindOutOfSpace:
		return "out_of_space"
	case KindCloudUnavailable:
		return "cloud_unavailable"
	case KindContainerNotFound:
		return "container_not_found"
	case KindFileUnavailable:
		return "file_unavailable"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Fatal reports whether errors of this kind should stop sync (spec.md §7):
// NoNetwork, OutOfSpace, CloudUnavailable, and ContainerNotFound all stop;
// FileUnavailable and Internal are logged and sync continues.
func (k Kind) Fatal() bool {
	switch k {
	case KindNoNetwork, KindOutOfSpace, KindCloudUnavailable, KindContainerNotFound:
		return true
	default:
		return false
	}
}

// Error wraps an underlying error with its Kind, the action that produced
// it, and the file name involved, for the error handler and for logging.
type Error struct {
	Kind       Kind
	Action     string
	FileName   string
	Underlying error
}

func (e *Error) Error() string {
	if e.FileName != "" {
		return fmt.Sprintf("orchestrator: %s %s: %s: %v", e.Action, e.FileName, e.Kind, e.Underlying)
	}

	return fmt.Sprintf("orchestrator: %s: %s: %v", e.Action, e.Kind, e.Underlying)
}

func (e *Error) Unwrap() error { return e.Underlying }

// newError builds an *Error with the given kind, action, and file name.
func newError(kind Kind, action, fileName string, underlying error) *Error {
	return &Error{Kind: kind, Action: action, FileName: fileName, Underlying: underlying}
}
