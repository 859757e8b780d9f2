package gallery

// GenerationStatus is the state of the generate-and-poll cycle.
type GenerationStatus string

const (
	// StatusIdle means no generation has been started yet
	StatusIdle GenerationStatus = "Idle"

	// StatusSubmitting means the generate request is in flight
	StatusSubmitting GenerationStatus = "Submitting"

	// StatusPolling means the job was accepted and its metadata is being probed
	StatusPolling GenerationStatus = "Polling"

	// StatusDone means the metadata probe succeeded
	StatusDone GenerationStatus = "Done"

	// StatusTimedOut means every probe attempt failed
	StatusTimedOut GenerationStatus = "TimedOut"

	// StatusFailed means the submit request failed
	StatusFailed GenerationStatus = "Failed"

	// StatusCancelled means the task was torn down before finishing
	StatusCancelled GenerationStatus = "Cancelled"
)

func (s GenerationStatus) String() string {
	return string(s)
}

// IsActive returns true while a generation holds the in-flight gate
func (s GenerationStatus) IsActive() bool {
	return s == StatusSubmitting || s == StatusPolling
}

