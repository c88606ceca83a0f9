package tracker

import "github.com/manav03panchal/dailytracker/internal/model"

// HomeKind classifies the home screen state.
type HomeKind int

const (
	// HomeLoading means the first task snapshot has not arrived yet.
	HomeLoading HomeKind = iota
	// HomeEmpty means there are no tasks.
	HomeEmpty
	// HomeSuccess means at least one task exists.
	HomeSuccess
)

func (k HomeKind) String() string {
	switch k {
	case HomeLoading:
		return "loading"
	case HomeEmpty:
		return "empty"
	case HomeSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// HomeState is the derived view of the task list.
type HomeState struct {
	Kind  HomeKind
	Tasks []model.Task
}

// CheckInResult reports what a check-in attempt did. Check-ins never
// return errors; failures are logged and reported here.
type CheckInResult int

const (
	// CheckInInserted means a new log was written.
	CheckInInserted CheckInResult = iota
	// CheckInSkipped means a check-in for the same task was already in flight.
	CheckInSkipped
	// CheckInIgnored means the task id was blank or the amount was not positive.
	CheckInIgnored
	// CheckInTaskMissing means the task no longer exists.
	CheckInTaskMissing
	// CheckInFailed means the store rejected the write.
	CheckInFailed
)

func (r CheckInResult) String() string {
	switch r {
	case CheckInInserted:
		return "inserted"
	case CheckInSkipped:
		return "skipped"
	case CheckInIgnored:
		return "ignored"
	case CheckInTaskMissing:
		return "task missing"
	case CheckInFailed:
		return "failed"
	default:
		return "unknown"
	}
}
